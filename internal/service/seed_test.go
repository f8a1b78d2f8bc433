package service

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"customer-relay/internal/model"
	"customer-relay/internal/repository"
)

type memoryRepository struct {
	customers []model.Customer
	countErr  error
	failOnID  int
}

func (r *memoryRepository) Count(context.Context, repository.RepoExtension) (int, error) {
	return len(r.customers), r.countErr
}

func (r *memoryRepository) InsertCustomer(_ context.Context, _ repository.RepoExtension, customer model.Customer) error {
	if customer.ID == r.failOnID {
		return errors.New("duplicate key")
	}

	r.customers = append(r.customers, customer)

	return nil
}

func TestSeedService_SeedEmptyTable(t *testing.T) {
	repo := &memoryRepository{}
	svc := NewSeedService(zap.NewNop(), repo, 42)

	inserted, err := svc.Seed(context.Background(), 5)
	if err != nil {
		t.Fatalf("Seed() error = %v", err)
	}

	if inserted != 5 || len(repo.customers) != 5 {
		t.Fatalf("inserted = %d, rows = %d, want 5", inserted, len(repo.customers))
	}

	for i, c := range repo.customers {
		if c.ID != i+1 {
			t.Errorf("row %d id = %d, want %d", i, c.ID, i+1)
		}

		if c.Name == "" {
			t.Errorf("row %d has an empty name", i)
		}
	}
}

func TestSeedService_SeedIsDeterministic(t *testing.T) {
	first, second := &memoryRepository{}, &memoryRepository{}

	if _, err := NewSeedService(zap.NewNop(), first, 7).Seed(context.Background(), 3); err != nil {
		t.Fatalf("Seed() error = %v", err)
	}

	if _, err := NewSeedService(zap.NewNop(), second, 7).Seed(context.Background(), 3); err != nil {
		t.Fatalf("Seed() error = %v", err)
	}

	for i := range first.customers {
		if first.customers[i] != second.customers[i] {
			t.Errorf("row %d = %v and %v, want equal for the same seed", i, first.customers[i], second.customers[i])
		}
	}
}

func TestSeedService_SkipsNonEmptyTable(t *testing.T) {
	repo := &memoryRepository{customers: []model.Customer{model.NewCustomer(1, "Ada")}}
	svc := NewSeedService(zap.NewNop(), repo, 1)

	inserted, err := svc.Seed(context.Background(), 10)
	if err != nil {
		t.Fatalf("Seed() error = %v", err)
	}

	if inserted != 0 || len(repo.customers) != 1 {
		t.Errorf("inserted = %d, rows = %d, want 0 and 1", inserted, len(repo.customers))
	}
}

func TestSeedService_InsertFailure(t *testing.T) {
	repo := &memoryRepository{failOnID: 3}
	svc := NewSeedService(zap.NewNop(), repo, 1)

	inserted, err := svc.Seed(context.Background(), 5)
	if err == nil {
		t.Fatal("Seed() error = nil, want insert error")
	}

	if inserted != 2 {
		t.Errorf("inserted = %d, want 2", inserted)
	}
}

func TestSeedService_CountFailure(t *testing.T) {
	repo := &memoryRepository{countErr: errors.New("connection refused")}

	if _, err := NewSeedService(zap.NewNop(), repo, 1).Seed(context.Background(), 5); err == nil {
		t.Fatal("Seed() error = nil, want count error")
	}

	if len(repo.customers) != 0 {
		t.Errorf("rows = %d, want 0", len(repo.customers))
	}
}
