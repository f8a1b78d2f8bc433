package service

import (
	"context"
	"fmt"

	"github.com/brianvoe/gofakeit/v7"
	"go.uber.org/zap"

	"customer-relay/internal/model"
	"customer-relay/internal/repository"
)

type SeedRepository interface {
	Count(ctx context.Context, ext repository.RepoExtension) (int, error)
	InsertCustomer(ctx context.Context, ext repository.RepoExtension, customer model.Customer) error
}

// SeedService fills an empty customer table with fake rows so the poller has
// something to relay on a fresh database.
type SeedService struct {
	log   *zap.Logger
	repo  SeedRepository
	faker *gofakeit.Faker
}

func NewSeedService(log *zap.Logger, repo SeedRepository, seed uint64) *SeedService {
	return &SeedService{
		log:   log,
		repo:  repo,
		faker: gofakeit.New(seed),
	}
}

// Seed inserts count customers with ids 1..count, only if the table is empty.
// It returns the number of inserted rows.
func (s *SeedService) Seed(ctx context.Context, count int) (int, error) {
	if count <= 0 {
		return 0, nil
	}

	existing, err := s.repo.Count(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to count customers: %w", err)
	}

	if existing > 0 {
		s.log.Debug("Customer table is not empty, skipping seed", zap.Int("existing", existing))
		return 0, nil
	}

	for id := 1; id <= count; id++ {
		customer := model.NewCustomer(id, s.faker.FirstName())

		if err := s.repo.InsertCustomer(ctx, nil, customer); err != nil {
			return id - 1, fmt.Errorf("failed to insert customer %d: %w", id, err)
		}
	}

	s.log.Info("Customer table seeded", zap.Int("count", count))

	return count, nil
}
