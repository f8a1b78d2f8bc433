package service

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"customer-relay/internal/apperrors"
	"customer-relay/internal/model"
)

type fakePublisher struct {
	err      error
	messages []model.Message
}

func (p *fakePublisher) Send(_ context.Context, msg model.Message) error {
	if p.err != nil {
		return p.err
	}

	p.messages = append(p.messages, msg)

	return nil
}

func ptr[T any](v T) *T {
	return &v
}

func TestCustomerService_Ingest(t *testing.T) {
	pub := &fakePublisher{}
	svc := NewCustomerService(zap.NewNop(), pub)

	msg, err := svc.Ingest(context.Background(), model.CustomerRequest{ID: ptr(3), Name: ptr("Grace")})
	if err != nil {
		t.Fatalf("Ingest() error = %v", err)
	}

	if msg.Source != model.SourceHTTP {
		t.Errorf("source = %q, want %q", msg.Source, model.SourceHTTP)
	}

	if len(pub.messages) != 1 || pub.messages[0].Payload != model.NewCustomer(3, "Grace") {
		t.Fatalf("published = %v, want one Grace", pub.messages)
	}

	if pub.messages[0].ID != msg.ID {
		t.Error("returned message differs from the published one")
	}
}

func TestCustomerService_IngestEmptyName(t *testing.T) {
	pub := &fakePublisher{}
	svc := NewCustomerService(zap.NewNop(), pub)

	if _, err := svc.Ingest(context.Background(), model.CustomerRequest{ID: ptr(0), Name: ptr("")}); err != nil {
		t.Fatalf("Ingest() error = %v", err)
	}

	if len(pub.messages) != 1 {
		t.Fatalf("published %d messages, want 1", len(pub.messages))
	}
}

func TestCustomerService_IngestMissingField(t *testing.T) {
	tests := []struct {
		name string
		req  model.CustomerRequest
	}{
		{name: "no id", req: model.CustomerRequest{Name: ptr("Grace")}},
		{name: "no name", req: model.CustomerRequest{ID: ptr(3)}},
		{name: "empty", req: model.CustomerRequest{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pub := &fakePublisher{}
			svc := NewCustomerService(zap.NewNop(), pub)

			if _, err := svc.Ingest(context.Background(), tt.req); !errors.Is(err, apperrors.ErrInvalidCustomer) {
				t.Fatalf("Ingest() error = %v, want %v", err, apperrors.ErrInvalidCustomer)
			}

			if len(pub.messages) != 0 {
				t.Errorf("published %d messages, want 0", len(pub.messages))
			}
		})
	}
}

func TestCustomerService_IngestPublishError(t *testing.T) {
	svc := NewCustomerService(zap.NewNop(), &fakePublisher{err: apperrors.ErrChannelFull})

	_, err := svc.Ingest(context.Background(), model.CustomerRequest{ID: ptr(1), Name: ptr("Ada")})
	if !errors.Is(err, apperrors.ErrChannelFull) {
		t.Fatalf("Ingest() error = %v, want wrapped %v", err, apperrors.ErrChannelFull)
	}
}
