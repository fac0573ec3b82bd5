package messaging

import (
	"context"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/feral-file/trait-inventory/internal/domain"
	"github.com/feral-file/trait-inventory/internal/store/schema"
)

// Publisher defines the interface for publishing purchase events to the message broker
//
//go:generate mockgen -source=publisher.go -destination=../mocks/publisher.go -package=mocks -mock_names=Publisher=MockPublisher
type Publisher interface {
	// PublishPurchaseEvent publishes a purchase lifecycle event
	PublishPurchaseEvent(ctx context.Context, event *domain.PurchaseEvent) error
	// Close closes the connection
	Close()
}

// NewPurchaseEvent builds the event describing purchase p at time now
func NewPurchaseEvent(eventType domain.PurchaseEventType, p *schema.Purchase, now time.Time) *domain.PurchaseEvent {
	return &domain.PurchaseEvent{
		EventID:       ulid.MustNew(ulid.Timestamp(now), ulid.DefaultEntropy()).String(),
		Type:          eventType,
		PurchaseID:    p.ID,
		ReservationID: p.ReservationID,
		TraitID:       p.TraitID,
		WalletAddress: p.WalletAddress,
		AssetID:       p.AssetID,
		Status:        string(p.Status),
		TxSignature:   p.TxSignature,
		OccurredAt:    now,
	}
}

type noopPublisher struct{}

// NewNoopPublisher returns a publisher that drops every event. It is used when no broker is configured.
func NewNoopPublisher() Publisher {
	return noopPublisher{}
}

func (noopPublisher) PublishPurchaseEvent(context.Context, *domain.PurchaseEvent) error {
	return nil
}

func (noopPublisher) Close() {}
