package executor

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"gorm.io/datatypes"

	"github.com/feral-file/trait-inventory/internal/adapter"
	"github.com/feral-file/trait-inventory/internal/api/shared/constants"
	"github.com/feral-file/trait-inventory/internal/api/shared/dto"
	"github.com/feral-file/trait-inventory/internal/domain"
	"github.com/feral-file/trait-inventory/internal/inventory"
	"github.com/feral-file/trait-inventory/internal/ledger"
	"github.com/feral-file/trait-inventory/internal/logger"
	"github.com/feral-file/trait-inventory/internal/messaging"
	"github.com/feral-file/trait-inventory/internal/ratelimit"
	"github.com/feral-file/trait-inventory/internal/store/schema"
	"github.com/feral-file/trait-inventory/internal/sweeper"
)

// Executor is the interface for the API executor
//
//go:generate mockgen -source=executor.go -destination=../../../mocks/mock_api_executor.go -package=mocks -mock_names=Executor=MockAPIExecutor
type Executor interface {
	// CreateReservations reserves the requested traits for a wallet/asset pair, all or nothing
	CreateReservations(ctx context.Context, req dto.CreateReservationRequest) (*dto.CreateReservationsResponse, error)

	// GetReservation retrieves a reservation applying the lazy expiry rule
	GetReservation(ctx context.Context, reservationID string) (*dto.ReservationStatusResponse, error)

	// ListActiveReservations lists the active reservations of a wallet
	ListActiveReservations(ctx context.Context, walletAddress string) (*dto.ReservationListResponse, error)

	// CancelReservation cancels an active reservation
	CancelReservation(ctx context.Context, reservationID string) (*dto.ReservationResponse, error)

	// BulkCancelReservations cancels many reservations
	BulkCancelReservations(ctx context.Context, req dto.BulkCancelRequest) (*dto.BulkCancelResponse, error)

	// ConsumeReservation converts a reservation into a purchase
	ConsumeReservation(ctx context.Context, reservationID string, req dto.ConsumeReservationRequest) (*dto.PurchaseResponse, error)

	// GetTraitAvailability computes the effective available supply of a trait
	GetTraitAvailability(ctx context.Context, traitID string) (*dto.AvailabilityResponse, error)

	// GetPurchase retrieves a purchase
	GetPurchase(ctx context.Context, purchaseID string) (*dto.PurchaseResponse, error)

	// UpdatePurchaseStatus applies a settlement status change to a purchase
	UpdatePurchaseStatus(ctx context.Context, purchaseID string, req dto.UpdatePurchaseStatusRequest) (*dto.PurchaseResponse, error)

	// CleanupExpiredReservations runs one sweep of stale reservations
	CleanupExpiredReservations(ctx context.Context) (*dto.CleanupResponse, error)
}

type executor struct {
	inventory inventory.Manager
	ledger    ledger.Ledger
	sweeper   sweeper.ReservationSweeper
	publisher messaging.Publisher
	limiter   ratelimit.WalletLimiter
	clock     adapter.Clock
}

func NewExecutor(
	inventory inventory.Manager,
	ledger ledger.Ledger,
	sweeper sweeper.ReservationSweeper,
	publisher messaging.Publisher,
	limiter ratelimit.WalletLimiter,
	clock adapter.Clock,
) Executor {
	return &executor{
		inventory: inventory,
		ledger:    ledger,
		sweeper:   sweeper,
		publisher: publisher,
		limiter:   limiter,
		clock:     clock,
	}
}

func (e *executor) CreateReservations(ctx context.Context, req dto.CreateReservationRequest) (*dto.CreateReservationsResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	walletAddress := domain.NormalizeAddress(req.WalletAddress)

	decision, err := e.limiter.Allow(ctx, walletAddress)
	if err != nil {
		// Throttling is best effort; the per-wallet active limit still applies
		logger.WarnCtx(ctx, "Rate limiter unavailable", zap.Error(err), zap.String("walletAddress", walletAddress))
	} else if !decision.Allowed {
		return nil, &domain.RateLimitError{RetryAfter: decision.RetryAfter}
	}

	var reservations []*schema.Reservation
	if len(req.TraitIDs) == 1 {
		reservation, err := e.inventory.HandleConcurrentReservation(ctx, req.TraitIDs[0], walletAddress, req.AssetID)
		if err != nil {
			return nil, err
		}
		reservations = []*schema.Reservation{reservation}
	} else {
		reservations, err = e.inventory.ReserveTraits(ctx, req.TraitIDs, walletAddress, req.AssetID)
		if err != nil {
			return nil, err
		}
	}

	resp := &dto.CreateReservationsResponse{Reservations: make([]dto.ReservationResponse, len(reservations))}
	for i, r := range reservations {
		resp.Reservations[i] = *dto.MapReservationToDTO(r)
	}
	return resp, nil
}

func (e *executor) GetReservation(ctx context.Context, reservationID string) (*dto.ReservationStatusResponse, error) {
	status, err := e.inventory.GetReservationStatus(ctx, reservationID)
	if err != nil {
		return nil, err
	}
	return &dto.ReservationStatusResponse{
		Found:       status.Found,
		IsExpired:   status.IsExpired,
		Reservation: dto.MapReservationToDTO(status.Reservation),
	}, nil
}

func (e *executor) ListActiveReservations(ctx context.Context, walletAddress string) (*dto.ReservationListResponse, error) {
	if strings.TrimSpace(walletAddress) == "" {
		return nil, fmt.Errorf("%w: wallet_address is required", domain.ErrInvalidInput)
	}

	reservations, err := e.inventory.ListActiveReservations(ctx, walletAddress)
	if err != nil {
		return nil, err
	}

	resp := &dto.ReservationListResponse{Reservations: make([]dto.ReservationResponse, len(reservations))}
	for i := range reservations {
		resp.Reservations[i] = *dto.MapReservationToDTO(&reservations[i])
	}
	return resp, nil
}

func (e *executor) CancelReservation(ctx context.Context, reservationID string) (*dto.ReservationResponse, error) {
	reservation, err := e.inventory.CancelReservation(ctx, reservationID)
	if err != nil {
		return nil, err
	}
	if reservation != nil {
		return dto.MapReservationToDTO(reservation), nil
	}

	// Nothing transitioned: tell a missing reservation apart from a terminal one
	status, err := e.inventory.GetReservationStatus(ctx, reservationID)
	if err != nil {
		return nil, err
	}
	if !status.Found {
		return nil, domain.ErrReservationNotFound
	}
	return nil, fmt.Errorf("%w: reservation is %s", domain.ErrReservationExpired, status.Reservation.Status)
}

func (e *executor) BulkCancelReservations(ctx context.Context, req dto.BulkCancelRequest) (*dto.BulkCancelResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	count, err := e.inventory.BulkCancelReservations(ctx, req.ReservationIDs)
	if err != nil {
		return nil, err
	}
	return &dto.BulkCancelResponse{CancelledCount: count}, nil
}

func (e *executor) ConsumeReservation(ctx context.Context, reservationID string, req dto.ConsumeReservationRequest) (*dto.PurchaseResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	priceAmount, _ := req.ParsePriceAmount()
	draft := inventory.PurchaseDraft{
		PriceAmount:    priceAmount,
		TokenID:        req.TokenID,
		TreasuryWallet: req.TreasuryWallet,
		Status:         schema.PurchaseStatus(req.Status),
		TxSignature:    req.TxSignature,
	}
	if len(req.Metadata) > 0 {
		draft.Metadata = datatypes.JSON(req.Metadata)
	}

	purchase, err := e.inventory.ConsumeReservation(ctx, reservationID, draft)
	if err != nil {
		return nil, err
	}

	e.publish(ctx, domain.PurchaseEventCreated, purchase)

	return dto.MapPurchaseToDTO(purchase), nil
}

func (e *executor) GetTraitAvailability(ctx context.Context, traitID string) (*dto.AvailabilityResponse, error) {
	availability, err := e.inventory.CheckInventoryAvailability(ctx, traitID)
	if err != nil {
		return nil, err
	}
	return &dto.AvailabilityResponse{
		TraitID:            traitID,
		Available:          availability.Available,
		Unlimited:          availability.Unlimited,
		Remaining:          availability.Remaining,
		ActiveReservations: availability.ActiveReservations,
		PendingPurchases:   availability.PendingPurchases,
	}, nil
}

func (e *executor) GetPurchase(ctx context.Context, purchaseID string) (*dto.PurchaseResponse, error) {
	purchase, err := e.ledger.FindByID(ctx, purchaseID)
	if err != nil {
		return nil, err
	}
	if purchase == nil {
		return nil, domain.ErrPurchaseNotFound
	}
	return dto.MapPurchaseToDTO(purchase), nil
}

func (e *executor) UpdatePurchaseStatus(ctx context.Context, purchaseID string, req dto.UpdatePurchaseStatusRequest) (*dto.PurchaseResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	var purchase *schema.Purchase
	var changed bool
	var err error
	status := schema.PurchaseStatus(req.Status)
	if status == schema.PurchaseStatusFailed {
		reason := req.Reason
		if reason == "" {
			reason = constants.DEFAULT_FAILURE_REASON
		}
		purchase, changed, err = e.ledger.Fail(ctx, purchaseID, reason, req.TxSignature)
	} else {
		purchase, changed, err = e.ledger.UpdateStatus(ctx, purchaseID, status, req.TxSignature)
	}
	if err != nil {
		return nil, err
	}

	if changed {
		e.publish(ctx, domain.PurchaseEventStatusChanged, purchase)
	}

	return dto.MapPurchaseToDTO(purchase), nil
}

func (e *executor) CleanupExpiredReservations(ctx context.Context) (*dto.CleanupResponse, error) {
	result, err := e.sweeper.CleanupExpiredReservations(ctx)
	if err != nil {
		return nil, err
	}
	return &dto.CleanupResponse{CleanedCount: result.CleanedCount}, nil
}

// publish emits a purchase event after the change is committed. A failure is logged and never undoes the change.
func (e *executor) publish(ctx context.Context, eventType domain.PurchaseEventType, purchase *schema.Purchase) {
	event := messaging.NewPurchaseEvent(eventType, purchase, e.clock.Now())
	if err := e.publisher.PublishPurchaseEvent(ctx, event); err != nil {
		logger.ErrorCtx(ctx, fmt.Errorf("failed to publish purchase event: %w", err),
			zap.String("eventID", event.EventID),
			zap.String("purchaseID", purchase.ID),
			zap.String("type", string(eventType)),
		)
	}
}
