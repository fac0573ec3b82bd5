package ledger

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/datatypes"

	"github.com/feral-file/trait-inventory/internal/adapter"
	"github.com/feral-file/trait-inventory/internal/domain"
	"github.com/feral-file/trait-inventory/internal/logger"
	"github.com/feral-file/trait-inventory/internal/store"
	"github.com/feral-file/trait-inventory/internal/store/schema"
)

// CreateInput is the data needed to record a purchase
type CreateInput struct {
	ReservationID  string
	WalletAddress  string
	AssetID        string
	TraitID        string
	PriceAmount    decimal.Decimal
	TokenID        string
	TreasuryWallet string
	// Status defaults to created; only created and tx_built are accepted
	Status      schema.PurchaseStatus
	TxSignature *string
	Metadata    datatypes.JSON
}

// Ledger records purchases and their settlement status
//
//go:generate mockgen -source=ledger.go -destination=../mocks/ledger.go -package=mocks -mock_names=Ledger=MockLedger
type Ledger interface {
	// Create inserts a purchase using st, which may be bound to the caller's transaction
	Create(ctx context.Context, st store.Store, input CreateInput) (*schema.Purchase, error)

	// UpdateStatus moves a purchase to status and optionally records its transaction signature.
	// changed is false when the purchase already had that status and signature.
	UpdateStatus(ctx context.Context, id string, status schema.PurchaseStatus, txSignature *string) (purchase *schema.Purchase, changed bool, err error)

	// Fail moves a purchase to failed with a reason, recording the failed transaction's signature when given
	Fail(ctx context.Context, id string, reason string, txSignature *string) (purchase *schema.Purchase, changed bool, err error)

	// FindByID returns the purchase or nil when it does not exist
	FindByID(ctx context.Context, id string) (*schema.Purchase, error)

	// FindByTxSignature returns the purchase owning txSignature or nil
	FindByTxSignature(ctx context.Context, txSignature string) (*schema.Purchase, error)
}

type ledger struct {
	store store.Store
	clock adapter.Clock
}

// New creates a purchase ledger
func New(st store.Store, clock adapter.Clock) Ledger {
	return &ledger{
		store: st,
		clock: clock,
	}
}

// allowedTransitions lists the statuses reachable from each non-terminal status
var allowedTransitions = map[schema.PurchaseStatus][]schema.PurchaseStatus{
	schema.PurchaseStatusCreated: {
		schema.PurchaseStatusTxBuilt,
		schema.PurchaseStatusConfirmed,
		schema.PurchaseStatusFailed,
	},
	schema.PurchaseStatusTxBuilt: {
		schema.PurchaseStatusConfirmed,
		schema.PurchaseStatusFailed,
	},
	schema.PurchaseStatusConfirmed: {
		schema.PurchaseStatusFulfilled,
		schema.PurchaseStatusFailed,
	},
}

// CanTransition reports whether a purchase may move from one status to another.
// Staying in the same status is allowed so redelivered confirmations are harmless.
func CanTransition(from, to schema.PurchaseStatus) bool {
	if from == to {
		return true
	}
	for _, next := range allowedTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

func (l *ledger) Create(ctx context.Context, st store.Store, input CreateInput) (*schema.Purchase, error) {
	if st == nil {
		st = l.store
	}

	status := input.Status
	if status == "" {
		status = schema.PurchaseStatusCreated
	}
	if status != schema.PurchaseStatusCreated && status != schema.PurchaseStatusTxBuilt {
		return nil, fmt.Errorf("%w: purchase cannot start in %s", domain.ErrInvalidStatusTransition, status)
	}
	if input.ReservationID == "" || input.TraitID == "" || input.WalletAddress == "" || input.AssetID == "" {
		return nil, fmt.Errorf("%w: reservation, trait, wallet and asset are required", domain.ErrInvalidInput)
	}
	if input.PriceAmount.IsNegative() {
		return nil, fmt.Errorf("%w: price amount must not be negative", domain.ErrInvalidInput)
	}

	txSignature := normalizeSignature(input.TxSignature)

	purchase, err := st.CreatePurchase(ctx, store.CreatePurchaseInput{
		ID:             uuid.NewString(),
		ReservationID:  input.ReservationID,
		WalletAddress:  input.WalletAddress,
		AssetID:        input.AssetID,
		TraitID:        input.TraitID,
		PriceAmount:    input.PriceAmount,
		TokenID:        input.TokenID,
		TreasuryWallet: input.TreasuryWallet,
		Status:         status,
		TxSignature:    txSignature,
		Metadata:       input.Metadata,
		CreatedAt:      l.clock.Now(),
	})
	if err != nil {
		return nil, err
	}

	logger.InfoCtx(ctx, "Purchase created",
		zap.String("purchaseID", purchase.ID),
		zap.String("reservationID", purchase.ReservationID),
		zap.String("traitID", purchase.TraitID),
		zap.String("status", string(purchase.Status)),
	)

	return purchase, nil
}

func (l *ledger) UpdateStatus(ctx context.Context, id string, status schema.PurchaseStatus, txSignature *string) (*schema.Purchase, bool, error) {
	return l.transition(ctx, id, status, normalizeSignature(txSignature), nil)
}

func (l *ledger) Fail(ctx context.Context, id string, reason string, txSignature *string) (*schema.Purchase, bool, error) {
	var failureReason *string
	if reason = strings.TrimSpace(reason); reason != "" {
		failureReason = &reason
	}
	return l.transition(ctx, id, schema.PurchaseStatusFailed, normalizeSignature(txSignature), failureReason)
}

func (l *ledger) transition(ctx context.Context, id string, status schema.PurchaseStatus, txSignature *string, failureReason *string) (*schema.Purchase, bool, error) {
	if !status.Valid() {
		return nil, false, fmt.Errorf("%w: unknown status %q", domain.ErrInvalidInput, status)
	}

	var updated *schema.Purchase
	changed := false
	err := l.store.WithTx(ctx, func(tx store.Store) error {
		current, err := tx.GetPurchaseForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if current == nil {
			return domain.ErrPurchaseNotFound
		}

		if !CanTransition(current.Status, status) {
			return fmt.Errorf("%w: %s -> %s", domain.ErrInvalidStatusTransition, current.Status, status)
		}

		sigChanges, err := checkSignature(ctx, tx, current, txSignature)
		if err != nil {
			return err
		}

		if current.Status == status && !sigChanges {
			updated = current
			return nil
		}
		changed = true

		updated, err = tx.UpdatePurchaseStatus(ctx, store.UpdatePurchaseStatusInput{
			ID:            id,
			Status:        status,
			TxSignature:   txSignature,
			FailureReason: failureReason,
			UpdatedAt:     l.clock.Now(),
		})
		if err != nil {
			return err
		}

		if status == schema.PurchaseStatusFulfilled {
			if err := tx.DecrementTraitSupply(ctx, current.TraitID, l.clock.Now()); err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		if !domain.IsBusinessError(err) {
			logger.ErrorCtx(ctx, err,
				zap.String("purchaseID", id),
				zap.String("status", string(status)),
			)
		}
		return nil, false, err
	}

	if !changed {
		logger.DebugCtx(ctx, "Purchase status unchanged",
			zap.String("purchaseID", updated.ID),
			zap.String("status", string(updated.Status)),
		)
		return updated, false, nil
	}

	logger.InfoCtx(ctx, "Purchase status updated",
		zap.String("purchaseID", updated.ID),
		zap.String("status", string(updated.Status)),
	)

	return updated, true, nil
}

// checkSignature enforces that a purchase carries at most one signature and that a
// signature belongs to a single purchase. It reports whether the update writes a new signature.
func checkSignature(ctx context.Context, tx store.Store, current *schema.Purchase, txSignature *string) (bool, error) {
	if txSignature == nil {
		return false, nil
	}

	if current.TxSignature != nil {
		if *current.TxSignature == *txSignature {
			return false, nil
		}
		return false, domain.ErrSignatureAlreadySet
	}

	owner, err := tx.GetPurchaseByTxSignature(ctx, *txSignature)
	if err != nil {
		return false, err
	}
	if owner != nil && owner.ID != current.ID {
		return false, domain.ErrDuplicateSignature
	}

	return true, nil
}

func (l *ledger) FindByID(ctx context.Context, id string) (*schema.Purchase, error) {
	return l.store.GetPurchaseByID(ctx, id)
}

func (l *ledger) FindByTxSignature(ctx context.Context, txSignature string) (*schema.Purchase, error) {
	txSignature = strings.TrimSpace(txSignature)
	if txSignature == "" {
		return nil, nil
	}
	return l.store.GetPurchaseByTxSignature(ctx, txSignature)
}

func normalizeSignature(sig *string) *string {
	if sig == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*sig)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
