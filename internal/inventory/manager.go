package inventory

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/alitto/pond/v2"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/datatypes"

	"github.com/feral-file/trait-inventory/internal/adapter"
	"github.com/feral-file/trait-inventory/internal/domain"
	"github.com/feral-file/trait-inventory/internal/ledger"
	"github.com/feral-file/trait-inventory/internal/logger"
	"github.com/feral-file/trait-inventory/internal/store"
	"github.com/feral-file/trait-inventory/internal/store/schema"
)

// Config holds the reservation policy
type Config struct {
	// ReservationTTL is how long a reservation holds its unit
	ReservationTTL time.Duration
	// MaxActiveReservationsPerWallet bounds the active holds of one wallet across traits
	MaxActiveReservationsPerWallet int
	// MaxTraitsPerRequest bounds a multi-trait reserve
	MaxTraitsPerRequest int
	// BulkCancelConcurrency is the worker count used by BulkCancelReservations
	BulkCancelConcurrency int
	// TreasuryWallet receives payments when a purchase draft does not name one
	TreasuryWallet string
}

func (c Config) withDefaults() Config {
	if c.ReservationTTL <= 0 {
		c.ReservationTTL = domain.DEFAULT_RESERVATION_TTL
	}
	if c.MaxActiveReservationsPerWallet <= 0 {
		c.MaxActiveReservationsPerWallet = domain.DEFAULT_MAX_ACTIVE_RESERVATIONS_PER_WALLET
	}
	if c.MaxTraitsPerRequest <= 0 {
		c.MaxTraitsPerRequest = domain.DEFAULT_MAX_TRAITS_PER_REQUEST
	}
	if c.BulkCancelConcurrency <= 0 {
		c.BulkCancelConcurrency = 8
	}
	return c
}

// Availability is the sellable state of a trait
type Availability struct {
	Available bool
	Unlimited bool
	// Remaining is the effective number of units left to reserve; 0 for unlimited traits
	Remaining          int
	ActiveReservations int64
	PendingPurchases   int64
}

// ReservationStatus is the lazily-expired view of a reservation
type ReservationStatus struct {
	Found       bool
	IsExpired   bool
	Reservation *schema.Reservation
}

// PurchaseDraft carries the caller-provided part of a purchase. Empty fields
// are filled from the trait (price, token) and the configured treasury.
type PurchaseDraft struct {
	PriceAmount    *decimal.Decimal
	TokenID        string
	TreasuryWallet string
	Status         schema.PurchaseStatus
	TxSignature    *string
	Metadata       datatypes.JSON
}

// Manager decides whether a trait unit can be reserved or bought and drives
// the reserve -> consume state machine
//
//go:generate mockgen -source=manager.go -destination=../mocks/inventory_manager.go -package=mocks -mock_names=Manager=MockInventoryManager
type Manager interface {
	// CheckInventoryAvailability computes the effective available supply of a trait
	CheckInventoryAvailability(ctx context.Context, traitID string) (*Availability, error)

	// CreateReservation reserves one unit of a trait for a wallet/asset pair.
	// An existing active reservation for the same tuple is returned unchanged.
	CreateReservation(ctx context.Context, traitID, walletAddress, assetID string) (*schema.Reservation, error)

	// HandleConcurrentReservation is CreateReservation that resolves a lost insert race
	// for the same tuple by returning the winner's reservation
	HandleConcurrentReservation(ctx context.Context, traitID, walletAddress, assetID string) (*schema.Reservation, error)

	// ReserveTraits reserves several traits for a wallet/asset pair, all or nothing
	ReserveTraits(ctx context.Context, traitIDs []string, walletAddress, assetID string) ([]*schema.Reservation, error)

	// GetReservationStatus reads a reservation applying the lazy expiry rule
	GetReservationStatus(ctx context.Context, reservationID string) (*ReservationStatus, error)

	// ConsumeReservation converts an active reservation into a purchase atomically
	ConsumeReservation(ctx context.Context, reservationID string, draft PurchaseDraft) (*schema.Purchase, error)

	// CancelReservation releases a reservation; nil when it was already terminal
	CancelReservation(ctx context.Context, reservationID string) (*schema.Reservation, error)

	// BulkCancelReservations cancels many reservations and returns how many transitioned
	BulkCancelReservations(ctx context.Context, reservationIDs []string) (int, error)

	// ListActiveReservations lists the unexpired reservations held by a wallet
	ListActiveReservations(ctx context.Context, walletAddress string) ([]schema.Reservation, error)
}

type manager struct {
	config Config
	store  store.Store
	ledger ledger.Ledger
	clock  adapter.Clock
}

// NewManager creates an inventory manager
func NewManager(cfg Config, st store.Store, l ledger.Ledger, clock adapter.Clock) Manager {
	return &manager{
		config: cfg.withDefaults(),
		store:  st,
		ledger: l,
		clock:  clock,
	}
}

func (m *manager) CheckInventoryAvailability(ctx context.Context, traitID string) (*Availability, error) {
	if !isUUID(traitID) {
		return nil, domain.ErrTraitNotFound
	}

	trait, err := m.store.GetTrait(ctx, traitID)
	if err != nil {
		return nil, err
	}
	if trait == nil {
		return nil, domain.ErrTraitNotFound
	}

	held, err := m.store.GetHeldUnits(ctx, traitID, m.clock.Now())
	if err != nil {
		return nil, err
	}

	return computeAvailability(trait, held), nil
}

// computeAvailability applies effective = max(0, remaining - active reservations - pending purchases).
// Pending purchases are counted because supply only decrements at fulfillment.
func computeAvailability(trait *schema.Trait, held store.HeldUnits) *Availability {
	a := &Availability{
		Unlimited:          trait.Unlimited(),
		ActiveReservations: held.ActiveReservations,
		PendingPurchases:   held.PendingPurchases,
	}
	if a.Unlimited {
		a.Available = true
		return a
	}

	effective := int64(trait.RemainingSupply) - held.ActiveReservations - held.PendingPurchases
	if effective < 0 {
		effective = 0
	}
	a.Remaining = int(effective)
	a.Available = effective >= 1
	return a
}

func (m *manager) CreateReservation(ctx context.Context, traitID, walletAddress, assetID string) (*schema.Reservation, error) {
	walletAddress, assetID, err := normalizeTuple(walletAddress, assetID)
	if err != nil {
		return nil, err
	}
	if !isUUID(traitID) {
		return nil, domain.ErrTraitNotFound
	}

	var reservation *schema.Reservation
	err = m.store.WithTx(ctx, func(tx store.Store) error {
		r, err := m.reserve(ctx, tx, traitID, walletAddress, assetID, m.clock.Now())
		if err != nil {
			return err
		}
		reservation = r
		return nil
	})
	if err != nil {
		return nil, err
	}

	return reservation, nil
}

// reserve runs the check-then-insert sequence for one trait. The trait row lock
// serializes concurrent reservations of the same trait until tx ends.
func (m *manager) reserve(ctx context.Context, tx store.Store, traitID, walletAddress, assetID string, now time.Time) (*schema.Reservation, error) {
	trait, err := tx.GetTraitForUpdate(ctx, traitID)
	if err != nil {
		return nil, err
	}
	if trait == nil {
		return nil, domain.ErrTraitNotFound
	}
	if !trait.Active {
		return nil, domain.ErrTraitInactive
	}

	existing, err := tx.FindActiveReservation(ctx, traitID, walletAddress, assetID, now)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		logger.DebugCtx(ctx, "Returning existing reservation",
			zap.String("reservationID", existing.ID),
			zap.String("traitID", traitID),
		)
		return existing, nil
	}

	// A reserved row past its expiry still occupies the partial unique index
	if _, err := tx.ExpireReservationsForTuple(ctx, traitID, walletAddress, assetID, now); err != nil {
		return nil, err
	}

	walletCount, err := tx.GetActiveReservationCountByWallet(ctx, walletAddress, now)
	if err != nil {
		return nil, err
	}
	if walletCount >= int64(m.config.MaxActiveReservationsPerWallet) {
		return nil, domain.ErrReservationLimitExceeded
	}

	if !trait.Unlimited() {
		held, err := tx.GetHeldUnits(ctx, traitID, now)
		if err != nil {
			return nil, err
		}
		if !computeAvailability(trait, held).Available {
			return nil, domain.ErrInsufficientInventory
		}
	}

	reservation, err := tx.CreateReservation(ctx, store.CreateReservationInput{
		ID:            uuid.NewString(),
		TraitID:       traitID,
		WalletAddress: walletAddress,
		AssetID:       assetID,
		ExpiresAt:     now.Add(m.config.ReservationTTL),
		CreatedAt:     now,
	})
	if err != nil {
		return nil, err
	}

	logger.InfoCtx(ctx, "Reservation created",
		zap.String("reservationID", reservation.ID),
		zap.String("traitID", traitID),
		zap.String("walletAddress", walletAddress),
		zap.String("assetID", assetID),
		zap.Time("expiresAt", reservation.ExpiresAt),
	)

	return reservation, nil
}

func (m *manager) HandleConcurrentReservation(ctx context.Context, traitID, walletAddress, assetID string) (*schema.Reservation, error) {
	reservation, err := m.CreateReservation(ctx, traitID, walletAddress, assetID)
	if err == nil {
		return reservation, nil
	}
	if !errors.Is(err, domain.ErrReservationConflict) {
		return nil, err
	}

	walletAddress, assetID, _ = normalizeTuple(walletAddress, assetID)
	winner, findErr := m.store.FindActiveReservation(ctx, traitID, walletAddress, assetID, m.clock.Now())
	if findErr != nil {
		return nil, findErr
	}
	if winner == nil {
		// The winner was consumed or cancelled in between; the caller may retry
		return nil, err
	}

	logger.InfoCtx(ctx, "Concurrent reservation resolved to existing row",
		zap.String("reservationID", winner.ID),
		zap.String("traitID", traitID),
	)
	return winner, nil
}

func (m *manager) ReserveTraits(ctx context.Context, traitIDs []string, walletAddress, assetID string) ([]*schema.Reservation, error) {
	walletAddress, assetID, err := normalizeTuple(walletAddress, assetID)
	if err != nil {
		return nil, err
	}

	ordered := uniqueSorted(traitIDs)
	if len(ordered) == 0 {
		return nil, fmt.Errorf("%w: at least one trait id is required", domain.ErrInvalidInput)
	}
	if len(ordered) > m.config.MaxTraitsPerRequest {
		return nil, fmt.Errorf("%w: at most %d traits per request", domain.ErrInvalidInput, m.config.MaxTraitsPerRequest)
	}
	for _, id := range ordered {
		if !isUUID(id) {
			return nil, fmt.Errorf("%w: %s", domain.ErrTraitNotFound, id)
		}
	}

	byTrait := make(map[string]*schema.Reservation, len(ordered))
	err = m.store.WithTx(ctx, func(tx store.Store) error {
		now := m.clock.Now()
		// Locking in sorted order keeps concurrent multi-trait requests deadlock free
		for _, id := range ordered {
			r, err := m.reserve(ctx, tx, id, walletAddress, assetID, now)
			if err != nil {
				return fmt.Errorf("trait %s: %w", id, err)
			}
			byTrait[id] = r
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	// Preserve request order
	reservations := make([]*schema.Reservation, 0, len(ordered))
	seen := make(map[string]bool, len(ordered))
	for _, id := range traitIDs {
		id = strings.TrimSpace(id)
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		reservations = append(reservations, byTrait[id])
	}
	return reservations, nil
}

func (m *manager) GetReservationStatus(ctx context.Context, reservationID string) (*ReservationStatus, error) {
	if !isUUID(reservationID) {
		return &ReservationStatus{Found: false}, nil
	}

	reservation, err := m.store.GetReservationByID(ctx, reservationID)
	if err != nil {
		return nil, err
	}
	if reservation == nil {
		return &ReservationStatus{Found: false}, nil
	}

	return &ReservationStatus{
		Found:       true,
		IsExpired:   isExpired(reservation, m.clock.Now()),
		Reservation: reservation,
	}, nil
}

// isExpired reports the lazy expiry rule: stored expired, or reserved past its expiry
func isExpired(r *schema.Reservation, now time.Time) bool {
	if r.Status == schema.ReservationStatusExpired {
		return true
	}
	return r.Status == schema.ReservationStatusReserved && !r.ExpiresAt.After(now)
}

func (m *manager) ConsumeReservation(ctx context.Context, reservationID string, draft PurchaseDraft) (*schema.Purchase, error) {
	if !isUUID(reservationID) {
		return nil, domain.ErrReservationNotFound
	}

	var purchase *schema.Purchase
	err := m.store.WithTx(ctx, func(tx store.Store) error {
		now := m.clock.Now()

		reservation, err := tx.GetReservationForUpdate(ctx, reservationID)
		if err != nil {
			return err
		}
		if reservation == nil {
			return domain.ErrReservationNotFound
		}
		if !reservation.IsActive(now) {
			return domain.ErrReservationExpired
		}

		consumed, err := tx.ConsumeReservation(ctx, reservationID, now)
		if err != nil {
			return err
		}
		if consumed == nil {
			return domain.ErrReservationExpired
		}

		trait, err := tx.GetTrait(ctx, consumed.TraitID)
		if err != nil {
			return err
		}
		if trait == nil {
			return domain.ErrTraitNotFound
		}

		purchase, err = m.ledger.Create(ctx, tx, m.purchaseInput(consumed, trait, draft))
		return err
	})
	if err != nil {
		if !domain.IsBusinessError(err) {
			logger.ErrorCtx(ctx, fmt.Errorf("failed to consume reservation: %w", err),
				zap.String("reservationID", reservationID),
			)
		}
		return nil, err
	}

	logger.InfoCtx(ctx, "Reservation consumed",
		zap.String("reservationID", reservationID),
		zap.String("purchaseID", purchase.ID),
	)

	return purchase, nil
}

func (m *manager) purchaseInput(r *schema.Reservation, trait *schema.Trait, draft PurchaseDraft) ledger.CreateInput {
	input := ledger.CreateInput{
		ReservationID:  r.ID,
		WalletAddress:  r.WalletAddress,
		AssetID:        r.AssetID,
		TraitID:        r.TraitID,
		PriceAmount:    trait.PriceAmount,
		TokenID:        trait.TokenID,
		TreasuryWallet: m.config.TreasuryWallet,
		Status:         draft.Status,
		TxSignature:    draft.TxSignature,
		Metadata:       draft.Metadata,
	}
	if draft.PriceAmount != nil {
		input.PriceAmount = *draft.PriceAmount
	}
	if draft.TokenID != "" {
		input.TokenID = draft.TokenID
	}
	if draft.TreasuryWallet != "" {
		input.TreasuryWallet = draft.TreasuryWallet
	}
	return input
}

func (m *manager) CancelReservation(ctx context.Context, reservationID string) (*schema.Reservation, error) {
	if !isUUID(reservationID) {
		return nil, nil
	}

	reservation, err := m.store.CancelReservation(ctx, reservationID, m.clock.Now())
	if err != nil {
		return nil, err
	}
	if reservation != nil {
		logger.InfoCtx(ctx, "Reservation cancelled", zap.String("reservationID", reservationID))
	}
	return reservation, nil
}

func (m *manager) BulkCancelReservations(ctx context.Context, reservationIDs []string) (int, error) {
	ids := uniqueSorted(reservationIDs)
	if len(ids) == 0 {
		return 0, nil
	}

	var cancelled, storageFailures atomic.Int32
	var (
		mu      sync.Mutex
		lastErr error
	)

	pool := pond.NewPool(m.config.BulkCancelConcurrency, pond.WithContext(ctx))
	for _, id := range ids {
		pool.Submit(func() {
			r, err := m.CancelReservation(ctx, id)
			if err != nil {
				logger.WarnCtx(ctx, "Failed to cancel reservation",
					zap.String("reservationID", id),
					zap.Error(err),
				)
				if errors.Is(err, domain.ErrStorageUnavailable) {
					storageFailures.Add(1)
					mu.Lock()
					lastErr = err
					mu.Unlock()
				}
				return
			}
			if r != nil {
				cancelled.Add(1)
			}
		})
	}
	pool.StopAndWait()

	if ctx.Err() != nil && int(cancelled.Load()) == 0 {
		return 0, ctx.Err()
	}
	if int(storageFailures.Load()) == len(ids) {
		return 0, lastErr
	}

	logger.InfoCtx(ctx, "Bulk cancellation completed",
		zap.Int("requested", len(ids)),
		zap.Int32("cancelled", cancelled.Load()),
		zap.Int32("storageFailures", storageFailures.Load()),
	)

	return int(cancelled.Load()), nil
}

func (m *manager) ListActiveReservations(ctx context.Context, walletAddress string) ([]schema.Reservation, error) {
	walletAddress = domain.NormalizeAddress(walletAddress)
	if walletAddress == "" {
		return nil, fmt.Errorf("%w: wallet address is required", domain.ErrInvalidInput)
	}
	return m.store.GetActiveReservationsByWallet(ctx, walletAddress, m.clock.Now())
}

func normalizeTuple(walletAddress, assetID string) (string, string, error) {
	walletAddress = domain.NormalizeAddress(walletAddress)
	assetID = strings.TrimSpace(assetID)
	if walletAddress == "" || assetID == "" {
		return "", "", fmt.Errorf("%w: wallet address and asset id are required", domain.ErrInvalidInput)
	}
	return walletAddress, assetID, nil
}

func uniqueSorted(ids []string) []string {
	set := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		if _, ok := set[id]; ok {
			continue
		}
		set[id] = struct{}{}
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

func isUUID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}
