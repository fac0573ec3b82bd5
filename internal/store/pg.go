package store

import (
	"context"
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/plugin/dbresolver"

	"github.com/feral-file/trait-inventory/internal/domain"
	"github.com/feral-file/trait-inventory/internal/store/schema"
)

type pgStore struct {
	db *gorm.DB
}

func hasDBResolver(db *gorm.DB) bool {
	return db != nil && db.Callback().Query().Get("gorm:db_resolver") != nil
}

// NewPGStore creates a new PostgreSQL store instance
func NewPGStore(db *gorm.DB) Store {
	return &pgStore{db: db}
}

// ConfigureConnectionPool configures the connection pool settings for a GORM database connection.
// Zero values fall back to the defaults of NormalizeConnectionPoolSettings.
func ConfigureConnectionPool(db *gorm.DB, maxOpenConns, maxIdleConns int, connMaxLifetime, connMaxIdleTime time.Duration) error {
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	maxOpenConns, maxIdleConns, connMaxLifetime, connMaxIdleTime =
		NormalizeConnectionPoolSettings(maxOpenConns, maxIdleConns, connMaxLifetime, connMaxIdleTime)

	sqlDB.SetMaxOpenConns(maxOpenConns)
	sqlDB.SetMaxIdleConns(maxIdleConns)
	sqlDB.SetConnMaxLifetime(connMaxLifetime)
	sqlDB.SetConnMaxIdleTime(connMaxIdleTime)

	return nil
}

// NormalizeConnectionPoolSettings applies defaults and clamps pool settings into safe values.
//
// Defaults (when zero):
//   - MaxOpenConns: 20
//   - MaxIdleConns: 5
//   - ConnMaxLifetime: 5 minutes
//   - ConnMaxIdleTime: 10 minutes
func NormalizeConnectionPoolSettings(maxOpenConns, maxIdleConns int, connMaxLifetime, connMaxIdleTime time.Duration) (int, int, time.Duration, time.Duration) {
	if maxOpenConns <= 0 {
		maxOpenConns = 20
	}
	if maxIdleConns <= 0 {
		maxIdleConns = 5
	}
	if connMaxLifetime <= 0 {
		connMaxLifetime = 5 * time.Minute
	}
	if connMaxIdleTime <= 0 {
		connMaxIdleTime = 10 * time.Minute
	}

	// MaxIdleConns must not exceed MaxOpenConns
	if maxIdleConns > maxOpenConns {
		maxIdleConns = maxOpenConns
	}

	return maxOpenConns, maxIdleConns, connMaxLifetime, connMaxIdleTime
}

// ConfigureReadReplica routes plain reads to a read replica. Transactions and
// locking reads keep using the primary.
func ConfigureReadReplica(db *gorm.DB, readDSN string) error {
	if readDSN == "" {
		return nil
	}

	err := db.Use(dbresolver.Register(dbresolver.Config{
		Replicas: []gorm.Dialector{postgres.Open(readDSN)},
		Policy:   dbresolver.RandomPolicy{},
	}))
	if err != nil {
		return fmt.Errorf("failed to register read replica: %w", err)
	}

	return nil
}

// WithTx runs fn inside a single database transaction
func (s *pgStore) WithTx(ctx context.Context, fn func(tx Store) error) error {
	var fnErr error
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		fnErr = fn(&pgStore{db: tx})
		return fnErr
	})
	if fnErr != nil {
		return fnErr
	}
	if err != nil {
		return domain.NewStorageError("commit transaction", err)
	}
	return nil
}

// =============================================================================
// Trait catalog
// =============================================================================

// GetTrait retrieves a trait by ID
func (s *pgStore) GetTrait(ctx context.Context, traitID string) (*schema.Trait, error) {
	var trait schema.Trait
	err := s.db.WithContext(ctx).Where("id = ?", traitID).First(&trait).Error
	if err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, domain.NewStorageError("get trait", err)
	}
	return &trait, nil
}

// GetTraitForUpdate retrieves a trait and holds a row lock on it.
// Every reservation of the trait goes through this lock, which serializes the
// availability check with the insert across processes.
func (s *pgStore) GetTraitForUpdate(ctx context.Context, traitID string) (*schema.Trait, error) {
	var trait schema.Trait
	err := s.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", traitID).
		First(&trait).Error
	if err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, domain.NewStorageError("lock trait", err)
	}
	return &trait, nil
}

// DecrementTraitSupply decrements remaining supply of a limited trait by one.
// Unlimited traits are left untouched.
func (s *pgStore) DecrementTraitSupply(ctx context.Context, traitID string, now time.Time) error {
	var trait schema.Trait
	err := s.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", traitID).
		First(&trait).Error
	if err != nil {
		if isNotFound(err) {
			return domain.ErrTraitNotFound
		}
		return domain.NewStorageError("lock trait", err)
	}

	if trait.Unlimited() {
		return nil
	}
	if trait.RemainingSupply <= 0 {
		return domain.ErrSupplyExhausted
	}

	result := s.db.WithContext(ctx).
		Model(&schema.Trait{}).
		Where("id = ? AND remaining_supply > 0", traitID).
		Updates(map[string]interface{}{
			"remaining_supply": gorm.Expr("remaining_supply - 1"),
			"updated_at":       now,
		})
	if result.Error != nil {
		return domain.NewStorageError("decrement trait supply", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.ErrSupplyExhausted
	}

	return nil
}

// =============================================================================
// Reservations
// =============================================================================

// CreateReservation inserts a reservation in reserved status
func (s *pgStore) CreateReservation(ctx context.Context, input CreateReservationInput) (*schema.Reservation, error) {
	reservation := schema.Reservation{
		ID:            input.ID,
		TraitID:       input.TraitID,
		WalletAddress: input.WalletAddress,
		AssetID:       input.AssetID,
		Status:        schema.ReservationStatusReserved,
		ExpiresAt:     input.ExpiresAt,
		CreatedAt:     input.CreatedAt,
		UpdatedAt:     input.CreatedAt,
	}

	// Insert under a savepoint so that a unique violation does not abort the outer transaction
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(&reservation).Error
	})
	if err != nil {
		if isUniqueViolation(err) {
			return nil, domain.ErrReservationConflict
		}
		if isForeignKeyViolation(err) {
			return nil, domain.ErrTraitNotFound
		}
		return nil, domain.NewStorageError("create reservation", err)
	}

	return &reservation, nil
}

// GetReservationByID retrieves a reservation by ID
func (s *pgStore) GetReservationByID(ctx context.Context, id string) (*schema.Reservation, error) {
	var reservation schema.Reservation

	query := func(db *gorm.DB) error {
		return db.WithContext(ctx).Where("id = ?", id).First(&reservation).Error
	}

	err := query(s.db)
	if err == nil {
		return &reservation, nil
	}
	if !isNotFound(err) {
		return nil, domain.NewStorageError("get reservation", err)
	}
	if !hasDBResolver(s.db) {
		return nil, nil
	}

	// Replica can lag behind primary; retry on primary before returning not found.
	err = query(s.db.Clauses(dbresolver.Write))
	if err == nil {
		return &reservation, nil
	}
	if isNotFound(err) {
		return nil, nil
	}
	return nil, domain.NewStorageError("get reservation", err)
}

// GetReservationForUpdate retrieves a reservation and locks its row
func (s *pgStore) GetReservationForUpdate(ctx context.Context, id string) (*schema.Reservation, error) {
	var reservation schema.Reservation
	err := s.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).
		First(&reservation).Error
	if err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, domain.NewStorageError("lock reservation", err)
	}
	return &reservation, nil
}

// FindActiveReservation returns the active reservation of a tuple
func (s *pgStore) FindActiveReservation(ctx context.Context, traitID, walletAddress, assetID string, now time.Time) (*schema.Reservation, error) {
	var reservation schema.Reservation
	err := s.db.WithContext(ctx).
		Where("trait_id = ? AND wallet_address = ? AND asset_id = ?", traitID, walletAddress, assetID).
		Where("status = ? AND expires_at > ?", schema.ReservationStatusReserved, now).
		First(&reservation).Error
	if err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, domain.NewStorageError("find active reservation", err)
	}
	return &reservation, nil
}

// GetActiveReservationCount counts reserved, unexpired reservations of a trait
func (s *pgStore) GetActiveReservationCount(ctx context.Context, traitID string, now time.Time) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).
		Model(&schema.Reservation{}).
		Where("trait_id = ? AND status = ? AND expires_at > ?", traitID, schema.ReservationStatusReserved, now).
		Count(&count).Error
	if err != nil {
		return 0, domain.NewStorageError("count active reservations", err)
	}
	return count, nil
}

// GetActiveReservationCountByWallet counts reserved, unexpired reservations held by a wallet
func (s *pgStore) GetActiveReservationCountByWallet(ctx context.Context, walletAddress string, now time.Time) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).
		Model(&schema.Reservation{}).
		Where("wallet_address = ? AND status = ? AND expires_at > ?", walletAddress, schema.ReservationStatusReserved, now).
		Count(&count).Error
	if err != nil {
		return 0, domain.NewStorageError("count wallet reservations", err)
	}
	return count, nil
}

// GetActiveReservationsByWallet lists reserved, unexpired reservations held by a wallet, soonest expiry first
func (s *pgStore) GetActiveReservationsByWallet(ctx context.Context, walletAddress string, now time.Time) ([]schema.Reservation, error) {
	var reservations []schema.Reservation
	err := s.db.WithContext(ctx).
		Where("wallet_address = ? AND status = ? AND expires_at > ?", walletAddress, schema.ReservationStatusReserved, now).
		Order("expires_at ASC").
		Find(&reservations).Error
	if err != nil {
		return nil, domain.NewStorageError("list wallet reservations", err)
	}
	return reservations, nil
}

// GetHeldUnits counts active reservations and pending purchases in a single statement
// so both numbers come from the same snapshot
func (s *pgStore) GetHeldUnits(ctx context.Context, traitID string, now time.Time) (HeldUnits, error) {
	var held HeldUnits
	err := s.db.WithContext(ctx).Raw(`
SELECT
	(SELECT COUNT(*) FROM reservations
	  WHERE trait_id = ? AND status = ? AND expires_at > ?) AS active_reservations,
	(SELECT COUNT(*) FROM purchases
	  WHERE trait_id = ? AND status IN ?) AS pending_purchases`,
		traitID, schema.ReservationStatusReserved, now,
		traitID, schema.PendingPurchaseStatuses,
	).Scan(&held).Error
	if err != nil {
		return HeldUnits{}, domain.NewStorageError("count held units", err)
	}
	return held, nil
}

// CancelReservation flips a reserved reservation to cancelled
func (s *pgStore) CancelReservation(ctx context.Context, id string, now time.Time) (*schema.Reservation, error) {
	return s.transitionReservation(ctx, "cancel reservation", schema.ReservationStatusCancelled, now,
		"id = ? AND status = ?", id, schema.ReservationStatusReserved)
}

// ConsumeReservation flips a reserved, unexpired reservation to consumed
func (s *pgStore) ConsumeReservation(ctx context.Context, id string, now time.Time) (*schema.Reservation, error) {
	return s.transitionReservation(ctx, "consume reservation", schema.ReservationStatusConsumed, now,
		"id = ? AND status = ? AND expires_at > ?", id, schema.ReservationStatusReserved, now)
}

// transitionReservation applies a conditional status update and returns the updated row,
// or nil when the condition matched nothing
func (s *pgStore) transitionReservation(ctx context.Context, op string, status schema.ReservationStatus, now time.Time, query string, args ...interface{}) (*schema.Reservation, error) {
	var reservations []schema.Reservation
	result := s.db.WithContext(ctx).
		Model(&reservations).
		Clauses(clause.Returning{}).
		Where(query, args...).
		Updates(map[string]interface{}{
			"status":     status,
			"updated_at": now,
		})
	if result.Error != nil {
		if isInvalidID(result.Error) {
			return nil, nil
		}
		return nil, domain.NewStorageError(op, result.Error)
	}
	if result.RowsAffected == 0 || len(reservations) == 0 {
		return nil, nil
	}
	return &reservations[0], nil
}

// ExpireReservationsForTuple expires stale reserved rows of one tuple
func (s *pgStore) ExpireReservationsForTuple(ctx context.Context, traitID, walletAddress, assetID string, now time.Time) (int64, error) {
	result := s.db.WithContext(ctx).
		Model(&schema.Reservation{}).
		Where("trait_id = ? AND wallet_address = ? AND asset_id = ?", traitID, walletAddress, assetID).
		Where("status = ? AND expires_at <= ?", schema.ReservationStatusReserved, now).
		Updates(map[string]interface{}{
			"status":     schema.ReservationStatusExpired,
			"updated_at": now,
		})
	if result.Error != nil {
		return 0, domain.NewStorageError("expire tuple reservations", result.Error)
	}
	return result.RowsAffected, nil
}

// ExpireStaleReservations expires every reserved row whose expiry is at or before now.
// Rows locked by an in-flight consume are re-checked after the lock is released,
// so a row that became consumed is not matched.
func (s *pgStore) ExpireStaleReservations(ctx context.Context, now time.Time) (int64, error) {
	result := s.db.WithContext(ctx).
		Model(&schema.Reservation{}).
		Where("status = ? AND expires_at <= ?", schema.ReservationStatusReserved, now).
		Updates(map[string]interface{}{
			"status":     schema.ReservationStatusExpired,
			"updated_at": now,
		})
	if result.Error != nil {
		return 0, domain.NewStorageError("expire stale reservations", result.Error)
	}
	return result.RowsAffected, nil
}

// =============================================================================
// Purchases
// =============================================================================

// CreatePurchase inserts a purchase
func (s *pgStore) CreatePurchase(ctx context.Context, input CreatePurchaseInput) (*schema.Purchase, error) {
	purchase := schema.Purchase{
		ID:             input.ID,
		ReservationID:  input.ReservationID,
		WalletAddress:  input.WalletAddress,
		AssetID:        input.AssetID,
		TraitID:        input.TraitID,
		PriceAmount:    input.PriceAmount,
		TokenID:        input.TokenID,
		TreasuryWallet: input.TreasuryWallet,
		Status:         input.Status,
		TxSignature:    input.TxSignature,
		Metadata:       input.Metadata,
		CreatedAt:      input.CreatedAt,
		UpdatedAt:      input.CreatedAt,
	}

	err := s.db.WithContext(ctx).Create(&purchase).Error
	if err != nil {
		switch uniqueViolationConstraint(err) {
		case constraintPurchaseTxSignature:
			return nil, domain.ErrDuplicateSignature
		case constraintPurchaseReservation:
			// The reservation already produced a purchase
			return nil, domain.ErrReservationExpired
		}
		return nil, domain.NewStorageError("create purchase", err)
	}

	return &purchase, nil
}

// GetPurchaseByID retrieves a purchase by ID
func (s *pgStore) GetPurchaseByID(ctx context.Context, id string) (*schema.Purchase, error) {
	var purchase schema.Purchase

	query := func(db *gorm.DB) error {
		return db.WithContext(ctx).Where("id = ?", id).First(&purchase).Error
	}

	err := query(s.db)
	if err == nil {
		return &purchase, nil
	}
	if !isNotFound(err) {
		return nil, domain.NewStorageError("get purchase", err)
	}
	if !hasDBResolver(s.db) {
		return nil, nil
	}

	// Replica can lag behind primary; retry on primary before returning not found.
	err = query(s.db.Clauses(dbresolver.Write))
	if err == nil {
		return &purchase, nil
	}
	if isNotFound(err) {
		return nil, nil
	}
	return nil, domain.NewStorageError("get purchase", err)
}

// GetPurchaseForUpdate retrieves a purchase and locks its row
func (s *pgStore) GetPurchaseForUpdate(ctx context.Context, id string) (*schema.Purchase, error) {
	var purchase schema.Purchase
	err := s.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).
		First(&purchase).Error
	if err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, domain.NewStorageError("lock purchase", err)
	}
	return &purchase, nil
}

// GetPurchaseByTxSignature retrieves the purchase owning a signature
func (s *pgStore) GetPurchaseByTxSignature(ctx context.Context, txSignature string) (*schema.Purchase, error) {
	var purchase schema.Purchase
	err := s.db.WithContext(ctx).Where("tx_signature = ?", txSignature).First(&purchase).Error
	if err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, domain.NewStorageError("get purchase by signature", err)
	}
	return &purchase, nil
}

// UpdatePurchaseStatus writes a new status. The signature is only written while
// the stored one is null, so an already recorded signature is never overwritten.
func (s *pgStore) UpdatePurchaseStatus(ctx context.Context, input UpdatePurchaseStatusInput) (*schema.Purchase, error) {
	updates := map[string]interface{}{
		"status":     input.Status,
		"updated_at": input.UpdatedAt,
	}
	if input.FailureReason != nil {
		updates["failure_reason"] = *input.FailureReason
	}

	scope := s.db.WithContext(ctx).Where("id = ?", input.ID)
	if input.TxSignature != nil {
		updates["tx_signature"] = *input.TxSignature
		scope = scope.Where("tx_signature IS NULL OR tx_signature = ?", *input.TxSignature)
	}

	var purchases []schema.Purchase
	result := scope.Model(&purchases).Clauses(clause.Returning{}).Updates(updates)
	if result.Error != nil {
		if isUniqueViolation(result.Error) {
			return nil, domain.ErrDuplicateSignature
		}
		return nil, domain.NewStorageError("update purchase status", result.Error)
	}
	if result.RowsAffected == 0 || len(purchases) == 0 {
		if input.TxSignature != nil {
			// Either the purchase is gone or it carries another signature
			existing, err := s.GetPurchaseByID(ctx, input.ID)
			if err != nil {
				return nil, err
			}
			if existing != nil {
				return nil, domain.ErrSignatureAlreadySet
			}
		}
		return nil, domain.ErrPurchaseNotFound
	}

	return &purchases[0], nil
}
