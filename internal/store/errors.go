package store

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// Postgres error codes
const (
	pgCodeUniqueViolation     = "23505"
	pgCodeForeignKeyViolation = "23503"
	pgCodeInvalidTextRepr     = "22P02"
)

// Constraint names from db/init_pg_db.sql
const (
	constraintPurchaseReservation = "purchases_reservation_id_uniq"
	constraintPurchaseTxSignature = "purchases_tx_signature_uniq"
)

func pgError(err error) *pgconn.PgError {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr
	}
	return nil
}

// isNotFound reports whether a lookup matched no row. A malformed UUID can never
// match a row either, so it is reported the same way.
func isNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound) || isInvalidID(err)
}

func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	pgErr := pgError(err)
	return pgErr != nil && pgErr.Code == pgCodeUniqueViolation
}

// uniqueViolationConstraint returns the violated unique constraint, or "" when
// err is not a unique violation
func uniqueViolationConstraint(err error) string {
	pgErr := pgError(err)
	if pgErr == nil || pgErr.Code != pgCodeUniqueViolation {
		return ""
	}
	return pgErr.ConstraintName
}

func isForeignKeyViolation(err error) bool {
	if errors.Is(err, gorm.ErrForeignKeyViolated) {
		return true
	}
	pgErr := pgError(err)
	return pgErr != nil && pgErr.Code == pgCodeForeignKeyViolation
}

func isInvalidID(err error) bool {
	pgErr := pgError(err)
	return pgErr != nil && pgErr.Code == pgCodeInvalidTextRepr
}
