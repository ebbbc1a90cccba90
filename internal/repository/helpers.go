package repository

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

const (
	slotReservationConstraint = "ux_slot_reservations_slot"
	contractorPrimaryKey      = "contractors_pkey"
)

// isUniqueViolation checks if the error is a PostgreSQL unique violation
// on a constraint whose name contains constraintName
func isUniqueViolation(err error, constraintName string) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		// PostgreSQL error code 23505 = unique_violation
		return pgErr.Code == "23505" && strings.Contains(strings.ToLower(pgErr.ConstraintName), strings.ToLower(constraintName))
	}
	return false
}
