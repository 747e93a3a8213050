package postgres

import (
	"errors"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
)

const (
	constraintUsername     = "users_username_key"
	constraintEmail        = "users_email_key"
	constraintUsernameLen  = "users_username_length"
	constraintTradeUser    = "trades_user_id_fkey"
	constraintTradePartner = "trades_partner_id_fkey"
	constraintDistinct     = "trades_distinct_parties"
)

// violation returns the constraint name when err is a Postgres error with
// the given SQLSTATE code.
func violation(err error, code string) (string, bool) {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == code {
		return pgErr.ConstraintName, true
	}
	return "", false
}

func uniqueViolation(err error) (string, bool) {
	return violation(err, pgerrcode.UniqueViolation)
}

func foreignKeyViolation(err error) (string, bool) {
	return violation(err, pgerrcode.ForeignKeyViolation)
}

func checkViolation(err error) (string, bool) {
	return violation(err, pgerrcode.CheckViolation)
}

// invalidText reports malformed input such as a non-UUID id.
func invalidText(err error) bool {
	_, ok := violation(err, pgerrcode.InvalidTextRepresentation)
	return ok
}
