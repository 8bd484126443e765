package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"rentalhub/internal/common"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// QueryTimeout bounds every store call made by the repositories.
var QueryTimeout = 5 * time.Second

// Database is satisfied by *pgxpool.Pool and pgxmock pools.
type Database interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Begin(ctx context.Context) (pgx.Tx, error)
	Ping(ctx context.Context) error
}

// querier is the statement surface shared by pools and transactions.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

func withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, QueryTimeout)
}

const (
	pgUniqueViolation    = "23505"
	pgExclusionViolation = "23P01"
)

var conflictMessages = map[string]string{
	"users_email_key":             "user with this email already exists",
	"reviews_property_tenant_key": "you have already reviewed this property",
	"bookings_no_overlap":         "property is already booked for the selected dates",
}

// mapError translates pgx failures into application errors.
func mapError(err error, resource string) error {
	if err == nil {
		return nil
	}
	var appErr *common.AppError
	if errors.As(err, &appErr) {
		return err
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return common.NotFound(resource)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation, pgExclusionViolation:
			msg, ok := conflictMessages[pgErr.ConstraintName]
			if !ok {
				msg = fmt.Sprintf("%s already exists", resource)
			}
			return &common.AppError{Kind: common.KindConflict, Message: msg, Err: err}
		}
	}

	var connErr *pgconn.ConnectError
	if errors.Is(err, context.DeadlineExceeded) || errors.As(err, &connErr) || pgconn.Timeout(err) {
		return common.Unavailable(err)
	}
	return fmt.Errorf("%s store: %w", resource, err)
}
