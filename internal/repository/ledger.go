package repository

import (
	"context"
	"database/sql"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/equiplend/lending-service/internal/errs"
)

// availabilityLedger is the only code that writes equipment.available_qty.
// Both operations run inside the caller's transaction; the conditional
// update takes the row lock that serializes all mutations per equipment.
type availabilityLedger struct{}

func (availabilityLedger) reserve(ctx context.Context, tx *sqlx.Tx, equipmentUid string, n int) error {
	q := `
	update equipment
	set available_qty = available_qty - $2, updated_at = now()
	where equipment_uid = $1 and available_qty >= $2`
	res, err := tx.ExecContext(ctx, q, equipmentUid, n)
	if err != nil {
		return err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		var available int
		sel := `select available_qty from equipment where equipment_uid = $1`
		if err := tx.QueryRowContext(ctx, sel, equipmentUid).Scan(&available); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return errs.ErrNotFound
			}
			return err
		}
		return errors.Wrapf(errs.ErrInsufficientAvailability, "available: %d", available)
	}
	return nil
}

func (availabilityLedger) release(ctx context.Context, tx *sqlx.Tx, equipmentUid string, n int) error {
	q := `
	update equipment
	set available_qty = available_qty + $2, updated_at = now()
	where equipment_uid = $1`
	res, err := tx.ExecContext(ctx, q, equipmentUid, n)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.CheckViolation {
			return errors.Wrapf(errs.ErrInvariantViolation, "release %d units", n)
		}
		return err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		// a live request always pins its equipment row
		return errors.Wrap(errs.ErrInvariantViolation, "release against missing equipment")
	}
	return nil
}
