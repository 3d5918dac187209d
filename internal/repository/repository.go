package repository

import (
	"context"
	"database/sql"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/equiplend/lending-service/internal/errs"
	"github.com/equiplend/lending-service/internal/model"
)

type Repository interface {
	CreateEquipment(ctx context.Context, spec model.EquipmentSpec) (model.Equipment, error)
	UpdateEquipment(ctx context.Context, equipmentUid string, spec model.EquipmentSpec) (model.Equipment, error)
	DeleteEquipment(ctx context.Context, equipmentUid string) error
	GetEquipment(ctx context.Context, equipmentUid string) (model.Equipment, error)
	ListEquipment(ctx context.Context, filter model.EquipmentFilter) ([]model.Equipment, error)

	CreateRequest(ctx context.Context, req model.CreateBorrowRequest) (model.BorrowRequest, error)
	GetRequest(ctx context.Context, requestUid string) (model.BorrowRequest, error)
	ListRequests(ctx context.Context, username string) ([]model.BorrowRequest, error)
	ListOverdue(ctx context.Context, asOf time.Time, username string) ([]model.BorrowRequest, error)

	ApproveRequest(ctx context.Context, requestUid, approver string) (model.BorrowRequest, error)
	RejectRequest(ctx context.Context, requestUid, approver string) (model.BorrowRequest, error)
	ReturnRequest(ctx context.Context, requestUid string) (model.BorrowRequest, error)
}

type repository struct {
	db     *sqlx.DB
	ledger availabilityLedger
	log    *zap.Logger
}

func NewRepository(db *sqlx.DB, log *zap.Logger) (*repository, error) {
	return &repository{
		db:  db,
		log: log.Named("repo"),
	}, nil
}

const (
	equipmentTableName = `equipment`
	requestTableName   = `borrow_request`
)

var qb = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

func (r *repository) CreateEquipment(ctx context.Context, spec model.EquipmentSpec) (model.Equipment, error) {
	q, args, err := qb.Insert(equipmentTableName).
		Columns("equipment_uid", "name", "category", "description", "condition", "quantity", "available_qty", "image_url").
		Values(uuid.New(), spec.Name, spec.Category, spec.Description, spec.Condition, spec.Quantity, spec.Quantity, spec.ImageUrl).
		Suffix("returning *").
		ToSql()
	if err != nil {
		return model.Equipment{}, err
	}
	var eq model.Equipment
	if err := r.db.GetContext(ctx, &eq, q, args...); err != nil {
		r.log.Error("CreateEquipment", zap.String("q", q), zap.Any("args", args))
		return model.Equipment{}, err
	}
	return eq, nil
}

// UpdateEquipment applies the quantity delta to available_qty in the same
// statement, so a shrink below the currently loaned amount never commits.
func (r *repository) UpdateEquipment(ctx context.Context, equipmentUid string, spec model.EquipmentSpec) (model.Equipment, error) {
	q, args, err := qb.Update(equipmentTableName).
		Set("name", spec.Name).
		Set("category", spec.Category).
		Set("description", spec.Description).
		Set("condition", spec.Condition).
		Set("image_url", spec.ImageUrl).
		Set("available_qty", sq.Expr("available_qty + (? - quantity)", spec.Quantity)).
		Set("quantity", spec.Quantity).
		Set("updated_at", sq.Expr("now()")).
		Where(sq.Eq{"equipment_uid": equipmentUid}).
		Where(sq.Expr("? >= quantity - available_qty", spec.Quantity)).
		Suffix("returning *").
		ToSql()
	if err != nil {
		return model.Equipment{}, err
	}
	var eq model.Equipment
	if err := r.db.GetContext(ctx, &eq, q, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			if _, getErr := r.GetEquipment(ctx, equipmentUid); getErr != nil {
				return model.Equipment{}, getErr
			}
			return model.Equipment{}, errors.Wrap(errs.ErrConflict, "new quantity is below loaned units")
		}
		return model.Equipment{}, err
	}
	return eq, nil
}

func (r *repository) DeleteEquipment(ctx context.Context, equipmentUid string) error {
	q := `
	delete from equipment e
	where e.equipment_uid = $1
	  and not exists (
	    select 1 from borrow_request br
	    where br.equipment_uid = e.equipment_uid and br.status in ('PENDING', 'APPROVED')
	  )`
	res, err := r.db.ExecContext(ctx, q, equipmentUid)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		if _, getErr := r.GetEquipment(ctx, equipmentUid); getErr != nil {
			return getErr
		}
		return errors.Wrap(errs.ErrConflict, "equipment has outstanding requests")
	}
	return nil
}

func (r *repository) GetEquipment(ctx context.Context, equipmentUid string) (model.Equipment, error) {
	q, args, err := qb.Select("*").
		From(equipmentTableName).
		Where(sq.Eq{"equipment_uid": equipmentUid}).
		Limit(1).
		ToSql()
	if err != nil {
		return model.Equipment{}, err
	}
	var eq model.Equipment
	if err := r.db.GetContext(ctx, &eq, q, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Equipment{}, errs.ErrNotFound
		}
		return model.Equipment{}, err
	}
	return eq, nil
}

func (r *repository) ListEquipment(ctx context.Context, filter model.EquipmentFilter) ([]model.Equipment, error) {
	q := qb.Select("*").
		From(equipmentTableName).
		OrderBy("name")

	if filter.Category != "" {
		q = q.Where(sq.Eq{"category": filter.Category})
	}
	if filter.AvailableOnly {
		q = q.Where(sq.Gt{"available_qty": 0})
	}
	if filter.Keyword != "" {
		pattern := "%" + filter.Keyword + "%"
		q = q.Where(sq.Or{
			sq.ILike{"name": pattern},
			sq.ILike{"description": pattern},
			sq.ILike{"category": pattern},
		})
	}

	query, args, err := q.ToSql()
	if err != nil {
		return nil, err
	}
	var items []model.Equipment
	if err := r.db.SelectContext(ctx, &items, query, args...); err != nil {
		return nil, err
	}
	return items, nil
}

// CreateRequest reserves units and creates the PENDING request in one
// transaction. Either both land or neither does.
func (r *repository) CreateRequest(ctx context.Context, req model.CreateBorrowRequest) (model.BorrowRequest, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return model.BorrowRequest{}, err
	}
	defer tx.Rollback() //nolint:errcheck

	if err := r.ledger.reserve(ctx, tx, req.EquipmentUid, req.Quantity); err != nil {
		return model.BorrowRequest{}, err
	}

	q, args, err := qb.Insert(requestTableName).
		Columns("request_uid", "equipment_uid", "username", "quantity", "status", "due_date", "notes").
		Values(uuid.New(), req.EquipmentUid, req.Username, req.Quantity, model.StatusPending, req.DueDate.Format(time.DateOnly), req.Notes).
		Suffix("returning *").
		ToSql()
	if err != nil {
		return model.BorrowRequest{}, err
	}
	var br model.BorrowRequest
	if err := tx.GetContext(ctx, &br, q, args...); err != nil {
		r.log.Error("CreateRequest", zap.String("q", q), zap.Any("args", args))
		return model.BorrowRequest{}, err
	}
	if err := tx.Commit(); err != nil {
		return model.BorrowRequest{}, err
	}
	return br, nil
}

func (r *repository) GetRequest(ctx context.Context, requestUid string) (model.BorrowRequest, error) {
	q, args, err := qb.Select("*").
		From(requestTableName).
		Where(sq.Eq{"request_uid": requestUid}).
		Limit(1).
		ToSql()
	if err != nil {
		return model.BorrowRequest{}, err
	}
	var br model.BorrowRequest
	if err := r.db.GetContext(ctx, &br, q, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.BorrowRequest{}, errs.ErrNotFound
		}
		return model.BorrowRequest{}, err
	}
	return br, nil
}

func (r *repository) ListRequests(ctx context.Context, username string) ([]model.BorrowRequest, error) {
	q := qb.Select("*").
		From(requestTableName).
		OrderBy("request_date desc")
	if username != "" {
		q = q.Where(sq.Eq{"username": username})
	}
	query, args, err := q.ToSql()
	if err != nil {
		return nil, err
	}
	var items []model.BorrowRequest
	if err := r.db.SelectContext(ctx, &items, query, args...); err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repository) ListOverdue(ctx context.Context, asOf time.Time, username string) ([]model.BorrowRequest, error) {
	q := qb.Select("*").
		From(requestTableName).
		Where(sq.Eq{"status": model.StatusApproved}).
		Where(sq.Lt{"due_date": asOf.UTC().Format(time.DateOnly)}).
		OrderBy("due_date")
	if username != "" {
		q = q.Where(sq.Eq{"username": username})
	}
	query, args, err := q.ToSql()
	if err != nil {
		return nil, err
	}
	var items []model.BorrowRequest
	if err := r.db.SelectContext(ctx, &items, query, args...); err != nil {
		return nil, err
	}
	return items, nil
}

// ApproveRequest touches no ledger state: the units were reserved at
// submission. The status predicate makes concurrent approve/reject
// calls on one request resolve to a single winner.
func (r *repository) ApproveRequest(ctx context.Context, requestUid, approver string) (model.BorrowRequest, error) {
	q := `
	update borrow_request
	set status = $3, approved_by = $2, approved_date = now()
	where request_uid = $1 and status = $4
	returning *`
	var br model.BorrowRequest
	if err := r.db.GetContext(ctx, &br, q, requestUid, approver, model.StatusApproved, model.StatusPending); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.BorrowRequest{}, r.classifyTransition(ctx, requestUid)
		}
		return model.BorrowRequest{}, err
	}
	return br, nil
}

func (r *repository) RejectRequest(ctx context.Context, requestUid, approver string) (model.BorrowRequest, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return model.BorrowRequest{}, err
	}
	defer tx.Rollback() //nolint:errcheck

	q := `
	update borrow_request
	set status = $3, approved_by = $2, approved_date = now()
	where request_uid = $1 and status = $4
	returning *`
	var br model.BorrowRequest
	if err := tx.GetContext(ctx, &br, q, requestUid, approver, model.StatusRejected, model.StatusPending); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.BorrowRequest{}, r.classifyTransition(ctx, requestUid)
		}
		return model.BorrowRequest{}, err
	}
	if err := r.ledger.release(ctx, tx, br.EquipmentUid, br.Quantity); err != nil {
		return model.BorrowRequest{}, err
	}
	if err := tx.Commit(); err != nil {
		return model.BorrowRequest{}, err
	}
	return br, nil
}

func (r *repository) ReturnRequest(ctx context.Context, requestUid string) (model.BorrowRequest, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return model.BorrowRequest{}, err
	}
	defer tx.Rollback() //nolint:errcheck

	q := `
	update borrow_request
	set status = $2, returned_date = now()
	where request_uid = $1 and status = $3
	returning *`
	var br model.BorrowRequest
	if err := tx.GetContext(ctx, &br, q, requestUid, model.StatusReturned, model.StatusApproved); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.BorrowRequest{}, r.classifyTransition(ctx, requestUid)
		}
		return model.BorrowRequest{}, err
	}
	if err := r.ledger.release(ctx, tx, br.EquipmentUid, br.Quantity); err != nil {
		return model.BorrowRequest{}, err
	}
	if err := tx.Commit(); err != nil {
		return model.BorrowRequest{}, err
	}
	return br, nil
}

func (r *repository) classifyTransition(ctx context.Context, requestUid string) error {
	var status model.Status
	q := `select status from borrow_request where request_uid = $1`
	if err := r.db.QueryRowContext(ctx, q, requestUid).Scan(&status); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return errs.ErrNotFound
		}
		return err
	}
	return errors.Wrapf(errs.ErrInvalidTransition, "request is %s", status)
}
