package repository

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/equiplend/lending-service/internal/errs"
	"github.com/equiplend/lending-service/internal/model"
)

// InmemRepository keeps the whole state in maps and serializes every
// ledger-touching mutation on a per-equipment mutex, mirroring the row
// lock the Postgres implementation relies on. It backs the service-level
// tests, where a stateful double is needed to observe the reservation
// arithmetic under contention.
type InmemRepository struct {
	mu        sync.RWMutex
	equipment map[string]*model.Equipment
	requests  map[string]*model.BorrowRequest
	locks     map[string]*sync.Mutex
}

var _ Repository = (*InmemRepository)(nil)

func NewInmemRepository() *InmemRepository {
	return &InmemRepository{
		equipment: make(map[string]*model.Equipment),
		requests:  make(map[string]*model.BorrowRequest),
		locks:     make(map[string]*sync.Mutex),
	}
}

func (r *InmemRepository) lockFor(equipmentUid string) *sync.Mutex {
	r.mu.Lock()
	defer r.mu.Unlock()
	l, ok := r.locks[equipmentUid]
	if !ok {
		l = &sync.Mutex{}
		r.locks[equipmentUid] = l
	}
	return l
}

func (r *InmemRepository) CreateEquipment(_ context.Context, spec model.EquipmentSpec) (model.Equipment, error) {
	now := time.Now().UTC()
	eq := &model.Equipment{
		EquipmentUid: uuid.NewString(),
		Name:         spec.Name,
		Category:     spec.Category,
		Description:  spec.Description,
		Condition:    spec.Condition,
		Quantity:     spec.Quantity,
		AvailableQty: spec.Quantity,
		ImageUrl:     spec.ImageUrl,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	r.mu.Lock()
	eq.ID = len(r.equipment) + 1
	r.equipment[eq.EquipmentUid] = eq
	r.mu.Unlock()
	return *eq, nil
}

func (r *InmemRepository) UpdateEquipment(_ context.Context, equipmentUid string, spec model.EquipmentSpec) (model.Equipment, error) {
	l := r.lockFor(equipmentUid)
	l.Lock()
	defer l.Unlock()

	eq := r.getEq(equipmentUid)
	if eq == nil {
		return model.Equipment{}, errs.ErrNotFound
	}
	loaned := eq.Quantity - eq.AvailableQty
	if spec.Quantity < loaned {
		return model.Equipment{}, errors.Wrap(errs.ErrConflict, "new quantity is below loaned units")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	eq.Name = spec.Name
	eq.Category = spec.Category
	eq.Description = spec.Description
	eq.Condition = spec.Condition
	eq.ImageUrl = spec.ImageUrl
	eq.AvailableQty += spec.Quantity - eq.Quantity
	eq.Quantity = spec.Quantity
	eq.UpdatedAt = time.Now().UTC()
	return *eq, nil
}

func (r *InmemRepository) DeleteEquipment(_ context.Context, equipmentUid string) error {
	l := r.lockFor(equipmentUid)
	l.Lock()
	defer l.Unlock()

	if r.getEq(equipmentUid) == nil {
		return errs.ErrNotFound
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, br := range r.requests {
		if br.EquipmentUid == equipmentUid && !br.Status.Terminal() {
			return errors.Wrap(errs.ErrConflict, "equipment has outstanding requests")
		}
	}
	delete(r.equipment, equipmentUid)
	return nil
}

func (r *InmemRepository) GetEquipment(_ context.Context, equipmentUid string) (model.Equipment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	eq, ok := r.equipment[equipmentUid]
	if !ok {
		return model.Equipment{}, errs.ErrNotFound
	}
	return *eq, nil
}

func (r *InmemRepository) ListEquipment(_ context.Context, filter model.EquipmentFilter) ([]model.Equipment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	items := make([]model.Equipment, 0, len(r.equipment))
	kw := strings.ToLower(filter.Keyword)
	for _, eq := range r.equipment {
		if filter.Category != "" && eq.Category != filter.Category {
			continue
		}
		if filter.AvailableOnly && eq.AvailableQty == 0 {
			continue
		}
		if kw != "" &&
			!strings.Contains(strings.ToLower(eq.Name), kw) &&
			!strings.Contains(strings.ToLower(eq.Description), kw) &&
			!strings.Contains(strings.ToLower(string(eq.Category)), kw) {
			continue
		}
		items = append(items, *eq)
	}
	sort.Slice(items, func(i, j int) bool { return items[i].Name < items[j].Name })
	return items, nil
}

func (r *InmemRepository) CreateRequest(_ context.Context, req model.CreateBorrowRequest) (model.BorrowRequest, error) {
	l := r.lockFor(req.EquipmentUid)
	l.Lock()
	defer l.Unlock()

	eq := r.getEq(req.EquipmentUid)
	if eq == nil {
		return model.BorrowRequest{}, errs.ErrNotFound
	}
	if eq.AvailableQty < req.Quantity {
		return model.BorrowRequest{}, errors.Wrapf(errs.ErrInsufficientAvailability, "available: %d", eq.AvailableQty)
	}

	br := &model.BorrowRequest{
		RequestUid:   uuid.NewString(),
		EquipmentUid: req.EquipmentUid,
		Username:     req.Username,
		Quantity:     req.Quantity,
		Status:       model.StatusPending,
		RequestDate:  time.Now().UTC(),
		DueDate:      req.DueDate.Time,
		Notes:        req.Notes,
	}
	r.mu.Lock()
	eq.AvailableQty -= req.Quantity
	br.ID = len(r.requests) + 1
	r.requests[br.RequestUid] = br
	r.mu.Unlock()
	return *br, nil
}

func (r *InmemRepository) GetRequest(_ context.Context, requestUid string) (model.BorrowRequest, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	br, ok := r.requests[requestUid]
	if !ok {
		return model.BorrowRequest{}, errs.ErrNotFound
	}
	return *br, nil
}

func (r *InmemRepository) ListRequests(_ context.Context, username string) ([]model.BorrowRequest, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	items := make([]model.BorrowRequest, 0, len(r.requests))
	for _, br := range r.requests {
		if username != "" && br.Username != username {
			continue
		}
		items = append(items, *br)
	}
	sort.Slice(items, func(i, j int) bool { return items[i].RequestDate.After(items[j].RequestDate) })
	return items, nil
}

func (r *InmemRepository) ListOverdue(_ context.Context, asOf time.Time, username string) ([]model.BorrowRequest, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	day := dateOnly(asOf)
	var items []model.BorrowRequest
	for _, br := range r.requests {
		if br.Status != model.StatusApproved || !dateOnly(br.DueDate).Before(day) {
			continue
		}
		if username != "" && br.Username != username {
			continue
		}
		items = append(items, *br)
	}
	sort.Slice(items, func(i, j int) bool { return items[i].DueDate.Before(items[j].DueDate) })
	return items, nil
}

func (r *InmemRepository) ApproveRequest(_ context.Context, requestUid, approver string) (model.BorrowRequest, error) {
	return r.advance(requestUid, model.StatusApproved, func(br *model.BorrowRequest, _ *model.Equipment) error {
		now := time.Now().UTC()
		br.Status = model.StatusApproved
		br.ApprovedBy = &approver
		br.ApprovedDate = &now
		return nil
	})
}

func (r *InmemRepository) RejectRequest(_ context.Context, requestUid, approver string) (model.BorrowRequest, error) {
	return r.advance(requestUid, model.StatusRejected, func(br *model.BorrowRequest, eq *model.Equipment) error {
		if err := releaseInmem(eq, br.Quantity); err != nil {
			return err
		}
		now := time.Now().UTC()
		br.Status = model.StatusRejected
		br.ApprovedBy = &approver
		br.ApprovedDate = &now
		return nil
	})
}

func (r *InmemRepository) ReturnRequest(_ context.Context, requestUid string) (model.BorrowRequest, error) {
	return r.advance(requestUid, model.StatusReturned, func(br *model.BorrowRequest, eq *model.Equipment) error {
		if err := releaseInmem(eq, br.Quantity); err != nil {
			return err
		}
		now := time.Now().UTC()
		br.Status = model.StatusReturned
		br.ReturnedDate = &now
		return nil
	})
}

// advance runs mutate under the request's equipment lock after checking
// the transition is legal, so racing staff actions pick one winner.
func (r *InmemRepository) advance(requestUid string, to model.Status, mutate func(*model.BorrowRequest, *model.Equipment) error) (model.BorrowRequest, error) {
	r.mu.RLock()
	br, ok := r.requests[requestUid]
	r.mu.RUnlock()
	if !ok {
		return model.BorrowRequest{}, errs.ErrNotFound
	}

	l := r.lockFor(br.EquipmentUid)
	l.Lock()
	defer l.Unlock()

	if !br.Status.CanTransitionTo(to) {
		return model.BorrowRequest{}, errors.Wrapf(errs.ErrInvalidTransition, "request is %s", br.Status)
	}
	eq := r.getEq(br.EquipmentUid)
	if eq == nil {
		return model.BorrowRequest{}, errors.Wrap(errs.ErrInvariantViolation, "request references missing equipment")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := mutate(br, eq); err != nil {
		return model.BorrowRequest{}, err
	}
	return *br, nil
}

func (r *InmemRepository) getEq(equipmentUid string) *model.Equipment {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.equipment[equipmentUid]
}

func releaseInmem(eq *model.Equipment, n int) error {
	if eq.AvailableQty+n > eq.Quantity {
		return errors.Wrapf(errs.ErrInvariantViolation, "release %d units", n)
	}
	eq.AvailableQty += n
	return nil
}

func dateOnly(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
