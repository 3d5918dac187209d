package service

import (
	"context"
	"strings"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/equiplend/lending-service/internal/errs"
	"github.com/equiplend/lending-service/internal/model"
	"github.com/equiplend/lending-service/internal/repository"
)

type Service struct {
	log  *zap.Logger
	repo repository.Repository
	pub  Publisher
}

func NewService(repo repository.Repository, pub Publisher, log *zap.Logger) *Service {
	return &Service{
		log:  log,
		repo: repo,
		pub:  pub,
	}
}

func (s *Service) CreateEquipment(ctx context.Context, spec model.EquipmentSpec) (model.Equipment, error) {
	if err := validateSpec(spec); err != nil {
		return model.Equipment{}, err
	}
	return s.repo.CreateEquipment(ctx, spec)
}

func (s *Service) UpdateEquipment(ctx context.Context, equipmentUid string, spec model.EquipmentSpec) (model.Equipment, error) {
	if err := validateSpec(spec); err != nil {
		return model.Equipment{}, err
	}
	return s.repo.UpdateEquipment(ctx, equipmentUid, spec)
}

func (s *Service) DeleteEquipment(ctx context.Context, equipmentUid string) error {
	return s.repo.DeleteEquipment(ctx, equipmentUid)
}

func (s *Service) GetEquipment(ctx context.Context, equipmentUid string) (model.Equipment, error) {
	return s.repo.GetEquipment(ctx, equipmentUid)
}

func (s *Service) ListEquipment(ctx context.Context, filter model.EquipmentFilter) ([]model.Equipment, error) {
	return s.repo.ListEquipment(ctx, filter)
}

// SubmitRequest reserves the units before the request exists, so two
// racing submissions can never both pass the availability check.
func (s *Service) SubmitRequest(ctx context.Context, req model.CreateBorrowRequest) (model.BorrowRequest, error) {
	if req.Quantity < 1 {
		return model.BorrowRequest{}, errors.Wrap(errs.ErrValidation, "quantity must be at least 1")
	}
	if !dateOnly(req.DueDate.Time).After(dateOnly(time.Now())) {
		return model.BorrowRequest{}, errors.Wrap(errs.ErrValidation, "due date must be after today")
	}
	br, err := s.repo.CreateRequest(ctx, req)
	if err != nil {
		return model.BorrowRequest{}, err
	}
	s.publish(newEvent(EventRequestSubmitted, br))
	return br, nil
}

func (s *Service) GetRequest(ctx context.Context, requestUid string) (model.BorrowRequest, error) {
	return s.repo.GetRequest(ctx, requestUid)
}

func (s *Service) ListRequests(ctx context.Context, username string) ([]model.BorrowRequest, error) {
	return s.repo.ListRequests(ctx, username)
}

func (s *Service) ApproveRequest(ctx context.Context, requestUid, approver string) (model.BorrowRequest, error) {
	br, err := s.repo.ApproveRequest(ctx, requestUid, approver)
	if err != nil {
		return model.BorrowRequest{}, err
	}
	s.publish(newEvent(EventRequestApproved, br))
	return br, nil
}

func (s *Service) RejectRequest(ctx context.Context, requestUid, approver string) (model.BorrowRequest, error) {
	br, err := s.repo.RejectRequest(ctx, requestUid, approver)
	if err != nil {
		return model.BorrowRequest{}, err
	}
	s.publish(newEvent(EventRequestRejected, br))
	return br, nil
}

func (s *Service) ReturnRequest(ctx context.Context, requestUid string) (model.BorrowRequest, error) {
	br, err := s.repo.ReturnRequest(ctx, requestUid)
	if err != nil {
		return model.BorrowRequest{}, err
	}
	s.publish(newEvent(EventRequestReturned, br))
	return br, nil
}

// ListOverdue recomputes the overdue set on every call. The result is a
// function of wall-clock time, so nothing here may be cached. An empty
// username returns the overdue requests of every borrower.
func (s *Service) ListOverdue(ctx context.Context, asOf time.Time, username string) ([]model.BorrowRequest, error) {
	return s.repo.ListOverdue(ctx, asOf, username)
}

func validateSpec(spec model.EquipmentSpec) error {
	if strings.TrimSpace(spec.Name) == "" {
		return errors.Wrap(errs.ErrValidation, "name must not be empty")
	}
	if spec.Quantity < 1 {
		return errors.Wrap(errs.ErrValidation, "quantity must be at least 1")
	}
	if !spec.Category.Valid() {
		return errors.Wrapf(errs.ErrValidation, "unknown category %q", spec.Category)
	}
	if !spec.Condition.Valid() {
		return errors.Wrapf(errs.ErrValidation, "unknown condition %q", spec.Condition)
	}
	return nil
}

func dateOnly(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
