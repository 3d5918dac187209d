package handler

import (
	"context"
	"time"

	"github.com/equiplend/lending-service/internal/model"
	"github.com/equiplend/lending-service/internal/service"
)

//go:generate go run github.com/golang/mock/mockgen -source=service.go -destination=mocks/mock.go -package=mocks

type LendingService interface {
	CreateEquipment(ctx context.Context, spec model.EquipmentSpec) (model.Equipment, error)
	UpdateEquipment(ctx context.Context, equipmentUid string, spec model.EquipmentSpec) (model.Equipment, error)
	DeleteEquipment(ctx context.Context, equipmentUid string) error
	GetEquipment(ctx context.Context, equipmentUid string) (model.Equipment, error)
	ListEquipment(ctx context.Context, filter model.EquipmentFilter) ([]model.Equipment, error)

	SubmitRequest(ctx context.Context, req model.CreateBorrowRequest) (model.BorrowRequest, error)
	GetRequest(ctx context.Context, requestUid string) (model.BorrowRequest, error)
	ListRequests(ctx context.Context, username string) ([]model.BorrowRequest, error)
	ListOverdue(ctx context.Context, asOf time.Time, username string) ([]model.BorrowRequest, error)

	ApproveRequest(ctx context.Context, requestUid, approver string) (model.BorrowRequest, error)
	RejectRequest(ctx context.Context, requestUid, approver string) (model.BorrowRequest, error)
	ReturnRequest(ctx context.Context, requestUid string) (model.BorrowRequest, error)
}

var _ LendingService = (*service.Service)(nil)
