package model

import (
	"strings"
	"time"
)

type Category string

const (
	CategoryPhotography        Category = "Photography"
	CategoryLabEquipment       Category = "Lab Equipment"
	CategoryMusicalInstruments Category = "Musical Instruments"
	CategorySports             Category = "Sports"
	CategoryElectronics        Category = "Electronics"
	CategoryProjectMaterials   Category = "Project Materials"
)

func (c Category) Valid() bool {
	switch c {
	case CategoryPhotography, CategoryLabEquipment, CategoryMusicalInstruments,
		CategorySports, CategoryElectronics, CategoryProjectMaterials:
		return true
	}
	return false
}

type Condition string

const (
	ConditionExcellent Condition = "EXCELLENT"
	ConditionGood      Condition = "GOOD"
	ConditionFair      Condition = "FAIR"
)

func (c Condition) Valid() bool {
	switch c {
	case ConditionExcellent, ConditionGood, ConditionFair:
		return true
	}
	return false
}

type Status string

const (
	StatusPending  Status = "PENDING"
	StatusApproved Status = "APPROVED"
	StatusRejected Status = "REJECTED"
	StatusReturned Status = "RETURNED"
)

// Terminal reports whether no further transition is possible.
// Terminal requests hold no reservation.
func (s Status) Terminal() bool {
	switch s {
	case StatusRejected, StatusReturned:
		return true
	case StatusPending, StatusApproved:
		return false
	}
	return false
}

func (s Status) CanTransitionTo(next Status) bool {
	switch s {
	case StatusPending:
		return next == StatusApproved || next == StatusRejected
	case StatusApproved:
		return next == StatusReturned
	case StatusRejected, StatusReturned:
		return false
	}
	return false
}

type Equipment struct {
	ID           int       `json:"-" db:"id"`
	EquipmentUid string    `json:"equipmentUid" db:"equipment_uid"`
	Name         string    `json:"name" db:"name"`
	Category     Category  `json:"category" db:"category"`
	Description  string    `json:"description" db:"description"`
	Condition    Condition `json:"condition" db:"condition"`
	Quantity     int       `json:"quantity" db:"quantity"`
	AvailableQty int       `json:"availableQty" db:"available_qty"`
	ImageUrl     string    `json:"imageUrl" db:"image_url"`
	CreatedAt    time.Time `json:"-" db:"created_at"`
	UpdatedAt    time.Time `json:"-" db:"updated_at"`
}

type BorrowRequest struct {
	ID           int        `json:"-" db:"id"`
	RequestUid   string     `json:"requestUid" db:"request_uid"`
	EquipmentUid string     `json:"equipmentUid" db:"equipment_uid"`
	Username     string     `json:"username" db:"username"`
	Quantity     int        `json:"quantity" db:"quantity"`
	Status       Status     `json:"status" db:"status"`
	RequestDate  time.Time  `json:"requestDate" db:"request_date"`
	DueDate      time.Time  `json:"dueDate" db:"due_date"`
	Notes        string     `json:"notes,omitempty" db:"notes"`
	ApprovedBy   *string    `json:"approvedBy,omitempty" db:"approved_by"`
	ApprovedDate *time.Time `json:"approvedDate,omitempty" db:"approved_date"`
	ReturnedDate *time.Time `json:"returnedDate,omitempty" db:"returned_date"`
}

// Date accepts the wire format "2006-01-02".
type Date struct {
	time.Time `json:",inline"`
}

func (d *Date) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "null" || s == "" {
		return nil
	}
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return err
	}
	d.Time = t
	return nil
}

func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.Format(time.DateOnly) + `"`), nil
}

type EquipmentSpec struct {
	Name        string    `json:"name" validate:"required"`
	Category    Category  `json:"category" validate:"required"`
	Description string    `json:"description"`
	Condition   Condition `json:"condition" validate:"required"`
	Quantity    int       `json:"quantity" validate:"required,gte=1"`
	ImageUrl    string    `json:"imageUrl"`
}

type EquipmentFilter struct {
	Category      Category
	AvailableOnly bool
	Keyword       string
}

type CreateBorrowRequest struct {
	EquipmentUid string `json:"equipmentUid" validate:"required,uuid4"`
	Quantity     int    `json:"quantity" validate:"required,gte=1"`
	DueDate      Date   `json:"dueDate" validate:"required"`
	Notes        string `json:"notes"`
	Username     string `validate:"required"`
}
