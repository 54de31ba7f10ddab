package order

import (
	"errors"
	"time"
)

var (
	ErrNotFound        = errors.New("order: not found")
	ErrLineNotFound    = errors.New("order: line not found")
	ErrClientRequired  = errors.New("order: client id is required")
	ErrInvalidDelivery = errors.New("order: invalid delivery method")
	ErrInvalidStatus   = errors.New("order: invalid status")
	ErrInvalidTotal    = errors.New("order: total must be zero or greater")
)

type DeliveryMethod string

const (
	DeliveryHome      DeliveryMethod = "HOME_DELIVERY"
	DeliveryPickup    DeliveryMethod = "PICKUP"
	DeliveryDriveThru DeliveryMethod = "DRIVE_THRU"
)

func (m DeliveryMethod) Valid() bool {
	switch m {
	case DeliveryHome, DeliveryPickup, DeliveryDriveThru:
		return true
	}
	return false
}

type Status string

const (
	StatusPending    Status = "PENDING"
	StatusInProgress Status = "IN_PROGRESS"
	StatusDelivered  Status = "DELIVERED"
	StatusCancelled  Status = "CANCELLED"
)

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusInProgress, StatusDelivered, StatusCancelled:
		return true
	}
	return false
}

type Order struct {
	ID             uint64
	Date           time.Time
	Total          float64
	DeliveryMethod DeliveryMethod
	Status         Status
	ClientID       uint64
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// New builds a pending order. A zero date is filled with the current time,
// matching how orders are dated when the caller omits one.
func New(date time.Time, total float64, delivery DeliveryMethod, status Status, clientID uint64) (*Order, error) {
	if clientID == 0 {
		return nil, ErrClientRequired
	}
	if total < 0 {
		return nil, ErrInvalidTotal
	}
	if !delivery.Valid() {
		return nil, ErrInvalidDelivery
	}
	if status == "" {
		status = StatusPending
	}
	if !status.Valid() {
		return nil, ErrInvalidStatus
	}
	now := time.Now().UTC()
	if date.IsZero() {
		date = now
	}
	return &Order{
		Date:           date,
		Total:          total,
		DeliveryMethod: delivery,
		Status:         status,
		ClientID:       clientID,
		CreatedAt:      now,
		UpdatedAt:      now,
	}, nil
}
