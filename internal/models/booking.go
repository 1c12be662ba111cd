package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type BookingStatus string

const (
	StatusPending   BookingStatus = "pending"
	StatusConfirmed BookingStatus = "confirmed"
	StatusCancelled BookingStatus = "cancelled"
)

func (s BookingStatus) Valid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCancelled:
		return true
	}
	return false
}

// Booking is one purchase covering one or more seats, possibly across
// several ticket categories. Cancellation is a soft delete: the row stays,
// status flips to cancelled and the seats return to the category pools.
type Booking struct {
	ID         uuid.UUID     `gorm:"type:uuid;primary_key" json:"id"`
	UserID     uuid.UUID     `gorm:"type:uuid;not null;index" json:"user_id"`
	EventID    uuid.UUID     `gorm:"type:uuid;not null;index" json:"event_id"`
	Seats      SeatList      `gorm:"type:text;not null" json:"seats"`
	TotalPrice float64       `gorm:"not null" json:"total_price"`
	Status     BookingStatus `gorm:"size:20;not null;default:'pending'" json:"status"`
	CreatedAt  time.Time     `json:"created_at"`
}

func (booking *Booking) BeforeCreate(tx *gorm.DB) (err error) {
	if booking.ID == uuid.Nil {
		booking.ID = uuid.New()
	}
	if booking.Status == "" {
		booking.Status = StatusPending
	}
	return
}
