package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TicketCategory is a named tier of seats for an event. Capacity is the
// live count of unsold seats; only the reservation service mutates it, and
// it never goes below zero.
type TicketCategory struct {
	ID             uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	EventID        uuid.UUID `gorm:"type:uuid;not null;index" json:"event_id"`
	Category       string    `gorm:"size:50;not null" json:"category"`
	Price          float64   `gorm:"not null" json:"price"`
	Capacity       int       `gorm:"not null;check:capacity >= 0" json:"capacity"`
	AgeRestriction string    `gorm:"size:10;not null;default:'0+'" json:"ageRestriction"`
	CreatedAt      time.Time `json:"-"`
	UpdatedAt      time.Time `json:"-"`
}

func (tc *TicketCategory) BeforeCreate(tx *gorm.DB) (err error) {
	if tc.ID == uuid.Nil {
		tc.ID = uuid.New()
	}
	if tc.AgeRestriction == "" {
		tc.AgeRestriction = "0+"
	}
	return
}
