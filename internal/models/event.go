package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Event struct {
	ID               uuid.UUID        `gorm:"type:uuid;primary_key" json:"id"`
	Title            LocalizedText    `gorm:"type:text;not null" json:"title"`
	Description      LocalizedText    `gorm:"type:text" json:"description"`
	Date             time.Time        `gorm:"not null;index" json:"date"`
	Venue            LocalizedText    `gorm:"type:text;not null" json:"venue"`
	Category         string           `gorm:"size:50;not null;index" json:"category"`
	ImageURL         string           `gorm:"size:500" json:"image_url,omitempty"`
	TicketCategories []TicketCategory `gorm:"constraint:OnDelete:CASCADE" json:"tickets"`
	CreatedAt        time.Time        `json:"created_at"`
	UpdatedAt        time.Time        `json:"-"`
}

func (event *Event) BeforeCreate(tx *gorm.DB) (err error) {
	if event.ID == uuid.Nil {
		event.ID = uuid.New()
	}
	return
}

// AvailableTickets is the live available seat count for the event: the sum
// of stored category capacities. Capacity is adjusted at booking time, so
// no subtraction over booking history happens here.
func (event *Event) AvailableTickets() int {
	total := 0
	for _, tc := range event.TicketCategories {
		total += tc.Capacity
	}
	return total
}
