package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/ansidorov/bilet/internal/models"
)

type inventoryStore struct {
	db *gorm.DB
}

func NewInventoryStore(db *gorm.DB) InventoryStore {
	return &inventoryStore{db: db}
}

func (s *inventoryStore) InTx(ctx context.Context, fn func(tx InventoryTx) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&inventoryTx{tx: tx})
	})
}

type inventoryTx struct {
	tx *gorm.DB
}

func (t *inventoryTx) EventByID(ctx context.Context, id uuid.UUID) (*models.Event, error) {
	var event models.Event
	err := t.tx.WithContext(ctx).Where("id = ?", id).First(&event).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, models.ErrEventNotFound
	}
	if err != nil {
		return nil, err
	}
	return &event, nil
}

// TicketCategoriesForUpdate reads the event's categories under FOR UPDATE
// row locks. Locking per category row, in a stable order, keeps concurrent
// reservations on disjoint categories parallel and avoids lock-order
// deadlocks between competing bookings.
func (t *inventoryTx) TicketCategoriesForUpdate(ctx context.Context, eventID uuid.UUID) ([]models.TicketCategory, error) {
	var categories []models.TicketCategory
	err := t.tx.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("event_id = ?", eventID).
		Order("category").
		Find(&categories).Error
	if err != nil {
		return nil, err
	}
	return categories, nil
}

func (t *inventoryTx) AdjustCapacity(ctx context.Context, categoryID uuid.UUID, delta int) error {
	// The WHERE guard makes underflow impossible even if a caller got its
	// capacity check wrong; zero rows affected means the decrement would
	// have gone negative.
	res := t.tx.WithContext(ctx).Model(&models.TicketCategory{}).
		Where("id = ? AND capacity + ? >= 0", categoryID, delta).
		Update("capacity", gorm.Expr("capacity + ?", delta))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return models.ErrInsufficientCapacity
	}
	return nil
}

func (t *inventoryTx) CreateBooking(ctx context.Context, booking *models.Booking) error {
	return t.tx.WithContext(ctx).Create(booking).Error
}

func (t *inventoryTx) BookingForUpdate(ctx context.Context, id uuid.UUID) (*models.Booking, error) {
	var booking models.Booking
	err := t.tx.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).
		First(&booking).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, models.ErrBookingNotFound
	}
	if err != nil {
		return nil, err
	}
	return &booking, nil
}

func (t *inventoryTx) SaveBookingStatus(ctx context.Context, id uuid.UUID, status models.BookingStatus) error {
	return t.tx.WithContext(ctx).Model(&models.Booking{}).
		Where("id = ?", id).
		Update("status", status).Error
}
