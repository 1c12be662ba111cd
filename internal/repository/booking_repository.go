package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ansidorov/bilet/internal/models"
)

type bookingRepository struct {
	db *gorm.DB
}

func NewBookingRepository(db *gorm.DB) BookingRepository {
	return &bookingRepository{db: db}
}

func (r *bookingRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Booking, error) {
	var booking models.Booking
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&booking).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, models.ErrBookingNotFound
	}
	if err != nil {
		return nil, err
	}
	return &booking, nil
}

func (r *bookingRepository) ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]models.Booking, int64, error) {
	return r.list(ctx, r.db.WithContext(ctx).Model(&models.Booking{}).Where("user_id = ?", userID), limit, offset)
}

func (r *bookingRepository) List(ctx context.Context, limit, offset int) ([]models.Booking, int64, error) {
	return r.list(ctx, r.db.WithContext(ctx).Model(&models.Booking{}), limit, offset)
}

func (r *bookingRepository) list(ctx context.Context, query *gorm.DB, limit, offset int) ([]models.Booking, int64, error) {
	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var bookings []models.Booking
	err := query.Order("created_at DESC").Limit(limit).Offset(offset).Find(&bookings).Error
	if err != nil {
		return nil, 0, err
	}
	return bookings, total, nil
}

func (r *bookingRepository) CountActiveByEvent(ctx context.Context, eventID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Booking{}).
		Where("event_id = ? AND status <> ?", eventID, models.StatusCancelled).
		Count(&count).Error
	return count, err
}
