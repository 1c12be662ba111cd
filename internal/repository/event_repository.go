package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ansidorov/bilet/internal/models"
)

type eventRepository struct {
	db *gorm.DB
}

func NewEventRepository(db *gorm.DB) EventRepository {
	return &eventRepository{db: db}
}

func (r *eventRepository) Create(ctx context.Context, event *models.Event) error {
	// gorm persists the event and its TicketCategories association in a
	// single transaction.
	return r.db.WithContext(ctx).Create(event).Error
}

func (r *eventRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Event, error) {
	var event models.Event
	err := r.db.WithContext(ctx).Preload("TicketCategories").Where("id = ?", id).First(&event).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, models.ErrEventNotFound
	}
	if err != nil {
		return nil, err
	}
	return &event, nil
}

func (r *eventRepository) List(ctx context.Context, filter EventFilter, limit, offset int) ([]models.Event, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Event{})
	if filter.Category != "" {
		query = query.Where("category = ?", filter.Category)
	}
	if filter.DateFrom != nil {
		query = query.Where("date >= ?", *filter.DateFrom)
	}
	if filter.DateTo != nil {
		query = query.Where("date < ?", *filter.DateTo)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var events []models.Event
	err := query.Preload("TicketCategories").
		Order("date DESC").
		Limit(limit).Offset(offset).
		Find(&events).Error
	if err != nil {
		return nil, 0, err
	}
	return events, total, nil
}

func (r *eventRepository) Save(ctx context.Context, event *models.Event) error {
	return r.db.WithContext(ctx).Omit("TicketCategories").Save(event).Error
}

func (r *eventRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Deleting the categories first takes the same row locks a
		// reservation for this event holds, so any reservation in flight
		// commits or aborts before the booking recheck below.
		if err := tx.Where("event_id = ?", id).Delete(&models.TicketCategory{}).Error; err != nil {
			return err
		}

		var active int64
		err := tx.Model(&models.Booking{}).
			Where("event_id = ? AND status <> ?", id, models.StatusCancelled).
			Count(&active).Error
		if err != nil {
			return err
		}
		if active > 0 {
			return models.ErrConflict
		}

		res := tx.Where("id = ?", id).Delete(&models.Event{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return models.ErrEventNotFound
		}
		return nil
	})
}

func (r *eventRepository) AddTicketCategory(ctx context.Context, tc *models.TicketCategory) error {
	return r.db.WithContext(ctx).Create(tc).Error
}

func (r *eventRepository) TicketCategoriesByEvent(ctx context.Context, eventID uuid.UUID) ([]models.TicketCategory, error) {
	var categories []models.TicketCategory
	err := r.db.WithContext(ctx).
		Where("event_id = ?", eventID).
		Order("category").
		Find(&categories).Error
	if err != nil {
		return nil, err
	}
	return categories, nil
}
