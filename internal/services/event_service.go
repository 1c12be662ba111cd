package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/ansidorov/bilet/internal/models"
	"github.com/ansidorov/bilet/internal/repository"
)

// EventService is the catalog: event CRUD plus ticket-category management.
// It never touches capacity counters beyond setting the initial values on
// creation; live inventory belongs to the reservation service.
type EventService interface {
	Create(ctx context.Context, req CreateEventRequest) (*models.Event, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Event, error)
	List(ctx context.Context, filter repository.EventFilter, page, perPage int) (*EventPage, error)
	Update(ctx context.Context, id uuid.UUID, req UpdateEventRequest) (*models.Event, error)
	Delete(ctx context.Context, id uuid.UUID) error
	AddTicketCategory(ctx context.Context, eventID uuid.UUID, req TicketCategoryRequest) (*models.TicketCategory, error)
	ListTicketCategories(ctx context.Context, eventID uuid.UUID) ([]models.TicketCategory, error)
}

type TicketCategoryRequest struct {
	Category       string  `json:"category" binding:"required"`
	Price          float64 `json:"price"`
	Capacity       int     `json:"capacity"`
	AgeRestriction string  `json:"ageRestriction"`
}

type CreateEventRequest struct {
	Title       models.LocalizedText    `json:"title" binding:"required"`
	Description models.LocalizedText    `json:"description"`
	Date        time.Time               `json:"date" binding:"required"`
	Venue       models.LocalizedText    `json:"venue" binding:"required"`
	Category    string                  `json:"category" binding:"required"`
	ImageURL    string                  `json:"image_url"`
	Tickets     []TicketCategoryRequest `json:"tickets" binding:"required"`
}

// UpdateEventRequest carries partial updates; nil fields stay untouched.
type UpdateEventRequest struct {
	Title       *models.LocalizedText `json:"title"`
	Description *models.LocalizedText `json:"description"`
	Date        *time.Time            `json:"date"`
	Venue       *models.LocalizedText `json:"venue"`
	Category    *string               `json:"category"`
	ImageURL    *string               `json:"image_url"`
}

type EventPage struct {
	Events  []models.Event
	Total   int64
	Page    int
	PerPage int
}

func (p *EventPage) Pages() int64 {
	if p.PerPage <= 0 {
		return 0
	}
	return (p.Total + int64(p.PerPage) - 1) / int64(p.PerPage)
}

type eventService struct {
	events   repository.EventRepository
	bookings repository.BookingRepository
}

func NewEventService(events repository.EventRepository, bookings repository.BookingRepository) EventService {
	return &eventService{events: events, bookings: bookings}
}

func validateTicketCategory(req TicketCategoryRequest) error {
	if req.Category == "" {
		return fmt.Errorf("%w: ticket category label is required", models.ErrValidation)
	}
	if req.Price < 0 {
		return fmt.Errorf("%w: ticket price must not be negative", models.ErrValidation)
	}
	if req.Capacity < 0 {
		return fmt.Errorf("%w: ticket capacity must not be negative", models.ErrValidation)
	}
	return nil
}

func (s *eventService) Create(ctx context.Context, req CreateEventRequest) (*models.Event, error) {
	if err := req.Title.Validate("title"); err != nil {
		return nil, err
	}
	if err := req.Venue.Validate("venue"); err != nil {
		return nil, err
	}
	if req.Date.IsZero() {
		return nil, fmt.Errorf("%w: invalid date format", models.ErrValidation)
	}
	if req.Category == "" {
		return nil, fmt.Errorf("%w: category is required", models.ErrValidation)
	}
	if len(req.Tickets) == 0 {
		return nil, fmt.Errorf("%w: at least one ticket category is required", models.ErrValidation)
	}

	description := req.Description
	if description == nil {
		description = models.DefaultLocalizedText()
	}

	event := &models.Event{
		ID:          uuid.New(),
		Title:       req.Title,
		Description: description,
		Date:        req.Date,
		Venue:       req.Venue,
		Category:    req.Category,
		ImageURL:    req.ImageURL,
	}
	for _, t := range req.Tickets {
		if err := validateTicketCategory(t); err != nil {
			return nil, err
		}
		event.TicketCategories = append(event.TicketCategories, models.TicketCategory{
			ID:             uuid.New(),
			EventID:        event.ID,
			Category:       t.Category,
			Price:          t.Price,
			Capacity:       t.Capacity,
			AgeRestriction: t.AgeRestriction,
		})
	}

	if err := s.events.Create(ctx, event); err != nil {
		return nil, err
	}
	return event, nil
}

func (s *eventService) Get(ctx context.Context, id uuid.UUID) (*models.Event, error) {
	return s.events.GetByID(ctx, id)
}

func (s *eventService) List(ctx context.Context, filter repository.EventFilter, page, perPage int) (*EventPage, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		return nil, fmt.Errorf("%w: invalid page size", models.ErrValidation)
	}
	offset := (page - 1) * perPage
	events, total, err := s.events.List(ctx, filter, perPage, offset)
	if err != nil {
		return nil, err
	}
	return &EventPage{Events: events, Total: total, Page: page, PerPage: perPage}, nil
}

func (s *eventService) Update(ctx context.Context, id uuid.UUID, req UpdateEventRequest) (*models.Event, error) {
	event, err := s.events.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		if err := req.Title.Validate("title"); err != nil {
			return nil, err
		}
		event.Title = *req.Title
	}
	if req.Description != nil {
		event.Description = *req.Description
	}
	if req.Date != nil {
		if req.Date.IsZero() {
			return nil, fmt.Errorf("%w: invalid date format", models.ErrValidation)
		}
		event.Date = *req.Date
	}
	if req.Venue != nil {
		if err := req.Venue.Validate("venue"); err != nil {
			return nil, err
		}
		event.Venue = *req.Venue
	}
	if req.Category != nil {
		event.Category = *req.Category
	}
	if req.ImageURL != nil {
		event.ImageURL = *req.ImageURL
	}

	if err := s.events.Save(ctx, event); err != nil {
		return nil, err
	}
	return event, nil
}

func (s *eventService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.events.GetByID(ctx, id); err != nil {
		return err
	}
	active, err := s.bookings.CountActiveByEvent(ctx, id)
	if err != nil {
		return err
	}
	if active > 0 {
		return models.ErrConflict
	}
	return s.events.Delete(ctx, id)
}

func (s *eventService) AddTicketCategory(ctx context.Context, eventID uuid.UUID, req TicketCategoryRequest) (*models.TicketCategory, error) {
	if _, err := s.events.GetByID(ctx, eventID); err != nil {
		return nil, err
	}
	if err := validateTicketCategory(req); err != nil {
		return nil, err
	}
	tc := &models.TicketCategory{
		ID:             uuid.New(),
		EventID:        eventID,
		Category:       req.Category,
		Price:          req.Price,
		Capacity:       req.Capacity,
		AgeRestriction: req.AgeRestriction,
	}
	if err := s.events.AddTicketCategory(ctx, tc); err != nil {
		return nil, err
	}
	return tc, nil
}

func (s *eventService) ListTicketCategories(ctx context.Context, eventID uuid.UUID) ([]models.TicketCategory, error) {
	if _, err := s.events.GetByID(ctx, eventID); err != nil {
		return nil, err
	}
	return s.events.TicketCategoriesByEvent(ctx, eventID)
}
