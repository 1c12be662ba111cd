package services

import (
	"context"

	"github.com/google/uuid"

	"github.com/ansidorov/bilet/internal/models"
	"github.com/ansidorov/bilet/internal/repository"
)

// BookingService is the read side of the booking ledger. Non-admin callers
// only ever see their own bookings; admins see everything.
type BookingService interface {
	Get(ctx context.Context, id uuid.UUID, principal models.Principal) (*models.Booking, error)
	ListForPrincipal(ctx context.Context, principal models.Principal, page, perPage int) (*BookingPage, error)
	ListAll(ctx context.Context, principal models.Principal, page, perPage int) (*BookingPage, error)
}

type BookingPage struct {
	Bookings []models.Booking
	Total    int64
	Page     int
	PerPage  int
}

func (p *BookingPage) Pages() int64 {
	if p.PerPage <= 0 {
		return 0
	}
	return (p.Total + int64(p.PerPage) - 1) / int64(p.PerPage)
}

type bookingService struct {
	bookings repository.BookingRepository
}

func NewBookingService(bookings repository.BookingRepository) BookingService {
	return &bookingService{bookings: bookings}
}

func (s *bookingService) Get(ctx context.Context, id uuid.UUID, principal models.Principal) (*models.Booking, error) {
	booking, err := s.bookings.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !principal.CanAccessBooking(booking) {
		return nil, models.ErrForbidden
	}
	return booking, nil
}

func (s *bookingService) ListForPrincipal(ctx context.Context, principal models.Principal, page, perPage int) (*BookingPage, error) {
	page, offset := normalizePage(page, perPage)
	bookings, total, err := s.bookings.ListByUser(ctx, principal.ID, perPage, offset)
	if err != nil {
		return nil, err
	}
	return &BookingPage{Bookings: bookings, Total: total, Page: page, PerPage: perPage}, nil
}

func (s *bookingService) ListAll(ctx context.Context, principal models.Principal, page, perPage int) (*BookingPage, error) {
	if !principal.IsAdmin {
		return nil, models.ErrForbidden
	}
	page, offset := normalizePage(page, perPage)
	bookings, total, err := s.bookings.List(ctx, perPage, offset)
	if err != nil {
		return nil, err
	}
	return &BookingPage{Bookings: bookings, Total: total, Page: page, PerPage: perPage}, nil
}

func normalizePage(page, perPage int) (int, int) {
	if page < 1 {
		page = 1
	}
	return page, (page - 1) * perPage
}
