package services

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/google/uuid"

	"github.com/ansidorov/bilet/internal/models"
	"github.com/ansidorov/bilet/internal/monitoring"
	"github.com/ansidorov/bilet/internal/repository"
)

// ReservationService is the transactional core: it converts requested seats
// into a persisted booking while decrementing category capacity, and
// reverses the decrement on cancellation. Capacity and booking rows always
// change together or not at all.
type ReservationService interface {
	Reserve(ctx context.Context, req ReserveRequest) (*models.Booking, error)
	Cancel(ctx context.Context, bookingID uuid.UUID, principal models.Principal) (*models.Booking, error)
	UpdateStatus(ctx context.Context, bookingID uuid.UUID, status models.BookingStatus, principal models.Principal) (*models.Booking, error)
}

type ReserveRequest struct {
	EventID uuid.UUID
	UserID  uuid.UUID
	Seats   models.SeatList
	// TotalPrice is stored as supplied. The service does not recompute it
	// from category prices; pricing is the caller's responsibility.
	TotalPrice float64
	// Status is the initial booking status; empty means pending.
	Status models.BookingStatus
}

type reservationService struct {
	store      repository.InventoryStore
	maxRetries int
}

const defaultMaxRetries = 3

func NewReservationService(store repository.InventoryStore) ReservationService {
	return &reservationService{store: store, maxRetries: defaultMaxRetries}
}

// inTxWithRetry re-runs the transaction on serialization or deadlock
// failures, up to the retry budget. Any other error surfaces immediately.
func (s *reservationService) inTxWithRetry(ctx context.Context, fn func(tx repository.InventoryTx) error) error {
	var err error
	for attempt := 0; attempt < s.maxRetries; attempt++ {
		err = s.store.InTx(ctx, fn)
		if err == nil || !repository.IsTransient(err) {
			return err
		}
		monitoring.TransientRetriesTotal.Inc()
	}
	return fmt.Errorf("%w: %v", models.ErrTransientConflict, err)
}

func (s *reservationService) Reserve(ctx context.Context, req ReserveRequest) (*models.Booking, error) {
	if len(req.Seats) == 0 {
		return nil, fmt.Errorf("%w: seats must not be empty", models.ErrValidation)
	}
	if req.TotalPrice < 0 {
		return nil, fmt.Errorf("%w: total price must not be negative", models.ErrValidation)
	}
	status := req.Status
	if status == "" {
		status = models.StatusPending
	}
	if !status.Valid() {
		return nil, fmt.Errorf("%w: %q", models.ErrInvalidStatus, req.Status)
	}
	// A booking born cancelled would hold seats that no cancellation path
	// can ever return to the pool.
	if status == models.StatusCancelled {
		return nil, fmt.Errorf("%w: cannot create a cancelled booking", models.ErrInvalidStatus)
	}

	var booking *models.Booking
	err := s.inTxWithRetry(ctx, func(tx repository.InventoryTx) error {
		booking = nil
		if _, err := tx.EventByID(ctx, req.EventID); err != nil {
			return err
		}

		categories, err := tx.TicketCategoriesForUpdate(ctx, req.EventID)
		if err != nil {
			return err
		}
		byLabel := make(map[string]*models.TicketCategory, len(categories))
		for i := range categories {
			byLabel[categories[i].Category] = &categories[i]
		}

		// Validate every requested category before touching any counter, so
		// a failing request leaves capacity untouched everywhere.
		requested := req.Seats.CountByCategory()
		for label, count := range requested {
			tc, ok := byLabel[label]
			if !ok {
				return fmt.Errorf("%w: %s", models.ErrCategoryNotFound, label)
			}
			if tc.Capacity < count {
				return fmt.Errorf("%w in category %s", models.ErrInsufficientCapacity, label)
			}
		}

		for label, count := range requested {
			if err := tx.AdjustCapacity(ctx, byLabel[label].ID, -count); err != nil {
				return err
			}
		}

		b := &models.Booking{
			ID:         uuid.New(),
			UserID:     req.UserID,
			EventID:    req.EventID,
			Seats:      req.Seats,
			TotalPrice: req.TotalPrice,
			Status:     status,
		}
		if err := tx.CreateBooking(ctx, b); err != nil {
			return err
		}
		booking = b
		return nil
	})
	if err != nil {
		monitoring.ReservationsTotal.WithLabelValues(reserveOutcome(err)).Inc()
		return nil, err
	}
	monitoring.ReservationsTotal.WithLabelValues(monitoring.OutcomeSuccess).Inc()
	return booking, nil
}

func reserveOutcome(err error) string {
	switch {
	case errors.Is(err, models.ErrInsufficientCapacity):
		return monitoring.OutcomeInsufficientCapacity
	case errors.Is(err, models.ErrCategoryNotFound):
		return monitoring.OutcomeCategoryNotFound
	default:
		return monitoring.OutcomeError
	}
}

func (s *reservationService) Cancel(ctx context.Context, bookingID uuid.UUID, principal models.Principal) (*models.Booking, error) {
	var booking *models.Booking
	err := s.inTxWithRetry(ctx, func(tx repository.InventoryTx) error {
		b, err := tx.BookingForUpdate(ctx, bookingID)
		if err != nil {
			return err
		}
		if !principal.CanAccessBooking(b) {
			return models.ErrForbidden
		}
		if err := s.cancelLocked(ctx, tx, b); err != nil {
			return err
		}
		booking = b
		return nil
	})
	if err != nil {
		return nil, err
	}
	return booking, nil
}

func (s *reservationService) UpdateStatus(ctx context.Context, bookingID uuid.UUID, status models.BookingStatus, principal models.Principal) (*models.Booking, error) {
	if !status.Valid() {
		return nil, fmt.Errorf("%w: %q", models.ErrInvalidStatus, status)
	}

	var booking *models.Booking
	err := s.inTxWithRetry(ctx, func(tx repository.InventoryTx) error {
		b, err := tx.BookingForUpdate(ctx, bookingID)
		if err != nil {
			return err
		}
		if !principal.CanAccessBooking(b) {
			return models.ErrForbidden
		}
		// Non-admins may only move their booking forward, never back to
		// pending.
		if !principal.IsAdmin && status == models.StatusPending {
			return models.ErrForbidden
		}
		// Cancellation is terminal for everyone.
		if b.Status == models.StatusCancelled && status != models.StatusCancelled {
			return fmt.Errorf("%w: booking is already cancelled", models.ErrInvalidStatus)
		}

		if status == models.StatusCancelled {
			// Same routine as Cancel, so both entry points share one
			// capacity-restoration path.
			if err := s.cancelLocked(ctx, tx, b); err != nil {
				return err
			}
		} else {
			if err := tx.SaveBookingStatus(ctx, b.ID, status); err != nil {
				return err
			}
			b.Status = status
		}
		booking = b
		return nil
	})
	if err != nil {
		return nil, err
	}
	return booking, nil
}

// cancelLocked flips the booking to cancelled and returns its seats to the
// category pools. The booking row must already be locked by the caller's
// transaction. Cancelling an already-cancelled booking is a no-op, so
// capacity is credited exactly once no matter how many times cancellation
// is requested.
func (s *reservationService) cancelLocked(ctx context.Context, tx repository.InventoryTx, booking *models.Booking) error {
	if booking.Status == models.StatusCancelled {
		return nil
	}

	categories, err := tx.TicketCategoriesForUpdate(ctx, booking.EventID)
	if err != nil {
		return err
	}
	byLabel := make(map[string]*models.TicketCategory, len(categories))
	for i := range categories {
		byLabel[categories[i].Category] = &categories[i]
	}

	for label, count := range booking.Seats.CountByCategory() {
		tc, ok := byLabel[label]
		if !ok {
			// The category was deleted since the booking was made; the
			// seats have nowhere to go back to. Degraded but acceptable.
			log.Printf("cancel booking %s: category %q no longer exists, skipping capacity restore", booking.ID, label)
			continue
		}
		if err := tx.AdjustCapacity(ctx, tc.ID, count); err != nil {
			return err
		}
	}

	if err := tx.SaveBookingStatus(ctx, booking.ID, models.StatusCancelled); err != nil {
		return err
	}
	booking.Status = models.StatusCancelled
	monitoring.CancellationsTotal.Inc()
	return nil
}
