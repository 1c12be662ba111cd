package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/ansidorov/bilet/internal/models"
)

// EventFilter narrows an event listing. Zero values mean "no filter".
// DateFrom/DateTo bound the event date half-open: date >= DateFrom and
// date < DateTo.
type EventFilter struct {
	Category string
	DateFrom *time.Time
	DateTo   *time.Time
}

// EventRepository is the catalog store: events together with their ticket
// categories. Create persists the event and its initial categories in one
// unit of work; a partially created event is never observable. Delete
// rechecks for non-cancelled bookings inside its own transaction and fails
// with models.ErrConflict, so a reservation committing after the caller's
// check cannot be orphaned on a deleted event.
type EventRepository interface {
	Create(ctx context.Context, event *models.Event) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Event, error)
	List(ctx context.Context, filter EventFilter, limit, offset int) ([]models.Event, int64, error)
	Save(ctx context.Context, event *models.Event) error
	Delete(ctx context.Context, id uuid.UUID) error
	AddTicketCategory(ctx context.Context, tc *models.TicketCategory) error
	TicketCategoriesByEvent(ctx context.Context, eventID uuid.UUID) ([]models.TicketCategory, error)
}

// BookingRepository reads the booking ledger. All mutation of bookings goes
// through the reservation service's InventoryStore, never through here.
type BookingRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Booking, error)
	ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]models.Booking, int64, error)
	List(ctx context.Context, limit, offset int) ([]models.Booking, int64, error)
	// CountActiveByEvent counts non-cancelled bookings referencing the event.
	CountActiveByEvent(ctx context.Context, eventID uuid.UUID) (int64, error)
}

// InventoryTx is the set of operations available inside one reservation
// transaction. TicketCategoriesForUpdate takes row locks scoped per
// category row, so concurrent reservations against disjoint categories of
// the same event do not serialize against each other.
type InventoryTx interface {
	EventByID(ctx context.Context, id uuid.UUID) (*models.Event, error)
	TicketCategoriesForUpdate(ctx context.Context, eventID uuid.UUID) ([]models.TicketCategory, error)
	// AdjustCapacity adds delta (negative to reserve) to a category's
	// capacity, failing with models.ErrInsufficientCapacity instead of ever
	// letting the counter go negative.
	AdjustCapacity(ctx context.Context, categoryID uuid.UUID, delta int) error
	CreateBooking(ctx context.Context, booking *models.Booking) error
	BookingForUpdate(ctx context.Context, id uuid.UUID) (*models.Booking, error)
	SaveBookingStatus(ctx context.Context, id uuid.UUID, status models.BookingStatus) error
}

// InventoryStore runs a function atomically: every InventoryTx operation
// inside fn commits as a unit or not at all.
type InventoryStore interface {
	InTx(ctx context.Context, fn func(tx InventoryTx) error) error
}

// IsTransient reports whether an error is a storage-level serialization or
// deadlock failure worth retrying (Postgres 40001 / 40P01).
func IsTransient(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "40001" || pgErr.Code == "40P01"
	}
	return false
}
