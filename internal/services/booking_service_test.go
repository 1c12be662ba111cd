package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ansidorov/bilet/internal/models"
)

func TestBookingGet(t *testing.T) {
	owner := models.Principal{ID: uuid.New()}
	stranger := models.Principal{ID: uuid.New()}
	admin := models.Principal{ID: uuid.New(), IsAdmin: true}
	bookingID := uuid.New()

	repo := &mockBookingRepository{
		GetByIDFunc: func(ctx context.Context, id uuid.UUID) (*models.Booking, error) {
			if id != bookingID {
				return nil, models.ErrBookingNotFound
			}
			return &models.Booking{ID: id, UserID: owner.ID}, nil
		},
	}
	svc := NewBookingService(repo)

	booking, err := svc.Get(context.Background(), bookingID, owner)
	require.NoError(t, err)
	assert.Equal(t, bookingID, booking.ID)

	_, err = svc.Get(context.Background(), bookingID, admin)
	assert.NoError(t, err)

	_, err = svc.Get(context.Background(), bookingID, stranger)
	assert.ErrorIs(t, err, models.ErrForbidden)

	_, err = svc.Get(context.Background(), uuid.New(), owner)
	assert.ErrorIs(t, err, models.ErrBookingNotFound)
}

func TestBookingListScoping(t *testing.T) {
	caller := models.Principal{ID: uuid.New()}

	var scopedTo uuid.UUID
	repo := &mockBookingRepository{
		ListByUserFunc: func(ctx context.Context, userID uuid.UUID, limit, offset int) ([]models.Booking, int64, error) {
			scopedTo = userID
			return []models.Booking{{UserID: userID}}, 1, nil
		},
	}
	svc := NewBookingService(repo)

	page, err := svc.ListForPrincipal(context.Background(), caller, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, caller.ID, scopedTo)
	assert.Equal(t, int64(1), page.Total)
	assert.Equal(t, int64(1), page.Pages())
}

func TestBookingListAllAdminOnly(t *testing.T) {
	admin := models.Principal{ID: uuid.New(), IsAdmin: true}
	user := models.Principal{ID: uuid.New()}

	var gotLimit, gotOffset int
	repo := &mockBookingRepository{
		ListFunc: func(ctx context.Context, limit, offset int) ([]models.Booking, int64, error) {
			gotLimit, gotOffset = limit, offset
			return nil, 25, nil
		},
	}
	svc := NewBookingService(repo)

	_, err := svc.ListAll(context.Background(), user, 1, 10)
	assert.ErrorIs(t, err, models.ErrForbidden)

	page, err := svc.ListAll(context.Background(), admin, 2, 10)
	require.NoError(t, err)
	assert.Equal(t, 10, gotLimit)
	assert.Equal(t, 10, gotOffset)
	assert.Equal(t, int64(3), page.Pages())
}
