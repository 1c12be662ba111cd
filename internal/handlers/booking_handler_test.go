package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ansidorov/bilet/internal/middleware"
	"github.com/ansidorov/bilet/internal/models"
	"github.com/ansidorov/bilet/internal/services"
)

type mockReservationService struct {
	ReserveFunc      func(ctx context.Context, req services.ReserveRequest) (*models.Booking, error)
	CancelFunc       func(ctx context.Context, bookingID uuid.UUID, principal models.Principal) (*models.Booking, error)
	UpdateStatusFunc func(ctx context.Context, bookingID uuid.UUID, status models.BookingStatus, principal models.Principal) (*models.Booking, error)
}

func (m *mockReservationService) Reserve(ctx context.Context, req services.ReserveRequest) (*models.Booking, error) {
	return m.ReserveFunc(ctx, req)
}

func (m *mockReservationService) Cancel(ctx context.Context, bookingID uuid.UUID, principal models.Principal) (*models.Booking, error) {
	return m.CancelFunc(ctx, bookingID, principal)
}

func (m *mockReservationService) UpdateStatus(ctx context.Context, bookingID uuid.UUID, status models.BookingStatus, principal models.Principal) (*models.Booking, error) {
	return m.UpdateStatusFunc(ctx, bookingID, status, principal)
}

type mockBookingService struct {
	GetFunc func(ctx context.Context, id uuid.UUID, principal models.Principal) (*models.Booking, error)
}

func (m *mockBookingService) Get(ctx context.Context, id uuid.UUID, principal models.Principal) (*models.Booking, error) {
	return m.GetFunc(ctx, id, principal)
}

func (m *mockBookingService) ListForPrincipal(ctx context.Context, principal models.Principal, page, perPage int) (*services.BookingPage, error) {
	return &services.BookingPage{Page: page, PerPage: perPage}, nil
}

func (m *mockBookingService) ListAll(ctx context.Context, principal models.Principal, page, perPage int) (*services.BookingPage, error) {
	return &services.BookingPage{Page: page, PerPage: perPage}, nil
}

func newBookingRouter(reservations services.ReservationService, bookings services.BookingService, principal models.Principal) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) { middleware.SetPrincipal(c, principal) })

	h := NewBookingHandler(reservations, bookings, "test-secret")
	r.POST("/v1/bookings", h.Create)
	r.GET("/v1/bookings/:id", h.Get)
	r.PUT("/v1/bookings/:id", h.UpdateStatus)
	r.DELETE("/v1/bookings/:id", h.Cancel)
	r.GET("/v1/bookings/:id/qr", h.QR)
	return r
}

func TestCreateBooking(t *testing.T) {
	principal := models.Principal{ID: uuid.New()}
	reservations := &mockReservationService{
		ReserveFunc: func(ctx context.Context, req services.ReserveRequest) (*models.Booking, error) {
			return &models.Booking{
				ID:         uuid.New(),
				UserID:     req.UserID,
				EventID:    req.EventID,
				Seats:      req.Seats,
				TotalPrice: req.TotalPrice,
				Status:     models.StatusPending,
			}, nil
		},
	}
	r := newBookingRouter(reservations, &mockBookingService{}, principal)

	body := `{"event_id":"` + uuid.NewString() + `","seats":["VIP","VIP"],"total_price":200}`
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("POST", "/v1/bookings", strings.NewReader(body)))

	require.Equal(t, http.StatusCreated, w.Code)
	var booking models.Booking
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &booking))
	assert.Equal(t, principal.ID, booking.UserID)
	assert.Equal(t, models.SeatList{"VIP", "VIP"}, booking.Seats)
}

func TestCreateBookingBadPayload(t *testing.T) {
	r := newBookingRouter(&mockReservationService{}, &mockBookingService{}, models.Principal{ID: uuid.New()})

	// total_price is required, seats is required.
	for _, body := range []string{
		`{"seats":["VIP"],"total_price":100}`,
		`{"event_id":"` + uuid.NewString() + `","total_price":100}`,
		`{"event_id":"` + uuid.NewString() + `","seats":["VIP"]}`,
		`not json`,
	} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest("POST", "/v1/bookings", strings.NewReader(body)))
		assert.Equal(t, http.StatusBadRequest, w.Code, body)
	}
}

func TestServiceErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"insufficient capacity", models.ErrInsufficientCapacity, http.StatusBadRequest},
		{"category not found", models.ErrCategoryNotFound, http.StatusBadRequest},
		{"event not found", models.ErrEventNotFound, http.StatusNotFound},
		{"transient conflict", models.ErrTransientConflict, http.StatusServiceUnavailable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reservations := &mockReservationService{
				ReserveFunc: func(ctx context.Context, req services.ReserveRequest) (*models.Booking, error) {
					return nil, tt.err
				},
			}
			r := newBookingRouter(reservations, &mockBookingService{}, models.Principal{ID: uuid.New()})

			body := `{"event_id":"` + uuid.NewString() + `","seats":["VIP"],"total_price":100}`
			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest("POST", "/v1/bookings", strings.NewReader(body)))
			assert.Equal(t, tt.wantStatus, w.Code)
		})
	}
}

func TestCancelBookingForbidden(t *testing.T) {
	reservations := &mockReservationService{
		CancelFunc: func(ctx context.Context, bookingID uuid.UUID, principal models.Principal) (*models.Booking, error) {
			return nil, models.ErrForbidden
		},
	}
	r := newBookingRouter(reservations, &mockBookingService{}, models.Principal{ID: uuid.New()})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("DELETE", "/v1/bookings/"+uuid.NewString(), nil))
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("DELETE", "/v1/bookings/not-a-uuid", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUpdateBookingStatus(t *testing.T) {
	principal := models.Principal{ID: uuid.New()}
	reservations := &mockReservationService{
		UpdateStatusFunc: func(ctx context.Context, bookingID uuid.UUID, status models.BookingStatus, p models.Principal) (*models.Booking, error) {
			return &models.Booking{ID: bookingID, UserID: p.ID, Status: status}, nil
		},
	}
	r := newBookingRouter(reservations, &mockBookingService{}, principal)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("PUT", "/v1/bookings/"+uuid.NewString(), strings.NewReader(`{"status":"confirmed"}`)))
	require.Equal(t, http.StatusOK, w.Code)

	var booking models.Booking
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &booking))
	assert.Equal(t, models.StatusConfirmed, booking.Status)
}

func TestBookingQR(t *testing.T) {
	owner := models.Principal{ID: uuid.New()}
	live := &models.Booking{ID: uuid.New(), UserID: owner.ID, EventID: uuid.New(), Status: models.StatusConfirmed}
	cancelled := &models.Booking{ID: uuid.New(), UserID: owner.ID, EventID: uuid.New(), Status: models.StatusCancelled}

	bookings := &mockBookingService{
		GetFunc: func(ctx context.Context, id uuid.UUID, principal models.Principal) (*models.Booking, error) {
			switch id {
			case live.ID:
				return live, nil
			case cancelled.ID:
				return cancelled, nil
			}
			return nil, models.ErrBookingNotFound
		},
	}
	r := newBookingRouter(&mockReservationService{}, bookings, owner)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/v1/bookings/"+live.ID.String()+"/qr", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "image/png", w.Header().Get("Content-Type"))

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/v1/bookings/"+cancelled.ID.String()+"/qr", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/v1/bookings/"+uuid.NewString()+"/qr", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}
