package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/skip2/go-qrcode"

	"github.com/ansidorov/bilet/internal/helpers"
	"github.com/ansidorov/bilet/internal/middleware"
	"github.com/ansidorov/bilet/internal/models"
	"github.com/ansidorov/bilet/internal/services"
)

const defaultBookingsPerPage = 10

type BookingRequest struct {
	EventID    uuid.UUID `json:"event_id" binding:"required"`
	Seats      []string  `json:"seats" binding:"required"`
	TotalPrice *float64  `json:"total_price" binding:"required"`
	Status     string    `json:"status"`
}

type StatusRequest struct {
	Status string `json:"status" binding:"required"`
}

type BookingHandler struct {
	reservations services.ReservationService
	bookings     services.BookingService
	qrSecret     string
}

func NewBookingHandler(reservations services.ReservationService, bookings services.BookingService, qrSecret string) *BookingHandler {
	return &BookingHandler{reservations: reservations, bookings: bookings, qrSecret: qrSecret}
}

func (h *BookingHandler) Create(c *gin.Context) {
	principal, ok := middleware.CurrentPrincipal(c)
	if !ok {
		helpers.RespondWithError(c, http.StatusUnauthorized, "Not authenticated.")
		return
	}

	var req BookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid input. Please check your fields.")
		return
	}

	booking, err := h.reservations.Reserve(c.Request.Context(), services.ReserveRequest{
		EventID:    req.EventID,
		UserID:     principal.ID,
		Seats:      models.SeatList(req.Seats),
		TotalPrice: *req.TotalPrice,
		Status:     models.BookingStatus(req.Status),
	})
	if err != nil {
		helpers.RespondWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, booking)
}

func (h *BookingHandler) List(c *gin.Context) {
	principal, ok := middleware.CurrentPrincipal(c)
	if !ok {
		helpers.RespondWithError(c, http.StatusUnauthorized, "Not authenticated.")
		return
	}

	page, perPage, err := helpers.ParsePagination(c, defaultBookingsPerPage)
	if err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, err.Error())
		return
	}

	result, err := h.bookings.ListForPrincipal(c.Request.Context(), principal, page, perPage)
	if err != nil {
		helpers.RespondWithServiceError(c, err)
		return
	}
	respondBookingPage(c, result)
}

func (h *BookingHandler) ListAdmin(c *gin.Context) {
	principal, ok := middleware.CurrentPrincipal(c)
	if !ok {
		helpers.RespondWithError(c, http.StatusUnauthorized, "Not authenticated.")
		return
	}

	page, perPage, err := helpers.ParsePagination(c, defaultBookingsPerPage)
	if err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, err.Error())
		return
	}

	result, err := h.bookings.ListAll(c.Request.Context(), principal, page, perPage)
	if err != nil {
		helpers.RespondWithServiceError(c, err)
		return
	}
	respondBookingPage(c, result)
}

func respondBookingPage(c *gin.Context, page *services.BookingPage) {
	c.JSON(http.StatusOK, gin.H{
		"items":    page.Bookings,
		"total":    page.Total,
		"page":     page.Page,
		"per_page": page.PerPage,
		"pages":    page.Pages(),
	})
}

func (h *BookingHandler) Get(c *gin.Context) {
	booking, ok := h.loadBooking(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, booking)
}

func (h *BookingHandler) UpdateStatus(c *gin.Context) {
	principal, ok := middleware.CurrentPrincipal(c)
	if !ok {
		helpers.RespondWithError(c, http.StatusUnauthorized, "Not authenticated.")
		return
	}

	bookingID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid booking ID.")
		return
	}

	var req StatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid input. Please check your fields.")
		return
	}

	booking, err := h.reservations.UpdateStatus(c.Request.Context(), bookingID, models.BookingStatus(req.Status), principal)
	if err != nil {
		helpers.RespondWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, booking)
}

func (h *BookingHandler) Cancel(c *gin.Context) {
	principal, ok := middleware.CurrentPrincipal(c)
	if !ok {
		helpers.RespondWithError(c, http.StatusUnauthorized, "Not authenticated.")
		return
	}

	bookingID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid booking ID.")
		return
	}

	booking, err := h.reservations.Cancel(c.Request.Context(), bookingID, principal)
	if err != nil {
		helpers.RespondWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, booking)
}

// QR renders a signed QR code for a live booking. Cancelled bookings get no
// code.
func (h *BookingHandler) QR(c *gin.Context) {
	booking, ok := h.loadBooking(c)
	if !ok {
		return
	}

	if booking.Status == models.StatusCancelled {
		helpers.RespondWithError(c, http.StatusBadRequest, "Booking is cancelled.")
		return
	}

	payload := helpers.BookingQRPayload(booking.ID, booking.EventID, booking.UserID, h.qrSecret)
	image, err := qrcode.Encode(payload, qrcode.Medium, 256)
	if err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to generate QR code.")
		return
	}
	c.Data(http.StatusOK, "image/png", image)
}

func (h *BookingHandler) loadBooking(c *gin.Context) (*models.Booking, bool) {
	principal, ok := middleware.CurrentPrincipal(c)
	if !ok {
		helpers.RespondWithError(c, http.StatusUnauthorized, "Not authenticated.")
		return nil, false
	}

	bookingID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid booking ID.")
		return nil, false
	}

	booking, err := h.bookings.Get(c.Request.Context(), bookingID, principal)
	if err != nil {
		helpers.RespondWithServiceError(c, err)
		return nil, false
	}
	return booking, true
}
