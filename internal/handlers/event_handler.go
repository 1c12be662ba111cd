package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/ansidorov/bilet/internal/helpers"
	"github.com/ansidorov/bilet/internal/models"
	"github.com/ansidorov/bilet/internal/repository"
	"github.com/ansidorov/bilet/internal/services"
)

const defaultEventsPerPage = 8

type EventHandler struct {
	events services.EventService
}

func NewEventHandler(events services.EventService) *EventHandler {
	return &EventHandler{events: events}
}

// eventResponse decorates an event with its live available-ticket count.
type eventResponse struct {
	*models.Event
	AvailableTickets int `json:"available_tickets"`
}

func newEventResponse(e *models.Event) eventResponse {
	return eventResponse{Event: e, AvailableTickets: e.AvailableTickets()}
}

func (h *EventHandler) List(c *gin.Context) {
	page, perPage, err := helpers.ParsePagination(c, defaultEventsPerPage)
	if err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, err.Error())
		return
	}

	filter := repository.EventFilter{Category: c.Query("category")}
	if date := c.Query("date"); date != "" {
		from, to, err := helpers.ParseDay(date)
		if err != nil {
			helpers.RespondWithError(c, http.StatusBadRequest, err.Error())
			return
		}
		filter.DateFrom = &from
		filter.DateTo = &to
	}

	result, err := h.events.List(c.Request.Context(), filter, page, perPage)
	if err != nil {
		helpers.RespondWithServiceError(c, err)
		return
	}

	items := make([]eventResponse, 0, len(result.Events))
	for i := range result.Events {
		items = append(items, newEventResponse(&result.Events[i]))
	}
	c.JSON(http.StatusOK, gin.H{
		"items":    items,
		"total":    result.Total,
		"page":     result.Page,
		"per_page": result.PerPage,
		"pages":    result.Pages(),
	})
}

func (h *EventHandler) Get(c *gin.Context) {
	eventID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid event ID.")
		return
	}

	event, err := h.events.Get(c.Request.Context(), eventID)
	if err != nil {
		helpers.RespondWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, newEventResponse(event))
}

func (h *EventHandler) Create(c *gin.Context) {
	var req services.CreateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid input. Please check your fields.")
		return
	}

	event, err := h.events.Create(c.Request.Context(), req)
	if err != nil {
		helpers.RespondWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, newEventResponse(event))
}

func (h *EventHandler) Update(c *gin.Context) {
	eventID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid event ID.")
		return
	}

	var req services.UpdateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid input. Please check your fields.")
		return
	}

	event, err := h.events.Update(c.Request.Context(), eventID, req)
	if err != nil {
		helpers.RespondWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, newEventResponse(event))
}

func (h *EventHandler) Delete(c *gin.Context) {
	eventID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid event ID.")
		return
	}

	if err := h.events.Delete(c.Request.Context(), eventID); err != nil {
		helpers.RespondWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Event successfully deleted."})
}

func (h *EventHandler) ListTickets(c *gin.Context) {
	eventID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid event ID.")
		return
	}

	categories, err := h.events.ListTicketCategories(c.Request.Context(), eventID)
	if err != nil {
		helpers.RespondWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, categories)
}

func (h *EventHandler) AddTicket(c *gin.Context) {
	eventID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid event ID.")
		return
	}

	var req services.TicketCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid input. Please check your fields.")
		return
	}

	tc, err := h.events.AddTicketCategory(c.Request.Context(), eventID, req)
	if err != nil {
		helpers.RespondWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, tc)
}
