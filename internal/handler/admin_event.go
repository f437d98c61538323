package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/ticketing-core/internal/model"
	"github.com/iliyamo/ticketing-core/internal/repository"
)

// AdminEventHandler exposes the §12 event administration surface, gated by
// the ADMIN role.
type AdminEventHandler struct {
	Events *repository.EventRepo
}

func NewAdminEventHandler(events *repository.EventRepo) *AdminEventHandler {
	if events == nil {
		panic("nil repository passed to NewAdminEventHandler")
	}
	return &AdminEventHandler{Events: events}
}

type createEventReq struct {
	Name        string     `json:"name"`
	EventTime   time.Time  `json:"event_time"`
	Venue       string     `json:"venue"`
	TotalSeats  uint32     `json:"total_seats"`
	SaleStartAt *time.Time `json:"sale_start_at"`
}

type eventDTO struct {
	ID             uint64  `json:"id"`
	Name           string  `json:"name"`
	EventTime      string  `json:"event_time"`
	Venue          string  `json:"venue"`
	TotalSeats     uint32  `json:"total_seats"`
	AvailableSeats uint32  `json:"available_seats"`
	Status         string  `json:"status"`
}

func toEventDTO(e *model.Event) eventDTO {
	return eventDTO{
		ID: e.ID, Name: e.Name, EventTime: e.EventTime.Format(time.RFC3339),
		Venue: e.Venue, TotalSeats: e.TotalSeats, AvailableSeats: e.AvailableSeats, Status: e.Status,
	}
}

// Create handles POST /v1/admin/events.
func (h *AdminEventHandler) Create(c echo.Context) error {
	var req createEventReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.Name == "" || req.Venue == "" || req.TotalSeats == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name, venue and total_seats required"})
	}

	e := &model.Event{
		Name: req.Name, EventTime: req.EventTime, Venue: req.Venue,
		TotalSeats: req.TotalSeats, Status: model.EventUpcoming, SaleStartAt: req.SaleStartAt,
	}
	id, err := h.Events.Create(c.Request().Context(), e)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create failed"})
	}
	e.ID = id
	e.AvailableSeats = req.TotalSeats
	return c.JSON(http.StatusCreated, toEventDTO(e))
}

// List handles GET /v1/admin/events and the public GET /v1/events.
func (h *AdminEventHandler) List(c echo.Context) error {
	status := c.QueryParam("status")
	list, err := h.Events.List(c.Request().Context(), status)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	out := make([]eventDTO, 0, len(list))
	for _, e := range list {
		out = append(out, toEventDTO(e))
	}
	return c.JSON(http.StatusOK, out)
}

// Get handles GET /v1/admin/events/:id and the public GET /v1/events/:id.
func (h *AdminEventHandler) Get(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	e, err := h.Events.GetByID(c.Request().Context(), id)
	if err != nil {
		if err == repository.ErrNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, toEventDTO(e))
}

type updateEventReq struct {
	Name        string     `json:"name"`
	EventTime   time.Time  `json:"event_time"`
	Venue       string     `json:"venue"`
	Status      string     `json:"status"`
	SaleStartAt *time.Time `json:"sale_start_at"`
}

// Update handles PUT/PATCH /v1/admin/events/:id.
func (h *AdminEventHandler) Update(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	existing, err := h.Events.GetByID(c.Request().Context(), id)
	if err != nil {
		if err == repository.ErrNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	var req updateEventReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.Name != "" {
		existing.Name = req.Name
	}
	if !req.EventTime.IsZero() {
		existing.EventTime = req.EventTime
	}
	if req.Venue != "" {
		existing.Venue = req.Venue
	}
	if req.Status != "" {
		existing.Status = req.Status
	}
	if req.SaleStartAt != nil {
		existing.SaleStartAt = req.SaleStartAt
	}

	if err := h.Events.UpdateByID(c.Request().Context(), existing); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	return c.JSON(http.StatusOK, toEventDTO(existing))
}

// CloseSales handles POST /v1/admin/events/:id/close-sales.
func (h *AdminEventHandler) CloseSales(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	if err := h.Events.UpdateStatus(c.Request().Context(), id, model.EventSoldOut); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	return c.NoContent(http.StatusNoContent)
}

// Delete handles DELETE /v1/admin/events/:id.
func (h *AdminEventHandler) Delete(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	if err := h.Events.DeleteByID(c.Request().Context(), id); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
	}
	return c.NoContent(http.StatusNoContent)
}
