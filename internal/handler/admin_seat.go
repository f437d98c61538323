package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/ticketing-core/internal/model"
	"github.com/iliyamo/ticketing-core/internal/repository"
)

// AdminSeatHandler exposes the §12 bulk seat-map administration surface,
// gated by the ADMIN role.
type AdminSeatHandler struct {
	Seats  *repository.SeatRepo
	Events *repository.EventRepo
}

func NewAdminSeatHandler(seats *repository.SeatRepo, events *repository.EventRepo) *AdminSeatHandler {
	if seats == nil || events == nil {
		panic("nil dependency passed to NewAdminSeatHandler")
	}
	return &AdminSeatHandler{Seats: seats, Events: events}
}

type createSeatReq struct {
	Label      string  `json:"label"`
	Section    *string `json:"section"`
	Row        *string `json:"row_label"`
	Category   string  `json:"category"`
	PriceCents uint32  `json:"price_cents"`
}

type createSeatsReq struct {
	Seats []createSeatReq `json:"seats"`
}

type seatDTO struct {
	ID         uint64  `json:"id"`
	EventID    uint64  `json:"event_id"`
	Label      string  `json:"label"`
	Section    *string `json:"section"`
	Row        *string `json:"row_label"`
	Category   string  `json:"category"`
	PriceCents uint32  `json:"price_cents"`
	Status     string  `json:"status"`
	Version    uint64  `json:"version"`
}

func toSeatDTO(s *model.Seat) seatDTO {
	return seatDTO{
		ID: s.ID, EventID: s.EventID, Label: s.Label, Section: s.Section, Row: s.Row,
		Category: s.Category, PriceCents: s.PriceCents, Status: s.Status, Version: s.Version,
	}
}

// CreateSeats handles POST /v1/admin/events/:id/seats, bulk-creating the
// seat map for an event.
func (h *AdminSeatHandler) CreateSeats(c echo.Context) error {
	eventID, err := parseIDParam(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	if _, err := h.Events.GetByID(c.Request().Context(), eventID); err != nil {
		if err == repository.ErrNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "event not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	var req createSeatsReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if len(req.Seats) == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "seats required"})
	}

	seats := make([]*model.Seat, 0, len(req.Seats))
	for _, s := range req.Seats {
		if s.Label == "" || s.Category == "" {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "label and category required for every seat"})
		}
		seats = append(seats, &model.Seat{
			EventID: eventID, Label: s.Label, Section: s.Section, Row: s.Row,
			Category: s.Category, PriceCents: s.PriceCents, Status: model.SeatAvailable,
		})
	}

	if err := h.Seats.CreateBulk(c.Request().Context(), seats); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create failed"})
	}
	return c.NoContent(http.StatusCreated)
}

// ListSeats handles GET /v1/events/:id/seats, public so buyers can see the
// seat map and its live availability.
func (h *AdminSeatHandler) ListSeats(c echo.Context) error {
	eventID, err := parseIDParam(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	list, err := h.Seats.ListByEvent(c.Request().Context(), eventID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	out := make([]seatDTO, 0, len(list))
	for _, s := range list {
		out = append(out, toSeatDTO(s))
	}
	return c.JSON(http.StatusOK, out)
}
