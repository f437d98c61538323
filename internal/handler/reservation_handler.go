package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/ticketing-core/internal/repository"
	"github.com/iliyamo/ticketing-core/internal/ticketing"
)

// ReservationHandler exposes the v1 (immediate path) reservation endpoints.
type ReservationHandler struct {
	Immediate    *ticketing.ImmediatePath
	Reservations *repository.ReservationRepo
}

func NewReservationHandler(immediate *ticketing.ImmediatePath, reservations *repository.ReservationRepo) *ReservationHandler {
	if immediate == nil || reservations == nil {
		panic("nil dependency passed to NewReservationHandler")
	}
	return &ReservationHandler{Immediate: immediate, Reservations: reservations}
}

type reserveReq struct {
	EventID   uint64   `json:"event_id"`
	SeatIDs   []uint64 `json:"seat_ids"`
	SessionID *string  `json:"session_id"`
}

type reservationDTO struct {
	ID        uint64 `json:"id"`
	EventID   uint64 `json:"event_id"`
	SeatID    uint64 `json:"seat_id"`
	Status    string `json:"status"`
	ExpiresAt string `json:"expires_at"`
}

type reserveResp struct {
	Reservations []reservationDTO `json:"reservations"`
	TotalCents   uint32           `json:"total_cents"`
}

// Reserve handles POST /v1/reservations.
func (h *ReservationHandler) Reserve(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	var req reserveReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.EventID == 0 || len(req.SeatIDs) == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "event_id and seat_ids required"})
	}

	out, err := h.Immediate.Reserve(c.Request().Context(), req.EventID, req.SeatIDs, userID, req.SessionID)
	if err != nil {
		return writeEngineErr(c, err)
	}

	resp := reserveResp{TotalCents: out.TotalCents}
	for _, r := range out.Reservations {
		resp.Reservations = append(resp.Reservations, reservationDTO{
			ID: r.ID, EventID: r.EventID, SeatID: r.SeatID,
			Status: string(r.Status), ExpiresAt: r.ExpiresAt.Format("2006-01-02T15:04:05Z07:00"),
		})
	}
	return c.JSON(http.StatusCreated, resp)
}

// GetReservation handles GET /v1/reservations/:id.
func (h *ReservationHandler) GetReservation(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := parseIDParam(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	res, err := h.Reservations.GetByID(c.Request().Context(), id)
	if err != nil {
		if err == repository.ErrNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if res.UserID != userID {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}

	return c.JSON(http.StatusOK, reservationDTO{
		ID: res.ID, EventID: res.EventID, SeatID: res.SeatID,
		Status: string(res.Status), ExpiresAt: res.ExpiresAt.Format("2006-01-02T15:04:05Z07:00"),
	})
}

// CancelReservation handles DELETE /v1/reservations/:id.
func (h *ReservationHandler) CancelReservation(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := parseIDParam(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	res, err := h.Reservations.GetByID(c.Request().Context(), id)
	if err != nil {
		if err == repository.ErrNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	cancelled, err := h.Immediate.CancelReservation(c.Request().Context(), id, res.SeatID, userID)
	if err != nil {
		return writeEngineErr(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"id": cancelled.ID, "status": string(cancelled.Status)})
}

type extendReq struct {
	Minutes int `json:"minutes"`
}

// ExtendReservation handles POST /v1/reservations/:id/extend.
func (h *ReservationHandler) ExtendReservation(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := parseIDParam(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req extendReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	res, err := h.Reservations.GetByID(c.Request().Context(), id)
	if err != nil {
		if err == repository.ErrNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	extended, err := h.Immediate.ExtendReservation(c.Request().Context(), id, res.SeatID, userID, req.Minutes)
	if err != nil {
		return writeEngineErr(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"id": extended.ID, "status": string(extended.Status),
		"expires_at": extended.ExpiresAt.Format("2006-01-02T15:04:05Z07:00"),
	})
}

// ListMyReservations handles GET /v1/my-reservations.
func (h *ReservationHandler) ListMyReservations(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	var eventID uint64
	if raw := c.QueryParam("event_id"); raw != "" {
		n, convErr := strconv.ParseUint(raw, 10, 64)
		if convErr != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid event_id"})
		}
		eventID = n
	}

	list, err := h.Reservations.ListByUser(c.Request().Context(), userID, eventID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	out := make([]reservationDTO, 0, len(list))
	for _, r := range list {
		out = append(out, reservationDTO{
			ID: r.ID, EventID: r.EventID, SeatID: r.SeatID,
			Status: string(r.Status), ExpiresAt: r.ExpiresAt.Format("2006-01-02T15:04:05Z07:00"),
		})
	}
	return c.JSON(http.StatusOK, out)
}
