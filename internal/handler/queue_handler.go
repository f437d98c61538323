package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/ticketing-core/internal/queue"
	"github.com/iliyamo/ticketing-core/internal/repository"
	"github.com/iliyamo/ticketing-core/internal/ticketing"
)

// QueueHandler exposes the v2 (queued path) endpoints.
type QueueHandler struct {
	Service *queue.Service
	Users   *repository.UserRepo
}

func NewQueueHandler(service *queue.Service, users *repository.UserRepo) *QueueHandler {
	if service == nil || users == nil {
		panic("nil dependency passed to NewQueueHandler")
	}
	return &QueueHandler{Service: service, Users: users}
}

type submitReq struct {
	EventID   uint64   `json:"event_id"`
	SeatIDs   []uint64 `json:"seat_ids"`
	Priority  string   `json:"priority"`
	SessionID *string  `json:"session_id"`
}

// Submit handles POST /v2/reservations. A declared HIGH priority is
// honored only when the user's stored tier actually is HIGH — anything
// else is downgraded to NORMAL rather than rejected, since a client
// misdeclaring priority is not a client error worth a 4xx.
func (h *QueueHandler) Submit(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req submitReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.EventID == 0 || len(req.SeatIDs) == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "event_id and seat_ids required"})
	}

	declared := req.Priority
	if declared == "" {
		if hp, ok := c.Get("declared_priority").(string); ok {
			declared = hp
		}
	}

	priority := queue.PriorityNormal
	if declared == string(queue.PriorityHigh) || declared == "vip" || declared == "premium" {
		verified, err := h.Users.IsVerifiedHighPriority(c.Request().Context(), userID)
		if err == nil && verified {
			priority = queue.PriorityHigh
		}
	} else if declared == string(queue.PriorityLow) {
		priority = queue.PriorityLow
	}

	out, err := h.Service.Submit(c.Request().Context(), req.EventID, userID, req.SeatIDs, priority, req.SessionID)
	if err != nil {
		if tErr, ok := ticketing.AsError(err); ok {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": string(tErr.Kind), "message": tErr.Message})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
	return c.JSON(http.StatusAccepted, out)
}

// GetStatus handles GET /v2/reservations/:request_id.
func (h *QueueHandler) GetStatus(c echo.Context) error {
	requestID := c.Param("request_id")
	if requestID == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "request_id required"})
	}

	status, err := h.Service.GetStatus(c.Request().Context(), requestID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if status == nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "not found"})
	}
	return c.JSON(http.StatusOK, status)
}

// CancelRequest handles DELETE /v2/reservations/:request_id, pulling back a
// request the worker has not yet claimed.
func (h *QueueHandler) CancelRequest(c echo.Context) error {
	requestID := c.Param("request_id")
	if requestID == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "request_id required"})
	}
	if err := h.Service.Cancel(c.Request().Context(), requestID); err != nil {
		if err == queue.ErrTransitionNotAllowed {
			return c.JSON(http.StatusConflict, echo.Map{"error": "request already claimed or finished"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "cancel failed"})
	}
	return c.NoContent(http.StatusNoContent)
}

// Stats handles GET /v2/queue/stats/:event_id.
func (h *QueueHandler) Stats(c echo.Context) error {
	eventID, err := parseIDParam(c, "event_id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid event_id"})
	}
	stats, err := h.Service.Stats(c.Request().Context(), eventID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, stats)
}

// ListDLQ handles GET /v2/admin/dlq.
func (h *QueueHandler) ListDLQ(c echo.Context) error {
	entries, err := h.Service.ListDLQ(c.Request().Context(), 100)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, entries)
}
