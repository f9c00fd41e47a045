package api

import (
	"context"
	"errors"
	"net/http"

	reqdto "github.com/TimotejZavski/room-booking-system/internal/handler/dto/request"
	resdto "github.com/TimotejZavski/room-booking-system/internal/handler/dto/response"
	"github.com/TimotejZavski/room-booking-system/internal/handler/httperr"
	"github.com/TimotejZavski/room-booking-system/internal/notify"
	"github.com/TimotejZavski/room-booking-system/internal/pkg/errs"
	"github.com/TimotejZavski/room-booking-system/internal/usecase/commands"
	"github.com/TimotejZavski/room-booking-system/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type BookingHandler struct {
	commands commands.BookingCommands
	queries  queries.BookingQueries
	notifier *notify.Notifier
}

func NewBookingHandler(
	commands commands.BookingCommands,
	queries queries.BookingQueries,
	notifier *notify.Notifier,
) *BookingHandler {
	return &BookingHandler{
		commands: commands,
		queries:  queries,
		notifier: notifier,
	}
}

// @Summary Create booking
// @Description Reserve the room for a time window
// @Tags bookings
// @Accept json
// @Produce json
// @Param request body reqdto.CreateBookingRequest true "Booking request"
// @Success 201 {object} resdto.CreateBookingResponse
// @Failure 400 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /bookings [post]
func (h *BookingHandler) CreateBooking(c *gin.Context) {
	var req reqdto.CreateBookingRequest
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, bindErr, "Invalid request format", nil)
		return
	}

	id, err := h.commands.Create(c.Request.Context(), commands.CreateBookingParams{
		SubjectName: req.SubjectName,
		Reason:      req.Reason,
		StartTime:   req.StartTime,
		EndTime:     req.EndTime,
	})
	if err != nil {
		switch {
		case errors.Is(err, errs.ErrInvalidBooking):
			httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid booking request", nil)
		case errors.Is(err, errs.ErrBookingConflict):
			httperr.AbortWithError(c, http.StatusConflict, err, "The selected time slot overlaps an existing booking", nil)
		default:
			httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		}
		return
	}

	c.JSON(http.StatusCreated, resdto.CreateBookingResponse{ID: id})
}

// @Summary Check in
// @Description Mark the booking as checked in
// @Tags bookings
// @Produce json
// @Param id path string true "Booking ID"
// @Success 204
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /bookings/{id}/check-in [post]
func (h *BookingHandler) CheckIn(c *gin.Context) {
	h.runTransition(c, h.commands.CheckIn)
}

// @Summary Check out
// @Description Mark the booking as checked out
// @Tags bookings
// @Produce json
// @Param id path string true "Booking ID"
// @Success 204
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /bookings/{id}/check-out [post]
func (h *BookingHandler) CheckOut(c *gin.Context) {
	h.runTransition(c, h.commands.CheckOut)
}

// @Summary Cancel booking
// @Description Cancel the booking and release its time slot
// @Tags bookings
// @Produce json
// @Param id path string true "Booking ID"
// @Success 204
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /bookings/{id}/cancel [post]
func (h *BookingHandler) Cancel(c *gin.Context) {
	h.runTransition(c, h.commands.Cancel)
}

// @Summary Current booking
// @Description The booking occupying the room right now, null when the room is free
// @Tags bookings
// @Produce json
// @Success 200 {object} resdto.BookingResponse
// @Router /bookings/current [get]
func (h *BookingHandler) Current(c *gin.Context) {
	current, err := h.queries.Current(c.Request.Context())
	if err != nil {
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		return
	}
	c.JSON(http.StatusOK, resdto.FromBookingView(current))
}

// @Summary Booking board
// @Description Current, today's, tomorrow's and remaining bookings plus suggested slot defaults
// @Tags bookings
// @Produce json
// @Success 200 {object} resdto.BoardResponse
// @Router /bookings/board [get]
func (h *BookingHandler) Board(c *gin.Context) {
	snapshot, err := h.queries.Board(c.Request.Context())
	if err != nil {
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		return
	}
	c.JSON(http.StatusOK, resdto.FromBoardSnapshot(snapshot))
}

// @Summary Check upcoming bookings
// @Description Run one upcoming-booking evaluation and push due notifications
// @Tags bookings
// @Produce json
// @Success 200 {object} map[string]bool
// @Router /bookings/upcoming [get]
func (h *BookingHandler) CheckUpcoming(c *gin.Context) {
	h.notifier.PublishUpcoming(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// @Summary Booking history
// @Description All bookings newest first
// @Tags dashboard
// @Produce json
// @Security BearerAuth
// @Success 200 {array} resdto.BookingResponse
// @Failure 401 {object} map[string]string
// @Router /dashboard [get]
func (h *BookingHandler) Dashboard(c *gin.Context) {
	history, err := h.queries.History(c.Request.Context())
	if err != nil {
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		return
	}
	c.JSON(http.StatusOK, resdto.FromBookingViews(history))
}

func (h *BookingHandler) runTransition(c *gin.Context, transition func(ctx context.Context, id uuid.UUID) error) {
	idStr := c.Param("id")
	id, err := uuid.Parse(idStr)
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid booking ID format", nil)
		return
	}

	if err := transition(c.Request.Context(), id); err != nil {
		switch {
		case errors.Is(err, errs.ErrBookingNotFound):
			httperr.AbortWithError(c, http.StatusNotFound, err, "Booking not found", nil)
		case errors.Is(err, errs.ErrInvalidTransition):
			httperr.AbortWithError(c, http.StatusConflict, err, "Booking state does not allow this action", nil)
		default:
			httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		}
		return
	}

	c.Status(http.StatusNoContent)
}
