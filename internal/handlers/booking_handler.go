package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/epokowo/epokowo-service/internal/repositories"
	"github.com/epokowo/epokowo-service/internal/services"
)

// BookingHandler exposes the oral-exam calendar.
type BookingHandler struct {
	BaseHandler
	bookingService services.BookingService
}

func NewBookingHandler(bookingService services.BookingService, logger *slog.Logger) *BookingHandler {
	return &BookingHandler{
		BaseHandler:    NewBaseHandler(logger),
		bookingService: bookingService,
	}
}

// ListSlots returns upcoming exam slots, optionally filtered by epoch.
func (h *BookingHandler) ListSlots(c *gin.Context) {
	filters := repositories.SlotFilters{
		EpochID: parseUintQueryPtr(c, "epoch_id"),
		From:    parseTimeQueryPtr(c, "from"),
		Limit:   parseIntQuery(c, "limit", 50),
		Offset:  parseIntQuery(c, "offset", 0),
	}

	slots, total, err := h.bookingService.ListSlots(c.Request.Context(), filters)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, PagedResponse{Items: slots, Total: total})
}

// Book claims one seat in a slot for the caller.
func (h *BookingHandler) Book(c *gin.Context) {
	slotID := parseIDParam(c, "id")
	if slotID == 0 {
		return
	}

	booking, err := h.bookingService.Book(c.Request.Context(), currentActor(c), slotID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, booking)
}

// Cancel releases the caller's booking; admins can release anyone's.
func (h *BookingHandler) Cancel(c *gin.Context) {
	bookingID := parseIDParam(c, "id")
	if bookingID == 0 {
		return
	}

	if err := h.bookingService.Cancel(c.Request.Context(), currentActor(c), bookingID); err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, SuccessResponse{Message: "Booking cancelled"})
}

// MyBookings lists the caller's bookings.
func (h *BookingHandler) MyBookings(c *gin.Context) {
	bookings, err := h.bookingService.MyBookings(c.Request.Context(), currentActor(c))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, bookings)
}

// CreateSlot publishes a new exam slot (admin).
func (h *BookingHandler) CreateSlot(c *gin.Context) {
	var req services.CreateSlotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	slot, err := h.bookingService.CreateSlot(c.Request.Context(), currentActor(c), &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, slot)
}

// DeleteSlot removes an exam slot (admin).
func (h *BookingHandler) DeleteSlot(c *gin.Context) {
	slotID := parseIDParam(c, "id")
	if slotID == 0 {
		return
	}

	if err := h.bookingService.DeleteSlot(c.Request.Context(), currentActor(c), slotID); err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, SuccessResponse{Message: "Exam slot deleted"})
}
