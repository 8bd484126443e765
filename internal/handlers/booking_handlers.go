package handlers

import (
	"net/http"

	"rentalhub/internal/common"
	"rentalhub/internal/models"
	"rentalhub/internal/services"

	"github.com/labstack/echo/v4"
)

// BookingHandlers handles HTTP requests for bookings
type BookingHandlers struct {
	bookingService services.BookingService
}

// NewBookingHandlers creates a new booking handlers instance
func NewBookingHandlers(bookingService services.BookingService) *BookingHandlers {
	return &BookingHandlers{bookingService: bookingService}
}

// CreateBookingRequest carries dates as strings so both plain dates and
// RFC 3339 timestamps are accepted.
type CreateBookingRequest struct {
	PropertyID string `json:"propertyId"`
	DateRange  struct {
		Start string `json:"start"`
		End   string `json:"end"`
	} `json:"dateRange"`
	Amount *float64 `json:"amount"`
}

func (r *CreateBookingRequest) toModel() (*models.BookingRequest, error) {
	propertyID, err := common.ValidateUUID(r.PropertyID, "propertyId")
	if err != nil {
		return nil, err
	}
	start, err := parseDate(r.DateRange.Start, "dateRange.start")
	if err != nil {
		return nil, err
	}
	end, err := parseDate(r.DateRange.End, "dateRange.end")
	if err != nil {
		return nil, err
	}
	return &models.BookingRequest{
		PropertyID: propertyID,
		DateRange:  models.DateRange{Start: start, End: end},
		Amount:     r.Amount,
	}, nil
}

func (h *BookingHandlers) CreateBooking(c echo.Context) error {
	caller, err := currentUser(c)
	if err != nil {
		return err
	}
	var req CreateBookingRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	bookingReq, err := req.toModel()
	if err != nil {
		return err
	}

	booking, err := h.bookingService.Create(c.Request().Context(), caller, bookingReq)
	if err != nil {
		return err
	}
	return common.SendData(c, http.StatusCreated, booking)
}

func (h *BookingHandlers) ListBookings(c echo.Context) error {
	bookings, err := h.bookingService.List(c.Request().Context())
	if err != nil {
		return err
	}
	return common.SendList(c, bookings)
}

func (h *BookingHandlers) TenantBookings(c echo.Context) error {
	caller, err := currentUser(c)
	if err != nil {
		return err
	}

	bookings, err := h.bookingService.ListForTenant(c.Request().Context(), caller)
	if err != nil {
		return err
	}
	return common.SendList(c, bookings)
}

func (h *BookingHandlers) AgentBookings(c echo.Context) error {
	caller, err := currentUser(c)
	if err != nil {
		return err
	}

	bookings, err := h.bookingService.ListForAgent(c.Request().Context(), caller)
	if err != nil {
		return err
	}
	return common.SendList(c, bookings)
}

func (h *BookingHandlers) GetBooking(c echo.Context) error {
	caller, err := currentUser(c)
	if err != nil {
		return err
	}
	id, err := pathUUID(c, "id")
	if err != nil {
		return err
	}

	booking, err := h.bookingService.GetByID(c.Request().Context(), caller, id)
	if err != nil {
		return err
	}
	return common.SendData(c, http.StatusOK, booking)
}

// UpdateBooking applies a partial status/paymentStatus update.
func (h *BookingHandlers) UpdateBooking(c echo.Context) error {
	caller, err := currentUser(c)
	if err != nil {
		return err
	}
	id, err := pathUUID(c, "id")
	if err != nil {
		return err
	}
	var req models.BookingStatusUpdate
	if err := bind(c, &req); err != nil {
		return err
	}

	booking, err := h.bookingService.UpdateStatus(c.Request().Context(), caller, id, &req)
	if err != nil {
		return err
	}
	return common.SendData(c, http.StatusOK, booking)
}

func (h *BookingHandlers) CancelBooking(c echo.Context) error {
	caller, err := currentUser(c)
	if err != nil {
		return err
	}
	id, err := pathUUID(c, "id")
	if err != nil {
		return err
	}

	if err := h.bookingService.Cancel(c.Request().Context(), caller, id); err != nil {
		return err
	}
	return common.SendMessage(c, "Booking cancelled successfully")
}
