package patient

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/clinicdesk/clinicdesk/internal/platform/identity"
)

// Notifier is told about new bookings. Send failures stay inside the
// notifier; the booking has already succeeded by then.
type Notifier interface {
	AppointmentBooked(ctx context.Context, patientName string, start time.Time)
}

type Handler struct {
	gw     *Gateway
	notify Notifier
}

func NewHandler(gw *Gateway, notify Notifier) *Handler {
	return &Handler{gw: gw, notify: notify}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.POST("/appointments", h.BookAppointment)
	api.GET("/appointments", h.ListAppointments)
	api.GET("/appointments/slots", h.ScheduledSlots)
}

func (h *Handler) BookAppointment(c echo.Context) error {
	id := identity.FromContext(c)
	if id == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "not signed in")
	}

	var req BookingRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	req.PatientID = id.ID

	if fieldErrs := ValidateBooking(req); len(fieldErrs) > 0 {
		return c.JSON(http.StatusBadRequest, map[string]interface{}{"errors": fieldErrs})
	}

	patientName := req.PatientName
	if patientName == "" {
		patientName = id.Email
	}
	paymentStatus := req.PaymentStatus
	if paymentStatus == "" {
		paymentStatus = StatusPending
	}

	apptID, err := h.gw.AddAppointment(c.Request().Context(), req, paymentStatus, patientName)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadGateway, "failed to book appointment")
	}

	if h.notify != nil {
		if start, perr := combineStartTime(req.AppointmentDate, req.AppointmentTime); perr == nil {
			h.notify.AppointmentBooked(c.Request().Context(), patientName, start)
		}
	}

	return c.JSON(http.StatusCreated, map[string]string{"id": apptID})
}

func (h *Handler) ListAppointments(c echo.Context) error {
	id := identity.FromContext(c)
	if id == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "not signed in")
	}

	appts, err := h.gw.GetPatientAppointments(c.Request().Context(), id.ID)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadGateway, "failed to load appointments")
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"appointments": appts})
}

// ScheduledSlots returns every booked start time in the system, for the
// booking screen's slot-availability check.
func (h *Handler) ScheduledSlots(c echo.Context) error {
	starts, err := h.gw.GetScheduledAppointments(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusBadGateway, "failed to load scheduled appointments")
	}

	out := make([]string, 0, len(starts))
	for _, t := range starts {
		out = append(out, t.Format(time.RFC3339))
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"booked": out})
}
