package patient

import (
	"errors"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

var (
	datePattern = regexp.MustCompile(`^\d{2}-\d{2}-\d{4}$`)
	timePattern = regexp.MustCompile(`^([01]\d|2[0-3]):[0-5]\d$`)
)

// BookingRequest is the booking form record. PatientID is filled from the
// authenticated identity, never from the request body.
type BookingRequest struct {
	PatientID       string `json:"-"`
	PatientName     string `json:"patientName"`
	AppointmentDate string `json:"appointmentDate" validate:"required,date_ddmmyyyy"`
	AppointmentTime string `json:"appointmentTime" validate:"required,time_hhmm"`
	ReasonForVisit  string `json:"reasonForVisit" validate:"required"`
	VisitType       string `json:"visitType" validate:"required"`
	PaymentMethod   string `json:"paymentMethod" validate:"required"`
	PaymentAmount   string `json:"paymentAmount"`
	PaymentStatus   string `json:"paymentStatus"`
	Status          string `json:"status"`
}

type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func newValidate() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	v.RegisterValidation("date_ddmmyyyy", func(fl validator.FieldLevel) bool {
		return datePattern.MatchString(fl.Field().String())
	})
	v.RegisterValidation("time_hhmm", func(fl validator.FieldLevel) bool {
		return timePattern.MatchString(fl.Field().String())
	})

	return v
}

var validate = newValidate()

func ValidateBooking(req BookingRequest) []FieldError {
	err := validate.Struct(req)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []FieldError{{Message: err.Error()}}
	}
	out := make([]FieldError, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, FieldError{Field: fe.Field(), Message: bookingMessage(fe)})
	}
	return out
}

func bookingMessage(fe validator.FieldError) string {
	switch fe.Field() {
	case "appointmentDate":
		if fe.Tag() == "required" {
			return "Appointment date is required"
		}
		return "Invalid date format. Use DD-MM-YYYY"
	case "appointmentTime":
		if fe.Tag() == "required" {
			return "Appointment time is required"
		}
		return "Invalid time format. Use HH:MM"
	case "reasonForVisit":
		return "Reason for visit is required"
	case "visitType":
		return "Visit type is required"
	case "paymentMethod":
		return "Payment method is required"
	}
	return fe.Field() + " is invalid"
}
