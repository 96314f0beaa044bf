package account

import (
	"errors"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Form schemas, ported from the client's declarative validation rules. Runs
// before any provider call; a failing record never reaches the gateway.

var (
	passwordLower   = regexp.MustCompile(`[a-z]`)
	passwordUpper   = regexp.MustCompile(`[A-Z]`)
	passwordDigit   = regexp.MustCompile(`[0-9]`)
	passwordSpecial = regexp.MustCompile(`[@$!%*?&]`)
	passwordCharset = regexp.MustCompile(`^[A-Za-z0-9@$!%*?&]+$`)

	// Egyptian mobile numbers, with optional +20/0 prefix and separators.
	phonePattern = regexp.MustCompile(`^(?:\+20|0)?1[0125][-\s]?[0-9]{4}[-\s]?[0-9]{4}$`)

	dobPattern = regexp.MustCompile(`^\d{2}-\d{2}-\d{4}$`)
)

// Registration is the sign-up form record.
type Registration struct {
	Email           string `json:"email" validate:"required,email"`
	Password        string `json:"password" validate:"required,min=8,passwordclass"`
	ConfirmPassword string `json:"confirmPassword" validate:"required,eqfield=Password"`
	Name            string `json:"name" validate:"required,min=3,max=20"`
	Phone           string `json:"phone" validate:"required,phone_eg"`
	DOB             string `json:"dob" validate:"required,dob_format"`
	Gender          string `json:"gender" validate:"required,oneof=male female"`
}

// Credentials is the sign-in form record.
type Credentials struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// FieldError is a per-field validation failure rendered inline by the client.
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

	v.RegisterValidation("passwordclass", func(fl validator.FieldLevel) bool {
		p := fl.Field().String()
		return passwordCharset.MatchString(p) &&
			passwordLower.MatchString(p) &&
			passwordUpper.MatchString(p) &&
			passwordDigit.MatchString(p) &&
			passwordSpecial.MatchString(p)
	})
	v.RegisterValidation("phone_eg", func(fl validator.FieldLevel) bool {
		return phonePattern.MatchString(fl.Field().String())
	})
	v.RegisterValidation("dob_format", func(fl validator.FieldLevel) bool {
		return dobPattern.MatchString(fl.Field().String())
	})

	return v
}

var validate = newValidate()

func ValidateRegistration(r Registration) []FieldError {
	return collectFieldErrors(validate.Struct(r))
}

func ValidateCredentials(cr Credentials) []FieldError {
	return collectFieldErrors(validate.Struct(cr))
}

func collectFieldErrors(err error) []FieldError {
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []FieldError{{Message: err.Error()}}
	}
	out := make([]FieldError, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, FieldError{Field: fe.Field(), Message: fieldMessage(fe)})
	}
	return out
}

// fieldMessage reproduces the client's inline messages per field and rule.
func fieldMessage(fe validator.FieldError) string {
	switch fe.Field() {
	case "email":
		if fe.Tag() == "required" {
			return "Email is required"
		}
		return "Invalid Email"
	case "password":
		switch fe.Tag() {
		case "required", "min":
			return "Password must be at least 8 characters"
		default:
			return "Password must contain at least one uppercase letter, one lowercase letter, one number, and one special character"
		}
	case "confirmPassword":
		if fe.Tag() == "required" {
			return "Confirm password is required"
		}
		return "Passwords don't match"
	case "name":
		if fe.Tag() == "max" {
			return "Name must be less than 20 characters"
		}
		return "Name must be at least 3 characters"
	case "phone":
		if fe.Tag() == "required" {
			return "Phone is required"
		}
		return "Phone number must be 10 digits"
	case "dob":
		if fe.Tag() == "required" {
			return "Date of birth is required"
		}
		return "Invalid date format. Use DD-MM-YYYY"
	case "gender":
		if fe.Tag() == "required" {
			return "Gender selection is required"
		}
		return "Please select a valid gender option"
	}
	return fe.Field() + " is invalid"
}
