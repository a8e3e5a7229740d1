package middleware

import (
	"errors"
	"fmt"
	"log/slog"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	apierrors "feargreed/internal/errors"
)

// MaxPeriodDays is the largest accepted period window.
const MaxPeriodDays = 3650

// Validator validates request structs using struct tags.
type Validator struct {
	validate *validator.Validate
	logger   *slog.Logger
}

// NewValidator creates a validator with the dashboard's custom tags:
// alphanum_underscore and period.
func NewValidator(logger *slog.Logger) *Validator {
	v := validator.New()

	v.RegisterValidation("alphanum_underscore", isAlphanumUnderscore)
	v.RegisterValidation("period", isPeriod)

	// Use JSON tag names in error messages
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	return &Validator{
		validate: v,
		logger:   logger.With(slog.String("component", "validator")),
	}
}

// ValidateStruct validates v and returns an *apierrors.APIError listing
// every failing field.
func (m *Validator) ValidateStruct(v interface{}) error {
	err := m.validate.Struct(v)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return apierrors.InvalidRequestWithError(err)
	}

	validationErrors := make([]apierrors.ValidationError, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		validationErrors = append(validationErrors, apierrors.ValidationError{
			Field:   fieldName(fe),
			Message: formatValidationError(fe),
		})
	}
	return apierrors.NewValidationErrors(validationErrors)
}

// fieldName keeps the slice index for dive errors, e.g. overlays[1].
func fieldName(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}

func formatValidationError(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "alphanum_underscore":
		return fmt.Sprintf("%s may only contain letters, digits and underscores", field)
	case "period":
		return fmt.Sprintf("%s must be \"all\" or a number of days between 1 and %d", field, MaxPeriodDays)
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, strings.ReplaceAll(fe.Param(), " ", ", "))
	case "max":
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	default:
		return fmt.Sprintf("%s failed %s validation", field, fe.Tag())
	}
}

// isAlphanumUnderscore accepts identifiers like chart and overlay keys.
func isAlphanumUnderscore(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	if s == "" || len(s) > 64 {
		return false
	}
	for _, ch := range s {
		if !((ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z') || (ch >= '0' && ch <= '9') || ch == '_') {
			return false
		}
	}
	return true
}

// isPeriod accepts "all" or a day count in [1, MaxPeriodDays].
func isPeriod(fl validator.FieldLevel) bool {
	s := strings.TrimSpace(fl.Field().String())
	if strings.EqualFold(s, "all") {
		return true
	}
	days, err := strconv.Atoi(s)
	if err != nil {
		return false
	}
	return days >= 1 && days <= MaxPeriodDays
}
