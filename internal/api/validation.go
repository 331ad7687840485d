package api

import (
	"errors"
	"reflect"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"

	"parkshare/internal/entities"
	"parkshare/internal/utils"
)

// ValidationError represents a validation error
type ValidationError struct {
	Field   string `json:"field"`
	Tag     string `json:"tag"`
	Message string `json:"message"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	// clock accepts HH:MM, including 24:00 as the end of the day.
	v.RegisterValidation("clock", func(fl validator.FieldLevel) bool {
		_, _, err := utils.ParseClock(fl.Field().String())
		return err == nil
	})
	return v
}

// ValidateStruct validates a struct and returns formatted errors
func ValidateStruct(s interface{}) []ValidationError {
	return formatErrors(validate.Struct(s), "")
}

// ValidateAvailabilityRequest also validates every day setting. The dive on
// the map only checks its keys.
func ValidateAvailabilityRequest(req entities.ReplaceAvailabilityRequest) []ValidationError {
	out := ValidateStruct(req)

	dates := make([]string, 0, len(req.Days))
	for date := range req.Days {
		dates = append(dates, date)
	}
	sort.Strings(dates)
	for _, date := range dates {
		out = append(out, formatErrors(validate.Struct(req.Days[date]), "days["+date+"].")...)
	}
	return out
}

func formatErrors(err error, prefix string) []ValidationError {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil
	}
	out := make([]ValidationError, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, ValidationError{
			Field:   prefix + fe.Field(),
			Tag:     fe.Tag(),
			Message: prefix + getErrorMessage(fe),
		})
	}
	return out
}

func getErrorMessage(err validator.FieldError) string {
	switch err.Tag() {
	case "required":
		return err.Field() + " is required"
	case "datetime":
		return err.Field() + " must match " + err.Param()
	case "clock":
		return err.Field() + " must be a time in HH:MM format"
	default:
		return err.Field() + " is invalid"
	}
}
