package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"

	"homeDesignAi/internal/design"
)

// Bounds for the room count field.
const (
	MinRooms = 1
	MaxRooms = 50
)

const (
	msgStyle       = "Please enter a valid design style (minimum 2 characters)"
	msgSize        = "Please enter the home size"
	msgRooms       = "Please enter the number of rooms"
	msgRoomsNumber = "Number of rooms must be a valid number"
)

var msgRoomsRange = fmt.Sprintf("Number of rooms should be between %d and %d", MinRooms, MaxRooms)

// Validate checks the three required form fields and returns one message per
// problem found. An empty slice means the input is usable.
func Validate(style, size, rooms string) []string {
	errs := []string{}

	if utf8.RuneCountInString(strings.TrimSpace(style)) < 2 {
		errs = append(errs, msgStyle)
	}
	if strings.TrimSpace(size) == "" {
		errs = append(errs, msgSize)
	}

	rooms = strings.TrimSpace(rooms)
	if rooms == "" {
		return append(errs, msgRooms)
	}
	count, err := strconv.Atoi(rooms)
	switch {
	case err != nil:
		errs = append(errs, msgRoomsNumber)
	case count < MinRooms || count > MaxRooms:
		errs = append(errs, msgRoomsRange)
	}
	return errs
}

// ValidateRequest runs Validate on the required fields and ValidateDetails on
// the planning block of a normalized request.
func ValidateRequest(req design.Request) []string {
	errs := Validate(req.Style, req.Size, req.Rooms)
	return append(errs, ValidateDetails(req.Details)...)
}

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func instance() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
	})
	return validate
}

var fieldLabels = map[string]string{
	"Bedrooms":               "Number of bedrooms",
	"Bathrooms":              "Number of bathrooms",
	"Doors":                  "Number of exterior doors",
	"Windows":                "Number of windows",
	"AdditionalRequirements": "Additional requirements",
	"Name":                   "Room name",
}

// ValidateDetails checks the optional planning block against its numeric bounds.
func ValidateDetails(details design.Details) []string {
	err := instance().Struct(details)
	if err == nil {
		return []string{}
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return []string{err.Error()}
	}

	// Repeated room failures collapse into one message.
	seen := make(map[string]bool, len(fieldErrs))
	errs := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		msg := describe(fe)
		if seen[msg] {
			continue
		}
		seen[msg] = true
		errs = append(errs, msg)
	}
	return errs
}

func describe(fe validator.FieldError) string {
	label := fieldLabels[fe.StructField()]
	if label == "" {
		label = fe.StructField()
	}

	switch fe.Tag() {
	case "required":
		return label + " is required"
	case "min", "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at most %s characters", label, fe.Param())
		}
		lo, hi := bounds(fe.StructField())
		return fmt.Sprintf("%s must be between %d and %d", label, lo, hi)
	default:
		return fmt.Sprintf("%s is invalid", label)
	}
}

func bounds(field string) (int, int) {
	switch field {
	case "Bedrooms", "Doors":
		return 1, 10
	case "Bathrooms":
		return 1, 8
	case "Windows":
		return 1, 30
	}
	return 0, 0
}
