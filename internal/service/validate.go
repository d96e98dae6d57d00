package service

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/pkordes/vacation-booking/backend/internal/domain"
)

// validate is shared by every service. validator.Validate caches struct
// metadata and is safe for concurrent use.
var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Report JSON field names so messages match what clients sent.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})

	if err := v.RegisterValidation("imagename", func(fl validator.FieldLevel) bool {
		return domain.ValidImageName(fl.Field().String())
	}); err != nil {
		panic(err)
	}
	if err := v.RegisterValidation("cents", func(fl validator.FieldLevel) bool {
		return domain.ValidPrice(fl.Field().Float())
	}); err != nil {
		panic(err)
	}
	return v
}

// validateStruct runs struct-tag validation and converts failures into a
// domain.ErrValidation carrying one readable message per failed field.
func validateStruct(s any) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fieldMessage(fe))
	}
	return fmt.Errorf("%w: %s", domain.ErrValidation, strings.Join(msgs, "; "))
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fe.Field() + " is required"
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", fe.Field(), fe.Param())
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", fe.Field(), fe.Param())
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", fe.Field(), fe.Param())
	case "lte":
		return fmt.Sprintf("%s must be at most %s", fe.Field(), fe.Param())
	case "gtfield":
		return fmt.Sprintf("%s must be after %s", fe.Field(), lowerFirst(fe.Param()))
	case "email":
		return fe.Field() + " must be a valid email address"
	case "cents":
		return fe.Field() + " must have at most 2 decimal places"
	case "imagename":
		return fe.Field() + " must not contain path separators or start with a dot"
	default:
		return fe.Field() + " is invalid"
	}
}

// lowerFirst turns a Go field name (StartDate) into its JSON name (startDate).
func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}

// normalizeVacation trims surrounding whitespace from every text field so
// whitespace-only values fail the required check.
func normalizeVacation(v domain.Vacation) domain.Vacation {
	v.Destination = strings.TrimSpace(v.Destination)
	v.Description = strings.TrimSpace(v.Description)
	v.ImageName = strings.TrimSpace(v.ImageName)
	return v
}

// validateVacation enforces the shape rules common to Create and Update:
//   - destination, description, dates and imageName are required;
//   - endDate must be strictly after startDate;
//   - price must be positive, at most 1,000,000 and in whole cents.
func validateVacation(v domain.Vacation) error {
	return validateStruct(v)
}
