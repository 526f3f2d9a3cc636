package lifecycle

import (
	"errors"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"agrotrust/internal/domain/entity"
)

var (
	ErrFarmerNotFound    = errors.New("farmer not found")
	ErrDuplicateFarmer   = errors.New("farmer already registered")
	ErrInvalidTransition = errors.New("invalid order status transition")
	ErrActorNotAllowed   = errors.New("actor not allowed to perform this transition")
	ErrWizardStep        = errors.New("action not allowed at the current step")
)

// FieldError describes one invalid or missing field, keyed by its JSON name.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError is the Invalid side of a validation result.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	msgs := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		msgs[i] = f.Message
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}

// Has reports whether field is among the failures.
func (e *ValidationError) Has(field string) bool {
	for _, f := range e.Fields {
		if f.Field == field {
			return true
		}
	}
	return false
}

// FieldNames lists the failing fields in struct order.
func (e *ValidationError) FieldNames() []string {
	names := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		names[i] = f.Field
	}
	return names
}

var fieldLabels = map[string]string{
	"first_name":         "first name",
	"phone":              "phone",
	"state_of_origin":    "state of origin",
	"state_of_residence": "state of residence",
	"farm_name":          "farm name",
	"farming_method":     "farming method",
	"main_crops":         "main crops",
	"nin":                "NIN",
	"nin_image_url":      "NIN document image",
}

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

// Validator returns the shared validator with the marketplace tags
// registered: ngstate, region and crops. Field names in errors are JSON names.
func Validator() *validator.Validate {
	validateOnce.Do(func() {
		v := validator.New()
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" || name == "" {
				return fld.Name
			}
			return name
		})
		_ = v.RegisterValidation("ngstate", func(fl validator.FieldLevel) bool {
			return entity.IsNigerianState(fl.Field().String())
		})
		_ = v.RegisterValidation("region", func(fl validator.FieldLevel) bool {
			return entity.IsRegion(fl.Field().String())
		})
		_ = v.RegisterValidation("crops", func(fl validator.FieldLevel) bool {
			return len(ParseCrops(fl.Field().String())) > 0
		})
		validate = v
	})
	return validate
}

// toValidationError converts validator output into field errors. Any other
// error is returned unchanged.
func toValidationError(err error) error {
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	out := &ValidationError{}
	seen := make(map[string]bool)
	for _, fe := range verrs {
		field := fe.Field()
		if i := strings.IndexByte(field, '['); i >= 0 {
			field = field[:i]
		}
		if seen[field] {
			continue
		}
		seen[field] = true
		out.Fields = append(out.Fields, FieldError{Field: field, Message: fieldMessage(field, fe)})
	}
	return out
}

func fieldMessage(field string, fe validator.FieldError) string {
	label, ok := fieldLabels[field]
	if !ok {
		label = strings.ReplaceAll(field, "_", " ")
	}

	if field == "main_crops" {
		return "at least one crop is required"
	}

	switch fe.Tag() {
	case "required":
		return label + " is required"
	case "ngstate":
		return label + " must be a Nigerian state"
	case "region":
		return label + " must be a marketplace region"
	case "oneof":
		return label + " must be one of: " + fe.Param()
	case "gt":
		return label + " must be greater than " + fe.Param()
	default:
		return label + " is invalid"
	}
}
