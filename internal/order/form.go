package order

import (
	"errors"
	"reflect"
	"strings"
	"sync"

	validator "github.com/go-playground/validator/v10"
)

// ErrInvalidForm is wrapped by every form validation failure.
var ErrInvalidForm = errors.New("order: invalid delivery details")

// Form holds the delivery details typed by the customer.
type Form struct {
	Name   string `json:"name" validate:"required,max=100"`
	Phone  string `json:"phone" validate:"required,len=10,number"`
	Hostel string `json:"hostel" validate:"required,max=100"`
	Room   string `json:"room" validate:"required,max=20"`
	Notes  string `json:"notes" validate:"max=500"`
}

// ValidationError lists the offending fields with a short reason each.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, name := range formFieldOrder {
		if reason, ok := e.Fields[name]; ok {
			parts = append(parts, name+" "+reason)
		}
	}
	return ErrInvalidForm.Error() + ": " + strings.Join(parts, ", ")
}

// Unwrap exposes ErrInvalidForm.
func (e *ValidationError) Unwrap() error { return ErrInvalidForm }

var formFieldOrder = []string{"name", "phone", "hostel", "room", "notes"}

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func formValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
	})
	return validate
}

// Normalized returns a copy with surrounding whitespace removed.
func (f Form) Normalized() Form {
	return Form{
		Name:   strings.TrimSpace(f.Name),
		Phone:  strings.TrimSpace(f.Phone),
		Hostel: strings.TrimSpace(f.Hostel),
		Room:   strings.TrimSpace(f.Room),
		Notes:  strings.TrimSpace(f.Notes),
	}
}

// Validate checks the normalized form. It returns a *ValidationError on failure.
func (f Form) Validate() error {
	err := formValidator().Struct(f.Normalized())
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		fields[fe.Field()] = reason(fe)
	}
	return &ValidationError{Fields: fields}
}

func reason(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "len", "number":
		return "must be a 10 digit phone number"
	case "max":
		return "is too long"
	default:
		return "is invalid"
	}
}
