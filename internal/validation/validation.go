// Package validation configures the struct validator shared by the HTTP layer and the services.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	apperr "salespipeline/internal/errors"
	"salespipeline/internal/model"
)

// MaxAmount is the exclusive upper bound of a decimal(12,2) amount column.
var MaxAmount = decimal.New(1, 10)

// Validator checks tagged structs and reports failures as *errors.ValidationError.
type Validator struct {
	validate *validator.Validate
}

// New builds a Validator with the domain enum tags registered.
func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		for _, tag := range []string{"json", "query"} {
			name := strings.SplitN(f.Tag.Get(tag), ",", 2)[0]
			if name != "" && name != "-" {
				return name
			}
		}
		return f.Name
	})

	v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := d.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})

	mustRegister(v, "user_role", func(fl validator.FieldLevel) bool {
		return model.Role(fl.Field().String()).Valid()
	})
	mustRegister(v, "opportunity_stage", func(fl validator.FieldLevel) bool {
		return model.Stage(fl.Field().String()).Valid()
	})
	mustRegister(v, "persona", func(fl validator.FieldLevel) bool {
		return model.Persona(fl.Field().String()).Valid()
	})
	mustRegister(v, "money", func(fl validator.FieldLevel) bool {
		d, ok := moneyValue(fl)
		return ok && d.Equal(d.Round(2)) && d.Abs().LessThan(MaxAmount)
	})

	return &Validator{validate: v}
}

// moneyValue returns the decimal behind fl. The registered type func hands validators a float64,
// so the exact value is read back from the parent struct when there is one.
func moneyValue(fl validator.FieldLevel) (decimal.Decimal, bool) {
	parent := fl.Parent()
	for parent.IsValid() && parent.Kind() == reflect.Ptr && !parent.IsNil() {
		parent = parent.Elem()
	}
	if parent.IsValid() && parent.Kind() == reflect.Struct {
		f := parent.FieldByName(fl.StructFieldName())
		for f.IsValid() && f.Kind() == reflect.Ptr {
			if f.IsNil() {
				return decimal.Decimal{}, false
			}
			f = f.Elem()
		}
		if f.IsValid() && f.CanInterface() {
			if d, ok := f.Interface().(decimal.Decimal); ok {
				return d, true
			}
		}
	}
	switch fl.Field().Kind() {
	case reflect.Float32, reflect.Float64:
		return decimal.NewFromFloat(fl.Field().Float()), true
	}
	return decimal.Decimal{}, false
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("register %s validation: %v", tag, err))
	}
}

// Struct validates s. The first failing field is returned as a ValidationError.
func (v *Validator) Struct(s interface{}) error {
	err := v.validate.Struct(s)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		fe := fieldErrs[0]
		return apperr.NewValidationError(fe.Field(), describe(fe))
	}
	return apperr.NewValidationError("", err.Error())
}

// Var validates a single value against tag.
func (v *Validator) Var(field string, value interface{}, tag string) error {
	err := v.validate.Var(value, tag)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		return apperr.NewValidationError(field, describe(fieldErrs[0]))
	}
	return apperr.NewValidationError(field, err.Error())
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "user_role":
		return fmt.Sprintf("must be one of %q, %q, %q", model.RoleIC, model.RoleFrontLineManager, model.RoleExecutive)
	case "opportunity_stage":
		return fmt.Sprintf("must be one of %v", model.Stages)
	case "persona":
		return fmt.Sprintf("must be one of %q, %q, %q", model.PersonaIC, model.PersonaManager, model.PersonaExecutive)
	case "money":
		return "must have at most 2 decimal places and be less than " + MaxAmount.String()
	case "gt":
		return "must be greater than " + fe.Param()
	case "min":
		return "must be at least " + fe.Param()
	case "max":
		return "must be at most " + fe.Param()
	default:
		return fmt.Sprintf("failed %s validation", fe.Tag())
	}
}
