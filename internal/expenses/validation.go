package expenses

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/suyash01/expensehub/internal/apperr"
	"github.com/suyash01/expensehub/internal/models"
)

var maxAmount = decimal.NewFromInt(100_000_000)

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	// Amounts are validated through their decimal string form.
	v.RegisterCustomTypeFunc(func(f reflect.Value) any {
		if d, ok := f.Interface().(decimal.Decimal); ok {
			return d.String()
		}
		return nil
	}, decimal.Decimal{})

	mustRegister(v, "positive", func(fl validator.FieldLevel) bool {
		d, err := decimal.NewFromString(fl.Field().String())
		return err == nil && d.IsPositive()
	})
	// Amounts are stored as NUMERIC(10,2).
	mustRegister(v, "money", func(fl validator.FieldLevel) bool {
		d, err := decimal.NewFromString(fl.Field().String())
		return err == nil && d.Equal(d.Round(2)) && d.Abs().LessThan(maxAmount)
	})
	mustRegister(v, "category", func(fl validator.FieldLevel) bool {
		return models.Category(fl.Field().String()).Valid()
	})
	mustRegister(v, "category_filter", func(fl validator.FieldLevel) bool {
		s := fl.Field().String()
		return s == models.AllCategories || models.Category(s).Valid()
	})
	mustRegister(v, "status_filter", func(fl validator.FieldLevel) bool {
		s := fl.Field().String()
		return s == models.AllStatuses || models.Status(s).Valid()
	})
	return v
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("register %s: %v", tag, err))
	}
}

// validateInput runs v over in and turns the first failure into a
// BadRequest with a readable message.
func validateInput(v *validator.Validate, in any) error {
	err := v.Struct(in)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return apperr.BadRequestWrap("Invalid input", err)
	}
	return apperr.BadRequestWrap(fieldMessage(verrs[0]), err)
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "positive":
		return "Amount must be positive"
	case "money":
		return "Amount must have at most 2 decimal places and be less than " + maxAmount.String()
	case "category":
		return "Category must be one of: " + joinValues(models.Categories)
	case "category_filter":
		return "Category must be All or one of: " + joinValues(models.Categories)
	case "status_filter":
		return "Status must be all or one of: " + joinValues(models.Statuses)
	case "required", "min":
		if fe.Field() == "description" {
			return "Description is required"
		}
		if fe.Tag() == "required" {
			return fmt.Sprintf("%s is required", fe.Field())
		}
		return fmt.Sprintf("%s must be at least %s", fe.Field(), fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", fe.Field(), strings.ReplaceAll(fe.Param(), " ", ", "))
	}
	return fmt.Sprintf("%s is invalid", fe.Field())
}

func joinValues[T ~string](vals []T) string {
	parts := make([]string, len(vals))
	for i, v := range vals {
		parts[i] = string(v)
	}
	return strings.Join(parts, ", ")
}
