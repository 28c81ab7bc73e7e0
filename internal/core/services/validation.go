package services

import (
	"errors"
	"fmt"
	"reflect"
	"slices"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/custodia-labs/changegear/internal/core/domain"
)

// paramsValidate checks CalculationParams tags plus the cross-field rules.
// Initialised in init() with the custom validators.
var paramsValidate *validator.Validate

func init() {
	paramsValidate = validator.New()
	_ = paramsValidate.RegisterValidation("ascending", validateAscending)
	paramsValidate.RegisterStructValidation(validateParamsStruct, domain.CalculationParams{})
}

// validateAscending accepts integer slices in non-decreasing order.
// Repeated tooth counts are allowed; the engine collapses them.
func validateAscending(fl validator.FieldLevel) bool {
	field := fl.Field()
	if field.Kind() != reflect.Slice {
		return false
	}
	for i := 1; i < field.Len(); i++ {
		if field.Index(i).Int() < field.Index(i-1).Int() {
			return false
		}
	}
	return true
}

func validateParamsStruct(sl validator.StructLevel) {
	p, ok := sl.Current().Interface().(domain.CalculationParams)
	if !ok {
		return
	}
	if !p.SharedInputGears && len(p.InputGears) == 0 {
		sl.ReportError(p.InputGears, "InputGears", "InputGears", "required_unless_shared", "")
	}
	if p.MinDistance > 0 && p.MaxDistance > 0 && p.MaxDistance < p.MinDistance {
		sl.ReportError(p.MaxDistance, "MaxDistance", "MaxDistance", "gtefield", "MinDistance")
	}
}

// ValidateParams checks params as given. Failures wrap domain.ErrInvalidParams
// and list every offending field.
func ValidateParams(p domain.CalculationParams) error {
	err := paramsValidate.Struct(p)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("%w: %v", domain.ErrInvalidParams, err)
	}
	msgs := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		msgs = append(msgs, fieldMessage(fe))
	}
	return fmt.Errorf("%w: %s", domain.ErrInvalidParams, strings.Join(msgs, "; "))
}

// NormaliseParams returns a copy of p with both gear pools sorted ascending.
// The input pool is dropped when the change-gear pool is shared.
func NormaliseParams(p domain.CalculationParams) domain.CalculationParams {
	p.ChangeGears = slices.Clone(p.ChangeGears)
	slices.Sort(p.ChangeGears)
	if p.SharedInputGears {
		p.InputGears = nil
	} else {
		p.InputGears = slices.Clone(p.InputGears)
		slices.Sort(p.InputGears)
	}
	return p
}

func fieldMessage(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "required_unless_shared":
		return field + " is required unless the change gears are shared"
	case "ascending":
		return field + " must be in ascending order"
	case "min":
		return fmt.Sprintf("%s needs at least %s entries", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s allows at most %s entries", field, fe.Param())
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", field, fe.Param())
	case "gte":
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "lte":
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	case "gtefield":
		return fmt.Sprintf("%s must not be less than %s", field, fe.Param())
	default:
		return fmt.Sprintf("%s failed %s", field, fe.Tag())
	}
}
