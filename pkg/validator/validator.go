package validator

import (
	"errors"
	"time"

	"contractor-booking/internal/domain/entity"

	"github.com/go-playground/validator/v10"
)

type CustomValidator struct {
	validator *validator.Validate
}

func NewValidator() *CustomValidator {
	v := validator.New()
	// registration only fails on an empty tag or nil func
	_ = v.RegisterValidation("slot_time", validateSlotTime)
	return &CustomValidator{
		validator: v,
	}
}

// validateSlotTime accepts labels like "10:30 AM".
func validateSlotTime(fl validator.FieldLevel) bool {
	label := fl.Field().String()
	t, err := time.Parse(entity.SlotTimeLayout, label)
	if err != nil {
		return false
	}
	return t.Format(entity.SlotTimeLayout) == label && t.Minute()%30 == 0
}

func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}

func (cv *CustomValidator) FormatValidationErrors(err error) map[string]string {
	errs := make(map[string]string)

	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		for _, e := range validationErrors {
			field := e.Field()
			switch e.Tag() {
			case "required":
				errs[field] = field + " is required"
			case "uuid":
				errs[field] = field + " must be a valid UUID"
			case "datetime":
				errs[field] = field + " must match " + e.Param()
			case "slot_time":
				errs[field] = field + " must be a half-hour label like 10:30 AM"
			case "min":
				errs[field] = field + " must be at least " + e.Param()
			case "max":
				errs[field] = field + " must be at most " + e.Param()
			default:
				errs[field] = field + " is invalid"
			}
		}
	}

	return errs
}
