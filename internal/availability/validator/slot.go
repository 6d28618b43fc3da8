package validator

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"snaplink/pkg/logger"
	"snaplink/pkg/model"
	"snaplink/pkg/scheduling"
)

// SlotValidator checks slot documents. Field level problems come from struct
// tags; time format, range and overlap checks come from the scheduling engine.
type SlotValidator struct {
	validate *validator.Validate
	logger   *logger.Logger
}

func NewSlotValidator(log *logger.Logger) *SlotValidator {
	v := validator.New()
	v.RegisterTagNameFunc(jsonFieldName)

	if err := v.RegisterValidation("day_of_week", validateDayOfWeek); err != nil {
		log.Fatal("Failed to register 'day_of_week' validator", "error", err)
	}
	if err := v.RegisterValidation("slot_status", validateSlotStatus); err != nil {
		log.Fatal("Failed to register 'slot_status' validator", "error", err)
	}

	log.Info("Slot validator initialized successfully")

	return &SlotValidator{
		validate: v,
		logger:   log,
	}
}

func jsonFieldName(fld reflect.StructField) string {
	name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
	if name == "-" || name == "" {
		return fld.Name
	}
	return name
}

func validateDayOfWeek(fl validator.FieldLevel) bool {
	return model.DayOfWeek(fl.Field().Int()).IsValid()
}

func validateSlotStatus(fl validator.FieldLevel) bool {
	_, ok := model.ParseSlotStatus(fl.Field().String())
	return ok
}

// Validate checks a single slot against the other slots of the same day.
func (v *SlotValidator) Validate(slot *model.Slot, existingSameDay []model.Slot) scheduling.ValidationErrors {
	errs := v.validateFields(slot)
	return append(errs, scheduling.ValidateSlot(*slot, existingSameDay)...)
}

// ValidateWeekly checks a full weekly submission, reporting every problem.
func (v *SlotValidator) ValidateWeekly(photographerID string, days []model.DaySlots) scheduling.ValidationErrors {
	var errs scheduling.ValidationErrors
	for _, day := range days {
		if !day.IsEnabled {
			continue
		}
		for i := range day.Slots {
			s := day.Slots[i]
			s.PhotographerID = photographerID
			if day.DayOfWeek.IsValid() {
				s.DayOfWeek = day.DayOfWeek
			}
			for _, e := range v.validateFields(&s) {
				if e.Code == "MISSING_PHOTOGRAPHER" || e.Field == "dayOfWeek" {
					continue
				}
				errs = append(errs, e)
			}
		}
	}
	return append(errs, scheduling.ValidateBulkSchedule(photographerID, days)...)
}

func (v *SlotValidator) validateFields(slot *model.Slot) scheduling.ValidationErrors {
	if err := v.validate.Struct(slot); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return translateValidationErrors(validationErrs)
		}
		return scheduling.ValidationErrors{{Code: "INVALID_FIELD", Message: err.Error()}}
	}
	return nil
}

func translateValidationErrors(errs validator.ValidationErrors) scheduling.ValidationErrors {
	var out scheduling.ValidationErrors

	for _, err := range errs {
		ve := scheduling.ValidationError{
			Code:    "INVALID_FIELD",
			Field:   err.Field(),
			Message: err.Error(),
		}

		switch err.Tag() {
		case "required":
			ve.Message = fmt.Sprintf("%s is required", err.Field())
			if err.Field() == "photographerId" {
				ve.Code = "MISSING_PHOTOGRAPHER"
			}
		case "max":
			ve.Message = fmt.Sprintf("%s must be at most %s characters", err.Field(), err.Param())
		case "mongodb":
			ve.Message = fmt.Sprintf("%s must be a valid id", err.Field())
		case "day_of_week":
			ve.Kind = scheduling.ErrInvalidDay
			ve.Code = "INVALID_DAY"
			ve.Message = scheduling.ErrInvalidDay.Error()
		case "slot_status":
			ve.Message = "status must be Available or Unavailable"
		}

		out = append(out, ve)
	}

	return out
}
