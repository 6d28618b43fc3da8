package validator

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"snaplink/pkg/logger"
	"snaplink/pkg/model"
	"snaplink/pkg/scheduling"
)

type BookingValidator struct {
	validate *validator.Validate
	logger   *logger.Logger
	now      func() time.Time
}

func NewBookingValidator(log *logger.Logger) *BookingValidator {
	v := validator.New()
	v.RegisterTagNameFunc(jsonFieldName)

	if err := v.RegisterValidation("booking_status", validateBookingStatus); err != nil {
		log.Fatal("Failed to register 'booking_status' validator", "error", err)
	}
	v.RegisterStructValidation(validateRequestLocation, model.BookingRequest{})
	v.RegisterStructValidation(validateRescheduleLocation, model.RescheduleRequest{})

	log.Info("Booking validator initialized successfully")

	return &BookingValidator{
		validate: v,
		logger:   log,
		now:      time.Now,
	}
}

func jsonFieldName(fld reflect.StructField) string {
	name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
	if name == "-" || name == "" {
		return fld.Name
	}
	return name
}

func validateBookingStatus(fl validator.FieldLevel) bool {
	return model.BookingStatus(fl.Field().String()).IsValid()
}

// A booking takes place at exactly one of a venue or a customer supplied place.
func validateRequestLocation(sl validator.StructLevel) {
	req := sl.Current().Interface().(model.BookingRequest)
	checkLocation(sl, req.LocationID, req.ExternalLocation)
}

func validateRescheduleLocation(sl validator.StructLevel) {
	req := sl.Current().Interface().(model.RescheduleRequest)
	checkLocation(sl, req.LocationID, req.ExternalLocation)
}

func checkLocation(sl validator.StructLevel, locationID string, external *model.ExternalLocation) {
	if (locationID == "") == (external == nil) {
		sl.ReportError(locationID, "locationId", "LocationID", "location_xor", "")
	}
	if external != nil && (external.Latitude == nil) != (external.Longitude == nil) {
		sl.ReportError(external, "externalLocation", "ExternalLocation", "coordinates_pair", "")
	}
}

func (v *BookingValidator) ValidateRequest(req *model.BookingRequest) error {
	return v.check(req, req.StartDatetime)
}

func (v *BookingValidator) ValidateReschedule(req *model.RescheduleRequest) error {
	return v.check(req, req.StartDatetime)
}

// ValidateBooking checks a booking document before it is stored.
func (v *BookingValidator) ValidateBooking(b *model.Booking) error {
	if err := v.validate.Struct(b); err != nil {
		return translate(err)
	}
	return nil
}

func (v *BookingValidator) check(req any, start time.Time) error {
	var errs scheduling.ValidationErrors
	if err := v.validate.Struct(req); err != nil {
		var list scheduling.ValidationErrors
		if errors.As(translate(err), &list) {
			errs = append(errs, list...)
		} else {
			return err
		}
	}
	if !start.IsZero() && !start.After(v.now()) {
		errs = append(errs, scheduling.ValidationError{
			Code:    "START_IN_PAST",
			Field:   "startDatetime",
			Message: "startDatetime must be in the future",
		})
	}
	return errs.Err()
}

func translate(err error) error {
	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return err
	}

	var out scheduling.ValidationErrors
	for _, fe := range validationErrs {
		ve := scheduling.ValidationError{
			Code:    "INVALID_FIELD",
			Field:   fe.Field(),
			Message: fe.Error(),
		}

		switch fe.Tag() {
		case "required":
			ve.Code = "MISSING_FIELD"
			ve.Message = fmt.Sprintf("%s is required", fe.Field())
		case "max", "min":
			ve.Message = fmt.Sprintf("%s must be %s %s characters", fe.Field(), map[string]string{"max": "at most", "min": "at least"}[fe.Tag()], fe.Param())
		case "gtfield":
			ve.Kind = scheduling.ErrInvalidRange
			ve.Code = "INVALID_RANGE"
			ve.Message = "endDatetime must be after startDatetime"
		case "mongodb":
			ve.Message = fmt.Sprintf("%s must be a valid id", fe.Field())
		case "latitude", "longitude":
			ve.Message = fmt.Sprintf("%s is out of range", fe.Field())
		case "booking_status":
			ve.Message = "status must be one of Pending, Confirmed, In_Progress, Completed, Cancelled, Expired, Under_Review"
		case "location_xor":
			ve.Code = "INVALID_LOCATION"
			ve.Message = "exactly one of locationId or externalLocation is required"
		case "coordinates_pair":
			ve.Code = "INVALID_LOCATION"
			ve.Message = "latitude and longitude must be given together"
		}

		out = append(out, ve)
	}
	return out
}
