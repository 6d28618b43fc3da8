package scheduling

import (
	"errors"
	"fmt"

	"snaplink/pkg/model"
)

// ValidateSlot checks a candidate slot against the photographer's existing
// slots for the same day. When the candidate carries an id, the existing
// slot with that id is the one being edited and is skipped.
func ValidateSlot(candidate model.Slot, existingSameDay []model.Slot) ValidationErrors {
	r, errs := parseSlotRange(candidate)
	if len(errs) > 0 {
		return errs
	}

	for _, existing := range existingSameDay {
		if candidate.ID != "" && existing.ID == candidate.ID {
			continue
		}
		if existing.DayOfWeek != candidate.DayOfWeek {
			continue
		}
		er, err := ParseClockRange(existing.StartTime, existing.EndTime)
		if err != nil || !er.Valid() {
			continue
		}
		if r.Overlaps(er) {
			ve := newValidationError(ErrTimeOverlap, "startTime",
				fmt.Sprintf("%s overlaps existing slot %s", r, er))
			ve.SlotID = existing.ID
			errs = append(errs, ve.onDay(candidate.DayOfWeek))
		}
	}
	return errs
}

// ValidateBulkSchedule checks a full weekly submission. Each enabled day is
// checked on its own batch only; days are independent of one another.
func ValidateBulkSchedule(photographerID string, days []model.DaySlots) ValidationErrors {
	var errs ValidationErrors
	if photographerID == "" {
		errs = append(errs, ValidationError{Code: "MISSING_PHOTOGRAPHER", Field: "photographerId", Message: "photographerId is required"})
	}

	enabledWithSlots := 0
	for _, day := range days {
		if !day.DayOfWeek.IsValid() {
			errs = append(errs, newValidationError(ErrInvalidDay, "dayOfWeek",
				fmt.Sprintf("invalid day of week %d", int(day.DayOfWeek))))
			continue
		}
		if !day.IsEnabled {
			continue
		}
		if len(day.Slots) > 0 {
			enabledWithSlots++
		}
		errs = append(errs, validateDayBatch(day)...)
	}

	if enabledWithSlots == 0 {
		errs = append(errs, newValidationError(ErrEmptySchedule, "days", ErrEmptySchedule.Error()))
	}
	return errs
}

func validateDayBatch(day model.DaySlots) ValidationErrors {
	var errs ValidationErrors
	ranges := make([]ClockRange, len(day.Slots))
	ok := make([]bool, len(day.Slots))

	for i, s := range day.Slots {
		s.DayOfWeek = day.DayOfWeek
		r, slotErrs := parseSlotRange(s)
		if len(slotErrs) > 0 {
			for _, e := range slotErrs {
				errs = append(errs, e.onDay(day.DayOfWeek))
			}
			continue
		}
		ranges[i], ok[i] = r, true
	}

	for i := 0; i < len(ranges); i++ {
		if !ok[i] {
			continue
		}
		for j := i + 1; j < len(ranges); j++ {
			if ok[j] && ranges[i].Overlaps(ranges[j]) {
				errs = append(errs, newValidationError(ErrTimeOverlap, "slots",
					fmt.Sprintf("%s overlaps %s", ranges[i], ranges[j])).onDay(day.DayOfWeek))
			}
		}
	}
	return errs
}

func parseSlotRange(s model.Slot) (ClockRange, ValidationErrors) {
	var errs ValidationErrors
	start, err := ParseTimeOfDay(s.StartTime)
	if err != nil {
		errs = append(errs, timeError("startTime", err))
	}
	end, err := ParseTimeOfDay(s.EndTime)
	if err != nil {
		errs = append(errs, timeError("endTime", err))
	}
	if len(errs) > 0 {
		return ClockRange{}, errs
	}

	r := ClockRange{Start: start, End: end}
	if !r.Valid() {
		return r, ValidationErrors{newValidationError(ErrInvalidRange, "endTime",
			fmt.Sprintf("endTime %s must be after startTime %s", end, start))}
	}
	return r, nil
}

func timeError(field string, err error) ValidationError {
	if errors.Is(err, ErrMissingTime) {
		return newValidationError(ErrMissingTime, field, field+" is required")
	}
	return newValidationError(ErrMalformedTime, field, field+" must be in HH:MM:SS format")
}
