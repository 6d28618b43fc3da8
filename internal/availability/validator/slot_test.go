package validator

import (
	"testing"

	"snaplink/pkg/logger"
	"snaplink/pkg/model"
)

func newTestValidator() *SlotValidator {
	log := logger.New(logger.Config{
		Level:     "error",
		Format:    logger.JSON,
		AddSource: false,
		Service:   "test",
	})
	return NewSlotValidator(log)
}

func codes(errs []string) map[string]bool {
	m := make(map[string]bool, len(errs))
	for _, c := range errs {
		m[c] = true
	}
	return m
}

func TestSlotValidator_Validate(t *testing.T) {
	v := newTestValidator()
	existing := []model.Slot{
		{ID: "a", PhotographerID: "p1", DayOfWeek: model.Monday, StartTime: "09:00:00", EndTime: "10:00:00", Status: model.SlotAvailable},
	}

	tests := []struct {
		name      string
		slot      model.Slot
		wantCodes []string
	}{
		{
			name:      "valid adjacent slot",
			slot:      model.Slot{PhotographerID: "p1", DayOfWeek: model.Monday, StartTime: "10:00:00", EndTime: "11:00:00", Status: model.SlotAvailable},
			wantCodes: nil,
		},
		{
			name:      "overlapping slot",
			slot:      model.Slot{PhotographerID: "p1", DayOfWeek: model.Monday, StartTime: "09:30:00", EndTime: "10:30:00", Status: model.SlotAvailable},
			wantCodes: []string{"TIME_OVERLAP"},
		},
		{
			name:      "missing photographer and bad status",
			slot:      model.Slot{DayOfWeek: model.Tuesday, StartTime: "09:00:00", EndTime: "10:00:00", Status: "Booked"},
			wantCodes: []string{"MISSING_PHOTOGRAPHER", "INVALID_FIELD"},
		},
		{
			name:      "day out of range",
			slot:      model.Slot{PhotographerID: "p1", DayOfWeek: 7, StartTime: "09:00:00", EndTime: "10:00:00", Status: model.SlotAvailable},
			wantCodes: []string{"INVALID_DAY"},
		},
		{
			name:      "inverted range",
			slot:      model.Slot{PhotographerID: "p1", DayOfWeek: model.Friday, StartTime: "12:00:00", EndTime: "11:00:00", Status: model.SlotAvailable},
			wantCodes: []string{"INVALID_RANGE"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := v.Validate(&tt.slot, existing)
			if len(errs) != len(tt.wantCodes) {
				t.Fatalf("Validate() returned %d errors (%v), want %d", len(errs), errs, len(tt.wantCodes))
			}
			want := codes(tt.wantCodes)
			for _, e := range errs {
				if !want[e.Code] {
					t.Errorf("unexpected error code %q (%v)", e.Code, e)
				}
			}
		})
	}
}

func TestSlotValidator_ValidateWeekly(t *testing.T) {
	v := newTestValidator()

	tests := []struct {
		name      string
		days      []model.DaySlots
		wantCodes []string
	}{
		{
			name: "valid week",
			days: []model.DaySlots{
				{DayOfWeek: model.Monday, IsEnabled: true, Slots: []model.Slot{
					{StartTime: "09:00:00", EndTime: "10:00:00", Status: model.SlotAvailable},
					{StartTime: "10:00:00", EndTime: "11:00:00", Status: model.SlotAvailable},
				}},
			},
		},
		{
			name: "disabled days are ignored",
			days: []model.DaySlots{
				{DayOfWeek: model.Monday, IsEnabled: true, Slots: []model.Slot{
					{StartTime: "09:00:00", EndTime: "10:00:00", Status: model.SlotAvailable},
				}},
				{DayOfWeek: model.Tuesday, IsEnabled: false, Slots: []model.Slot{
					{StartTime: "09:00:00", EndTime: "08:00:00", Status: "nope"},
				}},
			},
		},
		{
			name: "overlap and bad status on one day",
			days: []model.DaySlots{
				{DayOfWeek: model.Wednesday, IsEnabled: true, Slots: []model.Slot{
					{StartTime: "09:00:00", EndTime: "10:00:00", Status: model.SlotAvailable},
					{StartTime: "09:30:00", EndTime: "10:30:00", Status: "Booked"},
				}},
			},
			wantCodes: []string{"INVALID_FIELD", "TIME_OVERLAP"},
		},
		{
			name:      "nothing enabled",
			days:      []model.DaySlots{{DayOfWeek: model.Sunday, IsEnabled: false}},
			wantCodes: []string{"EMPTY_SCHEDULE"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := v.ValidateWeekly("p1", tt.days)
			if len(errs) != len(tt.wantCodes) {
				t.Fatalf("ValidateWeekly() returned %d errors (%v), want %d", len(errs), errs, len(tt.wantCodes))
			}
			want := codes(tt.wantCodes)
			for _, e := range errs {
				if !want[e.Code] {
					t.Errorf("unexpected error code %q (%v)", e.Code, e)
				}
			}
		})
	}
}
