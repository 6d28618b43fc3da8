package model

import (
	"fmt"
	"strings"
	"time"
)

type DayOfWeek int

const (
	Sunday DayOfWeek = iota
	Monday
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
)

var dayNames = [...]string{"Sunday", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday"}

func (d DayOfWeek) IsValid() bool {
	return d >= Sunday && d <= Saturday
}

func (d DayOfWeek) String() string {
	if !d.IsValid() {
		return fmt.Sprintf("DayOfWeek(%d)", int(d))
	}
	return dayNames[d]
}

// DayOfWeekOf returns the weekday of t in t's own location.
func DayOfWeekOf(t time.Time) DayOfWeek {
	return DayOfWeek(t.Weekday())
}

type SlotStatus string

const (
	SlotAvailable   SlotStatus = "Available"
	SlotUnavailable SlotStatus = "Unavailable"
)

// ParseSlotStatus accepts the canonical labels and their upper-case aliases.
func ParseSlotStatus(s string) (SlotStatus, bool) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "AVAILABLE":
		return SlotAvailable, true
	case "UNAVAILABLE":
		return SlotUnavailable, true
	}
	return "", false
}

type Slot struct {
	ID             string     `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	PhotographerID string     `json:"photographerId" bson:"photographer_id" validate:"required,max=64"`
	DayOfWeek      DayOfWeek  `json:"dayOfWeek" bson:"day_of_week" validate:"day_of_week"`
	StartTime      string     `json:"startTime" bson:"start_time"`
	EndTime        string     `json:"endTime" bson:"end_time"`
	Status         SlotStatus `json:"status" bson:"status" validate:"required,slot_status"`
	CreatedAt      time.Time  `json:"createdAt" bson:"created_at"`
	UpdatedAt      time.Time  `json:"updatedAt" bson:"updated_at"`
}

type SlotUpdate struct {
	DayOfWeek *DayOfWeek  `json:"dayOfWeek,omitempty"`
	StartTime *string     `json:"startTime,omitempty"`
	EndTime   *string     `json:"endTime,omitempty"`
	Status    *SlotStatus `json:"status,omitempty"`
}

// DaySlots is one day of a bulk weekly submission.
type DaySlots struct {
	DayOfWeek DayOfWeek `json:"dayOfWeek"`
	IsEnabled bool      `json:"isEnabled"`
	Slots     []Slot    `json:"slots"`
}

type WeeklyScheduleRequest struct {
	Days []DaySlots `json:"days"`
}
