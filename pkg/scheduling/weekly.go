package scheduling

import (
	"math"
	"sort"
	"time"

	"snaplink/pkg/model"
)

type DaySchedule struct {
	DayOfWeek model.DayOfWeek `json:"dayOfWeek"`
	IsEnabled bool            `json:"isEnabled"`
	Slots     []model.Slot    `json:"slots"`
}

type WeeklySchedule struct {
	PhotographerID string         `json:"photographerId"`
	Days           [7]DaySchedule `json:"days"`
}

// BuildWeeklySchedule groups slots by day and orders each day by start time.
// The sort is stable so equal starts keep their input order; slots with an
// unparsable start go last. Slots with an out of range day are dropped.
func BuildWeeklySchedule(photographerID string, slots []model.Slot) WeeklySchedule {
	ws := WeeklySchedule{PhotographerID: photographerID}
	for d := range ws.Days {
		ws.Days[d] = DaySchedule{DayOfWeek: model.DayOfWeek(d), Slots: []model.Slot{}}
	}

	for _, s := range slots {
		if !s.DayOfWeek.IsValid() {
			continue
		}
		ws.Days[s.DayOfWeek].Slots = append(ws.Days[s.DayOfWeek].Slots, s)
	}

	for d := range ws.Days {
		day := &ws.Days[d]
		sort.SliceStable(day.Slots, func(i, j int) bool {
			return startKey(day.Slots[i]) < startKey(day.Slots[j])
		})
		day.IsEnabled = len(day.Slots) > 0
	}
	return ws
}

func startKey(s model.Slot) int {
	t, err := ParseTimeOfDay(s.StartTime)
	if err != nil {
		return math.MaxInt
	}
	return int(t)
}

// Slots flattens the schedule back to a list ordered by day then start.
func (ws WeeklySchedule) Slots() []model.Slot {
	var out []model.Slot
	for _, d := range ws.Days {
		out = append(out, d.Slots...)
	}
	return out
}

type AvailabilityStats struct {
	TotalSlots       int `json:"totalSlots"`
	AvailableSlots   int `json:"availableSlots"`
	UnavailableSlots int `json:"unavailableSlots"`
	// BookedSlots is derived from active bookings, not from slot status.
	BookedSlots     int `json:"bookedSlots"`
	UtilizationRate int `json:"utilizationRate"`
}

func ComputeStats(slots []model.Slot) AvailabilityStats {
	var stats AvailabilityStats
	for _, s := range slots {
		stats.TotalSlots++
		switch s.Status {
		case model.SlotAvailable:
			stats.AvailableSlots++
		case model.SlotUnavailable:
			stats.UnavailableSlots++
		}
	}
	if stats.TotalSlots > 0 {
		stats.UtilizationRate = int(math.Round(100 * float64(stats.UnavailableSlots) / float64(stats.TotalSlots)))
	}
	return stats
}

// CountBookedSlots counts slots that intersect at least one booked interval
// on the slot's weekday. Intervals are read in loc.
func CountBookedSlots(slots []model.Slot, booked []model.BookedInterval, loc *time.Location) int {
	count := 0
	for _, s := range slots {
		r, err := ParseClockRange(s.StartTime, s.EndTime)
		if err != nil || !r.Valid() {
			continue
		}
		for _, b := range booked {
			if bookedOn(s.DayOfWeek, r, b, loc) {
				count++
				break
			}
		}
	}
	return count
}

func bookedOn(day model.DayOfWeek, r ClockRange, b model.BookedInterval, loc *time.Location) bool {
	start, end := b.Start.In(loc), b.End.In(loc)
	if model.DayOfWeekOf(start) != day {
		return false
	}
	br := ClockRange{Start: ClockOf(start), End: ClockOf(end)}
	if !SameDay(start, end, loc) {
		br.End = TimeOfDay(24*3600 - 1)
	}
	return r.Overlaps(br)
}
