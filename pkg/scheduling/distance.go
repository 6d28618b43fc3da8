package scheduling

import (
	"context"
	"fmt"
	"math"
	"time"

	"snaplink/pkg/model"
)

type TravelEstimate struct {
	DistanceKm float64
	Minutes    int
}

type DistanceProvider interface {
	DistanceAndTravelTime(ctx context.Context, from, to model.Location) (TravelEstimate, error)
}

// LocationResolver turns a booking's venue id or external place into coordinates.
type LocationResolver interface {
	ResolveLocation(ctx context.Context, booking *model.Booking) (model.Location, error)
}

type DistanceConfig struct {
	AverageSpeedKmh float64
	Granularity     time.Duration
}

type Candidate struct {
	Start    time.Time
	End      time.Time
	Location model.Location
}

type DistanceConflict struct {
	HasConflict               bool       `json:"hasConflict"`
	PreviousBookingID         string     `json:"previousBookingId,omitempty"`
	PreviousLocationName      string     `json:"previousLocationName,omitempty"`
	DistanceInKm              float64    `json:"distanceInKm,omitempty"`
	TravelTimeEstimateMinutes int        `json:"travelTimeEstimateMinutes,omitempty"`
	PreviousBookingEndTime    string     `json:"previousBookingEndTime,omitempty"`
	SuggestedStartTime        string     `json:"suggestedStartTime,omitempty"`
	SuggestedStartDatetime    *time.Time `json:"suggestedStartDatetime,omitempty"`
	IsTravelTimeFeasible      bool       `json:"isTravelTimeFeasible"`
	Message                   string     `json:"message,omitempty"`
}

type DistanceConflictDetector struct {
	provider DistanceProvider
	resolver LocationResolver
	cfg      DistanceConfig
}

func NewDistanceConflictDetector(provider DistanceProvider, resolver LocationResolver, cfg DistanceConfig) *DistanceConflictDetector {
	return &DistanceConflictDetector{
		provider: provider,
		resolver: resolver,
		cfg:      cfg,
	}
}

// Detect looks for the booking the photographer comes from and checks there
// is enough time to travel to the candidate location. The result is advisory.
func (d *DistanceConflictDetector) Detect(ctx context.Context, candidate Candidate, bookings []model.Booking) (DistanceConflict, error) {
	prior := FindPriorBooking(candidate.Start, bookings)
	if prior == nil || prior.LocationKey() == candidate.Location.Key || candidate.Location.Unplaced {
		return DistanceConflict{}, nil
	}

	from, err := d.resolver.ResolveLocation(ctx, prior)
	if err != nil {
		return DistanceConflict{}, fmt.Errorf("resolve location of booking %s: %w", prior.ID, err)
	}
	// Without coordinates on both ends there is no distance to judge.
	if from.Unplaced {
		return DistanceConflict{}, nil
	}
	estimate, err := d.provider.DistanceAndTravelTime(ctx, from, candidate.Location)
	if err != nil {
		return DistanceConflict{}, fmt.Errorf("estimate travel from %s: %w", from.Name, err)
	}
	return EvaluateTravel(prior, from.Name, candidate.Start, estimate, d.cfg), nil
}

// FindPriorBooking returns the Confirmed or In_Progress booking on the
// candidate's calendar day that ends closest to, but not after, start.
func FindPriorBooking(start time.Time, bookings []model.Booking) *model.Booking {
	var prior *model.Booking
	for i := range bookings {
		b := &bookings[i]
		if b.Status != model.StatusConfirmed && b.Status != model.StatusInProgress {
			continue
		}
		if b.EndDatetime.After(start) || !SameDay(b.EndDatetime, start, start.Location()) {
			continue
		}
		if prior == nil || b.EndDatetime.After(prior.EndDatetime) {
			prior = b
		}
	}
	return prior
}

func EvaluateTravel(prior *model.Booking, priorLocationName string, start time.Time, estimate TravelEstimate, cfg DistanceConfig) DistanceConflict {
	minutes := estimate.Minutes
	if minutes <= 0 && estimate.DistanceKm > 0 {
		minutes = TravelMinutes(estimate.DistanceKm, cfg.AverageSpeedKmh)
	}

	loc := start.Location()
	priorEnd := prior.EndDatetime.In(loc)
	feasible := start.Sub(priorEnd) >= time.Duration(minutes)*time.Minute

	result := DistanceConflict{
		HasConflict:               !feasible,
		PreviousBookingID:         prior.ID,
		PreviousLocationName:      priorLocationName,
		DistanceInKm:              math.Round(estimate.DistanceKm*10) / 10,
		TravelTimeEstimateMinutes: minutes,
		PreviousBookingEndTime:    priorEnd.Format("15:04"),
		IsTravelTimeFeasible:      feasible,
	}
	if feasible {
		return result
	}

	suggested := RoundUp(priorEnd.Add(time.Duration(minutes)*time.Minute), cfg.Granularity)
	result.SuggestedStartTime = suggested.Format("15:04")
	result.SuggestedStartDatetime = &suggested
	result.Message = fmt.Sprintf(
		"Previous booking at %s ends at %s and travel takes about %d minutes (%.1f km). Consider starting at %s.",
		priorLocationName, result.PreviousBookingEndTime, minutes, result.DistanceInKm, result.SuggestedStartTime,
	)
	return result
}

// TravelMinutes converts a distance to whole minutes at speedKmh, rounding up.
func TravelMinutes(km, speedKmh float64) int {
	if km <= 0 || speedKmh <= 0 {
		return 0
	}
	return int(math.Ceil(km / speedKmh * 60))
}

// RoundUp rounds t up to the next multiple of g counted from t's local midnight.
func RoundUp(t time.Time, g time.Duration) time.Time {
	if g <= 0 {
		return t
	}
	midnight, _ := DayBounds(t)
	offset := t.Sub(midnight)
	if rem := offset % g; rem != 0 {
		offset += g - rem
	}
	return midnight.Add(offset)
}
