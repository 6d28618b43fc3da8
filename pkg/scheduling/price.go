package scheduling

import (
	"fmt"
	"math"
	"time"
)

type FeeItem struct {
	Name   string  `json:"name"`
	Amount float64 `json:"amount"`
}

type PriceBreakdown struct {
	BaseRate       float64   `json:"baseRate"`
	LocationRate   *float64  `json:"locationRate,omitempty"`
	AdditionalFees []FeeItem `json:"additionalFees"`
}

type PriceCalculation struct {
	TotalPrice      float64        `json:"totalPrice"`
	PhotographerFee float64        `json:"photographerFee"`
	LocationFee     float64        `json:"locationFee"`
	Duration        float64        `json:"duration"`
	Breakdown       PriceBreakdown `json:"breakdown"`
}

func CalculatePrice(photographerRate float64, locationRate *float64, start, end time.Time) (PriceCalculation, error) {
	duration := DurationHours(start, end)
	if duration <= 0 {
		return PriceCalculation{}, fmt.Errorf("%w: %s to %s", ErrInvalidDuration, start.Format(time.RFC3339), end.Format(time.RFC3339))
	}
	if photographerRate < 0 || (locationRate != nil && *locationRate < 0) {
		return PriceCalculation{}, ErrInvalidRate
	}

	calc := PriceCalculation{
		PhotographerFee: photographerRate * duration,
		Duration:        duration,
		Breakdown: PriceBreakdown{
			BaseRate:       photographerRate,
			AdditionalFees: []FeeItem{},
		},
	}
	if locationRate != nil {
		rate := *locationRate
		calc.LocationFee = rate * duration
		calc.Breakdown.LocationRate = &rate
	}
	calc.TotalPrice = calc.PhotographerFee + calc.LocationFee
	return calc, nil
}

const ServiceFeeName = "service_fee"

// WithServiceFee adds a percentage surcharge on the total as a separate line item.
func WithServiceFee(calc PriceCalculation, percent float64) PriceCalculation {
	if percent <= 0 {
		return calc
	}
	fee := math.Round(calc.TotalPrice * percent / 100)

	fees := make([]FeeItem, 0, len(calc.Breakdown.AdditionalFees)+1)
	fees = append(fees, calc.Breakdown.AdditionalFees...)
	fees = append(fees, FeeItem{Name: ServiceFeeName, Amount: fee})

	calc.Breakdown.AdditionalFees = fees
	calc.TotalPrice += fee
	return calc
}
