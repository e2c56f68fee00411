package match

import "github.com/avelis/cargohold/internal/domain"

// Rank picks the cheapest, quickest and best-value option from a candidate
// list. Best value minimizes price weighted by transit time. Ties keep the
// first-seen candidate. An empty candidate list is a valid "no options"
// result, not an error.
func Rank(options []domain.Itinerary) domain.RankedOptions {
	var ranked domain.RankedOptions

	for i := range options {
		opt := &options[i]
		if ranked.Cheapest == nil || opt.PricePerKg < ranked.Cheapest.PricePerKg {
			ranked.Cheapest = opt
		}
		if ranked.Quickest == nil || opt.TransitHours < ranked.Quickest.TransitHours {
			ranked.Quickest = opt
		}
		if ranked.BestValue == nil || value(opt) < value(ranked.BestValue) {
			ranked.BestValue = opt
		}
	}

	return ranked
}

func value(i *domain.Itinerary) float64 {
	return i.PricePerKg * float64(i.TransitHours)
}
