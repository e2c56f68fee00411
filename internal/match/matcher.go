package match

import "github.com/avelis/cargohold/internal/domain"

// Policy controls cargo-type matching between interline legs. Strict
// requires both legs to carry the same cargo type; loose joins any legs
// that connect, which is what unfiltered interline discovery uses.
type Policy string

const (
	PolicyStrict Policy = "strict"
	PolicyLoose  Policy = "loose"
)

type Query struct {
	Origin      string
	Destination string
	Date        string
	CargoType   string // optional filter, applies to direct matches
	Policy      Policy
}

// FindItineraries scans a flight snapshot for direct matches and two-leg
// interline connections. Both candidate sets are pre-filtered by
// origin/date and destination/date before the pairwise join, so the join
// only ever sees plausible connections. Results are unranked; interline
// routes are deduplicated by (first origin, connection point, final
// destination, capacity) with the first occurrence winning.
func FindItineraries(flights []domain.Flight, q Query) (direct []domain.Flight, interline []domain.Itinerary) {
	var firstLegs, secondLegs []domain.Flight

	for _, f := range flights {
		if f.Origin == q.Origin && f.Date == q.Date {
			firstLegs = append(firstLegs, f)
			if f.Destination == q.Destination && (q.CargoType == "" || f.CargoType == q.CargoType) {
				direct = append(direct, f)
			}
		}
		if f.Destination == q.Destination && f.Date == q.Date {
			secondLegs = append(secondLegs, f)
		}
	}

	seen := make(map[dedupKey]struct{})
	for _, f1 := range firstLegs {
		for _, f2 := range secondLegs {
			if f1.Destination != f2.Origin {
				continue
			}
			if q.Policy == PolicyStrict && f1.CargoType != f2.CargoType {
				continue
			}

			capacity := f1.CapacityKg
			if f2.CapacityKg < capacity {
				capacity = f2.CapacityKg
			}

			key := dedupKey{f1.Origin, f1.Destination, f2.Destination, capacity}
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}

			interline = append(interline, domain.Itinerary{
				Legs:       []domain.Flight{f1, f2},
				CapacityKg: capacity,
				CargoType:  f1.CargoType,
			})
		}
	}

	return direct, interline
}

type dedupKey struct {
	origin     string
	connection string
	dest       string
	capacity   float64
}
