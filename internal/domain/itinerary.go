package domain

// Itinerary is a bookable routing option built per search: one direct leg
// or two interline legs. PricePerKg is the quoted rate for the itinerary's
// cargo type; the booking total is priced later against the shipment.
type Itinerary struct {
	Legs         []Flight
	CapacityKg   float64
	CargoType    string
	PricePerKg   float64
	TransitHours int
}

func (i Itinerary) Origin() string {
	return i.Legs[0].Origin
}

func (i Itinerary) Destination() string {
	return i.Legs[len(i.Legs)-1].Destination
}

func (i Itinerary) IsInterline() bool {
	return len(i.Legs) == 2
}

// RankedOptions picks the standout itineraries out of a candidate list.
// All fields are nil when there were no candidates.
type RankedOptions struct {
	Cheapest  *Itinerary
	Quickest  *Itinerary
	BestValue *Itinerary
}
