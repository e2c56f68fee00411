package domain

import "time"

type BookingStatus string

const (
	BookingStatusHold      BookingStatus = "HOLD"
	BookingStatusConfirmed BookingStatus = "CONFIRMED"
	BookingStatusCancelled BookingStatus = "CANCELLED"
)

// Booking is a capacity reservation on one flight or on an interline pair.
// SecondFlightID is nil for direct bookings; for interline bookings the
// chargeable weight is reserved on both legs independently.
type Booking struct {
	ID               int64
	Reference        string
	Requester        string
	FlightID         int64
	SecondFlightID   *int64
	ActualWeight     float64
	VolumetricWeight float64
	ChargeableWeight float64
	RatePerKg        float64
	Total            float64
	Status           BookingStatus
	ExpiresAt        time.Time
	ConfirmedAt      *time.Time
	PenaltyPaid      float64
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// FlightIDs returns the booked legs in itinerary order.
func (b *Booking) FlightIDs() []int64 {
	ids := []int64{b.FlightID}
	if b.SecondFlightID != nil {
		ids = append(ids, *b.SecondFlightID)
	}
	return ids
}

// Shipment is the cargo a forwarder wants to book. Dimensions are in cm,
// weight in kg.
type Shipment struct {
	ActualWeight float64
	Length       float64
	Width        float64
	Height       float64
}
