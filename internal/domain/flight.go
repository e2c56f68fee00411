package domain

import "time"

// Flight is one published leg of airline cargo capacity. Origin and
// Destination are upper-cased IATA codes, Date is YYYY-MM-DD.
type Flight struct {
	ID            int64
	Airline       string
	FlightNo      string
	Origin        string
	Destination   string
	Date          string
	CargoType     string
	CapacityTotal float64
	CapacityKg    float64
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
