package rates

import (
	"fmt"

	"github.com/avelis/cargohold/internal/domain"
)

// volumetricDivisor is the standard air-cargo dimensional weight divisor
// for dimensions in cm.
const volumetricDivisor = 6000

type RateCard map[string]float64

// Quote is the priced outcome for one shipment on one cargo type.
type Quote struct {
	VolumetricWeight float64
	ChargeableWeight float64
	RatePerKg        float64
	Total            float64
}

// Calculator prices shipments against a rate card. Unknown cargo types are
// billed at the default rate, never rejected.
type Calculator struct {
	card        RateCard
	defaultRate float64
}

func NewCalculator(card RateCard, defaultRate float64) *Calculator {
	return &Calculator{card: card, defaultRate: defaultRate}
}

func (c *Calculator) RatePerKg(cargoType string) float64 {
	if rate, ok := c.card[cargoType]; ok {
		return rate
	}
	return c.defaultRate
}

func (c *Calculator) Quote(shipment domain.Shipment, cargoType string) (Quote, error) {
	if shipment.ActualWeight <= 0 {
		return Quote{}, fmt.Errorf("%w: actual weight must be positive", domain.ErrValidation)
	}
	if shipment.Length <= 0 || shipment.Width <= 0 || shipment.Height <= 0 {
		return Quote{}, fmt.Errorf("%w: dimensions must be positive", domain.ErrValidation)
	}
	if cargoType == "" {
		return Quote{}, fmt.Errorf("%w: cargo type is required", domain.ErrValidation)
	}

	volumetric := shipment.Length * shipment.Width * shipment.Height / volumetricDivisor
	chargeable := shipment.ActualWeight
	if volumetric > chargeable {
		chargeable = volumetric
	}
	rate := c.RatePerKg(cargoType)

	return Quote{
		VolumetricWeight: volumetric,
		ChargeableWeight: chargeable,
		RatePerKg:        rate,
		Total:            rate * chargeable,
	}, nil
}
