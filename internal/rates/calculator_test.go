package rates

import (
	"testing"

	"github.com/avelis/cargohold/internal/domain"
	"github.com/stretchr/testify/assert"
)

func testCard() RateCard {
	return RateCard{
		"General": 12,
		"Pharma":  20,
		"Animals": 40,
	}
}

func TestCalculator_Quote_ActualWeightWins(t *testing.T) {
	calc := NewCalculator(testCard(), 15)

	quote, err := calc.Quote(domain.Shipment{
		ActualWeight: 500,
		Length:       100,
		Width:        100,
		Height:       100,
	}, "Pharma")

	assert.NoError(t, err)
	// 100*100*100/6000 = 166.67, below the actual weight
	assert.InDelta(t, 166.67, quote.VolumetricWeight, 0.01)
	assert.Equal(t, 500.0, quote.ChargeableWeight)
	assert.Equal(t, 20.0, quote.RatePerKg)
	assert.Equal(t, 10000.0, quote.Total)
}

func TestCalculator_Quote_VolumetricWeightWins(t *testing.T) {
	calc := NewCalculator(testCard(), 15)

	quote, err := calc.Quote(domain.Shipment{
		ActualWeight: 10,
		Length:       200,
		Width:        150,
		Height:       100,
	}, "General")

	assert.NoError(t, err)
	assert.Equal(t, 500.0, quote.VolumetricWeight)
	assert.Equal(t, 500.0, quote.ChargeableWeight)
	assert.Equal(t, 6000.0, quote.Total)
}

func TestCalculator_Quote_UnknownCargoTypeUsesDefaultRate(t *testing.T) {
	calc := NewCalculator(testCard(), 15)

	quote, err := calc.Quote(domain.Shipment{
		ActualWeight: 100,
		Length:       10,
		Width:        10,
		Height:       10,
	}, "Livestock Feed")

	assert.NoError(t, err)
	assert.Equal(t, 15.0, quote.RatePerKg)
	assert.Equal(t, 1500.0, quote.Total)
}

func TestCalculator_Quote_ValidationErrors(t *testing.T) {
	calc := NewCalculator(testCard(), 15)

	testCases := []struct {
		name      string
		shipment  domain.Shipment
		cargoType string
	}{
		{"zero weight", domain.Shipment{ActualWeight: 0, Length: 1, Width: 1, Height: 1}, "General"},
		{"negative weight", domain.Shipment{ActualWeight: -4, Length: 1, Width: 1, Height: 1}, "General"},
		{"zero length", domain.Shipment{ActualWeight: 10, Length: 0, Width: 1, Height: 1}, "General"},
		{"negative height", domain.Shipment{ActualWeight: 10, Length: 1, Width: 1, Height: -2}, "General"},
		{"empty cargo type", domain.Shipment{ActualWeight: 10, Length: 1, Width: 1, Height: 1}, ""},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := calc.Quote(tc.shipment, tc.cargoType)
			assert.ErrorIs(t, err, domain.ErrValidation)
		})
	}
}
