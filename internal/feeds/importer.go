package feeds

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/avelis/cargohold/internal/domain"
	"github.com/avelis/cargohold/internal/service/flights"
)

// FeedFlight is one row of a partner airline capacity feed.
type FeedFlight struct {
	Airline     string  `json:"airline"`
	FlightNo    string  `json:"flight_no"`
	Origin      string  `json:"origin"`
	Destination string  `json:"destination"`
	Date        string  `json:"date"`
	Capacity    float64 `json:"capacity"`
	CargoType   string  `json:"cargo_type"`
}

// ImportReport summarizes one import run. Rows a feed publishes with
// invalid data are skipped and counted, never fatal.
type ImportReport struct {
	Imported int `json:"imported"`
	Skipped  int `json:"skipped"`
}

// Importer pulls partner airline JSON feeds and registers their flights
// through the flight service, which owns normalization.
type Importer struct {
	client  *http.Client
	flights flights.FlightUseCase
	sources []string
}

func NewImporter(flightSvc flights.FlightUseCase, sources []string, timeout time.Duration) *Importer {
	return &Importer{
		client:  &http.Client{Timeout: timeout},
		flights: flightSvc,
		sources: sources,
	}
}

func (i *Importer) ImportAll(ctx context.Context) (ImportReport, error) {
	var report ImportReport
	for _, url := range i.sources {
		feed, err := i.fetch(ctx, url)
		if err != nil {
			return report, fmt.Errorf("fetch feed %s: %w", url, err)
		}
		for _, row := range feed {
			if _, err := i.flights.Create(ctx, flights.CreateFlightInput{
				Airline:     row.Airline,
				FlightNo:    row.FlightNo,
				Origin:      row.Origin,
				Destination: row.Destination,
				Date:        row.Date,
				CargoType:   row.CargoType,
				CapacityKg:  row.Capacity,
			}); err != nil {
				if errors.Is(err, domain.ErrValidation) {
					log.Printf("skip feed row %s %s: %v", row.Airline, row.FlightNo, err)
					report.Skipped++
					continue
				}
				return report, err
			}
			report.Imported++
		}
	}
	return report, nil
}

func (i *Importer) fetch(ctx context.Context, url string) ([]FeedFlight, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := i.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	var feed []FeedFlight
	if err := json.NewDecoder(resp.Body).Decode(&feed); err != nil {
		return nil, fmt.Errorf("decode feed: %w", err)
	}
	return feed, nil
}
