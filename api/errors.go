package api

import (
	"errors"
	"net/http"

	"github.com/avelis/cargohold/internal/domain"
)

func statusFromErr(err error) int {
	switch {
	case errors.Is(err, domain.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrFlightNotFound), errors.Is(err, domain.ErrBookingNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrInsufficientCapacity), errors.Is(err, domain.ErrInvalidState):
		return http.StatusConflict
	case errors.Is(err, domain.ErrHoldExpired):
		return http.StatusGone
	default:
		return http.StatusInternalServerError
	}
}
