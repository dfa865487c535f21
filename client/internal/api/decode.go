package api

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Kayz-mann/trip-planner/client/internal/types"
)

// decoder is one fallible attempt at interpreting a response body.
type decoder[T any] func(data []byte) (T, error)

// decodeChain tries each decoder in order and returns the first success.
// When every attempt fails the joined causes are returned.
func decodeChain[T any](data []byte, attempts ...decoder[T]) (T, error) {
	var errs []error
	for _, attempt := range attempts {
		v, err := attempt(data)
		if err == nil {
			return v, nil
		}
		errs = append(errs, err)
	}
	var zero T
	return zero, errors.Join(errs...)
}

// bareTrip decodes the body as a plain Trip object.
func bareTrip(data []byte) (types.Trip, error) {
	var trip types.Trip
	if err := json.Unmarshal(data, &trip); err != nil {
		return types.Trip{}, fmt.Errorf("bare trip: %w", err)
	}
	return trip, nil
}

// wrappedTrip decodes the body as {"data": Trip}.
func wrappedTrip(data []byte) (types.Trip, error) {
	var env struct {
		Data *types.Trip `json:"data"`
	}
	if err := json.Unmarshal(data, &env); err != nil {
		return types.Trip{}, fmt.Errorf("wrapped trip: %w", err)
	}
	if env.Data == nil {
		return types.Trip{}, fmt.Errorf("wrapped trip: missing data")
	}
	return *env.Data, nil
}

// bareTrips decodes the body as a plain array of Trip.
func bareTrips(data []byte) ([]types.Trip, error) {
	var trips []types.Trip
	if err := json.Unmarshal(data, &trips); err != nil {
		return nil, fmt.Errorf("bare trips: %w", err)
	}
	if trips == nil {
		return nil, fmt.Errorf("bare trips: null body")
	}
	return trips, nil
}

// wrappedTrips decodes the body as {"data": [Trip]}.
func wrappedTrips(data []byte) ([]types.Trip, error) {
	var env struct {
		Data *[]types.Trip `json:"data"`
	}
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("wrapped trips: %w", err)
	}
	if env.Data == nil || *env.Data == nil {
		return nil, fmt.Errorf("wrapped trips: missing data")
	}
	return *env.Data, nil
}
