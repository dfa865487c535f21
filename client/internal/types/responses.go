package types

// ------------------------------
// Response Types
// ------------------------------

// TripsEnvelope mirrors the wrapped list shape {"data": [Trip]}.
type TripsEnvelope struct {
	Data []Trip `json:"data"`
}

// TripEnvelope mirrors the wrapped single shape {"data": Trip}.
type TripEnvelope struct {
	Data *Trip `json:"data"`
}
