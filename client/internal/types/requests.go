package types

// ------------------------------
// Request Types
// ------------------------------

// TripRequest is the write-side payload for create and update calls.
// Absent optionals are sent as JSON null rather than omitted.
type TripRequest struct {
	Name        string  `json:"name"`
	Destination string  `json:"destination"`
	StartDate   *string `json:"start_date"`
	EndDate     *string `json:"end_date"`
	Duration    *int    `json:"duration"`
	TravelStyle *string `json:"travel_style"`
	Description *string `json:"description"`
}
