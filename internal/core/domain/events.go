package domain

import "time"

// TripRequestedEvent asks the planner worker to plan a trip asynchronously.
type TripRequestedEvent struct {
	TripID        string    `json:"trip_id"`
	Origin        Location  `json:"origin"`
	Destination   Location  `json:"destination"`
	DepartureTime time.Time `json:"departure_time"`
	Alternatives  bool      `json:"alternatives"`
	Forecast      bool      `json:"forecast"`
	RequestedAt   time.Time `json:"requested_at"`
}

// TripPlannedEvent announces a finished plan to live subscribers.
type TripPlannedEvent struct {
	TripID        string      `json:"trip_id"`
	RouteID       string      `json:"route_id"`
	Provider      string      `json:"provider"`
	Distance      float64     `json:"distance"`
	Duration      float64     `json:"duration"`
	DepartureTime time.Time   `json:"departure_time"`
	Summary       TripSummary `json:"summary"`
	PlannedAt     time.Time   `json:"planned_at"`
}

// NewTripPlannedEvent condenses a plan into its event.
func NewTripPlannedEvent(p *TripPlan) TripPlannedEvent {
	return TripPlannedEvent{
		TripID:        p.ID,
		RouteID:       p.Route.ID,
		Provider:      p.Route.Provider,
		Distance:      p.Route.Distance,
		Duration:      p.Route.Duration,
		DepartureTime: p.DepartureTime,
		Summary:       p.Summary,
		PlannedAt:     p.PlannedAt,
	}
}

// SevereWeatherEvent flags a severe reading on a route.
type SevereWeatherEvent struct {
	RouteID     string     `json:"route_id"`
	Location    Location   `json:"location"`
	Severity    Severity   `json:"severity"`
	Description string     `json:"description"`
	ValidAt     *time.Time `json:"valid_at,omitempty"`
	Alerts      int        `json:"alerts"`
}
