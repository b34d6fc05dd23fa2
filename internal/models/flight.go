package models

import "time"

// FlightEndpoint is one side (departure or arrival) of a flight as reported by the operations provider.
type FlightEndpoint struct {
	Iata      string     `json:"iata"`
	Scheduled *time.Time `json:"scheduled,omitempty"`
	Estimated *time.Time `json:"estimated,omitempty"`
	Actual    *time.Time `json:"actual,omitempty"`
}

// FlightOperationsSnapshot is a point-in-time view of a single flight.
type FlightOperationsSnapshot struct {
	FlightIata string         `json:"flightIata"`
	Status     string         `json:"status"`
	Departure  FlightEndpoint `json:"departure"`
	Arrival    FlightEndpoint `json:"arrival"`
}

// WeatherHour is one sample of an hourly forecast series.
type WeatherHour struct {
	Time    time.Time `json:"time"`
	WindKph float64   `json:"windKph"`
	GustKph float64   `json:"gustKph"`
	// VisibilityKm is nil when the feed did not report visibility for the hour.
	VisibilityKm *float64 `json:"visibilityKm,omitempty"`
	PrecipMm     float64  `json:"precipMm"`
	Condition    string   `json:"condition"`
}

// AirportWeatherForecast is the short-horizon forecast for one airport.
type AirportWeatherForecast struct {
	Iata    string        `json:"iata"`
	Current *WeatherHour  `json:"current,omitempty"`
	Hours   []WeatherHour `json:"hours"`
}

// CheckpointWaitRecord is a dated wait-time sample from checkpoint telemetry.
type CheckpointWaitRecord struct {
	Timestamp   time.Time `json:"timestamp"`
	WaitMinutes float64   `json:"waitMinutes"`
}

// NewsHeadline is a single search hit from a news source.
type NewsHeadline struct {
	Title     string    `json:"title"`
	Link      string    `json:"link"`
	Published time.Time `json:"publishDate"`
	Source    string    `json:"source"`
}
