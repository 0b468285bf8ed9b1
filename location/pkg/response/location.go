package response

import "time"

type Location struct {
	Latitude  float64    `json:"latitude"`
	Longitude float64    `json:"longitude"`
	Accuracy  *float64   `json:"accuracy,omitempty"`
	Timestamp *time.Time `json:"timestamp,omitempty"`
}

type City struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	State         string   `json:"state"`
	Country       string   `json:"country"`
	Coordinates   Location `json:"coordinates"`
	IsServiceable bool     `json:"isServiceable"`
}

type LocationState struct {
	CurrentLocation   *Location `json:"currentLocation"`
	SelectedCity      *City     `json:"selectedCity"`
	RecentCities      []City    `json:"recentCities"`
	IsLocationEnabled bool      `json:"isLocationEnabled"`
	IsLoading         bool      `json:"isLoading"`
	Error             *string   `json:"error"`
}

type NearestCity struct {
	City       City    `json:"city"`
	DistanceKm float64 `json:"distanceKm"`
}
