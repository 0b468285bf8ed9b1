// Package state holds the location container: the device's last known
// position, the selected service city and a short history of selections.
package state

import "time"

const maxRecentCities = 5

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

func NewLocationState() LocationState {
	return LocationState{RecentCities: []City{}}
}

// SetSelectedCity selects city and moves it to the front of the recent
// cities, which hold at most five distinct cities.
func (s *LocationState) SetSelectedCity(city City) {
	s.SelectedCity = &city

	recent := make([]City, 0, maxRecentCities)
	recent = append(recent, city)
	for _, c := range s.RecentCities {
		if c.ID == city.ID {
			continue
		}
		if len(recent) == maxRecentCities {
			break
		}
		recent = append(recent, c)
	}
	s.RecentCities = recent
}

func (s *LocationState) SetCurrentLocation(location Location) {
	s.CurrentLocation = &location
	s.IsLocationEnabled = true
	s.Error = nil
}

func (s *LocationState) SetLoading(loading bool) {
	s.IsLoading = loading
}

func (s *LocationState) SetError(message string) {
	s.Error = &message
	s.IsLoading = false
}

func (s *LocationState) SetEnabled(enabled bool) {
	s.IsLocationEnabled = enabled
}

func (s *LocationState) ClearError() {
	s.Error = nil
}
