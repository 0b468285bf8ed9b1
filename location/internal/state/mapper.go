package state

import "github.com/Alturino/cityat/location/pkg/response"

func (l Location) Response() response.Location {
	return response.Location{
		Latitude:  l.Latitude,
		Longitude: l.Longitude,
		Accuracy:  l.Accuracy,
		Timestamp: l.Timestamp,
	}
}

func (c City) Response() response.City {
	return response.City{
		ID:            c.ID,
		Name:          c.Name,
		State:         c.State,
		Country:       c.Country,
		Coordinates:   c.Coordinates.Response(),
		IsServiceable: c.IsServiceable,
	}
}

func (s LocationState) Response() response.LocationState {
	res := response.LocationState{
		RecentCities:      make([]response.City, len(s.RecentCities)),
		IsLocationEnabled: s.IsLocationEnabled,
		IsLoading:         s.IsLoading,
		Error:             s.Error,
	}
	if s.CurrentLocation != nil {
		current := s.CurrentLocation.Response()
		res.CurrentLocation = &current
	}
	if s.SelectedCity != nil {
		selected := s.SelectedCity.Response()
		res.SelectedCity = &selected
	}
	for i, city := range s.RecentCities {
		res.RecentCities[i] = city.Response()
	}
	return res
}
