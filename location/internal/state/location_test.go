package state

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func city(id string) City {
	return City{ID: id, Name: "city " + id, State: "state", Country: "India", IsServiceable: true}
}

func recentIDs(s LocationState) []string {
	ids := make([]string, len(s.RecentCities))
	for i, c := range s.RecentCities {
		ids[i] = c.ID
	}
	return ids
}

func TestSetSelectedCity(t *testing.T) {
	tests := []struct {
		name     string
		selected []string
		current  string
		recent   []string
	}{
		{
			name:     "given single city should be selected and recent",
			selected: []string{"1"},
			current:  "1",
			recent:   []string{"1"},
		},
		{
			name:     "given distinct cities should order most recent first",
			selected: []string{"1", "2", "3"},
			current:  "3",
			recent:   []string{"3", "2", "1"},
		},
		{
			name:     "given same city twice should not duplicate",
			selected: []string{"1", "1"},
			current:  "1",
			recent:   []string{"1"},
		},
		{
			name:     "given reselected city should move to front",
			selected: []string{"1", "2", "3", "1"},
			current:  "1",
			recent:   []string{"1", "3", "2"},
		},
		{
			name:     "given more than five cities should keep five most recent",
			selected: []string{"1", "2", "3", "4", "5", "6", "7"},
			current:  "7",
			recent:   []string{"7", "6", "5", "4", "3"},
		},
		{
			name:     "given full list reselect should keep five",
			selected: []string{"1", "2", "3", "4", "5", "3"},
			current:  "3",
			recent:   []string{"3", "5", "4", "2", "1"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewLocationState()
			for _, id := range tt.selected {
				s.SetSelectedCity(city(id))
				assert.LessOrEqual(t, len(s.RecentCities), maxRecentCities)
			}
			require.NotNil(t, s.SelectedCity)
			assert.Equal(t, tt.current, s.SelectedCity.ID)
			assert.Equal(t, tt.recent, recentIDs(s))
		})
	}
}

func TestSetSelectedCityNeverDuplicates(t *testing.T) {
	s := NewLocationState()
	for i := 0; i < 50; i++ {
		s.SetSelectedCity(city(fmt.Sprint(i % 7)))

		seen := map[string]bool{}
		for _, c := range s.RecentCities {
			assert.False(t, seen[c.ID], "city %s duplicated", c.ID)
			seen[c.ID] = true
		}
		assert.LessOrEqual(t, len(s.RecentCities), maxRecentCities)
	}
}

func TestSetCurrentLocation(t *testing.T) {
	s := NewLocationState()
	s.SetLoading(true)
	s.SetError("permission denied")

	s.SetCurrentLocation(Location{Latitude: 19.076, Longitude: 72.8777})

	require.NotNil(t, s.CurrentLocation)
	assert.Equal(t, 19.076, s.CurrentLocation.Latitude)
	assert.True(t, s.IsLocationEnabled)
	assert.Nil(t, s.Error)
}

func TestSetError(t *testing.T) {
	s := NewLocationState()
	s.SetLoading(true)

	s.SetError("timeout")

	require.NotNil(t, s.Error)
	assert.Equal(t, "timeout", *s.Error)
	assert.False(t, s.IsLoading)

	s.ClearError()
	assert.Nil(t, s.Error)
}

func TestSetEnabled(t *testing.T) {
	s := NewLocationState()
	s.SetEnabled(true)
	assert.True(t, s.IsLocationEnabled)
	s.SetEnabled(false)
	assert.False(t, s.IsLocationEnabled)
}

func TestLocationStateSnapshotRoundTrip(t *testing.T) {
	s := NewLocationState()
	s.SetSelectedCity(city("1"))
	s.SetCurrentLocation(Location{Latitude: 1, Longitude: 2})

	raw, err := json.Marshal(s)
	require.NoError(t, err)

	decoded := NewLocationState()
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, s, decoded)
}
