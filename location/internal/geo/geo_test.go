package geo

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Alturino/cityat/location/internal/state"
)

func TestDistance(t *testing.T) {
	mumbai := state.Location{Latitude: 19.0760, Longitude: 72.8777}
	pune := state.Location{Latitude: 18.5204, Longitude: 73.8567}
	delhi := state.Location{Latitude: 28.6139, Longitude: 77.2090}

	tests := []struct {
		name     string
		a, b     state.Location
		expected float64
	}{
		{name: "given same point should be zero", a: mumbai, b: mumbai, expected: 0},
		{name: "given mumbai and pune should be about 120km", a: mumbai, b: pune, expected: 120.2},
		{name: "given mumbai and delhi should be about 1148km", a: mumbai, b: delhi, expected: 1148.1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, Distance(tt.a, tt.b), 2)
			assert.InDelta(t, Distance(tt.a, tt.b), Distance(tt.b, tt.a), 1e-9)
		})
	}
}

type providerFunc func(c context.Context) (*state.Location, error)

func (f providerFunc) CurrentPosition(c context.Context) (*state.Location, error) {
	return f(c)
}

func TestLocate(t *testing.T) {
	t.Run("given position should return it", func(t *testing.T) {
		location := Locate(context.Background(), providerFunc(func(context.Context) (*state.Location, error) {
			return &state.Location{Latitude: 1, Longitude: 2}, nil
		}), time.Second)
		require.NotNil(t, location)
		assert.Equal(t, 1.0, location.Latitude)
	})

	t.Run("given provider error should return nil", func(t *testing.T) {
		location := Locate(context.Background(), providerFunc(func(context.Context) (*state.Location, error) {
			return nil, errors.New("permission denied")
		}), time.Second)
		assert.Nil(t, location)
	})

	t.Run("given slow provider should time out with nil", func(t *testing.T) {
		location := Locate(context.Background(), providerFunc(func(c context.Context) (*state.Location, error) {
			<-c.Done()
			return nil, c.Err()
		}), 50*time.Millisecond)
		assert.Nil(t, location)
	})
}

func TestHTTPProvider(t *testing.T) {
	t.Run("given coordinates should return location", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"latitude":12.9716,"longitude":77.5946,"accuracy":25}`))
		}))
		defer server.Close()

		provider := NewHTTPProvider(server.Client(), server.URL)
		location, err := provider.CurrentPosition(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 12.9716, location.Latitude)
		assert.Equal(t, 77.5946, location.Longitude)
		require.NotNil(t, location.Accuracy)
		assert.Equal(t, 25.0, *location.Accuracy)
		assert.NotNil(t, location.Timestamp)
	})

	t.Run("given missing coordinates should fail", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"accuracy":25}`))
		}))
		defer server.Close()

		_, err := NewHTTPProvider(server.Client(), server.URL).CurrentPosition(context.Background())
		assert.Error(t, err)
	})

	t.Run("given error status should fail", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		}))
		defer server.Close()

		_, err := NewHTTPProvider(server.Client(), server.URL).CurrentPosition(context.Background())
		assert.Error(t, err)
	})
}
