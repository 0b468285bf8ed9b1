package geo

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	inHttp "github.com/Alturino/cityat/internal/http"
	"github.com/Alturino/cityat/internal/log"
	"github.com/Alturino/cityat/location/internal/state"
)

// HTTPProvider reads the position from a geolocation endpoint answering
// {"latitude":..,"longitude":..,"accuracy":..}.
type HTTPProvider struct {
	client *http.Client
	url    string
	now    func() time.Time
}

func NewHTTPProvider(client *http.Client, url string) *HTTPProvider {
	return &HTTPProvider{client: client, url: url, now: time.Now}
}

type position struct {
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
	Accuracy  *float64 `json:"accuracy"`
}

func (p *HTTPProvider) CurrentPosition(c context.Context) (*state.Location, error) {
	req, err := http.NewRequestWithContext(c, http.MethodGet, p.url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed creating request with error=%w", err)
	}
	req.Header.Set(inHttp.KEY_HEADER_REQUEST_ID, log.RequestIDFromContext(c))

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed requesting position with error=%w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("geolocation endpoint responded status=%d", resp.StatusCode)
	}

	pos := position{}
	if err = json.NewDecoder(resp.Body).Decode(&pos); err != nil {
		return nil, fmt.Errorf("failed decoding position with error=%w", err)
	}
	if pos.Latitude == nil || pos.Longitude == nil {
		return nil, fmt.Errorf("geolocation endpoint responded without coordinates")
	}

	now := p.now()
	return &state.Location{
		Latitude:  *pos.Latitude,
		Longitude: *pos.Longitude,
		Accuracy:  pos.Accuracy,
		Timestamp: &now,
	}, nil
}
