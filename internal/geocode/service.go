// README: Geocoding with a primary Google provider and a Nominatim fallback
// used when no API key is configured.
package geocode

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"googlemaps.github.io/maps"
)

// Result is the simplified forward-geocoding shape served to clients.
type Result struct {
	ID        string     `json:"id"`
	PlaceName string     `json:"place_name"`
	Text      string     `json:"text"`
	Center    [2]float64 `json:"center"` // [lon, lat]
}

type Service struct {
	google    *maps.Client
	nominatim *nominatimClient
}

// NewService builds the geocoder. With an empty API key every call goes to the
// Nominatim fallback.
func NewService(googleAPIKey string, timeout time.Duration) (*Service, error) {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	s := &Service{
		nominatim: newNominatimClient(&http.Client{Timeout: timeout}),
	}
	if googleAPIKey != "" {
		client, err := maps.NewClient(maps.WithAPIKey(googleAPIKey))
		if err != nil {
			return nil, fmt.Errorf("create maps client: %w", err)
		}
		s.google = client
	}
	return s, nil
}

// Forward resolves free-text input to candidate places.
func (s *Service) Forward(ctx context.Context, query string) ([]Result, error) {
	if s.google == nil {
		return s.nominatim.forward(ctx, query)
	}

	resp, err := s.google.Geocode(ctx, &maps.GeocodingRequest{Address: query})
	if err != nil {
		return nil, fmt.Errorf("geocoding api error: %w", err)
	}

	results := make([]Result, 0, len(resp))
	for _, r := range resp {
		text := r.FormattedAddress
		if len(r.AddressComponents) > 0 {
			text = r.AddressComponents[0].LongName
		}
		results = append(results, Result{
			ID:        r.PlaceID,
			PlaceName: r.FormattedAddress,
			Text:      text,
			Center:    [2]float64{r.Geometry.Location.Lng, r.Geometry.Location.Lat},
		})
		if len(results) >= 5 {
			break
		}
	}
	return results, nil
}

// Reverse resolves coordinates to an address. When the provider has nothing,
// the degraded raw-coordinate form is returned instead of an error so the
// workflow never blocks on geocoding.
func (s *Service) Reverse(ctx context.Context, lat, lon float64) (string, error) {
	if s.google == nil {
		return s.nominatim.reverse(ctx, lat, lon)
	}

	resp, err := s.google.ReverseGeocode(ctx, &maps.GeocodingRequest{
		LatLng: &maps.LatLng{Lat: lat, Lng: lon},
	})
	if err != nil {
		return "", fmt.Errorf("geocoding api error: %w", err)
	}
	if len(resp) == 0 {
		return rawCoordinates(lat, lon), nil
	}
	return resp[0].FormattedAddress, nil
}

func rawCoordinates(lat, lon float64) string {
	return fmt.Sprintf("GPS: %.4f, %.4f", lat, lon)
}
