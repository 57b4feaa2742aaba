// README: Nominatim HTTP client (fallback geocoding provider).
package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
)

const (
	defaultNominatimBase = "https://nominatim.openstreetmap.org"
	nominatimUserAgent   = "VDeliveries/1.0 (contact@vdeliveries.com)"
)

type nominatimClient struct {
	base  string
	httpc *http.Client
}

func newNominatimClient(httpc *http.Client) *nominatimClient {
	return &nominatimClient{base: defaultNominatimBase, httpc: httpc}
}

type nominatimPlace struct {
	PlaceID     json.Number `json:"place_id"`
	DisplayName string      `json:"display_name"`
	Name        string      `json:"name"`
	Lat         string      `json:"lat"`
	Lon         string      `json:"lon"`
}

func (c *nominatimClient) get(ctx context.Context, path string, params url.Values, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.base+path+"?"+params.Encode(), nil)
	if err != nil {
		return err
	}
	// Nominatim's usage policy requires an identifying User-Agent.
	req.Header.Set("User-Agent", nominatimUserAgent)

	resp, err := c.httpc.Do(req)
	if err != nil {
		return fmt.Errorf("nominatim request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("nominatim status %d", resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func (c *nominatimClient) forward(ctx context.Context, query string) ([]Result, error) {
	params := url.Values{}
	params.Set("format", "json")
	params.Set("q", query)
	params.Set("limit", "5")
	params.Set("addressdetails", "1")

	var places []nominatimPlace
	if err := c.get(ctx, "/search", params, &places); err != nil {
		return nil, err
	}

	results := make([]Result, 0, len(places))
	for _, p := range places {
		lat, _ := strconv.ParseFloat(p.Lat, 64)
		lon, _ := strconv.ParseFloat(p.Lon, 64)
		text := p.Name
		if text == "" {
			text = p.DisplayName
		}
		results = append(results, Result{
			ID:        p.PlaceID.String(),
			PlaceName: p.DisplayName,
			Text:      text,
			Center:    [2]float64{lon, lat},
		})
	}
	return results, nil
}

func (c *nominatimClient) reverse(ctx context.Context, lat, lon float64) (string, error) {
	params := url.Values{}
	params.Set("format", "json")
	params.Set("lat", strconv.FormatFloat(lat, 'f', -1, 64))
	params.Set("lon", strconv.FormatFloat(lon, 'f', -1, 64))

	var place nominatimPlace
	if err := c.get(ctx, "/reverse", params, &place); err != nil {
		return "", err
	}
	if place.DisplayName == "" {
		return rawCoordinates(lat, lon), nil
	}
	return place.DisplayName, nil
}
