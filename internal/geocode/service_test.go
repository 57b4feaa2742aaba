// README: Geocoding fallback-provider tests against a fake Nominatim.
package geocode

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func newFakeNominatim(t *testing.T, handler http.HandlerFunc) *Service {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	svc, err := NewService("", time.Second)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	svc.nominatim.base = srv.URL
	return svc
}

func TestForwardFallback(t *testing.T) {
	svc := newFakeNominatim(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/search" {
			t.Errorf("path = %s, want /search", r.URL.Path)
		}
		if r.URL.Query().Get("q") != "Cairo Road" {
			t.Errorf("q = %q", r.URL.Query().Get("q"))
		}
		if r.Header.Get("User-Agent") != nominatimUserAgent {
			t.Error("missing identifying User-Agent")
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[
			{"place_id": 101, "display_name": "Cairo Road, Lusaka, Zambia", "name": "Cairo Road", "lat": "-15.4186", "lon": "28.2820"},
			{"place_id": 102, "display_name": "Cairo Road North, Lusaka", "name": "", "lat": "-15.4100", "lon": "28.2800"}
		]`))
	})

	results, err := svc.Forward(context.Background(), "Cairo Road")
	if err != nil {
		t.Fatalf("forward: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("results = %d, want 2", len(results))
	}
	first := results[0]
	if first.ID != "101" || first.PlaceName != "Cairo Road, Lusaka, Zambia" || first.Text != "Cairo Road" {
		t.Fatalf("first result = %+v", first)
	}
	if first.Center[0] != 28.2820 || first.Center[1] != -15.4186 {
		t.Fatalf("center = %v, want [lon, lat]", first.Center)
	}
	// empty name falls back to the display name
	if results[1].Text != "Cairo Road North, Lusaka" {
		t.Fatalf("second text = %q", results[1].Text)
	}
}

func TestReverseFallback(t *testing.T) {
	svc := newFakeNominatim(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/reverse" {
			t.Errorf("path = %s, want /reverse", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"place_id": 7, "display_name": "Manda Hill, Great East Road, Lusaka"}`))
	})

	addr, err := svc.Reverse(context.Background(), -15.3983, 28.3049)
	if err != nil {
		t.Fatalf("reverse: %v", err)
	}
	if addr != "Manda Hill, Great East Road, Lusaka" {
		t.Fatalf("addr = %q", addr)
	}
}

// When the provider has no address, reverse degrades to raw coordinates
// instead of failing the caller's workflow.
func TestReverseDegradesToRawCoordinates(t *testing.T) {
	svc := newFakeNominatim(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{}`))
	})

	addr, err := svc.Reverse(context.Background(), -15.3983, 28.3049)
	if err != nil {
		t.Fatalf("reverse: %v", err)
	}
	if addr != "GPS: -15.3983, 28.3049" {
		t.Fatalf("addr = %q, want raw coordinate form", addr)
	}
}

func TestForwardProviderError(t *testing.T) {
	svc := newFakeNominatim(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	})
	if _, err := svc.Forward(context.Background(), "anywhere"); err == nil {
		t.Fatal("expected error on provider failure")
	}
}
