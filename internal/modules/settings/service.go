// README: Operational settings with typed accessors and documented defaults.
package settings

import (
	"context"
	"strconv"
)

// Setting keys and their defaults when the row is absent.
const (
	KeyBaseDeliveryFee = "base_delivery_fee"
	KeyKmRate          = "km_rate"
	KeyServiceTax      = "service_tax"
	KeyMinPayout       = "min_payout"
	KeyMaintenanceMode = "maintenance_mode"
	KeyMinAppVersion   = "min_app_version"

	DefaultBaseDeliveryFee = 25.0
	DefaultKmRate          = 5.5
	DefaultServiceTax      = 16.0
	DefaultMinPayout       = 100.0
)

type Service struct {
	store Store
}

func NewService(store Store) *Service {
	return &Service{store: store}
}

func (s *Service) All(ctx context.Context) ([]Setting, error) {
	return s.store.All(ctx)
}

func (s *Service) Save(ctx context.Context, settings []Setting) error {
	return s.store.Upsert(ctx, settings)
}

func (s *Service) get(ctx context.Context, key string) (string, bool, error) {
	all, err := s.store.All(ctx)
	if err != nil {
		return "", false, err
	}
	for _, st := range all {
		if st.Key == key {
			return st.Value, true, nil
		}
	}
	return "", false, nil
}

func (s *Service) float(ctx context.Context, key string, def float64) (float64, error) {
	v, ok, err := s.get(ctx, key)
	if err != nil {
		return 0, err
	}
	if !ok {
		return def, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return def, nil
	}
	return f, nil
}

func (s *Service) BaseDeliveryFee(ctx context.Context) (float64, error) {
	return s.float(ctx, KeyBaseDeliveryFee, DefaultBaseDeliveryFee)
}

func (s *Service) KmRate(ctx context.Context) (float64, error) {
	return s.float(ctx, KeyKmRate, DefaultKmRate)
}

func (s *Service) ServiceTax(ctx context.Context) (float64, error) {
	return s.float(ctx, KeyServiceTax, DefaultServiceTax)
}

func (s *Service) MinPayout(ctx context.Context) (float64, error) {
	return s.float(ctx, KeyMinPayout, DefaultMinPayout)
}

func (s *Service) MaintenanceMode(ctx context.Context) (bool, error) {
	v, ok, err := s.get(ctx, KeyMaintenanceMode)
	if err != nil {
		return false, err
	}
	return ok && v == "true", nil
}

func (s *Service) MinAppVersion(ctx context.Context) (string, error) {
	v, _, err := s.get(ctx, KeyMinAppVersion)
	return v, err
}
