// README: Pricing service computes delivery fee quotes.
package pricing

import (
	"context"
	"errors"
	"math"

	"vdeliveries/internal/types"
)

var ErrInvalidParams = errors.New("pricing parameters must be non-negative")

// RateSource supplies the mutable operational pricing settings.
type RateSource interface {
	BaseDeliveryFee(ctx context.Context) (float64, error)
	KmRate(ctx context.Context) (float64, error)
}

type Service struct {
	rates RateSource
}

func NewService(rates RateSource) *Service {
	return &Service{rates: rates}
}

// Calculate is the pure pricing formula:
// round((baseFee + distanceKm*perKmRate) * vehicleMultiplier), floored at zero.
// Negative inputs are a validation error, not a silently negative price.
func Calculate(p Params) (int64, error) {
	if p.BaseFee < 0 || p.PerKmRate < 0 || p.VehicleMultiplier < 0 || p.DistanceKm < 0 {
		return 0, ErrInvalidParams
	}
	price := math.Round((p.BaseFee + p.DistanceKm*p.PerKmRate) * p.VehicleMultiplier)
	if price < 0 {
		price = 0
	}
	return int64(price), nil
}

// Quote prices a route for a vehicle class using the current operational
// settings. Distance is the great-circle distance between the two coordinate
// pairs captured on the order.
func (s *Service) Quote(ctx context.Context, pickup, dropoff types.Point, vehicleClass string) (types.Money, error) {
	baseFee, err := s.rates.BaseDeliveryFee(ctx)
	if err != nil {
		return types.Money{}, err
	}
	perKm, err := s.rates.KmRate(ctx)
	if err != nil {
		return types.Money{}, err
	}

	amount, err := Calculate(Params{
		BaseFee:           baseFee,
		PerKmRate:         perKm,
		VehicleMultiplier: MultiplierFor(vehicleClass),
		DistanceKm:        HaversineKm(pickup, dropoff),
	})
	if err != nil {
		return types.Money{}, err
	}
	return types.Money{Amount: amount, Currency: "ZMW"}, nil
}
