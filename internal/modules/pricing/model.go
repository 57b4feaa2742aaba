// README: Pricing parameters and the fixed vehicle-class multiplier table.
package pricing

// VehicleMultipliers is a fixed lookup by vehicle class. Unknown classes fall
// back to DefaultMultiplier.
var VehicleMultipliers = map[string]float64{
	"bike":       1.0,
	"motorcycle": 1.0,
	"car":        1.5,
	"van":        2.0,
	"truck":      3.5,
}

const DefaultMultiplier = 1.0

// MultiplierFor returns the multiplier for a vehicle class.
func MultiplierFor(vehicleClass string) float64 {
	if m, ok := VehicleMultipliers[vehicleClass]; ok {
		return m
	}
	return DefaultMultiplier
}

// Params are the inputs to a single quote.
type Params struct {
	BaseFee           float64
	PerKmRate         float64
	VehicleMultiplier float64
	DistanceKm        float64
}
