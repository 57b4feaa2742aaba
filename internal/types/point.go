// README: Geographic point value object.
package types

type Point struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Zero reports whether the point carries no coordinates.
func (p Point) Zero() bool {
	return p.Lat == 0 && p.Lng == 0
}
