package world

import "math"

// Pos is a point in map coordinates.
type Pos struct {
	X int16
	Y int16
}

// Distance returns the planar distance to o, truncated to an integer.
func (p Pos) Distance(o Pos) int32 {
	dx := float64(p.X) - float64(o.X)
	dy := float64(p.Y) - float64(o.Y)
	return int32(math.Sqrt(dx*dx + dy*dy))
}
