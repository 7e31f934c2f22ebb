package camera

import "math"

// Angle is a plane angle. Values are built with Degrees or Radians so the unit is
// always explicit at the call site.
type Angle struct {
	rad float32
}

// Degrees returns an Angle of d degrees.
func Degrees(d float32) Angle {
	return Angle{rad: d * (math.Pi / 180.0)}
}

// Radians returns an Angle of r radians.
func Radians(r float32) Angle {
	return Angle{rad: r}
}

// Radians returns the angle in radians.
func (a Angle) Radians() float32 {
	return a.rad
}

// Degrees returns the angle in degrees.
func (a Angle) Degrees() float32 {
	return a.rad * (180.0 / math.Pi)
}
