package trajectory

import (
	"math"

	"github.com/m-weigel/relorbit/internal/spacetime"
)

// SphericalToCartesian maps (r, theta, phi) to (x, y, z) with theta the
// polar angle from the +z axis.
func SphericalToCartesian(r, theta, phi float64) (x, y, z float64) {
	sinTh, cosTh := math.Sincos(theta)
	sinPh, cosPh := math.Sincos(phi)
	return r * sinTh * cosPh, r * sinTh * sinPh, r * cosTh
}

// CartesianPoint projects a sample's spatial position to Cartesian
// coordinates for export and rendering.
func CartesianPoint(s Sample) (x, y, z float64) {
	return SphericalToCartesian(
		s.State[spacetime.CoordR],
		s.State[spacetime.CoordTheta],
		s.State[spacetime.CoordPhi],
	)
}

// CartesianVelocity converts the spatial part of the four-velocity to
// Cartesian components using the coordinate basis transformation.
func CartesianVelocity(s Sample) (vx, vy, vz float64) {
	r := s.State[spacetime.CoordR]
	sinTh, cosTh := math.Sincos(s.State[spacetime.CoordTheta])
	sinPh, cosPh := math.Sincos(s.State[spacetime.CoordPhi])
	vr := s.State[spacetime.VelR]
	vth := s.State[spacetime.VelTheta]
	vph := s.State[spacetime.VelPhi]

	vx = sinTh*cosPh*vr + r*cosTh*cosPh*vth - r*sinTh*sinPh*vph
	vy = sinTh*sinPh*vr + r*cosTh*sinPh*vth + r*sinTh*cosPh*vph
	vz = cosTh*vr - r*sinTh*vth
	return vx, vy, vz
}
