/*
NAME
  vector.go

DESCRIPTION
  Provides the Vector3 type used throughout the compression pipeline
  for translation and scale samples.

LICENSE
  Copyright (C) 2026 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package math provides the vector, quaternion and rigid-transform
// contract assumed by the rest of the compression pipeline. It is a
// thin domain layer over gonum's spatial and quaternion primitives.
package math

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// Vector3 is a 3-component vector used for translation and scale
// samples. It's a plain alias over r3.Vec so callers can use gonum's
// r3 helpers directly where convenient.
type Vector3 = r3.Vec

// ZeroVector is the additive identity, used as the neutral translation
// value.
var ZeroVector = Vector3{X: 0, Y: 0, Z: 0}

// OneVector is the neutral scale value.
var OneVector = Vector3{X: 1, Y: 1, Z: 1}

// AddVector3 returns a + b.
func AddVector3(a, b Vector3) Vector3 { return r3.Add(a, b) }

// SubVector3 returns a - b.
func SubVector3(a, b Vector3) Vector3 { return r3.Sub(a, b) }

// ScaleVector3 returns v scaled component-wise by f.
func ScaleVector3(f float64, v Vector3) Vector3 { return r3.Scale(f, v) }

// MulVector3 returns the component-wise (Hadamard) product of a and b.
func MulVector3(a, b Vector3) Vector3 {
	return Vector3{X: a.X * b.X, Y: a.Y * b.Y, Z: a.Z * b.Z}
}

// DivVector3 returns the component-wise quotient of a and b. Callers
// must ensure b has no zero components (range-reduction guards
// against this; see rangereduce).
func DivVector3(a, b Vector3) Vector3 {
	return Vector3{X: a.X / b.X, Y: a.Y / b.Y, Z: a.Z / b.Z}
}

// MinVector3 returns the component-wise minimum of a and b.
func MinVector3(a, b Vector3) Vector3 {
	return Vector3{X: math.Min(a.X, b.X), Y: math.Min(a.Y, b.Y), Z: math.Min(a.Z, b.Z)}
}

// MaxVector3 returns the component-wise maximum of a and b.
func MaxVector3(a, b Vector3) Vector3 {
	return Vector3{X: math.Max(a.X, b.X), Y: math.Max(a.Y, b.Y), Z: math.Max(a.Z, b.Z)}
}

// ClampVector3 clamps each component of v to [lo, hi].
func ClampVector3(v Vector3, lo, hi float64) Vector3 {
	return Vector3{
		X: math.Min(math.Max(v.X, lo), hi),
		Y: math.Min(math.Max(v.Y, lo), hi),
		Z: math.Min(math.Max(v.Z, lo), hi),
	}
}

// LerpVector3 linearly interpolates between a and b by alpha in [0,1].
func LerpVector3(a, b Vector3, alpha float64) Vector3 {
	return AddVector3(a, ScaleVector3(alpha, SubVector3(b, a)))
}

// DistanceVector3 returns the Euclidean distance between a and b.
func DistanceVector3(a, b Vector3) float64 {
	return r3.Norm(r3.Sub(a, b))
}

// NearEqualVector3 reports whether a and b are within threshold of
// each other component-wise (used by constant-track detection).
func NearEqualVector3(a, b Vector3, threshold float64) bool {
	return math.Abs(a.X-b.X) <= threshold &&
		math.Abs(a.Y-b.Y) <= threshold &&
		math.Abs(a.Z-b.Z) <= threshold
}
