/*
NAME
  quat.go

DESCRIPTION
  Provides the Quaternion type used for rotation samples, including
  the double-cover (w >= 0) convention the variable-bit-rate rotation
  formats depend on.

LICENSE
  Copyright (C) 2026 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package math

import (
	"math"

	"gonum.org/v1/gonum/num/quat"
)

// Quaternion is a unit rotation quaternion, w + xi + yj + zk. It's an
// alias over quat.Number so the Hamilton product and conjugate can be
// delegated to gonum.
type Quaternion = quat.Number

// IdentityQuaternion is the neutral rotation.
var IdentityQuaternion = Quaternion{Real: 1}

// NewQuaternion builds a quaternion from its components, w first.
func NewQuaternion(w, x, y, z float64) Quaternion {
	return Quaternion{Real: w, Imag: x, Jmag: y, Kmag: z}
}

// Components returns the quaternion's (w, x, y, z) components.
func Components(q Quaternion) (w, x, y, z float64) {
	return q.Real, q.Imag, q.Jmag, q.Kmag
}

// DotQuaternion returns the 4-component dot product of a and b.
func DotQuaternion(a, b Quaternion) float64 {
	return a.Real*b.Real + a.Imag*b.Imag + a.Jmag*b.Jmag + a.Kmag*b.Kmag
}

// NormQuaternion returns the Euclidean norm of q.
func NormQuaternion(q Quaternion) float64 {
	return quat.Abs(q)
}

// ScaleQuaternion returns q with every component multiplied by f.
func ScaleQuaternion(f float64, q Quaternion) Quaternion {
	return Quaternion{Real: f * q.Real, Imag: f * q.Imag, Jmag: f * q.Jmag, Kmag: f * q.Kmag}
}

// AddQuaternion returns the component-wise sum of a and b.
func AddQuaternion(a, b Quaternion) Quaternion {
	return Quaternion{Real: a.Real + b.Real, Imag: a.Imag + b.Imag, Jmag: a.Jmag + b.Jmag, Kmag: a.Kmag + b.Kmag}
}

// NegQuaternion returns -q.
func NegQuaternion(q Quaternion) Quaternion {
	return ScaleQuaternion(-1, q)
}

// NormalizeQuaternion returns q scaled to unit length. The zero
// quaternion normalizes to identity, matching the source's defensive
// behavior for degenerate input.
func NormalizeQuaternion(q Quaternion) Quaternion {
	n := NormQuaternion(q)
	if n < 1e-12 {
		return IdentityQuaternion
	}
	return ScaleQuaternion(1/n, q)
}

// ConjugateQuaternion returns the conjugate of q, equal to its inverse
// for a unit quaternion.
func ConjugateQuaternion(q Quaternion) Quaternion {
	return quat.Conj(q)
}

// MulQuaternion returns the Hamilton product a * b, i.e. applying
// rotation b followed by rotation a.
func MulQuaternion(a, b Quaternion) Quaternion {
	return quat.Mul(a, b)
}

// RotateVector3 rotates v by unit quaternion q.
func RotateVector3(q Quaternion, v Vector3) Vector3 {
	p := Quaternion{Imag: v.X, Jmag: v.Y, Kmag: v.Z}
	r := MulQuaternion(MulQuaternion(q, p), ConjugateQuaternion(q))
	return Vector3{X: r.Imag, Y: r.Jmag, Z: r.Kmag}
}

// EnsurePositiveW returns q, or -q if its w component is negative.
// Because q and -q represent the same rotation (the quaternion
// double-cover), this is always a safe, lossless transformation;
// trackstore.FoldRotationTrack applies it to every rotation sample.
func EnsurePositiveW(q Quaternion) Quaternion {
	if q.Real < 0 {
		return NegQuaternion(q)
	}
	return q
}

// NearestQuaternion returns whichever of q or -q has the smaller
// angular distance to reference, so consecutive samples in a track
// fold onto a single, continuous cover of the rotation manifold.
func NearestQuaternion(reference, q Quaternion) Quaternion {
	if DotQuaternion(reference, q) < 0 {
		return NegQuaternion(q)
	}
	return q
}

// SlerpQuaternion performs spherical linear interpolation between a
// and b by alpha in [0,1]. Falls back to NlerpQuaternion when a and b
// are nearly parallel, to avoid the numerical instability of dividing
// by a near-zero sine.
func SlerpQuaternion(a, b Quaternion, alpha float64) Quaternion {
	cosOmega := DotQuaternion(a, b)
	if cosOmega < 0 {
		b = NegQuaternion(b)
		cosOmega = -cosOmega
	}
	if cosOmega > 0.9999 {
		return NlerpQuaternion(a, b, alpha)
	}
	omega := math.Acos(cosOmega)
	sinOmega := math.Sin(omega)
	wa := math.Sin((1-alpha)*omega) / sinOmega
	wb := math.Sin(alpha*omega) / sinOmega
	return NormalizeQuaternion(AddQuaternion(ScaleQuaternion(wa, a), ScaleQuaternion(wb, b)))
}

// NlerpQuaternion performs normalized linear interpolation between a
// and b by alpha in [0,1]. Cheaper than SlerpQuaternion and a close
// approximation for small angles; the decoder uses it by default (see
// format.RotationFormat).
func NlerpQuaternion(a, b Quaternion, alpha float64) Quaternion {
	if DotQuaternion(a, b) < 0 {
		b = NegQuaternion(b)
	}
	return NormalizeQuaternion(AddQuaternion(ScaleQuaternion(1-alpha, a), ScaleQuaternion(alpha, b)))
}

// AngleAxis builds a unit quaternion representing a rotation of angle
// radians around axis (which need not be normalized).
func AngleAxis(angle float64, axis Vector3) Quaternion {
	n := math.Sqrt(axis.X*axis.X + axis.Y*axis.Y + axis.Z*axis.Z)
	if n < 1e-12 {
		return IdentityQuaternion
	}
	half := angle / 2
	s := math.Sin(half) / n
	return NewQuaternion(math.Cos(half), axis.X*s, axis.Y*s, axis.Z*s)
}

// ToAngleAxis decomposes a unit quaternion into an angle (radians) and
// a normalized axis. The identity rotation decomposes to angle 0 and
// the X axis, by convention.
func ToAngleAxis(q Quaternion) (angle float64, axis Vector3) {
	q = NormalizeQuaternion(q)
	if q.Real > 1 {
		q.Real = 1
	} else if q.Real < -1 {
		q.Real = -1
	}
	angle = 2 * math.Acos(q.Real)
	s := math.Sqrt(1 - q.Real*q.Real)
	if s < 1e-9 {
		return 0, Vector3{X: 1}
	}
	return angle, Vector3{X: q.Imag / s, Y: q.Jmag / s, Z: q.Kmag / s}
}

// GeodesicAngle returns the angle (radians, in [0, pi]) of the
// rotation that takes a to b, used by constant-rotation-track
// detection.
func GeodesicAngle(a, b Quaternion) float64 {
	d := math.Abs(DotQuaternion(NormalizeQuaternion(a), NormalizeQuaternion(b)))
	if d > 1 {
		d = 1
	}
	return 2 * math.Acos(d)
}

// NearEqualQuaternion reports whether the geodesic angle between a and
// b is within threshold radians.
func NearEqualQuaternion(a, b Quaternion, threshold float64) bool {
	return GeodesicAngle(a, b) <= threshold
}
