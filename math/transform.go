/*
NAME
  transform.go

DESCRIPTION
  Provides the Transform type: a rigid rotation/translation plus
  non-uniform scale, and the local-to-object space composition used by
  the error metric.

LICENSE
  Copyright (C) 2026 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package math

// Transform is a bone-local rigid transform: scale, then rotation,
// then translation, applied in that order to a point.
type Transform struct {
	Rotation    Quaternion
	Translation Vector3
	Scale       Vector3
}

// IdentityTransform is the neutral transform: no rotation, zero
// translation, unit scale.
var IdentityTransform = Transform{
	Rotation:    IdentityQuaternion,
	Translation: ZeroVector,
	Scale:       OneVector,
}

// TransformPoint applies t to point p: scale, then rotate, then
// translate.
func TransformPoint(t Transform, p Vector3) Vector3 {
	scaled := MulVector3(p, t.Scale)
	rotated := RotateVector3(t.Rotation, scaled)
	return AddVector3(rotated, t.Translation)
}

// Compose returns the transform equivalent to applying child first,
// then parent — i.e. child's local space nested inside parent's.
func Compose(parent, child Transform) Transform {
	return Transform{
		Rotation:    MulQuaternion(parent.Rotation, child.Rotation),
		Scale:       MulVector3(parent.Scale, child.Scale),
		Translation: TransformPoint(parent, child.Translation),
	}
}

// LerpTransform interpolates translation and scale linearly and
// rotation by nlerp, matching the decoder's default interpolation
// policy (see format.RotationFormat doc).
func LerpTransform(a, b Transform, alpha float64) Transform {
	return Transform{
		Rotation:    NlerpQuaternion(a.Rotation, b.Rotation, alpha),
		Translation: LerpVector3(a.Translation, b.Translation, alpha),
		Scale:       LerpVector3(a.Scale, b.Scale, alpha),
	}
}

// LocalToObjectSpace converts every bone's local-space transform in
// local into object-space pose, writing the result into object.
// parentOf(i) must return the parent bone index of bone i, or a
// negative value for a root bone, and must be topologically ordered
// (a parent's index precedes every child's), matching skeleton's
// invariant.
func LocalToObjectSpace(local []Transform, parentOf func(i int) int, object []Transform) {
	for i, t := range local {
		parent := parentOf(i)
		if parent < 0 {
			object[i] = t
			continue
		}
		object[i] = Compose(object[parent], t)
	}
}

// IsScaleIdentity reports whether every component of t.Scale is
// (within 1e-9) 1. The error metric does not call it: it applies scale
// on every measurement and has no separate no-scale path.
func IsScaleIdentity(t Transform) bool {
	return NearEqualVector3(t.Scale, OneVector, 1e-9)
}
