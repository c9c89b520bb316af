/*
NAME
  errormetric.go

DESCRIPTION
  Provides the shell-distance error metric: converting a local-space
  pose to object space and measuring the worst-case displacement of
  two orthogonal unit-axis virtual probe vertices, scaled by each
  bone's vertex distance, between a raw and a lossy pose.

LICENSE
  Copyright (C) 2026 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package errormetric measures how far a quantized pose has drifted
// from its raw source, in the same units the clip's samples are
// authored in, by simulating two virtual skinned vertices per bone
// and taking the worst displacement across the whole skeleton.
package errormetric

import (
	"github.com/ausocean/acl/errclass"
	"github.com/ausocean/acl/math"
	"github.com/ausocean/acl/skeleton"
)

// Metric measures pose error for a fixed skeleton, caching the object-
// space scratch buffers between calls so repeated measurement doesn't
// allocate every time. The bit-rate optimizer does not use it; it calls
// MeasureBone with scratch buffers of its own.
type Metric struct {
	skel       *skeleton.Skeleton
	rawObject  []math.Transform
	lossyObj   []math.Transform
}

// New returns a Metric for skel.
func New(skel *skeleton.Skeleton) *Metric {
	n := skel.NumBones()
	return &Metric{
		skel:      skel,
		rawObject: make([]math.Transform, n),
		lossyObj:  make([]math.Transform, n),
	}
}

// xAxis and yAxis are the two orthogonal unit probe directions: using
// both guarantees at least one probe is never colinear with a bone's
// rotation axis, so a rotation-only error is never invisible to both
// probes at once.
var (
	xAxis = math.Vector3{X: 1}
	yAxis = math.Vector3{Y: 1}
)

// Measure returns the shell-distance error between raw and lossy,
// both local-space poses indexed the same way as the skeleton's
// bones. It is an InvalidInput error for either slice to have a
// different length than the skeleton's bone count.
func (m *Metric) Measure(raw, lossy []math.Transform) (float64, error) {
	n := m.skel.NumBones()
	if len(raw) != n || len(lossy) != n {
		return 0, errclass.Errorf(errclass.InvalidInput, "errormetric: pose length mismatch: raw=%d lossy=%d bones=%d", len(raw), len(lossy), n)
	}

	math.LocalToObjectSpace(raw, m.skel.Parent, m.rawObject)
	math.LocalToObjectSpace(lossy, m.skel.Parent, m.lossyObj)

	var worst float64 = -1
	for i, bone := range m.skel.Bones {
		worst = maxf(worst, probeError(m.rawObject[i], m.lossyObj[i], xAxis, bone.VertexDistance))
		worst = maxf(worst, probeError(m.rawObject[i], m.lossyObj[i], yAxis, bone.VertexDistance))
	}
	return worst, nil
}

// MeasureBone returns the shell-distance error contributed by a
// single bone, given its already-composed object-space raw and lossy
// transforms. Used by the bit-rate optimizer, which only needs to
// re-measure the bones downstream of a changed ancestor rather than
// the whole skeleton.
func MeasureBone(rawObject, lossyObject math.Transform, vertexDistance float64) float64 {
	return maxf(
		probeError(rawObject, lossyObject, xAxis, vertexDistance),
		probeError(rawObject, lossyObject, yAxis, vertexDistance),
	)
}

func probeError(rawObject, lossyObject math.Transform, axis math.Vector3, vertexDistance float64) float64 {
	probe := math.ScaleVector3(vertexDistance, axis)
	rawVtx := math.TransformPoint(rawObject, probe)
	lossyVtx := math.TransformPoint(lossyObject, probe)
	return math.DistanceVector3(rawVtx, lossyVtx)
}

func maxf(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}

// AdditiveKind mirrors clip.AdditiveKind, with the same ordinals,
// without importing package clip, so errormetric depends only on math
// and skeleton.
type AdditiveKind uint8

const (
	AdditiveNone AdditiveKind = iota
	AdditiveRelative
	Additive0
	Additive1
)

// ComposeAdditive combines a base pose and a delta pose into the final
// local-space pose that should be measured or decoded, according to
// kind. AdditiveNone ignores base and returns delta unchanged.
func ComposeAdditive(kind AdditiveKind, base, delta []math.Transform) []math.Transform {
	if kind == AdditiveNone || base == nil {
		return delta
	}
	out := make([]math.Transform, len(delta))
	for i, d := range delta {
		b := math.IdentityTransform
		if i < len(base) {
			b = base[i]
		}
		switch kind {
		case AdditiveRelative:
			out[i] = math.Compose(b, d)
		case Additive0:
			out[i] = composeZeroPoint(b, d)
		case Additive1:
			rebased := math.Transform{
				Rotation:    math.MulQuaternion(math.ConjugateQuaternion(b.Rotation), d.Rotation),
				Scale:       safeDiv(d.Scale, b.Scale),
				Translation: d.Translation,
			}
			out[i] = composeZeroPoint(b, rebased)
		default:
			out[i] = d
		}
	}
	return out
}

// composeZeroPoint implements the Additive0 combination rule:
// rotation and scale compose multiplicatively, translation composes
// additively, without scale or rotation being applied to the delta's
// translation first (unlike full Compose).
func composeZeroPoint(base, delta math.Transform) math.Transform {
	return math.Transform{
		Rotation:    math.MulQuaternion(base.Rotation, delta.Rotation),
		Scale:       math.MulVector3(base.Scale, delta.Scale),
		Translation: math.AddVector3(base.Translation, delta.Translation),
	}
}

func safeDiv(a, b math.Vector3) math.Vector3 {
	out := a
	if b.X != 0 {
		out.X = a.X / b.X
	}
	if b.Y != 0 {
		out.Y = a.Y / b.Y
	}
	if b.Z != 0 {
		out.Z = a.Z / b.Z
	}
	return out
}
