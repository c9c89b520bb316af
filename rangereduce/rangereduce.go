/*
NAME
  rangereduce.go

DESCRIPTION
  Provides the range-reduction stage: extracting a channel's sample
  range, quantizing that range's min and extent to 8 bits per
  component while guaranteeing the quantized range still fully
  encloses the true sample range, and normalizing/denormalizing
  samples against a (min, extent) pair.

LICENSE
  Copyright (C) 2026 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package rangereduce implements the two-level (clip-wide, then
// per-segment) range normalization every animated track goes through
// before bit-rate quantization: each channel's samples are rescaled
// into [0,1] against a per-bone range, and that range's min/extent is
// itself quantized to a fixed 8 bits per component so it can be
// stored compactly in each segment's range block.
package rangereduce

import (
	gomath "math"

	"github.com/ausocean/acl/math"
	"github.com/ausocean/acl/trackstore"
)

// NumBits is the fixed quantization width used for a segment range's
// min and extent, one value per component.
const NumBits = 8

// ZeroExtentThreshold is the extent below which a channel is treated
// as carrying no range information: every sample normalizes to 0
// rather than dividing by a near-zero extent.
const ZeroExtentThreshold = 0.000000001

// maxRangeValue is the largest integer representable in NumBits bits,
// i.e. (1<<8)-1.
const maxRangeValue = float64((uint64(1) << NumBits) - 1)

// ExtractRange returns the component-wise [min, min+extent] bounding
// box of samples.
func ExtractRange(samples []math.Vector3) trackstore.Range {
	if len(samples) == 0 {
		return trackstore.Range{}
	}
	lo, hi := samples[0], samples[0]
	for _, v := range samples[1:] {
		lo = math.MinVector3(lo, v)
		hi = math.MaxVector3(hi, v)
	}
	return trackstore.Range{Min: lo, Extent: math.SubVector3(hi, lo)}
}

// FixupRange quantizes r's min and extent to 8 bits per component,
// choosing, independently per component, whichever of the two
// candidate quantized values keeps the padded range a superset of the
// true range: for the minimum, the candidate produced by rounding
// down if that is at or below the true minimum, else one quantization
// step lower; for the extent (measured from the padded minimum, not
// the original one), the candidate produced by rounding up if that
// reaches or exceeds the true maximum, else one quantization step
// higher. The quantized values cover [0,1], so r is a range within
// [0,1], as a segment range in clip-normalized space is.
func FixupRange(r trackstore.Range) trackstore.Range {
	trueMax := math.AddVector3(r.Min, r.Extent)

	min := math.Vector3{
		X: fixupMinComponent(r.Min.X, r.Min.X),
		Y: fixupMinComponent(r.Min.Y, r.Min.Y),
		Z: fixupMinComponent(r.Min.Z, r.Min.Z),
	}

	rawExtent := math.SubVector3(trueMax, min)
	extent := math.Vector3{
		X: fixupExtentComponent(rawExtent.X, trueMax.X, min.X),
		Y: fixupExtentComponent(rawExtent.Y, trueMax.Y, min.Y),
		Z: fixupExtentComponent(rawExtent.Z, trueMax.Z, min.Z),
	}
	return trackstore.Range{Min: min, Extent: extent}
}

// fixupMinComponent quantizes one component of a range minimum.
// trueMin is both the value being quantized and the value the result
// must not exceed.
func fixupMinComponent(value, trueMin float64) float64 {
	scaledMin := value * maxRangeValue
	q0 := clamp(gomath.Floor(scaledMin), 0, maxRangeValue)
	q1 := gomath.Max(q0-1, 0)

	padded0 := q0 / maxRangeValue
	padded1 := q1 / maxRangeValue

	if padded0 <= trueMin {
		return padded0
	}
	return padded1
}

// fixupExtentComponent quantizes one component of a range extent.
// rawExtent is trueMax - the already-padded min; the result, added to
// the padded min, must reach at least trueMax.
func fixupExtentComponent(rawExtent, trueMax, paddedMin float64) float64 {
	scaledExtent := rawExtent * maxRangeValue
	q0 := clamp(gomath.Ceil(scaledExtent), 0, maxRangeValue)
	q1 := gomath.Min(q0+1, maxRangeValue)

	padded0 := q0 / maxRangeValue
	padded1 := q1 / maxRangeValue

	if paddedMin+padded0 >= trueMax {
		return padded0
	}
	return padded1
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Normalize rescales sample into [0,1] against r: (sample-r.Min) /
// r.Extent component-wise, clamped to [0,1] to absorb division
// rounding error, and forced to 0 on any component whose extent is
// below ZeroExtentThreshold.
func Normalize(sample math.Vector3, r trackstore.Range) math.Vector3 {
	out := math.DivVector3(math.SubVector3(sample, r.Min), r.Extent)
	out = math.MinVector3(out, math.Vector3{X: 1, Y: 1, Z: 1})
	out = math.MaxVector3(out, math.Vector3{X: 0, Y: 0, Z: 0})
	if r.Extent.X < ZeroExtentThreshold {
		out.X = 0
	}
	if r.Extent.Y < ZeroExtentThreshold {
		out.Y = 0
	}
	if r.Extent.Z < ZeroExtentThreshold {
		out.Z = 0
	}
	return out
}

// Denormalize is the inverse of Normalize: normalized*r.Extent +
// r.Min, with a zero-extent channel reconstructing exactly r.Min.
func Denormalize(normalized math.Vector3, r trackstore.Range) math.Vector3 {
	return math.AddVector3(math.MulVector3(normalized, r.Extent), r.Min)
}

// NormalizeTrack rewrites every sample of track in place, normalizing
// it against r. Constant (length <= 1) tracks are left untouched,
// mirroring the reference implementation's skip of is_*_constant
// bones.
func NormalizeTrack(track []math.Vector3, r trackstore.Range) {
	if len(track) <= 1 {
		return
	}
	for i, v := range track {
		track[i] = Normalize(v, r)
	}
}

// DenormalizeTrack is the inverse of NormalizeTrack.
func DenormalizeTrack(track []math.Vector3, r trackstore.Range) {
	if len(track) <= 1 {
		return
	}
	for i, v := range track {
		track[i] = Denormalize(v, r)
	}
}
