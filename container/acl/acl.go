/*
NAME
  acl.go

DESCRIPTION
  acl.go defines the shared configuration, diagnostic report and
  internal planning types the encoder and decoder both build on:
  which bone channels are default/constant/animated, and how the
  clip-level and segment-level range reductions compose into the one
  effective range the bit-rate optimizer and the final byte packing
  both use.

LICENSE
  Copyright (C) 2026 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package acl implements the compressed animation clip container:
// encoding a clip.AnimationClip into a self-describing binary buffer
// and decoding samples back out of one, per the layout in package
// format.
package acl

import (
	gomath "math"

	"github.com/pkg/errors"

	"github.com/ausocean/acl/clip"
	"github.com/ausocean/acl/constant"
	"github.com/ausocean/acl/errormetric"
	"github.com/ausocean/acl/format"
	"github.com/ausocean/acl/math"
	"github.com/ausocean/acl/trackstore"
)

// Config controls compression level: segment sizing, the optimizer's
// iteration budget and constant-track thresholds. cmd/aclc's -level
// presets translate to a Config.
type Config struct {
	// SegmentIdeal and SegmentMax are passed straight through to
	// segment.Segmenter.
	SegmentIdeal int
	SegmentMax   int

	// MaxIterations bounds bitrate.Optimize's hill-climb per segment.
	MaxIterations int

	// ConstantThresholds controls constant-track compaction.
	ConstantThresholds constant.Thresholds

	// RotationFormat selects the decoder's rotation interpolation
	// policy, stamped into the clip header.
	RotationFormat format.RotationFormat
}

// DefaultConfig matches the reference implementation's defaults: a
// 16-sample ideal segment, a 31-sample hard maximum, generous
// iteration headroom and the package-default constant thresholds.
func DefaultConfig() Config {
	return Config{
		SegmentIdeal:       16,
		SegmentMax:         31,
		MaxIterations:      64,
		ConstantThresholds: constant.DefaultThresholds,
		RotationFormat:     format.RotationFormatQuatNlerp,
	}
}

// SegmentReport summarizes one segment's bit-rate optimization run.
type SegmentReport struct {
	NumSamples  int
	Iterations  int
	FinalError  float64
	MeanError   float64
	LockedBones int
}

// Report summarizes a whole-clip compression run, consumed by package
// stats for the -stats CLI diagnostics.
type Report struct {
	NumBones         int
	NumSamples       int
	CompressedBytes  int
	Segments         []SegmentReport
	DefaultChannels  int
	ConstantChannels int
	AnimatedChannels int
}

// channelPlan records, per bone per channel, which of the three
// mutually-exclusive wire states the channel is in.
type channelPlan struct {
	isDefault  bool
	isConstant bool // constant, but not default; occupies the constant pool
	// neither isDefault nor isConstant means animated: data lives in
	// every segment's animated block.
}

func (p channelPlan) animated() bool { return !p.isDefault && !p.isConstant }

// planChannels derives the per-bone, per-channel wire-state plan from
// constant.Compact's results, and reports whether the clip has any
// non-default scale anywhere (format.ClipHeader's has-scale flag).
func planChannels(results []constant.BoneResult) (plans [][3]channelPlan, hasScale bool) {
	plans = make([][3]channelPlan, len(results))
	for i, r := range results {
		plans[i][format.RotationChannel] = channelPlan{isDefault: r.RotationDefault, isConstant: r.RotationConstant && !r.RotationDefault}
		plans[i][format.TranslationChannel] = channelPlan{isDefault: r.TranslationDefault, isConstant: r.TranslationConstant && !r.TranslationDefault}
		plans[i][format.ScaleChannel] = channelPlan{isDefault: r.ScaleDefault, isConstant: r.ScaleConstant && !r.ScaleDefault}
		if !r.ScaleDefault {
			hasScale = true
		}
	}
	return plans, hasScale
}

// composeRange folds a segment's quantized, clip-space (min, extent)
// into the clip's real-unit range, yielding the one effective range
// that maps a real-unit sample directly to [0,1] in a single
// normalize call — the range bitrate.Optimize and the final packing
// pass both use, so neither ever has to apply the two reductions
// separately.
func composeRange(clipRange, segRange trackstore.Range) trackstore.Range {
	return trackstore.Range{
		Min:    math.AddVector3(clipRange.Min, math.MulVector3(segRange.Min, clipRange.Extent)),
		Extent: math.MulVector3(segRange.Extent, clipRange.Extent),
	}
}

// dropW returns a quaternion's imaginary components as a Vector3, the
// representation every range-reduction and packing routine in this
// package operates on for rotation channels.
func dropW(q math.Quaternion) math.Vector3 {
	return math.Vector3{X: q.Imag, Y: q.Jmag, Z: q.Kmag}
}

// reconstructW rebuilds a quaternion from its drop-w components,
// assuming the non-negative hemisphere that trackstore.FoldRotationTrack
// puts every rotation sample on.
func reconstructW(v math.Vector3) math.Quaternion {
	wSq := 1 - v.X*v.X - v.Y*v.Y - v.Z*v.Z
	if wSq < 0 {
		wSq = 0
	}
	return math.Quaternion{Real: gomath.Sqrt(wSq), Imag: v.X, Jmag: v.Y, Kmag: v.Z}
}

// bakeAdditive resolves an additive clip against its base, sample by
// sample, into a plain absolute clip: the wire format has no additive
// concept of its own (format.ClipHeader carries no base-clip
// reference), so a clip authored as additive is always compressed as
// the absolute pose it resolves to.
func bakeAdditive(c *clip.AnimationClip) (*clip.AnimationClip, error) {
	if c.AdditiveBase == nil || c.AdditiveKind == clip.AdditiveNone {
		return c, nil
	}
	if c.AdditiveBase.NumSamples != c.NumSamples {
		return nil, errors.Errorf("acl: additive clip has %d samples, base has %d", c.NumSamples, c.AdditiveBase.NumSamples)
	}

	n := len(c.Bones)
	base := make([]math.Transform, n)
	delta := make([]math.Transform, n)
	baked := &clip.AnimationClip{
		Skeleton:       c.Skeleton,
		Name:           c.Name,
		NumSamples:     c.NumSamples,
		SampleRate:     c.SampleRate,
		ErrorThreshold: c.ErrorThreshold,
		Thresholds:     c.Thresholds,
		Bones:          make([]clip.BoneTracks, n),
	}
	for i := range baked.Bones {
		baked.Bones[i] = clip.BoneTracks{
			Rotation:    clip.Track{Rotations: make([]math.Quaternion, c.NumSamples)},
			Translation: clip.Track{Vectors: make([]math.Vector3, c.NumSamples)},
			Scale:       clip.Track{Vectors: make([]math.Vector3, c.NumSamples)},
		}
	}

	kind := errormetric.AdditiveKind(c.AdditiveKind)
	for j := 0; j < c.NumSamples; j++ {
		if err := c.AdditiveBase.SamplePose(j, base); err != nil {
			return nil, errors.Wrap(err, "acl: sampling additive base")
		}
		if err := c.SamplePose(j, delta); err != nil {
			return nil, errors.Wrap(err, "acl: sampling additive delta")
		}
		combined := errormetric.ComposeAdditive(kind, base, delta)
		for i, t := range combined {
			baked.Bones[i].Rotation.Rotations[j] = t.Rotation
			baked.Bones[i].Translation.Vectors[j] = t.Translation
			baked.Bones[i].Scale.Vectors[j] = t.Scale
		}
	}
	return baked, nil
}
