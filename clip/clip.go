/*
NAME
  clip.go

DESCRIPTION
  Provides the AnimationClip data model: a skeleton reference, a fixed
  sample count and rate, and three raw sample tracks (rotation,
  translation, scale) per bone, with optional additive-clip linkage.

LICENSE
  Copyright (C) 2026 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package clip provides the animation-clip data model consumed by the
// compression pipeline: per-bone rotation/translation/scale sample
// tracks sampled at a fixed rate.
package clip

import (
	"github.com/pkg/errors"

	"github.com/ausocean/acl/errclass"
	"github.com/ausocean/acl/math"
	"github.com/ausocean/acl/skeleton"
)

// AdditiveKind describes how a clip's pose combines with an additive
// base clip's pose before error is measured and before the decoder
// hands a pose back to the caller.
type AdditiveKind uint8

const (
	// AdditiveNone means the clip is absolute: its samples are full
	// object-space-bound local transforms with no base clip.
	AdditiveNone AdditiveKind = iota

	// AdditiveRelative composes base and delta by standard transform
	// composition (Compose(base, delta)).
	AdditiveRelative

	// Additive0 composes rotation/scale multiplicatively and
	// translation additively, treating the delta as a "zero-point"
	// offset from the base.
	Additive0

	// Additive1 is Additive0 with the delta rotation and scale first
	// re-based to remove the base's own rotation/scale contribution,
	// used when the delta clip was authored independently of the base.
	Additive1
)

// BoneThresholds holds per-bone precision controls. A zero value
// means "use the clip-wide default". Of its fields, the compression
// pipeline reads only ErrorThreshold (through Threshold).
type BoneThresholds struct {
	// ErrorThreshold is the maximum shell-distance error (in clip
	// units) tolerated for this bone; 0 means inherit the clip-wide
	// legacy ErrorThreshold.
	ErrorThreshold float64

	// ConstantRotationThreshold, ConstantTranslationThreshold and
	// ConstantScaleThreshold are per-channel extent thresholds below
	// which a track is considered constant; 0 means inherit the package
	// default. Constant-track compaction does not read them: it applies
	// the encoder Config's ConstantThresholds to every bone.
	ConstantRotationThreshold    float64
	ConstantTranslationThreshold float64
	ConstantScaleThreshold       float64
}

// Track is one bone's raw sample sequence for a single channel.
// Exactly one of Rotations or Vectors is populated, selected by the
// track's channel (see BoneTracks).
type Track struct {
	Rotations []math.Quaternion
	Vectors   []math.Vector3
}

// BoneTracks holds one bone's three channel tracks.
type BoneTracks struct {
	Rotation    Track // Rotations populated.
	Translation Track // Vectors populated.
	Scale       Track // Vectors populated.
}

// AnimationClip is a complete, fixed-rate sampled animation for one
// skeleton.
type AnimationClip struct {
	Skeleton *skeleton.Skeleton

	// Name is an optional clip name, carried through for diagnostics
	// and round-tripping only.
	Name string

	// NumSamples is the number of samples in every track; must be >= 1.
	NumSamples int

	// SampleRate is the clip's sample rate in Hz; must be > 0.
	SampleRate int

	// ErrorThreshold is the legacy clip-wide shell-distance error
	// budget used when a bone has no BoneThresholds override.
	ErrorThreshold float64

	// Bones holds one BoneTracks per skeleton bone, indexed the same
	// way as Skeleton.Bones.
	Bones []BoneTracks

	// Thresholds optionally overrides per-bone precision controls,
	// indexed the same way as Bones. May be nil or shorter than Bones,
	// in which case missing entries use the clip-wide default.
	Thresholds []BoneThresholds

	// AdditiveBase, if non-nil, is the base clip this clip's samples
	// are relative to, combined according to AdditiveKind.
	AdditiveBase *AnimationClip
	AdditiveKind AdditiveKind
}

// Duration returns the clip's duration in seconds: (NumSamples-1) /
// SampleRate, since the first and last sample bound the clip.
func (c *AnimationClip) Duration() float64 {
	if c.NumSamples <= 1 {
		return 0
	}
	return float64(c.NumSamples-1) / float64(c.SampleRate)
}

// Threshold returns the effective per-bone error threshold for bone
// index i: its BoneThresholds override if set and non-zero, else the
// clip-wide ErrorThreshold.
func (c *AnimationClip) Threshold(i int) float64 {
	if i < len(c.Thresholds) && c.Thresholds[i].ErrorThreshold > 0 {
		return c.Thresholds[i].ErrorThreshold
	}
	return c.ErrorThreshold
}

// SamplePose fills out with the local-space transform of every bone
// at the given sample index, reading raw (un-quantized) clip data.
func (c *AnimationClip) SamplePose(sampleIndex int, out []math.Transform) error {
	if sampleIndex < 0 || sampleIndex >= c.NumSamples {
		return errors.Errorf("clip: sample index %d out of range [0,%d)", sampleIndex, c.NumSamples)
	}
	if len(out) != len(c.Bones) {
		return errors.Errorf("clip: output pose has %d bones, clip has %d", len(out), len(c.Bones))
	}
	for i, bt := range c.Bones {
		out[i] = math.Transform{
			Rotation:    sampleOrIdentity(bt.Rotation.Rotations, sampleIndex),
			Translation: sampleOrZero(bt.Translation.Vectors, sampleIndex),
			Scale:       sampleOrOne(bt.Scale.Vectors, sampleIndex),
		}
	}
	return nil
}

func sampleOrIdentity(samples []math.Quaternion, i int) math.Quaternion {
	if len(samples) == 0 {
		return math.IdentityQuaternion
	}
	if len(samples) == 1 {
		return samples[0]
	}
	return samples[i]
}

func sampleOrZero(samples []math.Vector3, i int) math.Vector3 {
	if len(samples) == 0 {
		return math.ZeroVector
	}
	if len(samples) == 1 {
		return samples[0]
	}
	return samples[i]
}

func sampleOrOne(samples []math.Vector3, i int) math.Vector3 {
	if len(samples) == 0 {
		return math.OneVector
	}
	if len(samples) == 1 {
		return samples[0]
	}
	return samples[i]
}

// Validate checks the clip's basic structural invariants, reporting
// InvalidInput-class problems before the clip is fed into the
// compression pipeline.
func (c *AnimationClip) Validate() error {
	if c.Skeleton == nil {
		return errclass.New(errclass.InvalidInput, "clip: nil skeleton")
	}
	if err := c.Skeleton.Validate(); err != nil {
		return errclass.Wrap(errclass.InvalidInput, err, "clip: invalid skeleton")
	}
	if c.NumSamples < 1 {
		return errclass.Errorf(errclass.InvalidInput, "clip: invalid sample count %d", c.NumSamples)
	}
	if c.SampleRate <= 0 {
		return errclass.Errorf(errclass.InvalidInput, "clip: invalid sample rate %d", c.SampleRate)
	}
	if len(c.Bones) != c.Skeleton.NumBones() {
		return errclass.Errorf(errclass.InvalidInput, "clip: %d bone tracks, skeleton has %d bones", len(c.Bones), c.Skeleton.NumBones())
	}
	for i, bt := range c.Bones {
		if n := len(bt.Rotation.Rotations); n != 0 && n != 1 && n != c.NumSamples {
			return errclass.Errorf(errclass.InvalidInput, "clip: bone %d rotation track has %d samples, want 1 or %d", i, n, c.NumSamples)
		}
		if n := len(bt.Translation.Vectors); n != 0 && n != 1 && n != c.NumSamples {
			return errclass.Errorf(errclass.InvalidInput, "clip: bone %d translation track has %d samples, want 1 or %d", i, n, c.NumSamples)
		}
		if n := len(bt.Scale.Vectors); n != 0 && n != 1 && n != c.NumSamples {
			return errclass.Errorf(errclass.InvalidInput, "clip: bone %d scale track has %d samples, want 1 or %d", i, n, c.NumSamples)
		}
	}
	return nil
}
