/*
NAME
  trackstore.go

DESCRIPTION
  Provides the struct-of-arrays staging store the compression pipeline
  stages a clip's raw samples into: one fully expanded sample sequence
  per bone per channel, with rotation-track double-cover folding and a
  lazily recomputed per-channel sample range cache.

LICENSE
  Copyright (C) 2026 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package trackstore provides the mutable per-bone sample arrays the
// compression pipeline stages work into between range reduction,
// segmentation and bit-rate optimization. It expands a clip's raw
// (possibly constant or default) tracks into full NumSamples arrays
// once, up front, so every later stage can index samples directly
// without re-checking track length.
package trackstore

import (
	"github.com/pkg/errors"

	"github.com/ausocean/acl/clip"
	"github.com/ausocean/acl/math"
)

// Channel names one of a bone's three sample channels.
type Channel int

const (
	Rotation Channel = iota
	Translation
	Scale
)

func (c Channel) String() string {
	switch c {
	case Rotation:
		return "rotation"
	case Translation:
		return "translation"
	case Scale:
		return "scale"
	default:
		return "unknown channel"
	}
}

// BoneStream holds one bone's sample sequences: each starts at length
// Store.NumSamples, and constant.Compact shortens a constant channel's
// sequence to its single retained sample.
type BoneStream struct {
	Rotations    []math.Quaternion
	Translations []math.Vector3
	Scales       []math.Vector3
}

// Range is a per-component [min, min+extent] bound, used to cache a
// channel's sample range between range reduction and segmentation.
type Range struct {
	Min    math.Vector3
	Extent math.Vector3
}

// IsDegenerate reports whether every component of the range has zero
// extent, meaning the channel carries no information worth encoding
// beyond its minimum.
func (r Range) IsDegenerate() bool {
	return r.Extent.X == 0 && r.Extent.Y == 0 && r.Extent.Z == 0
}

// Store is the staged, mutable working copy of a clip's sample data.
type Store struct {
	NumSamples int
	Bones      []BoneStream

	// rangeCache and rangeDirty are indexed [boneIndex][channel]; a
	// dirty entry is recomputed from the current sample data the next
	// time Range is called.
	rangeCache [][3]Range
	rangeDirty [][3]bool
}

// New returns an empty store sized for the given number of bones and
// samples, with every channel defaulted to identity/zero/one.
func New(numBones, numSamples int) *Store {
	s := &Store{
		NumSamples: numSamples,
		Bones:      make([]BoneStream, numBones),
		rangeCache: make([][3]Range, numBones),
		rangeDirty: make([][3]bool, numBones),
	}
	for i := range s.Bones {
		s.Bones[i] = BoneStream{
			Rotations:    make([]math.Quaternion, numSamples),
			Translations: make([]math.Vector3, numSamples),
			Scales:       make([]math.Vector3, numSamples),
		}
		for j := 0; j < numSamples; j++ {
			s.Bones[i].Rotations[j] = math.IdentityQuaternion
			s.Bones[i].Translations[j] = math.ZeroVector
			s.Bones[i].Scales[j] = math.OneVector
		}
		s.rangeDirty[i] = [3]bool{true, true, true}
	}
	return s
}

// FromClip builds a Store from c's raw bone tracks, expanding
// zero-length (default) and one-sample (constant) tracks to the
// clip's full sample count, and folding every rotation track onto the
// non-negative-w half of the quaternion double cover (see
// FoldRotationTrack).
func FromClip(c *clip.AnimationClip) (*Store, error) {
	if err := c.Validate(); err != nil {
		return nil, errors.Wrap(err, "trackstore: invalid clip")
	}
	s := New(len(c.Bones), c.NumSamples)
	for i, bt := range c.Bones {
		expandQuat(bt.Rotation.Rotations, s.Bones[i].Rotations)
		expandVec(bt.Translation.Vectors, s.Bones[i].Translations, math.ZeroVector)
		expandVec(bt.Scale.Vectors, s.Bones[i].Scales, math.OneVector)
		if err := FoldRotationTrack(s.Bones[i].Rotations); err != nil {
			return nil, errors.Wrapf(err, "trackstore: bone %d", i)
		}
	}
	return s, nil
}

func expandQuat(src []math.Quaternion, dst []math.Quaternion) {
	switch len(src) {
	case 0:
		for i := range dst {
			dst[i] = math.IdentityQuaternion
		}
	case 1:
		for i := range dst {
			dst[i] = src[0]
		}
	default:
		copy(dst, src)
	}
}

func expandVec(src []math.Vector3, dst []math.Vector3, def math.Vector3) {
	switch len(src) {
	case 0:
		for i := range dst {
			dst[i] = def
		}
	case 1:
		for i := range dst {
			dst[i] = src[0]
		}
	default:
		copy(dst, src)
	}
}

// FoldRotationTrack rewrites track in place so that every sample has a
// non-negative w, which the drop-w rotation format's w reconstruction
// relies on. A first sample with negative w is negated; a first sample
// with w == 0 is rejected rather than silently resolved, since either
// sign is equally valid and guessing could introduce a spurious
// half-turn relative to authoring intent. Every later sample is
// replaced by whichever of itself or its negation is nearest the
// previous (already folded) sample, then negated if its w is still
// negative, so the nearest-sample choice only decides the sign of a
// later sample whose w is exactly 0.
func FoldRotationTrack(track []math.Quaternion) error {
	if len(track) == 0 {
		return nil
	}
	if track[0].Real < 0 {
		track[0] = math.NegQuaternion(track[0])
	} else if track[0].Real == 0 {
		return errors.New("trackstore: first rotation sample has ambiguous sign (w == 0)")
	}
	for i := 1; i < len(track); i++ {
		track[i] = math.EnsurePositiveW(math.NearestQuaternion(track[i-1], track[i]))
	}
	return nil
}

// invalidate marks every channel range for bone i dirty; must be
// called after any direct mutation of its sample arrays.
func (s *Store) invalidate(i int) {
	s.rangeDirty[i] = [3]bool{true, true, true}
}

// SetRotation overwrites sample j of bone i's rotation track and
// invalidates its cached range.
func (s *Store) SetRotation(i, j int, q math.Quaternion) {
	s.Bones[i].Rotations[j] = q
	s.rangeDirty[i][Rotation] = true
}

// SetTranslation overwrites sample j of bone i's translation track and
// invalidates its cached range.
func (s *Store) SetTranslation(i, j int, v math.Vector3) {
	s.Bones[i].Translations[j] = v
	s.rangeDirty[i][Translation] = true
}

// SetScale overwrites sample j of bone i's scale track and invalidates
// its cached range.
func (s *Store) SetScale(i, j int, v math.Vector3) {
	s.Bones[i].Scales[j] = v
	s.rangeDirty[i][Scale] = true
}

// RangeOf returns the sample range of bone i's channel c over
// [first, last] inclusive, computed directly from the sample data; it
// neither reads nor updates the whole-track cache that Range keeps.
func (s *Store) RangeOf(i int, c Channel, first, last int) Range {
	lo, hi := vectorEndpoints(s, i, c, first)
	for j := first + 1; j <= last; j++ {
		v := vectorAt(s, i, c, j)
		lo = math.MinVector3(lo, v)
		hi = math.MaxVector3(hi, v)
	}
	return Range{Min: lo, Extent: math.SubVector3(hi, lo)}
}

func vectorEndpoints(s *Store, i int, c Channel, j int) (math.Vector3, math.Vector3) {
	v := vectorAt(s, i, c, j)
	return v, v
}

// vectorAt reads sample j of bone i's channel c as a Vector3. Rotation
// samples are read component-wise (x, y, z), dropping w, since range
// reduction and packing for rotation tracks operate on the drop-w
// representation (see format.RotationFormat).
func vectorAt(s *Store, i int, c Channel, j int) math.Vector3 {
	switch c {
	case Rotation:
		q := s.Bones[i].Rotations[j]
		return math.Vector3{X: q.Imag, Y: q.Jmag, Z: q.Kmag}
	case Translation:
		return s.Bones[i].Translations[j]
	default:
		return s.Bones[i].Scales[j]
	}
}

// Range returns the cached full-track range for bone i's channel c,
// recomputing and caching it first if dirty.
func (s *Store) Range(i int, c Channel) Range {
	if s.rangeDirty[i][c] {
		s.rangeCache[i][c] = s.RangeOf(i, c, 0, s.NumSamples-1)
		s.rangeDirty[i][c] = false
	}
	return s.rangeCache[i][c]
}

// VectorAt exposes vectorAt to other packages (container/acl's encoder,
// and tests) that need the drop-w, SoA view of a sample without caring
// whether the channel is a rotation.
func (s *Store) VectorAt(i int, c Channel, j int) math.Vector3 {
	return vectorAt(s, i, c, j)
}

// NumBones returns the number of bones staged in the store.
func (s *Store) NumBones() int { return len(s.Bones) }
