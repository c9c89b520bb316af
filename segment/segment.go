/*
NAME
  segment.go

DESCRIPTION
  Provides the segmenter: splitting a clip's sample range into
  fixed-ideal-size chunks, redistributing the leftover samples of an
  undersized final chunk across its siblings whenever there is enough
  slack to do so, and materializing each chunk's bone sample windows
  from a trackstore.Store.

LICENSE
  Copyright (C) 2026 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package segment splits a clip's samples into segments sized close
// to an ideal count, so the bit-rate optimizer and range reduction
// that follow operate on small, cache-friendly, independently
// quantized windows instead of the whole clip at once.
package segment

import (
	"github.com/pkg/errors"

	"github.com/ausocean/acl/errclass"
	"github.com/ausocean/acl/math"
	"github.com/ausocean/acl/trackstore"
)

// Segmenter holds the two sample-count knobs that control splitting.
type Segmenter struct {
	// Ideal is the number of samples a segment should have. Split
	// starts every segment at this size; a clip that needs several
	// segments ends with a shorter last one, or, when its leftover
	// samples are redistributed, with some segments grown past Ideal
	// (up to Max).
	Ideal int

	// Max is the largest a segment is ever allowed to grow to while
	// absorbing another segment's leftover samples.
	Max int
}

// Segment describes one contiguous window of a clip's samples.
type Segment struct {
	// ClipSampleOffset is the index, within the original clip, of this
	// segment's first sample.
	ClipSampleOffset int

	// NumSamples is the number of samples in this segment.
	NumSamples int
}

// Validate reports an InvalidConfig-class error if Ideal and Max don't
// form a usable pair.
func (s Segmenter) Validate() error {
	if s.Ideal <= 0 {
		return errclass.Errorf(errclass.InvalidConfig, "segment: ideal sample count must be positive, got %d", s.Ideal)
	}
	if s.Max < s.Ideal {
		return errclass.Errorf(errclass.InvalidConfig, "segment: max sample count %d must be >= ideal %d", s.Max, s.Ideal)
	}
	return nil
}

// Split divides numSamples samples into segments. If numSamples
// already fits in a single segment (<= s.Max), it returns that single
// segment unchanged: splitting only happens when it's unavoidable.
//
// Otherwise every segment is given s.Ideal samples except the last,
// which gets whatever is left over. If there's enough slack across
// the other segments (their count times (Max-Ideal)) to
// absorb that leftover, it is redistributed one sample at a time,
// round-robin, across the other segments, and the last (now emptied)
// segment is dropped.
func (s Segmenter) Split(numSamples int) ([]Segment, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	if numSamples <= 0 {
		return nil, errors.Errorf("segment: numSamples must be positive, got %d", numSamples)
	}
	if numSamples <= s.Max {
		return []Segment{{ClipSampleOffset: 0, NumSamples: numSamples}}, nil
	}

	numSegments := (numSamples + s.Ideal - 1) / s.Ideal
	maxNumSamples := numSegments * s.Ideal

	counts := make([]int, numSegments)
	for i := range counts {
		counts[i] = s.Ideal
	}

	// deficit is how many samples short of a perfectly ideal-sized
	// last segment numSamples falls; 0 when numSamples divides evenly
	// by Ideal, in which case the last segment is already full and
	// there is no leftover to redistribute or collapse.
	deficit := maxNumSamples - numSamples
	if deficit > 0 {
		leftover := s.Ideal - deficit
		counts[numSegments-1] = leftover

		slack := s.Max - s.Ideal
		if (numSegments-1)*slack >= leftover {
			for counts[numSegments-1] != 0 {
				for i := 0; i < numSegments-1 && counts[numSegments-1] != 0; i++ {
					counts[i]++
					counts[numSegments-1]--
				}
			}
			numSegments--
			counts = counts[:numSegments]
		}
	}

	segments := make([]Segment, numSegments)
	offset := 0
	for i, n := range counts {
		segments[i] = Segment{ClipSampleOffset: offset, NumSamples: n}
		offset += n
	}
	return segments, nil
}

// BoneWindow is one bone's sample window within a single segment: a
// constant (length-1) track is carried through unsplit, an animated
// track is sliced to the segment's sample range.
type BoneWindow struct {
	Rotations    []math.Quaternion
	Translations []math.Vector3
	Scales       []math.Vector3
}

// Materialize copies store's bone streams restricted to seg's sample
// window into a fresh slice of BoneWindow, one per bone. A bone
// channel whose full track has already been compacted to a single
// constant sample (len == 1) is duplicated as-is rather than sliced,
// matching the reference segmenter's handling of constant streams.
func Materialize(store *trackstore.Store, seg Segment) []BoneWindow {
	out := make([]BoneWindow, store.NumBones())
	for i, bone := range store.Bones {
		out[i] = BoneWindow{
			Rotations:    sliceOrDuplicateQuat(bone.Rotations, seg),
			Translations: sliceOrDuplicateVec(bone.Translations, seg),
			Scales:       sliceOrDuplicateVec(bone.Scales, seg),
		}
	}
	return out
}

func sliceOrDuplicateQuat(track []math.Quaternion, seg Segment) []math.Quaternion {
	if len(track) <= 1 {
		out := make([]math.Quaternion, len(track))
		copy(out, track)
		return out
	}
	out := make([]math.Quaternion, seg.NumSamples)
	copy(out, track[seg.ClipSampleOffset:seg.ClipSampleOffset+seg.NumSamples])
	return out
}

func sliceOrDuplicateVec(track []math.Vector3, seg Segment) []math.Vector3 {
	if len(track) <= 1 {
		out := make([]math.Vector3, len(track))
		copy(out, track)
		return out
	}
	out := make([]math.Vector3, seg.NumSamples)
	copy(out, track[seg.ClipSampleOffset:seg.ClipSampleOffset+seg.NumSamples])
	return out
}
