/*
NAME
  segment_test.go

DESCRIPTION
  segment_test.go contains tests for functionality found in
  segment.go.

LICENSE
  Copyright (C) 2026 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package segment

import (
	"testing"

	"github.com/ausocean/acl/trackstore"
)

func TestSplitNoSplitNeeded(t *testing.T) {
	s := Segmenter{Ideal: 16, Max: 31}
	segs, err := s.Split(10)
	if err != nil {
		t.Fatalf("Split: %v", err)
	}
	if len(segs) != 1 || segs[0].NumSamples != 10 {
		t.Fatalf("Split(10) = %+v, want single 10-sample segment", segs)
	}
}

// TestSplitMatchesWorkedExample mirrors the documented worked example
// for 64 samples at ideal 16 max 31: 4 segments of 16 each, no
// redistribution needed since 64 divides evenly.
func TestSplitMatchesWorkedExample(t *testing.T) {
	s := Segmenter{Ideal: 16, Max: 31}
	segs, err := s.Split(64)
	if err != nil {
		t.Fatalf("Split: %v", err)
	}
	if len(segs) != 4 {
		t.Fatalf("got %d segments, want 4", len(segs))
	}
	offset := 0
	for i, seg := range segs {
		if seg.NumSamples != 16 {
			t.Errorf("segment %d: NumSamples = %d, want 16", i, seg.NumSamples)
		}
		if seg.ClipSampleOffset != offset {
			t.Errorf("segment %d: offset = %d, want %d", i, seg.ClipSampleOffset, offset)
		}
		offset += seg.NumSamples
	}
	if offset != 64 {
		t.Errorf("segments cover %d samples, want 64", offset)
	}
}

// TestSplitRedistributesLeftover checks the case where the final
// segment would otherwise be undersized but enough slack exists to
// redistribute its samples across its siblings, dropping it entirely.
func TestSplitRedistributesLeftover(t *testing.T) {
	s := Segmenter{Ideal: 16, Max: 20}
	segs, err := s.Split(50) // segments of 16,16,16,2: leftover 2, slack 4*3=12 >= 2, redistributed into 17,17,16
	if err != nil {
		t.Fatalf("Split: %v", err)
	}
	total := 0
	for _, seg := range segs {
		if seg.NumSamples > s.Max {
			t.Errorf("segment has %d samples, exceeds max %d", seg.NumSamples, s.Max)
		}
		total += seg.NumSamples
	}
	if total != 50 {
		t.Errorf("segments cover %d samples, want 50", total)
	}
}

// TestSplitRedistributesLeftoverWhenSlackSuffices picks sizes where
// the leftover is small enough relative to slack that the last
// segment is fully absorbed by its siblings.
func TestSplitRedistributesLeftoverWhenSlackSuffices(t *testing.T) {
	s := Segmenter{Ideal: 16, Max: 20}
	segs, err := s.Split(34) // ceil(34/16)=3 segments of {16,16,2}; slack=4*2=8 >= leftover 2
	if err != nil {
		t.Fatalf("Split: %v", err)
	}
	if len(segs) != 2 {
		t.Fatalf("got %d segments, want 2 after redistribution", len(segs))
	}
	total := 0
	for _, seg := range segs {
		if seg.NumSamples > s.Max {
			t.Errorf("segment has %d samples, exceeds max %d", seg.NumSamples, s.Max)
		}
		total += seg.NumSamples
	}
	if total != 34 {
		t.Errorf("segments cover %d samples, want 34", total)
	}
}

func TestSplitRejectsInvalidConfig(t *testing.T) {
	s := Segmenter{Ideal: 20, Max: 10}
	if _, err := s.Split(100); err == nil {
		t.Error("expected error for Max < Ideal")
	}
}

func TestMaterializePreservesConstantTracks(t *testing.T) {
	store := trackstore.New(1, 10)
	seg := Segment{ClipSampleOffset: 2, NumSamples: 4}
	// Collapse the translation track to a single constant sample, as
	// the constant-compaction stage would before segmenting.
	store.Bones[0].Translations = store.Bones[0].Translations[:1]

	windows := Materialize(store, seg)
	if len(windows[0].Translations) != 1 {
		t.Errorf("constant translation track length = %d, want 1", len(windows[0].Translations))
	}
	if len(windows[0].Rotations) != seg.NumSamples {
		t.Errorf("rotation window length = %d, want %d", len(windows[0].Rotations), seg.NumSamples)
	}
}
