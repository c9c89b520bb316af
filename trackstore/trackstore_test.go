/*
NAME
  trackstore_test.go

DESCRIPTION
  trackstore_test.go contains tests for functionality found in
  trackstore.go.

LICENSE
  Copyright (C) 2026 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package trackstore

import (
	"testing"

	"github.com/ausocean/acl/clip"
	"github.com/ausocean/acl/math"
	"github.com/ausocean/acl/skeleton"
)

func oneBoneSkeleton() *skeleton.Skeleton {
	return skeleton.New([]skeleton.Bone{{Name: "root", ParentIndex: skeleton.NoParent, VertexDistance: 1}})
}

func TestFromClipExpandsConstantAndDefaultTracks(t *testing.T) {
	c := &clip.AnimationClip{
		Skeleton:   oneBoneSkeleton(),
		NumSamples: 4,
		SampleRate: 30,
		Bones: []clip.BoneTracks{{
			Rotation: clip.Track{Rotations: []math.Quaternion{math.IdentityQuaternion}},
		}},
	}
	s, err := FromClip(c)
	if err != nil {
		t.Fatalf("FromClip: %v", err)
	}
	if len(s.Bones[0].Rotations) != 4 {
		t.Fatalf("rotation track length = %d, want 4", len(s.Bones[0].Rotations))
	}
	for i, v := range s.Bones[0].Translations {
		if v != math.ZeroVector {
			t.Errorf("translation[%d] = %v, want zero", i, v)
		}
	}
	for i, v := range s.Bones[0].Scales {
		if v != math.OneVector {
			t.Errorf("scale[%d] = %v, want one", i, v)
		}
	}
}

func TestFoldRotationTrackRejectsAmbiguousFirstSample(t *testing.T) {
	track := []math.Quaternion{{Real: 0, Imag: 1}, math.IdentityQuaternion}
	if err := FoldRotationTrack(track); err == nil {
		t.Error("expected error for w == 0 first sample")
	}
}

func TestFoldRotationTrackFoldsNegativeW(t *testing.T) {
	q := math.Quaternion{Real: -0.9, Imag: 0.1, Jmag: 0.2, Kmag: 0.3}
	track := []math.Quaternion{q}
	if err := FoldRotationTrack(track); err != nil {
		t.Fatalf("FoldRotationTrack: %v", err)
	}
	if track[0].Real < 0 {
		t.Errorf("first sample w = %v, want >= 0", track[0].Real)
	}
}

func TestFoldRotationTrackPicksContinuousCover(t *testing.T) {
	// A near-identity rotation whose negation is also near identity;
	// picking the wrong cover for sample 2 would introduce a visible
	// discontinuity relative to sample 1.
	q0 := math.Quaternion{Real: 0.99, Imag: 0.1}
	q1 := math.Quaternion{Real: -0.98, Imag: 0.12} // same rotation as -q1, nearer q0.
	track := []math.Quaternion{q0, q1}
	if err := FoldRotationTrack(track); err != nil {
		t.Fatalf("FoldRotationTrack: %v", err)
	}
	if track[1].Real < 0 {
		t.Errorf("folded sample 1 w = %v, want >= 0 (nearest to sample 0)", track[1].Real)
	}
}

func TestRangeCacheRecomputesWhenDirty(t *testing.T) {
	s := New(1, 3)
	s.SetTranslation(0, 0, math.Vector3{X: -1})
	s.SetTranslation(0, 1, math.Vector3{X: 2})
	s.SetTranslation(0, 2, math.Vector3{X: 0})

	r := s.Range(0, Translation)
	if r.Min.X != -1 || r.Extent.X != 3 {
		t.Fatalf("Range = %+v, want min -1 extent 3", r)
	}

	// Mutate again; the cache must pick up the new value, not return
	// the stale one.
	s.SetTranslation(0, 1, math.Vector3{X: 10})
	r2 := s.Range(0, Translation)
	if r2.Extent.X != 11 {
		t.Errorf("Range after mutation: extent.X = %v, want 11", r2.Extent.X)
	}
}

func TestRangeDegenerate(t *testing.T) {
	s := New(1, 5)
	r := s.Range(0, Translation)
	if !r.IsDegenerate() {
		t.Error("all-zero translation track should be degenerate")
	}
}
