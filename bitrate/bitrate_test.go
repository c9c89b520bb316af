/*
NAME
  bitrate_test.go

DESCRIPTION
  bitrate_test.go contains tests for functionality found in
  bitrate.go.

LICENSE
  Copyright (C) 2026 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package bitrate

import (
	"testing"

	"github.com/ausocean/acl/math"
	"github.com/ausocean/acl/pack"
	"github.com/ausocean/acl/rangereduce"
	"github.com/ausocean/acl/skeleton"
	"github.com/ausocean/acl/trackstore"
)

func singleBoneStore(numSamples int, rotate func(i int) math.Quaternion) (*trackstore.Store, *skeleton.Skeleton) {
	skel := skeleton.New([]skeleton.Bone{{ParentIndex: skeleton.NoParent, VertexDistance: 2}})
	store := trackstore.New(1, numSamples)
	for i := 0; i < numSamples; i++ {
		store.SetRotation(0, i, rotate(i))
	}
	return store, skel
}

func rangesFor(store *trackstore.Store) [][3]trackstore.Range {
	ranges := make([][3]trackstore.Range, store.NumBones())
	for i := range store.Bones {
		raw := rangereduce.ExtractRange(vectorTrack(store, i, trackstore.Rotation))
		ranges[i][trackstore.Rotation] = rangereduce.FixupRange(raw)
		raw = rangereduce.ExtractRange(vectorTrack(store, i, trackstore.Translation))
		ranges[i][trackstore.Translation] = rangereduce.FixupRange(raw)
		raw = rangereduce.ExtractRange(vectorTrack(store, i, trackstore.Scale))
		ranges[i][trackstore.Scale] = rangereduce.FixupRange(raw)
	}
	return ranges
}

func vectorTrack(store *trackstore.Store, bone int, ch trackstore.Channel) []math.Vector3 {
	n := store.NumSamples
	out := make([]math.Vector3, n)
	for j := 0; j < n; j++ {
		out[j] = store.VectorAt(bone, ch, j)
	}
	return out
}

func TestOptimizeConvergesWithinIterations(t *testing.T) {
	store, skel := singleBoneStore(8, func(i int) math.Quaternion {
		angle := float64(i) * 0.05
		return math.AngleAxis(angle, math.Vector3{Z: 1})
	})
	ranges := rangesFor(store)

	rates, report, err := Optimize(store, ranges, skel, 0.01, 50)
	if err != nil {
		t.Fatalf("Optimize: %v", err)
	}
	if report.FinalError > 0.01 {
		t.Errorf("FinalError = %v, want <= 0.01 (iterations=%d)", report.FinalError, report.Iterations)
	}
	if rates.Rotation[0] < pack.LowestBitRate {
		t.Errorf("rotation rate = %d, want >= %d", rates.Rotation[0], pack.LowestBitRate)
	}
}

func TestOptimizeLeavesConstantTrackUntouched(t *testing.T) {
	store, skel := singleBoneStore(8, func(i int) math.Quaternion { return math.IdentityQuaternion })
	// Collapse to a constant track, as the constant-compaction stage would.
	store.Bones[0].Rotations = store.Bones[0].Rotations[:1]
	ranges := rangesFor(store)

	rates, _, err := Optimize(store, ranges, skel, 0.01, 20)
	if err != nil {
		t.Fatalf("Optimize: %v", err)
	}
	if rates.Rotation[0] != pack.InvalidBitRate {
		t.Errorf("constant rotation track rate = %d, want InvalidBitRate", rates.Rotation[0])
	}
}

func TestOptimizeRespectsIterationCap(t *testing.T) {
	store, skel := singleBoneStore(4, func(i int) math.Quaternion {
		return math.AngleAxis(float64(i)*1.5, math.Vector3{X: 1})
	})
	ranges := rangesFor(store)

	_, report, err := Optimize(store, ranges, skel, 1e-12, 3)
	if err != nil {
		t.Fatalf("Optimize: %v", err)
	}
	if report.Iterations > 3 {
		t.Errorf("Iterations = %d, want <= 3", report.Iterations)
	}
}
