/*
NAME
  acl_test.go

LICENSE
  Copyright (C) 2026 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package acl

import (
	"testing"

	"github.com/ausocean/acl/clip"
	containeracl "github.com/ausocean/acl/container/acl"
	aclmath "github.com/ausocean/acl/math"
	"github.com/ausocean/acl/skeleton"
)

func TestCompressDecompress(t *testing.T) {
	skel, err := skeleton.NewValidated([]skeleton.Bone{
		{Name: "root", ParentIndex: skeleton.NoParent, VertexDistance: 1},
	})
	if err != nil {
		t.Fatalf("skeleton.NewValidated: %v", err)
	}
	c := &clip.AnimationClip{
		Skeleton:       skel,
		Name:           "wave",
		NumSamples:     4,
		SampleRate:     30,
		ErrorThreshold: 0.01,
		Bones: []clip.BoneTracks{
			{Translation: clip.Track{Vectors: []aclmath.Vector3{{X: 0}, {X: 1}, {X: 2}, {X: 3}}}},
		},
	}

	buf, report, err := Compress(c, containeracl.LevelMedium)
	if err != nil {
		t.Fatalf("Compress: %v", err)
	}
	if report.NumBones != 1 {
		t.Fatalf("report.NumBones = %d, want 1", report.NumBones)
	}

	dec, err := Decompress(buf)
	if err != nil {
		t.Fatalf("Decompress: %v", err)
	}
	if dec.NumSamples() != 4 {
		t.Fatalf("dec.NumSamples() = %d, want 4", dec.NumSamples())
	}
}
