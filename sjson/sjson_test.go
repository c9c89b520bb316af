/*
NAME
  sjson_test.go

LICENSE
  Copyright (C) 2026 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package sjson

import (
	"testing"

	"github.com/ausocean/acl/clip"
	aclmath "github.com/ausocean/acl/math"
	"github.com/ausocean/acl/skeleton"
)

func TestReaderScalars(t *testing.T) {
	buf := []byte(`
		// a leading comment
		name = "root_motion"
		count = 12
		ratio = 0.5
		enabled = true
	`)
	r := NewReader(buf)

	name, err := r.String("name")
	if err != nil || name != "root_motion" {
		t.Fatalf("String: got %q, %v", name, err)
	}
	count, err := r.Int("count")
	if err != nil || count != 12 {
		t.Fatalf("Int: got %d, %v", count, err)
	}
	ratio, err := r.Float("ratio")
	if err != nil || ratio != 0.5 {
		t.Fatalf("Float: got %v, %v", ratio, err)
	}
	enabled, err := r.Bool("enabled")
	if err != nil || !enabled {
		t.Fatalf("Bool: got %v, %v", enabled, err)
	}
	if err := r.Remainder(); err != nil {
		t.Fatalf("Remainder: %v", err)
	}
}

func TestReaderTryDefaults(t *testing.T) {
	r := NewReader([]byte(`present = 3`))
	if v := r.TryFloat("missing", 7); v != 7 {
		t.Fatalf("TryFloat: got %v, want 7", v)
	}
	if v := r.TryFloat("present", 7); v != 3 {
		t.Fatalf("TryFloat: got %v, want 3", v)
	}
}

func TestReaderObjectAndArray(t *testing.T) {
	buf := []byte(`
	bone = {
		name = "hip"
		rotation = [0, 0, 0, 1]
	}
	`)
	r := NewReader(buf)
	if err := r.NamedObjectBegins("bone"); err != nil {
		t.Fatalf("NamedObjectBegins: %v", err)
	}
	name, err := r.String("name")
	if err != nil || name != "hip" {
		t.Fatalf("String: got %q, %v", name, err)
	}
	rot, err := r.FloatArray("rotation", 4)
	if err != nil {
		t.Fatalf("FloatArray: %v", err)
	}
	if rot[3] != 1 {
		t.Fatalf("FloatArray: got %v", rot)
	}
	if err := r.ObjectEnds(); err != nil {
		t.Fatalf("ObjectEnds: %v", err)
	}
}

func TestReaderRejectsWrongKey(t *testing.T) {
	r := NewReader([]byte(`foo = 1`))
	if _, err := r.Int("bar"); err == nil {
		t.Fatal("expected an error reading a mismatched key")
	}
}

func TestReaderTruncatedString(t *testing.T) {
	r := NewReader([]byte(`name = "unterminated`))
	if _, err := r.String("name"); err == nil {
		t.Fatal("expected an error on an unterminated string")
	}
}

func TestClipRoundTrip(t *testing.T) {
	c := &clip.AnimationClip{
		Skeleton: &skeleton.Skeleton{
			Bones: []skeleton.Bone{
				{Name: "root", ParentIndex: skeleton.NoParent, BindRotation: aclmath.Quaternion{Real: 1}, VertexDistance: 3},
				{Name: "spine", ParentIndex: 0, BindTranslation: aclmath.Vector3{Y: 1}, VertexDistance: 2},
			},
		},
		Name:           "walk",
		NumSamples:     2,
		SampleRate:     30,
		ErrorThreshold: 0.01,
		Bones: []clip.BoneTracks{
			{
				Rotation:    clip.Track{Rotations: []aclmath.Quaternion{{Real: 1}, {Imag: 0.1, Real: 0.995}}},
				Translation: clip.Track{Vectors: []aclmath.Vector3{{}, {}}},
			},
			{
				Rotation:    clip.Track{Rotations: []aclmath.Quaternion{{Real: 1}}},
				Translation: clip.Track{Vectors: []aclmath.Vector3{{Y: 1}, {Y: 1.1}}},
			},
		},
	}

	buf := WriteClip(c)
	got, err := ReadClip(buf)
	if err != nil {
		t.Fatalf("ReadClip: %v\n--- document ---\n%s", err, buf)
	}

	if got.Name != c.Name || got.NumSamples != c.NumSamples || got.SampleRate != c.SampleRate {
		t.Fatalf("header mismatch: got %+v", got)
	}
	if len(got.Skeleton.Bones) != 2 || got.Skeleton.Bones[1].ParentIndex != 0 {
		t.Fatalf("bones mismatch: got %+v", got.Skeleton.Bones)
	}
	if len(got.Bones) != 2 || len(got.Bones[0].Rotation.Rotations) != 2 {
		t.Fatalf("tracks mismatch: got %+v", got.Bones)
	}
	if got.Bones[1].Translation.Vectors[1].Y != 1.1 {
		t.Fatalf("translation value mismatch: got %v", got.Bones[1].Translation.Vectors[1])
	}
}

func TestReadClipBoneTrackCountMismatch(t *testing.T) {
	buf := []byte(`
	clip = { name = "x" num_samples = 1 sample_rate = 30 }
	bones = [
		{ name = "root" parent = -1 bind_rotation = [0,0,0,1] bind_translation = [0,0,0] }
	]
	tracks = [
	]
	`)
	if _, err := ReadClip(buf); err == nil {
		t.Fatal("expected an error when bone count and track-block count disagree")
	}
}
