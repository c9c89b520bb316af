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
	"github.com/ausocean/acl/errormetric"
	"github.com/ausocean/acl/math"
	"github.com/ausocean/acl/skeleton"
)

func mustSkeleton(t *testing.T, bones []skeleton.Bone) *skeleton.Skeleton {
	t.Helper()
	skel, err := skeleton.NewValidated(bones)
	if err != nil {
		t.Fatalf("skeleton.NewValidated: %v", err)
	}
	return skel
}

// TestEncodeDecodeIdentityClip covers spec scenario: a single root
// bone, 60 samples at 30Hz, entirely at the bind pose. Every channel
// collapses to the default state, so reconstruction is exact.
func TestEncodeDecodeIdentityClip(t *testing.T) {
	skel := mustSkeleton(t, []skeleton.Bone{
		{Name: "root", ParentIndex: skeleton.NoParent, VertexDistance: 1},
	})
	c := &clip.AnimationClip{
		Skeleton:       skel,
		Name:           "identity",
		NumSamples:     60,
		SampleRate:     30,
		ErrorThreshold: 0.01,
		Bones:          []clip.BoneTracks{{}},
	}

	buf, report, err := Encode(c, DefaultConfig())
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if report.AnimatedChannels != 0 {
		t.Fatalf("expected no animated channels, got %d", report.AnimatedChannels)
	}

	dec, err := NewDecoder(buf)
	if err != nil {
		t.Fatalf("NewDecoder: %v", err)
	}
	if dec.NumBones() != 1 || dec.NumSamples() != 60 || dec.SampleRate() != 30 {
		t.Fatalf("header mismatch: bones=%d samples=%d rate=%d", dec.NumBones(), dec.NumSamples(), dec.SampleRate())
	}

	pose := make([]math.Transform, 1)
	rate := float64(dec.SampleRate())
	for i := 0; i < dec.NumSamples(); i++ {
		dec.Seek(float64(i)/rate, RoundNearest)
		if err := dec.DecompressPose(pose); err != nil {
			t.Fatalf("DecompressPose(%d): %v", i, err)
		}
		if pose[0] != math.IdentityTransform {
			t.Fatalf("sample %d: got %+v, want identity", i, pose[0])
		}
	}
}

// TestEncodeDecodeTwoBoneRotation covers spec scenario: a parent bone
// sweeping 90 degrees of rotation and a child bone with a fixed
// translation offset. Reconstruction is lossy, so the test checks the
// shell-distance error stays within the clip's stated threshold.
func TestEncodeDecodeTwoBoneRotation(t *testing.T) {
	skel := mustSkeleton(t, []skeleton.Bone{
		{Name: "root", ParentIndex: skeleton.NoParent, VertexDistance: 1},
		{Name: "child", ParentIndex: 0, VertexDistance: 1},
	})

	const n = 16
	const halfPi = 1.5707963267948966
	rootRotations := make([]math.Quaternion, n)
	for i := range rootRotations {
		angle := halfPi * float64(i) / float64(n-1)
		rootRotations[i] = math.AngleAxis(angle, math.Vector3{Z: 1})
	}

	c := &clip.AnimationClip{
		Skeleton:       skel,
		Name:           "two_bone",
		NumSamples:     n,
		SampleRate:     30,
		ErrorThreshold: 0.01,
		Bones: []clip.BoneTracks{
			{Rotation: clip.Track{Rotations: rootRotations}},
			{Translation: clip.Track{Vectors: []math.Vector3{{X: 2}}}},
		},
	}

	buf, _, err := Encode(c, DefaultConfig())
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	dec, err := NewDecoder(buf)
	if err != nil {
		t.Fatalf("NewDecoder: %v", err)
	}

	metric := errormetric.New(skel)
	raw := make([]math.Transform, 2)
	lossy := make([]math.Transform, 2)
	rate := float64(dec.SampleRate())
	for i := 0; i < n; i++ {
		if err := c.SamplePose(i, raw); err != nil {
			t.Fatalf("SamplePose(%d): %v", i, err)
		}
		dec.Seek(float64(i)/rate, RoundNearest)
		if err := dec.DecompressPose(lossy); err != nil {
			t.Fatalf("DecompressPose(%d): %v", i, err)
		}
		e, err := metric.Measure(raw, lossy)
		if err != nil {
			t.Fatalf("Measure(%d): %v", i, err)
		}
		if e > c.ErrorThreshold {
			t.Fatalf("sample %d: error %v exceeds threshold %v", i, e, c.ErrorThreshold)
		}
	}
}

// TestDecompressPoseInterpolatesBetweenKeyFrames covers spec scenario:
// seeking to a time that falls strictly between two samples blends
// them by alpha instead of snapping to the nearer one.
func TestDecompressPoseInterpolatesBetweenKeyFrames(t *testing.T) {
	skel := mustSkeleton(t, []skeleton.Bone{
		{Name: "root", ParentIndex: skeleton.NoParent, VertexDistance: 1},
	})
	const halfPi = 1.5707963267948966
	c := &clip.AnimationClip{
		Skeleton:       skel,
		Name:           "interp",
		NumSamples:     2,
		SampleRate:     1,
		ErrorThreshold: 0.05,
		Bones: []clip.BoneTracks{
			{Rotation: clip.Track{Rotations: []math.Quaternion{
				math.IdentityQuaternion,
				math.AngleAxis(halfPi, math.Vector3{Z: 1}),
			}}},
		},
	}

	buf, _, err := Encode(c, DefaultConfig())
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	dec, err := NewDecoder(buf)
	if err != nil {
		t.Fatalf("NewDecoder: %v", err)
	}

	t0, t1, alpha := dec.Seek(0.5, RoundNone)
	if t0 != 0 || t1 != 1 {
		t.Fatalf("Seek(0.5) = (t0=%d, t1=%d), want (0, 1)", t0, t1)
	}
	if alpha < 0.49 || alpha > 0.51 {
		t.Fatalf("Seek(0.5) alpha = %v, want ~0.5", alpha)
	}

	pose := make([]math.Transform, 1)
	if err := dec.DecompressPose(pose); err != nil {
		t.Fatalf("DecompressPose: %v", err)
	}

	want := math.AngleAxis(halfPi/2, math.Vector3{Z: 1})
	if d := math.GeodesicAngle(pose[0].Rotation, want); d > 0.01 {
		t.Fatalf("seek(0.5s) rotation off by %v rad, want within 0.01 of 45 degrees", d)
	}
}

// TestDecompressBoneSkipsUnrequestedChannels covers spec scenario:
// DecompressBone with a channel's want flag false leaves that channel
// at identity rather than decoding it.
func TestDecompressBoneSkipsUnrequestedChannels(t *testing.T) {
	skel := mustSkeleton(t, []skeleton.Bone{
		{Name: "root", ParentIndex: skeleton.NoParent, VertexDistance: 1},
	})
	translations := make([]math.Vector3, 8)
	for i := range translations {
		translations[i] = math.Vector3{X: float64(i)}
	}
	c := &clip.AnimationClip{
		Skeleton:       skel,
		Name:           "selective",
		NumSamples:     8,
		SampleRate:     30,
		ErrorThreshold: 0.01,
		Bones: []clip.BoneTracks{
			{Translation: clip.Track{Vectors: translations}},
		},
	}

	buf, _, err := Encode(c, DefaultConfig())
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	dec, err := NewDecoder(buf)
	if err != nil {
		t.Fatalf("NewDecoder: %v", err)
	}

	dec.Seek(float64(3)/float64(dec.SampleRate()), RoundNearest)

	full, err := dec.DecompressBone(0, true, true, true)
	if err != nil {
		t.Fatalf("DecompressBone(want all): %v", err)
	}
	if full.Translation == math.IdentityTransform.Translation {
		t.Fatalf("expected a non-identity translation when requested, got %+v", full.Translation)
	}

	rotOnly, err := dec.DecompressBone(0, true, false, false)
	if err != nil {
		t.Fatalf("DecompressBone(want rotation only): %v", err)
	}
	if rotOnly.Translation != math.IdentityTransform.Translation {
		t.Fatalf("translation decoded despite wantTrans=false: %+v", rotOnly.Translation)
	}
}

// TestEncodeDecodeMultiSegment covers spec scenario: enough samples to
// force more than one segment under the default segmenter sizing.
func TestEncodeDecodeMultiSegment(t *testing.T) {
	skel := mustSkeleton(t, []skeleton.Bone{
		{Name: "a", ParentIndex: skeleton.NoParent, VertexDistance: 1},
		{Name: "b", ParentIndex: 0, VertexDistance: 1},
		{Name: "c", ParentIndex: 1, VertexDistance: 1},
	})

	const n = 64
	translations := make([]math.Vector3, n)
	for i := range translations {
		translations[i] = math.Vector3{X: float64(i) * 0.1}
	}

	c := &clip.AnimationClip{
		Skeleton:       skel,
		Name:           "multi_segment",
		NumSamples:     n,
		SampleRate:     30,
		ErrorThreshold: 0.01,
		Bones: []clip.BoneTracks{
			{Translation: clip.Track{Vectors: translations}},
			{},
			{},
		},
	}

	buf, report, err := Encode(c, DefaultConfig())
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if len(report.Segments) < 2 {
		t.Fatalf("expected multiple segments for %d samples, got %d", n, len(report.Segments))
	}

	dec, err := NewDecoder(buf)
	if err != nil {
		t.Fatalf("NewDecoder: %v", err)
	}
	metric := errormetric.New(skel)
	raw := make([]math.Transform, 3)
	lossy := make([]math.Transform, 3)
	rate := float64(dec.SampleRate())
	for i := 0; i < n; i++ {
		c.SamplePose(i, raw)
		dec.Seek(float64(i)/rate, RoundNearest)
		if err := dec.DecompressPose(lossy); err != nil {
			t.Fatalf("DecompressPose(%d): %v", i, err)
		}
		if e, _ := metric.Measure(raw, lossy); e > c.ErrorThreshold {
			t.Fatalf("sample %d: error %v exceeds threshold", i, e)
		}
	}
}

// TestEncodeDecodeAllConstant covers spec scenario: every channel
// collapses to a single constant sample (zero extent), so the wire
// format's clip-range block is entirely absent.
func TestEncodeDecodeAllConstant(t *testing.T) {
	skel := mustSkeleton(t, []skeleton.Bone{
		{Name: "root", ParentIndex: skeleton.NoParent, VertexDistance: 1},
	})
	c := &clip.AnimationClip{
		Skeleton:       skel,
		Name:           "constant",
		NumSamples:     8,
		SampleRate:     30,
		ErrorThreshold: 0.01,
		Bones: []clip.BoneTracks{
			{Translation: clip.Track{Vectors: []math.Vector3{{X: 1, Y: 2, Z: 3}}}},
		},
	}

	buf, report, err := Encode(c, DefaultConfig())
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if report.AnimatedChannels != 0 {
		t.Fatalf("expected no animated channels, got %d", report.AnimatedChannels)
	}

	dec, err := NewDecoder(buf)
	if err != nil {
		t.Fatalf("NewDecoder: %v", err)
	}
	pose := make([]math.Transform, 1)
	rate := float64(dec.SampleRate())
	for i := 0; i < dec.NumSamples(); i++ {
		dec.Seek(float64(i)/rate, RoundNearest)
		if err := dec.DecompressPose(pose); err != nil {
			t.Fatalf("DecompressPose(%d): %v", i, err)
		}
		if pose[0].Translation != (math.Vector3{X: 1, Y: 2, Z: 3}) {
			t.Fatalf("sample %d: got %+v", i, pose[0].Translation)
		}
	}
}

// TestEncodeDecodeDoubleCover covers spec scenario: a rotation track
// whose raw samples cross the quaternion double-cover boundary
// (consecutive samples land in opposite hemispheres despite
// representing a small rotation delta). Reconstruction should still
// stay within threshold once rotation folding takes effect upstream
// of compression.
func TestEncodeDecodeDoubleCover(t *testing.T) {
	skel := mustSkeleton(t, []skeleton.Bone{
		{Name: "root", ParentIndex: skeleton.NoParent, VertexDistance: 1},
	})

	a := math.AngleAxis(0.01, math.Vector3{X: 1})
	b := math.NegQuaternion(math.AngleAxis(0.02, math.Vector3{X: 1}))
	c := &clip.AnimationClip{
		Skeleton:       skel,
		Name:           "double_cover",
		NumSamples:     2,
		SampleRate:     30,
		ErrorThreshold: 0.05,
		Bones: []clip.BoneTracks{
			{Rotation: clip.Track{Rotations: []math.Quaternion{a, b}}},
		},
	}

	buf, _, err := Encode(c, DefaultConfig())
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	dec, err := NewDecoder(buf)
	if err != nil {
		t.Fatalf("NewDecoder: %v", err)
	}

	metric := errormetric.New(skel)
	raw := make([]math.Transform, 1)
	lossy := make([]math.Transform, 1)
	rate := float64(dec.SampleRate())
	for i := 0; i < 2; i++ {
		c.SamplePose(i, raw)
		dec.Seek(float64(i)/rate, RoundNearest)
		if err := dec.DecompressPose(lossy); err != nil {
			t.Fatalf("DecompressPose(%d): %v", i, err)
		}
		if e, _ := metric.Measure(raw, lossy); e > c.ErrorThreshold {
			t.Fatalf("sample %d: error %v exceeds threshold", i, e)
		}
	}
}

// TestNewDecoderRejectsTamperedBuffer covers spec scenario: a buffer
// whose header is structurally valid (tag, version, sizes all agree)
// but whose payload was mutated after the CRC was sealed.
func TestNewDecoderRejectsTamperedBuffer(t *testing.T) {
	skel := mustSkeleton(t, []skeleton.Bone{
		{Name: "root", ParentIndex: skeleton.NoParent, VertexDistance: 1},
	})
	c := &clip.AnimationClip{
		Skeleton:       skel,
		Name:           "tamper",
		NumSamples:     4,
		SampleRate:     30,
		ErrorThreshold: 0.01,
		Bones: []clip.BoneTracks{
			{Translation: clip.Track{Vectors: []math.Vector3{{X: 1}, {X: 2}, {X: 3}, {X: 4}}}},
		},
	}
	buf, _, err := Encode(c, DefaultConfig())
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if len(buf) <= 32 {
		t.Fatalf("buffer too small to tamper meaningfully: %d bytes", len(buf))
	}
	buf[len(buf)-1] ^= 0xFF

	if _, err := NewDecoder(buf); err == nil {
		t.Fatal("expected a CRC verification error on a tampered buffer")
	}
}
