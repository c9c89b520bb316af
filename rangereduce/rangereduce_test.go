/*
NAME
  rangereduce_test.go

DESCRIPTION
  rangereduce_test.go contains tests for functionality found in
  rangereduce.go.

LICENSE
  Copyright (C) 2026 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package rangereduce

import (
	"math/rand"
	"testing"

	"github.com/ausocean/acl/math"
	"github.com/ausocean/acl/trackstore"
)

func TestExtractRange(t *testing.T) {
	samples := []math.Vector3{
		{X: -1, Y: 2, Z: 0},
		{X: 3, Y: -1, Z: 0.5},
		{X: 0, Y: 0, Z: -2},
	}
	r := ExtractRange(samples)
	want := trackstore.Range{Min: math.Vector3{X: -1, Y: -1, Z: -2}, Extent: math.Vector3{X: 4, Y: 3, Z: 2.5}}
	if r != want {
		t.Errorf("ExtractRange = %+v, want %+v", r, want)
	}
}

// TestFixupRangeEnclosesTrueRange is the invariant the fixup exists
// for: for many random ranges within [0,1] (the clip-normalized space
// segment ranges live in), the quantized (min, extent) pair must
// still bound every sample that produced it.
func TestFixupRangeEnclosesTrueRange(t *testing.T) {
	r := rand.New(rand.NewSource(42))
	for trial := 0; trial < 1000; trial++ {
		n := r.Intn(20) + 2
		samples := make([]math.Vector3, n)
		for i := range samples {
			samples[i] = math.Vector3{
				X: r.Float64(),
				Y: r.Float64(),
				Z: r.Float64(),
			}
		}
		raw := ExtractRange(samples)
		fixed := FixupRange(raw)
		trueMax := math.AddVector3(raw.Min, raw.Extent)
		paddedMax := math.AddVector3(fixed.Min, fixed.Extent)

		if fixed.Min.X > raw.Min.X || fixed.Min.Y > raw.Min.Y || fixed.Min.Z > raw.Min.Z {
			t.Fatalf("trial %d: padded min %+v exceeds true min %+v", trial, fixed.Min, raw.Min)
		}
		if paddedMax.X < trueMax.X || paddedMax.Y < trueMax.Y || paddedMax.Z < trueMax.Z {
			t.Fatalf("trial %d: padded max %+v below true max %+v", trial, paddedMax, trueMax)
		}
	}
}

func TestNormalizeDenormalizeRoundTrip(t *testing.T) {
	r := trackstore.Range{Min: math.Vector3{X: -2, Y: 0, Z: 10}, Extent: math.Vector3{X: 4, Y: 1, Z: 5}}
	sample := math.Vector3{X: 0, Y: 0.5, Z: 12.5}
	n := Normalize(sample, r)
	got := Denormalize(n, r)
	const tol = 1e-9
	if absf(got.X-sample.X) > tol || absf(got.Y-sample.Y) > tol || absf(got.Z-sample.Z) > tol {
		t.Errorf("round trip %v != %v", got, sample)
	}
}

func TestNormalizeZeroExtentYieldsZero(t *testing.T) {
	r := trackstore.Range{Min: math.Vector3{X: 5}, Extent: math.Vector3{X: 0}}
	got := Normalize(math.Vector3{X: 5}, r)
	if got.X != 0 {
		t.Errorf("Normalize with zero extent = %v, want 0", got.X)
	}
}

func TestNormalizeClampsRoundingOvershoot(t *testing.T) {
	r := trackstore.Range{Min: math.Vector3{X: 0}, Extent: math.Vector3{X: 1}}
	got := Normalize(math.Vector3{X: 1.0000001}, r)
	if got.X > 1 {
		t.Errorf("Normalize did not clamp: got %v", got.X)
	}
}

func absf(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
