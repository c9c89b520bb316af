/*
NAME
  errormetric_test.go

DESCRIPTION
  errormetric_test.go contains tests for functionality found in
  errormetric.go.

LICENSE
  Copyright (C) 2026 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package errormetric

import (
	"math"
	"testing"

	aclmath "github.com/ausocean/acl/math"
	"github.com/ausocean/acl/skeleton"
)

func TestMeasureIdenticalPosesHaveZeroError(t *testing.T) {
	skel := skeleton.New([]skeleton.Bone{{ParentIndex: skeleton.NoParent, VertexDistance: 1}})
	m := New(skel)
	pose := []aclmath.Transform{aclmath.IdentityTransform}
	err, measureErr := m.Measure(pose, pose)
	if measureErr != nil {
		t.Fatalf("Measure: %v", measureErr)
	}
	if err != 0 {
		t.Errorf("identical poses: error = %v, want 0", err)
	}
}

func TestMeasureDetectsRotationError(t *testing.T) {
	skel := skeleton.New([]skeleton.Bone{{ParentIndex: skeleton.NoParent, VertexDistance: 2}})
	m := New(skel)
	raw := []aclmath.Transform{aclmath.IdentityTransform}
	lossy := []aclmath.Transform{{
		Rotation: aclmath.AngleAxis(math.Pi/2, aclmath.Vector3{Z: 1}),
		Scale:    aclmath.OneVector,
	}}
	got, measureErr := m.Measure(raw, lossy)
	if measureErr != nil {
		t.Fatalf("Measure: %v", measureErr)
	}
	if got <= 0 {
		t.Errorf("expected positive error for a 90 degree rotation, got %v", got)
	}
}

func TestMeasureRejectsLengthMismatch(t *testing.T) {
	skel := skeleton.New([]skeleton.Bone{{ParentIndex: skeleton.NoParent}, {ParentIndex: 0}})
	m := New(skel)
	_, err := m.Measure([]aclmath.Transform{aclmath.IdentityTransform}, []aclmath.Transform{aclmath.IdentityTransform, aclmath.IdentityTransform})
	if err == nil {
		t.Error("expected error for pose length mismatch")
	}
}

func TestComposeAdditiveRelative(t *testing.T) {
	base := []aclmath.Transform{{
		Rotation:    aclmath.IdentityQuaternion,
		Translation: aclmath.Vector3{X: 10},
		Scale:       aclmath.OneVector,
	}}
	delta := []aclmath.Transform{{
		Rotation:    aclmath.IdentityQuaternion,
		Translation: aclmath.Vector3{X: 1},
		Scale:       aclmath.OneVector,
	}}
	out := ComposeAdditive(AdditiveRelative, base, delta)
	if out[0].Translation.X != 11 {
		t.Errorf("composed translation.X = %v, want 11", out[0].Translation.X)
	}
}

func TestComposeAdditiveNoneIgnoresBase(t *testing.T) {
	delta := []aclmath.Transform{aclmath.IdentityTransform}
	out := ComposeAdditive(AdditiveNone, nil, delta)
	if &out[0] != &delta[0] && out[0] != delta[0] {
		t.Errorf("AdditiveNone should return delta unchanged")
	}
}
