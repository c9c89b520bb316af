/*
NAME
  constant_test.go

DESCRIPTION
  constant_test.go contains tests for functionality found in
  constant.go.

LICENSE
  Copyright (C) 2026 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package constant

import (
	"testing"

	"github.com/ausocean/acl/math"
	"github.com/ausocean/acl/trackstore"
)

func TestCompactCollapsesNearConstantTranslation(t *testing.T) {
	store := trackstore.New(1, 5)
	for i := range store.Bones[0].Translations {
		store.Bones[0].Translations[i] = math.Vector3{X: 1, Y: 2, Z: 3}
	}
	results := Compact(store, DefaultThresholds)
	if !results[0].TranslationConstant {
		t.Error("expected translation track to compact")
	}
	if len(store.Bones[0].Translations) != 1 {
		t.Fatalf("translation track length = %d, want 1", len(store.Bones[0].Translations))
	}
	if store.Bones[0].Translations[0] != (math.Vector3{X: 1, Y: 2, Z: 3}) {
		t.Errorf("compacted sample = %v, want {1,2,3}", store.Bones[0].Translations[0])
	}
}

func TestCompactDetectsDefaultValue(t *testing.T) {
	store := trackstore.New(1, 3) // defaults to identity/zero/one everywhere
	results := Compact(store, DefaultThresholds)
	if !results[0].RotationConstant || !results[0].RotationDefault {
		t.Error("expected identity rotation track to be constant and default")
	}
	if !results[0].TranslationConstant || !results[0].TranslationDefault {
		t.Error("expected zero translation track to be constant and default")
	}
	if !results[0].ScaleConstant || !results[0].ScaleDefault {
		t.Error("expected unit scale track to be constant and default")
	}
}

func TestCompactLeavesVaryingTrackAlone(t *testing.T) {
	store := trackstore.New(1, 4)
	store.Bones[0].Translations[0] = math.Vector3{X: 0}
	store.Bones[0].Translations[1] = math.Vector3{X: 10}
	store.Bones[0].Translations[2] = math.Vector3{X: 20}
	store.Bones[0].Translations[3] = math.Vector3{X: 30}

	results := Compact(store, DefaultThresholds)
	if results[0].TranslationConstant {
		t.Error("expected varying translation track to remain animated")
	}
	if len(store.Bones[0].Translations) != 4 {
		t.Errorf("track length changed unexpectedly: %d", len(store.Bones[0].Translations))
	}
}

func TestCompactNonDefaultConstant(t *testing.T) {
	store := trackstore.New(1, 3)
	for i := range store.Bones[0].Scales {
		store.Bones[0].Scales[i] = math.Vector3{X: 2, Y: 2, Z: 2}
	}
	results := Compact(store, DefaultThresholds)
	if !results[0].ScaleConstant {
		t.Fatal("expected constant scale track")
	}
	if results[0].ScaleDefault {
		t.Error("scale of 2 should not be detected as the default (unit) scale")
	}
}
