/*
NAME
  level_test.go

LICENSE
  Copyright (C) 2026 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package acl

import "testing"

func TestParseLevelRoundTrip(t *testing.T) {
	for _, want := range AllLevels {
		lv, ok := ParseLevel(want.String())
		if !ok || lv != want {
			t.Fatalf("ParseLevel(%q): got %v, %v, want %v, true", want.String(), lv, ok, want)
		}
	}
}

func TestParseLevelUnknown(t *testing.T) {
	if _, ok := ParseLevel("extreme"); ok {
		t.Fatal("expected ParseLevel to reject an unknown level")
	}
}

func TestLevelConfigIterationBudgetIncreases(t *testing.T) {
	var last int
	for i, lv := range AllLevels {
		cfg := lv.Config()
		if i > 0 && cfg.MaxIterations < last {
			t.Fatalf("%v: MaxIterations %d is less than the previous level's %d", lv, cfg.MaxIterations, last)
		}
		last = cfg.MaxIterations
	}
}

func TestLevelConfigMediumMatchesDefault(t *testing.T) {
	def := DefaultConfig()
	med := LevelMedium.Config()
	if med != def {
		t.Fatalf("LevelMedium.Config() = %+v, want DefaultConfig() = %+v", med, def)
	}
}

func TestLevelConfigHighTightensConstantThresholds(t *testing.T) {
	def := DefaultConfig()
	high := LevelHigh.Config()
	if high.ConstantThresholds.Rotation >= def.ConstantThresholds.Rotation {
		t.Fatalf("LevelHigh rotation threshold %v not tighter than default %v", high.ConstantThresholds.Rotation, def.ConstantThresholds.Rotation)
	}
}
