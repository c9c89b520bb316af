/*
NAME
  level.go

DESCRIPTION
  level.go defines Level, the five named compression presets cmd/aclc's
  -level flag selects between, and their mapping to a Config.

LICENSE
  Copyright (C) 2026 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package acl

import "github.com/ausocean/acl/constant"

// Level names a compression preset, trading search effort for
// compressed size and speed.
type Level int

const (
	LevelLowest Level = iota
	LevelLow
	LevelMedium
	LevelHigh
	LevelHighest
)

// String returns the flag-facing spelling of l.
func (l Level) String() string {
	switch l {
	case LevelLowest:
		return "lowest"
	case LevelLow:
		return "low"
	case LevelMedium:
		return "medium"
	case LevelHigh:
		return "high"
	case LevelHighest:
		return "highest"
	default:
		return "unknown"
	}
}

// ParseLevel parses the -level flag's spelling, reporting false for
// anything else.
func ParseLevel(s string) (Level, bool) {
	switch s {
	case "lowest":
		return LevelLowest, true
	case "low":
		return LevelLow, true
	case "medium":
		return LevelMedium, true
	case "high":
		return LevelHigh, true
	case "highest":
		return LevelHighest, true
	default:
		return 0, false
	}
}

// AllLevels lists every Level in ascending order, the sweep order for
// cmd/aclc's -exhaustive flag.
var AllLevels = []Level{LevelLowest, LevelLow, LevelMedium, LevelHigh, LevelHighest}

// Config returns the Config preset for l. Lowest and Low use a smaller
// iteration budget than Medium, DefaultConfig's own preset; High and
// Highest progressively raise the iteration budget and tighten
// constant thresholds, trading compression time for ratio and
// accuracy.
func (l Level) Config() Config {
	cfg := DefaultConfig()
	switch l {
	case LevelLowest:
		cfg.MaxIterations = 16
	case LevelLow:
		cfg.MaxIterations = 32
	case LevelMedium:
		// DefaultConfig's own preset.
	case LevelHigh:
		cfg.MaxIterations = 128
		cfg.ConstantThresholds = constant.Thresholds{
			Rotation:    constant.DefaultThresholds.Rotation / 10,
			Translation: constant.DefaultThresholds.Translation / 10,
			Scale:       constant.DefaultThresholds.Scale / 10,
		}
	case LevelHighest:
		cfg.MaxIterations = 256
		cfg.ConstantThresholds = constant.Thresholds{
			Rotation:    constant.DefaultThresholds.Rotation / 100,
			Translation: constant.DefaultThresholds.Translation / 100,
			Scale:       constant.DefaultThresholds.Scale / 100,
		}
	}
	return cfg
}
