/*
NAME
  config.go

DESCRIPTION
  config.go reads and writes container/acl.Config as SJSON, the
  schema cmd/aclc's -config flag loads an override from:

    config = {
      segment_ideal = 16
      segment_max = 31
      max_iterations = 64
      rotation_format = "quat_nlerp"
      constant_rotation_threshold = 0.001
      constant_translation_threshold = 0.001
      constant_scale_threshold = 0.001
    }

LICENSE
  Copyright (C) 2026 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package sjson

import (
	"github.com/ausocean/acl/constant"
	"github.com/ausocean/acl/container/acl"
	"github.com/ausocean/acl/errclass"
	"github.com/ausocean/acl/format"
)

// ReadConfig parses an SJSON Config override document. Any field
// absent from the document falls back to acl.DefaultConfig's value.
func ReadConfig(buf []byte) (*acl.Config, error) {
	r := NewReader(buf)
	if err := r.NamedObjectBegins("config"); err != nil {
		return nil, err
	}

	def := acl.DefaultConfig()
	cfg := def
	cfg.SegmentIdeal = int(r.TryFloat("segment_ideal", float64(def.SegmentIdeal)))
	cfg.SegmentMax = int(r.TryFloat("segment_max", float64(def.SegmentMax)))
	cfg.MaxIterations = int(r.TryFloat("max_iterations", float64(def.MaxIterations)))
	formatName := r.TryString("rotation_format", rotationFormatName(def.RotationFormat))
	rf, ok := parseRotationFormat(formatName)
	if !ok {
		return nil, errclass.Errorf(errclass.InvalidFormat, "sjson: unknown rotation_format %q", formatName)
	}
	cfg.RotationFormat = rf
	cfg.ConstantThresholds = constant.Thresholds{
		Rotation:    r.TryFloat("constant_rotation_threshold", def.ConstantThresholds.Rotation),
		Translation: r.TryFloat("constant_translation_threshold", def.ConstantThresholds.Translation),
		Scale:       r.TryFloat("constant_scale_threshold", def.ConstantThresholds.Scale),
	}

	if err := r.ObjectEnds(); err != nil {
		return nil, err
	}
	if err := r.Remainder(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// WriteConfig serializes cfg in the schema ReadConfig parses.
func WriteConfig(cfg acl.Config) []byte {
	w := NewWriter()
	w.Object("config", func(w *Writer) {
		w.Int("segment_ideal", int64(cfg.SegmentIdeal))
		w.Int("segment_max", int64(cfg.SegmentMax))
		w.Int("max_iterations", int64(cfg.MaxIterations))
		w.String("rotation_format", rotationFormatName(cfg.RotationFormat))
		w.Float("constant_rotation_threshold", cfg.ConstantThresholds.Rotation)
		w.Float("constant_translation_threshold", cfg.ConstantThresholds.Translation)
		w.Float("constant_scale_threshold", cfg.ConstantThresholds.Scale)
	})
	return w.Bytes()
}

func rotationFormatName(f format.RotationFormat) string {
	switch f {
	case format.RotationFormatQuatNlerp:
		return "quat_nlerp"
	case format.RotationFormatQuatSlerp:
		return "quat_slerp"
	case format.RotationFormatRaw:
		return "raw"
	default:
		return "unknown"
	}
}

func parseRotationFormat(s string) (format.RotationFormat, bool) {
	switch s {
	case "quat_nlerp":
		return format.RotationFormatQuatNlerp, true
	case "quat_slerp":
		return format.RotationFormatQuatSlerp, true
	case "raw":
		return format.RotationFormatRaw, true
	default:
		return 0, false
	}
}
