/*
NAME
  constant.go

DESCRIPTION
  Provides constant-track compaction: detecting bone channels whose
  samples vary by less than a per-channel threshold across their
  whole extent and collapsing them to a single stored sample, plus
  default-value detection so a constant track matching the channel's
  neutral value can be dropped from the bitstream entirely.

LICENSE
  Copyright (C) 2026 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package constant detects and compacts bone channels that do not
// vary enough across a clip (or segment) to be worth animating,
// shrinking them to their first sample and flagging channels that
// additionally match their neutral (identity/zero/one) value so the
// encoder can skip storing them at all.
package constant

import (
	"github.com/ausocean/acl/math"
	"github.com/ausocean/acl/trackstore"
)

// Thresholds holds the per-channel extent thresholds below which a
// track is considered constant.
type Thresholds struct {
	// Rotation is a geodesic angle, in radians.
	Rotation float64
	// Translation and Scale are per-component absolute differences, in
	// clip units.
	Translation float64
	Scale       float64
}

// DefaultThresholds matches the reference implementation's built-in
// constants: 1e-5 for rotation and scale, 1e-3 for translation
// (translation tolerates more slack since clip units are typically
// much larger than a unit quaternion's component range).
var DefaultThresholds = Thresholds{
	Rotation:    1e-5,
	Translation: 1e-3,
	Scale:       1e-5,
}

// BoneResult records, per bone, whether each channel was compacted and
// whether the compacted value matches the channel's neutral default.
type BoneResult struct {
	RotationConstant    bool
	RotationDefault     bool
	TranslationConstant bool
	TranslationDefault  bool
	ScaleConstant       bool
	ScaleDefault        bool
}

// Compact scans every bone in store and, for each channel whose
// samples all lie within t of the first sample, truncates that
// channel's track to a single sample. It returns one BoneResult per
// bone, indicating which channels were compacted and which of those
// additionally match the channel's neutral value (identity rotation,
// zero translation, unit scale) and so carry no information at all.
func Compact(store *trackstore.Store, t Thresholds) []BoneResult {
	results := make([]BoneResult, store.NumBones())
	for i := range store.Bones {
		results[i] = compactBone(&store.Bones[i], t)
	}
	return results
}

func compactBone(bone *trackstore.BoneStream, t Thresholds) BoneResult {
	var res BoneResult

	if isRotationConstant(bone.Rotations, t.Rotation) {
		first := bone.Rotations[0]
		bone.Rotations = bone.Rotations[:1]
		bone.Rotations[0] = first
		res.RotationConstant = true
		res.RotationDefault = math.NearEqualQuaternion(first, math.IdentityQuaternion, t.Rotation)
	}

	if isVectorConstant(bone.Translations, t.Translation) {
		first := bone.Translations[0]
		bone.Translations = bone.Translations[:1]
		bone.Translations[0] = first
		res.TranslationConstant = true
		res.TranslationDefault = math.NearEqualVector3(first, math.ZeroVector, t.Translation)
	}

	if isVectorConstant(bone.Scales, t.Scale) {
		first := bone.Scales[0]
		bone.Scales = bone.Scales[:1]
		bone.Scales[0] = first
		res.ScaleConstant = true
		res.ScaleDefault = math.NearEqualVector3(first, math.OneVector, t.Scale)
	}

	return res
}

func isRotationConstant(track []math.Quaternion, threshold float64) bool {
	if len(track) <= 1 {
		return true
	}
	first := track[0]
	for _, q := range track[1:] {
		if !math.NearEqualQuaternion(first, q, threshold) {
			return false
		}
	}
	return true
}

func isVectorConstant(track []math.Vector3, threshold float64) bool {
	if len(track) <= 1 {
		return true
	}
	first := track[0]
	for _, v := range track[1:] {
		if !math.NearEqualVector3(first, v, threshold) {
			return false
		}
	}
	return true
}
