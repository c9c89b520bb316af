/*
NAME
  bitrate.go

DESCRIPTION
  Provides the variable-bit-rate hill-climb optimizer: starting every
  animated track at the lowest bit rate, repeatedly find the first
  bone whose pose error exceeds the clip's threshold, walk its
  ancestor chain scoring which single track's precision bump would
  reduce that error the most, and apply it, until the clip is within
  budget or no further improvement is possible.

LICENSE
  Copyright (C) 2026 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package bitrate implements the variable bit-rate search that
// assigns each animated bone channel the smallest per-component
// sample width the clip's error budget allows, trading bitstream size
// against fidelity one bone at a time, root first.
package bitrate

import (
	gomath "math"

	"gonum.org/v1/gonum/stat"

	"github.com/ausocean/acl/errormetric"
	"github.com/ausocean/acl/math"
	"github.com/ausocean/acl/pack"
	"github.com/ausocean/acl/rangereduce"
	"github.com/ausocean/acl/skeleton"
	"github.com/ausocean/acl/trackstore"
)

// channelKind names which of a bone's three tracks a candidate
// upgrade targets.
type channelKind int

const (
	rotationChannel channelKind = iota
	translationChannel
	scaleChannel
)

// Rates holds the current bit-rate index (see pack.BitRateTable) for
// every bone's three channels. A channel whose track was already
// compacted to a single constant sample has no meaningful rate and is
// left at pack.InvalidBitRate.
type Rates struct {
	Rotation    []uint
	Translation []uint
	Scale       []uint
}

// newRates initializes every animated (len>1) channel to the lowest
// bit rate and every constant or unanimated channel to
// pack.InvalidBitRate, which the optimizer never selects for upgrade.
func newRates(store *trackstore.Store) *Rates {
	n := store.NumBones()
	r := &Rates{
		Rotation:    make([]uint, n),
		Translation: make([]uint, n),
		Scale:       make([]uint, n),
	}
	for i, bone := range store.Bones {
		r.Rotation[i] = initialRate(len(bone.Rotations))
		r.Translation[i] = initialRate(len(bone.Translations))
		r.Scale[i] = initialRate(len(bone.Scales))
	}
	return r
}

func initialRate(numSamples int) uint {
	if numSamples <= 1 {
		return pack.InvalidBitRate
	}
	return pack.LowestBitRate
}

// Report summarizes an optimization run for diagnostics.
type Report struct {
	Iterations int
	// FinalError is the largest per-sample error of the last scan when
	// the search converged, or the error of the over-threshold bone the
	// last scan found when maxIterations ended the search first.
	FinalError  float64
	MeanError   float64
	LockedBones int
}

// scratch holds every buffer Optimize needs across its iterations, so
// a single Optimize call allocates them once rather than once per
// iteration.
type scratch struct {
	rawObject   []math.Transform
	lossyObject []math.Transform
	probeObject []math.Transform
	rawLocal    []math.Transform
	lossyLocal  []math.Transform
	probeLocal  []math.Transform
	errorPerBone []float64
}

func newScratch(numBones int) *scratch {
	return &scratch{
		rawObject:    make([]math.Transform, numBones),
		lossyObject:  make([]math.Transform, numBones),
		probeObject:  make([]math.Transform, numBones),
		rawLocal:     make([]math.Transform, numBones),
		lossyLocal:   make([]math.Transform, numBones),
		probeLocal:   make([]math.Transform, numBones),
		errorPerBone: make([]float64, numBones),
	}
}

// Optimize assigns every animated bone channel in store the lowest bit
// rate that keeps the clip's worst-case shell-distance error at or
// below errorThreshold, using ranges (one trackstore.Range per bone
// per channel, mapping a real-unit sample into [0,1]) to reconstruct each
// quantization candidate's real-unit value. It returns the final
// rates and a short diagnostic report. maxIterations bounds the
// search as a safety net against a clip whose error threshold can
// never be satisfied; reaching it is not an error, just an early
// stop, reflected in the report's FinalError.
func Optimize(store *trackstore.Store, ranges [][3]trackstore.Range, skel *skeleton.Skeleton, errorThreshold float64, maxIterations int) (*Rates, *Report, error) {
	rates := newRates(store)
	locked := make([]bool, store.NumBones())
	sc := newScratch(store.NumBones())

	var perSampleErrors []float64
	iterations := 0
	finalError := gomath.Inf(1)

	for ; iterations < maxIterations; iterations++ {
		badBone, worstError, sampleIndex, sampleErrors := findWorstBone(store, ranges, rates, skel, sc, locked, errorThreshold)
		perSampleErrors = sampleErrors
		finalError = worstError
		if badBone < 0 {
			// The scan reached every sample, so its per-sample worst
			// errors cover the whole window.
			finalError = 0
			for _, e := range sampleErrors {
				finalError = gomath.Max(finalError, e)
			}
			break // every sample is within budget.
		}

		targetBone, targetChannel, improved := chooseUpgrade(store, ranges, rates, skel, sc, badBone, sampleIndex)
		if !improved {
			locked[badBone] = true
			continue
		}
		bumpRate(rates, targetBone, targetChannel)
	}

	report := &Report{
		Iterations: iterations,
		FinalError: finalError,
		LockedBones: countLocked(locked),
	}
	if len(perSampleErrors) > 0 {
		report.MeanError = stat.Mean(perSampleErrors, nil)
	}
	return rates, report, nil
}

func countLocked(locked []bool) int {
	n := 0
	for _, l := range locked {
		if l {
			n++
		}
	}
	return n
}

// findWorstBone scans samples lowest index first and, within each
// sample, every bone root-first, returning the first bone whose error
// exceeds errorThreshold and is not locked; the scan stops at the
// first sample that has such a bone. It also returns the per-sample
// worst-bone-error series for the samples it scanned (every sample
// when no bone is returned), used for the report's error statistics.
func findWorstBone(store *trackstore.Store, ranges [][3]trackstore.Range, rates *Rates, skel *skeleton.Skeleton, sc *scratch, locked []bool, errorThreshold float64) (badBone int, worstError float64, sampleIndex int, perSampleErrors []float64) {
	badBone = -1
	worstError = 0
	perSampleErrors = make([]float64, 0, store.NumSamples)

	for j := 0; j < store.NumSamples; j++ {
		buildLocalPose(store, ranges, rates, sc.rawLocal, sc.lossyLocal, j, true)
		math.LocalToObjectSpace(sc.rawLocal, skel.Parent, sc.rawObject)
		math.LocalToObjectSpace(sc.lossyLocal, skel.Parent, sc.lossyObject)

		sampleWorst := 0.0
		sampleBad := -1
		for i, bone := range skel.Bones {
			e := errormetric.MeasureBone(sc.rawObject[i], sc.lossyObject[i], bone.VertexDistance)
			sc.errorPerBone[i] = e
			if e > sampleWorst {
				sampleWorst = e
			}
			if sampleBad < 0 && e > errorThreshold && !locked[i] {
				sampleBad = i
			}
		}
		perSampleErrors = append(perSampleErrors, sampleWorst)

		if sampleBad >= 0 && sc.errorPerBone[sampleBad] > worstError {
			worstError = sc.errorPerBone[sampleBad]
			badBone = sampleBad
			sampleIndex = j
		}
		if badBone >= 0 {
			break // matches the reference's "stop at the first sample with a bad bone" policy.
		}
	}
	return badBone, worstError, sampleIndex, perSampleErrors
}

// chooseUpgrade walks badBone's ancestor chain from the root down to
// badBone, scoring each channel that can still be upgraded by how much
// isolating it at full precision would have reduced badBone's error at
// sampleIndex, and returns whichever channel scores highest. Scoring
// uses a strict greater-than comparison, so ties keep the candidate
// evaluated first: the bone nearest the root, and within a bone
// rotation over translation over scale.
func chooseUpgrade(store *trackstore.Store, ranges [][3]trackstore.Range, rates *Rates, skel *skeleton.Skeleton, sc *scratch, badBone, sampleIndex int) (targetBone int, targetChannel channelKind, improved bool) {
	buildLocalPose(store, ranges, rates, sc.rawLocal, sc.lossyLocal, sampleIndex, true)
	math.LocalToObjectSpace(sc.rawLocal, skel.Parent, sc.rawObject)
	math.LocalToObjectSpace(sc.lossyLocal, skel.Parent, sc.lossyObject)

	targetBone = -1
	worstTrackError := 0.0

	chain := skel.AncestorChain(badBone)
	for k := len(chain) - 1; k >= 0; k-- {
		bone := chain[k]
		if canUpgrade(store, rates, bone, rotationChannel) {
			contribution := isolateContribution(store, ranges, rates, skel, sc, bone, badBone, sampleIndex, rotationChannel)
			if contribution > worstTrackError {
				worstTrackError = contribution
				targetBone = bone
				targetChannel = rotationChannel
			}
		}
		if canUpgrade(store, rates, bone, translationChannel) {
			contribution := isolateContribution(store, ranges, rates, skel, sc, bone, badBone, sampleIndex, translationChannel)
			if contribution > worstTrackError {
				worstTrackError = contribution
				targetBone = bone
				targetChannel = translationChannel
			}
		}
		if canUpgrade(store, rates, bone, scaleChannel) {
			contribution := isolateContribution(store, ranges, rates, skel, sc, bone, badBone, sampleIndex, scaleChannel)
			if contribution > worstTrackError {
				worstTrackError = contribution
				targetBone = bone
				targetChannel = scaleChannel
			}
		}
	}

	return targetBone, targetChannel, targetBone >= 0
}

func canUpgrade(store *trackstore.Store, rates *Rates, bone int, ch channelKind) bool {
	rate := rateOf(rates, bone, ch)
	if rate == pack.InvalidBitRate {
		return false
	}
	return rate < pack.HighestBitRate
}

func rateOf(rates *Rates, bone int, ch channelKind) uint {
	switch ch {
	case rotationChannel:
		return rates.Rotation[bone]
	case translationChannel:
		return rates.Translation[bone]
	default:
		return rates.Scale[bone]
	}
}

func bumpRate(rates *Rates, bone int, ch channelKind) {
	switch ch {
	case rotationChannel:
		rates.Rotation[bone]++
	case translationChannel:
		rates.Translation[bone]++
	case scaleChannel:
		rates.Scale[bone]++
	}
}

// isolateContribution measures how much of badBone's error, at
// sampleIndex, is attributable to channel ch of bone, by rebuilding
// the lossy pose with every channel at its current quantized
// precision except ch of bone, which is set to its exact raw value,
// then comparing that probe's error at badBone against the fully
// lossy error. The difference is how much error upgrading this one
// channel alone would remove.
func isolateContribution(store *trackstore.Store, ranges [][3]trackstore.Range, rates *Rates, skel *skeleton.Skeleton, sc *scratch, bone, badBone, sampleIndex int, ch channelKind) float64 {
	buildLocalPose(store, ranges, rates, sc.rawLocal, sc.probeLocal, sampleIndex, true)
	switch ch {
	case rotationChannel:
		sc.probeLocal[bone].Rotation = sc.rawLocal[bone].Rotation
	case translationChannel:
		sc.probeLocal[bone].Translation = sc.rawLocal[bone].Translation
	case scaleChannel:
		sc.probeLocal[bone].Scale = sc.rawLocal[bone].Scale
	}

	math.LocalToObjectSpace(sc.rawLocal, skel.Parent, sc.rawObject)
	math.LocalToObjectSpace(sc.lossyLocal, skel.Parent, sc.lossyObject)
	math.LocalToObjectSpace(sc.probeLocal, skel.Parent, sc.probeObject)

	lossyError := errormetric.MeasureBone(sc.rawObject[badBone], sc.lossyObject[badBone], skel.Bones[badBone].VertexDistance)
	probeError := errormetric.MeasureBone(sc.rawObject[badBone], sc.probeObject[badBone], skel.Bones[badBone].VertexDistance)
	contribution := lossyError - probeError
	if contribution < 0 {
		return 0
	}
	return contribution
}

// buildLocalPose fills raw with the exact sample at sampleIndex for
// every bone and channel and, when lossyOnly is true, also fills lossy
// with the quantized reconstruction of the same sample at the current
// rates (raw is populated either way; the isolate-contribution probe
// needs it as a base to copy from). When lossyOnly is false, lossy is
// left untouched.
func buildLocalPose(store *trackstore.Store, ranges [][3]trackstore.Range, rates *Rates, raw, lossy []math.Transform, sampleIndex int, lossyOnly bool) {
	for i, bone := range store.Bones {
		rawQ := sampleQuat(bone.Rotations, sampleIndex)
		rawT := sampleVec(bone.Translations, sampleIndex, math.ZeroVector)
		rawS := sampleVec(bone.Scales, sampleIndex, math.OneVector)
		raw[i] = math.Transform{Rotation: rawQ, Translation: rawT, Scale: rawS}

		if !lossyOnly {
			continue
		}
		lossy[i] = math.Transform{
			Rotation:    quantizeRotation(rawQ, ranges[i][trackstore.Rotation], rates.Rotation[i]),
			Translation: quantizeVector(rawT, ranges[i][trackstore.Translation], rates.Translation[i]),
			Scale:       quantizeVector(rawS, ranges[i][trackstore.Scale], rates.Scale[i]),
		}
	}
}

func sampleQuat(track []math.Quaternion, i int) math.Quaternion {
	if len(track) <= 1 {
		if len(track) == 1 {
			return track[0]
		}
		return math.IdentityQuaternion
	}
	return track[i]
}

func sampleVec(track []math.Vector3, i int, def math.Vector3) math.Vector3 {
	if len(track) <= 1 {
		if len(track) == 1 {
			return track[0]
		}
		return def
	}
	return track[i]
}

// quantizeVector simulates a round trip through the bit-packed wire
// format for a single sample: normalize against r, quantize each
// component to rate's bit width, and denormalize back to real units.
// An invalid (constant) or raw rate returns the exact value unchanged.
func quantizeVector(v math.Vector3, r trackstore.Range, rate uint) math.Vector3 {
	if !canQuantize(rate) {
		return v
	}
	n := pack.NumBits(rate)
	normalized := rangereduce.Normalize(v, r)
	quantized := math.Vector3{
		X: pack.UnpackScalar(pack.PackScalar(normalized.X, n), n),
		Y: pack.UnpackScalar(pack.PackScalar(normalized.Y, n), n),
		Z: pack.UnpackScalar(pack.PackScalar(normalized.Z, n), n),
	}
	return rangereduce.Denormalize(quantized, r)
}

// quantizeRotation quantizes q's drop-w (x, y, z) components the same
// way quantizeVector does, then reconstructs w assuming the track
// stays on the non-negative hemisphere after trackstore's
// double-cover fold (see trackstore.FoldRotationTrack), matching the
// wire decoder's own reconstruction.
func quantizeRotation(q math.Quaternion, r trackstore.Range, rate uint) math.Quaternion {
	v := math.Vector3{X: q.Imag, Y: q.Jmag, Z: q.Kmag}
	qv := quantizeVector(v, r, rate)
	wSq := 1 - qv.X*qv.X - qv.Y*qv.Y - qv.Z*qv.Z
	if wSq < 0 {
		wSq = 0
	}
	return math.Quaternion{Real: gomath.Sqrt(wSq), Imag: qv.X, Jmag: qv.Y, Kmag: qv.Z}
}

func canQuantize(rate uint) bool {
	return rate != pack.InvalidBitRate && !pack.IsRawBitRate(rate)
}
