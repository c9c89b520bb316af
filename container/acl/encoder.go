/*
NAME
  encoder.go

DESCRIPTION
  encoder.go implements Encode: the full compression pipeline from a
  clip.AnimationClip to a self-describing compressed buffer, per
  package format's layout. It stages the clip into a trackstore,
  compacts constant channels, extracts the clip-wide range of every
  animated channel, splits the clip into segments, runs the bit-rate
  optimizer on each segment against the composed clip+segment range,
  and finally packs every block of the wire layout.

LICENSE
  Copyright (C) 2026 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package acl

import (
	gomath "math"

	"encoding/binary"

	"github.com/pkg/errors"

	"github.com/ausocean/acl/bitrate"
	"github.com/ausocean/acl/bits"
	"github.com/ausocean/acl/clip"
	"github.com/ausocean/acl/constant"
	"github.com/ausocean/acl/errclass"
	"github.com/ausocean/acl/format"
	aclmath "github.com/ausocean/acl/math"
	"github.com/ausocean/acl/pack"
	"github.com/ausocean/acl/rangereduce"
	"github.com/ausocean/acl/segment"
	"github.com/ausocean/acl/trackstore"
)

// algorithmVersion is stamped into every buffer this encoder produces;
// bumped whenever a wire-incompatible change is made to how a block is
// packed.
const algorithmVersion = 1

// allChannelsRangeReduced is the clip/segment range-reduction flag
// byte this encoder always stamps: every animated channel (rotation,
// translation, scale) goes through range reduction. The field exists
// in the header for a future encoder that might range-reduce only a
// subset of channels; this one never does, so the decoder does not
// inspect it.
const allChannelsRangeReduced = 0x7

// animatedSlot names one animated (bone, channel) pair, in the fixed
// bone-major, channel-major order every per-segment and clip-wide
// block shares.
type animatedSlot struct {
	bone int
	ch   format.Channel
}

// Encode compresses c into a self-describing buffer. c is baked from
// additive to absolute form first if it has an additive base; the
// wire format has no additive concept of its own.
func Encode(c *clip.AnimationClip, cfg Config) ([]byte, *Report, error) {
	if err := c.Validate(); err != nil {
		return nil, nil, errors.Wrap(err, "acl: invalid clip")
	}
	if cfg.RotationFormat == format.RotationFormatRaw {
		return nil, nil, errclass.Errorf(errclass.InvalidConfig, "acl: raw rotation format is not supported by this encoder")
	}
	baked, err := bakeAdditive(c)
	if err != nil {
		return nil, nil, err
	}

	store, err := trackstore.FromClip(baked)
	if err != nil {
		return nil, nil, errors.Wrap(err, "acl: staging trackstore")
	}
	numBones := store.NumBones()

	results := constant.Compact(store, cfg.ConstantThresholds)
	plans, hasScale := planChannels(results)
	channelsPerBone := format.ChannelsPerBone(hasScale)

	var animatedTracks, constantSlots []animatedSlot
	anyDefault := false
	for i := 0; i < numBones; i++ {
		for c := 0; c < channelsPerBone; c++ {
			ch := format.Channel(c)
			p := plans[i][ch]
			switch {
			case p.isDefault:
				anyDefault = true
			case p.isConstant:
				constantSlots = append(constantSlots, animatedSlot{i, ch})
			default:
				animatedTracks = append(animatedTracks, animatedSlot{i, ch})
			}
		}
	}
	anyConstant := len(constantSlots) > 0

	clipRanges := make([][3]trackstore.Range, numBones)
	for _, s := range animatedTracks {
		clipRanges[s.bone][s.ch] = store.Range(s.bone, trackstore.Channel(s.ch))
	}

	minThreshold := gomath.Inf(1)
	for i := 0; i < numBones; i++ {
		if t := baked.Threshold(i); t < minThreshold {
			minThreshold = t
		}
	}

	segmenter := segment.Segmenter{Ideal: cfg.SegmentIdeal, Max: cfg.SegmentMax}
	segs, err := segmenter.Split(store.NumSamples)
	if err != nil {
		return nil, nil, errors.Wrap(err, "acl: segmenting clip")
	}

	type segPlan struct {
		seg           segment.Segment
		windows       []segment.BoneWindow
		rates         *bitrate.Rates
		report        *bitrate.Report
		segRanges     [][3]trackstore.Range
		effRanges     [][3]trackstore.Range
	}
	segPlans := make([]segPlan, len(segs))

	for si, seg := range segs {
		windows := segment.Materialize(store, seg)
		segStore := trackstore.New(numBones, seg.NumSamples)
		for i, w := range windows {
			segStore.Bones[i] = trackstore.BoneStream{
				Rotations:    w.Rotations,
				Translations: w.Translations,
				Scales:       w.Scales,
			}
		}

		segRanges := make([][3]trackstore.Range, numBones)
		effRanges := make([][3]trackstore.Range, numBones)
		for _, s := range animatedTracks {
			realTrack := windowTrack(windows[s.bone], s.ch)
			clipSpace := make([]aclmath.Vector3, len(realTrack))
			for k, v := range realTrack {
				clipSpace[k] = rangereduce.Normalize(v, clipRanges[s.bone][s.ch])
			}
			segRanges[s.bone][s.ch] = rangereduce.FixupRange(rangereduce.ExtractRange(clipSpace))
			effRanges[s.bone][s.ch] = composeRange(clipRanges[s.bone][s.ch], segRanges[s.bone][s.ch])
		}

		rates, report, err := bitrate.Optimize(segStore, effRanges, baked.Skeleton, minThreshold, cfg.MaxIterations)
		if err != nil {
			return nil, nil, errors.Wrapf(err, "acl: optimizing segment %d", si)
		}
		segPlans[si] = segPlan{seg: seg, windows: windows, rates: rates, report: report, segRanges: segRanges, effRanges: effRanges}
	}

	// --- layout ---

	bitsetBits := channelsPerBone * numBones
	bitsetBytes := format.BitsetBytes(bitsetBits)

	cursor := format.ClipHeaderSize
	segmentHeadersOffset := align4(cursor)
	cursor = segmentHeadersOffset + len(segs)*format.SegmentHeaderSize

	defaultBitsetOffset := format.AbsentOffset
	if anyDefault {
		off := align4(cursor)
		defaultBitsetOffset = off
		cursor = off + bitsetBytes
	}

	constantBitsetOffset := format.AbsentOffset
	constantPoolOffset := format.AbsentOffset
	if anyConstant {
		off := align4(cursor)
		constantBitsetOffset = off
		cursor = off + bitsetBytes

		off = align4(cursor)
		constantPoolOffset = off
		cursor = off + len(constantSlots)*12
	}

	clipRangeBlockOffset := format.AbsentOffset
	if len(animatedTracks) > 0 {
		off := align4(cursor)
		clipRangeBlockOffset = off
		cursor = off + len(animatedTracks)*format.ClipRangeVectorSize
	}

	type segLayout struct {
		formatOffset, rangeOffset, animatedOffset, bitSize, animatedByteSize int
	}
	layouts := make([]segLayout, len(segs))
	for si, sp := range segPlans {
		formatOffset := align(cursor, format.SegmentFormatAlignment)
		cursor = formatOffset + len(animatedTracks)

		rangeOffset := align(cursor, format.SegmentRangeAlignment)
		cursor = rangeOffset + len(animatedTracks)*format.SegmentRangeChannelSize

		animatedOffset := cursor
		bitSize := 0
		for _, s := range animatedTracks {
			bitSize += bitsForRate(rateOf(sp.rates, s))
		}
		totalBits := bitSize * sp.seg.NumSamples
		byteSize := int(bits.ByteLen(uint(totalBits)))
		cursor = animatedOffset + byteSize

		layouts[si] = segLayout{formatOffset, rangeOffset, animatedOffset, bitSize, byteSize}
	}

	totalSize := format.Align(format.ClipHeaderOffset+cursor, format.BufferAlignment)
	buf := make([]byte, totalSize)

	// --- file header ---
	binary.BigEndian.PutUint32(buf[format.TagOffset:], format.Tag)
	binary.BigEndian.PutUint16(buf[format.VersionOffset:], algorithmVersion)
	buf[format.AlgorithmOffset] = format.AlgorithmUniformlySampled

	// --- clip header ---
	ch := buf[format.ClipHeaderOffset:]
	binary.BigEndian.PutUint16(ch[format.NumBonesOffset:], uint16(numBones))
	binary.BigEndian.PutUint16(ch[format.NumSegmentsOffset:], uint16(len(segs)))
	ch[format.RotationFormatOffset] = uint8(cfg.RotationFormat)
	ch[format.TranslationFormatOffset] = uint8(format.VectorFormatQuantized)
	ch[format.ScaleFormatOffset] = uint8(format.VectorFormatQuantized)
	ch[format.ClipRangeFlagsOffset] = allChannelsRangeReduced
	ch[format.SegmentRangeFlagsOffset] = allChannelsRangeReduced
	if hasScale {
		ch[format.HasScaleOffset] = 1
	}
	binary.BigEndian.PutUint32(ch[format.NumSamplesOffset:], uint32(store.NumSamples))
	binary.BigEndian.PutUint32(ch[format.SampleRateOffset:], uint32(baked.SampleRate))
	binary.BigEndian.PutUint32(ch[format.SegmentHeadersOffsetOffset:], uint32(segmentHeadersOffset))
	binary.BigEndian.PutUint32(ch[format.DefaultBitsetOffsetOffset:], uint32(defaultBitsetOffset))
	binary.BigEndian.PutUint32(ch[format.ConstantBitsetOffsetOffset:], uint32(constantBitsetOffset))
	binary.BigEndian.PutUint32(ch[format.ConstantPoolOffsetOffset:], uint32(constantPoolOffset))
	binary.BigEndian.PutUint32(ch[format.ClipRangeBlockOffsetOffset:], uint32(clipRangeBlockOffset))

	// --- segment headers ---
	for si, l := range layouts {
		sh := ch[segmentHeadersOffset+si*format.SegmentHeaderSize:]
		binary.BigEndian.PutUint32(sh[format.SegmentSampleCountOffset:], uint32(segPlans[si].seg.NumSamples))
		binary.BigEndian.PutUint32(sh[format.SegmentBitSizeOffset:], uint32(l.bitSize))
		binary.BigEndian.PutUint32(sh[format.SegmentFormatOffset:], uint32(l.formatOffset))
		binary.BigEndian.PutUint32(sh[format.SegmentRangeOffsetOffset:], uint32(l.rangeOffset))
		binary.BigEndian.PutUint32(sh[format.SegmentAnimatedOffsetOffset:], uint32(l.animatedOffset))
	}

	// --- default / constant bitsets ---
	if anyDefault {
		for i := 0; i < numBones; i++ {
			for c := 0; c < channelsPerBone; c++ {
				chn := format.Channel(c)
				if plans[i][chn].isDefault {
					setBit(ch[defaultBitsetOffset:], format.BitIndex(i, chn, hasScale))
				}
			}
		}
	}
	if anyConstant {
		for i := 0; i < numBones; i++ {
			for c := 0; c < channelsPerBone; c++ {
				chn := format.Channel(c)
				if plans[i][chn].isConstant {
					setBit(ch[constantBitsetOffset:], format.BitIndex(i, chn, hasScale))
				}
			}
		}
		for idx, s := range constantSlots {
			writeConstantSample(ch[constantPoolOffset+idx*12:], store, s)
		}
	}

	// --- clip range block ---
	if len(animatedTracks) > 0 {
		for idx, s := range animatedTracks {
			writeRangeF32(ch[clipRangeBlockOffset+idx*format.ClipRangeVectorSize:], clipRanges[s.bone][s.ch])
		}
	}

	// --- per-segment blocks ---
	for si, l := range layouts {
		sp := segPlans[si]
		formatBlock := ch[l.formatOffset:]
		for idx, s := range animatedTracks {
			formatBlock[idx] = uint8(rateOf(sp.rates, s))
		}

		rangeBlock := ch[l.rangeOffset:]
		for idx, s := range animatedTracks {
			writeRangeU8(rangeBlock[idx*format.SegmentRangeChannelSize:], sp.segRanges[s.bone][s.ch])
		}

		animBlock := ch[l.animatedOffset:]
		for k := 0; k < sp.seg.NumSamples; k++ {
			bitOff := uint(k * l.bitSize)
			for _, s := range animatedTracks {
				rate := rateOf(sp.rates, s)
				v := windowSample(sp.windows[s.bone], s.ch, k)
				normalized := rangereduce.Normalize(v, sp.effRanges[s.bone][s.ch])
				if pack.IsRawBitRate(rate) {
					if err := pack.PackVector3(normalized, 32, 32, 32, animBlock, bitOff); err != nil {
						return nil, nil, errors.Wrapf(err, "acl: packing raw sample, segment %d", si)
					}
					bitOff += 96
				} else {
					if err := pack.PackVariableBitRate(normalized, rate, animBlock, bitOff); err != nil {
						return nil, nil, errors.Wrapf(err, "acl: packing sample, segment %d", si)
					}
					bitOff += pack.BitsPerVariableRateSample(rate)
				}
			}
		}
	}

	binary.BigEndian.PutUint32(buf[format.SizeOffset:], uint32(len(buf)))
	sealCRC(buf)

	report := &Report{
		NumBones:        numBones,
		NumSamples:      store.NumSamples,
		CompressedBytes: len(buf),
	}
	for _, sp := range segPlans {
		report.Segments = append(report.Segments, SegmentReport{
			NumSamples:  sp.seg.NumSamples,
			Iterations:  sp.report.Iterations,
			FinalError:  sp.report.FinalError,
			MeanError:   sp.report.MeanError,
			LockedBones: sp.report.LockedBones,
		})
	}
	for i := 0; i < numBones; i++ {
		for c := 0; c < channelsPerBone; c++ {
			chn := format.Channel(c)
			switch {
			case plans[i][chn].isDefault:
				report.DefaultChannels++
			case plans[i][chn].isConstant:
				report.ConstantChannels++
			default:
				report.AnimatedChannels++
			}
		}
	}

	return buf, report, nil
}

func bitsForRate(rate uint) int {
	if pack.IsRawBitRate(rate) {
		return 96
	}
	return int(pack.BitsPerVariableRateSample(rate))
}

func rateOf(rates *bitrate.Rates, s animatedSlot) uint {
	switch s.ch {
	case format.RotationChannel:
		return rates.Rotation[s.bone]
	case format.TranslationChannel:
		return rates.Translation[s.bone]
	default:
		return rates.Scale[s.bone]
	}
}

func windowTrack(w segment.BoneWindow, ch format.Channel) []aclmath.Vector3 {
	switch ch {
	case format.RotationChannel:
		out := make([]aclmath.Vector3, len(w.Rotations))
		for i, q := range w.Rotations {
			out[i] = dropW(q)
		}
		return out
	case format.TranslationChannel:
		return w.Translations
	default:
		return w.Scales
	}
}

func windowSample(w segment.BoneWindow, ch format.Channel, k int) aclmath.Vector3 {
	switch ch {
	case format.RotationChannel:
		return dropW(sampleQuat(w.Rotations, k))
	case format.TranslationChannel:
		return sampleVec(w.Translations, k)
	default:
		return sampleVec(w.Scales, k)
	}
}

func sampleQuat(track []aclmath.Quaternion, k int) aclmath.Quaternion {
	if len(track) == 1 {
		return track[0]
	}
	return track[k]
}

func sampleVec(track []aclmath.Vector3, k int) aclmath.Vector3 {
	if len(track) == 1 {
		return track[0]
	}
	return track[k]
}

// setBit sets bit index bit (most-significant-bit first within each
// 32-bit word) in buf, which must be at least format.BitsetBytes(bit+1)
// long.
func setBit(buf []byte, bit int) {
	word := bit / 32
	withinWord := bit % 32
	byteIdx := word*4 + withinWord/8
	bitInByte := uint(7 - withinWord%8)
	buf[byteIdx] |= 1 << bitInByte
}

func testBit(buf []byte, bit int) bool {
	word := bit / 32
	withinWord := bit % 32
	byteIdx := word*4 + withinWord/8
	bitInByte := uint(7 - withinWord%8)
	return buf[byteIdx]&(1<<bitInByte) != 0
}

func writeRangeF32(buf []byte, r trackstore.Range) {
	binary.BigEndian.PutUint32(buf[0:], gomath.Float32bits(float32(r.Min.X)))
	binary.BigEndian.PutUint32(buf[4:], gomath.Float32bits(float32(r.Min.Y)))
	binary.BigEndian.PutUint32(buf[8:], gomath.Float32bits(float32(r.Min.Z)))
	binary.BigEndian.PutUint32(buf[12:], gomath.Float32bits(float32(r.Extent.X)))
	binary.BigEndian.PutUint32(buf[16:], gomath.Float32bits(float32(r.Extent.Y)))
	binary.BigEndian.PutUint32(buf[20:], gomath.Float32bits(float32(r.Extent.Z)))
}

func readRangeF32(buf []byte) trackstore.Range {
	return trackstore.Range{
		Min: aclmath.Vector3{
			X: float64(gomath.Float32frombits(binary.BigEndian.Uint32(buf[0:]))),
			Y: float64(gomath.Float32frombits(binary.BigEndian.Uint32(buf[4:]))),
			Z: float64(gomath.Float32frombits(binary.BigEndian.Uint32(buf[8:]))),
		},
		Extent: aclmath.Vector3{
			X: float64(gomath.Float32frombits(binary.BigEndian.Uint32(buf[12:]))),
			Y: float64(gomath.Float32frombits(binary.BigEndian.Uint32(buf[16:]))),
			Z: float64(gomath.Float32frombits(binary.BigEndian.Uint32(buf[20:]))),
		},
	}
}

func writeRangeU8(buf []byte, r trackstore.Range) {
	buf[0] = byte(pack.PackScalar(r.Min.X, 8))
	buf[1] = byte(pack.PackScalar(r.Min.Y, 8))
	buf[2] = byte(pack.PackScalar(r.Min.Z, 8))
	buf[3] = byte(pack.PackScalar(r.Extent.X, 8))
	buf[4] = byte(pack.PackScalar(r.Extent.Y, 8))
	buf[5] = byte(pack.PackScalar(r.Extent.Z, 8))
}

func readRangeU8(buf []byte) trackstore.Range {
	return trackstore.Range{
		Min: aclmath.Vector3{
			X: pack.UnpackScalar(uint32(buf[0]), 8),
			Y: pack.UnpackScalar(uint32(buf[1]), 8),
			Z: pack.UnpackScalar(uint32(buf[2]), 8),
		},
		Extent: aclmath.Vector3{
			X: pack.UnpackScalar(uint32(buf[3]), 8),
			Y: pack.UnpackScalar(uint32(buf[4]), 8),
			Z: pack.UnpackScalar(uint32(buf[5]), 8),
		},
	}
}

// writeConstantSample pins a constant channel's one sample at full
// float32 precision (rotation drop-w), bypassing range reduction and
// variable-bit-rate packing entirely: a constant sample already costs
// nothing per additional pose, so there is no reason to trade its
// precision away.
func writeConstantSample(buf []byte, store *trackstore.Store, s animatedSlot) {
	v := store.VectorAt(s.bone, trackstore.Channel(s.ch), 0)
	binary.BigEndian.PutUint32(buf[0:], gomath.Float32bits(float32(v.X)))
	binary.BigEndian.PutUint32(buf[4:], gomath.Float32bits(float32(v.Y)))
	binary.BigEndian.PutUint32(buf[8:], gomath.Float32bits(float32(v.Z)))
}

func readConstantSample(buf []byte) aclmath.Vector3 {
	return aclmath.Vector3{
		X: float64(gomath.Float32frombits(binary.BigEndian.Uint32(buf[0:]))),
		Y: float64(gomath.Float32frombits(binary.BigEndian.Uint32(buf[4:]))),
		Z: float64(gomath.Float32frombits(binary.BigEndian.Uint32(buf[8:]))),
	}
}

func align4(off int) int { return align(off, 4) }

func align(off, to int) int { return format.Align(off, to) }
