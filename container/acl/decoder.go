/*
NAME
  decoder.go

DESCRIPTION
  decoder.go implements Decoder: parsing a compressed buffer's header
  and block offsets once at open time, then reconstructing any sample's
  local-space pose on demand by walking the segment(s) that contain the
  two key frames bracketing the current seek position and denormalizing
  each animated channel against its composed clip+segment range before
  blending the pair by the seek's interpolation factor.

LICENSE
  Copyright (C) 2026 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package acl

import (
	"encoding/binary"
	gomath "math"

	"github.com/ausocean/acl/errclass"
	"github.com/ausocean/acl/format"
	aclmath "github.com/ausocean/acl/math"
	"github.com/ausocean/acl/pack"
	"github.com/ausocean/acl/rangereduce"
	"github.com/ausocean/acl/trackstore"
)

// RoundPolicy selects how Seek maps a continuous time to the clip's
// discrete sample indices.
type RoundPolicy int

const (
	// RoundNearest collapses Seek to a single, nearest-rounded sample
	// (t0 == t1, alpha == 0), for regression-style exact reproduction.
	RoundNearest RoundPolicy = iota
	// RoundFloor collapses Seek to the sample at or before t.
	RoundFloor
	// RoundCeiling collapses Seek to the sample at or after t.
	RoundCeiling
	// RoundNone performs true two-frame interpolation: t0 is the sample
	// at or before t, t1 is the next sample, and alpha is the
	// fractional position between them. This is production sampling.
	RoundNone
)

// segmentInfo is a parsed SegmentHeader, with ClipSampleOffset
// recovered by accumulating sample counts in order: the wire format
// doesn't store it directly since segments are always contiguous.
type segmentInfo struct {
	clipSampleOffset int
	numSamples       int
	bitSize          int
	formatOffset     int
	rangeOffset      int
	animatedOffset   int
}

// Decoder reads samples out of a compressed buffer produced by Encode.
// NewDecoder parses the buffer once; afterwards a Decoder is not
// thread-safe, since Seek stores the two key frames and interpolation
// factor that the following DecompressPose or DecompressBone call
// reads. Give each concurrent sampler its own Decoder (cheap: it shares
// the underlying buffer, not a copy).
type Decoder struct {
	clipHeader []byte

	numBones        int
	hasScale        bool
	channelsPerBone int
	rotationFormat  format.RotationFormat
	numSamples      int
	sampleRate      int

	segments       []segmentInfo
	plans          [][3]channelPlan
	animatedTracks []animatedSlot
	clipRanges     [][3]trackstore.Range
	constantValues map[animatedSlot]aclmath.Vector3

	seeked    bool
	seekT0    int
	seekT1    int
	seekAlpha float64
}

// NewDecoder parses buf's header and block offsets, verifying the tag,
// algorithm version and CRC32 seal. Any trailing bytes beyond the
// header's declared size (buffer alignment padding) are trimmed and
// ignored.
func NewDecoder(buf []byte) (*Decoder, error) {
	if len(buf) < format.FileHeaderSize+format.ClipHeaderSize {
		return nil, errclass.Errorf(errclass.InvalidFormat, "acl: buffer of %d bytes is shorter than a header", len(buf))
	}
	if tag := binary.BigEndian.Uint32(buf[format.TagOffset:]); tag != format.Tag {
		return nil, errclass.Errorf(errclass.InvalidFormat, "acl: bad tag %#x", tag)
	}
	if v := binary.BigEndian.Uint16(buf[format.VersionOffset:]); v != algorithmVersion {
		return nil, errclass.Errorf(errclass.InvalidFormat, "acl: unsupported algorithm version %d", v)
	}
	if algo := buf[format.AlgorithmOffset]; algo != format.AlgorithmUniformlySampled {
		return nil, errclass.Errorf(errclass.InvalidFormat, "acl: unsupported algorithm id %d", algo)
	}

	size := binary.BigEndian.Uint32(buf[format.SizeOffset:])
	if int(size) > len(buf) {
		return nil, errclass.Errorf(errclass.InvalidFormat, "acl: header declares %d bytes, buffer has %d", size, len(buf))
	}
	buf = buf[:size]
	if err := verifyCRC(buf); err != nil {
		return nil, err
	}

	ch := buf[format.ClipHeaderOffset:]
	numBones := int(binary.BigEndian.Uint16(ch[format.NumBonesOffset:]))
	numSegments := int(binary.BigEndian.Uint16(ch[format.NumSegmentsOffset:]))
	rotFormat := format.RotationFormat(ch[format.RotationFormatOffset])
	hasScale := ch[format.HasScaleOffset] != 0
	numSamples := int(binary.BigEndian.Uint32(ch[format.NumSamplesOffset:]))
	sampleRate := int(binary.BigEndian.Uint32(ch[format.SampleRateOffset:]))
	segmentHeadersOffset := int(binary.BigEndian.Uint32(ch[format.SegmentHeadersOffsetOffset:]))
	defaultBitsetOffset := int(binary.BigEndian.Uint32(ch[format.DefaultBitsetOffsetOffset:]))
	constantBitsetOffset := int(binary.BigEndian.Uint32(ch[format.ConstantBitsetOffsetOffset:]))
	constantPoolOffset := int(binary.BigEndian.Uint32(ch[format.ConstantPoolOffsetOffset:]))
	clipRangeBlockOffset := int(binary.BigEndian.Uint32(ch[format.ClipRangeBlockOffsetOffset:]))

	if rotFormat == format.RotationFormatRaw {
		return nil, errclass.Errorf(errclass.InvalidFormat, "acl: raw rotation format is not supported by this decoder")
	}

	channelsPerBone := format.ChannelsPerBone(hasScale)
	plans := make([][3]channelPlan, numBones)
	for i := 0; i < numBones; i++ {
		for c := 0; c < channelsPerBone; c++ {
			chn := format.Channel(c)
			bit := format.BitIndex(i, chn, hasScale)
			isDefault := defaultBitsetOffset != format.AbsentOffset && testBit(ch[defaultBitsetOffset:], bit)
			isConstant := !isDefault && constantBitsetOffset != format.AbsentOffset && testBit(ch[constantBitsetOffset:], bit)
			plans[i][chn] = channelPlan{isDefault: isDefault, isConstant: isConstant}
		}
	}

	var animatedTracks, constantSlots []animatedSlot
	for i := 0; i < numBones; i++ {
		for c := 0; c < channelsPerBone; c++ {
			chn := format.Channel(c)
			p := plans[i][chn]
			switch {
			case p.isDefault:
			case p.isConstant:
				constantSlots = append(constantSlots, animatedSlot{i, chn})
			default:
				animatedTracks = append(animatedTracks, animatedSlot{i, chn})
			}
		}
	}

	clipRanges := make([][3]trackstore.Range, numBones)
	if clipRangeBlockOffset != format.AbsentOffset {
		for idx, s := range animatedTracks {
			clipRanges[s.bone][s.ch] = readRangeF32(ch[clipRangeBlockOffset+idx*format.ClipRangeVectorSize:])
		}
	}

	constantValues := make(map[animatedSlot]aclmath.Vector3, len(constantSlots))
	if constantPoolOffset != format.AbsentOffset {
		for idx, s := range constantSlots {
			constantValues[s] = readConstantSample(ch[constantPoolOffset+idx*12:])
		}
	}

	segments := make([]segmentInfo, numSegments)
	offset := 0
	for si := 0; si < numSegments; si++ {
		sh := ch[segmentHeadersOffset+si*format.SegmentHeaderSize:]
		n := int(binary.BigEndian.Uint32(sh[format.SegmentSampleCountOffset:]))
		segments[si] = segmentInfo{
			clipSampleOffset: offset,
			numSamples:       n,
			bitSize:          int(binary.BigEndian.Uint32(sh[format.SegmentBitSizeOffset:])),
			formatOffset:     int(binary.BigEndian.Uint32(sh[format.SegmentFormatOffset:])),
			rangeOffset:      int(binary.BigEndian.Uint32(sh[format.SegmentRangeOffsetOffset:])),
			animatedOffset:   int(binary.BigEndian.Uint32(sh[format.SegmentAnimatedOffsetOffset:])),
		}
		offset += n
	}
	if offset != numSamples {
		return nil, errclass.Errorf(errclass.InvalidFormat, "acl: segments cover %d samples, header declares %d", offset, numSamples)
	}

	return &Decoder{
		clipHeader:      ch,
		numBones:        numBones,
		hasScale:        hasScale,
		channelsPerBone: channelsPerBone,
		rotationFormat:  rotFormat,
		numSamples:      numSamples,
		sampleRate:      sampleRate,
		segments:        segments,
		plans:           plans,
		animatedTracks:  animatedTracks,
		clipRanges:      clipRanges,
		constantValues:  constantValues,
	}, nil
}

// NumBones returns the number of bones the compressed clip covers.
func (d *Decoder) NumBones() int { return d.numBones }

// NumSamples returns the clip's total sample count.
func (d *Decoder) NumSamples() int { return d.numSamples }

// SampleRate returns the clip's sample rate in Hz.
func (d *Decoder) SampleRate() int { return d.sampleRate }

// Duration returns the clip's duration in seconds, matching
// clip.AnimationClip.Duration's convention.
func (d *Decoder) Duration() float64 {
	if d.numSamples <= 1 {
		return 0
	}
	return float64(d.numSamples-1) / float64(d.sampleRate)
}

// Seek computes the two sample indices bracketing time t and the
// interpolation factor alpha between them, and stores the result as
// the decoder's current position for the following DecompressPose or
// DecompressBone call. t is clamped to [0, Duration()].
//
// RoundNone performs true two-frame interpolation for continuous-time
// sampling: t0 = floor(frame), t1 = min(t0+1, NumSamples()-1), alpha =
// frame - t0, where frame = t * SampleRate(). RoundNearest, RoundFloor
// and RoundCeiling instead collapse to a single rounded sample index
// (t0 == t1, alpha == 0), reproducing that sample exactly, which suits
// regression tests that expect a specific discrete frame.
func (d *Decoder) Seek(t float64, policy RoundPolicy) (t0, t1 int, alpha float64) {
	if t < 0 {
		t = 0
	}
	if dur := d.Duration(); t > dur {
		t = dur
	}
	frame := t * float64(d.sampleRate)

	switch policy {
	case RoundFloor:
		idx := d.clampSample(int(gomath.Floor(frame)))
		t0, t1, alpha = idx, idx, 0
	case RoundCeiling:
		idx := d.clampSample(int(gomath.Ceil(frame)))
		t0, t1, alpha = idx, idx, 0
	case RoundNone:
		t0 = d.clampSample(int(gomath.Floor(frame)))
		t1 = t0 + 1
		if t1 > d.numSamples-1 {
			t1 = d.numSamples - 1
		}
		if t1 != t0 {
			alpha = frame - gomath.Floor(frame)
		}
	default:
		idx := d.clampSample(int(gomath.Round(frame)))
		t0, t1, alpha = idx, idx, 0
	}

	d.seekT0, d.seekT1, d.seekAlpha, d.seeked = t0, t1, alpha, true
	return t0, t1, alpha
}

func (d *Decoder) clampSample(i int) int {
	if i < 0 {
		return 0
	}
	if i >= d.numSamples {
		return d.numSamples - 1
	}
	return i
}

func (d *Decoder) findSegment(sampleIndex int) (*segmentInfo, int, error) {
	for i := range d.segments {
		seg := &d.segments[i]
		if sampleIndex >= seg.clipSampleOffset && sampleIndex < seg.clipSampleOffset+seg.numSamples {
			return seg, sampleIndex - seg.clipSampleOffset, nil
		}
	}
	return nil, 0, errclass.Errorf(errclass.OutOfRange, "acl: sample index %d not covered by any segment", sampleIndex)
}

// DecompressPose fills out, which must have length NumBones(), with
// every bone's local-space transform at the decoder's current seek
// position. Seek must be called first. When Seek collapsed its two
// frames together (t0 == t1) this reduces to an exact, non-interpolated
// decode of that one frame; otherwise the two bracketing frames are
// each decoded in full and blended per channel by the seek's alpha.
func (d *Decoder) DecompressPose(out []aclmath.Transform) error {
	if !d.seeked {
		return errclass.Errorf(errclass.InvalidInput, "acl: DecompressPose called before Seek")
	}
	if len(out) != d.numBones {
		return errclass.Errorf(errclass.InvalidInput, "acl: output pose has %d bones, clip has %d", len(out), d.numBones)
	}
	if d.seekT0 == d.seekT1 {
		return d.decodeFrame(d.seekT0, out)
	}

	a := make([]aclmath.Transform, d.numBones)
	b := make([]aclmath.Transform, d.numBones)
	if err := d.decodeFrame(d.seekT0, a); err != nil {
		return err
	}
	if err := d.decodeFrame(d.seekT1, b); err != nil {
		return err
	}
	for i := range out {
		out[i] = d.blendTransform(a[i], b[i], d.seekAlpha)
	}
	return nil
}

// decodeFrame fills out with every bone's exact local-space transform
// at sampleIndex, with no interpolation.
func (d *Decoder) decodeFrame(sampleIndex int, out []aclmath.Transform) error {
	if sampleIndex < 0 || sampleIndex >= d.numSamples {
		return errclass.Errorf(errclass.OutOfRange, "acl: sample index %d out of range [0,%d)", sampleIndex, d.numSamples)
	}
	for i := range out {
		out[i] = aclmath.IdentityTransform
	}
	for s, v := range d.constantValues {
		applyChannel(out, s, v)
	}
	if len(d.animatedTracks) == 0 {
		return nil
	}

	seg, localIdx, err := d.findSegment(sampleIndex)
	if err != nil {
		return err
	}

	formatBlock := d.clipHeader[seg.formatOffset:]
	rangeBlock := d.clipHeader[seg.rangeOffset:]
	animBlock := d.clipHeader[seg.animatedOffset:]
	bitOff := uint(localIdx * seg.bitSize)

	for idx, s := range d.animatedTracks {
		rate := uint(formatBlock[idx])
		segRange := readRangeU8(rangeBlock[idx*format.SegmentRangeChannelSize:])
		effRange := composeRange(d.clipRanges[s.bone][s.ch], segRange)

		var normalized aclmath.Vector3
		var err error
		if pack.IsRawBitRate(rate) {
			normalized, err = pack.UnpackVector3(32, 32, 32, animBlock, bitOff)
			bitOff += 96
		} else {
			normalized, err = pack.UnpackVariableBitRate(rate, animBlock, bitOff)
			bitOff += pack.BitsPerVariableRateSample(rate)
		}
		if err != nil {
			return err
		}
		applyChannel(out, s, rangereduce.Denormalize(normalized, effRange))
	}
	return nil
}

// blendTransform interpolates between a and b by alpha, dispatching
// rotation to slerp or nlerp per the clip's stored rotation format and
// translation/scale to linear interpolation.
func (d *Decoder) blendTransform(a, b aclmath.Transform, alpha float64) aclmath.Transform {
	if d.rotationFormat == format.RotationFormatQuatSlerp {
		return aclmath.Transform{
			Rotation:    aclmath.SlerpQuaternion(a.Rotation, b.Rotation, alpha),
			Translation: aclmath.LerpVector3(a.Translation, b.Translation, alpha),
			Scale:       aclmath.LerpVector3(a.Scale, b.Scale, alpha),
		}
	}
	return aclmath.LerpTransform(a, b, alpha)
}

// DecompressBone returns boneIndex's local-space transform at the
// decoder's current seek position, decoding and blending only the
// requested channels; a channel whose want flag is false is left at
// its IdentityTransform default and its animated bytes are never
// unpacked. Seek must be called first.
func (d *Decoder) DecompressBone(boneIndex int, wantRot, wantTrans, wantScale bool) (aclmath.Transform, error) {
	if !d.seeked {
		return aclmath.Transform{}, errclass.Errorf(errclass.InvalidInput, "acl: DecompressBone called before Seek")
	}
	if boneIndex < 0 || boneIndex >= d.numBones {
		return aclmath.Transform{}, errclass.Errorf(errclass.InvalidInput, "acl: bone index %d out of range [0,%d)", boneIndex, d.numBones)
	}

	a, err := d.decodeBoneChannels(d.seekT0, boneIndex, wantRot, wantTrans, wantScale)
	if err != nil {
		return aclmath.Transform{}, err
	}
	if d.seekT0 == d.seekT1 {
		return a, nil
	}
	b, err := d.decodeBoneChannels(d.seekT1, boneIndex, wantRot, wantTrans, wantScale)
	if err != nil {
		return aclmath.Transform{}, err
	}
	return d.blendTransform(a, b, d.seekAlpha), nil
}

// decodeBoneChannels decodes the requested channels of boneIndex at
// sampleIndex, walking every animated track only far enough to track
// its bit position; tracks belonging to another bone, or to a channel
// the caller didn't request, advance the bit cursor without being
// unpacked.
func (d *Decoder) decodeBoneChannels(sampleIndex, boneIndex int, wantRot, wantTrans, wantScale bool) (aclmath.Transform, error) {
	out := aclmath.IdentityTransform
	want := [3]bool{wantRot, wantTrans, wantScale}

	for c := 0; c < d.channelsPerBone; c++ {
		if !want[c] {
			continue
		}
		chn := format.Channel(c)
		p := d.plans[boneIndex][chn]
		if p.isConstant {
			if v, ok := d.constantValues[animatedSlot{boneIndex, chn}]; ok {
				writeChannel(&out, chn, v)
			}
		}
	}

	if len(d.animatedTracks) == 0 {
		return out, nil
	}

	seg, localIdx, err := d.findSegment(sampleIndex)
	if err != nil {
		return aclmath.Transform{}, err
	}

	formatBlock := d.clipHeader[seg.formatOffset:]
	rangeBlock := d.clipHeader[seg.rangeOffset:]
	animBlock := d.clipHeader[seg.animatedOffset:]
	bitOff := uint(localIdx * seg.bitSize)

	for idx, s := range d.animatedTracks {
		rate := uint(formatBlock[idx])
		width := uint(96)
		if !pack.IsRawBitRate(rate) {
			width = pack.BitsPerVariableRateSample(rate)
		}

		if s.bone != boneIndex || !want[s.ch] {
			bitOff += width
			continue
		}

		segRange := readRangeU8(rangeBlock[idx*format.SegmentRangeChannelSize:])
		effRange := composeRange(d.clipRanges[s.bone][s.ch], segRange)

		var normalized aclmath.Vector3
		var err error
		if pack.IsRawBitRate(rate) {
			normalized, err = pack.UnpackVector3(32, 32, 32, animBlock, bitOff)
		} else {
			normalized, err = pack.UnpackVariableBitRate(rate, animBlock, bitOff)
		}
		if err != nil {
			return aclmath.Transform{}, err
		}
		writeChannel(&out, s.ch, rangereduce.Denormalize(normalized, effRange))
		bitOff += width
	}
	return out, nil
}

// writeChannel writes v into t's channel ch, reconstructing a dropped
// w component for rotation.
func writeChannel(t *aclmath.Transform, ch format.Channel, v aclmath.Vector3) {
	switch ch {
	case format.RotationChannel:
		t.Rotation = reconstructW(v)
	case format.TranslationChannel:
		t.Translation = v
	default:
		t.Scale = v
	}
}

// applyChannel writes v into out[s.bone]'s channel s.ch.
func applyChannel(out []aclmath.Transform, s animatedSlot, v aclmath.Vector3) {
	writeChannel(&out[s.bone], s.ch, v)
}
