/*
NAME
  format.go

DESCRIPTION
  format.go defines the byte-level layout of a compressed ACL buffer:
  field widths, offsets and the sentinel values that distinguish an
  absent block from a present one. container/acl's encoder and decoder
  both build on these constants so the two halves of the wire format
  can never drift apart.

LICENSE
  Copyright (C) 2026 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package format defines the binary layout of a compressed animation
// clip buffer, shared between the encoder and decoder in
// container/acl.
package format

// Tag is the magic value stamped at FileHeader byte 8..11, identifying
// a buffer as a compressed animation clip.
const Tag = 0xAC10AC10

// AlgorithmUniformlySampled is the only algorithm id currently defined.
const AlgorithmUniformlySampled = 0

// BufferAlignment is the alignment, in bytes, of the whole compressed
// buffer's total size. Block offsets within the buffer use the smaller
// per-block alignments (4 bytes for clip-level blocks, and
// SegmentFormatAlignment/SegmentRangeAlignment within a segment).
const BufferAlignment = 16

/*
FileHeader is the leading 16 bytes of every compressed buffer.

============================================================================
| byte     | contents                                                     |
============================================================================
| 0..3     | total size in bytes (uint32), includes this header           |
----------------------------------------------------------------------------
| 4..7     | CRC32 over bytes 8..end (uint32)                             |
----------------------------------------------------------------------------
| 8..11    | Tag, the literal 0xAC10AC10 (uint32)                         |
----------------------------------------------------------------------------
| 12..13   | algorithm version (uint16)                                  |
----------------------------------------------------------------------------
| 14       | algorithm id (uint8), see AlgorithmUniformlySampled          |
----------------------------------------------------------------------------
| 15       | reserved                                                     |
----------------------------------------------------------------------------
*/
const (
	FileHeaderSize = 16

	SizeOffset      = 0
	SizeWidth       = 4
	CRCOffset       = 4
	CRCWidth        = 4
	TagOffset       = 8
	TagWidth        = 4
	VersionOffset   = 12
	VersionWidth    = 2
	AlgorithmOffset = 14
	AlgorithmWidth  = 1
	ReservedOffset  = 15
	ReservedWidth   = 1

	// CRCCoveredFrom is the offset from which the CRC32 seal is
	// computed; the size and hash fields themselves are excluded.
	CRCCoveredFrom = TagOffset
)

/*
ClipHeader immediately follows FileHeader, at byte FileHeaderSize.
All offset fields within it are relative to ClipHeaderOffset.

============================================================================
| field                       | width                                     |
============================================================================
| num bones                   | uint16                                    |
| num segments                | uint16                                    |
| rotation format              | uint8                                    |
| translation format           | uint8                                    |
| scale format                 | uint8                                    |
| clip-range-reduction flags   | uint8                                    |
| segment-range-reduction flags| uint8                                   |
| has scale                    | uint8 (boolean)                          |
| num samples                 | uint32                                    |
| sample rate (Hz)             | uint32                                   |
| segment-headers offset       | uint32                                   |
| default-bitset offset        | uint32                                   |
| constant-bitset offset       | uint32                                   |
| constant-sample-pool offset  | uint32                                   |
| clip-range-block offset      | uint32                                   |
============================================================================
*/
const (
	ClipHeaderOffset = FileHeaderSize

	NumBonesOffset              = 0
	NumBonesWidth               = 2
	NumSegmentsOffset           = 2
	NumSegmentsWidth            = 2
	RotationFormatOffset        = 4
	TranslationFormatOffset     = 5
	ScaleFormatOffset           = 6
	ClipRangeFlagsOffset        = 7
	SegmentRangeFlagsOffset     = 8
	HasScaleOffset              = 9
	NumSamplesOffset            = 10
	NumSamplesWidth             = 4
	SampleRateOffset            = 14
	SampleRateWidth             = 4
	SegmentHeadersOffsetOffset  = 18
	DefaultBitsetOffsetOffset   = 22
	ConstantBitsetOffsetOffset  = 26
	ConstantPoolOffsetOffset    = 30
	ClipRangeBlockOffsetOffset  = 34

	ClipHeaderSize = 38
)

// AbsentOffset is the sentinel value, the maximum value of a uint32
// offset field, meaning the corresponding block is not present in the
// buffer and the decoder must not dereference it.
const AbsentOffset = 0xFFFFFFFF

/*
SegmentHeader, one per segment, laid out contiguously starting at the
clip header's segment-headers offset. Offsets within it are, like the
clip header's, relative to ClipHeaderOffset.

============================================================================
| field                     | width                                       |
============================================================================
| sample count              | uint32                                     |
| animated-pose bit size    | uint32 (sum of per-bone animated bit widths)|
| per-track-format offset   | uint32                                      |
| segment-range offset      | uint32                                      |
| animated-data offset      | uint32                                      |
============================================================================
*/
const (
	SegmentSampleCountOffset   = 0
	SegmentBitSizeOffset       = 4
	SegmentFormatOffset        = 8
	SegmentRangeOffsetOffset   = 12
	SegmentAnimatedOffsetOffset = 16

	SegmentHeaderSize = 20
)

// RotationFormat selects the decoder's interpolation policy for a
// bone's rotation track, stamped into the clip header's rotation
// format byte.
type RotationFormat uint8

const (
	// RotationFormatQuatNlerp stores drop-w quantized quaternions,
	// reconstructed and interpolated by Nlerp. The default; cheaper
	// than Slerp and visually indistinguishable for the angle deltas
	// a single segment spans.
	RotationFormatQuatNlerp RotationFormat = iota
	// RotationFormatQuatSlerp stores drop-w quantized quaternions,
	// interpolated by spherical linear interpolation.
	RotationFormatQuatSlerp
	// RotationFormatRaw names full-precision quaternion storage. It is
	// not implemented: container/acl's Encode rejects it and its
	// NewDecoder rejects buffers that carry it.
	RotationFormatRaw
)

// VectorFormat selects the storage format of a translation or scale
// track, stamped into the clip header's translation/scale format
// byte.
type VectorFormat uint8

const (
	// VectorFormatQuantized stores range-reduced, variable-bit-rate
	// packed vectors, denormalized and linearly interpolated.
	VectorFormatQuantized VectorFormat = iota
	// VectorFormatRaw stores full-precision vectors.
	VectorFormatRaw
)

// Channel indexes a bone's three animated tracks within a bitset, in
// the order the wire format assigns them.
type Channel int

const (
	RotationChannel Channel = iota
	TranslationChannel
	ScaleChannel
)

// ChannelsPerBone is the number of per-bone channel slots a bitset
// reserves: 3 when the clip carries scale, 2 (rotation, translation)
// when it does not.
func ChannelsPerBone(hasScale bool) int {
	if hasScale {
		return 3
	}
	return 2
}

// BitIndex returns the bit position of bone/channel within a bitset,
// per the "3*bone+channel, or 2*bone+channel without scale" rule.
func BitIndex(bone int, ch Channel, hasScale bool) int {
	return ChannelsPerBone(hasScale)*bone + int(ch)
}

// BitsetWords returns the number of 32-bit words needed to hold
// numBits bits, rounding up as the wire format requires.
func BitsetWords(numBits int) int {
	return (numBits + 31) / 32
}

// BitsetBytes returns the byte length of a bitset covering numBits
// bits, rounded up to a whole number of 32-bit words.
func BitsetBytes(numBits int) int {
	return BitsetWords(numBits) * 4
}

// ClipRangeVectorSize is the byte size of one animated vector
// channel's clip-range-reduction block: 3 mins + 3 extents, as
// float32s.
const ClipRangeVectorSize = 6 * 4

// ClipRangeQuaternionSize is the byte size of a full, unreduced
// quaternion's clip-range block. container/acl does not use it: every
// animated rotation's clip range is a drop-w ClipRangeVectorSize block.
const ClipRangeQuaternionSize = 24

// SegmentRangeChannelSize is the byte size of one animated channel's
// segment-range block: 3 mins + 3 extents, each a single byte
// (rangereduce.NumBits-wide quantized range).
const SegmentRangeChannelSize = 6

// SegmentFormatAlignment is the alignment, in bytes, of the
// per-track-format block within a segment.
const SegmentFormatAlignment = 2

// SegmentRangeAlignment is the alignment, in bytes, of the
// segment-range block within a segment.
const SegmentRangeAlignment = 4

// Align rounds off up to the nearest multiple of to. to must be a
// power of two.
func Align(off, to int) int {
	return (off + to - 1) &^ (to - 1)
}
