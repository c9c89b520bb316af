/*
NAME
  pack.go

DESCRIPTION
  Provides scalar, 3- and 4-component vector packing into fixed-width
  bit fields, their inverses, and the variable-bit-rate table every
  animated track is packed against.

LICENSE
  Copyright (C) 2026 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package pack provides the quantization codecs that turn a
// normalized [0,1] sample into a fixed number of bits and back, built
// on top of package bits.
package pack

import (
	"github.com/ausocean/acl/bits"
	"github.com/ausocean/acl/errclass"
	"github.com/ausocean/acl/math"
)

// BitRateTable maps a bit-rate index (0..18) to the number of bits
// used per vector component at that rate. Index 0 means "constant in
// this segment, stored in the constant pool, not packed here"; the
// last index means "raw, full 32-bit float precision". Carried
// byte-for-byte from the reference implementation's bit-rate table.
var BitRateTable = [19]uint{
	0, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15, 16, 17, 18, 19, 32,
}

// InvalidBitRate marks a bone-track bit rate that has not been
// assigned yet.
const InvalidBitRate = 0xFF

// LowestBitRate is the lowest rate a track can be quantized at
// without being constant (index 0) or raw (HighestBitRate).
const LowestBitRate = 1

// HighestBitRate is the "raw, full precision" bit rate.
const HighestBitRate = uint(len(BitRateTable) - 1)

// IsConstantBitRate reports whether rate means "constant, stored in
// the constant-sample pool".
func IsConstantBitRate(rate uint) bool { return rate == 0 }

// IsRawBitRate reports whether rate means "raw, full precision,
// outside the bit-packed animated stream".
func IsRawBitRate(rate uint) bool { return rate == HighestBitRate }

// NumBits returns the number of bits per component at bit-rate index
// rate.
func NumBits(rate uint) uint {
	if rate >= uint(len(BitRateTable)) {
		rate = HighestBitRate
	}
	return BitRateTable[rate]
}

// PackScalar quantizes x, which must be in [0,1], to k bits as
// round(x * (2^k-1)).
func PackScalar(x float64, k uint) uint32 {
	if k == 0 {
		return 0
	}
	maxVal := float64((uint64(1) << k) - 1)
	if x < 0 {
		x = 0
	} else if x > 1 {
		x = 1
	}
	return uint32(x*maxVal + 0.5)
}

// UnpackScalar is the exact inverse of PackScalar: divide by 2^k-1.
func UnpackScalar(u uint32, k uint) float64 {
	if k == 0 {
		return 0
	}
	maxVal := float64((uint64(1) << k) - 1)
	return float64(u) / maxVal
}

// PackVector3 quantizes a normalized 3-vector into (xBits, yBits,
// zBits) and writes the concatenated field, most-significant-component
// first, into buf at bitOffset.
func PackVector3(v math.Vector3, xBits, yBits, zBits uint, buf []byte, bitOffset uint) error {
	px := PackScalar(v.X, xBits)
	py := PackScalar(v.Y, yBits)
	pz := PackScalar(v.Z, zBits)
	off := bitOffset
	if err := bits.WriteBits(buf, off, px, xBits); err != nil {
		return err
	}
	off += xBits
	if err := bits.WriteBits(buf, off, py, yBits); err != nil {
		return err
	}
	off += yBits
	return bits.WriteBits(buf, off, pz, zBits)
}

// UnpackVector3 is the inverse of PackVector3.
func UnpackVector3(xBits, yBits, zBits uint, buf []byte, bitOffset uint) (math.Vector3, error) {
	off := bitOffset
	x, err := bits.ReadBits(buf, off, xBits)
	if err != nil {
		return math.Vector3{}, err
	}
	off += xBits
	y, err := bits.ReadBits(buf, off, yBits)
	if err != nil {
		return math.Vector3{}, err
	}
	off += yBits
	z, err := bits.ReadBits(buf, off, zBits)
	if err != nil {
		return math.Vector3{}, err
	}
	return math.Vector3{
		X: UnpackScalar(x, xBits),
		Y: UnpackScalar(y, yBits),
		Z: UnpackScalar(z, zBits),
	}, nil
}

// Vector4 is a 4-component value, used for full (non-drop-w)
// quaternion packing.
type Vector4 struct {
	X, Y, Z, W float64
}

// PackVector4_11_11_10 packs a normalized 4-vector into an (11,11,10)
// layout for X, Y, Z followed by a 10-bit W: 42 bits total.
func PackVector4_11_11_10(v Vector4, buf []byte, bitOffset uint) error {
	return packVector4(v, 11, 11, 10, buf, bitOffset)
}

// UnpackVector4_11_11_10 is the inverse of PackVector4_11_11_10.
func UnpackVector4_11_11_10(buf []byte, bitOffset uint) (Vector4, error) {
	return unpackVector4(11, 11, 10, buf, bitOffset)
}

// PackVector4_16 packs a normalized 4-vector into a (16,16,16,16)
// layout: 64 bits total.
func PackVector4_16(v Vector4, buf []byte, bitOffset uint) error {
	return packVector4(v, 16, 16, 16, buf, bitOffset)
}

// UnpackVector4_16 is the inverse of PackVector4_16.
func UnpackVector4_16(buf []byte, bitOffset uint) (Vector4, error) {
	return unpackVector4(16, 16, 16, buf, bitOffset)
}

func packVector4(v Vector4, xBits, yBits, zBits uint, buf []byte, bitOffset uint) error {
	wBits := widthOfFourth(xBits, yBits, zBits)
	off := bitOffset
	for _, f := range []struct {
		val  float64
		bits uint
	}{{v.X, xBits}, {v.Y, yBits}, {v.Z, zBits}, {v.W, wBits}} {
		if err := bits.WriteBits(buf, off, PackScalar(f.val, f.bits), f.bits); err != nil {
			return err
		}
		off += f.bits
	}
	return nil
}

func unpackVector4(xBits, yBits, zBits uint, buf []byte, bitOffset uint) (Vector4, error) {
	wBits := widthOfFourth(xBits, yBits, zBits)
	off := bitOffset
	var out [4]float64
	for i, w := range []uint{xBits, yBits, zBits, wBits} {
		u, err := bits.ReadBits(buf, off, w)
		if err != nil {
			return Vector4{}, err
		}
		out[i] = UnpackScalar(u, w)
		off += w
	}
	return Vector4{X: out[0], Y: out[1], Z: out[2], W: out[3]}, nil
}

// widthOfFourth picks the (11,11,10) vs (16,16,16,16) specialization's
// fourth-component width to match the first three: 10 implies the
// (11,11,10) layout's W is also 10 bits by symmetry of the format, 16
// implies the symmetric (16,16,16,16) layout.
func widthOfFourth(xBits, yBits, zBits uint) uint {
	if xBits == 11 && yBits == 11 && zBits == 10 {
		return 10
	}
	return 16
}

// PackVariableBitRate quantizes a normalized 3-vector at the width
// given by bit-rate index rate and writes it at bitOffset. Rate 0
// (constant) and HighestBitRate (raw) are not valid inputs here: both
// are signalled out-of-band and never written into the bit-packed
// animated stream; see format.RotationFormat / VectorFormat.
func PackVariableBitRate(v math.Vector3, rate uint, buf []byte, bitOffset uint) error {
	if IsConstantBitRate(rate) || IsRawBitRate(rate) {
		return errclass.Errorf(errclass.InvalidInput, "pack: bit rate %d is not a packable animated rate", rate)
	}
	n := NumBits(rate)
	return PackVector3(v, n, n, n, buf, bitOffset)
}

// UnpackVariableBitRate is the inverse of PackVariableBitRate.
func UnpackVariableBitRate(rate uint, buf []byte, bitOffset uint) (math.Vector3, error) {
	if IsConstantBitRate(rate) || IsRawBitRate(rate) {
		return math.Vector3{}, errclass.Errorf(errclass.InvalidInput, "pack: bit rate %d is not a packable animated rate", rate)
	}
	n := NumBits(rate)
	return UnpackVector3(n, n, n, buf, bitOffset)
}

// BitsPerVariableRateSample returns the total number of bits one
// sample occupies at bit-rate index rate: 3 components * NumBits(rate).
func BitsPerVariableRateSample(rate uint) uint {
	return 3 * NumBits(rate)
}
