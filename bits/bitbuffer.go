/*
NAME
  bitbuffer.go

DESCRIPTION
  Provides arbitrary-bit-width reads and writes into a byte buffer at
  an arbitrary bit offset, most-significant-bit first, and the
  memcpy-bits primitive every packing routine is built on. Adapted
  from the accumulator-shift technique of a streaming bit reader to
  operate on a fixed, pre-sized buffer that also needs to be written
  to, not just read.

LICENSE
  Copyright (C) 2026 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package bits provides the bit-level read/write primitives the
// serialized clip format is built from: arbitrary-width unsigned
// fields at an arbitrary bit offset, most-significant-bit first, and
// memcpy-bits, the copy primitive everything else routes through.
package bits

import "github.com/ausocean/acl/errclass"

// MaxFieldBits is the widest single field ReadBits/WriteBits support.
// Wider transfers go through MemcpyBits, which chunks into fields of
// at most this width.
const MaxFieldBits = 32

// ReadBits reads the n (0..32) bits starting at bitOffset from buf,
// most-significant-bit first (bit 7 of byte 0 is global bit 0), and
// returns them right-aligned in the result. It never reads past
// len(buf)*8.
func ReadBits(buf []byte, bitOffset uint, n uint) (uint32, error) {
	if n == 0 {
		return 0, nil
	}
	if n > MaxFieldBits {
		return 0, errclass.Errorf(errclass.InvalidInput, "bits: field width %d exceeds %d", n, MaxFieldBits)
	}
	byteOffset := bitOffset / 8
	bitInByte := bitOffset % 8
	totalBits := bitInByte + n
	nBytes := (totalBits + 7) / 8
	if byteOffset+nBytes > uint(len(buf)) {
		return 0, errclass.Errorf(errclass.OutOfRange, "bits: read of %d bits at offset %d exceeds buffer of %d bytes", n, bitOffset, len(buf))
	}

	var acc uint64
	for i := uint(0); i < nBytes; i++ {
		acc = (acc << 8) | uint64(buf[byteOffset+i])
	}
	shift := nBytes*8 - totalBits
	mask := (uint64(1) << n) - 1
	return uint32((acc >> shift) & mask), nil
}

// WriteBits writes the low n (0..32) bits of v into buf starting at
// bitOffset, most-significant-bit first, leaving every other bit in
// the touched bytes unchanged. It never writes past len(buf)*8.
func WriteBits(buf []byte, bitOffset uint, v uint32, n uint) error {
	if n == 0 {
		return nil
	}
	if n > MaxFieldBits {
		return errclass.Errorf(errclass.InvalidInput, "bits: field width %d exceeds %d", n, MaxFieldBits)
	}
	byteOffset := bitOffset / 8
	bitInByte := bitOffset % 8
	totalBits := bitInByte + n
	nBytes := (totalBits + 7) / 8
	if byteOffset+nBytes > uint(len(buf)) {
		return errclass.Errorf(errclass.OutOfRange, "bits: write of %d bits at offset %d exceeds buffer of %d bytes", n, bitOffset, len(buf))
	}

	var acc uint64
	for i := uint(0); i < nBytes; i++ {
		acc = (acc << 8) | uint64(buf[byteOffset+i])
	}

	shift := nBytes*8 - totalBits
	valMask := (uint64(1) << n) - 1
	fieldMask := valMask << shift
	acc = (acc &^ fieldMask) | ((uint64(v) & valMask) << shift)

	for i := int(nBytes) - 1; i >= 0; i-- {
		buf[byteOffset+uint(i)] = byte(acc)
		acc >>= 8
	}
	return nil
}

// MemcpyBits copies n bits from src starting at srcBitOffset into dst
// starting at dstBitOffset, most-significant-bit first, preserving
// every bit of dst outside the copied range (including partial bytes
// at either end). It chunks the transfer into fields of at most
// MaxFieldBits, the widest ReadBits/WriteBits support directly.
func MemcpyBits(dst []byte, dstBitOffset uint, src []byte, srcBitOffset uint, n uint) error {
	for n > 0 {
		chunk := n
		if chunk > MaxFieldBits {
			chunk = MaxFieldBits
		}
		v, err := ReadBits(src, srcBitOffset, chunk)
		if err != nil {
			return err
		}
		if err := WriteBits(dst, dstBitOffset, v, chunk); err != nil {
			return err
		}
		srcBitOffset += chunk
		dstBitOffset += chunk
		n -= chunk
	}
	return nil
}

// ByteLen returns the number of bytes required to hold nBits bits,
// rounding up.
func ByteLen(nBits uint) uint {
	return (nBits + 7) / 8
}
