/*
NAME
  crc.go

DESCRIPTION
  crc.go seals and verifies a compressed buffer's checksum. Unlike
  container/mts/psi's CRC32, which must bit-reverse its table to match
  MPEG-TS's transmission order, a compressed clip buffer has no such
  constraint, so the standard IEEE polynomial is used directly.

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
	"hash/crc32"

	"github.com/ausocean/acl/errclass"
	"github.com/ausocean/acl/format"
)

// sealCRC computes and stamps the CRC32 of buf[format.CRCCoveredFrom:]
// into the FileHeader's CRC field.
func sealCRC(buf []byte) {
	sum := crc32.ChecksumIEEE(buf[format.CRCCoveredFrom:])
	binary.BigEndian.PutUint32(buf[format.CRCOffset:], sum)
}

// verifyCRC recomputes buf's checksum and compares it against the
// stamped value, returning an InvalidFormat error on mismatch.
func verifyCRC(buf []byte) error {
	want := binary.BigEndian.Uint32(buf[format.CRCOffset:])
	got := crc32.ChecksumIEEE(buf[format.CRCCoveredFrom:])
	if got != want {
		return errclass.Errorf(errclass.InvalidFormat, "acl: CRC mismatch: buffer has %#x, computed %#x", want, got)
	}
	return nil
}
