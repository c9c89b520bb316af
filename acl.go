/*
NAME
  acl.go

DESCRIPTION
  acl.go is the module's top-level convenience API: Compress and
  Decompress wrap container/acl's Encode and Decoder behind the five
  named Level presets, for callers that don't need direct access to
  the compression Report or Config.

LICENSE
  Copyright (C) 2026 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package acl implements the Animation Compression Library: lossy
// compression of skeletal animation clips into a compact, streamable
// binary format, and a decoder for sampling poses back out of one.
//
// A clip is staged (package trackstore), range-reduced (package
// rangereduce) and segmented along its time axis (package segment);
// each segment's bones are then independently variable-bit-rate
// quantized (package bitrate) against a shell-distance error budget
// (package errormetric) before being packed into the self-describing
// buffer package format and container/acl define.
package acl

import (
	"github.com/ausocean/acl/clip"
	containeracl "github.com/ausocean/acl/container/acl"
)

// Compress encodes c at the given Level, returning the compressed
// buffer and a diagnostic Report.
func Compress(c *clip.AnimationClip, level containeracl.Level) ([]byte, *containeracl.Report, error) {
	return containeracl.Encode(c, level.Config())
}

// Decompress parses buf, returning a Decoder ready to sample poses.
func Decompress(buf []byte) (*containeracl.Decoder, error) {
	return containeracl.NewDecoder(buf)
}
