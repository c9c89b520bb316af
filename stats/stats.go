/*
NAME
  stats.go

DESCRIPTION
  stats.go summarizes a compression run (container/acl's *Report,
  plus the raw clip size it was measured against) into a JSON-friendly
  Summary: compression ratio, channel classification counts, and
  per-segment iteration/error detail, with the whole-clip worst and
  mean error aggregated across segments via gonum/stat and gonum/floats.

LICENSE
  Copyright (C) 2026 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package stats turns a container/acl compression report into the
// JSON diagnostics cmd/aclc's -stats flag writes.
package stats

import (
	"encoding/json"
	"io"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/ausocean/acl/container/acl"
)

// SegmentStat is one segment's optimizer outcome, as JSON.
type SegmentStat struct {
	SegmentIndex int     `json:"segment_index"`
	NumSamples   int     `json:"num_samples"`
	Iterations   int     `json:"iterations"`
	FinalError   float64 `json:"final_error"`
	MeanError    float64 `json:"mean_error"`
	LockedBones  int     `json:"locked_bones"`
}

// Summary is one compression run's full diagnostics record.
type Summary struct {
	Name  string `json:"name"`
	Level string `json:"level,omitempty"`

	NumBones        int `json:"num_bones"`
	NumSamples      int `json:"num_samples"`
	RawBytes        int `json:"raw_bytes"`
	CompressedBytes int `json:"compressed_bytes"`

	CompressionRatio float64 `json:"compression_ratio"`

	DefaultChannels  int `json:"default_channels"`
	ConstantChannels int `json:"constant_channels"`
	AnimatedChannels int `json:"animated_channels"`

	MaxError  float64 `json:"max_error"`
	MeanError float64 `json:"mean_error"`

	Segments []SegmentStat `json:"segments"`
}

// Summarize builds a Summary from a compression report. rawBytes is
// the uncompressed clip size (e.g. the raw track sample count times
// per-sample size) used only to compute CompressionRatio; pass 0 if
// unknown, which leaves the ratio at 0.
func Summarize(name string, rawBytes int, report *acl.Report) *Summary {
	s := &Summary{
		Name:             name,
		NumBones:         report.NumBones,
		NumSamples:       report.NumSamples,
		RawBytes:         rawBytes,
		CompressedBytes:  report.CompressedBytes,
		DefaultChannels:  report.DefaultChannels,
		ConstantChannels: report.ConstantChannels,
		AnimatedChannels: report.AnimatedChannels,
		Segments:         make([]SegmentStat, len(report.Segments)),
	}
	if rawBytes > 0 && report.CompressedBytes > 0 {
		s.CompressionRatio = float64(rawBytes) / float64(report.CompressedBytes)
	}

	finalErrors := make([]float64, len(report.Segments))
	meanErrors := make([]float64, len(report.Segments))
	for i, seg := range report.Segments {
		s.Segments[i] = SegmentStat{
			SegmentIndex: i,
			NumSamples:   seg.NumSamples,
			Iterations:   seg.Iterations,
			FinalError:   seg.FinalError,
			MeanError:    seg.MeanError,
			LockedBones:  seg.LockedBones,
		}
		finalErrors[i] = seg.FinalError
		meanErrors[i] = seg.MeanError
	}
	if len(finalErrors) > 0 {
		s.MaxError = floats.Max(finalErrors)
		s.MeanError = stat.Mean(meanErrors, nil)
	}
	return s
}

// Write serializes summaries as indented JSON: a single object if
// there is exactly one summary (the common case), an array if there
// are more (the -exhaustive sweep, one record per compression level).
func Write(w io.Writer, summaries []*Summary) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if len(summaries) == 1 {
		return enc.Encode(summaries[0])
	}
	return enc.Encode(summaries)
}
