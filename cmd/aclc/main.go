/*
DESCRIPTION
  Aclc is a command-line wrapper around the ACL compression pipeline:
  it reads an SJSON clip fixture (or a previously compressed buffer
  under -decomp), compresses it at a chosen Level, optionally verifies
  the round trip and writes diagnostics.

AUTHORS
  Saxon Nelson-Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2026 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package aclc is the ACL compression tool's CLI entry point.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/ausocean/utils/logging"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/ausocean/acl/clip"
	containeracl "github.com/ausocean/acl/container/acl"
	"github.com/ausocean/acl/math"
	"github.com/ausocean/acl/sjson"
	"github.com/ausocean/acl/stats"
)

// Logging related constants.
const (
	logPath      = "/var/log/aclc/aclc.log"
	logMaxSize   = 100 // MB
	logMaxBackup = 10
	logMaxAge    = 28 // days
	logVerbosity = logging.Debug
	logSuppress  = true
)

func main() {
	os.Exit(run())
}

// run implements main and returns the process exit code, so defers
// and log flushing happen before os.Exit.
func run() int {
	aclPath := flag.String("acl", "", "Path to the SJSON clip to compress, or (with -decomp) the compressed buffer to inspect.")
	configPath := flag.String("config", "", "Optional path to an SJSON Config override.")
	statsPath := flag.String("stats", "", "Write JSON compression diagnostics to this path; with no value, write to stdout.")
	statsFlagSet := false
	outPath := flag.String("out", "", "Write the compressed buffer to this path.")
	levelName := flag.String("level", "medium", "Compression level: lowest, low, medium, high or highest.")
	test := flag.Bool("test", false, "Replay every sample through the decoder and verify DecompressBone against DecompressPose.")
	decomp := flag.Bool("decomp", false, "Treat -acl as an already-compressed buffer and only profile decompression.")
	exhaustive := flag.Bool("exhaustive", false, "Compress once per Level and write one stats record per run.")
	flag.Parse()
	flag.Visit(func(f *flag.Flag) {
		if f.Name == "stats" {
			statsFlagSet = true
		}
	})

	fileLog := &lumberjack.Logger{
		Filename:   logPath,
		MaxSize:    logMaxSize,
		MaxBackups: logMaxBackup,
		MaxAge:     logMaxAge,
	}
	l := logging.New(logVerbosity, io.MultiWriter(fileLog, os.Stderr), logSuppress)

	if *aclPath == "" {
		l.Error("-acl is required")
		return -1
	}

	if *decomp {
		return runDecomp(l, *aclPath, *test)
	}

	buf, err := os.ReadFile(*aclPath)
	if err != nil {
		l.Error("could not read clip file", "path", *aclPath, "error", err)
		return -1
	}
	c, err := sjson.ReadClip(buf)
	if err != nil {
		l.Error("could not parse clip", "path", *aclPath, "error", err)
		return -1
	}

	levels, err := levelsToRun(*levelName, *exhaustive)
	if err != nil {
		l.Error("bad -level", "error", err)
		return -1
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		l.Error("could not load -config", "path", *configPath, "error", err)
		return -1
	}

	rawBytes := rawSize(c)
	var summaries []*stats.Summary
	var lastCompressed []byte
	for _, lv := range levels {
		runCfg := cfg
		if runCfg == nil {
			cfg := lv.Config()
			runCfg = &cfg
		}
		compressed, report, err := containeracl.Encode(c, *runCfg)
		if err != nil {
			l.Error("compression failed", "level", lv, "error", err)
			return -1
		}
		l.Debug("compressed clip", "level", lv, "bytes", len(compressed))

		if *test {
			if err := selfTest(compressed, c); err != nil {
				l.Error("self test failed", "level", lv, "error", err)
				return -1
			}
		}

		summary := stats.Summarize(c.Name, rawBytes, report)
		summary.Level = lv.String()
		summaries = append(summaries, summary)
		lastCompressed = compressed
	}

	if *outPath != "" {
		if err := os.WriteFile(*outPath, lastCompressed, 0644); err != nil {
			l.Error("could not write -out", "path", *outPath, "error", err)
			return -1
		}
	}

	if *statsPath != "" || statsFlagSet {
		if err := writeStats(*statsPath, summaries); err != nil {
			l.Error("could not write -stats", "error", err)
			return -1
		}
	}

	return 0
}

// levelsToRun resolves the -level/-exhaustive flags into the set of
// Levels to compress at: every Level in ascending order under
// -exhaustive, otherwise the single named Level.
func levelsToRun(name string, exhaustive bool) ([]containeracl.Level, error) {
	if exhaustive {
		return containeracl.AllLevels, nil
	}
	lv, ok := containeracl.ParseLevel(name)
	if !ok {
		return nil, fmt.Errorf("unknown level %q", name)
	}
	return []containeracl.Level{lv}, nil
}

// loadConfig reads an optional SJSON Config override, returning nil
// if path is empty so the caller falls back to the Level's own preset.
func loadConfig(path string) (*containeracl.Config, error) {
	if path == "" {
		return nil, nil
	}
	buf, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg, err := sjson.ReadConfig(buf)
	if err != nil {
		return nil, err
	}
	return cfg, nil
}

// writeStats writes summaries to path, or to stdout if path is empty.
func writeStats(path string, summaries []*stats.Summary) error {
	if path == "" {
		return stats.Write(os.Stdout, summaries)
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return stats.Write(f, summaries)
}

// runDecomp treats aclPath as an already-compressed buffer: it only
// parses the buffer and, under -test, profiles decompression of
// every sample.
func runDecomp(l logging.Logger, aclPath string, test bool) int {
	buf, err := os.ReadFile(aclPath)
	if err != nil {
		l.Error("could not read compressed buffer", "path", aclPath, "error", err)
		return -1
	}
	dec, err := containeracl.NewDecoder(buf)
	if err != nil {
		l.Error("could not parse compressed buffer", "path", aclPath, "error", err)
		return -1
	}
	l.Debug("parsed compressed buffer", "bones", dec.NumBones(), "samples", dec.NumSamples())
	if !test {
		return 0
	}
	pose := make([]math.Transform, dec.NumBones())
	rate := float64(dec.SampleRate())
	for i := 0; i < dec.NumSamples(); i++ {
		dec.Seek(float64(i)/rate, containeracl.RoundNearest)
		if err := dec.DecompressPose(pose); err != nil {
			l.Error("decompression failed", "sample", i, "error", err)
			return -1
		}
	}
	return 0
}

// selfTest replays every sample of a freshly compressed buffer
// through the decoder, checking at every sample that DecompressBone on
// the last bone agrees with what DecompressPose produced for that bone.
func selfTest(compressed []byte, c *clip.AnimationClip) error {
	dec, err := containeracl.NewDecoder(compressed)
	if err != nil {
		return err
	}
	pose := make([]math.Transform, dec.NumBones())
	last := dec.NumBones() - 1
	rate := float64(dec.SampleRate())
	for i := 0; i < dec.NumSamples(); i++ {
		dec.Seek(float64(i)/rate, containeracl.RoundNearest)
		if err := dec.DecompressPose(pose); err != nil {
			return err
		}
		bone, err := dec.DecompressBone(last, true, true, true)
		if err != nil {
			return err
		}
		if bone != pose[last] {
			return fmt.Errorf("sample %d: DecompressBone(%d) disagrees with DecompressPose", i, last)
		}
	}
	return nil
}

// rawSize estimates the uncompressed size of c, for CompressionRatio:
// three channels per bone, each a worst-case 4-float sample (a
// quaternion; translation and scale only use 3), at 4 bytes per
// float32.
func rawSize(c *clip.AnimationClip) int {
	const floatSize = 4
	const channelsPerBone = 3
	const floatsPerSample = 4
	return len(c.Bones) * channelsPerBone * c.NumSamples * floatsPerSample * floatSize
}
