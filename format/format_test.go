/*
NAME
  format_test.go

DESCRIPTION
  format_test.go contains tests for functionality found in format.go.

LICENSE
  Copyright (C) 2026 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package format

import "testing"

func TestTagValue(t *testing.T) {
	if Tag != 0xAC10AC10 {
		t.Errorf("Tag = %#x, want 0xAC10AC10", Tag)
	}
}

func TestBitIndexWithScale(t *testing.T) {
	cases := []struct {
		bone int
		ch   Channel
		want int
	}{
		{0, RotationChannel, 0},
		{0, TranslationChannel, 1},
		{0, ScaleChannel, 2},
		{1, RotationChannel, 3},
		{2, ScaleChannel, 8},
	}
	for _, c := range cases {
		got := BitIndex(c.bone, c.ch, true)
		if got != c.want {
			t.Errorf("BitIndex(%d, %v, true) = %d, want %d", c.bone, c.ch, got, c.want)
		}
	}
}

func TestBitIndexWithoutScale(t *testing.T) {
	if got := BitIndex(1, TranslationChannel, false); got != 3 {
		t.Errorf("BitIndex(1, TranslationChannel, false) = %d, want 3", got)
	}
}

func TestBitsetBytesRoundsUpToWord(t *testing.T) {
	cases := []struct{ bits, want int }{
		{0, 0},
		{1, 4},
		{32, 4},
		{33, 8},
		{63, 8},
		{64, 8},
	}
	for _, c := range cases {
		if got := BitsetBytes(c.bits); got != c.want {
			t.Errorf("BitsetBytes(%d) = %d, want %d", c.bits, got, c.want)
		}
	}
}

func TestAlign(t *testing.T) {
	cases := []struct{ off, to, want int }{
		{0, 4, 0},
		{1, 4, 4},
		{4, 4, 4},
		{5, 4, 8},
		{15, 16, 16},
		{16, 16, 16},
	}
	for _, c := range cases {
		if got := Align(c.off, c.to); got != c.want {
			t.Errorf("Align(%d, %d) = %d, want %d", c.off, c.to, got, c.want)
		}
	}
}

func TestAbsentOffsetIsMaxUint32(t *testing.T) {
	if AbsentOffset != 0xFFFFFFFF {
		t.Errorf("AbsentOffset = %#x, want 0xFFFFFFFF", AbsentOffset)
	}
}

func TestChannelsPerBone(t *testing.T) {
	if ChannelsPerBone(true) != 3 {
		t.Errorf("ChannelsPerBone(true) = %d, want 3", ChannelsPerBone(true))
	}
	if ChannelsPerBone(false) != 2 {
		t.Errorf("ChannelsPerBone(false) = %d, want 2", ChannelsPerBone(false))
	}
}
