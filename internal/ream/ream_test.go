package ream

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAllocate_ZeroLengthConsumesOneAlignedSlot(t *testing.T) {
	cfg := Config{AlignExp: 12, ReamExp: 16}
	p := Allocate(0, cfg, 0)

	require.Equal(t, uint64(0), p.Offset)
	require.Equal(t, uint64(1)<<12, p.NextCursor)
}

func TestAllocate_OffsetAlwaysAligned(t *testing.T) {
	cfg := Config{AlignExp: 12, ReamExp: 16}

	for _, cursor := range []uint64{0, 1, 4095, 4096, 4097, 100000} {
		p := Allocate(cursor, cfg, 10)
		require.Zero(t, p.Offset%(1<<cfg.AlignExp), "offset %d not aligned for cursor %d", p.Offset, cursor)
		require.GreaterOrEqual(t, p.Offset, cursor)
	}
}

func TestAllocate_NextCursorAlwaysRoundedToReam(t *testing.T) {
	cfg := Config{AlignExp: 12, ReamExp: 16}
	p := Allocate(0, cfg, 100)

	require.Zero(t, p.NextCursor%(1<<p.ReamExp))
	require.GreaterOrEqual(t, p.NextCursor, p.Offset+100)
}

func TestAllocate_VariableRream_AssetAtExactlyReamSizeIsNotPromoted(t *testing.T) {
	cfg := Config{AlignExp: 12, ReamExp: 16, VariableRream: true}
	reamSize := uint64(1) << cfg.ReamExp

	p := Allocate(0, cfg, reamSize)
	require.Equal(t, cfg.ReamExp, p.ReamExp)
}

func TestAllocate_VariableRream_AssetOverReamSizeIsPromoted(t *testing.T) {
	cfg := Config{AlignExp: 12, ReamExp: 16, VariableRream: true}
	reamSize := uint64(1) << cfg.ReamExp

	p := Allocate(0, cfg, reamSize+1)
	require.Greater(t, p.ReamExp, cfg.ReamExp)
	require.GreaterOrEqual(t, uint64(1)<<p.ReamExp, reamSize+1)
}

func TestAllocate_VariableRreamOff_NeverPromotes(t *testing.T) {
	cfg := Config{AlignExp: 12, ReamExp: 16, VariableRream: false}
	huge := uint64(1) << 20

	p := Allocate(0, cfg, huge)
	require.Equal(t, cfg.ReamExp, p.ReamExp)
}

func TestAllocator_SequentialAllocationsAreDeterministic(t *testing.T) {
	cfg := Config{AlignExp: 12, ReamExp: 16}
	lengths := []uint64{0, 1, 4095, 4096, 4097}

	a1 := New(cfg, 97)
	a2 := New(cfg, 97)

	for _, l := range lengths {
		p1 := a1.Allocate(l)
		p2 := a2.Allocate(l)
		require.Equal(t, p1, p2)
	}
}

func TestValidate_RejectsReamBelowAlignment(t *testing.T) {
	err := Validate(Config{AlignExp: 16, ReamExp: 12}, 30, 40)
	require.Error(t, err)
}

func TestValidate_RejectsAlignmentAboveMax(t *testing.T) {
	err := Validate(Config{AlignExp: 31, ReamExp: 31}, 30, 40)
	require.Error(t, err)
}

func TestValidate_AcceptsEqualAlignmentAndRream(t *testing.T) {
	err := Validate(Config{AlignExp: 12, ReamExp: 12}, 30, 40)
	require.NoError(t, err)
}

func TestRoundUp_PowerOfTwoBoundary(t *testing.T) {
	require.Equal(t, uint64(4096), roundUp(4096, 4096))
	require.Equal(t, uint64(4096), roundUp(1, 4096))
	require.Equal(t, uint64(8192), roundUp(4097, 4096))
}
