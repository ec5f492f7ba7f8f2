// Package ream implements the BBF ream allocator: a pure function from
// a sequence of asset lengths and a fixed set of allocator
// parameters to the on-disk placement of each asset. It performs no I/O
// and holds no state beyond the running write cursor, tracking
// offset/length bookkeeping in a tiny struct rather than recomputing from
// scratch on every call.
package ream

import "fmt"

// Config is the fixed allocator configuration taken from the header.
type Config struct {
	AlignExp      uint8 // alignment exponent a
	ReamExp       uint8 // nominal ream exponent r
	VariableRream bool
}

// Placement is the result of allocating one asset.
type Placement struct {
	Offset     uint64 // stored offset, always a multiple of 2^AlignExp
	ReamExp    uint8  // ream exponent used for this asset (>= Config.ReamExp)
	NextCursor uint64 // write cursor after this asset's padding
}

// Allocator tracks the running write cursor across a sequence of Allocate
// calls. It is a thin wrapper: Allocate itself is a pure function of
// (cursor, cfg, length), so two allocators fed the same length sequence
// and config always produce identical placements (deterministic layout).
type Allocator struct {
	cfg    Config
	cursor uint64
}

// New creates an allocator starting at the given initial cursor (normally
// the header's byte length).
func New(cfg Config, startCursor uint64) *Allocator {
	return &Allocator{cfg: cfg, cursor: startCursor}
}

// Cursor reports the allocator's current write cursor.
func (a *Allocator) Cursor() uint64 { return a.cursor }

// Allocate assigns the next asset's placement and advances the cursor.
func (a *Allocator) Allocate(length uint64) Placement {
	p := Allocate(a.cursor, a.cfg, length)
	a.cursor = p.NextCursor

	return p
}

// Allocate computes the placement of a single asset of the given length,
// given the current write cursor and allocator config. It is the pure
// function:
//
//   - stored offset o: smallest multiple of 2^a that is >= cursor.
//   - ream exponent r' for this asset: r if variable-ream is off or
//     L <= 2^r; otherwise the smallest exponent >= r with 2^r' >= L.
//   - post-write cursor: o + L, rounded up to the next multiple of 2^r',
//     except a zero-length asset which consumes exactly one aligned slot
//     (cursor advances by 2^a).
func Allocate(cursor uint64, cfg Config, length uint64) Placement {
	alignSize := uint64(1) << cfg.AlignExp
	offset := roundUp(cursor, alignSize)

	if length == 0 {
		return Placement{Offset: offset, ReamExp: cfg.ReamExp, NextCursor: offset + alignSize}
	}

	reamExp := cfg.ReamExp
	reamSize := uint64(1) << cfg.ReamExp

	// An asset of exactly 2^r bytes fits the normal ream and is never
	// promoted, hence the ">" rather than ">=".
	if cfg.VariableRream && length > reamSize {
		reamExp = minExponentFor(length, cfg.ReamExp)
	}

	next := roundUp(offset+length, uint64(1)<<reamExp)

	return Placement{Offset: offset, ReamExp: reamExp, NextCursor: next}
}

// Validate checks a Config against the header's legal ranges:
// 0 <= a <= 30, a <= r <= 40.
func Validate(cfg Config, maxAlign, maxRream uint8) error {
	if cfg.AlignExp > maxAlign {
		return fmt.Errorf("alignment exponent %d exceeds maximum %d", cfg.AlignExp, maxAlign)
	}
	if cfg.ReamExp < cfg.AlignExp {
		return fmt.Errorf("ream exponent %d is smaller than alignment exponent %d", cfg.ReamExp, cfg.AlignExp)
	}
	if cfg.ReamExp > maxRream {
		return fmt.Errorf("ream exponent %d exceeds maximum %d", cfg.ReamExp, maxRream)
	}

	return nil
}

// minExponentFor returns the smallest exponent e >= floor such that 2^e >= L.
func minExponentFor(length uint64, floor uint8) uint8 {
	e := floor
	for (uint64(1) << e) < length {
		e++
	}

	return e
}

// roundUp rounds x up to the next multiple of size, where size is a power of two.
func roundUp(x, size uint64) uint64 {
	if size == 0 {
		return x
	}

	return (x + size - 1) &^ (size - 1)
}
