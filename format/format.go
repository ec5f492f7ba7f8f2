// Package format declares the on-disk layout constants for BBF v3: the
// magic sequence, format version, fixed header size, and implementation
// limits. It holds no encoding logic of its own — that lives in codec
// and index.
package format

// Magic is the 4-byte sequence that must open every BBF file.
var Magic = [4]byte{'B', 'B', 'F', 0}

const (
	// Version is the only BBF format version this module reads and writes.
	Version uint16 = 3

	// MinAlignmentExponent and MaxAlignmentExponent bound the header's
	// alignment exponent field: valid range 0..=30.
	MinAlignmentExponent uint8 = 0
	MaxAlignmentExponent uint8 = 30

	// MaxReamExponent bounds the header's ream exponent field: valid range
	// a..=40. The lower bound is the alignment exponent itself and is
	// checked dynamically, not as a constant.
	MaxReamExponent uint8 = 40

	// MaxStringLen is the 1 GiB implementation cap on any length-prefixed
	// byte-string or UTF-8 string.
	MaxStringLen uint64 = 1 << 30

	// HeaderSize is the fixed byte length of the header block:
	// magic(4) + version(2) + align exp(1) + ream exp(1) + variable-ream(1)
	// + timestamp(8) + index offset(8) + index length(8) + index hash(32)
	// + file hash(32) = 97 bytes.
	HeaderSize = 4 + 2 + 1 + 1 + 1 + 8 + 8 + 8 + 32 + 32

	// DefaultAlignmentExponent and DefaultReamExponent are the header's
	// default allocator parameters.
	DefaultAlignmentExponent uint8 = 12
	DefaultReamExponent      uint8 = 16
)

// Byte offsets of each header field, for readers that want to patch a
// single field. The writer itself does not use them: at Finalize it seeks
// to offset 0 and re-serializes the whole header.
const (
	OffMagic       = 0
	OffVersion     = OffMagic + 4
	OffAlignExp    = OffVersion + 2
	OffReamExp     = OffAlignExp + 1
	OffVariableRm  = OffReamExp + 1
	OffTimestamp   = OffVariableRm + 1
	OffIndexOffset = OffTimestamp + 8
	OffIndexLength = OffIndexOffset + 8
	OffIndexHash   = OffIndexLength + 8
	OffFileHash    = OffIndexHash + 32
)
