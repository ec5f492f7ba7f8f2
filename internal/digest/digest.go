// Package digest wraps the BLAKE3 streaming hash used for all integrity
// fields in a BBF file: per-asset content hashes, the asset-region file
// hash, and the index-block hash. The three scopes never share a Hasher
// instance; each caller creates its own.
package digest

import "lukechampine.com/blake3"

// Size is the fixed digest output length in bytes.
const Size = 32

// Hasher is a streaming 256-bit digest: create, Write any number of times,
// then Sum to finalize. It satisfies io.Writer.
type Hasher struct {
	h *blake3.Hasher
}

// New creates a new Hasher ready to accept bytes via Write.
func New() *Hasher {
	return &Hasher{h: blake3.New(Size, nil)}
}

// Write feeds bytes into the running digest. It never returns an error.
func (d *Hasher) Write(p []byte) (int, error) {
	return d.h.Write(p)
}

// Sum finalizes the digest and returns the 32-byte output. The Hasher
// remains usable after Sum (per hash.Hash semantics) but BBF never reuses
// one across scopes, so callers should treat it as consumed.
func (d *Hasher) Sum() [Size]byte {
	var out [Size]byte
	copy(out[:], d.h.Sum(nil))

	return out
}

// Sum256 hashes a single byte slice in one call, for callers that already
// have the full payload in memory (e.g. verifying a small asset).
func Sum256(data []byte) [Size]byte {
	h := New()
	_, _ = h.Write(data)

	return h.Sum()
}
