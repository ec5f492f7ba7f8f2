// Package reader implements the BBF reader state machine:
// Unopened -> HeaderValidated -> Ready. Open() eagerly parses the header
// and index block and structurally validates the index model, but defers
// all hash recomputation to the explicit verify_* operations so that
// opening a file for random-access reads stays cheap.
package reader

import (
	"fmt"
	"io"

	"github.com/TheBearodactyl/boundbook/codec"
	"github.com/TheBearodactyl/boundbook/format"
	"github.com/TheBearodactyl/boundbook/internal/digest"
	"github.com/TheBearodactyl/boundbook/internal/errs"
	"github.com/TheBearodactyl/boundbook/internal/options"
	"github.com/TheBearodactyl/boundbook/index"
)

// State is one of the three reader lifecycle states.
type State uint8

const (
	StateUnopened State = iota
	StateHeaderValidated
	StateReady
)

func (s State) String() string {
	switch s {
	case StateUnopened:
		return "unopened"
	case StateHeaderValidated:
		return "header-validated"
	case StateReady:
		return "ready"
	default:
		return "unknown"
	}
}

// Reader gives random-access, read-only access to a finalized BBF file.
// A Reader is not safe for concurrent use.
type Reader struct {
	src    codec.Source
	cfg    *Config
	header index.Header
	model  *index.Model
	child  *index.ChildIndex

	indexBytes []byte
	state      State
}

// Open parses the header, reads and decodes the index block, and
// structurally validates it. It does not verify any hash; call
// VerifyIndexOnly or VerifyFull for that.
func Open(src codec.Source, opts ...Option) (*Reader, error) {
	cfg := newDefaultConfig()
	if err := options.Apply(cfg, opts...); err != nil {
		return nil, err
	}

	r := &Reader{src: src, cfg: cfg}

	header, err := index.ParseHeader(src)
	if err != nil {
		return nil, err
	}
	r.header = header
	r.state = StateHeaderValidated

	indexBytes := make([]byte, header.IndexLength)
	if err := codec.ReadAt(src, int64(header.IndexOffset), indexBytes); err != nil {
		return nil, err
	}
	r.indexBytes = indexBytes

	model, err := index.DecodeIndex(indexBytes)
	if err != nil {
		return nil, err
	}
	if err := model.Validate(cfg.StrictMetadataScope); err != nil {
		return nil, err
	}
	r.model = model
	r.child = index.BuildChildIndex(model)
	r.state = StateReady

	cfg.Logger.Debugw("reader opened", "assets", len(model.Assets), "pages", len(model.Pages), "sections", len(model.Sections))

	return r, nil
}

// State reports the reader's current lifecycle state.
func (r *Reader) State() State { return r.state }

func (r *Reader) requireReady() error {
	if r.state != StateReady {
		return errs.ErrReaderNotReady
	}

	return nil
}

// AssetCount returns the number of assets in the asset table.
func (r *Reader) AssetCount() (int, error) {
	if err := r.requireReady(); err != nil {
		return 0, err
	}

	return len(r.model.Assets), nil
}

// PageCount returns the number of pages in the page sequence.
func (r *Reader) PageCount() (int, error) {
	if err := r.requireReady(); err != nil {
		return 0, err
	}

	return len(r.model.Pages), nil
}

// Sections returns every declared section, in declaration order.
func (r *Reader) Sections() ([]index.Section, error) {
	if err := r.requireReady(); err != nil {
		return nil, err
	}

	return r.model.Sections, nil
}

// Metadata returns every metadata entry attached to parent. A nil parent
// selects book-level (root) metadata.
func (r *Reader) Metadata(parent *uint32) ([]index.Metadata, error) {
	if err := r.requireReady(); err != nil {
		return nil, err
	}

	var out []index.Metadata
	for _, m := range r.model.Metadata {
		switch {
		case parent == nil && !m.HasParent:
			out = append(out, m)
		case parent != nil && m.HasParent && m.ParentIdx == *parent:
			out = append(out, m)
		}
	}

	return out, nil
}

// AssetBytes reads and returns the literal content of one asset.
func (r *Reader) AssetBytes(assetIndex uint32) ([]byte, error) {
	if err := r.requireReady(); err != nil {
		return nil, err
	}
	if int(assetIndex) >= len(r.model.Assets) {
		return nil, fmt.Errorf("%w: %d", errs.ErrUnknownAsset, assetIndex)
	}

	a := r.model.Assets[assetIndex]
	buf := make([]byte, a.Length)
	if err := codec.ReadAt(r.src, int64(a.Offset), buf); err != nil {
		return nil, err
	}

	return buf, nil
}

// VerifyAsset recomputes one asset's content hash and compares it against
// the stored value.
func (r *Reader) VerifyAsset(assetIndex uint32) error {
	data, err := r.AssetBytes(assetIndex)
	if err != nil {
		return err
	}

	a := r.model.Assets[assetIndex]
	if digest.Sum256(data) != a.ContentHash {
		return fmt.Errorf("%w: asset %d", errs.ErrAssetHashMismatch, assetIndex)
	}

	return nil
}

// VerifyIndexOnly recomputes the index block's digest and compares it
// against the header. It does not touch the asset region and so cannot
// detect a flipped asset byte.
func (r *Reader) VerifyIndexOnly() error {
	if err := r.requireReady(); err != nil {
		return err
	}
	if digest.Sum256(r.indexBytes) != r.header.IndexHash {
		return errs.ErrIndexHashMismatch
	}

	return nil
}

// VerifyFull performs VerifyIndexOnly and additionally recomputes the
// asset-region file hash over every byte between the header end and the
// index block, catching corruption anywhere in asset content or padding.
func (r *Reader) VerifyFull() error {
	if err := r.VerifyIndexOnly(); err != nil {
		return err
	}

	regionLen := int64(r.header.IndexOffset) - format.HeaderSize
	sum, err := r.hashRegion(format.HeaderSize, regionLen)
	if err != nil {
		return err
	}
	if sum != r.header.FileHash {
		return errs.ErrFileHashMismatch
	}

	return nil
}

// hashRegion streams length bytes starting at offset through a fresh
// digest.Hasher in fixed-size chunks, avoiding a single allocation sized
// to the whole asset region.
func (r *Reader) hashRegion(offset, length int64) ([digest.Size]byte, error) {
	const chunkSize = 1 << 16

	h := digest.New()
	buf := make([]byte, chunkSize)

	cur, err := r.src.Position()
	if err != nil {
		return [digest.Size]byte{}, err
	}
	if _, err := r.src.Seek(offset, io.SeekStart); err != nil {
		return [digest.Size]byte{}, err
	}

	remaining := length
	for remaining > 0 {
		step := int64(chunkSize)
		if remaining < step {
			step = remaining
		}
		if _, err := io.ReadFull(r.src, buf[:step]); err != nil {
			return [digest.Size]byte{}, fmt.Errorf("%w: %v", errs.ErrIoError, err)
		}
		if _, err := h.Write(buf[:step]); err != nil {
			return [digest.Size]byte{}, fmt.Errorf("%w: %v", errs.ErrIoError, err)
		}
		remaining -= step
	}

	if _, err := r.src.Seek(cur, io.SeekStart); err != nil {
		return [digest.Size]byte{}, err
	}

	return h.Sum(), nil
}

// ResolveSection resolves a slash- or dot-separated section path to its
// target page.
func (r *Reader) ResolveSection(path string) (page uint32, err error) {
	if err := r.requireReady(); err != nil {
		return 0, err
	}

	page, _, err = r.child.Resolve(path)

	return page, err
}

// Header returns the parsed file header, available once HeaderValidated.
func (r *Reader) Header() (index.Header, error) {
	if r.state == StateUnopened {
		return index.Header{}, errs.ErrReaderNotReady
	}

	return r.header, nil
}
