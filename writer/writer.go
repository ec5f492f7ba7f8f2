// Package writer implements the BBF writer state machine:
// Open -> Assets-Writing -> Index-Writing -> Finalized, with Poisoned
// reachable from any state on I/O failure. It writes assets in a single
// forward pass, buffers pages/sections/metadata in memory, and patches the
// header in place once the index block has been serialized.
package writer

import (
	"fmt"
	"io"

	"github.com/TheBearodactyl/boundbook/codec"
	"github.com/TheBearodactyl/boundbook/format"
	"github.com/TheBearodactyl/boundbook/internal/digest"
	"github.com/TheBearodactyl/boundbook/internal/errs"
	"github.com/TheBearodactyl/boundbook/internal/options"
	"github.com/TheBearodactyl/boundbook/internal/ream"
	"github.com/TheBearodactyl/boundbook/index"
)

// State is one of the five writer lifecycle states.
type State uint8

const (
	StateOpen State = iota
	StateAssetsWriting
	StateIndexWriting
	StateFinalized
	StatePoisoned
)

func (s State) String() string {
	switch s {
	case StateOpen:
		return "open"
	case StateAssetsWriting:
		return "assets-writing"
	case StateIndexWriting:
		return "index-writing"
	case StateFinalized:
		return "finalized"
	case StatePoisoned:
		return "poisoned"
	default:
		return "unknown"
	}
}

// Writer produces a single BBF file through one forward pass over its
// sink. A Writer is not safe for concurrent use.
type Writer struct {
	sink  codec.Sink
	cfg   *Config
	alloc *ream.Allocator
	model index.Model

	fileHash *digest.Hasher // running hash over the asset region
	state    State
}

// Open writes a placeholder header to sink and returns a Writer ready to
// accept assets. The header is rewritten in place at Finalize once the
// index block's offset, length, and hashes are known.
func Open(sink codec.Sink, opts ...Option) (*Writer, error) {
	cfg := newDefaultConfig()
	if err := options.Apply(cfg, opts...); err != nil {
		return nil, err
	}

	h := index.NewHeader(cfg.AlignExp, cfg.ReamExp, cfg.VariableRream, cfg.Timestamp)
	if err := h.WriteTo(sink); err != nil {
		return nil, err
	}

	w := &Writer{
		sink:     sink,
		cfg:      cfg,
		alloc:    ream.New(h.ReamConfig(), format.HeaderSize),
		fileHash: digest.New(),
		state:    StateOpen,
	}

	cfg.Logger.Debugw("writer opened", "align_exp", cfg.AlignExp, "ream_exp", cfg.ReamExp, "variable_rream", cfg.VariableRream)

	return w, nil
}

// State reports the writer's current lifecycle state.
func (w *Writer) State() State { return w.state }

// requireOpen rejects calls against a writer that has already left the
// mutable states (poisoned by a prior I/O failure, or already finalized).
func (w *Writer) requireOpen() error {
	switch w.state {
	case StatePoisoned:
		return errs.ErrWriterPoisoned
	case StateFinalized:
		return errs.ErrWriterFinalized
	default:
		return nil
	}
}

// AddAsset allocates and writes one content-addressed blob, returning its
// asset index. contentType must be non-empty;
// data must not exceed the 1 GiB implementation cap.
func (w *Writer) AddAsset(contentType string, data []byte) (uint32, error) {
	if err := w.requireOpen(); err != nil {
		return 0, err
	}
	if contentType == "" {
		return 0, fmt.Errorf("%w: content type is empty", errs.ErrContentTypeInvalid)
	}
	if uint64(len(data)) > format.MaxStringLen {
		return 0, fmt.Errorf("%w: asset length %d exceeds %d byte cap", errs.ErrOverflow, len(data), format.MaxStringLen)
	}

	prevCursor := w.alloc.Cursor()
	placement := w.alloc.Allocate(uint64(len(data)))

	if err := w.writeRegion(prevCursor, placement, data); err != nil {
		return 0, w.poison(err)
	}

	idx := uint32(len(w.model.Assets))
	w.model.Assets = append(w.model.Assets, index.Asset{
		Index:       idx,
		ContentType: contentType,
		Length:      uint64(len(data)),
		Offset:      placement.Offset,
		ReamExp:     placement.ReamExp,
		ContentHash: digest.Sum256(data),
	})

	w.state = StateAssetsWriting
	w.cfg.Logger.Debugw("asset added", "index", idx, "offset", placement.Offset, "length", len(data))

	return idx, nil
}

// writeRegion emits the leading alignment padding, the asset bytes, and
// the trailing ream padding, feeding every byte (including padding) into
// the running file hash in ascending offset order: the file hash covers
// every byte between the header end and the index block.
func (w *Writer) writeRegion(prevCursor uint64, placement ream.Placement, data []byte) error {
	leadPad := int64(placement.Offset - prevCursor)
	if err := w.writeHashed(leadPad); err != nil {
		return err
	}

	if len(data) > 0 {
		if _, err := w.sink.Write(data); err != nil {
			return fmt.Errorf("%w: %v", errs.ErrIoError, err)
		}
		if _, err := w.fileHash.Write(data); err != nil {
			return fmt.Errorf("%w: %v", errs.ErrIoError, err)
		}
	}

	trailPad := int64(placement.NextCursor - (placement.Offset + uint64(len(data))))

	return w.writeHashed(trailPad)
}

// writeHashed writes n zero bytes to the sink and feeds them to the file
// hash, chunked the same way codec.WriteZeros is.
func (w *Writer) writeHashed(n int64) error {
	if n <= 0 {
		return nil
	}

	const chunkSize = 4096
	var chunk [chunkSize]byte
	for n > 0 {
		step := int64(chunkSize)
		if n < step {
			step = n
		}
		if _, err := w.sink.Write(chunk[:step]); err != nil {
			return fmt.Errorf("%w: %v", errs.ErrIoError, err)
		}
		if _, err := w.fileHash.Write(chunk[:step]); err != nil {
			return fmt.Errorf("%w: %v", errs.ErrIoError, err)
		}
		n -= step
	}

	return nil
}

// AddPage appends a page referencing an already-added asset and returns
// the new page's position.
func (w *Writer) AddPage(assetIndex uint32) (uint32, error) {
	if err := w.requireOpen(); err != nil {
		return 0, err
	}
	if int(assetIndex) >= len(w.model.Assets) {
		return 0, fmt.Errorf("%w: asset %d, have %d assets", errs.ErrUnknownAsset, assetIndex, len(w.model.Assets))
	}

	pos := uint32(len(w.model.Pages))
	w.model.Pages = append(w.model.Pages, index.Page{Position: pos, AssetIndex: assetIndex})

	return pos, nil
}

// AddSection declares a named anchor targeting an already-added page.
// parentPath is the slash- or dot-separated
// path of an already-declared parent section, or "" for a root section.
// The target page must already have been added: pages and sections may be
// interleaved, but a section may only reference a page number that exists
// at the time of the call.
func (w *Writer) AddSection(name string, targetPage uint32, parentPath string) (uint32, error) {
	if err := w.requireOpen(); err != nil {
		return 0, err
	}
	if int(targetPage) >= len(w.model.Pages) {
		return 0, fmt.Errorf("%w: section %q targets page %d, have %d pages", errs.ErrPageOutOfRange, name, targetPage, len(w.model.Pages))
	}

	s := index.Section{Name: name, TargetPage: targetPage}
	if parentPath != "" {
		parentIdx, err := w.resolveSection(parentPath)
		if err != nil {
			return 0, err
		}
		s.HasParent = true
		s.ParentIdx = parentIdx
	}

	if err := w.checkSiblingUnique(s); err != nil {
		return 0, err
	}

	idx := uint32(len(w.model.Sections))
	w.model.Sections = append(w.model.Sections, s)

	return idx, nil
}

func (w *Writer) checkSiblingUnique(s index.Section) error {
	for _, existing := range w.model.Sections {
		if existing.HasParent != s.HasParent {
			continue
		}
		if existing.HasParent && existing.ParentIdx != s.ParentIdx {
			continue
		}
		if existing.Name == s.Name {
			return fmt.Errorf("%w: %q", errs.ErrDuplicateSection, s.Name)
		}
	}

	return nil
}

func (w *Writer) resolveSection(path string) (uint32, error) {
	ci := index.BuildChildIndex(&w.model)
	_, idx, err := ci.Resolve(path)

	return idx, err
}

// AddMetadata attaches a key/value pair to the book (parentPath == "") or
// to an already-declared section. Key
// uniqueness scope follows WithStrictMetadataScope.
func (w *Writer) AddMetadata(key, value, parentPath string) error {
	if err := w.requireOpen(); err != nil {
		return err
	}
	if key == "" {
		return fmt.Errorf("%w: metadata key is empty", errs.ErrHeaderInvalid)
	}

	m := index.Metadata{Key: key, Value: value}
	if parentPath != "" {
		parentIdx, err := w.resolveSection(parentPath)
		if err != nil {
			return err
		}
		m.HasParent = true
		m.ParentIdx = parentIdx
	}

	if err := w.checkMetadataUnique(m); err != nil {
		return err
	}

	w.model.Metadata = append(w.model.Metadata, m)

	return nil
}

func (w *Writer) checkMetadataUnique(m index.Metadata) error {
	for _, existing := range w.model.Metadata {
		sameScope := w.cfg.StrictMetadataScope ||
			(existing.HasParent == m.HasParent && (!m.HasParent || existing.ParentIdx == m.ParentIdx))
		if sameScope && existing.Key == m.Key {
			return fmt.Errorf("%w: %q", errs.ErrDuplicateMetadataKey, m.Key)
		}
	}

	return nil
}

// Finalize validates the buffered index model, serializes it, patches the
// header in place, and flushes the sink. A
// validation failure aborts finalize without poisoning the writer; an I/O
// failure poisons it.
func (w *Writer) Finalize() error {
	if err := w.requireOpen(); err != nil {
		return err
	}
	if err := w.model.Validate(w.cfg.StrictMetadataScope); err != nil {
		return err
	}

	w.state = StateIndexWriting

	indexBytes, indexHash, err := w.encodeIndex()
	if err != nil {
		return w.poison(err)
	}

	prevCursor := w.alloc.Cursor()
	indexOffset := roundUpAlign(prevCursor, w.cfg.AlignExp)
	if err := w.writeHashed(int64(indexOffset - prevCursor)); err != nil {
		return w.poison(err)
	}
	if _, err := w.sink.Write(indexBytes); err != nil {
		return w.poison(fmt.Errorf("%w: %v", errs.ErrIoError, err))
	}

	h := index.NewHeader(w.cfg.AlignExp, w.cfg.ReamExp, w.cfg.VariableRream, w.cfg.Timestamp)
	h.IndexOffset = indexOffset
	h.IndexLength = uint64(len(indexBytes))
	h.IndexHash = indexHash
	h.FileHash = w.fileHash.Sum()

	if _, err := w.sink.Seek(0, io.SeekStart); err != nil {
		return w.poison(fmt.Errorf("%w: %v", errs.ErrIoError, err))
	}
	if err := h.WriteTo(w.sink); err != nil {
		return w.poison(err)
	}
	if err := w.sink.Flush(); err != nil {
		return w.poison(fmt.Errorf("%w: %v", errs.ErrIoError, err))
	}

	w.state = StateFinalized
	w.cfg.Logger.Debugw("writer finalized", "index_offset", indexOffset, "index_length", len(indexBytes))

	return nil
}

func (w *Writer) encodeIndex() ([]byte, [digest.Size]byte, error) {
	buf := codec.NewMemSink()
	if err := index.EncodeIndex(buf, &w.model); err != nil {
		return nil, [digest.Size]byte{}, err
	}

	return buf.Bytes(), digest.Sum256(buf.Bytes()), nil
}

func (w *Writer) poison(err error) error {
	w.state = StatePoisoned
	w.cfg.Logger.Errorw("writer poisoned", "error", err)

	return err
}

func roundUpAlign(cursor uint64, alignExp uint8) uint64 {
	size := uint64(1) << alignExp

	return (cursor + size - 1) &^ (size - 1)
}
