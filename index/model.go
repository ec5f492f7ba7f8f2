// Package index is the in-memory representation of a BBF file's header,
// asset table, page sequence, section forest, and metadata tree
// plus the encode/decode of the index block itself.
package index

import (
	"bytes"
	"fmt"
	"io"

	"github.com/TheBearodactyl/boundbook/codec"
	"github.com/TheBearodactyl/boundbook/internal/errs"
	"go.uber.org/multierr"
)

// Model holds every entity the writer buffers before finalize and every
// entity the reader parses from the index block.
type Model struct {
	Assets   []Asset
	Pages    []Page
	Sections []Section
	Metadata []Metadata
}

// EncodeIndex serializes the index block in the exact order a conforming
// reader expects: asset count + records, page count + records, section
// count + records, metadata count + records.
func EncodeIndex(w io.Writer, m *Model) error {
	if err := writeCount(w, len(m.Assets)); err != nil {
		return err
	}
	for _, a := range m.Assets {
		if err := a.writeTo(w); err != nil {
			return err
		}
	}

	if err := writeCount(w, len(m.Pages)); err != nil {
		return err
	}
	for _, p := range m.Pages {
		if err := p.writeTo(w); err != nil {
			return err
		}
	}

	if err := writeCount(w, len(m.Sections)); err != nil {
		return err
	}
	for _, s := range m.Sections {
		if err := s.writeTo(w); err != nil {
			return err
		}
	}

	if err := writeCount(w, len(m.Metadata)); err != nil {
		return err
	}
	for _, md := range m.Metadata {
		if err := md.writeTo(w); err != nil {
			return err
		}
	}

	return nil
}

// DecodeIndex parses an exact index block. Any byte left over after the
// last metadata record is a hard TrailingGarbage error: the index
// block's byte length is exact.
func DecodeIndex(data []byte) (*Model, error) {
	r := bytes.NewReader(data)
	m := &Model{}

	assetCount, err := readCount(r)
	if err != nil {
		return nil, err
	}
	m.Assets = make([]Asset, assetCount)
	for i := range m.Assets {
		if m.Assets[i], err = readAsset(r); err != nil {
			return nil, err
		}
	}

	pageCount, err := readCount(r)
	if err != nil {
		return nil, err
	}
	m.Pages = make([]Page, pageCount)
	for i := range m.Pages {
		if m.Pages[i], err = readPage(r); err != nil {
			return nil, err
		}
	}

	sectionCount, err := readCount(r)
	if err != nil {
		return nil, err
	}
	m.Sections = make([]Section, sectionCount)
	for i := range m.Sections {
		if m.Sections[i], err = readSection(r); err != nil {
			return nil, err
		}
	}

	metaCount, err := readCount(r)
	if err != nil {
		return nil, err
	}
	m.Metadata = make([]Metadata, metaCount)
	for i := range m.Metadata {
		if m.Metadata[i], err = readMetadata(r); err != nil {
			return nil, err
		}
	}

	if r.Len() != 0 {
		return nil, fmt.Errorf("%w: %d unparsed bytes at end of index block", errs.ErrTrailingGarbage, r.Len())
	}

	return m, nil
}

// Validate checks every cross-referencing invariant in the index model:
// page->asset existence, section forest shape, and metadata key scope.
// strictMetadata selects whole-file metadata key uniqueness instead of
// the default per-parent scope.
func (m *Model) Validate(strictMetadata bool) error {
	var errOut error

	for _, p := range m.Pages {
		if int(p.AssetIndex) >= len(m.Assets) {
			errOut = multierr.Append(errOut, fmt.Errorf("%w: page %d references asset %d, have %d assets", errs.ErrUnknownAsset, p.Position, p.AssetIndex, len(m.Assets)))
		}
	}

	if err := validateSectionForest(m.Sections, len(m.Pages)); err != nil {
		errOut = multierr.Append(errOut, err)
	}
	if err := validateMetadata(m.Metadata, len(m.Sections), strictMetadata); err != nil {
		errOut = multierr.Append(errOut, err)
	}

	return errOut
}

func writeCount(w io.Writer, n int) error {
	return codec.WriteUint32(w, uint32(n))
}

func readCount(r io.Reader) (uint32, error) {
	return codec.ReadUint32(r)
}
