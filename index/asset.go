package index

import (
	"fmt"
	"io"

	"github.com/TheBearodactyl/boundbook/codec"
	"github.com/TheBearodactyl/boundbook/internal/digest"
	"github.com/TheBearodactyl/boundbook/internal/errs"
)

// Asset is one stored blob's index record.
type Asset struct {
	Index       uint32
	ContentType string
	Length      uint64
	Offset      uint64
	ReamExp     uint8
	ContentHash [digest.Size]byte
}

func (a Asset) writeTo(w io.Writer) error {
	if err := codec.WriteUint32(w, a.Index); err != nil {
		return err
	}
	if err := codec.WriteString(w, a.ContentType); err != nil {
		return err
	}
	if err := codec.WriteUint64(w, a.Length); err != nil {
		return err
	}
	if err := codec.WriteUint64(w, a.Offset); err != nil {
		return err
	}
	if err := codec.WriteUint8(w, a.ReamExp); err != nil {
		return err
	}
	_, err := w.Write(a.ContentHash[:])

	return wrapIO(err)
}

func readAsset(r io.Reader) (Asset, error) {
	var a Asset
	var err error

	if a.Index, err = codec.ReadUint32(r); err != nil {
		return Asset{}, err
	}
	if a.ContentType, err = codec.ReadString(r); err != nil {
		return Asset{}, err
	}
	if a.Length, err = codec.ReadUint64(r); err != nil {
		return Asset{}, err
	}
	if a.Offset, err = codec.ReadUint64(r); err != nil {
		return Asset{}, err
	}
	if a.ReamExp, err = codec.ReadUint8(r); err != nil {
		return Asset{}, err
	}
	if _, err := io.ReadFull(r, a.ContentHash[:]); err != nil {
		return Asset{}, fmt.Errorf("%w: %v", errs.ErrUnexpectedEOF, err)
	}

	return a, nil
}

// Page is an ordered reference into the asset table.
type Page struct {
	Position   uint32
	AssetIndex uint32
}

func (p Page) writeTo(w io.Writer) error {
	if err := codec.WriteUint32(w, p.Position); err != nil {
		return err
	}

	return codec.WriteUint32(w, p.AssetIndex)
}

func readPage(r io.Reader) (Page, error) {
	var p Page
	var err error

	if p.Position, err = codec.ReadUint32(r); err != nil {
		return Page{}, err
	}
	if p.AssetIndex, err = codec.ReadUint32(r); err != nil {
		return Page{}, err
	}

	return p, nil
}

func wrapIO(err error) error {
	if err == nil {
		return nil
	}

	return fmt.Errorf("%w: %v", errs.ErrIoError, err)
}
