package index

import (
	"fmt"
	"io"
	"time"

	"github.com/TheBearodactyl/boundbook/codec"
	"github.com/TheBearodactyl/boundbook/format"
	"github.com/TheBearodactyl/boundbook/internal/digest"
	"github.com/TheBearodactyl/boundbook/internal/errs"
	"github.com/TheBearodactyl/boundbook/internal/ream"
	"go.uber.org/multierr"
)

// Header is the fixed 97-byte block at offset 0 of every BBF file.
type Header struct {
	AlignExp      uint8
	ReamExp       uint8
	VariableRream bool
	Timestamp     int64 // unix seconds
	IndexOffset   uint64
	IndexLength   uint64
	IndexHash     [digest.Size]byte
	FileHash      [digest.Size]byte
}

// NewHeader builds a header from allocator configuration and a creation
// timestamp. Index offset/length and the two hashes are zero until the
// writer finalizes the file.
func NewHeader(alignExp, reamExp uint8, variableRream bool, ts time.Time) Header {
	return Header{
		AlignExp:      alignExp,
		ReamExp:       reamExp,
		VariableRream: variableRream,
		Timestamp:     ts.Unix(),
	}
}

// ReamConfig extracts the allocator configuration embedded in the header.
func (h Header) ReamConfig() ream.Config {
	return ream.Config{AlignExp: h.AlignExp, ReamExp: h.ReamExp, VariableRream: h.VariableRream}
}

// TimestampAsTime returns the creation timestamp as a time.Time.
func (h Header) TimestampAsTime() time.Time {
	return time.Unix(h.Timestamp, 0).UTC()
}

// WriteTo serializes the header in field order to w.
func (h Header) WriteTo(w io.Writer) error {
	if _, err := w.Write(format.Magic[:]); err != nil {
		return fmt.Errorf("%w: %v", errs.ErrIoError, err)
	}
	if err := codec.WriteUint16(w, format.Version); err != nil {
		return err
	}
	if err := codec.WriteUint8(w, h.AlignExp); err != nil {
		return err
	}
	if err := codec.WriteUint8(w, h.ReamExp); err != nil {
		return err
	}
	variableRream := uint8(0)
	if h.VariableRream {
		variableRream = 1
	}
	if err := codec.WriteUint8(w, variableRream); err != nil {
		return err
	}
	if err := codec.WriteInt64(w, h.Timestamp); err != nil {
		return err
	}
	if err := codec.WriteUint64(w, h.IndexOffset); err != nil {
		return err
	}
	if err := codec.WriteUint64(w, h.IndexLength); err != nil {
		return err
	}
	if _, err := w.Write(h.IndexHash[:]); err != nil {
		return fmt.Errorf("%w: %v", errs.ErrIoError, err)
	}
	if _, err := w.Write(h.FileHash[:]); err != nil {
		return fmt.Errorf("%w: %v", errs.ErrIoError, err)
	}

	return nil
}

// ParseHeader reads and validates a header from r. Magic mismatch and
// unsupported version are reported before any range validation so callers
// can distinguish "not a BBF file" from "a corrupt BBF file".
func ParseHeader(r io.Reader) (Header, error) {
	var magic [4]byte
	if _, err := io.ReadFull(r, magic[:]); err != nil {
		return Header{}, fmt.Errorf("%w: %v", errs.ErrUnexpectedEOF, err)
	}
	if magic != format.Magic {
		return Header{}, fmt.Errorf("%w: got %x", errs.ErrMagicMismatch, magic)
	}

	version, err := codec.ReadUint16(r)
	if err != nil {
		return Header{}, err
	}
	if version != format.Version {
		return Header{}, fmt.Errorf("%w: version %d", errs.ErrUnsupportedVersion, version)
	}

	var h Header
	if h.AlignExp, err = codec.ReadUint8(r); err != nil {
		return Header{}, err
	}
	if h.ReamExp, err = codec.ReadUint8(r); err != nil {
		return Header{}, err
	}

	variableRream, err := codec.ReadUint8(r)
	if err != nil {
		return Header{}, err
	}
	if variableRream > 1 {
		return Header{}, fmt.Errorf("%w: variable-ream flag byte %d", errs.ErrHeaderInvalid, variableRream)
	}
	h.VariableRream = variableRream == 1

	if h.Timestamp, err = codec.ReadInt64(r); err != nil {
		return Header{}, err
	}
	if h.IndexOffset, err = codec.ReadUint64(r); err != nil {
		return Header{}, err
	}
	if h.IndexLength, err = codec.ReadUint64(r); err != nil {
		return Header{}, err
	}
	if _, err := io.ReadFull(r, h.IndexHash[:]); err != nil {
		return Header{}, fmt.Errorf("%w: %v", errs.ErrUnexpectedEOF, err)
	}
	if _, err := io.ReadFull(r, h.FileHash[:]); err != nil {
		return Header{}, fmt.Errorf("%w: %v", errs.ErrUnexpectedEOF, err)
	}

	if err := h.Validate(); err != nil {
		return Header{}, err
	}

	return h, nil
}

// Validate checks the header's range invariants, aggregating every
// violation found rather than stopping at the first.
func (h Header) Validate() error {
	var errOut error

	if err := ream.Validate(h.ReamConfig(), format.MaxAlignmentExponent, format.MaxReamExponent); err != nil {
		errOut = multierr.Append(errOut, fmt.Errorf("%w: %v", errs.ErrHeaderInvalid, err))
	}
	if h.IndexOffset < format.HeaderSize {
		errOut = multierr.Append(errOut, fmt.Errorf("%w: index offset %d precedes header end", errs.ErrHeaderInvalid, h.IndexOffset))
	}
	if h.AlignExp <= format.MaxAlignmentExponent && h.IndexOffset%(uint64(1)<<h.AlignExp) != 0 {
		errOut = multierr.Append(errOut, fmt.Errorf("%w: index offset %d is not aligned", errs.ErrHeaderInvalid, h.IndexOffset))
	}

	return errOut
}
