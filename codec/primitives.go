package codec

import (
	"encoding/binary"
	"fmt"
	"io"
	"unicode/utf8"

	"github.com/TheBearodactyl/boundbook/format"
	"github.com/TheBearodactyl/boundbook/internal/errs"
)

// WriteUint8 writes a single byte.
func WriteUint8(w io.Writer, v uint8) error {
	_, err := w.Write([]byte{v})
	return wrapIO(err)
}

// WriteUint16 writes a little-endian uint16.
func WriteUint16(w io.Writer, v uint16) error {
	var b [2]byte
	binary.LittleEndian.PutUint16(b[:], v)
	_, err := w.Write(b[:])
	return wrapIO(err)
}

// WriteUint32 writes a little-endian uint32.
func WriteUint32(w io.Writer, v uint32) error {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	_, err := w.Write(b[:])
	return wrapIO(err)
}

// WriteUint64 writes a little-endian uint64.
func WriteUint64(w io.Writer, v uint64) error {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], v)
	_, err := w.Write(b[:])
	return wrapIO(err)
}

// WriteInt64 writes a little-endian two's-complement int64.
func WriteInt64(w io.Writer, v int64) error {
	return WriteUint64(w, uint64(v))
}

// WriteBytes writes a 64-bit length prefix followed by the literal bytes.
func WriteBytes(w io.Writer, p []byte) error {
	if err := WriteUint64(w, uint64(len(p))); err != nil {
		return err
	}
	if len(p) == 0 {
		return nil
	}
	_, err := w.Write(p)

	return wrapIO(err)
}

// WriteString writes a length-prefixed UTF-8 string.
func WriteString(w io.Writer, s string) error {
	return WriteBytes(w, []byte(s))
}

// WriteZeros writes n zero-valued padding bytes.
func WriteZeros(w io.Writer, n int64) error {
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
		if _, err := w.Write(chunk[:step]); err != nil {
			return wrapIO(err)
		}
		n -= step
	}

	return nil
}

// ReadUint8 reads a single byte.
func ReadUint8(r io.Reader) (uint8, error) {
	var b [1]byte
	if err := readFull(r, b[:]); err != nil {
		return 0, err
	}

	return b[0], nil
}

// ReadUint16 reads a little-endian uint16.
func ReadUint16(r io.Reader) (uint16, error) {
	var b [2]byte
	if err := readFull(r, b[:]); err != nil {
		return 0, err
	}

	return binary.LittleEndian.Uint16(b[:]), nil
}

// ReadUint32 reads a little-endian uint32.
func ReadUint32(r io.Reader) (uint32, error) {
	var b [4]byte
	if err := readFull(r, b[:]); err != nil {
		return 0, err
	}

	return binary.LittleEndian.Uint32(b[:]), nil
}

// ReadUint64 reads a little-endian uint64.
func ReadUint64(r io.Reader) (uint64, error) {
	var b [8]byte
	if err := readFull(r, b[:]); err != nil {
		return 0, err
	}

	return binary.LittleEndian.Uint64(b[:]), nil
}

// ReadInt64 reads a little-endian two's-complement int64.
func ReadInt64(r io.Reader) (int64, error) {
	v, err := ReadUint64(r)
	return int64(v), err
}

// ReadBytes reads a 64-bit length prefix followed by that many bytes.
// The decoded length is rejected with ErrOverflow if it exceeds
// format.MaxStringLen.
func ReadBytes(r io.Reader) ([]byte, error) {
	n, err := ReadUint64(r)
	if err != nil {
		return nil, err
	}
	if n > format.MaxStringLen {
		return nil, fmt.Errorf("%w: length %d exceeds %d byte cap", errs.ErrOverflow, n, format.MaxStringLen)
	}
	if n == 0 {
		return []byte{}, nil
	}

	buf := make([]byte, n)
	if err := readFull(r, buf); err != nil {
		return nil, err
	}

	return buf, nil
}

// ReadString reads a length-prefixed byte-string and validates it is
// well-formed UTF-8.
func ReadString(r io.Reader) (string, error) {
	b, err := ReadBytes(r)
	if err != nil {
		return "", err
	}
	if !utf8.Valid(b) {
		return "", errs.ErrMalformedUTF8
	}

	return string(b), nil
}

func readFull(r io.Reader, buf []byte) error {
	_, err := io.ReadFull(r, buf)
	if err == io.EOF || err == io.ErrUnexpectedEOF {
		return errs.ErrUnexpectedEOF
	}

	return wrapIO(err)
}

func wrapIO(err error) error {
	if err == nil {
		return nil
	}

	return fmt.Errorf("%w: %v", errs.ErrIoError, err)
}
