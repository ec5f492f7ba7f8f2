// Package codec implements the BBF primitive wire codec: little-endian
// fixed-width integers and length-prefixed byte-strings / UTF-8 strings,
// read from and written to a seekable byte source or sink.
//
// The interfaces describe a byte sink (write, seek, position, flush) and
// a byte source (read, seek, position, len) rather than the stdlib
// io.ReadWriteSeeker, so that a caller can hand in anything from an
// *os.File to an in-memory buffer without the codec caring which.
package codec

import (
	"io"
)

// Sink is a random-access byte destination: the writer's exclusive view
// of the file it is producing. The writer owns its sink exclusively
// until finalize or drop.
type Sink interface {
	io.Writer

	// Seek repositions the write cursor, following io.Seeker semantics.
	Seek(offset int64, whence int) (int64, error)

	// Position reports the current write cursor.
	Position() (int64, error)

	// Flush ensures all written bytes have reached stable storage.
	Flush() error
}

// Source is a random-access byte origin: the reader's view of a
// finalized file.
type Source interface {
	io.Reader

	// Seek repositions the read cursor, following io.Seeker semantics.
	Seek(offset int64, whence int) (int64, error)

	// Position reports the current read cursor.
	Position() (int64, error)

	// Len reports the total byte length of the source.
	Len() (int64, error)
}

// ReadAt reads exactly len(buf) bytes starting at offset, restoring the
// source's prior cursor position afterward. It backs random-access asset
// lookups and hash verification, which must not disturb a sequential
// reader sharing the same cursor-based Source.
func ReadAt(src Source, offset int64, buf []byte) error {
	cur, err := src.Position()
	if err != nil {
		return err
	}

	if _, err := src.Seek(offset, io.SeekStart); err != nil {
		return err
	}

	err = readFull(src, buf)

	if _, seekErr := src.Seek(cur, io.SeekStart); seekErr != nil && err == nil {
		err = seekErr
	}

	return err
}
