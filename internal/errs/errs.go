// Package errs declares the sentinel error kinds returned by the BBF codec.
//
// Every fallible operation in codec, format, index, writer, and reader
// returns one of these sentinels, wrapped with fmt.Errorf("%w: ...") to
// add offending offsets or indices. Callers use errors.Is against the
// sentinels; the exhaustive list mirrors the disjoint error kinds of the
// BBF container contract.
package errs

import "errors"

var (
	// ErrIoError wraps a failure from the underlying byte sink or source.
	ErrIoError = errors.New("bbf: io error")

	// ErrUnexpectedEOF is returned when a read runs out of bytes mid-field.
	ErrUnexpectedEOF = errors.New("bbf: unexpected eof")

	// ErrMalformedUTF8 is returned when a string field is not well-formed UTF-8.
	ErrMalformedUTF8 = errors.New("bbf: malformed utf-8")

	// ErrOverflow is returned when a decoded length exceeds the 1 GiB implementation limit.
	ErrOverflow = errors.New("bbf: length exceeds implementation limit")

	// ErrMagicMismatch is returned when the header magic bytes are not "BBF\0".
	ErrMagicMismatch = errors.New("bbf: magic mismatch")

	// ErrUnsupportedVersion is returned when the header format version is not 3.
	ErrUnsupportedVersion = errors.New("bbf: unsupported format version")

	// ErrHeaderInvalid is returned for out-of-range exponents or impossible offsets.
	ErrHeaderInvalid = errors.New("bbf: header invalid")

	// ErrTrailingGarbage is returned when bytes remain after parsing an exact-length block.
	ErrTrailingGarbage = errors.New("bbf: trailing garbage")

	// ErrIndexHashMismatch is returned when the index block digest does not match the header.
	ErrIndexHashMismatch = errors.New("bbf: index hash mismatch")

	// ErrFileHashMismatch is returned when the asset-region digest does not match the header.
	ErrFileHashMismatch = errors.New("bbf: file hash mismatch")

	// ErrAssetHashMismatch is returned when an asset's content hash does not match its stored bytes.
	ErrAssetHashMismatch = errors.New("bbf: asset hash mismatch")

	// ErrUnknownAsset is returned when an operation references an asset index that does not exist.
	ErrUnknownAsset = errors.New("bbf: unknown asset index")

	// ErrUnknownParent is returned when a section or metadata entry references an undeclared parent.
	ErrUnknownParent = errors.New("bbf: unknown parent section")

	// ErrDuplicateSection is returned when a section name is reused among siblings.
	ErrDuplicateSection = errors.New("bbf: duplicate section name")

	// ErrDuplicateMetadataKey is returned when a metadata key is reused within its uniqueness scope.
	ErrDuplicateMetadataKey = errors.New("bbf: duplicate metadata key")

	// ErrPageOutOfRange is returned when a section's target page index does not exist.
	ErrPageOutOfRange = errors.New("bbf: page index out of range")

	// ErrContentTypeInvalid is returned when an asset's content-type tag is empty or malformed.
	ErrContentTypeInvalid = errors.New("bbf: invalid content type")

	// ErrWriterPoisoned is returned by every operation on a writer that previously failed with an I/O error.
	ErrWriterPoisoned = errors.New("bbf: writer is poisoned")

	// ErrWriterFinalized is returned by every mutating operation on a writer that already completed Finalize.
	ErrWriterFinalized = errors.New("bbf: writer already finalized")

	// ErrReaderNotReady is returned when an operation that requires a fully
	// opened reader is called before open() has completed.
	ErrReaderNotReady = errors.New("bbf: reader is not ready")
)
