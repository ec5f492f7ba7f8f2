// Package boundbook provides a content-addressed, page-oriented binary
// container format (BBF v3): a fixed header, an asset table of
// content-hashed blobs, an ordered page sequence, a hierarchical section
// forest for named anchors, and a metadata tree for key/value annotation.
//
// # Basic usage
//
// Writing a file:
//
//	f, _ := os.Create("book.bbf")
//	w, _ := boundbook.Create(codec.NewFileSink(f), writer.WithAlignment(12))
//	asset, _ := w.AddAsset("image/jpeg", pageBytes)
//	w.AddPage(asset)
//	w.AddSection("chapter-1", 0, "")
//	w.Finalize()
//
// Reading it back:
//
//	f, _ := os.Open("book.bbf")
//	r, _ := boundbook.Open(codec.NewFileSource(f))
//	n, _ := r.AssetCount()
//	data, _ := r.AssetBytes(0)
//
// This top-level package is a thin convenience layer; boundbook/writer
// and boundbook/reader expose the full state machines for callers who
// need finer control.
package boundbook

import (
	"github.com/TheBearodactyl/boundbook/codec"
	"github.com/TheBearodactyl/boundbook/reader"
	"github.com/TheBearodactyl/boundbook/writer"
)

// Create opens a new Writer over sink with the given options.
func Create(sink codec.Sink, opts ...writer.Option) (*writer.Writer, error) {
	return writer.Open(sink, opts...)
}

// Open opens a Reader over src, parsing the header and index block.
func Open(src codec.Source, opts ...reader.Option) (*reader.Reader, error) {
	return reader.Open(src, opts...)
}
