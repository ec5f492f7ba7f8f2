package writer_test

import (
	"testing"
	"time"

	"github.com/TheBearodactyl/boundbook/codec"
	"github.com/TheBearodactyl/boundbook/internal/errs"
	"github.com/TheBearodactyl/boundbook/reader"
	"github.com/TheBearodactyl/boundbook/writer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedTime = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

// firstAssetOffset is where the first asset lands under the default
// alignment exponent (12, i.e. 4096-byte alignment): the header ends at
// byte 97, rounded up to the next 4096 boundary.
const firstAssetOffset = 4096

func buildSimpleBook(t *testing.T, opts ...writer.Option) []byte {
	t.Helper()

	sink := codec.NewMemSink()
	allOpts := append([]writer.Option{writer.WithTimestamp(fixedTime)}, opts...)
	w, err := writer.Open(sink, allOpts...)
	require.NoError(t, err)

	a0, err := w.AddAsset("image/png", []byte("cover bytes"))
	require.NoError(t, err)
	a1, err := w.AddAsset("image/png", []byte("page one bytes"))
	require.NoError(t, err)

	p0, err := w.AddPage(a0)
	require.NoError(t, err)
	p1, err := w.AddPage(a1)
	require.NoError(t, err)

	_, err = w.AddSection("chapter-1", p1, "")
	require.NoError(t, err)
	_, err = w.AddSection("cover", p0, "")
	require.NoError(t, err)

	require.NoError(t, w.AddMetadata("title", "Example Book", ""))
	require.NoError(t, w.AddMetadata("author", "chapter author", "chapter-1"))

	require.NoError(t, w.Finalize())

	return sink.Bytes()
}

func TestWriter_RoundTripThroughReader(t *testing.T) {
	data := buildSimpleBook(t)

	r, err := reader.Open(codec.NewMemSource(data))
	require.NoError(t, err)

	count, err := r.AssetCount()
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	pages, err := r.PageCount()
	require.NoError(t, err)
	assert.Equal(t, 2, pages)

	b0, err := r.AssetBytes(0)
	require.NoError(t, err)
	assert.Equal(t, []byte("cover bytes"), b0)

	b1, err := r.AssetBytes(1)
	require.NoError(t, err)
	assert.Equal(t, []byte("page one bytes"), b1)

	page, err := r.ResolveSection("chapter-1")
	require.NoError(t, err)
	assert.Equal(t, uint32(1), page)

	meta, err := r.Metadata(nil)
	require.NoError(t, err)
	require.Len(t, meta, 1)
	assert.Equal(t, "title", meta[0].Key)
}

func TestWriter_CanonicalFormIsDeterministic(t *testing.T) {
	first := buildSimpleBook(t)
	second := buildSimpleBook(t)

	assert.Equal(t, first, second, "two writers fed the same calls and timestamp must produce byte-identical output")
}

func TestWriter_VerifyFullDetectsFlippedAssetByte(t *testing.T) {
	data := buildSimpleBook(t)
	corrupt := append([]byte(nil), data...)
	corrupt[firstAssetOffset+2] ^= 0xFF

	r, err := reader.Open(codec.NewMemSource(corrupt))
	require.NoError(t, err)

	assert.ErrorIs(t, r.VerifyFull(), errs.ErrFileHashMismatch)
}

func TestWriter_VerifyIndexOnlyDetectsFlippedIndexByte(t *testing.T) {
	data := buildSimpleBook(t)

	probe, err := reader.Open(codec.NewMemSource(data))
	require.NoError(t, err)
	header, err := probe.Header()
	require.NoError(t, err)

	corrupt := append([]byte(nil), data...)
	flipAt := int(header.IndexOffset) + 4
	corrupt[flipAt] ^= 0xFF

	r, err := reader.Open(codec.NewMemSource(corrupt))
	require.NoError(t, err)

	assert.ErrorIs(t, r.VerifyIndexOnly(), errs.ErrIndexHashMismatch)
	assert.ErrorIs(t, r.VerifyFull(), errs.ErrIndexHashMismatch)
}

func TestWriter_VerifyAssetIsolatesSingleAsset(t *testing.T) {
	data := buildSimpleBook(t)
	corrupt := append([]byte(nil), data...)
	corrupt[firstAssetOffset+2] ^= 0xFF

	r, err := reader.Open(codec.NewMemSource(corrupt))
	require.NoError(t, err)

	assert.ErrorIs(t, r.VerifyAsset(0), errs.ErrAssetHashMismatch)
	assert.NoError(t, r.VerifyAsset(1), "corrupting asset 0 must not affect asset 1's own hash")
}

func TestWriter_DuplicateSiblingSectionRejected(t *testing.T) {
	sink := codec.NewMemSink()
	w, err := writer.Open(sink, writer.WithTimestamp(fixedTime))
	require.NoError(t, err)

	a0, err := w.AddAsset("image/png", []byte("x"))
	require.NoError(t, err)
	p0, err := w.AddPage(a0)
	require.NoError(t, err)

	_, err = w.AddSection("intro", p0, "")
	require.NoError(t, err)
	_, err = w.AddSection("intro", p0, "")
	assert.ErrorIs(t, err, errs.ErrDuplicateSection)
}

func TestWriter_SectionTargetingUnknownPageRejected(t *testing.T) {
	sink := codec.NewMemSink()
	w, err := writer.Open(sink, writer.WithTimestamp(fixedTime))
	require.NoError(t, err)

	_, err = w.AddSection("intro", 0, "")
	assert.ErrorIs(t, err, errs.ErrPageOutOfRange)
}

func TestWriter_AddAssetAfterFinalizeRejected(t *testing.T) {
	sink := codec.NewMemSink()
	w, err := writer.Open(sink, writer.WithTimestamp(fixedTime))
	require.NoError(t, err)

	_, err = w.AddAsset("image/png", []byte("a"))
	require.NoError(t, err)
	require.NoError(t, w.Finalize())

	_, err = w.AddAsset("image/png", []byte("b"))
	assert.ErrorIs(t, err, errs.ErrWriterFinalized)

	assert.ErrorIs(t, w.Finalize(), errs.ErrWriterFinalized, "finalize is not idempotent")
}

func TestWriter_ZeroAssetFinalizeVerifiesFull(t *testing.T) {
	sink := codec.NewMemSink()
	w, err := writer.Open(sink, writer.WithTimestamp(fixedTime))
	require.NoError(t, err)

	require.NoError(t, w.Finalize())

	r, err := reader.Open(codec.NewMemSource(sink.Bytes()))
	require.NoError(t, err)

	count, err := r.AssetCount()
	require.NoError(t, err)
	assert.Equal(t, 0, count)

	assert.NoError(t, r.VerifyFull(), "the pre-index padding of an empty book must be hashed like any other padding")
}

func TestWriter_DuplicateMetadataKeySameScopeRejected(t *testing.T) {
	sink := codec.NewMemSink()
	w, err := writer.Open(sink, writer.WithTimestamp(fixedTime))
	require.NoError(t, err)

	require.NoError(t, w.AddMetadata("title", "one", ""))
	err = w.AddMetadata("title", "two", "")
	assert.ErrorIs(t, err, errs.ErrDuplicateMetadataKey)
}
