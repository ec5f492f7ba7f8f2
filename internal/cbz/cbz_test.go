package cbz_test

import (
	"archive/zip"
	"bytes"
	"testing"
	"time"

	"github.com/TheBearodactyl/boundbook/codec"
	"github.com/TheBearodactyl/boundbook/internal/cbz"
	"github.com/TheBearodactyl/boundbook/reader"
	"github.com/TheBearodactyl/boundbook/writer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildZip(t *testing.T, files map[string]string) *zip.Reader {
	t.Helper()

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, content := range files {
		f, err := zw.Create(name)
		require.NoError(t, err)
		_, err = f.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())

	zr, err := zip.NewReader(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	require.NoError(t, err)

	return zr
}

func TestContentType_InfersFromExtension(t *testing.T) {
	assert.Equal(t, "image/png", cbz.ContentType("page-001.png"))
	assert.Equal(t, "image/jpeg", cbz.ContentType("PAGE-002.JPG"))
	assert.Equal(t, "application/octet-stream", cbz.ContentType("notes.txt"))
}

func TestConvert_OrdersEntriesByFilenameAndSkipsDirectories(t *testing.T) {
	zr := buildZip(t, map[string]string{
		"002.png": "second page",
		"001.png": "first page",
		"sub/":    "",
		"003.jpg": "third page",
	})

	sink := codec.NewMemSink()
	w, err := writer.Open(sink, writer.WithTimestamp(time.Unix(0, 0)))
	require.NoError(t, err)

	require.NoError(t, cbz.Convert(w, zr))
	require.NoError(t, w.Finalize())

	r, err := reader.Open(codec.NewMemSource(sink.Bytes()))
	require.NoError(t, err)

	count, err := r.AssetCount()
	require.NoError(t, err)
	assert.Equal(t, 3, count)

	b0, err := r.AssetBytes(0)
	require.NoError(t, err)
	assert.Equal(t, []byte("first page"), b0)

	b1, err := r.AssetBytes(1)
	require.NoError(t, err)
	assert.Equal(t, []byte("second page"), b1)

	b2, err := r.AssetBytes(2)
	require.NoError(t, err)
	assert.Equal(t, []byte("third page"), b2)
}
