// Package cbz adapts a CBZ (a plain ZIP archive of page images) into a
// BBF file: unzip, sort entries by filename, infer a content type from
// the file extension, and feed each entry to a writer.Writer as one
// asset/page pair.
//
// The source archive's own compression is unrelated to the asset-verbatim
// Non-goal of the BBF container: CBZ entries are decompressed by
// archive/zip on the way in, but the bytes handed to writer.AddAsset are
// the decoded image bytes, stored verbatim in the BBF file.
package cbz

import (
	"archive/zip"
	"fmt"
	"io"
	"path/filepath"
	"sort"
	"strings"

	"github.com/TheBearodactyl/boundbook/writer"
)

// contentTypeByExt maps a lowercase file extension to its BBF content
// type tag. Unrecognized extensions fall back to application/octet-stream.
var contentTypeByExt = map[string]string{
	".png":  "image/png",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".gif":  "image/gif",
	".webp": "image/webp",
	".bmp":  "image/bmp",
}

// ContentType returns the BBF content type tag for a file name, inferred
// from its extension.
func ContentType(name string) string {
	ext := strings.ToLower(filepath.Ext(name))
	if ct, ok := contentTypeByExt[ext]; ok {
		return ct
	}

	return "application/octet-stream"
}

// Convert reads every file in a CBZ archive, sorts entries by filename,
// and appends each as one asset plus one page to w, in that order. It
// does not call w.Finalize; the caller adds sections/metadata as needed
// and finalizes afterward.
func Convert(w *writer.Writer, r *zip.Reader) error {
	entries := make([]*zip.File, 0, len(r.File))
	for _, f := range r.File {
		if f.FileInfo().IsDir() {
			continue
		}
		entries = append(entries, f)
	}

	sort.Slice(entries, func(i, j int) bool { return entries[i].Name < entries[j].Name })

	for _, f := range entries {
		data, err := readZipEntry(f)
		if err != nil {
			return fmt.Errorf("cbz: reading %q: %w", f.Name, err)
		}

		assetIdx, err := w.AddAsset(ContentType(f.Name), data)
		if err != nil {
			return fmt.Errorf("cbz: adding asset for %q: %w", f.Name, err)
		}
		if _, err := w.AddPage(assetIdx); err != nil {
			return fmt.Errorf("cbz: adding page for %q: %w", f.Name, err)
		}
	}

	return nil
}

func readZipEntry(f *zip.File) ([]byte, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	return io.ReadAll(rc)
}
