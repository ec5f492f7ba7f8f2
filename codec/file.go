package codec

import (
	"io"
	"os"
)

// FileSink adapts an *os.File to the Sink interface.
type FileSink struct {
	f *os.File
}

// NewFileSink wraps an already-open, writable, seekable file.
func NewFileSink(f *os.File) *FileSink {
	return &FileSink{f: f}
}

func (s *FileSink) Write(p []byte) (int, error) { return s.f.Write(p) }

func (s *FileSink) Seek(offset int64, whence int) (int64, error) {
	return s.f.Seek(offset, whence)
}

func (s *FileSink) Position() (int64, error) {
	return s.f.Seek(0, io.SeekCurrent)
}

func (s *FileSink) Flush() error { return s.f.Sync() }

// FileSource adapts an *os.File to the Source interface.
type FileSource struct {
	f *os.File
}

// NewFileSource wraps an already-open, readable, seekable file.
func NewFileSource(f *os.File) *FileSource {
	return &FileSource{f: f}
}

func (s *FileSource) Read(p []byte) (int, error) { return s.f.Read(p) }

func (s *FileSource) Seek(offset int64, whence int) (int64, error) {
	return s.f.Seek(offset, whence)
}

func (s *FileSource) Position() (int64, error) {
	return s.f.Seek(0, io.SeekCurrent)
}

func (s *FileSource) Len() (int64, error) {
	info, err := s.f.Stat()
	if err != nil {
		return 0, err
	}

	return info.Size(), nil
}
