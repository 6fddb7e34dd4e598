package main

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/klauspost/compress/zstd"
	"go.uber.org/zap"
)

// maxLogSize is the size above which the current log is archived before a
// new session starts writing to it.
const maxLogSize = 8 << 20

var zstdMagic = []byte{0x28, 0xB5, 0x2F, 0xFD}

// newCompressedSink opens the zstd:// log file named by u. A file that
// already holds zstd frames gets new frames appended, anything else is
// truncated.
func newCompressedSink(u *url.URL) (zap.Sink, error) {
	filePath := u.Path

	flags := os.O_CREATE | os.O_WRONLY
	if info, err := os.Stat(filePath); err == nil && info.Size() > 0 {
		if isValidZstdFile(filePath) {
			flags |= os.O_APPEND
		} else {
			flags |= os.O_TRUNC
		}
	}

	file, err := os.OpenFile(filePath, flags, 0644)
	if err != nil {
		return nil, err
	}
	encoder, err := zstd.NewWriter(file, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		_ = file.Close()
		return nil, err
	}
	return &compressedSink{file: file, encoder: encoder}, nil
}

// isValidZstdFile reports whether the file starts with the zstd magic
// number.
func isValidZstdFile(filePath string) bool {
	file, err := os.Open(filePath)
	if err != nil {
		return false
	}
	defer func() {
		_ = file.Close()
	}()

	buf := make([]byte, len(zstdMagic))
	n, err := file.Read(buf)
	if err != nil || n < len(buf) {
		return false
	}
	return string(buf) == string(zstdMagic)
}

// archiveLog renames an oversized log to <name>.<unix time>.zst so the
// next sink starts a fresh file. It returns the archive path, or "" when
// nothing was archived.
func archiveLog(filePath string, limit int64, now time.Time) (string, error) {
	info, err := os.Stat(filePath)
	if err != nil || info.Size() <= limit {
		return "", nil
	}
	base := strings.TrimSuffix(filepath.Base(filePath), ".zst")
	archive := filepath.Join(filepath.Dir(filePath), fmt.Sprintf("%s.%d.zst", base, now.Unix()))
	if err := os.Rename(filePath, archive); err != nil {
		return "", err
	}
	return archive, nil
}

// compressedSink is a zap.Sink writing zstd frames.
type compressedSink struct {
	file    *os.File
	encoder *zstd.Encoder
}

// Write reports len(p) on success, not the compressed size.
func (s *compressedSink) Write(p []byte) (int, error) {
	if _, err := s.encoder.Write(p); err != nil {
		return 0, err
	}
	return len(p), nil
}

func (s *compressedSink) Sync() error {
	if err := s.encoder.Flush(); err != nil {
		return err
	}
	return s.file.Sync()
}

// Close closes the encoder, then the file even if the encoder failed.
func (s *compressedSink) Close() error {
	encErr := s.encoder.Close()
	fileErr := s.file.Close()
	if encErr != nil {
		return encErr
	}
	return fileErr
}
