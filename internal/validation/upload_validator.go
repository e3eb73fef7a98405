// Package validation checks uploaded prediction files before they reach the
// parser: extension, size, and a cheap content sniff that catches files whose
// extension lies about their format.
package validation

import (
	"bytes"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"unicode/utf8"
)

// xlsxMagic is the ZIP local file header every XLSX workbook starts with.
var xlsxMagic = []byte{0x50, 0x4B, 0x03, 0x04}

// UploadValidator validates uploaded prediction files.
type UploadValidator struct {
	logger   *slog.Logger
	maxBytes int64
}

// NewUploadValidator creates an upload validator. maxBytes caps the accepted
// file size; zero or negative disables the size check.
func NewUploadValidator(logger *slog.Logger, maxBytes int64) *UploadValidator {
	if logger == nil {
		logger = slog.Default()
	}
	return &UploadValidator{
		logger:   logger,
		maxBytes: maxBytes,
	}
}

// Validate checks an uploaded file by name and content. It returns an error
// describing the first problem found, suitable for surfacing to the client.
func (v *UploadValidator) Validate(filename string, data []byte) error {
	if len(data) == 0 {
		return fmt.Errorf("uploaded file %s is empty", filename)
	}
	if v.maxBytes > 0 && int64(len(data)) > v.maxBytes {
		return fmt.Errorf("uploaded file %s exceeds the %d byte limit", filename, v.maxBytes)
	}

	base := filepath.Base(filename)
	if strings.HasPrefix(base, "~$") {
		v.logger.Warn("rejecting temporary workbook file",
			slog.String("file", base))
		return fmt.Errorf("file %s is a temporary workbook copy", base)
	}

	switch strings.ToLower(filepath.Ext(base)) {
	case ".xlsx", ".xlsm":
		if !bytes.HasPrefix(data, xlsxMagic) {
			return fmt.Errorf("file %s does not contain a workbook", base)
		}
	case ".csv", ".txt", "":
		if err := validateTextContent(base, data); err != nil {
			return err
		}
	default:
		return fmt.Errorf("unsupported file type %s", filepath.Ext(base))
	}

	v.logger.Debug("upload validated",
		slog.String("file", base),
		slog.Int("bytes", len(data)))
	return nil
}

// validateTextContent rejects content that cannot be a delimited text file:
// ZIP containers renamed to .csv, NUL bytes, or invalid UTF-8 in the leading
// chunk.
func validateTextContent(filename string, data []byte) error {
	if bytes.HasPrefix(data, xlsxMagic) {
		return fmt.Errorf("file %s looks like a workbook, not delimited text", filename)
	}

	sample := data
	if len(sample) > 4096 {
		sample = sample[:4096]
		// a multi-byte rune cut at the sample boundary is not corruption
		for i := 0; i < 3 && len(sample) > 0 && !utf8.Valid(sample); i++ {
			sample = sample[:len(sample)-1]
		}
	}
	if bytes.IndexByte(sample, 0) >= 0 {
		return fmt.Errorf("file %s contains binary data", filename)
	}
	if !utf8.Valid(sample) {
		return fmt.Errorf("file %s is not valid UTF-8 text", filename)
	}
	return nil
}
