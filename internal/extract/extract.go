// Package extract pulls plain text out of uploaded resume documents.
// PDF, DOCX, and plain-text files are supported; everything else is
// rejected before any scoring happens.
package extract

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/nguyenthenguyen/docx"
)

// MaxFileSize caps uploaded documents at 10 MB.
const MaxFileSize = 10 << 20

var ErrUnsupportedType = errors.New("unsupported file type")

// supported maps lower-case file extensions to their extraction routine.
var supported = map[string]func([]byte) (string, error){
	".pdf":  fromPDF,
	".docx": fromDocx,
	".txt":  fromPlain,
}

// Supported reports whether the filename carries an extractable extension.
func Supported(filename string) bool {
	_, ok := supported[strings.ToLower(filepath.Ext(filename))]
	return ok
}

// Text extracts the plain text of the document, choosing the parser by file
// extension. The result is trimmed; an empty result is an error because a
// resume with no text cannot be scored.
func Text(filename string, data []byte) (string, error) {
	if len(data) == 0 {
		return "", errors.New("file is empty")
	}
	if len(data) > MaxFileSize {
		return "", fmt.Errorf("file exceeds %d byte limit", MaxFileSize)
	}

	ext := strings.ToLower(filepath.Ext(filename))
	extractor, ok := supported[ext]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnsupportedType, ext)
	}

	text, err := extractor(data)
	if err != nil {
		return "", err
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return "", errors.New("no text could be extracted from the document")
	}

	return text, nil
}

func fromPlain(data []byte) (string, error) {
	return string(data), nil
}

func fromPDF(data []byte) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("read pdf: %w", err)
	}

	var builder strings.Builder
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			// A single broken page should not sink the whole document.
			continue
		}
		builder.WriteString(text)
	}

	return builder.String(), nil
}

func fromDocx(data []byte) (string, error) {
	doc, err := docx.ReadDocxFromMemory(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("parse docx: %w", err)
	}
	defer doc.Close()

	return doc.Editable().GetContent(), nil
}

// FromReader reads at most MaxFileSize+1 bytes and extracts text, enforcing
// the size cap without buffering unbounded input.
func FromReader(filename string, r io.Reader) (string, error) {
	data, err := io.ReadAll(io.LimitReader(r, MaxFileSize+1))
	if err != nil {
		return "", fmt.Errorf("read upload: %w", err)
	}
	return Text(filename, data)
}
