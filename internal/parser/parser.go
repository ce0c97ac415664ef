package parser

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/dgallion1/mategest/internal/doctree"
)

// ErrUnsupported is returned for file types no parser handles.
var ErrUnsupported = errors.New("unsupported file extension")

// Parser converts raw document bytes into a DocTree.
type Parser interface {
	Parse(r io.Reader, filename string) (*doctree.DocTree, error)
}

// Options tunes parser selection.
type Options struct {
	// PDFFallback shells out to pdftotext when the Go PDF reader fails.
	PDFFallback bool
	// MaxBytes rejects larger inputs; 0 means no limit.
	MaxBytes int64
}

// SupportedExtensions lists file extensions this service can handle.
var SupportedExtensions = map[string]bool{
	".txt":      true,
	".md":       true,
	".markdown": true,
	".csv":      true,
	".html":     true,
	".htm":      true,
	".pdf":      true,
	".docx":     true,
}

// ForFile returns the appropriate parser for a filename.
func ForFile(filename string, opts Options) (Parser, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".txt":
		return &TextParser{}, nil
	case ".md", ".markdown":
		return &MarkdownParser{}, nil
	case ".csv":
		return &CSVParser{}, nil
	case ".html", ".htm":
		return &HTMLParser{}, nil
	case ".pdf":
		return &PDFParser{FallbackPdftotext: opts.PDFFallback}, nil
	case ".docx":
		return &DOCXParser{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupported, ext)
	}
}

// IsSupportedExtension checks if a file extension is supported.
func IsSupportedExtension(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	return SupportedExtensions[ext]
}

// ErrTooLarge is returned when the input exceeds Options.MaxBytes.
var ErrTooLarge = errors.New("document too large")

// ExtractText parses a document and returns its flattened text.
func ExtractText(r io.Reader, filename string, opts Options) (string, error) {
	p, err := ForFile(filename, opts)
	if err != nil {
		return "", err
	}
	if opts.MaxBytes > 0 {
		r = &limitedReader{r: r, n: opts.MaxBytes}
	}
	tree, err := p.Parse(r, filename)
	if err != nil {
		return "", fmt.Errorf("parse %s: %w", filename, err)
	}
	return tree.PlainText(), nil
}

// limitedReader is io.LimitReader that fails instead of truncating.
type limitedReader struct {
	r io.Reader
	n int64
}

func (l *limitedReader) Read(p []byte) (int, error) {
	n, err := l.r.Read(p)
	l.n -= int64(n)
	if l.n < 0 {
		return n, ErrTooLarge
	}
	return n, err
}

func baseTitle(filename string) string {
	return strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))
}
