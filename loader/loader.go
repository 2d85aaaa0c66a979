// Package loader reads the source PDF and extracts its text.
package loader

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/gtfk/chatbot-nextjs-vercel/core"
	"github.com/tmc/langchaingo/documentloaders"
)

// DefaultPath is the PDF read when no file is given.
const DefaultPath = "reglamento.pdf"

var (
	// ErrSourceNotFound indicates the PDF file does not exist.
	ErrSourceNotFound = errors.New("source document not found")

	// ErrSourceUnreadable indicates the file exists but cannot be parsed as a PDF.
	ErrSourceUnreadable = errors.New("source document unreadable")

	// ErrEmptyDocument indicates the PDF has no extractable text.
	ErrEmptyDocument = errors.New("source document has no text")
)

// LoadPDF reads the PDF at path. The returned text is the text of every
// page joined with newlines.
func LoadPDF(ctx context.Context, path string) (doc *core.SourceDocument, err error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrSourceNotFound, path)
		}
		return nil, fmt.Errorf("%w: %s: %w", ErrSourceUnreadable, path, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrSourceUnreadable, path, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%w: %s is a directory", ErrSourceUnreadable, path)
	}

	// The PDF parser panics on some malformed inputs.
	defer func() {
		if r := recover(); r != nil {
			doc = nil
			err = fmt.Errorf("%w: %s: %v", ErrSourceUnreadable, path, r)
		}
	}()

	pages, err := documentloaders.NewPDF(f, info.Size()).Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrSourceUnreadable, path, err)
	}

	texts := make([]string, len(pages))
	for i, page := range pages {
		texts[i] = page.PageContent
	}
	text := strings.Join(texts, "\n")
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("%w: %s", ErrEmptyDocument, path)
	}

	slog.Debug("loaded pdf", "path", path, "pages", len(pages), "chars", len(text))

	return &core.SourceDocument{
		Path:  path,
		Text:  text,
		Pages: len(pages),
	}, nil
}
