// Package extract pulls plain text out of PDF files using a prioritized
// chain of parsing backends with fail-open fallback semantics.
package extract

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"
)

const (
	// NoTextPlaceholder is returned when a backend parses the document but
	// finds no text content (e.g. scanned pages). It is passed downstream
	// so the inference stage can fail gracefully.
	NoTextPlaceholder = "No text could be extracted from the PDF."

	// ErrorPlaceholder is returned when every backend fails to extract.
	ErrorPlaceholder = "Error extracting text from PDF."
)

// Backend is a single PDF parsing capability. Backends are tried in order;
// each has its own success and failure characteristics, and adding one
// never deepens the fallback branching.
type Backend interface {
	// Name identifies the backend in diagnostics.
	Name() string

	// Extract returns the text of up to maxPages leading pages.
	Extract(path string, maxPages int) (string, error)

	// Encrypted probes whether the document is password protected. An
	// error means the backend could not open the file at all and the next
	// backend should decide.
	Encrypted(path string) (bool, error)
}

// Chain tries each backend in priority order. It never returns an error:
// extraction failures degrade to placeholder text so one bad file cannot
// abort a batch. Diagnostics go to w.
type Chain struct {
	backends []Backend
	maxPages int
	w        io.Writer
}

// NewChain builds the default two-backend chain: plain-text extraction
// first, content-stream parsing as fallback.
func NewChain(maxPages int, w io.Writer) *Chain {
	return &Chain{
		backends: []Backend{&PlainTextBackend{}, &ContentStreamBackend{}},
		maxPages: maxPages,
		w:        w,
	}
}

// NewChainWith builds a chain over explicit backends. Used by tests.
func NewChainWith(maxPages int, w io.Writer, backends ...Backend) *Chain {
	return &Chain{backends: backends, maxPages: maxPages, w: w}
}

// Encrypted reports whether the document is password protected. If no
// backend can open the file the document is assumed encrypted rather than
// crashing the run.
func (c *Chain) Encrypted(path string) bool {
	for _, b := range c.backends {
		enc, err := b.Encrypted(path)
		if err != nil {
			continue
		}
		return enc
	}
	return true
}

// Extract returns the text of the document's leading pages and whether the
// document is encrypted. For unencrypted documents the returned text is
// never empty: a backend that parses the file but finds no text yields
// NoTextPlaceholder, and total extraction failure yields ErrorPlaceholder.
func (c *Chain) Extract(path string) (text string, encrypted bool) {
	if c.Encrypted(path) {
		return "", true
	}

	for i, b := range c.backends {
		out, err := b.Extract(path, c.maxPages)
		if err != nil {
			if i+1 < len(c.backends) {
				fmt.Fprintf(c.w, "warning: %s failed for %s: %v, trying %s\n",
					b.Name(), filepath.Base(path), err, c.backends[i+1].Name())
			} else {
				fmt.Fprintf(c.w, "error: %s failed for %s: %v\n",
					b.Name(), filepath.Base(path), err)
			}
			continue
		}

		out = strings.TrimSpace(out)
		if out == "" {
			return NoTextPlaceholder, false
		}
		return out, false
	}

	return ErrorPlaceholder, false
}
