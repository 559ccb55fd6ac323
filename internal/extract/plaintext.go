// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
)

// PlainTextBackend is the primary extraction backend. It reads the PDF text
// layer directly. Opening a password-protected file fails, so a successful
// open also serves as the negative half of the encryption probe.
type PlainTextBackend struct{}

// Name identifies the backend in diagnostics.
func (*PlainTextBackend) Name() string { return "plaintext" }

// Encrypted reports false when the file opens cleanly. The backend cannot
// tell encryption from corruption, so open failures are returned as errors
// and the next backend decides.
func (*PlainTextBackend) Encrypted(path string) (bool, error) {
	f, _, err := pdf.Open(path)
	if err != nil {
		return false, err
	}
	f.Close()
	return false, nil
}

// Extract returns the plain text of up to maxPages leading pages. A failure
// on any page fails the whole extraction so the fallback backend gets a
// chance at the document.
func (*PlainTextBackend) Extract(path string, maxPages int) (string, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return "", fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	n := r.NumPage()
	if maxPages > 0 && n > maxPages {
		n = maxPages
	}

	var sb strings.Builder
	for i := 1; i <= n; i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			return "", fmt.Errorf("page %d: %w", i, err)
		}
		sb.WriteString(text)
		sb.WriteString("\n")
	}

	return sb.String(), nil
}
