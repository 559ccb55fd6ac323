// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package infer recovers structured (title, author) fields from noisy
// document text by delegating to a chat completion endpoint and tolerantly
// parsing its near-JSON reply.
package infer

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"math"
	"strings"
	"text/template"
	"time"

	"github.com/pdiddy/pdf-renamer/pkg/types"
)

// ChatBackend abstracts the chat completion endpoint so tests can supply a
// mock. It sends a single user-role message and returns the raw text reply.
type ChatBackend interface {
	Chat(ctx context.Context, prompt string) (string, error)
}

// fieldsPromptTmpl is the fixed instruction template sent to the model. It
// requests JSON with title and author keys and tells the model to emit the
// JSON literal null for fields it cannot determine.
var fieldsPromptTmpl = template.Must(template.New("fields").Parse(`Given the following text, extract the title and author. If you can't determine either, return null. Respond in JSON format with 'title' and 'author' keys:

{{.Text}}`))

// backoffBase controls the base duration for retry backoff. Tests override
// this to avoid real sleeps.
var backoffBase = time.Second

// Infer truncates text to cfg.MaxPromptChars, asks the chat backend for
// title and author, and parses the reply. Empty or whitespace-only text
// short-circuits without a model call. Transport and parse failures degrade
// to unknown fields with a warning on w; Infer never returns an error, so
// one document's failure cannot abort a batch.
func Infer(ctx context.Context, backend ChatBackend, text string, cfg types.RenameConfig, w io.Writer) types.InferredFields {
	if strings.TrimSpace(text) == "" {
		return types.InferredFields{}
	}

	prompt, err := renderPrompt(truncateRunes(text, cfg.MaxPromptChars))
	if err != nil {
		fmt.Fprintf(w, "warning: rendering prompt: %v\n", err)
		return types.InferredFields{}
	}

	maxRetries := cfg.MaxRetries
	if maxRetries <= 0 {
		maxRetries = 1
	}

	raw, err := chatWithRetry(ctx, backend, prompt, maxRetries)
	if err != nil {
		fmt.Fprintf(w, "warning: chat call failed: %v\n", err)
		return types.InferredFields{}
	}

	return Parse(raw)
}

// chatWithRetry calls the chat backend, retrying failed calls with
// exponential backoff.
func chatWithRetry(ctx context.Context, backend ChatBackend, prompt string, maxRetries int) (string, error) {
	var lastErr error
	for attempt := 0; attempt <= maxRetries; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(math.Pow(2, float64(attempt-1))) * backoffBase
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(backoff):
			}
		}

		raw, err := backend.Chat(ctx, prompt)
		if err == nil {
			return raw, nil
		}
		lastErr = err
	}
	return "", fmt.Errorf("after %d retries: %w", maxRetries, lastErr)
}

// renderPrompt executes the fields prompt template with the given text.
func renderPrompt(text string) (string, error) {
	var buf bytes.Buffer
	if err := fieldsPromptTmpl.Execute(&buf, struct{ Text string }{Text: text}); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// truncateRunes caps s at n runes. Extracted text can be arbitrarily large;
// the leading slice is enough for title and author inference.
func truncateRunes(s string, n int) string {
	r := []rune(s)
	if n <= 0 || len(r) <= n {
		return s
	}
	return string(r[:n])
}
