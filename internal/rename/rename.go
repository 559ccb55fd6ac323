// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package rename synthesizes filesystem-safe, collision-free filenames from
// inferred document fields and drives the per-document pipeline.
package rename

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/pdiddy/pdf-renamer/internal/infer"
	"github.com/pdiddy/pdf-renamer/pkg/types"
)

const (
	// UnknownTitle substitutes a title that is absent or sanitizes to nothing.
	UnknownTitle = "Unknown Title"
	// UnknownAuthor substitutes an author that is absent or sanitizes to nothing.
	UnknownAuthor = "Unknown Author"
	// EncryptedLabel marks both report fields of a password-protected document.
	EncryptedLabel = "Encrypted"
)

// maxComponentLen caps each sanitized filename component.
const maxComponentLen = 100

// maxCollisionProbes bounds the numeric-suffix search so a pathological
// directory cannot loop forever. Tests lower it to force exhaustion.
var maxCollisionProbes = 10000

// Extractor yields a document's text, or reports that it is encrypted.
type Extractor interface {
	Extract(path string) (text string, encrypted bool)
}

// Pipeline holds the collaborators for one rename run. The diagnostics
// writer is an explicit dependency, not a global.
type Pipeline struct {
	Extractor Extractor
	Chat      infer.ChatBackend
	Cfg       types.RenameConfig
	W         io.Writer
}

// BatchSummary holds counts from one rename run.
type BatchSummary struct {
	Renamed   int
	Skipped   int
	Encrypted int
	Failed    int
}

// Total returns the number of documents processed.
func (s BatchSummary) Total() int {
	return s.Renamed + s.Skipped + s.Encrypted + s.Failed
}

// HasFailures reports whether any rename failed.
func (s BatchSummary) HasFailures() bool {
	return s.Failed > 0
}

// RenameAll processes every matching file in dir, strictly one document at
// a time: each file completes extract, infer, synthesize, and commit before
// the next begins. The walk is non-recursive. Every file yields exactly one
// result; no file's failure prevents processing of subsequent files.
func (p *Pipeline) RenameAll(ctx context.Context, dir string) ([]types.RenameResult, BatchSummary, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, BatchSummary{}, fmt.Errorf("reading directory %s: %w", dir, err)
	}

	var results []types.RenameResult
	var summary BatchSummary

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), p.Cfg.Extension) {
			continue
		}

		res := p.RenameFile(ctx, filepath.Join(dir, entry.Name()))
		results = append(results, res)

		switch res.Status {
		case types.StatusRenamed:
			fmt.Fprintf(p.W, "renamed   %s -> %s\n", res.Original, res.NewName)
			summary.Renamed++
		case types.StatusSkipped:
			fmt.Fprintf(p.W, "skipped   %s\n", res.Original)
			summary.Skipped++
		case types.StatusEncrypted:
			fmt.Fprintf(p.W, "encrypted %s\n", res.Original)
			summary.Encrypted++
		case types.StatusFailed:
			fmt.Fprintf(p.W, "failed    %s: %s\n", res.Original, res.Err)
			summary.Failed++
		}
	}

	fmt.Fprintf(p.W, "\nBatch summary: %d renamed, %d skipped, %d encrypted, %d failed (total: %d)\n",
		summary.Renamed, summary.Skipped, summary.Encrypted, summary.Failed, summary.Total())

	return results, summary, nil
}

// RenameFile runs the full pipeline for a single document and returns its
// report row. The file is renamed at most once, and only when at least one
// of title or author was determined.
func (p *Pipeline) RenameFile(ctx context.Context, path string) types.RenameResult {
	orig := filepath.Base(path)

	text, encrypted := p.Extractor.Extract(path)
	if encrypted {
		return types.RenameResult{
			Original: orig,
			Author:   EncryptedLabel,
			Title:    EncryptedLabel,
			NewName:  orig,
			Status:   types.StatusEncrypted,
		}
	}

	// Placeholder text from a failed extraction flows to the model on
	// purpose; the inference stage degrades to unknown fields.
	fields := infer.Infer(ctx, p.Chat, text, p.Cfg, p.W)

	res := types.RenameResult{
		Original: orig,
		Author:   orDefault(fields.Author, UnknownAuthor),
		Title:    orDefault(fields.Title, UnknownTitle),
	}

	cleanAuthor := orDefault(SanitizeComponent(fields.Author), UnknownAuthor)
	cleanTitle := orDefault(SanitizeComponent(fields.Title), UnknownTitle)

	if cleanAuthor == UnknownAuthor && cleanTitle == UnknownTitle {
		res.NewName = orig
		res.Status = types.StatusSkipped
		return res
	}

	candidate := filepath.Join(filepath.Dir(path), cleanAuthor+" - "+cleanTitle+p.Cfg.Extension)
	newPath, err := ResolveCollision(candidate)
	if err != nil {
		res.NewName = orig
		res.Status = types.StatusFailed
		res.Err = err.Error()
		return res
	}

	if !p.Cfg.DryRun {
		if err := os.Rename(path, newPath); err != nil {
			res.NewName = orig
			res.Status = types.StatusFailed
			res.Err = err.Error()
			return res
		}
	}

	res.NewName = filepath.Base(newPath)
	res.Status = types.StatusRenamed
	return res
}

// SanitizeComponent keeps only letters, digits, spaces, hyphens and
// underscores, caps the result at 100 runes, and trims surrounding
// whitespace. Sanitization is idempotent.
func SanitizeComponent(s string) string {
	var sb strings.Builder
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == ' ' || r == '-' || r == '_' {
			sb.WriteRune(r)
		}
	}
	out := []rune(sb.String())
	if len(out) > maxComponentLen {
		out = out[:maxComponentLen]
	}
	return strings.TrimSpace(string(out))
}

// ResolveCollision returns candidate if unused, otherwise the first free
// path of the form base_1.ext, base_2.ext, ... The probe is sequential and
// deterministic, and errors out after maxCollisionProbes attempts.
func ResolveCollision(candidate string) (string, error) {
	if !pathExists(candidate) {
		return candidate, nil
	}

	ext := filepath.Ext(candidate)
	base := strings.TrimSuffix(candidate, ext)

	for i := 1; i <= maxCollisionProbes; i++ {
		probe := fmt.Sprintf("%s_%d%s", base, i, ext)
		if !pathExists(probe) {
			return probe, nil
		}
	}
	return "", fmt.Errorf("no free name for %s after %d probes", filepath.Base(candidate), maxCollisionProbes)
}

func pathExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func orDefault(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
