// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"
	"unicode"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// ContentStreamBackend is the fallback extraction backend. It parses page
// content streams directly via pdfcpu, which also exposes an explicit
// encryption flag on the document context.
type ContentStreamBackend struct{}

// Name identifies the backend in diagnostics.
func (*ContentStreamBackend) Name() string { return "contentstream" }

// Encrypted reads the document context and inspects its encryption
// dictionary. pdfcpu refuses to open password-protected files without the
// password, so that refusal also counts as encrypted.
func (*ContentStreamBackend) Encrypted(path string) (bool, error) {
	ctx, err := api.ReadContextFile(path)
	if err != nil {
		msg := strings.ToLower(err.Error())
		if strings.Contains(msg, "password") || strings.Contains(msg, "encrypt") {
			return true, nil
		}
		return false, err
	}
	return ctx.Encrypt != nil, nil
}

// Extract parses the content streams of up to maxPages leading pages and
// reassembles their text-showing operators.
func (*ContentStreamBackend) Extract(path string, maxPages int) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	ctx, err := api.ReadValidateAndOptimize(f, model.NewDefaultConfiguration())
	if err != nil {
		return "", fmt.Errorf("pdfcpu read: %w", err)
	}

	n := ctx.PageCount
	if maxPages > 0 && n > maxPages {
		n = maxPages
	}

	var sb strings.Builder
	for pageNr := 1; pageNr <= n; pageNr++ {
		pageText, err := pageContentText(ctx, pageNr)
		if err != nil {
			return "", fmt.Errorf("page %d: %w", pageNr, err)
		}
		if pageText == "" {
			continue
		}
		if sb.Len() > 0 {
			sb.WriteByte('\n')
		}
		sb.WriteString(pageText)
	}

	return sb.String(), nil
}

// pageContentText extracts one page's content stream and parses its text.
func pageContentText(ctx *model.Context, pageNr int) (string, error) {
	r, err := pdfcpu.ExtractPageContent(ctx, pageNr)
	if err != nil {
		return "", err
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	return parseContentStream(data), nil
}

// stringLiteralRe matches PDF string literals in parentheses, skipping
// escaped characters so (a\(b\)c) matches as one literal.
var stringLiteralRe = regexp.MustCompile(`\(((?:\\.|[^\\()])*)\)`)

// parseContentStream walks content stream lines and collects text from the
// showing operators Tj, TJ and '. Positioning operators Td/TD/T* become
// spaces and newlines so words do not run together.
func parseContentStream(data []byte) string {
	var sb strings.Builder

	for _, line := range bytes.Split(data, []byte{'\n'}) {
		line = bytes.TrimSpace(line)
		if len(line) == 0 {
			continue
		}

		switch {
		case bytes.HasSuffix(line, []byte("Tj")), bytes.HasSuffix(line, []byte("TJ")):
			for _, m := range stringLiteralRe.FindAllSubmatch(line, -1) {
				sb.WriteString(decodeStringLiteral(m[1]))
			}
		case bytes.HasSuffix(line, []byte("'")) && bytes.Contains(line, []byte("(")):
			for _, m := range stringLiteralRe.FindAllSubmatch(line, -1) {
				sb.WriteByte('\n')
				sb.WriteString(decodeStringLiteral(m[1]))
			}
		case bytes.HasSuffix(line, []byte("Td")), bytes.HasSuffix(line, []byte("TD")):
			if sb.Len() > 0 {
				sb.WriteByte(' ')
			}
		case bytes.Equal(line, []byte("T*")):
			sb.WriteByte('\n')
		}
	}

	return collapseWhitespace(sb.String())
}

// decodeStringLiteral resolves PDF escape sequences, including octal
// escapes like \040.
func decodeStringLiteral(raw []byte) string {
	var sb strings.Builder
	for i := 0; i < len(raw); i++ {
		if raw[i] != '\\' || i+1 >= len(raw) {
			sb.WriteByte(raw[i])
			continue
		}
		i++
		switch raw[i] {
		case 'n':
			sb.WriteByte('\n')
		case 'r':
			sb.WriteByte('\r')
		case 't':
			sb.WriteByte('\t')
		case '\\', '(', ')':
			sb.WriteByte(raw[i])
		default:
			if raw[i] >= '0' && raw[i] <= '7' {
				val := int(raw[i] - '0')
				for j := 0; j < 2 && i+1 < len(raw) && raw[i+1] >= '0' && raw[i+1] <= '7'; j++ {
					i++
					val = val*8 + int(raw[i]-'0')
				}
				sb.WriteByte(byte(val))
			} else {
				sb.WriteByte(raw[i])
			}
		}
	}
	return sb.String()
}

// collapseWhitespace normalises runs of whitespace to single spaces and
// drops non-printable runes.
func collapseWhitespace(text string) string {
	var sb strings.Builder
	prevSpace := false
	for _, r := range text {
		switch {
		case unicode.IsSpace(r):
			if !prevSpace && sb.Len() > 0 {
				sb.WriteByte(' ')
				prevSpace = true
			}
		case unicode.IsPrint(r):
			sb.WriteRune(r)
			prevSpace = false
		}
	}
	return strings.TrimSpace(sb.String())
}
