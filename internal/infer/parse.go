// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package infer

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"github.com/pdiddy/pdf-renamer/pkg/types"
)

// objectRe locates the first {...} span in the model reply, greedy and
// across lines.
var objectRe = regexp.MustCompile(`(?s)\{.*\}`)

var (
	bareKeyRe       = regexp.MustCompile(`(\w+):`)
	trailingCommaRe = regexp.MustCompile(`,\s*}`)
)

// repairSteps is the ordered textual repair pipeline applied to the located
// JSON span before parsing. Each step is independently testable. The
// pipeline recovers the common near-JSON cases (single quotes, unquoted
// keys, trailing commas) without a grammar-aware repair engine.
var repairSteps = []func(string) string{
	normalizeQuotes,
	quoteBareKeys,
	stripTrailingCommas,
}

// Parse tolerantly extracts (title, author) from a raw model reply. A reply
// without a JSON object, or one that still fails to parse after repair,
// yields unknown fields; a second malformed attempt is not expected to
// self-correct, so there is no retry here. Both the JSON literal null and
// the string "null" count as absent. Non-absent values are title-cased.
func Parse(raw string) types.InferredFields {
	span := objectRe.FindString(raw)
	if span == "" {
		return types.InferredFields{}
	}

	for _, step := range repairSteps {
		span = step(span)
	}

	var payload struct {
		Title  any `json:"title"`
		Author any `json:"author"`
	}
	if err := json.Unmarshal([]byte(span), &payload); err != nil {
		return types.InferredFields{}
	}

	return types.InferredFields{
		Title:  TitleCase(fieldString(payload.Title)),
		Author: TitleCase(fieldString(payload.Author)),
	}
}

// normalizeQuotes turns single-quoted strings into double-quoted ones.
func normalizeQuotes(s string) string {
	return strings.ReplaceAll(s, "'", `"`)
}

// quoteBareKeys wraps bare words that precede a colon in double quotes.
// Already-quoted keys end in a quote character and are left alone.
func quoteBareKeys(s string) string {
	return bareKeyRe.ReplaceAllString(s, `"$1":`)
}

// stripTrailingCommas removes commas directly before a closing brace.
func stripTrailingCommas(s string) string {
	return trailingCommaRe.ReplaceAllString(s, "}")
}

// fieldString converts a decoded JSON value into a field string. nil and
// the literal "null" mean absent.
func fieldString(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		if t == "null" {
			return ""
		}
		return t
	default:
		return fmt.Sprint(t)
	}
}

// titleTokenRe splits a string into word tokens (letters, digits,
// apostrophes) and standalone punctuation.
var titleTokenRe = regexp.MustCompile(`[\p{L}\p{N}_']+|[.,!?;]`)

// smallWords are kept lowercase in titles unless they lead.
var smallWords = map[string]bool{
	"a": true, "an": true, "and": true, "as": true, "at": true,
	"but": true, "by": true, "for": true, "if": true, "in": true,
	"of": true, "on": true, "or": true, "the": true, "to": true,
	"with": true,
}

// TitleCase lowercases s, then capitalizes the first token and every token
// outside the small-word set. The operation is idempotent.
func TitleCase(s string) string {
	if s == "" {
		return s
	}
	tokens := titleTokenRe.FindAllString(strings.ToLower(s), -1)
	for i, tok := range tokens {
		if i == 0 || !smallWords[tok] {
			tokens[i] = capitalize(tok)
		}
	}
	return strings.Join(tokens, " ")
}

// capitalize upper-cases the first rune of a lowercased token.
func capitalize(tok string) string {
	r := []rune(tok)
	if len(r) == 0 {
		return tok
	}
	r[0] = unicode.ToUpper(r[0])
	return string(r)
}
