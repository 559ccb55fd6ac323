// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package infer

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/pdiddy/pdf-renamer/pkg/types"
)

func TestMain(m *testing.M) {
	// Override backoff to avoid real sleeps in retry tests.
	backoffBase = time.Millisecond
	os.Exit(m.Run())
}

// mockChat records prompts and returns a canned reply or error.
type mockChat struct {
	response string
	err      error
	calls    int
	prompts  []string
}

func (m *mockChat) Chat(_ context.Context, prompt string) (string, error) {
	m.calls++
	m.prompts = append(m.prompts, prompt)
	if m.err != nil {
		return "", m.err
	}
	return m.response, nil
}

// failNTimesChat fails the first N calls, then succeeds.
type failNTimesChat struct {
	failures  int
	callCount int
	response  string
}

func (f *failNTimesChat) Chat(_ context.Context, _ string) (string, error) {
	f.callCount++
	if f.callCount <= f.failures {
		return "", fmt.Errorf("transient error (call %d)", f.callCount)
	}
	return f.response, nil
}

func testConfig() types.RenameConfig {
	cfg := types.RenameConfig{}
	cfg.ApplyDefaults()
	return cfg
}

func TestInfer_EmptyTextSkipsModel(t *testing.T) {
	for _, text := range []string{"", "   \n\t  "} {
		chat := &mockChat{response: `{"title": "X", "author": "Y"}`}
		var w bytes.Buffer

		got := Infer(context.Background(), chat, text, testConfig(), &w)

		if got != (types.InferredFields{}) {
			t.Errorf("Infer(%q) = %+v, want unknown fields", text, got)
		}
		if chat.calls != 0 {
			t.Errorf("Infer(%q) made %d model calls, want 0", text, chat.calls)
		}
	}
}

func TestInfer_TruncatesText(t *testing.T) {
	chat := &mockChat{response: `{"title": "T", "author": "A"}`}
	var w bytes.Buffer

	text := strings.Repeat("a", 500) + "OVERFLOW"
	Infer(context.Background(), chat, text, testConfig(), &w)

	if len(chat.prompts) != 1 {
		t.Fatalf("expected 1 prompt, got %d", len(chat.prompts))
	}
	if strings.Contains(chat.prompts[0], "OVERFLOW") {
		t.Error("prompt contains text beyond the 500-character cap")
	}
	if !strings.Contains(chat.prompts[0], strings.Repeat("a", 500)) {
		t.Error("prompt is missing the leading 500 characters")
	}
}

func TestInfer_PromptInstructions(t *testing.T) {
	chat := &mockChat{response: `{}`}
	var w bytes.Buffer

	Infer(context.Background(), chat, "some document text", testConfig(), &w)

	prompt := chat.prompts[0]
	for _, want := range []string{"'title'", "'author'", "JSON", "null"} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q:\n%s", want, prompt)
		}
	}
}

func TestInfer_TransportErrorDegrades(t *testing.T) {
	chat := &mockChat{err: fmt.Errorf("connection refused")}
	var w bytes.Buffer

	got := Infer(context.Background(), chat, "some text", testConfig(), &w)

	if got != (types.InferredFields{}) {
		t.Errorf("got %+v, want unknown fields", got)
	}
	// Default policy is one retry: initial attempt plus one more.
	if chat.calls != 2 {
		t.Errorf("made %d calls, want 2", chat.calls)
	}
	if !strings.Contains(w.String(), "warning") {
		t.Errorf("expected a recoverable warning, got %q", w.String())
	}
}

func TestInfer_RetrySucceeds(t *testing.T) {
	chat := &failNTimesChat{failures: 1, response: `{"title": "Deep Learning", "author": "Jane Doe"}`}
	var w bytes.Buffer

	got := Infer(context.Background(), chat, "some text", testConfig(), &w)

	want := types.InferredFields{Title: "Deep Learning", Author: "Jane Doe"}
	if got != want {
		t.Errorf("got %+v, want %+v", got, want)
	}
	if chat.callCount != 2 {
		t.Errorf("made %d calls, want 2", chat.callCount)
	}
}

func TestInfer_MalformedReplyDegrades(t *testing.T) {
	chat := &mockChat{response: "no json here"}
	var w bytes.Buffer

	got := Infer(context.Background(), chat, "some text", testConfig(), &w)

	if got != (types.InferredFields{}) {
		t.Errorf("got %+v, want unknown fields", got)
	}
}

func TestChatWithRetry_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	chat := &mockChat{err: fmt.Errorf("always failing")}
	_, err := chatWithRetry(ctx, chat, "prompt", 3)
	if err == nil {
		t.Fatal("expected an error from a cancelled context")
	}
}

func TestTruncateRunes(t *testing.T) {
	tests := []struct {
		in   string
		n    int
		want string
	}{
		{"hello", 10, "hello"},
		{"hello", 3, "hel"},
		{"héllo", 2, "hé"},
		{"hello", 0, "hello"},
	}
	for _, tt := range tests {
		if got := truncateRunes(tt.in, tt.n); got != tt.want {
			t.Errorf("truncateRunes(%q, %d) = %q, want %q", tt.in, tt.n, got, tt.want)
		}
	}
}
