// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package infer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/pdiddy/pdf-renamer/internal/httputil"
	"github.com/pdiddy/pdf-renamer/pkg/types"
)

// OllamaBackend calls an Ollama-compatible chat endpoint. Hosted variants
// that require authentication get the configured key as a bearer token.
type OllamaBackend struct {
	Host   string
	Model  string
	APIKey string
	Client *http.Client
}

// NewOllamaBackend builds a backend from config, with the request timeout
// applied to the underlying HTTP client.
func NewOllamaBackend(cfg types.AIConfig) *OllamaBackend {
	return &OllamaBackend{
		Host:   cfg.Host,
		Model:  cfg.Model,
		APIKey: cfg.APIKey,
		Client: &http.Client{Timeout: cfg.Timeout},
	}
}

// chatRequest is the request body for the chat endpoint.
type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
	Stream   bool          `json:"stream"`
}

// chatMessage is a single message in the chat conversation.
type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// chatResponse is the non-streaming response body from the chat endpoint.
type chatResponse struct {
	Message chatMessage `json:"message"`
}

// Chat sends the prompt as a single user message and returns the model's
// raw text reply. Rate-limited requests are retried by httputil.DoWithRetry.
func (o *OllamaBackend) Chat(ctx context.Context, prompt string) (string, error) {
	reqBody := chatRequest{
		Model:    o.Model,
		Messages: []chatMessage{{Role: "user", Content: prompt}},
		Stream:   false,
	}

	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshaling request: %w", err)
	}

	url := strings.TrimRight(o.Host, "/") + "/api/chat"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(bodyBytes))
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if o.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+o.APIKey)
	}

	client := o.Client
	if client == nil {
		client = http.DefaultClient
	}

	resp, err := httputil.DoWithRetry(ctx, client, req, 0)
	if err != nil {
		return "", fmt.Errorf("calling chat endpoint: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("chat endpoint returned %d: %s", resp.StatusCode, string(body))
	}

	var cResp chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&cResp); err != nil {
		return "", fmt.Errorf("decoding chat response: %w", err)
	}

	if cResp.Message.Content == "" {
		return "", fmt.Errorf("chat endpoint returned empty content")
	}

	return cResp.Message.Content, nil
}
