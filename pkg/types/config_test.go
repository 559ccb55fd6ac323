// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"testing"
	"time"
)

func TestApplyDefaults_ZeroConfig(t *testing.T) {
	var cfg RenameConfig
	cfg.ApplyDefaults()

	if cfg.Model != "llama3.1" {
		t.Errorf("Model = %q", cfg.Model)
	}
	if cfg.Host != "http://localhost:11434" {
		t.Errorf("Host = %q", cfg.Host)
	}
	if cfg.Timeout != 2*time.Minute {
		t.Errorf("Timeout = %v", cfg.Timeout)
	}
	if cfg.MaxRetries != 1 {
		t.Errorf("MaxRetries = %d, want 1", cfg.MaxRetries)
	}
	if cfg.Extension != ".pdf" {
		t.Errorf("Extension = %q", cfg.Extension)
	}
	if cfg.MaxPages != 2 {
		t.Errorf("MaxPages = %d", cfg.MaxPages)
	}
	if cfg.MaxPromptChars != 500 {
		t.Errorf("MaxPromptChars = %d", cfg.MaxPromptChars)
	}
}

func TestApplyDefaults_KeepsExplicitValues(t *testing.T) {
	cfg := RenameConfig{
		AIConfig: AIConfig{
			Model:      "mistral",
			Host:       "http://gpu-box:11434",
			Timeout:    30 * time.Second,
			MaxRetries: 3,
		},
		Extension:      ".PDF",
		MaxPages:       5,
		MaxPromptChars: 1000,
	}
	cfg.ApplyDefaults()

	if cfg.Model != "mistral" || cfg.Host != "http://gpu-box:11434" {
		t.Errorf("endpoint settings overwritten: %+v", cfg.AIConfig)
	}
	if cfg.Timeout != 30*time.Second || cfg.MaxRetries != 3 {
		t.Errorf("retry settings overwritten: %+v", cfg.AIConfig)
	}
	if cfg.Extension != ".PDF" || cfg.MaxPages != 5 || cfg.MaxPromptChars != 1000 {
		t.Errorf("pipeline settings overwritten: %+v", cfg)
	}
}
