package types

import "time"

// AIConfig holds shared settings for the chat completion endpoint used to
// infer document metadata.
type AIConfig struct {
	// Model is the chat model identifier (e.g. "llama3.1").
	Model string `json:"model" yaml:"model"`

	// Host is the base URL of the chat endpoint (e.g. "http://localhost:11434").
	Host string `json:"host" yaml:"host"`

	// APIKey is an optional bearer token for hosted endpoints.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`

	// Timeout bounds a single chat request (default 2m).
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// MaxRetries is the number of retry attempts after a failed chat call
	// (default 1).
	MaxRetries int `json:"max_retries" yaml:"max_retries"`
}

// RenameConfig holds settings for the rename pipeline.
type RenameConfig struct {
	AIConfig `yaml:",inline"`

	// Extension filters which directory entries are processed (default ".pdf").
	Extension string `json:"extension" yaml:"extension"`

	// MaxPages is the number of leading pages text is extracted from (default 2).
	MaxPages int `json:"max_pages" yaml:"max_pages"`

	// MaxPromptChars caps the extracted text embedded in the prompt (default 500).
	MaxPromptChars int `json:"max_prompt_chars" yaml:"max_prompt_chars"`

	// DryRun computes new names without touching the filesystem.
	DryRun bool `json:"dry_run" yaml:"dry_run"`
}

// HistoryConfig holds settings for the local run-history database.
type HistoryConfig struct {
	// Dir is the directory holding history.db. Empty means
	// ~/.local/share/pdf-renamer.
	Dir string `json:"dir" yaml:"dir"`

	// MaxRuns is the default number of runs listed by the history command
	// (default 20).
	MaxRuns int `json:"max_runs" yaml:"max_runs"`
}

// ApplyDefaults fills zero-valued fields with their documented defaults.
func (c *RenameConfig) ApplyDefaults() {
	if c.Model == "" {
		c.Model = "llama3.1"
	}
	if c.Host == "" {
		c.Host = "http://localhost:11434"
	}
	if c.Timeout <= 0 {
		c.Timeout = 2 * time.Minute
	}
	if c.MaxRetries <= 0 {
		c.MaxRetries = 1
	}
	if c.Extension == "" {
		c.Extension = ".pdf"
	}
	if c.MaxPages <= 0 {
		c.MaxPages = 2
	}
	if c.MaxPromptChars <= 0 {
		c.MaxPromptChars = 500
	}
}
