// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// RenameStatus indicates the outcome of processing one document.
type RenameStatus string

const (
	// StatusRenamed means the file was given a new name on disk.
	StatusRenamed RenameStatus = "renamed"
	// StatusSkipped means neither title nor author could be determined and
	// the file was left untouched.
	StatusSkipped RenameStatus = "skipped"
	// StatusEncrypted means the document is password protected and was left
	// untouched.
	StatusEncrypted RenameStatus = "encrypted"
	// StatusFailed means the rename itself failed (e.g. permissions).
	StatusFailed RenameStatus = "failed"
)

// InferredFields holds the title and author recovered from a document's
// text. The empty string means "unknown" for either field.
type InferredFields struct {
	Title  string `json:"title" yaml:"title"`
	Author string `json:"author" yaml:"author"`
}

// TitleKnown reports whether the title was determined.
func (f InferredFields) TitleKnown() bool { return f.Title != "" }

// AuthorKnown reports whether the author was determined.
func (f InferredFields) AuthorKnown() bool { return f.Author != "" }

// Known reports whether at least one field was determined. Only documents
// with at least one known field are renamed.
func (f InferredFields) Known() bool { return f.TitleKnown() || f.AuthorKnown() }

// RenameResult is one report row: the outcome of processing one document.
// Results are immutable once created and collected in processing order.
type RenameResult struct {
	// Original is the filename the document had when the run started.
	Original string `json:"original" yaml:"original"`

	// Author is the inferred author, or a placeholder ("Unknown Author",
	// "Encrypted") when it could not be determined.
	Author string `json:"author" yaml:"author"`

	// Title is the inferred title, or a placeholder ("Unknown Title",
	// "Encrypted") when it could not be determined.
	Title string `json:"title" yaml:"title"`

	// NewName is the filename after processing. Equals Original when no
	// rename took place.
	NewName string `json:"new_name" yaml:"new_name"`

	// Status classifies the outcome.
	Status RenameStatus `json:"status" yaml:"status"`

	// Err holds the failure detail when Status is StatusFailed.
	Err string `json:"error,omitempty" yaml:"error,omitempty"`
}
