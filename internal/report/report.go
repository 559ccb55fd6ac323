// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package report renders the ordered per-document results of a rename run.
package report

import (
	"fmt"
	"io"
	"os"

	"github.com/olekukonko/tablewriter"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/pdf-renamer/pkg/types"
)

// Render writes the 4-column results table (original name, author, title,
// new name) to w, one row per processed document in processing order.
// Failed rows carry the error detail in the new-name column.
func Render(w io.Writer, results []types.RenameResult) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Original Filename", "Author", "Title", "New Filename"})
	table.SetAutoWrapText(false)

	for _, r := range results {
		newName := r.NewName
		if r.Status == types.StatusFailed {
			newName = fmt.Sprintf("%s (error: %s)", r.NewName, r.Err)
		}
		table.Append([]string{r.Original, r.Author, r.Title, newName})
	}

	table.Render()
}

// runLog is the YAML document written by WriteYAML.
type runLog struct {
	Results []types.RenameResult `yaml:"results"`
}

// WriteYAML writes the run results to a YAML log file.
func WriteYAML(path string, results []types.RenameResult) error {
	data, err := yaml.Marshal(runLog{Results: results})
	if err != nil {
		return fmt.Errorf("marshaling results: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing log file: %w", err)
	}
	return nil
}
