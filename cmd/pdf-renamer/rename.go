package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/pdf-renamer/internal/extract"
	"github.com/pdiddy/pdf-renamer/internal/history"
	"github.com/pdiddy/pdf-renamer/internal/infer"
	"github.com/pdiddy/pdf-renamer/internal/rename"
	"github.com/pdiddy/pdf-renamer/internal/report"
	"github.com/pdiddy/pdf-renamer/pkg/types"
)

var renameCmd = &cobra.Command{
	Use:   "rename <directory>",
	Short: "Rename the PDF files in a directory",
	Long: `Rename processes every PDF in the given directory (non-recursive), one
file at a time: extract text from the leading pages, infer title and author
via the chat model, and rename to "{Author} - {Title}.pdf". Files whose
title and author both stay unknown keep their original name; encrypted
documents are reported and left untouched.`,
	Args: cobra.ExactArgs(1),
	RunE: runRename,
}

func init() {
	renameCmd.Flags().String("model", "", "chat model identifier")
	renameCmd.Flags().String("host", "", "base URL of the chat endpoint")
	renameCmd.Flags().Duration("timeout", 0, "per-request timeout for chat calls")
	renameCmd.Flags().Int("max-retries", 0, "retry attempts after a failed chat call")
	renameCmd.Flags().Bool("dry-run", false, "compute new names without renaming")
	renameCmd.Flags().String("log-file", "", "write run results to a YAML file")
	renameCmd.Flags().Bool("no-history", false, "do not record the run in the history database")

	rootCmd.AddCommand(renameCmd)
}

func runRename(cmd *cobra.Command, args []string) error {
	dir := args[0]
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return fmt.Errorf("%s is not a valid directory", dir)
	}

	cfg := renameConfig(cmd)

	pipe := &rename.Pipeline{
		Extractor: extract.NewChain(cfg.MaxPages, os.Stderr),
		Chat:      infer.NewOllamaBackend(cfg.AIConfig),
		Cfg:       cfg,
		W:         os.Stderr,
	}

	started := time.Now()
	results, summary, err := pipe.RenameAll(cmd.Context(), dir)
	if err != nil {
		return err
	}

	report.Render(os.Stdout, results)

	if logFile, _ := cmd.Flags().GetString("log-file"); logFile != "" {
		if err := report.WriteYAML(logFile, results); err != nil {
			return err
		}
	}

	noHistory, _ := cmd.Flags().GetBool("no-history")
	if !noHistory && !cfg.DryRun {
		recordRun(dir, started, summary, results)
	}

	if summary.HasFailures() {
		return fmt.Errorf("%d file(s) failed to rename", summary.Failed)
	}
	return nil
}

// recordRun stores the run in the history database. History is a
// convenience record, so failures only warn.
func recordRun(dir string, started time.Time, summary rename.BatchSummary, results []types.RenameResult) {
	store, err := history.NewStore(historyConfig())
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: opening history: %v\n", err)
		return
	}
	defer store.Close()

	run := history.Run{
		StartedAt: started,
		Directory: dir,
		Renamed:   summary.Renamed,
		Skipped:   summary.Skipped,
		Encrypted: summary.Encrypted,
		Failed:    summary.Failed,
	}
	if _, err := store.Record(context.Background(), run, results); err != nil {
		fmt.Fprintf(os.Stderr, "warning: recording history: %v\n", err)
	}
}

// renameConfig assembles the pipeline config from flags, the config file,
// and loaded secrets, in that precedence order.
func renameConfig(cmd *cobra.Command) types.RenameConfig {
	cfg := types.RenameConfig{
		AIConfig: types.AIConfig{
			Model:      viper.GetString("model"),
			Host:       viper.GetString("host"),
			APIKey:     secretDefault("llm-api-key", viper.GetString("api_key")),
			Timeout:    viper.GetDuration("timeout"),
			MaxRetries: viper.GetInt("max_retries"),
		},
		Extension:      viper.GetString("extension"),
		MaxPages:       viper.GetInt("max_pages"),
		MaxPromptChars: viper.GetInt("max_prompt_chars"),
	}

	if cmd.Flags().Changed("model") {
		cfg.Model, _ = cmd.Flags().GetString("model")
	}
	if cmd.Flags().Changed("host") {
		cfg.Host, _ = cmd.Flags().GetString("host")
	}
	if cmd.Flags().Changed("timeout") {
		cfg.Timeout, _ = cmd.Flags().GetDuration("timeout")
	}
	if cmd.Flags().Changed("max-retries") {
		cfg.MaxRetries, _ = cmd.Flags().GetInt("max-retries")
	}
	cfg.DryRun, _ = cmd.Flags().GetBool("dry-run")

	cfg.ApplyDefaults()
	return cfg
}

// historyConfig reads the history database settings from the config file.
func historyConfig() types.HistoryConfig {
	return types.HistoryConfig{
		Dir:     viper.GetString("history.dir"),
		MaxRuns: viper.GetInt("history.max_runs"),
	}
}
