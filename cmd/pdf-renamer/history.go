package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/pdiddy/pdf-renamer/internal/history"
	"github.com/pdiddy/pdf-renamer/internal/report"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List past rename runs",
	Long: `History lists rename runs recorded in the local SQLite database, newest
first. Use "history show <run-id>" to see the per-file rows of one run.
History is a record of what happened; it does not support undo.`,
	RunE: runHistory,
}

var historyShowCmd = &cobra.Command{
	Use:   "show <run-id>",
	Short: "Show the per-file results of one run",
	Args:  cobra.ExactArgs(1),
	RunE:  runHistoryShow,
}

func init() {
	historyCmd.PersistentFlags().Int("limit", 0, "maximum runs to list (0 = default)")

	historyCmd.AddCommand(historyShowCmd)
	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	store, err := history.NewStore(historyConfig())
	if err != nil {
		return err
	}
	defer store.Close()

	limit, _ := cmd.Flags().GetInt("limit")
	if limit <= 0 {
		limit = historyConfig().MaxRuns
	}

	runs, err := store.Runs(context.Background(), limit)
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("No runs recorded.")
		return nil
	}

	fmt.Fprintf(os.Stdout, "%-6s  %-20s  %-40s  %-8s  %-8s  %-9s  %s\n",
		"Run", "Started", "Directory", "Renamed", "Skipped", "Encrypted", "Failed")
	for _, r := range runs {
		dir := r.Directory
		if len(dir) > 40 {
			dir = "..." + dir[len(dir)-37:]
		}
		fmt.Fprintf(os.Stdout, "%-6d  %-20s  %-40s  %-8d  %-8d  %-9d  %d\n",
			r.ID, r.StartedAt.Local().Format(time.DateTime), dir,
			r.Renamed, r.Skipped, r.Encrypted, r.Failed)
	}
	return nil
}

func runHistoryShow(cmd *cobra.Command, args []string) error {
	runID, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid run ID %q", args[0])
	}

	store, err := history.NewStore(historyConfig())
	if err != nil {
		return err
	}
	defer store.Close()

	results, err := store.Results(context.Background(), runID)
	if err != nil {
		return err
	}
	if len(results) == 0 {
		return fmt.Errorf("run %d not found or empty", runID)
	}

	report.Render(os.Stdout, results)
	return nil
}
