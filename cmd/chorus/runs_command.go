package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"chorus/internal/runstore"
)

func newRunsCommand(ctx *commandContext) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "runs [run-id]",
		Short: "Show batch run history",
		Long: `Without arguments, runs lists the most recent batch runs. With a run
identifier (or unique prefix shown in the listing), it shows the per-track
outcomes of that run, failures first.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			store, err := runstore.Open(cfg)
			if err != nil {
				return fmt.Errorf("open run store: %w", err)
			}
			defer store.Close()

			if len(args) == 1 {
				return printRunItems(cmd, store, args[0])
			}
			return printRecentRuns(cmd, store, limit)
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 10, "Number of runs to list")
	return cmd
}

func printRecentRuns(cmd *cobra.Command, store *runstore.Store, limit int) error {
	runs, err := store.RecentRuns(cmd.Context(), limit)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if len(runs) == 0 {
		fmt.Fprintln(out, "No runs recorded yet.")
		return nil
	}

	rows := make([][]string, 0, len(runs))
	for _, run := range runs {
		labels := run.LabelsID
		if labels == "" {
			labels = "-"
		}
		rows = append(rows, []string{
			shortID(run.ID),
			run.StartedAt.Local().Format("2006-01-02 15:04:05"),
			run.BoundariesID,
			labels,
			run.Fingerprint,
			strconv.Itoa(run.Processed),
			strconv.Itoa(run.Skipped),
			strconv.Itoa(run.Failed),
			runDuration(run),
		})
	}
	fmt.Fprintln(out, renderTable(
		[]string{"Run", "Started", "Boundaries", "Labels", "Params", "Processed", "Skipped", "Failed", "Duration"},
		rows, 6, 7, 8,
	))
	return nil
}

func printRunItems(cmd *cobra.Command, store *runstore.Store, idPrefix string) error {
	run, err := findRun(cmd, store, idPrefix)
	if err != nil {
		return err
	}
	items, err := store.RunItems(cmd.Context(), run.ID)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if len(items) == 0 {
		fmt.Fprintf(out, "Run %s recorded no items.\n", shortID(run.ID))
		return nil
	}

	rows := make([][]string, 0, len(items))
	for _, item := range items {
		detail := item.Error
		if item.Status == runstore.ItemProcessed {
			detail = item.OutputPath
		}
		rows = append(rows, []string{
			item.Track,
			string(item.Status),
			item.Elapsed.Round(timeRounding).String(),
			detail,
		})
	}
	fmt.Fprintln(out, renderTable([]string{"Track", "Status", "Elapsed", "Detail"}, rows, 3))
	return nil
}

// findRun resolves a full run ID or a unique prefix against recent history.
func findRun(cmd *cobra.Command, store *runstore.Store, idPrefix string) (*runstore.Run, error) {
	runs, err := store.RecentRuns(cmd.Context(), 100)
	if err != nil {
		return nil, err
	}
	var match *runstore.Run
	for i := range runs {
		if runs[i].ID == idPrefix {
			return &runs[i], nil
		}
		if len(idPrefix) >= 4 && len(runs[i].ID) >= len(idPrefix) && runs[i].ID[:len(idPrefix)] == idPrefix {
			if match != nil {
				return nil, fmt.Errorf("run prefix %q is ambiguous", idPrefix)
			}
			match = &runs[i]
		}
	}
	if match == nil {
		return nil, fmt.Errorf("no run matches %q", idPrefix)
	}
	return match, nil
}

func runDuration(run runstore.Run) string {
	if run.FinishedAt == nil {
		return "running"
	}
	return run.FinishedAt.Sub(run.StartedAt).Round(time.Second).String()
}
