package main

import (
	"errors"
	"fmt"
	"io"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"chorus/internal/batch"
	"chorus/internal/config"
	"chorus/internal/dataset"
	"chorus/internal/logging"
	"chorus/internal/preflight"
	"chorus/internal/runstore"
)

func newRunCommand(ctx *commandContext) *cobra.Command {
	var (
		boundariesID string
		labelsID     string
		filter       string
		feature      string
		annotBeats   bool
		frameSync    bool
		workers      int
		seed         int64
	)

	cmd := &cobra.Command{
		Use:   "run <dataset-root>",
		Short: "Segment every track in a dataset",
		Long: `Run segments every audio track under the dataset root and writes one
estimation artifact per track. Boundary and label algorithms are selected
independently; the reserved identifier "gt" takes boundaries from the
reference annotations instead of running an algorithm.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			// Config supplies defaults for any flag the user left untouched.
			flags := cmd.Flags()
			if !flags.Changed("boundaries") {
				boundariesID = cfg.Processing.BoundariesID
			}
			if !flags.Changed("labels") {
				labelsID = cfg.Processing.LabelsID
			}
			if !flags.Changed("feature") {
				feature = cfg.Processing.Feature
			}
			if !flags.Changed("annot-beats") {
				annotBeats = cfg.Processing.AnnotBeats
			}
			if !flags.Changed("framesync") {
				frameSync = cfg.Processing.FrameSync
			}
			if !flags.Changed("workers") {
				workers = cfg.Processing.Workers
			}
			if !flags.Changed("seed") {
				seed = cfg.Processing.Seed
			}

			feature = strings.ToLower(strings.TrimSpace(feature))
			if !config.ValidFeature(feature) {
				return fmt.Errorf("unsupported feature %q (choose one of %s)",
					feature, strings.Join(config.Features, ", "))
			}

			layout := dataset.Layout{
				AudioDir:       cfg.Dataset.AudioDir,
				ReferencesDir:  cfg.Dataset.ReferencesDir,
				EstimationsDir: cfg.Dataset.EstimationsDir,
			}

			out := cmd.OutOrStdout()
			colorize := stdoutIsTerminal()
			root := args[0]

			results, err := preflight.Run(root, layout.AudioDir, layout.EstimationsDir)
			for _, res := range results {
				kind := statusOK
				if !res.Passed {
					kind = statusError
				}
				fmt.Fprintln(out, renderStatusLine(res.Name, kind, res.Detail, colorize))
			}
			if err != nil {
				return err
			}

			logger, err := logging.New(logging.Options{
				Level:   cfg.Logging.Level,
				Format:  cfg.Logging.Format,
				LogFile: cfg.LogFilePath(),
			})
			if err != nil {
				return fmt.Errorf("init logger: %w", err)
			}

			store, err := runstore.Open(cfg)
			if err != nil {
				if errors.Is(err, runstore.ErrLocked) {
					return fmt.Errorf("%w; wait for it to finish or remove a stale lock from %s", err, cfg.Paths.StateDir)
				}
				return fmt.Errorf("open run store: %w", err)
			}
			defer store.Close()

			signalCtx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()

			report, err := batch.Process(signalCtx, batch.Options{
				Root:         root,
				Filter:       filter,
				BoundariesID: boundariesID,
				LabelsID:     labelsID,
				Feature:      feature,
				AnnotBeats:   annotBeats,
				FrameSync:    frameSync,
				Workers:      workers,
				Seed:         seed,
				Layout:       layout,
				Logger:       logger,
				Store:        store,
			})
			if err != nil {
				return err
			}

			printReport(out, report, colorize)
			if !report.Ok() {
				return fmt.Errorf("%d of %d tracks failed", report.Failed(), report.Total)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&boundariesID, "boundaries", "b", "", `Boundary algorithm identifier ("gt" uses reference annotations)`)
	cmd.Flags().StringVarP(&labelsID, "labels", "l", "", "Label algorithm identifier (empty disables labeling)")
	cmd.Flags().StringVarP(&filter, "dataset", "d", dataset.MatchAll, "Collection prefix filter")
	cmd.Flags().StringVar(&feature, "feature", "", "Feature flavor passed to algorithms")
	cmd.Flags().BoolVar(&annotBeats, "annot-beats", false, "Use annotated beats; tracks without beat annotations are skipped")
	cmd.Flags().BoolVar(&frameSync, "framesync", false, "Use frame-synchronous features")
	cmd.Flags().IntVarP(&workers, "workers", "j", 0, "Parallel worker count")
	cmd.Flags().Int64Var(&seed, "seed", 0, "Deterministic seed shared by all tracks")

	return cmd
}

const timeRounding = 10 * time.Millisecond

func printReport(out io.Writer, report *batch.Report, colorize bool) {
	fmt.Fprintln(out)
	fmt.Fprintln(out, renderTable(
		[]string{"Run", "Total", "Processed", "Skipped", "Failed", "Elapsed"},
		[][]string{{
			shortID(report.RunID),
			strconv.Itoa(report.Total),
			strconv.Itoa(report.Processed),
			strconv.Itoa(report.Skipped),
			strconv.Itoa(report.Failed()),
			report.Elapsed.Round(timeRounding).String(),
		}},
		2, 3, 4, 5,
	))

	if report.Ok() {
		fmt.Fprintln(out, renderStatusLine("batch", statusOK, "all tracks completed", colorize))
		return
	}

	rows := make([][]string, 0, len(report.Failures))
	for _, failure := range report.Failures {
		rows = append(rows, []string{failure.Track, failure.Err.Error()})
	}
	fmt.Fprintln(out, renderTable([]string{"Track", "Error"}, rows))
	fmt.Fprintln(out, renderStatusLine("batch", statusError,
		fmt.Sprintf("%d failure(s)", report.Failed()), colorize))
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
