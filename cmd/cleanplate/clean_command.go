package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"cleanplate/internal/logging"
	"cleanplate/internal/ocr"
	"cleanplate/internal/pipeline"
	"cleanplate/internal/preflight"
	"cleanplate/internal/profile"
)

func newCleanCommand(ctx *commandContext) *cobra.Command {
	var workers int

	cmd := &cobra.Command{
		Use:   "clean [paths...]",
		Short: "Clean text from the given pages or directories",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			prof, err := ctx.ensureProfile()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}
			if err := gateOnRequiredTools(prof, logger); err != nil {
				return err
			}

			pages, err := pipeline.CollectPages(args)
			if err != nil {
				return err
			}

			store, err := ctx.openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			opts := []pipeline.Option{pipeline.WithWorkerLimit(workers)}
			if prof.Preprocessor.OCREnabled {
				engine, err := ocr.New()
				switch {
				case errors.Is(err, ocr.ErrUnavailable):
					logger.Warn("ocr backend unavailable; blacklist filter off",
						logging.String(logging.FieldEventType, "ocr_unavailable"),
					)
				case err != nil:
					return fmt.Errorf("initialize ocr: %w", err)
				default:
					opts = append(opts, pipeline.WithOCREngine(engine))
				}
			}

			runner, err := pipeline.New(prof, store, logger, opts...)
			if err != nil {
				return err
			}

			runCtx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			summary, err := runner.Run(runCtx, pages)
			if err != nil {
				return err
			}

			printRunSummary(cmd.OutOrStdout(), summary)
			if summary.Failed > 0 {
				return fmt.Errorf("%d of %d pages failed", summary.Failed, summary.Pages)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&workers, "workers", 0, "Parallel page workers (0 sizes to the host)")
	return cmd
}

// gateOnRequiredTools validates external tool readiness before any page work.
// Returns nil when all required tools resolve, or an error describing all
// failures.
func gateOnRequiredTools(prof *profile.Profile, logger *slog.Logger) error {
	var failures []string
	for _, status := range preflight.CheckSystemDeps(prof) {
		if status.Available {
			logger.Debug("preflight check passed",
				logging.String("check", status.Name),
			)
			continue
		}
		if status.Optional {
			logger.Warn("optional tool unavailable",
				logging.String("check", status.Name),
				logging.String("detail", status.Detail),
				logging.String(logging.FieldEventType, "preflight_degraded"),
			)
			continue
		}
		logger.Error("preflight check failed",
			logging.String("check", status.Name),
			logging.String("detail", status.Detail),
			logging.String(logging.FieldEventType, "preflight_failed"),
		)
		failures = append(failures, fmt.Sprintf("%s: %s", status.Name, status.Detail))
	}
	if len(failures) > 0 {
		return fmt.Errorf("preflight checks failed: %s (run `cleanplate doctor` for details)",
			strings.Join(failures, "; "))
	}
	return nil
}

func printRunSummary(out io.Writer, summary *pipeline.Summary) {
	fmt.Fprintf(out, "Run %s finished in %s\n", summary.RunID, summary.Duration.Round(time.Millisecond))
	fmt.Fprintf(out, "  cleaned: %d  fresh: %d  failed: %d\n", summary.Cleaned, summary.Fresh, summary.Failed)
	for _, failure := range summary.Failures {
		fmt.Fprintf(out, "  failed %s: %v\n", failure.Page, failure.Err)
	}
}
