package pipeline

import (
	"context"
	"fmt"
	"os"
	"time"

	"cleanplate/internal/logging"
	"cleanplate/internal/profile"
	"cleanplate/internal/steps"
)

// pageJob tracks one page through the phase sequence.
type pageJob struct {
	runner *Runner
	source string
	art    Artifacts
	table  *steps.Table
	snap   profile.Snapshot
	runID  string
}

// process runs every stale phase in order, skipping fresh ones. Once a
// phase runs, everything after it runs too: downstream artifacts were
// derived from outputs that no longer exist in that form. Reports whether
// any phase did work.
func (j *pageJob) process(ctx context.Context) (bool, error) {
	ctx = logging.WithPage(ctx, j.source)

	marks, err := j.runner.store.StageMarks(ctx, j.source)
	if err != nil {
		return false, err
	}
	for _, output := range j.table.Outputs() {
		if mark, ok := marks[string(output)]; ok {
			j.table.Step(output).Restore(mark.Fingerprint)
		}
	}

	ran := false
	for _, ph := range phases {
		if err := ctx.Err(); err != nil {
			return ran, err
		}
		reason := "upstream reran"
		if !ran {
			stale, why := j.phaseStale(ph)
			if !stale {
				logging.WithContext(ctx, j.runner.logger).Debug("phase fresh, skipped",
					logging.String(logging.FieldStage, ph.name),
				)
				continue
			}
			reason = why
		}
		if err := j.runPhase(ctx, ph, reason); err != nil {
			return ran, err
		}
		ran = true
	}
	return ran, nil
}

// phaseStale reports whether the phase must run, with the reason for the
// stage log.
func (j *pageJob) phaseStale(ph phase) (bool, string) {
	for _, output := range ph.outputs {
		if j.table.Step(output).IsStale(j.snap) {
			return true, "settings changed or never computed"
		}
	}
	for _, artifact := range ph.artifacts(j) {
		if _, err := os.Stat(artifact); err != nil {
			return true, "artifact missing"
		}
	}
	return false, ""
}

// runPhase executes one phase and, on success, marks and persists every
// covered stage under the current profile fingerprint. A failed phase
// leaves its marks untouched so the next run retries it.
func (j *pageJob) runPhase(ctx context.Context, ph phase, reason string) error {
	stageCtx := logging.WithStage(ctx, ph.name)
	logger := logging.WithContext(stageCtx, j.runner.logger)

	logger.Info("stage started",
		logging.String(logging.FieldEventType, "stage_start"),
		logging.String("reason", reason),
	)
	start := time.Now()

	if err := ph.run(stageCtx, j); err != nil {
		logger.Error("stage failed",
			logging.String(logging.FieldEventType, "stage_failure"),
			logging.Error(err),
		)
		return fmt.Errorf("%s: %w", ph.name, err)
	}

	for _, output := range ph.outputs {
		step := j.table.Step(output)
		step.MarkComputed(j.snap)
		checksum, _ := step.Checksum()
		if err := j.runner.store.SaveStageMark(stageCtx, j.source, string(output), checksum); err != nil {
			return fmt.Errorf("%s: %w", ph.name, err)
		}
	}

	logger.Info("stage completed",
		logging.String(logging.FieldEventType, "stage_complete"),
		logging.Duration(logging.FieldDuration, time.Since(start)),
	)
	return nil
}
