package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"sync"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"
	"github.com/shirou/gopsutil/v3/mem"
	"golang.org/x/sync/errgroup"

	"cleanplate/internal/denoiser"
	"cleanplate/internal/detector"
	"cleanplate/internal/logging"
	"cleanplate/internal/masker"
	"cleanplate/internal/ocr"
	"cleanplate/internal/preprocessor"
	"cleanplate/internal/profile"
	"cleanplate/internal/runstore"
	"cleanplate/internal/steps"
)

const (
	lockFileName = "cleanplate.lock"
	// perPageBudget is the working memory one in-flight page is assumed to
	// need: the decoded page, its masks, and the candidate layers all live
	// at once during fitting.
	perPageBudget = 512 << 20
)

// Runner executes cleaning runs against one profile. Construct with New;
// the zero value is not usable.
type Runner struct {
	prof   *profile.Profile
	store  *runstore.Store
	detect detector.Detector
	engine ocr.Engine
	pre    *preprocessor.Preprocessor
	fit    *masker.Fitter
	den    *denoiser.Denoiser
	logger *slog.Logger

	workers int
}

// Option customizes runner construction.
type Option func(*Runner)

// WithDetector replaces the detector client built from the profile.
func WithDetector(d detector.Detector) Option {
	return func(r *Runner) {
		if d != nil {
			r.detect = d
		}
	}
}

// WithOCREngine supplies the recognition engine for the blacklist filter.
// Without one the filter stays off.
func WithOCREngine(engine ocr.Engine) Option {
	return func(r *Runner) {
		r.engine = engine
	}
}

// WithWorkerLimit pins the parallel page count, bypassing host sizing.
func WithWorkerLimit(workers int) Option {
	return func(r *Runner) {
		if workers > 0 {
			r.workers = workers
		}
	}
}

// New builds a runner for the profile. The store keeps stage marks and fit
// analytics between runs.
func New(prof *profile.Profile, store *runstore.Store, logger *slog.Logger, opts ...Option) (*Runner, error) {
	if prof == nil {
		return nil, errors.New("profile is required")
	}
	if store == nil {
		return nil, errors.New("run store is required")
	}

	r := &Runner{
		prof:   prof,
		store:  store,
		logger: logging.NewComponentLogger(logger, "pipeline"),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(r)
		}
	}

	if r.detect == nil {
		client, err := detector.New(detectorSettings(prof))
		if err != nil {
			return nil, err
		}
		r.detect = client
	}

	pre, err := preprocessor.New(preprocessorSettings(prof), r.engine, logger)
	if err != nil {
		return nil, err
	}
	r.pre = pre
	r.fit = masker.NewFitter(maskerSettings(prof), logger)
	r.den = denoiser.New(denoiserSettings(prof), logger)
	return r, nil
}

// Summary is the outcome of one run.
type Summary struct {
	RunID    string
	Pages    int
	Cleaned  int
	Fresh    int
	Failed   int
	Duration time.Duration
	Failures []PageFailure
}

// PageFailure pairs a failed page with the error that stopped it.
type PageFailure struct {
	Page string
	Err  error
}

// Run cleans the given source pages. The cache lock is held for the whole
// run, so two runs never race on the same cache directory. Page failures
// are recorded in the summary while sibling pages keep going; the returned
// error is reserved for run-level problems and cancellation.
func (r *Runner) Run(ctx context.Context, sources []string) (*Summary, error) {
	if len(sources) == 0 {
		return nil, errors.New("no pages to clean")
	}
	if err := os.MkdirAll(r.prof.Paths.CacheDir, 0o755); err != nil {
		return nil, fmt.Errorf("create cache directory: %w", err)
	}
	if out := r.prof.Paths.OutputDir; out != "" {
		if err := os.MkdirAll(out, 0o755); err != nil {
			return nil, fmt.Errorf("create output directory: %w", err)
		}
	}

	lock := flock.New(filepath.Join(r.prof.Paths.CacheDir, lockFileName))
	ok, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire cache lock: %w", err)
	}
	if !ok {
		return nil, errors.New("another cleanplate run is already using this cache")
	}
	defer func() {
		_ = lock.Unlock()
	}()

	runID := uuid.NewString()
	ctx = logging.WithRunID(ctx, runID)
	logger := logging.WithContext(ctx, r.logger)

	workers := r.workers
	if workers <= 0 {
		workers = workerLimit(len(sources))
	}
	snap := r.prof.Snapshot()

	logger.Info("run started",
		logging.String(logging.FieldEventType, "run_start"),
		logging.Int("pages", len(sources)),
		logging.Int("workers", workers),
	)

	start := time.Now()
	summary := &Summary{RunID: runID, Pages: len(sources)}
	var mu sync.Mutex

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(workers)
	for _, source := range sources {
		source := source
		group.Go(func() error {
			job := &pageJob{
				runner: r,
				source: source,
				art:    ArtifactsFor(r.prof.Paths.CacheDir, r.prof.Paths.OutputDir, source),
				table:  steps.NewTable(),
				snap:   snap,
				runID:  runID,
			}
			ran, err := job.process(groupCtx)

			mu.Lock()
			defer mu.Unlock()
			switch {
			case err != nil:
				summary.Failed++
				summary.Failures = append(summary.Failures, PageFailure{Page: source, Err: err})
				// One bad page stays contained, but a dead context means
				// the whole run is going down.
				if groupCtx.Err() != nil {
					return groupCtx.Err()
				}
			case ran:
				summary.Cleaned++
			default:
				summary.Fresh++
			}
			return nil
		})
	}
	err = group.Wait()

	sort.Slice(summary.Failures, func(i, k int) bool {
		return summary.Failures[i].Page < summary.Failures[k].Page
	})
	summary.Duration = time.Since(start)
	if err != nil {
		return summary, err
	}

	logger.Info("run finished",
		logging.String(logging.FieldEventType, "run_complete"),
		logging.Int("cleaned", summary.Cleaned),
		logging.Int("fresh", summary.Fresh),
		logging.Int("failed", summary.Failed),
		logging.Duration(logging.FieldDuration, summary.Duration),
	)
	return summary, nil
}

// workerLimit sizes the parallel page count: one worker per CPU, but never
// more than available memory can feed, and never more than there are pages.
func workerLimit(pages int) int {
	limit := runtime.NumCPU()
	if vm, err := mem.VirtualMemory(); err == nil {
		byMemory := int(vm.Available / perPageBudget)
		if byMemory < 1 {
			byMemory = 1
		}
		if byMemory < limit {
			limit = byMemory
		}
	}
	if pages < limit {
		limit = pages
	}
	if limit < 1 {
		limit = 1
	}
	return limit
}

func detectorSettings(prof *profile.Profile) detector.Settings {
	return detector.Settings{
		Command:             prof.Detector.Command,
		ModelPath:           prof.Detector.ModelPath,
		ConfidenceThreshold: prof.Detector.ConfidenceThreshold,
		TimeoutSeconds:      prof.Detector.TimeoutSeconds,
	}
}

func preprocessorSettings(prof *profile.Profile) preprocessor.Settings {
	return preprocessor.Settings{
		BoxMinSize:              prof.Preprocessor.BoxMinSize,
		SuspiciousBoxMinSize:    prof.Preprocessor.SuspiciousBoxMinSize,
		BoxPaddingInitial:       prof.Preprocessor.BoxPaddingInitial,
		BoxRightPaddingInitial:  prof.Preprocessor.BoxRightPaddingInitial,
		BoxPaddingExtended:      prof.Preprocessor.BoxPaddingExtended,
		BoxRightPaddingExtended: prof.Preprocessor.BoxRightPaddingExtended,
		BoxReferencePadding:     prof.Preprocessor.BoxReferencePadding,
		OCREnabled:              prof.Preprocessor.OCREnabled,
		OCRMaxSize:              prof.Preprocessor.OCRMaxSize,
		OCRBlacklistPattern:     prof.Preprocessor.OCRBlacklistPattern,
	}
}

func maskerSettings(prof *profile.Profile) masker.Settings {
	return masker.Settings{
		GrowthStepPixels:     prof.Masker.MaskGrowthStepPixels,
		GrowthSteps:          prof.Masker.MaskGrowthSteps,
		MinThickness:         prof.Masker.MinMaskThickness,
		OffWhiteMaxThreshold: prof.Masker.OffWhiteMaxThreshold,
		ImprovementThreshold: prof.Masker.MaskImprovementThreshold,
		SelectionFast:        prof.Masker.MaskSelectionFast,
		MaxStandardDeviation: prof.Masker.MaskMaxStandardDeviation,
	}
}

func denoiserSettings(prof *profile.Profile) denoiser.Settings {
	return denoiser.Settings{
		Enabled:              prof.Denoiser.DenoisingEnabled,
		MinStandardDeviation: prof.Denoiser.NoiseMinStandardDeviation,
		FilterStrength:       prof.Denoiser.FilterStrength,
		ColorFilterStrength:  prof.Denoiser.ColorFilterStrength,
		TemplateWindowSize:   prof.Denoiser.TemplateWindowSize,
		SearchWindowSize:     prof.Denoiser.SearchWindowSize,
	}
}
