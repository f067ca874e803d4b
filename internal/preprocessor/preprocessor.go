package preprocessor

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"

	"github.com/disintegration/imaging"

	"cleanplate/internal/geometry"
	"cleanplate/internal/logging"
	"cleanplate/internal/ocr"
	"cleanplate/internal/page"
)

// Settings are the refinement knobs, mirroring the preprocessor profile
// group.
type Settings struct {
	BoxMinSize              int
	SuspiciousBoxMinSize    int
	BoxPaddingInitial       int
	BoxRightPaddingInitial  int
	BoxPaddingExtended      int
	BoxRightPaddingExtended int
	BoxReferencePadding     int
	OCREnabled              bool
	OCRMaxSize              int
	OCRBlacklistPattern     string
}

// Preprocessor derives the extended, merged, and reference collections from
// raw detections.
type Preprocessor struct {
	settings  Settings
	engine    ocr.Engine
	blacklist *regexp.Regexp
	logger    *slog.Logger
}

// New builds a preprocessor. The engine may be nil, which leaves the OCR
// filter switched off; a nil logger falls back to a no-op logger.
func New(settings Settings, engine ocr.Engine, logger *slog.Logger) (*Preprocessor, error) {
	var blacklist *regexp.Regexp
	if pattern := settings.OCRBlacklistPattern; pattern != "" {
		re, err := regexp.Compile(pattern)
		if err != nil {
			return nil, fmt.Errorf("ocr blacklist pattern: %w", err)
		}
		blacklist = re
	}
	return &Preprocessor{
		settings:  settings,
		engine:    engine,
		blacklist: blacklist,
		logger:    logging.NewComponentLogger(logger, "preprocessor"),
	}, nil
}

// Process refines the payload in place.
//
// Raw detections are filtered and padded first, so every later collection
// derives from the surviving boxes: extended grows them further, the merge
// collapses extended overlaps, and reference grows the merged set. The
// caller persists the payload afterwards.
func (p *Preprocessor) Process(ctx context.Context, d *page.Data) error {
	if err := p.FilterAndPad(d); err != nil {
		return err
	}
	return p.DeriveCollections(ctx, d)
}

// FilterAndPad is the first half of Process: sizes are resolved, detections
// below the noise floor dropped, and the survivors padded in place. The raw
// collection afterwards is what the initial-boxes artifact shows.
func (p *Preprocessor) FilterAndPad(d *page.Data) error {
	if err := d.ResolveImageSize(); err != nil {
		return err
	}

	p.filterBySize(d)

	if err := d.GrowAll(page.KindRaw, p.settings.BoxPaddingInitial); err != nil {
		return err
	}
	return d.RightPadAll(page.KindRaw, p.settings.BoxRightPaddingInitial)
}

// DeriveCollections is the second half of Process: the OCR weed pass runs
// over the padded raw boxes, then the extended, merged, and reference
// collections are rebuilt from the survivors.
func (p *Preprocessor) DeriveCollections(ctx context.Context, d *page.Data) error {
	if err := p.filterByText(ctx, d); err != nil {
		return err
	}

	d.Extended = append([]geometry.Box(nil), d.Raw...)
	if err := d.GrowAll(page.KindExtended, p.settings.BoxPaddingExtended); err != nil {
		return err
	}
	if err := d.RightPadAll(page.KindExtended, p.settings.BoxRightPaddingExtended); err != nil {
		return err
	}

	d.ResolveOverlaps()

	d.Reference = append([]geometry.Box(nil), d.MergedExtended...)
	if err := d.GrowAll(page.KindReference, p.settings.BoxReferencePadding); err != nil {
		return err
	}

	p.logger.Debug("payload refined",
		logging.String(logging.FieldPage, d.OriginalPath),
		logging.Int("boxes", len(d.Raw)),
		logging.Int("merged", len(d.MergedExtended)),
	)
	return nil
}

// filterBySize drops detections below the noise floor and flags outliers.
func (p *Preprocessor) filterBySize(d *page.Data) {
	kept := d.Raw[:0]
	dropped := 0
	for _, box := range d.Raw {
		area := box.Area()
		if area < p.settings.BoxMinSize {
			dropped++
			continue
		}
		if p.settings.SuspiciousBoxMinSize > 0 && area >= p.settings.SuspiciousBoxMinSize {
			p.logger.Warn("suspiciously large detection",
				logging.String(logging.FieldPage, d.OriginalPath),
				logging.String("box", box.String()),
				logging.Int("area", area),
			)
		}
		kept = append(kept, box)
	}
	d.Raw = kept
	if dropped > 0 {
		p.logger.Debug("small detections dropped",
			logging.String(logging.FieldPage, d.OriginalPath),
			logging.Int("count", dropped),
		)
	}
}

// filterByText drops boxes whose recognized content matches the blacklist.
// Only boxes under the OCR area cap get a look; larger boxes hold real text.
// Recognition trouble keeps the box, a page never fails over OCR.
func (p *Preprocessor) filterByText(ctx context.Context, d *page.Data) error {
	if !p.settings.OCREnabled || p.engine == nil || p.blacklist == nil || len(d.Raw) == 0 {
		return nil
	}

	img, err := imaging.Open(d.ImagePath)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", page.ErrImageUnreadable, d.ImagePath, err)
	}

	kept := d.Raw[:0]
	for _, box := range d.Raw {
		if box.Area() >= p.settings.OCRMaxSize {
			kept = append(kept, box)
			continue
		}

		text, err := p.engine.Text(ctx, img, box)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			p.logger.Warn("ocr failed; keeping box",
				logging.String(logging.FieldPage, d.OriginalPath),
				logging.String("box", box.String()),
				logging.Error(err),
			)
			kept = append(kept, box)
			continue
		}

		if p.blacklist.MatchString(text) {
			p.logger.Info("box dropped by blacklist",
				logging.String(logging.FieldPage, d.OriginalPath),
				logging.String("box", box.String()),
				logging.String("text", text),
			)
			continue
		}
		kept = append(kept, box)
	}
	d.Raw = kept
	return nil
}
