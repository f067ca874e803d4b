package runstore

import (
	"context"
	"fmt"
	"time"
)

// Mark records the fingerprint a page stage output was last computed with.
type Mark struct {
	Stage       string
	Fingerprint uint64
	ComputedAt  time.Time
}

// StageMarks returns the persisted marks for a page keyed by stage name.
// Pages never seen before return an empty map.
func (s *Store) StageMarks(ctx context.Context, page string) (map[string]Mark, error) {
	ctx = ensureContext(ctx)
	rows, err := s.db.QueryContext(ctx,
		`SELECT stage, fingerprint, computed_at FROM stage_marks WHERE page = ?`, page)
	if err != nil {
		return nil, fmt.Errorf("query stage marks: %w", err)
	}
	defer rows.Close()

	marks := make(map[string]Mark)
	for rows.Next() {
		var (
			stage       string
			fingerprint int64
			computedRaw string
		)
		if err := rows.Scan(&stage, &fingerprint, &computedRaw); err != nil {
			return nil, fmt.Errorf("scan stage mark: %w", err)
		}
		mark := Mark{Stage: stage, Fingerprint: uint64(fingerprint)}
		if computed, err := parseTimeString(computedRaw); err == nil {
			mark.ComputedAt = computed
		}
		marks[stage] = mark
	}
	return marks, rows.Err()
}

// SaveStageMark records the fingerprint a page stage was just computed with,
// replacing any previous mark for the same page and stage.
func (s *Store) SaveStageMark(ctx context.Context, page, stage string, fingerprint uint64) error {
	timestamp := time.Now().UTC().Format(time.RFC3339Nano)
	// uint64 fingerprints ride in SQLite's signed integer column as their
	// bit pattern.
	if _, err := s.execWithRetry(ctx,
		`INSERT INTO stage_marks (page, stage, fingerprint, computed_at)
         VALUES (?, ?, ?, ?)
         ON CONFLICT(page, stage) DO UPDATE SET
             fingerprint = excluded.fingerprint,
             computed_at = excluded.computed_at`,
		page, stage, int64(fingerprint), timestamp,
	); err != nil {
		return fmt.Errorf("save stage mark: %w", err)
	}
	return nil
}

// Pages returns the distinct page paths holding cached stage marks.
func (s *Store) Pages(ctx context.Context) ([]string, error) {
	ctx = ensureContext(ctx)
	rows, err := s.db.QueryContext(ctx, `SELECT DISTINCT page FROM stage_marks ORDER BY page`)
	if err != nil {
		return nil, fmt.Errorf("query cached pages: %w", err)
	}
	defer rows.Close()

	var pages []string
	for rows.Next() {
		var page string
		if err := rows.Scan(&page); err != nil {
			return nil, fmt.Errorf("scan cached page: %w", err)
		}
		pages = append(pages, page)
	}
	return pages, rows.Err()
}

// ClearPage removes the stage marks for one page, forcing recompute on the
// next run. Fit records stay; they are history, not cache.
func (s *Store) ClearPage(ctx context.Context, page string) (int64, error) {
	res, err := s.execWithRetry(ctx, `DELETE FROM stage_marks WHERE page = ?`, page)
	if err != nil {
		return 0, fmt.Errorf("clear page marks: %w", err)
	}
	return res.RowsAffected()
}

// Clear removes all cached stage marks and fit records.
func (s *Store) Clear(ctx context.Context) (int64, error) {
	res, err := s.execWithRetry(ctx, `DELETE FROM stage_marks`)
	if err != nil {
		return 0, fmt.Errorf("clear stage marks: %w", err)
	}
	cleared, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected: %w", err)
	}
	if _, err := s.execWithRetry(ctx, `DELETE FROM mask_fits`); err != nil {
		return cleared, fmt.Errorf("clear fit records: %w", err)
	}
	return cleared, nil
}
