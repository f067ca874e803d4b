package runstore

import (
	"context"
	"fmt"
	"time"
)

// FitRecord captures the outcome of mask selection for a page in one run.
type FitRecord struct {
	RunID string
	Page  string
	// Failed marks pages where no candidate stayed under the deviation
	// limit. ChosenIndex and FitError then describe the best rejected
	// candidate.
	Failed      bool
	ChosenIndex int
	FitError    float64
}

// Summary aggregates stored fit records for reporting.
type Summary struct {
	TotalFits   int64
	Failures    int64
	Pages       int64
	MeanError   float64
	MaxError    float64
	IndexCounts map[int]int64
}

func boolToInt(value bool) int {
	if value {
		return 1
	}
	return 0
}

// RecordFit appends a mask fit outcome.
func (s *Store) RecordFit(ctx context.Context, record FitRecord) error {
	timestamp := time.Now().UTC().Format(time.RFC3339Nano)
	if _, err := s.execWithRetry(ctx,
		`INSERT INTO mask_fits (run_id, page, failed, chosen_index, fit_error, recorded_at)
         VALUES (?, ?, ?, ?, ?, ?)`,
		record.RunID,
		record.Page,
		boolToInt(record.Failed),
		record.ChosenIndex,
		record.FitError,
		timestamp,
	); err != nil {
		return fmt.Errorf("record fit: %w", err)
	}
	return nil
}

// FitSummary aggregates all stored fit records.
func (s *Store) FitSummary(ctx context.Context) (Summary, error) {
	ctx = ensureContext(ctx)

	summary := Summary{IndexCounts: make(map[int]int64)}

	row := s.db.QueryRowContext(ctx,
		`SELECT COUNT(1),
                COALESCE(SUM(failed), 0),
                COUNT(DISTINCT page),
                COALESCE(AVG(fit_error), 0),
                COALESCE(MAX(fit_error), 0)
         FROM mask_fits`)
	if err := row.Scan(
		&summary.TotalFits,
		&summary.Failures,
		&summary.Pages,
		&summary.MeanError,
		&summary.MaxError,
	); err != nil {
		return Summary{}, fmt.Errorf("aggregate fits: %w", err)
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT chosen_index, COUNT(1) FROM mask_fits WHERE failed = 0 GROUP BY chosen_index ORDER BY chosen_index`)
	if err != nil {
		return Summary{}, fmt.Errorf("aggregate chosen indexes: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			index int
			count int64
		)
		if err := rows.Scan(&index, &count); err != nil {
			return Summary{}, fmt.Errorf("scan chosen index: %w", err)
		}
		summary.IndexCounts[index] = count
	}
	return summary, rows.Err()
}

// FitsForPage returns the stored fit history for one page, newest first.
func (s *Store) FitsForPage(ctx context.Context, page string) ([]FitRecord, error) {
	ctx = ensureContext(ctx)
	rows, err := s.db.QueryContext(ctx,
		`SELECT run_id, page, failed, chosen_index, fit_error
         FROM mask_fits WHERE page = ? ORDER BY id DESC`, page)
	if err != nil {
		return nil, fmt.Errorf("query page fits: %w", err)
	}
	defer rows.Close()

	var records []FitRecord
	for rows.Next() {
		var (
			record FitRecord
			failed int
		)
		if err := rows.Scan(&record.RunID, &record.Page, &failed, &record.ChosenIndex, &record.FitError); err != nil {
			return nil, fmt.Errorf("scan fit record: %w", err)
		}
		record.Failed = failed != 0
		records = append(records, record)
	}
	return records, rows.Err()
}
