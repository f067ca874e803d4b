package runstore_test

import (
	"context"
	"fmt"
	"math"
	"testing"

	"cleanplate/internal/runstore"
	"cleanplate/internal/testsupport"
)

func TestOpenInitializesSchema(t *testing.T) {
	prof := testsupport.NewProfile(t)
	store := testsupport.MustOpenStore(t, prof)

	ctx := context.Background()
	marks, err := store.StageMarks(ctx, "page_001.png")
	if err != nil {
		t.Fatalf("StageMarks failed: %v", err)
	}
	if len(marks) != 0 {
		t.Fatalf("expected empty marks for unseen page, got %d", len(marks))
	}
}

func TestReopenKeepsData(t *testing.T) {
	prof := testsupport.NewProfile(t)
	ctx := context.Background()

	first, err := runstore.Open(prof)
	if err != nil {
		t.Fatalf("runstore.Open: %v", err)
	}
	if err := first.SaveStageMark(ctx, "page_001.png", "final_mask", 42); err != nil {
		t.Fatalf("SaveStageMark failed: %v", err)
	}
	if err := first.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	second := testsupport.MustOpenStore(t, prof)
	marks, err := second.StageMarks(ctx, "page_001.png")
	if err != nil {
		t.Fatalf("StageMarks failed: %v", err)
	}
	mark, ok := marks["final_mask"]
	if !ok {
		t.Fatal("expected persisted mark to survive reopen")
	}
	if mark.Fingerprint != 42 {
		t.Fatalf("fingerprint = %d, want 42", mark.Fingerprint)
	}
	if mark.ComputedAt.IsZero() {
		t.Fatal("expected computed_at timestamp")
	}
}

func TestSaveStageMarkReplacesExisting(t *testing.T) {
	prof := testsupport.NewProfile(t)
	store := testsupport.MustOpenStore(t, prof)

	ctx := context.Background()
	if err := store.SaveStageMark(ctx, "page_001.png", "box_mask", 7); err != nil {
		t.Fatalf("SaveStageMark failed: %v", err)
	}
	if err := store.SaveStageMark(ctx, "page_001.png", "box_mask", 9); err != nil {
		t.Fatalf("SaveStageMark replace failed: %v", err)
	}

	marks, err := store.StageMarks(ctx, "page_001.png")
	if err != nil {
		t.Fatalf("StageMarks failed: %v", err)
	}
	if len(marks) != 1 {
		t.Fatalf("expected single mark after replace, got %d", len(marks))
	}
	if marks["box_mask"].Fingerprint != 9 {
		t.Fatalf("fingerprint = %d, want 9", marks["box_mask"].Fingerprint)
	}
}

func TestStageMarkKeepsHighBitFingerprints(t *testing.T) {
	prof := testsupport.NewProfile(t)
	store := testsupport.MustOpenStore(t, prof)

	ctx := context.Background()
	// Values above the int64 range must survive the signed column.
	fingerprint := uint64(math.MaxUint64 - 12345)
	if err := store.SaveStageMark(ctx, "page_002.png", "cut_mask", fingerprint); err != nil {
		t.Fatalf("SaveStageMark failed: %v", err)
	}

	marks, err := store.StageMarks(ctx, "page_002.png")
	if err != nil {
		t.Fatalf("StageMarks failed: %v", err)
	}
	if got := marks["cut_mask"].Fingerprint; got != fingerprint {
		t.Fatalf("fingerprint = %d, want %d", got, fingerprint)
	}
}

func TestMarksAreScopedPerPage(t *testing.T) {
	prof := testsupport.NewProfile(t)
	store := testsupport.MustOpenStore(t, prof)

	ctx := context.Background()
	if err := store.SaveStageMark(ctx, "a.png", "input", 1); err != nil {
		t.Fatalf("SaveStageMark failed: %v", err)
	}
	if err := store.SaveStageMark(ctx, "b.png", "input", 2); err != nil {
		t.Fatalf("SaveStageMark failed: %v", err)
	}

	marks, err := store.StageMarks(ctx, "a.png")
	if err != nil {
		t.Fatalf("StageMarks failed: %v", err)
	}
	if marks["input"].Fingerprint != 1 {
		t.Fatalf("fingerprint = %d, want 1", marks["input"].Fingerprint)
	}

	pages, err := store.Pages(ctx)
	if err != nil {
		t.Fatalf("Pages failed: %v", err)
	}
	if len(pages) != 2 || pages[0] != "a.png" || pages[1] != "b.png" {
		t.Fatalf("unexpected pages: %v", pages)
	}
}

func TestClearPageRemovesOnlyThatPage(t *testing.T) {
	prof := testsupport.NewProfile(t)
	store := testsupport.MustOpenStore(t, prof)

	ctx := context.Background()
	for _, page := range []string{"a.png", "b.png"} {
		for _, stage := range []string{"input", "ai_mask"} {
			if err := store.SaveStageMark(ctx, page, stage, 5); err != nil {
				t.Fatalf("SaveStageMark failed: %v", err)
			}
		}
	}

	removed, err := store.ClearPage(ctx, "a.png")
	if err != nil {
		t.Fatalf("ClearPage failed: %v", err)
	}
	if removed != 2 {
		t.Fatalf("expected 2 marks removed, got %d", removed)
	}

	remaining, err := store.StageMarks(ctx, "b.png")
	if err != nil {
		t.Fatalf("StageMarks failed: %v", err)
	}
	if len(remaining) != 2 {
		t.Fatalf("expected b.png marks untouched, got %d", len(remaining))
	}
}

func TestClearWipesMarksAndFits(t *testing.T) {
	prof := testsupport.NewProfile(t)
	store := testsupport.MustOpenStore(t, prof)

	ctx := context.Background()
	if err := store.SaveStageMark(ctx, "a.png", "input", 1); err != nil {
		t.Fatalf("SaveStageMark failed: %v", err)
	}
	if err := store.RecordFit(ctx, runstore.FitRecord{RunID: "run-1", Page: "a.png", ChosenIndex: 2, FitError: 3.5}); err != nil {
		t.Fatalf("RecordFit failed: %v", err)
	}

	if _, err := store.Clear(ctx); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}

	pages, err := store.Pages(ctx)
	if err != nil {
		t.Fatalf("Pages failed: %v", err)
	}
	if len(pages) != 0 {
		t.Fatalf("expected no cached pages after clear, got %v", pages)
	}

	summary, err := store.FitSummary(ctx)
	if err != nil {
		t.Fatalf("FitSummary failed: %v", err)
	}
	if summary.TotalFits != 0 {
		t.Fatalf("expected no fit records after clear, got %d", summary.TotalFits)
	}
}

func TestFitSummaryAggregates(t *testing.T) {
	prof := testsupport.NewProfile(t)
	store := testsupport.MustOpenStore(t, prof)

	ctx := context.Background()
	records := []runstore.FitRecord{
		{RunID: "run-1", Page: "a.png", ChosenIndex: 0, FitError: 2.0},
		{RunID: "run-1", Page: "b.png", ChosenIndex: 3, FitError: 6.0},
		{RunID: "run-2", Page: "a.png", ChosenIndex: 0, FitError: 4.0},
		{RunID: "run-2", Page: "c.png", Failed: true, ChosenIndex: 11, FitError: 40.0},
	}
	for i, record := range records {
		if err := store.RecordFit(ctx, record); err != nil {
			t.Fatalf("RecordFit %d failed: %v", i, err)
		}
	}

	summary, err := store.FitSummary(ctx)
	if err != nil {
		t.Fatalf("FitSummary failed: %v", err)
	}
	if summary.TotalFits != 4 {
		t.Fatalf("TotalFits = %d, want 4", summary.TotalFits)
	}
	if summary.Failures != 1 {
		t.Fatalf("Failures = %d, want 1", summary.Failures)
	}
	if summary.Pages != 3 {
		t.Fatalf("Pages = %d, want 3", summary.Pages)
	}
	if summary.MeanError != 13.0 {
		t.Fatalf("MeanError = %v, want 13.0", summary.MeanError)
	}
	if summary.MaxError != 40.0 {
		t.Fatalf("MaxError = %v, want 40.0", summary.MaxError)
	}
	if summary.IndexCounts[0] != 2 || summary.IndexCounts[3] != 1 {
		t.Fatalf("unexpected index counts: %v", summary.IndexCounts)
	}
	if _, ok := summary.IndexCounts[11]; ok {
		t.Fatal("failed fits must not count toward chosen-index distribution")
	}
}

func TestFitsForPageNewestFirst(t *testing.T) {
	prof := testsupport.NewProfile(t)
	store := testsupport.MustOpenStore(t, prof)

	ctx := context.Background()
	for i := 0; i < 3; i++ {
		record := runstore.FitRecord{
			RunID:    fmt.Sprintf("run-%d", i),
			Page:     "a.png",
			FitError: float64(i),
		}
		if err := store.RecordFit(ctx, record); err != nil {
			t.Fatalf("RecordFit failed: %v", err)
		}
	}

	fits, err := store.FitsForPage(ctx, "a.png")
	if err != nil {
		t.Fatalf("FitsForPage failed: %v", err)
	}
	if len(fits) != 3 {
		t.Fatalf("expected 3 fits, got %d", len(fits))
	}
	if fits[0].RunID != "run-2" || fits[2].RunID != "run-0" {
		t.Fatalf("expected newest first, got %v", fits)
	}
}
