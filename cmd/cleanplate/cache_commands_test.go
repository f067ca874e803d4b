package main

import (
	"testing"
)

func TestCacheShowEmptyStore(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, env.profilePath, "cache", "show")
	if err != nil {
		t.Fatalf("cache show: %v", err)
	}
	requireContains(t, out, "Cached pages: none")
}

func TestCacheShowAndClearAfterARun(t *testing.T) {
	env := setupCLITestEnv(t)
	page := writeTestPage(t, env.baseDir, "0003.png")

	if _, _, err := runCLI(t, env.profilePath, "clean", page); err != nil {
		t.Fatalf("clean: %v", err)
	}

	out, _, err := runCLI(t, env.profilePath, "cache", "show")
	if err != nil {
		t.Fatalf("cache show: %v", err)
	}
	requireContains(t, out, "0003")
	requireContains(t, out, "12/12")

	out, _, err = runCLI(t, env.profilePath, "cache", "show", page)
	if err != nil {
		t.Fatalf("cache show page: %v", err)
	}
	requireContains(t, out, "Ai Mask")
	requireContains(t, out, "fresh")

	out, _, err = runCLI(t, env.profilePath, "cache", "clear", "--page", page)
	if err != nil {
		t.Fatalf("cache clear --page: %v", err)
	}
	requireContains(t, out, "Cleared 12 stage marks")

	out, _, err = runCLI(t, env.profilePath, "cache", "show")
	if err != nil {
		t.Fatalf("cache show after clear: %v", err)
	}
	requireContains(t, out, "Cached pages: none")
}

func TestCacheShowUnknownPage(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, env.profilePath, "cache", "show", "/pages/missing.png")
	if err != nil {
		t.Fatalf("cache show: %v", err)
	}
	requireContains(t, out, "No cached state for /pages/missing.png")
}
