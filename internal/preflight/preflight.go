package preflight

import (
	"cleanplate/internal/deps"
	"cleanplate/internal/profile"
)

// Result reports the outcome of a single preflight check. Optional checks
// degrade the run when they fail instead of blocking it.
type Result struct {
	Name     string
	Passed   bool
	Optional bool
	Detail   string
}

// RunAll executes every environment check for the given profile. Directory
// checks always run; the OCR probe only runs when the blacklist filter is
// enabled.
func RunAll(prof *profile.Profile) []Result {
	if prof == nil {
		return nil
	}

	results := []Result{
		CheckDirectoryAccess("Cache directory", prof.Paths.CacheDir),
		CheckDirectoryAccess("Output directory", prof.Paths.OutputDir),
		CheckDirectoryAccess("Log directory", prof.Paths.LogDir),
	}

	if prof.Preprocessor.OCREnabled {
		results = append(results, CheckOCR())
	}

	return results
}

// CheckSystemDeps evaluates the external tools the profile will invoke.
// Both the doctor command and the clean command use this so the
// requirements list lives in one place.
func CheckSystemDeps(prof *profile.Profile) []deps.Status {
	requirements := []deps.Requirement{
		{Name: "Text detector", Command: prof.Detector.Command},
	}
	if prof.Detector.ModelPath != "" {
		requirements = append(requirements, deps.Requirement{
			Name:    "Detector model",
			Command: prof.Detector.ModelPath,
			File:    true,
		})
	}
	return deps.Check(requirements)
}
