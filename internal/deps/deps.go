// Package deps reports the availability of the external tools a cleaning
// run shells out to.
package deps

import (
	"fmt"
	"os"
	"os/exec"
	"strings"
)

// Requirement defines an external dependency cleanplate relies on.
type Requirement struct {
	Name    string
	Command string
	// File marks requirements that name a file on disk, such as model
	// weights, instead of a binary resolved from PATH.
	File     bool
	Optional bool
}

// Status is the outcome of probing a single requirement.
type Status struct {
	Requirement
	Available bool
	Detail    string
}

// Probe resolves the requirement against the current environment.
func (r Requirement) Probe() Status {
	r.Command = strings.TrimSpace(r.Command)
	status := Status{Requirement: r}
	switch {
	case r.Command == "":
		status.Detail = "not configured"
	case r.File:
		status.Available, status.Detail = statFile(r.Command)
	default:
		status.Available, status.Detail = resolveBinary(r.Command)
	}
	return status
}

// Check probes every requirement in order.
func Check(requirements []Requirement) []Status {
	statuses := make([]Status, len(requirements))
	for i, req := range requirements {
		statuses[i] = req.Probe()
	}
	return statuses
}

func statFile(path string) (bool, string) {
	info, err := os.Stat(path)
	switch {
	case err != nil:
		return false, fmt.Sprintf("file %q not found", path)
	case info.IsDir():
		return false, fmt.Sprintf("%q is a directory", path)
	}
	return true, ""
}

func resolveBinary(command string) (bool, string) {
	if _, err := exec.LookPath(command); err != nil {
		return false, fmt.Sprintf("binary %q not found", command)
	}
	return true, ""
}
