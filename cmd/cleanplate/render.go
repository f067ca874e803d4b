package main

import (
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const stampLayout = "2006-01-02 15:04"

// stageTitle turns a canonical stage name into a display label.
func stageTitle(stage string) string {
	return cases.Title(language.Und).String(strings.ReplaceAll(stage, "_", " "))
}

// renderStageState colors a freshness state for terminal output.
func renderStageState(state string, colorize bool) string {
	if !colorize {
		return state
	}
	switch state {
	case "fresh":
		return ansiGreen + state + ansiReset
	case "stale":
		return ansiYellow + state + ansiReset
	default:
		return state
	}
}

func shouldColorize(writer io.Writer) bool {
	file, ok := writer.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
