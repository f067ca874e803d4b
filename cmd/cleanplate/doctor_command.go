package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"cleanplate/internal/deps"
	"cleanplate/internal/preflight"
)

func newDoctorCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check that the environment is ready for cleaning runs",
		RunE: func(cmd *cobra.Command, args []string) error {
			prof, err := ctx.ensureProfile()
			if err != nil {
				return err
			}
			if err := prof.EnsureDirectories(); err != nil {
				return fmt.Errorf("ensure directories: %w", err)
			}

			stdout := cmd.OutOrStdout()
			colorize := shouldColorize(stdout)
			problems := 0

			fmt.Fprintf(stdout, "Profile path: %s\n", ctx.profilePath)
			if !ctx.profileExists {
				fmt.Fprintln(stdout, "Profile file did not exist; defaults were used")
			}
			fmt.Fprintln(stdout)

			for _, line := range renderSectionHeader("Environment", colorize) {
				fmt.Fprintln(stdout, line)
			}
			for _, result := range preflight.RunAll(prof) {
				kind := statusOK
				if !result.Passed {
					kind = statusError
					if result.Optional {
						kind = statusWarn
					} else {
						problems++
					}
				}
				fmt.Fprintln(stdout, renderStatusLine(result.Name, kind, result.Detail, colorize))
			}
			fmt.Fprintln(stdout)

			for _, line := range renderSectionHeader("External Tools", colorize) {
				fmt.Fprintln(stdout, line)
			}
			statuses := preflight.CheckSystemDeps(prof)
			missing := make([]string, 0, len(statuses))
			for _, line := range toolStatusLines(statuses, colorize, &missing, &problems) {
				fmt.Fprintln(stdout, line)
			}
			if len(missing) > 0 {
				fmt.Fprintln(stdout, renderStatusLine("Missing tools", statusWarn,
					strings.Join(missing, ", "), colorize))
			}

			if problems > 0 {
				return fmt.Errorf("%d required check(s) failed", problems)
			}
			fmt.Fprintln(stdout)
			fmt.Fprintln(stdout, "Ready to clean pages")
			return nil
		},
	}
}

func toolStatusLines(statuses []deps.Status, colorize bool, missing *[]string, problems *int) []string {
	lines := make([]string, 0, len(statuses))
	for _, status := range statuses {
		if status.Available {
			message := "Ready"
			if status.Command != "" {
				message = fmt.Sprintf("Ready (%s)", status.Command)
			}
			lines = append(lines, renderStatusLine(status.Name, statusOK, message, colorize))
			continue
		}

		detail := strings.TrimSpace(status.Detail)
		if detail == "" {
			detail = "not available"
		}
		kind := statusError
		if status.Optional {
			kind = statusWarn
		} else {
			*problems++
		}
		lines = append(lines, renderStatusLine(status.Name, kind, detail, colorize))
		*missing = append(*missing, status.Name)
	}
	return lines
}
