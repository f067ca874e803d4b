package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"cleanplate/internal/logs"
)

func newLogsCommand(ctx *commandContext) *cobra.Command {
	var lines int

	cmd := &cobra.Command{
		Use:   "logs",
		Short: "Display run logs",
		RunE: func(cmd *cobra.Command, args []string) error {
			prof, err := ctx.ensureProfile()
			if err != nil {
				return err
			}

			logPath := filepath.Join(prof.Paths.LogDir, "cleanplate.log")
			out := cmd.OutOrStdout()

			if lines <= 0 {
				return printWholeLog(out, logPath)
			}

			tail, err := logs.Tail(logPath, lines)
			if err != nil {
				return err
			}
			if len(tail) == 0 {
				fmt.Fprintln(out, "No log entries available")
				return nil
			}
			for _, line := range tail {
				fmt.Fprintln(out, line)
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&lines, "lines", "n", 50, "Number of lines to show (0 for all)")
	return cmd
}

func printWholeLog(out io.Writer, path string) error {
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			fmt.Fprintln(out, "No log entries available")
			return nil
		}
		return fmt.Errorf("open log file: %w", err)
	}
	defer file.Close()

	if _, err := io.Copy(out, file); err != nil {
		return fmt.Errorf("read log file: %w", err)
	}
	return nil
}
