package main

import (
	"github.com/spf13/cobra"
)

func newRootCommand() *cobra.Command {
	var profileFlag string

	ctx := newCommandContext(&profileFlag)

	rootCmd := &cobra.Command{
		Use:           "cleanplate",
		Short:         "Clean text from comic pages",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if shouldSkipProfile(cmd) {
				return nil
			}
			_, err := ctx.ensureProfile()
			return err
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	rootCmd.PersistentFlags().StringVarP(&profileFlag, "profile", "p", "", "Profile file path")

	rootCmd.AddCommand(newCleanCommand(ctx))
	rootCmd.AddCommand(newProfileCommand(ctx))
	rootCmd.AddCommand(newCacheCommand(ctx))
	rootCmd.AddCommand(newReportCommand(ctx))
	rootCmd.AddCommand(newDoctorCommand(ctx))
	rootCmd.AddCommand(newLogsCommand(ctx))

	return rootCmd
}

func shouldSkipProfile(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipProfileLoad"] == "true" {
			return true
		}
	}
	return false
}
