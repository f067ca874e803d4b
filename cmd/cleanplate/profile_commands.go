package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"

	"cleanplate/internal/profile"
)

func newProfileCommand(ctx *commandContext) *cobra.Command {
	profileCmd := &cobra.Command{
		Use:   "profile",
		Short: "Profile utilities",
	}

	profileCmd.AddCommand(newProfileInitCommand())
	profileCmd.AddCommand(newProfileShowCommand(ctx))

	return profileCmd
}

func newProfileInitCommand() *cobra.Command {
	var targetPath string
	var overwrite bool

	cmd := &cobra.Command{
		Use:         "init",
		Short:       "Create a sample profile file",
		Annotations: map[string]string{"skipProfileLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			target := strings.TrimSpace(targetPath)
			if target == "" {
				defaultPath, err := profile.DefaultProfilePath()
				if err != nil {
					return fmt.Errorf("determine default profile path: %w", err)
				}
				target = defaultPath
			} else {
				expanded, err := profile.ExpandPath(target)
				if err != nil {
					return fmt.Errorf("resolve profile path: %w", err)
				}
				target = expanded
			}

			dir := filepath.Dir(target)
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return fmt.Errorf("create profile directory %q: %w", dir, err)
			}

			if !overwrite {
				if _, err := os.Stat(target); err == nil {
					return fmt.Errorf("profile already exists at %s (use --overwrite to replace it)", target)
				} else if err != nil && !os.IsNotExist(err) {
					return fmt.Errorf("check profile path: %w", err)
				}
			}

			if err := profile.CreateSample(target); err != nil {
				return fmt.Errorf("create sample profile: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Wrote sample profile to %s\n", target)
			fmt.Fprintln(out, "Edit the file to point detector.command at your detection tool before cleaning pages.")
			return nil
		},
	}

	cmd.Flags().StringVar(&targetPath, "path", "", "Destination for the profile file")
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "Overwrite an existing profile if present")
	return cmd
}

func newProfileShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the resolved profile",
		RunE: func(cmd *cobra.Command, args []string) error {
			prof, err := ctx.ensureProfile()
			if err != nil {
				return err
			}
			if err := prof.EnsureDirectories(); err != nil {
				return fmt.Errorf("ensure directories: %w", err)
			}

			rendered, err := toml.Marshal(prof)
			if err != nil {
				return fmt.Errorf("render profile: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Profile path: %s\n", ctx.profilePath)
			if !ctx.profileExists {
				fmt.Fprintln(out, "Profile file did not exist; defaults were used")
			}
			fmt.Fprintln(out)
			fmt.Fprint(out, string(rendered))
			return nil
		},
	}
}
