package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"cleanplate/internal/profile"
	"cleanplate/internal/runstore"
	"cleanplate/internal/steps"
)

func newCacheCommand(ctx *commandContext) *cobra.Command {
	cacheCmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect and manage cached page state",
	}

	cacheCmd.AddCommand(newCacheShowCommand(ctx))
	cacheCmd.AddCommand(newCacheClearCommand(ctx))

	return cacheCmd
}

func newCacheShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show [page]",
		Short: "Show cached pages and their stage freshness",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			prof, err := ctx.ensureProfile()
			if err != nil {
				return err
			}
			store, err := ctx.openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			snap := prof.Snapshot()
			out := cmd.OutOrStdout()

			if len(args) == 1 {
				return printPageStages(cmd, store, args[0], snap)
			}

			pages, err := store.Pages(cmd.Context())
			if err != nil {
				return err
			}
			if len(pages) == 0 {
				fmt.Fprintln(out, "Cached pages: none")
				return nil
			}

			rows := make([][]string, 0, len(pages))
			for _, page := range pages {
				marks, err := store.StageMarks(cmd.Context(), page)
				if err != nil {
					return err
				}
				table := steps.NewTable()
				fresh := 0
				var latest time.Time
				for _, output := range table.Outputs() {
					mark, ok := marks[string(output)]
					if !ok {
						continue
					}
					table.Step(output).Restore(mark.Fingerprint)
					if !table.Step(output).IsStale(snap) {
						fresh++
					}
					if mark.ComputedAt.After(latest) {
						latest = mark.ComputedAt
					}
				}
				updated := "unknown"
				if !latest.IsZero() {
					updated = latest.Local().Format(stampLayout)
				}
				rows = append(rows, []string{
					page,
					fmt.Sprintf("%d/%d", fresh, len(table.Outputs())),
					updated,
				})
			}

			fmt.Fprintln(out, renderTable(
				[]column{{title: "Page"}, {title: "Fresh", numeric: true}, {title: "Updated"}},
				rows,
			))
			return nil
		},
	}
}

// printPageStages renders the per-stage freshness table for a single page.
func printPageStages(cmd *cobra.Command, store *runstore.Store, page string, snap profile.Snapshot) error {
	marks, err := store.StageMarks(cmd.Context(), page)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if len(marks) == 0 {
		fmt.Fprintf(out, "No cached state for %s\n", page)
		return nil
	}

	colorize := shouldColorize(out)
	table := steps.NewTable()
	outputs := table.Outputs()
	rows := make([][]string, 0, len(outputs))
	for _, output := range outputs {
		state := "never computed"
		computed := ""
		if mark, ok := marks[string(output)]; ok {
			table.Step(output).Restore(mark.Fingerprint)
			state = "fresh"
			if table.Step(output).IsStale(snap) {
				state = "stale"
			}
			if !mark.ComputedAt.IsZero() {
				computed = mark.ComputedAt.Local().Format(stampLayout)
			}
		}
		rows = append(rows, []string{stageTitle(string(output)), renderStageState(state, colorize), computed})
	}

	fmt.Fprintln(out, renderTable(
		[]column{{title: "Stage"}, {title: "State"}, {title: "Computed"}},
		rows,
	))
	return nil
}

func newCacheClearCommand(ctx *commandContext) *cobra.Command {
	var page string

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Forget cached stage state",
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := ctx.ensureProfile(); err != nil {
				return err
			}
			store, err := ctx.openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			var removed int64
			target := strings.TrimSpace(page)
			if target != "" {
				removed, err = store.ClearPage(cmd.Context(), target)
			} else {
				removed, err = store.Clear(cmd.Context())
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Cleared %d stage marks\n", removed)
			return nil
		},
	}

	cmd.Flags().StringVar(&page, "page", "", "Clear a single page instead of everything")
	return cmd
}
