package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"
)

func newReportCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "report",
		Short: "Summarize recorded mask fit outcomes",
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := ctx.ensureProfile(); err != nil {
				return err
			}
			store, err := ctx.openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			summary, err := store.FitSummary(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if summary.TotalFits == 0 {
				fmt.Fprintln(out, "No fit records yet; run `cleanplate clean` first")
				return nil
			}

			succeeded := summary.TotalFits - summary.Failures
			fmt.Fprintf(out, "Pages:     %d\n", summary.Pages)
			fmt.Fprintf(out, "Fits:      %d (%d succeeded, %d failed)\n",
				summary.TotalFits, succeeded, summary.Failures)
			fmt.Fprintf(out, "Deviation: mean %.2f, max %.2f\n", summary.MeanError, summary.MaxError)

			if len(summary.IndexCounts) == 0 {
				return nil
			}

			indexes := make([]int, 0, len(summary.IndexCounts))
			for index := range summary.IndexCounts {
				indexes = append(indexes, index)
			}
			sort.Ints(indexes)

			rows := make([][]string, 0, len(indexes))
			for _, index := range indexes {
				rows = append(rows, []string{
					growthStepLabel(index),
					fmt.Sprintf("%d", summary.IndexCounts[index]),
				})
			}

			fmt.Fprintln(out)
			fmt.Fprintln(out, renderTable(
				[]column{{title: "Chosen mask"}, {title: "Count", numeric: true}},
				rows,
			))
			return nil
		},
	}
}

// growthStepLabel names a chosen-candidate index for display. Index zero is
// the minimum-thickness mask before any growth step.
func growthStepLabel(index int) string {
	if index == 0 {
		return "minimum thickness"
	}
	return fmt.Sprintf("growth step %d", index)
}
