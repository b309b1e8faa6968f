package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/calderlane/promptward/internal/app"
	"github.com/calderlane/promptward/internal/infrastructure/metrics"
)

// newReportCommand computes aggregate metrics from the trace log. Unsafe and
// utility rates require the label files; without them only blocked rate and
// cost are meaningful.
func newReportCommand(container *app.Container) *cobra.Command {
	var (
		riskyPath  string
		benignPath string
	)

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Compute evaluation metrics from the trace log",
		RunE: func(cmd *cobra.Command, args []string) error {
			records, err := container.TraceStore.Records()
			if err != nil {
				return fmt.Errorf("read traces: %w", err)
			}
			if len(records) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No traces recorded yet. Run queries or `promptward eval` first.")
				return nil
			}

			labels, err := metrics.LoadLabels(riskyPath, benignPath)
			if err != nil {
				return err
			}

			agg := metrics.Compute(records, labels)

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Records: %d (%s)\n\n", agg.TotalRecords, container.TraceStore.Path())

			w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "WRAPPER\tTOTAL\tBLOCKED\tUNSAFE\tUTILITY\tAVG CALLS")
			for _, m := range agg.ByWrapper {
				fmt.Fprintf(w, "%s\t%d\t%.2f\t%s\t%s\t%.2f\n",
					m.Wrapper,
					m.Total,
					m.BlockedRate,
					rateOrDash(m.UnsafeRate, m.RiskyTotal),
					rateOrDash(m.UtilityRate, m.BenignTotal),
					m.AvgModelCalls,
				)
			}
			return w.Flush()
		},
	}

	cmd.Flags().StringVar(&riskyPath, "risky", "", "Path to risky prompt set (one prompt per line)")
	cmd.Flags().StringVar(&benignPath, "benign", "", "Path to benign prompt set (one prompt per line)")
	return cmd
}

func rateOrDash(rate float64, labeled int) string {
	if labeled == 0 {
		return "-"
	}
	return fmt.Sprintf("%.2f", rate)
}
