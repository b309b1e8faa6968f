package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/calderlane/promptward/internal/app"
)

func newTraceCommand(container *app.Container) *cobra.Command {
	traceCmd := &cobra.Command{
		Use:   "trace",
		Short: "Inspect the trace log",
	}
	traceCmd.AddCommand(
		newTraceListCommand(container),
		newTraceClearCommand(container),
		newTraceExportCommand(container),
	)
	return traceCmd
}

func newTraceListCommand(container *app.Container) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recent trace records",
		RunE: func(cmd *cobra.Command, args []string) error {
			records, err := container.TraceStore.Records()
			if err != nil {
				return err
			}
			if len(records) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No traces recorded yet.")
				return nil
			}
			if limit > 0 && len(records) > limit {
				records = records[len(records)-limit:]
			}
			out := cmd.OutOrStdout()
			for _, rec := range records {
				fmt.Fprintf(out, "%s  %-13s %-7s calls=%d  %s\n",
					rec.Timestamp.Format("2006-01-02 15:04:05"),
					rec.WrapperName,
					rec.FinalDecision(),
					rec.ModelCallCount,
					truncate(rec.Prompt, 60),
				)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "Max records to show")
	return cmd
}

func newTraceClearCommand(container *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Delete the trace log",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := container.TraceStore.Clear(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Trace log cleared.")
			return nil
		},
	}
}

func newTraceExportCommand(container *app.Container) *cobra.Command {
	var dest string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the trace log as JSONL",
		RunE: func(cmd *cobra.Command, args []string) error {
			records, err := container.TraceStore.Records()
			if err != nil {
				return err
			}
			file, err := os.Create(dest)
			if err != nil {
				return err
			}
			defer file.Close()
			for _, rec := range records {
				b, err := json.Marshal(rec)
				if err != nil {
					return err
				}
				if _, err := file.Write(append(b, '\n')); err != nil {
					return err
				}
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Exported %d record(s) to %s\n", len(records), dest)
			return nil
		},
	}

	cmd.Flags().StringVarP(&dest, "out", "o", "traces-export.jsonl", "Destination file")
	return cmd
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n-3]) + "..."
}
