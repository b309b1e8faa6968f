package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/calderlane/promptward/internal/app"
	"github.com/calderlane/promptward/internal/domain"
)

func newQueryCommand(container *app.Container) *cobra.Command {
	var (
		wrapper    string
		maxQueries int
		timeout    time.Duration
		debug      bool
	)

	cmd := &cobra.Command{
		Use:   "query [prompt]",
		Short: "Run one prompt through a safety wrapper",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if timeout > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, timeout)
				defer cancel()
			}

			resp, err := container.Monitor.Run(domain.QueryRequest{
				Context:            ctx,
				Prompt:             strings.Join(args, " "),
				WrapperOverride:    wrapper,
				MaxQueriesOverride: maxQueries,
				Debug:              debug,
			})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Wrapper:       %s\n", resp.WrapperName)
			fmt.Fprintf(out, "Decision:      %s\n", resp.Decision)
			fmt.Fprintf(out, "Justification: %s\n", resp.Justification)
			fmt.Fprintf(out, "Model calls:   %d\n", resp.ModelCallCount)
			fmt.Fprintf(out, "\n%s\n", resp.FinalOutput)

			if debug {
				fmt.Fprintf(out, "\nDecision sequence: %v\n", resp.Decisions)
				for i, raw := range resp.RawOutputs {
					fmt.Fprintf(out, "Raw output %d: %s\n", i+1, raw)
				}
				fmt.Fprintf(out, "Wrapper state: %v\n", resp.WrapperState)
				fmt.Fprintf(out, "Trace ID: %s\n", resp.TraceID)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&wrapper, "wrapper", "w", "", "Wrapper to apply (noop, keyword, history, query_budget)")
	cmd.Flags().IntVar(&maxQueries, "max-queries", 0, "Per-request query budget override (1-10, query_budget only)")
	cmd.Flags().DurationVar(&timeout, "timeout", 0, "Overall request timeout")
	cmd.Flags().BoolVar(&debug, "debug", false, "Print raw outputs and the decision sequence")
	return cmd
}
