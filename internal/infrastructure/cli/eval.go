package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/calderlane/promptward/internal/app"
	"github.com/calderlane/promptward/internal/domain"
	"github.com/calderlane/promptward/internal/infrastructure/metrics"
)

// newEvalCommand runs the labeled prompt sets through the selected wrappers,
// tracing every run. Pair with `report` to compute the evaluation metrics.
func newEvalCommand(container *app.Container) *cobra.Command {
	var (
		riskyPath   string
		benignPath  string
		wrapperList string
	)

	cmd := &cobra.Command{
		Use:   "eval",
		Short: "Run labeled prompt sets through wrappers and trace the results",
		RunE: func(cmd *cobra.Command, args []string) error {
			if riskyPath == "" && benignPath == "" {
				return fmt.Errorf("at least one of --risky or --benign is required")
			}

			selected, err := selectWrappers(container, wrapperList)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			sets := []struct {
				label string
				path  string
			}{
				{string(domain.LabelRisky), riskyPath},
				{string(domain.LabelBenign), benignPath},
			}

			for _, set := range sets {
				if set.path == "" {
					continue
				}
				prompts, err := metrics.LoadPrompts(set.path)
				if err != nil {
					return err
				}
				for _, wrapper := range selected {
					for i, prompt := range prompts {
						resp, err := container.Monitor.Run(domain.QueryRequest{
							Context:         cmd.Context(),
							Prompt:          prompt,
							WrapperOverride: wrapper,
						})
						if err != nil {
							fmt.Fprintf(out, "%s %s [%d] error: %v\n", set.label, wrapper, i, err)
							continue
						}
						fmt.Fprintf(out, "%s %s [%d] decision=%s calls=%d\n",
							set.label, wrapper, i, resp.Decision, resp.ModelCallCount)
					}
				}
			}

			fmt.Fprintf(out, "Batch done. Traces appended to %s\n", container.TraceStore.Path())
			return nil
		},
	}

	cmd.Flags().StringVar(&riskyPath, "risky", "", "Path to risky prompt set (one prompt per line)")
	cmd.Flags().StringVar(&benignPath, "benign", "", "Path to benign prompt set (one prompt per line)")
	cmd.Flags().StringVar(&wrapperList, "wrappers", "", "Comma-separated wrapper names (default: all)")
	return cmd
}

func selectWrappers(container *app.Container, list string) ([]string, error) {
	if list == "" {
		return domain.KnownWrappers(), nil
	}
	var selected []string
	for _, name := range strings.Split(list, ",") {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		if !domain.IsKnownWrapper(name) {
			return nil, fmt.Errorf("unknown wrapper %q", name)
		}
		selected = append(selected, name)
	}
	if len(selected) == 0 {
		return nil, fmt.Errorf("no wrappers selected")
	}
	return selected, nil
}
