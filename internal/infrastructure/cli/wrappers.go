package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/calderlane/promptward/internal/app"
)

func newWrappersCommand(container *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "wrappers",
		Short: "List available safety wrappers",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			for _, info := range container.Wrappers.Describe() {
				marker := " "
				if info.ID == container.Config.DefaultWrapper() {
					marker = "*"
				}
				fmt.Fprintf(out, "%s %-13s %s\n", marker, info.ID, info.Label)
				fmt.Fprintf(out, "  %13s %s\n", "", info.Description)
			}
			fmt.Fprintln(out, "\n* default wrapper")
			return nil
		},
	}
}
