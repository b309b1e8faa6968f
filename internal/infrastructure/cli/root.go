// Package cli wires the cobra command surface: the entry-point collaborator
// in front of the monitor core.
package cli

import (
	"context"
	"strings"

	"github.com/spf13/cobra"

	"github.com/calderlane/promptward/internal/app"
)

// Options holds CLI-level configuration.
type Options struct {
	Verbose    bool
	ConfigPath string
}

// NewRootCmd wires the cobra root command.
func NewRootCmd(ctx context.Context, opts Options) (*cobra.Command, error) {
	container, err := app.BuildContainer(ctx, app.Options{
		Verbose:    opts.Verbose,
		ConfigPath: opts.ConfigPath,
	})
	if err != nil {
		return nil, err
	}

	queryCmd := newQueryCommand(container)

	root := &cobra.Command{
		Use:   "promptward [prompt]",
		Short: "promptward - safety-wrapped language model mediation",
		Long: "promptward mediates calls to a black-box language model through pluggable\n" +
			"safety wrappers and records a reproducible trace of every decision.",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return cmd.Help()
			}
			queryCmd.SetArgs(args)
			return queryCmd.ExecuteContext(cmd.Context())
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// The flag is consumed by ConfigPathFromArgs before the container is
	// built; registered here so cobra accepts and documents it.
	root.PersistentFlags().String("config", opts.ConfigPath, "Path to the config file (default ~/.promptward/config.yaml)")

	root.AddCommand(queryCmd)
	root.AddCommand(newWrappersCommand(container))
	root.AddCommand(newEvalCommand(container))
	root.AddCommand(newReportCommand(container))
	root.AddCommand(newTraceCommand(container))
	root.AddCommand(newConfigCommand(container))
	root.AddCommand(newDoctorCommand(container))
	return root, nil
}

// ConfigPathFromArgs extracts the --config value ahead of cobra parsing. The
// dependency container loads the configuration before the command line is
// parsed, so the flag has to be resolved from the raw arguments.
func ConfigPathFromArgs(args []string) string {
	for i, arg := range args {
		if arg == "--config" {
			if i+1 < len(args) {
				return args[i+1]
			}
			return ""
		}
		if strings.HasPrefix(arg, "--config=") {
			return strings.TrimPrefix(arg, "--config=")
		}
	}
	return ""
}
