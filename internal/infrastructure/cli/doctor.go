package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/calderlane/promptward/internal/app"
	"github.com/calderlane/promptward/internal/domain"
)

// newDoctorCommand runs environment health checks. Wrapper configuration is
// already validated by the time the container exists, so the checks focus on
// what can still go wrong at request time.
func newDoctorCommand(container *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check configuration, credentials, and log health",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()

			check(out, true, fmt.Sprintf("config valid (model %s, default wrapper %s)",
				container.Config.Model.Name, container.Config.DefaultWrapper()))

			envVar := container.Config.Model.AuthEnvVar
			if envVar == "" {
				envVar = domain.DefaultAuthEnvVar
			}
			hasKey := os.Getenv(envVar) != ""
			if hasKey {
				check(out, true, fmt.Sprintf("%s present", envVar))
			} else {
				check(out, false, fmt.Sprintf("%s not set; queries use the offline fallback client", envVar))
			}

			path := container.TraceStore.Path()
			writable := dirWritable(filepath.Dir(path))
			check(out, writable, fmt.Sprintf("trace log writable (%s)", path))

			check(out, len(container.Wrappers.Describe()) == 4, "all wrappers registered")
			return nil
		},
	}
}

func check(out io.Writer, ok bool, msg string) {
	mark := "✗"
	if ok {
		mark = "✓"
	}
	fmt.Fprintf(out, "%s %s\n", mark, msg)
}

func dirWritable(dir string) bool {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return false
	}
	probe, err := os.CreateTemp(dir, ".doctor-*")
	if err != nil {
		return false
	}
	name := probe.Name()
	probe.Close()
	os.Remove(name)
	return true
}
