package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/host-uk/coolifyctl/internal/cli/common"
)

var (
	Version   = "dev"
	Commit    = "unknown"
	BuildDate = "unknown"
)

type versionInfo struct {
	Version   string `json:"version" yaml:"version"`
	Commit    string `json:"commit" yaml:"commit"`
	BuildDate string `json:"build_date" yaml:"build_date"`
	Remote    any    `json:"remote,omitempty" yaml:"remote,omitempty"`
}

func newVersionCommand(deps common.Dependencies, globalFlags *common.GlobalFlags) *cobra.Command {
	var remote bool

	command := &cobra.Command{
		Use:   "version",
		Short: "Print the CLI version, optionally with the remote Coolify version",
		Args:  cobra.NoArgs,
		RunE: func(command *cobra.Command, _ []string) error {
			value := versionInfo{Version: Version, Commit: Commit, BuildDate: BuildDate}

			if remote {
				reconciler, err := common.Connect(command, deps, globalFlags)
				if err != nil {
					return err
				}
				remoteVersion, err := reconciler.API().Version(command.Context())
				if err != nil {
					return err
				}
				value.Remote = remoteVersion
			}

			return common.WriteOutput(command, globalFlags.Output, value, func(w io.Writer, item versionInfo) error {
				if _, err := fmt.Fprintf(w, "%s (%s) %s\n", item.Version, item.Commit, item.BuildDate); err != nil {
					return err
				}
				if item.Remote != nil {
					if _, err := fmt.Fprintf(w, "remote: %v\n", item.Remote); err != nil {
						return err
					}
				}
				return nil
			})
		},
	}

	command.Flags().BoolVar(&remote, "remote", false, "also query the connected Coolify instance version")

	return command
}
