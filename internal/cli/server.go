package cli

import (
	"github.com/spf13/cobra"

	"github.com/host-uk/coolifyctl/internal/cli/common"
	"github.com/host-uk/coolifyctl/reconcile"
)

func newServerCommand(deps common.Dependencies, globalFlags *common.GlobalFlags) *cobra.Command {
	var spec reconcile.ServerSpec

	command := &cobra.Command{
		Use:   "server",
		Short: "Reconcile a Coolify server",
		Args:  cobra.NoArgs,
		RunE: func(command *cobra.Command, _ []string) error {
			reconciler, err := common.Connect(command, deps, globalFlags)
			if err != nil {
				return err
			}
			result, err := reconciler.Server(command.Context(), spec)
			if err != nil {
				return err
			}
			return writeResult(command, globalFlags.Output, result)
		},
	}

	command.Flags().StringVar(&spec.State, "state", reconcile.StatePresent, "desired state: present|absent|validated")
	command.Flags().StringVar(&spec.UUID, "uuid", "", "server uuid")
	command.Flags().StringVar(&spec.Name, "name", "", "server name")
	command.Flags().StringVar(&spec.IP, "ip", "", "server ip address")
	command.Flags().StringVar(&spec.PrivateKeyUUID, "private-key-uuid", "", "uuid of the private key used to reach the server")
	command.Flags().IntVar(&spec.Port, "port", 0, "ssh port (default 22)")
	command.Flags().StringVar(&spec.User, "user", "", "ssh user (default root)")
	command.Flags().StringVar(&spec.Description, "description", "", "server description")
	command.Flags().BoolVar(&spec.IsBuildServer, "build-server", false, "mark the server as a build server")

	return command
}
