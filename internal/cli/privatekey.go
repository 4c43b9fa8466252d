package cli

import (
	"github.com/spf13/cobra"

	"github.com/host-uk/coolifyctl/internal/cli/common"
	"github.com/host-uk/coolifyctl/reconcile"
)

func newPrivateKeyCommand(deps common.Dependencies, globalFlags *common.GlobalFlags) *cobra.Command {
	var (
		spec        reconcile.PrivateKeySpec
		description string
	)

	command := &cobra.Command{
		Use:   "private-key",
		Short: "Reconcile an SSH private key",
		Args:  cobra.NoArgs,
		RunE: func(command *cobra.Command, _ []string) error {
			if command.Flags().Changed("description") {
				spec.Description = &description
			}

			reconciler, err := common.Connect(command, deps, globalFlags)
			if err != nil {
				return err
			}
			result, err := reconciler.PrivateKey(command.Context(), spec)
			if err != nil {
				return err
			}
			return writeResult(command, globalFlags.Output, result)
		},
	}

	command.Flags().StringVar(&spec.State, "state", reconcile.StatePresent, "desired state: present|absent")
	command.Flags().StringVar(&spec.UUID, "uuid", "", "private key uuid")
	command.Flags().StringVar(&spec.Name, "name", "", "private key name")
	command.Flags().StringVar(&description, "description", "", "private key description")
	command.Flags().StringVar(&spec.PrivateKey, "private-key", "", "private key material (mutually exclusive with --private-key-file)")
	command.Flags().StringVar(&spec.PrivateKeyFile, "private-key-file", "", "file holding the private key material")

	return command
}
