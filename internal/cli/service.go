package cli

import (
	"github.com/spf13/cobra"

	"github.com/host-uk/coolifyctl/internal/cli/common"
	"github.com/host-uk/coolifyctl/reconcile"
)

func newServiceCommand(deps common.Dependencies, globalFlags *common.GlobalFlags) *cobra.Command {
	var spec reconcile.ServiceSpec

	command := &cobra.Command{
		Use:   "service",
		Short: "Reconcile a Coolify service",
		Args:  cobra.NoArgs,
		RunE: func(command *cobra.Command, _ []string) error {
			reconciler, err := common.Connect(command, deps, globalFlags)
			if err != nil {
				return err
			}
			result, err := reconciler.Service(command.Context(), spec)
			if err != nil {
				return err
			}
			return writeResult(command, globalFlags.Output, result)
		},
	}

	command.Flags().StringVar(&spec.State, "state", reconcile.StatePresent,
		"desired state: present|absent|started|stopped|restarted")
	command.Flags().StringVar(&spec.UUID, "uuid", "", "service uuid")
	command.Flags().StringVar(&spec.Name, "name", "", "service name")
	command.Flags().StringVar(&spec.Type, "type", "", "one-click service template, e.g. grafana")
	command.Flags().StringVar(&spec.ProjectUUID, "project-uuid", "", "project the service belongs to")
	command.Flags().StringVar(&spec.ServerUUID, "server-uuid", "", "server the service runs on")
	command.Flags().StringVar(&spec.EnvironmentName, "environment-name", "", "environment name inside the project")
	command.Flags().StringVar(&spec.EnvironmentUUID, "environment-uuid", "", "environment uuid inside the project")
	command.Flags().StringVar(&spec.Description, "description", "", "service description")
	command.Flags().StringVar(&spec.DockerComposeRaw, "docker-compose-raw", "", "inline docker compose definition")
	command.Flags().BoolVar(&spec.InstantDeploy, "instant-deploy", false, "deploy immediately after creation")
	command.Flags().BoolVar(&spec.ConnectToDockerNetwork, "connect-to-docker-network", false, "attach to the predefined docker network")
	common.BindDeleteFlags(command.Flags(), &spec.DeleteConfigurations, &spec.DeleteVolumes)

	return command
}
