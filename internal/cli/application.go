package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/host-uk/coolifyctl/client"
	"github.com/host-uk/coolifyctl/internal/cli/common"
	"github.com/host-uk/coolifyctl/reconcile"
)

func newApplicationCommand(deps common.Dependencies, globalFlags *common.GlobalFlags) *cobra.Command {
	var spec reconcile.ApplicationSpec

	command := &cobra.Command{
		Use:   "application",
		Short: "Reconcile a Coolify application",
		Args:  cobra.NoArgs,
		RunE: func(command *cobra.Command, _ []string) error {
			reconciler, err := common.Connect(command, deps, globalFlags)
			if err != nil {
				return err
			}
			result, err := reconciler.Application(command.Context(), spec)
			if err != nil {
				return err
			}
			return writeResult(command, globalFlags.Output, result)
		},
	}

	command.Flags().StringVar(&spec.State, "state", reconcile.StatePresent,
		"desired state: present|absent|started|stopped|restarted|deployed")
	command.Flags().StringVar(&spec.UUID, "uuid", "", "application uuid")
	command.Flags().StringVar(&spec.Name, "name", "", "application name")
	command.Flags().StringVar(&spec.Type, "type", "",
		"application type on create: "+strings.Join(client.ApplicationTypes(), "|"))
	command.Flags().StringVar(&spec.ProjectUUID, "project-uuid", "", "project the application belongs to")
	command.Flags().StringVar(&spec.ServerUUID, "server-uuid", "", "server the application runs on")
	command.Flags().StringVar(&spec.EnvironmentName, "environment-name", "", "environment name inside the project")
	command.Flags().StringVar(&spec.EnvironmentUUID, "environment-uuid", "", "environment uuid inside the project")
	command.Flags().StringVar(&spec.Description, "description", "", "application description")
	command.Flags().StringVar(&spec.GitRepository, "git-repository", "", "git repository URL")
	command.Flags().StringVar(&spec.GitBranch, "git-branch", "", "git branch")
	command.Flags().StringVar(&spec.BuildPack, "build-pack", "", "build pack, e.g. nixpacks, static, dockerfile, dockercompose")
	command.Flags().StringVar(&spec.PortsExposes, "ports-exposes", "", "exposed ports, e.g. 3000")
	command.Flags().StringVar(&spec.Domains, "domains", "", "application domains")
	command.Flags().StringVar(&spec.Dockerfile, "dockerfile", "", "inline Dockerfile content")
	command.Flags().StringVar(&spec.DockerRegistryImageName, "docker-registry-image-name", "", "registry image name")
	command.Flags().StringVar(&spec.DockerRegistryImageTag, "docker-registry-image-tag", "", "registry image tag")
	command.Flags().StringVar(&spec.DockerComposeRaw, "docker-compose-raw", "", "inline docker compose definition")
	command.Flags().BoolVar(&spec.InstantDeploy, "instant-deploy", false, "deploy immediately after creation")
	common.BindDeleteFlags(command.Flags(), &spec.DeleteConfigurations, &spec.DeleteVolumes)

	return command
}
