package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/host-uk/coolifyctl/internal/cli/common"
	"github.com/host-uk/coolifyctl/reconcile"
)

func newProjectCommand(deps common.Dependencies, globalFlags *common.GlobalFlags) *cobra.Command {
	var (
		spec         reconcile.ProjectSpec
		description  string
		environments []string
	)

	command := &cobra.Command{
		Use:   "project",
		Short: "Reconcile a Coolify project and its environments",
		Args:  cobra.NoArgs,
		RunE: func(command *cobra.Command, _ []string) error {
			// Only a description flag that was actually set participates
			// in drift detection.
			if command.Flags().Changed("description") {
				spec.Description = &description
			}
			envSpecs, err := parseEnvironmentSpecs(environments)
			if err != nil {
				return err
			}
			spec.Environments = envSpecs

			reconciler, err := common.Connect(command, deps, globalFlags)
			if err != nil {
				return err
			}
			result, err := reconciler.Project(command.Context(), spec)
			if err != nil {
				return err
			}
			return writeResult(command, globalFlags.Output, result)
		},
	}

	command.Flags().StringVar(&spec.State, "state", reconcile.StatePresent, "desired state: present|absent")
	command.Flags().StringVar(&spec.UUID, "uuid", "", "project uuid")
	command.Flags().StringVar(&spec.Name, "name", "", "project name")
	command.Flags().StringVar(&description, "description", "", "project description")
	command.Flags().StringArrayVar(&environments, "environment", nil,
		"environment to manage inside the project, as name[=present|absent] (repeatable)")

	return command
}

func parseEnvironmentSpecs(entries []string) ([]reconcile.EnvironmentSpec, error) {
	var specs []reconcile.EnvironmentSpec
	for _, entry := range entries {
		name, state, _ := strings.Cut(entry, "=")
		name = strings.TrimSpace(name)
		state = strings.TrimSpace(state)
		if name == "" {
			return nil, common.ValidationError("environment entry must name an environment", nil)
		}
		switch state {
		case "", reconcile.StatePresent, reconcile.StateAbsent:
		default:
			return nil, common.ValidationError("environment '"+name+"' has invalid state '"+state+"': use present or absent", nil)
		}
		specs = append(specs, reconcile.EnvironmentSpec{Name: name, State: state})
	}
	return specs, nil
}
