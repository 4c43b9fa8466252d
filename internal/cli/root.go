package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/host-uk/coolifyctl/debugctx"
	"github.com/host-uk/coolifyctl/internal/cli/common"
)

func NewRootCommand(deps common.Dependencies) *cobra.Command {
	var globalFlags common.GlobalFlags

	root := &cobra.Command{
		Use:   "coolifyctl",
		Short: "Manage Coolify resources through its REST API",
		RunE: func(command *cobra.Command, _ []string) error {
			return command.Help()
		},
		Args: cobra.NoArgs,
		PersistentPreRunE: func(command *cobra.Command, _ []string) error {
			if err := common.ValidateOutputFormat(globalFlags.Output); err != nil {
				return err
			}

			commandContext := command.Context()
			if commandContext == nil {
				commandContext = context.Background()
			}
			commandContext = debugctx.WithEnabled(commandContext, globalFlags.Debug)
			commandContext = debugctx.WithWriter(commandContext, command.ErrOrStderr())
			command.SetContext(commandContext)

			debugctx.Printf(command.Context(),
				"flags context=%q output=%q check=%t command=%q",
				globalFlags.Context, globalFlags.Output, globalFlags.Check, command.CommandPath())
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	common.BindGlobalFlags(root, &globalFlags)

	root.AddCommand(
		newServerCommand(deps, &globalFlags),
		newProjectCommand(deps, &globalFlags),
		newPrivateKeyCommand(deps, &globalFlags),
		newApplicationCommand(deps, &globalFlags),
		newDatabaseCommand(deps, &globalFlags),
		newServiceCommand(deps, &globalFlags),
		newAPICommand(deps, &globalFlags),
		newOperationsCommand(deps, &globalFlags),
		newConfigCommand(deps, &globalFlags),
		newVersionCommand(deps, &globalFlags),
	)

	return root
}
