package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/host-uk/coolifyctl/client"
	"github.com/host-uk/coolifyctl/internal/cli/common"
	"github.com/host-uk/coolifyctl/reconcile"
)

func newDatabaseCommand(deps common.Dependencies, globalFlags *common.GlobalFlags) *cobra.Command {
	var spec reconcile.DatabaseSpec

	command := &cobra.Command{
		Use:   "database",
		Short: "Reconcile a Coolify database",
		Args:  cobra.NoArgs,
		RunE: func(command *cobra.Command, _ []string) error {
			reconciler, err := common.Connect(command, deps, globalFlags)
			if err != nil {
				return err
			}
			result, err := reconciler.Database(command.Context(), spec)
			if err != nil {
				return err
			}
			return writeResult(command, globalFlags.Output, result)
		},
	}

	command.Flags().StringVar(&spec.State, "state", reconcile.StatePresent,
		"desired state: present|absent|started|stopped|restarted")
	command.Flags().StringVar(&spec.UUID, "uuid", "", "database uuid")
	command.Flags().StringVar(&spec.Name, "name", "", "database name")
	command.Flags().StringVar(&spec.Type, "type", "",
		"database engine on create: "+strings.Join(client.DatabaseTypes(), "|"))
	command.Flags().StringVar(&spec.ProjectUUID, "project-uuid", "", "project the database belongs to")
	command.Flags().StringVar(&spec.ServerUUID, "server-uuid", "", "server the database runs on")
	command.Flags().StringVar(&spec.EnvironmentName, "environment-name", "", "environment name inside the project")
	command.Flags().StringVar(&spec.EnvironmentUUID, "environment-uuid", "", "environment uuid inside the project")
	command.Flags().StringVar(&spec.Description, "description", "", "database description")
	command.Flags().StringVar(&spec.Image, "image", "", "database image override")
	command.Flags().BoolVar(&spec.IsPublic, "public", false, "expose the database publicly")
	command.Flags().IntVar(&spec.PublicPort, "public-port", 0, "public port when exposed")
	command.Flags().StringVar(&spec.PostgresUser, "postgres-user", "", "postgres user")
	command.Flags().StringVar(&spec.PostgresPassword, "postgres-password", "", "postgres password")
	command.Flags().StringVar(&spec.PostgresDB, "postgres-db", "", "postgres database name")
	command.Flags().StringVar(&spec.MySQLRootPassword, "mysql-root-password", "", "mysql root password")
	command.Flags().StringVar(&spec.MySQLUser, "mysql-user", "", "mysql user")
	command.Flags().StringVar(&spec.MySQLPassword, "mysql-password", "", "mysql password")
	command.Flags().StringVar(&spec.MySQLDatabase, "mysql-database", "", "mysql database name")
	command.Flags().StringVar(&spec.RedisPassword, "redis-password", "", "redis password")
	command.Flags().StringVar(&spec.MongoInitdbRootUsername, "mongo-initdb-root-username", "", "mongo root username")
	command.Flags().StringVar(&spec.MongoInitdbRootPassword, "mongo-initdb-root-password", "", "mongo root password")
	command.Flags().StringVar(&spec.LimitsMemory, "limits-memory", "", "memory limit, e.g. 512m")
	command.Flags().StringVar(&spec.LimitsCPUs, "limits-cpus", "", "cpu limit, e.g. 0.5")
	common.BindDeleteFlags(command.Flags(), &spec.DeleteConfigurations, &spec.DeleteVolumes)

	return command
}
