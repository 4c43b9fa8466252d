package common

import (
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// GlobalFlags carries the settings shared by every command. Endpoint flags
// override the selected context; APIToken is a bearer secret and is never
// printed.
type GlobalFlags struct {
	Context  string
	APIURL   string
	APIToken string
	SpecPath string
	Timeout  string
	Insecure bool
	Debug    bool
	Output   string
	Check    bool
}

func BindGlobalFlags(command *cobra.Command, flags *GlobalFlags) {
	command.PersistentFlags().StringVarP(&flags.Context, "context", "c", "", "context name")
	command.PersistentFlags().StringVar(&flags.APIURL, "api-url", "", "Coolify API base URL (overrides the context)")
	command.PersistentFlags().StringVar(&flags.APIToken, "api-token", "", "Coolify API token (overrides the context)")
	command.PersistentFlags().StringVar(&flags.SpecPath, "spec", "", "OpenAPI document path or URL (overrides the context)")
	command.PersistentFlags().StringVar(&flags.Timeout, "timeout", "", "request timeout, e.g. 30s")
	command.PersistentFlags().BoolVar(&flags.Insecure, "insecure-skip-verify", false, "skip TLS certificate verification")
	command.PersistentFlags().BoolVarP(&flags.Debug, "debug", "d", false, "enable debug output")
	command.PersistentFlags().StringVarP(&flags.Output, "output", "o", OutputText, "output format: text|json|yaml")
	command.PersistentFlags().BoolVar(&flags.Check, "check", false, "dry run: report what would change without calling mutating operations")
}

// BindDeleteFlags registers the deletion flags shared by the application,
// database, and service commands.
func BindDeleteFlags(flags *pflag.FlagSet, deleteConfigurations, deleteVolumes *bool) {
	flags.BoolVar(deleteConfigurations, "delete-configurations", false, "also delete configurations on absent")
	flags.BoolVar(deleteVolumes, "delete-volumes", false, "also delete volumes on absent")
}
