package cli

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/host-uk/coolifyctl/config"
	"github.com/host-uk/coolifyctl/internal/cli/common"
)

func newConfigCommand(deps common.Dependencies, globalFlags *common.GlobalFlags) *cobra.Command {
	command := &cobra.Command{
		Use:   "config",
		Short: "Manage the context catalog",
		RunE: func(command *cobra.Command, _ []string) error {
			return command.Help()
		},
		Args: cobra.NoArgs,
	}

	command.AddCommand(
		newConfigSetupCommand(deps),
		newConfigViewCommand(deps, globalFlags),
		newConfigUseCommand(deps),
		newConfigDeleteCommand(deps),
	)
	return command
}

func newConfigSetupCommand(deps common.Dependencies) *cobra.Command {
	var cfg config.Context

	command := &cobra.Command{
		Use:   "setup",
		Short: "Interactively add or update a context",
		Args:  cobra.NoArgs,
		RunE: func(command *cobra.Command, _ []string) error {
			if deps.Contexts == nil {
				return common.ValidationError("context catalog is not configured", nil)
			}
			if err := promptContext(command, &cfg); err != nil {
				return err
			}
			if err := deps.Contexts.Save(cfg); err != nil {
				return err
			}
			_, err := fmt.Fprintf(command.OutOrStdout(), "Context '%s' saved\n", cfg.Name)
			return err
		},
	}

	// Flags pre-fill the form, so setup also works non-interactively when
	// everything is supplied.
	command.Flags().StringVar(&cfg.Name, "name", "", "context name")
	command.Flags().StringVar(&cfg.APIURL, "api-url", "", "Coolify API base URL")
	command.Flags().StringVar(&cfg.APIToken, "api-token", "", "Coolify API token")
	command.Flags().StringVar(&cfg.SpecPath, "spec-path", "", "OpenAPI document path or URL")
	command.Flags().StringVar(&cfg.Timeout, "timeout", "", "request timeout, e.g. 30s")
	command.Flags().BoolVar(&cfg.InsecureSkipVerify, "insecure-skip-verify", false, "skip TLS certificate verification")

	return command
}

func promptContext(command *cobra.Command, cfg *config.Context) error {
	if strings.TrimSpace(cfg.Name) != "" && strings.TrimSpace(cfg.APIURL) != "" {
		return nil
	}

	form := huh.NewForm(huh.NewGroup(
		huh.NewInput().
			Title("Context name").
			Prompt("> ").
			Value(&cfg.Name).
			Validate(requiredInput),
		huh.NewInput().
			Title("Coolify API base URL, e.g. https://coolify.example.com/api/v1").
			Prompt("> ").
			Value(&cfg.APIURL).
			Validate(requiredInput),
		huh.NewInput().
			Title("API token").
			Prompt("> ").
			EchoMode(huh.EchoModePassword).
			Value(&cfg.APIToken),
		huh.NewInput().
			Title("OpenAPI document path or URL").
			Prompt("> ").
			Value(&cfg.SpecPath),
	)).
		WithShowHelp(false).
		WithInput(command.InOrStdin()).
		WithOutput(command.OutOrStdout())

	if err := form.Run(); err != nil {
		return common.ValidationError("context setup aborted", err)
	}
	cfg.Name = strings.TrimSpace(cfg.Name)
	cfg.APIURL = strings.TrimSpace(cfg.APIURL)
	cfg.APIToken = strings.TrimSpace(cfg.APIToken)
	cfg.SpecPath = strings.TrimSpace(cfg.SpecPath)
	return nil
}

func requiredInput(input string) error {
	if strings.TrimSpace(input) == "" {
		return errors.New("input required")
	}
	return nil
}

type contextView struct {
	Name     string `json:"name" yaml:"name"`
	APIURL   string `json:"api_url" yaml:"api_url"`
	SpecPath string `json:"spec_path,omitempty" yaml:"spec_path,omitempty"`
	Current  bool   `json:"current" yaml:"current"`
}

func newConfigViewCommand(deps common.Dependencies, globalFlags *common.GlobalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "view",
		Short: "List configured contexts (tokens are not shown)",
		Args:  cobra.NoArgs,
		RunE: func(command *cobra.Command, _ []string) error {
			if deps.Contexts == nil {
				return common.ValidationError("context catalog is not configured", nil)
			}
			names, current, err := deps.Contexts.List()
			if err != nil {
				return err
			}

			views := make([]contextView, 0, len(names))
			for _, name := range names {
				entry, err := deps.Contexts.Get(name)
				if err != nil {
					return err
				}
				views = append(views, contextView{
					Name:     entry.Name,
					APIURL:   entry.APIURL,
					SpecPath: entry.SpecPath,
					Current:  entry.Name == current,
				})
			}

			return common.WriteOutput(command, globalFlags.Output, views, func(w io.Writer, entries []contextView) error {
				for _, entry := range entries {
					marker := " "
					if entry.Current {
						marker = "*"
					}
					if _, err := fmt.Fprintf(w, "%s %-20s %s\n", marker, entry.Name, entry.APIURL); err != nil {
						return err
					}
				}
				return nil
			})
		},
	}
}

func newConfigUseCommand(deps common.Dependencies) *cobra.Command {
	return &cobra.Command{
		Use:   "use <context-name>",
		Short: "Select the current context",
		Args:  cobra.ExactArgs(1),
		RunE: func(command *cobra.Command, args []string) error {
			if deps.Contexts == nil {
				return common.ValidationError("context catalog is not configured", nil)
			}
			if err := deps.Contexts.Use(args[0]); err != nil {
				return err
			}
			_, err := fmt.Fprintf(command.OutOrStdout(), "Current context set to '%s'\n", args[0])
			return err
		},
	}
}

func newConfigDeleteCommand(deps common.Dependencies) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <context-name>",
		Short: "Remove a context from the catalog",
		Args:  cobra.ExactArgs(1),
		RunE: func(command *cobra.Command, args []string) error {
			if deps.Contexts == nil {
				return common.ValidationError("context catalog is not configured", nil)
			}
			if err := deps.Contexts.Delete(args[0]); err != nil {
				return err
			}
			_, err := fmt.Fprintf(command.OutOrStdout(), "Context '%s' deleted\n", args[0])
			return err
		},
	}
}
