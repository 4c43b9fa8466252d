package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/host-uk/coolifyctl/internal/cli/common"
)

type operationInfo struct {
	ID       string   `json:"id" yaml:"id"`
	Method   string   `json:"method" yaml:"method"`
	Path     string   `json:"path" yaml:"path"`
	Summary  string   `json:"summary,omitempty" yaml:"summary,omitempty"`
	Tags     []string `json:"tags,omitempty" yaml:"tags,omitempty"`
	Mutating bool     `json:"mutating" yaml:"mutating"`
}

func newOperationsCommand(deps common.Dependencies, globalFlags *common.GlobalFlags) *cobra.Command {
	var tag string

	command := &cobra.Command{
		Use:   "operations",
		Short: "List the operations indexed from the OpenAPI document",
		Args:  cobra.NoArgs,
		RunE: func(command *cobra.Command, _ []string) error {
			reconciler, err := common.Connect(command, deps, globalFlags)
			if err != nil {
				return err
			}

			var listed []operationInfo
			for _, op := range reconciler.API().Client().Index().Operations() {
				if tag != "" && !op.HasTag(tag) {
					continue
				}
				listed = append(listed, operationInfo{
					ID:       op.ID,
					Method:   strings.ToUpper(op.Method),
					Path:     op.Path,
					Summary:  op.Summary,
					Tags:     op.Tags,
					Mutating: op.Mutating,
				})
			}

			return common.WriteOutput(command, globalFlags.Output, listed, func(w io.Writer, ops []operationInfo) error {
				for _, op := range ops {
					if _, err := fmt.Fprintf(w, "%-50s %-6s %s\n", op.ID, op.Method, op.Path); err != nil {
						return err
					}
				}
				return nil
			})
		},
	}

	command.Flags().StringVar(&tag, "tag", "", "only list operations carrying this tag")

	return command
}
