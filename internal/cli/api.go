package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.yaml.in/yaml/v3"

	"github.com/host-uk/coolifyctl/internal/cli/common"
)

func newAPICommand(deps common.Dependencies, globalFlags *common.GlobalFlags) *cobra.Command {
	var (
		params     []string
		paramsFile string
		query      string
	)

	command := &cobra.Command{
		Use:   "api <operation-id>",
		Short: "Call any indexed API operation directly",
		Args:  cobra.ExactArgs(1),
		RunE: func(command *cobra.Command, args []string) error {
			callParams, err := collectParams(params, paramsFile)
			if err != nil {
				return err
			}

			reconciler, err := common.Connect(command, deps, globalFlags)
			if err != nil {
				return err
			}
			result, err := reconciler.Operation(command.Context(), args[0], callParams)
			if err != nil {
				return err
			}

			payload, err := common.ApplyQuery(command.Context(), result.Response, query)
			if err != nil {
				return err
			}
			return common.WriteOutput(command, globalFlags.Output, payload, func(w io.Writer, value any) error {
				encoded, err := json.MarshalIndent(value, "", "  ")
				if err != nil {
					return err
				}
				_, err = fmt.Fprintln(w, string(encoded))
				return err
			})
		},
	}

	command.Flags().StringArrayVar(&params, "param", nil, "operation parameter as key=value (repeatable)")
	command.Flags().StringVar(&paramsFile, "params-file", "", "JSON or YAML file with operation parameters")
	command.Flags().StringVar(&query, "query", "", "jq expression applied to the response")

	return command
}

// collectParams merges the params file (first) with --param entries. Flag
// values that parse as JSON keep their type; everything else stays a
// string.
func collectParams(params []string, paramsFile string) (map[string]any, error) {
	collected := map[string]any{}

	if strings.TrimSpace(paramsFile) != "" {
		data, err := os.ReadFile(paramsFile)
		if err != nil {
			return nil, common.ValidationError("read params file "+paramsFile, err)
		}
		if err := yaml.Unmarshal(data, &collected); err != nil {
			return nil, common.ValidationError("parse params file "+paramsFile, err)
		}
	}

	for _, entry := range params {
		key, value, found := strings.Cut(entry, "=")
		key = strings.TrimSpace(key)
		if !found || key == "" {
			return nil, common.ValidationError("parameter '"+entry+"' must be key=value", nil)
		}
		collected[key] = parseParamValue(value)
	}

	if len(collected) == 0 {
		return nil, nil
	}
	return collected, nil
}

func parseParamValue(value string) any {
	var parsed any
	if err := json.Unmarshal([]byte(value), &parsed); err == nil {
		return parsed
	}
	return value
}
