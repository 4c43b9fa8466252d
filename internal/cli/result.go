package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/host-uk/coolifyctl/internal/cli/common"
	"github.com/host-uk/coolifyctl/reconcile"
)

func writeResult(command *cobra.Command, format string, result *reconcile.Result) error {
	return common.WriteOutput(command, format, result, func(w io.Writer, value *reconcile.Result) error {
		if _, err := fmt.Fprintln(w, value.Msg); err != nil {
			return err
		}
		if value.UUID != "" {
			if _, err := fmt.Fprintf(w, "uuid: %s\n", value.UUID); err != nil {
				return err
			}
		}
		if value.DeploymentUUID != "" {
			if _, err := fmt.Fprintf(w, "deployment: %s\n", value.DeploymentUUID); err != nil {
				return err
			}
		}
		for _, change := range value.EnvironmentsChanged {
			if _, err := fmt.Fprintf(w, "environment %s: %s\n", change.Name, change.Action); err != nil {
				return err
			}
		}
		return nil
	})
}
