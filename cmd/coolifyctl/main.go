package main

import (
	"os"

	"github.com/host-uk/coolifyctl/config"
	"github.com/host-uk/coolifyctl/internal/cli"
	"github.com/host-uk/coolifyctl/internal/cli/common"
)

func main() {
	deps := common.Dependencies{
		Contexts: &config.Manager{},
	}
	if err := cli.Execute(deps); err != nil {
		os.Exit(cli.ExitCodeForError(err))
	}
}
