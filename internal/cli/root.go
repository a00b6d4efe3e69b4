package cli

import (
	"os"

	"github.com/spf13/cobra"
)

func Execute() {
	cmd := newRootCmd()
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	serve := newServeCmd()
	cmd := &cobra.Command{
		Use:          "spycat",
		Short:        "Spy Cat Agency: cats, missions and targets over HTTP",
		Long:         "Spy Cat Agency API. Configuration is read from SPYCAT_* environment variables.",
		SilenceUsage: true,
		RunE:         serve.RunE,
	}
	cmd.AddCommand(serve, newMigrateCmd())
	return cmd
}
