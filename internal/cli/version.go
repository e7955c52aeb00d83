package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/faizmokh/angkat/internal/version"
)

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print build information.",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "angkat %s\n", version.Info())
		},
	}
}
