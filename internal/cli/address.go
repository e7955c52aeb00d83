package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/faizmokh/angkat/internal/session"
)

func newServerCommand(store session.Store) *cobra.Command {
	var clearFlag bool

	cmd := &cobra.Command{
		Use:   "server [host:port]",
		Short: "Show or set the workout server for this terminal session.",
		Long: "server prints the address every command in this terminal talks to. " +
			"Pass an address to replace it, or --clear to forget it.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()

			if clearFlag {
				if len(args) > 0 {
					return fmt.Errorf("--clear does not take an address")
				}
				if err := store.Clear(); err != nil {
					return err
				}
				fmt.Fprintln(out, "Cleared server address")
				return nil
			}

			if len(args) == 1 {
				address := strings.TrimSpace(args[0])
				if address == "" {
					return fmt.Errorf("address is required")
				}
				if err := store.Set(address); err != nil {
					return err
				}
				fmt.Fprintf(out, "Server set to http://%s\n", address)
				return nil
			}

			address, ok := store.Get()
			if !ok {
				fmt.Fprintln(out, "No server address set")
				return nil
			}
			fmt.Fprintf(out, "http://%s\n", address)
			return nil
		},
	}

	cmd.Flags().BoolVar(&clearFlag, "clear", false, "Forget the stored address")

	return cmd
}
