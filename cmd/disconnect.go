package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newDisconnectCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "disconnect <provider>",
		Short: "Remove a tracker's stored credential",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			provider, err := parseProvider(args[0])
			if err != nil {
				return err
			}

			if err := app.tokens.Disconnect(cmd.Context(), app.credentialKey(provider)); err != nil {
				return err
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Disconnected %s.\n", provider)
			return nil
		},
	}
}
