package cmd

import (
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/bnema/vitals-cli/internal/domain"
)

var providerNameStyle = lipgloss.NewStyle().Bold(true)

func newProvidersCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "providers",
		Short: "List supported trackers and their connection state",
		RunE: func(cmd *cobra.Command, _ []string) error {
			for _, provider := range app.snapshots.Providers() {
				name := providerNameStyle.Render(fmt.Sprintf("%-8s", provider))
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", name, connectionLabel(cmd, app, provider))
			}
			return nil
		},
	}
}

func connectionLabel(cmd *cobra.Command, app *app, provider domain.ProviderID) string {
	credential, err := app.tokens.Credential(cmd.Context(), app.credentialKey(provider))
	if err != nil {
		if errors.Is(err, domain.ErrCredentialMissing) {
			return "not connected"
		}
		return fmt.Sprintf("error: %v", err)
	}

	if credential.ExpiresAt.IsZero() {
		return "connected"
	}
	if app.now().After(credential.ExpiresAt) {
		return "connected (token expired, refreshes on next use)"
	}

	return fmt.Sprintf("connected (token valid for %s)", credential.ExpiresAt.Sub(app.now()).Round(time.Minute))
}
