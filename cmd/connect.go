package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	authadapter "github.com/bnema/vitals-cli/internal/adapters/auth"
	"github.com/bnema/vitals-cli/internal/domain"
)

func newConnectCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "connect <provider>",
		Short: "Authorize a tracker account via the browser",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			provider, err := parseProvider(args[0])
			if err != nil {
				return err
			}
			return runConnect(cmd, app, provider)
		},
	}
}

func runConnect(cmd *cobra.Command, app *app, provider domain.ProviderID) error {
	endpoint, ok := app.exchanger.Endpoint(provider)
	if !ok {
		return fmt.Errorf("no oauth endpoint registered for provider %q", provider)
	}
	if endpoint.ClientID == "" {
		return fmt.Errorf("provider %s has no client_id configured; add [providers.%s] to the config file", provider, provider)
	}

	state, err := authadapter.NewState()
	if err != nil {
		return fmt.Errorf("generate oauth state: %w", err)
	}

	var pkce authadapter.PKCEPair
	if endpoint.UsePKCE {
		pkce, err = authadapter.NewPKCEPair()
		if err != nil {
			return fmt.Errorf("generate pkce: %w", err)
		}
	}

	server, err := authadapter.StartCallbackServer(app.cfg.Callback.Listen, state)
	if err != nil {
		return fmt.Errorf("start callback server: %w", err)
	}

	authURL, err := authadapter.BuildAuthorizationURL(authadapter.AuthorizationRequest{
		AuthURL:       endpoint.AuthURL,
		ClientID:      endpoint.ClientID,
		RedirectURI:   server.RedirectURI(),
		Scopes:        scopesFor(app.cfg, provider),
		State:         state,
		CodeChallenge: pkce.Challenge,
	})
	if err != nil {
		_ = server.Close()
		return fmt.Errorf("build authorization url: %w", err)
	}

	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Open this URL to authorize %s:\n%s\n", provider, authURL)

	code, err := server.WaitForCode(app.cfg.Callback.Timeout)
	if err != nil {
		return fmt.Errorf("wait for oauth callback: %w", err)
	}

	key := app.credentialKey(provider)
	if _, err := app.tokens.Connect(cmd.Context(), key, code, server.RedirectURI(), pkce.Verifier); err != nil {
		return err
	}

	// Confirm the fresh credential actually works before declaring victory.
	name, err := app.snapshots.VerifyProfile(cmd.Context(), key)
	if err != nil {
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Connected %s, but the profile check failed: %v\n", provider, err)
		return nil
	}

	if name == "" {
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Connected %s.\n", provider)
		return nil
	}

	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Connected %s as %s.\n", provider, name)
	return nil
}
