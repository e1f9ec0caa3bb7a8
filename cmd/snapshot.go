package cmd

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	snapshotrender "github.com/bnema/vitals-cli/internal/adapters/render/snapshot"
	"github.com/bnema/vitals-cli/internal/domain"
)

func newSnapshotCmd(app *app) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "snapshot <provider>",
		Short: "Fetch the latest canonical snapshot from a tracker",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			provider, err := parseProvider(args[0])
			if err != nil {
				return err
			}
			return runSnapshot(cmd, app, provider, asJSON)
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the outcome as JSON")

	return cmd
}

func runSnapshot(cmd *cobra.Command, app *app, provider domain.ProviderID, asJSON bool) error {
	var outcome domain.AggregationOutcome

	fetch := func(ctx context.Context) error {
		var err error
		outcome, err = app.snapshots.Snapshot(ctx, app.credentialKey(provider))
		return err
	}

	if asJSON {
		if err := fetch(cmd.Context()); err != nil {
			return err
		}

		encoder := json.NewEncoder(cmd.OutOrStdout())
		encoder.SetIndent("", "  ")
		return encoder.Encode(outcome)
	}

	label := fmt.Sprintf("Fetching %s data...", provider)
	if err := runFetchSpinner(cmd.Context(), cmd.ErrOrStderr(), label, fetch); err != nil {
		return err
	}

	rendered, err := snapshotrender.Render(outcome, snapshotrender.RenderOptions{
		Provider: provider,
		UserID:   app.cfg.UserID,
		Now:      app.now(),
	})
	if err != nil {
		return fmt.Errorf("render snapshot: %w", err)
	}

	_, _ = fmt.Fprintln(cmd.OutOrStdout(), rendered)
	return nil
}
