package cmd

import "github.com/spf13/cobra"

func Execute() error {
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "vitals",
		Short:         "vitals: one snapshot of your wearable data, any tracker",
		Long:          "vitals connects Fitbit, Oura, WHOOP and Polar accounts over OAuth2 and folds their sleep, recovery and activity data into a single canonical snapshot in the terminal.",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	app, err := wireApp()
	if err != nil {
		rootCmd.RunE = func(_ *cobra.Command, _ []string) error {
			return err
		}
		return rootCmd
	}

	rootCmd.AddCommand(
		newVersionCmd(),
		newConnectCmd(app),
		newDisconnectCmd(app),
		newSnapshotCmd(app),
		newProvidersCmd(app),
	)

	return rootCmd
}
