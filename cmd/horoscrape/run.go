package main

import (
	"github.com/spf13/cobra"
)

func runCmd(opts *rootOptions) *cobra.Command {
	var date string

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Fetch today's article and store every sign",
		Long: `Resolve the day's horoscope article from the listing page, extract all
twelve signs and upsert them into the configured store. Signs that cannot be
extracted are reported and skipped; the command fails only when the article
cannot be found or fetched.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			day, err := resolveDay(date)
			if err != nil {
				return err
			}

			a, err := newApp(opts)
			if err != nil {
				return err
			}
			defer a.close()

			ctx := cmd.Context()
			store, err := a.openStore(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			runner, err := a.newRunner(store, day, cmd.OutOrStdout())
			if err != nil {
				return err
			}

			result, err := runner.Run(ctx)
			if err != nil {
				return err
			}

			printRunSummary(cmd.OutOrStdout(), result)
			return nil
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "run for this date (YYYY-MM-DD) instead of today")
	return cmd
}
