package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func resolveCmd(opts *rootOptions) *cobra.Command {
	var date string

	cmd := &cobra.Command{
		Use:   "resolve",
		Short: "Print the article URL that a run would use",
		Args:  cobra.NoArgs,
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

			runner, err := a.newRunner(nil, day, nil)
			if err != nil {
				return err
			}

			resolution, err := runner.Resolve(cmd.Context())
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s\t(%s match)\n", resolution.URL, resolution.Tier)
			return nil
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "resolve for this date (YYYY-MM-DD) instead of today")
	return cmd
}
