package main

import (
	"github.com/pevans/horoscrape/horoscope"
	"github.com/spf13/cobra"
)

func listCmd(opts *rootOptions) *cobra.Command {
	var (
		date   string
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Show stored records for a date",
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

			ctx := cmd.Context()
			store, err := a.openStore(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			recs, err := store.ListByDate(ctx, horoscope.FormatDate(day))
			if err != nil {
				return err
			}

			if asJSON {
				return printRecordsJSON(cmd.OutOrStdout(), recs)
			}
			printRecordsTable(cmd.OutOrStdout(), recs)
			return nil
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "date to list (YYYY-MM-DD), default today")
	cmd.Flags().BoolVar(&asJSON, "json", false, "output in JSON format")
	return cmd
}
