package main

import (
	"fmt"
	"io"
	"os"

	"github.com/pevans/horoscrape/records"
	"github.com/pevans/horoscrape/scraper"
	"github.com/spf13/cobra"
)

func extractCmd(opts *rootOptions) *cobra.Command {
	var (
		date      string
		sourceURL string
		asJSON    bool
		save      bool
	)

	cmd := &cobra.Command{
		Use:   "extract <file.html>",
		Short: "Extract all signs from a saved article page",
		Long: `Run the extraction engine against a local HTML file. Useful for checking
a saved copy of the article after the site layout changes. Records are only
written to the store when --store is given.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			day, err := resolveDay(date)
			if err != nil {
				return err
			}

			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("failed to open article: %w", err)
			}
			defer f.Close()

			lines, err := scraper.FlattenHTML(f)
			if err != nil {
				return err
			}

			a, err := newApp(opts)
			if err != nil {
				return err
			}
			defer a.close()

			ctx := cmd.Context()
			var store records.Store
			if save {
				store, err = a.openStore(ctx)
				if err != nil {
					return err
				}
				defer store.Close()
			}

			var progress io.Writer = cmd.OutOrStdout()
			if asJSON {
				progress = io.Discard
			}

			runner, err := a.newRunner(store, day, progress)
			if err != nil {
				return err
			}

			result, err := runner.ProcessDocument(ctx, lines, day, sourceURL)
			if err != nil {
				return err
			}

			if asJSON {
				return printRecordsJSON(cmd.OutOrStdout(), result.Records())
			}
			printRunSummary(cmd.OutOrStdout(), result)
			return nil
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "date to record (YYYY-MM-DD), default today")
	cmd.Flags().StringVar(&sourceURL, "source-url", "", "source URL to record with each sign")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print extracted records as JSON")
	cmd.Flags().BoolVar(&save, "store", false, "upsert extracted records into the configured store")
	return cmd
}
