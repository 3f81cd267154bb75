// Command horoscrape fetches the day's horoscope article and stores one record
// per zodiac sign.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var version = "0.1.0"

// rootOptions are the persistent flags shared by every subcommand.
type rootOptions struct {
	configPath string
	logLevel   string
}

func newRootCommand() *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:   "horoscrape",
		Short: "Daily horoscope article extractor",
		Long: `horoscrape finds the day's horoscope article on a listing page,
extracts the narrative, lucky number and lucky colour for each of the twelve
zodiac signs, and stores one record per sign per day.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&opts.configPath, "config",
		getEnv("HOROSCRAPE_CONFIG", ""), "path to config file (default ~/.horoscrape/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "",
		"log level: debug, info, warn or error")

	rootCmd.AddCommand(runCmd(opts))
	rootCmd.AddCommand(resolveCmd(opts))
	rootCmd.AddCommand(extractCmd(opts))
	rootCmd.AddCommand(listCmd(opts))

	return rootCmd
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	err := newRootCommand().ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
