package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/gcbaptista/abstract-retrieval/config"
	"github.com/gcbaptista/abstract-retrieval/internal/logger"
)

var rootCmd = &cobra.Command{
	Use:   "retrieval",
	Short: "Boolean and vector retrieval over collections of academic abstracts",
	Long: `retrieval answers boolean (AND/OR/NOT) and TF-IDF vector queries over
precomputed inverted indexes of Portuguese abstracts.

Examples:
  retrieval serve --config configs/retrieval.yaml
  retrieval search --dir ./corpus --mode vector "lgpd dados pessoais"
  retrieval index --dir ./corpus
  retrieval snapshot --dir ./corpus --data-dir ./retrieval_data`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		// a missing .env is normal outside development
		_ = godotenv.Load()

		level, _ := cmd.Flags().GetString("log-level")
		format, _ := cmd.Flags().GetString("log-format")
		logger.Setup(level, format)
	},
}

// collectionFlags registers the flags describing one collection's source directory.
func collectionFlags(cmd *cobra.Command) {
	cmd.Flags().String("dir", ".", "Collection source directory")
	cmd.Flags().String("name", "default", "Collection name")
	cmd.Flags().Int("collection-size", 0, "N used for IDF (0 means the number of catalog documents)")
}

// collectionSettings builds settings from the flags added by collectionFlags.
func collectionSettings(cmd *cobra.Command) (config.CollectionSettings, string, error) {
	dir, _ := cmd.Flags().GetString("dir")
	name, _ := cmd.Flags().GetString("name")
	size, _ := cmd.Flags().GetInt("collection-size")

	settings := config.CollectionSettings{Name: name, CollectionSize: size}
	settings.ApplyDefaults()
	if problems := settings.Validate(); len(problems) > 0 {
		return settings, "", fmt.Errorf("invalid collection flags: %v", problems)
	}
	return settings, dir, nil
}

func init() {
	rootCmd.PersistentFlags().String("log-level", "info", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("log-format", "text", "Log format (text or json)")

	rootCmd.AddCommand(serveCmd, searchCmd, indexCmd, snapshotCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
