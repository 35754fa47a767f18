package main

import (
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/suburb-cli/internal/fetcher"
)

var datasetCmd = &cobra.Command{
	Use:   "dataset",
	Short: "Locality dataset maintenance",
	Long:  "Download the locality dataset and report on its contents.",
}

var datasetFetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Download the dataset from dataset.url",
	Long:  "Downloads dataset.url over HTTP(S) or FTP to a local file, typically dataset.path.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		if cfg.Dataset.URL == "" {
			return eris.New("dataset fetch: dataset.url is not set")
		}
		out, _ := cmd.Flags().GetString("out")
		if out == "" {
			out = cfg.Dataset.Path
		}

		f, err := fetcher.ForURL(cfg.Dataset.URL, fetchOptions(cfg))
		if err != nil {
			return eris.Wrap(err, "dataset fetch")
		}

		zap.L().Info("fetching dataset", zap.String("url", cfg.Dataset.URL), zap.String("out", out))
		n, err := f.DownloadToFile(ctx, cfg.Dataset.URL, out)
		if err != nil {
			return eris.Wrap(err, "dataset fetch")
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d bytes to %s\n", n, out)
		return nil
	},
}

var datasetStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show dataset statistics",
	Long:  "Loads the dataset and prints record, non-physical, skipped, and per-state counts.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		idx, stats, err := loadIndex(ctx, cfg)
		if err != nil {
			return eris.Wrap(err, "dataset stats")
		}

		w := cmd.OutOrStdout()
		fmt.Fprintf(w, "Source:        %s\n", cfg.Dataset.Source())
		fmt.Fprintf(w, "Records read:  %d\n", stats.Read)
		fmt.Fprintf(w, "Loaded:        %d\n", stats.Loaded)
		fmt.Fprintf(w, "Non-physical:  %d\n", stats.NonPhysical)
		fmt.Fprintf(w, "Skipped:       %d\n", stats.Skipped)
		fmt.Fprintf(w, "Distinct keys: %d\n", idx.Keys())
		fmt.Fprintf(w, "Load time:     %s\n", stats.Duration.Round(time.Millisecond))

		fmt.Fprintln(w, "\nBy state:")
		for _, state := range idx.Regions() {
			fmt.Fprintf(w, "  %-5s %d\n", state, len(idx.Region(state)))
		}
		return nil
	},
}

func init() {
	datasetFetchCmd.Flags().String("out", "", "destination file (default dataset.path)")
	datasetCmd.AddCommand(datasetFetchCmd, datasetStatsCmd)
	rootCmd.AddCommand(datasetCmd)
}
