package main

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/suburb-cli/internal/session"
)

var sessionCmd = &cobra.Command{
	Use:   "session",
	Short: "Interactive suburb lookup",
	Long: "Prompts for a suburb name and postcode, prints the nearby and fringe suburbs, and repeats " +
		"until both answers are empty or input ends.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		format, _ := cmd.Flags().GetString("format")
		if format == "" {
			format = cfg.Output.Format
		}
		renderer, err := session.NewRenderer(format)
		if err != nil {
			return err
		}

		idx, stats := loadIndexOrEmpty(ctx, cfg)
		zap.L().Debug("index ready",
			zap.Int("records", stats.Loaded),
			zap.Int("keys", idx.Keys()),
			zap.Int("regions", len(idx.Regions())),
		)

		opts := []session.Option{session.WithRenderer(renderer)}
		if _, ok := renderer.(session.TextRenderer); !ok {
			// stdout carries only rendered documents.
			opts = append(opts, session.WithPromptWriter(cmd.ErrOrStderr()))
		}

		s := session.New(
			session.NewResolver(idx, newSearcher(cfg)),
			cmd.InOrStdin(),
			cmd.OutOrStdout(),
			opts...,
		)
		return s.Run(ctx)
	},
}

func init() {
	sessionCmd.Flags().String("format", "", "output format: text, json, yaml, geojson (default from output.format)")
	rootCmd.AddCommand(sessionCmd)
}
