package main

import (
	"os/signal"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/suburb-cli/internal/session"
)

var lookupCmd = &cobra.Command{
	Use:   "lookup",
	Short: "Look up one suburb",
	Long: "Resolves a single suburb name and postcode and prints its nearby and fringe suburbs. " +
		"Unknown and non-physical suburbs are reported, not treated as failures.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		name, _ := cmd.Flags().GetString("name")
		postcode, _ := cmd.Flags().GetString("postcode")
		if name == "" && postcode == "" {
			return eris.New("lookup: --name or --postcode is required")
		}

		format, _ := cmd.Flags().GetString("format")
		if format == "" {
			format = cfg.Output.Format
		}
		renderer, err := session.NewRenderer(format)
		if err != nil {
			return err
		}

		idx, _, err := loadIndex(ctx, cfg)
		if err != nil {
			return eris.Wrap(err, "lookup")
		}

		out := session.NewResolver(idx, newSearcher(cfg)).Resolve(name, postcode)
		zap.L().Debug("lookup resolved",
			zap.String("name", out.Query.Name),
			zap.String("postcode", out.Query.Postcode),
			zap.Stringer("status", out.Status),
		)
		return renderer.Render(cmd.OutOrStdout(), out)
	},
}

func init() {
	lookupCmd.Flags().String("name", "", "suburb name (case-insensitive)")
	lookupCmd.Flags().String("postcode", "", "postcode")
	lookupCmd.Flags().String("format", "", "output format: text, json, yaml, geojson (default from output.format)")
	rootCmd.AddCommand(lookupCmd)
}
