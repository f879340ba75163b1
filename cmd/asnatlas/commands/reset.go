package commands

import (
	"log/slog"

	"asnatlas/lib/serviceutil"
	"asnatlas/services/analyzer"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(resetCmd)
}

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Wipes the processed-ASN tracking state.",
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig()

		tracker := analyzer.NewTracker(cfg.TrackingFile)
		if err := tracker.Reset(); err != nil {
			serviceutil.Fatal("failed to reset tracking state", err)
		}
		slog.Info("tracking state reset", "path", cfg.TrackingFile)
	},
}
