package commands

import (
	"fmt"
	"os"
	"strings"

	"asnatlas/services/analyzer"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var statsList *bool

func init() {
	statsList = statsCmd.Flags().Bool("list", false, "Also print every processed ASN.")
	rootCmd.AddCommand(statsCmd)
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Shows processed-ASN tracking statistics.",
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig()
		stats := analyzer.NewTracker(cfg.TrackingFile).Stats()

		t := table.NewWriter()
		t.SetStyle(table.StyleRounded)
		t.SetOutputMirror(os.Stdout)
		t.AppendRows([]table.Row{
			{"tracking file", stats.TrackingFile},
			{"total processed", stats.TotalProcessed},
		})
		t.Render()

		if *statsList && stats.TotalProcessed > 0 {
			fmt.Println(strings.Join(stats.ProcessedASNs, "\n"))
		}
	},
}
