package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"asnatlas/lib/scrapers/bgphe"
	"asnatlas/lib/scrapers/website"
	"asnatlas/lib/serviceutil"
	"asnatlas/lib/telemetry"
	"asnatlas/services/analyzer"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var (
	runASNFile *string
	runInline  *string
	runOutput  *string
	runForce   *bool
	runDelay   *int
)

func init() {
	runASNFile = runCmd.Flags().StringP("asn-file", "f", "", "Newline-delimited file of ASNs to process.")
	runInline = runCmd.Flags().StringP("asn-list", "l", "", "Comma-separated list of ASNs to process.")
	runOutput = runCmd.Flags().StringP("output", "o", "", "Report path; a timestamped name is generated when omitted.")
	runForce = runCmd.Flags().Bool("force", false, "Reprocess ASNs even when tracking says they are done.")
	runDelay = runCmd.Flags().Int("delay", 0, "Seconds to wait after each item, overrides config; 0 disables the pause.")
	rootCmd.AddCommand(runCmd)
}

var runCmd = &cobra.Command{
	Use:   "run [-f <file> | -l <list>] [-o <output>] [--force]",
	Short: "Processes a batch of ASNs and writes a JSON report.",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()
		cfg := loadConfig()

		tel, err := telemetry.SetupFromEnv(ctx, "asnatlas")
		if err != nil {
			serviceutil.Fatal("failed to set up telemetry", err)
		}
		defer tel.Shutdown(context.Background())
		telemetry.InstrumentPerfStats(ctx)

		requested := loadRequested(cfg)
		if len(requested) == 0 {
			slog.Warn("no ASNs requested, nothing to do")
			return
		}

		bgp, err := bgphe.NewClient(bgphe.ClientOptions{BaseUrl: cfg.BGPBaseURL})
		if err != nil {
			serviceutil.Fatal("failed to initialize bgp.he.net client", err)
		}
		web, err := website.NewClient()
		if err != nil {
			serviceutil.Fatal("failed to initialize website client", err)
		}

		delay := *cfg.DelaySeconds
		if cmd.Flags().Changed("delay") {
			delay = *runDelay
		}
		service := analyzer.NewService(
			bgp, web,
			analyzer.NewTracker(cfg.TrackingFile),
			analyzer.Options{
				OutputDir: cfg.OutputDir,
				Delay:     time.Duration(delay) * time.Second,
				Force:     *runForce,
			},
		)

		t1 := time.Now()
		result, err := service.Run(ctx, requested, *runOutput)
		if err != nil {
			serviceutil.Fatal("failed to write report", err)
		}

		printSummary(result, time.Since(t1))
		if result.Interrupted {
			slog.Warn("run was interrupted, progress up to the last checkpoint is saved")
		}
	},
}

func loadRequested(cfg Config) []string {
	if *runInline != "" {
		return analyzer.ParseInlineList(*runInline)
	}

	path := cfg.InputFile
	if *runASNFile != "" {
		path = *runASNFile
	}
	requested, err := analyzer.LoadASNFile(path)
	if err != nil {
		serviceutil.Fatal("failed to read ASN input", err)
	}
	return requested
}

func printSummary(result analyzer.RunResult, elapsed time.Duration) {
	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.SetOutputMirror(os.Stdout)
	t.AppendRows([]table.Row{
		{"requested", result.Requested},
		{"invalid", result.Invalid},
		{"already processed", result.Skipped},
		{"succeeded", result.Succeeded},
		{"failed", result.Failed},
		{"elapsed", elapsed.Round(time.Second)},
	})
	if result.OutputPath != "" {
		t.AppendRow(table.Row{"report", result.OutputPath})
	}
	t.Render()

	if result.OutputPath == "" {
		fmt.Println("no report written: nothing was processed")
	}
}
