package commands

import (
	"context"
	"fmt"
	"os"

	"asnatlas/lib/configutil"
	"asnatlas/lib/telemetry"

	"github.com/spf13/cobra"
)

var verbose *bool

var rootCmd = &cobra.Command{
	Use:   "asnatlas",
	Short: "asnatlas scrapes BGP routing metadata and company details for ASNs.",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		telemetry.InitSlog(*verbose)
	},
}

func init() {
	verbose = rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable debug logging.")
}

func Execute(ctx context.Context) {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Config is the optional config.json5 in the working directory; zero values
// fall back to the defaults below.
type Config struct {
	TrackingFile string `json:"tracking_file"`
	InputFile    string `json:"input_file"`
	OutputDir    string `json:"output_dir"`
	// pointer so an explicit 0 is distinguishable from "not configured"
	DelaySeconds *int   `json:"delay_seconds"`
	BGPBaseURL   string `json:"bgp_base_url"`
}

func loadConfig() Config {
	cfg, err := configutil.ReadConfig[Config]("config.json5")
	if err != nil && !os.IsNotExist(err) {
		fmt.Fprintln(os.Stderr, "failed to read config.json5:", err)
		os.Exit(1)
	}

	if cfg.TrackingFile == "" {
		cfg.TrackingFile = "data/input/processed_asns.json"
	}
	if cfg.InputFile == "" {
		cfg.InputFile = "data/input/asn_list.txt"
	}
	if cfg.OutputDir == "" {
		cfg.OutputDir = "data/output"
	}
	if cfg.DelaySeconds == nil {
		defaultDelay := 2
		cfg.DelaySeconds = &defaultDelay
	}
	return cfg
}
