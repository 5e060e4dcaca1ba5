package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/seanyjeong/stock-sub000/internal/config"
	"github.com/seanyjeong/stock-sub000/internal/normalize"
	"github.com/seanyjeong/stock-sub000/internal/scan"
	"github.com/seanyjeong/stock-sub000/internal/scoring"
)

func newScanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scan",
		Short: "Score one snapshot batch and print the ranked candidate list",
		Long: `Reads a JSON array of ticker snapshots, scores each through the
four-factor model, and prints the ranked list as JSON. Records that fail
validation are skipped and reported, never scored with partial data.`,
		RunE: runScan,
	}
	addBatchFlags(cmd.Flags())
	cmd.Flags().Int("top-n", 0, "Truncate output to the top N candidates (0 = all)")
	return cmd
}

// addBatchFlags registers the flags shared by scan and serve.
func addBatchFlags(fs *pflag.FlagSet) {
	fs.String("input", "", "Path to snapshot batch JSON (required)")
	fs.String("holdings", "", "Comma-separated tickers currently held")
	fs.String("regsho", "", "Comma-separated tickers on the RegSHO threshold list")
}

func runScan(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	inputPath, _ := cmd.Flags().GetString("input")
	if inputPath == "" {
		return fmt.Errorf("--input is required")
	}
	data, err := os.ReadFile(inputPath)
	if err != nil {
		return fmt.Errorf("read snapshot batch: %w", err)
	}
	batch, err := normalize.ParseBatch(data)
	if err != nil {
		return err
	}

	holdings := tickerSet(flagString(cmd, "holdings"))
	regSHO := tickerSet(flagString(cmd, "regsho"))

	pipeline := scan.New(
		normalize.New(normalize.Externals{RegSHO: regSHO}),
		scoring.NewScorer(cfg.Scoring),
		nil,
	)
	result := pipeline.Run(batch, holdings)

	if topN, _ := cmd.Flags().GetInt("top-n"); topN > 0 {
		result.Entries = result.Ranked().Top(topN)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}

func flagString(cmd *cobra.Command, name string) string {
	v, _ := cmd.Flags().GetString(name)
	return v
}

// tickerSet parses a comma-separated ticker list into an uppercase set.
func tickerSet(raw string) map[string]bool {
	set := make(map[string]bool)
	for _, t := range strings.Split(raw, ",") {
		t = strings.ToUpper(strings.TrimSpace(t))
		if t != "" {
			set[t] = true
		}
	}
	return set
}
