// govpulse is governance-health analytics for DeFi DAOs.
//
// Fetches on-chain governance metadata from the Tally API, scores it across
// five weighted health dimensions, and reports typed risks and
// recommendations. Runs as a CLI or as an MCP stdio server for AI agents.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/govpulse/govpulse/internal/analyzer"
	"github.com/govpulse/govpulse/internal/cache"
	"github.com/govpulse/govpulse/internal/config"
	"github.com/govpulse/govpulse/internal/output"
	"github.com/govpulse/govpulse/internal/tally"
)

var version = "0.1.0"

// configPath is the --config flag, shared by all commands.
var configPath string

func main() {
	rootCmd := &cobra.Command{
		Use:   "govpulse",
		Short: "Governance-health analytics for DeFi DAOs",
		Long: `govpulse: single Go binary for DAO governance analysis.

Fetches governance metadata from the Tally GraphQL API and derives a
0-100 health score across five weighted categories (participation,
decentralization, activity, transparency, stability), plus typed risks
and remediation recommendations.

Run 'govpulse mcp' to serve the analysis as MCP tools for AI agents.`,
		Version: version,
	}
	rootCmd.PersistentFlags().StringVar(&configPath, "config", defaultConfigPath(), "Config file path")

	// --- analyze command ---
	var (
		analyzeOutput string
		analyzeJSON   bool
	)

	analyzeCmd := &cobra.Command{
		Use:   "analyze <dao>",
		Short: "Analyze the governance health of a DAO",
		Long:  "Run the full scoring pipeline for one DAO and print a Markdown report (or JSON with --json).",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, cleanup, err := buildAnalyzer()
			if err != nil {
				return err
			}
			defer cleanup()

			health, err := a.Analyze(context.Background(), args[0])
			if err != nil {
				return err
			}

			if analyzeJSON {
				return output.WriteJSON(health, analyzeOutput)
			}
			return writeText(output.AssembleReport(*health), analyzeOutput)
		},
	}
	analyzeCmd.Flags().StringVarP(&analyzeOutput, "output", "o", "-", "Output file path (- for stdout)")
	analyzeCmd.Flags().BoolVar(&analyzeJSON, "json", false, "Emit the raw analysis record as JSON")

	// --- metrics command ---
	var metricsOutput string

	metricsCmd := &cobra.Command{
		Use:   "metrics <dao>",
		Short: "Fetch raw normalized governance metrics for a DAO",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, cleanup, err := buildAnalyzer()
			if err != nil {
				return err
			}
			defer cleanup()

			m, err := a.Metrics(context.Background(), args[0])
			if err != nil {
				return err
			}
			return output.WriteJSON(m, metricsOutput)
		},
	}
	metricsCmd.Flags().StringVarP(&metricsOutput, "output", "o", "-", "Output file path (- for stdout)")

	// --- compare command ---
	var compareOutput string

	compareCmd := &cobra.Command{
		Use:   "compare <dao> <dao>...",
		Short: "Compare governance health across several DAOs",
		Long:  "Analyze each DAO in parallel and print a comparison ranked by overall score.",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, cleanup, err := buildAnalyzer()
			if err != nil {
				return err
			}
			defer cleanup()

			ranked, err := a.Compare(context.Background(), args)
			if err != nil {
				return err
			}
			return writeText(output.AssembleComparison(ranked), compareOutput)
		},
	}
	compareCmd.Flags().StringVarP(&compareOutput, "output", "o", "-", "Output file path (- for stdout)")

	rootCmd.AddCommand(analyzeCmd, metricsCmd, compareCmd, mcpCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// buildAnalyzer wires config, the Tally client, and the cache into an
// Analyzer. The returned cleanup closes the cache and is always non-nil.
func buildAnalyzer() (*analyzer.Analyzer, func(), error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, func() {}, err
	}

	client := tally.NewClient(cfg.Endpoint, cfg.APIKey, cfg.HTTPTimeout())

	store, err := cache.Open(cfg.CachePath, cfg.CacheTTL())
	if err != nil {
		// A broken cache degrades to uncached analysis rather than failing.
		fmt.Fprintf(os.Stderr, "warning: cache disabled: %v\n", err)
		return analyzer.New(client, nil), func() {}, nil
	}
	return analyzer.New(client, store), func() { store.Close() }, nil
}

// defaultConfigPath is ~/.config/govpulse/config.yaml, or empty when no
// home directory is resolvable.
func defaultConfigPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return dir + "/govpulse/config.yaml"
}

// writeText prints s to stdout or to a file when path is set.
func writeText(s, path string) error {
	if path == "" || path == "-" {
		fmt.Print(s)
		return nil
	}
	if err := os.WriteFile(path, []byte(s), 0o644); err != nil {
		return fmt.Errorf("write output file: %w", err)
	}
	return nil
}
