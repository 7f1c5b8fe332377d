// Command powertoys evaluates and optimizes converter loss models against a
// local component catalog.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/danielpatrickdp/power-toys/internal/catalog"
	"github.com/danielpatrickdp/power-toys/internal/component"
	"github.com/danielpatrickdp/power-toys/internal/predictor"
)

var version = "0.3.0"

// Global flags
var (
	dbPath        string
	predictorAddr string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "powertoys",
	Short: "Loss models for buck and DCX converters",
	Long: `powertoys evaluates converter designs built from a component catalog.

Switch losses come from datasheet parameters. Inductor losses come from a
remote predictor service when PREDICTOR_ADDR is set, otherwise from a
Steinmetz fit over the catalog DCR.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", envOr("POWERTOYS_DB", "powertoys.db"), "catalog database path")
	rootCmd.PersistentFlags().StringVar(&predictorAddr, "predictor", envOr("PREDICTOR_ADDR", ""), "loss predictor gRPC address (empty for the Steinmetz fallback)")

	rootCmd.AddCommand(evaluateCmd)
	rootCmd.AddCommand(buckCmd)
	rootCmd.AddCommand(dcxCmd)
	rootCmd.AddCommand(sweepCmd)
	rootCmd.AddCommand(catalogCmd)
	rootCmd.AddCommand(logCmd)
	rootCmd.AddCommand(servePredictorCmd)
}

// #region helpers
func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func openStore() (*catalog.Store, error) {
	store, err := catalog.NewStore(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open catalog %s: %w", dbPath, err)
	}
	return store, nil
}

func newPredictor(store *catalog.Store) (component.LossPredictor, func() error, error) {
	cfg := predictor.DefaultConfig()
	cfg.Addr = predictorAddr
	return predictor.New(cfg, store)
}

// #endregion helpers
