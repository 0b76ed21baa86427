// cmd/genoscope/main.go
package main

import (
	"fmt"
	"os"

	"genoscope/internal/compute"
	"genoscope/internal/config"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	cfgPath string
	verbose bool
	compact bool

	cfg    config.Config
	logger *zap.Logger
	svc    *compute.Service
)

var rootCmd = &cobra.Command{
	Use:   "genoscope",
	Short: "Background compute layer for genome exploration",
	Long: `genoscope runs the compute-layer analyses standalone: sliding-window
anomaly scans, gene-order synteny alignment, and sequence/annotation search
over FASTA inputs. Results print as JSON on stdout.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(cfgPath)
		if err != nil {
			return err
		}
		zc := zap.NewProductionConfig()
		if verbose {
			zc.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
		}
		logger, err = zc.Build()
		if err != nil {
			return err
		}
		svc = compute.New(cfg, logger, prometheus.NewRegistry())
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if svc != nil {
			svc.Close()
		}
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "", "YAML config file (missing file = defaults)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
	rootCmd.PersistentFlags().BoolVar(&compact, "compact", false, "single-line JSON output")

	rootCmd.AddCommand(scanCmd, searchCmd, syntenyCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "genoscope:", err)
		os.Exit(1)
	}
}
