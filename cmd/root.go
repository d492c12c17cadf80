package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/xxmmxw/Address-lookup/internal/config"
	"github.com/xxmmxw/Address-lookup/pkg/arcgis"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "addrlookup",
	Short: "NSW address lookup service",
	Long:  "Resolves a street address to a coordinate, suburb and state electoral district via the NSW Spatial Services feature layers.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

// newUpstreamClient builds the shared feature-service client from the
// upstream configuration.
func newUpstreamClient(uc config.UpstreamConfig) arcgis.Client {
	opts := []arcgis.Option{
		arcgis.WithUserAgent(uc.UserAgent),
		arcgis.WithTimeouts(
			time.Duration(uc.TimeoutSecs)*time.Second,
			time.Duration(uc.ConnectTimeoutSecs)*time.Second,
		),
	}
	if uc.RateLimitRPS > 0 {
		opts = append(opts, arcgis.WithRateLimit(uc.RateLimitRPS))
	}
	return arcgis.NewClient(opts...)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
