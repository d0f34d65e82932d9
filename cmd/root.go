package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/tilecut/internal/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "tilecut",
	Short: "Windowed raster I/O and tiling",
	Long:  "Opens georeferenced rasters, reads pixel-aligned windows addressed in world coordinates, splits large rasters into independently georeferenced tiles, and reports per-class pixel statistics.",
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

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
