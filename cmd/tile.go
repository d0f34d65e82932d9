package main

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/tilecut/internal/footprint"
	"github.com/sells-group/tilecut/internal/manifest"
	"github.com/sells-group/tilecut/internal/pipeline"
	"github.com/sells-group/tilecut/internal/raster"
)

var tileCmd = &cobra.Command{
	Use:   "tile <source> <output-dir>",
	Short: "Split a raster into tiles",
	Long:  "Splits a raster into a grid of tile-size x tile-size tiles (world units) plus remainder tiles on the far edges, one georeferenced output file per tile, named tile_<index> in x-major grid order.",
	Args:  cobra.ExactArgs(2),
	RunE:  runTile,
}

func init() {
	tileCmd.Flags().Float64("tile-size", 0, "tile edge length in world units (required)")
	tileCmd.Flags().Int("workers", 1, "concurrent tile units (1 = sequential)")
	tileCmd.Flags().Int("band", 1, "source band to read")
	tileCmd.Flags().Int("nodata", 0, "nodata marker for output tiles")
	tileCmd.Flags().String("pixel-type", "", "output pixel type (byte, int16, uint16, int32, uint32, float32, float64)")
	tileCmd.Flags().Bool("manifest", false, "record tiles in the SQLite manifest")
	tileCmd.Flags().Bool("footprints", false, "write tile boundary polygons to footprints.geojson in the output dir")
	_ = tileCmd.MarkFlagRequired("tile-size")
	rootCmd.AddCommand(tileCmd)
}

func runTile(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	sourcePath, outDir := args[0], args[1]

	tileSize, _ := cmd.Flags().GetFloat64("tile-size")
	workers, _ := cmd.Flags().GetInt("workers")
	band, _ := cmd.Flags().GetInt("band")
	nodata, _ := cmd.Flags().GetInt("nodata")
	withManifest, _ := cmd.Flags().GetBool("manifest")
	withFootprints, _ := cmd.Flags().GetBool("footprints")

	ptypeName, _ := cmd.Flags().GetString("pixel-type")
	if ptypeName == "" {
		ptypeName = cfg.Tile.PixelType
	}
	ptype, err := raster.ParsePixelType(ptypeName)
	if err != nil {
		return err
	}

	if !cmd.Flags().Changed("workers") && cfg.Tile.Workers > 1 {
		workers = cfg.Tile.Workers
	}

	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return eris.Wrapf(err, "create output dir %s", outDir)
	}

	src, drv, err := openSource(sourcePath, band)
	if err != nil {
		return err
	}
	defer func() { _ = src.Close() }()

	p := pipeline.New(drv, src, outDir, pipeline.Options{
		TileSize:    tileSize,
		Workers:     workers,
		TileTimeout: time.Duration(cfg.Tile.TileTimeoutSecs) * time.Second,
		NoData:      int32(nodata),
		PixelType:   ptype,
		Extension:   cfg.Tile.Extension,
	})

	var recorder *manifest.RunRecorder
	if withManifest || cfg.Manifest.Enabled {
		store, err := manifest.Open(cfg.Manifest.Path)
		if err != nil {
			return err
		}
		defer func() { _ = store.Close() }()
		if err := store.Migrate(ctx); err != nil {
			return err
		}
		recorder, err = store.BeginRun(ctx, sourcePath, outDir, tileSize)
		if err != nil {
			return err
		}
		p.SetRecorder(recorder)
	}

	results, err := p.Run(ctx)
	if recorder != nil {
		status := manifest.RunCompleted
		if err != nil {
			status = manifest.RunFailed
		}
		if ferr := recorder.Finish(ctx, status); ferr != nil {
			zap.L().Warn("manifest finish failed", zap.Error(ferr))
		}
	}
	if err != nil {
		var te *pipeline.TileError
		if errors.As(err, &te) {
			fmt.Fprintf(cmd.ErrOrStderr(), "tiling failed at tile %d %s\n", te.Index, te.Desc)
		}
		return err
	}

	if withFootprints {
		fpPath := filepath.Join(outDir, "footprints.geojson")
		if err := footprint.WriteFile(fpPath, results, src.Extent().Geo); err != nil {
			return err
		}
	}

	fmt.Fprintf(cmd.OutOrStdout(), "wrote %d tiles to %s\n", len(results), outDir)
	return nil
}
