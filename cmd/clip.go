package main

import (
	"github.com/spf13/cobra"

	"github.com/sells-group/tilecut/internal/raster"
)

var clipCmd = &cobra.Command{
	Use:   "clip <source> <dest>",
	Short: "Cut a windowed sub-raster",
	Long:  "Reads a world-space window from the source raster and writes it as a new georeferenced raster. All-zero offsets and sizes select the whole raster.",
	Args:  cobra.ExactArgs(2),
	RunE:  runClip,
}

func init() {
	clipCmd.Flags().Float64("x-offset", 0, "window x offset in world units")
	clipCmd.Flags().Float64("y-offset", 0, "window y offset in world units")
	clipCmd.Flags().Float64("x-size", 0, "window width in world units")
	clipCmd.Flags().Float64("y-size", 0, "window height in world units")
	clipCmd.Flags().Int("band", 1, "source band to read")
	clipCmd.Flags().Int("nodata", 0, "nodata marker for the output")
	clipCmd.Flags().String("pixel-type", "", "output pixel type")
	rootCmd.AddCommand(clipCmd)
}

func runClip(cmd *cobra.Command, args []string) error {
	sourcePath, destPath := args[0], args[1]

	sel := raster.Selection{}
	sel.XOff, _ = cmd.Flags().GetFloat64("x-offset")
	sel.YOff, _ = cmd.Flags().GetFloat64("y-offset")
	sel.XSize, _ = cmd.Flags().GetFloat64("x-size")
	sel.YSize, _ = cmd.Flags().GetFloat64("y-size")
	band, _ := cmd.Flags().GetInt("band")
	nodata, _ := cmd.Flags().GetInt("nodata")

	ptypeName, _ := cmd.Flags().GetString("pixel-type")
	if ptypeName == "" {
		ptypeName = cfg.Tile.PixelType
	}
	ptype, err := raster.ParsePixelType(ptypeName)
	if err != nil {
		return err
	}

	src, drv, err := openSource(sourcePath, band)
	if err != nil {
		return err
	}
	defer func() { _ = src.Close() }()

	win, geo, err := sel.Resolve(src.Extent())
	if err != nil {
		return err
	}
	arr, err := src.ReadWindow(win)
	if err != nil {
		return err
	}

	out, err := raster.Create(drv, destPath, raster.OutputSpec{
		WidthPx:   win.XSize,
		HeightPx:  win.YSize,
		Geo:       geo,
		NoData:    int32(nodata),
		PixelType: ptype,
	})
	if err != nil {
		return err
	}
	if err := out.Write(arr); err != nil {
		_ = out.Discard()
		return err
	}
	return out.Close()
}
