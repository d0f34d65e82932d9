package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var infoCmd = &cobra.Command{
	Use:   "info <source>",
	Short: "Print raster extent and georeferencing",
	Args:  cobra.ExactArgs(1),
	RunE:  runInfo,
}

func init() {
	rootCmd.AddCommand(infoCmd)
}

func runInfo(cmd *cobra.Command, args []string) error {
	src, _, err := openSource(args[0], 1)
	if err != nil {
		return err
	}
	defer func() { _ = src.Close() }()

	ext := src.Extent()
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "path:        %s\n", src.Path())
	fmt.Fprintf(out, "size:        %d x %d px\n", ext.WidthPx, ext.HeightPx)
	fmt.Fprintf(out, "bands:       %d\n", src.Bands())
	fmt.Fprintf(out, "origin:      (%g, %g)\n", ext.Geo.OriginX, ext.Geo.OriginY)
	fmt.Fprintf(out, "cell size:   %g\n", ext.Geo.CellSize)
	fmt.Fprintf(out, "world size:  %g x %g\n", ext.WorldWidth(), ext.WorldHeight())
	return nil
}
