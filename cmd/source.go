package main

import (
	"github.com/sells-group/tilecut/internal/raster"
	"github.com/sells-group/tilecut/internal/raster/gdal"
)

// openSource opens a source raster through the GDAL backend and selects the
// band used for reads.
func openSource(path string, band int) (*raster.Raster, raster.Driver, error) {
	drv := gdal.New(cfg.Tile.Format)
	src, err := raster.Open(drv, path)
	if err != nil {
		return nil, nil, err
	}
	if band > 1 {
		if err := src.SetBand(band); err != nil {
			_ = src.Close()
			return nil, nil, err
		}
	}
	return src, drv, nil
}
