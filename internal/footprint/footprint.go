// Package footprint exports tile boundary polygons as GeoJSON, one feature
// per written tile.
package footprint

import (
	"os"

	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/geojson"

	"github.com/sells-group/tilecut/internal/pipeline"
	"github.com/sells-group/tilecut/internal/raster"
)

// Polygon returns a tile's world-space boundary ring. The descriptor is
// relative to the source origin; srcGeo anchors it in world coordinates.
func Polygon(res pipeline.Result, srcGeo raster.GeoTransform) *geom.Polygon {
	left := srcGeo.OriginX + res.Desc.XOff
	top := srcGeo.OriginY - res.Desc.YOff
	right := left + res.Desc.XSize
	bottom := top - res.Desc.YSize

	return geom.NewPolygon(geom.XY).MustSetCoords([][]geom.Coord{{
		{left, top},
		{right, top},
		{right, bottom},
		{left, bottom},
		{left, top},
	}})
}

// Collection builds a feature collection over a run's results.
func Collection(results []pipeline.Result, srcGeo raster.GeoTransform) *geojson.FeatureCollection {
	features := make([]*geojson.Feature, 0, len(results))
	for _, res := range results {
		features = append(features, &geojson.Feature{
			Geometry: Polygon(res, srcGeo),
			Properties: map[string]interface{}{
				"index":     res.Index,
				"path":      res.Path,
				"width_px":  res.Window.XSize,
				"height_px": res.Window.YSize,
			},
		})
	}
	return &geojson.FeatureCollection{Features: features}
}

// WriteFile marshals the collection to a GeoJSON file.
func WriteFile(path string, results []pipeline.Result, srcGeo raster.GeoTransform) error {
	fc := Collection(results, srcGeo)
	data, err := fc.MarshalJSON()
	if err != nil {
		return eris.Wrap(err, "footprint: marshal")
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return eris.Wrapf(err, "footprint: write %s", path)
	}
	return nil
}
