// Package raster provides windowed access to georeferenced rasters through a
// small backend capability surface. It supports north-up, non-rotated rasters
// only: the affine transform is reduced to an origin and a square cell size.
package raster

import (
	"fmt"
	"math"
)

// GeoTransform maps between pixel indices and world coordinates for a
// north-up raster. Rows grow southward: increasing row means decreasing
// world y. Immutable once constructed.
type GeoTransform struct {
	OriginX  float64
	OriginY  float64
	CellSize float64
}

// NewGeoTransform validates the origin and cell size.
func NewGeoTransform(originX, originY, cellSize float64) (GeoTransform, error) {
	if cellSize <= 0 {
		return GeoTransform{}, &GeometryError{Reason: fmt.Sprintf("cell size %g is not positive", cellSize)}
	}
	return GeoTransform{OriginX: originX, OriginY: originY, CellSize: cellSize}, nil
}

// GeoTransformFromAffine decodes a GDAL-style six-element affine array
// [originX, pixelWidth, rowRotation, originY, colRotation, pixelHeight].
// Rotation terms must be zero and the pixel must be square with a negative
// y step (north-up).
func GeoTransformFromAffine(gt [6]float64) (GeoTransform, error) {
	if gt[2] != 0 || gt[4] != 0 {
		return GeoTransform{}, &GeometryError{Reason: fmt.Sprintf("rotated raster (rotation terms %g, %g)", gt[2], gt[4])}
	}
	if gt[5] >= 0 {
		return GeoTransform{}, &GeometryError{Reason: fmt.Sprintf("y pixel step %g is not negative (raster is not north-up)", gt[5])}
	}
	if gt[1] != -gt[5] {
		return GeoTransform{}, &GeometryError{Reason: fmt.Sprintf("non-square pixels (%g x %g)", gt[1], -gt[5])}
	}
	return NewGeoTransform(gt[0], gt[3], gt[1])
}

// Affine returns the GDAL-style six-element affine array for this transform.
func (g GeoTransform) Affine() [6]float64 {
	return [6]float64{g.OriginX, g.CellSize, 0, g.OriginY, 0, -g.CellSize}
}

// WorldToPixel converts world coordinates to the pixel containing them.
// Fractional positions truncate toward the origin.
func (g GeoTransform) WorldToPixel(x, y float64) (col, row int) {
	col = int(math.Floor((x - g.OriginX) / g.CellSize))
	row = int(math.Floor((g.OriginY - y) / g.CellSize))
	return col, row
}

// PixelToWorld returns the world coordinates of the top-left corner of the
// given pixel.
func (g GeoTransform) PixelToWorld(col, row int) (x, y float64) {
	x = g.OriginX + float64(col)*g.CellSize
	y = g.OriginY - float64(row)*g.CellSize
	return x, y
}

// Shift returns a transform whose origin is moved xOff east and yOff south
// of this one, keeping the cell size. Used to georeference windows cut out
// of a larger raster.
func (g GeoTransform) Shift(xOff, yOff float64) GeoTransform {
	return GeoTransform{
		OriginX:  g.OriginX + xOff,
		OriginY:  g.OriginY - yOff,
		CellSize: g.CellSize,
	}
}

// Extent describes a raster's pixel dimensions and georeferencing.
type Extent struct {
	WidthPx  int
	HeightPx int
	Geo      GeoTransform
}

// WorldWidth returns the raster's east-west span in world units.
func (e Extent) WorldWidth() float64 {
	return float64(e.WidthPx) * e.Geo.CellSize
}

// WorldHeight returns the raster's north-south span in world units.
func (e Extent) WorldHeight() float64 {
	return float64(e.HeightPx) * e.Geo.CellSize
}

// Window is a pixel-space rectangle addressing a sub-array of a raster band.
type Window struct {
	XOff  int
	YOff  int
	XSize int
	YSize int
}

func (w Window) String() string {
	return fmt.Sprintf("(xoff %d, yoff %d, %dx%d)", w.XOff, w.YOff, w.XSize, w.YSize)
}

// FitsIn reports whether the window is fully contained in a raster of the
// given pixel dimensions. Callers must check this before any read.
func (w Window) FitsIn(widthPx, heightPx int) bool {
	return w.XOff >= 0 && w.YOff >= 0 &&
		w.XSize > 0 && w.YSize > 0 &&
		w.XOff+w.XSize <= widthPx &&
		w.YOff+w.YSize <= heightPx
}

// FullWindow returns the window covering the entire extent.
func (e Extent) FullWindow() Window {
	return Window{XSize: e.WidthPx, YSize: e.HeightPx}
}
