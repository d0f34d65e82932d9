package raster

import "fmt"

// Selection is a world-space rectangle relative to a raster's origin, in the
// raster's world units (meters for projected rasters). A zero Selection
// means the whole raster.
type Selection struct {
	XOff  float64
	YOff  float64
	XSize float64
	YSize float64
}

// IsZero reports whether the selection is the whole-raster default.
func (s Selection) IsZero() bool {
	return s.XOff == 0 && s.YOff == 0 && s.XSize == 0 && s.YSize == 0
}

// Resolve maps the selection against a source extent, returning the
// pixel-aligned window and the geotransform of the cut-out. World values
// convert to pixels by truncation toward zero, so sub-pixel offsets may lose
// up to one pixel; that imprecision is deliberate and kept stable.
//
// Fails with SelectionError when the computed window is empty or not fully
// contained in the source extent.
func (s Selection) Resolve(ext Extent) (Window, GeoTransform, error) {
	if s.IsZero() {
		s.XSize = ext.WorldWidth()
		s.YSize = ext.WorldHeight()
	}
	if s.XOff < 0 || s.YOff < 0 {
		return Window{}, GeoTransform{}, &SelectionError{
			Reason: fmt.Sprintf("negative offset (%g, %g)", s.XOff, s.YOff),
		}
	}

	cell := ext.Geo.CellSize
	w := Window{
		XOff:  int(s.XOff / cell),
		YOff:  int(s.YOff / cell),
		XSize: int(s.XSize / cell),
		YSize: int(s.YSize / cell),
	}
	if w.XSize <= 0 || w.YSize <= 0 {
		return Window{}, GeoTransform{}, &SelectionError{
			Reason: fmt.Sprintf("selection %gx%g resolves to empty window %dx%d px", s.XSize, s.YSize, w.XSize, w.YSize),
		}
	}
	if !w.FitsIn(ext.WidthPx, ext.HeightPx) {
		return Window{}, GeoTransform{}, &SelectionError{
			Reason: fmt.Sprintf("window %s exceeds raster extent %dx%d px", w, ext.WidthPx, ext.HeightPx),
		}
	}

	return w, ext.Geo.Shift(s.XOff, s.YOff), nil
}
