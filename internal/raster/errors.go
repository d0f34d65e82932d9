package raster

import (
	"errors"
	"fmt"
)

// OpenError indicates a source raster could not be opened or decoded.
type OpenError struct {
	Path string
	Err  error
}

func (e *OpenError) Error() string {
	return fmt.Sprintf("raster: open %s: %v", e.Path, e.Err)
}

func (e *OpenError) Unwrap() error {
	return e.Err
}

// GeometryError indicates a raster whose georeferencing the package does not
// support (rotated/skewed axes, non-positive cell size).
type GeometryError struct {
	Reason string
}

func (e *GeometryError) Error() string {
	return "raster: unsupported geometry: " + e.Reason
}

// WindowOutOfBoundsError indicates a read window that is not fully contained
// in the source raster's pixel extent. Reads never clamp.
type WindowOutOfBoundsError struct {
	Window   Window
	WidthPx  int
	HeightPx int
}

func (e *WindowOutOfBoundsError) Error() string {
	return fmt.Sprintf("raster: window %s exceeds raster extent %dx%d px",
		e.Window, e.WidthPx, e.HeightPx)
}

// SelectionError indicates a world-space selection that resolves to an empty
// or out-of-extent pixel window.
type SelectionError struct {
	Reason string
}

func (e *SelectionError) Error() string {
	return "raster: invalid selection: " + e.Reason
}

// WriteError indicates an output raster could not be created, written, or
// flushed.
type WriteError struct {
	Path string
	Err  error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("raster: write %s: %v", e.Path, e.Err)
}

func (e *WriteError) Unwrap() error {
	return e.Err
}

func errBandRange(band, bands int) error {
	return fmt.Errorf("band %d out of range [1, %d]", band, bands)
}

func errDimensions(w, h int) error {
	return fmt.Errorf("invalid dimensions %dx%d px", w, h)
}

func errShape(gotW, gotH, wantW, wantH int) error {
	return fmt.Errorf("array shape %dx%d does not match raster %dx%d", gotW, gotH, wantW, wantH)
}

// IsOpen reports whether any error in the chain is an OpenError.
func IsOpen(err error) bool {
	var oe *OpenError
	return errors.As(err, &oe)
}

// IsOutOfBounds reports whether any error in the chain is a
// WindowOutOfBoundsError.
func IsOutOfBounds(err error) bool {
	var we *WindowOutOfBoundsError
	return errors.As(err, &we)
}

// IsSelection reports whether any error in the chain is a SelectionError.
func IsSelection(err error) bool {
	var se *SelectionError
	return errors.As(err, &se)
}

// IsWrite reports whether any error in the chain is a WriteError.
func IsWrite(err error) bool {
	var we *WriteError
	return errors.As(err, &we)
}
