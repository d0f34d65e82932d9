package raster

import (
	"os"
)

// Driver is the backend capability surface the package depends on. A driver
// knows how to open existing rasters and allocate new single-band ones;
// codec internals stay behind it.
type Driver interface {
	Open(path string) (Dataset, error)
	Create(path string, widthPx, heightPx int, ptype PixelType) (OutputDataset, error)
}

// Dataset is an open backend raster, read-only.
type Dataset interface {
	// Size returns the pixel dimensions.
	Size() (widthPx, heightPx int)
	// Affine returns the GDAL-style six-element geotransform.
	Affine() ([6]float64, error)
	// Bands returns the band count.
	Bands() int
	// ReadBand fills dst (len w.XSize*w.YSize, row-major) from the given
	// 1-based band. The window is guaranteed in-bounds by the caller.
	ReadBand(band int, w Window, dst []int32) error
	Close() error
}

// OutputDataset is a freshly allocated backend raster being written.
// Flush makes all written data durable and may finalize the underlying
// resource; Close must be safe to call afterwards.
type OutputDataset interface {
	SetAffine(gt [6]float64) error
	SetNoData(v float64) error
	WriteBand(band int, w Window, src []int32) error
	Flush() error
	Close() error
}

// Raster owns an open source dataset. Open it once per processing pass and
// release it with Close on every exit path.
type Raster struct {
	path   string
	ds     Dataset
	extent Extent
	band   int
}

// Open opens the raster at path through drv and decodes its georeferencing.
// Returns an OpenError if the backend cannot open the file and a
// GeometryError if the raster is rotated or otherwise unsupported.
func Open(drv Driver, path string) (*Raster, error) {
	ds, err := drv.Open(path)
	if err != nil {
		return nil, &OpenError{Path: path, Err: err}
	}
	affine, err := ds.Affine()
	if err != nil {
		_ = ds.Close()
		return nil, &OpenError{Path: path, Err: err}
	}
	geo, err := GeoTransformFromAffine(affine)
	if err != nil {
		_ = ds.Close()
		return nil, err
	}
	w, h := ds.Size()
	return &Raster{
		path: path,
		ds:   ds,
		extent: Extent{
			WidthPx:  w,
			HeightPx: h,
			Geo:      geo,
		},
		band: 1,
	}, nil
}

// Path returns the path the raster was opened from.
func (r *Raster) Path() string {
	return r.path
}

// Extent returns the raster's pixel dimensions and georeferencing.
func (r *Raster) Extent() Extent {
	return r.extent
}

// Bands returns the band count of the underlying dataset.
func (r *Raster) Bands() int {
	return r.ds.Bands()
}

// SetBand selects the 1-based band index used by ReadWindow. Band 1 is the
// default.
func (r *Raster) SetBand(band int) error {
	if band < 1 || band > r.ds.Bands() {
		return &OpenError{Path: r.path, Err: errBandRange(band, r.ds.Bands())}
	}
	r.band = band
	return nil
}

// ReadWindow reads the window from the selected band into a fresh
// PixelArray. The window must be fully contained in the raster's pixel
// extent; out-of-bounds windows fail with WindowOutOfBoundsError, never a
// clamped result.
func (r *Raster) ReadWindow(w Window) (*PixelArray, error) {
	if !w.FitsIn(r.extent.WidthPx, r.extent.HeightPx) {
		return nil, &WindowOutOfBoundsError{
			Window:   w,
			WidthPx:  r.extent.WidthPx,
			HeightPx: r.extent.HeightPx,
		}
	}
	arr := NewPixelArray(w.XSize, w.YSize)
	if err := r.ds.ReadBand(r.band, w, arr.Data); err != nil {
		return nil, &OpenError{Path: r.path, Err: err}
	}
	return arr, nil
}

// Close releases the backend dataset.
func (r *Raster) Close() error {
	return r.ds.Close()
}

// OutputSpec describes a new output raster.
type OutputSpec struct {
	WidthPx   int
	HeightPx  int
	Geo       GeoTransform
	NoData    int32
	PixelType PixelType
}

// Output owns a backend raster being written. The intended sequence is
// Create, Write, Close; Discard removes the file if the write did not
// complete.
type Output struct {
	path    string
	ds      OutputDataset
	spec    OutputSpec
	written bool
	closed  bool
}

// Create allocates a new single-band raster file. Dimensions must be
// positive; failures surface as WriteError.
func Create(drv Driver, path string, spec OutputSpec) (*Output, error) {
	if spec.WidthPx <= 0 || spec.HeightPx <= 0 {
		return nil, &WriteError{Path: path, Err: errDimensions(spec.WidthPx, spec.HeightPx)}
	}
	ds, err := drv.Create(path, spec.WidthPx, spec.HeightPx, spec.PixelType)
	if err != nil {
		return nil, &WriteError{Path: path, Err: err}
	}
	if err := ds.SetAffine(spec.Geo.Affine()); err != nil {
		_ = ds.Close()
		return nil, &WriteError{Path: path, Err: err}
	}
	if err := ds.SetNoData(float64(spec.NoData)); err != nil {
		_ = ds.Close()
		return nil, &WriteError{Path: path, Err: err}
	}
	return &Output{path: path, ds: ds, spec: spec}, nil
}

// Path returns the output file path.
func (o *Output) Path() string {
	return o.path
}

// Write stores the full array into band 1 and flushes to durable storage
// before returning. Once Write returns, a subsequent reader sees either
// nothing or the complete band, never a partial write.
func (o *Output) Write(arr *PixelArray) error {
	if arr.Width != o.spec.WidthPx || arr.Height != o.spec.HeightPx {
		return &WriteError{Path: o.path, Err: errShape(arr.Width, arr.Height, o.spec.WidthPx, o.spec.HeightPx)}
	}
	full := Window{XSize: o.spec.WidthPx, YSize: o.spec.HeightPx}
	if err := o.ds.WriteBand(1, full, arr.Data); err != nil {
		return &WriteError{Path: o.path, Err: err}
	}
	if err := o.ds.Flush(); err != nil {
		return &WriteError{Path: o.path, Err: err}
	}
	o.written = true
	return nil
}

// Close finalizes the output. Safe to call after Write has flushed.
func (o *Output) Close() error {
	if o.closed {
		return nil
	}
	o.closed = true
	if err := o.ds.Close(); err != nil {
		return &WriteError{Path: o.path, Err: err}
	}
	return nil
}

// Discard closes the output and removes its file. Used on error and
// cancellation paths so no partially written file survives.
func (o *Output) Discard() error {
	_ = o.Close()
	if err := os.Remove(o.path); err != nil && !os.IsNotExist(err) {
		return &WriteError{Path: o.path, Err: err}
	}
	return nil
}
