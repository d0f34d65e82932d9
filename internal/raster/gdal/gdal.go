// Package gdal adapts the godal bindings to the raster backend surface.
// This is the only package that imports godal; everything above it stays
// backend-agnostic.
package gdal

import (
	"sync"

	"github.com/airbusgeo/godal"
	"github.com/rotisserie/eris"

	"github.com/sells-group/tilecut/internal/raster"
)

var registerOnce sync.Once

// Driver opens and creates rasters through GDAL. Format selects the output
// driver; sources are opened with GDAL's own format detection.
type Driver struct {
	Format godal.DriverName
}

// New returns a Driver writing the given GDAL format ("GTiff" by default).
func New(format string) Driver {
	if format == "" {
		format = string(godal.GTiff)
	}
	return Driver{Format: godal.DriverName(format)}
}

func register() {
	registerOnce.Do(godal.RegisterAll)
}

// Open implements raster.Driver.
func (d Driver) Open(path string) (raster.Dataset, error) {
	register()
	ds, err := godal.Open(path)
	if err != nil {
		return nil, eris.Wrapf(err, "gdal: open %s", path)
	}
	return &dataset{ds: ds}, nil
}

// Create implements raster.Driver.
func (d Driver) Create(path string, widthPx, heightPx int, ptype raster.PixelType) (raster.OutputDataset, error) {
	register()
	dtype, err := dataType(ptype)
	if err != nil {
		return nil, err
	}
	ds, err := godal.Create(d.Format, path, 1, dtype, widthPx, heightPx)
	if err != nil {
		return nil, eris.Wrapf(err, "gdal: create %s", path)
	}
	return &output{ds: ds}, nil
}

func dataType(ptype raster.PixelType) (godal.DataType, error) {
	switch ptype {
	case raster.Byte:
		return godal.Byte, nil
	case raster.Int16:
		return godal.Int16, nil
	case raster.UInt16:
		return godal.UInt16, nil
	case raster.Int32:
		return godal.Int32, nil
	case raster.UInt32:
		return godal.UInt32, nil
	case raster.Float32:
		return godal.Float32, nil
	case raster.Float64:
		return godal.Float64, nil
	}
	return 0, eris.Errorf("gdal: unsupported pixel type %s", ptype)
}

type dataset struct {
	ds *godal.Dataset
}

func (d *dataset) Size() (int, int) {
	st := d.ds.Structure()
	return st.SizeX, st.SizeY
}

func (d *dataset) Affine() ([6]float64, error) {
	gt, err := d.ds.GeoTransform()
	if err != nil {
		return [6]float64{}, eris.Wrap(err, "gdal: geotransform")
	}
	return gt, nil
}

func (d *dataset) Bands() int {
	return d.ds.Structure().NBands
}

func (d *dataset) ReadBand(band int, w raster.Window, dst []int32) error {
	bands := d.ds.Bands()
	if band < 1 || band > len(bands) {
		return eris.Errorf("gdal: band %d out of range [1, %d]", band, len(bands))
	}
	if err := bands[band-1].Read(w.XOff, w.YOff, dst, w.XSize, w.YSize); err != nil {
		return eris.Wrapf(err, "gdal: read window %s", w)
	}
	return nil
}

func (d *dataset) Close() error {
	return d.ds.Close()
}

type output struct {
	ds     *godal.Dataset
	closed bool
}

func (o *output) SetAffine(gt [6]float64) error {
	return o.ds.SetGeoTransform(gt)
}

func (o *output) SetNoData(v float64) error {
	return o.ds.SetNoData(v)
}

func (o *output) WriteBand(band int, w raster.Window, src []int32) error {
	bands := o.ds.Bands()
	if band < 1 || band > len(bands) {
		return eris.Errorf("gdal: band %d out of range [1, %d]", band, len(bands))
	}
	return bands[band-1].Write(w.XOff, w.YOff, src, w.XSize, w.YSize)
}

// Flush closes the dataset, which forces GDAL to flush its block cache to
// disk. The subsequent Close is a no-op.
func (o *output) Flush() error {
	if o.closed {
		return nil
	}
	o.closed = true
	return o.ds.Close()
}

func (o *output) Close() error {
	if o.closed {
		return nil
	}
	o.closed = true
	return o.ds.Close()
}
