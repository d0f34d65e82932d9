package raster

import (
	"fmt"
	"sync"
)

// MemoryDriver is a pure-Go backend keyed by path. It mirrors the durability
// contract of a file backend: a created raster becomes visible to Open only
// once Flush has completed, and an abandoned output leaves nothing behind.
// Used by tests and synthetic-raster generation.
type MemoryDriver struct {
	mu    sync.Mutex
	files map[string]*memFile
}

type memFile struct {
	widthPx  int
	heightPx int
	affine   [6]float64
	nodata   float64
	ptype    PixelType
	data     []int32
}

// NewMemoryDriver returns an empty in-memory backend.
func NewMemoryDriver() *MemoryDriver {
	return &MemoryDriver{files: make(map[string]*memFile)}
}

// AddRaster seeds a source raster at path with the given data (row-major,
// len widthPx*heightPx).
func (d *MemoryDriver) AddRaster(path string, widthPx, heightPx int, geo GeoTransform, data []int32) {
	f := &memFile{
		widthPx:  widthPx,
		heightPx: heightPx,
		affine:   geo.Affine(),
		ptype:    Int32,
		data:     make([]int32, widthPx*heightPx),
	}
	copy(f.data, data)
	d.mu.Lock()
	d.files[path] = f
	d.mu.Unlock()
}

// Exists reports whether a flushed raster is visible at path.
func (d *MemoryDriver) Exists(path string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	_, ok := d.files[path]
	return ok
}

// NoData returns the nodata marker recorded for the raster at path.
func (d *MemoryDriver) NoData(path string) (float64, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	f, ok := d.files[path]
	if !ok {
		return 0, false
	}
	return f.nodata, true
}

// Open implements Driver.
func (d *MemoryDriver) Open(path string) (Dataset, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	f, ok := d.files[path]
	if !ok {
		return nil, fmt.Errorf("no such raster %q", path)
	}
	return &memDataset{file: f}, nil
}

// Create implements Driver. The new raster is staged privately and only
// published into the driver on Flush.
func (d *MemoryDriver) Create(path string, widthPx, heightPx int, ptype PixelType) (OutputDataset, error) {
	return &memOutput{
		driver: d,
		path:   path,
		file: &memFile{
			widthPx:  widthPx,
			heightPx: heightPx,
			ptype:    ptype,
			data:     make([]int32, widthPx*heightPx),
		},
	}, nil
}

type memDataset struct {
	file *memFile
}

func (m *memDataset) Size() (int, int) {
	return m.file.widthPx, m.file.heightPx
}

func (m *memDataset) Affine() ([6]float64, error) {
	return m.file.affine, nil
}

func (m *memDataset) Bands() int {
	return 1
}

func (m *memDataset) ReadBand(band int, w Window, dst []int32) error {
	if band != 1 {
		return fmt.Errorf("band %d out of range", band)
	}
	for row := 0; row < w.YSize; row++ {
		src := (w.YOff+row)*m.file.widthPx + w.XOff
		copy(dst[row*w.XSize:(row+1)*w.XSize], m.file.data[src:src+w.XSize])
	}
	return nil
}

func (m *memDataset) Close() error {
	return nil
}

type memOutput struct {
	driver  *MemoryDriver
	path    string
	file    *memFile
	flushed bool
}

func (m *memOutput) SetAffine(gt [6]float64) error {
	m.file.affine = gt
	return nil
}

func (m *memOutput) SetNoData(v float64) error {
	m.file.nodata = v
	return nil
}

func (m *memOutput) WriteBand(band int, w Window, src []int32) error {
	if band != 1 {
		return fmt.Errorf("band %d out of range", band)
	}
	for row := 0; row < w.YSize; row++ {
		dst := (w.YOff+row)*m.file.widthPx + w.XOff
		copy(m.file.data[dst:dst+w.XSize], src[row*w.XSize:(row+1)*w.XSize])
	}
	return nil
}

func (m *memOutput) Flush() error {
	m.driver.mu.Lock()
	m.driver.files[m.path] = m.file
	m.driver.mu.Unlock()
	m.flushed = true
	return nil
}

func (m *memOutput) Close() error {
	return nil
}
