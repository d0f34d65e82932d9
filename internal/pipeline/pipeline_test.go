package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/tilecut/internal/raster"
)

// newSource seeds a 100x100 px raster with cell size 10 (1000x1000 world
// units) whose pixel (col, row) holds col + row*1000.
func newSource(t *testing.T) (*raster.MemoryDriver, *raster.Raster) {
	t.Helper()
	drv := raster.NewMemoryDriver()
	gt, err := raster.NewGeoTransform(500000, 4600000, 10)
	require.NoError(t, err)

	data := make([]int32, 100*100)
	for row := 0; row < 100; row++ {
		for col := 0; col < 100; col++ {
			data[row*100+col] = int32(col + row*1000)
		}
	}
	drv.AddRaster("src.tif", 100, 100, gt, data)

	src, err := raster.Open(drv, "src.tif")
	require.NoError(t, err)
	t.Cleanup(func() { _ = src.Close() })
	return drv, src
}

func runPipeline(t *testing.T, workers int) (*raster.MemoryDriver, []Result) {
	t.Helper()
	drv, src := newSource(t)
	p := New(drv, src, "out", Options{
		TileSize:  600,
		Workers:   workers,
		NoData:    -1,
		PixelType: raster.Int32,
	})
	results, err := p.Run(context.Background())
	require.NoError(t, err)
	return drv, results
}

func TestPipeline_EndToEnd(t *testing.T) {
	drv, results := runPipeline(t, 1)
	require.Len(t, results, 4)

	// 1000/600 splits into a 600 band and a 400 remainder on each axis,
	// x-major order, so the pixel shapes are fixed.
	wantShapes := [][2]int{{60, 60}, {60, 40}, {40, 60}, {40, 40}}
	wantOrigins := [][2]float64{
		{500000, 4600000},
		{500000, 4599400},
		{500600, 4600000},
		{500600, 4599400},
	}
	for i, res := range results {
		assert.Equal(t, i, res.Index)
		assert.Equal(t, fmt.Sprintf("out/tile_%d.tif", i), res.Path)
		assert.Equal(t, wantShapes[i][0], res.Window.XSize)
		assert.Equal(t, wantShapes[i][1], res.Window.YSize)

		tile, err := raster.Open(drv, res.Path)
		require.NoError(t, err)
		ext := tile.Extent()
		assert.Equal(t, wantOrigins[i][0], ext.Geo.OriginX, "tile %d origin x", i)
		assert.Equal(t, wantOrigins[i][1], ext.Geo.OriginY, "tile %d origin y", i)

		// Each tile holds exactly the source window it was cut from.
		arr, err := tile.ReadWindow(ext.FullWindow())
		require.NoError(t, err)
		assert.Equal(t, int32(res.Window.XOff+res.Window.YOff*1000), arr.At(0, 0))
		require.NoError(t, tile.Close())
	}
}

func TestPipeline_ParallelMatchesSequential(t *testing.T) {
	_, seq := runPipeline(t, 1)
	_, par := runPipeline(t, 4)
	assert.Equal(t, seq, par)
}

// failingDriver fails creation of output paths containing a marker.
type failingDriver struct {
	raster.Driver
	failOn string
}

func (d *failingDriver) Create(path string, widthPx, heightPx int, ptype raster.PixelType) (raster.OutputDataset, error) {
	if strings.Contains(path, d.failOn) {
		return nil, errors.New("disk full")
	}
	return d.Driver.Create(path, widthPx, heightPx, ptype)
}

func TestPipeline_FailFast(t *testing.T) {
	drv, src := newSource(t)
	p := New(&failingDriver{Driver: drv, failOn: "tile_2"}, src, "out", Options{
		TileSize: 600,
		NoData:   -1,
	})

	_, err := p.Run(context.Background())
	require.Error(t, err)

	// The failure carries the tile's index and descriptor.
	var te *TileError
	require.ErrorAs(t, err, &te)
	assert.Equal(t, 2, te.Index)
	assert.Equal(t, 600.0, te.Desc.XOff)

	// Tiles completed before the failure stay durable; nothing was written
	// for the failing tile or anything after it.
	assert.True(t, drv.Exists("out/tile_0.tif"))
	assert.True(t, drv.Exists("out/tile_1.tif"))
	assert.False(t, drv.Exists("out/tile_2.tif"))
	assert.False(t, drv.Exists("out/tile_3.tif"))
}

func TestPipeline_Canceled(t *testing.T) {
	drv, src := newSource(t)
	p := New(drv, src, "out", Options{TileSize: 600})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := p.Run(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, drv.Exists("out/tile_0.tif"))
}

type countingRecorder struct {
	indices []int
}

func (r *countingRecorder) RecordTile(_ context.Context, res Result) error {
	r.indices = append(r.indices, res.Index)
	return nil
}

func TestPipeline_Recorder(t *testing.T) {
	drv, src := newSource(t)
	p := New(drv, src, "out", Options{TileSize: 600})

	rec := &countingRecorder{}
	p.SetRecorder(rec)

	results, err := p.Run(context.Background())
	require.NoError(t, err)
	require.Len(t, results, 4)
	assert.Equal(t, []int{0, 1, 2, 3}, rec.indices)
}

func TestPipeline_InvalidTileSize(t *testing.T) {
	drv, src := newSource(t)
	p := New(drv, src, "out", Options{TileSize: 0})
	_, err := p.Run(context.Background())
	require.Error(t, err)
	assert.False(t, drv.Exists("out/tile_0.tif"))
}
