// Package pipeline drives tile generation over a source raster, producing
// one independently georeferenced output file per tile.
package pipeline

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/tilecut/internal/raster"
	"github.com/sells-group/tilecut/internal/tile"
)

// Options configures a tiling run.
type Options struct {
	// TileSize is the tile edge length in world units.
	TileSize float64
	// Workers is the number of concurrent tile units. Values <= 1 run
	// strictly sequentially.
	Workers int
	// TileTimeout bounds a single tile's read+write. Zero means no timeout.
	// There is no whole-run timeout.
	TileTimeout time.Duration
	// NoData is the nodata marker stamped on every output.
	NoData int32
	// PixelType is the output sample encoding.
	PixelType raster.PixelType
	// Extension is the output filename extension, "tif" by default.
	Extension string
}

// Result describes one successfully written tile.
type Result struct {
	Index  int
	Path   string
	Desc   tile.Descriptor
	Window raster.Window
	Geo    raster.GeoTransform
}

// Recorder observes completed tiles, e.g. a manifest store. A Recorder
// failure fails the tile.
type Recorder interface {
	RecordTile(ctx context.Context, r Result) error
}

// TileError wraps a component error with the tile it belongs to, so a failed
// tile can be retried in isolation.
type TileError struct {
	Index int
	Desc  tile.Descriptor
	Err   error
}

func (e *TileError) Error() string {
	return fmt.Sprintf("pipeline: tile %d %s: %v", e.Index, e.Desc, e.Err)
}

func (e *TileError) Unwrap() error {
	return e.Err
}

// Pipeline cuts a source raster into tiles. The source is the only shared
// state between tiles; its reads are serialized because the backend is not
// assumed safe for concurrent reads.
type Pipeline struct {
	drv      raster.Driver
	src      *raster.Raster
	outDir   string
	opts     Options
	recorder Recorder
	readMu   sync.Mutex
	log      *zap.Logger
}

// New builds a pipeline writing tiles of src into outDir.
func New(drv raster.Driver, src *raster.Raster, outDir string, opts Options) *Pipeline {
	if opts.Extension == "" {
		opts.Extension = "tif"
	}
	return &Pipeline{
		drv:    drv,
		src:    src,
		outDir: outDir,
		opts:   opts,
		log: zap.L().With(
			zap.String("component", "pipeline"),
			zap.String("source", src.Path()),
		),
	}
}

// SetRecorder attaches a completed-tile observer.
func (p *Pipeline) SetRecorder(r Recorder) {
	p.recorder = r
}

// TilePath returns the output path for a tile index. Naming is purely
// positional and reproducible: re-running the same grid overwrites the same
// files.
func (p *Pipeline) TilePath(index int) string {
	return filepath.Join(p.outDir, fmt.Sprintf("tile_%d.%s", index, p.opts.Extension))
}

// Run executes the tiling pass. It fails fast: the first tile error aborts
// remaining tiles and is returned wrapped as a *TileError. Tiles completed
// before the failure stay durable; the failing tile leaves no partial file.
// There is no automatic retry.
//
// Indices are assigned from generator order before any work is dispatched,
// so output naming is deterministic regardless of worker completion order.
func (p *Pipeline) Run(ctx context.Context) ([]Result, error) {
	ext := p.src.Extent()
	grid, err := tile.NewGrid(ext.WorldWidth(), ext.WorldHeight(), p.opts.TileSize)
	if err != nil {
		return nil, err
	}

	count := grid.Count()
	p.log.Info("starting tiling run",
		zap.Int("tiles", count),
		zap.Float64("tile_size", p.opts.TileSize),
		zap.Int("workers", p.opts.Workers),
	)

	results := make([]Result, count)
	cursor := grid.Tiles()

	if p.opts.Workers <= 1 {
		idx := 0
		for {
			desc, ok := cursor.Next()
			if !ok {
				break
			}
			res, err := p.processTile(ctx, idx, desc)
			if err != nil {
				return results[:idx], err
			}
			results[idx] = res
			idx++
		}
		p.log.Info("tiling run complete", zap.Int("tiles", count))
		return results, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.opts.Workers)
	for idx := 0; ; idx++ {
		desc, ok := cursor.Next()
		if !ok {
			break
		}
		g.Go(func() error {
			res, err := p.processTile(gctx, idx, desc)
			if err != nil {
				return err
			}
			results[idx] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	p.log.Info("tiling run complete", zap.Int("tiles", count))
	return results, nil
}

// processTile runs the read-window-then-write unit for one tile. On any
// failure after output creation the partial file is discarded.
func (p *Pipeline) processTile(ctx context.Context, idx int, desc tile.Descriptor) (Result, error) {
	if p.opts.TileTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.opts.TileTimeout)
		defer cancel()
	}
	if err := ctx.Err(); err != nil {
		return Result{}, &TileError{Index: idx, Desc: desc, Err: err}
	}

	sel := raster.Selection{XOff: desc.XOff, YOff: desc.YOff, XSize: desc.XSize, YSize: desc.YSize}
	win, geo, err := sel.Resolve(p.src.Extent())
	if err != nil {
		return Result{}, &TileError{Index: idx, Desc: desc, Err: err}
	}

	p.readMu.Lock()
	arr, err := p.src.ReadWindow(win)
	p.readMu.Unlock()
	if err != nil {
		return Result{}, &TileError{Index: idx, Desc: desc, Err: err}
	}

	path := p.TilePath(idx)
	out, err := raster.Create(p.drv, path, raster.OutputSpec{
		WidthPx:   win.XSize,
		HeightPx:  win.YSize,
		Geo:       geo,
		NoData:    p.opts.NoData,
		PixelType: p.opts.PixelType,
	})
	if err != nil {
		return Result{}, &TileError{Index: idx, Desc: desc, Err: err}
	}
	if err := ctx.Err(); err != nil {
		_ = out.Discard()
		return Result{}, &TileError{Index: idx, Desc: desc, Err: err}
	}
	if err := out.Write(arr); err != nil {
		_ = out.Discard()
		return Result{}, &TileError{Index: idx, Desc: desc, Err: err}
	}
	if err := out.Close(); err != nil {
		_ = out.Discard()
		return Result{}, &TileError{Index: idx, Desc: desc, Err: err}
	}

	res := Result{Index: idx, Path: path, Desc: desc, Window: win, Geo: geo}
	if p.recorder != nil {
		if err := p.recorder.RecordTile(ctx, res); err != nil {
			return Result{}, &TileError{Index: idx, Desc: desc, Err: err}
		}
	}

	p.log.Debug("tile written",
		zap.Int("index", idx),
		zap.String("path", path),
		zap.Int("width_px", win.XSize),
		zap.Int("height_px", win.YSize),
	)
	return res, nil
}
