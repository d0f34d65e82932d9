// Package tile partitions a rectangular world extent into a covering grid of
// non-overlapping tiles.
package tile

import (
	"fmt"
	"math"

	"github.com/rotisserie/eris"
)

// Descriptor is one tile's world-space rectangle, relative to the extent
// origin. Offsets and sizes are in world units.
type Descriptor struct {
	XOff  float64
	YOff  float64
	XSize float64
	YSize float64
}

func (d Descriptor) String() string {
	return fmt.Sprintf("(xoff %g, yoff %g, %gx%g)", d.XOff, d.YOff, d.XSize, d.YSize)
}

// Grid describes a tiling of [0, xExtent) x [0, yExtent) into
// tileSize x tileSize tiles plus remainder tiles on the far x and y bands.
// Remainder tiles are extent mod tileSize and never zero-sized; an extent
// that is an exact multiple produces no remainder band.
type Grid struct {
	xExtent  float64
	yExtent  float64
	tileSize float64
}

// NewGrid validates the extent and tile size.
func NewGrid(xExtent, yExtent, tileSize float64) (*Grid, error) {
	if xExtent <= 0 || yExtent <= 0 {
		return nil, eris.Errorf("tile: extent %gx%g is not positive", xExtent, yExtent)
	}
	if tileSize <= 0 {
		return nil, eris.Errorf("tile: tile size %g is not positive", tileSize)
	}
	return &Grid{xExtent: xExtent, yExtent: yExtent, tileSize: tileSize}, nil
}

// Count returns the total number of tiles the grid produces.
func (g *Grid) Count() int {
	cols := int(math.Ceil(g.xExtent / g.tileSize))
	rows := int(math.Ceil(g.yExtent / g.tileSize))
	return cols * rows
}

// Tiles returns a fresh cursor over the grid. Enumeration is lazy,
// side-effect free, and restartable: each call starts a new pass.
//
// Order is x-major and is a contract: for each x band left to right, all y
// bands top to bottom. Downstream file naming is positional, so this order
// must stay deterministic across runs.
func (g *Grid) Tiles() *Cursor {
	return &Cursor{grid: g}
}

// Cursor walks a Grid's tiles in order.
type Cursor struct {
	grid *Grid
	x    float64
	y    float64
}

// Next returns the next descriptor, or false when the grid is exhausted.
func (c *Cursor) Next() (Descriptor, bool) {
	if c.x >= c.grid.xExtent {
		return Descriptor{}, false
	}
	d := Descriptor{
		XOff:  c.x,
		YOff:  c.y,
		XSize: math.Min(c.grid.tileSize, c.grid.xExtent-c.x),
		YSize: math.Min(c.grid.tileSize, c.grid.yExtent-c.y),
	}
	c.y += c.grid.tileSize
	if c.y >= c.grid.yExtent {
		c.y = 0
		c.x += c.grid.tileSize
	}
	return d, true
}

// Reset rewinds the cursor to the first tile.
func (c *Cursor) Reset() {
	c.x = 0
	c.y = 0
}
