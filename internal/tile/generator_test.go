package tile

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func collect(c *Cursor) []Descriptor {
	var out []Descriptor
	for {
		d, ok := c.Next()
		if !ok {
			return out
		}
		out = append(out, d)
	}
}

func TestNewGrid_Invalid(t *testing.T) {
	_, err := NewGrid(0, 40, 25)
	require.Error(t, err)
	_, err = NewGrid(60, -1, 25)
	require.Error(t, err)
	_, err = NewGrid(60, 40, 0)
	require.Error(t, err)
}

func TestGrid_Order(t *testing.T) {
	grid, err := NewGrid(60, 40, 25)
	require.NoError(t, err)

	// x-major: each x band left to right, all y bands top to bottom.
	want := []Descriptor{
		{0, 0, 25, 25},
		{0, 25, 25, 15},
		{25, 0, 25, 25},
		{25, 25, 25, 15},
		{50, 0, 10, 25},
		{50, 25, 10, 15},
	}
	assert.Equal(t, want, collect(grid.Tiles()))
	assert.Equal(t, 6, grid.Count())
}

func TestGrid_ExactMultiple_NoRemainder(t *testing.T) {
	grid, err := NewGrid(50, 50, 25)
	require.NoError(t, err)

	tiles := collect(grid.Tiles())
	require.Len(t, tiles, 4)
	assert.Equal(t, grid.Count(), len(tiles))
	for _, d := range tiles {
		assert.Equal(t, 25.0, d.XSize)
		assert.Equal(t, 25.0, d.YSize)
	}
}

func TestGrid_SingleTile(t *testing.T) {
	grid, err := NewGrid(10, 10, 25)
	require.NoError(t, err)

	tiles := collect(grid.Tiles())
	require.Len(t, tiles, 1)
	assert.Equal(t, Descriptor{0, 0, 10, 10}, tiles[0])
}

func TestGrid_Coverage(t *testing.T) {
	cases := []struct{ x, y, size float64 }{
		{60, 40, 25},
		{1000, 1000, 600},
		{100, 100, 100},
		{7, 3, 2},
	}
	for _, tc := range cases {
		grid, err := NewGrid(tc.x, tc.y, tc.size)
		require.NoError(t, err)
		tiles := collect(grid.Tiles())
		assert.Len(t, tiles, grid.Count())

		var area float64
		for i, d := range tiles {
			// Every tile sits inside the extent with a size in (0, tileSize].
			assert.GreaterOrEqual(t, d.XOff, 0.0)
			assert.GreaterOrEqual(t, d.YOff, 0.0)
			assert.Greater(t, d.XSize, 0.0)
			assert.Greater(t, d.YSize, 0.0)
			assert.LessOrEqual(t, d.XSize, tc.size)
			assert.LessOrEqual(t, d.YSize, tc.size)
			assert.LessOrEqual(t, d.XOff+d.XSize, tc.x)
			assert.LessOrEqual(t, d.YOff+d.YSize, tc.y)

			// Undersized tiles appear only on the far bands.
			if d.XSize < tc.size {
				assert.Equal(t, tc.x, d.XOff+d.XSize, "tile %d: short x tile not on far band", i)
			}
			if d.YSize < tc.size {
				assert.Equal(t, tc.y, d.YOff+d.YSize, "tile %d: short y tile not on far band", i)
			}

			// No overlaps: descriptors are distinct grid cells.
			for j := 0; j < i; j++ {
				o := tiles[j]
				disjoint := d.XOff >= o.XOff+o.XSize || o.XOff >= d.XOff+d.XSize ||
					d.YOff >= o.YOff+o.YSize || o.YOff >= d.YOff+d.YSize
				assert.True(t, disjoint, "tiles %d and %d overlap", i, j)
			}

			area += d.XSize * d.YSize
		}
		// Disjoint tiles inside the extent whose areas sum to the extent's
		// area cover it exactly.
		assert.InDelta(t, tc.x*tc.y, area, 1e-9)
	}
}

func TestCursor_Restartable(t *testing.T) {
	grid, err := NewGrid(60, 40, 25)
	require.NoError(t, err)

	first := collect(grid.Tiles())
	second := collect(grid.Tiles())
	assert.Equal(t, first, second)

	c := grid.Tiles()
	_, ok := c.Next()
	require.True(t, ok)
	c.Reset()
	assert.Equal(t, first, collect(c))
}
