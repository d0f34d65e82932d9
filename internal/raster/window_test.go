package raster

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testExtent(t *testing.T) Extent {
	t.Helper()
	gt, err := NewGeoTransform(500000, 4600000, 10)
	require.NoError(t, err)
	return Extent{WidthPx: 100, HeightPx: 100, Geo: gt}
}

func TestSelection_Resolve_ZeroMeansWholeRaster(t *testing.T) {
	ext := testExtent(t)

	win, geo, err := Selection{}.Resolve(ext)
	require.NoError(t, err)
	assert.Equal(t, ext.FullWindow(), win)
	assert.Equal(t, ext.Geo, geo)
}

func TestSelection_Resolve_Window(t *testing.T) {
	ext := testExtent(t)

	sel := Selection{XOff: 600, YOff: 400, XSize: 250, YSize: 300}
	win, geo, err := sel.Resolve(ext)
	require.NoError(t, err)
	assert.Equal(t, Window{XOff: 60, YOff: 40, XSize: 25, YSize: 30}, win)

	// Output origin moves east by the x offset and south by the y offset.
	assert.Equal(t, 500600.0, geo.OriginX)
	assert.Equal(t, 4599600.0, geo.OriginY)
	assert.Equal(t, ext.Geo.CellSize, geo.CellSize)
}

func TestSelection_Resolve_TruncatesSubPixel(t *testing.T) {
	ext := testExtent(t)

	// 9.9 world units is under one 10-unit cell: truncation drops it.
	sel := Selection{XOff: 9.9, YOff: 19.9, XSize: 105, YSize: 250}
	win, _, err := sel.Resolve(ext)
	require.NoError(t, err)
	assert.Equal(t, Window{XOff: 0, YOff: 1, XSize: 10, YSize: 25}, win)
}

func TestSelection_Resolve_Invalid(t *testing.T) {
	ext := testExtent(t)

	tests := []struct {
		name string
		sel  Selection
	}{
		{"sub-cell size", Selection{XSize: 5, YSize: 5}},
		{"zero x size", Selection{XOff: 10, XSize: 0, YSize: 100}},
		{"negative offset", Selection{XOff: -10, XSize: 100, YSize: 100}},
		{"past x extent", Selection{XOff: 900, XSize: 200, YSize: 100}},
		{"past y extent", Selection{YOff: 950, XSize: 100, YSize: 100}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := tt.sel.Resolve(ext)
			require.Error(t, err)
			assert.True(t, IsSelection(err))
		})
	}
}
