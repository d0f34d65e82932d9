// Package stats computes class and band statistics over a window read from
// a raster. Reporting only; the tiling pipeline does not depend on it.
package stats

import (
	"sort"

	"github.com/sells-group/tilecut/internal/raster"
)

// ClassCount is the pixel tally for one class value.
type ClassCount struct {
	Code  int32
	Count int64
}

// Options controls aggregation.
type Options struct {
	// NoData, when HasNoData is set, excludes that value from the tally.
	NoData    int32
	HasNoData bool
}

// Summary aggregates one array: per-class counts plus overall band
// statistics over the counted pixels.
type Summary struct {
	Classes []ClassCount // sorted by code
	Total   int64        // counted pixels, nodata excluded
	NoData  int64        // excluded pixels
	Min     int32
	Max     int32
	Mean    float64
}

// Summarize tallies an array by class value.
func Summarize(arr *raster.PixelArray, opts Options) Summary {
	byCode := make(map[int32]int64)
	var total, nodata, sum int64
	var min, max int32

	for _, v := range arr.Data {
		if opts.HasNoData && v == opts.NoData {
			nodata++
			continue
		}
		if total == 0 || v < min {
			min = v
		}
		if total == 0 || v > max {
			max = v
		}
		total++
		sum += int64(v)
		byCode[v]++
	}

	classes := make([]ClassCount, 0, len(byCode))
	for code, count := range byCode {
		classes = append(classes, ClassCount{Code: code, Count: count})
	}
	sort.Slice(classes, func(i, j int) bool { return classes[i].Code < classes[j].Code })

	s := Summary{Classes: classes, Total: total, NoData: nodata, Min: min, Max: max}
	if total > 0 {
		s.Mean = float64(sum) / float64(total)
	}
	return s
}

// Share returns a class's fraction of counted pixels.
func (s Summary) Share(c ClassCount) float64 {
	if s.Total == 0 {
		return 0
	}
	return float64(c.Count) / float64(s.Total)
}
