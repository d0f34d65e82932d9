package raster

import (
	"fmt"
	"strings"
)

// PixelArray is a dense row-major 2-D grid of int32 samples. A PixelArray
// returned by a read is owned by the caller and does not alias backend
// storage.
type PixelArray struct {
	Width  int
	Height int
	Data   []int32
}

// NewPixelArray allocates a zeroed array of the given shape.
func NewPixelArray(width, height int) *PixelArray {
	return &PixelArray{
		Width:  width,
		Height: height,
		Data:   make([]int32, width*height),
	}
}

// At returns the sample at (col, row).
func (a *PixelArray) At(col, row int) int32 {
	return a.Data[row*a.Width+col]
}

// Set stores a sample at (col, row).
func (a *PixelArray) Set(col, row int, v int32) {
	a.Data[row*a.Width+col] = v
}

// Fill sets every sample to v.
func (a *PixelArray) Fill(v int32) {
	for i := range a.Data {
		a.Data[i] = v
	}
}

// Clone returns a deep copy.
func (a *PixelArray) Clone() *PixelArray {
	out := NewPixelArray(a.Width, a.Height)
	copy(out.Data, a.Data)
	return out
}

// PixelType identifies the sample encoding of an output raster band.
type PixelType int

const (
	Byte PixelType = iota
	Int16
	UInt16
	Int32
	UInt32
	Float32
	Float64
)

var pixelTypeNames = map[PixelType]string{
	Byte:    "byte",
	Int16:   "int16",
	UInt16:  "uint16",
	Int32:   "int32",
	UInt32:  "uint32",
	Float32: "float32",
	Float64: "float64",
}

func (t PixelType) String() string {
	if name, ok := pixelTypeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("pixeltype(%d)", int(t))
}

// ParsePixelType parses a pixel type name as accepted on the command line.
func ParsePixelType(s string) (PixelType, error) {
	for t, name := range pixelTypeNames {
		if strings.EqualFold(s, name) {
			return t, nil
		}
	}
	return 0, fmt.Errorf("raster: unknown pixel type %q", s)
}
