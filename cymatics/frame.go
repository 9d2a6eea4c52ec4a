package cymatics

import (
	"encoding/binary"
	"math"

	"github.com/pkg/errors"
)

// frameHeaderSize is the size of the binary frame header: t as float64 and the grid size.
const frameHeaderSize = 8 + 2

// Frame is one evaluation of the grid on a surface of Width×Height at time T.
type Frame struct {
	Width, Height int
	T             float64

	// lit points, row-major with the x index fastest, least significant bit first
	bits []byte
}

// Evaluate computes the lit points of the grid on a width×height surface at time t.
//
// Grid point (i, j) sits at (i·width/GridSize, j·height/GridSize); distances are measured from
// (width/2, height/2).
func Evaluate(p Params, width, height int, t float64) (*Frame, error) {
	if width <= 0 || height <= 0 {
		return nil, errors.Wrapf(ErrInvalidSurface, "%dx%d", width, height)
	}
	f := &Frame{
		Width:  width,
		Height: height,
		T:      t,
		bits:   make([]byte, GridSize*GridSize/8),
	}
	cx, cy := float64(width)/2, float64(height)/2
	for j := 0; j < GridSize; j++ {
		for i := 0; i < GridSize; i++ {
			x, y := f.Point(i, j)
			if Lit(p.Frequency, math.Hypot(x-cx, y-cy), t) {
				k := j*GridSize + i
				f.bits[k/8] |= 1 << (k % 8)
			}
		}
	}
	return f, nil
}

// Point returns the surface coordinates of grid point (i, j).
func (f *Frame) Point(i, j int) (x, y float64) {
	return float64(i) * float64(f.Width) / GridSize, float64(j) * float64(f.Height) / GridSize
}

// Lit reports whether grid point (i, j) is lit.
func (f *Frame) Lit(i, j int) bool {
	k := j*GridSize + i
	return f.bits[k/8]&(1<<(k%8)) != 0
}

// Count returns the number of lit points.
func (f *Frame) Count() int {
	n := 0
	for _, b := range f.bits {
		for ; b != 0; b &= b - 1 {
			n++
		}
	}
	return n
}

// MarshalBinary encodes the frame as t (little-endian float64), the grid size (little-endian
// uint16) and the lit bitset. The surface size is not part of the encoding.
func (f *Frame) MarshalBinary() ([]byte, error) {
	p := make([]byte, frameHeaderSize+len(f.bits))
	binary.LittleEndian.PutUint64(p[0:8], math.Float64bits(f.T))
	binary.LittleEndian.PutUint16(p[8:10], GridSize)
	copy(p[frameHeaderSize:], f.bits)
	return p, nil
}

// UnmarshalBinary decodes a frame encoded by MarshalBinary. Width and Height are left as they
// are.
func (f *Frame) UnmarshalBinary(p []byte) error {
	if len(p) != frameHeaderSize+GridSize*GridSize/8 {
		return errors.Errorf("cymatics: frame of %d bytes", len(p))
	}
	if size := binary.LittleEndian.Uint16(p[8:10]); size != GridSize {
		return errors.Errorf("cymatics: grid size %d, want %d", size, GridSize)
	}
	f.T = math.Float64frombits(binary.LittleEndian.Uint64(p[0:8]))
	f.bits = append(f.bits[:0], p[frameHeaderSize:]...)
	return nil
}
