package dct

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// DCT is an orthonormal type-II discrete cosine transform over square
// size x size patches.
type DCT struct {
	size  int
	basis *mat.Dense
}

func New(size int) *DCT {
	dct := &DCT{size: size}

	n := float64(size)
	// row k of the basis holds the k-th cosine vector
	phi := make([]float64, size*size)
	for j := range size {
		// k = 0
		phi[j] = 1.0 / math.Sqrt(n)
	}
	for k := 1; k < size; k++ {
		for j := range size {
			phi[k*size+j] = math.Sqrt(2.0/n) *
				math.Cos(
					(float64(k)*math.Pi*(float64(j)*2+1))/
						(2.0*n),
				)
		}
	}
	dct.basis = mat.NewDense(size, size, phi)
	return dct
}

// Size returns the patch edge length.
func (dct *DCT) Size() int { return dct.size }

// Exec transforms one row-major patch into dst.
func (dct *DCT) Exec(dst, src []float64) {
	var tmp mat.Dense
	tmp.Mul(dct.basis, mat.NewDense(dct.size, dct.size, src))
	mat.NewDense(dct.size, dct.size, dst).Mul(&tmp, dct.basis.T())
}

// Inverse transforms one row-major coefficient patch back into dst.
func (dct *DCT) Inverse(dst, src []float64) {
	var tmp mat.Dense
	tmp.Mul(dct.basis.T(), mat.NewDense(dct.size, dct.size, src))
	mat.NewDense(dct.size, dct.size, dst).Mul(&tmp, dct.basis)
}

// Forward pads plane (row-major, width x height) to a multiple of the patch
// size by edge replication, splits it into patches and transforms each one.
func (dct *DCT) Forward(plane []float64, width, height int) *Cube {
	size := dct.size
	cube := NewCube(ceilDiv(height, size), ceilDiv(width, size), size)
	patch := make([]float64, size*size)
	for r := range cube.Rows {
		for c := range cube.Cols {
			for y := range size {
				sy := min(r*size+y, height-1)
				for x := range size {
					sx := min(c*size+x, width-1)
					patch[y*size+x] = plane[sy*width+sx]
				}
			}
			dct.Exec(cube.Block(r*cube.Cols+c), patch)
		}
	}
	return cube
}

// Backward inverts every patch of cube, fuses the patches, rounds half to
// even, clamps to [0,255] and crops the result to width x height.
func (dct *DCT) Backward(cube *Cube, width, height int) []uint8 {
	size := dct.size
	out := make([]uint8, width*height)
	patch := make([]float64, size*size)
	for r := range cube.Rows {
		for c := range cube.Cols {
			dct.Inverse(patch, cube.Block(r*cube.Cols+c))
			for y := range size {
				oy := r*size + y
				if oy >= height {
					break
				}
				for x := range size {
					ox := c*size + x
					if ox >= width {
						break
					}
					out[oy*width+ox] = clip8(patch[y*size+x])
				}
			}
		}
	}
	return out
}

func clip8(v float64) uint8 {
	v = math.RoundToEven(v)
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}

func ceilDiv(a, b int) int {
	return (a + b - 1) / b
}
