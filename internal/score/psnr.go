// Package score rates embedding candidates by fidelity and recoverability.
package score

import "math"

const (
	// DisplayCeiling is the largest PSNR treated as finite.
	DisplayCeiling = 1038.0
	// Infinite replaces PSNR values above DisplayCeiling for display.
	Infinite = 999999.0

	peak2 = 255.0 * 255.0
	eps   = 1e-100
)

// PSNR returns the peak signal-to-noise ratio of two equally sized sample
// slices. Slices of different length yield 0.
func PSNR(a, b []uint8) float64 {
	if len(a) != len(b) {
		return 0
	}
	return fromMSE(sumSquares(a, b), len(a))
}

// PSNRPlanes is PSNR over every sample of all three planes.
func PSNRPlanes(a, b [3][]uint8) float64 {
	var (
		sum float64
		n   int
	)
	for i := range a {
		if len(a[i]) != len(b[i]) {
			return 0
		}
		sum += sumSquares(a[i], b[i])
		n += len(a[i])
	}
	return fromMSE(sum, n)
}

// Display substitutes Infinite for values above DisplayCeiling.
func Display(v float64) float64 {
	if v > DisplayCeiling {
		return Infinite
	}
	return v
}

func sumSquares(a, b []uint8) float64 {
	var sum float64
	for i := range a {
		d := float64(a[i]) - float64(b[i])
		sum += d * d
	}
	return sum
}

func fromMSE(sum float64, n int) float64 {
	mse := 0.0
	if n > 0 {
		mse = sum / float64(n)
	}
	return 10 * math.Log10(peak2/(mse+eps))
}
