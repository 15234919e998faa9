package watermark

import (
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/yyyoichi/watermark_dct/internal/dct"
)

const (
	// MinStrength is the floor applied to the rounded peak amplitude.
	MinStrength = 11
	ladderStep  = 10
)

// ChooseStrength scans the coefficient at raw of every block and returns raw
// with the strength max(round(peak |coef|), MinStrength) + base.
func ChooseStrength(cube *dct.Cube, raw, base int) (int, int) {
	peak := 0.0
	if col := cube.Column(raw); len(col) > 0 {
		peak = floats.Norm(col, math.Inf(1))
	}
	return raw, max(int(math.RoundToEven(peak)), MinStrength) + base
}

// Ladder returns t, t-10, t-20, ... while the value stays above 10. A t of
// 10 or less yields {t} alone.
func Ladder(t int) []int {
	if t <= ladderStep {
		return []int{t}
	}
	var ladder []int
	for v := t; v > ladderStep; v -= ladderStep {
		ladder = append(ladder, v)
	}
	return ladder
}
