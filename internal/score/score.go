package score

import "math"

// Weights scale each term of the total score.
type Weights struct {
	Recovered        float64
	Mark             float64
	Imperceptibility float64
	Filter           float64
}

func DefaultWeights() Weights {
	return Weights{Recovered: 5, Mark: 3, Imperceptibility: 1, Filter: 1}
}

// Candidate carries the measurements of one embedding candidate.
type Candidate struct {
	// Imperceptibility is the PSNR of the watermarked image against the host.
	Imperceptibility float64
	// Recovered is the PSNR of the recovered image against the host.
	Recovered float64
	// Mark is the PSNR of the recovered watermark against the embedded one.
	Mark float64
	// Bias is the filter constant the candidate was embedded under.
	Bias uint8
}

var psnrSteps = []float64{20, 40, 50, 60, 75, 90, 100}

// ScorePSNR scores a PSNR value. Below 20 dB it is a flat penalty; every
// step reached adds its rank plus trunc(v - round(v/10)), all scaled by m.
func ScorePSNR(v, m float64) float64 {
	if v < psnrSteps[0] {
		return -20 * m
	}
	term := math.Trunc(v - math.RoundToEven(v/10))
	score := 0.0
	for k, step := range psnrSteps {
		if v >= step {
			score += float64(k+1)*m + term*m
		}
	}
	return score
}

// Filter scores a filter by its bias value: 0 earns a bonus, larger biases
// collect stacked penalties.
func Filter(bias uint8, m float64) float64 {
	score := 0.0
	if bias == 0 {
		score += 3 * m
	}
	if bias > 1 {
		score -= m
	}
	if bias >= 8 {
		score -= 2 * m
	}
	if bias >= 16 {
		score -= 3 * m
	}
	return score
}

// Mark penalizes a poorly recovered watermark.
func Mark(v, m float64) float64 {
	score := 0.0
	if v < 5 {
		score -= 30 * m
	}
	if v < 8 {
		score -= 15 * m
	}
	if v < 10 {
		score -= 10 * m
	}
	return score
}

// Total is the weighted sum of the four terms of c.
func Total(c Candidate, w Weights) float64 {
	return ScorePSNR(c.Imperceptibility, w.Imperceptibility) +
		ScorePSNR(c.Recovered, w.Recovered) +
		Filter(c.Bias, w.Filter) +
		Mark(c.Mark, w.Mark)
}

// PickBest returns the index of the highest scoring candidate. Ties keep the
// earliest one. An empty list yields -1.
func PickBest(cs []Candidate, w Weights) int {
	if len(cs) == 0 {
		return -1
	}
	best, bestScore := 0, Total(cs[0], w)
	for i := 1; i < len(cs); i++ {
		if s := Total(cs[i], w); s > bestScore {
			best, bestScore = i, s
		}
	}
	return best
}
