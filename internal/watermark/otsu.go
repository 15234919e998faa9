package watermark

// Otsu returns the threshold that maximizes the between-class variance of
// the 8-bit samples. Samples above the threshold belong to the foreground.
// A single-valued input yields 0.
func Otsu(samples []uint8) uint8 {
	if len(samples) == 0 {
		return 0
	}
	var hist [256]float64
	for _, v := range samples {
		hist[v]++
	}
	n := float64(len(samples))
	mu := 0.0
	for i, h := range hist {
		hist[i] = h / n
		mu += float64(i) * hist[i]
	}

	const eps = 1.19209290e-07
	var (
		q1, mu1  float64
		best     uint8
		maxSigma float64
	)
	for i := range 256 {
		p := hist[i]
		if p > 0 {
			mu1 = (mu1*q1 + float64(i)*p) / (q1 + p)
			q1 += p
		}
		q2 := 1 - q1
		if min(q1, q2) < eps || max(q1, q2) > 1-eps {
			continue
		}
		mu2 := (mu - q1*mu1) / q2
		sigma := q1 * q2 * (mu1 - mu2) * (mu1 - mu2)
		if sigma > maxSigma {
			maxSigma = sigma
			best = uint8(i)
		}
	}
	return best
}
