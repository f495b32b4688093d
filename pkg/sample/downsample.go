package sample

// DownsampleSamples decimates samples to at most maxPoints for drawing.
// The first and the newest sample are always kept so the trace spans the
// whole window. dst is reused when it has enough capacity.
func DownsampleSamples(dst []Sample, samples []Sample, maxPoints int) []Sample {
	if maxPoints <= 0 {
		return dst[:0]
	}
	if len(samples) <= maxPoints {
		if cap(dst) < len(samples) {
			dst = make([]Sample, len(samples))
		}
		dst = dst[:len(samples)]
		copy(dst, samples)
		return dst
	}

	if cap(dst) < maxPoints {
		dst = make([]Sample, 0, maxPoints)
	}
	dst = dst[:0]

	step := float64(len(samples)) / float64(maxPoints)
	for i := 0; i < maxPoints; i++ {
		dst = append(dst, samples[int(float64(i)*step)])
	}
	dst[maxPoints-1] = samples[len(samples)-1]

	return dst
}
