package analysis

import (
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
	"github.com/san-kum/arena/internal/dynamo"
)

// Series extracts one position component of one body from frames. axis is
// 0 for x and 1 for y.
func Series(frames []dynamo.Frame, body, axis int) []float64 {
	out := make([]float64, 0, len(frames))
	for _, fr := range frames {
		if body < len(fr.Bodies) {
			out = append(out, fr.Bodies[body].Position[axis])
		}
	}
	return out
}

// PowerSpectrum returns the magnitude of each frequency bin up to Nyquist
// after removing the mean.
func PowerSpectrum(data []float64) []float64 {
	if len(data) < 2 {
		return nil
	}

	mean := 0.0
	for _, v := range data {
		mean += v
	}
	mean /= float64(len(data))

	centered := make([]float64, len(data))
	for i, v := range data {
		centered[i] = v - mean
	}

	spectrum := fft.FFTReal(centered)
	ps := make([]float64, len(spectrum)/2)
	for i := range ps {
		ps[i] = cmplx.Abs(spectrum[i])
	}
	return ps
}

// DominantFrequency returns the frequency in Hz of the strongest non-zero
// bin and its magnitude. sampleDt is the time between samples.
func DominantFrequency(data []float64, sampleDt float64) (float64, float64) {
	ps := PowerSpectrum(data)
	if len(ps) < 2 || sampleDt <= 0 {
		return 0, 0
	}

	best := 1
	for k := 2; k < len(ps); k++ {
		if ps[k] > ps[best] {
			best = k
		}
	}
	return float64(best) / (float64(len(data)) * sampleDt), ps[best]
}
