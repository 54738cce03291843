package analysis

import (
	"errors"
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
)

var ErrShortSeries = errors.New("analysis: series needs at least 4 samples")

// PowerSpectrum returns the magnitude of the first half of the DFT of data
// with its mean removed, so bin 0 does not swamp the plot.
func PowerSpectrum(data []float64) []float64 {
	if len(data) == 0 {
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

// Spectrum summarises a series sampled once per frame.
type Spectrum struct {
	Power        []float64
	Bin          int
	FrequencyHz  float64
	PeriodFrames float64
}

// Analyze picks the strongest non-zero bin. A flat series reports bin 0 and
// a zero period.
func Analyze(series []float64, fps int) (Spectrum, error) {
	if len(series) < 4 {
		return Spectrum{}, ErrShortSeries
	}
	ps := PowerSpectrum(series)
	s := Spectrum{Power: ps}

	best := 0.0
	for i := 1; i < len(ps); i++ {
		if ps[i] > best {
			best = ps[i]
			s.Bin = i
		}
	}
	if s.Bin == 0 {
		return s, nil
	}
	n := float64(len(series))
	s.PeriodFrames = n / float64(s.Bin)
	s.FrequencyHz = float64(s.Bin) * float64(fps) / n
	return s, nil
}
