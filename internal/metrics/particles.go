package metrics

import "github.com/san-kum/portalsim/internal/sim"

// PeakParticles tracks the largest live particle population seen.
type PeakParticles struct {
	peak int
}

func NewPeakParticles() *PeakParticles { return &PeakParticles{} }

func (p *PeakParticles) Name() string { return "peak_particles" }

func (p *PeakParticles) Observe(s sim.FrameStats) {
	if s.Particles > p.peak {
		p.peak = s.Particles
	}
}

func (p *PeakParticles) Value() float64 { return float64(p.peak) }
func (p *PeakParticles) Reset()         { p.peak = 0 }

// MeanParticles is the average live population over observed frames.
type MeanParticles struct {
	sum     float64
	samples int
}

func NewMeanParticles() *MeanParticles { return &MeanParticles{} }

func (m *MeanParticles) Name() string { return "mean_particles" }

func (m *MeanParticles) Observe(s sim.FrameStats) {
	m.sum += float64(s.Particles)
	m.samples++
}

func (m *MeanParticles) Value() float64 {
	if m.samples == 0 {
		return 0
	}
	return m.sum / float64(m.samples)
}

func (m *MeanParticles) Reset() {
	m.sum = 0
	m.samples = 0
}
