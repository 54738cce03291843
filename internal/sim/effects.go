package sim

import (
	"sync"
	"time"
)

const (
	RippleLifetime   = 2 * time.Second
	FragmentLifetime = 3 * time.Second
)

// Effect is one ripple or fragment popup as a host shows it.
type Effect struct {
	Fragment bool
	X, Y     float64
	Text     string
	Born     time.Time
}

func (e Effect) Lifetime() time.Duration {
	if e.Fragment {
		return FragmentLifetime
	}
	return RippleLifetime
}

// Progress runs from 0 when the effect appears to 1 when it expires.
func (e Effect) Progress(now time.Time) float64 {
	p := float64(now.Sub(e.Born)) / float64(e.Lifetime())
	return min(max(p, 0), 1)
}

// EffectLog is an EffectSink that keeps effects until their lifetime runs
// out, for hosts that draw them.
type EffectLog struct {
	mu    sync.Mutex
	clock Clock
	items []Effect
	last  string
	total int
}

func NewEffectLog(clock Clock) *EffectLog {
	if clock == nil {
		clock = SystemClock{}
	}
	return &EffectLog{clock: clock}
}

func (l *EffectLog) Ripple(x, y float64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.items = append(l.items, Effect{X: x, Y: y, Born: l.clock.Now()})
}

func (l *EffectLog) Fragment(x, y float64, text string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.items = append(l.items, Effect{Fragment: true, X: x, Y: y, Text: text, Born: l.clock.Now()})
	l.last = text
	l.total++
}

// Live drops expired effects and returns a copy of the rest.
func (l *EffectLog) Live() []Effect {
	l.mu.Lock()
	defer l.mu.Unlock()
	now := l.clock.Now()
	kept := l.items[:0]
	for _, e := range l.items {
		if now.Sub(e.Born) < e.Lifetime() {
			kept = append(kept, e)
		}
	}
	l.items = kept
	out := make([]Effect, len(kept))
	copy(out, kept)
	return out
}

// LastFragment is the text of the most recent fragment popup.
func (l *EffectLog) LastFragment() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.last
}

// FragmentsShown counts fragment popups, including ambient ones.
func (l *EffectLog) FragmentsShown() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.total
}
