// Package analysis finds periodic structure in per-frame run series.
//
// Clicking on a fixed cadence makes the particle count jump on every
// collect, so the dominant bin of the particle series recovers the click
// interval:
//
//	s, err := analysis.Analyze(series, 60)
//	if err == nil {
//		fmt.Printf("period: %.1f frames\n", s.PeriodFrames)
//	}
package analysis
