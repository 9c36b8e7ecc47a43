package force

import "math"

// QuietDetector is the stop condition of the layout loop: an energy-plateau
// detector, not a gradient test. It watches the change in total force
// between consecutive iterations and reports quiescence once that change
// stays below Threshold for Limit consecutive observations.
type QuietDetector struct {
	Threshold float64
	Limit     int

	count int
	prev  float64
}

// Observe feeds one iteration's total force and reports whether the loop
// should stop. The previous total is only advanced when the loop continues.
func (q *QuietDetector) Observe(total float64) bool {
	if math.Abs(total-q.prev) < q.Threshold {
		q.count++
	} else {
		q.count = 0
	}
	if q.count >= q.Limit {
		return true
	}
	q.prev = total
	return false
}

// Quiet returns the current run-length of quiet iterations.
func (q *QuietDetector) Quiet() int { return q.count }
