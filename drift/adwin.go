package drift

import "math"

// adwinMaxBucketsPerRow is the exponential histogram's row capacity (M in
// the ADWIN paper): once a row holds this many buckets plus one, the two
// oldest are merged into a bucket in the next row up.
const adwinMaxBucketsPerRow = 5

// bucket holds up to adwinMaxBucketsPerRow+1 compressed sub-windows at a
// single exponential-histogram row; each sub-window stores its element count
// implicitly (2^row) alongside its running total and variance contribution.
type bucket struct {
	total      [adwinMaxBucketsPerRow + 1]float64
	variance   [adwinMaxBucketsPerRow + 1]float64
	currentIdx int
}

func (b *bucket) insert(total, variance float64) {
	b.total[b.currentIdx] = total
	b.variance[b.currentIdx] = variance
	b.currentIdx++
}

// compress drops the oldest n sub-windows, shifting the rest down.
func (b *bucket) compress(n int) {
	for i := n; i <= adwinMaxBucketsPerRow; i++ {
		b.total[i-n] = b.total[i]
		b.variance[i-n] = b.variance[i]
	}
	for i := adwinMaxBucketsPerRow - n + 1; i <= adwinMaxBucketsPerRow; i++ {
		b.total[i] = 0.0
		b.variance[i] = 0.0
	}
	b.currentIdx -= n
}

// adaptiveWindowing is ADWIN's exponential-histogram window: a variable-size
// window of recent observations, compressed geometrically so memory stays
// O(log W) in the window width W, with a change test run every Clock
// insertions.
type adaptiveWindowing struct {
	Delta           float64
	Clock           int
	MinWindowLength int
	GracePeriod     int

	rows     []*bucket
	total    float64
	variance float64
	width    int
	tick     int
}

func newAdaptiveWindowing(delta float64, clock, minWindowLength, gracePeriod int) *adaptiveWindowing {
	return &adaptiveWindowing{
		Delta:           delta,
		Clock:           clock,
		MinWindowLength: minWindowLength,
		GracePeriod:     gracePeriod,
		rows:            []*bucket{{}},
	}
}

func bucketSize(row int) int { return 1 << uint(row) }

func (w *adaptiveWindowing) compressBuckets() {
	idx := 0
	for idx < len(w.rows) {
		row := w.rows[idx]
		if row.currentIdx != adwinMaxBucketsPerRow+1 {
			break
		}
		var next *bucket
		if idx+1 < len(w.rows) {
			next = w.rows[idx+1]
		} else {
			next = &bucket{}
			w.rows = append(w.rows, next)
		}
		n1 := bucketSize(idx)
		n2 := bucketSize(idx)
		mu1 := row.total[0] / float64(n1)
		mu2 := row.total[1] / float64(n2)

		total12 := row.total[0] + row.total[1]
		temp := float64(n1*n2) * (mu1 - mu2) * (mu1 - mu2) / float64(n1+n2)
		v12 := row.variance[0] + row.variance[1] + temp
		next.insert(total12, v12)
		row.compress(2)

		if next.currentIdx <= adwinMaxBucketsPerRow {
			break
		}
		idx++
	}
}

func (w *adaptiveWindowing) insertElement(value float64) {
	row := w.rows[0]
	row.insert(value, 0.0)

	w.width++
	incrementVariance := 0.0
	if w.width > 1 {
		d := value - w.total/float64(w.width-1)
		incrementVariance = float64(w.width-1) * d * d / float64(w.width)
	}
	w.variance += incrementVariance
	w.total += value

	w.compressBuckets()
}

func (w *adaptiveWindowing) deleteElement() int {
	last := len(w.rows) - 1
	row := w.rows[last]
	n := bucketSize(last)
	u := row.total[0]
	mu := u / float64(n)
	v := row.variance[0]

	w.width -= n
	w.total -= u
	muWindow := w.total / float64(w.width)
	incrementVariance := v + float64(n*w.width)*(mu-muWindow)*(mu-muWindow)/float64(n+w.width)
	w.variance -= incrementVariance

	row.compress(1)

	if row.currentIdx == 0 {
		w.rows = w.rows[:last]
	}

	return n
}

func (w *adaptiveWindowing) evaluateCut(n0, n1, deltaMean, delta float64) bool {
	deltaPrime := math.Log(2 * math.Log(float64(w.width)) / delta)
	mRecip := 1.0/(n0-float64(w.MinWindowLength)+1) + 1.0/(n1-float64(w.MinWindowLength)+1)
	epsilon := math.Sqrt(2*mRecip*w.variance/float64(w.width)*deltaPrime) + 2.0/3.0*deltaPrime*mRecip
	return math.Abs(deltaMean) > epsilon
}

// detectChange runs the (possibly repeated) cut search across every
// sub-window boundary, oldest row to newest, shrinking the window from the
// tail whenever a cut passes the bound test.
func (w *adaptiveWindowing) detectChange() bool {
	changeDetected := false

	if w.tick++; w.tick%w.Clock == 0 && w.width > w.GracePeriod {
		reduceWidth := true
		for reduceWidth {
			reduceWidth = false
			exitFlag := false
			n0, n1 := 0.0, float64(w.width)
			u0, u1 := 0.0, w.total
			v0, v1 := 0.0, w.variance

			for idx := len(w.rows) - 1; idx >= 0 && !exitFlag; idx-- {
				row := w.rows[idx]
				for k := 0; k < row.currentIdx; k++ {
					n2 := float64(bucketSize(idx))
					u2 := row.total[k]
					mu2 := u2 / n2

					if n0 > 0 {
						mu0 := u0 / n0
						v0 += row.variance[k] + n0*n2*(mu0-mu2)*(mu0-mu2)/(n0+n2)
					}
					if n1 > 0 {
						mu1 := u1 / n1
						v1 += row.variance[k] + n1*n2*(mu1-mu2)*(mu1-mu2)/(n1+n2)
					}

					n0 += n2
					n1 -= n2
					u0 += u2
					u1 -= u2

					if idx == 0 && k == row.currentIdx-1 {
						exitFlag = true
						break
					}

					deltaMean := u0/n0 - u1/n1
					if n1 >= float64(w.MinWindowLength) && n0 >= float64(w.MinWindowLength) &&
						w.evaluateCut(n0, n1, deltaMean, w.Delta) {
						reduceWidth = true
						changeDetected = true
						if w.width > 0 {
							n0 -= float64(w.deleteElement())
							exitFlag = true
							break
						}
					}
				}
			}
		}
	}

	return changeDetected
}

func (w *adaptiveWindowing) update(value float64) bool {
	w.insertElement(value)
	return w.detectChange()
}

// ADWIN (ADaptive WINdowing, Bifet & Gavalda 2007) maintains a variable-size
// window over the stream and flags a drift whenever it finds two sub-windows
// whose means differ by more than can be explained by a Hoeffding-style
// concentration bound, shrinking the window to drop the stale sub-window
// when that happens.
type ADWIN struct {
	Delta           float64
	Clock           int
	MinWindowLength int
	GracePeriod     int

	window   *adaptiveWindowing
	detected bool
}

// NewADWIN returns an ADWIN detector, matching the source defaults
// (delta=0.002, clock=32, min window length=5, grace period=10).
func NewADWIN(delta float64, clock, minWindowLength, gracePeriod int) *ADWIN {
	a := &ADWIN{Delta: delta, Clock: clock, MinWindowLength: minWindowLength, GracePeriod: gracePeriod}
	a.reset()
	return a
}

func (a *ADWIN) reset() {
	a.detected = false
	a.window = newAdaptiveWindowing(a.Delta, a.Clock, a.MinWindowLength, a.GracePeriod)
}

// Update folds x into the detector.
func (a *ADWIN) Update(x float64) {
	if a.detected {
		a.reset()
	}
	a.detected = a.window.update(x)
}

// DriftDetected reports whether the most recent Update flagged a drift.
func (a *ADWIN) DriftDetected() bool { return a.detected }
