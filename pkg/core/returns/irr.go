package returns

import "math"

// IRRTolerance is the absolute NPV tolerance accepted for a converged IRR.
const IRRTolerance = 1e-2

// Bisection bracket for the IRR search. Rates below -99.99% or above
// 1000% are not meaningful underwriting answers.
const (
	irrBracketLow  = -0.9999
	irrBracketHigh = 10.0
	irrMaxIter     = 200
)

// NPV computes the net present value of a cash-flow series at the given
// discount rate, with flows[0] at time zero. An empty series has NPV 0;
// a zero rate sums the flows.
func NPV(rate float64, flows []float64) float64 {
	var total float64
	for t, cf := range flows {
		total += cf / math.Pow(1.0+rate, float64(t))
	}
	return total
}

// IRR solves NPV(r, flows) = 0 by bracketed bisection. It returns nil for
// an empty series or a series with no sign change: "no applicable IRR" is
// a valid business answer, not an error.
//
// Bisection is derivative-free, so pathological near-flat NPV curves
// cannot diverge the way Newton iterations can; the worst case is simply
// the full iteration budget. When the wide bracket endpoints agree in NPV
// sign (possible with multiple sign changes in the series), a coarse grid
// scan locates an interior sub-bracket before giving up.
func IRR(flows []float64) *float64 {
	if len(flows) == 0 {
		return nil
	}
	hasPos, hasNeg := false, false
	for _, cf := range flows {
		if cf > 0 {
			hasPos = true
		}
		if cf < 0 {
			hasNeg = true
		}
	}
	if !hasPos || !hasNeg {
		return nil
	}

	low, high := irrBracketLow, irrBracketHigh
	npvLow, npvHigh := NPV(low, flows), NPV(high, flows)
	if math.Abs(npvLow) < IRRTolerance {
		return &low
	}
	if math.Abs(npvHigh) < IRRTolerance {
		return &high
	}
	if npvLow*npvHigh > 0 {
		var ok bool
		low, high, npvLow, ok = scanForBracket(flows)
		if !ok {
			return nil
		}
	}

	mid := 0.0
	for i := 0; i < irrMaxIter; i++ {
		mid = (low + high) / 2.0
		npvMid := NPV(mid, flows)
		if math.Abs(npvMid) < IRRTolerance {
			return &mid
		}
		if npvLow*npvMid < 0 {
			high = mid
		} else {
			low = mid
			npvLow = npvMid
		}
	}
	// Interval has collapsed; accept the midpoint if it meets tolerance.
	if math.Abs(NPV(mid, flows)) < IRRTolerance {
		return &mid
	}
	return nil
}

// scanForBracket walks a coarse rate grid looking for an NPV sign change.
func scanForBracket(flows []float64) (low, high, npvLow float64, ok bool) {
	const step = 0.05
	prevRate := irrBracketLow
	prevNPV := NPV(prevRate, flows)
	for rate := irrBracketLow + step; rate <= irrBracketHigh; rate += step {
		cur := NPV(rate, flows)
		if prevNPV*cur <= 0 {
			return prevRate, rate, prevNPV, true
		}
		prevRate, prevNPV = rate, cur
	}
	return 0, 0, 0, false
}
