package submission

import "math"

// stepTolerance absorbs floating point error in the quotient.
const stepTolerance = 1e-9

// checkStep requires value == base + k*step for an integer k.
// Parameters are the step size and an optional base (default 0).
func checkStep(value any, args Args) error {
	step, ok := args.Number(0)
	if !ok || step <= 0 {
		return nil
	}
	base, ok := args.Number(1)
	if !ok {
		base = 0
	}

	v, ok := toNumber(value)
	if !ok {
		return ErrFailed
	}

	q := (v - base) / step
	if math.Abs(q-math.Round(q)) >= stepTolerance {
		return ErrFailed
	}
	return nil
}
