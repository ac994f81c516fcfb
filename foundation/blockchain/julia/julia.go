// Package julia implements the proof of work puzzle. A solution is a point
// whose orbit under the iterated complex map z -> z^2 + c keeps its real
// part inside a corridor for a target number of steps and then escapes at
// exactly the step after. Verifying a candidate costs a fixed number of
// iterations while finding one is an unbounded randomized search, which is
// the asymmetry the puzzle's work property rests on.
package julia

import (
	"context"
	"errors"
	"math/rand"
)

// ErrLeftSetTooEarly is returned when the candidate's orbit escapes the
// corridor before the target iteration.
var ErrLeftSetTooEarly = errors.New("candidate left the set too early")

// ErrLeftSetTooLateOrNotAtAll is returned when the candidate's orbit is
// still inside the corridor after the target iteration.
var ErrLeftSetTooLateOrNotAtAll = errors.New("candidate left the set too late or not at all")

// CheckWork verifies the candidate escapes the corridor at exactly the
// iteration after targetIterations, neither earlier nor later. On success
// the candidate is returned unchanged. The cost is O(targetIterations).
func CheckWork(c complex128, reMin float64, reMax float64, candidate complex128, targetIterations uint16) (complex128, error) {
	current := candidate

	for iteration := 0; iteration <= int(targetIterations); iteration++ {
		current = current*current + c

		if re := real(current); re < reMin || re > reMax {
			if iteration == int(targetIterations) {
				return candidate, nil
			}
			return 0, ErrLeftSetTooEarly
		}
	}

	return 0, ErrLeftSetTooLateOrNotAtAll
}

// Check verifies a candidate against a full set of puzzle parameters.
func Check(p Params, candidate complex128) (complex128, error) {
	return CheckWork(p.C, p.ReMin, p.ReMax, candidate, p.TargetIterations)
}

// Solve searches for a solution by sampling the real part uniformly from
// the corridor and the imaginary part uniformly from [-1, 1] until a
// candidate checks out. There is no termination bound: the distribution of
// qualifying points can be sparse for some parameterizations, so callers
// that need bounded latency must supply a deadline on the context. Each
// call is pure and stateless given its own rand source, so any number of
// searches may run concurrently.
func Solve(ctx context.Context, p Params, rng *rand.Rand) (complex128, error) {
	for {
		if err := ctx.Err(); err != nil {
			return 0, err
		}

		candidate := complex(
			p.ReMin+rng.Float64()*(p.ReMax-p.ReMin),
			-1+2*rng.Float64(),
		)

		if found, err := Check(p, candidate); err == nil {
			return found, nil
		}
	}
}
