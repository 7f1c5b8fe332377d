package optimize

import (
	"fmt"
	"log"
	"math"
)

var phi = (1 + math.Sqrt(5)) / 2

// #region golden-section
// GoldenSection minimizes f over [x0/Span, x0*Span].
// Both interior points are re-evaluated each iteration. When the iteration
// cap is reached the current midpoint is returned with Converged=false.
func GoldenSection(f Objective, x0 float64, cfg Config) (Result, error) {
	if math.IsNaN(x0) || math.IsInf(x0, 0) || x0 <= 0 {
		return Result{}, fmt.Errorf("golden section: start value must be positive and finite, got %g", x0)
	}
	if cfg.Span <= 1 {
		return Result{}, fmt.Errorf("golden section: span must be > 1, got %g", cfg.Span)
	}

	lo, hi := x0/cfg.Span, x0*cfg.Span
	upper := lo + (hi-lo)/phi
	lower := hi - (hi-lo)/phi

	iter := 0
	for math.Abs(hi-lo) > cfg.Tolerance {
		fu, err := f(upper)
		if err != nil {
			return Result{}, fmt.Errorf("objective at %g: %w", upper, err)
		}
		fl, err := f(lower)
		if err != nil {
			return Result{}, fmt.Errorf("objective at %g: %w", lower, err)
		}

		if fu < fl {
			lo = lower
		} else {
			hi = upper
		}
		upper = lo + (hi-lo)/phi
		lower = hi - (hi-lo)/phi

		iter++
		if iter > cfg.MaxIter {
			mid := (lo + hi) / 2
			log.Printf("golden section: no convergence after %d iterations, bracket [%g, %g], returning %g", cfg.MaxIter, lo, hi, mid)
			return Result{X: mid, Iterations: iter, Converged: false}, nil
		}
	}
	return Result{X: (lo + hi) / 2, Iterations: iter, Converged: true}, nil
}

// #endregion golden-section
