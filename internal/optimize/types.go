package optimize

import "errors"

// #region errors
// ErrNotConverged reports that a search hit its iteration cap before the
// bracket narrowed below tolerance.
var ErrNotConverged = errors.New("golden section: not converged")

// #endregion errors

// #region config
// Objective is the scalar function being minimized.
type Objective func(x float64) (float64, error)

// Config holds the bracket and stopping rules of a search.
type Config struct {
	Span      float64 // bracket is [x0/Span, x0*Span]
	Tolerance float64 // absolute bracket width
	MaxIter   int
}

// DefaultConfig returns the bracket and limits used by every optimizer in the repo.
func DefaultConfig() Config {
	return Config{
		Span:      100,
		Tolerance: 1e-6,
		MaxIter:   100,
	}
}

// #endregion config

// #region result
// Result is the outcome of one search.
type Result struct {
	X          float64 // bracket midpoint
	Iterations int
	Converged  bool
}

// Err returns ErrNotConverged when the search stopped at the iteration cap.
func (r Result) Err() error {
	if r.Converged {
		return nil
	}
	return ErrNotConverged
}

// #endregion result
