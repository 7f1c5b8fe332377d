package check

// #region check-config
// Config holds design rule limits.
type Config struct {
	VbrDerating    float64 // reject if switch voltage stress exceeds this fraction of vbr
	MaxTemperature float64 // reject if a predicted part temperature exceeds this, degC
	MinEfficiency  float64 // reject below this; 0 makes the efficiency check informational
}

// DefaultConfig returns the usual derating rules for board-level converters.
func DefaultConfig() Config {
	return Config{
		VbrDerating:    0.8,
		MaxTemperature: 125,
	}
}

// #endregion check-config

// #region metric
// Metric captures a single check result.
type Metric struct {
	Name  string
	Value float64
	Pass  bool
}

// #endregion metric

// #region result
// Result is the output of a design check.
type Result struct {
	Passed  bool
	Metrics []Metric
	Reason  string
}

// #endregion result
