package optimize

import (
	"errors"
	"math"
	"testing"
)

func quadratic(min float64) Objective {
	return func(x float64) (float64, error) {
		return (x - min) * (x - min), nil
	}
}

func TestGoldenSection_Quadratic(t *testing.T) {
	res, err := GoldenSection(quadratic(3.7), 1, DefaultConfig())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !res.Converged {
		t.Fatalf("expected convergence, stopped after %d iterations", res.Iterations)
	}
	if math.Abs(res.X-3.7) > 1e-5 {
		t.Errorf("expected minimizer 3.7, got %g", res.X)
	}
	if res.Err() != nil {
		t.Errorf("converged result should have nil Err, got %v", res.Err())
	}
}

func TestGoldenSection_StartScaleInvariant(t *testing.T) {
	// x0/100 <= 2.5 <= x0*100 holds for every start value below.
	starts := []float64{0.05, 0.5, 2.5, 40, 200}
	var first float64
	for i, x0 := range starts {
		res, err := GoldenSection(quadratic(2.5), x0, DefaultConfig())
		if err != nil {
			t.Fatalf("x0=%g: unexpected error: %v", x0, err)
		}
		if i == 0 {
			first = res.X
			continue
		}
		if math.Abs(res.X-first) > 1e-5 {
			t.Errorf("x0=%g: minimizer %g differs from %g", x0, res.X, first)
		}
	}
}

func TestGoldenSection_AsymmetricUnimodal(t *testing.T) {
	// a/x + b*x has its minimum at sqrt(a/b); shape of a switch loss vs parallel count
	a, b := 0.07, 0.29
	f := func(x float64) (float64, error) { return a/x + b*x, nil }
	res, err := GoldenSection(f, 1, DefaultConfig())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := math.Sqrt(a / b)
	if math.Abs(res.X-want) > 1e-5 {
		t.Errorf("expected %g, got %g", want, res.X)
	}
}

func TestGoldenSection_NonConvergenceFlagged(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxIter = 5

	res, err := GoldenSection(quadratic(1e4), 1e4, cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Converged {
		t.Fatal("expected non-converged result")
	}
	if !errors.Is(res.Err(), ErrNotConverged) {
		t.Errorf("expected ErrNotConverged, got %v", res.Err())
	}
	if res.X <= 1e2 || res.X >= 1e6 {
		t.Errorf("midpoint %g outside initial bracket", res.X)
	}
}

func TestGoldenSection_ObjectiveError(t *testing.T) {
	boom := errors.New("boom")
	f := func(x float64) (float64, error) { return 0, boom }

	_, err := GoldenSection(f, 1, DefaultConfig())
	if !errors.Is(err, boom) {
		t.Fatalf("expected wrapped objective error, got %v", err)
	}
}

func TestGoldenSection_InvalidStart(t *testing.T) {
	for _, x0 := range []float64{0, -1, math.NaN(), math.Inf(1)} {
		if _, err := GoldenSection(quadratic(1), x0, DefaultConfig()); err == nil {
			t.Errorf("x0=%g: expected error", x0)
		}
	}
}
