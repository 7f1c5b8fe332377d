package sweep

import (
	"errors"
	"fmt"
	"log"
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/danielpatrickdp/power-toys/internal/circuit"
	"github.com/danielpatrickdp/power-toys/internal/component"
)

// #region spans
// Span returns n evenly spaced values from lo to hi inclusive.
func Span(lo, hi float64, n int) ([]float64, error) {
	if n < 2 {
		return nil, fmt.Errorf("span: need at least 2 points, got %d", n)
	}
	return floats.Span(make([]float64, n), lo, hi), nil
}

// LogSpan returns n logarithmically spaced values from lo to hi inclusive.
func LogSpan(lo, hi float64, n int) ([]float64, error) {
	if n < 2 {
		return nil, fmt.Errorf("log span: need at least 2 points, got %d", n)
	}
	if lo <= 0 || hi <= 0 {
		return nil, fmt.Errorf("log span: bounds must be positive, got [%g, %g]", lo, hi)
	}
	return floats.LogSpan(make([]float64, n), lo, hi), nil
}

// #endregion spans

// #region sweep
// Frequency evaluates base at every switching frequency in freqs.
func Frequency(base circuit.Circuit, freqs []float64) (Result, error) {
	return run(base, AxisFs, freqs, base.WithFs)
}

// Power evaluates base at every output power in powers.
func Power(base circuit.Circuit, powers []float64) (Result, error) {
	return run(base, AxisPo, powers, base.WithPo)
}

func run(base circuit.Circuit, axis Axis, xs []float64, at func(float64) (circuit.Circuit, error)) (Result, error) {
	res := Result{Topology: base.Name(), Axis: axis}
	roles := base.Roles()
	for _, r := range roles {
		res.Roles = append(res.Roles, base.RoleName(r))
	}

	for _, x := range xs {
		p := Point{X: x, Status: StatusOK}
		c, err := at(x)
		if err == nil {
			err = evaluate(c, roles, &p)
		}
		switch {
		case err == nil:
		case errors.Is(err, component.ErrSaturated):
			p = Point{X: x, Status: StatusSaturated, Reason: err.Error()}
			log.Printf("sweep %s: %s=%g saturated", res.Topology, axis, x)
		case errors.Is(err, circuit.ErrInvalidTopology):
			p = Point{X: x, Status: StatusInvalid, Reason: err.Error()}
			log.Printf("sweep %s: %s=%g invalid: %v", res.Topology, axis, x, err)
		default:
			return Result{}, fmt.Errorf("sweep %s at %s=%g: %w", res.Topology, axis, x, err)
		}
		res.Points = append(res.Points, p)
	}
	return res, nil
}

func evaluate(c circuit.Circuit, roles []component.Role, p *Point) error {
	p.RoleLoss = make([]float64, len(roles))
	for i, r := range roles {
		comp, ok := c.Component(r)
		if !ok {
			continue
		}
		v, err := c.LossOnComponent(comp)
		if err != nil {
			return err
		}
		p.RoleLoss[i] = v
	}
	var err error
	if p.TotalLoss, err = c.TotalLoss(); err != nil {
		return err
	}
	p.Efficiency, err = c.Efficiency()
	return err
}

// #endregion sweep

// #region best
// Best returns the ok point with the lowest total loss.
func (r Result) Best() (Point, bool) {
	best, found := Point{TotalLoss: math.Inf(1)}, false
	for _, p := range r.Points {
		if p.Status == StatusOK && p.TotalLoss < best.TotalLoss {
			best, found = p, true
		}
	}
	return best, found
}

// #endregion best
