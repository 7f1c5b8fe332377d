package check

import (
	"context"
	"fmt"
	"strings"

	"github.com/danielpatrickdp/power-toys/internal/circuit"
	"github.com/danielpatrickdp/power-toys/internal/component"
)

// #region harness
// stressor is implemented by circuits that know switch blocking voltages.
type stressor interface {
	VoltageStress(role component.Role) (float64, error)
}

// Harness runs design rule checks on a populated circuit.
type Harness struct {
	config Config
}

// NewHarness creates a harness with the given limits.
func NewHarness(config Config) *Harness {
	return &Harness{config: config}
}

// Run checks every registered component and the overall efficiency.
// A check that cannot be evaluated counts as failed.
func (h *Harness) Run(ctx context.Context, c circuit.Circuit) Result {
	r := &run{}

	for _, role := range c.Roles() {
		comp, ok := c.Component(role)
		if !ok {
			r.fail(metricName(c, role, "present"), 0, fmt.Sprintf("%s is empty", c.RoleName(role)))
			continue
		}
		switch part := comp.(type) {
		case *component.Switch:
			h.checkSwitch(r, c, role, part)
		case *component.Inductor:
			h.checkInductor(ctx, r, c, role, part)
		}
	}

	eff, err := c.Efficiency()
	switch {
	case err != nil:
		r.fail("efficiency", 0, fmt.Sprintf("efficiency: %v", err))
	case h.config.MinEfficiency > 0:
		r.add("efficiency", eff, eff >= h.config.MinEfficiency,
			fmt.Sprintf("efficiency %.4f below %.4f", eff, h.config.MinEfficiency))
	default:
		// informational only
		r.metrics = append(r.metrics, Metric{Name: "efficiency", Value: eff, Pass: true})
	}

	return r.result()
}

func (h *Harness) checkSwitch(r *run, c circuit.Circuit, role component.Role, sw *component.Switch) {
	if err := sw.Validate(); err != nil {
		r.fail(metricName(c, role, "params"), 0, err.Error())
	} else {
		r.metrics = append(r.metrics, Metric{Name: metricName(c, role, "params"), Value: 1, Pass: true})
	}

	st, ok := c.(stressor)
	if !ok {
		return
	}
	name := metricName(c, role, "vbr_usage")
	vbr, ok := sw.Get(component.Vbr)
	if !ok || vbr <= 0 {
		r.fail(name, 0, fmt.Sprintf("%s: vbr unknown", sw.ID()))
		return
	}
	v, err := st.VoltageStress(role)
	if err != nil {
		r.fail(name, 0, err.Error())
		return
	}
	usage := v / vbr
	r.add(name, usage, usage <= h.config.VbrDerating,
		fmt.Sprintf("%s: %.1fV stress is %.0f%% of vbr %.0fV", sw.ID(), v, usage*100, vbr))
}

func (h *Harness) checkInductor(ctx context.Context, r *run, c circuit.Circuit, role component.Role, ind *component.Inductor) {
	op, err := ind.Operating(ctx)
	if err != nil {
		r.fail(metricName(c, role, "operating"), 0, err.Error())
		return
	}
	r.add(metricName(c, role, "isat_usage"), op.Peak()/ind.Isat(), !op.Saturated,
		fmt.Sprintf("%s: peak %.2fA exceeds isat %.2fA", ind.ID(), op.Peak(), ind.Isat()))
	if op.Saturated {
		return
	}
	r.add(metricName(c, role, "temperature"), op.Temperature, op.Temperature <= h.config.MaxTemperature,
		fmt.Sprintf("%s: %.1fC exceeds %.1fC", ind.ID(), op.Temperature, h.config.MaxTemperature))
}

// #endregion harness

// #region run
type run struct {
	metrics []Metric
	reasons []string
}

func (r *run) add(name string, value float64, pass bool, reason string) {
	r.metrics = append(r.metrics, Metric{Name: name, Value: value, Pass: pass})
	if !pass {
		r.reasons = append(r.reasons, reason)
	}
}

func (r *run) fail(name string, value float64, reason string) {
	r.add(name, value, false, reason)
}

func (r *run) result() Result {
	if len(r.reasons) == 0 {
		return Result{Passed: true, Metrics: r.metrics, Reason: "all checks passed"}
	}
	reason := fmt.Sprintf("check failed: %s", r.reasons[0])
	if len(r.reasons) > 1 {
		reason = fmt.Sprintf("check failed: %d checks: %s", len(r.reasons), r.reasons[0])
	}
	return Result{Passed: false, Metrics: r.metrics, Reason: reason}
}

// #endregion run

// #region helpers
func metricName(c circuit.Circuit, role component.Role, what string) string {
	return strings.ReplaceAll(c.RoleName(role), " ", "_") + "_" + what
}

// #endregion helpers
