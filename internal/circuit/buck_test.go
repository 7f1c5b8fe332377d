package circuit

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/danielpatrickdp/power-toys/internal/component"
)

// #region fixtures
// fitPredictor reproduces the surrogate of a 10uH molded inductor around 200kHz.
type fitPredictor struct{ calls int }

func (p *fitPredictor) Predict(_ context.Context, q component.Query) (component.Prediction, error) {
	p.calls++
	return component.Prediction{
		DCLoss:      1.3765,
		ACLoss:      0.3242928 * math.Pow(q.Frequency/200e3, -3.1417),
		Temperature: 25 + 18*(1.3765+0.3242928),
	}, nil
}

func testSwitch() *component.Switch {
	return component.NewSwitch("BSC026N08NS5", map[component.SwitchParam]float64{
		component.Rdson: 2.6e-3, component.Vbr: 80, component.Vgsth: 3.0, component.Rg: 1.3,
		component.Qg: 61e-9, component.Qgd: 15.57e-9, component.QgSoft: 40e-9,
		component.Cosse: 700e-12, component.Cosst: 1100e-12, component.Qrr: 94e-9,
		component.Qgs2: 6.15e-9, component.Vplateau: 4.5, component.Kdyn: 1.0, component.Ktemp: 1.3,
		component.Vgs: 10, component.VgsMin: 0,
	}, "SuperSO8")
}

func testInductor(p component.LossPredictor, isat float64) *component.Inductor {
	return component.NewInductor(component.InductorSpec{
		ID: "XGL6060-103", Inductance: 10e-6, Isat: isat,
		Length: 6.56e-3, Width: 6.36e-3, Height: 6.1e-3, DCR: 12.5e-3,
	}, p)
}

func testBuck(t *testing.T) *Buck {
	t.Helper()
	b, err := NewBuck(
		BuckConfig{Vin: 48, Vo: 12, Po: 110, Fs: 100e3, Ncell: 2},
		testSwitch(), testSwitch(), testInductor(&fitPredictor{}, 20),
	)
	if err != nil {
		t.Fatalf("new buck: %v", err)
	}
	return b
}

func near(a, b, tol float64) bool { return math.Abs(a-b) <= tol }

func lossOf(t *testing.T, c Circuit, role component.Role, name component.LossName) float64 {
	t.Helper()
	comp, ok := c.Component(role)
	if !ok {
		t.Fatalf("no component in %s", c.RoleName(role))
	}
	v, err := c.LossBy(comp, name)
	if err != nil {
		t.Fatalf("loss %s on %s: %v", name, c.RoleName(role), err)
	}
	return v
}

// #endregion fixtures

// #region derived
func TestBuck_DerivedQuantities(t *testing.T) {
	b := testBuck(t)
	if b.Duty() != 0.25 {
		t.Errorf("duty: expected 0.25, got %g", b.Duty())
	}
	if b.DutyEff() != 0.5 {
		t.Errorf("duty eff: expected 0.5, got %g", b.DutyEff())
	}
	if !near(b.VoltSec(), 3e-5, 1e-18) {
		t.Errorf("volt sec: expected 3e-5, got %g", b.VoltSec())
	}
	r, err := b.Ripple()
	if err != nil {
		t.Fatalf("ripple: %v", err)
	}
	if !near(r, 3, 1e-9) {
		t.Errorf("ripple: expected 3A, got %g", r)
	}
	if !near(b.Ro(), 144.0/110, 1e-12) {
		t.Errorf("ro: expected %g, got %g", 144.0/110, b.Ro())
	}
	if fs, _ := b.Param(BuckInductor, component.ParamFs); fs != 200e3 {
		t.Errorf("inductor sees interleaved frequency, expected 200kHz got %g", fs)
	}
}

func TestBuck_PoFromRo(t *testing.T) {
	b, err := NewBuck(
		BuckConfig{Vin: 48, Vo: 12, Ro: 1.44, Fs: 100e3, Ncell: 1},
		testSwitch(), testSwitch(), testInductor(&fitPredictor{}, 20),
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !near(b.Po(), 100, 1e-9) {
		t.Errorf("po: expected 100, got %g", b.Po())
	}
}

// #endregion derived

// #region losses
func TestBuck_LossBreakdown(t *testing.T) {
	b := testBuck(t)

	if v := lossOf(t, b, ActiveSwitch, component.LossConduction); !near(v, 0.14327444, 1e-6) {
		t.Errorf("active con: got %g", v)
	}
	if v := lossOf(t, b, PassiveSwitch, component.LossConduction); !near(v, 0.4298233, 1e-6) {
		t.Errorf("passive con: got %g", v)
	}

	combined := func(name component.LossName) float64 {
		return lossOf(t, b, ActiveSwitch, name) + lossOf(t, b, PassiveSwitch, name)
	}
	cases := []struct {
		name component.LossName
		want float64
		tol  float64
	}{
		{component.LossQrr, 0.4512, 1e-9},
		{component.LossSwitchOn, 0.1615, 1e-4},
		{component.LossSwitchOff, 0.2481, 1e-4},
		{component.LossCapacitive, 0.08064, 1e-9},
		{component.LossDrive, 0.244, 1e-9},
	}
	for _, tc := range cases {
		if got := combined(tc.name); !near(got, tc.want, tc.tol) {
			t.Errorf("%s: expected %g, got %g", tc.name, tc.want, got)
		}
	}

	// soft-switched passive switch and diode-free active switch
	if v := lossOf(t, b, PassiveSwitch, component.LossSwitchOn); v != 0 {
		t.Errorf("passive on loss should be zero, got %g", v)
	}
	if v := lossOf(t, b, ActiveSwitch, component.LossQrr); v != 0 {
		t.Errorf("active qrr loss should be zero, got %g", v)
	}

	active, _ := b.Component(ActiveSwitch)
	sum, err := b.LossOnComponent(active)
	if err != nil {
		t.Fatalf("loss on component: %v", err)
	}
	if !near(sum, 0.71515, 2e-4) {
		t.Errorf("active switch sum: expected ~0.71515, got %g", sum)
	}

	bd, err := b.LossBreakdown(active)
	if err != nil {
		t.Fatalf("breakdown: %v", err)
	}
	if len(bd) != 6 || !near(bd[component.LossConduction]*2, 0.14327444, 1e-6) {
		t.Errorf("breakdown holds unscaled per-device losses, got %v", bd)
	}
}

func TestBuck_TotalLossAndEfficiency(t *testing.T) {
	b := testBuck(t)
	total, err := b.TotalLoss()
	if err != nil {
		t.Fatalf("total: %v", err)
	}
	if !near(total, 3.459242, 1e-5) {
		t.Errorf("total: expected 3.459242, got %g", total)
	}
	eff, err := b.Efficiency()
	if err != nil {
		t.Fatalf("efficiency: %v", err)
	}
	if eff != b.Po()/(b.Po()+total) {
		t.Errorf("efficiency %g is not po/(po+total)", eff)
	}
}

func TestBuck_IdempotentRegistration(t *testing.T) {
	b := testBuck(t)
	before, err := b.TotalLoss()
	if err != nil {
		t.Fatalf("total: %v", err)
	}
	for _, role := range []component.Role{ActiveSwitch, PassiveSwitch, BuckInductor} {
		c, _ := b.Component(role)
		if err := b.Register(c, role, c.Quantity()); err != nil {
			t.Fatalf("re-register %s: %v", b.RoleName(role), err)
		}
	}
	after, _ := b.TotalLoss()
	if before != after {
		t.Errorf("re-registration changed total loss: %g -> %g", before, after)
	}
	if n := len(b.Components()); n != 3 {
		t.Errorf("expected 3 components, got %d", n)
	}
}

func TestBuck_RegisterReplacesSlot(t *testing.T) {
	b := testBuck(t)
	old, _ := b.Component(ActiveSwitch)
	repl, _ := testSwitch().Parallel(2)

	if err := b.Register(repl, ActiveSwitch, 1); err != nil {
		t.Fatalf("register: %v", err)
	}
	got, _ := b.Component(ActiveSwitch)
	if got != component.Component(repl) {
		t.Error("slot not overwritten")
	}
	if old.Role() != component.Unassigned {
		t.Errorf("replaced component should be unassigned, has role %d", old.Role())
	}
	if n := len(b.Components()); n != 3 {
		t.Errorf("stale entry not pruned: %d components", n)
	}
	if _, err := b.LossBy(old, component.LossConduction); err == nil {
		t.Error("expected error for unregistered component")
	}

	if err := b.Register(repl, 42, 1); err == nil {
		t.Error("expected error for unknown role")
	}
	if err := b.Register(repl, ActiveSwitch, 0); err == nil {
		t.Error("expected error for zero quantity")
	}
}

func TestBuck_RegisterMovesAcrossCircuits(t *testing.T) {
	a := testBuck(t)
	b, err := NewBuck(
		BuckConfig{Vin: 96, Vo: 12, Po: 110, Fs: 300e3, Ncell: 2},
		testSwitch(), testSwitch(), testInductor(&fitPredictor{}, 20),
	)
	if err != nil {
		t.Fatalf("new buck: %v", err)
	}
	want, err := b.TotalLoss()
	if err != nil {
		t.Fatalf("total: %v", err)
	}

	moved, _ := a.Component(ActiveSwitch)
	if err := b.Register(moved, ActiveSwitch, moved.Quantity()); err != nil {
		t.Fatalf("register: %v", err)
	}

	if _, ok := a.Component(ActiveSwitch); ok {
		t.Error("source circuit still holds the moved component")
	}
	if n := len(a.Components()); n != 2 {
		t.Errorf("expected 2 components left in source, got %d", n)
	}
	if _, err := a.LossBy(moved, component.LossConduction); err == nil {
		t.Error("source circuit should reject the moved component")
	}
	if moved.Circuit() != component.Resolver(&b.Base) {
		t.Error("moved component is not bound to the target circuit")
	}
	got, err := b.TotalLoss()
	if err != nil {
		t.Fatalf("total after move: %v", err)
	}
	if got != want {
		t.Errorf("target total: expected %g, got %g", want, got)
	}
}

func TestBuck_CloneIsIndependent(t *testing.T) {
	b := testBuck(t)
	nb := b.Clone()
	if len(nb.Components()) != len(b.Components()) {
		t.Fatalf("clone has %d components, want %d", len(nb.Components()), len(b.Components()))
	}
	for _, role := range b.Roles() {
		orig, _ := b.Component(role)
		c, ok := nb.Component(role)
		if !ok {
			t.Fatalf("clone lost %s", b.RoleName(role))
		}
		if c == orig || c.Quantity() != orig.Quantity() {
			t.Errorf("%s: expected a distinct copy with quantity %d", b.RoleName(role), orig.Quantity())
		}
		if _, err := b.LossBy(c, component.LossConduction); err == nil {
			t.Errorf("%s: original accepted a component of the clone", b.RoleName(role))
		}
	}
}

func TestBuck_UnsupportedParam(t *testing.T) {
	b := testBuck(t)
	if _, err := b.Param(ActiveSwitch, "bogus"); !errors.Is(err, component.ErrUnsupportedParam) {
		t.Errorf("expected ErrUnsupportedParam, got %v", err)
	}
	if _, err := b.Param(BuckInductor, component.ParamOnCurrent); !errors.Is(err, component.ErrUnsupportedParam) {
		t.Errorf("inductor has no on current, got %v", err)
	}
	if b.Supports("bogus") || !b.Supports(component.ParamVoltSec) {
		t.Error("unexpected Supports result")
	}
}

func TestBuck_Saturation(t *testing.T) {
	p := &fitPredictor{}
	b, err := NewBuck(
		BuckConfig{Vin: 48, Vo: 12, Po: 110, Fs: 100e3, Ncell: 2},
		testSwitch(), testSwitch(), testInductor(p, 10),
	)
	if err != nil {
		t.Fatalf("new buck: %v", err)
	}
	_, err = b.TotalLoss()
	var se *component.SaturationError
	if !errors.As(err, &se) {
		t.Fatalf("expected SaturationError, got %v", err)
	}
	if !near(se.Peak, 110.0/12+1.5, 1e-9) {
		t.Errorf("unexpected peak %g", se.Peak)
	}
	if p.calls != 0 {
		t.Errorf("predictor called %d times past isat", p.calls)
	}
}

// #endregion losses

// #region validation
func TestBuck_InvalidConfig(t *testing.T) {
	cases := []BuckConfig{
		{Vin: 12, Vo: 12, Po: 10, Fs: 1e5, Ncell: 1},
		{Vin: 48, Vo: 12, Po: 10, Fs: 0, Ncell: 1},
		{Vin: 48, Vo: 12, Po: 10, Fs: 1e5, Ncell: 0},
		{Vin: 48, Vo: 12, Fs: 1e5, Ncell: 1},
		{Vin: 48, Vo: -1, Po: 10, Fs: 1e5, Ncell: 1},
	}
	for i, cfg := range cases {
		_, err := NewBuck(cfg, testSwitch(), testSwitch(), testInductor(nil, 20))
		if !errors.Is(err, ErrInvalidTopology) {
			t.Errorf("case %d: expected ErrInvalidTopology, got %v", i, err)
		}
	}
	if _, err := NewBuck(BuckConfig{Vin: 48, Vo: 12, Po: 10, Fs: 1e5, Ncell: 1}, nil, testSwitch(), testInductor(nil, 20)); err == nil {
		t.Error("expected error for missing switch")
	}
}

// #endregion validation

// #region exploration
func TestBuck_WithFsDoesNotMutate(t *testing.T) {
	b := testBuck(t)
	c, err := b.WithFs(200e3)
	if err != nil {
		t.Fatalf("with fs: %v", err)
	}
	if b.Fs() != 100e3 || c.Fs() != 200e3 {
		t.Errorf("fs: original %g, copy %g", b.Fs(), c.Fs())
	}
	orig, _ := b.Component(ActiveSwitch)
	cp, _ := c.Component(ActiveSwitch)
	if orig == cp {
		t.Error("clone shares a component with the original")
	}
	if err := b.SetFs(-1); err == nil {
		t.Error("expected error for negative fs")
	}
}

func TestBuck_WithPo(t *testing.T) {
	b := testBuck(t)
	c, err := b.WithPo(55)
	if err != nil {
		t.Fatalf("with po: %v", err)
	}
	if c.Po() != 55 || b.Po() != 110 {
		t.Errorf("po: original %g, copy %g", b.Po(), c.Po())
	}
	cb := c.(*Buck)
	if !near(cb.Io(), 55.0/12, 1e-12) {
		t.Errorf("io: got %g", cb.Io())
	}
}

func TestBuck_OptimizeByFs(t *testing.T) {
	b := testBuck(t)
	opt, res, err := b.OptimizeByFs()
	if err != nil {
		t.Fatalf("optimize fs: %v", err)
	}
	if !res.Converged {
		t.Error("expected convergence")
	}
	if !near(opt.Fs()/1000, 96.698, 0.05) {
		t.Errorf("expected fs ~96.70kHz, got %gkHz", opt.Fs()/1000)
	}
	if b.Fs() != 100e3 {
		t.Errorf("original mutated: fs %g", b.Fs())
	}
	before, _ := b.TotalLoss()
	after, _ := opt.TotalLoss()
	if after > before {
		t.Errorf("optimized loss %g above starting loss %g", after, before)
	}
}

func TestBuck_OptimizeByRdson(t *testing.T) {
	b := testBuck(t)
	effBefore, _ := b.Efficiency()

	opt, results, err := b.OptimizeByRdson()
	if err != nil {
		t.Fatalf("optimize rdson: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected two switch results, got %d", len(results))
	}
	eff, err := opt.Efficiency()
	if err != nil {
		t.Fatalf("efficiency: %v", err)
	}
	if !near(eff, 0.977773, 1e-5) {
		t.Errorf("expected efficiency ~0.9778, got %g", eff)
	}

	act, _ := opt.Component(ActiveSwitch)
	r, _ := act.(*component.Switch).Get(component.Rdson)
	if !near(r, 5.194e-3, 1e-5) {
		t.Errorf("active rdson: expected ~5.194mOhm, got %g", r)
	}
	if act.Quantity() != 1 {
		t.Errorf("optimized switch quantity: expected 1, got %d", act.Quantity())
	}

	if again, _ := b.Efficiency(); again != effBefore {
		t.Errorf("original mutated: efficiency %g -> %g", effBefore, again)
	}
	orig, _ := b.Component(ActiveSwitch)
	if rd, _ := orig.(*component.Switch).Get(component.Rdson); rd != 2.6e-3 {
		t.Errorf("original switch mutated: rdson %g", rd)
	}
}

func TestBuck_ChainedOptimization(t *testing.T) {
	b := testBuck(t)
	step, _, err := b.OptimizeByRdson()
	if err != nil {
		t.Fatalf("optimize rdson: %v", err)
	}
	final, _, err := step.OptimizeByFs()
	if err != nil {
		t.Fatalf("optimize fs: %v", err)
	}
	e1, _ := step.Efficiency()
	e2, _ := final.Efficiency()
	if e2 < e1 {
		t.Errorf("fs optimization lowered efficiency: %g -> %g", e1, e2)
	}
}

// #endregion exploration

func TestBuck_VoltageStress(t *testing.T) {
	b := testBuck(t)
	for _, role := range []component.Role{ActiveSwitch, PassiveSwitch} {
		if v, err := b.VoltageStress(role); err != nil || v != 24 {
			t.Errorf("%s: expected 24V, got %g (%v)", b.RoleName(role), v, err)
		}
	}
	if _, err := b.VoltageStress(BuckInductor); !errors.Is(err, component.ErrUnsupportedParam) {
		t.Errorf("inductor: expected ErrUnsupportedParam, got %v", err)
	}
}
