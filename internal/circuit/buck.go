package circuit

import (
	"fmt"
	"math"

	"github.com/danielpatrickdp/power-toys/internal/component"
	"github.com/danielpatrickdp/power-toys/internal/optimize"
)

// Buck roles.
const (
	ActiveSwitch component.Role = iota
	PassiveSwitch
	BuckInductor
)

var buckRoles = map[component.Role]string{
	ActiveSwitch:  "active switch",
	PassiveSwitch: "passive switch",
	BuckInductor:  "inductor",
}

// #region buck-config
// BuckConfig describes an Ncell-level interleaved synchronous buck. Either Po
// or Ro must be set; Po wins when both are.
type BuckConfig struct {
	Vin   float64 // V
	Vo    float64 // V
	Po    float64 // W
	Ro    float64 // Ohm
	Fs    float64 // Hz
	Ncell int
}

func (c BuckConfig) normalize() (BuckConfig, error) {
	const name = "buck"
	if err := positive(name, "vin", c.Vin); err != nil {
		return c, err
	}
	if err := positive(name, "vo", c.Vo); err != nil {
		return c, err
	}
	if c.Vo >= c.Vin {
		return c, &InvalidTopologyError{Circuit: name, Field: "vo", Reason: fmt.Sprintf("output %gV must be below input %gV", c.Vo, c.Vin)}
	}
	if err := positive(name, "fs", c.Fs); err != nil {
		return c, err
	}
	if c.Ncell < 1 {
		return c, &InvalidTopologyError{Circuit: name, Field: "ncell", Reason: fmt.Sprintf("must be >= 1, got %d", c.Ncell)}
	}
	if c.Po == 0 && c.Ro > 0 {
		c.Po = c.Vo * c.Vo / c.Ro
	}
	if err := positive(name, "po", c.Po); err != nil {
		return c, err
	}
	c.Ro = c.Vo * c.Vo / c.Po
	return c, nil
}

// #endregion buck-config

// #region buck
// Buck answers operating-condition queries for its two switches and inductor.
type Buck struct {
	Base
	cfg BuckConfig
}

// NewBuck validates cfg and registers the switches with quantity Ncell and
// the inductor with quantity 1.
func NewBuck(cfg BuckConfig, active, passive *component.Switch, ind *component.Inductor) (*Buck, error) {
	cfg, err := cfg.normalize()
	if err != nil {
		return nil, err
	}
	if active == nil || passive == nil || ind == nil {
		return nil, &InvalidTopologyError{Circuit: "buck", Field: "components", Reason: "active, passive and inductor are required"}
	}
	b := newBuck(cfg)
	if err := b.Register(active, ActiveSwitch, cfg.Ncell); err != nil {
		return nil, err
	}
	if err := b.Register(passive, PassiveSwitch, cfg.Ncell); err != nil {
		return nil, err
	}
	if err := b.Register(ind, BuckInductor, 1); err != nil {
		return nil, err
	}
	return b, nil
}

func newBuck(cfg BuckConfig) *Buck {
	b := &Buck{Base: newBase("buck", cfg.Po, cfg.Fs, buckRoles), cfg: cfg}
	b.handle(component.ParamFs, b.fsFor)
	b.handle(component.ParamIrms, b.Irms)
	b.handle(component.ParamOnCurrent, b.OnCurrent)
	b.handle(component.ParamOffCurrent, b.OffCurrent)
	b.handle(component.ParamOnVoltage, b.switchingVoltage)
	b.handle(component.ParamOffVoltage, b.switchingVoltage)
	b.handle(component.ParamQrrVoltage, b.qrrVoltage)
	b.handle(component.ParamCapVoltage, b.capVoltage)
	b.handle(component.ParamIave, b.Iave)
	b.handle(component.ParamIripple, func(component.Role) (float64, error) { return b.Ripple() })
	b.handle(component.ParamVoltSec, func(component.Role) (float64, error) { return b.VoltSec(), nil })
	return b
}

// Config returns the normalized topology parameters.
func (b *Buck) Config() BuckConfig { return b.cfg }

func (b *Buck) Vin() float64 { return b.cfg.Vin }
func (b *Buck) Vo() float64  { return b.cfg.Vo }
func (b *Buck) Ro() float64  { return b.cfg.Ro }
func (b *Buck) Ncell() int   { return b.cfg.Ncell }

// #endregion buck

// #region buck-derived
// Duty is vo/vin.
func (b *Buck) Duty() float64 { return b.cfg.Vo / b.cfg.Vin }

// DutyEff is the fractional part of duty*Ncell.
func (b *Buck) DutyEff() float64 {
	d := b.Duty() * float64(b.cfg.Ncell)
	return d - math.Floor(d)
}

// VoltSec is the volt-seconds applied to the inductor per ripple period.
func (b *Buck) VoltSec() float64 {
	n := float64(b.cfg.Ncell)
	step := b.cfg.Vin / n
	voEff := math.Mod(b.cfg.Vo, step)
	return (step - voEff) * b.DutyEff() / (b.fs * n)
}

// Ripple is the peak-to-peak inductor current.
func (b *Buck) Ripple() (float64, error) {
	c, ok := b.Component(BuckInductor)
	if !ok {
		return 0, fmt.Errorf("buck: no inductor registered")
	}
	l, ok := c.(interface{ Inductance() float64 })
	if !ok || l.Inductance() <= 0 {
		return 0, &component.ParameterIncompleteError{Component: c.ID(), Param: "inductance"}
	}
	return b.VoltSec() / l.Inductance(), nil
}

// Io is the average output current.
func (b *Buck) Io() float64 { return b.cfg.Po / b.cfg.Vo }

func triangleRms(avg, pk2pk float64) float64 {
	return math.Sqrt(avg*avg + pk2pk*pk2pk/12)
}

// #endregion buck-derived

// #region buck-handlers
func (b *Buck) fsFor(role component.Role) (float64, error) {
	switch role {
	case ActiveSwitch, PassiveSwitch:
		return b.fs, nil
	case BuckInductor:
		return b.fs * float64(b.cfg.Ncell), nil
	}
	return 0, unsupported(b.name, role, component.ParamFs)
}

// Irms is the rms current through the component in role.
func (b *Buck) Irms(role component.Role) (float64, error) {
	r, err := b.Ripple()
	if err != nil {
		return 0, err
	}
	tri := triangleRms(b.Io(), r)
	switch role {
	case ActiveSwitch:
		return math.Sqrt(b.Duty()) * tri, nil
	case PassiveSwitch:
		return math.Sqrt(1-b.Duty()) * tri, nil
	case BuckInductor:
		return tri, nil
	}
	return 0, unsupported(b.name, role, component.ParamIrms)
}

// OnCurrent is io - ripple/2 for the hard-switched active switch, 0 for the passive one.
func (b *Buck) OnCurrent(role component.Role) (float64, error) {
	switch role {
	case ActiveSwitch:
		r, err := b.Ripple()
		if err != nil {
			return 0, err
		}
		return b.Io() - r/2, nil
	case PassiveSwitch:
		return 0, nil
	}
	return 0, unsupported(b.name, role, component.ParamOnCurrent)
}

// OffCurrent is io + ripple/2 for the active switch, 0 for the passive one.
func (b *Buck) OffCurrent(role component.Role) (float64, error) {
	switch role {
	case ActiveSwitch:
		r, err := b.Ripple()
		if err != nil {
			return 0, err
		}
		return b.Io() + r/2, nil
	case PassiveSwitch:
		return 0, nil
	}
	return 0, unsupported(b.name, role, component.ParamOffCurrent)
}

func (b *Buck) cellVoltage() float64 { return b.cfg.Vin / float64(b.cfg.Ncell) }

func (b *Buck) switchingVoltage(role component.Role) (float64, error) {
	switch role {
	case ActiveSwitch:
		return b.cellVoltage(), nil
	case PassiveSwitch:
		return 0, nil
	}
	return 0, unsupported(b.name, role, component.ParamOnVoltage)
}

// reverse recovery is charged to the passive switch body diode
func (b *Buck) qrrVoltage(role component.Role) (float64, error) {
	switch role {
	case ActiveSwitch:
		return 0, nil
	case PassiveSwitch:
		return b.cellVoltage(), nil
	}
	return 0, unsupported(b.name, role, component.ParamQrrVoltage)
}

func (b *Buck) capVoltage(role component.Role) (float64, error) {
	switch role {
	case ActiveSwitch, PassiveSwitch:
		return b.cellVoltage(), nil
	}
	return 0, unsupported(b.name, role, component.ParamCapVoltage)
}

// VoltageStress is the blocking voltage of one switch in role.
func (b *Buck) VoltageStress(role component.Role) (float64, error) {
	switch role {
	case ActiveSwitch, PassiveSwitch:
		return b.cellVoltage(), nil
	}
	return 0, unsupported(b.name, role, "voltage_stress")
}

// Iave is the average current of the component in role.
func (b *Buck) Iave(role component.Role) (float64, error) {
	switch role {
	case ActiveSwitch:
		return b.Duty() * b.Io(), nil
	case PassiveSwitch:
		return (1 - b.Duty()) * b.Io(), nil
	case BuckInductor:
		return b.Io(), nil
	}
	return 0, unsupported(b.name, role, component.ParamIave)
}

// #endregion buck-handlers

// #region buck-exploration
// SetFs changes the switching frequency in place.
func (b *Buck) SetFs(fs float64) error {
	if err := positive(b.name, "fs", fs); err != nil {
		return err
	}
	b.fs = fs
	b.cfg.Fs = fs
	return nil
}

// Clone deep-copies the circuit and every registered component.
func (b *Buck) Clone() Circuit { return b.clone() }

func (b *Buck) clone() *Buck {
	nb := newBuck(b.cfg)
	for _, c := range b.order {
		// roles and quantities were validated on the original
		if err := nb.Register(c.Clone(), c.Role(), c.Quantity()); err != nil {
			panic(fmt.Sprintf("%s: clone: %v", b.name, err))
		}
	}
	return nb
}

func (b *Buck) WithFs(fs float64) (Circuit, error) {
	nb := b.clone()
	if err := nb.SetFs(fs); err != nil {
		return nil, err
	}
	return nb, nil
}

func (b *Buck) WithPo(po float64) (Circuit, error) {
	if err := positive(b.name, "po", po); err != nil {
		return nil, err
	}
	nb := b.clone()
	nb.cfg.Po = po
	nb.cfg.Ro = nb.cfg.Vo * nb.cfg.Vo / po
	nb.po = po
	return nb, nil
}

// OptimizeByRdson replaces both switches by their rdson-optimal equivalents.
// Each equivalent stands for the whole switch position and is registered
// with quantity 1.
func (b *Buck) OptimizeByRdson() (Circuit, []optimize.Result, error) {
	return optimizeRdson(b, func(component.Role, int) int { return 1 })
}

func (b *Buck) OptimizeByFs() (Circuit, optimize.Result, error) {
	return optimizeFs(b)
}

// #endregion buck-exploration
