package circuit

import (
	"fmt"
	"math"

	"github.com/danielpatrickdp/power-toys/internal/component"
	"github.com/danielpatrickdp/power-toys/internal/optimize"
)

// DCX roles.
const (
	PrimarySwitch component.Role = iota
	SecondarySwitch
	DCXTransformer
)

var dcxRoles = map[component.Role]string{
	PrimarySwitch:   "primary switch",
	SecondarySwitch: "secondary switch",
	DCXTransformer:  "transformer",
}

// #region bridge
// Bridge is the switch arrangement on one side of the transformer.
type Bridge string

const (
	HalfBridge Bridge = "H"
	CenterTap  Bridge = "C"
	FullBridge Bridge = "F"
)

// ParseBridge accepts the one-letter code or the full name.
func ParseBridge(s string) (Bridge, error) {
	switch s {
	case "H", "h", "half", "half-bridge":
		return HalfBridge, nil
	case "C", "c", "ct", "center-tap":
		return CenterTap, nil
	case "F", "f", "full", "full-bridge":
		return FullBridge, nil
	}
	return "", fmt.Errorf("unknown bridge type %q", s)
}

// Devices is the number of switches the bridge uses.
func (b Bridge) Devices() int {
	if b == FullBridge {
		return 4
	}
	return 2
}

func (b Bridge) valid() bool {
	return b == HalfBridge || b == CenterTap || b == FullBridge
}

// #endregion bridge

// #region dcx-config
// DCXConfig describes an unregulated resonant DC transformer stage.
type DCXConfig struct {
	Vin        float64 // V
	Vo         float64 // V
	TurnsRatio float64 // primary:secondary
	Fs         float64 // Hz
	Td         float64 // dead time, s
	Po         float64 // W
	Ro         float64 // Ohm
	Primary    Bridge
	Secondary  Bridge
}

func (c DCXConfig) normalize() (DCXConfig, error) {
	const name = "dcx"
	if c.Primary == "" {
		c.Primary = HalfBridge
	}
	if c.Secondary == "" {
		c.Secondary = CenterTap
	}
	for field, v := range map[string]float64{"vin": c.Vin, "vo": c.Vo, "turns ratio": c.TurnsRatio, "fs": c.Fs, "td": c.Td} {
		if err := positive(name, field, v); err != nil {
			return c, err
		}
	}
	if !c.Primary.valid() || !c.Secondary.valid() {
		return c, &InvalidTopologyError{Circuit: name, Field: "bridge", Reason: fmt.Sprintf("unknown bridge %q/%q", c.Primary, c.Secondary)}
	}
	if err := checkDeadTime(c.Td, c.Fs); err != nil {
		return c, err
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

func checkDeadTime(td, fs float64) error {
	if half := 1 / fs / 2; td >= half {
		return &InvalidTopologyError{Circuit: "dcx", Field: "td", Reason: fmt.Sprintf("dead time %gs must be below half period %gs", td, half)}
	}
	return nil
}

// #endregion dcx-config

// #region dcx
// DCX models conduction and drive loss of both switch banks. Each bank is
// registered with quantity equal to its device count.
type DCX struct {
	Base
	cfg DCXConfig
}

// NewDCX validates cfg and registers the switch banks. When tr is nil a
// transformer is designed from the circuit's magnetizing requirement.
func NewDCX(cfg DCXConfig, primary, secondary *component.Switch, tr *component.Transformer) (*DCX, error) {
	cfg, err := cfg.normalize()
	if err != nil {
		return nil, err
	}
	if primary == nil || secondary == nil {
		return nil, &InvalidTopologyError{Circuit: "dcx", Field: "components", Reason: "primary and secondary switches are required"}
	}
	d := newDCX(cfg)
	if err := d.Register(primary, PrimarySwitch, cfg.Primary.Devices()); err != nil {
		return nil, err
	}
	if err := d.Register(secondary, SecondarySwitch, cfg.Secondary.Devices()); err != nil {
		return nil, err
	}
	if tr == nil {
		if tr, err = d.DesignTransformer(); err != nil {
			return nil, err
		}
	}
	if err := d.Register(tr, DCXTransformer, 1); err != nil {
		return nil, err
	}
	return d, nil
}

func newDCX(cfg DCXConfig) *DCX {
	d := &DCX{Base: newBase("dcx", cfg.Po, cfg.Fs, dcxRoles), cfg: cfg}
	d.handle(component.ParamFs, func(component.Role) (float64, error) { return d.fs, nil })
	d.handle(component.ParamIrms, d.deviceIrms)
	for _, p := range []component.Param{
		component.ParamOnVoltage, component.ParamOnCurrent,
		component.ParamOffVoltage, component.ParamOffCurrent,
		component.ParamQrrVoltage, component.ParamCapVoltage,
	} {
		d.handle(p, d.softSwitched(p))
	}
	return d
}

func (d *DCX) Config() DCXConfig { return d.cfg }

// Ts is the switching period.
func (d *DCX) Ts() float64 { return 1 / d.fs }

// #endregion dcx

// #region dcx-currents
type side struct {
	bridge Bridge
	vs     float64
	role   component.Role
}

// the transformer winding is evaluated on the secondary side
func (d *DCX) sideOf(role component.Role) (side, error) {
	switch role {
	case PrimarySwitch:
		return side{bridge: d.cfg.Primary, vs: d.cfg.Vin, role: PrimarySwitch}, nil
	case SecondarySwitch, DCXTransformer:
		return side{bridge: d.cfg.Secondary, vs: d.cfg.Vo, role: SecondarySwitch}, nil
	}
	return side{}, fmt.Errorf("dcx: unknown role %d", role)
}

// Ilm is the magnetizing current needed to swing the switch output
// capacitance of role's bank within the dead time.
func (d *DCX) Ilm(role component.Role) (float64, error) {
	if role != PrimarySwitch && role != SecondarySwitch {
		return 0, unsupported(d.name, role, "ilm")
	}
	s, err := d.sideOf(role)
	if err != nil {
		return 0, err
	}
	c, ok := d.Component(s.role)
	if !ok {
		return 0, fmt.Errorf("dcx: no %s registered", d.RoleName(s.role))
	}
	sw, ok := c.(*component.Switch)
	if !ok {
		return 0, fmt.Errorf("dcx: %s is not a switch", d.RoleName(s.role))
	}
	cosst, ok := sw.Get(component.Cosst)
	if !ok {
		return 0, &component.ParameterIncompleteError{Component: sw.ID(), Param: string(component.Cosst)}
	}
	v := s.vs
	if s.bridge == CenterTap {
		v *= 2
	}
	return 2 * cosst * v / d.cfg.Td, nil
}

func (d *DCX) powerCurrent(s side) float64 {
	ts, td := d.Ts(), d.cfg.Td
	k := math.Pi / (s.vs * (ts - 2*td))
	if s.bridge == FullBridge {
		k /= 2
	}
	return d.po * ts * k
}

// Irms is the bank rms current for switch roles and the winding rms current
// for the transformer role.
func (d *DCX) Irms(role component.Role) (float64, error) {
	if err := checkDeadTime(d.cfg.Td, d.fs); err != nil {
		return 0, err
	}
	s, err := d.sideOf(role)
	if err != nil {
		return 0, unsupported(d.name, role, component.ParamIrms)
	}
	ts, td := d.Ts(), d.cfg.Td
	ip := d.powerCurrent(s)
	frac := (ts - 2*td) / ts

	if role == DCXTransformer {
		ms := (ip*ip/2+ip*ip/3)*frac + ip*ip*2*td/ts
		return math.Sqrt(ms), nil
	}
	ilm, err := d.Ilm(role)
	if err != nil {
		return 0, err
	}
	return math.Sqrt((ip*ip/2 + ilm*ilm/3) * frac), nil
}

// device rms: the bank current is shared by two conduction paths
func (d *DCX) deviceIrms(role component.Role) (float64, error) {
	if role == DCXTransformer {
		return d.Irms(role)
	}
	rms, err := d.Irms(role)
	if err != nil {
		return 0, err
	}
	return rms / math.Sqrt2, nil
}

func (d *DCX) softSwitched(p component.Param) Handler {
	return func(role component.Role) (float64, error) {
		if role == PrimarySwitch || role == SecondarySwitch {
			return 0, nil
		}
		return 0, unsupported(d.name, role, p)
	}
}

// VoltageStress is the blocking voltage of one switch in role. Center-tap
// devices see twice the winding voltage.
func (d *DCX) VoltageStress(role component.Role) (float64, error) {
	if role != PrimarySwitch && role != SecondarySwitch {
		return 0, unsupported(d.name, role, "voltage_stress")
	}
	s, err := d.sideOf(role)
	if err != nil {
		return 0, err
	}
	if s.bridge == CenterTap {
		return 2 * s.vs, nil
	}
	return s.vs, nil
}

// #endregion dcx-currents

// #region dcx-magnetics
// Lm is the magnetizing inductance that provides both banks' Ilm, referred
// to the primary.
func (d *DCX) Lm() (float64, error) {
	ip, err := d.Ilm(PrimarySwitch)
	if err != nil {
		return 0, err
	}
	is, err := d.Ilm(SecondarySwitch)
	if err != nil {
		return 0, err
	}
	total := ip + is/d.cfg.TurnsRatio
	return d.cfg.Vo * (d.Ts() - 2*d.cfg.Td) / 2 / total, nil
}

// DesignTransformer returns an unregistered transformer with the required Lm.
func (d *DCX) DesignTransformer() (*component.Transformer, error) {
	lm, err := d.Lm()
	if err != nil {
		return nil, err
	}
	return component.NewTransformer(fmt.Sprintf("T%g:1", d.cfg.TurnsRatio), d.cfg.TurnsRatio, lm), nil
}

// #endregion dcx-magnetics

// #region dcx-exploration
func (d *DCX) SetFs(fs float64) error {
	if err := positive(d.name, "fs", fs); err != nil {
		return err
	}
	if err := checkDeadTime(d.cfg.Td, fs); err != nil {
		return err
	}
	d.fs = fs
	d.cfg.Fs = fs
	return nil
}

func (d *DCX) Clone() Circuit { return d.clone() }

func (d *DCX) clone() *DCX {
	nd := newDCX(d.cfg)
	for _, c := range d.order {
		if err := nd.Register(c.Clone(), c.Role(), c.Quantity()); err != nil {
			panic(fmt.Sprintf("%s: clone: %v", d.name, err))
		}
	}
	return nd
}

func (d *DCX) WithFs(fs float64) (Circuit, error) {
	nd := d.clone()
	if err := nd.SetFs(fs); err != nil {
		return nil, err
	}
	return nd, nil
}

func (d *DCX) WithPo(po float64) (Circuit, error) {
	if err := positive(d.name, "po", po); err != nil {
		return nil, err
	}
	nd := d.clone()
	nd.cfg.Po = po
	nd.cfg.Ro = nd.cfg.Vo * nd.cfg.Vo / po
	nd.po = po
	return nd, nil
}

// OptimizeByRdson keeps each bank's device count.
func (d *DCX) OptimizeByRdson() (Circuit, []optimize.Result, error) {
	return optimizeRdson(d, func(_ component.Role, current int) int { return current })
}

func (d *DCX) OptimizeByFs() (Circuit, optimize.Result, error) {
	return optimizeFs(d)
}

// #endregion dcx-exploration
