package component

import (
	"fmt"
	"math"

	"github.com/danielpatrickdp/power-toys/internal/optimize"
)

// #region switch-params
// SwitchParam names a catalog parameter of a MOSFET.
type SwitchParam string

const (
	Rdson    SwitchParam = "rdson"    // on-resistance, Ohm
	Vbr      SwitchParam = "vbr"      // breakdown voltage, V
	Vgsth    SwitchParam = "vgsth"    // gate threshold, V
	Rg       SwitchParam = "rg"       // internal gate resistance, Ohm
	Qg       SwitchParam = "qg"       // total gate charge, C
	Qgd      SwitchParam = "qgd"      // gate-drain charge, C
	QgSoft   SwitchParam = "qg_soft"  // gate charge under ZVS, C
	Cosse    SwitchParam = "cosse"    // energy-equivalent output capacitance, F
	Cosst    SwitchParam = "cosst"    // time-equivalent output capacitance, F
	Qrr      SwitchParam = "qrr"      // reverse recovery charge, C
	Qgs2     SwitchParam = "qgs2"     // gate charge from threshold to plateau, C
	Vplateau SwitchParam = "vplateau" // Miller plateau, V
	Kdyn     SwitchParam = "kdyn"     // dynamic rdson multiplier
	Ktemp    SwitchParam = "ktemp"    // temperature rdson multiplier
	Vgs      SwitchParam = "vgs"      // drive voltage, V
	VgsMin   SwitchParam = "vgs_min"  // drive low level, V
)

// SwitchParams lists every numeric switch parameter in catalog column order.
var SwitchParams = []SwitchParam{
	Rdson, Vbr, Vgsth, Rg, Qg, Qgd, QgSoft, Cosse, Cosst, Qrr, Qgs2, Vplateau, Kdyn, Ktemp, Vgs, VgsMin,
}

// parallelScaled are the charges and capacitances that add up when devices are paralleled.
var parallelScaled = []SwitchParam{Qg, Qgd, QgSoft, Cosse, Cosst, Qrr, Qgs2}

// #endregion switch-params

// #region gate-drive
// GateDrive holds the external driver resistances used by the switching-loss model.
type GateDrive struct {
	ROn  float64 // Ohm
	ROff float64 // Ohm
}

// DefaultGateDrive returns 1 Ohm turn-on and 0.6 Ohm turn-off driver resistance.
func DefaultGateDrive() GateDrive {
	return GateDrive{ROn: 1, ROff: 0.6}
}

// #endregion gate-drive

// #region switch
// Switch is a MOSFET whose losses are evaluated against its circuit's operating point.
type Switch struct {
	Base
	id        string
	footprint string
	params    map[SwitchParam]float64
	gate      GateDrive
}

// NewSwitch builds a switch from catalog values. Parameters absent from
// params stay unset.
func NewSwitch(id string, params map[SwitchParam]float64, footprint string) *Switch {
	p := make(map[SwitchParam]float64, len(params))
	for k, v := range params {
		p[k] = v
	}
	return &Switch{
		Base:      newBase(),
		id:        id,
		footprint: footprint,
		params:    p,
		gate:      DefaultGateDrive(),
	}
}

func (s *Switch) ID() string        { return s.id }
func (s *Switch) Footprint() string { return s.footprint }

// Get returns a parameter and whether it is set.
func (s *Switch) Get(p SwitchParam) (float64, bool) {
	v, ok := s.params[p]
	return v, ok
}

// Params returns a copy of the set parameters.
func (s *Switch) Params() map[SwitchParam]float64 {
	out := make(map[SwitchParam]float64, len(s.params))
	for k, v := range s.params {
		out[k] = v
	}
	return out
}

// SetGateDrive replaces the driver resistances.
func (s *Switch) SetGateDrive(g GateDrive) { s.gate = g }

// Validate reports the first unset numeric parameter.
func (s *Switch) Validate() error {
	for _, p := range SwitchParams {
		if _, ok := s.params[p]; !ok {
			return &ParameterIncompleteError{Component: s.id, Param: string(p)}
		}
	}
	return nil
}

func (s *Switch) require(ps ...SwitchParam) ([]float64, error) {
	out := make([]float64, len(ps))
	for i, p := range ps {
		v, ok := s.params[p]
		if !ok {
			return nil, &ParameterIncompleteError{Component: s.id, Param: string(p)}
		}
		out[i] = v
	}
	return out, nil
}

// #endregion switch

// #region component-interface
func (s *Switch) LossNames() []LossName {
	return []LossName{LossConduction, LossDrive, LossCapacitive, LossSwitchOff, LossSwitchOn, LossQrr}
}

// Loss evaluates one named loss at the operating point supplied by the circuit.
func (s *Switch) Loss(name LossName) (float64, error) {
	switch name {
	case LossConduction:
		irms, err := s.CircuitParam(ParamIrms)
		if err != nil {
			return 0, err
		}
		return s.ConductionLossAt(irms)
	case LossDrive:
		fs, err := s.CircuitParam(ParamFs)
		if err != nil {
			return 0, err
		}
		return s.DriveLossAt(fs)
	case LossSwitchOff:
		fs, vds, ids, err := s.transition(ParamOffVoltage, ParamOffCurrent)
		if err != nil {
			return 0, err
		}
		return s.SwitchOffLossAt(fs, vds, ids)
	case LossSwitchOn:
		fs, vds, ids, err := s.transition(ParamOnVoltage, ParamOnCurrent)
		if err != nil {
			return 0, err
		}
		return s.SwitchOnLossAt(fs, vds, ids)
	case LossQrr:
		fs, vds, err := s.freqAndVoltage(ParamQrrVoltage)
		if err != nil {
			return 0, err
		}
		return s.QrrLossAt(fs, vds)
	case LossCapacitive:
		fs, vds, err := s.freqAndVoltage(ParamCapVoltage)
		if err != nil {
			return 0, err
		}
		return s.CapLossAt(fs, vds)
	}
	return 0, fmt.Errorf("%s: %w: %s", s.id, ErrUnknownLoss, name)
}

func (s *Switch) transition(vName, iName Param) (fs, vds, ids float64, err error) {
	if fs, err = s.CircuitParam(ParamFs); err != nil {
		return
	}
	if vds, err = s.CircuitParam(vName); err != nil {
		return
	}
	ids, err = s.CircuitParam(iName)
	return
}

func (s *Switch) freqAndVoltage(vName Param) (fs, vds float64, err error) {
	if fs, err = s.CircuitParam(ParamFs); err != nil {
		return
	}
	vds, err = s.CircuitParam(vName)
	return
}

// TotalLoss sums every named loss of one device.
func (s *Switch) TotalLoss() (float64, error) { return sumLosses(s) }

// Area is undefined for switches: the catalog only carries a footprint name.
func (s *Switch) Area() (float64, error) {
	return 0, &ParameterIncompleteError{Component: s.id, Param: "area"}
}

func (s *Switch) Volume() (float64, error) {
	return 0, &ParameterIncompleteError{Component: s.id, Param: "volume"}
}

// Clone returns an unbound copy with its own parameter table.
func (s *Switch) Clone() Component { return s.clone() }

func (s *Switch) clone() *Switch {
	c := NewSwitch(s.id, s.params, s.footprint)
	c.gate = s.gate
	return c
}

// #endregion component-interface

// #region loss-formulas
// ConductionLossAt is rdson*kdyn*ktemp*irms^2.
func (s *Switch) ConductionLossAt(irms float64) (float64, error) {
	v, err := s.require(Rdson, Kdyn, Ktemp)
	if err != nil {
		return 0, err
	}
	return v[0] * v[1] * v[2] * irms * irms, nil
}

// DriveLossAt is qg*(vgs-vgs_min)*fs.
func (s *Switch) DriveLossAt(fs float64) (float64, error) {
	v, err := s.require(Qg, Vgs, VgsMin)
	if err != nil {
		return 0, err
	}
	return v[0] * (v[1] - v[2]) * fs, nil
}

// SwitchOffLossAt uses the piecewise-linear gate-charge model of the turn-off transition.
func (s *Switch) SwitchOffLossAt(fs, vds, ids float64) (float64, error) {
	v, err := s.require(Qgs2, Vplateau, Vgsth, Qgd, Rg)
	if err != nil {
		return 0, err
	}
	qgs2, vp, vth, qgd, rg := v[0], v[1], v[2], v[3], v[4]
	t := qgs2/((vp+vth)/2) + qgd/vp
	return vds * ids * (s.gate.ROff + rg) / 2 * t * fs, nil
}

// SwitchOnLossAt uses the piecewise-linear gate-charge model of the turn-on transition.
func (s *Switch) SwitchOnLossAt(fs, vds, ids float64) (float64, error) {
	v, err := s.require(Qgs2, Vplateau, Vgsth, Qgd, Rg, Vgs)
	if err != nil {
		return 0, err
	}
	qgs2, vp, vth, qgd, rg, vgs := v[0], v[1], v[2], v[3], v[4], v[5]
	t := qgs2/(vgs-(vp+vth)/2) + qgd/(vgs-vp)
	return vds * ids * (s.gate.ROn + rg) / 2 * t * fs, nil
}

// QrrLossAt is qrr*fs*vds.
func (s *Switch) QrrLossAt(fs, vds float64) (float64, error) {
	v, err := s.require(Qrr)
	if err != nil {
		return 0, err
	}
	return v[0] * fs * vds, nil
}

// CapLossAt is 0.5*cosse*fs*vds^2.
func (s *Switch) CapLossAt(fs, vds float64) (float64, error) {
	v, err := s.require(Cosse)
	if err != nil {
		return 0, err
	}
	return 0.5 * v[0] * fs * vds * vds, nil
}

// #endregion loss-formulas

// #region parallel
// Parallel models n devices sharing one driver: rdson/n, charges and
// capacitances times n, rg unchanged. n need not be an integer.
func (s *Switch) Parallel(n float64) (*Switch, error) {
	if math.IsNaN(n) || math.IsInf(n, 0) || n <= 0 {
		return nil, fmt.Errorf("%s: parallel count must be positive, got %g", s.id, n)
	}
	c := s.clone()
	if r, ok := c.params[Rdson]; ok {
		c.params[Rdson] = r / n
	}
	for _, p := range parallelScaled {
		if v, ok := c.params[p]; ok {
			c.params[p] = v * n
		}
	}
	return c, nil
}

// InSeries estimates the part of the same technology with on-resistance rdson.
func (s *Switch) InSeries(rdson float64) (*Switch, error) {
	v, err := s.require(Rdson)
	if err != nil {
		return nil, err
	}
	if rdson <= 0 {
		return nil, fmt.Errorf("%s: target rdson must be positive, got %g", s.id, rdson)
	}
	return s.Parallel(v[0] / rdson)
}

// #endregion parallel

// #region opt-rdson
// OptRdson searches the rdson minimizing this device's own total loss at
// its current operating point. Candidates share the circuit and role but are
// never registered, so the circuit is left untouched.
func (s *Switch) OptRdson() (optimize.Result, error) {
	if !s.Bound() {
		return optimize.Result{}, fmt.Errorf("%s: opt rdson: %w", s.id, ErrUnbound)
	}
	v, err := s.require(Rdson)
	if err != nil {
		return optimize.Result{}, err
	}
	objective := func(r float64) (float64, error) {
		cand, err := s.InSeries(r)
		if err != nil {
			return 0, err
		}
		cand.Bind(s.circuit, s.role, s.quantity)
		return cand.TotalLoss()
	}
	res, err := optimize.GoldenSection(objective, v[0], optimize.DefaultConfig())
	if err != nil {
		return optimize.Result{}, fmt.Errorf("%s: opt rdson: %w", s.id, err)
	}
	return res, nil
}

// Optimized returns the unbound equivalent device at the optimal rdson.
func (s *Switch) Optimized() (*Switch, optimize.Result, error) {
	res, err := s.OptRdson()
	if err != nil {
		return nil, res, err
	}
	opt, err := s.InSeries(res.X)
	if err != nil {
		return nil, res, err
	}
	return opt, res, nil
}

// #endregion opt-rdson

// #region figures-of-merit
// FoM is rdson*qg*kdyn*ktemp.
func (s *Switch) FoM() (float64, error) {
	v, err := s.require(Rdson, Qg, Kdyn, Ktemp)
	if err != nil {
		return 0, err
	}
	return v[0] * v[1] * v[2] * v[3], nil
}

// FoMVgs is FoM weighted by the gate swing.
func (s *Switch) FoMVgs() (float64, error) {
	fom, err := s.FoM()
	if err != nil {
		return 0, err
	}
	v, err := s.require(Vgs, VgsMin)
	if err != nil {
		return 0, err
	}
	return fom * (v[0] - v[1]), nil
}

// NFoM is rdson*cosst*kdyn*ktemp.
func (s *Switch) NFoM() (float64, error) {
	v, err := s.require(Rdson, Cosst, Kdyn, Ktemp)
	if err != nil {
		return 0, err
	}
	return v[0] * v[1] * v[2] * v[3], nil
}

// NFoMoss is rdson*cosse*kdyn*ktemp.
func (s *Switch) NFoMoss() (float64, error) {
	v, err := s.require(Rdson, Cosse, Kdyn, Ktemp)
	if err != nil {
		return 0, err
	}
	return v[0] * v[1] * v[2] * v[3], nil
}

// VF is the body diode forward drop.
func (s *Switch) VF() float64 { return 0.7 }

// #endregion figures-of-merit
