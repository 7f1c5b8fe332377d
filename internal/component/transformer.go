package component

import "fmt"

// Transformer carries the turns ratio and magnetizing inductance of a DCX
// stage. Winding and core losses are not modeled.
type Transformer struct {
	Base
	id         string
	turnsRatio float64
	lm         float64
}

func NewTransformer(id string, turnsRatio, lm float64) *Transformer {
	return &Transformer{Base: newBase(), id: id, turnsRatio: turnsRatio, lm: lm}
}

func (t *Transformer) ID() string          { return t.id }
func (t *Transformer) TurnsRatio() float64 { return t.turnsRatio }

// Lm is the magnetizing inductance in henry.
func (t *Transformer) Lm() float64 { return t.lm }

// Irms is the winding rms current the circuit reports for this role.
func (t *Transformer) Irms() (float64, error) {
	return t.CircuitParam(ParamIrms)
}

func (t *Transformer) LossNames() []LossName { return nil }

func (t *Transformer) Loss(name LossName) (float64, error) {
	return 0, fmt.Errorf("%s: %w: %s", t.id, ErrUnknownLoss, name)
}

func (t *Transformer) TotalLoss() (float64, error) { return 0, nil }

func (t *Transformer) Area() (float64, error) {
	return 0, &ParameterIncompleteError{Component: t.id, Param: "area"}
}

func (t *Transformer) Volume() (float64, error) {
	return 0, &ParameterIncompleteError{Component: t.id, Param: "volume"}
}

func (t *Transformer) Clone() Component {
	return NewTransformer(t.id, t.turnsRatio, t.lm)
}
