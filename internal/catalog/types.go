package catalog

import (
	"errors"
	"fmt"

	"github.com/danielpatrickdp/power-toys/internal/component"
)

// ErrNotFound is returned when no part carries the requested id.
var ErrNotFound = errors.New("part not found")

// #region kind
// Kind tells which table a record came from.
type Kind string

const (
	KindSwitch   Kind = "switch"
	KindInductor Kind = "inductor"
)

// #endregion kind

// #region records
// SwitchRecord is one MOSFET row. A parameter absent from Params is NULL in
// the database.
type SwitchRecord struct {
	ID        string
	Footprint string
	Params    map[component.SwitchParam]float64
}

// InductorRecord is one inductor row in SI units. Zero means unknown.
type InductorRecord struct {
	ID         string
	Inductance float64
	Isat       float64
	Length     float64
	Width      float64
	Height     float64
	DCR        float64
}

// Record is the result of a lookup by id. Exactly one of Switch and
// Inductor is set, according to Kind.
type Record struct {
	Kind     Kind
	Switch   *SwitchRecord
	Inductor *InductorRecord
}

// #endregion records

// #region repository
// Repository resolves catalog ids to immutable records.
type Repository interface {
	Find(id string) (Record, error)
}

// #endregion repository

// #region builders
// NewSwitch builds an unregistered switch from the record.
func (r SwitchRecord) NewSwitch() *component.Switch {
	return component.NewSwitch(r.ID, r.Params, r.Footprint)
}

// NewInductor builds an unregistered inductor that asks p for its losses.
func (r InductorRecord) NewInductor(p component.LossPredictor) *component.Inductor {
	return component.NewInductor(component.InductorSpec{
		ID:         r.ID,
		Inductance: r.Inductance,
		Isat:       r.Isat,
		Length:     r.Length,
		Width:      r.Width,
		Height:     r.Height,
		DCR:        r.DCR,
	}, p)
}

// AsSwitch returns the switch record or an error naming the actual kind.
func (r Record) AsSwitch() (SwitchRecord, error) {
	if r.Kind != KindSwitch || r.Switch == nil {
		return SwitchRecord{}, fmt.Errorf("catalog: record is a %s, not a switch", r.Kind)
	}
	return *r.Switch, nil
}

// AsInductor returns the inductor record or an error naming the actual kind.
func (r Record) AsInductor() (InductorRecord, error) {
	if r.Kind != KindInductor || r.Inductor == nil {
		return InductorRecord{}, fmt.Errorf("catalog: record is a %s, not an inductor", r.Kind)
	}
	return *r.Inductor, nil
}

// #endregion builders

// #region import-report
// ImportReport lists what an xlsx import did per id.
type ImportReport struct {
	Added   []string
	Skipped []string // already present, left untouched
}

// #endregion import-report
