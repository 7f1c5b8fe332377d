package component

import (
	"context"
	"errors"
	"fmt"
)

// ErrNoPredictor is returned when an inductor loss is requested without a predictor attached.
var ErrNoPredictor = errors.New("no loss predictor attached")

// #region inductor-spec
// InductorSpec holds the catalog values of a single inductor. Dimensions are
// in meters, inductance in henry.
type InductorSpec struct {
	ID         string
	Inductance float64
	Isat       float64
	Length     float64
	Width      float64
	Height     float64
	DCR        float64
}

// #endregion inductor-spec

// #region operating-point
// OperatingPoint is what the predictor reported for the inductor at its
// circuit's current state. When Saturated is true the loss fields are zero
// and must not be used.
type OperatingPoint struct {
	DC          float64
	Ripple      float64
	Frequency   float64
	DCLoss      float64
	ACLoss      float64
	Temperature float64
	Saturated   bool
}

// Peak is dc + ripple/2.
func (op OperatingPoint) Peak() float64 { return op.DC + op.Ripple/2 }

// #endregion operating-point

// #region inductor
// Inductor delegates its losses to a LossPredictor. N identical parts can be
// stacked in series, which multiplies inductance, width and DCR.
type Inductor struct {
	Base
	spec      InductorSpec
	series    int
	predictor LossPredictor
}

func NewInductor(spec InductorSpec, p LossPredictor) *Inductor {
	return &Inductor{Base: newBase(), spec: spec, series: 1, predictor: p}
}

func (l *Inductor) ID() string { return l.spec.ID }

// Spec returns the single-part catalog values.
func (l *Inductor) Spec() InductorSpec { return l.spec }

// SeriesCount is the number of stacked parts.
func (l *Inductor) SeriesCount() int { return l.series }

func (l *Inductor) Inductance() float64 { return l.spec.Inductance * float64(l.series) }
func (l *Inductor) Isat() float64       { return l.spec.Isat }
func (l *Inductor) Length() float64     { return l.spec.Length }
func (l *Inductor) Width() float64      { return l.spec.Width * float64(l.series) }
func (l *Inductor) Height() float64     { return l.spec.Height }
func (l *Inductor) DCR() float64        { return l.spec.DCR * float64(l.series) }

// SetPredictor replaces the loss predictor.
func (l *Inductor) SetPredictor(p LossPredictor) { l.predictor = p }

// Series returns an unbound copy made of n stacked parts.
func (l *Inductor) Series(n int) (*Inductor, error) {
	if n < 1 {
		return nil, fmt.Errorf("%s: series count must be >= 1, got %d", l.spec.ID, n)
	}
	c := l.clone()
	c.series = n
	return c, nil
}

func (l *Inductor) Clone() Component { return l.clone() }

func (l *Inductor) clone() *Inductor {
	return &Inductor{Base: newBase(), spec: l.spec, series: l.series, predictor: l.predictor}
}

// #endregion inductor

// #region ripple
// Ripple is the peak-to-peak current from the circuit's volt-seconds.
func (l *Inductor) Ripple() (float64, error) {
	if l.spec.Inductance <= 0 {
		return 0, &ParameterIncompleteError{Component: l.spec.ID, Param: "inductance"}
	}
	vs, err := l.CircuitParam(ParamVoltSec)
	if err != nil {
		return 0, err
	}
	return vs / l.Inductance(), nil
}

// #endregion ripple

// #region operating
// Operating resolves the operating point from the circuit and queries the
// predictor. A peak current above isat is reported with Saturated=true
// without calling the predictor.
func (l *Inductor) Operating(ctx context.Context) (OperatingPoint, error) {
	var op OperatingPoint
	var err error
	if op.DC, err = l.CircuitParam(ParamIave); err != nil {
		return op, err
	}
	if op.Ripple, err = l.CircuitParam(ParamIripple); err != nil {
		return op, err
	}
	if op.Frequency, err = l.CircuitParam(ParamFs); err != nil {
		return op, err
	}
	if l.spec.Isat <= 0 {
		return op, &ParameterIncompleteError{Component: l.spec.ID, Param: "isat"}
	}
	if op.Peak() > l.spec.Isat {
		op.Saturated = true
		return op, nil
	}
	if l.predictor == nil {
		return op, fmt.Errorf("%s: %w", l.spec.ID, ErrNoPredictor)
	}

	pred, err := l.predictor.Predict(ctx, Query{
		PartID:    l.spec.ID,
		DC:        op.DC,
		Ripple:    op.Ripple,
		Frequency: op.Frequency,
		Series:    l.series,
	})
	if err != nil {
		return op, fmt.Errorf("%s: predict: %w", l.spec.ID, err)
	}
	if pred.Saturated {
		op.Saturated = true
		return op, nil
	}
	op.DCLoss = pred.DCLoss
	op.ACLoss = pred.ACLoss
	op.Temperature = pred.Temperature
	return op, nil
}

func (l *Inductor) operating() (OperatingPoint, error) {
	op, err := l.Operating(context.Background())
	if err != nil {
		return op, err
	}
	if op.Saturated {
		return op, &SaturationError{Component: l.spec.ID, Peak: op.Peak(), Isat: l.spec.Isat}
	}
	return op, nil
}

// Temperature is the predicted part temperature in degC.
func (l *Inductor) Temperature() (float64, error) {
	op, err := l.operating()
	if err != nil {
		return 0, err
	}
	return op.Temperature, nil
}

// #endregion operating

// #region component-interface
func (l *Inductor) LossNames() []LossName {
	return []LossName{LossDC, LossAC}
}

func (l *Inductor) Loss(name LossName) (float64, error) {
	if !hasLoss(l.LossNames(), name) {
		return 0, fmt.Errorf("%s: %w: %s", l.spec.ID, ErrUnknownLoss, name)
	}
	op, err := l.operating()
	if err != nil {
		return 0, err
	}
	if name == LossDC {
		return op.DCLoss, nil
	}
	return op.ACLoss, nil
}

func (l *Inductor) TotalLoss() (float64, error) { return sumLosses(l) }

func (l *Inductor) Area() (float64, error) {
	if l.spec.Length <= 0 {
		return 0, &ParameterIncompleteError{Component: l.spec.ID, Param: "length"}
	}
	if l.spec.Width <= 0 {
		return 0, &ParameterIncompleteError{Component: l.spec.ID, Param: "width"}
	}
	return l.Length() * l.Width(), nil
}

func (l *Inductor) Volume() (float64, error) {
	a, err := l.Area()
	if err != nil {
		return 0, err
	}
	if l.spec.Height <= 0 {
		return 0, &ParameterIncompleteError{Component: l.spec.ID, Param: "height"}
	}
	return a * l.Height(), nil
}

// #endregion component-interface
