package component

import "context"

// #region role
// Role is a component's slot inside its circuit. Values are defined by each
// topology; a component that was never registered has role Unassigned.
type Role int

// Unassigned marks a component that is not registered in any circuit.
const Unassigned Role = -1

// #endregion role

// #region param
// Param names an operating condition a component asks its circuit for.
type Param string

const (
	ParamFs         Param = "fs"
	ParamIrms       Param = "irms"
	ParamOnVoltage  Param = "on_voltage"
	ParamOnCurrent  Param = "on_current"
	ParamOffVoltage Param = "off_voltage"
	ParamOffCurrent Param = "off_current"
	ParamQrrVoltage Param = "qrr_voltage"
	ParamCapVoltage Param = "cap_voltage"
	ParamIave       Param = "iave"
	ParamIripple    Param = "iripple"
	ParamVoltSec    Param = "volt_sec"
)

// #endregion param

// #region loss-name
// LossName identifies one loss mechanism of a component.
type LossName string

const (
	LossConduction LossName = "con_loss"
	LossDrive      LossName = "dri_loss"
	LossCapacitive LossName = "cap_loss"
	LossSwitchOff  LossName = "switch_off_loss"
	LossSwitchOn   LossName = "switch_on_loss"
	LossQrr        LossName = "qrr_loss"
	LossDC         LossName = "loss_dc"
	LossAC         LossName = "loss_ac"
)

// #endregion loss-name

// #region interfaces
// Resolver answers operating-condition queries for a role. Circuits implement it.
type Resolver interface {
	Param(role Role, name Param) (float64, error)
}

// Component is a loss-bearing part that can be registered into a circuit.
type Component interface {
	ID() string
	Role() Role
	Quantity() int
	LossNames() []LossName
	Loss(name LossName) (float64, error)
	TotalLoss() (float64, error)
	Area() (float64, error)
	Volume() (float64, error)
	// Bind attaches the component to a resolver in the given slot.
	Bind(r Resolver, role Role, quantity int)
	Unbind()
	Circuit() Resolver
	// Clone returns an independent, unbound copy.
	Clone() Component
}

// #endregion interfaces

// #region predictor
// Query is one inductor operating point sent to a loss predictor.
type Query struct {
	PartID    string
	DC        float64 // A
	Ripple    float64 // A peak-to-peak
	Frequency float64 // Hz
	Series    int     // stacked parts sharing the current; 0 means 1
}

// Parts is the stack size the prediction covers.
func (q Query) Parts() int {
	if q.Series < 1 {
		return 1
	}
	return q.Series
}

// Prediction is the predictor's answer for a Query. Losses cover the whole
// stack; Temperature is that of a single part.
type Prediction struct {
	DCLoss      float64 // W
	ACLoss      float64 // W
	Temperature float64 // degC
	Saturated   bool
}

// LossPredictor estimates inductor losses for parts without a closed-form model.
type LossPredictor interface {
	Predict(ctx context.Context, q Query) (Prediction, error)
}

// #endregion predictor
