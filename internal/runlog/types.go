package runlog

import "time"

// #region outcome
// Outcome classifies how an evaluation ended.
type Outcome string

const (
	OutcomeOK         Outcome = "ok"
	OutcomeSaturated  Outcome = "saturated"
	OutcomeInvalid    Outcome = "invalid"
	OutcomeIncomplete Outcome = "incomplete"
	OutcomeError      Outcome = "error"
)

// #endregion outcome

// #region entry
// Entry is a single row in the evaluation_log table.
type Entry struct {
	ID         string
	Topology   string
	Parts      []string
	ParamsJSON string
	TotalLoss  float64 // zero unless Outcome is ok
	Efficiency float64
	Outcome    Outcome
	Reason     string
	CreatedAt  time.Time
}

// #endregion entry

// #region snapshot
// Snapshot is the circuit state serialized into evaluation_log.params_json
// so an evaluation can be reproduced from the log alone.
type Snapshot struct {
	Topology string      `json:"topology"`
	Po       float64     `json:"po"`
	Fs       float64     `json:"fs"`
	Roles    []RoleState `json:"roles"`
}

// RoleState is one occupied role and its per-device losses.
type RoleState struct {
	Role     string             `json:"role"`
	Part     string             `json:"part"`
	Quantity int                `json:"quantity"`
	Losses   map[string]float64 `json:"losses,omitempty"`
}

// #endregion snapshot
