package runlog

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/danielpatrickdp/power-toys/internal/circuit"
	"github.com/danielpatrickdp/power-toys/internal/component"
)

// #region log-evaluation
// LogEvaluation writes an entry to the evaluation_log table and returns its id.
func LogEvaluation(db *sql.DB, entry Entry) (string, error) {
	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}
	if entry.Outcome == "" {
		entry.Outcome = OutcomeOK
	}

	var loss, eff interface{}
	if entry.Outcome == OutcomeOK {
		loss, eff = entry.TotalLoss, entry.Efficiency
	}

	_, err := db.Exec(
		`INSERT INTO evaluation_log (id, topology, parts, params_json, total_loss, efficiency, outcome, reason, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		entry.ID,
		entry.Topology,
		strings.Join(entry.Parts, ","),
		nullIfEmpty(entry.ParamsJSON),
		loss,
		eff,
		string(entry.Outcome),
		nullIfEmpty(entry.Reason),
		entry.CreatedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return "", fmt.Errorf("log evaluation: %w", err)
	}
	return entry.ID, nil
}

// #endregion log-evaluation

// #region recent
// Recent returns up to limit entries, newest first.
func Recent(db *sql.DB, limit int) ([]Entry, error) {
	rows, err := db.Query(
		`SELECT id, topology, parts, params_json, total_loss, efficiency, outcome, reason, created_at
		 FROM evaluation_log ORDER BY created_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query evaluation log: %w", err)
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var (
			e              Entry
			parts, created string
			params, reason sql.NullString
			loss, eff      sql.NullFloat64
			outcome        string
		)
		if err := rows.Scan(&e.ID, &e.Topology, &parts, &params, &loss, &eff, &outcome, &reason, &created); err != nil {
			return nil, fmt.Errorf("scan evaluation: %w", err)
		}
		if parts != "" {
			e.Parts = strings.Split(parts, ",")
		}
		e.ParamsJSON = params.String
		e.TotalLoss = loss.Float64
		e.Efficiency = eff.Float64
		e.Outcome = Outcome(outcome)
		e.Reason = reason.String
		if e.CreatedAt, err = time.Parse(time.RFC3339Nano, created); err != nil {
			return nil, fmt.Errorf("parse created_at %q: %w", created, err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// #endregion recent

// #region from-circuit
// Classify maps an evaluation error to its outcome.
func Classify(err error) Outcome {
	switch {
	case err == nil:
		return OutcomeOK
	case errors.Is(err, component.ErrSaturated):
		return OutcomeSaturated
	case errors.Is(err, circuit.ErrInvalidTopology):
		return OutcomeInvalid
	case errors.Is(err, component.ErrParameterIncomplete):
		return OutcomeIncomplete
	default:
		return OutcomeError
	}
}

// Evaluate computes total loss and efficiency of c and packages the result,
// including failures, as a log entry.
func Evaluate(c circuit.Circuit) Entry {
	entry := Entry{Topology: c.Name()}

	snap := Snapshot{Topology: c.Name(), Po: c.Po(), Fs: c.Fs()}
	for _, role := range c.Roles() {
		comp, ok := c.Component(role)
		if !ok {
			continue
		}
		entry.Parts = append(entry.Parts, comp.ID())
		rs := RoleState{Role: c.RoleName(role), Part: comp.ID(), Quantity: comp.Quantity()}
		if losses, err := c.LossBreakdown(comp); err == nil && len(losses) > 0 {
			rs.Losses = make(map[string]float64, len(losses))
			for name, v := range losses {
				rs.Losses[string(name)] = v
			}
		}
		snap.Roles = append(snap.Roles, rs)
	}
	if b, err := json.Marshal(snap); err == nil {
		entry.ParamsJSON = string(b)
	}

	total, err := c.TotalLoss()
	if err == nil {
		entry.TotalLoss = total
		entry.Efficiency, err = c.Efficiency()
	}
	entry.Outcome = Classify(err)
	if err != nil {
		entry.Reason = err.Error()
	}
	return entry
}

// #endregion from-circuit

// #region helpers
func nullIfEmpty(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

// #endregion helpers
