package design

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/danielpatrickdp/power-toys/internal/catalog"
	"github.com/danielpatrickdp/power-toys/internal/circuit"
	"github.com/danielpatrickdp/power-toys/internal/component"
)

// ErrUnknownTopology is returned for a topology other than buck or dcx.
var ErrUnknownTopology = errors.New("unknown topology")

// #region design-types

// Design is the top-level JSON structure of a design file.
type Design struct {
	Description string      `json:"description"`
	Topology    string      `json:"topology"` // "buck" | "dcx"
	Buck        *BuckParams `json:"buck,omitempty"`
	DCX         *DCXParams  `json:"dcx,omitempty"`
	Parts       Parts       `json:"parts"`
	GateDrive   *GateDrive  `json:"gate_drive,omitempty"`
}

// BuckParams mirrors circuit.BuckConfig with JSON tags.
type BuckParams struct {
	Vin   float64 `json:"vin"`
	Vo    float64 `json:"vo"`
	Po    float64 `json:"po"`
	Ro    float64 `json:"ro"`
	Fs    float64 `json:"fs"`
	Ncell int     `json:"ncell"`
}

// DCXParams mirrors circuit.DCXConfig with JSON tags.
type DCXParams struct {
	Vin        float64 `json:"vin"`
	Vo         float64 `json:"vo"`
	TurnsRatio float64 `json:"turns_ratio"`
	Fs         float64 `json:"fs"`
	Td         float64 `json:"td"`
	Po         float64 `json:"po"`
	Ro         float64 `json:"ro"`
	Primary    string  `json:"primary"`
	Secondary  string  `json:"secondary"`
}

// Parts names catalog ids per role. Buck uses Active, Passive and Inductor;
// DCX uses Primary and Secondary.
type Parts struct {
	Active         string `json:"active,omitempty"`
	Passive        string `json:"passive,omitempty"`
	Inductor       string `json:"inductor,omitempty"`
	InductorSeries int    `json:"inductor_series,omitempty"`
	Primary        string `json:"primary,omitempty"`
	Secondary      string `json:"secondary,omitempty"`
}

// GateDrive overrides the default driver resistances of every switch.
type GateDrive struct {
	ROn  float64 `json:"r_on"`
	ROff float64 `json:"r_off"`
}

// #endregion design-types

// #region loader

// Load reads and parses a JSON design file.
func Load(path string) (*Design, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read design %s: %w", path, err)
	}
	d, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("design %s: %w", path, err)
	}
	return d, nil
}

// Parse decodes a design and checks that the section for its topology is present.
func Parse(data []byte) (*Design, error) {
	var d Design
	if err := json.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("parse design: %w", err)
	}
	switch d.Topology {
	case "buck":
		if d.Buck == nil {
			return nil, fmt.Errorf("buck design has no \"buck\" section")
		}
	case "dcx":
		if d.DCX == nil {
			return nil, fmt.Errorf("dcx design has no \"dcx\" section")
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownTopology, d.Topology)
	}
	return &d, nil
}

// #endregion loader

// #region build

// Build resolves the design's parts in repo and returns the populated circuit.
// Inductors ask p for their losses.
func Build(d *Design, repo catalog.Repository, p component.LossPredictor) (circuit.Circuit, error) {
	switch d.Topology {
	case "buck":
		return d.buildBuck(repo, p)
	case "dcx":
		return d.buildDCX(repo)
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownTopology, d.Topology)
}

func (d *Design) buildBuck(repo catalog.Repository, p component.LossPredictor) (circuit.Circuit, error) {
	active, err := d.switchPart(repo, "active", d.Parts.Active)
	if err != nil {
		return nil, err
	}
	passive, err := d.switchPart(repo, "passive", d.Parts.Passive)
	if err != nil {
		return nil, err
	}
	if d.Parts.Inductor == "" {
		return nil, fmt.Errorf("design: no inductor part")
	}
	rec, err := repo.Find(d.Parts.Inductor)
	if err != nil {
		return nil, fmt.Errorf("design inductor: %w", err)
	}
	ir, err := rec.AsInductor()
	if err != nil {
		return nil, fmt.Errorf("design inductor %s: %w", d.Parts.Inductor, err)
	}
	ind := ir.NewInductor(p)
	if n := d.Parts.InductorSeries; n > 1 {
		if ind, err = ind.Series(n); err != nil {
			return nil, fmt.Errorf("design inductor: %w", err)
		}
	}

	b := d.Buck
	c, err := circuit.NewBuck(circuit.BuckConfig{
		Vin: b.Vin, Vo: b.Vo, Po: b.Po, Ro: b.Ro, Fs: b.Fs, Ncell: b.Ncell,
	}, active, passive, ind)
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (d *Design) buildDCX(repo catalog.Repository) (circuit.Circuit, error) {
	x := d.DCX
	pri, err := circuit.ParseBridge(x.Primary)
	if err != nil {
		return nil, fmt.Errorf("design primary: %w", err)
	}
	sec, err := circuit.ParseBridge(x.Secondary)
	if err != nil {
		return nil, fmt.Errorf("design secondary: %w", err)
	}
	primary, err := d.switchPart(repo, "primary", d.Parts.Primary)
	if err != nil {
		return nil, err
	}
	secondary, err := d.switchPart(repo, "secondary", d.Parts.Secondary)
	if err != nil {
		return nil, err
	}
	c, err := circuit.NewDCX(circuit.DCXConfig{
		Vin: x.Vin, Vo: x.Vo, TurnsRatio: x.TurnsRatio, Fs: x.Fs, Td: x.Td,
		Po: x.Po, Ro: x.Ro, Primary: pri, Secondary: sec,
	}, primary, secondary, nil)
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (d *Design) switchPart(repo catalog.Repository, role, id string) (*component.Switch, error) {
	if id == "" {
		return nil, fmt.Errorf("design: no %s switch part", role)
	}
	rec, err := repo.Find(id)
	if err != nil {
		return nil, fmt.Errorf("design %s switch: %w", role, err)
	}
	sr, err := rec.AsSwitch()
	if err != nil {
		return nil, fmt.Errorf("design %s switch %s: %w", role, id, err)
	}
	sw := sr.NewSwitch()
	if d.GateDrive != nil {
		sw.SetGateDrive(component.GateDrive{ROn: d.GateDrive.ROn, ROff: d.GateDrive.ROff})
	}
	return sw, nil
}

// #endregion build
