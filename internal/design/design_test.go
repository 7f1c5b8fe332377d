package design

import (
	"context"
	"errors"
	"math"
	"path/filepath"
	"testing"

	"github.com/danielpatrickdp/power-toys/internal/catalog"
	"github.com/danielpatrickdp/power-toys/internal/circuit"
	"github.com/danielpatrickdp/power-toys/internal/component"
)

// #region helpers
type fitPredictor struct{}

func (fitPredictor) Predict(_ context.Context, q component.Query) (component.Prediction, error) {
	return component.Prediction{
		DCLoss:      1.3765,
		ACLoss:      0.3242928 * math.Pow(q.Frequency/200e3, -3.1417),
		Temperature: 56,
	}, nil
}

func seededStore(t *testing.T) *catalog.Store {
	t.Helper()
	s, err := catalog.NewStore(filepath.Join(t.TempDir(), "parts.db"))
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	t.Cleanup(func() { s.Close() })

	err = s.SaveSwitch(catalog.SwitchRecord{
		ID:        "BSC026N08NS5",
		Footprint: "SuperSO8",
		Params: map[component.SwitchParam]float64{
			component.Rdson: 2.6e-3, component.Vbr: 80, component.Vgsth: 3.0, component.Rg: 1.3,
			component.Qg: 61e-9, component.Qgd: 15.57e-9, component.QgSoft: 40e-9,
			component.Cosse: 700e-12, component.Cosst: 1100e-12, component.Qrr: 94e-9,
			component.Qgs2: 6.15e-9, component.Vplateau: 4.5, component.Kdyn: 1.0, component.Ktemp: 1.3,
			component.Vgs: 10, component.VgsMin: 0,
		},
	})
	if err != nil {
		t.Fatalf("SaveSwitch: %v", err)
	}
	err = s.SaveInductor(catalog.InductorRecord{
		ID: "XGL6060-103", Inductance: 10e-6, Isat: 20,
		Length: 6.56e-3, Width: 6.36e-3, Height: 6.1e-3, DCR: 12.5e-3,
	})
	if err != nil {
		t.Fatalf("SaveInductor: %v", err)
	}
	return s
}

// #endregion helpers

// #region design-tests

// TestBuild_Buck loads the buck design and checks the total loss against the
// reference operating point.
func TestBuild_Buck(t *testing.T) {
	d, err := Load(filepath.Join("testdata", "buck.json"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	c, err := Build(d, seededStore(t), fitPredictor{})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if c.Name() != "buck" {
		t.Errorf("expected buck, got %s", c.Name())
	}
	total, err := c.TotalLoss()
	if err != nil {
		t.Fatalf("TotalLoss: %v", err)
	}
	if math.Abs(total-3.459242) > 1e-5 {
		t.Errorf("expected total loss 3.459242, got %.6f", total)
	}
}

func TestBuild_DCX(t *testing.T) {
	d, err := Load(filepath.Join("testdata", "dcx.json"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	c, err := Build(d, seededStore(t), nil)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	dcx, ok := c.(*circuit.DCX)
	if !ok {
		t.Fatalf("expected *circuit.DCX, got %T", c)
	}
	if cfg := dcx.Config(); cfg.Primary != circuit.FullBridge || cfg.Secondary != circuit.CenterTap {
		t.Errorf("unexpected bridges %s/%s", cfg.Primary, cfg.Secondary)
	}
	if _, ok := c.Component(circuit.DCXTransformer); !ok {
		t.Error("expected a designed transformer")
	}

	comp, _ := c.Component(circuit.PrimarySwitch)
	sw := comp.(*component.Switch)
	plain := catalog.SwitchRecord{ID: "x", Params: sw.Params()}.NewSwitch()
	want, _ := plain.SwitchOffLossAt(500e3, 48, 10)
	got, _ := sw.SwitchOffLossAt(500e3, 48, 10)
	if got <= want {
		t.Errorf("slower turn-off driver should raise switching loss: %g vs %g", got, want)
	}
}

func TestBuild_InductorSeries(t *testing.T) {
	d, err := Load(filepath.Join("testdata", "buck.json"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	d.Parts.InductorSeries = 2
	c, err := Build(d, seededStore(t), fitPredictor{})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	comp, _ := c.Component(circuit.BuckInductor)
	if got := comp.(*component.Inductor).Inductance(); got != 20e-6 {
		t.Errorf("expected 20uH, got %g", got)
	}
}

func TestBuild_MissingPart(t *testing.T) {
	d, _ := Load(filepath.Join("testdata", "buck.json"))
	d.Parts.Passive = "NOPE"
	if _, err := Build(d, seededStore(t), fitPredictor{}); !errors.Is(err, catalog.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}

	d.Parts.Passive = "XGL6060-103"
	if _, err := Build(d, seededStore(t), fitPredictor{}); err == nil {
		t.Error("expected kind mismatch when an inductor is used as a switch")
	}
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"bad json", `{`},
		{"unknown topology", `{"topology":"flyback"}`},
		{"missing buck section", `{"topology":"buck"}`},
		{"missing dcx section", `{"topology":"dcx"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Parse([]byte(tt.data)); err == nil {
				t.Error("expected error")
			}
		})
	}
	if _, err := Parse([]byte(`{"topology":"flyback"}`)); !errors.Is(err, ErrUnknownTopology) {
		t.Errorf("expected ErrUnknownTopology, got %v", err)
	}
}

// #endregion design-tests
