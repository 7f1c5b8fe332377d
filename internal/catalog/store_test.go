package catalog

import (
	"errors"
	"math"
	"path/filepath"
	"testing"

	"github.com/danielpatrickdp/power-toys/internal/component"
)

func tempDB(t *testing.T) *Store {
	t.Helper()
	dir := t.TempDir()
	s, err := NewStore(filepath.Join(dir, "catalog.db"))
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func fullSwitch(id string, vbr float64) SwitchRecord {
	return SwitchRecord{
		ID:        id,
		Footprint: "SuperSO8",
		Params: map[component.SwitchParam]float64{
			component.Rdson: 2.6e-3, component.Vbr: vbr, component.Vgsth: 3.0, component.Rg: 1.3,
			component.Qg: 61e-9, component.Qgd: 15.57e-9, component.QgSoft: 40e-9,
			component.Cosse: 700e-12, component.Cosst: 1100e-12, component.Qrr: 94e-9,
			component.Qgs2: 6.15e-9, component.Vplateau: 4.5, component.Kdyn: 1.0, component.Ktemp: 1.3,
			component.Vgs: 10, component.VgsMin: 0,
		},
	}
}

func testInductorRecord() InductorRecord {
	return InductorRecord{
		ID: "XGL6060-103", Inductance: 10e-6, Isat: 12.4,
		Length: 6.56e-3, Width: 6.36e-3, Height: 6.1e-3, DCR: 12.5e-3,
	}
}

func TestSaveAndFindSwitch(t *testing.T) {
	s := tempDB(t)
	rec := fullSwitch("BSC026N08NS5", 80)
	delete(rec.Params, component.Qrr)

	if err := s.SaveSwitch(rec); err != nil {
		t.Fatalf("SaveSwitch: %v", err)
	}
	got, err := s.FindSwitch("BSC026N08NS5")
	if err != nil {
		t.Fatalf("FindSwitch: %v", err)
	}
	if got.Footprint != "SuperSO8" {
		t.Errorf("footprint: got %q", got.Footprint)
	}
	if _, ok := got.Params[component.Qrr]; ok {
		t.Error("NULL qrr should stay unset")
	}
	if got.Params[component.Qgd] != 15.57e-9 {
		t.Errorf("qgd: got %g", got.Params[component.Qgd])
	}

	// unset stays unset all the way to the loss formula
	sw := got.NewSwitch()
	if _, err := sw.QrrLossAt(1e5, 24); !errors.Is(err, component.ErrParameterIncomplete) {
		t.Errorf("expected ParameterIncomplete, got %v", err)
	}
}

func TestSaveSwitchUpserts(t *testing.T) {
	s := tempDB(t)
	rec := fullSwitch("Q1", 80)
	if err := s.SaveSwitch(rec); err != nil {
		t.Fatalf("SaveSwitch: %v", err)
	}
	rec.Params[component.Rdson] = 3e-3
	if err := s.SaveSwitch(rec); err != nil {
		t.Fatalf("SaveSwitch again: %v", err)
	}
	got, _ := s.FindSwitch("Q1")
	if got.Params[component.Rdson] != 3e-3 {
		t.Errorf("expected updated rdson, got %g", got.Params[component.Rdson])
	}
	all, _ := s.ListSwitches(0)
	if len(all) != 1 {
		t.Errorf("expected 1 row, got %d", len(all))
	}
}

func TestFindDispatch(t *testing.T) {
	s := tempDB(t)
	if err := s.SaveSwitch(fullSwitch("Q1", 80)); err != nil {
		t.Fatalf("SaveSwitch: %v", err)
	}
	if err := s.SaveInductor(testInductorRecord()); err != nil {
		t.Fatalf("SaveInductor: %v", err)
	}

	rec, err := s.Find("Q1")
	if err != nil || rec.Kind != KindSwitch {
		t.Fatalf("expected switch, got %v (%v)", rec.Kind, err)
	}
	if _, err := rec.AsInductor(); err == nil {
		t.Error("AsInductor on a switch record should fail")
	}

	rec, err = s.Find("XGL6060-103")
	if err != nil || rec.Kind != KindInductor {
		t.Fatalf("expected inductor, got %v (%v)", rec.Kind, err)
	}
	ir, err := rec.AsInductor()
	if err != nil {
		t.Fatalf("AsInductor: %v", err)
	}
	l := ir.NewInductor(nil)
	if l.Inductance() != 10e-6 || l.Isat() != 12.4 {
		t.Errorf("unexpected inductor %+v", l.Spec())
	}

	if _, err := s.Find("nope"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestListSwitchesByVbr(t *testing.T) {
	s := tempDB(t)
	for _, r := range []SwitchRecord{fullSwitch("A40", 40), fullSwitch("B80", 80), fullSwitch("C100", 100)} {
		if err := s.SaveSwitch(r); err != nil {
			t.Fatalf("SaveSwitch: %v", err)
		}
	}
	got, err := s.ListSwitches(80)
	if err != nil {
		t.Fatalf("ListSwitches: %v", err)
	}
	if len(got) != 2 || got[0].ID != "B80" || got[1].ID != "C100" {
		t.Errorf("unexpected list %v", got)
	}
}

func TestRepair(t *testing.T) {
	s := tempDB(t)
	if err := s.SaveSwitch(SwitchRecord{ID: "bare", Params: map[component.SwitchParam]float64{component.Rdson: 1e-3}}); err != nil {
		t.Fatalf("SaveSwitch: %v", err)
	}
	if err := s.SaveSwitch(fullSwitch("full", 80)); err != nil {
		t.Fatalf("SaveSwitch: %v", err)
	}
	if _, err := s.DB().Exec("UPDATE switches SET footprint = NULL WHERE id = 'bare'"); err != nil {
		t.Fatalf("null footprint: %v", err)
	}

	n, err := s.Repair()
	if err != nil {
		t.Fatalf("Repair: %v", err)
	}
	if n != 1 {
		t.Errorf("expected 1 repaired row, got %d", n)
	}
	got, _ := s.FindSwitch("bare")
	if len(got.Params) != len(component.SwitchParams) {
		t.Errorf("expected all params set after repair, got %d", len(got.Params))
	}
	if got.Params[component.Qg] != 0 || got.Params[component.Rdson] != 1e-3 {
		t.Errorf("repair should zero NULLs only: %v", got.Params)
	}

	if n, _ := s.Repair(); n != 0 {
		t.Errorf("second repair touched %d rows", n)
	}
}

func TestXLSXRoundTrip(t *testing.T) {
	src := tempDB(t)
	partial := fullSwitch("partial", 60)
	delete(partial.Params, component.QgSoft)
	for _, r := range []SwitchRecord{fullSwitch("Q1", 80), partial} {
		if err := src.SaveSwitch(r); err != nil {
			t.Fatalf("SaveSwitch: %v", err)
		}
	}
	if err := src.SaveInductor(testInductorRecord()); err != nil {
		t.Fatalf("SaveInductor: %v", err)
	}

	path := filepath.Join(t.TempDir(), "catalog.xlsx")
	if err := src.ExportXLSX(path); err != nil {
		t.Fatalf("ExportXLSX: %v", err)
	}

	dst := tempDB(t)
	if err := dst.SaveSwitch(fullSwitch("Q1", 100)); err != nil {
		t.Fatalf("SaveSwitch: %v", err)
	}
	rep, err := dst.ImportXLSX(path)
	if err != nil {
		t.Fatalf("ImportXLSX: %v", err)
	}
	if len(rep.Added) != 2 || len(rep.Skipped) != 1 || rep.Skipped[0] != "Q1" {
		t.Errorf("unexpected report %+v", rep)
	}

	q1, _ := dst.FindSwitch("Q1")
	if q1.Params[component.Vbr] != 100 {
		t.Errorf("existing row must not be overwritten, vbr %g", q1.Params[component.Vbr])
	}
	p, err := dst.FindSwitch("partial")
	if err != nil {
		t.Fatalf("FindSwitch: %v", err)
	}
	if _, ok := p.Params[component.QgSoft]; ok {
		t.Error("blank cell should import as unset")
	}
	if math.Abs(p.Params[component.Qgs2]-6.15e-9) > 1e-20 {
		t.Errorf("qgs2: got %g", p.Params[component.Qgs2])
	}
	ind, err := dst.FindInductor("XGL6060-103")
	if err != nil {
		t.Fatalf("FindInductor: %v", err)
	}
	if ind != testInductorRecord() {
		t.Errorf("inductor round trip: got %+v", ind)
	}

	if err := src.ExportXLSX(filepath.Join(t.TempDir(), "catalog.csv")); err == nil {
		t.Error("expected error for non-xlsx path")
	}
}
