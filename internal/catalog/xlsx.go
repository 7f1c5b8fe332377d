package catalog

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/danielpatrickdp/power-toys/internal/component"
)

const (
	switchSheet   = "MOSFET"
	inductorSheet = "Inductor"
)

// #region export
// ExportXLSX writes both tables to an xlsx workbook, one sheet per table.
// NULL values are left as empty cells.
func (s *Store) ExportXLSX(path string) error {
	if !strings.HasSuffix(strings.ToLower(path), ".xlsx") {
		return fmt.Errorf("export: %q is not an .xlsx path", path)
	}
	switches, err := s.ListSwitches(0)
	if err != nil {
		return err
	}
	inductors, err := s.ListInductors()
	if err != nil {
		return err
	}

	f := excelize.NewFile()
	defer f.Close()

	f.SetSheetName("Sheet1", switchSheet)
	header := []string{"id", "footprint"}
	for _, p := range component.SwitchParams {
		header = append(header, string(p))
	}
	writeHeader(f, switchSheet, header)
	for i, rec := range switches {
		row := i + 2
		setCell(f, switchSheet, 1, row, rec.ID)
		setCell(f, switchSheet, 2, row, rec.Footprint)
		for j, p := range component.SwitchParams {
			if v, ok := rec.Params[p]; ok {
				setCell(f, switchSheet, j+3, row, v)
			}
		}
	}

	if _, err := f.NewSheet(inductorSheet); err != nil {
		return fmt.Errorf("export: %w", err)
	}
	writeHeader(f, inductorSheet, append([]string{"id"}, inductorColumns...))
	for i, rec := range inductors {
		row := i + 2
		vals := []any{rec.ID, rec.Inductance, rec.Isat, rec.Length, rec.Width, rec.Height, rec.DCR}
		for j, v := range vals {
			setCell(f, inductorSheet, j+1, row, v)
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("export %s: %w", path, err)
	}
	return nil
}

func writeHeader(f *excelize.File, sheet string, names []string) {
	for i, n := range names {
		setCell(f, sheet, i+1, 1, n)
	}
}

func setCell(f *excelize.File, sheet string, col, row int, v any) {
	cell, _ := excelize.CoordinatesToCellName(col, row)
	f.SetCellValue(sheet, cell, v)
}

// #endregion export

// #region import
// ImportXLSX appends rows from a workbook written by ExportXLSX (or by hand
// with the same headers). Ids already in the store are skipped, not updated.
func (s *Store) ImportXLSX(path string) (ImportReport, error) {
	var rep ImportReport
	f, err := excelize.OpenFile(path)
	if err != nil {
		return rep, fmt.Errorf("import %s: %w", path, err)
	}
	defer f.Close()

	if idx, err := f.GetSheetIndex(switchSheet); err == nil && idx >= 0 {
		rows, err := f.GetRows(switchSheet, excelize.Options{RawCellValue: true})
		if err != nil {
			return rep, fmt.Errorf("import %s: %w", switchSheet, err)
		}
		if err := s.importSwitches(rows, &rep); err != nil {
			return rep, err
		}
	}
	if idx, err := f.GetSheetIndex(inductorSheet); err == nil && idx >= 0 {
		rows, err := f.GetRows(inductorSheet, excelize.Options{RawCellValue: true})
		if err != nil {
			return rep, fmt.Errorf("import %s: %w", inductorSheet, err)
		}
		if err := s.importInductors(rows, &rep); err != nil {
			return rep, err
		}
	}
	return rep, nil
}

type sheetRow struct {
	cols map[string]int
	vals []string
	line int
}

func (r sheetRow) str(name string) string {
	i, ok := r.cols[name]
	if !ok || i >= len(r.vals) {
		return ""
	}
	return strings.TrimSpace(r.vals[i])
}

// float returns ok=false for a blank cell.
func (r sheetRow) float(name string) (float64, bool, error) {
	s := r.str(name)
	if s == "" {
		return 0, false, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false, fmt.Errorf("row %d column %s: %w", r.line, name, err)
	}
	return v, true, nil
}

func headerIndex(header []string) (map[string]int, error) {
	cols := make(map[string]int, len(header))
	for i, h := range header {
		cols[strings.ToLower(strings.TrimSpace(h))] = i
	}
	if _, ok := cols["id"]; !ok {
		return nil, fmt.Errorf("missing id column")
	}
	return cols, nil
}

func (s *Store) importSwitches(rows [][]string, rep *ImportReport) error {
	if len(rows) == 0 {
		return nil
	}
	cols, err := headerIndex(rows[0])
	if err != nil {
		return fmt.Errorf("import %s: %w", switchSheet, err)
	}
	for i, vals := range rows[1:] {
		r := sheetRow{cols: cols, vals: vals, line: i + 2}
		id := r.str("id")
		if id == "" {
			continue
		}
		found, err := s.exists("switches", id)
		if err != nil {
			return err
		}
		if found {
			rep.Skipped = append(rep.Skipped, id)
			continue
		}
		rec := SwitchRecord{ID: id, Footprint: r.str("footprint"), Params: map[component.SwitchParam]float64{}}
		for _, p := range component.SwitchParams {
			v, ok, err := r.float(string(p))
			if err != nil {
				return fmt.Errorf("import %s: %w", switchSheet, err)
			}
			if ok {
				rec.Params[p] = v
			}
		}
		if err := s.SaveSwitch(rec); err != nil {
			return err
		}
		rep.Added = append(rep.Added, id)
	}
	return nil
}

func (s *Store) importInductors(rows [][]string, rep *ImportReport) error {
	if len(rows) == 0 {
		return nil
	}
	cols, err := headerIndex(rows[0])
	if err != nil {
		return fmt.Errorf("import %s: %w", inductorSheet, err)
	}
	for i, vals := range rows[1:] {
		r := sheetRow{cols: cols, vals: vals, line: i + 2}
		id := r.str("id")
		if id == "" {
			continue
		}
		found, err := s.exists("inductors", id)
		if err != nil {
			return err
		}
		if found {
			rep.Skipped = append(rep.Skipped, id)
			continue
		}
		rec := InductorRecord{ID: id}
		dst := []*float64{&rec.Inductance, &rec.Isat, &rec.Length, &rec.Width, &rec.Height, &rec.DCR}
		for j, c := range inductorColumns {
			v, _, err := r.float(c)
			if err != nil {
				return fmt.Errorf("import %s: %w", inductorSheet, err)
			}
			*dst[j] = v
		}
		if err := s.SaveInductor(rec); err != nil {
			return err
		}
		rep.Added = append(rep.Added, id)
	}
	return nil
}

// #endregion import
