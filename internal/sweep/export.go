package sweep

import (
	"encoding/csv"
	"fmt"
	"os"
	"strings"

	"github.com/xuri/excelize/v2"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

func fmt4(x float64) string { return fmt.Sprintf("%.4g", x) }

func (r Result) header() []string {
	h := []string{r.Axis.Label(), "total_loss [W]", "efficiency"}
	for _, role := range r.Roles {
		h = append(h, role+" [W]")
	}
	return append(h, "status")
}

// #region xlsx
// SaveXLSX writes a Summary sheet and a Sweep sheet with one row per point.
// Values are stored in base units.
func (r Result) SaveXLSX(filename string) error {
	if !strings.HasSuffix(strings.ToLower(filename), ".xlsx") {
		return fmt.Errorf("save sweep: %s is not an .xlsx file", filename)
	}
	f := excelize.NewFile()
	defer f.Close()

	summary := "Summary"
	f.SetSheetName("Sheet1", summary)
	f.SetCellValue(summary, "A1", "Topology")
	f.SetCellValue(summary, "B1", r.Topology)
	f.SetCellValue(summary, "A2", "Axis")
	f.SetCellValue(summary, "B2", string(r.Axis))
	f.SetCellValue(summary, "A3", "Points")
	f.SetCellValue(summary, "B3", len(r.Points))
	if best, ok := r.Best(); ok {
		f.SetCellValue(summary, "A4", "Best "+string(r.Axis))
		f.SetCellValue(summary, "B4", best.X)
		f.SetCellValue(summary, "A5", "Best efficiency")
		f.SetCellValue(summary, "B5", best.Efficiency)
	}

	sheet := "Sweep"
	if _, err := f.NewSheet(sheet); err != nil {
		return fmt.Errorf("new sheet: %w", err)
	}
	for col, h := range r.header() {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		f.SetCellValue(sheet, cell, h)
	}
	for i, p := range r.Points {
		row := i + 2
		vals := []any{p.X}
		if p.Status == StatusOK {
			vals = append(vals, p.TotalLoss, p.Efficiency)
			for _, v := range p.RoleLoss {
				vals = append(vals, v)
			}
		} else {
			for range 2 + len(r.Roles) {
				vals = append(vals, nil)
			}
		}
		vals = append(vals, string(p.Status))
		for col, v := range vals {
			if v == nil {
				continue
			}
			cell, _ := excelize.CoordinatesToCellName(col+1, row)
			f.SetCellValue(sheet, cell, v)
		}
	}

	if err := f.SaveAs(filename); err != nil {
		return fmt.Errorf("save %s: %w", filename, err)
	}
	return nil
}

// #endregion xlsx

// #region tsv
// SaveTSV writes the sweep as tab-separated text. Failed points keep their
// x value and status with empty loss columns.
func (r Result) SaveTSV(filename string) error {
	fp, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer fp.Close()

	w := csv.NewWriter(fp)
	w.Comma = '\t'

	if err := w.Write(r.header()); err != nil {
		return err
	}
	for _, p := range r.Points {
		row := []string{fmt4(p.X)}
		if p.Status == StatusOK {
			row = append(row, fmt4(p.TotalLoss), fmt.Sprintf("%.6f", p.Efficiency))
			for _, v := range p.RoleLoss {
				row = append(row, fmt4(v))
			}
		} else {
			row = append(row, make([]string, 2+len(r.Roles))...)
		}
		row = append(row, string(p.Status))
		if err := w.Write(row); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}

// #endregion tsv

// #region plot
// PlotPNG draws efficiency against the swept axis. Only ok points are drawn.
func (r Result) PlotPNG(filename string) error {
	var pts plotter.XYs
	for _, p := range r.Points {
		if p.Status == StatusOK {
			pts = append(pts, plotter.XY{X: p.X, Y: p.Efficiency})
		}
	}
	if len(pts) == 0 {
		return fmt.Errorf("plot %s sweep: no evaluable points", r.Topology)
	}

	p := plot.New()
	p.Title.Text = fmt.Sprintf("%s efficiency vs %s", r.Topology, r.Axis)
	p.X.Label.Text = r.Axis.Label()
	p.Y.Label.Text = "efficiency"
	p.Add(plotter.NewGrid())

	line, points, err := plotter.NewLinePoints(pts)
	if err != nil {
		return fmt.Errorf("plot line: %w", err)
	}
	p.Add(line, points)

	if err := p.Save(6*vg.Inch, 4*vg.Inch, filename); err != nil {
		return fmt.Errorf("save %s: %w", filename, err)
	}
	return nil
}

// #endregion plot
