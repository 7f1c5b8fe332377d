package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/danielpatrickdp/power-toys/internal/design"
	"github.com/danielpatrickdp/power-toys/internal/sweep"
)

// Sweep flags
var (
	sweepAxis   string
	sweepFrom   float64
	sweepTo     float64
	sweepPoints int
	sweepLog    bool
	sweepXLSX   string
	sweepTSV    string
	sweepPNG    string
)

var sweepCmd = &cobra.Command{
	Use:   "sweep <design.json>",
	Short: "Sweep a design over switching frequency or output power",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := design.Load(args[0])
		if err != nil {
			return err
		}

		span := sweep.Span
		if sweepLog {
			span = sweep.LogSpan
		}
		xs, err := span(sweepFrom, sweepTo, sweepPoints)
		if err != nil {
			return err
		}

		store, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()
		pred, closePred, err := newPredictor(store)
		if err != nil {
			return err
		}
		defer closePred()

		c, err := design.Build(d, store, pred)
		if err != nil {
			return err
		}

		var res sweep.Result
		switch sweep.Axis(sweepAxis) {
		case sweep.AxisFs:
			res, err = sweep.Frequency(c, xs)
		case sweep.AxisPo:
			res, err = sweep.Power(c, xs)
		default:
			return fmt.Errorf("unknown sweep axis %q (want fs or po)", sweepAxis)
		}
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		fmt.Fprintf(w, "%s\tLOSS [W]\tEFFICIENCY\tSTATUS\n", res.Axis.Label())
		for _, p := range res.Points {
			if p.Status == sweep.StatusOK {
				fmt.Fprintf(w, "%.4g\t%.4g\t%.4f\t%s\n", p.X, p.TotalLoss, p.Efficiency, p.Status)
			} else {
				fmt.Fprintf(w, "%.4g\t-\t-\t%s\n", p.X, p.Status)
			}
		}
		w.Flush()
		if best, ok := res.Best(); ok {
			fmt.Fprintf(out, "best: %s=%.4g efficiency %.4f\n", res.Axis, best.X, best.Efficiency)
		}

		if sweepXLSX != "" {
			if err := res.SaveXLSX(sweepXLSX); err != nil {
				return err
			}
		}
		if sweepTSV != "" {
			if err := res.SaveTSV(sweepTSV); err != nil {
				return err
			}
		}
		if sweepPNG != "" {
			if err := res.PlotPNG(sweepPNG); err != nil {
				return err
			}
		}
		return nil
	},
}

func init() {
	f := sweepCmd.Flags()
	f.StringVar(&sweepAxis, "axis", "fs", "swept parameter: fs or po")
	f.Float64Var(&sweepFrom, "from", 50e3, "first value")
	f.Float64Var(&sweepTo, "to", 500e3, "last value")
	f.IntVar(&sweepPoints, "points", 10, "number of points")
	f.BoolVar(&sweepLog, "log-scale", false, "space points logarithmically")
	f.StringVar(&sweepXLSX, "xlsx", "", "write results to this .xlsx file")
	f.StringVar(&sweepTSV, "tsv", "", "write results to this TSV file")
	f.StringVar(&sweepPNG, "png", "", "plot efficiency to this PNG file")
}
