package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"sort"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/danielpatrickdp/power-toys/internal/check"
	"github.com/danielpatrickdp/power-toys/internal/circuit"
	"github.com/danielpatrickdp/power-toys/internal/component"
	"github.com/danielpatrickdp/power-toys/internal/design"
	"github.com/danielpatrickdp/power-toys/internal/optimize"
	"github.com/danielpatrickdp/power-toys/internal/runlog"
)

// Evaluation flags, shared by evaluate, buck and dcx
var (
	evalOptRdson bool
	evalOptFs    bool
	evalCheck    bool
	evalNoLog    bool
)

func addEvalFlags(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&evalOptRdson, "opt-rdson", false, "replace each switch by its rdson-optimal equivalent")
	cmd.Flags().BoolVar(&evalOptFs, "opt-fs", false, "move to the loss-minimizing switching frequency")
	cmd.Flags().BoolVar(&evalCheck, "check", false, "run design rule checks")
	cmd.Flags().BoolVar(&evalNoLog, "no-log", false, "do not record the evaluation")
}

var evaluateCmd = &cobra.Command{
	Use:   "evaluate <design.json>",
	Short: "Evaluate a design file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := design.Load(args[0])
		if err != nil {
			return err
		}
		return runEvaluate(cmd.Context(), d, cmd.OutOrStdout())
	},
}

func init() {
	addEvalFlags(evaluateCmd)
}

// #region evaluate
func runEvaluate(ctx context.Context, d *design.Design, out io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
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

	if evalOptRdson {
		var results []optimize.Result
		if c, results, err = c.OptimizeByRdson(); err != nil {
			return fmt.Errorf("optimize rdson: %w", err)
		}
		for _, r := range results {
			if !r.Converged {
				log.Printf("rdson search stopped after %d iterations", r.Iterations)
			}
		}
	}
	if evalOptFs {
		var r optimize.Result
		if c, r, err = c.OptimizeByFs(); err != nil {
			return fmt.Errorf("optimize fs: %w", err)
		}
		fmt.Fprintf(out, "optimal fs: %.4g Hz (%d iterations)\n", r.X, r.Iterations)
	}

	evalErr := printReport(out, c)

	if evalCheck {
		printCheck(out, check.NewHarness(check.DefaultConfig()).Run(ctx, c))
	}

	if !evalNoLog {
		entry := runlog.Evaluate(c)
		id, err := runlog.LogEvaluation(store.DB(), entry)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "logged as %s (%s)\n", id, entry.Outcome)
	}
	return evalErr
}

// #endregion evaluate

// #region report
func printReport(out io.Writer, c circuit.Circuit) error {
	fmt.Fprintf(out, "%s  po=%.4gW  fs=%.4gHz\n", c.Name(), c.Po(), c.Fs())

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ROLE\tPART\tQTY\tLOSS\tW/DEVICE\tW TOTAL")
	var firstErr error
	for _, role := range c.Roles() {
		comp, ok := c.Component(role)
		if !ok {
			fmt.Fprintf(w, "%s\t-\t0\t\t\t\n", c.RoleName(role))
			continue
		}
		bd, err := c.LossBreakdown(comp)
		if err != nil {
			fmt.Fprintf(w, "%s\t%s\t%d\terror\t%v\t\n", c.RoleName(role), comp.ID(), comp.Quantity(), err)
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		names := make([]component.LossName, 0, len(bd))
		for name := range bd {
			names = append(names, name)
		}
		sort.Slice(names, func(i, j int) bool { return names[i] < names[j] })
		for i, name := range names {
			label := ""
			if i == 0 {
				label = c.RoleName(role)
			}
			v := bd[name]
			fmt.Fprintf(w, "%s\t%s\t%d\t%s\t%.4g\t%.4g\n", label, comp.ID(), comp.Quantity(), name, v, v*float64(comp.Quantity()))
		}
	}
	w.Flush()

	if firstErr != nil {
		fmt.Fprintf(out, "not evaluable: %v\n", firstErr)
		return firstErr
	}
	total, err := c.TotalLoss()
	if err != nil {
		return err
	}
	eff, err := c.Efficiency()
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "total loss: %.4g W  efficiency: %.4f%%\n", total, eff*100)
	return nil
}

func printCheck(out io.Writer, res check.Result) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "CHECK\tVALUE\tPASS")
	for _, m := range res.Metrics {
		fmt.Fprintf(w, "%s\t%.4g\t%v\n", m.Name, m.Value, m.Pass)
	}
	w.Flush()
	fmt.Fprintln(out, res.Reason)
}

// #endregion report
