package main

import (
	"errors"
	"fmt"
	"sort"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/danielpatrickdp/power-toys/internal/catalog"
	"github.com/danielpatrickdp/power-toys/internal/component"
)

// Catalog flags
var (
	catalogKind   string
	catalogMinVbr float64
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Manage the component catalog",
}

var catalogShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show one part",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		rec, err := store.Find(args[0])
		if err != nil {
			return err
		}
		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		defer w.Flush()
		switch rec.Kind {
		case catalog.KindSwitch:
			fmt.Fprintf(w, "id\t%s\nfootprint\t%s\n", rec.Switch.ID, rec.Switch.Footprint)
			for _, p := range component.SwitchParams {
				if v, ok := rec.Switch.Params[p]; ok {
					fmt.Fprintf(w, "%s\t%.4g\n", p, v)
				} else {
					fmt.Fprintf(w, "%s\t-\n", p)
				}
			}
		case catalog.KindInductor:
			r := rec.Inductor
			fmt.Fprintf(w, "id\t%s\ninductance\t%.4g\nisat\t%.4g\ndcr\t%.4g\nsize\t%.4gx%.4gx%.4g\n",
				r.ID, r.Inductance, r.Isat, r.DCR, r.Length, r.Width, r.Height)
		}
		return nil
	},
}

var catalogListCmd = &cobra.Command{
	Use:   "list",
	Short: "List switches or inductors",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		defer w.Flush()
		switch catalog.Kind(catalogKind) {
		case catalog.KindSwitch:
			recs, err := store.ListSwitches(catalogMinVbr)
			if err != nil {
				return err
			}
			fmt.Fprintln(w, "ID\tFOOTPRINT\tVBR\tRDSON")
			for _, r := range recs {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", r.ID, r.Footprint,
					param(r.Params, component.Vbr), param(r.Params, component.Rdson))
			}
		case catalog.KindInductor:
			recs, err := store.ListInductors()
			if err != nil {
				return err
			}
			fmt.Fprintln(w, "ID\tL\tISAT\tDCR")
			for _, r := range recs {
				fmt.Fprintf(w, "%s\t%.4g\t%.4g\t%.4g\n", r.ID, r.Inductance, r.Isat, r.DCR)
			}
		default:
			return fmt.Errorf("unknown kind %q (want switch or inductor)", catalogKind)
		}
		return nil
	},
}

var catalogImportCmd = &cobra.Command{
	Use:   "import <file.xlsx>",
	Short: "Import MOSFET and Inductor sheets; existing ids are kept",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		rep, err := store.ImportXLSX(args[0])
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "added %d, skipped %d existing\n", len(rep.Added), len(rep.Skipped))
		return nil
	},
}

var catalogExportCmd = &cobra.Command{
	Use:   "export <file.xlsx>",
	Short: "Export the catalog to a workbook",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()
		return store.ExportXLSX(args[0])
	},
}

var catalogRepairCmd = &cobra.Command{
	Use:   "repair",
	Short: "Replace missing values with zero",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		n, err := store.Repair()
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "repaired %d rows\n", n)
		return nil
	},
}

var catalogFomCmd = &cobra.Command{
	Use:   "fom",
	Short: "Rank switches by figure of merit",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		recs, err := store.ListSwitches(catalogMinVbr)
		if err != nil {
			return err
		}
		rows := rankFoM(recs)
		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		defer w.Flush()
		fmt.Fprintln(w, "ID\tFOM\tFOM*VGS\tNFOM\tNFOM_OSS")
		for _, r := range rows {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", r.id, r.fom, r.fomVgs, r.nfom, r.nfomOss)
		}
		return nil
	},
}

func init() {
	catalogListCmd.Flags().StringVar(&catalogKind, "kind", "switch", "switch or inductor")
	catalogListCmd.Flags().Float64Var(&catalogMinVbr, "min-vbr", 0, "only switches rated at least this voltage")
	catalogFomCmd.Flags().Float64Var(&catalogMinVbr, "min-vbr", 0, "only switches rated at least this voltage")

	catalogCmd.AddCommand(catalogShowCmd)
	catalogCmd.AddCommand(catalogListCmd)
	catalogCmd.AddCommand(catalogImportCmd)
	catalogCmd.AddCommand(catalogExportCmd)
	catalogCmd.AddCommand(catalogRepairCmd)
	catalogCmd.AddCommand(catalogFomCmd)
}

// #region fom
type fomRow struct {
	id      string
	key     float64
	fom     string
	fomVgs  string
	nfom    string
	nfomOss string
}

// rankFoM orders switches by FoM ascending; parts without one sort last.
func rankFoM(recs []catalog.SwitchRecord) []fomRow {
	rows := make([]fomRow, 0, len(recs))
	for _, r := range recs {
		sw := r.NewSwitch()
		fom, err := sw.FoM()
		row := fomRow{id: r.ID, key: fom, fom: figure(fom, err)}
		if err != nil {
			row.key = -1
		}
		row.fomVgs = figure(sw.FoMVgs())
		row.nfom = figure(sw.NFoM())
		row.nfomOss = figure(sw.NFoMoss())
		rows = append(rows, row)
	}
	sort.SliceStable(rows, func(i, j int) bool {
		a, b := rows[i].key, rows[j].key
		if a < 0 || b < 0 {
			return b < 0 && a >= 0
		}
		return a < b
	})
	return rows
}

func figure(v float64, err error) string {
	if errors.Is(err, component.ErrParameterIncomplete) {
		return "-"
	}
	if err != nil {
		return "error"
	}
	return fmt.Sprintf("%.4g", v)
}

func param(params map[component.SwitchParam]float64, p component.SwitchParam) string {
	if v, ok := params[p]; ok {
		return fmt.Sprintf("%.4g", v)
	}
	return "-"
}

// #endregion fom
