package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/danielpatrickdp/power-toys/internal/runlog"
)

var logLast int

var logCmd = &cobra.Command{
	Use:   "log",
	Short: "Show recent evaluations",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		entries, err := runlog.Recent(store.DB(), logLast)
		if err != nil {
			return err
		}
		if len(entries) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "no evaluations logged")
			return nil
		}
		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		defer w.Flush()
		fmt.Fprintln(w, "CREATED\tTOPOLOGY\tPARTS\tLOSS [W]\tEFFICIENCY\tOUTCOME")
		for _, e := range entries {
			loss, eff := "-", "-"
			if e.Outcome == runlog.OutcomeOK {
				loss = fmt.Sprintf("%.4g", e.TotalLoss)
				eff = fmt.Sprintf("%.4f", e.Efficiency)
			}
			fmt.Fprintf(w, "%s\t%s\t%v\t%s\t%s\t%s\n",
				e.CreatedAt.Format("2006-01-02 15:04:05"), e.Topology, e.Parts, loss, eff, e.Outcome)
		}
		return nil
	},
}

func init() {
	logCmd.Flags().IntVar(&logLast, "last", 20, "number of entries")
}
