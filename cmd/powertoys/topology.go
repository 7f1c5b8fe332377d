package main

import (
	"github.com/spf13/cobra"

	"github.com/danielpatrickdp/power-toys/internal/design"
)

// #region buck
var (
	buckParams design.BuckParams
	buckParts  design.Parts
)

var buckCmd = &cobra.Command{
	Use:   "buck",
	Short: "Evaluate an interleaved synchronous buck from flags",
	Example: `  powertoys buck --vin 48 --vo 12 --po 110 --fs 100e3 --ncell 2 \
    --active BSC026N08NS5 --passive BSC026N08NS5 --inductor XGL6060-103`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runEvaluate(cmd.Context(), buckDesign(), cmd.OutOrStdout())
	},
}

func buckDesign() *design.Design {
	p := buckParams
	return &design.Design{Topology: "buck", Buck: &p, Parts: buckParts}
}

func init() {
	f := buckCmd.Flags()
	f.Float64Var(&buckParams.Vin, "vin", 48, "input voltage [V]")
	f.Float64Var(&buckParams.Vo, "vo", 12, "output voltage [V]")
	f.Float64Var(&buckParams.Po, "po", 0, "output power [W]")
	f.Float64Var(&buckParams.Ro, "ro", 0, "load resistance [Ohm], used when --po is 0")
	f.Float64Var(&buckParams.Fs, "fs", 100e3, "switching frequency [Hz]")
	f.IntVar(&buckParams.Ncell, "ncell", 1, "number of interleaved cells")
	f.StringVar(&buckParts.Active, "active", "", "active switch part id")
	f.StringVar(&buckParts.Passive, "passive", "", "passive switch part id")
	f.StringVar(&buckParts.Inductor, "inductor", "", "inductor part id")
	f.IntVar(&buckParts.InductorSeries, "series", 1, "inductors in series")
	buckCmd.MarkFlagRequired("active")
	buckCmd.MarkFlagRequired("passive")
	buckCmd.MarkFlagRequired("inductor")
	addEvalFlags(buckCmd)
}

// #endregion buck

// #region dcx
var (
	dcxParams design.DCXParams
	dcxParts  design.Parts
)

var dcxCmd = &cobra.Command{
	Use:   "dcx",
	Short: "Evaluate a resonant DC transformer from flags",
	Example: `  powertoys dcx --vin 48 --vo 12 --n 4 --fs 500e3 --td 50e-9 --po 300 \
    --primary-bridge F --secondary-bridge C --primary BSC026N08NS5 --secondary BSC026N08NS5`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runEvaluate(cmd.Context(), dcxDesign(), cmd.OutOrStdout())
	},
}

func dcxDesign() *design.Design {
	p := dcxParams
	return &design.Design{Topology: "dcx", DCX: &p, Parts: dcxParts}
}

func init() {
	f := dcxCmd.Flags()
	f.Float64Var(&dcxParams.Vin, "vin", 48, "input voltage [V]")
	f.Float64Var(&dcxParams.Vo, "vo", 12, "output voltage [V]")
	f.Float64Var(&dcxParams.TurnsRatio, "n", 4, "turns ratio primary:secondary")
	f.Float64Var(&dcxParams.Fs, "fs", 500e3, "switching frequency [Hz]")
	f.Float64Var(&dcxParams.Td, "td", 50e-9, "dead time [s]")
	f.Float64Var(&dcxParams.Po, "po", 0, "output power [W]")
	f.Float64Var(&dcxParams.Ro, "ro", 0, "load resistance [Ohm], used when --po is 0")
	f.StringVar(&dcxParams.Primary, "primary-bridge", "H", "primary bridge: H, C or F")
	f.StringVar(&dcxParams.Secondary, "secondary-bridge", "C", "secondary bridge: H, C or F")
	f.StringVar(&dcxParts.Primary, "primary", "", "primary switch part id")
	f.StringVar(&dcxParts.Secondary, "secondary", "", "secondary switch part id")
	dcxCmd.MarkFlagRequired("primary")
	dcxCmd.MarkFlagRequired("secondary")
	addEvalFlags(dcxCmd)
}

// #endregion dcx
