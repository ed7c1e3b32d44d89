package cli

import (
	"fmt"
	"io"
	"math"

	"github.com/spf13/cobra"

	"github.com/roach88/launchdash/internal/chart"
	"github.com/roach88/launchdash/internal/dataset"
	"github.com/roach88/launchdash/internal/engine"
	"github.com/roach88/launchdash/internal/filter"
)

// SummaryOptions holds flags for the summary command.
type SummaryOptions struct {
	*RootOptions
	DatasetOptions
	Site string
	Lo   float64
	Hi   float64
}

// SummaryResult is the JSON payload of the summary command.
type SummaryResult struct {
	Selection engine.Selection    `json:"selection"`
	Charts    []chart.Description `json:"charts"`
}

// NewSummaryCommand creates the summary command.
func NewSummaryCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SummaryOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Print both chart descriptions for one selection",
		Long: `Compute the dashboard charts for a single selection without a server.

The payload range is coerced the same way the slider does it: ends are
swapped when reversed, clamped to the slider extent and snapped to the step.
Omitted ends default to the slider extent.

Example:
  launchdash summary --data spacex_launch_dash.csv
  launchdash summary --data launches.db --site "CCAFS LC-40" --lo 2000 --hi 7000
  launchdash summary --site KSC --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSummary(opts, cmd)
		},
	}

	opts.addFlags(cmd)
	cmd.Flags().StringVar(&opts.Site, "site", filter.AllSites, "launch site, or \"all\"")
	cmd.Flags().Float64Var(&opts.Lo, "lo", math.NaN(), "payload range lower end in kg")
	cmd.Flags().Float64Var(&opts.Hi, "hi", math.NaN(), "payload range upper end in kg")

	return cmd
}

func runSummary(opts *SummaryOptions, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)

	if opts.Site == "" {
		_ = formatter.Error(ErrCodeBadArgument, "--site must not be empty", nil)
		return NewExitError(ExitCommandError, "--site must not be empty")
	}

	d, err := loadDashboard(cmd.Context(), opts.RootOptions, &opts.DatasetOptions, cmd)
	if err != nil {
		return startupError(formatter, err)
	}

	// Unset ends are NaN, which Coerce maps to the slider extent.
	sel := engine.Selection{Site: opts.Site, Payload: d.Slider.Coerce(opts.Lo, opts.Hi)}

	if !d.Selector.Known(sel.Site) {
		formatter.VerboseLog("site %q is not in the dataset; charts will be empty", sel.Site)
	}

	eng, err := engine.New(d.Table, sel, nil)
	if err != nil {
		return startupError(formatter, err)
	}

	result := SummaryResult{
		Selection: sel,
		Charts:    eng.Compute(sel),
	}
	return formatter.Render(result, func(w io.Writer) error {
		return writeSummaryText(w, result)
	})
}

func writeSummaryText(w io.Writer, r SummaryResult) error {
	fmt.Fprintf(w, "Site: %s  Payload: %s kg\n", r.Selection.Site, r.Selection.Payload)
	for _, d := range r.Charts {
		fmt.Fprintln(w)
		fmt.Fprintf(w, "%s (%s)\n", d.Title, d.Slot)
		if d.Empty() {
			fmt.Fprintln(w, "  no data")
			continue
		}
		switch d.Kind {
		case chart.KindProportion:
			for _, s := range d.Slices {
				fmt.Fprintf(w, "  %-24s %g\n", s.Label, s.Value)
			}
		case chart.KindScatter:
			fmt.Fprintf(w, "  %d launches\n", len(d.Points))
			for _, g := range d.Groups() {
				ok, failed := countOutcomes(d.Points, g)
				fmt.Fprintf(w, "  %-24s %d success, %d failure\n", g, ok, failed)
			}
		}
	}
	return nil
}

func countOutcomes(points []chart.Point, group string) (ok, failed int) {
	for _, p := range points {
		if p.BoosterCategory != group {
			continue
		}
		if p.Outcome == dataset.Success {
			ok++
		} else {
			failed++
		}
	}
	return ok, failed
}
