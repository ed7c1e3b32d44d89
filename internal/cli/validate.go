package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/roach88/launchdash/internal/control"
	"github.com/roach88/launchdash/internal/dataset"
)

// ValidateOptions holds flags for the validate command.
type ValidateOptions struct {
	*RootOptions
	DatasetOptions
}

// ValidateResult describes a dataset that loaded cleanly.
type ValidateResult struct {
	Valid   bool                  `json:"valid"`
	Dataset string                `json:"dataset"`
	Rows    int                   `json:"rows"`
	Sites   []string              `json:"sites"`
	Bounds  dataset.PayloadBounds `json:"bounds"`
	Slider  control.RangeSlider   `json:"slider"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ValidateOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check the configuration and dataset",
		Long: `Load the configuration and the dataset exactly as serve would, then
report what was loaded.

Exit codes:
  0 - Configuration and dataset are valid
  2 - Configuration or dataset rejected (see the error code)

Example:
  launchdash validate --data spacex_launch_dash.csv
  launchdash validate --config launchdash.yaml --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(opts, cmd)
		},
	}

	opts.addFlags(cmd)

	return cmd
}

func runValidate(opts *ValidateOptions, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)

	d, err := loadDashboard(cmd.Context(), opts.RootOptions, &opts.DatasetOptions, cmd)
	if err != nil {
		return startupError(formatter, err)
	}

	result := ValidateResult{
		Valid:   true,
		Dataset: d.Config.Dataset,
		Rows:    d.Table.Len(),
		Sites:   d.Table.Sites(),
		Bounds:  d.Table.Bounds(),
		Slider:  d.Slider,
	}
	return formatter.Render(result, func(w io.Writer) error {
		fmt.Fprintf(w, "✓ %s: %d rows, %d sites\n", result.Dataset, result.Rows, len(result.Sites))
		for _, s := range result.Sites {
			fmt.Fprintf(w, "  %s (%s)\n", d.Selector.Label(s), s)
		}
		fmt.Fprintf(w, "  payload %g to %g kg, slider [%g, %g] step %g\n",
			result.Bounds.Min, result.Bounds.Max, d.Slider.Min, d.Slider.Max, d.Slider.Step)
		return nil
	})
}
