package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/launchdash/internal/config"
	"github.com/roach88/launchdash/internal/control"
	"github.com/roach88/launchdash/internal/dataset"
)

// DatasetOptions holds the dataset flags shared by serve, summary and
// validate. Set flags override the configuration file.
type DatasetOptions struct {
	Data string
	Step float64
}

func (o *DatasetOptions) addFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&o.Data, "data", "", "dataset file (.csv, .db, .sqlite, .sqlite3)")
	cmd.Flags().Float64Var(&o.Step, "step", 0, "payload slider step in kg")
}

// dashboard is everything a command needs after startup: the merged
// configuration, the loaded table and the controls sized to it.
type dashboard struct {
	Config   config.Config
	Table    *dataset.Table
	Slider   control.RangeSlider
	Selector control.SiteSelector
}

// loadDashboard applies defaults < config file < flags, then loads the
// dataset. Errors carry a CLI or dataset error code; see errorCode.
func loadDashboard(ctx context.Context, root *RootOptions, ds *DatasetOptions, cmd *cobra.Command) (*dashboard, error) {
	cfg, err := config.Load(root.Config)
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("data") {
		cfg.Dataset = ds.Data
	}
	if flags.Changed("step") {
		cfg.Step = ds.Step
	}
	if flags.Changed("addr") {
		addr, _ := flags.GetString("addr")
		cfg.Addr = addr
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	tbl, err := dataset.Load(ctx, cfg.Dataset, dataset.LoadOptions{SQLiteTable: cfg.SQLiteTable})
	if err != nil {
		return nil, err
	}

	return &dashboard{
		Config:   cfg,
		Table:    tbl,
		Slider:   control.NewRangeSlider(tbl.Bounds(), cfg.Step),
		Selector: control.NewSiteSelector(tbl.Sites(), cfg.SiteOptions()),
	}, nil
}

// errorCode maps a startup error onto the code shown to the user.
func errorCode(err error) string {
	if code := dataset.LoadErrorCode(err); code != "" {
		return code
	}
	var ce *config.Error
	if errors.As(err, &ce) {
		return ErrCodeConfig
	}
	return ErrCodeGeneric
}

// startupError reports err through the formatter and returns it as a
// command error (exit code 2).
func startupError(f *OutputFormatter, err error) error {
	code := errorCode(err)
	_ = f.Error(code, err.Error(), nil)
	return WrapExitError(ExitCommandError, fmt.Sprintf("%s: startup failed", code), err)
}

func newFormatter(opts *RootOptions, cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(), // Verbose logs go to stderr to avoid corrupting JSON
		Verbose:   opts.Verbose,
	}
}
