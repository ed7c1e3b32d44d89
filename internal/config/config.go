// Package config loads the dashboard configuration.
//
// Precedence is defaults < file < flags. Files are YAML decoded with
// KnownFields(true) so typos fail loudly, then the merged result is checked
// against an embedded CUE schema. Flags are applied by the cli package after
// Load returns.
package config

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"gopkg.in/yaml.v3"

	"github.com/roach88/launchdash/internal/control"
	"github.com/roach88/launchdash/internal/dataset"
	"github.com/roach88/launchdash/internal/render"
)

//go:embed schema.cue
var schemaSource string

// SiteLabel maps a site identifier to its selector label.
type SiteLabel struct {
	Value string `yaml:"value" json:"value"`
	Label string `yaml:"label" json:"label"`
}

// Config is the complete dashboard configuration.
type Config struct {
	Addr        string        `yaml:"addr" json:"addr"`
	Dataset     string        `yaml:"dataset" json:"dataset"`
	SQLiteTable string        `yaml:"sqlite_table" json:"sqlite_table"`
	Step        float64       `yaml:"step" json:"step"`
	Title       string        `yaml:"title" json:"title"`
	Sites       []SiteLabel   `yaml:"sites" json:"sites"`
	Chart       render.Size   `yaml:"chart" json:"chart"`
	SessionIdle time.Duration `yaml:"session_idle" json:"session_idle"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Addr:        "127.0.0.1:8050",
		Dataset:     "spacex_launch_dash.csv",
		SQLiteTable: dataset.DefaultSQLiteTable,
		Step:        1000,
		Title:       "SpaceX Launch Records Dashboard",
		Sites: []SiteLabel{
			{Value: "CCAFS LC-40", Label: "Cape Canaveral LC-40"},
			{Value: "CCAFS SLC-40", Label: "Cape Canaveral SLC-40"},
			{Value: "KSC LC-39A", Label: "Kennedy Space Center LC-39A"},
			{Value: "VAFB SLC-4E", Label: "Vandenberg SLC-4E"},
		},
		Chart:       render.DefaultSize,
		SessionIdle: 30 * time.Minute,
	}
}

// Error reports a configuration file that cannot be read, decoded or
// validated.
type Error struct {
	Path    string
	Message string
	Err     error
}

func (e *Error) Error() string {
	msg := e.Message
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	if e.Path != "" {
		return fmt.Sprintf("config %s: %s", e.Path, msg)
	}
	return "config: " + msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Load reads path over the defaults and validates the result. An empty path
// returns the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, &Error{Path: path, Message: "failed to read", Err: err}
	}

	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true) // Reject unknown fields
	if err := decoder.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, &Error{Path: path, Message: "failed to parse YAML", Err: err}
	}

	if err := cfg.Validate(); err != nil {
		var ce *Error
		if errors.As(err, &ce) {
			ce.Path = path
		}
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks c against the embedded schema and rejects duplicate site
// labels.
func (c Config) Validate() error {
	if c.Sites == nil {
		c.Sites = []SiteLabel{} // CUE list, not null
	}

	ctx := cuecontext.New()
	schema := ctx.CompileString(schemaSource, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		return &Error{Message: "invalid schema", Err: err}
	}

	v := ctx.Encode(c)
	if err := v.Err(); err != nil {
		return &Error{Message: "failed to encode", Err: err}
	}

	unified := schema.LookupPath(cue.ParsePath("#Config")).Unify(v)
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		return &Error{Message: "schema violation", Err: err}
	}

	seen := make(map[string]bool, len(c.Sites))
	for _, s := range c.Sites {
		if seen[s.Value] {
			return &Error{Message: fmt.Sprintf("duplicate site %q", s.Value)}
		}
		seen[s.Value] = true
	}
	return nil
}

// SiteOptions returns the configured sites as selector options, in file order.
func (c Config) SiteOptions() []control.SiteOption {
	opts := make([]control.SiteOption, 0, len(c.Sites))
	for _, s := range c.Sites {
		opts = append(opts, control.SiteOption{Label: s.Label, Value: s.Value})
	}
	return opts
}
