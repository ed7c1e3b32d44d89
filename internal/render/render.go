// Package render draws chart descriptions as SVG.
//
// Rendering never fails the request: if go-chart rejects a description, a
// blank placeholder carrying the title is drawn instead and the error is
// logged.
package render

import (
	"bytes"
	"fmt"
	"html"
	"io"
	"log/slog"

	gochart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/roach88/launchdash/internal/chart"
	"github.com/roach88/launchdash/internal/dataset"
)

// Size is the pixel size of a rendered chart.
type Size struct {
	Width  int `json:"width" yaml:"width"`
	Height int `json:"height" yaml:"height"`
}

// DefaultSize is used when a Size has a non-positive dimension.
var DefaultSize = Size{Width: 640, Height: 400}

func (s Size) orDefault() Size {
	if s.Width <= 0 || s.Height <= 0 {
		return DefaultSize
	}
	return s
}

// NoDataLabel is drawn on placeholders for empty descriptions.
const NoDataLabel = "No data"

// palette colors booster categories in first-appearance order.
var palette = []string{
	"636efa", "ef553b", "00cc96", "ab63fa", "ffa15a",
	"19d3f3", "ff6692", "b6e880", "ff97ff", "fecb52",
}

// escape prepares text for go-chart, which writes strings into SVG
// <text> elements verbatim. Site and booster names come from users and
// datasets, so every string passed to go-chart goes through here.
func escape(s string) string {
	return html.EscapeString(s)
}

// SVG writes d as an SVG document.
func SVG(w io.Writer, d chart.Description, size Size) error {
	size = size.orDefault()
	if d.Empty() {
		return blank(w, d.Title, size)
	}

	var buf bytes.Buffer
	var err error
	switch d.Kind {
	case chart.KindProportion:
		err = pie(&buf, d, size)
	case chart.KindScatter:
		err = scatter(&buf, d, size)
	default:
		err = fmt.Errorf("unknown chart kind %q", d.Kind)
	}
	if err != nil {
		slog.Warn("chart render failed, drawing placeholder", "slot", string(d.Slot), "error", err)
		return blank(w, d.Title, size)
	}
	_, err = w.Write(buf.Bytes())
	return err
}

// SVGBytes is SVG into a byte slice.
func SVGBytes(d chart.Description, size Size) ([]byte, error) {
	var buf bytes.Buffer
	if err := SVG(&buf, d, size); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func pie(w io.Writer, d chart.Description, size Size) error {
	values := make([]gochart.Value, 0, len(d.Slices))
	for i, s := range d.Slices {
		// go-chart normalizes weights and cannot draw a zero-width wedge
		if s.Value <= 0 {
			continue
		}
		values = append(values, gochart.Value{
			Label: escape(s.Label),
			Value: s.Value,
			Style: gochart.Style{FillColor: color(i)},
		})
	}

	pc := gochart.PieChart{
		Title:  escape(d.Title),
		Width:  size.Width,
		Height: size.Height,
		Background: gochart.Style{
			Padding: gochart.Box{Top: 40, Left: 16, Right: 16, Bottom: 16},
		},
		Values: values,
	}
	return pc.Render(gochart.SVG, w)
}

func scatter(w io.Writer, d chart.Description, size Size) error {
	groups := d.Groups()
	series := make([]gochart.Series, 0, len(groups))
	for i, g := range groups {
		var xs, ys []float64
		for _, p := range d.Points {
			if p.BoosterCategory != g {
				continue
			}
			xs = append(xs, p.PayloadMassKg)
			ys = append(ys, float64(p.Outcome))
		}
		series = append(series, gochart.ContinuousSeries{
			Name:    escape(g),
			XValues: xs,
			YValues: ys,
			Style:   pointStyle(color(i)),
		})
	}

	ch := gochart.Chart{
		Title:  escape(d.Title),
		Width:  size.Width,
		Height: size.Height,
		Background: gochart.Style{
			Padding: gochart.Box{Top: 40, Left: 16, Right: 12, Bottom: 48},
		},
		XAxis: gochart.XAxis{
			Name:  escape(dataset.ColumnPayload),
			Range: xRange(d),
		},
		YAxis: gochart.YAxis{
			Name:  escape(dataset.ColumnClass),
			Range: &gochart.ContinuousRange{Min: -0.25, Max: 1.25},
			Ticks: []gochart.Tick{{Value: 0, Label: "0"}, {Value: 1, Label: "1"}},
		},
		Series: series,
	}
	ch.Elements = []gochart.Renderable{gochart.Legend(&ch)}
	return ch.Render(gochart.SVG, w)
}

// pointStyle renders points only, no connecting line.
func pointStyle(col drawing.Color) gochart.Style {
	return gochart.Style{
		StrokeWidth: gochart.Disabled,
		DotWidth:    5,
		DotColor:    col,
	}
}

// xRange is the selected payload range, widened when it has zero width so
// the axis stays drawable.
func xRange(d chart.Description) *gochart.ContinuousRange {
	var lo, hi float64
	if d.XRange != nil {
		lo, hi = d.XRange[0], d.XRange[1]
	} else {
		for i, p := range d.Points {
			if i == 0 || p.PayloadMassKg < lo {
				lo = p.PayloadMassKg
			}
			if i == 0 || p.PayloadMassKg > hi {
				hi = p.PayloadMassKg
			}
		}
	}
	if hi <= lo {
		lo, hi = lo-500, hi+500
	}
	return &gochart.ContinuousRange{Min: lo, Max: hi}
}

func color(i int) drawing.Color {
	return drawing.ColorFromHex(palette[i%len(palette)])
}

// blank draws a titled placeholder with no plot area.
func blank(w io.Writer, title string, size Size) error {
	r, err := gochart.SVG(size.Width, size.Height)
	if err != nil {
		return err
	}
	font, err := gochart.GetDefaultFont()
	if err != nil {
		return err
	}
	r.SetFont(font)
	r.SetFontColor(drawing.ColorFromHex("444444"))

	if title != "" {
		title = escape(title)
		r.SetFontSize(14)
		tb := r.MeasureText(title)
		r.Text(title, (size.Width-tb.Width())/2, 32)
	}

	r.SetFontColor(drawing.ColorFromHex("999999"))
	r.SetFontSize(12)
	label := escape(NoDataLabel)
	nb := r.MeasureText(label)
	r.Text(label, (size.Width-nb.Width())/2, size.Height/2)

	return r.Save(w)
}
