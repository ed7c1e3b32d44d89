package control

import (
	"math"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"github.com/roach88/launchdash/internal/dataset"
	"github.com/roach88/launchdash/internal/filter"
)

// DefaultStep is the payload slider granularity in kilograms.
const DefaultStep = 1000

// maxMarks caps the number of labelled ticks under the slider.
const maxMarks = 11

// Mark is a labelled tick on the range slider.
type Mark struct {
	Value float64 `json:"value"`
	Label string  `json:"label"`
}

// RangeSlider is the payload range control.
type RangeSlider struct {
	Min  float64 `json:"min"`
	Max  float64 `json:"max"`
	Step float64 `json:"step"`
}

// NewRangeSlider sizes a slider to the dataset bounds rounded outward to step.
// A non-positive step falls back to DefaultStep. When the rounded bounds
// coincide the slider is widened by one step so it always spans an interval.
func NewRangeSlider(b dataset.PayloadBounds, step float64) RangeSlider {
	if step <= 0 || math.IsNaN(step) || math.IsInf(step, 0) {
		step = DefaultStep
	}
	s := RangeSlider{
		Min:  math.Floor(b.Min/step) * step,
		Max:  math.Ceil(b.Max/step) * step,
		Step: step,
	}
	if s.Max <= s.Min {
		s.Max = s.Min + step
	}
	return s
}

// Full returns the slider's whole extent, which is also its initial value.
func (s RangeSlider) Full() filter.PayloadRange {
	return filter.PayloadRange{Lo: s.Min, Hi: s.Max}
}

// Coerce turns an arbitrary client pair into a value the slider can hold:
// ordered, clamped to [Min, Max], and snapped to the nearest step.
func (s RangeSlider) Coerce(lo, hi float64) filter.PayloadRange {
	if math.IsNaN(lo) {
		lo = s.Min
	}
	if math.IsNaN(hi) {
		hi = s.Max
	}
	if lo > hi {
		lo, hi = hi, lo
	}
	return filter.PayloadRange{Lo: s.snap(lo), Hi: s.snap(hi)}
}

func (s RangeSlider) snap(v float64) float64 {
	v = math.Max(s.Min, math.Min(s.Max, v))
	snapped := s.Min + math.Round((v-s.Min)/s.Step)*s.Step
	return math.Min(s.Max, snapped)
}

// Marks returns labelled ticks from Min to Max. Every step is marked unless
// that would exceed maxMarks, in which case marks are spaced by a multiple of
// the step. Labels use English digit grouping ("10,000").
func (s RangeSlider) Marks() []Mark {
	steps := int(math.Round((s.Max - s.Min) / s.Step))
	stride := 1
	for steps/stride+1 > maxMarks {
		stride++
	}

	p := message.NewPrinter(language.English)
	var marks []Mark
	for i := 0; i <= steps; i += stride {
		v := s.Min + float64(i)*s.Step
		marks = append(marks, Mark{Value: v, Label: markLabel(p, v)})
	}
	if last := marks[len(marks)-1]; last.Value != s.Max {
		marks = append(marks, Mark{Value: s.Max, Label: markLabel(p, s.Max)})
	}
	return marks
}

// markLabel formats v with digit grouping and at most three decimals, so
// fractional steps keep distinct labels.
func markLabel(p *message.Printer, v float64) string {
	return p.Sprint(number.Decimal(v, number.MaxFractionDigits(3)))
}
