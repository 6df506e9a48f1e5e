package calculator

import (
	"strconv"

	"github.com/iwvelando/dream-calc/pkg/format"
	"github.com/iwvelando/dream-calc/pkg/loans"
)

// Unit tells how a line value is rendered.
type Unit string

// Line units.
const (
	UnitWon     Unit = "won"
	UnitForeign Unit = "foreign"
	UnitPercent Unit = "percent"
	UnitHours   Unit = "hours"
	UnitMonths  Unit = "months"
	UnitCount   Unit = "count"
	UnitText    Unit = "text"
)

// Line is one labelled value of a result. Alt is an ASCII rendering of Text
// for outputs that cannot draw Hangul.
type Line struct {
	Key    string  `json:"key"`
	Label  string  `json:"label"`
	Value  float64 `json:"value"`
	Unit   Unit    `json:"unit"`
	Symbol string  `json:"symbol,omitempty"`
	Text   string  `json:"text,omitempty"`
	Alt    string  `json:"-"`
	Sign   string  `json:"sign,omitempty"`
	Total  bool    `json:"total,omitempty"`
}

// Display renders the value the way it is shown to users, e.g. "- 4,850원".
func (l Line) Display() string {
	var value string
	switch l.Unit {
	case UnitText:
		return l.Text
	case UnitWon:
		value = format.KRW(l.Value)
	case UnitForeign:
		value = format.Foreign(l.Symbol, l.Value)
	case UnitPercent:
		value = format.Percent(l.Value)
	case UnitHours:
		value = strconv.FormatFloat(l.Value, 'f', -1, 64) + "시간"
	case UnitMonths:
		value = format.Number(l.Value) + "개월"
	case UnitCount:
		value = format.Number(l.Value) + "명"
	default:
		value = format.Number(l.Value)
	}
	if l.Sign != "" {
		return l.Sign + " " + value
	}
	return value
}

// Result holds the outcome of one calculation. Inputs echo the parameters and
// Lines hold the computed values in display order. Err is set instead of
// Lines when the calculation failed. Output holds the typed result of the
// underlying calculator.
type Result struct {
	Name     string          `json:"name"`
	Type     string          `json:"type"`
	Title    string          `json:"title"`
	Note     string          `json:"note,omitempty"`
	Inputs   []Line          `json:"inputs"`
	Lines    []Line          `json:"lines"`
	Schedule []loans.Payment `json:"schedule,omitempty"`
	Output   any             `json:"result,omitempty"`
	Err      error           `json:"-"`
}

// Totals returns the lines flagged as totals.
func (r Result) Totals() []Line {
	var totals []Line
	for _, line := range r.Lines {
		if line.Total {
			totals = append(totals, line)
		}
	}
	return totals
}

// Line returns the line with the given key.
func (r Result) Line(key string) (Line, bool) {
	for _, line := range r.Lines {
		if line.Key == key {
			return line, true
		}
	}
	return Line{}, false
}

// FindResult finds a result by name in the results slice.
// Returns a pointer to the result if found, nil otherwise.
func FindResult(results []Result, name string) *Result {
	for i := range results {
		if results[i].Name == name {
			return &results[i]
		}
	}
	return nil
}
