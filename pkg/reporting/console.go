package reporting

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/ducminhle1904/ta-engine/internal/frame"
	"github.com/ducminhle1904/ta-engine/internal/indicators"
	"github.com/ducminhle1904/ta-engine/pkg/types"
)

// RSI zone boundaries drawn on every RSI view
const (
	RSIOverbought = 70.0
	RSIOversold   = 30.0
)

// RSIZone classifies an RSI reading against the 70/30 bands
func RSIZone(rsi float64) string {
	switch {
	case rsi >= RSIOverbought:
		return "Overbought"
	case rsi <= RSIOversold:
		return "Oversold"
	default:
		return "Neutral"
	}
}

// DefaultConsoleReporter implements console output functionality
type DefaultConsoleReporter struct {
	out     io.Writer
	showRaw bool
	// tail is how many of the latest cleaned rows are listed
	tail int
}

// NewDefaultConsoleReporter creates a console reporter writing to stdout
func NewDefaultConsoleReporter(showRaw bool) *DefaultConsoleReporter {
	return NewConsoleReporterTo(os.Stdout, showRaw)
}

// NewConsoleReporterTo creates a console reporter writing to w
func NewConsoleReporterTo(w io.Writer, showRaw bool) *DefaultConsoleReporter {
	return &DefaultConsoleReporter{out: w, showRaw: showRaw, tail: 10}
}

// OutputResults prints the summary, the latest values and the recent rows of the table
func (r *DefaultConsoleReporter) OutputResults(report Report) {
	r.PrintSummary(report)

	if report.Result.Empty() {
		fmt.Fprintf(r.out, "⚠️ Insufficient history for %s: no row has every indicator defined. Try a longer date range.\n",
			report.Ticker)
	} else {
		r.PrintLatest(report)
		r.printTail(report.Result.Table)
	}

	if r.showRaw {
		r.PrintRaw(report)
	}
}

// PrintSummary prints the run parameters and row counts
func (r *DefaultConsoleReporter) PrintSummary(report Report) {
	res := report.Result
	p := res.Params

	t := r.newTable("📊 TECHNICAL ANALYSIS")
	t.AppendRows([]table.Row{
		{"📈 Ticker", report.Ticker},
		{"📅 Range", formatRange(report.Range)},
	})
	t.AppendSeparator()
	t.AppendRows([]table.Row{
		{"RSI", fmt.Sprintf("window %d", p.RSIWindow)},
		{"MACD", fmt.Sprintf("%d / %d / %d", p.MACDFast, p.MACDSlow, p.MACDSignal)},
		{"ROC", fmt.Sprintf("window %d", p.ROCWindow)},
		{"ADX", fmt.Sprintf("window %d", p.ADXWindow)},
	})
	t.AppendSeparator()
	t.AppendRows([]table.Row{
		{"🔄 Bars loaded", res.Raw.Len()},
		{"🧹 Rows dropped", res.Dropped},
		{"✅ Rows kept", res.Table.Len()},
		{"⏱️ Duration", res.Duration.String()},
	})
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, WidthMin: 18, WidthMax: 18, Align: text.AlignLeft},
		{Number: 2, WidthMin: 25, WidthMax: 40, Align: text.AlignLeft},
	})
	t.Render()
	fmt.Fprintln(r.out)
}

// PrintLatest prints the most recent complete row with the RSI zone
func (r *DefaultConsoleReporter) PrintLatest(report Report) {
	row, ok := report.Result.Latest()
	if !ok {
		return
	}

	t := r.newTable(fmt.Sprintf("LATEST (%s)", row.Date.Format("2006-01-02")))
	t.AppendHeader(table.Row{"Indicator", "Value", "Note"})
	for _, name := range indicators.OutputColumns() {
		v, _ := row.Get(name)
		note := ""
		if name == indicators.ColumnRSI {
			note = RSIZone(v)
		}
		t.AppendRow(table.Row{name, fmt.Sprintf("%.4f", v), note})
	}
	closePrice, _ := row.Get(types.ColumnClose)
	t.AppendSeparator()
	t.AppendRow(table.Row{types.ColumnClose, fmt.Sprintf("%.4f", closePrice), ""})
	t.Render()
	fmt.Fprintln(r.out)
}

// PrintRaw prints every input bar
func (r *DefaultConsoleReporter) PrintRaw(report Report) {
	raw := report.Result.Raw
	if raw.Empty() {
		return
	}
	t := r.newTable(fmt.Sprintf("RAW DATA (%d bars)", raw.Len()))
	r.appendFrame(t, raw, 0)
	t.Render()
	fmt.Fprintln(r.out)
}

func (r *DefaultConsoleReporter) printTail(f *frame.Frame) {
	from := 0
	if f.Len() > r.tail {
		from = f.Len() - r.tail
	}
	t := r.newTable(fmt.Sprintf("INDICATORS (last %d of %d rows)", f.Len()-from, f.Len()))
	r.appendFrame(t, f, from)
	t.Render()
	fmt.Fprintln(r.out)
}

func (r *DefaultConsoleReporter) appendFrame(t table.Writer, f *frame.Frame, from int) {
	columns := f.Columns()
	header := table.Row{"Date"}
	for _, c := range columns {
		header = append(header, c)
	}
	t.AppendHeader(header)

	configs := make([]table.ColumnConfig, 0, len(columns))
	for i := range columns {
		configs = append(configs, table.ColumnConfig{Number: i + 2, Align: text.AlignRight})
	}
	t.SetColumnConfigs(configs)

	for i := from; i < f.Len(); i++ {
		row := f.Row(i)
		out := table.Row{row.Date.Format("2006-01-02")}
		for _, c := range columns {
			out = append(out, formatCell(c, row.Values[c]))
		}
		t.AppendRow(out)
	}
}

func (r *DefaultConsoleReporter) newTable(title string) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(r.out)
	t.SetTitle(title)
	t.SetStyle(table.StyleRounded)
	return t
}

func formatCell(column string, v indicators.Value) string {
	if !v.Defined {
		return "-"
	}
	if column == types.ColumnVolume {
		return fmt.Sprintf("%.0f", v.V)
	}
	return fmt.Sprintf("%.2f", v.V)
}

func formatRange(r types.DateRange) string {
	return strings.Replace(r.String(), "_", " → ", 1)
}
