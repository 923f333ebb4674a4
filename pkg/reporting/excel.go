package reporting

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/ducminhle1904/ta-engine/internal/frame"
	"github.com/ducminhle1904/ta-engine/internal/indicators"
	"github.com/ducminhle1904/ta-engine/pkg/types"
)

const (
	dataSheet   = "Data"
	chartsSheet = "Charts"
	bandsSheet  = "Bands"
)

// chartSpec describes one line chart on the Charts sheet
type chartSpec struct {
	title   string
	columns []string
	// bands are constant reference lines drawn from the Bands sheet
	bands bool
}

var indicatorCharts = []chartSpec{
	{title: "Close", columns: []string{types.ColumnClose}},
	{title: "RSI", columns: []string{indicators.ColumnRSI}, bands: true},
	{title: "MACD", columns: []string{indicators.ColumnMACD, indicators.ColumnMACDSignal}},
	{title: "ROC", columns: []string{indicators.ColumnROC}},
	{title: "ADX", columns: []string{indicators.ColumnADX}},
}

// DefaultExcelReporter writes a workbook with the cleaned table and one chart per indicator
type DefaultExcelReporter struct{}

// NewDefaultExcelReporter creates a new Excel reporter
func NewDefaultExcelReporter() *DefaultExcelReporter {
	return &DefaultExcelReporter{}
}

// Format returns "xlsx"
func (r *DefaultExcelReporter) Format() string { return FormatExcel }

// Extension returns "xlsx"
func (r *DefaultExcelReporter) Extension() string { return "xlsx" }

// Write builds the workbook. An empty table produces the Data header and no charts.
func (r *DefaultExcelReporter) Write(report Report, path string) error {
	if err := NewDefaultPathManager().EnsureDirectoryExists(path); err != nil {
		return fmt.Errorf("failed to create directory for %s: %w", path, err)
	}

	fx := excelize.NewFile()
	defer fx.Close()

	if err := fx.SetSheetName(fx.GetSheetName(0), dataSheet); err != nil {
		return err
	}
	if _, err := fx.NewSheet(chartsSheet); err != nil {
		return err
	}

	styles, err := r.createExcelStyles(fx)
	if err != nil {
		return err
	}

	table := report.Result.Table
	if err := r.writeDataSheet(fx, table, styles); err != nil {
		return err
	}

	if table.Empty() {
		fx.SetCellValue(chartsSheet, "A1", fmt.Sprintf("Insufficient history for %s: no chart data", report.Ticker))
		fx.SetCellStyle(chartsSheet, "A1", "A1", styles.TitleStyle)
	} else {
		if err := r.writeBandsSheet(fx, table.Len()); err != nil {
			return err
		}
		if err := r.writeCharts(fx, report, table); err != nil {
			return err
		}
	}

	return fx.SaveAs(path)
}

func (r *DefaultExcelReporter) createExcelStyles(fx *excelize.File) (ExcelStyles, error) {
	var styles ExcelStyles
	var err error

	lightBorder := []excelize.Border{
		{Type: "left", Color: "E0E0E0", Style: 1},
		{Type: "right", Color: "E0E0E0", Style: 1},
		{Type: "bottom", Color: "E0E0E0", Style: 1},
	}

	// Header style - Dark blue background with white text
	styles.HeaderStyle, err = fx.NewStyle(&excelize.Style{
		Font: &excelize.Font{
			Bold:   true,
			Size:   11,
			Color:  "FFFFFF",
			Family: "Calibri",
		},
		Fill: excelize.Fill{
			Type:    "pattern",
			Color:   []string{"2F4F4F"},
			Pattern: 1,
		},
		Alignment: &excelize.Alignment{
			Horizontal: "center",
			Vertical:   "center",
		},
		Border: []excelize.Border{
			{Type: "left", Color: "000000", Style: 1},
			{Type: "right", Color: "000000", Style: 1},
			{Type: "top", Color: "000000", Style: 1},
			{Type: "bottom", Color: "000000", Style: 1},
		},
	})
	if err != nil {
		return styles, err
	}

	dateFormat := "yyyy-mm-dd"
	styles.DateStyle, err = fx.NewStyle(&excelize.Style{
		CustomNumFmt: &dateFormat,
		Border:       lightBorder,
	})
	if err != nil {
		return styles, err
	}

	priceFormat := "#,##0.0000"
	styles.PriceStyle, err = fx.NewStyle(&excelize.Style{
		CustomNumFmt: &priceFormat,
		Alignment:    &excelize.Alignment{Horizontal: "right"},
		Border:       lightBorder,
	})
	if err != nil {
		return styles, err
	}

	styles.VolumeStyle, err = fx.NewStyle(&excelize.Style{
		NumFmt:    3, // #,##0
		Alignment: &excelize.Alignment{Horizontal: "right"},
		Border:    lightBorder,
	})
	if err != nil {
		return styles, err
	}

	styles.ValueStyle, err = fx.NewStyle(&excelize.Style{
		NumFmt:    2, // 0.00
		Alignment: &excelize.Alignment{Horizontal: "right"},
		Border:    lightBorder,
	})
	if err != nil {
		return styles, err
	}

	styles.TitleStyle, err = fx.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 12, Color: "2F4F4F", Family: "Calibri"},
	})
	return styles, err
}

func (r *DefaultExcelReporter) writeDataSheet(fx *excelize.File, f *frame.Frame, styles ExcelStyles) error {
	columns := f.Columns()

	header := append([]string{"Date"}, columns...)
	for i, h := range header {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		fx.SetCellValue(dataSheet, cell, h)
		fx.SetCellStyle(dataSheet, cell, cell, styles.HeaderStyle)
	}

	for i := 0; i < f.Len(); i++ {
		row := f.Row(i)
		values := make([]interface{}, 0, len(header))
		values = append(values, row.Date)
		for _, c := range columns {
			if v := row.Values[c]; v.Defined {
				values = append(values, v.V)
			} else {
				values = append(values, nil)
			}
		}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := fx.SetSheetRow(dataSheet, cell, &values); err != nil {
			return err
		}
	}

	last := f.Len() + 1
	fx.SetColWidth(dataSheet, "A", "A", 12)
	if f.Len() > 0 {
		fx.SetCellStyle(dataSheet, "A2", fmt.Sprintf("A%d", last), styles.DateStyle)
	}
	for i, c := range columns {
		col, _ := excelize.ColumnNumberToName(i + 2)
		fx.SetColWidth(dataSheet, col, col, 14)
		if f.Len() == 0 {
			continue
		}
		style := styles.ValueStyle
		switch c {
		case types.ColumnVolume:
			style = styles.VolumeStyle
		case types.ColumnOpen, types.ColumnHigh, types.ColumnLow, types.ColumnClose:
			style = styles.PriceStyle
		}
		fx.SetCellStyle(dataSheet, col+"2", fmt.Sprintf("%s%d", col, last), style)
	}

	return fx.SetPanes(dataSheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	})
}

// writeBandsSheet writes the constant 70 and 30 series the RSI chart draws as reference lines
func (r *DefaultExcelReporter) writeBandsSheet(fx *excelize.File, rows int) error {
	if _, err := fx.NewSheet(bandsSheet); err != nil {
		return err
	}
	fx.SetCellValue(bandsSheet, "A1", "Overbought")
	fx.SetCellValue(bandsSheet, "B1", "Oversold")
	for i := 0; i < rows; i++ {
		if err := fx.SetSheetRow(bandsSheet, fmt.Sprintf("A%d", i+2), &[]interface{}{RSIOverbought, RSIOversold}); err != nil {
			return err
		}
	}
	return fx.SetSheetVisible(bandsSheet, false)
}

func (r *DefaultExcelReporter) writeCharts(fx *excelize.File, report Report, f *frame.Frame) error {
	columns := f.Columns()
	index := make(map[string]string, len(columns))
	for i, c := range columns {
		name, _ := excelize.ColumnNumberToName(i + 2)
		index[c] = name
	}
	last := f.Len() + 1
	categories := fmt.Sprintf("%s!$A$2:$A$%d", dataSheet, last)

	for n, spec := range indicatorCharts {
		var series []excelize.ChartSeries
		for _, c := range spec.columns {
			col, ok := index[c]
			if !ok {
				continue
			}
			series = append(series, excelize.ChartSeries{
				Name:       fmt.Sprintf("%s!$%s$1", dataSheet, col),
				Categories: categories,
				Values:     fmt.Sprintf("%s!$%s$2:$%s$%d", dataSheet, col, col, last),
				Marker:     excelize.ChartMarker{Symbol: "none"},
			})
		}
		if len(series) == 0 {
			continue
		}
		if spec.bands {
			for _, col := range []string{"A", "B"} {
				series = append(series, excelize.ChartSeries{
					Name:       fmt.Sprintf("%s!$%s$1", bandsSheet, col),
					Categories: categories,
					Values:     fmt.Sprintf("%s!$%s$2:$%s$%d", bandsSheet, col, col, last),
					Marker:     excelize.ChartMarker{Symbol: "none"},
					Line:       excelize.ChartLine{Width: 1},
				})
			}
		}

		anchor := fmt.Sprintf("A%d", 1+n*20)
		err := fx.AddChart(chartsSheet, anchor, &excelize.Chart{
			Type:      excelize.Line,
			Series:    series,
			Title:     []excelize.RichTextRun{{Text: fmt.Sprintf("%s %s", report.Ticker, spec.title)}},
			Legend:    excelize.ChartLegend{Position: "bottom"},
			Dimension: excelize.ChartDimension{Width: 960, Height: 360},
		})
		if err != nil {
			return fmt.Errorf("failed to add %s chart: %w", spec.title, err)
		}
	}
	return nil
}
