package eval

import (
	"fmt"
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// RenderMatrix formats the confusion matrix as a class x class table with
// actual classes down the rows and predicted classes across the columns.
func RenderMatrix(summary Summary) string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)

	header := make(table.Row, 0, len(summary.Classes)+1)
	header = append(header, "actual \\ predicted")
	for _, class := range summary.Classes {
		header = append(header, class)
	}
	tw.AppendHeader(header)

	for i, class := range summary.Classes {
		row := make(table.Row, 0, len(summary.Classes)+1)
		row = append(row, class)
		for j := range summary.Classes {
			row = append(row, summary.Matrix[i][j])
		}
		tw.AppendRow(row)
	}

	configs := make([]table.ColumnConfig, 0, len(summary.Classes)+1)
	configs = append(configs, table.ColumnConfig{Number: 1, Align: text.AlignLeft})
	for i := range summary.Classes {
		configs = append(configs, table.ColumnConfig{Number: i + 2, Align: text.AlignRight})
	}
	tw.SetColumnConfigs(configs)

	return tw.Render()
}

// RenderSummary formats the headline numbers above the matrix.
func RenderSummary(summary Summary) string {
	return fmt.Sprintf(
		"samples=%d mismatches=%d accuracy=%s error_rate=%s",
		summary.Total,
		summary.Mismatches,
		formatRate(summary.Accuracy()),
		formatRate(summary.ErrorRate()),
	)
}

func formatRate(rate float64) string {
	return strconv.FormatFloat(rate*100, 'f', 2, 64) + "%"
}
