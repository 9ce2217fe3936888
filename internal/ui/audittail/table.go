package audittail

import (
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"
)

// defaultColumns returns the table layout before the first resize.
func defaultColumns() []table.Column {
	return columnsForWidth(100)
}

// columnsForWidth sizes columns so the input column absorbs the slack.
func columnsForWidth(width int) []table.Column {
	const fixed = 8 + 12 + 18 + 6
	input := width - fixed
	if input < 20 {
		input = 20
	}
	return []table.Column{
		{Title: "Time", Width: 8},
		{Title: "Source", Width: 12},
		{Title: "Kind", Width: 18},
		{Title: "Input", Width: input},
	}
}

// tableStyles returns table styles for the UI.
func tableStyles(noColor bool) table.Styles {
	if noColor {
		return table.DefaultStyles()
	}
	styles := table.DefaultStyles()
	styles.Header = styles.Header.Foreground(lipgloss.Color("252"))
	return styles
}

// rowsForState converts tail state into table rows, newest last.
func rowsForState(state State, noColor bool) []table.Row {
	rows := make([]table.Row, 0, len(state.Rows))
	for _, row := range state.Rows {
		rows = append(rows, table.Row{
			formatTime(row.At),
			row.Source,
			formatKind(row.Kind, noColor),
			formatInput(row.RawInput),
		})
	}
	return rows
}
