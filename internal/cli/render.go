package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Theme colors (dusk: yellow on deep navy)
var (
	ColorBorder    = lipgloss.Color("#2A3441")
	ColorTextDim   = lipgloss.Color("#4B5563")
	ColorTextMuted = lipgloss.Color("#9CA3AF")
	ColorText      = lipgloss.Color("#F9FAFB")
	ColorAccent    = lipgloss.Color("#FEE715")
	ColorGreen     = lipgloss.Color("#10B981")
	ColorRed       = lipgloss.Color("#EF4444")
	ColorOrange    = lipgloss.Color("#F59E0B")
	ColorBlue      = lipgloss.Color("#3B82F6")
)

// Styles
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorAccent).
			Align(lipgloss.Center)

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorAccent)

	valueStyle = lipgloss.NewStyle().
			Foreground(ColorText)

	mutedStyle = lipgloss.NewStyle().
			Foreground(ColorTextMuted)

	incomeStyle = lipgloss.NewStyle().
			Foreground(ColorGreen)

	expenseStyle = lipgloss.NewStyle().
			Foreground(ColorRed)

	warnStyle = lipgloss.NewStyle().
			Foreground(ColorOrange)

	dimStyle = lipgloss.NewStyle().
			Foreground(ColorTextDim)
)

// Table represents a bordered text table for CLI output.
type Table struct {
	Title   string
	Headers []string
	Rows    [][]string
	// RightAlign marks numeric columns.
	RightAlign []bool
}

// RenderTitle renders a centered title bar in a bordered box.
func RenderTitle(title string) string {
	border := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorBorder).
		Width(55).
		Align(lipgloss.Center).
		Padding(0, 1)

	return border.Render(titleStyle.Render(title))
}

// RenderSection renders an accent heading.
func RenderSection(title string) string {
	return "  " + headerStyle.Render(title)
}

// Muted renders s in the muted color.
func Muted(s string) string { return mutedStyle.Render(s) }

// Warn renders s in the warning color.
func Warn(s string) string { return warnStyle.Render(s) }

// Income renders s in the income color.
func Income(s string) string { return incomeStyle.Render(s) }

// Expense renders s in the expense color.
func Expense(s string) string { return expenseStyle.Render(s) }

// rule draws a horizontal border line for the given column widths.
func rule(widths []int, left, mid, right string) string {
	var b strings.Builder
	b.WriteString(dimStyle.Render(left))
	for i, w := range widths {
		b.WriteString(dimStyle.Render(strings.Repeat("─", w+2)))
		if i < len(widths)-1 {
			b.WriteString(dimStyle.Render(mid))
		}
	}
	b.WriteString(dimStyle.Render(right))
	b.WriteString("\n")
	return b.String()
}

// RenderTable renders a bordered table with headers and rows. Widths are
// measured in terminal cells so accented text lines up.
func RenderTable(t Table) string {
	numCols := len(t.Headers)
	if numCols == 0 && len(t.Rows) > 0 {
		numCols = len(t.Rows[0])
	}
	if numCols == 0 {
		return ""
	}

	widths := make([]int, numCols)
	for i, h := range t.Headers {
		widths[i] = max(widths[i], lipgloss.Width(h))
	}
	for _, row := range t.Rows {
		for i := 0; i < numCols && i < len(row); i++ {
			widths[i] = max(widths[i], lipgloss.Width(row[i]))
		}
	}

	pad := func(cell string, w int, right bool) string {
		gap := strings.Repeat(" ", w-lipgloss.Width(cell))
		if right {
			return " " + gap + cell + " "
		}
		return " " + cell + gap + " "
	}
	sep := dimStyle.Render("│")

	var b strings.Builder
	if t.Title != "" {
		b.WriteString(RenderSection(t.Title))
		b.WriteString("\n")
	}

	b.WriteString(rule(widths, "╭", "┬", "╮"))
	if len(t.Headers) > 0 {
		b.WriteString(sep)
		for i, h := range t.Headers {
			b.WriteString(headerStyle.Render(pad(h, widths[i], false)))
			b.WriteString(sep)
		}
		b.WriteString("\n")
		b.WriteString(rule(widths, "├", "┼", "┤"))
	}

	for _, row := range t.Rows {
		b.WriteString(sep)
		for i := 0; i < numCols; i++ {
			cell := ""
			if i < len(row) {
				cell = row[i]
			}
			right := i < len(t.RightAlign) && t.RightAlign[i]
			b.WriteString(valueStyle.Render(pad(cell, widths[i], right)))
			b.WriteString(sep)
		}
		b.WriteString("\n")
	}
	b.WriteString(rule(widths, "╰", "┴", "╯"))

	return b.String()
}

// RenderProgressBar renders a simple text progress bar.
func RenderProgressBar(current, total int, width int) string {
	if total <= 0 {
		return ""
	}

	pct := float64(current) / float64(total)
	pct = min(max(pct, 0), 1)
	filled := int(pct * float64(width))

	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
	return fmt.Sprintf("[%s] %d/%d", headerStyle.Render(bar), current, total)
}

// RenderHorizontalBar renders one bar chart row: label, bar and value.
func RenderHorizontalBar(label string, value, maxValue float64, maxWidth int, style lipgloss.Style, suffix string) string {
	barLen := 0
	if maxValue > 0 {
		barLen = int(value / maxValue * float64(maxWidth))
	}
	barLen = min(max(barLen, 0), maxWidth)
	if value > 0 && barLen == 0 {
		barLen = 1
	}
	bar := style.Render(strings.Repeat("█", barLen)) + strings.Repeat(" ", maxWidth-barLen)
	return fmt.Sprintf("  %s %s %s", label, bar, suffix)
}
