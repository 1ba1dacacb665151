package components

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/duskwallet/duskwallet/internal/tui/theme"
)

// Series is one colored set of values in a grouped bar chart.
type Series struct {
	Name   string
	Values []float64
	Color  lipgloss.Color
}

// GroupedBarChart renders one group of vertical bars per label, one bar per
// series, with a y-axis of money ticks.
func GroupedBarChart(series []Series, labels []string, width, height int) string {
	t := theme.Active
	if len(series) == 0 || len(labels) == 0 {
		return ""
	}
	height = max(height, 3)

	peak := 0.0
	for _, s := range series {
		for _, v := range s.Values {
			peak = max(peak, v)
		}
	}
	if peak == 0 {
		peak = 1
	}

	step := chartTickStep(peak)
	for math.Ceil(peak/step) > float64(max(2, height/2)) {
		step *= 2
	}
	ceiling := math.Ceil(peak/step) * step
	intervals := max(1, int(math.Round(ceiling/step)))
	rowsPerTick := max(1, height/intervals)
	chartH := rowsPerTick * intervals

	yLabelW := max(4, len(formatChartLabel(ceiling))+1)
	ticks := make(map[int]string, intervals)
	for i := 1; i <= intervals; i++ {
		ticks[i*rowsPerTick] = formatChartLabel(step * float64(i))
	}

	groups := len(labels)
	groupW := (width - yLabelW - 1) / groups
	barW := max(1, min(4, (groupW-2)/len(series)))
	groupW = barW*len(series) + 2

	axis := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)
	blank := lipgloss.NewStyle().Background(t.Surface)
	partials := []rune{' ', '▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

	var b strings.Builder
	for row := chartH; row >= 1; row-- {
		top := ceiling * float64(row) / float64(chartH)
		bottom := ceiling * float64(row-1) / float64(chartH)

		b.WriteString(axis.Render(fmt.Sprintf("%*s│", yLabelW, ticks[row])))
		for g := 0; g < groups; g++ {
			b.WriteString(blank.Render(" "))
			for _, s := range series {
				v := 0.0
				if g < len(s.Values) {
					v = s.Values[g]
				}
				style := lipgloss.NewStyle().Foreground(s.Color).Background(t.Surface)
				switch {
				case v >= top:
					b.WriteString(style.Render(strings.Repeat("█", barW)))
				case v > bottom:
					idx := min(8, max(1, int((v-bottom)/(top-bottom)*8)))
					b.WriteString(style.Render(strings.Repeat(string(partials[idx]), barW)))
				default:
					b.WriteString(blank.Render(strings.Repeat(" ", barW)))
				}
			}
			b.WriteString(blank.Render(" "))
		}
		b.WriteString("\n")
	}

	b.WriteString(axis.Render(fmt.Sprintf("%*s└%s", yLabelW, "0", strings.Repeat("─", groups*groupW))))
	b.WriteString("\n")
	b.WriteString(blank.Render(strings.Repeat(" ", yLabelW+1)))
	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	for _, l := range labels {
		r := []rune(l)
		if len(r) > groupW {
			r = r[:groupW]
		}
		b.WriteString(labelStyle.Render(fmt.Sprintf("%-*s", groupW, string(r))))
	}

	var legend []string
	for _, s := range series {
		legend = append(legend, lipgloss.NewStyle().Foreground(s.Color).Background(t.Surface).Render("█ ")+
			labelStyle.Render(s.Name))
	}
	b.WriteString("\n")
	b.WriteString(blank.Render(strings.Repeat(" ", yLabelW+1)))
	b.WriteString(strings.Join(legend, blank.Render("   ")))

	return b.String()
}

// HBar is one row of a horizontal bar list.
type HBar struct {
	Label string
	Value float64
	Text  string // shown after the bar
}

// HBarList renders labeled horizontal bars scaled to the largest value.
func HBarList(rows []HBar, color lipgloss.Color, width int) string {
	t := theme.Active
	if len(rows) == 0 {
		return ""
	}

	labelW, textW := 0, 0
	peak := 0.0
	for _, r := range rows {
		labelW = max(labelW, lipgloss.Width(r.Label))
		textW = max(textW, lipgloss.Width(r.Text))
		peak = max(peak, r.Value)
	}
	barMax := max(4, width-labelW-textW-4)

	labelStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	barStyle := lipgloss.NewStyle().Foreground(color).Background(t.Surface)
	textStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	blank := lipgloss.NewStyle().Background(t.Surface)

	lines := make([]string, 0, len(rows))
	for _, r := range rows {
		n := 0
		if peak > 0 {
			n = int(r.Value / peak * float64(barMax))
		}
		if r.Value > 0 && n == 0 {
			n = 1
		}
		pad := labelW - lipgloss.Width(r.Label)
		lines = append(lines, labelStyle.Render(r.Label+strings.Repeat(" ", pad))+
			blank.Render(" ")+
			barStyle.Render(strings.Repeat("█", n))+
			blank.Render(strings.Repeat(" ", barMax-n+1))+
			textStyle.Render(fmt.Sprintf("%*s", textW, r.Text)))
	}
	return strings.Join(lines, "\n")
}

// chartTickStep picks a 1/2/5 tick interval aiming for about five ticks.
func chartTickStep(peak float64) float64 {
	if peak <= 0 {
		return 1
	}
	rough := peak / 5
	base := math.Pow(10, math.Floor(math.Log10(rough)))
	switch frac := rough / base; {
	case frac < 1.5:
		return base
	case frac < 3.5:
		return 2 * base
	default:
		return 5 * base
	}
}

// formatChartLabel shortens an axis value: 1500 -> "1.5k".
func formatChartLabel(v float64) string {
	switch {
	case v >= 1e6:
		return trimZero(fmt.Sprintf("%.1f", v/1e6)) + "M"
	case v >= 1e3:
		return trimZero(fmt.Sprintf("%.1f", v/1e3)) + "k"
	case v >= 1:
		return fmt.Sprintf("%.0f", v)
	}
	return fmt.Sprintf("%.2f", v)
}

func trimZero(s string) string {
	return strings.TrimSuffix(s, ".0")
}
