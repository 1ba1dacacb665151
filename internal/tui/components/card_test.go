package components

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/duskwallet/duskwallet/internal/tui/theme"
)

func init() {
	// Force TrueColor output so ANSI codes are generated in tests
	lipgloss.SetColorProfile(termenv.TrueColor)
}

func TestLayoutRow(t *testing.T) {
	got := LayoutRow(10, 3)
	if len(got) != 3 || got[0]+got[1]+got[2] != 10 || got[0] != 4 {
		t.Errorf("LayoutRow(10, 3) = %v", got)
	}
	if LayoutRow(10, 0) != nil {
		t.Error("LayoutRow(10, 0) should be nil")
	}
}

func TestCardRowBackgroundFill(t *testing.T) {
	theme.SetActive("dusk")

	shortCard := ContentCard("Short", "Content", 22)
	tallCard := ContentCard("Tall", "Line 1\nLine 2\nLine 3\nLine 4\nLine 5", 22)

	shortLines := lipgloss.Height(shortCard)
	tallLines := lipgloss.Height(tallCard)
	if shortLines >= tallLines {
		t.Fatal("test setup: short card should be shorter than tall card")
	}

	joined := CardRow([]string{tallCard, shortCard})
	lines := strings.Split(joined, "\n")
	if len(lines) != tallLines {
		t.Fatalf("joined height = %d, want %d", len(lines), tallLines)
	}

	for i := shortLines; i < len(lines); i++ {
		if !strings.Contains(lines[i], "\x1b[") {
			t.Errorf("line %d has no ANSI codes: %q", i, lines[i])
		}
	}

	w := lipgloss.Width(lines[0])
	for i, line := range lines {
		if lipgloss.Width(line) != w {
			t.Errorf("line %d width = %d, want %d", i, lipgloss.Width(line), w)
		}
	}
}

func TestMetricCardRowWidth(t *testing.T) {
	theme.SetActive("dusk")
	row := MetricCardRow([]Metric{
		{Label: "Income", Value: "R$ 10,00"},
		{Label: "Expense", Value: "R$ 5,00"},
		{Label: "Balance", Value: "R$ 5,00"},
	}, 90)
	if got := lipgloss.Width(row); got != 90 {
		t.Errorf("row width = %d, want 90", got)
	}
}

func TestHBarListScalesToPeak(t *testing.T) {
	out := HBarList([]HBar{
		{Label: "Mercado", Value: 100, Text: "R$ 100,00"},
		{Label: "Lazer", Value: 50, Text: "R$ 50,00"},
	}, theme.Active.Red, 60)
	lines := strings.Split(out, "\n")
	if len(lines) != 2 {
		t.Fatalf("lines = %d, want 2", len(lines))
	}
	full := strings.Count(lines[0], "█")
	half := strings.Count(lines[1], "█")
	if full == 0 || half == 0 || half >= full {
		t.Errorf("bar lengths = %d, %d; want second shorter", full, half)
	}
}

func TestChartTickStep(t *testing.T) {
	tests := []struct {
		peak float64
		want float64
	}{
		{0, 1},
		{10, 2},
		{100, 20},
		{1000, 200},
		{3000, 500},
	}
	for _, tt := range tests {
		if got := chartTickStep(tt.peak); got != tt.want {
			t.Errorf("chartTickStep(%v) = %v, want %v", tt.peak, got, tt.want)
		}
	}
}

func TestFormatChartLabel(t *testing.T) {
	for v, want := range map[float64]string{1500: "1.5k", 2000: "2k", 3e6: "3M", 50: "50"} {
		if got := formatChartLabel(v); got != want {
			t.Errorf("formatChartLabel(%v) = %q, want %q", v, got, want)
		}
	}
}
