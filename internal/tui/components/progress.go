package components

import (
	"fmt"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"

	"github.com/duskwallet/duskwallet/internal/tui/theme"
)

// ColorForRemaining returns green while quota remains, orange on the last
// one and red when used up.
func ColorForRemaining(remaining, total int) lipgloss.Color {
	t := theme.Active
	switch {
	case remaining <= 0:
		return t.Red
	case remaining == 1 && total > 1:
		return t.Orange
	}
	return t.Green
}

// QuotaBar renders the weekly analysis quota as "remaining/total" with a bar
// and the reset countdown.
func QuotaBar(remaining, total, daysUntilReset, barWidth int) string {
	t := theme.Active
	if total <= 0 {
		return ""
	}
	pct := min(max(float64(remaining)/float64(total), 0), 1)
	color := ColorForRemaining(remaining, total)

	bar := progress.New(
		progress.WithSolidFill(string(color)),
		progress.WithWidth(barWidth),
		progress.WithoutPercentage(),
	)
	bar.EmptyColor = string(t.TextDim)

	count := lipgloss.NewStyle().Foreground(color).Background(t.Surface).Bold(true).
		Render(fmt.Sprintf("%d/%d", remaining, total))
	note := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	space := lipgloss.NewStyle().Background(t.Surface).Render(" ")

	msg := fmt.Sprintf("%d free analysis(es) left this week", remaining)
	if remaining <= 0 {
		msg = fmt.Sprintf("quota used up, resets in %d day(s)", daysUntilReset)
	}
	return bar.ViewAs(pct) + space + count + space + note.Render(msg)
}
