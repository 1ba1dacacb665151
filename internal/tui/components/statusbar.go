package components

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/duskwallet/duskwallet/internal/tui/theme"
)

// ToastKind selects the toast color.
type ToastKind int

const (
	ToastInfo ToastKind = iota
	ToastSuccess
	ToastError
)

// Toast is a transient one-line notification.
type Toast struct {
	Kind  ToastKind
	Title string
	Text  string
}

// RenderStatusBar renders the bottom status bar: key hints or the current
// toast on the left, the signed-in user and data age on the right.
func RenderStatusBar(width int, user, dataAge string, toast *Toast) string {
	t := theme.Active
	bg := lipgloss.NewStyle().Background(t.Surface)
	muted := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)

	left := muted.Render(" [?]help  [r]efresh  [L]ogout  [q]uit")
	if toast != nil {
		color := t.Accent
		switch toast.Kind {
		case ToastSuccess:
			color = t.Green
		case ToastError:
			color = t.Red
		}
		title := lipgloss.NewStyle().Foreground(color).Background(t.Surface).Bold(true).Render(" " + toast.Title)
		left = title + muted.Render(" "+toast.Text)
	}

	right := ""
	if user != "" {
		right = user
	}
	if dataAge != "" {
		if right != "" {
			right += " · "
		}
		right += "updated " + dataAge
	}
	right = muted.Render(right + " ")

	padding := max(0, width-lipgloss.Width(left)-lipgloss.Width(right))
	bar := left + bg.Render(spaces(padding)) + right
	return lipgloss.NewStyle().MaxWidth(width).Render(bar)
}

func spaces(n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = ' '
	}
	return string(b)
}
