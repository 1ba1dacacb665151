// Package theme defines color themes for the DuskWallet TUI.
package theme

import "github.com/charmbracelet/lipgloss"

// Theme defines the color roles used throughout the TUI.
type Theme struct {
	Name         string
	Background   lipgloss.Color // Main app background
	Surface      lipgloss.Color // Card/panel backgrounds
	SurfaceHover lipgloss.Color // Selected row
	Border       lipgloss.Color
	TextDim      lipgloss.Color // Hints, disabled
	TextMuted    lipgloss.Color // Labels, metadata
	TextPrimary  lipgloss.Color
	Accent       lipgloss.Color // Active tab, headings, focus
	Green        lipgloss.Color // Income
	Red          lipgloss.Color // Expense
	Orange       lipgloss.Color // Warnings
	Blue         lipgloss.Color
}

// Active is the currently selected theme.
var Active = Dusk

// Dusk is the default theme: yellow accent on deep navy.
var Dusk = Theme{
	Name:         "dusk",
	Background:   lipgloss.Color("#101820"),
	Surface:      lipgloss.Color("#18222D"),
	SurfaceHover: lipgloss.Color("#223041"),
	Border:       lipgloss.Color("#2A3441"),
	TextDim:      lipgloss.Color("#4B5563"),
	TextMuted:    lipgloss.Color("#9CA3AF"),
	TextPrimary:  lipgloss.Color("#F9FAFB"),
	Accent:       lipgloss.Color("#FEE715"),
	Green:        lipgloss.Color("#10B981"),
	Red:          lipgloss.Color("#EF4444"),
	Orange:       lipgloss.Color("#F59E0B"),
	Blue:         lipgloss.Color("#3B82F6"),
}

// Dawn is a light variant for bright terminals.
var Dawn = Theme{
	Name:         "dawn",
	Background:   lipgloss.Color("#F8F5EC"),
	Surface:      lipgloss.Color("#FFFFFF"),
	SurfaceHover: lipgloss.Color("#EFE9D8"),
	Border:       lipgloss.Color("#D6CFBD"),
	TextDim:      lipgloss.Color("#A8A29E"),
	TextMuted:    lipgloss.Color("#57534E"),
	TextPrimary:  lipgloss.Color("#101820"),
	Accent:       lipgloss.Color("#B45309"),
	Green:        lipgloss.Color("#047857"),
	Red:          lipgloss.Color("#B91C1C"),
	Orange:       lipgloss.Color("#C2410C"),
	Blue:         lipgloss.Color("#1D4ED8"),
}

// Terminal uses ANSI 16 colors only.
var Terminal = Theme{
	Name:         "terminal",
	Background:   lipgloss.Color("0"),
	Surface:      lipgloss.Color("0"),
	SurfaceHover: lipgloss.Color("8"),
	Border:       lipgloss.Color("8"),
	TextDim:      lipgloss.Color("8"),
	TextMuted:    lipgloss.Color("7"),
	TextPrimary:  lipgloss.Color("15"),
	Accent:       lipgloss.Color("3"),
	Green:        lipgloss.Color("2"),
	Red:          lipgloss.Color("1"),
	Orange:       lipgloss.Color("11"),
	Blue:         lipgloss.Color("4"),
}

// All available themes.
var All = []Theme{Dusk, Dawn, Terminal}

// ByName returns a theme by its name, defaulting to Dusk.
func ByName(name string) Theme {
	for _, t := range All {
		if t.Name == name {
			return t
		}
	}
	return Dusk
}

// SetActive sets the active theme by name.
func SetActive(name string) {
	Active = ByName(name)
}
