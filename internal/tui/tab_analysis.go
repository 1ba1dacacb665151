package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/duskwallet/duskwallet/internal/analysis"
	"github.com/duskwallet/duskwallet/internal/cli"
	"github.com/duskwallet/duskwallet/internal/model"
	"github.com/duskwallet/duskwallet/internal/tui/components"
	"github.com/duskwallet/duskwallet/internal/tui/theme"
)

func (a App) renderAnalysisTab(cw int) string {
	t := theme.Active
	inner := components.CardInnerWidth(cw)

	var b strings.Builder
	b.WriteString(components.ContentCard("Weekly quota", a.quotaLine(inner), cw))
	b.WriteString("\n")

	if a.analysisLoading && a.view.Empty() {
		b.WriteString(components.ContentCard("Analysis", a.loadingLine("Loading analysis..."), cw))
		return b.String()
	}
	if a.refreshing {
		b.WriteString(components.ContentCard("Analysis", a.loadingLine("Generating a new analysis..."), cw))
		b.WriteString("\n")
	}

	v := a.view
	if v.Empty() {
		msg := "No analysis yet. Press r to generate one."
		if v.Message != "" {
			msg = v.Message
		}
		b.WriteString(components.ContentCard("Analysis", mutedText(msg), cw))
		return b.String()
	}

	s := v.Analysis.Sections()

	if s.Summary != "" {
		b.WriteString(components.ContentCard("Resumo Financeiro", captioned("Visão geral da sua situação", s.Summary, t.Blue, inner), cw))
		b.WriteString("\n")
	}

	type point struct {
		title, caption, text string
		color                lipgloss.Color
	}
	var side []point
	if s.Strength != "" {
		side = append(side, point{"Ponto Positivo", "Continue assim!", s.Strength, t.Green})
	}
	if s.Concern != "" {
		side = append(side, point{"Ponto de Atenção", "Fique atento", s.Concern, t.Orange})
	}
	widths := []int{cw}
	if len(side) == 2 {
		widths = components.LayoutRow(cw, 2)
	}
	var cards []string
	for i, p := range side {
		w := widths[i]
		body := captioned(p.caption, p.text, p.color, components.CardInnerWidth(w))
		cards = append(cards, components.ContentCard(p.title, body, w))
	}
	if len(cards) > 0 {
		b.WriteString(components.CardRow(cards))
		b.WriteString("\n")
	}

	lists := []struct {
		title   string
		caption string
		items   []string
		marker  func(int) string
		color   lipgloss.Color
	}{
		{"Padrões de Comportamento", s.PatternsCaption(), s.Patterns, func(i int) string { return fmt.Sprintf("%d ", i+1) }, t.Accent},
		{"Conselhos Práticos", "Ações recomendadas", s.Advice, func(int) string { return "• " }, t.Accent},
		{"Plano de Emergência", "Para situações críticas", s.EmergencyPlan, func(i int) string { return fmt.Sprintf("Passo %d ", i+1) }, t.Red},
	}
	for _, l := range lists {
		if len(l.items) == 0 {
			continue
		}
		body := mutedText(l.caption) + "\n" + markedList(l.items, l.marker, l.color, inner)
		b.WriteString(components.ContentCard(l.title, body, cw))
		b.WriteString("\n")
	}

	if !s.Known() {
		text := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface).Width(inner)
		b.WriteString(components.ContentCard("Analysis", text.Render(string(v.Analysis.Payload)), cw))
		b.WriteString("\n")
	}

	b.WriteString(mutedText(" " + lastUpdateLine(v, time.Now())))
	return b.String()
}

func (a App) quotaLine(w int) string {
	st := a.status
	switch {
	case st == nil:
		return mutedText("Quota unavailable.")
	case st.HasSubscription:
		return lipgloss.NewStyle().Foreground(theme.Active.Green).Background(theme.Active.Surface).
			Render("Subscription active: unlimited analyses.")
	}
	return components.QuotaBar(st.AnalysisRemaining, st.MaxAnalysisPerWeek, st.DaysUntilReset, min(30, w/3))
}

// captioned renders a colored caption above a wrapped paragraph.
func captioned(caption, body string, color lipgloss.Color, w int) string {
	t := theme.Active
	head := lipgloss.NewStyle().Foreground(color).Background(t.Surface).Render(caption)
	text := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface).Width(max(10, w)).Render(body)
	return head + "\n" + text
}

func markedList(items []string, marker func(int) string, color lipgloss.Color, w int) string {
	t := theme.Active
	markStyle := lipgloss.NewStyle().Foreground(color).Background(t.Surface)
	text := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)

	lines := make([]string, len(items))
	for i, it := range items {
		mark := markStyle.Render(marker(i))
		lines[i] = lipgloss.JoinHorizontal(lipgloss.Top, mark, text.Width(max(10, w-lipgloss.Width(mark))).Render(it))
	}
	return strings.Join(lines, "\n")
}

func lastUpdateLine(v analysis.View, now time.Time) string {
	line := "Last update: " + cli.FormatRelative(v.UpdatedAt, now)
	if v.FromCache {
		line += " (cached)"
	}
	return line
}

// quotaSummary is the one-line quota text used in toasts.
func quotaSummary(st *model.AnalysisStatus) string {
	if st == nil || st.HasSubscription {
		return ""
	}
	return fmt.Sprintf("%d/%d left, resets in %s", st.AnalysisRemaining, st.MaxAnalysisPerWeek, cli.FormatDays(st.DaysUntilReset))
}
