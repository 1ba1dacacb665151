package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/duskwallet/duskwallet/internal/cli"
	"github.com/duskwallet/duskwallet/internal/model"
	"github.com/duskwallet/duskwallet/internal/tui/components"
	"github.com/duskwallet/duskwallet/internal/tui/theme"
)

func (a App) renderDashboardTab(cw int) string {
	t := theme.Active
	d := a.dash
	if d == nil {
		return components.ContentCard("Dashboard", a.loadingLine("Loading dashboard..."), cw)
	}

	var b strings.Builder

	// Row 1: totals
	balanceColor := t.Green
	if d.Totals.Balance.IsNegative() {
		balanceColor = t.Red
	}
	totalsNote := ""
	if d.TotalsErr != nil {
		totalsNote = "unavailable"
	}
	b.WriteString(components.MetricCardRow([]components.Metric{
		{Label: "Income", Value: cli.FormatBRL(d.Totals.TotalIncome), Color: t.Green, Note: totalsNote},
		{Label: "Expenses", Value: cli.FormatBRL(d.Totals.TotalExpense), Color: t.Red, Note: totalsNote},
		{Label: "Balance", Value: cli.FormatBRL(d.Totals.Balance), Color: balanceColor, Note: totalsNote},
	}, cw))
	b.WriteString("\n")

	if d.TransactionsErr != nil {
		b.WriteString(components.ContentCard("Transactions", mutedText("Could not load transactions."), cw))
		return b.String()
	}

	// Row 2: monthly chart + category breakdown
	halves := components.LayoutRow(cw, 2)
	monthly := components.ContentCard("Income vs expenses",
		monthlyChart(d.Monthly, components.CardInnerWidth(halves[0])), halves[0])
	categories := components.ContentCard("Expenses by category",
		categoryBars(d.Categories, components.CardInnerWidth(halves[1])), halves[1])
	b.WriteString(components.CardRow([]string{monthly, categories}))
	b.WriteString("\n")

	// Row 3: recent transactions
	b.WriteString(components.ContentCard(
		fmt.Sprintf("Recent transactions (%d)", len(d.Recent)),
		transactionLines(d.Recent, components.CardInnerWidth(cw), -1),
		cw))
	return b.String()
}

func monthlyChart(points []model.MonthlyPoint, w int) string {
	t := theme.Active
	if len(points) == 0 {
		return mutedText("No transactions yet.")
	}
	labels := make([]string, len(points))
	income := make([]float64, len(points))
	expense := make([]float64, len(points))
	for i, p := range points {
		labels[i] = p.Month
		income[i] = p.Income.InexactFloat64()
		expense[i] = p.Expense.InexactFloat64()
	}
	return components.GroupedBarChart([]components.Series{
		{Name: "Income", Values: income, Color: t.Green},
		{Name: "Expenses", Values: expense, Color: t.Red},
	}, labels, w, 8)
}

func categoryBars(totals []model.CategoryTotal, w int) string {
	if len(totals) == 0 {
		return mutedText("No expenses yet.")
	}
	rows := make([]components.HBar, len(totals))
	for i, c := range totals {
		rows[i] = components.HBar{
			Label: c.Category.Glyph() + " " + c.Category.Label(),
			Value: c.Total.InexactFloat64(),
			Text:  cli.FormatBRL(c.Total),
		}
	}
	return components.HBarList(rows, theme.Active.Accent, w)
}

// transactionLines renders one transaction per line. selected is the
// highlighted index, or -1.
func transactionLines(txs []model.Transaction, w, selected int) string {
	t := theme.Active
	if len(txs) == 0 {
		return mutedText("No transactions.")
	}

	const dateW, amountW = 10, 16
	descW := max(10, w-dateW-amountW-4-18)

	lines := make([]string, len(txs))
	for i, tx := range txs {
		bg := t.Surface
		if i == selected {
			bg = t.SurfaceHover
		}
		base := lipgloss.NewStyle().Background(bg)
		text := base.Foreground(t.TextPrimary)
		muted := base.Foreground(t.TextMuted)
		amountStyle := base.Foreground(t.Green)
		if tx.IsExpense() {
			amountStyle = base.Foreground(t.Red)
		}
		if i == selected {
			text = text.Bold(true)
		}

		desc := cli.Truncate(tx.Description, descW)
		cat := cli.Truncate(tx.Category.Glyph()+" "+tx.Category.Label(), 16)
		line := muted.Render(fmt.Sprintf("%-*s", dateW, cli.FormatDate(tx.Date))) +
			base.Render("  ") +
			text.Render(fmt.Sprintf("%-*s", descW, desc)) +
			base.Render("  ") +
			muted.Render(fmt.Sprintf("%-16s", cat)) +
			amountStyle.Render(fmt.Sprintf("%*s", amountW, cli.FormatSigned(tx)))
		lines[i] = lipgloss.PlaceHorizontal(w, lipgloss.Left, line, lipgloss.WithWhitespaceBackground(bg))
	}
	return strings.Join(lines, "\n")
}
