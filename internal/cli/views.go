package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/duskwallet/duskwallet/internal/analysis"
	"github.com/duskwallet/duskwallet/internal/model"
	"github.com/duskwallet/duskwallet/internal/pipeline"
)

const barWidth = 28

// RenderTotals renders the income, expense and balance line.
func RenderTotals(d model.Dashboard) string {
	balance := FormatBRL(d.Balance)
	if d.Balance.IsNegative() {
		balance = Expense(balance)
	} else {
		balance = Income(balance)
	}
	return fmt.Sprintf("  %s %s   %s %s   %s %s",
		Muted("Income"), Income(FormatBRL(d.TotalIncome)),
		Muted("Expense"), Expense(FormatBRL(d.TotalExpense)),
		Muted("Balance"), balance,
	)
}

// RenderCategoryChart renders expense totals per category as bars.
func RenderCategoryChart(totals []model.CategoryTotal) string {
	if len(totals) == 0 {
		return "  " + Muted("No expenses yet.")
	}

	maxTotal := 0.0
	labelW := 0
	for _, ct := range totals {
		maxTotal = max(maxTotal, ct.Total.InexactFloat64())
		labelW = max(labelW, len([]rune(ct.Category.Label())))
	}

	var b strings.Builder
	for _, ct := range totals {
		label := fmt.Sprintf("%s %-*s", ct.Category.Glyph(), labelW, ct.Category.Label())
		b.WriteString(RenderHorizontalBar(label, ct.Total.InexactFloat64(), maxTotal, barWidth, expenseStyle, FormatBRL(ct.Total)))
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

// RenderMonthlyChart renders income and expense bars per month.
func RenderMonthlyChart(points []model.MonthlyPoint) string {
	if len(points) == 0 {
		return "  " + Muted("No transactions yet.")
	}

	maxV := 0.0
	for _, p := range points {
		maxV = max(maxV, p.Income.InexactFloat64(), p.Expense.InexactFloat64())
	}

	var b strings.Builder
	for _, p := range points {
		month := fmt.Sprintf("%-7s", p.Month)
		b.WriteString(RenderHorizontalBar(month+" +", p.Income.InexactFloat64(), maxV, barWidth, incomeStyle, FormatBRL(p.Income)))
		b.WriteString("\n")
		b.WriteString(RenderHorizontalBar(strings.Repeat(" ", 7)+" -", p.Expense.InexactFloat64(), maxV, barWidth, expenseStyle, FormatBRL(p.Expense)))
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

// TransactionsTable builds the transactions table.
func TransactionsTable(title string, txs []model.Transaction) Table {
	t := Table{
		Title:      title,
		Headers:    []string{"ID", "Date", "Description", "Category", "Payment", "Amount"},
		RightAlign: []bool{false, false, false, false, false, true},
	}
	for _, tx := range txs {
		amount := FormatSigned(tx)
		if tx.Type == model.Income {
			amount = Income(amount)
		} else {
			amount = Expense(amount)
		}
		t.Rows = append(t.Rows, []string{
			tx.ID,
			FormatDate(tx.Date),
			Truncate(tx.Description, 32),
			tx.Category.Glyph() + " " + tx.Category.Label(),
			tx.PaymentMethod.Label(),
			amount,
		})
	}
	return t
}

// RenderDashboard renders the full dashboard.
func RenderDashboard(data *pipeline.DashboardData) string {
	var b strings.Builder

	b.WriteString(RenderTitle("DuskWallet"))
	b.WriteString("\n\n")
	if data.TotalsErr != nil {
		b.WriteString("  " + Warn("Could not load the dashboard totals."))
	} else {
		b.WriteString(RenderTotals(data.Totals))
	}
	b.WriteString("\n\n")

	if data.TransactionsErr != nil {
		b.WriteString("  " + Warn("Could not load transactions."))
		b.WriteString("\n")
		return b.String()
	}

	b.WriteString(RenderSection("Expenses by category"))
	b.WriteString("\n")
	b.WriteString(RenderCategoryChart(data.Categories))
	b.WriteString("\n\n")

	b.WriteString(RenderSection("Income vs expense by month"))
	b.WriteString("\n")
	b.WriteString(RenderMonthlyChart(data.Monthly))
	b.WriteString("\n\n")

	if len(data.Recent) == 0 {
		b.WriteString(RenderSection("Recent transactions"))
		b.WriteString("\n  " + Muted("Nothing here yet. Add one with `duskwallet transactions add`."))
		b.WriteString("\n")
		return b.String()
	}
	b.WriteString(RenderTable(TransactionsTable("Recent transactions", data.Recent)))
	return b.String()
}

// RenderQuota describes the weekly analysis quota.
func RenderQuota(st *model.AnalysisStatus) string {
	switch {
	case st == nil:
		return "  " + Muted("Analysis quota unavailable.")
	case st.HasSubscription:
		return "  " + Income("Subscription active: unlimited analyses.")
	}

	line := "  " + RenderProgressBar(st.AnalysisRemaining, st.MaxAnalysisPerWeek, 12)
	if st.AnalysisRemaining > 0 {
		return line + Muted(fmt.Sprintf("  %d free analysis(es) left this week", st.AnalysisRemaining))
	}
	return line + Warn(fmt.Sprintf("  quota used up, resets in %s", FormatDays(st.DaysUntilReset)))
}

func renderText(b *strings.Builder, title, caption, text string) {
	if text == "" {
		return
	}
	b.WriteString(RenderSection(title) + "  " + Muted(caption))
	b.WriteString("\n  " + text + "\n\n")
}

func renderSteps(b *strings.Builder, title, caption string, items []string, marker func(int) string) {
	b.WriteString(RenderSection(title) + "  " + Muted(caption))
	b.WriteString("\n")
	for i, it := range items {
		b.WriteString("  " + marker(i) + " " + it + "\n")
	}
	b.WriteString("\n")
}

// RenderAnalysis renders an analysis view with its quota.
func RenderAnalysis(v analysis.View, st *model.AnalysisStatus, now time.Time) string {
	var b strings.Builder
	b.WriteString(RenderTitle("Financial analysis"))
	b.WriteString("\n\n")
	b.WriteString(RenderQuota(st))
	b.WriteString("\n\n")

	if v.Message != "" {
		b.WriteString("  " + Warn(v.Message) + "\n\n")
	}
	if v.Empty() {
		b.WriteString("  " + Muted("No analysis yet. Run `duskwallet analysis refresh` to generate one."))
		b.WriteString("\n")
		return b.String()
	}

	s := v.Analysis.Sections()
	renderText(&b, "Resumo Financeiro", "Visão geral da sua situação", s.Summary)
	renderText(&b, "Ponto Positivo", "Continue assim!", s.Strength)
	renderText(&b, "Ponto de Atenção", "Fique atento", s.Concern)
	if len(s.Patterns) > 0 {
		renderSteps(&b, "Padrões de Comportamento", s.PatternsCaption(), s.Patterns, func(i int) string {
			return fmt.Sprintf("%d.", i+1)
		})
	}
	if len(s.Advice) > 0 {
		renderSteps(&b, "Conselhos Práticos", "Ações recomendadas", s.Advice, func(int) string { return "•" })
	}
	if len(s.EmergencyPlan) > 0 {
		renderSteps(&b, "Plano de Emergência", "Para situações críticas", s.EmergencyPlan, func(i int) string {
			return fmt.Sprintf("Passo %d:", i+1)
		})
	}

	if !s.Known() {
		b.WriteString("  " + string(v.Analysis.Payload) + "\n\n")
	}

	src := ""
	if v.FromCache {
		src = " (cached)"
	}
	b.WriteString("  " + Muted("Last update: "+FormatRelative(v.UpdatedAt, now)+src))
	b.WriteString("\n")
	return b.String()
}
