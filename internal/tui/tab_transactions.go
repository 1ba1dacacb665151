package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/duskwallet/duskwallet/internal/cli"
	"github.com/duskwallet/duskwallet/internal/model"
	"github.com/duskwallet/duskwallet/internal/pipeline"
	"github.com/duskwallet/duskwallet/internal/tui/components"
	"github.com/duskwallet/duskwallet/internal/tui/theme"
)

// transactionsState holds the transactions tab state.
type transactionsState struct {
	filter pipeline.Filter

	cursor int
	offset int // scroll offset for the list

	searching bool
	search    textinput.Model

	// confirmDelete holds the id awaiting a y/n answer.
	confirmDelete string

	editor *transactionEditor
}

func newTransactionsState() transactionsState {
	ti := textinput.New()
	ti.Placeholder = "search descriptions"
	ti.Prompt = "/ "
	ti.CharLimit = 100
	ti.Width = 40
	return transactionsState{search: ti}
}

// capturing reports whether keys go to the search box, a confirmation or
// the editor.
func (s transactionsState) capturing() bool {
	return s.searching || s.confirmDelete != "" || s.editor != nil
}

func (s *transactionsState) clamp(n int) {
	if s.cursor >= n {
		s.cursor = n - 1
	}
	if s.cursor < 0 {
		s.cursor = 0
	}
}

func (a App) filteredTransactions() []model.Transaction {
	return pipeline.Apply(a.txs, a.txState.filter)
}

// nextType cycles all -> INCOME -> EXPENSE -> all.
func nextType(cur model.TransactionType) model.TransactionType {
	switch cur {
	case "":
		return model.Income
	case model.Income:
		return model.Expense
	}
	return ""
}

func nextCategory(cur model.Category) model.Category {
	if cur == "" {
		return model.Categories[0]
	}
	for i, c := range model.Categories {
		if c == cur && i+1 < len(model.Categories) {
			return model.Categories[i+1]
		}
	}
	return ""
}

func nextPayment(cur model.PaymentMethod) model.PaymentMethod {
	if cur == "" {
		return model.PaymentMethods[0]
	}
	for i, p := range model.PaymentMethods {
		if p == cur && i+1 < len(model.PaymentMethods) {
			return model.PaymentMethods[i+1]
		}
	}
	return ""
}

// updateTransactionsKeys handles tab-local keys. ok is false when the key
// is not one of them.
func (a App) updateTransactionsKeys(key string) (tea.Model, tea.Cmd, bool) {
	s := &a.txState
	list := a.filteredTransactions()

	switch key {
	case "/":
		s.searching = true
		s.search.SetValue(s.filter.Search)
		s.search.Focus()
		return a, textinput.Blink, true
	case "j", "down":
		if s.cursor < len(list)-1 {
			s.cursor++
		}
	case "k", "up":
		if s.cursor > 0 {
			s.cursor--
		}
	case "g":
		s.cursor = 0
	case "G":
		s.cursor = max(0, len(list)-1)
	case "f":
		s.filter.Type = nextType(s.filter.Type)
		s.cursor = 0
	case "c":
		s.filter.Category = nextCategory(s.filter.Category)
		s.cursor = 0
	case "p":
		s.filter.PaymentMethod = nextPayment(s.filter.PaymentMethod)
		s.cursor = 0
	case "x", "esc":
		s.filter = pipeline.Filter{}
		s.cursor = 0
	case "D":
		if s.cursor < len(list) {
			s.confirmDelete = list[s.cursor].ID
		}
	case "n":
		m, cmd := a.openEditor("", blankInput(time.Now()))
		return m, cmd, true
	case "e":
		if s.cursor >= len(list) {
			return a, nil, true
		}
		tx := list[s.cursor]
		m, cmd := a.openEditor(tx.ID, model.InputFrom(tx))
		return m, cmd, true
	default:
		return a, nil, false
	}
	return a, nil, true
}

// updateTransactionsInput handles keys while searching or confirming.
func (a App) updateTransactionsInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	s := &a.txState
	key := msg.String()

	if s.editor != nil {
		return a.updateEditor(msg)
	}
	if s.confirmDelete != "" {
		id := s.confirmDelete
		s.confirmDelete = ""
		if key == "y" || key == "Y" {
			return a, deleteTransactionCmd(a.core, id)
		}
		return a, nil
	}

	switch key {
	case "enter":
		s.filter.Search = strings.TrimSpace(s.search.Value())
		s.searching = false
		s.search.Blur()
		s.cursor = 0
		s.offset = 0
		return a, nil
	case "esc":
		s.searching = false
		s.search.Blur()
		return a, nil
	}

	var cmd tea.Cmd
	s.search, cmd = s.search.Update(msg)
	return a, cmd
}

func (a App) renderTransactionsTab(cw, h int) string {
	t := theme.Active
	s := a.txState

	if a.txs == nil && a.txErr == nil {
		return components.ContentCard("Transactions", a.loadingLine("Loading transactions..."), cw)
	}
	if a.txErr != nil && a.txs == nil {
		return components.ContentCard("Transactions", mutedText("Could not load transactions. Press r to retry."), cw)
	}

	if s.editor != nil {
		return a.renderEditor(cw)
	}

	list := a.filteredTransactions()
	inner := components.CardInnerWidth(cw)

	var head strings.Builder
	switch {
	case s.searching:
		head.WriteString(s.search.View())
	case s.confirmDelete != "":
		warn := lipgloss.NewStyle().Foreground(t.Orange).Background(t.Surface).Bold(true)
		desc := s.confirmDelete
		if tx, ok := pipeline.Find(a.txs, s.confirmDelete); ok {
			desc = tx.Description
		}
		head.WriteString(warn.Render(fmt.Sprintf("Delete %q? [y/N]", desc)))
	default:
		head.WriteString(filterPills(s.filter))
	}
	head.WriteString("\n")

	// card border (2) + title (1) + header (2) + footer (2)
	visible := max(3, h-7)
	offset := s.offset
	if s.cursor < offset {
		offset = s.cursor
	}
	if s.cursor >= offset+visible {
		offset = s.cursor - visible + 1
	}
	end := min(len(list), offset+visible)

	body := head.String() + "\n"
	if len(list) == 0 {
		body += mutedText("No transactions match.")
	} else {
		body += transactionLines(list[offset:end], inner, s.cursor-offset)
	}

	totals := pipeline.SumByType(list)
	footer := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface).Render(
		fmt.Sprintf("%d shown · in %s · out %s · net %s",
			len(list), cli.FormatBRL(totals.Income), cli.FormatBRL(totals.Expense), cli.FormatBRL(totals.Balance())))
	body += "\n\n" + footer

	return components.ContentCard(fmt.Sprintf("Transactions (%d)", len(a.txs)), body, cw)
}

// filterPills shows the active filter criteria, or the key hints when none.
func filterPills(f pipeline.Filter) string {
	t := theme.Active
	dim := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)
	pill := lipgloss.NewStyle().Foreground(t.Background).Background(t.Accent).Padding(0, 1)

	if !f.Active() {
		return dim.Render("[/]search  [f]type  [c]ategory  [p]ayment  [n]ew  [e]dit  [D]elete")
	}
	var parts []string
	if f.Search != "" {
		parts = append(parts, pill.Render("“"+f.Search+"”"))
	}
	if f.Type != "" {
		parts = append(parts, pill.Render(f.Type.Label()))
	}
	if f.Category != "" {
		parts = append(parts, pill.Render(f.Category.Label()))
	}
	if f.PaymentMethod != "" {
		parts = append(parts, pill.Render(f.PaymentMethod.Label()))
	}
	return strings.Join(parts, dim.Render(" ")) + dim.Render("  [x] clear")
}
