package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/duskwallet/duskwallet/internal/api"
	"github.com/duskwallet/duskwallet/internal/app"
	"github.com/duskwallet/duskwallet/internal/model"
	"github.com/duskwallet/duskwallet/internal/tui/components"
	"github.com/duskwallet/duskwallet/internal/tui/theme"
	"github.com/duskwallet/duskwallet/internal/validate"
)

// editorValues is bound to the transaction form fields.
type editorValues struct {
	typ         string
	description string
	amount      string
	category    string
	payment     string
	date        string
}

func (v editorValues) form() validate.TransactionForm {
	return validate.TransactionForm{
		Type:          v.typ,
		Description:   v.description,
		Amount:        v.amount,
		Category:      v.category,
		PaymentMethod: v.payment,
		Date:          v.date,
	}
}

func valuesFrom(in model.TransactionInput) *editorValues {
	v := &editorValues{
		typ:         string(in.Type),
		description: in.Description,
		category:    string(in.Category),
		payment:     string(in.PaymentMethod),
	}
	if in.Amount.IsPositive() {
		v.amount = in.Amount.StringFixed(2)
	}
	if !in.Date.IsZero() {
		v.date = in.Date.Local().Format(validate.DateLayout)
	}
	return v
}

// transactionEditor is the create/edit form shown on the transactions tab.
type transactionEditor struct {
	id     string // empty when creating
	form   *huh.Form
	vals   *editorValues
	saving bool
	err    string
}

type savedMsg struct {
	id          string
	description string
	err         error
}

func newEditor(id string, in model.TransactionInput, width int) *transactionEditor {
	vals := valuesFrom(in)
	return &transactionEditor{id: id, vals: vals, form: sizedTransactionForm(vals, width)}
}

func sizedTransactionForm(vals *editorValues, width int) *huh.Form {
	form := newTransactionForm(vals)
	if width > 0 {
		form = form.WithWidth(min(width, 60))
	}
	return form
}

// blankInput is what a new transaction starts from.
func blankInput(now time.Time) model.TransactionInput {
	return model.TransactionInput{
		Type:          model.Expense,
		Category:      model.Categories[0],
		PaymentMethod: model.PaymentMethods[0],
		Date:          now,
	}
}

func newTransactionForm(vals *editorValues) *huh.Form {
	categories := make([]huh.Option[string], len(model.Categories))
	for i, c := range model.Categories {
		categories[i] = huh.NewOption(c.Glyph()+" "+c.Label(), string(c))
	}
	payments := make([]huh.Option[string], len(model.PaymentMethods))
	for i, p := range model.PaymentMethods {
		payments[i] = huh.NewOption(p.Label(), string(p))
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Type").
				Options(
					huh.NewOption(model.Expense.Label(), string(model.Expense)),
					huh.NewOption(model.Income.Label(), string(model.Income)),
				).
				Value(&vals.typ),
			huh.NewInput().
				Title("Description").
				Value(&vals.description).
				Validate(fieldCheck(validate.Description)),
			huh.NewInput().
				Title("Amount").
				Placeholder("42,50").
				Value(&vals.amount).
				Validate(fieldCheck(func(s string) string {
					_, msg := validate.Amount(s)
					return msg
				})),
			huh.NewInput().
				Title("Date").
				Placeholder(validate.DateLayout).
				Value(&vals.date).
				Validate(fieldCheck(func(s string) string {
					_, msg := validate.Date(s, time.Now())
					return msg
				})),
		),
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Category").
				Options(categories...).
				Height(8).
				Value(&vals.category),
			huh.NewSelect[string]().
				Title("Payment method").
				Options(payments...).
				Value(&vals.payment),
		),
	).WithShowHelp(true)
}

func saveTransactionCmd(core *app.App, id string, in model.TransactionInput) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		var err error
		if id == "" {
			err = core.Client.CreateTransaction(ctx, in)
		} else {
			err = core.Client.UpdateTransaction(ctx, id, in)
		}
		return savedMsg{id: id, description: in.Description, err: err}
	}
}

// openEditor starts the form for a new transaction (id == "") or for tx.
func (a App) openEditor(id string, in model.TransactionInput) (tea.Model, tea.Cmd) {
	a.txState.editor = newEditor(id, in, a.width)
	return a, a.txState.editor.form.Init()
}

func (a App) updateEditor(msg tea.Msg) (tea.Model, tea.Cmd) {
	ed := *a.txState.editor
	if ed.saving {
		return a, nil
	}
	if k, ok := msg.(tea.KeyMsg); ok && k.String() == "esc" {
		a.txState.editor = nil
		return a, nil
	}

	form, cmd := ed.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		ed.form = f
	}
	a.txState.editor = &ed

	switch ed.form.State {
	case huh.StateCompleted:
		return a.submitEditor()
	case huh.StateAborted:
		a.txState.editor = nil
		return a, nil
	}
	return a, cmd
}

// submitEditor validates the form values and saves them. Invalid values
// reopen the form with the field errors.
func (a App) submitEditor() (tea.Model, tea.Cmd) {
	ed := *a.txState.editor
	in, err := validate.Transaction(ed.vals.form(), time.Now())
	if err != nil {
		ed.err = err.Error()
		ed.form = sizedTransactionForm(ed.vals, a.width)
		a.txState.editor = &ed
		return a, ed.form.Init()
	}
	ed.saving = true
	ed.err = ""
	a.txState.editor = &ed
	return a, saveTransactionCmd(a.core, ed.id, in)
}

func (a App) handleSaved(msg savedMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		if !a.core.Session.IsAuthenticated() || a.txState.editor == nil {
			return a.fetchFailed(msg.err)
		}
		ed := *a.txState.editor
		ed.saving = false
		ed.err = api.Message(msg.err, "could not save the transaction")
		ed.form = sizedTransactionForm(ed.vals, a.width)
		a.txState.editor = &ed
		return a, ed.form.Init()
	}

	a.txState.editor = nil
	title := "Added"
	if msg.id != "" {
		title = "Updated"
	}
	toast := a.notify(components.ToastSuccess, title, msg.description)
	reload := a.reloadData()
	return a, tea.Batch(toast, reload)
}

func (a App) renderEditor(cw int) string {
	t := theme.Active
	ed := a.txState.editor

	title := "New transaction"
	if ed.id != "" {
		title = "Edit transaction"
	}

	var body string
	if ed.saving {
		body = a.loadingLine("Saving...")
	} else {
		body = ed.form.View()
	}
	if ed.err != "" {
		errStyle := lipgloss.NewStyle().Foreground(t.Red).Background(t.Surface).Bold(true)
		body = errStyle.Render("✗ "+ed.err) + "\n\n" + body
	}
	return components.ContentCard(title, body+"\n"+mutedText("esc to cancel"), cw)
}
