package tui

import (
	"context"
	"errors"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/duskwallet/duskwallet/internal/app"
	"github.com/duskwallet/duskwallet/internal/guard"
	"github.com/duskwallet/duskwallet/internal/session"
	"github.com/duskwallet/duskwallet/internal/tui/theme"
	"github.com/duskwallet/duskwallet/internal/validate"
)

const (
	modeLogin    = "login"
	modeRegister = "register"
)

// loginValues is bound to the huh form fields.
type loginValues struct {
	mode     string
	name     string
	email    string
	password string
}

type loginState struct {
	form       *huh.Form
	vals       *loginValues
	submitting bool
	email      string // remembered across attempts
	err        string
}

type loginDoneMsg struct {
	result session.Result
	email  string
}

func fieldCheck(check func(string) string) func(string) error {
	return func(s string) error {
		if msg := check(s); msg != "" {
			return errors.New(msg)
		}
		return nil
	}
}

func newLoginState(email string) loginState {
	vals := &loginValues{mode: modeLogin, email: email}
	return loginState{
		form:  newLoginForm(vals),
		vals:  vals,
		email: email,
	}
}

func newLoginForm(vals *loginValues) *huh.Form {
	signingIn := func() bool { return vals.mode != modeRegister }

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Welcome to DuskWallet").
				Description("Sign in or create an account to continue.").
				Options(
					huh.NewOption("Sign in", modeLogin),
					huh.NewOption("Create account", modeRegister),
				).
				Value(&vals.mode),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Name").
				Placeholder("Maria Silva").
				Value(&vals.name).
				Validate(fieldCheck(validate.Name)),
		).WithHideFunc(signingIn),
		huh.NewGroup(
			huh.NewInput().
				Title("Email").
				Placeholder("you@example.com").
				Value(&vals.email).
				Validate(fieldCheck(validate.Email)),
			huh.NewInput().
				Title("Password").
				EchoMode(huh.EchoModePassword).
				Value(&vals.password).
				Validate(fieldCheck(validate.Password)),
		),
	).WithShowHelp(true)
	return form
}

func loginCmd(core *app.App, vals loginValues) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		email := strings.TrimSpace(vals.email)
		var res session.Result
		if vals.mode == modeRegister {
			res = core.Session.Register(ctx, strings.TrimSpace(vals.name), email, vals.password)
		} else {
			res = core.Session.Login(ctx, email, vals.password)
		}
		return loginDoneMsg{result: res, email: email}
	}
}

func (a App) updateLogin(msg tea.Msg) (tea.Model, tea.Cmd) {
	if a.login.submitting || a.login.form == nil {
		return a, nil
	}

	form, cmd := a.login.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		a.login.form = f
	}

	switch a.login.form.State {
	case huh.StateCompleted:
		a.login.submitting = true
		a.login.err = ""
		return a, tea.Batch(a.spinner.Tick, loginCmd(a.core, *a.login.vals))
	case huh.StateAborted:
		return a, tea.Quit
	}
	return a, cmd
}

func (a App) handleLoginDone(msg loginDoneMsg) (tea.Model, tea.Cmd) {
	if !msg.result.Success {
		a.login = newLoginState(msg.email)
		a.login.err = msg.result.Error
		if a.width > 0 {
			a.login.form = a.login.form.WithWidth(min(a.width, 60))
		}
		return a, a.login.form.Init()
	}

	// Re-enter the originally requested location with a fresh guard.
	a.login = loginState{}
	a.guard = guard.New(a.guard.Requested())
	return a.applyDecision(a.guard.Resolve(a.core.Session))
}

func (a App) viewLogin() string {
	t := theme.Active

	var body string
	switch {
	case a.login.submitting:
		body = a.loadingLine("Signing in...")
	case a.login.form != nil:
		body = a.login.form.View()
	}
	if a.login.err != "" {
		errStyle := lipgloss.NewStyle().Foreground(t.Red).Bold(true)
		body = errStyle.Render("✗ "+a.login.err) + "\n\n" + body
	}

	cardStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.Accent).
		Padding(1, 3)

	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, cardStyle.Render(body),
		lipgloss.WithWhitespaceBackground(t.Background))
}
