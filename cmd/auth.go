package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/duskwallet/duskwallet/internal/cli"
	"github.com/duskwallet/duskwallet/internal/validate"
)

const authTimeout = 30 * time.Second

var (
	flagEmail    string
	flagPassword string
	flagName     string
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in to your account",
	RunE:  runLogin,
}

var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Create an account and sign in",
	RunE:  runRegister,
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Sign out and clear local data",
	RunE:  runLogout,
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the signed-in user",
	RunE:  runWhoami,
}

func init() {
	for _, c := range []*cobra.Command{loginCmd, registerCmd} {
		c.Flags().StringVarP(&flagEmail, "email", "e", "", "Account email")
		c.Flags().StringVar(&flagPassword, "password", "", "Account password (prompted when omitted; also DUSKWALLET_PASSWORD)")
	}
	registerCmd.Flags().StringVar(&flagName, "name", "", "Your name")

	rootCmd.AddCommand(loginCmd, registerCmd, logoutCmd, whoamiCmd)
}

func passwordFromEnv() string {
	if flagPassword != "" {
		return flagPassword
	}
	return os.Getenv("DUSKWALLET_PASSWORD")
}

// promptMissing asks for any empty field with a huh form.
func promptMissing(name, email, password *string, withName bool) error {
	var fields []huh.Field
	if withName && *name == "" {
		fields = append(fields, huh.NewInput().Title("Name").Value(name).
			Validate(fieldError(validate.Name)))
	}
	if *email == "" {
		fields = append(fields, huh.NewInput().Title("Email").Value(email).
			Validate(fieldError(validate.Email)))
	}
	if *password == "" {
		fields = append(fields, huh.NewInput().Title("Password").EchoMode(huh.EchoModePassword).Value(password).
			Validate(fieldError(validate.Password)))
	}
	if len(fields) == 0 {
		return nil
	}
	if err := huh.NewForm(huh.NewGroup(fields...)).Run(); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return errors.New("cancelled")
		}
		return fmt.Errorf("reading credentials: %w", err)
	}
	return nil
}

func fieldError(check func(string) string) func(string) error {
	return func(s string) error {
		if msg := check(s); msg != "" {
			return errors.New(msg)
		}
		return nil
	}
}

func runLogin(_ *cobra.Command, _ []string) error {
	email, password := strings.TrimSpace(flagEmail), passwordFromEnv()
	if err := promptMissing(nil, &email, &password, false); err != nil {
		return err
	}
	if err := validate.Credentials(email, password); err != nil {
		return err
	}

	a, done, err := openApp()
	if err != nil {
		return err
	}
	defer done()

	ctx, cancel := context.WithTimeout(context.Background(), authTimeout)
	defer cancel()

	progress("Signing in...")
	res := a.Session.Login(ctx, email, password)
	if !res.Success {
		return errors.New(res.Error)
	}
	fmt.Printf("\n  %s Signed in as %s\n\n", cli.Income("✓"), a.Session.User().DisplayName())
	return nil
}

func runRegister(_ *cobra.Command, _ []string) error {
	name, email, password := strings.TrimSpace(flagName), strings.TrimSpace(flagEmail), passwordFromEnv()
	if err := promptMissing(&name, &email, &password, true); err != nil {
		return err
	}
	if err := validate.Registration(name, email, password); err != nil {
		return err
	}

	a, done, err := openApp()
	if err != nil {
		return err
	}
	defer done()

	ctx, cancel := context.WithTimeout(context.Background(), authTimeout)
	defer cancel()

	progress("Creating account...")
	res := a.Session.Register(ctx, name, email, password)
	if !res.Success {
		return errors.New(res.Error)
	}
	fmt.Printf("\n  %s Welcome, %s! You are signed in.\n\n", cli.Income("✓"), a.Session.User().DisplayName())
	return nil
}

func runLogout(_ *cobra.Command, _ []string) error {
	a, done, err := openApp()
	if err != nil {
		return err
	}
	defer done()

	if !a.Session.IsAuthenticated() {
		fmt.Println("\n  Not signed in.")
		return nil
	}
	a.Session.Logout()
	fmt.Println("\n  Signed out. Local session and cached analysis removed.")
	return nil
}

func runWhoami(_ *cobra.Command, _ []string) error {
	a, done, err := openProtected("/whoami")
	if err != nil {
		return err
	}
	defer done()

	u := a.Session.User()
	fmt.Println()
	fmt.Print(cli.RenderTable(cli.Table{
		Headers: []string{"Field", "Value"},
		Rows: [][]string{
			{"Name", orDash(u.Name)},
			{"Email", u.Email},
			{"ID", orDash(u.ID)},
			{"API", a.Client.BaseURL()},
		},
	}))
	return nil
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
