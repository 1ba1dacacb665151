// Package cmd implements the duskwallet CLI commands.
package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/duskwallet/duskwallet/internal/api"
	"github.com/duskwallet/duskwallet/internal/app"
	"github.com/duskwallet/duskwallet/internal/config"
	"github.com/duskwallet/duskwallet/internal/logging"
)

var (
	flagAPIURL  string
	flagDB      string
	flagQuiet   bool
	flagVerbose bool
)

var rootCmd = &cobra.Command{
	Use:           "duskwallet",
	Short:         "Personal finance from the terminal",
	Long:          "Track income and expenses, see where your money goes, and get a weekly AI analysis of your finances.",
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runDashboard,
}

// Execute is the main entry point called from main.go.
func Execute() {
	code := 0
	func() {
		defer func() {
			if r := recover(); r != nil {
				fmt.Fprintf(os.Stderr, "\n  duskwallet hit an unexpected error: %v\n  Please try again.\n", r)
				code = 2
			}
		}()
		if err := rootCmd.Execute(); err != nil {
			fmt.Fprintf(os.Stderr, "  Error: %s\n", userMessage(err))
			code = 1
		}
	}()
	if code != 0 {
		os.Exit(code)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagAPIURL, "api-url", "", "Backend base URL (overrides config)")
	rootCmd.PersistentFlags().StringVar(&flagDB, "db", "", "Path to the local session database")
	rootCmd.PersistentFlags().BoolVarP(&flagQuiet, "quiet", "q", false, "Suppress progress output")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "Log debug output to stderr")
}

// userMessage turns err into the one line shown on stderr.
func userMessage(err error) string {
	return api.Message(err, err.Error())
}

// loadConfig reads the config file with .env and flag overrides applied.
func loadConfig() (config.Config, error) {
	// A missing .env is the normal case.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return cfg, err
	}
	if flagAPIURL != "" {
		cfg.API.BaseURL = strings.TrimRight(flagAPIURL, "/")
	}
	if flagDB != "" {
		cfg.Storage.Path = flagDB
	}
	if flagVerbose {
		cfg.Log.Level = "debug"
	}
	return cfg, nil
}

// openLogger opens the log file, falling back to a discarding logger so a
// read-only cache dir never blocks a command.
func openLogger(cfg config.Config) (*logrus.Logger, func()) {
	logger, closer, err := logging.Open(cfg.Log.Level, cfg.LogPath())
	if err != nil {
		if flagVerbose {
			return logging.New(cfg.Log.Level, os.Stderr), func() {}
		}
		return logging.Discard(), func() {}
	}
	if flagVerbose {
		logger.SetOutput(io.MultiWriter(logger.Out, os.Stderr))
	}
	return logger, func() { _ = closer.Close() }
}

// openApp builds the application context. The returned func releases it.
func openApp() (*app.App, func(), error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}
	logger, closeLog := openLogger(cfg)

	a, err := app.Open(cfg, logger)
	if err != nil {
		closeLog()
		return nil, nil, err
	}
	logger.WithField("api", cfg.API.BaseURL).Debug("app opened")

	return a, func() {
		_ = a.Close()
		closeLog()
	}, nil
}

// openProtected opens the app and requires a signed-in session.
func openProtected(location string) (*app.App, func(), error) {
	a, done, err := openApp()
	if err != nil {
		return nil, nil, err
	}
	if err := a.Require(location); err != nil {
		done()
		return nil, nil, err
	}
	return a, done, nil
}

func progress(format string, args ...any) {
	if !flagQuiet {
		fmt.Fprintf(os.Stderr, "  "+format+"\n", args...)
	}
}
