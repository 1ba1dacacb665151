package cmd

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/duskwallet/duskwallet/internal/analysis"
	"github.com/duskwallet/duskwallet/internal/api"
	"github.com/duskwallet/duskwallet/internal/cli"
)

var analysisCmd = &cobra.Command{
	Use:   "analysis",
	Short: "Your AI financial analysis",
	RunE:  runAnalysisShow,
}

var analysisShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the last analysis (cached locally)",
	RunE:  runAnalysisShow,
}

var analysisRefreshCmd = &cobra.Command{
	Use:   "refresh",
	Short: "Generate a new analysis (uses one weekly free analysis)",
	RunE:  runAnalysisRefresh,
}

var analysisStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the weekly analysis quota",
	RunE:  runAnalysisStatus,
}

func init() {
	analysisCmd.AddCommand(analysisShowCmd, analysisRefreshCmd, analysisStatusCmd)
	rootCmd.AddCommand(analysisCmd)
}

func runAnalysisShow(_ *cobra.Command, _ []string) error {
	a, done, err := openProtected("/analysis")
	if err != nil {
		return err
	}
	defer done()

	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()

	view, err := a.Viewer.Load(ctx, *a.Session.User())
	if err != nil {
		return err
	}
	status := a.Viewer.Status(ctx)

	fmt.Println()
	fmt.Print(cli.RenderAnalysis(view, status, time.Now()))
	fmt.Println()
	return nil
}

func runAnalysisRefresh(_ *cobra.Command, _ []string) error {
	a, done, err := openProtected("/analysis")
	if err != nil {
		return err
	}
	defer done()

	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()

	status := a.Viewer.Status(ctx)
	if !analysis.CanRefresh(status) {
		return fmt.Errorf("weekly free analyses used up, next reset in %s", cli.FormatDays(status.DaysUntilReset))
	}

	progress("Generating analysis...")
	view, err := a.Viewer.Refresh(ctx, *a.Session.User())

	var limit *api.LimitError
	if err != nil && !errors.As(err, &limit) {
		return err
	}

	fmt.Println()
	fmt.Print(cli.RenderAnalysis(view, a.Viewer.Status(ctx), time.Now()))
	fmt.Println()
	if limit != nil {
		return fmt.Errorf("weekly free analyses used up, next reset in %s", cli.FormatDays(limit.DaysUntilReset))
	}
	return nil
}

func runAnalysisStatus(_ *cobra.Command, _ []string) error {
	a, done, err := openProtected("/analysis")
	if err != nil {
		return err
	}
	defer done()

	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()

	st, err := a.Client.AnalysisStatus(ctx)
	if err != nil {
		return err
	}
	fmt.Println()
	fmt.Println(cli.RenderQuota(&st))
	fmt.Println()
	return nil
}
