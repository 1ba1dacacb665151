package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/duskwallet/duskwallet/internal/cli"
	"github.com/duskwallet/duskwallet/internal/pipeline"
)

const requestTimeout = 30 * time.Second

var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Totals, spending by category and month, recent transactions",
	RunE:  runDashboard,
}

func init() {
	rootCmd.AddCommand(dashboardCmd)
}

func runDashboard(_ *cobra.Command, _ []string) error {
	a, done, err := openProtected("/dashboard")
	if err != nil {
		return err
	}
	defer done()

	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()

	progress("Loading dashboard...")
	data := pipeline.LoadDashboard(ctx, a.Client)
	if data.Failed() {
		return data.TotalsErr
	}

	fmt.Println()
	fmt.Print(cli.RenderDashboard(data))
	fmt.Println()
	return nil
}
