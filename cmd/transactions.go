package cmd

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/duskwallet/duskwallet/internal/api"
	"github.com/duskwallet/duskwallet/internal/cli"
	"github.com/duskwallet/duskwallet/internal/model"
	"github.com/duskwallet/duskwallet/internal/pipeline"
	"github.com/duskwallet/duskwallet/internal/validate"
)

var (
	flagSearch   string
	flagType     string
	flagCategory string
	flagPayment  string
	flagLimit    int

	flagDescription string
	flagAmount      string
	flagDate        string
	flagYes         bool
)

var transactionsCmd = &cobra.Command{
	Use:     "transactions",
	Aliases: []string{"tx"},
	Short:   "List and manage transactions",
	RunE:    runTransactionsList,
}

var transactionsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List transactions, newest first",
	RunE:  runTransactionsList,
}

var transactionsAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a transaction",
	Example: `  duskwallet transactions add --type expense --description "Feira" --amount 150 \
    --category mercado --payment pix --date 2025-01-10`,
	RunE: runTransactionsAdd,
}

var transactionsEditCmd = &cobra.Command{
	Use:   "edit <id>",
	Short: "Edit a transaction; omitted flags keep their value",
	Args:  cobra.ExactArgs(1),
	RunE:  runTransactionsEdit,
}

var transactionsDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a transaction",
	Args:  cobra.ExactArgs(1),
	RunE:  runTransactionsDelete,
}

func init() {
	for _, c := range []*cobra.Command{transactionsCmd, transactionsListCmd} {
		c.Flags().StringVarP(&flagSearch, "search", "s", "", "Filter by description (substring)")
		c.Flags().StringVarP(&flagType, "type", "t", "", "Filter by type (income, expense)")
		c.Flags().StringVarP(&flagCategory, "category", "c", "", "Filter by category")
		c.Flags().StringVarP(&flagPayment, "payment", "p", "", "Filter by payment method")
		c.Flags().IntVarP(&flagLimit, "limit", "n", 0, "Show at most n transactions (0 = all)")
	}
	for _, c := range []*cobra.Command{transactionsAddCmd, transactionsEditCmd} {
		c.Flags().StringVarP(&flagType, "type", "t", "", "income or expense (default expense)")
		c.Flags().StringVarP(&flagDescription, "description", "d", "", "What it was")
		c.Flags().StringVarP(&flagAmount, "amount", "a", "", "Amount, e.g. 150 or 42,50")
		c.Flags().StringVarP(&flagCategory, "category", "c", "", "Category, e.g. mercado")
		c.Flags().StringVarP(&flagPayment, "payment", "p", "", "dinheiro, pix or credito")
		c.Flags().StringVar(&flagDate, "date", "", "YYYY-MM-DD (default today)")
	}
	transactionsDeleteCmd.Flags().BoolVarP(&flagYes, "yes", "y", false, "Skip the confirmation prompt")

	transactionsCmd.AddCommand(transactionsListCmd, transactionsAddCmd, transactionsEditCmd, transactionsDeleteCmd)
	rootCmd.AddCommand(transactionsCmd)
}

// listFilter builds a pipeline.Filter from the list flags.
func listFilter() (pipeline.Filter, error) {
	f := pipeline.Filter{Search: flagSearch}
	if flagType != "" {
		t, err := model.ParseTransactionType(flagType)
		if err != nil {
			return f, err
		}
		f.Type = t
	}
	if flagCategory != "" {
		c, err := model.ParseCategory(flagCategory)
		if err != nil {
			return f, err
		}
		f.Category = c
	}
	if flagPayment != "" {
		p, err := model.ParsePaymentMethod(flagPayment)
		if err != nil {
			return f, err
		}
		f.PaymentMethod = p
	}
	return f, nil
}

func runTransactionsList(_ *cobra.Command, _ []string) error {
	filter, err := listFilter()
	if err != nil {
		return err
	}

	a, done, err := openProtected("/transactions")
	if err != nil {
		return err
	}
	defer done()

	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()

	txs, err := a.Client.ListTransactions(ctx)
	if err != nil {
		return err
	}

	list := pipeline.Apply(txs, filter)
	shown := list
	if flagLimit > 0 && len(shown) > flagLimit {
		shown = shown[:flagLimit]
	}

	fmt.Println()
	if len(list) == 0 {
		if filter.Active() {
			fmt.Println("  No transactions match the filters.")
		} else {
			fmt.Println("  No transactions yet. Add one with `duskwallet transactions add`.")
		}
		return nil
	}

	title := fmt.Sprintf("Transactions (%d of %d)", len(shown), len(txs))
	fmt.Print(cli.RenderTable(cli.TransactionsTable(title, shown)))

	totals := pipeline.SumByType(list)
	fmt.Printf("  %s %s   %s %s   %s %s\n\n",
		cli.Muted("In"), cli.Income(cli.FormatBRL(totals.Income)),
		cli.Muted("Out"), cli.Expense(cli.FormatBRL(totals.Expense)),
		cli.Muted("Net"), cli.FormatBRL(totals.Balance()))
	return nil
}

func transactionForm() validate.TransactionForm {
	return validate.TransactionForm{
		Type:          flagType,
		Description:   flagDescription,
		Amount:        flagAmount,
		Category:      flagCategory,
		PaymentMethod: flagPayment,
		Date:          flagDate,
	}
}

func runTransactionsAdd(_ *cobra.Command, _ []string) error {
	in, err := validate.Transaction(transactionForm(), time.Now())
	if err != nil {
		return err
	}

	a, done, err := openProtected("/transactions")
	if err != nil {
		return err
	}
	defer done()

	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()

	if err := a.Client.CreateTransaction(ctx, in); err != nil {
		return err
	}
	fmt.Printf("\n  %s Added %s: %s\n\n", cli.Income("✓"), in.Description, cli.FormatBRL(in.Amount))
	return nil
}

// mergeForm fills empty flags from the existing transaction.
func mergeForm(f validate.TransactionForm, cur model.Transaction) validate.TransactionForm {
	if f.Type == "" {
		f.Type = string(cur.Type)
	}
	if f.Description == "" {
		f.Description = cur.Description
	}
	if f.Amount == "" {
		f.Amount = cur.Amount.String()
	}
	if f.Category == "" {
		f.Category = string(cur.Category)
	}
	if f.PaymentMethod == "" {
		f.PaymentMethod = string(cur.PaymentMethod)
	}
	if f.Date == "" && !cur.Date.IsZero() {
		f.Date = cur.Date.Local().Format(validate.DateLayout)
	}
	return f
}

func runTransactionsEdit(_ *cobra.Command, args []string) error {
	id := args[0]

	a, done, err := openProtected("/transactions")
	if err != nil {
		return err
	}
	defer done()

	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()

	txs, err := a.Client.ListTransactions(ctx)
	if err != nil {
		return err
	}
	cur, ok := pipeline.Find(txs, id)
	if !ok {
		return fmt.Errorf("no transaction with id %q", id)
	}

	in, err := validate.Transaction(mergeForm(transactionForm(), cur), time.Now())
	if err != nil {
		return err
	}
	if err := a.Client.UpdateTransaction(ctx, id, in); err != nil {
		return err
	}
	fmt.Printf("\n  %s Updated %s\n\n", cli.Income("✓"), id)
	return nil
}

func runTransactionsDelete(_ *cobra.Command, args []string) error {
	id := args[0]

	a, done, err := openProtected("/transactions")
	if err != nil {
		return err
	}
	defer done()

	if !flagYes {
		confirmed := false
		err := huh.NewConfirm().
			Title(fmt.Sprintf("Delete transaction %s?", id)).
			Affirmative("Delete").
			Negative("Keep").
			Value(&confirmed).
			Run()
		if err != nil && !errors.Is(err, huh.ErrUserAborted) {
			return fmt.Errorf("reading confirmation: %w", err)
		}
		if !confirmed {
			fmt.Println("\n  Kept.")
			return nil
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()

	if err := a.Client.DeleteTransaction(ctx, id); err != nil {
		if errors.Is(err, api.ErrNotFound) {
			return fmt.Errorf("no transaction with id %q", id)
		}
		return err
	}
	fmt.Printf("\n  %s Deleted %s\n\n", cli.Income("✓"), id)
	return nil
}
