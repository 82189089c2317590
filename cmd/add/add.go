// Package add records manually entered transactions, expanding installments
// and recurring entries into one record per month.
package add

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	cmdcommon "fintracker/cmd/common"
	"fintracker/cmd/root"
	"fintracker/internal/categorymap"
	"fintracker/internal/common"
	"fintracker/internal/container"
	"fintracker/internal/currencyutils"
	"fintracker/internal/dateutils"
	"fintracker/internal/generator"
	"fintracker/internal/importerror"
	"fintracker/internal/logging"
	"fintracker/internal/models"

	"github.com/spf13/cobra"
)

// Options are the add command flags. File, when set, replaces the single
// entry described by the other flags.
type Options struct {
	common.ManualEntryRow
	Mode      string
	Recurring bool
	File      string
}

var opts Options

// Cmd represents the add command
var Cmd = &cobra.Command{
	Use:   "add",
	Short: "Add a manual transaction",
	Long: `Add a transaction by hand. Installment purchases are expanded into one record
per remaining installment and recurring entries into one record per month.

Example:
  fintracker add --name "NOTEBOOK" --amount 3000,00 --date 2024-03-05 --category 5 --installments 10
  fintracker add --name "ALUGUEL" --amount 1500 --date 05/01/2024 --category 3 --recurring --months 12
  fintracker add --file lancamentos.csv`,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := root.GetContainer()
		if err != nil {
			return err
		}
		return Run(cmd.Context(), c, root.SharedFlags.UserID, opts, os.Stdout)
	},
}

func init() {
	f := Cmd.Flags()
	f.StringVarP(&opts.Name, "name", "n", "", "Transaction description")
	f.StringVarP(&opts.Amount, "amount", "a", "", "Amount (1.234,56 or 1234.56)")
	f.StringVarP(&opts.Date, "date", "d", "", "Date (YYYY-MM-DD or DD/MM/YYYY); today when empty")
	f.StringVarP(&opts.Type, "type", "t", "expense", "Transaction type: income or expense")
	f.StringVarP(&opts.Category, "category", "c", "", "Category UUID or legacy numeric ID")
	f.StringVar(&opts.Mode, "mode", "", "avulsa or parcelada (parcelada when --installments > 1)")
	f.IntVar(&opts.Installment, "installment", 1, "Installment number of the first record")
	f.IntVar(&opts.Installments, "installments", 0, "Total number of installments")
	f.BoolVar(&opts.Recurring, "recurring", false, "Repeat the entry monthly")
	f.IntVar(&opts.Months, "months", 0, "Number of months for a recurring entry")
	f.StringVar(&opts.DueDate, "due-date", "", "Due date of the first record")
	f.BoolVar(&opts.Paid, "paid", false, "Mark the first record as paid")
	f.StringVarP(&opts.File, "file", "f", "", "CSV file of entries (date,name,amount,type,category,...)")
}

// Run builds, expands and saves the entries described by o and prints the
// saved records as JSON.
func Run(ctx context.Context, c *container.Container, userID string, o Options, w io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}
	log := c.GetLogger().WithFields(
		logging.F(logging.FieldOperation, "add"),
		logging.F(logging.FieldUserID, userID))

	rows := []common.ManualEntryRow{o.ManualEntryRow}
	modes := []string{o.Mode}
	recurring := []bool{o.Recurring}
	if o.File != "" {
		fileRows, err := common.ReadCSVFile[common.ManualEntryRow](o.File, log)
		if err != nil {
			return err
		}
		rows = fileRows
		modes = make([]string, len(rows))
		recurring = make([]bool, len(rows))
		for i, r := range rows {
			recurring[i] = r.Months > 0
		}
	}
	if len(rows) == 0 {
		return &importerror.ValidationError{Field: "file", Reason: "no entries found"}
	}

	categories, err := c.GetStore().GetAllCategories(ctx, userID)
	if err != nil {
		return err
	}
	mapper := categorymap.New(categories)
	now := time.Now()

	var records []models.Transaction
	for i, row := range rows {
		base, err := BuildTransaction(row, modes[i], recurring[i], mapper, now)
		if err != nil {
			if o.File != "" {
				return fmt.Errorf("line %d: %w", i+2, err)
			}
			return err
		}
		expanded, err := generator.ProcessTransaction(base)
		if err != nil {
			return err
		}
		records = append(records, expanded...)
	}

	saved, err := c.GetStore().BatchCreateTransactions(ctx, records, userID)
	if err != nil {
		return err
	}
	log.Info("Manual transactions saved",
		logging.F("entries", len(rows)),
		logging.F(logging.FieldCount, len(saved)))

	return common.WriteJSON(w, saved)
}

// BuildTransaction validates one manual entry and turns it into the base
// record handed to the generator.
func BuildTransaction(row common.ManualEntryRow, mode string, recurring bool, mapper *categorymap.Mapper, now time.Time) (models.Transaction, error) {
	name := strings.TrimSpace(row.Name)
	if name == "" {
		return models.Transaction{}, &importerror.ValidationError{Field: "name", Reason: "a name is required"}
	}

	amount, err := currencyutils.ParseAmount(row.Amount)
	if err != nil {
		return models.Transaction{}, &importerror.ValidationError{Field: "amount", Reason: err.Error()}
	}
	amount = amount.Abs()
	if amount.IsZero() {
		return models.Transaction{}, &importerror.ValidationError{Field: "amount", Reason: "amount must not be zero"}
	}

	date := dateutils.ToISODate(now)
	if strings.TrimSpace(row.Date) != "" {
		if date, err = isoDate(row.Date, now); err != nil {
			return models.Transaction{}, &importerror.ValidationError{Field: "date", Reason: err.Error()}
		}
	}

	txType, err := cmdcommon.ParseTransactionType(row.Type)
	if err != nil {
		return models.Transaction{}, err
	}

	categoryID, err := mapper.Map(row.Category)
	if err != nil {
		return models.Transaction{}, err
	}

	tx := models.Transaction{
		Date:       date,
		Name:       name,
		Amount:     amount,
		Type:       txType,
		CategoryID: categoryID,
		Mode:       models.ModeSingle,
		IsPaid:     row.Paid,
		Source:     models.SourceManual,
	}

	switch models.Mode(strings.ToLower(strings.TrimSpace(mode))) {
	case models.ModeInstallment:
		tx.Mode = models.ModeInstallment
	case models.ModeSingle, "":
		if row.Installments > 1 {
			tx.Mode = models.ModeInstallment
		}
	default:
		return models.Transaction{}, &importerror.ValidationError{Field: "mode", Reason: fmt.Sprintf("%q is not avulsa or parcelada", mode)}
	}
	if tx.Mode == models.ModeInstallment {
		if row.Installments < 1 {
			return models.Transaction{}, &importerror.ValidationError{Field: "installments", Reason: "parcelada needs the number of installments"}
		}
		tx.InstallmentNumber = models.IntPtr(max(row.Installment, 1))
		tx.InstallmentsTotal = models.IntPtr(row.Installments)
	}

	if recurring {
		if row.Months < 1 {
			return models.Transaction{}, &importerror.ValidationError{Field: "months", Reason: "a recurring entry needs a positive number of months"}
		}
		tx.IsRecurring = true
		tx.RecurringMonths = models.IntPtr(row.Months)
	}

	if strings.TrimSpace(row.DueDate) != "" {
		due, err := isoDate(row.DueDate, now)
		if err != nil {
			return models.Transaction{}, &importerror.ValidationError{Field: "dueDate", Reason: err.Error()}
		}
		tx.DueDate = &due
	}
	return tx, nil
}

func isoDate(s string, now time.Time) (string, error) {
	t, err := dateutils.ParseDate(s, now.Year())
	if err != nil {
		return "", err
	}
	return dateutils.ToISODate(t), nil
}
