// Package categorize handles transaction categorization commands
package categorize

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"fintracker/cmd/common"
	"fintracker/cmd/root"
	"fintracker/internal/container"
	"fintracker/internal/currencyutils"
	"fintracker/internal/importerror"
	"fintracker/internal/logging"
	"fintracker/internal/models"

	"github.com/spf13/cobra"
)

// Options are the categorize command flags.
type Options struct {
	Description string
	Type        string
	Amount      string
}

var opts Options

// Cmd represents the categorize command
var Cmd = &cobra.Command{
	Use:   "categorize",
	Short: "Categorize a single transaction description",
	Long: `Categorize one transaction description against the user's category catalog
using the configured AI providers. Without providers the description falls
back to the catch-all category of its type.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := root.GetContainer()
		if err != nil {
			return err
		}
		return Run(cmd.Context(), c, root.SharedFlags.UserID, opts, os.Stdout)
	},
}

func init() {
	Cmd.Flags().StringVarP(&opts.Description, "description", "d", "", "Transaction description")
	Cmd.Flags().StringVarP(&opts.Type, "type", "t", "expense", "Transaction type: income or expense")
	Cmd.Flags().StringVarP(&opts.Amount, "amount", "a", "", "Transaction amount (optional)")
	_ = Cmd.MarkFlagRequired("description")
}

// Run categorizes o.Description and prints "<id>\t<name>".
func Run(ctx context.Context, c *container.Container, userID string, o Options, w io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}
	desc := strings.TrimSpace(o.Description)
	if desc == "" {
		return &importerror.ValidationError{Field: "description", Reason: "a description is required"}
	}
	txType, err := common.ParseTransactionType(o.Type)
	if err != nil {
		return err
	}

	tx := models.ParsedTransaction{Description: desc, Type: txType}
	if o.Amount != "" {
		amount, err := currencyutils.ParseAmount(o.Amount)
		if err != nil {
			return &importerror.ValidationError{Field: "amount", Reason: err.Error()}
		}
		tx.Amount = amount.Abs()
	}

	categories, err := c.GetStore().GetAllCategories(ctx, userID)
	if err != nil {
		return err
	}
	if len(categories) == 0 {
		return fmt.Errorf("user %q has no categories; run the seed command first", userID)
	}

	id, err := c.GetCategorizer().CategorizeOne(ctx, tx, models.CategoriesForAI(categories))
	if err != nil {
		return err
	}

	name := id
	for _, cat := range categories {
		if cat.ID == id {
			name = cat.Name
			break
		}
	}
	c.GetLogger().Info("Transaction categorized",
		logging.F(logging.FieldDescription, desc),
		logging.F(logging.FieldCategory, name))

	_, err = fmt.Fprintf(w, "%s\t%s\n", id, name)
	return err
}
