// Package card manages the credit cards used to attribute imported
// transactions and compute their due dates.
package card

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"fintracker/cmd/root"
	"fintracker/internal/common"
	"fintracker/internal/container"
	"fintracker/internal/importerror"
	"fintracker/internal/logging"
	"fintracker/internal/models"
	"fintracker/internal/postprocess"

	"github.com/spf13/cobra"
)

// AddOptions are the card add flags.
type AddOptions struct {
	Name    string
	Digits  string
	Closing int
	Due     int
	Holder  string
}

var addOpts AddOptions

// Cmd represents the card command
var Cmd = &cobra.Command{
	Use:   "card",
	Short: "Manage credit cards",
}

var addCmd = &cobra.Command{
	Use:   "add",
	Short: "Register a credit card",
	Long: `Register a credit card by its last four digits. Imported credit card
transactions carrying those digits are linked to the card, take their due
date from its closing and due days, and are attributed to its holder.

Example:
  fintracker card add --digits 1234 --closing 10 --due 20 --holder "MARIA SILVA"`,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := root.GetContainer()
		if err != nil {
			return err
		}
		return RunAdd(cmd.Context(), c, root.SharedFlags.UserID, addOpts, os.Stdout)
	},
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List registered credit cards",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := root.GetContainer()
		if err != nil {
			return err
		}
		return RunList(cmd.Context(), c, root.SharedFlags.UserID, os.Stdout)
	},
}

func init() {
	f := addCmd.Flags()
	f.StringVar(&addOpts.Name, "name", "", "Card name")
	f.StringVar(&addOpts.Digits, "digits", "", "Last four digits")
	f.IntVar(&addOpts.Closing, "closing", models.DefaultClosingDay, "Closing day of the billing cycle")
	f.IntVar(&addOpts.Due, "due", models.DefaultDueDay, "Due day of the invoice")
	f.StringVar(&addOpts.Holder, "holder", "", "Card holder name")
	_ = addCmd.MarkFlagRequired("digits")

	Cmd.AddCommand(addCmd, listCmd)
}

// RunAdd validates o, resolves or creates the holder and stores the card.
func RunAdd(ctx context.Context, c *container.Container, userID string, o AddOptions, w io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}
	digits := strings.TrimSpace(o.Digits)
	if !isFourDigits(digits) {
		return &importerror.ValidationError{Field: "digits", Reason: fmt.Sprintf("%q is not four digits", o.Digits)}
	}
	if o.Closing < 1 || o.Closing > 31 {
		return &importerror.ValidationError{Field: "closing", Reason: fmt.Sprintf("day %d out of range", o.Closing)}
	}
	if o.Due < 1 || o.Due > 31 {
		return &importerror.ValidationError{Field: "due", Reason: fmt.Sprintf("day %d out of range", o.Due)}
	}

	st := c.GetStore()
	card := models.CreditCard{
		Name:           strings.TrimSpace(o.Name),
		LastFourDigits: digits,
		ClosingDay:     o.Closing,
		DueDay:         o.Due,
	}
	if card.Name == "" {
		card.Name = "Cartão final " + digits
	}

	if holder := strings.TrimSpace(o.Holder); holder != "" {
		member, err := st.FindFamilyMemberByName(ctx, userID, holder)
		if err != nil {
			return err
		}
		if member == nil {
			member, err = st.CreateFamilyMember(ctx, models.FamilyMember{
				Name:         holder,
				Relationship: postprocess.GuessRelationship(holder),
			}, userID)
			if err != nil {
				return err
			}
		}
		card.HolderFamilyMemberID = &member.ID
	}

	saved, err := st.CreateCreditCard(ctx, card, userID)
	if err != nil {
		return err
	}
	c.GetLogger().Info("Credit card registered",
		logging.F(logging.FieldUserID, userID),
		logging.F(logging.FieldCardDigits, digits))
	return common.WriteJSON(w, saved)
}

// RunList prints the user's cards as JSON.
func RunList(ctx context.Context, c *container.Container, userID string, w io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}
	cards, err := c.GetStore().GetAllCreditCards(ctx, userID)
	if err != nil {
		return err
	}
	if cards == nil {
		cards = []models.CreditCard{}
	}
	return common.WriteJSON(w, cards)
}

func isFourDigits(s string) bool {
	if len(s) != 4 {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
