package postprocess

import (
	"fintracker/internal/dateutils"
	"fintracker/internal/models"
)

// CalculateDueDate returns the ISO date a transaction is due. Checking
// transactions are due on their own date. Card purchases before the closing
// day are due on dueDay of the same month, later ones on dueDay of the next
// month. A nil card uses the default billing cycle.
func CalculateDueDate(date string, st models.StatementType, card *models.CreditCard) (string, error) {
	t, err := dateutils.ParseISO(date)
	if err != nil {
		return "", err
	}
	if st != models.StatementCreditCard {
		return dateutils.ToISODate(t), nil
	}

	closingDay, dueDay := models.DefaultClosingDay, models.DefaultDueDay
	if card != nil {
		if card.ClosingDay >= 1 && card.ClosingDay <= 31 {
			closingDay = card.ClosingDay
		}
		if card.DueDay >= 1 && card.DueDay <= 31 {
			dueDay = card.DueDay
		}
	}

	year, month := t.Year(), t.Month()
	if t.Day() >= closingDay {
		month++
		if month > 12 {
			month = 1
			year++
		}
	}
	return dateutils.ToISODate(dateutils.DateInMonth(year, month, dueDay)), nil
}
