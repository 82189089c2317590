// Package generator expands a manually entered transaction into the series
// of records it stands for: one per installment, one per recurring month, or
// just itself.
package generator

import (
	"fmt"

	"fintracker/internal/dateutils"
	"fintracker/internal/importerror"
	"fintracker/internal/models"
)

// ProcessTransaction expands base. Installments take precedence over
// recurrence; the two are never combined. Only the first emitted record keeps
// the caller's IsPaid flag.
func ProcessTransaction(base models.Transaction) ([]models.Transaction, error) {
	if _, err := dateutils.ParseISO(base.Date); err != nil {
		return nil, &importerror.ValidationError{Field: "date", Reason: fmt.Sprintf("%q is not YYYY-MM-DD", base.Date)}
	}

	switch {
	case base.Mode == models.ModeInstallment && deref(base.InstallmentsTotal) > 1:
		return expandInstallments(base)
	case base.IsRecurring && deref(base.RecurringMonths) > 0:
		return expandRecurring(base)
	default:
		return []models.Transaction{base}, nil
	}
}

func expandInstallments(base models.Transaction) ([]models.Transaction, error) {
	total := *base.InstallmentsTotal
	first := deref(base.InstallmentNumber)
	if first < 1 {
		first = 1
	}
	if first > total {
		return nil, &importerror.ValidationError{
			Field:  "installmentNumber",
			Reason: fmt.Sprintf("installment %d exceeds total %d", first, total),
		}
	}

	out := make([]models.Transaction, 0, total-first+1)
	for n := first; n <= total; n++ {
		tx, err := shifted(base, n-first)
		if err != nil {
			return nil, err
		}
		tx.InstallmentNumber = models.IntPtr(n)
		tx.InstallmentsTotal = models.IntPtr(total)
		out = append(out, tx)
	}
	return out, nil
}

func expandRecurring(base models.Transaction) ([]models.Transaction, error) {
	months := *base.RecurringMonths
	out := make([]models.Transaction, 0, months)
	for i := 0; i < months; i++ {
		tx, err := shifted(base, i)
		if err != nil {
			return nil, err
		}
		out = append(out, tx)
	}
	return out, nil
}

// shifted copies base moved forward by n months. Every copy after the first
// is unpaid.
func shifted(base models.Transaction, n int) (models.Transaction, error) {
	tx := base
	tx.ID = ""
	if n == 0 {
		return tx, nil
	}

	date, err := dateutils.AddMonthsISO(base.Date, n)
	if err != nil {
		return tx, &importerror.ValidationError{Field: "date", Reason: err.Error()}
	}
	tx.Date = date

	if base.DueDate != nil && *base.DueDate != "" {
		due, err := dateutils.AddMonthsISO(*base.DueDate, n)
		if err != nil {
			return tx, &importerror.ValidationError{Field: "dueDate", Reason: err.Error()}
		}
		tx.DueDate = &due
	}
	tx.IsPaid = false
	return tx, nil
}

func deref(p *int) int {
	if p == nil {
		return 0
	}
	return *p
}
