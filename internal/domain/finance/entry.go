package finance

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/BruksfildServices01/studio-manager/internal/httperr"
	"github.com/BruksfildServices01/studio-manager/internal/models"
)

const (
	KindRevenue = "revenue"
	KindExpense = "expense"
)

// ParseKind accepts the canonical kinds and the Portuguese labels used by
// the spreadsheet ("receita", "despesa").
func ParseKind(s string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case KindRevenue, "receita":
		return KindRevenue, nil
	case KindExpense, "despesa":
		return KindExpense, nil
	}
	return "", httperr.ErrValidation("invalid_kind", s)
}

// RevenueFor builds the entry generated when an appointment is completed.
// The amount is the service price captured at booking time.
func RevenueFor(ap *models.Appointment, paymentMethod, platform string) *models.FinancialEntry {
	id := ap.ID
	return &models.FinancialEntry{
		Date:          ap.StartTime,
		Kind:          KindRevenue,
		Description:   fmt.Sprintf("Sessão de %s - Cliente: %s", ap.ServiceName, ap.ClientName),
		Amount:        ap.ServicePrice,
		PaymentMethod: paymentMethod,
		Platform:      platform,
		AppointmentID: &id,
	}
}

type Summary struct {
	Revenue decimal.Decimal `json:"revenue"`
	Expense decimal.Decimal `json:"expense"`
	Net     decimal.Decimal `json:"net"`
	Entries int             `json:"entries"`
}

// Summarize totals entries by kind. Entries of unknown kind are ignored.
func Summarize(entries []models.FinancialEntry) Summary {
	s := Summary{Revenue: decimal.Zero, Expense: decimal.Zero}
	for _, e := range entries {
		switch e.Kind {
		case KindRevenue:
			s.Revenue = s.Revenue.Add(e.Amount)
		case KindExpense:
			s.Expense = s.Expense.Add(e.Amount)
		default:
			continue
		}
		s.Entries++
	}
	s.Net = s.Revenue.Sub(s.Expense)
	return s
}

// InPeriod keeps the entries dated in [from, to). A zero bound is open.
func InPeriod(entries []models.FinancialEntry, from, to time.Time) []models.FinancialEntry {
	out := make([]models.FinancialEntry, 0, len(entries))
	for _, e := range entries {
		if !from.IsZero() && e.Date.Before(from) {
			continue
		}
		if !to.IsZero() && !e.Date.Before(to) {
			continue
		}
		out = append(out, e)
	}
	return out
}
