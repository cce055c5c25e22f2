package finance_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/studio-manager/internal/domain/finance"
	"github.com/BruksfildServices01/studio-manager/internal/httperr"
	"github.com/BruksfildServices01/studio-manager/internal/models"
	"github.com/BruksfildServices01/studio-manager/internal/store"
	"github.com/BruksfildServices01/studio-manager/internal/testutil"
)

var day = time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

func newRecorder(t *testing.T) (*store.Store, *finance.Recorder) {
	t.Helper()
	st, err := store.Open(context.Background(), testutil.NewDB(t))
	require.NoError(t, err)
	clock := testutil.NewClock(day)
	return st, finance.NewRecorder(st, nil, clock.Now)
}

func entry(kind, amount string) *models.FinancialEntry {
	return &models.FinancialEntry{Kind: kind, Amount: decimal.RequireFromString(amount)}
}

func TestRecordAssignsIdAndDate(t *testing.T) {
	_, r := newRecorder(t)

	e, err := r.Record(context.Background(), entry("receita", "80.00"))
	require.NoError(t, err)
	assert.NotEmpty(t, e.ID)
	assert.Equal(t, finance.KindRevenue, e.Kind)
	assert.True(t, e.Date.Equal(day))
}

func TestRecordValidation(t *testing.T) {
	_, r := newRecorder(t)
	ctx := context.Background()

	_, err := r.Record(ctx, entry("revenue", "0"))
	assert.True(t, httperr.IsBusiness(err, "invalid_amount"))

	_, err = r.Record(ctx, entry("revenue", "-5"))
	assert.True(t, httperr.IsBusiness(err, "invalid_amount"))

	_, err = r.Record(ctx, entry("gift", "5"))
	assert.True(t, httperr.IsBusiness(err, "invalid_kind"))
}

func TestRecordedEntriesAreImmutable(t *testing.T) {
	_, r := newRecorder(t)
	ctx := context.Background()

	e, err := r.Record(ctx, entry("despesa", "30"))
	require.NoError(t, err)

	again := entry("expense", "999")
	again.ID = e.ID
	_, err = r.Record(ctx, again)
	assert.True(t, httperr.IsBusiness(err, "entry_immutable"))
}

func TestOneEntryPerAppointment(t *testing.T) {
	_, r := newRecorder(t)
	ctx := context.Background()

	ap := &models.Appointment{
		ClientName:   "Carla",
		ServiceName:  "Jato",
		ServicePrice: decimal.RequireFromString("120.00"),
		StartTime:    day,
	}
	ap.ID = "ap-1"

	e, err := r.Record(ctx, finance.RevenueFor(ap, "Dinheiro", "Total Bronze"))
	require.NoError(t, err)
	assert.Equal(t, "Sessão de Jato - Cliente: Carla", e.Description)

	_, err = r.Record(ctx, finance.RevenueFor(ap, "Dinheiro", "Total Bronze"))
	assert.True(t, httperr.IsBusiness(err, "appointment_already_recorded"))

	got, err := r.ForAppointment(ctx, "ap-1")
	require.NoError(t, err)
	assert.Equal(t, e.ID, got.ID)
}

func TestSummary(t *testing.T) {
	_, r := newRecorder(t)
	ctx := context.Background()

	for _, e := range []*models.FinancialEntry{
		{Kind: "revenue", Amount: decimal.RequireFromString("100.50"), Date: day},
		{Kind: "revenue", Amount: decimal.RequireFromString("50"), Date: day.AddDate(0, 0, 1)},
		{Kind: "expense", Amount: decimal.RequireFromString("30.25"), Date: day},
		{Kind: "revenue", Amount: decimal.RequireFromString("999"), Date: day.AddDate(0, 1, 0)},
	} {
		_, err := r.Record(ctx, e)
		require.NoError(t, err)
	}

	s, err := r.Summary(ctx, day.AddDate(0, 0, -1), day.AddDate(0, 0, 7))
	require.NoError(t, err)
	assert.Equal(t, "150.5", s.Revenue.String())
	assert.Equal(t, "30.25", s.Expense.String())
	assert.Equal(t, "120.25", s.Net.String())
	assert.Equal(t, 3, s.Entries)

	all, err := r.Summary(ctx, time.Time{}, time.Time{})
	require.NoError(t, err)
	assert.Equal(t, 4, all.Entries)
}

func TestSummarizeEmpty(t *testing.T) {
	s := finance.Summarize(nil)
	assert.True(t, s.Net.IsZero())
	assert.Zero(t, s.Entries)
}
