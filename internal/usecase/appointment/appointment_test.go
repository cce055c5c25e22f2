package appointment_test

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"

	domain "github.com/BruksfildServices01/studio-manager/internal/domain/appointment"
	"github.com/BruksfildServices01/studio-manager/internal/domain/finance"
	"github.com/BruksfildServices01/studio-manager/internal/domain/inventory"
	"github.com/BruksfildServices01/studio-manager/internal/events"
	"github.com/BruksfildServices01/studio-manager/internal/httperr"
	"github.com/BruksfildServices01/studio-manager/internal/models"
	"github.com/BruksfildServices01/studio-manager/internal/store"
	"github.com/BruksfildServices01/studio-manager/internal/testutil"
	uc "github.com/BruksfildServices01/studio-manager/internal/usecase/appointment"
)

var t0 = time.Date(2025, 6, 10, 9, 0, 0, 0, time.UTC)

type fixture struct {
	ctx       context.Context
	store     *store.Store
	clock     *testutil.Clock
	events    *events.Memory
	scheduler *uc.SessionScheduler

	create   *uc.CreateAppointment
	start    *uc.StartSession
	complete *uc.CompleteAppointment
	update   *uc.UpdateStatus
	cancel   *uc.CancelAppointment
	byDate   *uc.ListAppointmentsByDate
	byMonth  *uc.ListAppointmentsByMonth
	slots    *uc.GetDaySlots
}

func newFixture(t *testing.T, autoRecord bool) *fixture {
	t.Helper()
	ctx := context.Background()

	st, err := store.Open(ctx, testutil.NewDB(t))
	require.NoError(t, err)

	clock := testutil.NewClock(t0)
	mem := &events.Memory{}
	deps := uc.Deps{Store: st, Events: mem, Now: clock.Now}

	sched := uc.NewSessionScheduler(clock.Now, nil, nil)
	t.Cleanup(sched.Stop)

	ledger := inventory.NewLedger(st, nil)
	recorder := finance.NewRecorder(st, nil, clock.Now)
	policy := domain.DefaultSessionPolicy()

	complete := uc.NewCompleteAppointment(deps, ledger, recorder, sched, uc.RevenueOptions{
		AutoRecord:    autoRecord,
		PaymentMethod: "Dinheiro",
		Platform:      "Total Bronze",
	})
	sched.OnExpire(complete.Expire)

	return &fixture{
		ctx:       ctx,
		store:     st,
		clock:     clock,
		events:    mem,
		scheduler: sched,
		create:    uc.NewCreateAppointment(deps),
		start:     uc.NewStartSession(deps, policy, sched),
		complete:  complete,
		update:    uc.NewUpdateStatus(deps, ledger, policy, sched),
		cancel:    uc.NewCancelAppointment(deps, sched),
		byDate:    uc.NewListAppointmentsByDate(st, time.UTC),
		byMonth:   uc.NewListAppointmentsByMonth(st, time.UTC),
		slots:     uc.NewGetDaySlots(st, time.UTC, clock.Now),
	}
}

func (f *fixture) product(t *testing.T, id string, stock int) *models.Product {
	t.Helper()
	p := &models.Product{Name: "Produto " + id, Price: decimal.NewFromInt(15), Stock: stock}
	p.ID = id
	require.NoError(t, f.store.Products().Put(f.ctx, p))
	return p
}

func (f *fixture) service(t *testing.T, id, price string, usages ...models.ProductUsage) *models.Service {
	t.Helper()
	s := &models.Service{
		Name:          "Bronzeamento Natural",
		Price:         decimal.RequireFromString(price),
		DurationMin:   45,
		ProductUsages: datatypes.JSONSlice[models.ProductUsage](usages),
	}
	s.ID = id
	require.NoError(t, f.store.Services().Put(f.ctx, s))
	return s
}

func (f *fixture) client(t *testing.T, contraindications ...string) *models.Client {
	t.Helper()
	c := &models.Client{Name: "Carla", Phone: "11988887777", Contraindications: contraindications}
	require.NoError(t, f.store.Clients().Put(f.ctx, c))
	return c
}

func (f *fixture) book(t *testing.T, clientID, serviceID string, start time.Time) *models.Appointment {
	t.Helper()
	ap, err := f.create.Execute(f.ctx, uc.CreateAppointmentInput{ClientID: clientID, ServiceID: serviceID, Start: start})
	require.NoError(t, err)
	return ap
}

func (f *fixture) stock(t *testing.T, id string) int {
	t.Helper()
	p, err := f.store.Products().Get(f.ctx, id)
	require.NoError(t, err)
	return p.Stock
}

func (f *fixture) entries(t *testing.T) []models.FinancialEntry {
	t.Helper()
	all, err := f.store.FinancialEntries().List(f.ctx)
	require.NoError(t, err)
	return all
}

// ======================================================
// Create
// ======================================================

func TestCreateSnapshotsService(t *testing.T) {
	f := newFixture(t, true)
	f.product(t, "p1", 5)
	svc := f.service(t, "s1", "120.00", models.ProductUsage{ProductID: "p1", Quantity: 3})
	c := f.client(t)

	ap := f.book(t, c.ID, svc.ID, t0.Add(2*time.Hour))
	assert.Equal(t, string(domain.StatusScheduled), ap.Status)
	assert.Equal(t, t0.Add(2*time.Hour+45*time.Minute), ap.EndTime)
	assert.Equal(t, "Carla", ap.ClientName)
	assert.Equal(t, "Bronzeamento Natural", ap.ServiceName)

	svc.Price = decimal.NewFromInt(999)
	svc.ProductUsages = nil
	require.NoError(t, f.store.Services().Put(f.ctx, svc))

	got, err := f.store.Appointments().Get(f.ctx, ap.ID)
	require.NoError(t, err)
	assert.True(t, got.ServicePrice.Equal(decimal.NewFromInt(120)))
	require.Len(t, got.ProductUsages, 1)
	assert.Equal(t, 3, got.ProductUsages[0].Quantity)

	evs := f.events.Events()
	require.NotEmpty(t, evs)
	assert.Equal(t, events.TypeCreated, evs[0].Type)
}

func TestCreateRejectsPastAndCurrentTime(t *testing.T) {
	f := newFixture(t, true)
	f.service(t, "s1", "50")
	c := f.client(t)

	for _, start := range []time.Time{t0.Add(-time.Minute), t0} {
		_, err := f.create.Execute(f.ctx, uc.CreateAppointmentInput{ClientID: c.ID, ServiceID: "s1", Start: start})
		require.Error(t, err)
		assert.True(t, httperr.IsBusiness(err, "past_time_slot"))
	}

	_, err := f.create.Execute(f.ctx, uc.CreateAppointmentInput{
		ClientID: c.ID, ServiceID: "s1", Date: "2025-06-10", Time: "08:59",
	})
	assert.True(t, httperr.IsBusiness(err, "past_time_slot"))

	all, err := f.store.Appointments().List(f.ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestCreateFromDateAndTime(t *testing.T) {
	f := newFixture(t, true)
	f.service(t, "s1", "50")
	c := f.client(t)

	ap, err := f.create.Execute(f.ctx, uc.CreateAppointmentInput{
		ClientID: c.ID, ServiceID: "s1", Date: "2025-06-11", Time: "14:30", Confirmed: true,
	})
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 6, 11, 14, 30, 0, 0, time.UTC), ap.StartTime.UTC())
	assert.Equal(t, string(domain.StatusConfirmed), ap.Status)

	_, err = f.create.Execute(f.ctx, uc.CreateAppointmentInput{ClientID: c.ID, ServiceID: "s1", Date: "amanhã", Time: "10"})
	assert.True(t, httperr.IsBusiness(err, "invalid_date_or_time"))
}

func TestCreateChecksReferences(t *testing.T) {
	f := newFixture(t, true)
	f.service(t, "s1", "50")
	c := f.client(t)
	blocked := f.client(t, "Hipertensão")

	_, err := f.create.Execute(f.ctx, uc.CreateAppointmentInput{ClientID: "nobody", ServiceID: "s1", Start: t0.Add(time.Hour)})
	assert.True(t, httperr.IsBusiness(err, "client_not_found"))

	_, err = f.create.Execute(f.ctx, uc.CreateAppointmentInput{ClientID: c.ID, ServiceID: "nothing", Start: t0.Add(time.Hour)})
	assert.True(t, httperr.IsBusiness(err, "service_not_found"))

	_, err = f.create.Execute(f.ctx, uc.CreateAppointmentInput{ClientID: blocked.ID, ServiceID: "s1", Start: t0.Add(time.Hour)})
	assert.True(t, httperr.IsBusiness(err, "blocking_contraindications"))
	assert.Contains(t, err.Error(), "Hipertensão")
}

func TestCreateRejectsOverlap(t *testing.T) {
	f := newFixture(t, true)
	f.service(t, "s1", "50")
	c := f.client(t)

	first := f.book(t, c.ID, "s1", t0.Add(time.Hour))

	_, err := f.create.Execute(f.ctx, uc.CreateAppointmentInput{ClientID: c.ID, ServiceID: "s1", Start: t0.Add(90 * time.Minute)})
	assert.True(t, httperr.IsBusiness(err, "time_conflict"))

	_, err = f.cancel.Execute(f.ctx, first.ID)
	require.NoError(t, err)

	f.book(t, c.ID, "s1", t0.Add(90*time.Minute))
}

// ======================================================
// Complete
// ======================================================

func TestCompleteConsumesStockAndRecordsRevenue(t *testing.T) {
	f := newFixture(t, true)
	f.product(t, "p1", 5)
	f.service(t, "s1", "120.00", models.ProductUsage{ProductID: "p1", Quantity: 3})
	c := f.client(t)
	ap := f.book(t, c.ID, "s1", t0.Add(time.Hour))

	done, err := f.complete.Execute(f.ctx, ap.ID)
	require.NoError(t, err)
	assert.Equal(t, string(domain.StatusCompleted), done.Status)
	assert.Equal(t, 2, f.stock(t, "p1"))

	entries := f.entries(t)
	require.Len(t, entries, 1)
	assert.Equal(t, finance.KindRevenue, entries[0].Kind)
	assert.True(t, entries[0].Amount.Equal(decimal.NewFromInt(120)))
	assert.Equal(t, "Sessão de Bronzeamento Natural - Cliente: Carla", entries[0].Description)
	assert.Equal(t, ap.ID, *entries[0].AppointmentID)
	assert.Equal(t, entries[0].ID, done.FinancialEntryID)

	_, err = f.complete.Execute(f.ctx, ap.ID)
	assert.True(t, httperr.IsBusiness(err, "invalid_state"))
	assert.Len(t, f.entries(t), 1)
	assert.Equal(t, 2, f.stock(t, "p1"))
}

func TestCompleteInsufficientStockChangesNothing(t *testing.T) {
	f := newFixture(t, true)
	f.product(t, "p1", 2)
	f.service(t, "s1", "120.00", models.ProductUsage{ProductID: "p1", Quantity: 3})
	c := f.client(t)
	ap := f.book(t, c.ID, "s1", t0.Add(time.Hour))

	_, err := f.complete.Execute(f.ctx, ap.ID)
	require.Error(t, err)
	assert.Equal(t, httperr.KindInsufficientStock, httperr.KindOf(err))

	got, err := f.store.Appointments().Get(f.ctx, ap.ID)
	require.NoError(t, err)
	assert.Equal(t, string(domain.StatusScheduled), got.Status)
	assert.Equal(t, 2, f.stock(t, "p1"))
	assert.Empty(t, f.entries(t))
}

func TestCompleteWithoutUsagesAlwaysSucceeds(t *testing.T) {
	f := newFixture(t, true)
	f.service(t, "s1", "60")
	c := f.client(t)
	ap := f.book(t, c.ID, "s1", t0.Add(time.Hour))

	_, err := f.complete.Execute(f.ctx, ap.ID)
	require.NoError(t, err)
	assert.Len(t, f.entries(t), 1)
}

func TestCompleteFreeServiceRecordsNoRevenue(t *testing.T) {
	f := newFixture(t, true)
	f.service(t, "s1", "0")
	c := f.client(t)
	ap := f.book(t, c.ID, "s1", t0.Add(time.Hour))

	done, err := f.complete.Execute(f.ctx, ap.ID)
	require.NoError(t, err)
	assert.Equal(t, string(domain.StatusCompleted), done.Status)
	assert.Empty(t, done.FinancialEntryID)
	assert.Empty(t, f.entries(t))
}

func TestTimerCompletesFreeSession(t *testing.T) {
	f := newFixture(t, true)
	f.service(t, "s1", "0")
	c := f.client(t)
	ap := f.book(t, c.ID, "s1", t0.Add(time.Hour))

	_, err := f.start.Execute(f.ctx, ap.ID)
	require.NoError(t, err)
	f.scheduler.Schedule(ap.ID, t0.Add(-time.Minute))

	assert.Eventually(t, func() bool {
		got, err := f.store.Appointments().Get(f.ctx, ap.ID)
		return err == nil && got.Status == string(domain.StatusCompleted)
	}, 2*time.Second, 10*time.Millisecond)
}

func TestCompleteWithoutAutoRecord(t *testing.T) {
	f := newFixture(t, false)
	f.service(t, "s1", "60")
	c := f.client(t)
	ap := f.book(t, c.ID, "s1", t0.Add(time.Hour))

	done, err := f.complete.Execute(f.ctx, ap.ID)
	require.NoError(t, err)
	assert.Empty(t, done.FinancialEntryID)
	assert.Empty(t, f.entries(t))
}

func TestCompleteUnknownAppointment(t *testing.T) {
	f := newFixture(t, true)

	_, err := f.complete.Execute(f.ctx, "missing")
	assert.True(t, httperr.IsBusiness(err, "appointment_not_found"))
}

// ======================================================
// Sessions
// ======================================================

func TestStartSessionArmsTimer(t *testing.T) {
	f := newFixture(t, true)
	f.service(t, "s1", "60")
	c := f.client(t)
	ap := f.book(t, c.ID, "s1", t0.Add(time.Hour))

	started, err := f.start.Execute(f.ctx, ap.ID)
	require.NoError(t, err)
	assert.Equal(t, string(domain.StatusInProgress), started.Status)
	assert.Equal(t, t0, started.ActualStart.UTC())
	assert.Equal(t, t0.Add(time.Hour), started.ActualEnd.UTC())
	assert.True(t, f.scheduler.Pending(ap.ID))

	_, err = f.start.Execute(f.ctx, ap.ID)
	assert.True(t, httperr.IsBusiness(err, "invalid_state"))

	_, err = f.complete.Execute(f.ctx, ap.ID)
	require.NoError(t, err)
	assert.False(t, f.scheduler.Pending(ap.ID))
}

func TestTimerCompletesSession(t *testing.T) {
	f := newFixture(t, true)
	f.product(t, "p1", 5)
	f.service(t, "s1", "60", models.ProductUsage{ProductID: "p1", Quantity: 1})
	c := f.client(t)
	ap := f.book(t, c.ID, "s1", t0.Add(time.Hour))

	_, err := f.start.Execute(f.ctx, ap.ID)
	require.NoError(t, err)

	// the session end is already reached by the time the timer is re-armed
	f.clock.Advance(2 * time.Hour)
	f.scheduler.Schedule(ap.ID, t0.Add(time.Hour))

	assert.Eventually(t, func() bool {
		got, err := f.store.Appointments().Get(f.ctx, ap.ID)
		return err == nil && got.Status == string(domain.StatusCompleted)
	}, 2*time.Second, 10*time.Millisecond)

	assert.Equal(t, 4, f.stock(t, "p1"))
	assert.Len(t, f.entries(t), 1)
}

func TestExpireIgnoresAppointmentsNoLongerInProgress(t *testing.T) {
	f := newFixture(t, true)
	f.service(t, "s1", "60")
	c := f.client(t)
	ap := f.book(t, c.ID, "s1", t0.Add(time.Hour))

	require.NoError(t, f.complete.Expire(f.ctx, ap.ID))

	got, err := f.store.Appointments().Get(f.ctx, ap.ID)
	require.NoError(t, err)
	assert.Equal(t, string(domain.StatusScheduled), got.Status)
	assert.Empty(t, f.entries(t))
}

func TestSchedulerCancelAndReplace(t *testing.T) {
	var fired atomic.Int32
	s := uc.NewSessionScheduler(nil, nil, nil)
	defer s.Stop()
	s.OnExpire(func(context.Context, string) error {
		fired.Add(1)
		return nil
	})

	s.Schedule("a", time.Now().Add(time.Hour))
	assert.True(t, s.Cancel("a"))
	assert.False(t, s.Cancel("a"))

	s.Schedule("b", time.Now().Add(time.Hour))
	s.Schedule("b", time.Now())
	assert.Eventually(t, func() bool { return fired.Load() == 1 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, 0, s.Len())
}

func TestRestoreArmsRunningSessions(t *testing.T) {
	f := newFixture(t, true)
	f.service(t, "s1", "60")
	c := f.client(t)
	ap := f.book(t, c.ID, "s1", t0.Add(time.Hour))
	_, err := f.start.Execute(f.ctx, ap.ID)
	require.NoError(t, err)

	fresh := uc.NewSessionScheduler(f.clock.Now, nil, nil)
	defer fresh.Stop()

	n, err := fresh.Restore(f.ctx, f.store)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.True(t, fresh.Pending(ap.ID))
}

func TestResyncDropsStaleTimers(t *testing.T) {
	f := newFixture(t, true)
	f.service(t, "s1", "60")
	c := f.client(t)
	ap := f.book(t, c.ID, "s1", t0.Add(time.Hour))
	_, err := f.start.Execute(f.ctx, ap.ID)
	require.NoError(t, err)

	f.scheduler.Schedule("gone", t0.Add(time.Hour))
	require.Equal(t, 2, f.scheduler.Len())

	n, err := f.scheduler.Resync(f.ctx, f.store)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.True(t, f.scheduler.Pending(ap.ID))
	assert.False(t, f.scheduler.Pending("gone"))
}

// ======================================================
// Direct status update and cancel
// ======================================================

func TestUpdateStatusToRealizadoConsumesWithoutRevenue(t *testing.T) {
	f := newFixture(t, true)
	f.product(t, "p1", 5)
	f.service(t, "s1", "60", models.ProductUsage{ProductID: "p1", Quantity: 2})
	c := f.client(t)
	ap := f.book(t, c.ID, "s1", t0.Add(time.Hour))

	got, err := f.update.Execute(f.ctx, ap.ID, "realizado")
	require.NoError(t, err)
	assert.Equal(t, string(domain.StatusCompleted), got.Status)
	assert.Equal(t, 3, f.stock(t, "p1"))
	assert.Empty(t, f.entries(t))

	_, err = f.update.Execute(f.ctx, ap.ID, "completed")
	require.NoError(t, err)
	assert.Equal(t, 3, f.stock(t, "p1"))
}

func TestUpdateStatusStockFailureAborts(t *testing.T) {
	f := newFixture(t, true)
	f.product(t, "p1", 1)
	f.service(t, "s1", "60", models.ProductUsage{ProductID: "p1", Quantity: 2})
	c := f.client(t)
	ap := f.book(t, c.ID, "s1", t0.Add(time.Hour))

	_, err := f.update.Execute(f.ctx, ap.ID, "realizado")
	assert.Equal(t, httperr.KindInsufficientStock, httperr.KindOf(err))

	got, err := f.store.Appointments().Get(f.ctx, ap.ID)
	require.NoError(t, err)
	assert.Equal(t, string(domain.StatusScheduled), got.Status)
}

func TestUpdateStatusCancelsTimer(t *testing.T) {
	f := newFixture(t, true)
	f.service(t, "s1", "60")
	c := f.client(t)
	ap := f.book(t, c.ID, "s1", t0.Add(time.Hour))

	_, err := f.update.Execute(f.ctx, ap.ID, "em-andamento")
	require.NoError(t, err)
	assert.True(t, f.scheduler.Pending(ap.ID))

	_, err = f.update.Execute(f.ctx, ap.ID, "agendado")
	require.NoError(t, err)
	assert.False(t, f.scheduler.Pending(ap.ID))

	_, err = f.update.Execute(f.ctx, ap.ID, "paused")
	assert.True(t, httperr.IsBusiness(err, "invalid_status"))

	_, err = f.update.Execute(f.ctx, "missing", "agendado")
	assert.True(t, httperr.IsBusiness(err, "appointment_not_found"))
}

func TestUpdateStatusReentryRestartsSession(t *testing.T) {
	f := newFixture(t, true)
	f.product(t, "p1", 5)
	f.service(t, "s1", "60", models.ProductUsage{ProductID: "p1", Quantity: 1})
	c := f.client(t)
	ap := f.book(t, c.ID, "s1", t0.Add(time.Hour))

	_, err := f.start.Execute(f.ctx, ap.ID)
	require.NoError(t, err)

	_, err = f.update.Execute(f.ctx, ap.ID, "agendado")
	require.NoError(t, err)

	f.clock.Advance(3 * time.Hour)
	now := f.clock.Now()

	resumed, err := f.update.Execute(f.ctx, ap.ID, "em-andamento")
	require.NoError(t, err)
	assert.Equal(t, now, resumed.ActualStart.UTC())
	assert.Equal(t, now.Add(time.Hour), resumed.ActualEnd.UTC())
	assert.True(t, f.scheduler.Pending(ap.ID))

	// the new session end lies one hour ahead, nothing fires now
	time.Sleep(200 * time.Millisecond)
	got, err := f.store.Appointments().Get(f.ctx, ap.ID)
	require.NoError(t, err)
	assert.Equal(t, string(domain.StatusInProgress), got.Status)
	assert.Equal(t, 5, f.stock(t, "p1"))
	assert.Empty(t, f.entries(t))
}

func TestCancel(t *testing.T) {
	f := newFixture(t, true)
	f.service(t, "s1", "60")
	c := f.client(t)
	ap := f.book(t, c.ID, "s1", t0.Add(time.Hour))

	got, err := f.cancel.Execute(f.ctx, ap.ID)
	require.NoError(t, err)
	assert.Equal(t, string(domain.StatusCancelled), got.Status)
	assert.NotNil(t, got.CancelledAt)

	_, err = f.cancel.Execute(f.ctx, ap.ID)
	assert.True(t, httperr.IsBusiness(err, "invalid_state"))
}

// ======================================================
// Read side
// ======================================================

func TestListsAndSlots(t *testing.T) {
	f := newFixture(t, true)
	f.service(t, "s1", "60")
	c := f.client(t)

	late := f.book(t, c.ID, "s1", time.Date(2025, 6, 10, 15, 0, 0, 0, time.UTC))
	early := f.book(t, c.ID, "s1", time.Date(2025, 6, 10, 10, 0, 0, 0, time.UTC))
	f.book(t, c.ID, "s1", time.Date(2025, 6, 20, 10, 0, 0, 0, time.UTC))
	f.book(t, c.ID, "s1", time.Date(2025, 7, 1, 10, 0, 0, 0, time.UTC))

	day, err := f.byDate.Execute(f.ctx, "2025-06-10")
	require.NoError(t, err)
	require.Len(t, day, 2)
	assert.Equal(t, early.ID, day[0].ID)
	assert.Equal(t, late.ID, day[1].ID)

	month, err := f.byMonth.Execute(f.ctx, 2025, 6)
	require.NoError(t, err)
	assert.Len(t, month, 3)

	_, err = f.byMonth.Execute(f.ctx, 2025, 13)
	assert.True(t, httperr.IsBusiness(err, "invalid_month"))

	slots, err := f.slots.Execute(f.ctx, "2025-06-10")
	require.NoError(t, err)
	require.Len(t, slots, 24)
	assert.True(t, slots[0].Past)
	assert.Equal(t, early.ID, slots[4].AppointmentID)
	assert.False(t, slots[4].Available)
	assert.True(t, slots[3].Available)

	_, err = f.slots.Execute(f.ctx, "10/06/2025")
	assert.True(t, httperr.IsBusiness(err, "invalid_date"))
}
