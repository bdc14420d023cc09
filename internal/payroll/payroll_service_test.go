package payroll_test

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"math"
	"testing"
	"time"

	"go-farmops/internal/advance"
	"go-farmops/internal/employeesalary"
	"go-farmops/internal/events"
	"go-farmops/internal/messaging/kafka"
	"go-farmops/internal/payroll"
	payrollerrors "go-farmops/internal/payroll/errors"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

type fakePayrollRepository struct {
	snapshot *payroll.PayrollSnapshot
	saved    []payroll.PayrollSnapshot
	logs     []payroll.PayrollLog
	stats    payroll.PeriodStats
	closed   bool
	monthFn  func(ctx context.Context, farmID string, month, year int) ([]payroll.PayrollSnapshot, error)
}

func (f *fakePayrollRepository) WithTx(tx *sql.Tx) payroll.Repository { return f }

func (f *fakePayrollRepository) FindSnapshot(ctx context.Context, farmID, employeeID string, month, year int) (*payroll.PayrollSnapshot, error) {
	if f.snapshot == nil {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *f.snapshot
	return &cp, nil
}

func (f *fakePayrollRepository) FindSnapshotForUpdate(ctx context.Context, farmID, employeeID string, month, year int) (*payroll.PayrollSnapshot, error) {
	return f.FindSnapshot(ctx, farmID, employeeID, month, year)
}

func (f *fakePayrollRepository) FindSnapshotsByMonth(ctx context.Context, farmID string, month, year int) ([]payroll.PayrollSnapshot, error) {
	if f.monthFn != nil {
		return f.monthFn(ctx, farmID, month, year)
	}
	return nil, nil
}

func (f *fakePayrollRepository) CreateSnapshot(ctx context.Context, s *payroll.PayrollSnapshot) error {
	s.CreatedAt = time.Now()
	cp := *s
	f.snapshot = &cp
	f.saved = append(f.saved, cp)
	return nil
}

func (f *fakePayrollRepository) SaveSnapshot(ctx context.Context, s *payroll.PayrollSnapshot) error {
	cp := *s
	f.snapshot = &cp
	f.saved = append(f.saved, cp)
	return nil
}

func (f *fakePayrollRepository) SetFrozen(ctx context.Context, farmID, snapshotID string, frozenAt *time.Time) error {
	if f.snapshot != nil {
		f.snapshot.FrozenAt = frozenAt
	}
	return nil
}

func (f *fakePayrollRepository) AppendLog(ctx context.Context, l *payroll.PayrollLog) error {
	f.logs = append(f.logs, *l)
	return nil
}

func (f *fakePayrollRepository) FindLogs(ctx context.Context, farmID, employeeID string, month, year int) ([]payroll.PayrollLog, error) {
	return f.logs, nil
}

func (f *fakePayrollRepository) FindPeriodStats(ctx context.Context, farmID, employeeID string, month, year int) (payroll.PeriodStats, error) {
	return f.stats, nil
}

func (f *fakePayrollRepository) IsPeriodClosed(ctx context.Context, farmID, employeeID string, month, year int) (bool, error) {
	return f.closed, nil
}

type fakeSalaryRepository struct {
	employeesalary.Repository
	profile *employeesalary.EmployeeSalary
}

func (f *fakeSalaryRepository) WithTx(tx *sql.Tx) employeesalary.Repository { return f }

func (f *fakeSalaryRepository) FindEffective(ctx context.Context, farmID, employeeID string, month, year int) (*employeesalary.EmployeeSalary, error) {
	if f.profile == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return f.profile, nil
}

type fakeAdvanceRepository struct {
	advance.Repository
	totals advance.Totals
}

func (f *fakeAdvanceRepository) WithTx(tx *sql.Tx) advance.Repository { return f }

func (f *fakeAdvanceRepository) SumForPeriod(ctx context.Context, farmID, employeeID string, month, year int) (advance.Totals, error) {
	return f.totals, nil
}

type fakeOutboxRepository struct {
	created []kafka.OutboxEvent
}

func (f *fakeOutboxRepository) WithTx(tx *sql.Tx) kafka.OutboxRepository { return f }
func (f *fakeOutboxRepository) Create(ctx context.Context, event kafka.OutboxEvent) error {
	f.created = append(f.created, event)
	return nil
}
func (f *fakeOutboxRepository) ListPending(ctx context.Context, limit int) ([]kafka.OutboxEvent, error) {
	return nil, nil
}
func (f *fakeOutboxRepository) MarkSent(ctx context.Context, id string) error { return nil }
func (f *fakeOutboxRepository) MarkFailed(ctx context.Context, id string, reason string) error {
	return nil
}

type serviceDeps struct {
	db      *sql.DB
	sqlMock sqlmock.Sqlmock
	repo    *fakePayrollRepository
	outbox  *fakeOutboxRepository
	service payroll.Service
}

func setupServiceTest(t *testing.T) *serviceDeps {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	repo := &fakePayrollRepository{stats: payroll.PeriodStats{PresentDays: 26, Found: true}}
	salaries := &fakeSalaryRepository{profile: &employeesalary.EmployeeSalary{BaseSalary: 2_600_000, WorkDaysPerMonth: 26}}
	advances := &fakeAdvanceRepository{totals: advance.Totals{Approved: 100_000, Pending: 50_000}}
	outbox := &fakeOutboxRepository{}

	return &serviceDeps{
		db:      db,
		sqlMock: mock,
		repo:    repo,
		outbox:  outbox,
		service: payroll.NewService(db, repo, salaries, advances, outbox),
	}
}

func expectTx(t *testing.T, mock sqlmock.Sqlmock, commit bool) {
	t.Helper()
	mock.ExpectBegin()
	if commit {
		mock.ExpectCommit()
	} else {
		mock.ExpectRollback()
	}
}

func TestPayrollService_AddAdjustment(t *testing.T) {
	ctx := context.Background()
	farmID := uuid.New().String()
	actorID := uuid.New().String()
	employeeID := uuid.New().String()

	t.Run("bonus appends log and emits event", func(t *testing.T) {
		deps := setupServiceTest(t)
		expectTx(t, deps.sqlMock, true)

		resp, err := deps.service.AddAdjustment(ctx, farmID, actorID, employeeID, payroll.AdjustmentRequest{
			Month:      6,
			Year:       2025,
			ActionType: payroll.ActionBonus,
			Direction:  payroll.DirectionIncrease,
			Amount:     150_000,
			Reason:     "harvest target met",
		})

		require.NoError(t, err)
		require.Len(t, deps.repo.logs, 1)
		entry := deps.repo.logs[0]
		assert.Equal(t, "bonus_amount", entry.Field)
		assert.Equal(t, int64(0), entry.BeforeValue)
		assert.Equal(t, int64(150_000), entry.AfterValue)
		assert.Equal(t, int64(2_500_000), entry.BeforeNet)
		assert.Equal(t, int64(2_650_000), entry.AfterNet)
		assert.Equal(t, int64(2_650_000), resp.Snapshot.NetAmount)
		assert.Equal(t, int64(50_000), resp.Snapshot.AdvancePendingAmount)

		require.Len(t, deps.outbox.created, 1)
		assert.Equal(t, events.PayrollAdjustedTopic, deps.outbox.created[0].Topic)
		var event events.PayrollAdjustedEvent
		require.NoError(t, json.Unmarshal(deps.outbox.created[0].Payload, &event))
		assert.Equal(t, int64(150_000), event.Delta)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("log count never decreases", func(t *testing.T) {
		deps := setupServiceTest(t)
		req := payroll.AdjustmentRequest{
			Month: 6, Year: 2025,
			ActionType: payroll.ActionAllowance,
			Direction:  payroll.DirectionIncrease,
			Amount:     10_000,
			Reason:     "transport",
		}

		for i := 1; i <= 3; i++ {
			expectTx(t, deps.sqlMock, true)
			_, err := deps.service.AddAdjustment(ctx, farmID, actorID, employeeID, req)
			require.NoError(t, err)
			assert.Len(t, deps.repo.logs, i)
		}
		assert.Equal(t, int64(30_000), deps.repo.snapshot.AllowanceAmount)
	})

	t.Run("closed period refused", func(t *testing.T) {
		deps := setupServiceTest(t)
		deps.repo.closed = true
		expectTx(t, deps.sqlMock, false)

		_, err := deps.service.AddAdjustment(ctx, farmID, actorID, employeeID, payroll.AdjustmentRequest{
			Month: 6, Year: 2025,
			ActionType: payroll.ActionBonus,
			Direction:  payroll.DirectionIncrease,
			Amount:     1,
			Reason:     "late",
		})

		assert.ErrorIs(t, err, payrollerrors.ErrPeriodClosed)
		assert.Empty(t, deps.repo.logs)
		assert.Empty(t, deps.outbox.created)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("field may not go negative", func(t *testing.T) {
		deps := setupServiceTest(t)
		expectTx(t, deps.sqlMock, false)

		_, err := deps.service.AddAdjustment(ctx, farmID, actorID, employeeID, payroll.AdjustmentRequest{
			Month: 6, Year: 2025,
			ActionType: payroll.ActionDeduction,
			Direction:  payroll.DirectionDecrease,
			Amount:     5_000,
			Reason:     "undo",
		})

		assert.ErrorIs(t, err, payrollerrors.ErrNegativeField)
		assert.Empty(t, deps.repo.logs)
	})

	t.Run("salary adjust changes prorated base", func(t *testing.T) {
		deps := setupServiceTest(t)
		expectTx(t, deps.sqlMock, true)

		resp, err := deps.service.AddAdjustment(ctx, farmID, actorID, employeeID, payroll.AdjustmentRequest{
			Month: 6, Year: 2025,
			ActionType: payroll.ActionSalaryAdjust,
			Direction:  payroll.DirectionDecrease,
			Amount:     600_000,
			Reason:     "probation rate",
		})

		require.NoError(t, err)
		assert.Equal(t, int64(2_000_000), resp.Snapshot.GrossAmount)
		assert.Equal(t, "salary_base", resp.Log.Field)
		assert.Equal(t, int64(-600_000), resp.Log.Delta)
	})

	t.Run("invalid period", func(t *testing.T) {
		deps := setupServiceTest(t)

		_, err := deps.service.AddAdjustment(ctx, farmID, actorID, employeeID, payroll.AdjustmentRequest{
			Month: 13, Year: 2025,
			ActionType: payroll.ActionBonus,
			Direction:  payroll.DirectionIncrease,
			Amount:     1,
			Reason:     "x",
		})

		assert.ErrorIs(t, err, payrollerrors.ErrInvalidPeriod)
	})

	t.Run("amount beyond payroll range refused before tx", func(t *testing.T) {
		deps := setupServiceTest(t)

		_, err := deps.service.AddAdjustment(ctx, farmID, actorID, employeeID, payroll.AdjustmentRequest{
			Month: 6, Year: 2025,
			ActionType: payroll.ActionBonus,
			Direction:  payroll.DirectionIncrease,
			Amount:     math.MaxInt64,
			Reason:     "typo",
		})

		assert.ErrorIs(t, err, payrollerrors.ErrAmountOutOfRange)
		assert.Empty(t, deps.repo.logs)
		assert.Empty(t, deps.outbox.created)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})
}

func TestPayrollService_RefreshInTx(t *testing.T) {
	ctx := context.Background()
	farmID := uuid.New().String()
	employeeID := uuid.New().String()

	t.Run("keeps adjustments across refreshes", func(t *testing.T) {
		deps := setupServiceTest(t)
		deps.repo.snapshot = &payroll.PayrollSnapshot{
			ID:          uuid.New(),
			FarmID:      uuid.MustParse(farmID),
			EmployeeID:  uuid.MustParse(employeeID),
			Month:       6,
			Year:        2025,
			BonusAmount: 70_000,
			CreatedAt:   time.Now(),
		}

		first, err := deps.service.RefreshInTx(ctx, nil, farmID, employeeID, 6, 2025)
		require.NoError(t, err)
		second, err := deps.service.RefreshInTx(ctx, nil, farmID, employeeID, 6, 2025)
		require.NoError(t, err)

		assert.Equal(t, int64(70_000), second.BonusAmount)
		assert.Equal(t, first.NetAmount, second.NetAmount)
		assert.Equal(t, int64(2_570_000), second.NetAmount)
	})

	t.Run("missing salary profile uses zero base", func(t *testing.T) {
		db, _, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()
		repo := &fakePayrollRepository{stats: payroll.PeriodStats{PresentDays: 10, OvertimeAmount: 40_000}}
		svc := payroll.NewService(db, repo, &fakeSalaryRepository{}, &fakeAdvanceRepository{}, nil)

		snap, err := svc.RefreshInTx(ctx, nil, farmID, employeeID, 6, 2025)

		require.NoError(t, err)
		assert.Equal(t, int64(0), snap.SalaryBase)
		assert.Equal(t, employeesalary.DefaultWorkDaysPerMonth, snap.WorkDaysPerMonth)
		assert.Equal(t, int64(40_000), snap.GrossAmount)
	})

	t.Run("closed period refused", func(t *testing.T) {
		deps := setupServiceTest(t)
		deps.repo.closed = true

		_, err := deps.service.RefreshInTx(ctx, nil, farmID, employeeID, 6, 2025)

		assert.ErrorIs(t, err, payrollerrors.ErrPeriodClosed)
	})
}

func TestPayrollService_GetSnapshot_NotFound(t *testing.T) {
	deps := setupServiceTest(t)

	_, err := deps.service.GetSnapshot(context.Background(), uuid.New().String(), uuid.New().String(), payroll.PeriodQuery{Month: 6, Year: 2025})

	assert.ErrorIs(t, err, payrollerrors.ErrSnapshotNotFound)
}

func TestPayrollService_ExportMonth(t *testing.T) {
	deps := setupServiceTest(t)
	frozen := time.Now()
	deps.repo.monthFn = func(ctx context.Context, farmID string, month, year int) ([]payroll.PayrollSnapshot, error) {
		return []payroll.PayrollSnapshot{
			{EmployeeID: uuid.New(), GrossAmount: 1_000, NetAmount: 900},
			{EmployeeID: uuid.New(), GrossAmount: 2_000, NetAmount: 1_800, FrozenAt: &frozen},
		}, nil
	}

	out, err := deps.service.ExportMonth(context.Background(), uuid.New().String(), payroll.PeriodQuery{Month: 6, Year: 2025})
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(out))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("2025-06")
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, "Employee ID", rows[0][0])
	assert.Equal(t, "TOTAL", rows[3][0])
	assert.Equal(t, "2700", rows[3][11])
}

func TestPayrollService_Payslip(t *testing.T) {
	deps := setupServiceTest(t)
	deps.repo.snapshot = &payroll.PayrollSnapshot{ID: uuid.New(), EmployeeID: uuid.New(), Month: 6, Year: 2025, NetAmount: 1_234}

	pdf, err := deps.service.Payslip(context.Background(), uuid.New().String(), uuid.New().String(), payroll.PeriodQuery{Month: 6, Year: 2025})

	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(pdf, []byte("%PDF-1.4")))
	assert.Contains(t, string(pdf), "Net pay: 1234")
}
