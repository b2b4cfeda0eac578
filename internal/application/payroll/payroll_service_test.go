package payroll

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	domainpayroll "github.com/schoolerp/backend/internal/domain/payroll"
	"github.com/schoolerp/backend/internal/domain/school"
	"github.com/schoolerp/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type nopTxManager struct{}

func (nopTxManager) WithinTransaction(ctx context.Context, fn func(context.Context) error) error {
	return fn(ctx)
}

type MockSalaryComponentRepository struct {
	mock.Mock
}

func (m *MockSalaryComponentRepository) FindByID(ctx context.Context, id uuid.UUID) (*domainpayroll.SalaryComponent, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domainpayroll.SalaryComponent), args.Error(1)
}

func (m *MockSalaryComponentRepository) FindActiveForSchool(ctx context.Context, schoolID uuid.UUID) ([]domainpayroll.SalaryComponent, error) {
	args := m.Called(ctx, schoolID)
	return args.Get(0).([]domainpayroll.SalaryComponent), args.Error(1)
}

func (m *MockSalaryComponentRepository) Save(ctx context.Context, c *domainpayroll.SalaryComponent) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

type MockSalaryStructureRepository struct {
	mock.Mock
}

func (m *MockSalaryStructureRepository) FindByID(ctx context.Context, id uuid.UUID) (*domainpayroll.SalaryStructure, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domainpayroll.SalaryStructure), args.Error(1)
}

func (m *MockSalaryStructureRepository) FindActiveForTeacher(ctx context.Context, schoolID, teacherID uuid.UUID) (*domainpayroll.SalaryStructure, error) {
	args := m.Called(ctx, schoolID, teacherID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domainpayroll.SalaryStructure), args.Error(1)
}

func (m *MockSalaryStructureRepository) Save(ctx context.Context, ss *domainpayroll.SalaryStructure) error {
	args := m.Called(ctx, ss)
	return args.Error(0)
}

type MockTeacherAttendanceRepository struct {
	mock.Mock
}

func (m *MockTeacherAttendanceRepository) FindForTeacherInRange(ctx context.Context, schoolID, teacherID uuid.UUID, from, to time.Time) ([]domainpayroll.TeacherAttendance, error) {
	args := m.Called(ctx, schoolID, teacherID, from, to)
	return args.Get(0).([]domainpayroll.TeacherAttendance), args.Error(1)
}

func (m *MockTeacherAttendanceRepository) Save(ctx context.Context, a *domainpayroll.TeacherAttendance) error {
	args := m.Called(ctx, a)
	return args.Error(0)
}

type MockTeacherSalaryRepository struct {
	mock.Mock
}

func (m *MockTeacherSalaryRepository) FindByID(ctx context.Context, id uuid.UUID) (*domainpayroll.TeacherSalary, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domainpayroll.TeacherSalary), args.Error(1)
}

func (m *MockTeacherSalaryRepository) FindByIDForSchool(ctx context.Context, schoolID, id uuid.UUID) (*domainpayroll.TeacherSalary, error) {
	args := m.Called(ctx, schoolID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domainpayroll.TeacherSalary), args.Error(1)
}

func (m *MockTeacherSalaryRepository) FindByTeacherAndMonth(ctx context.Context, schoolID, teacherID uuid.UUID, month, year int) (*domainpayroll.TeacherSalary, error) {
	args := m.Called(ctx, schoolID, teacherID, month, year)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domainpayroll.TeacherSalary), args.Error(1)
}

func (m *MockTeacherSalaryRepository) FindByMonth(ctx context.Context, schoolID uuid.UUID, month, year int) ([]domainpayroll.TeacherSalary, error) {
	args := m.Called(ctx, schoolID, month, year)
	return args.Get(0).([]domainpayroll.TeacherSalary), args.Error(1)
}

func (m *MockTeacherSalaryRepository) Save(ctx context.Context, ts *domainpayroll.TeacherSalary) error {
	args := m.Called(ctx, ts)
	return args.Error(0)
}

type MockSalaryPaymentRepository struct {
	mock.Mock
}

func (m *MockSalaryPaymentRepository) FindBySalary(ctx context.Context, schoolID, teacherSalaryID uuid.UUID) ([]domainpayroll.SalaryPayment, error) {
	args := m.Called(ctx, schoolID, teacherSalaryID)
	return args.Get(0).([]domainpayroll.SalaryPayment), args.Error(1)
}

func (m *MockSalaryPaymentRepository) Save(ctx context.Context, p *domainpayroll.SalaryPayment) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

type MockHolidayRepository struct {
	mock.Mock
}

func (m *MockHolidayRepository) FindActiveInRange(ctx context.Context, schoolID uuid.UUID, from, to time.Time) ([]school.Holiday, error) {
	args := m.Called(ctx, schoolID, from, to)
	return args.Get(0).([]school.Holiday), args.Error(1)
}

func (m *MockHolidayRepository) Save(ctx context.Context, holiday *school.Holiday) error {
	args := m.Called(ctx, holiday)
	return args.Error(0)
}

type payrollServiceMocks struct {
	componentRepo  *MockSalaryComponentRepository
	structureRepo  *MockSalaryStructureRepository
	attendanceRepo *MockTeacherAttendanceRepository
	salaryRepo     *MockTeacherSalaryRepository
	payoutRepo     *MockSalaryPaymentRepository
	holidayRepo    *MockHolidayRepository
}

func newPayrollService(t *testing.T) (*PayrollService, *payrollServiceMocks) {
	t.Helper()
	m := &payrollServiceMocks{
		componentRepo:  new(MockSalaryComponentRepository),
		structureRepo:  new(MockSalaryStructureRepository),
		attendanceRepo: new(MockTeacherAttendanceRepository),
		salaryRepo:     new(MockTeacherSalaryRepository),
		payoutRepo:     new(MockSalaryPaymentRepository),
		holidayRepo:    new(MockHolidayRepository),
	}
	svc := NewPayrollService(m.componentRepo, m.structureRepo, m.attendanceRepo, m.salaryRepo,
		m.payoutRepo, m.holidayRepo, nopTxManager{}, false, zap.NewNop())
	return svc, m
}

func testSalaryStructure(t *testing.T, schoolID, teacherID uuid.UUID, basic int64) *domainpayroll.SalaryStructure {
	t.Helper()
	ss, err := domainpayroll.NewSalaryStructure(schoolID, teacherID, decimal.NewFromInt(basic), time.Now(), nil)
	require.NoError(t, err)
	return ss
}

func attendanceDays(t *testing.T, schoolID, teacherID uuid.UUID, year int, month time.Month, present int) []domainpayroll.TeacherAttendance {
	t.Helper()
	records := make([]domainpayroll.TeacherAttendance, 0, present)
	for d := 1; d <= present; d++ {
		a, err := domainpayroll.NewTeacherAttendance(schoolID, teacherID,
			time.Date(year, month, d, 0, 0, 0, 0, time.UTC), domainpayroll.AttendancePresent)
		require.NoError(t, err)
		records = append(records, *a)
	}
	return records
}

func TestPayrollService_ProcessSalary(t *testing.T) {
	ctx := context.Background()

	t.Run("prorates pay by the month's attendance", func(t *testing.T) {
		svc, m := newPayrollService(t)
		schoolID, teacherID := uuid.New(), uuid.New()
		structure := testSalaryStructure(t, schoolID, teacherID, 30000)

		m.salaryRepo.On("FindByTeacherAndMonth", ctx, schoolID, teacherID, 4, 2025).Return(nil, shared.ErrNotFound)
		m.structureRepo.On("FindActiveForTeacher", ctx, schoolID, teacherID).Return(structure, nil)
		m.attendanceRepo.On("FindForTeacherInRange", ctx, schoolID, teacherID, mock.Anything, mock.Anything).
			Return(attendanceDays(t, schoolID, teacherID, 2025, time.April, 13), nil)
		m.holidayRepo.On("FindActiveInRange", ctx, schoolID, mock.Anything, mock.Anything).Return([]school.Holiday{}, nil)
		m.salaryRepo.On("Save", ctx, mock.AnythingOfType("*payroll.TeacherSalary")).Return(nil)

		ts, err := svc.ProcessSalary(ctx, ProcessSalaryRequest{
			SchoolID:    schoolID,
			TeacherID:   teacherID,
			Month:       4,
			Year:        2025,
			WorkingDays: 26,
		})
		require.NoError(t, err)
		assert.True(t, ts.NetSalary.Equal(decimal.NewFromInt(15000)), "got %s", ts.NetSalary)
		assert.Equal(t, domainpayroll.SalaryProcessed, ts.Status)
	})

	t.Run("holidays reduce the working day base", func(t *testing.T) {
		svc, m := newPayrollService(t)
		schoolID, teacherID := uuid.New(), uuid.New()
		structure := testSalaryStructure(t, schoolID, teacherID, 26000)
		holiday, err := school.NewHoliday(schoolID, "Spring break",
			time.Date(2025, time.April, 1, 0, 0, 0, 0, time.UTC),
			time.Date(2025, time.April, 6, 0, 0, 0, 0, time.UTC))
		require.NoError(t, err)

		m.salaryRepo.On("FindByTeacherAndMonth", ctx, schoolID, teacherID, 4, 2025).Return(nil, shared.ErrNotFound)
		m.structureRepo.On("FindActiveForTeacher", ctx, schoolID, teacherID).Return(structure, nil)
		m.attendanceRepo.On("FindForTeacherInRange", ctx, schoolID, teacherID, mock.Anything, mock.Anything).
			Return(attendanceDays(t, schoolID, teacherID, 2025, time.April, 10), nil)
		m.holidayRepo.On("FindActiveInRange", ctx, schoolID, mock.Anything, mock.Anything).Return([]school.Holiday{*holiday}, nil)
		m.salaryRepo.On("Save", ctx, mock.AnythingOfType("*payroll.TeacherSalary")).Return(nil)

		ts, err := svc.ProcessSalary(ctx, ProcessSalaryRequest{
			SchoolID:    schoolID,
			TeacherID:   teacherID,
			Month:       4,
			Year:        2025,
			WorkingDays: 26,
		})
		require.NoError(t, err)
		// 26 working days minus 6 holiday days leaves 20; 10 of 20 present
		assert.Equal(t, 20, ts.WorkingDays)
		assert.True(t, ts.NetSalary.Equal(decimal.NewFromInt(13000)), "got %s", ts.NetSalary)
	})

	t.Run("processes against a pinned structure", func(t *testing.T) {
		svc, m := newPayrollService(t)
		schoolID, teacherID := uuid.New(), uuid.New()
		pinned := testSalaryStructure(t, schoolID, teacherID, 26000)

		m.salaryRepo.On("FindByTeacherAndMonth", ctx, schoolID, teacherID, 4, 2025).Return(nil, shared.ErrNotFound)
		m.structureRepo.On("FindByID", ctx, pinned.ID).Return(pinned, nil)
		m.attendanceRepo.On("FindForTeacherInRange", ctx, schoolID, teacherID, mock.Anything, mock.Anything).
			Return(attendanceDays(t, schoolID, teacherID, 2025, time.April, 26), nil)
		m.holidayRepo.On("FindActiveInRange", ctx, schoolID, mock.Anything, mock.Anything).Return([]school.Holiday{}, nil)
		m.salaryRepo.On("Save", ctx, mock.AnythingOfType("*payroll.TeacherSalary")).Return(nil)

		ts, err := svc.ProcessSalary(ctx, ProcessSalaryRequest{
			SchoolID:    schoolID,
			TeacherID:   teacherID,
			Month:       4,
			Year:        2025,
			WorkingDays: 26,
			StructureID: &pinned.ID,
		})
		require.NoError(t, err)
		assert.True(t, ts.NetSalary.Equal(decimal.NewFromInt(26000)), "got %s", ts.NetSalary)
		m.structureRepo.AssertNotCalled(t, "FindActiveForTeacher", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("rejects a pinned structure of another teacher", func(t *testing.T) {
		svc, m := newPayrollService(t)
		schoolID, teacherID := uuid.New(), uuid.New()
		foreign := testSalaryStructure(t, schoolID, uuid.New(), 26000)

		m.salaryRepo.On("FindByTeacherAndMonth", ctx, schoolID, teacherID, 4, 2025).Return(nil, shared.ErrNotFound)
		m.structureRepo.On("FindByID", ctx, foreign.ID).Return(foreign, nil)

		_, err := svc.ProcessSalary(ctx, ProcessSalaryRequest{
			SchoolID:    schoolID,
			TeacherID:   teacherID,
			Month:       4,
			Year:        2025,
			WorkingDays: 26,
			StructureID: &foreign.ID,
		})
		require.Error(t, err)
		var derr *shared.DomainError
		require.ErrorAs(t, err, &derr)
		assert.Equal(t, "STRUCTURE_MISMATCH", derr.Code)
	})

	t.Run("present days override bypasses attendance", func(t *testing.T) {
		svc, m := newPayrollService(t)
		schoolID, teacherID := uuid.New(), uuid.New()
		structure := testSalaryStructure(t, schoolID, teacherID, 30000)
		override := decimal.NewFromInt(13)

		m.salaryRepo.On("FindByTeacherAndMonth", ctx, schoolID, teacherID, 4, 2025).Return(nil, shared.ErrNotFound)
		m.structureRepo.On("FindActiveForTeacher", ctx, schoolID, teacherID).Return(structure, nil)
		m.holidayRepo.On("FindActiveInRange", ctx, schoolID, mock.Anything, mock.Anything).Return([]school.Holiday{}, nil)
		m.salaryRepo.On("Save", ctx, mock.AnythingOfType("*payroll.TeacherSalary")).Return(nil)

		ts, err := svc.ProcessSalary(ctx, ProcessSalaryRequest{
			SchoolID:            schoolID,
			TeacherID:           teacherID,
			Month:               4,
			Year:                2025,
			WorkingDays:         26,
			PresentDaysOverride: &override,
		})
		require.NoError(t, err)
		assert.True(t, ts.NetSalary.Equal(decimal.NewFromInt(15000)), "got %s", ts.NetSalary)
		assert.True(t, ts.PresentDays.Equal(override))
		m.attendanceRepo.AssertNotCalled(t, "FindForTeacherInRange",
			mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("rejects a negative present days override", func(t *testing.T) {
		svc, _ := newPayrollService(t)
		override := decimal.NewFromInt(-1)
		_, err := svc.ProcessSalary(ctx, ProcessSalaryRequest{
			SchoolID:            uuid.New(),
			TeacherID:           uuid.New(),
			Month:               4,
			Year:                2025,
			WorkingDays:         26,
			PresentDaysOverride: &override,
		})
		require.Error(t, err)
		var derr *shared.DomainError
		require.ErrorAs(t, err, &derr)
		assert.Equal(t, "INVALID_PRESENT_DAYS", derr.Code)
	})

	t.Run("refuses to process a month twice", func(t *testing.T) {
		svc, m := newPayrollService(t)
		schoolID, teacherID := uuid.New(), uuid.New()
		structure := testSalaryStructure(t, schoolID, teacherID, 30000)
		calc, err := domainpayroll.NewSalaryCalculator(false).Calculate(structure, decimal.NewFromInt(26), 26)
		require.NoError(t, err)
		existing, err := domainpayroll.NewTeacherSalary(schoolID, teacherID, 4, 2025, 26, decimal.NewFromInt(26), calc)
		require.NoError(t, err)

		m.salaryRepo.On("FindByTeacherAndMonth", ctx, schoolID, teacherID, 4, 2025).Return(existing, nil)

		_, err = svc.ProcessSalary(ctx, ProcessSalaryRequest{
			SchoolID:    schoolID,
			TeacherID:   teacherID,
			Month:       4,
			Year:        2025,
			WorkingDays: 26,
		})
		require.Error(t, err)
		var derr *shared.DomainError
		require.ErrorAs(t, err, &derr)
		assert.Equal(t, "ALREADY_PROCESSED", derr.Code)
	})

	t.Run("rejects an invalid month", func(t *testing.T) {
		svc, _ := newPayrollService(t)
		_, err := svc.ProcessSalary(ctx, ProcessSalaryRequest{SchoolID: uuid.New(), TeacherID: uuid.New(), Month: 13, Year: 2025})
		assert.Error(t, err)
	})
}

func TestPayrollService_RecordSalaryPayment(t *testing.T) {
	ctx := context.Background()

	processed := func(t *testing.T, schoolID, teacherID uuid.UUID) *domainpayroll.TeacherSalary {
		t.Helper()
		structure := testSalaryStructure(t, schoolID, teacherID, 30000)
		calc, err := domainpayroll.NewSalaryCalculator(false).Calculate(structure, decimal.NewFromInt(26), 26)
		require.NoError(t, err)
		ts, err := domainpayroll.NewTeacherSalary(schoolID, teacherID, 4, 2025, 26, decimal.NewFromInt(26), calc)
		require.NoError(t, err)
		return ts
	}

	t.Run("records a disbursement and marks PAID", func(t *testing.T) {
		svc, m := newPayrollService(t)
		schoolID, teacherID := uuid.New(), uuid.New()
		ts := processed(t, schoolID, teacherID)

		m.salaryRepo.On("FindByIDForSchool", ctx, schoolID, ts.ID).Return(ts, nil)
		m.salaryRepo.On("Save", ctx, ts).Return(nil)
		m.payoutRepo.On("Save", ctx, mock.AnythingOfType("*payroll.SalaryPayment")).Return(nil)

		p, err := svc.RecordSalaryPayment(ctx, RecordSalaryPaymentRequest{
			SchoolID:        schoolID,
			TeacherSalaryID: ts.ID,
			Amount:          decimal.NewFromInt(30000),
			Method:          domainpayroll.PayoutBankTransfer,
			Reference:       "NEFT-42",
		})
		require.NoError(t, err)
		assert.Equal(t, ts.ID, p.TeacherSalaryID)
		assert.Equal(t, domainpayroll.SalaryPaid, ts.Status)
	})

	t.Run("rejects payment above remaining", func(t *testing.T) {
		svc, m := newPayrollService(t)
		schoolID, teacherID := uuid.New(), uuid.New()
		ts := processed(t, schoolID, teacherID)
		m.salaryRepo.On("FindByIDForSchool", ctx, schoolID, ts.ID).Return(ts, nil)

		_, err := svc.RecordSalaryPayment(ctx, RecordSalaryPaymentRequest{
			SchoolID:        schoolID,
			TeacherSalaryID: ts.ID,
			Amount:          decimal.NewFromInt(30001),
			Method:          domainpayroll.PayoutCash,
		})
		require.Error(t, err)
		m.payoutRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})
}

func TestPayrollService_CreateSalaryStructure(t *testing.T) {
	ctx := context.Background()
	svc, m := newPayrollService(t)
	schoolID, teacherID := uuid.New(), uuid.New()
	current := testSalaryStructure(t, schoolID, teacherID, 25000)

	m.structureRepo.On("FindActiveForTeacher", ctx, schoolID, teacherID).Return(current, nil)
	m.structureRepo.On("Save", ctx, mock.AnythingOfType("*payroll.SalaryStructure")).Return(nil)

	ss, err := svc.CreateSalaryStructure(ctx, CreateSalaryStructureRequest{
		SchoolID:      schoolID,
		TeacherID:     teacherID,
		BasicSalary:   decimal.NewFromInt(30000),
		EffectiveFrom: time.Now(),
	})
	require.NoError(t, err)
	assert.True(t, ss.IsActive)
	assert.False(t, current.IsActive)
	m.structureRepo.AssertNumberOfCalls(t, "Save", 2)
}
