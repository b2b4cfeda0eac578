package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/schoolerp/backend/internal/domain/payroll"
	"github.com/schoolerp/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGormSalaryStructureRepository_ActiveStructure(t *testing.T) {
	db := newTestDB(t)
	repo := NewGormSalaryStructureRepository(db)
	ctx := context.Background()
	schoolID := uuid.New()
	teacherID := uuid.New()

	old, err := payroll.NewSalaryStructure(schoolID, teacherID, decimal.NewFromInt(26000),
		time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC), nil)
	require.NoError(t, err)
	old.Deactivate()
	require.NoError(t, repo.Save(ctx, old))

	current, err := payroll.NewSalaryStructure(schoolID, teacherID, decimal.NewFromInt(30000),
		time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC), []payroll.SalaryStructureItem{
			{ComponentID: uuid.New(), ComponentName: "HRA", Type: payroll.ComponentEarning, IsPercentage: true, Value: decimal.NewFromInt(20)},
			{ComponentID: uuid.New(), ComponentName: "PF", Type: payroll.ComponentDeduction, Value: decimal.NewFromInt(1800)},
		})
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, current))

	active, err := repo.FindActiveForTeacher(ctx, schoolID, teacherID)
	require.NoError(t, err)
	assert.Equal(t, current.ID, active.ID)
	assert.True(t, active.BasicSalary.Equal(decimal.NewFromInt(30000)))
	assert.Len(t, active.Items, 2)
}

func TestGormTeacherAttendanceRepository_UpsertOnTeacherAndDate(t *testing.T) {
	db := newTestDB(t)
	repo := NewGormTeacherAttendanceRepository(db)
	ctx := context.Background()
	schoolID := uuid.New()
	teacherID := uuid.New()
	day := time.Date(2025, 4, 7, 0, 0, 0, 0, time.UTC)

	first, err := payroll.NewTeacherAttendance(schoolID, teacherID, day, payroll.AttendanceAbsent)
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, first))

	// Re-marking the same day replaces the earlier status
	corrected, err := payroll.NewTeacherAttendance(schoolID, teacherID, day, payroll.AttendancePresent)
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, corrected))

	records, err := repo.FindForTeacherInRange(ctx, schoolID, teacherID, day, day)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, payroll.AttendancePresent, records[0].Status)
}

func TestGormTeacherSalaryRepository_SaveAndFindByMonth(t *testing.T) {
	db := newTestDB(t)
	repo := NewGormTeacherSalaryRepository(db)
	ctx := context.Background()
	schoolID := uuid.New()
	teacherID := uuid.New()

	structure, err := payroll.NewSalaryStructure(schoolID, teacherID, decimal.NewFromInt(30000),
		time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC), nil)
	require.NoError(t, err)
	calc, err := payroll.NewSalaryCalculator(false).Calculate(structure, decimal.NewFromInt(26), 26)
	require.NoError(t, err)

	salary, err := payroll.NewTeacherSalary(schoolID, teacherID, 4, 2025, 26, decimal.NewFromInt(26), calc)
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, salary))

	loaded, err := repo.FindByTeacherAndMonth(ctx, schoolID, teacherID, 4, 2025)
	require.NoError(t, err)
	assert.True(t, loaded.NetSalary.Equal(decimal.NewFromInt(30000)))
	assert.Equal(t, payroll.SalaryProcessed, loaded.Status)
	require.Len(t, loaded.Details, 1)
	assert.Equal(t, "Basic", loaded.Details[0].ComponentName)

	byMonth, err := repo.FindByMonth(ctx, schoolID, 4, 2025)
	require.NoError(t, err)
	assert.Len(t, byMonth, 1)
}

func TestGormSalaryPaymentRepository_FindBySalary(t *testing.T) {
	db := newTestDB(t)
	salaryRepo := NewGormTeacherSalaryRepository(db)
	payoutRepo := NewGormSalaryPaymentRepository(db)
	ctx := context.Background()
	schoolID := uuid.New()
	teacherID := uuid.New()

	structure, err := payroll.NewSalaryStructure(schoolID, teacherID, decimal.NewFromInt(20000),
		time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC), nil)
	require.NoError(t, err)
	calc, err := payroll.NewSalaryCalculator(false).Calculate(structure, decimal.NewFromInt(26), 26)
	require.NoError(t, err)
	salary, err := payroll.NewTeacherSalary(schoolID, teacherID, 4, 2025, 26, decimal.NewFromInt(26), calc)
	require.NoError(t, err)
	require.NoError(t, salaryRepo.Save(ctx, salary))

	amount := valueobject.NewMoneyINR(decimal.NewFromInt(20000))
	require.NoError(t, salary.ApplyPayment(amount))
	payment, err := payroll.NewSalaryPayment(schoolID, salary, amount, payroll.PayoutBankTransfer, time.Now(), "NEFT-123")
	require.NoError(t, err)
	require.NoError(t, salaryRepo.Save(ctx, salary))
	require.NoError(t, payoutRepo.Save(ctx, payment))

	payments, err := payoutRepo.FindBySalary(ctx, schoolID, salary.ID)
	require.NoError(t, err)
	require.Len(t, payments, 1)
	assert.Equal(t, "NEFT-123", payments[0].Reference)

	loaded, err := salaryRepo.FindByID(ctx, salary.ID)
	require.NoError(t, err)
	assert.Equal(t, payroll.SalaryPaid, loaded.Status)
}

func TestGormSalaryComponentRepository_ActiveForSchool(t *testing.T) {
	db := newTestDB(t)
	repo := NewGormSalaryComponentRepository(db)
	ctx := context.Background()
	schoolID := uuid.New()

	hra, err := payroll.NewSalaryComponent(schoolID, "HRA", payroll.ComponentEarning, true)
	require.NoError(t, err)
	pf, err := payroll.NewSalaryComponent(schoolID, "PF", payroll.ComponentDeduction, false)
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, hra))
	require.NoError(t, repo.Save(ctx, pf))

	components, err := repo.FindActiveForSchool(ctx, schoolID)
	require.NoError(t, err)
	require.Len(t, components, 2)
	assert.Equal(t, "HRA", components[0].Name)
}
