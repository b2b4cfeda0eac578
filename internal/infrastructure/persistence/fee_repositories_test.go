package persistence

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/schoolerp/backend/internal/domain/fees"
	"github.com/schoolerp/backend/internal/domain/shared"
	"github.com/schoolerp/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStudentFee(t *testing.T, schoolID uuid.UUID, months int) *fees.StudentFee {
	t.Helper()
	sf, err := fees.NewStudentFee(schoolID, uuid.New(), uuid.New(), uuid.New())
	require.NoError(t, err)
	start := time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, months-1, 0)
	require.NoError(t, sf.GenerateSchedule(start, end, decimal.NewFromInt(1000), nil, 10, false))
	return sf
}

func TestGormStudentFeeRepository_SaveAndFind(t *testing.T) {
	db := newTestDB(t)
	repo := NewGormStudentFeeRepository(db)
	ctx := context.Background()
	schoolID := uuid.New()

	sf := newTestStudentFee(t, schoolID, 3)
	require.NoError(t, repo.Save(ctx, sf))

	loaded, err := repo.FindByIDForSchool(ctx, schoolID, sf.ID)
	require.NoError(t, err)
	assert.Len(t, loaded.Details, 3)
	assert.True(t, loaded.TotalAmount.Equal(decimal.NewFromInt(3000)))
	assert.Equal(t, fees.StudentFeePending, loaded.Status)
	// Details come back in schedule order
	assert.Equal(t, 4, loaded.Details[0].Month)
	assert.Equal(t, 6, loaded.Details[2].Month)

	byStudent, err := repo.FindByStudentAndYear(ctx, schoolID, sf.StudentID, sf.AcademicYearID)
	require.NoError(t, err)
	assert.Equal(t, sf.ID, byStudent.ID)

	_, err = repo.FindByIDForSchool(ctx, uuid.New(), sf.ID)
	assert.True(t, errors.Is(err, shared.ErrNotFound))
}

func TestGormStudentFeeRepository_SavePersistsPaymentState(t *testing.T) {
	db := newTestDB(t)
	repo := NewGormStudentFeeRepository(db)
	ctx := context.Background()
	schoolID := uuid.New()

	sf := newTestStudentFee(t, schoolID, 2)
	require.NoError(t, repo.Save(ctx, sf))

	amount := valueobject.NewMoneyINR(decimal.NewFromInt(400))
	require.NoError(t, sf.ApplyPayment(sf.Details[0].ID, amount))
	require.NoError(t, repo.Save(ctx, sf))

	loaded, err := repo.FindByID(ctx, sf.ID)
	require.NoError(t, err)
	assert.True(t, loaded.PaidAmount.Equal(decimal.NewFromInt(400)))
	assert.Equal(t, fees.StudentFeePartial, loaded.Status)
	assert.Equal(t, fees.DetailPartial, loaded.Details[0].Status)
	assert.Equal(t, fees.DetailPending, loaded.Details[1].Status)
}

func TestGormStudentFeeRepository_FindWithOverdueDetails(t *testing.T) {
	db := newTestDB(t)
	repo := NewGormStudentFeeRepository(db)
	ctx := context.Background()
	schoolID := uuid.New()

	overdue := newTestStudentFee(t, schoolID, 2)
	require.NoError(t, repo.Save(ctx, overdue))

	otherSchool := newTestStudentFee(t, uuid.New(), 2)
	require.NoError(t, repo.Save(ctx, otherSchool))

	asOf := time.Date(2025, 5, 15, 0, 0, 0, 0, time.UTC)
	found, err := repo.FindWithOverdueDetails(ctx, schoolID, asOf, shared.DefaultFilter())
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, overdue.ID, found[0].ID)

	// Nothing is overdue before the first due date
	early := time.Date(2025, 4, 5, 0, 0, 0, 0, time.UTC)
	found, err = repo.FindWithOverdueDetails(ctx, schoolID, early, shared.DefaultFilter())
	require.NoError(t, err)
	assert.Empty(t, found)
}

func TestGormFeeStructureRepository_SaveAndFindByClassAndYear(t *testing.T) {
	db := newTestDB(t)
	repo := NewGormFeeStructureRepository(db)
	ctx := context.Background()
	schoolID := uuid.New()

	fs, err := fees.NewFeeStructure(schoolID, "Class 5 2025-26", uuid.New(), uuid.New(), 10, []fees.FeeStructureItem{
		{CategoryID: uuid.New(), CategoryName: "Tuition", Amount: decimal.NewFromInt(2500), Frequency: fees.FrequencyMonthly},
		{CategoryID: uuid.New(), CategoryName: "Admission", Amount: decimal.NewFromInt(5000), Frequency: fees.FrequencyOneTime},
	})
	require.NoError(t, err)
	require.NoError(t, fs.SetLateFeePolicy(decimal.NewFromInt(2), decimal.NewFromInt(50), 5))
	require.NoError(t, repo.Save(ctx, fs))

	loaded, err := repo.FindByClassAndYear(ctx, schoolID, fs.ClassID, fs.AcademicYearID)
	require.NoError(t, err)
	assert.Len(t, loaded.Items, 2)
	assert.True(t, loaded.TotalAmount.Equal(decimal.NewFromInt(7500)))
	assert.True(t, loaded.MonthlyTotal().Equal(decimal.NewFromInt(2500)))
	assert.True(t, loaded.LateFeePercent.Equal(decimal.NewFromInt(2)))
	assert.Equal(t, 5, loaded.GracePeriodDays)
}

func TestGormFeeDiscountRepository_FindActiveForStudentAndYear(t *testing.T) {
	db := newTestDB(t)
	repo := NewGormFeeDiscountRepository(db)
	ctx := context.Background()
	schoolID := uuid.New()
	studentID := uuid.New()
	yearID := uuid.New()

	sibling, err := fees.NewFeeDiscount(schoolID, studentID, yearID, "Sibling", fees.DiscountPercentage, decimal.NewFromInt(10))
	require.NoError(t, err)
	staff, err := fees.NewFeeDiscount(schoolID, studentID, yearID, "Staff ward", fees.DiscountFixed, decimal.NewFromInt(500))
	require.NoError(t, err)
	require.NoError(t, staff.ScopeToCategory(uuid.New()))
	otherStudent, err := fees.NewFeeDiscount(schoolID, uuid.New(), yearID, "Merit", fees.DiscountPercentage, decimal.NewFromInt(5))
	require.NoError(t, err)
	retired, err := fees.NewFeeDiscount(schoolID, studentID, yearID, "Retired", fees.DiscountFixed, decimal.NewFromInt(100))
	require.NoError(t, err)
	retired.Deactivate()
	for _, d := range []*fees.FeeDiscount{sibling, staff, otherStudent, retired} {
		require.NoError(t, repo.Save(ctx, d))
	}

	found, err := repo.FindActiveForStudentAndYear(ctx, schoolID, studentID, yearID)
	require.NoError(t, err)
	require.Len(t, found, 2)
	assert.Equal(t, "Sibling", found[0].Name)
	assert.Equal(t, "Staff ward", found[1].Name)
	require.NotNil(t, found[1].FeeCategoryID)
	assert.Equal(t, *staff.FeeCategoryID, *found[1].FeeCategoryID)

	// Discounts of another school never leak
	found, err = repo.FindActiveForStudentAndYear(ctx, uuid.New(), studentID, yearID)
	require.NoError(t, err)
	assert.Empty(t, found)
}

func TestGormFeePaymentRepository_ReceiptLookupAndSequence(t *testing.T) {
	db := newTestDB(t)
	repo := NewGormFeePaymentRepository(db)
	ctx := context.Background()
	schoolID := uuid.New()
	paymentDate := time.Date(2025, 4, 12, 0, 0, 0, 0, time.UTC)

	seq, err := repo.NextReceiptSequence(ctx, schoolID, 2025, time.April)
	require.NoError(t, err)
	assert.Equal(t, 1, seq)

	amount := valueobject.NewMoneyINR(decimal.NewFromInt(1000))
	receipt := fees.FormatReceiptNumber("DPS", paymentDate, seq)
	detailID := uuid.New()
	payment, err := fees.NewFeePayment(schoolID, uuid.New(), detailID, uuid.New(), amount, fees.MethodCash, receipt, paymentDate)
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, payment))

	loaded, err := repo.FindByReceiptNumber(ctx, schoolID, "DPS-202504-00001")
	require.NoError(t, err)
	assert.True(t, loaded.Amount.Equal(decimal.NewFromInt(1000)))
	assert.Equal(t, detailID, loaded.DetailID)

	seq, err = repo.NextReceiptSequence(ctx, schoolID, 2025, time.April)
	require.NoError(t, err)
	assert.Equal(t, 2, seq)

	// Another month starts its own sequence
	seq, err = repo.NextReceiptSequence(ctx, schoolID, 2025, time.May)
	require.NoError(t, err)
	assert.Equal(t, 1, seq)
}

func TestGormFeePaymentRepository_DuplicateReceiptNumber(t *testing.T) {
	db := newTestDB(t)
	repo := NewGormFeePaymentRepository(db)
	ctx := context.Background()
	schoolID := uuid.New()
	paymentDate := time.Date(2025, 4, 12, 0, 0, 0, 0, time.UTC)
	amount := valueobject.NewMoneyINR(decimal.NewFromInt(1000))

	first, err := fees.NewFeePayment(schoolID, uuid.New(), uuid.New(), uuid.New(), amount, fees.MethodCash, "DPS-202504-00009", paymentDate)
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, first))

	second, err := fees.NewFeePayment(schoolID, uuid.New(), uuid.New(), uuid.New(), amount, fees.MethodCash, "DPS-202504-00009", paymentDate)
	require.NoError(t, err)
	err = repo.Save(ctx, second)
	assert.True(t, errors.Is(err, shared.ErrAlreadyExists))
}

func TestGormTransactionManager_RollsBackOnError(t *testing.T) {
	db := newTestDB(t)
	tm := NewGormTransactionManager(db)
	repo := NewGormStudentFeeRepository(db)
	ctx := context.Background()
	schoolID := uuid.New()

	sf := newTestStudentFee(t, schoolID, 1)
	err := tm.WithinTransaction(ctx, func(txCtx context.Context) error {
		if err := repo.Save(txCtx, sf); err != nil {
			return err
		}
		return errors.New("boom")
	})
	require.Error(t, err)

	_, err = repo.FindByID(ctx, sf.ID)
	assert.True(t, errors.Is(err, shared.ErrNotFound))
}

func TestGormTransactionManager_CommitsOnSuccess(t *testing.T) {
	db := newTestDB(t)
	tm := NewGormTransactionManager(db)
	repo := NewGormStudentFeeRepository(db)
	ctx := context.Background()

	sf := newTestStudentFee(t, uuid.New(), 1)
	err := tm.WithinTransaction(ctx, func(txCtx context.Context) error {
		return repo.Save(txCtx, sf)
	})
	require.NoError(t, err)

	loaded, err := repo.FindByID(ctx, sf.ID)
	require.NoError(t, err)
	assert.Equal(t, sf.ID, loaded.ID)
}
