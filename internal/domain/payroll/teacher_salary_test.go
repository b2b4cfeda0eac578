package payroll

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/schoolerp/backend/internal/domain/shared"
	"github.com/schoolerp/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func processedSalary(t *testing.T, basic int64, presentDays, workingDays int) *TeacherSalary {
	t.Helper()
	ss := structure(t, basic)
	calc, err := NewSalaryCalculator(false).Calculate(ss, decimal.NewFromInt(int64(presentDays)), workingDays)
	require.NoError(t, err)
	ts, err := NewTeacherSalary(ss.SchoolID, ss.TeacherID, 4, 2025, workingDays, decimal.NewFromInt(int64(presentDays)), calc)
	require.NoError(t, err)
	return ts
}

func assertCode(t *testing.T, err error, code string) {
	t.Helper()
	var derr *shared.DomainError
	require.ErrorAs(t, err, &derr)
	assert.Equal(t, code, derr.Code)
}

func TestNewTeacherSalary(t *testing.T) {
	t.Run("freezes the calculation", func(t *testing.T) {
		ts := processedSalary(t, 30000, 13, 26)
		assert.Equal(t, SalaryProcessed, ts.Status)
		assert.True(t, ts.NetSalary.Equal(decimal.NewFromInt(15000)))
		require.Len(t, ts.Details, 1)
		assert.Equal(t, "Basic", ts.Details[0].ComponentName)
		assert.Equal(t, ts.ID, ts.Details[0].TeacherSalaryID)
	})

	t.Run("rejects invalid month", func(t *testing.T) {
		ss := structure(t, 30000)
		calc, err := NewSalaryCalculator(false).Calculate(ss, decimal.NewFromInt(26), 26)
		require.NoError(t, err)
		_, err = NewTeacherSalary(ss.SchoolID, ss.TeacherID, 13, 2025, 26, decimal.NewFromInt(26), calc)
		assert.Error(t, err)
	})
}

func TestTeacherSalary_ApplyPayment(t *testing.T) {
	t.Run("partial then final payment marks PAID", func(t *testing.T) {
		ts := processedSalary(t, 30000, 26, 26)

		require.NoError(t, ts.ApplyPayment(valueobject.NewMoneyINRFromFloat(10000)))
		assert.Equal(t, SalaryProcessed, ts.Status)
		assert.True(t, ts.Remaining().Equal(decimal.NewFromInt(20000)))

		require.NoError(t, ts.ApplyPayment(valueobject.NewMoneyINRFromFloat(20000)))
		assert.Equal(t, SalaryPaid, ts.Status)
		assert.True(t, ts.Remaining().IsZero())
	})

	t.Run("rejects payment above remaining", func(t *testing.T) {
		ts := processedSalary(t, 30000, 13, 26)
		err := ts.ApplyPayment(valueobject.NewMoneyINRFromFloat(15001))
		assertCode(t, err, "EXCEEDS_REMAINING")
	})

	t.Run("rejects payment once fully paid", func(t *testing.T) {
		ts := processedSalary(t, 30000, 26, 26)
		require.NoError(t, ts.ApplyPayment(valueobject.NewMoneyINRFromFloat(30000)))
		err := ts.ApplyPayment(valueobject.NewMoneyINRFromFloat(1))
		assertCode(t, err, "ALREADY_PAID")
	})

	t.Run("rejects non-positive amount", func(t *testing.T) {
		ts := processedSalary(t, 30000, 26, 26)
		assert.Error(t, ts.ApplyPayment(valueobject.ZeroINR()))
	})
}

func TestNewSalaryPayment(t *testing.T) {
	ts := processedSalary(t, 30000, 26, 26)

	t.Run("records a disbursement", func(t *testing.T) {
		p, err := NewSalaryPayment(ts.SchoolID, ts, valueobject.NewMoneyINRFromFloat(30000), PayoutBankTransfer, time.Now(), "NEFT-123")
		require.NoError(t, err)
		assert.Equal(t, ts.ID, p.TeacherSalaryID)
		assert.Equal(t, ts.TeacherID, p.TeacherID)
	})

	t.Run("rejects a school mismatch", func(t *testing.T) {
		_, err := NewSalaryPayment(uuid.New(), ts, valueobject.NewMoneyINRFromFloat(100), PayoutCash, time.Now(), "")
		assert.ErrorIs(t, err, shared.ErrSchoolMismatch)
	})

	t.Run("rejects invalid method", func(t *testing.T) {
		_, err := NewSalaryPayment(ts.SchoolID, ts, valueobject.NewMoneyINRFromFloat(100), PayoutMethod("GOLD"), time.Now(), "")
		assert.Error(t, err)
	})
}
