package fees

import (
	"testing"

	"github.com/google/uuid"
	"github.com/schoolerp/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func assertDomainCode(t *testing.T, err error, code string) {
	t.Helper()
	var derr *shared.DomainError
	require.ErrorAs(t, err, &derr)
	assert.Equal(t, code, derr.Code)
}

func mustDiscount(t *testing.T, name string, dt DiscountType, value float64) FeeDiscount {
	t.Helper()
	d, err := NewFeeDiscount(uuid.New(), uuid.New(), uuid.New(), name, dt, decimal.NewFromFloat(value))
	require.NoError(t, err)
	return *d
}

func TestNewFeeDiscount(t *testing.T) {
	schoolID := uuid.New()
	studentID := uuid.New()
	yearID := uuid.New()

	t.Run("creates percentage discount bound to student and year", func(t *testing.T) {
		d, err := NewFeeDiscount(schoolID, studentID, yearID, "Sibling", DiscountPercentage, decimal.NewFromInt(10))
		require.NoError(t, err)
		assert.True(t, d.IsActive)
		assert.Equal(t, DiscountPercentage, d.Type)
		assert.Equal(t, studentID, d.StudentID)
		assert.Equal(t, yearID, d.AcademicYearID)
		assert.Nil(t, d.FeeCategoryID)
	})

	t.Run("rejects empty student", func(t *testing.T) {
		_, err := NewFeeDiscount(schoolID, uuid.Nil, yearID, "Bad", DiscountFixed, decimal.NewFromInt(5))
		assertDomainCode(t, err, "INVALID_STUDENT")
	})

	t.Run("rejects empty academic year", func(t *testing.T) {
		_, err := NewFeeDiscount(schoolID, studentID, uuid.Nil, "Bad", DiscountFixed, decimal.NewFromInt(5))
		assertDomainCode(t, err, "INVALID_ACADEMIC_YEAR")
	})

	t.Run("rejects percentage over 100", func(t *testing.T) {
		_, err := NewFeeDiscount(schoolID, studentID, yearID, "Bad", DiscountPercentage, decimal.NewFromInt(110))
		assert.Error(t, err)
	})

	t.Run("rejects negative value", func(t *testing.T) {
		_, err := NewFeeDiscount(schoolID, studentID, yearID, "Bad", DiscountFixed, decimal.NewFromInt(-5))
		assert.Error(t, err)
	})

	t.Run("rejects unknown type", func(t *testing.T) {
		_, err := NewFeeDiscount(schoolID, studentID, yearID, "Bad", DiscountType("HALF"), decimal.NewFromInt(1))
		assert.Error(t, err)
	})

	t.Run("scopes to a category", func(t *testing.T) {
		d, err := NewFeeDiscount(schoolID, studentID, yearID, "Transport waiver", DiscountPercentage, decimal.NewFromInt(100))
		require.NoError(t, err)
		categoryID := uuid.New()
		require.NoError(t, d.ScopeToCategory(categoryID))
		require.NotNil(t, d.FeeCategoryID)
		assert.Equal(t, categoryID, *d.FeeCategoryID)

		assert.Error(t, d.ScopeToCategory(uuid.Nil))
	})
}

func TestResolveDiscount(t *testing.T) {
	t.Run("percentage and fixed stack additively", func(t *testing.T) {
		discounts := []FeeDiscount{
			mustDiscount(t, "Sibling", DiscountPercentage, 10),
			mustDiscount(t, "Staff ward", DiscountFixed, 500),
		}
		net, err := ResolveDiscount(decimal.NewFromInt(10000), discounts, false)
		require.NoError(t, err)
		assert.True(t, net.Equal(decimal.NewFromInt(8500)), "got %s", net)
	})

	t.Run("percentages apply to the original base", func(t *testing.T) {
		discounts := []FeeDiscount{
			mustDiscount(t, "A", DiscountPercentage, 10),
			mustDiscount(t, "B", DiscountPercentage, 20),
		}
		net, err := ResolveDiscount(decimal.NewFromInt(1000), discounts, false)
		require.NoError(t, err)
		assert.True(t, net.Equal(decimal.NewFromInt(700)), "got %s", net)
	})

	t.Run("no discounts returns the base", func(t *testing.T) {
		net, err := ResolveDiscount(decimal.NewFromInt(2500), nil, false)
		require.NoError(t, err)
		assert.True(t, net.Equal(decimal.NewFromInt(2500)))
	})

	t.Run("over-discount goes negative without clamp", func(t *testing.T) {
		discounts := []FeeDiscount{mustDiscount(t, "Full", DiscountFixed, 1500)}
		net, err := ResolveDiscount(decimal.NewFromInt(1000), discounts, false)
		require.NoError(t, err)
		assert.True(t, net.Equal(decimal.NewFromInt(-500)), "got %s", net)
	})

	t.Run("over-discount clamps to zero when enabled", func(t *testing.T) {
		discounts := []FeeDiscount{mustDiscount(t, "Full", DiscountFixed, 1500)}
		net, err := ResolveDiscount(decimal.NewFromInt(1000), discounts, true)
		require.NoError(t, err)
		assert.True(t, net.IsZero())
	})

	t.Run("rejects negative base", func(t *testing.T) {
		_, err := ResolveDiscount(decimal.NewFromInt(-1), nil, false)
		assert.Error(t, err)
	})
}
