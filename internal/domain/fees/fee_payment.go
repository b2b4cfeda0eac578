package fees

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/schoolerp/backend/internal/domain/shared"
	"github.com/schoolerp/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// PaymentMethod represents how a fee payment was made
type PaymentMethod string

const (
	MethodCash         PaymentMethod = "CASH"
	MethodCard         PaymentMethod = "CARD"
	MethodUPI          PaymentMethod = "UPI"
	MethodBankTransfer PaymentMethod = "BANK_TRANSFER"
	MethodCheque       PaymentMethod = "CHEQUE"
)

// IsValid checks if the payment method is valid
func (m PaymentMethod) IsValid() bool {
	switch m {
	case MethodCash, MethodCard, MethodUPI, MethodBankTransfer, MethodCheque:
		return true
	}
	return false
}

// FeePayment is an immutable record of money received against exactly one
// scheduled month of a student fee. Corrections are made with compensating
// entries, never by editing a payment.
type FeePayment struct {
	shared.SchoolAggregateRoot
	StudentFeeID  uuid.UUID       `json:"student_fee_id"`
	DetailID      uuid.UUID       `json:"detail_id"`
	StudentID     uuid.UUID       `json:"student_id"`
	Amount        decimal.Decimal `json:"amount"`
	Method        PaymentMethod   `json:"method"`
	ReceiptNumber string          `json:"receipt_number"`
	PaymentDate   time.Time       `json:"payment_date"`
	Reference     string          `json:"reference,omitempty"`
	Notes         string          `json:"notes,omitempty"`
}

// NewFeePayment records a payment against one scheduled month. The receipt
// number is generated by the repository inside the payment transaction and
// passed in here.
func NewFeePayment(
	schoolID, studentFeeID, detailID, studentID uuid.UUID,
	amount valueobject.Money,
	method PaymentMethod,
	receiptNumber string,
	paymentDate time.Time,
) (*FeePayment, error) {
	if schoolID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_SCHOOL", "School ID cannot be empty")
	}
	if studentFeeID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_STUDENT_FEE", "Student fee ID cannot be empty")
	}
	if detailID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_DETAIL", "Detail ID cannot be empty")
	}
	if studentID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_STUDENT", "Student ID cannot be empty")
	}
	if !amount.IsPositive() {
		return nil, shared.NewDomainError("INVALID_PAYMENT", "Payment amount must be positive")
	}
	if !method.IsValid() {
		return nil, shared.NewDomainError("INVALID_METHOD", "Payment method is not valid")
	}
	if receiptNumber == "" {
		return nil, shared.NewDomainError("INVALID_RECEIPT", "Receipt number cannot be empty")
	}
	if paymentDate.IsZero() {
		paymentDate = time.Now()
	}

	p := &FeePayment{
		SchoolAggregateRoot: shared.NewSchoolAggregateRoot(schoolID),
		StudentFeeID:        studentFeeID,
		DetailID:            detailID,
		StudentID:           studentID,
		Amount:              amount.Amount(),
		Method:              method,
		ReceiptNumber:       receiptNumber,
		PaymentDate:         paymentDate,
	}
	p.AddDomainEvent(NewFeePaymentRecordedEvent(p))
	return p, nil
}

// FormatReceiptNumber builds a receipt number like "DPS-202504-00042" from
// the school code, the payment month and a per-school per-month sequence.
func FormatReceiptNumber(schoolCode string, paymentDate time.Time, sequence int) string {
	return fmt.Sprintf("%s-%s-%05d", schoolCode, paymentDate.Format("200601"), sequence)
}
