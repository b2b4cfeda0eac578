package fees

import "github.com/schoolerp/backend/internal/domain/shared"

const (
	EventStudentFeeAssigned = "fees.student_fee.assigned"
	EventFeePaymentRecorded = "fees.payment.recorded"
	EventStudentFeeWaived   = "fees.student_fee.waived"
	AggregateTypeStudentFee = "StudentFee"
	AggregateTypeFeePayment = "FeePayment"
)

// StudentFeeAssignedEvent is raised when a fee structure is assigned to a student
type StudentFeeAssignedEvent struct {
	shared.BaseDomainEvent
	StudentFee *StudentFee `json:"student_fee"`
}

// NewStudentFeeAssignedEvent creates a new fee assignment event
func NewStudentFeeAssignedEvent(sf *StudentFee) *StudentFeeAssignedEvent {
	return &StudentFeeAssignedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventStudentFeeAssigned, AggregateTypeStudentFee, sf.ID, sf.SchoolID),
		StudentFee:      sf,
	}
}

// StudentFeeWaivedEvent is raised when the remaining balance is written off
type StudentFeeWaivedEvent struct {
	shared.BaseDomainEvent
	StudentFee *StudentFee `json:"student_fee"`
	Reason     string      `json:"reason"`
}

// NewStudentFeeWaivedEvent creates a new fee waived event
func NewStudentFeeWaivedEvent(sf *StudentFee, reason string) *StudentFeeWaivedEvent {
	return &StudentFeeWaivedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventStudentFeeWaived, AggregateTypeStudentFee, sf.ID, sf.SchoolID),
		StudentFee:      sf,
		Reason:          reason,
	}
}

// FeePaymentRecordedEvent is raised when a payment is recorded
type FeePaymentRecordedEvent struct {
	shared.BaseDomainEvent
	Payment *FeePayment `json:"payment"`
}

// NewFeePaymentRecordedEvent creates a new payment recorded event
func NewFeePaymentRecordedEvent(p *FeePayment) *FeePaymentRecordedEvent {
	return &FeePaymentRecordedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventFeePaymentRecorded, AggregateTypeFeePayment, p.ID, p.SchoolID),
		Payment:         p,
	}
}
