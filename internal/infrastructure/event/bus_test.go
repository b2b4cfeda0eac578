package event

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/schoolerp/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type recordingHandler struct {
	types    []string
	received []shared.DomainEvent
	fail     bool
}

func (h *recordingHandler) Handle(_ context.Context, evt shared.DomainEvent) error {
	h.received = append(h.received, evt)
	if h.fail {
		return errors.New("handler failed")
	}
	return nil
}

func (h *recordingHandler) EventTypes() []string {
	return h.types
}

func newTestEvent(eventType string) shared.DomainEvent {
	evt := shared.NewBaseDomainEvent(eventType, "StudentFee", uuid.New(), uuid.New())
	return &evt
}

func TestInMemoryEventBus_PublishDispatchesByType(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())
	paymentHandler := &recordingHandler{types: []string{"fees.payment.recorded"}}
	waiveHandler := &recordingHandler{types: []string{"fees.student_fee.waived"}}
	bus.Subscribe(paymentHandler)
	bus.Subscribe(waiveHandler)

	err := bus.Publish(context.Background(), newTestEvent("fees.payment.recorded"))

	require.NoError(t, err)
	require.Len(t, paymentHandler.received, 1)
	assert.Equal(t, "fees.payment.recorded", paymentHandler.received[0].EventType())
	assert.Empty(t, waiveHandler.received)
}

func TestInMemoryEventBus_FailingHandlerDoesNotBlockOthers(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())
	failing := &recordingHandler{types: []string{"fees.payment.recorded"}, fail: true}
	healthy := &recordingHandler{types: []string{"fees.payment.recorded"}}
	bus.Subscribe(failing)
	bus.Subscribe(healthy)

	err := bus.Publish(context.Background(), newTestEvent("fees.payment.recorded"))

	require.NoError(t, err)
	assert.Len(t, failing.received, 1)
	assert.Len(t, healthy.received, 1)
}

func TestInMemoryEventBus_Unsubscribe(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())
	handler := &recordingHandler{types: []string{"fees.student_fee.assigned"}}
	bus.Subscribe(handler)
	bus.Unsubscribe(handler)

	err := bus.Publish(context.Background(), newTestEvent("fees.student_fee.assigned"))

	require.NoError(t, err)
	assert.Empty(t, handler.received)
}
