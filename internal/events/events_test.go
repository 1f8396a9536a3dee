package events_test

import (
	"context"
	"errors"
	"testing"

	"orbio/internal/events"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Publish(ctx context.Context, ev events.Event) error {
	args := m.Called(ctx, ev)
	return args.Error(0)
}

func TestNewFillsEnvelope(t *testing.T) {
	ev := events.New(events.OrderCreated, "order", "o1", map[string]any{"total": 50000})
	assert.NotEmpty(t, ev.ID)
	assert.Equal(t, "order.created", ev.Type)
	assert.Equal(t, "o1", ev.ResourceID)
	assert.False(t, ev.OccurredAt.IsZero())
}

func TestEmitSwallowsPublisherErrors(t *testing.T) {
	pub := new(MockPublisher)
	pub.On("Publish", mock.Anything, mock.MatchedBy(func(ev events.Event) bool {
		return ev.Type == events.InquiryCreated
	})).Return(errors.New("broker down")).Once()

	assert.NotPanics(t, func() {
		events.Emit(context.Background(), pub, zap.NewNop(), events.New(events.InquiryCreated, "inquiry", "i1", nil))
	})
	pub.AssertExpectations(t)
}

func TestEmitWithNilPublisher(t *testing.T) {
	assert.NotPanics(t, func() {
		events.Emit(context.Background(), nil, nil, events.New(events.OrderCreated, "order", "o1", nil))
	})
	assert.NoError(t, events.Nop{}.Publish(context.Background(), events.Event{}))
}
