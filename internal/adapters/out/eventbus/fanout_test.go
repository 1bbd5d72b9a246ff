package eventbus_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"marketplace/internal/adapters/out/eventbus"
	"marketplace/internal/core/domain/model/kernel"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockEventPublisher struct{ mock.Mock }

func (m *MockEventPublisher) Publish(ctx context.Context, userID kernel.UUID, eventType string, payload any) error {
	args := m.Called(ctx, userID, eventType, payload)
	return args.Error(0)
}

func TestFanout_Publish_ReachesEverySink(t *testing.T) {
	userID := kernel.NewUUID()
	first := &MockEventPublisher{}
	second := &MockEventPublisher{}
	first.On("Publish", mock.Anything, userID, "order.created", "payload").Return(errors.New("broker down"))
	second.On("Publish", mock.Anything, userID, "order.created", "payload").Return(nil)

	err := eventbus.NewFanout(first, second).Publish(t.Context(), userID, "order.created", "payload")

	require.ErrorContains(t, err, "broker down")
	first.AssertExpectations(t)
	second.AssertExpectations(t)
}

func TestFanout_Publish_NoSinks(t *testing.T) {
	err := eventbus.NewFanout().Publish(t.Context(), kernel.NewUUID(), "order.created", nil)
	require.NoError(t, err)
}

func TestLogPublisher_Publish(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	err := eventbus.NewLogPublisher(logger).Publish(t.Context(), kernel.NewUUID(), "driver.assigned", map[string]string{"order_id": "x"})

	require.NoError(t, err)
	assert.Contains(t, buf.String(), `"event_type":"driver.assigned"`)
	assert.Contains(t, buf.String(), `"component":"event_log"`)
}
