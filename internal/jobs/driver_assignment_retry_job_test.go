package jobs_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"marketplace/internal/core/application/usecases/commands"
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/services"
	"marketplace/internal/core/ports"
	"marketplace/internal/jobs"
	"marketplace/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockBacklogReader struct{ mock.Mock }

func (m *MockBacklogReader) Due(ctx context.Context, now time.Time, limit int) ([]ports.AssignmentBacklogEntry, error) {
	args := m.Called(ctx, now, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]ports.AssignmentBacklogEntry), args.Error(1)
}

type MockAssignDriverHandler struct{ mock.Mock }

func (m *MockAssignDriverHandler) Handle(ctx context.Context, cmd commands.AssignDriverCommand) (commands.AssignDriverResult, error) {
	args := m.Called(ctx, cmd)
	return args.Get(0).(commands.AssignDriverResult), args.Error(1)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func forOrder(orderID kernel.UUID, attempt int) any {
	return mock.MatchedBy(func(cmd commands.AssignDriverCommand) bool {
		return cmd.OrderID() == orderID && cmd.Attempt() == attempt
	})
}

func TestDriverAssignmentRetryJob_RunOnce(t *testing.T) {
	first, second, third := kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID()
	backlog := &MockBacklogReader{}
	backlog.On("Due", mock.Anything, mock.Anything, 25).Return([]ports.AssignmentBacklogEntry{
		{OrderID: first, Attempts: 1},
		{OrderID: second, Attempts: 3},
		{OrderID: third, Attempts: 2},
	}, nil)

	handler := &MockAssignDriverHandler{}
	handler.On("Handle", mock.Anything, forOrder(first, 1)).
		Return(commands.AssignDriverResult{Outcome: services.AssignmentOutcome{Assigned: true, DriverID: kernel.NewUUID()}}, nil)
	handler.On("Handle", mock.Anything, forOrder(second, 3)).
		Return(commands.AssignDriverResult{Outcome: services.AssignmentOutcome{Candidates: 0}}, nil)
	handler.On("Handle", mock.Anything, forOrder(third, 2)).
		Return(commands.AssignDriverResult{}, errs.NewVersionConflictError("order", third, 3))

	job := jobs.NewDriverAssignmentRetryJob(backlog, handler, "", 25, discardLogger())

	assigned := job.RunOnce(t.Context())

	assert.Equal(t, 1, assigned)
	handler.AssertNumberOfCalls(t, "Handle", 3)
	backlog.AssertExpectations(t)
}

func TestDriverAssignmentRetryJob_RunOnce_BacklogReadFails(t *testing.T) {
	backlog := &MockBacklogReader{}
	backlog.On("Due", mock.Anything, mock.Anything, jobs.DefaultRetryBatch).Return(nil, errors.New("db down"))
	handler := &MockAssignDriverHandler{}

	job := jobs.NewDriverAssignmentRetryJob(backlog, handler, "", 0, discardLogger())

	assert.Equal(t, 0, job.RunOnce(t.Context()))
	handler.AssertNotCalled(t, "Handle", mock.Anything, mock.Anything)
}

func TestDriverAssignmentRetryJob_RunOnce_ContinuesAfterFailure(t *testing.T) {
	first, second := kernel.NewUUID(), kernel.NewUUID()
	backlog := &MockBacklogReader{}
	backlog.On("Due", mock.Anything, mock.Anything, jobs.DefaultRetryBatch).Return([]ports.AssignmentBacklogEntry{
		{OrderID: first, Attempts: 0},
		{OrderID: second, Attempts: 0},
	}, nil)

	handler := &MockAssignDriverHandler{}
	handler.On("Handle", mock.Anything, forOrder(first, 0)).Return(commands.AssignDriverResult{}, errors.New("boom"))
	handler.On("Handle", mock.Anything, forOrder(second, 0)).
		Return(commands.AssignDriverResult{Outcome: services.AssignmentOutcome{Assigned: true}}, nil)

	job := jobs.NewDriverAssignmentRetryJob(backlog, handler, "", 0, discardLogger())

	assert.Equal(t, 1, job.RunOnce(t.Context()))
	handler.AssertExpectations(t)
}

func TestDriverAssignmentRetryJob_StartRejectsBadSchedule(t *testing.T) {
	job := jobs.NewDriverAssignmentRetryJob(&MockBacklogReader{}, &MockAssignDriverHandler{}, "every tuesday", 1, discardLogger())

	require.Error(t, job.Start())
}

type fakeJob struct {
	name     string
	startErr error
	log      *[]string
}

func (j fakeJob) Start() error {
	*j.log = append(*j.log, "start "+j.name)
	return j.startErr
}

func (j fakeJob) Stop() {
	*j.log = append(*j.log, "stop "+j.name)
}

func TestJobManager_StartAndStopOrder(t *testing.T) {
	var log []string
	manager := jobs.NewJobManager(fakeJob{name: "a", log: &log}, fakeJob{name: "b", log: &log})

	require.NoError(t, manager.StartAll())
	manager.StopAll()

	assert.Equal(t, []string{"start a", "start b", "stop b", "stop a"}, log)
}

func TestJobManager_StartFailureStopsStartedJobs(t *testing.T) {
	var log []string
	manager := jobs.NewJobManager(
		fakeJob{name: "a", log: &log},
		fakeJob{name: "b", log: &log, startErr: errors.New("bad schedule")},
	)

	err := manager.StartAll()

	require.ErrorContains(t, err, "bad schedule")
	assert.Equal(t, []string{"start a", "start b", "stop a"}, log)
}
