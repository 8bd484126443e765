package background

import (
	"context"
	"errors"
	"testing"
	"time"

	"rentalhub/internal/repositories"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockSweeper struct {
	mock.Mock
}

func (m *MockSweeper) CompleteEnded(ctx context.Context, now time.Time) (*repositories.SweepResult, error) {
	args := m.Called(ctx, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repositories.SweepResult), args.Error(1)
}

func TestNewJobScheduler_RejectsNonPositiveInterval(t *testing.T) {
	_, err := NewJobScheduler(new(MockSweeper), 0)
	assert.Error(t, err)
}

func TestRunSweep_PassesCurrentTimeInUTC(t *testing.T) {
	sweeper := new(MockSweeper)
	js, err := NewJobScheduler(sweeper, time.Hour)
	require.NoError(t, err)
	defer js.Stop()

	fixed := time.Date(2025, 2, 10, 3, 0, 0, 0, time.FixedZone("UTC+2", 2*60*60))
	js.now = func() time.Time { return fixed }

	sweeper.On("CompleteEnded", mock.Anything, fixed.UTC()).Return(&repositories.SweepResult{
		Completed: []uuid.UUID{uuid.New(), uuid.New()},
		Released:  []uuid.UUID{uuid.New()},
	}, nil)

	require.NoError(t, js.RunSweep(context.Background()))
	sweeper.AssertExpectations(t)
	assert.Equal(t, []string{sweepJobName}, js.JobNames())
}

func TestRunSweep_ReturnsStoreError(t *testing.T) {
	sweeper := new(MockSweeper)
	js, err := NewJobScheduler(sweeper, time.Hour)
	require.NoError(t, err)
	defer js.Stop()

	storeErr := errors.New("connection reset")
	sweeper.On("CompleteEnded", mock.Anything, mock.Anything).Return(nil, storeErr)

	assert.ErrorIs(t, js.RunSweep(context.Background()), storeErr)
}

func TestScheduler_SweepsOnStart(t *testing.T) {
	sweeper := new(MockSweeper)
	called := make(chan struct{}, 1)
	sweeper.On("CompleteEnded", mock.Anything, mock.Anything).
		Run(func(mock.Arguments) {
			select {
			case called <- struct{}{}:
			default:
			}
		}).
		Return(&repositories.SweepResult{}, nil)

	js, err := NewJobScheduler(sweeper, time.Hour)
	require.NoError(t, err)
	js.Start()
	defer js.Stop()

	select {
	case <-called:
	case <-time.After(5 * time.Second):
		t.Fatal("sweep did not run after start")
	}
}
