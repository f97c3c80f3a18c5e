package service

import (
	"context"
	"errors"
	"net/url"
	"testing"
	"time"

	"github.com/flowci/flow-impex/domain"
	"github.com/flowci/flow-impex/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

const (
	handle = domain.JobHandle("http://localhost/status/1")
	token  = "my-token"
)

type fakeSleeper struct {
	waits []time.Duration
}

func (s *fakeSleeper) Sleep(ctx context.Context, d time.Duration) error {
	s.waits = append(s.waits, d)
	return nil
}

func pending() *domain.StatusResponse {
	return &domain.StatusResponse{Status: domain.JobStatusPending}
}

func TestShouldPollUntilCompleted(t *testing.T) {
	assert := assert.New(t)

	client := &mocks.Client{}
	client.On("Status", mock.Anything, handle, token).Return(pending(), nil).Times(3)
	client.On("Status", mock.Anything, handle, token).Return(&domain.StatusResponse{
		Status:  domain.JobStatusCompleted,
		Outputs: &domain.JobOutputs{Files: []domain.FileDescriptor{{File: "http://a"}}},
	}, nil).Once()

	sleeper := &fakeSleeper{}
	poller := NewPoller(client, sleeper, 10, time.Second)

	outputs, err := poller.Poll(context.Background(), handle, token)
	assert.NoError(err)
	assert.Equal([]string{"http://a"}, outputs.FileUrls())

	// then: N+1 calls with linear backoff 1s, 2s, 3s
	client.AssertNumberOfCalls(t, "Status", 4)
	assert.Equal(4, poller.Attempts())
	assert.Equal([]time.Duration{time.Second, 2 * time.Second, 3 * time.Second}, sleeper.waits)
	assert.Equal(StateCompleted, poller.LastState())
}

func TestShouldTreatClosedAsTerminal(t *testing.T) {
	assert := assert.New(t)

	client := &mocks.Client{}
	client.On("Status", mock.Anything, handle, token).Return(&domain.StatusResponse{
		Status:  domain.JobStatusClosed,
		Outputs: &domain.JobOutputs{Services: []string{"a/b"}},
	}, nil).Once()

	sleeper := &fakeSleeper{}
	poller := NewPoller(client, sleeper, 10, time.Second)

	outputs, err := poller.Poll(context.Background(), handle, token)
	assert.NoError(err)
	assert.Equal([]string{"a/b"}, outputs.Services)
	assert.Empty(sleeper.waits)
}

func TestShouldReturnEmptyOutputsWhenRetriesExhausted(t *testing.T) {
	assert := assert.New(t)

	client := &mocks.Client{}
	client.On("Status", mock.Anything, handle, token).Return(&domain.StatusResponse{Status: "Completed"}, nil)

	sleeper := &fakeSleeper{}
	poller := NewPoller(client, sleeper, 5, time.Millisecond)

	outputs, err := poller.Poll(context.Background(), handle, token)
	assert.NoError(err)
	assert.NotNil(outputs)
	assert.True(outputs.IsEmpty())

	client.AssertNumberOfCalls(t, "Status", 5)
	assert.Equal(StateExhausted, poller.LastState())
	assert.Equal([]time.Duration{
		time.Millisecond, 2 * time.Millisecond, 3 * time.Millisecond, 4 * time.Millisecond,
	}, sleeper.waits)
}

func TestShouldFailWhenRetriesExhaustedInStrictMode(t *testing.T) {
	assert := assert.New(t)

	client := &mocks.Client{}
	client.On("Status", mock.Anything, handle, token).Return(pending(), nil)

	poller := NewPoller(client, &fakeSleeper{}, 3, time.Second)
	poller.Strict = true

	outputs, err := poller.Poll(context.Background(), handle, token)
	assert.Nil(outputs)
	assert.True(domain.IsKind(err, domain.ErrUnprocessable))
	client.AssertNumberOfCalls(t, "Status", 3)
}

func TestShouldAbortOnTransportFailure(t *testing.T) {
	assert := assert.New(t)

	client := &mocks.Client{}
	client.On("Status", mock.Anything, handle, token).
		Return(nil, &url.Error{Op: "Get", URL: handle.String(), Err: errors.New("connection refused")})

	sleeper := &fakeSleeper{}
	poller := NewPoller(client, sleeper, 10, time.Second)

	outputs, err := poller.Poll(context.Background(), handle, token)
	assert.Nil(outputs)
	assert.True(domain.IsKind(err, domain.ErrTransport))

	// then: no more attempts after transport failure
	client.AssertNumberOfCalls(t, "Status", 1)
	assert.Empty(sleeper.waits)
	assert.Equal(StateTransportFailed, poller.LastState())
}

func TestShouldAbortOnTransportFailureAfterPending(t *testing.T) {
	assert := assert.New(t)

	client := &mocks.Client{}
	client.On("Status", mock.Anything, handle, token).Return(pending(), nil).Twice()
	client.On("Status", mock.Anything, handle, token).
		Return(nil, domain.NewError("failed to check status", domain.ErrTransport, "EOF")).Once()

	poller := NewPoller(client, &fakeSleeper{}, 10, time.Second)

	_, err := poller.Poll(context.Background(), handle, token)
	assert.True(domain.IsKind(err, domain.ErrTransport))
	client.AssertNumberOfCalls(t, "Status", 3)
}

func TestShouldFailOnServiceError(t *testing.T) {
	assert := assert.New(t)

	client := &mocks.Client{}
	client.On("Status", mock.Anything, handle, token).Return(nil, errors.New("boom")).Once()

	poller := NewPoller(client, &fakeSleeper{}, 10, time.Second)

	_, err := poller.Poll(context.Background(), handle, token)
	assert.True(domain.IsKind(err, domain.ErrServiceUnavailable))
	assert.Equal(StateFailed, poller.LastState())
}

func TestShouldStopPollingWhenContextCancelled(t *testing.T) {
	assert := assert.New(t)

	client := &mocks.Client{}
	client.On("Status", mock.Anything, handle, token).Return(pending(), nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	poller := NewPoller(client, NewSleeper(), 10, time.Hour)

	_, err := poller.Poll(ctx, handle, token)
	assert.True(domain.IsKind(err, domain.ErrServiceUnavailable))
	assert.True(errors.Is(err, context.Canceled))
	client.AssertNumberOfCalls(t, "Status", 1)
}

func TestShouldApplyPollerDefaults(t *testing.T) {
	assert := assert.New(t)

	poller := NewPoller(&mocks.Client{}, nil, 0, 0)
	assert.Equal(DefaultMaxRetries, poller.MaxRetries)
	assert.Equal(DefaultRetryInterval, poller.Interval)
	assert.NotNil(poller.Sleeper)

	_, err := (&Poller{}).Poll(context.Background(), handle, token)
	assert.Equal(ErrorPollerNotReady, err)
}

func TestShouldSleepWithTimer(t *testing.T) {
	assert := assert.New(t)

	sleeper := NewSleeper()
	start := time.Now()
	assert.NoError(sleeper.Sleep(context.Background(), 10*time.Millisecond))
	assert.True(time.Since(start) >= 10*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.Equal(context.Canceled, sleeper.Sleep(ctx, time.Minute))
}
