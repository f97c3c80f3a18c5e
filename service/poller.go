package service

import (
	"context"
	"fmt"
	"time"

	"github.com/flowci/flow-impex/api"
	"github.com/flowci/flow-impex/domain"
	"github.com/flowci/flow-impex/util"
)

const (
	StatePending         PollState = "PENDING"
	StateCompleted       PollState = "COMPLETED"
	StateExhausted       PollState = "EXHAUSTED"
	StateTransportFailed PollState = "TRANSPORT_FAILED"
	StateFailed          PollState = "FAILED"
)

const (
	DefaultMaxRetries    = 10
	DefaultRetryInterval = time.Second
)

type (
	PollState string

	// Poller query job status until terminal with linear backoff: the n-th retry waits n * Interval.
	// It's not safe for concurrent use.
	Poller struct {
		Client     api.Client
		Sleeper    Sleeper
		MaxRetries int
		Interval   time.Duration

		// Strict returns UNPROCESSABLE if retries exhausted instead of empty outputs
		Strict bool

		state    PollState
		attempts int
	}
)

func NewPoller(client api.Client, sleeper Sleeper, maxRetries int, interval time.Duration) *Poller {
	if sleeper == nil {
		sleeper = NewSleeper()
	}

	if maxRetries <= 0 {
		maxRetries = DefaultMaxRetries
	}

	if interval <= 0 {
		interval = DefaultRetryInterval
	}

	return &Poller{
		Client:     client,
		Sleeper:    sleeper,
		MaxRetries: maxRetries,
		Interval:   interval,
		state:      StatePending,
	}
}

// LastState returns the final state of last Poll
func (p *Poller) LastState() PollState {
	return p.state
}

// Attempts returns num of status calls made by last Poll
func (p *Poller) Attempts() int {
	return p.attempts
}

// Poll returns outputs of the job once status is 'completed' or 'closed'.
// An empty outputs returned when retries exhausted, the transport failure aborts the loop immediately.
func (p *Poller) Poll(ctx context.Context, handle domain.JobHandle, token string) (*domain.JobOutputs, error) {
	if p.Client == nil || p.Sleeper == nil {
		return nil, ErrorPollerNotReady
	}

	p.state = StatePending
	p.attempts = 0

	retries := 0
	for p.state == StatePending {
		p.attempts++

		status, err := p.Client.Status(ctx, handle, token)
		if err != nil {
			return nil, p.fail(api.Classify(err, "failed to check status"))
		}

		if status.IsTerminal() {
			p.state = StateCompleted
			util.LogDebug("job %s with status '%s' after %d attempt(s)", handle, status.Status, p.attempts)
			return status.GetOutputs(), nil
		}

		retries++
		if retries >= p.MaxRetries {
			p.state = StateExhausted
			break
		}

		util.LogInfo("waiting for job to complete (attempt %d of %d)", retries, p.MaxRetries)

		if err = p.Sleeper.Sleep(ctx, time.Duration(retries)*p.Interval); err != nil {
			return nil, p.fail(domain.NewError("polling interrupted", domain.ErrServiceUnavailable, err))
		}
	}

	util.LogWarn("job %s not completed after %d attempt(s)", handle, p.attempts)

	if p.Strict {
		message := fmt.Sprintf("job not completed after %d attempt(s)", p.attempts)
		return nil, domain.NewError(message, domain.ErrUnprocessable, handle.String())
	}

	return &domain.JobOutputs{}, nil
}

func (p *Poller) fail(err error) error {
	p.state = StateFailed
	if domain.IsKind(err, domain.ErrTransport) {
		p.state = StateTransportFailed
	}
	return err
}
