package positionapi

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStart(t *testing.T) {
	s := Start(3)
	assert.Equal(t, PhaseAttempting, s.Phase)
	assert.Equal(t, 1, s.Attempt)
	assert.Equal(t, 3, s.MaxRetries)

	assert.Equal(t, 1, Start(0).MaxRetries)
}

func TestNext_Transitions(t *testing.T) {
	serverErr := &ServerError{Status: 500}
	tests := []struct {
		name      string
		from      State
		result    error
		wantPhase Phase
		wantAttn  int
	}{
		{"success", State{Phase: PhaseAttempting, Attempt: 1, MaxRetries: 3}, nil, PhaseDone, 1},
		{"client error is terminal", State{Phase: PhaseAttempting, Attempt: 1, MaxRetries: 3}, &ClientError{Status: 404}, PhaseFailed, 1},
		{"server error waits", State{Phase: PhaseAttempting, Attempt: 1, MaxRetries: 3}, serverErr, PhaseWaiting, 1},
		{"network error waits", State{Phase: PhaseAttempting, Attempt: 2, MaxRetries: 3}, &NetworkError{Err: errors.New("reset")}, PhaseWaiting, 2},
		{"malformed waits", State{Phase: PhaseAttempting, Attempt: 1, MaxRetries: 3}, &MalformedResponseError{Reason: "object"}, PhaseWaiting, 1},
		{"last attempt exhausts", State{Phase: PhaseAttempting, Attempt: 3, MaxRetries: 3}, serverErr, PhaseFailed, 3},
		{"unknown error is terminal", State{Phase: PhaseAttempting, Attempt: 1, MaxRetries: 3}, context.Canceled, PhaseFailed, 1},
		{"wait elapsed", State{Phase: PhaseWaiting, Attempt: 1, MaxRetries: 3, Err: serverErr}, nil, PhaseAttempting, 2},
		{"wait cancelled", State{Phase: PhaseWaiting, Attempt: 1, MaxRetries: 3}, context.Canceled, PhaseFailed, 1},
		{"done is terminal", State{Phase: PhaseDone, Attempt: 2, MaxRetries: 3}, serverErr, PhaseDone, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Next(tt.from, tt.result)
			assert.Equal(t, tt.wantPhase, got.Phase)
			assert.Equal(t, tt.wantAttn, got.Attempt)
		})
	}
}

func TestNext_ExhaustionWrapsLastError(t *testing.T) {
	last := &MalformedResponseError{Reason: "expected array, got object"}
	got := Next(State{Phase: PhaseAttempting, Attempt: 3, MaxRetries: 3}, last)

	require.Equal(t, PhaseFailed, got.Phase)
	var exhausted *ExhaustedRetriesError
	require.ErrorAs(t, got.Err, &exhausted)
	assert.Equal(t, 3, exhausted.Attempts)

	var malformed *MalformedResponseError
	assert.ErrorAs(t, got.Err, &malformed)
}

func TestNext_FullRetryWalk(t *testing.T) {
	s := Start(3)
	outcomes := []error{&ServerError{Status: 500}, nil, &ServerError{Status: 502}, nil, nil}

	var phases []Phase
	for _, o := range outcomes {
		s = Next(s, o)
		phases = append(phases, s.Phase)
		if s.Terminal() {
			break
		}
	}

	assert.Equal(t, []Phase{PhaseWaiting, PhaseAttempting, PhaseWaiting, PhaseAttempting, PhaseDone}, phases)
	assert.Equal(t, 3, s.Attempt)
}

func TestRetryable(t *testing.T) {
	assert.True(t, Retryable(&ServerError{Status: 503}))
	assert.True(t, Retryable(&NetworkError{Err: errors.New("eof")}))
	assert.True(t, Retryable(&MalformedResponseError{}))
	assert.False(t, Retryable(&ClientError{Status: 400}))
	assert.False(t, Retryable(&ExhaustedRetriesError{Last: &ClientError{Status: 400}}))
	assert.False(t, Retryable(context.Canceled))
}

func TestClientError_Kind(t *testing.T) {
	assert.Equal(t, KindUnauthorized, (&ClientError{Status: 401}).Kind())
	assert.Equal(t, KindUnauthorized, (&ClientError{Status: 403}).Kind())
	assert.Equal(t, KindNotFound, (&ClientError{Status: 404}).Kind())
	assert.Equal(t, KindGeneric, (&ClientError{Status: 429}).Kind())
	assert.Contains(t, (&ClientError{Status: 404}).Error(), "404 Not Found")
}

func TestPhase_String(t *testing.T) {
	assert.Equal(t, "waiting", PhaseWaiting.String())
	assert.Equal(t, "phase(9)", Phase(9).String())
}
