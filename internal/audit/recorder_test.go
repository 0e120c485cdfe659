package audit_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/identity-service/internal/audit"
	"github.com/spec-kit/identity-service/internal/config"
	"github.com/spec-kit/identity-service/internal/domain"
)

type memorySink struct {
	mu      sync.Mutex
	name    string
	records []domain.AttemptRecord
	err     error
	block   chan struct{}
}

func (s *memorySink) Name() string { return s.name }

func (s *memorySink) Write(_ context.Context, attempt domain.AttemptRecord) error {
	if s.block != nil {
		<-s.block
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.records = append(s.records, attempt)
	return nil
}

func (s *memorySink) Records() []domain.AttemptRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.AttemptRecord{}, s.records...)
}

func attempt(id string) domain.AttemptRecord {
	return domain.AttemptRecord{
		ID:        id,
		UserID:    "SC001",
		UserType:  domain.PrincipalStaff,
		Action:    domain.AttemptActionLogin,
		Success:   true,
		IPAddress: "10.0.0.1",
		UserAgent: "test",
		Timestamp: time.Now(),
	}
}

func TestAsyncRecorderDeliversToAllSinks(t *testing.T) {
	primary := &memorySink{name: "primary"}
	secondary := &memorySink{name: "secondary"}
	recorder := audit.NewAsyncRecorder(
		config.AuditConfig{QueueSize: 8, Workers: 1, WriteTimeoutSeconds: 1},
		[]audit.Sink{primary, secondary},
		zap.NewNop(), nil,
	)

	recorder.Record(attempt("a1"))
	recorder.Record(attempt("a2"))
	recorder.Close()

	require.Len(t, primary.Records(), 2)
	require.Len(t, secondary.Records(), 2)
	assert.Equal(t, "a1", primary.Records()[0].ID)
}

func TestAsyncRecorderSinkFailureDoesNotStopOthers(t *testing.T) {
	failing := &memorySink{name: "failing", err: errors.New("down")}
	healthy := &memorySink{name: "healthy"}
	recorder := audit.NewAsyncRecorder(
		config.AuditConfig{QueueSize: 8, Workers: 1, WriteTimeoutSeconds: 1},
		[]audit.Sink{failing, healthy},
		zap.NewNop(), nil,
	)

	recorder.Record(attempt("a1"))
	recorder.Close()

	require.Len(t, healthy.Records(), 1)
}

func TestAsyncRecorderDropsWhenQueueFull(t *testing.T) {
	block := make(chan struct{})
	slow := &memorySink{name: "slow", block: block}
	recorder := audit.NewAsyncRecorder(
		config.AuditConfig{QueueSize: 1, Workers: 1, WriteTimeoutSeconds: 1},
		[]audit.Sink{slow},
		zap.NewNop(), nil,
	)

	// First record occupies the worker, second fills the queue, the
	// rest must be dropped without blocking the caller.
	done := make(chan struct{})
	go func() {
		for i := 0; i < 10; i++ {
			recorder.Record(attempt("a"))
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Record blocked on a full queue")
	}

	close(block)
	recorder.Close()
	assert.LessOrEqual(t, len(slow.Records()), 3)
}

func TestAsyncRecorderRecordAfterClose(t *testing.T) {
	sink := &memorySink{name: "primary"}
	recorder := audit.NewAsyncRecorder(
		config.AuditConfig{QueueSize: 4, Workers: 1, WriteTimeoutSeconds: 1},
		[]audit.Sink{sink},
		zap.NewNop(), nil,
	)

	recorder.Record(attempt("a1"))
	recorder.Close()

	// Late records during shutdown are dropped, never a panic.
	assert.NotPanics(t, func() {
		recorder.Record(attempt("late"))
		recorder.Record(attempt("late"))
	})
	recorder.Close()

	require.Len(t, sink.Records(), 1)
	assert.Equal(t, "a1", sink.Records()[0].ID)
}
