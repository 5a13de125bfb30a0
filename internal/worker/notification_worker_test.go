package worker

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/it-repair-service/internal/line"
)

type recordingSender struct {
	mu     sync.Mutex
	sent   []PushJob
	err    error
	signal chan struct{}
}

func newRecordingSender() *recordingSender {
	return &recordingSender{signal: make(chan struct{}, 16)}
}

func (s *recordingSender) Push(ctx context.Context, to string, messages []line.Message) error {
	s.mu.Lock()
	s.sent = append(s.sent, PushJob{To: to, Messages: messages})
	s.mu.Unlock()
	s.signal <- struct{}{}
	return s.err
}

func (s *recordingSender) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sent)
}

func waitForSignal(t *testing.T, ch chan struct{}) {
	t.Helper()
	select {
	case <-ch:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for delivery")
	}
}

func TestNotificationWorkerDelivers(t *testing.T) {
	sender := newRecordingSender()
	worker := NewNotificationWorker(sender, 4, time.Second, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	worker.Start(ctx)

	require.True(t, worker.Enqueue(PushJob{To: "U1", Messages: []line.Message{line.NewTextMessage("a")}}))
	require.True(t, worker.Enqueue(PushJob{To: "U2", Messages: []line.Message{line.NewTextMessage("b")}}))

	waitForSignal(t, sender.signal)
	waitForSignal(t, sender.signal)

	cancel()
	worker.Stop()

	assert.Equal(t, 2, sender.count())
}

func TestNotificationWorkerSwallowsSendFailures(t *testing.T) {
	sender := newRecordingSender()
	sender.err = errors.New("upstream down")
	worker := NewNotificationWorker(sender, 4, time.Second, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	worker.Start(ctx)

	require.True(t, worker.Enqueue(PushJob{To: "U1"}))
	require.True(t, worker.Enqueue(PushJob{To: "U2"}))

	waitForSignal(t, sender.signal)
	waitForSignal(t, sender.signal)

	cancel()
	worker.Stop()

	assert.Equal(t, 2, sender.count())
}

func TestNotificationWorkerShedsWhenFull(t *testing.T) {
	sender := newRecordingSender()
	worker := NewNotificationWorker(sender, 1, time.Second, zap.NewNop())

	// Worker not started: the queue fills and the second enqueue must shed.
	assert.True(t, worker.Enqueue(PushJob{To: "U1"}))
	assert.False(t, worker.Enqueue(PushJob{To: "U2"}))
}

func TestNotificationWorkerStopsOnCancel(t *testing.T) {
	sender := newRecordingSender()
	worker := NewNotificationWorker(sender, 4, time.Second, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	worker.Start(ctx)
	cancel()
	worker.Stop()
}
