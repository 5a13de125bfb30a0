package worker

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/it-repair-service/internal/line"
)

// PushJob is one outbound delivery: a recipient plus rendered messages.
type PushJob struct {
	To       string
	Messages []line.Message
}

// Sender delivers messages to the platform.
type Sender interface {
	Push(ctx context.Context, to string, messages []line.Message) error
}

// NotificationWorker drains a bounded queue of push jobs on a single
// goroutine. Delivery is best effort: failures are logged and dropped, and a
// full queue sheds new jobs instead of blocking producers.
type NotificationWorker struct {
	jobs    chan PushJob
	sender  Sender
	timeout time.Duration
	logger  *zap.Logger
	wg      sync.WaitGroup
}

// NewNotificationWorker builds a worker with the given queue capacity and
// per-delivery timeout.
func NewNotificationWorker(sender Sender, queueSize int, timeout time.Duration, logger *zap.Logger) *NotificationWorker {
	if queueSize <= 0 {
		queueSize = 100
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &NotificationWorker{
		jobs:    make(chan PushJob, queueSize),
		sender:  sender,
		timeout: timeout,
		logger:  logger,
	}
}

// Start launches the drain loop. It returns immediately; the loop runs until
// ctx is cancelled.
func (w *NotificationWorker) Start(ctx context.Context) {
	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		for {
			select {
			case <-ctx.Done():
				return
			case job := <-w.jobs:
				w.deliver(job)
			}
		}
	}()
}

// Stop blocks until the drain loop has exited. Call after cancelling the
// context passed to Start.
func (w *NotificationWorker) Stop() {
	w.wg.Wait()
}

// Enqueue offers a job without blocking. Returns false when the queue is full
// and the job was dropped.
func (w *NotificationWorker) Enqueue(job PushJob) bool {
	select {
	case w.jobs <- job:
		return true
	default:
		return false
	}
}

func (w *NotificationWorker) deliver(job PushJob) {
	ctx, cancel := context.WithTimeout(context.Background(), w.timeout)
	defer cancel()

	if err := w.sender.Push(ctx, job.To, job.Messages); err != nil {
		w.logger.Warn("notification push failed",
			zap.String("to", job.To),
			zap.Error(err))
	}
}
