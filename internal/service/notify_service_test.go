package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/it-repair-service/internal/domain"
	"github.com/spec-kit/it-repair-service/internal/line"
	"github.com/spec-kit/it-repair-service/internal/worker"
)

type fakeQueue struct {
	jobs []worker.PushJob
	full bool
}

func (q *fakeQueue) Enqueue(job worker.PushJob) bool {
	if q.full {
		return false
	}
	q.jobs = append(q.jobs, job)
	return true
}

func TestNotifyDispatch(t *testing.T) {
	t.Run("renders and enqueues a created notification", func(t *testing.T) {
		queue := &fakeQueue{}
		svc := NewNotifyService(queue, zap.NewNop())

		svc.Dispatch(domain.NotificationPayload{
			Kind:         domain.NotifyTicketCreated,
			LineUserID:   "U123",
			Message:      "Printer broken",
			TicketNumber: "REP-20240501-0001",
			Status:       domain.TicketStatusPending,
		})

		require.Len(t, queue.jobs, 1)
		assert.Equal(t, "U123", queue.jobs[0].To)
		text, ok := queue.jobs[0].Messages[0].(line.TextMessage)
		require.True(t, ok)
		assert.Contains(t, text.Text, "📢 Ticket Created")
		assert.Contains(t, text.Text, "REP-20240501-0001")
		assert.Contains(t, text.Text, "Printer broken")
		assert.Contains(t, text.Text, "🔵 Pending")
	})

	t.Run("completed notification uses the completed template", func(t *testing.T) {
		queue := &fakeQueue{}
		svc := NewNotifyService(queue, zap.NewNop())

		svc.Dispatch(domain.NotificationPayload{
			Kind:         domain.NotifyTicketCompleted,
			LineUserID:   "U123",
			Message:      "Printer broken",
			TicketNumber: "REP-20240501-0001",
			Status:       domain.TicketStatusCompleted,
		})

		require.Len(t, queue.jobs, 1)
		text := queue.jobs[0].Messages[0].(line.TextMessage)
		assert.Contains(t, text.Text, "เสร็จสิ้นแล้ว")
		assert.Contains(t, text.Text, "🟢 Completed")
	})

	t.Run("generic update falls back to status emoji and label", func(t *testing.T) {
		queue := &fakeQueue{}
		svc := NewNotifyService(queue, zap.NewNop())

		svc.Dispatch(domain.NotificationPayload{
			Kind:         domain.NotifyTicketUpdated,
			LineUserID:   "U123",
			Message:      "Printer broken",
			TicketNumber: "REP-20240501-0001",
			Status:       domain.TicketStatusInProgress,
		})

		require.Len(t, queue.jobs, 1)
		text := queue.jobs[0].Messages[0].(line.TextMessage)
		assert.Contains(t, text.Text, "🟠 In Progress")
	})

	t.Run("missing recipient is skipped", func(t *testing.T) {
		queue := &fakeQueue{}
		svc := NewNotifyService(queue, zap.NewNop())

		svc.Dispatch(domain.NotificationPayload{Kind: domain.NotifyTicketCreated})
		assert.Empty(t, queue.jobs)
	})

	t.Run("full queue drops without panicking", func(t *testing.T) {
		svc := NewNotifyService(&fakeQueue{full: true}, zap.NewNop())
		svc.Dispatch(domain.NotificationPayload{
			Kind:       domain.NotifyTicketCreated,
			LineUserID: "U123",
		})
	})
}

func TestStatusDisplay(t *testing.T) {
	assert.Equal(t, "🔵", StatusEmoji(domain.TicketStatusPending))
	assert.Equal(t, "🟠", StatusEmoji(domain.TicketStatusInProgress))
	assert.Equal(t, "🟢", StatusEmoji(domain.TicketStatusCompleted))
	assert.Equal(t, "⚫", StatusEmoji(domain.TicketStatusCancelled))
	assert.Equal(t, "⚪", StatusEmoji(domain.TicketStatus("bogus")))

	assert.Equal(t, "Pending", StatusLabel(domain.TicketStatusPending))
	assert.Equal(t, "In Progress", StatusLabel(domain.TicketStatusInProgress))
	assert.Equal(t, "Completed", StatusLabel(domain.TicketStatusCompleted))
	assert.Equal(t, "Cancelled", StatusLabel(domain.TicketStatusCancelled))
	assert.Equal(t, "Unknown", StatusLabel(domain.TicketStatus("bogus")))
}
