package service

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/spec-kit/it-repair-service/internal/domain"
	"github.com/spec-kit/it-repair-service/internal/line"
	"github.com/spec-kit/it-repair-service/internal/worker"
)

// Notifier accepts a notification payload for best-effort delivery.
type Notifier interface {
	Dispatch(payload domain.NotificationPayload)
}

// NotifyQueue is where rendered messages go for asynchronous delivery.
type NotifyQueue interface {
	Enqueue(job worker.PushJob) bool
}

// NotifyService renders ticket notifications into platform messages and hands
// them to the delivery queue. Dispatch never blocks and never returns an
// error: notification delivery is best effort by contract.
type NotifyService struct {
	queue  NotifyQueue
	logger *zap.Logger
}

// NewNotifyService constructs the dispatcher.
func NewNotifyService(queue NotifyQueue, logger *zap.Logger) *NotifyService {
	return &NotifyService{queue: queue, logger: logger}
}

// Dispatch renders the payload and enqueues it for delivery.
func (s *NotifyService) Dispatch(payload domain.NotificationPayload) {
	if payload.LineUserID == "" {
		return
	}
	title, body := renderNotification(payload)
	text := fmt.Sprintf("📢 %s\n%s", title, body)
	ok := s.queue.Enqueue(worker.PushJob{
		To:       payload.LineUserID,
		Messages: []line.Message{line.NewTextMessage(text)},
	})
	if !ok {
		s.logger.Warn("notification dropped, queue full",
			zap.String("kind", string(payload.Kind)),
			zap.String("ticket_number", payload.TicketNumber))
	}
}

// StatusEmoji maps a status to its display emoji, ⚪ for unknown values.
func StatusEmoji(status domain.TicketStatus) string {
	switch status {
	case domain.TicketStatusPending:
		return "🔵"
	case domain.TicketStatusInProgress:
		return "🟠"
	case domain.TicketStatusCompleted:
		return "🟢"
	case domain.TicketStatusCancelled:
		return "⚫"
	default:
		return "⚪"
	}
}

// StatusLabel maps a status to its display text, "Unknown" for unknown values.
func StatusLabel(status domain.TicketStatus) string {
	switch status {
	case domain.TicketStatusPending:
		return "Pending"
	case domain.TicketStatusInProgress:
		return "In Progress"
	case domain.TicketStatusCompleted:
		return "Completed"
	case domain.TicketStatusCancelled:
		return "Cancelled"
	default:
		return "Unknown"
	}
}

func renderNotification(p domain.NotificationPayload) (title, body string) {
	switch p.Kind {
	case domain.NotifyTicketCreated:
		title = "Ticket Created"
		body = fmt.Sprintf(
			"🎫 Ticket สร้างสำเร็จ!\n\nหมายเลข: %s\nเรื่อง: %s\nสถานะ: 🔵 Pending\n\nกรุณารอการยืนยันจากทีมช่วยเหลือ IT",
			p.TicketNumber, p.Message)
	case domain.NotifyTicketAssigned:
		title = "Ticket Assigned"
		body = fmt.Sprintf(
			"🔄 Ticket %s ได้รับการมอบหมาย\n\nเรื่อง: %s\nสถานะ: 🟠 In Progress\n\nทีม IT จะติดต่อคุณในอีกสักครู่",
			p.TicketNumber, p.Message)
	case domain.NotifyTicketCompleted:
		title = "Ticket Completed"
		body = fmt.Sprintf(
			"✅ Ticket %s เสร็จสิ้นแล้ว!\n\nเรื่อง: %s\nสถานะ: 🟢 Completed\n\nขอบคุณที่ใช้งาน IT Repair System\nหากมีปัญหาเพิ่มเติม สามารถสร้าง Ticket ใหม่ได้ตลอดเวลา",
			p.TicketNumber, p.Message)
	case domain.NotifyTicketCancelled:
		title = "Ticket Cancelled"
		body = fmt.Sprintf(
			"❌ Ticket %s ถูกยกเลิก\n\nเรื่อง: %s\nสถานะ: ⚫ Cancelled\n\nหากคุณมีคำถามใดๆ โปรดติดต่อทีม IT",
			p.TicketNumber, p.Message)
	default:
		title = "Ticket Updated"
		body = fmt.Sprintf(
			"📢 Ticket %s ได้รับการอัปเดต\n\nเรื่อง: %s\nสถานะ: %s %s\n\nกรุณาตรวจสอบรายละเอียดเพิ่มเติม",
			p.TicketNumber, p.Message, StatusEmoji(p.Status), StatusLabel(p.Status))
	}
	return title, body
}
