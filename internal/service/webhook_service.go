package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/it-repair-service/internal/line"
)

// MessageSender pushes messages to the platform.
type MessageSender interface {
	Push(ctx context.Context, to string, messages []line.Message) error
}

// WebhookService routes verified webhook events to the identity resolver and
// conversational replies.
type WebhookService struct {
	identity *IdentityService
	sender   MessageSender
	liffID   string
	logger   *zap.Logger
}

// NewWebhookService constructs the router.
func NewWebhookService(identity *IdentityService, sender MessageSender, liffID string, logger *zap.Logger) *WebhookService {
	return &WebhookService{identity: identity, sender: sender, liffID: liffID, logger: logger}
}

// HandleEvents processes a verified batch in received order. Every event is
// attempted; a failure is logged and never aborts the rest of the batch.
func (s *WebhookService) HandleEvents(ctx context.Context, events []line.Event) {
	for _, event := range events {
		if err := s.handleEvent(ctx, event); err != nil {
			s.logger.Error("webhook event processing failed",
				zap.String("kind", string(event.Kind)),
				zap.String("line_user_id", event.UserID),
				zap.Error(err))
		}
	}
}

func (s *WebhookService) handleEvent(ctx context.Context, event line.Event) error {
	switch event.Kind {
	case line.EventKindTextMessage:
		user, err := s.identity.ResolveFromPlatform(ctx, event.UserID)
		if err != nil {
			return err
		}
		return s.sender.Push(ctx, event.UserID, []line.Message{
			line.NewMenuMessage(user.DisplayName, s.liffID),
		})
	case line.EventKindFollow:
		if _, err := s.identity.ResolveFromPlatform(ctx, event.UserID); err != nil {
			return err
		}
		return s.sender.Push(ctx, event.UserID, []line.Message{line.NewWelcomeMessage()})
	case line.EventKindUnfollow:
		s.logger.Info("user unfollowed", zap.String("line_user_id", event.UserID))
		return nil
	default:
		s.logger.Warn("unrecognized webhook event",
			zap.String("type", event.RawType),
			zap.String("line_user_id", event.UserID))
		return nil
	}
}
