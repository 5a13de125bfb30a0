package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/it-repair-service/internal/line"
	"github.com/spec-kit/it-repair-service/internal/service"
	apperrors "github.com/spec-kit/it-repair-service/pkg/util"
)

const signatureHeader = "x-line-signature"

// LineHandler receives LINE webhook deliveries.
type LineHandler struct {
	channelSecret string
	webhooks      *service.WebhookService
	logger        *zap.Logger
}

// NewLineHandler constructs handler.
func NewLineHandler(channelSecret string, webhooks *service.WebhookService, logger *zap.Logger) *LineHandler {
	return &LineHandler{channelSecret: channelSecret, webhooks: webhooks, logger: logger}
}

// Webhook POST /line/webhook. Verifies the signature over the raw body before
// any parsing, then processes the event batch. Event-level failures never
// surface here; LINE retries the whole delivery on non-2xx.
func (h *LineHandler) Webhook(c *fiber.Ctx) error {
	signature := c.Get(signatureHeader)
	if signature == "" {
		return apperrors.NewValidationError("missing signature header", nil)
	}

	body := c.Body()
	if err := line.VerifySignature(h.channelSecret, body, signature); err != nil {
		if errors.Is(err, line.ErrNoSecret) {
			h.logger.Error("webhook rejected, channel secret not configured")
		}
		return apperrors.NewUnauthenticated("invalid webhook signature")
	}

	events, err := line.DecodeEvents(body)
	if err != nil {
		return apperrors.NewValidationError("malformed webhook payload", nil)
	}

	h.webhooks.HandleEvents(c.UserContext(), events)
	return c.JSON(fiber.Map{"status": "ok"})
}
