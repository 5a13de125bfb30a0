package handlers_test

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/it-repair-service/internal/api/http"
	"github.com/spec-kit/it-repair-service/internal/api/http/handlers"
	"github.com/spec-kit/it-repair-service/internal/observability"
	"github.com/spec-kit/it-repair-service/internal/service"
)

const channelSecret = "test-channel-secret"

func newWebhookApp() *fiber.App {
	logger := zap.NewNop()
	app := fiber.New()
	httptransport.RegisterMiddlewares(app, logger, observability.NewMetrics(), 0)

	webhooks := service.NewWebhookService(nil, nil, "", logger)
	handler := handlers.NewLineHandler(channelSecret, webhooks, logger)
	app.Post("/api/v1/line/webhook", handler.Webhook)
	return app
}

func sign(secret string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

func postWebhook(t *testing.T, app *fiber.App, body []byte, signature string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(http.MethodPost, "/api/v1/line/webhook", bytes.NewReader(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if signature != "" {
		req.Header.Set("x-line-signature", signature)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func errorCode(t *testing.T, resp *http.Response) string {
	t.Helper()
	var payload struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&payload))
	return payload.Error.Code
}

func TestWebhookEndpoint(t *testing.T) {
	body := []byte(`{"events":[]}`)

	t.Run("missing signature header is a bad request", func(t *testing.T) {
		resp := postWebhook(t, newWebhookApp(), body, "")
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "VALIDATION_FAILED", errorCode(t, resp))
	})

	t.Run("invalid signature is unauthorized", func(t *testing.T) {
		resp := postWebhook(t, newWebhookApp(), body, sign("wrong-secret", body))
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		assert.Equal(t, "UNAUTHENTICATED", errorCode(t, resp))
	})

	t.Run("valid signature over empty batch is accepted", func(t *testing.T) {
		resp := postWebhook(t, newWebhookApp(), body, sign(channelSecret, body))
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var payload map[string]string
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&payload))
		assert.Equal(t, "ok", payload["status"])
	})

	t.Run("malformed payload with valid signature is a bad request", func(t *testing.T) {
		malformed := []byte(`{"no-events":true}`)
		resp := postWebhook(t, newWebhookApp(), malformed, sign(channelSecret, malformed))
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "VALIDATION_FAILED", errorCode(t, resp))
	})

	t.Run("tampered body fails verification", func(t *testing.T) {
		resp := postWebhook(t, newWebhookApp(), []byte(`{"events":[{}]}`), sign(channelSecret, body))
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})
}
