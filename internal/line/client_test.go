package line

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/it-repair-service/internal/config"
	apperrors "github.com/spec-kit/it-repair-service/pkg/util"
)

func newTestClient(baseURL string) *Client {
	return NewClient(config.LineConfig{
		ChannelAccessToken: "test-token",
		APIBaseURL:         baseURL,
		PushTimeoutSeconds: 2,
	}, zap.NewNop())
}

func TestClientPush(t *testing.T) {
	t.Run("sends bearer auth and payload", func(t *testing.T) {
		var gotAuth string
		var gotBody map[string]any
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "/v2/bot/message/push", r.URL.Path)
			gotAuth = r.Header.Get("Authorization")
			raw, _ := io.ReadAll(r.Body)
			require.NoError(t, json.Unmarshal(raw, &gotBody))
			w.WriteHeader(http.StatusOK)
		}))
		defer srv.Close()

		client := newTestClient(srv.URL)
		err := client.Push(context.Background(), "U123", []Message{NewTextMessage("hi")})
		require.NoError(t, err)

		assert.Equal(t, "Bearer test-token", gotAuth)
		assert.Equal(t, "U123", gotBody["to"])
		messages, ok := gotBody["messages"].([]any)
		require.True(t, ok)
		require.Len(t, messages, 1)
		first := messages[0].(map[string]any)
		assert.Equal(t, "text", first["type"])
		assert.Equal(t, "hi", first["text"])
	})

	t.Run("non-2xx maps to upstream unavailable", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
		}))
		defer srv.Close()

		err := newTestClient(srv.URL).Push(context.Background(), "U123", []Message{NewTextMessage("hi")})
		var domainErr *apperrors.DomainError
		require.True(t, errors.As(err, &domainErr))
		assert.Equal(t, "UPSTREAM_UNAVAILABLE", domainErr.Code)
	})

	t.Run("connection failure maps to upstream unavailable", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		srv.Close()

		err := newTestClient(srv.URL).Push(context.Background(), "U123", []Message{NewTextMessage("hi")})
		var domainErr *apperrors.DomainError
		require.True(t, errors.As(err, &domainErr))
		assert.Equal(t, "UPSTREAM_UNAVAILABLE", domainErr.Code)
	})
}

func TestClientGetProfile(t *testing.T) {
	t.Run("fetches and decodes profile", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/v2/bot/profile/U123", r.URL.Path)
			assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))
			_ = json.NewEncoder(w).Encode(Profile{
				DisplayName:   "Somchai",
				PictureURL:    "https://example.com/p.jpg",
				StatusMessage: "hello",
			})
		}))
		defer srv.Close()

		profile, err := newTestClient(srv.URL).GetProfile(context.Background(), "U123")
		require.NoError(t, err)
		assert.Equal(t, "Somchai", profile.DisplayName)
		assert.Equal(t, "https://example.com/p.jpg", profile.PictureURL)
		assert.Equal(t, "hello", profile.StatusMessage)
	})

	t.Run("non-200 maps to upstream unavailable", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		}))
		defer srv.Close()

		_, err := newTestClient(srv.URL).GetProfile(context.Background(), "U404")
		var domainErr *apperrors.DomainError
		require.True(t, errors.As(err, &domainErr))
		assert.Equal(t, "UPSTREAM_UNAVAILABLE", domainErr.Code)
	})
}

func TestMessageMarshalling(t *testing.T) {
	raw, err := json.Marshal(NewMenuMessage("Somchai", "liff-123"))
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, "template", decoded["type"])

	template := decoded["template"].(map[string]any)
	assert.Equal(t, "buttons", template["type"])
	actions := template["actions"].([]any)
	require.Len(t, actions, 2)
	assert.Equal(t, "line://liff/liff-123", actions[0].(map[string]any)["uri"])
}
