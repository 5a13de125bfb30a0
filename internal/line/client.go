package line

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"go.uber.org/zap"

	"github.com/spec-kit/it-repair-service/internal/config"
	apperrors "github.com/spec-kit/it-repair-service/pkg/util"
)

// Profile is the display profile returned by the platform.
type Profile struct {
	DisplayName   string `json:"displayName"`
	PictureURL    string `json:"pictureUrl"`
	StatusMessage string `json:"statusMessage"`
}

// Client talks to the LINE messaging API with bearer auth and a bounded
// timeout on every call.
type Client struct {
	httpClient  *http.Client
	baseURL     string
	accessToken string
	logger      *zap.Logger
}

// NewClient constructs a client from configuration.
func NewClient(cfg config.LineConfig, logger *zap.Logger) *Client {
	return &Client{
		httpClient:  &http.Client{Timeout: cfg.PushTimeout()},
		baseURL:     cfg.APIBaseURL,
		accessToken: cfg.ChannelAccessToken,
		logger:      logger,
	}
}

type pushRequest struct {
	To       string    `json:"to"`
	Messages []Message `json:"messages"`
}

// Push sends messages to the given platform user id.
func (c *Client) Push(ctx context.Context, to string, messages []Message) error {
	payload, err := json.Marshal(pushRequest{To: to, Messages: messages})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v2/bot/message/push", bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.accessToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return apperrors.NewUpstreamUnavailable("failed to push LINE message", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		c.logger.Warn("LINE push rejected",
			zap.Int("status", resp.StatusCode),
			zap.ByteString("body", body))
		return apperrors.NewUpstreamUnavailable(
			fmt.Sprintf("LINE push rejected with status %d", resp.StatusCode), nil)
	}
	return nil
}

// GetProfile fetches the display profile of a platform user.
func (c *Client) GetProfile(ctx context.Context, lineUserID string) (*Profile, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/v2/bot/profile/"+lineUserID, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.accessToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, apperrors.NewUpstreamUnavailable("failed to fetch LINE profile", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, apperrors.NewUpstreamUnavailable(
			fmt.Sprintf("LINE profile fetch returned status %d", resp.StatusCode), nil)
	}

	var profile Profile
	if err := json.NewDecoder(resp.Body).Decode(&profile); err != nil {
		return nil, apperrors.NewUpstreamUnavailable("invalid LINE profile response", err)
	}
	return &profile, nil
}
