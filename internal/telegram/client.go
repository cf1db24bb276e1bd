package telegram

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"
)

// APIError represents an error response from the Telegram Bot API.
type APIError struct {
	StatusCode  int
	Description string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("telegram api error %d: %s", e.StatusCode, e.Description)
}

// Client wraps the Telegram Bot API operations the relay needs.
type Client struct {
	baseURL    string
	chatID     string
	httpClient *http.Client
	logger     *slog.Logger
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// NewClient creates a Bot API client targeting a single group chat.
func NewClient(baseURL, chatID string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL: baseURL,
		chatID:  chatID,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger: slog.Default(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// WithTimeout sets the HTTP client timeout.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		c.httpClient.Timeout = d
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// sendMessageReq is the JSON body for sendMessage.
type sendMessageReq struct {
	ChatID                string `json:"chat_id"`
	Text                  string `json:"text"`
	ParseMode             string `json:"parse_mode"`
	DisableWebPagePreview bool   `json:"disable_web_page_preview"`
}

// sendPhotoReq is the JSON body for sendPhoto.
type sendPhotoReq struct {
	ChatID    string `json:"chat_id"`
	Photo     string `json:"photo"`
	Caption   string `json:"caption"`
	ParseMode string `json:"parse_mode"`
}

// apiResponse is the common Bot API response envelope.
type apiResponse struct {
	OK          bool   `json:"ok"`
	Description string `json:"description"`
}

// SendMessage posts an HTML text message to the group as the bot identified
// by token.
func (c *Client) SendMessage(ctx context.Context, token, text string) error {
	return c.post(ctx, token, "sendMessage", sendMessageReq{
		ChatID:                c.chatID,
		Text:                  text,
		ParseMode:             "HTML",
		DisableWebPagePreview: true,
	})
}

// SendPhoto posts an image with an HTML caption to the group.
func (c *Client) SendPhoto(ctx context.Context, token, photoURL, caption string) error {
	return c.post(ctx, token, "sendPhoto", sendPhotoReq{
		ChatID:    c.chatID,
		Photo:     photoURL,
		Caption:   caption,
		ParseMode: "HTML",
	})
}

// post performs a Bot API method call for the given bot token.
func (c *Client) post(ctx context.Context, token, method string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal %s request: %w", method, err)
	}

	url := fmt.Sprintf("%s/bot%s/%s", c.baseURL, token, method)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create %s request: %w", method, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("do %s request: %w", method, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read %s response: %w", method, err)
	}

	var apiResp apiResponse
	if err := json.Unmarshal(respBody, &apiResp); err == nil && apiResp.OK {
		return nil
	}

	if resp.StatusCode >= 400 || !apiResp.OK {
		return &APIError{
			StatusCode:  resp.StatusCode,
			Description: apiResp.Description,
		}
	}

	return nil
}
