package bridge

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

// ChatReply is the backend's answer to a forwarded user message.
type ChatReply struct {
	BotID    string `json:"botId"`
	BotName  string `json:"botName"`
	Response string `json:"response"`
}

// chatRequest is the JSON body sent to the backend. TargetBotID is null
// when unresolved, letting the backend pick a member.
type chatRequest struct {
	Message     string  `json:"message"`
	Username    string  `json:"username"`
	TargetBotID *string `json:"targetBotId"`
}

// BackendClient talks to the Council backend reply endpoint.
type BackendClient struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewBackendClient creates a backend client.
func NewBackendClient(baseURL string, timeout time.Duration, logger *slog.Logger) *BackendClient {
	if logger == nil {
		logger = slog.Default()
	}
	return &BackendClient{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

// Chat forwards a user message and returns the chosen member's reply.
// targetBotID may be empty.
func (c *BackendClient) Chat(ctx context.Context, message, username, targetBotID string) (*ChatReply, error) {
	req := chatRequest{
		Message:  message,
		Username: username,
	}
	if targetBotID != "" {
		req.TargetBotID = &targetBotID
	}

	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshal chat request: %w", err)
	}

	url := c.baseURL + "/api/telegram/chat"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create chat request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("do chat request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read chat response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("backend returned %d: %s", resp.StatusCode, respBody)
	}

	var reply ChatReply
	if err := json.Unmarshal(respBody, &reply); err != nil {
		return nil, fmt.Errorf("unmarshal chat response: %w", err)
	}

	return &reply, nil
}
