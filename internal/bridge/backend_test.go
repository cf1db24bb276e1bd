package bridge

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestBackendClient_Chat(t *testing.T) {
	var gotBody chatRequest

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/telegram/chat" {
			t.Errorf("path = %q", r.URL.Path)
		}
		json.NewDecoder(r.Body).Decode(&gotBody)
		w.Write([]byte(`{"botId":"chad","botName":"James","response":"to the moon"}`))
	}))
	defer server.Close()

	c := NewBackendClient(server.URL, time.Second, nil)
	reply, err := c.Chat(context.Background(), "wen moon", "alice", "chad")
	if err != nil {
		t.Fatalf("Chat failed: %v", err)
	}

	if reply.BotID != "chad" || reply.Response != "to the moon" {
		t.Errorf("reply = %+v", reply)
	}
	if gotBody.Message != "wen moon" || gotBody.Username != "alice" {
		t.Errorf("request body = %+v", gotBody)
	}
	if gotBody.TargetBotID == nil || *gotBody.TargetBotID != "chad" {
		t.Errorf("targetBotId = %v, want chad", gotBody.TargetBotID)
	}
}

func TestBackendClient_Chat_NullTarget(t *testing.T) {
	var raw map[string]any

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&raw)
		w.Write([]byte(`{"botId":"oracle","botName":"Mike","response":"hm"}`))
	}))
	defer server.Close()

	c := NewBackendClient(server.URL, time.Second, nil)
	if _, err := c.Chat(context.Background(), "anyone?", "alice", ""); err != nil {
		t.Fatalf("Chat failed: %v", err)
	}

	// The backend picks a member when the target is null.
	if v, ok := raw["targetBotId"]; !ok || v != nil {
		t.Errorf("targetBotId = %v, want explicit null", v)
	}
}

func TestBackendClient_Chat_HTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	c := NewBackendClient(server.URL, time.Second, nil)
	if _, err := c.Chat(context.Background(), "hi", "alice", ""); err == nil {
		t.Fatal("expected error for 502 response")
	}
}
