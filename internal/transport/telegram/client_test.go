package telegram

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rickcomics/myprotectivemasks/internal/domain"
)

func TestSendMessageRendersKeyboard(t *testing.T) {
	var got sendMessageRequest
	var markup map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/bottest-token/sendMessage" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		var raw map[string]json.RawMessage
		if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
			t.Errorf("decode request: %v", err)
		}
		_ = json.Unmarshal(raw["chat_id"], &got.ChatID)
		_ = json.Unmarshal(raw["text"], &got.Text)
		_ = json.Unmarshal(raw["reply_markup"], &markup)
		w.Write([]byte(`{"ok":true,"result":{}}`))
	}))
	defer server.Close()

	client := NewClientWithBaseURL("test-token", server.URL)
	err := client.SendMessage(context.Background(), 7, domain.Reply{
		Text:     "Вопрос?",
		Keyboard: [][]string{{"Да"}, {"Нет"}},
	})
	if err != nil {
		t.Fatalf("send: %v", err)
	}
	if got.ChatID != 7 || got.Text != "Вопрос?" {
		t.Fatalf("unexpected request: %+v", got)
	}
	if markup["one_time_keyboard"] != true {
		t.Fatalf("expected one-time keyboard, got %v", markup)
	}
	rows, ok := markup["keyboard"].([]any)
	if !ok || len(rows) != 2 {
		t.Fatalf("expected 2 keyboard rows, got %v", markup["keyboard"])
	}
}

func TestSendMessageAPIErrorSurfaces(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"ok":false,"description":"chat not found"}`))
	}))
	defer server.Close()

	client := NewClientWithBaseURL("test-token", server.URL)
	err := client.SendMessage(context.Background(), 7, domain.Reply{Text: "hi"})
	if err == nil {
		t.Fatalf("expected error from API failure")
	}
}

func TestEnsureWebhookSkipsWhenActive(t *testing.T) {
	setCalls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/bottest-token/getWebhookInfo":
			w.Write([]byte(`{"ok":true,"result":{"url":"https://old.example/hook"}}`))
		case "/bottest-token/setWebhook":
			setCalls++
			w.Write([]byte(`{"ok":true,"result":true}`))
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	}))
	defer server.Close()

	client := NewClientWithBaseURL("test-token", server.URL)
	url, err := client.EnsureWebhook(context.Background(), "https://new.example/hook")
	if err != nil {
		t.Fatalf("ensure webhook: %v", err)
	}
	if url != "https://old.example/hook" {
		t.Fatalf("expected existing webhook kept, got %s", url)
	}
	if setCalls != 0 {
		t.Fatalf("expected no setWebhook call, got %d", setCalls)
	}
}

func TestEnsureWebhookRegistersWhenMissing(t *testing.T) {
	var registered string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/bottest-token/getWebhookInfo":
			w.Write([]byte(`{"ok":true,"result":{"url":""}}`))
		case "/bottest-token/setWebhook":
			var payload map[string]string
			_ = json.NewDecoder(r.Body).Decode(&payload)
			registered = payload["url"]
			w.Write([]byte(`{"ok":true,"result":true}`))
		}
	}))
	defer server.Close()

	client := NewClientWithBaseURL("test-token", server.URL)
	url, err := client.EnsureWebhook(context.Background(), "https://new.example/hook")
	if err != nil {
		t.Fatalf("ensure webhook: %v", err)
	}
	if url != "https://new.example/hook" || registered != url {
		t.Fatalf("expected registration, got url=%s registered=%s", url, registered)
	}
}
