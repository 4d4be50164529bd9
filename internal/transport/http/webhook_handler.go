package http

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/rickcomics/myprotectivemasks/internal/app"
	"github.com/rickcomics/myprotectivemasks/internal/domain"
	"github.com/rickcomics/myprotectivemasks/internal/transport/telegram"
)

// Sender delivers replies back to the messaging platform.
type Sender interface {
	SendMessage(ctx context.Context, chatID int64, reply domain.Reply) error
}

// WebhookHandler receives Telegram updates, runs them through the engine, and
// sends the replies. It always acknowledges with 200 so Telegram does not
// redeliver updates the bot chose to ignore.
type WebhookHandler struct {
	engine    *app.Engine
	sender    Sender
	presenter *app.Presenter
}

func NewWebhookHandler(engine *app.Engine, sender Sender) *WebhookHandler {
	return &WebhookHandler{
		engine:    engine,
		sender:    sender,
		presenter: app.NewPresenter(),
	}
}

// ServeUpdate handles POST /<bot-token>.
func (h *WebhookHandler) ServeUpdate(w http.ResponseWriter, r *http.Request) {
	defer w.WriteHeader(http.StatusOK)

	var update telegram.Update
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		log.Printf("[WARN] undecodable update: %v", err)
		return
	}

	userID, ok := update.UserID()
	if !ok {
		return
	}
	text, ok := update.Text()
	if !ok {
		return
	}
	log.Printf("[LOG] update from user %d: %q", userID, text)

	replies, err := h.engine.HandleAction(r.Context(), userID, text)
	if err != nil {
		log.Printf("[ERROR] handle action for user %d: %v", userID, err)
		// best-effort recovery message; the reply channel may be gone
		if sendErr := h.sender.SendMessage(r.Context(), userID, h.presenter.TechnicalError()); sendErr != nil {
			log.Printf("[ERROR] send recovery message to %d: %v", userID, sendErr)
		}
		return
	}

	for _, reply := range replies {
		if err := h.sender.SendMessage(r.Context(), userID, reply); err != nil {
			log.Printf("[ERROR] send reply to %d: %v", userID, err)
			return
		}
	}
}

// ServeRoot handles GET /: a bare liveness line for the hosting platform.
func ServeRoot(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("Bot is running"))
}

// ServeHealth handles GET /health.
func ServeHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(map[string]string{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}
