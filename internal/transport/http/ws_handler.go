package http

import (
	"log"
	"net/http"
	"strconv"

	"github.com/gorilla/websocket"
	"github.com/rickcomics/myprotectivemasks/internal/app"
	"github.com/rickcomics/myprotectivemasks/internal/domain"
)

// WSHandler exposes the test over a WebSocket chat, so the flow can be
// exercised without Telegram credentials (local runs, demos).
type WSHandler struct {
	engine   *app.Engine
	upgrader websocket.Upgrader
}

func NewWSHandler(engine *app.Engine) *WSHandler {
	return &WSHandler{
		engine: engine,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

type inboundMessage struct {
	Text string `json:"text"`
}

type outboundMessage struct {
	Type    string       `json:"type"`
	Payload replyPayload `json:"payload"`
}

type replyPayload struct {
	Text           string     `json:"text"`
	Keyboard       [][]string `json:"keyboard,omitempty"`
	RemoveKeyboard bool       `json:"removeKeyboard,omitempty"`
	Markdown       bool       `json:"markdown,omitempty"`
}

// ServeWS upgrades the request and relays chat messages to the engine. Each
// inbound frame is processed to completion before the next is read, so the
// engine's per-user serialization contract holds.
func (h *WSHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	userID, err := strconv.ParseInt(r.URL.Query().Get("userId"), 10, 64)
	if err != nil {
		http.Error(w, "missing or invalid userId", http.StatusBadRequest)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("ws upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	for {
		var inbound inboundMessage
		if err := conn.ReadJSON(&inbound); err != nil {
			break
		}
		replies, err := h.engine.HandleAction(r.Context(), userID, inbound.Text)
		if err != nil {
			log.Printf("ws handle action for user %d: %v", userID, err)
			if writeErr := conn.WriteJSON(outboundMessage{
				Type:    "error",
				Payload: replyPayload{Text: err.Error()},
			}); writeErr != nil {
				break
			}
			continue
		}
		for _, msg := range repliesFor(replies) {
			if err := conn.WriteJSON(msg); err != nil {
				return
			}
		}
	}
}

func repliesFor(replies []domain.Reply) []outboundMessage {
	out := make([]outboundMessage, 0, len(replies))
	for _, reply := range replies {
		out = append(out, outboundMessage{
			Type: "reply",
			Payload: replyPayload{
				Text:           reply.Text,
				Keyboard:       reply.Keyboard,
				RemoveKeyboard: reply.RemoveKeyboard,
				Markdown:       reply.Markdown,
			},
		})
	}
	return out
}
