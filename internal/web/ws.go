package web

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"github.com/jaminalder/tictactoe/internal/app"
)

// wsMessage is the envelope of every websocket frame.
type wsMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

const wsWriteWait = 10 * time.Second

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

// gameSocket streams the JSON game state: once on connect, then after every
// change. The socket is read only to notice the client going away.
func (h *handlers) gameSocket(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, ok := h.svc.Get(id); !ok {
		http.NotFound(w, r)
		return
	}
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", slog.String("game_id", id), slog.String("error", err.Error()))
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()
	ch, unsub, err := h.svc.Subscribe(ctx, id)
	if err != nil {
		return
	}
	defer unsub()

	go func() {
		defer cancel()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	// read after subscribing so no change falls between snapshot and stream
	gs, ok := h.svc.Get(id)
	if !ok {
		return
	}
	if err := writeState(conn, *gs); err != nil {
		return
	}
	ticker := time.NewTicker(h.heartbeat)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			_ = conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
				time.Now().Add(wsWriteWait))
			return
		case <-ticker.C:
			if err := writeMessage(conn, wsMessage{Type: "ping"}); err != nil {
				return
			}
		case st, ok := <-ch:
			if !ok {
				return
			}
			if err := writeState(conn, st); err != nil {
				return
			}
		}
	}
}

func writeState(conn *websocket.Conn, gs app.GameState) error {
	payload, err := json.Marshal(newStateJSON(gs))
	if err != nil {
		return err
	}
	return writeMessage(conn, wsMessage{Type: "state", Payload: payload})
}

func writeMessage(conn *websocket.Conn, msg wsMessage) error {
	_ = conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
	return conn.WriteJSON(msg)
}
