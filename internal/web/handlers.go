package web

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/jaminalder/tictactoe/internal/ai"
	"github.com/jaminalder/tictactoe/internal/app"
	"github.com/jaminalder/tictactoe/internal/domain"
)

type handlers struct {
	svc       *app.Service
	selector  *ai.Selector
	tpl       *templates
	logger    *slog.Logger
	heartbeat time.Duration
}

func (h *handlers) renderBoard(gs app.GameState, owner bool, order, errMsg string) ([]byte, error) {
	return renderTemplate(h.tpl.board, newBoardView(gs, owner, order, errMsg))
}

func (h *handlers) writeHTML(w http.ResponseWriter, status int, body []byte, err error) {
	if err != nil {
		h.logger.Error("template failed", slog.String("error", err.Error()))
		http.Error(w, "render failed", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(body)
}

func (h *handlers) index(w http.ResponseWriter, r *http.Request) {
	body, err := renderTemplate(h.tpl.index, h.svc.Defaults())
	h.writeHTML(w, http.StatusOK, body, err)
}

// settingsFromForm reads mode and difficulty, falling back to base for
// fields that are missing.
func settingsFromForm(r *http.Request, base app.Settings) (app.Settings, error) {
	s := base
	if v := r.FormValue("mode"); v != "" {
		m, err := app.ParseMode(v)
		if err != nil {
			return s, err
		}
		s.Mode = m
	}
	if v := r.FormValue("difficulty"); v != "" {
		d, err := ai.ParseDifficulty(v)
		if err != nil {
			return s, fmt.Errorf("%w: %w", app.ErrInvalidMode, err)
		}
		s.Difficulty = d
	}
	return s, nil
}

func (h *handlers) create(w http.ResponseWriter, r *http.Request) {
	settings, err := settingsFromForm(r, h.svc.Defaults())
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	gs, err := h.svc.CreateGame(settings)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	// the creator owns the game
	_, _, _ = h.svc.Join(gs.ID, ensurePlayerCookie(w, r))
	http.Redirect(w, r, "/game/"+gs.ID, http.StatusSeeOther)
}

func (h *handlers) view(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	pid := ensurePlayerCookie(w, r)
	role, gs, err := h.svc.Join(id, pid)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	v := newBoardView(*gs, role == app.Owner, r.FormValue("order"), "")
	body, err := renderTemplate(h.tpl.game, v)
	h.writeHTML(w, http.StatusOK, body, err)
}

// board renders the fragment on its own, e.g. after toggling the order.
func (h *handlers) board(w http.ResponseWriter, r *http.Request) {
	gs, ok := h.svc.Get(chi.URLParam(r, "id"))
	if !ok {
		http.NotFound(w, r)
		return
	}
	owner := gs.Owner != "" && gs.Owner == playerID(r)
	body, err := h.renderBoard(*gs, owner, r.FormValue("order"), "")
	h.writeHTML(w, http.StatusOK, body, err)
}

func (h *handlers) join(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	pid := ensurePlayerCookie(w, r)
	role, gs, err := h.svc.Join(id, pid)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	body, err := h.renderBoard(*gs, role == app.Owner, r.FormValue("order"), "")
	h.writeHTML(w, http.StatusOK, body, err)
}

// action runs one owner operation and answers with the board fragment. Domain
// errors are shown in the fragment; an unknown game is a 404.
func (h *handlers) action(w http.ResponseWriter, r *http.Request, op func(id, pid string) (*app.GameState, error)) {
	id := chi.URLParam(r, "id")
	pid := ensurePlayerCookie(w, r)
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form", http.StatusBadRequest)
		return
	}
	gs, err := op(id, pid)
	var errMsg string
	if err != nil {
		if errors.Is(err, app.ErrNotFound) {
			http.NotFound(w, r)
			return
		}
		errMsg = errorMessage(err)
		h.logger.Debug("action rejected",
			slog.String("game_id", id),
			slog.String("path", r.URL.Path),
			slog.String("error", err.Error()),
		)
		g, ok := h.svc.Get(id)
		if !ok {
			http.NotFound(w, r)
			return
		}
		gs = g
	}
	owner := gs.Owner == pid
	body, rerr := h.renderBoard(*gs, owner, r.FormValue("order"), errMsg)
	h.writeHTML(w, http.StatusOK, body, rerr)
}

func (h *handlers) play(w http.ResponseWriter, r *http.Request) {
	h.action(w, r, func(id, pid string) (*app.GameState, error) {
		ri, err1 := strconv.Atoi(r.Form.Get("r"))
		ci, err2 := strconv.Atoi(r.Form.Get("c"))
		if err1 != nil || err2 != nil {
			return nil, domain.ErrOutOfBounds
		}
		return h.svc.Play(id, pid, ri, ci)
	})
}

func (h *handlers) jump(w http.ResponseWriter, r *http.Request) {
	h.action(w, r, func(id, pid string) (*app.GameState, error) {
		step, err := strconv.Atoi(r.Form.Get("step"))
		if err != nil {
			return nil, domain.ErrInvalidStep
		}
		return h.svc.JumpTo(id, pid, step)
	})
}

func (h *handlers) reset(w http.ResponseWriter, r *http.Request) {
	h.action(w, r, func(id, pid string) (*app.GameState, error) {
		return h.svc.Reset(id, pid)
	})
}

func (h *handlers) settings(w http.ResponseWriter, r *http.Request) {
	h.action(w, r, func(id, pid string) (*app.GameState, error) {
		gs, ok := h.svc.Get(id)
		if !ok {
			return nil, app.ErrNotFound
		}
		settings, err := settingsFromForm(r, gs.Settings)
		if err != nil {
			return nil, err
		}
		return h.svc.UpdateSettings(id, pid, settings)
	})
}

func errorMessage(err error) string {
	switch {
	case errors.Is(err, app.ErrNotYourTurn):
		return "Not your turn"
	case errors.Is(err, app.ErrNotAPlayer):
		return "You are a spectator"
	case errors.Is(err, app.ErrInvalidMode):
		return "Invalid game settings"
	case errors.Is(err, domain.ErrOccupied):
		return "Cell is occupied"
	case errors.Is(err, domain.ErrOutOfBounds):
		return "Out of bounds"
	case errors.Is(err, domain.ErrGameOver):
		return "Game is over"
	case errors.Is(err, domain.ErrInvalidStep):
		return "No such move"
	default:
		return "Invalid move"
	}
}

func playerID(r *http.Request) string {
	if c, err := r.Cookie(playerCookie); err == nil {
		return c.Value
	}
	return ""
}

func (h *handlers) events(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}
	ctx := r.Context()
	ch, unsub, err := h.svc.Subscribe(ctx, id)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	defer unsub()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	pid := playerID(r)
	order := r.FormValue("order")
	send := func(gs app.GameState) bool {
		body, err := h.renderBoard(gs, gs.Owner != "" && gs.Owner == pid, order, "")
		if err != nil {
			h.logger.Error("template failed", slog.String("error", err.Error()))
			return false
		}
		if err := writeEvent(w, "board", body); err != nil {
			return false
		}
		flusher.Flush()
		return true
	}

	if gs, ok := h.svc.Get(id); ok && !send(*gs) {
		return
	}

	ticker := time.NewTicker(h.heartbeat)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := fmt.Fprint(w, ": ping\n\n"); err != nil {
				return
			}
			flusher.Flush()
		case gs, ok := <-ch:
			if !ok || !send(gs) {
				return
			}
		}
	}
}

// writeEvent writes one server-sent event; every line of data gets its own
// "data:" field.
func writeEvent(w http.ResponseWriter, event string, data []byte) error {
	var b strings.Builder
	b.WriteString("event: ")
	b.WriteString(event)
	b.WriteByte('\n')
	for _, line := range strings.Split(string(data), "\n") {
		b.WriteString("data: ")
		b.WriteString(line)
		b.WriteByte('\n')
	}
	b.WriteByte('\n')
	_, err := fmt.Fprint(w, b.String())
	return err
}

func (h *handlers) healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
