package web

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/jaminalder/tictactoe/internal/ai"
	"github.com/jaminalder/tictactoe/internal/app"
	"github.com/jaminalder/tictactoe/internal/domain"
)

// Error codes returned by the JSON API.
const (
	codeInvalidRequest = "INVALID_REQUEST"
	codeInvalidBoard   = "INVALID_BOARD"
	codeGameNotFound   = "GAME_NOT_FOUND"
)

type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type errorResponse struct {
	Error apiError `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		_ = json.NewEncoder(w).Encode(data)
	}
}

func writeError(w http.ResponseWriter, status int, code, msg string) {
	writeJSON(w, status, errorResponse{Error: apiError{Code: code, Message: msg}})
}

type outcomeJSON struct {
	Status string `json:"status"`
	Winner string `json:"winner,omitempty"`
	Line   []int  `json:"line,omitempty"`
}

func newOutcomeJSON(o domain.Outcome) outcomeJSON {
	out := outcomeJSON{Status: o.Status.String()}
	if o.Status == domain.Win {
		out.Winner = o.Winner.String()
		out.Line = o.Line[:]
	}
	return out
}

type evaluateRequest struct {
	Board string `json:"board"`
}

type moveRequest struct {
	Board      string `json:"board"`
	Difficulty string `json:"difficulty"`
	Mark       string `json:"mark"`
}

type moveResponse struct {
	Move int `json:"move"`
	Row  int `json:"row"`
	Col  int `json:"col"`
}

// decodeBoard reads a JSON body into req and parses its board field.
func decodeBoard(w http.ResponseWriter, r *http.Request, req any, board func() string) (domain.Board, bool) {
	if err := json.NewDecoder(r.Body).Decode(req); err != nil {
		writeError(w, http.StatusBadRequest, codeInvalidRequest, "invalid JSON body")
		return domain.Board{}, false
	}
	b, err := domain.ParseBoard(board())
	if err != nil {
		writeError(w, http.StatusBadRequest, codeInvalidBoard, err.Error())
		return domain.Board{}, false
	}
	return b, true
}

func (h *handlers) apiEvaluate(w http.ResponseWriter, r *http.Request) {
	var req evaluateRequest
	b, ok := decodeBoard(w, r, &req, func() string { return req.Board })
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, newOutcomeJSON(domain.Evaluate(b)))
}

func (h *handlers) apiMove(w http.ResponseWriter, r *http.Request) {
	var req moveRequest
	b, ok := decodeBoard(w, r, &req, func() string { return req.Board })
	if !ok {
		return
	}
	d := h.svc.Defaults().Difficulty
	if req.Difficulty != "" {
		var err error
		if d, err = ai.ParseDifficulty(req.Difficulty); err != nil {
			writeError(w, http.StatusBadRequest, codeInvalidRequest, err.Error())
			return
		}
	}
	mark := h.svc.Defaults().ComputerMark
	if req.Mark != "" {
		m, err := domain.ParseCell(req.Mark)
		if err != nil {
			writeError(w, http.StatusBadRequest, codeInvalidRequest, err.Error())
			return
		}
		mark = m
	}
	idx := h.selector.SelectMove(b, d, mark)
	resp := moveResponse{Move: idx, Row: -1, Col: -1}
	if idx != ai.NoMove {
		resp.Row, resp.Col = domain.RowCol(idx)
	}
	writeJSON(w, http.StatusOK, resp)
}

type moveJSON struct {
	Step  int    `json:"step"`
	Mark  string `json:"mark"`
	Row   int    `json:"row"`
	Col   int    `json:"col"`
	Label string `json:"label"`
}

// stateJSON is the game state pushed over the websocket and returned by
// GET /api/games/{id}.
type stateJSON struct {
	ID           string      `json:"id"`
	Mode         string      `json:"mode"`
	Difficulty   string      `json:"difficulty"`
	ComputerMark string      `json:"computer_mark"`
	Board        string      `json:"board"`
	Turn         string      `json:"turn"`
	Step         int         `json:"step"`
	HistoryLen   int         `json:"history_len"`
	Outcome      outcomeJSON `json:"outcome"`
	Status       string      `json:"status"`
	Moves        []moveJSON  `json:"moves"`
}

func newStateJSON(gs app.GameState) stateJSON {
	status, _ := statusText(gs)
	s := stateJSON{
		ID:           gs.ID,
		Mode:         gs.Settings.Mode.String(),
		Difficulty:   gs.Settings.Difficulty.String(),
		ComputerMark: gs.Settings.ComputerMark.String(),
		Board:        gs.Game.Board.String(),
		Turn:         gs.Game.Turn.String(),
		Step:         gs.Game.Step,
		HistoryLen:   len(gs.Game.History),
		Outcome:      newOutcomeJSON(gs.Game.Outcome),
		Status:       status,
		Moves:        []moveJSON{},
	}
	for _, m := range gs.Game.MoveList() {
		s.Moves = append(s.Moves, moveJSON{Step: m.Step, Mark: m.Mark.String(), Row: m.Row, Col: m.Col, Label: m.Label()})
	}
	return s
}

func (h *handlers) apiGame(w http.ResponseWriter, r *http.Request) {
	gs, ok := h.svc.Get(chi.URLParam(r, "id"))
	if !ok {
		writeError(w, http.StatusNotFound, codeGameNotFound, app.ErrNotFound.Error())
		return
	}
	writeJSON(w, http.StatusOK, newStateJSON(*gs))
}
