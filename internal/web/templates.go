package web

import (
	"bytes"
	"fmt"
	"html/template"
	"net/http"

	"github.com/jaminalder/tictactoe/internal/ai"
	"github.com/jaminalder/tictactoe/internal/app"
	"github.com/jaminalder/tictactoe/internal/domain"
)

const playerCookie = "player_id"

type templates struct {
	index *template.Template
	game  *template.Template
	board *template.Template
}

func funcs() template.FuncMap {
	return template.FuncMap{
		"modes":        func() []app.Mode { return []app.Mode{app.TwoPlayer, app.Computer} },
		"difficulties": func() []ai.Difficulty { return ai.Difficulties },
	}
}

func loadTemplates() *templates {
	base := template.Must(template.New("base").Funcs(funcs()).Parse(`<!doctype html><html><head>
<meta charset="utf-8"/>
<title>Tic-Tac-Toe</title>
<script src="https://unpkg.com/htmx.org@1.9.12"></script>
<script src="https://unpkg.com/htmx.org@1.9.12/dist/ext/sse.js"></script>
<style>
.row{display:flex}.cell{width:3em;height:3em;font-size:1.5em}
.cell.win{background:#bbf7d0}.mark-X{color:#9333ea}.mark-O{color:#0d9488}
.status{padding:.4em .8em;border-radius:.3em}.status-win{background:#dcfce7}
.status-draw{background:#fef3c7}.status-computer{background:#dbeafe}
.alert{color:#b91c1c}
</style>
</head><body>{{template "content" .}}</body></html>`))
	template.Must(base.New("settings").Parse(settingsTemplate))
	template.Must(base.New("board").Parse(boardTemplate))

	index := template.Must(template.Must(base.Clone()).New("content").Parse(`<h1>Tic-Tac-Toe</h1>
<form action="/game" method="post">{{template "settings" .}}<button type="submit">New game</button></form>`))
	game := template.Must(template.Must(base.Clone()).New("content").Parse(`<h1>Tic-Tac-Toe</h1>
<div hx-ext="sse" sse-connect="/game/{{.ID}}/events?order={{.Order}}">
  <div id="board-stream" sse-swap="board" hx-target="#board" hx-swap="outerHTML">{{template "board" .}}</div>
</div>`))
	board := template.Must(base.Clone()).Lookup("board")
	return &templates{index: index, game: game, board: board}
}

func renderTemplate(t *template.Template, data any) ([]byte, error) {
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("render %s: %w", t.Name(), err)
	}
	return buf.Bytes(), nil
}

const settingsTemplate = `<fieldset class="settings">
  <label>Mode <select name="mode">{{range modes}}<option value="{{.}}"{{if eq . $.Mode}} selected{{end}}>{{.}}</option>{{end}}</select></label>
  <label>Difficulty <select name="difficulty">{{range difficulties}}<option value="{{.}}"{{if eq . $.Difficulty}} selected{{end}}>{{.}}</option>{{end}}</select></label>
</fieldset>`

const boardTemplate = `<div id="board" data-step="{{.Step}}">
  <div class="status status-{{.StatusClass}}">{{.Status}}</div>
  {{if .Error}}<div class="alert">{{.Error}}</div>{{end}}
  {{$id := .ID}}{{$order := .Order}}
  <div class="grid">
  {{range .Rows}}
  <div class="row">
    {{range .}}
    <form hx-post="/game/{{$id}}/play" hx-target="#board" hx-swap="outerHTML" method="post">
      <input type="hidden" name="r" value="{{.Row}}">
      <input type="hidden" name="c" value="{{.Col}}">
      <input type="hidden" name="order" value="{{$order}}">
      <button type="submit" class="cell{{if .Mark}} mark-{{.Mark}}{{end}}{{if .Winning}} win{{end}}" data-idx="{{.Idx}}"{{if not .Playable}} disabled{{end}}>{{.Mark}}</button>
    </form>
    {{end}}
  </div>
  {{end}}
  </div>
  {{if .Owner}}
  <form class="settings-form" hx-post="/game/{{$id}}/settings" hx-target="#board" hx-swap="outerHTML" method="post">
    {{template "settings" .}}
    <input type="hidden" name="order" value="{{$order}}">
    <button type="submit">Apply</button>
  </form>
  <form class="reset-form" hx-post="/game/{{$id}}/reset" hx-target="#board" hx-swap="outerHTML" method="post">
    <input type="hidden" name="order" value="{{$order}}">
    <button type="submit">Reset game</button>
  </form>
  {{else}}
  <p class="spectator">Watching: {{.Mode}}{{if .Computer}}, {{.Difficulty}}{{end}}</p>
  {{end}}
  <div class="history">
    <a class="order-toggle" href="/game/{{$id}}?order={{.OtherOrder}}">Sort {{.OtherOrder}}ending</a>
    <ol>
    {{range .Moves}}
      <li data-step="{{.Step}}">
      {{if .Current}}<span class="current">{{.Text}}</span>
      {{else if $.Owner}}<form hx-post="/game/{{$id}}/jump" hx-target="#board" hx-swap="outerHTML" method="post">
        <input type="hidden" name="step" value="{{.Step}}">
        <input type="hidden" name="order" value="{{$order}}">
        <button type="submit">{{.Text}}</button>
      </form>
      {{else}}<span>{{.Text}}</span>{{end}}
      </li>
    {{end}}
    </ol>
  </div>
</div>`

type cellView struct {
	Idx      int
	Row      int
	Col      int
	Mark     string
	Winning  bool
	Playable bool
}

type moveView struct {
	Step    int
	Text    string
	Current bool
}

type boardView struct {
	ID          string
	Step        int
	Rows        [][]cellView
	Status      string
	StatusClass string
	Error       string
	Owner       bool
	Mode        app.Mode
	Difficulty  ai.Difficulty
	Computer    bool
	Moves       []moveView
	Order       string
	OtherOrder  string
}

// newBoardView turns a game state into the data the board fragment renders.
func newBoardView(gs app.GameState, owner bool, order, errMsg string) boardView {
	g := gs.Game
	canPlay := owner && !g.Over && !gs.ComputerToMove()
	v := boardView{
		ID:         gs.ID,
		Step:       g.Step,
		Error:      errMsg,
		Owner:      owner,
		Mode:       gs.Settings.Mode,
		Difficulty: gs.Settings.Difficulty,
		Computer:   gs.Settings.Mode == app.Computer,
		Order:      normalizeOrder(order),
	}
	v.OtherOrder = "desc"
	if v.Order == "desc" {
		v.OtherOrder = "asc"
	}
	v.Status, v.StatusClass = statusText(gs)

	v.Rows = make([][]cellView, 3)
	for idx, c := range g.Board {
		r, col := domain.RowCol(idx)
		v.Rows[r] = append(v.Rows[r], cellView{
			Idx:      idx,
			Row:      r,
			Col:      col,
			Mark:     c.String(),
			Winning:  g.Outcome.Contains(idx),
			Playable: canPlay && c == domain.Empty,
		})
	}

	v.Moves = make([]moveView, 0, len(g.History))
	for step := range g.History {
		v.Moves = append(v.Moves, moveView{Step: step, Text: moveText(g, step), Current: step == g.Step})
	}
	if v.Order == "desc" {
		for i, j := 0, len(v.Moves)-1; i < j; i, j = i+1, j-1 {
			v.Moves[i], v.Moves[j] = v.Moves[j], v.Moves[i]
		}
	}
	return v
}

func statusText(gs app.GameState) (text, class string) {
	g := gs.Game
	switch {
	case g.Outcome.Status == domain.Win:
		return "Winner: " + g.Winner.String(), "win"
	case g.Outcome.Status == domain.Draw:
		return "Game ended in a draw!", "draw"
	case gs.ComputerToMove():
		return fmt.Sprintf("Computer's turn (%s)", gs.Settings.ComputerMark), "computer"
	default:
		return "Next player: " + g.Turn.String(), "next"
	}
}

func moveText(g domain.Game, step int) string {
	loc := ""
	if m, ok := g.MoveAt(step); ok {
		loc = " " + m.Label()
	}
	if step == g.Step {
		if step == 0 {
			return "You are at move #0 (game start)"
		}
		return fmt.Sprintf("You are at move #%d%s", step, loc)
	}
	if step == 0 {
		return "Go to game start"
	}
	return fmt.Sprintf("Go to move #%d%s", step, loc)
}

func normalizeOrder(order string) string {
	if order == "desc" {
		return "desc"
	}
	return "asc"
}

// ensurePlayerCookie returns the visitor's player id, issuing one on the first
// visit.
func ensurePlayerCookie(w http.ResponseWriter, r *http.Request) string {
	if c, err := r.Cookie(playerCookie); err == nil && c.Value != "" {
		return c.Value
	}
	v := app.NewPlayerID()
	http.SetCookie(w, &http.Cookie{Name: playerCookie, Value: v, Path: "/", HttpOnly: true, SameSite: http.SameSiteLaxMode})
	return v
}
