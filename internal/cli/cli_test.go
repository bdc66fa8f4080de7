package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jaminalder/tictactoe/internal/config"
	"github.com/jaminalder/tictactoe/internal/dependencies/mocks"
)

func testDeps() deps {
	return deps{
		random: mocks.NewMockRandom(),
		clock:  mocks.NewMockClock(time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)),
		stderr: io.Discard,
	}
}

func defaultTestConfig() *config.Config {
	cfg := config.Default()
	cfg.Addr = "127.0.0.1:0"
	return cfg
}

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd(testDeps())
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestMove_Text(t *testing.T) {
	out, err := run(t, "", "move", "--board", "XX.OO....", "--difficulty", "hard", "--mark", "O")
	require.NoError(t, err)
	assert.Equal(t, "5 (2, 3)\n", out)
}

func TestMove_InfersMarkAndBlocks(t *testing.T) {
	out, err := run(t, "", "move", "--board", "XX.O.....", "--difficulty", "medium")
	require.NoError(t, err)
	assert.Equal(t, "2 (1, 3)\n", out)
}

func TestMove_JSON(t *testing.T) {
	out, err := run(t, "", "move", "--board", "X../.O./...", "--difficulty", "hard", "--mark", "X", "-o", "json")
	require.NoError(t, err)
	var res MoveResult
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Equal(t, "X...O....", res.Board)
	assert.Equal(t, "hard", res.Difficulty)
	assert.Equal(t, "X", res.Mark)
	assert.GreaterOrEqual(t, res.Move, 0)
	assert.Equal(t, res.Move, res.Row*3+res.Col)
}

func TestMove_FullBoard(t *testing.T) {
	out, err := run(t, "", "move", "--board", "XOXXOOOXX")
	require.NoError(t, err)
	assert.Equal(t, "no move: the board is full\n", out)
}

func TestMove_Errors(t *testing.T) {
	_, err := run(t, "", "move", "--board", "XO")
	assert.Error(t, err)
	_, err = run(t, "", "move", "--board", ".........", "--difficulty", "impossible")
	assert.Error(t, err)
	_, err = run(t, "", "move", "--board", ".........", "--mark", "Z")
	assert.Error(t, err)
	_, err = run(t, "", "move")
	assert.Error(t, err)
	_, err = run(t, "", "move", "--board", ".........", "-o", "yaml")
	assert.Error(t, err)
}

func TestAnalyze_Scores(t *testing.T) {
	out, err := run(t, "", "analyze", "--board", "XOXXO.OX.", "--mark", "O")
	require.NoError(t, err)
	assert.Contains(t, out, "O to move")
	assert.Contains(t, out, "  5 (2, 3) +0  <- best\n")
	assert.Contains(t, out, "  8 (3, 3) +0\n")
	assert.Contains(t, out, "searched ")

	out, err = run(t, "", "analyze", "--board", "XXO.O..X.", "-o", "json")
	require.NoError(t, err)
	var a Analysis
	require.NoError(t, json.Unmarshal([]byte(out), &a))
	assert.Equal(t, "in_progress", a.Status)
	assert.Equal(t, "O", a.Mark)
	assert.Equal(t, 6, a.Best)
	assert.Len(t, a.Scores, 4)
	assert.Positive(t, a.Nodes)
}

func TestAnalyze_Finished(t *testing.T) {
	out, err := run(t, "", "analyze", "--board", "XXXOO....")
	require.NoError(t, err)
	assert.Contains(t, out, "Winner: X on [0 1 2]")
	assert.Contains(t, out, " 1 | X  X  X |")
}

func TestPlay_Session(t *testing.T) {
	input := strings.Join([]string{
		"1 1",     // X corner, computer takes the center
		"1 1",     // taken
		"history", // two moves
		"jump 1",  // computer to move at step 1
		"2 2",     // refused
		"jump 0",
		"5", // X center from the start
		"history",
		"quit",
	}, "\n") + "\n"
	out, err := run(t, input, "play", "--difficulty", "hard", "--computer-mark", "O")
	require.NoError(t, err)

	assert.Contains(t, out, "Step 0 of 0. Next player: X")
	assert.Contains(t, out, "Step 2 of 2. Next player: X")
	assert.Contains(t, out, "that cell is taken")
	assert.Contains(t, out, "  #1 X (1, 1)\n  #2 O (2, 2)\n")
	assert.Contains(t, out, "Step 1 of 2. Computer's turn (O)")
	assert.Contains(t, out, "the computer moves from this step")
	assert.Contains(t, out, "  #1 X (2, 2)\n")
}

func TestPlay_ComputerOpensAsX(t *testing.T) {
	out, err := run(t, "quit\n", "play", "--difficulty", "hard", "--computer-mark", "X")
	require.NoError(t, err)
	assert.Contains(t, out, " 2 | .  X  . |")
	assert.Contains(t, out, "Step 1 of 1. Next player: O")
}

func TestPlay_EndOfInput(t *testing.T) {
	out, err := run(t, "bogus\n", "play")
	require.NoError(t, err)
	assert.Contains(t, out, `unknown command "bogus"`)
}

func TestParseCell(t *testing.T) {
	r, c, err := parseCell([]string{"9"})
	require.NoError(t, err)
	assert.Equal(t, [2]int{2, 2}, [2]int{r, c})
	r, c, err = parseCell([]string{"2", "3"})
	require.NoError(t, err)
	assert.Equal(t, [2]int{1, 2}, [2]int{r, c})
	_, _, err = parseCell([]string{"0"})
	assert.Error(t, err)
	_, _, err = parseCell([]string{"a", "b"})
	assert.Error(t, err)
}

func TestServe_RejectsInvalidConfig(t *testing.T) {
	_, err := run(t, "", "serve", "--log-format", "xml")
	assert.Error(t, err)
}

func TestRunServer_StopsOnCancel(t *testing.T) {
	e := &env{deps: testDeps(), cfg: defaultTestConfig(), output: "text"}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- runServer(ctx, e, e.cliLogger()) }()
	time.Sleep(50 * time.Millisecond)
	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}

func TestRunServer_ListenError(t *testing.T) {
	e := &env{deps: testDeps(), cfg: defaultTestConfig(), output: "text"}
	e.cfg.Addr = "256.0.0.1:http"
	err := runServer(context.Background(), e, e.cliLogger())
	assert.Error(t, err)
}
