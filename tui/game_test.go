package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/wricardo/mcp-training/slidepuzzle/game/engine"
)

// keyMsg builds the key message a terminal would deliver for s.
func keyMsg(s string) tea.KeyMsg {
	switch s {
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
	}
}

// updateGame drives one Update and asserts the model stayed a game model.
func updateGame(t *testing.T, m tea.Model, msg tea.Msg) (GameModel, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	gm, ok := next.(GameModel)
	if !ok {
		t.Fatalf("Update() returned %T, want GameModel", next)
	}
	return gm, cmd
}

// pinBoard replaces the shuffled board with a known layout.
func pinBoard(t *testing.T, m *GameModel, board engine.Board) {
	t.Helper()
	state := m.engine.GetState()
	state.Board = board
	if err := m.engine.SetState(state); err != nil {
		t.Fatalf("SetState() error = %v", err)
	}
}

func TestNewGameModel(t *testing.T) {
	m := NewGameModel(80, 24, engine.Easy)

	state := m.engine.GetState()
	if state.Phase != engine.PhaseRunning {
		t.Errorf("Phase = %v, want %v", state.Phase, engine.PhaseRunning)
	}
	if state.GridSize != 3 {
		t.Errorf("GridSize = %d, want 3", state.GridSize)
	}
	if len(state.Board) != 9 {
		t.Errorf("Board length = %d, want 9", len(state.Board))
	}
	if !m.soundEnabled || !m.visualEnabled {
		t.Error("Expected sound and flash feedback enabled by default")
	}
	if m.Init() == nil {
		t.Error("Init() = nil, want the clock command")
	}
}

func TestNewGameModel_UnknownDifficulty(t *testing.T) {
	m := NewGameModel(0, 0, engine.Difficulty("impossible"))

	if got := m.engine.GetState().GridSize; got != 3 {
		t.Errorf("GridSize = %d, want the 3x3 default", got)
	}
}

func TestNewGameModelFromConfig(t *testing.T) {
	config, err := engine.BuiltinConfig(engine.Medium)
	if err != nil {
		t.Fatalf("BuiltinConfig() error = %v", err)
	}

	m, err := NewGameModelFromConfig(0, 0, config)
	if err != nil {
		t.Fatalf("NewGameModelFromConfig() error = %v", err)
	}
	if got := m.engine.GetState().GridSize; got != 4 {
		t.Errorf("GridSize = %d, want 4", got)
	}

	bad := &engine.GameConfig{Name: "bad", Description: "x", GridSize: 99, TimeBudgetSeconds: 60}
	if _, err := NewGameModelFromConfig(0, 0, bad); err == nil {
		t.Error("Expected error for invalid config")
	}
}

func TestCursorWraps(t *testing.T) {
	tests := []struct {
		name string
		keys []string
		want engine.Position
	}{
		{"up from top wraps to bottom", []string{"up"}, engine.Position{Row: 2, Col: 0}},
		{"left from edge wraps right", []string{"left"}, engine.Position{Row: 0, Col: 2}},
		{"full column walk wraps home", []string{"down", "down", "down"}, engine.Position{Row: 0, Col: 0}},
		{"full row walk wraps home", []string{"right", "right", "right"}, engine.Position{Row: 0, Col: 0}},
		{"vim keys move too", []string{"j", "l"}, engine.Position{Row: 1, Col: 1}},
		{"k wraps like up", []string{"k"}, engine.Position{Row: 2, Col: 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var m tea.Model = NewGameModel(0, 0, engine.Easy)
			var gm GameModel
			for _, k := range tt.keys {
				gm, _ = updateGame(t, m, keyMsg(k))
				m = gm
			}
			if gm.cursor != tt.want {
				t.Errorf("cursor = %+v, want %+v", gm.cursor, tt.want)
			}
		})
	}
}

func TestClickSlidesTile(t *testing.T) {
	m := NewGameModel(0, 0, engine.Easy)
	pinBoard(t, m, engine.Board{1, 2, 3, 4, engine.Empty, 5, 7, 8, 6})
	m.cursor = engine.Position{Row: 1, Col: 2} // tile 5, next to the hole

	gm, cmd := updateGame(t, m, keyMsg("enter"))

	state := gm.engine.GetState()
	if state.Moves != 1 {
		t.Errorf("Moves = %d, want 1", state.Moves)
	}
	if state.Board[4] != 5 || state.Board[5] != engine.Empty {
		t.Errorf("Board after slide = %v, want tile 5 at index 4", state.Board)
	}
	if gm.bell || gm.shake {
		t.Error("Plain moves should not ring the bell or shake")
	}
	if cmd != nil {
		t.Error("Plain moves should not start a flash chain")
	}
}

func TestClickRejected(t *testing.T) {
	m := NewGameModel(0, 0, engine.Easy)
	pinBoard(t, m, engine.Board{1, 2, 3, 4, engine.Empty, 5, 7, 8, 6})
	m.cursor = engine.Position{Row: 2, Col: 0} // tile 7, not adjacent

	gm, _ := updateGame(t, m, keyMsg("enter"))

	state := gm.engine.GetState()
	if state.Moves != 0 {
		t.Errorf("Moves = %d, want 0", state.Moves)
	}
	if !gm.bell {
		t.Error("Rejected clicks should ring the bell")
	}
	if !gm.shake {
		t.Error("Rejected clicks should shake the cursor cell")
	}
	if !strings.Contains(state.Message, "not next to the empty cell") {
		t.Errorf("Message = %q, want the can't-move text", state.Message)
	}
}

func TestClickRejected_FeedbackDisabled(t *testing.T) {
	m := NewGameModel(0, 0, engine.Easy)
	pinBoard(t, m, engine.Board{1, 2, 3, 4, engine.Empty, 5, 7, 8, 6})
	m.cursor = engine.Position{Row: 2, Col: 0}
	m.soundEnabled = false
	m.visualEnabled = false

	gm, _ := updateGame(t, m, keyMsg("enter"))

	if gm.bell {
		t.Error("Bell should stay quiet with sound off")
	}
	if gm.shake {
		t.Error("Shake should stay off with visuals off")
	}
}

func TestClickEmptyCell(t *testing.T) {
	m := NewGameModel(0, 0, engine.Easy)
	pinBoard(t, m, engine.Board{1, 2, 3, 4, engine.Empty, 5, 7, 8, 6})
	m.cursor = engine.Position{Row: 1, Col: 1}

	gm, cmd := updateGame(t, m, keyMsg("enter"))

	state := gm.engine.GetState()
	if state.Moves != 0 {
		t.Errorf("Moves = %d, want 0", state.Moves)
	}
	if gm.bell || gm.shake || cmd != nil {
		t.Error("Clicking the hole should be silent")
	}
}

func TestClickSolves(t *testing.T) {
	m := NewGameModel(0, 0, engine.Easy)
	pinBoard(t, m, engine.Board{1, 2, 3, 4, 5, 6, 7, engine.Empty, 8})
	m.cursor = engine.Position{Row: 2, Col: 2} // tile 8 completes the board

	gm, cmd := updateGame(t, m, keyMsg("enter"))

	state := gm.engine.GetState()
	if state.Phase != engine.PhaseSolved {
		t.Fatalf("Phase = %v, want %v", state.Phase, engine.PhaseSolved)
	}
	if !state.Celebrating {
		t.Error("Expected the celebrating flag raised")
	}
	if !gm.bell {
		t.Error("Solving should ring the bell")
	}
	if !gm.flashOn {
		t.Error("Solving should light the first flash frame")
	}
	if cmd == nil {
		t.Fatal("Solving should start the flash chain")
	}

	// Stale flash messages from an older chain are ignored.
	gm2, _ := updateGame(t, gm, flashMsg{tag: gm.flashTag + 99, frames: 1})
	if !gm2.engine.GetState().Celebrating {
		t.Error("Stale flash message should not clear the celebration")
	}

	// A mid-chain frame toggles; the last frame lowers the flag.
	gm3, cmd3 := updateGame(t, gm2, flashMsg{tag: gm2.flashTag, frames: 2})
	if cmd3 == nil {
		t.Error("Mid-chain flash should schedule the next frame")
	}
	gm4, cmd4 := updateGame(t, gm3, flashMsg{tag: gm3.flashTag, frames: 1})
	if cmd4 != nil {
		t.Error("Final flash frame should end the chain")
	}
	if gm4.engine.GetState().Celebrating {
		t.Error("Final flash frame should clear the celebration")
	}
	if gm4.flashOn {
		t.Error("Flash should be off after the celebration clears")
	}
}

func TestTick(t *testing.T) {
	m := NewGameModel(0, 0, engine.Easy)

	gm, cmd := updateGame(t, m, tickMsg{tag: m.tickTag})
	if got := gm.engine.GetState().Elapsed; got != 1 {
		t.Errorf("Elapsed = %d, want 1", got)
	}
	if cmd == nil {
		t.Error("Tick should re-arm while the board is running")
	}

	// A tick from a stale chain must not advance the clock.
	gm2, cmd2 := updateGame(t, gm, tickMsg{tag: gm.tickTag + 99})
	if got := gm2.engine.GetState().Elapsed; got != 1 {
		t.Errorf("Elapsed after stale tick = %d, want 1", got)
	}
	if cmd2 != nil {
		t.Error("Stale ticks should not re-arm the chain")
	}
}

func TestTick_TimesOut(t *testing.T) {
	m := NewGameModel(0, 0, engine.Easy)
	state := m.engine.GetState()
	state.Elapsed = state.TimeBudget - 1
	if err := m.engine.SetState(state); err != nil {
		t.Fatalf("SetState() error = %v", err)
	}

	gm, cmd := updateGame(t, m, tickMsg{tag: m.tickTag})

	got := gm.engine.GetState()
	if got.Phase != engine.PhaseTimedOut {
		t.Fatalf("Phase = %v, want %v", got.Phase, engine.PhaseTimedOut)
	}
	if got.Elapsed != got.TimeBudget {
		t.Errorf("Elapsed = %d, want clamped to %d", got.Elapsed, got.TimeBudget)
	}
	if !gm.bell {
		t.Error("Timing out should ring the bell")
	}
	if cmd != nil {
		t.Error("The clock chain should stop at a terminal phase")
	}
	if !strings.Contains(gm.View(), "Time's up!") {
		t.Error("Expected the timeout banner")
	}
}

func TestReshuffle(t *testing.T) {
	m := NewGameModel(0, 0, engine.Easy)
	state := m.engine.GetState()
	state.Elapsed = state.TimeBudget - 1
	if err := m.engine.SetState(state); err != nil {
		t.Fatalf("SetState() error = %v", err)
	}
	gm, _ := updateGame(t, m, tickMsg{tag: m.tickTag})

	gm2, cmd := updateGame(t, gm, keyMsg("r"))

	got := gm2.engine.GetState()
	if got.Phase != engine.PhaseRunning {
		t.Errorf("Phase = %v, want %v", got.Phase, engine.PhaseRunning)
	}
	if got.Moves != 0 || got.Elapsed != 0 {
		t.Errorf("Moves/Elapsed = %d/%d, want a fresh run", got.Moves, got.Elapsed)
	}
	if cmd == nil {
		t.Error("Reshuffling should re-arm the clock")
	}
	if gm2.tickTag == gm.tickTag {
		t.Error("Reshuffling should retire the old clock chain")
	}
}

func TestAdvanceLevel(t *testing.T) {
	m := NewGameModel(0, 0, engine.Easy)
	pinBoard(t, m, engine.Board{1, 2, 3, 4, 5, 6, 7, engine.Empty, 8})
	m.cursor = engine.Position{Row: 2, Col: 2}
	gm, _ := updateGame(t, m, keyMsg("enter"))

	gm2, cmd := updateGame(t, gm, keyMsg("n"))

	got := gm2.engine.GetState()
	if got.Level != 2 {
		t.Errorf("Level = %d, want 2", got.Level)
	}
	if got.Phase != engine.PhaseRunning {
		t.Errorf("Phase = %v, want %v", got.Phase, engine.PhaseRunning)
	}
	if cmd == nil {
		t.Error("Advancing should re-arm the clock")
	}
}

func TestAdvanceLevel_NotSolved(t *testing.T) {
	m := NewGameModel(0, 0, engine.Easy)

	gm, cmd := updateGame(t, m, keyMsg("n"))

	if got := gm.engine.GetState().Level; got != 1 {
		t.Errorf("Level = %d, want 1", got)
	}
	if cmd != nil {
		t.Error("A refused advance should not arm anything")
	}
	if !gm.bell {
		t.Error("A refused advance should ring the bell")
	}
}

func TestToggles(t *testing.T) {
	var m tea.Model = NewGameModel(0, 0, engine.Easy)

	gm, _ := updateGame(t, m, keyMsg("s"))
	if gm.soundEnabled {
		t.Error("s should toggle sound off")
	}
	gm2, _ := updateGame(t, gm, keyMsg("v"))
	if gm2.visualEnabled {
		t.Error("v should toggle the flash off")
	}

	hud := gm2.renderHUD(gm2.engine.GetState())
	if !strings.Contains(hud, "sound [off]") || !strings.Contains(hud, "flash [off]") {
		t.Errorf("HUD should show both toggles off, got %q", hud)
	}

	gm3, _ := updateGame(t, gm2, keyMsg("s"))
	if !gm3.soundEnabled {
		t.Error("s should toggle sound back on")
	}
}

func TestBellPrefix(t *testing.T) {
	m := NewGameModel(0, 0, engine.Easy)
	pinBoard(t, m, engine.Board{1, 2, 3, 4, engine.Empty, 5, 7, 8, 6})
	m.cursor = engine.Position{Row: 2, Col: 0}

	gm, _ := updateGame(t, m, keyMsg("enter"))
	if !strings.HasPrefix(gm.View(), "\a") {
		t.Error("A rejected click should prefix the frame with the bell")
	}

	// The bell rings once; the next update clears it.
	gm2, _ := updateGame(t, gm, keyMsg("l"))
	if strings.HasPrefix(gm2.View(), "\a") {
		t.Error("The bell should not ring on the following frame")
	}
}

func TestGameView(t *testing.T) {
	m := NewGameModel(80, 24, engine.Easy)
	pinBoard(t, m, engine.Board{1, 2, 3, 4, engine.Empty, 5, 7, 8, 6})

	view := m.View()

	for _, want := range []string{
		"Slide the tiles to restore the order!",
		"Moves: 0",
		"Left: 15:00",
		"Level: 1",
		"easy · 3x3",
		"8",
	} {
		if !strings.Contains(view, want) {
			t.Errorf("View() missing %q", want)
		}
	}
}

func TestSolvedBanner(t *testing.T) {
	m := NewGameModel(0, 0, engine.Easy)
	pinBoard(t, m, engine.Board{1, 2, 3, 4, 5, 6, 7, engine.Empty, 8})
	m.cursor = engine.Position{Row: 2, Col: 2}
	gm, _ := updateGame(t, m, keyMsg("enter"))

	// While celebrating the board stays on screen for the flash.
	if strings.Contains(gm.View(), "★ Solved! ★") {
		t.Error("The banner should wait for the celebration to end")
	}

	gm.engine.ClearCelebration()
	view := gm.View()
	for _, want := range []string{"★ Solved! ★", "Moves: 1", "Time:"} {
		if !strings.Contains(view, want) {
			t.Errorf("View() missing %q", want)
		}
	}
}

func TestMenuKey(t *testing.T) {
	m := NewGameModel(42, 17, engine.Easy)

	next, _ := m.Update(keyMsg("m"))
	menu, ok := next.(*MenuModel)
	if !ok {
		t.Fatalf("Update() returned %T, want *MenuModel", next)
	}
	if menu.width != 42 || menu.height != 17 {
		t.Errorf("Menu size = %dx%d, want 42x17", menu.width, menu.height)
	}
}

func TestQuitKey(t *testing.T) {
	m := NewGameModel(0, 0, engine.Easy)

	_, cmd := m.Update(keyMsg("q"))
	if cmd == nil {
		t.Fatal("q should quit")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Errorf("q produced %T, want tea.QuitMsg", cmd())
	}
}

func TestWindowSize(t *testing.T) {
	m := NewGameModel(0, 0, engine.Easy)

	gm, _ := updateGame(t, m, tea.WindowSizeMsg{Width: 120, Height: 40})
	if gm.width != 120 || gm.height != 40 {
		t.Errorf("Size = %dx%d, want 120x40", gm.width, gm.height)
	}
}
