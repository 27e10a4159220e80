package tui

import (
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/wricardo/mcp-training/slidepuzzle/game/engine"
)

const flashInterval = 300 * time.Millisecond

// flashFrames spreads the celebration window across flash toggles.
const flashFrames = int(engine.CelebrationSeconds * time.Second / flashInterval)

// chainSerial hands out tags for the tick and flash command chains. A model
// only honors messages carrying its current tag, so chains left over from a
// previous board or a previous model die instead of doubling up.
var chainSerial atomic.Int64

func nextChainTag() int64 { return chainSerial.Add(1) }

// tickMsg advances the engine clock once per second.
type tickMsg struct {
	tag int64
}

// flashMsg toggles the celebration flash; frames counts down to the clear.
type flashMsg struct {
	tag    int64
	frames int
}

func tickCmd(tag int64) tea.Cmd {
	return tea.Tick(time.Second, func(time.Time) tea.Msg {
		return tickMsg{tag: tag}
	})
}

func flashCmd(tag int64, frames int) tea.Cmd {
	return tea.Tick(flashInterval, func(time.Time) tea.Msg {
		return flashMsg{tag: tag, frames: frames}
	})
}

// GameModel is the interactive board. It owns a private engine; bubbletea
// delivers messages one at a time, which gives the engine the serialized
// access it needs.
type GameModel struct {
	engine *engine.PuzzleEngine
	KeyMap KeyMap

	cursor engine.Position
	width  int
	height int

	soundEnabled  bool
	visualEnabled bool

	flashOn  bool
	shake    bool
	bell     bool
	tickTag  int64
	flashTag int64
}

// NewGameModel starts a board on one of the built-in difficulty tiers.
// Unknown tiers fall back to the default configuration.
func NewGameModel(width, height int, d engine.Difficulty) *GameModel {
	eng, err := engine.NewEngineForDifficulty(d)
	if err != nil {
		eng = engine.NewEngineWithDefaults()
	}
	return newGameModel(width, height, eng)
}

// NewGameModelFromConfig starts a board on a custom configuration.
func NewGameModelFromConfig(width, height int, config *engine.GameConfig) (*GameModel, error) {
	eng, err := engine.NewEngine(config)
	if err != nil {
		return nil, err
	}
	return newGameModel(width, height, eng), nil
}

func newGameModel(width, height int, eng *engine.PuzzleEngine) *GameModel {
	eng.Initialize()
	return &GameModel{
		engine:        eng,
		KeyMap:        Keys,
		width:         width,
		height:        height,
		soundEnabled:  true,
		visualEnabled: true,
		tickTag:       nextChainTag(),
	}
}

// Init arms the clock. Initialize already put the board in the running
// phase, so the countdown starts with the first frame.
func (m GameModel) Init() tea.Cmd {
	return tickCmd(m.tickTag)
}

func (m GameModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	m.bell = false

	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tickMsg:
		if msg.tag != m.tickTag {
			return m, nil
		}
		return m.handleTick()

	case flashMsg:
		if msg.tag != m.flashTag {
			return m, nil
		}
		return m.handleFlash(msg.frames)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	}

	return m, nil
}

func (m GameModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.shake = false

	switch {
	case key.Matches(msg, m.KeyMap.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.KeyMap.Menu):
		return NewMenuModel(m.width, m.height), nil
	case key.Matches(msg, m.KeyMap.Up):
		m.moveCursor(-1, 0)
	case key.Matches(msg, m.KeyMap.Down):
		m.moveCursor(1, 0)
	case key.Matches(msg, m.KeyMap.Left):
		m.moveCursor(0, -1)
	case key.Matches(msg, m.KeyMap.Right):
		m.moveCursor(0, 1)
	case key.Matches(msg, m.KeyMap.Click):
		return m.click()
	case key.Matches(msg, m.KeyMap.Restart):
		return m.reshuffle()
	case key.Matches(msg, m.KeyMap.NextLevel):
		return m.advance()
	case key.Matches(msg, m.KeyMap.Sound):
		m.soundEnabled = !m.soundEnabled
	case key.Matches(msg, m.KeyMap.Visual):
		m.visualEnabled = !m.visualEnabled
	}

	return m, nil
}

// moveCursor wraps around the board edges.
func (m *GameModel) moveCursor(dRow, dCol int) {
	size := m.engine.GetState().GridSize
	m.cursor.Row = (m.cursor.Row + dRow + size) % size
	m.cursor.Col = (m.cursor.Col + dCol + size) % size
}

func (m GameModel) click() (tea.Model, tea.Cmd) {
	state := m.engine.GetState()
	index := engine.IndexOf(m.cursor, state.GridSize)
	outcome := m.engine.ClickTile(index)

	var cmd tea.Cmd
	for _, sig := range outcome.Signals {
		switch sig {
		case engine.SignalError:
			if m.soundEnabled {
				m.bell = true
			}
			if m.visualEnabled {
				m.shake = true
			}
		case engine.SignalSuccess:
			if m.soundEnabled {
				m.bell = true
			}
			// The flash chain also lowers the celebrating flag when it
			// runs out, so it starts even with the visuals toggled off.
			m.flashTag = nextChainTag()
			m.flashOn = m.visualEnabled
			cmd = flashCmd(m.flashTag, flashFrames)
		}
	}
	return m, cmd
}

func (m GameModel) reshuffle() (tea.Model, tea.Cmd) {
	m.engine.Restart()
	m.flashOn = false
	m.tickTag = nextChainTag()
	return m, tickCmd(m.tickTag)
}

func (m GameModel) advance() (tea.Model, tea.Cmd) {
	if !m.engine.AdvanceLevel() {
		if m.soundEnabled {
			m.bell = true
		}
		return m, nil
	}
	m.flashOn = false
	m.tickTag = nextChainTag()
	return m, tickCmd(m.tickTag)
}

func (m GameModel) handleTick() (tea.Model, tea.Cmd) {
	signals := m.engine.Tick()
	for _, sig := range signals {
		if sig == engine.SignalError && m.soundEnabled {
			m.bell = true
		}
	}
	// The chain stops once the run leaves the running phase; reshuffle and
	// advance re-arm it under a fresh tag.
	if m.engine.GetState().Phase == engine.PhaseRunning {
		return m, tickCmd(m.tickTag)
	}
	return m, nil
}

func (m GameModel) handleFlash(frames int) (tea.Model, tea.Cmd) {
	state := m.engine.GetState()
	if !state.Celebrating {
		m.flashOn = false
		return m, nil
	}
	if frames <= 1 {
		m.engine.ClearCelebration()
		m.flashOn = false
		return m, nil
	}
	m.flashOn = m.visualEnabled && !m.flashOn
	return m, flashCmd(m.flashTag, frames-1)
}

func (m GameModel) View() string {
	state := m.engine.GetState()

	var view string
	switch {
	case state.Phase == engine.PhaseSolved && !state.Celebrating:
		view = m.renderSolvedScreen(state)
	case state.Phase == engine.PhaseTimedOut:
		view = m.renderTimeoutScreen(state)
	default:
		view = m.renderGame(state)
	}

	if m.bell {
		view = "\a" + view
	}
	return view
}

func (m GameModel) renderGame(state *engine.GameState) string {
	parts := []string{m.renderBoard(state)}
	if state.Message != "" {
		if m.shake {
			parts = append(parts, statusErrorStyle.Render(state.Message))
		} else {
			parts = append(parts, statusStyle.Render(state.Message))
		}
	}
	parts = append(parts, m.renderHUD(state))

	view := lipgloss.JoinVertical(lipgloss.Center, parts...)
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, view)
}

func (m GameModel) renderBoard(state *engine.GameState) string {
	size := state.GridSize
	flash := state.Celebrating && m.flashOn

	rows := make([]string, 0, size)
	for row := 0; row < size; row++ {
		cells := make([]string, 0, size)
		for col := 0; col < size; col++ {
			index := row*size + col
			tile := state.Board[index]

			label := "  "
			if tile != engine.Empty {
				label = fmt.Sprintf("%2d", int(tile))
			}

			isCursor := m.cursor.Row == row && m.cursor.Col == col
			style := tileStyleFor(tileLook{
				empty:     tile == engine.Empty,
				cursor:    isCursor,
				clickable: m.engine.CanClick(index),
				inPlace:   tile != engine.Empty && engine.TargetIndex(tile) == index,
				flash:     flash,
				shake:     m.shake && isCursor,
			})
			cells = append(cells, style.Render(label))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cells...))
	}
	return strings.Join(rows, "\n")
}

func (m GameModel) renderHUD(state *engine.GameState) string {
	clock := engine.FormatElapsed(state.TimeLeft)
	if state.Phase == engine.PhaseRunning && state.TimeLeft <= 30 {
		clock = lowTimeStyle.Render(clock)
	}

	onOff := func(enabled bool) string {
		if enabled {
			return "on"
		}
		return "off"
	}

	info := fmt.Sprintf("Moves: %d   Left: %s   Level: %d\n", state.Moves, clock, state.Level)
	info += fmt.Sprintf("%s · %dx%d\n\n", state.ConfigName, state.GridSize, state.GridSize)
	info += "arrows/hjkl move · enter/space slide · r reshuffle · n next level\n"
	info += fmt.Sprintf("s sound [%s] · v flash [%s] · m menu · q quit", onOff(m.soundEnabled), onOff(m.visualEnabled))
	return hudStyle.Render(info)
}

func (m GameModel) renderSolvedScreen(state *engine.GameState) string {
	banner := fmt.Sprintf("%s\n\n%s\n%s\n%s\n\n%s",
		solvedTitleStyle.Render("★ Solved! ★"),
		solvedTextStyle.Render(fmt.Sprintf("Level: %d", state.Level)),
		solvedTextStyle.Render(fmt.Sprintf("Moves: %d", state.Moves)),
		solvedTextStyle.Render(fmt.Sprintf("Time:  %s", state.Clock)),
		bannerHintStyle.Render("n next level · r reshuffle · q quit"))

	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center,
		solvedBoxStyle.Render(banner))
}

func (m GameModel) renderTimeoutScreen(state *engine.GameState) string {
	banner := fmt.Sprintf("%s\n\n%s\n%s\n\n%s",
		timeoutTitleStyle.Render("Time's up!"),
		bannerTextStyle.Render(fmt.Sprintf("Moves: %d", state.Moves)),
		bannerTextStyle.Render(fmt.Sprintf("Level: %d", state.Level)),
		bannerHintStyle.Render("r try again · m menu · q quit"))

	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center,
		timeoutBoxStyle.Render(banner))
}
