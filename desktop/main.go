// Desktop client for the slide puzzle server. It speaks the same REST and
// WebSocket API as the browser client: state updates arrive over the socket
// while it is up, with a half-second polling fallback otherwise.
package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"image/color"
	"io"
	"log"
	"math"
	"net/http"
	"net/url"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

const (
	cellSize     = 80
	headerHeight = 90
	screenWidth  = 520
	screenHeight = 560
	baseURL      = "http://localhost:8080"

	slideDuration = 120 * time.Millisecond // Tile slide animation
	shakeDuration = 300 * time.Millisecond // Rejected click shake
	flashInterval = 300 * time.Millisecond // Celebration pulse cadence
)

// ScreenType represents different screens in the app
type ScreenType int

const (
	ScreenWelcome ScreenType = iota
	ScreenGame
)

var (
	colorBg      = color.RGBA{26, 27, 38, 255}
	colorPanel   = color.RGBA{36, 40, 59, 255}
	colorTile    = color.RGBA{65, 72, 104, 255}
	colorInPlace = color.RGBA{45, 74, 45, 255}
	colorGold    = color.RGBA{255, 215, 0, 255}
	colorDim     = color.RGBA{48, 52, 70, 255}
)

// GameState mirrors the server's session state payload.
type GameState struct {
	Board         []int  `json:"board"`
	GridSize      int    `json:"grid_size"`
	EmptyIndex    int    `json:"empty_index"`
	Moves         int    `json:"moves"`
	TimeLeft      int    `json:"time_left_seconds"`
	Clock         string `json:"clock"`
	Level         int    `json:"level"`
	Phase         string `json:"phase"`
	Solved        bool   `json:"solved"`
	TimedOut      bool   `json:"timed_out"`
	Celebrating   bool   `json:"celebrating"`
	Message       string `json:"message"`
	ConfigName    string `json:"config_name"`
	ScrambleLevel string `json:"scramble_level,omitempty"`
}

// WSMessage represents WebSocket message wrapper
type WSMessage struct {
	SessionID string     `json:"session_id"`
	GameState *GameState `json:"game_state,omitempty"`
	Event     string     `json:"event,omitempty"`
}

// ClickResponse is the server's answer to a single click.
type ClickResponse struct {
	Accepted  bool       `json:"accepted"`
	GameState *GameState `json:"game_state"`
	Message   string     `json:"message"`
}

// StateEnvelope carries responses shaped {message, state}.
type StateEnvelope struct {
	Message string     `json:"message"`
	State   *GameState `json:"state"`
}

// SessionListItem represents a session from the server
type SessionListItem struct {
	ID         string     `json:"id"`
	ConfigName string     `json:"config_name"`
	GameState  *GameState `json:"game_state,omitempty"`
}

// ConfigListItem represents a difficulty configuration
type ConfigListItem struct {
	Name              string `json:"name"`
	Description       string `json:"description"`
	GridSize          int    `json:"grid_size"`
	TimeBudgetSeconds int    `json:"time_budget_seconds"`
}

// SessionData holds the watched session plus presentation timers.
type SessionData struct {
	sessionID  string
	state      *GameState
	wsConn     *websocket.Conn
	lastUpdate time.Time

	// Slide animation: the tile now at animTo is drawn moving in from
	// animFrom until slideDuration passes.
	animFrom  int
	animTo    int
	animStart time.Time
	animating bool

	shakeStart time.Time
	shaking    bool
}

// Game represents the desktop puzzle client
type Game struct {
	session       *SessionData
	stateMutex    sync.RWMutex
	currentScreen ScreenType
	welcomeScreen *WelcomeScreen

	statusMsg   string
	statusUntil time.Time
}

// WelcomeScreen manages the difficulty/session selection screen
type WelcomeScreen struct {
	availableConfigs  []ConfigListItem
	availableSessions []SessionListItem
	cursorPos         int
	loading           bool
	errorMsg          string
}

// NewGame creates a new client. A non-empty session ID skips the welcome
// screen and attaches to the running session.
func NewGame(sessionID string) *Game {
	g := &Game{
		currentScreen: ScreenWelcome,
		welcomeScreen: &WelcomeScreen{},
	}

	if sessionID != "" {
		g.openSession(sessionID)
		g.currentScreen = ScreenGame
	} else {
		g.loadWelcomeData()
	}

	return g
}

// openSession attaches to an existing session: WebSocket first, polling as
// the fallback.
func (g *Game) openSession(sessionID string) {
	session := &SessionData{
		sessionID:  sessionID,
		lastUpdate: time.Now(),
	}

	g.stateMutex.Lock()
	if g.session != nil && g.session.wsConn != nil {
		g.session.wsConn.Close()
	}
	g.session = session
	g.stateMutex.Unlock()

	if err := g.connectWebSocket(session); err != nil {
		log.Printf("WebSocket connect failed for %s: %v (falling back to polling)", sessionID, err)
	} else {
		go g.listenWebSocket(session)
	}

	if err := g.fetchGameState(session); err != nil {
		log.Printf("Initial state fetch failed for %s: %v", sessionID, err)
	}
}

// createSession creates a new game session with the given config name.
func (g *Game) createSession(configName string) (string, error) {
	payload, _ := json.Marshal(map[string]string{"config_id": configName})

	resp, err := http.Post(baseURL+"/api/sessions", "application/json", bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	if resp.StatusCode != http.StatusCreated {
		return "", fmt.Errorf("server said %s: %s", resp.Status, strings.TrimSpace(string(body)))
	}

	var result struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return "", fmt.Errorf("failed to parse session response: %v (body: %s)", err, string(body))
	}

	log.Printf("Created new session: %s (config: %s)", result.ID, configName)
	return result.ID, nil
}

// connectWebSocket establishes the WebSocket connection
func (g *Game) connectWebSocket(session *SessionData) error {
	if session.sessionID == "" {
		return fmt.Errorf("no session ID set")
	}

	base, err := url.Parse(baseURL)
	if err != nil {
		return err
	}

	wsURL := url.URL{Scheme: "ws", Host: base.Host, Path: "/ws"}
	q := wsURL.Query()
	q.Set("session", session.sessionID)
	wsURL.RawQuery = q.Encode()

	conn, _, err := websocket.DefaultDialer.Dial(wsURL.String(), nil)
	if err != nil {
		return err
	}

	session.wsConn = conn
	log.Printf("WebSocket connected for session %s", session.sessionID)
	return nil
}

// listenWebSocket consumes hub pushes. The hub coalesces queued updates into
// one frame separated by newlines, so each frame may carry several messages.
func (g *Game) listenWebSocket(session *SessionData) {
	defer func() {
		if session.wsConn != nil {
			session.wsConn.Close()
		}
	}()

	for {
		_, frame, err := session.wsConn.ReadMessage()
		if err != nil {
			log.Printf("WebSocket read error for %s: %v", session.sessionID, err)
			g.stateMutex.Lock()
			session.wsConn = nil
			g.stateMutex.Unlock()
			return
		}

		for _, raw := range bytes.Split(frame, []byte{'\n'}) {
			if len(raw) == 0 {
				continue
			}

			var wsMsg WSMessage
			if err := json.Unmarshal(raw, &wsMsg); err != nil {
				log.Printf("WebSocket JSON parse error: %v", err)
				continue
			}
			if wsMsg.Event == "state_update" && wsMsg.GameState != nil {
				g.applyState(session, wsMsg.GameState)
			}
		}
	}
}

// applyState installs a fresh state snapshot and arms the slide animation
// when exactly one move happened since the previous snapshot.
func (g *Game) applyState(session *SessionData, state *GameState) {
	g.stateMutex.Lock()
	defer g.stateMutex.Unlock()

	prev := session.state
	if prev != nil && state.Moves == prev.Moves+1 && state.EmptyIndex != prev.EmptyIndex {
		// The slid tile sits where the empty cell used to be, and it came
		// from where the empty cell is now.
		session.animFrom = state.EmptyIndex
		session.animTo = prev.EmptyIndex
		session.animStart = time.Now()
		session.animating = true
	}

	session.state = state
	session.lastUpdate = time.Now()
}

// fetchGameState polls the REST endpoint for the current state.
func (g *Game) fetchGameState(session *SessionData) error {
	if session.sessionID == "" {
		return fmt.Errorf("no session ID set")
	}

	resp, err := http.Get(fmt.Sprintf("%s/api/sessions/%s/state", baseURL, session.sessionID))
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	var state GameState
	if err := json.Unmarshal(body, &state); err != nil {
		return fmt.Errorf("failed to parse JSON: %v (body: %s)", err, string(body))
	}

	g.applyState(session, &state)
	return nil
}

// sendClick posts one click and applies the response. Rejected clicks arm
// the shake.
func (g *Game) sendClick(session *SessionData, index int) {
	payload, _ := json.Marshal(map[string]int{"index": index})

	resp, err := http.Post(
		fmt.Sprintf("%s/api/sessions/%s/click", baseURL, session.sessionID),
		"application/json", bytes.NewReader(payload))
	if err != nil {
		log.Printf("Click failed: %v", err)
		return
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return
	}

	var result ClickResponse
	if err := json.Unmarshal(body, &result); err != nil {
		log.Printf("Click response parse error: %v", err)
		return
	}

	if result.GameState != nil {
		g.applyState(session, result.GameState)
	}
	if !result.Accepted {
		g.stateMutex.Lock()
		session.shakeStart = time.Now()
		session.shaking = true
		g.stateMutex.Unlock()
	}
}

// postStateOp calls a {message, state} endpoint such as restart or advance.
func (g *Game) postStateOp(session *SessionData, op string) {
	resp, err := http.Post(
		fmt.Sprintf("%s/api/sessions/%s/%s", baseURL, session.sessionID, op),
		"application/json", strings.NewReader("{}"))
	if err != nil {
		log.Printf("%s failed: %v", op, err)
		return
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return
	}

	if resp.StatusCode != http.StatusOK {
		var apiErr struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(body, &apiErr) == nil && apiErr.Error != "" {
			g.showStatus(apiErr.Error)
		}
		return
	}

	var env StateEnvelope
	if err := json.Unmarshal(body, &env); err != nil || env.State == nil {
		return
	}
	g.applyState(session, env.State)
}

// showStatus displays a transient line under the board.
func (g *Game) showStatus(msg string) {
	g.stateMutex.Lock()
	g.statusMsg = msg
	g.statusUntil = time.Now().Add(2 * time.Second)
	g.stateMutex.Unlock()
}

// loadWelcomeData fetches the difficulty list and open sessions.
func (g *Game) loadWelcomeData() {
	ws := g.welcomeScreen
	ws.loading = true
	ws.errorMsg = ""

	resp, err := http.Get(baseURL + "/api/configs")
	if err != nil {
		ws.errorMsg = fmt.Sprintf("Error loading difficulties: %v", err)
		ws.loading = false
		return
	}
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()

	var configs []ConfigListItem
	if err := json.Unmarshal(body, &configs); err == nil {
		ws.availableConfigs = configs
	}
	if ws.cursorPos >= len(ws.availableConfigs) {
		ws.cursorPos = 0
	}

	resp, err = http.Get(baseURL + "/api/sessions")
	if err != nil {
		ws.errorMsg = fmt.Sprintf("Error loading sessions: %v", err)
		ws.loading = false
		return
	}
	body, _ = io.ReadAll(resp.Body)
	resp.Body.Close()

	var sessionsResp struct {
		Sessions []SessionListItem `json:"sessions"`
	}
	if err := json.Unmarshal(body, &sessionsResp); err == nil {
		ws.availableSessions = sessionsResp.Sessions
	}

	ws.loading = false
}

// Update updates game logic
func (g *Game) Update() error {
	switch g.currentScreen {
	case ScreenWelcome:
		return g.updateWelcomeScreen()
	case ScreenGame:
		return g.updateGameScreen()
	}
	return nil
}

// updateWelcomeScreen handles welcome screen input
func (g *Game) updateWelcomeScreen() error {
	ws := g.welcomeScreen

	if inpututil.IsKeyJustPressed(ebiten.KeyF5) {
		g.loadWelcomeData()
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyArrowDown) {
		if ws.cursorPos < len(ws.availableConfigs)-1 {
			ws.cursorPos++
		}
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyArrowUp) {
		if ws.cursorPos > 0 {
			ws.cursorPos--
		}
	}

	// Enter starts a fresh session with the highlighted difficulty
	if inpututil.IsKeyJustPressed(ebiten.KeyEnter) && len(ws.availableConfigs) > 0 {
		configName := ws.availableConfigs[ws.cursorPos].Name
		sessionID, err := g.createSession(configName)
		if err != nil {
			ws.errorMsg = fmt.Sprintf("Failed to create session: %v", err)
			return nil
		}
		g.openSession(sessionID)
		g.currentScreen = ScreenGame
	}

	// Number keys rejoin a listed session
	for i := ebiten.Key1; i <= ebiten.Key9; i++ {
		if inpututil.IsKeyJustPressed(i) {
			idx := int(i - ebiten.Key1)
			if idx < len(ws.availableSessions) {
				g.openSession(ws.availableSessions[idx].ID)
				g.currentScreen = ScreenGame
			}
		}
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) && g.session != nil {
		g.currentScreen = ScreenGame
	}

	return nil
}

// updateGameScreen handles game screen input
func (g *Game) updateGameScreen() error {
	g.stateMutex.Lock()
	session := g.session
	if session != nil {
		if session.animating && time.Since(session.animStart) > slideDuration {
			session.animating = false
		}
		if session.shaking && time.Since(session.shakeStart) > shakeDuration {
			session.shaking = false
		}
	}
	g.stateMutex.Unlock()

	if session == nil {
		if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
			g.currentScreen = ScreenWelcome
			g.loadWelcomeData()
		}
		return nil
	}

	// Poll while the socket is down. The server pushes every second over a
	// live socket, so polling would only duplicate frames.
	g.stateMutex.RLock()
	needsPoll := session.wsConn == nil &&
		(session.state == nil || time.Since(session.lastUpdate) > 500*time.Millisecond)
	g.stateMutex.RUnlock()
	if needsPoll {
		if err := g.fetchGameState(session); err != nil {
			log.Printf("Error fetching state for %s: %v", session.sessionID, err)
		}
	}

	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		if index, ok := g.cellAtCursor(); ok {
			g.sendClick(session, index)
		}
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		g.postStateOp(session, "restart")
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyN) {
		g.postStateOp(session, "advance")
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		g.currentScreen = ScreenWelcome
		g.loadWelcomeData()
	}

	return nil
}

// cellAtCursor maps the mouse position to a board index.
func (g *Game) cellAtCursor() (int, bool) {
	g.stateMutex.RLock()
	defer g.stateMutex.RUnlock()

	if g.session == nil || g.session.state == nil {
		return 0, false
	}
	grid := g.session.state.GridSize
	offsetX := (screenWidth - grid*cellSize) / 2

	mx, my := ebiten.CursorPosition()
	if mx < offsetX || my < headerHeight {
		return 0, false
	}
	col := (mx - offsetX) / cellSize
	row := (my - headerHeight) / cellSize
	if col >= grid || row >= grid {
		return 0, false
	}
	return row*grid + col, true
}

// Draw renders the client
func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(colorBg)

	switch g.currentScreen {
	case ScreenWelcome:
		g.drawWelcomeScreen(screen)
	case ScreenGame:
		g.drawGameScreen(screen)
	}
}

// drawWelcomeScreen renders the difficulty and session pickers
func (g *Game) drawWelcomeScreen(screen *ebiten.Image) {
	ws := g.welcomeScreen

	y := 20
	ebitenutil.DebugPrintAt(screen, "=== SLIDE PUZZLE ===", 190, y)
	y += 30

	if ws.loading {
		ebitenutil.DebugPrintAt(screen, "Loading...", 20, y)
		return
	}
	if ws.errorMsg != "" {
		ebitenutil.DebugPrintAt(screen, fmt.Sprintf("ERROR: %s", ws.errorMsg), 20, y)
		y += 20
	}

	ebitenutil.DebugPrintAt(screen, "Difficulty:", 20, y)
	y += 20
	for i, cfg := range ws.availableConfigs {
		cursor := "  "
		if i == ws.cursorPos {
			cursor = "> "
		}
		line := fmt.Sprintf("%s%-8s %dx%d, %s  %s",
			cursor, cfg.Name, cfg.GridSize, cfg.GridSize,
			formatBudget(cfg.TimeBudgetSeconds), cfg.Description)
		ebitenutil.DebugPrintAt(screen, line, 20, y)
		y += 15
	}

	y += 20
	ebitenutil.DebugPrintAt(screen, "Open sessions (press number to rejoin):", 20, y)
	y += 20
	if len(ws.availableSessions) == 0 {
		ebitenutil.DebugPrintAt(screen, "  none", 20, y)
		y += 15
	}
	for i, item := range ws.availableSessions {
		if i >= 9 {
			break
		}
		line := fmt.Sprintf("  [%d] %s | %s", i+1, item.ID, item.ConfigName)
		if item.GameState != nil {
			line += fmt.Sprintf(" | moves %d | %s", item.GameState.Moves, item.GameState.Phase)
		}
		ebitenutil.DebugPrintAt(screen, line, 20, y)
		y += 15
	}

	y += 25
	ebitenutil.DebugPrintAt(screen, "CONTROLS:", 20, y)
	y += 20
	ebitenutil.DebugPrintAt(screen, "  UP/DOWN - Choose difficulty", 20, y)
	y += 15
	ebitenutil.DebugPrintAt(screen, "  ENTER   - Start a new game", 20, y)
	y += 15
	ebitenutil.DebugPrintAt(screen, "  1-9     - Rejoin an open session", 20, y)
	y += 15
	ebitenutil.DebugPrintAt(screen, "  F5      - Refresh lists", 20, y)
	y += 15
	if g.session != nil {
		ebitenutil.DebugPrintAt(screen, "  ESC     - Back to the board", 20, y)
	}
}

// drawGameScreen renders the board with HUD and footer
func (g *Game) drawGameScreen(screen *ebiten.Image) {
	g.stateMutex.RLock()
	defer g.stateMutex.RUnlock()

	session := g.session
	if session == nil {
		ebitenutil.DebugPrint(screen, "No session. Press ESC for the menu.")
		return
	}
	state := session.state
	if state == nil {
		ebitenutil.DebugPrint(screen, "Loading...")
		return
	}

	grid := state.GridSize
	offsetX := (screenWidth - grid*cellSize) / 2

	// Header
	connStatus := "POLL"
	if session.wsConn != nil {
		connStatus = "WS"
	}
	ebitenutil.DebugPrintAt(screen,
		fmt.Sprintf("%s | %dx%d | Level %d | [%s]", state.ConfigName, grid, grid, state.Level, connStatus), 20, 10)
	ebitenutil.DebugPrintAt(screen,
		fmt.Sprintf("Moves: %d   Left: %s   %s", state.Moves, state.Clock, state.ScrambleLevel), 20, 30)
	ebitenutil.DebugPrintAt(screen, state.Message, 20, 50)

	// Rejected clicks shake the whole board, dampening over the duration.
	var shakeX float64
	if session.shaking {
		progress := time.Since(session.shakeStart).Seconds() / shakeDuration.Seconds()
		shakeX = 5.0 * (1.0 - progress) * math.Sin(progress*50)
	}

	flashOn := state.Celebrating && (time.Now().UnixMilli()/int64(flashInterval/time.Millisecond))%2 == 0

	// Board panel
	ebitenutil.DrawRect(screen,
		float64(offsetX)-6+shakeX, float64(headerHeight)-6,
		float64(grid*cellSize)+12, float64(grid*cellSize)+12, colorPanel)

	for index, tile := range state.Board {
		if session.animating && index == session.animTo {
			continue // drawn on top afterwards
		}
		x := float64(offsetX+(index%grid)*cellSize) + shakeX
		y := float64(headerHeight + (index/grid)*cellSize)
		g.drawCell(screen, state, tile, index, x, y, flashOn)
	}

	// The sliding tile interpolates between its old and new cell.
	if session.animating {
		t := time.Since(session.animStart).Seconds() / slideDuration.Seconds()
		if t > 1.0 {
			t = 1.0
		}
		fromX := float64(offsetX + (session.animFrom%grid)*cellSize)
		fromY := float64(headerHeight + (session.animFrom/grid)*cellSize)
		toX := float64(offsetX + (session.animTo%grid)*cellSize)
		toY := float64(headerHeight + (session.animTo/grid)*cellSize)
		x := fromX*(1.0-t) + toX*t + shakeX
		y := fromY*(1.0-t) + toY*t
		g.drawCell(screen, state, state.Board[session.animTo], session.animTo, x, y, flashOn)
	}

	// Footer
	footerY := headerHeight + grid*cellSize + 20
	if state.Phase == "solved" && !state.Celebrating {
		ebitenutil.DebugPrintAt(screen, fmt.Sprintf("SOLVED in %d moves! Press N for the next level.", state.Moves), 20, footerY)
		footerY += 15
	}
	if time.Now().Before(g.statusUntil) {
		ebitenutil.DebugPrintAt(screen, g.statusMsg, 20, footerY)
		footerY += 15
	}
	ebitenutil.DebugPrintAt(screen, "Click a tile next to the gap | R: Reshuffle | N: Next level | ESC: Menu", 20, screenHeight-25)
}

// drawCell paints one tile (or the empty cell) at pixel position x,y.
func (g *Game) drawCell(screen *ebiten.Image, state *GameState, tile, index int, x, y float64, flashOn bool) {
	if tile == 0 {
		ebitenutil.DrawRect(screen, x+2, y+2, cellSize-4, cellSize-4, colorDim)
		return
	}

	tileColor := colorTile
	switch {
	case flashOn:
		tileColor = colorGold
	case state.TimedOut:
		tileColor = colorDim
	case tile == index+1:
		tileColor = colorInPlace
	}

	ebitenutil.DrawRect(screen, x+2, y+2, cellSize-4, cellSize-4, tileColor)
	label := fmt.Sprintf("%d", tile)
	ebitenutil.DebugPrintAt(screen, label, int(x)+cellSize/2-len(label)*3, int(y)+cellSize/2-8)
}

// Layout returns the game screen size
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return screenWidth, screenHeight
}

func formatBudget(seconds int) string {
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}

func main() {
	sessionID := ""
	if len(os.Args) > 1 {
		sessionID = os.Args[1]
	}

	game := NewGame(sessionID)

	ebiten.SetWindowSize(screenWidth, screenHeight)
	ebiten.SetWindowTitle("Slide Puzzle - Desktop Client")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	if err := ebiten.RunGame(game); err != nil {
		log.Fatal(err)
	}
}
