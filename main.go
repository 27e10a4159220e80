// Command slidepuzzle runs the sliding tile puzzle game.
//
// It supports four modes:
//  1. "serve" (default) – HTTP server exposing the REST API, WebSocket hub,
//     an /mcp HTTP endpoint, and the static browser client
//  2. "mcp" – MCP stdio server that reuses an external API if one is running
//     and otherwise spins up an internal loopback server
//  3. "tui" – the puzzle in the local terminal
//  4. "ssh" – the terminal puzzle served over SSH
//
// Flags control host/port, config directory, debug logging, and optional
// ngrok tunneling for easy external access during development.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/activeterm"
	bm "github.com/charmbracelet/wish/bubbletea"
	"github.com/charmbracelet/wish/logging"
	"github.com/joho/godotenv"
	"github.com/mark3labs/mcp-go/server"
	"github.com/muesli/termenv"
	"github.com/urfave/cli/v3"
	"golang.ngrok.com/ngrok"
	ngrokConfig "golang.ngrok.com/ngrok/config"

	"github.com/wricardo/mcp-training/slidepuzzle/api"
	"github.com/wricardo/mcp-training/slidepuzzle/game/config"
	"github.com/wricardo/mcp-training/slidepuzzle/game/service"
	"github.com/wricardo/mcp-training/slidepuzzle/game/session"
	"github.com/wricardo/mcp-training/slidepuzzle/transport/mcp"
	"github.com/wricardo/mcp-training/slidepuzzle/transport/websocket"
	"github.com/wricardo/mcp-training/slidepuzzle/tui"
)

// Version information
const (
	Version = "2.0.0"
	AppName = "Slide Puzzle Game Server"
)

func main() {
	// Load .env file if it exists (ignore error if not found)
	if err := godotenv.Load(); err != nil {
		if !os.IsNotExist(err) {
			log.Warn("Could not load .env file", "error", err)
		}
	} else {
		log.Info("Loaded environment variables from .env file")
	}

	if err := newRootCommand().Run(context.Background(), os.Args); err != nil {
		log.Fatal("Command failed", "error", err)
	}
}

func newRootCommand() *cli.Command {
	return &cli.Command{
		Name:    "slidepuzzle",
		Usage:   "sliding tile puzzle for browsers, agents, and terminals",
		Version: Version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config-dir",
				Value:   "configs",
				Usage:   "directory containing puzzle configurations",
				Sources: cli.EnvVars("CONFIG_DIR"),
			},
			&cli.BoolFlag{
				Name:  "debug",
				Usage: "enable debug logging",
			},
		},
		Commands: []*cli.Command{
			newServeCommand(),
			newMCPCommand(),
			newTUICommand(),
			newSSHCommand(),
		},
		DefaultCommand: "serve",
	}
}

func newServeCommand() *cli.Command {
	return &cli.Command{
		Name:    "serve",
		Aliases: []string{"server", "http"},
		Usage:   "run the HTTP server with REST API, WebSocket hub, and /mcp endpoint",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "host",
				Value:   "localhost",
				Usage:   "HTTP server host",
				Sources: cli.EnvVars("HOST"),
			},
			&cli.IntFlag{
				Name:    "port",
				Value:   8080,
				Usage:   "HTTP server port",
				Sources: cli.EnvVars("PORT"),
			},
			&cli.BoolFlag{
				Name:    "ngrok",
				Usage:   "expose the server through an ngrok tunnel",
				Sources: cli.EnvVars("NGROK_ENABLED"),
			},
			&cli.StringFlag{
				Name:    "ngrok-auth",
				Usage:   "ngrok auth token",
				Sources: cli.EnvVars("NGROK_AUTHTOKEN", "NGROK_AUTH_TOKEN"),
			},
			&cli.StringFlag{
				Name:    "ngrok-domain",
				Usage:   "custom ngrok domain (optional)",
				Sources: cli.EnvVars("NGROK_DOMAIN"),
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			setupLogging(cmd.Bool("debug"))
			log.Info("Starting", "app", AppName, "version", Version, "mode", "serve")

			gameService, hub := initializeServices(cmd.String("config-dir"))
			return runHTTPServer(ctx, cmd, gameService, hub)
		},
	}
}

func newMCPCommand() *cli.Command {
	return &cli.Command{
		Name:    "mcp",
		Aliases: []string{"stdio-mcp", "mcp-stdio"},
		Usage:   "run an MCP stdio server backed by an external or internal API",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			setupLogging(cmd.Bool("debug"))
			log.Info("Starting", "app", AppName, "version", Version, "mode", "mcp")

			gameService, hub := initializeServices(cmd.String("config-dir"))
			return runStdioMCP(gameService, hub)
		},
	}
}

func newTUICommand() *cli.Command {
	return &cli.Command{
		Name:  "tui",
		Usage: "play the puzzle in the terminal",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "difficulty",
				Aliases: []string{"d"},
				Usage:   "skip the menu and start on a tier (easy, medium, hard)",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return tui.Run(cmd.String("difficulty"))
		},
	}
}

func newSSHCommand() *cli.Command {
	return &cli.Command{
		Name:  "ssh",
		Usage: "serve the terminal puzzle over SSH",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "host",
				Value:   "localhost",
				Usage:   "SSH server host",
				Sources: cli.EnvVars("SSH_HOST"),
			},
			&cli.IntFlag{
				Name:    "port",
				Value:   23234,
				Usage:   "SSH server port",
				Sources: cli.EnvVars("SSH_PORT"),
			},
			&cli.StringFlag{
				Name:  "host-key",
				Value: ".ssh/slidepuzzle_ed25519",
				Usage: "path to the SSH host key",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			setupLogging(cmd.Bool("debug"))
			return runSSHServer(cmd)
		},
	}
}

func setupLogging(debug bool) {
	if debug {
		log.SetLevel(log.DebugLevel)
		log.SetReportCaller(true)
	}
}

// initializeServices wires the config manager, session manager, WebSocket hub,
// and game service, and starts the background session cleanup routine.
func initializeServices(configDir string) (service.GameService, *websocket.Hub) {
	configManager := config.NewManager(configDir)
	sessionManager := session.NewManager()

	hub := websocket.NewHub()
	go hub.Run()

	gameService := service.NewGameService(sessionManager, configManager, hub)

	go sessionCleanupRoutine(sessionManager)

	return gameService, hub
}

// sessionCleanupRoutine periodically removes sessions that have not been
// accessed within the retention window.
func sessionCleanupRoutine(manager *session.Manager) {
	ticker := time.NewTicker(1 * time.Hour)
	defer ticker.Stop()

	for range ticker.C {
		removed := manager.CleanupExpiredSessions(24 * time.Hour)
		if removed > 0 {
			log.Info("Cleaned up expired sessions", "count", removed)
		}
	}
}

// runHTTPServer starts the HTTP server with the REST API, WebSocket hub, and
// an /mcp proxy endpoint. If ngrok is enabled it also provisions a public
// tunnel serving the same router.
func runHTTPServer(ctx context.Context, cmd *cli.Command, gameService service.GameService, hub *websocket.Hub) error {
	apiServer := api.NewServer(gameService, hub)

	addr := fmt.Sprintf("%s:%d", cmd.String("host"), cmd.Int("port"))
	mcpClient := mcp.NewClient(fmt.Sprintf("http://%s", addr))

	mainRouter := http.NewServeMux()
	mainRouter.Handle("/", apiServer)
	mainRouter.HandleFunc("/mcp", mcpHTTPHandler(mcpClient))

	httpServer := &http.Server{
		Addr:         addr,
		Handler:      mainRouter,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()

		log.Info("HTTP server listening", "addr", addr)
		log.Info("REST API", "url", fmt.Sprintf("http://%s/api", addr))
		log.Info("WebSocket", "url", fmt.Sprintf("ws://%s/ws?session=<session_id>", addr))
		log.Info("MCP endpoint", "url", fmt.Sprintf("http://%s/mcp", addr))

		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP server failed", "error", err)
		}
	}()

	if cmd.Bool("ngrok") {
		wg.Add(1)
		go func() {
			defer wg.Done()
			runNgrokTunnel(runCtx, cmd, mainRouter)
		}()
	}

	sig := <-stop
	log.Info("Shutting down", "signal", sig)
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown error", "error", err)
	}
	if err := gameService.Close(); err != nil {
		log.Error("Game service close error", "error", err)
	}

	wg.Wait()
	log.Info("Server stopped")
	return nil
}

// mcpHTTPHandler exposes the MCP server over plain HTTP POST, sharing the
// tool set with the stdio transport.
func mcpHTTPHandler(client *mcp.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		body, err := io.ReadAll(r.Body)
		if err != nil {
			http.Error(w, "Failed to read request", http.StatusBadRequest)
			return
		}
		defer r.Body.Close()

		response := client.GetMCPServer().HandleMessage(r.Context(), body)

		w.Header().Set("Content-Type", "application/json")
		data, err := json.Marshal(response)
		if err != nil {
			http.Error(w, "Failed to marshal response", http.StatusInternalServerError)
			return
		}
		w.Write(data)
	}
}

// runNgrokTunnel serves the router through an ngrok tunnel until the context
// is canceled.
func runNgrokTunnel(ctx context.Context, cmd *cli.Command, handler http.Handler) {
	authToken := cmd.String("ngrok-auth")
	if authToken == "" {
		log.Warn("Ngrok enabled but no auth token provided (use --ngrok-auth or NGROK_AUTHTOKEN)")
		return
	}

	log.Info("Starting ngrok tunnel...")

	var tunnel ngrokConfig.Tunnel
	if domain := cmd.String("ngrok-domain"); domain != "" {
		tunnel = ngrokConfig.HTTPEndpoint(ngrokConfig.WithDomain(domain))
		log.Info("Using custom ngrok domain", "domain", domain)
	} else {
		tunnel = ngrokConfig.HTTPEndpoint()
	}

	tun, err := ngrok.Listen(ctx, tunnel, ngrok.WithAuthtoken(authToken))
	if err != nil {
		log.Error("Failed to start ngrok tunnel", "error", err)
		return
	}
	defer func() {
		if err := tun.Close(); err != nil {
			log.Error("Failed to close ngrok tunnel", "error", err)
		}
	}()

	ngrokURL := tun.URL()
	log.Info("Ngrok tunnel established", "url", ngrokURL)
	log.Info("REST API (ngrok)", "url", ngrokURL+"/api")
	log.Info("WebSocket (ngrok)", "url", ngrokURL+"/ws?session=<session_id>")
	log.Info("Game UI (ngrok)", "url", ngrokURL+"/")

	if err := http.Serve(tun, handler); err != nil && err != http.ErrServerClosed {
		log.Error("Ngrok server error", "error", err)
	}
	log.Info("Ngrok tunnel closed")
}

// runStdioMCP runs an MCP stdio server. It reuses an external API at
// localhost:8080 when one responds; otherwise it starts a minimal internal
// server on a random loopback port and targets that.
func runStdioMCP(gameService service.GameService, hub *websocket.Hub) error {
	baseURL := "http://localhost:8080"
	log.Info("Checking for external API server", "url", baseURL)

	testClient := &http.Client{Timeout: 2 * time.Second}
	resp, err := testClient.Get(baseURL + "/api/health")
	if err == nil && resp.StatusCode < 500 {
		resp.Body.Close()
		log.Info("External API server found, using it for MCP", "url", baseURL)
	} else {
		log.Info("No external API server found, starting internal HTTP server")

		listener, err := net.Listen("tcp", "127.0.0.1:0")
		if err != nil {
			return fmt.Errorf("failed to get available port: %w", err)
		}

		apiServer := api.NewServer(gameService, hub)
		httpServer := &http.Server{Handler: apiServer}

		go func() {
			if err := httpServer.Serve(listener); err != nil && err != http.ErrServerClosed {
				log.Error("Internal HTTP server error", "error", err)
			}
		}()

		// Give the listener a beat before the first tool call
		time.Sleep(100 * time.Millisecond)

		baseURL = fmt.Sprintf("http://%s", listener.Addr())
		log.Info("Internal HTTP server ready", "url", baseURL)
	}

	mcpClient := mcp.NewClient(baseURL)
	log.Info("MCP stdio server ready")

	if err := server.ServeStdio(mcpClient.GetMCPServer()); err != nil {
		return fmt.Errorf("mcp stdio server: %w", err)
	}
	return nil
}

// runSSHServer serves the terminal puzzle over SSH, one bubbletea program
// per session.
func runSSHServer(cmd *cli.Command) error {
	addr := net.JoinHostPort(cmd.String("host"), fmt.Sprintf("%d", cmd.Int("port")))

	s, err := wish.NewServer(
		wish.WithAddress(addr),
		wish.WithHostKeyPath(cmd.String("host-key")),
		wish.WithMiddleware(
			bm.Middleware(teaHandler),
			activeterm.Middleware(),
			logging.Middleware(),
		),
	)
	if err != nil {
		return fmt.Errorf("could not create ssh server: %w", err)
	}

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
	log.Info("Starting SSH server", "addr", addr)

	go func() {
		if err := s.ListenAndServe(); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
			log.Error("SSH server failed", "error", err)
			done <- nil
		}
	}()

	<-done
	log.Info("Stopping SSH server")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := s.Shutdown(ctx); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
		return fmt.Errorf("could not stop ssh server: %w", err)
	}
	return nil
}

// teaHandler hands each SSH session its own menu model sized to the client's
// terminal.
func teaHandler(s ssh.Session) (tea.Model, []tea.ProgramOption) {
	pty, _, _ := s.Pty()

	// SSH clients don't get profile detection; force 256 colors.
	lipgloss.SetColorProfile(termenv.ANSI256)

	return tui.NewMenuModel(pty.Window.Width, pty.Window.Height), []tea.ProgramOption{
		tea.WithAltScreen(),
	}
}
