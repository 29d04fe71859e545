package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"

	"aria-chat/internal/backend"
	"aria-chat/internal/chat"
	"aria-chat/internal/config"
	"aria-chat/internal/terminal"
	"aria-chat/internal/transcript"
	"aria-chat/internal/ui"
)

func main() {
	// Set the GetEnv function for config
	config.GetEnv = os.Getenv

	cfg, err := parseFlags()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Configuration error: %v\n", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Configuration error: %v\n", err)
		os.Exit(1)
	}

	if !terminal.IsTerminal() {
		fmt.Fprintln(os.Stderr, "aria-chat needs an interactive terminal")
		os.Exit(1)
	}

	// The alternate screen owns stdout, so logs go to a file.
	if err := os.MkdirAll(filepath.Dir(cfg.LogPath), 0755); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create log directory: %v\n", err)
		os.Exit(1)
	}
	logFile, err := tea.LogToFile(cfg.LogPath, "aria")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open log file: %v\n", err)
		os.Exit(1)
	}
	defer logFile.Close()

	client := backend.NewClient(cfg.BackendURL, cfg.RequestTimeout)

	// Backend health check (non-fatal)
	if err := client.HealthCheck(); err != nil {
		log.Printf("[WARN] %v", err)
		fmt.Fprintf(os.Stderr, "Warning: %v\nQuestions will get a fallback answer until the backend is reachable.\n", err)
	}

	cwd, err := os.Getwd()
	if err != nil {
		cwd = "."
	}

	// Setup graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	engine := chat.NewEngine(chat.NewRandomPacer(cfg.ReplyDelay, cfg.ReplyJitter))
	exporter := transcript.NewExporter(cfg.TranscriptDir)
	opts := ui.Options{
		Compact:     cfg.Compact,
		StartClosed: cfg.StartClosed,
		Style:       cfg.Style,
		LoadAttachment: func(path string) (chat.Attachment, error) {
			return terminal.ReadAttachment(path, cfg.MaxUploadSize)
		},
		FindFiles: func(partial string) []string {
			return terminal.FindMatchingFiles(cwd, partial, 5)
		},
	}

	// Frames and clipboard sequences share one serialized writer.
	out := terminal.NewOutput(os.Stdout)

	width, height := terminal.Size()
	model := ui.NewModel(ctx, engine, client, terminal.NewClipboard(out), exporter, opts, width, height)
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx), tea.WithOutput(out))
	terminal.WatchResize(ctx, func(w, h int) {
		p.Send(tea.WindowSizeMsg{Width: w, Height: h})
	})

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		log.Printf("[INFO] shutting down")
		cancel()
	}()

	log.Printf("[INFO] session %s started against %s", exporter.SessionID(), client.BaseURL())

	if _, err := p.Run(); err != nil && ctx.Err() == nil {
		log.Printf("[ERROR] %v", err)
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// parseFlags layers command-line flags over the loaded configuration.
func parseFlags() (*config.Config, error) {
	cfg, err := config.Load(".env")
	if err != nil {
		return nil, err
	}

	flag.StringVar(&cfg.BackendURL, "backend", cfg.BackendURL, "Question-answering backend URL")
	flag.DurationVar(&cfg.RequestTimeout, "timeout", cfg.RequestTimeout, "Backend request timeout (0 disables)")
	flag.DurationVar(&cfg.ReplyDelay, "reply-delay", cfg.ReplyDelay, "Minimum pause before an answer is shown")
	flag.DurationVar(&cfg.ReplyJitter, "reply-jitter", cfg.ReplyJitter, "Random extra pause added to the reply delay")
	flag.BoolVar(&cfg.Compact, "compact", cfg.Compact, "Compact widget that can be closed to a launcher")
	flag.BoolVar(&cfg.StartClosed, "closed", cfg.StartClosed, "Start with the widget closed (requires -compact)")
	flag.StringVar(&cfg.Style, "style", cfg.Style, "Markdown style: dark, light, notty or auto")
	flag.Int64Var(&cfg.MaxUploadSize, "max-upload", cfg.MaxUploadSize, "Largest file that can be attached, in bytes")
	flag.StringVar(&cfg.LogPath, "log-file", cfg.LogPath, "Log file path")
	flag.StringVar(&cfg.TranscriptDir, "transcripts", cfg.TranscriptDir, "Directory for exported transcripts")

	flag.Parse()

	return cfg, nil
}
