package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"

	"grepscope/internal/config"
	"grepscope/internal/eventbus"
	"grepscope/internal/history"
	"grepscope/internal/session"
	"grepscope/internal/ui"
	"grepscope/internal/worker"
)

// logNotifier routes controller notifications into the application log.
// The UI reports outcomes through its own event subscription.
type logNotifier struct{}

func (logNotifier) Info(msg string)  { log.Printf("Notify: %s", msg) }
func (logNotifier) Error(msg string) { log.Printf("Notify error: %s", msg) }

func main() {
	var dir string
	flag.StringVar(&dir, "dir", "", "directory to search")
	flag.StringVar(&dir, "d", "", "directory to search (shorthand)")
	flag.Parse()

	// Set up logging
	logFile, err := os.OpenFile("grepscope.log", os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
	if err != nil {
		log.Printf("Could not open log file: %v", err)
	} else {
		defer logFile.Close()
		log.SetOutput(logFile)
	}

	// Create context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle interrupt signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		cancel()
	}()

	// Create event bus
	bus := eventbus.New()

	// Load configuration
	configSvc := config.NewConfigServiceWithBus(bus)
	cfg, err := configSvc.Load()
	if err != nil {
		log.Printf("Error loading config: %v", err)
		cfg = config.DefaultConfig()
	}
	if dir != "" {
		cfg.DefaultDir = dir
	}

	// Initialize services
	scanner := worker.NewScanner(bus)
	recent := history.NewRecentQueryCache(history.NewFileStore(history.DefaultStorePath()), bus)
	controller := session.NewController(bus, scanner, recent, logNotifier{})

	// Create UI model
	uiModel := ui.NewModel(bus, cfg, configSvc, controller, recent)

	// Create Bubble Tea program
	p := tea.NewProgram(uiModel, tea.WithAltScreen())
	uiModel.SetProgram(p)

	// Quit the UI on interrupt
	go func() {
		<-ctx.Done()
		p.Quit()
	}()

	// Set up event forwarding to UI
	eventChan := make(chan eventbus.DomainEvent, 100)
	forwarded := []eventbus.EventType{
		eventbus.EventSearchStarted,
		eventbus.EventSearchCompleted,
		eventbus.EventSearchFailed,
		eventbus.EventSearchCancelled,
		eventbus.EventHistoryUpdated,
		eventbus.EventError,
	}
	for _, eventType := range forwarded {
		bus.Subscribe(eventType, func(e eventbus.DomainEvent) {
			select {
			case eventChan <- e:
			default:
				// Channel full, drop event
				log.Println("Event channel full, dropping event")
			}
		})
	}

	// Start forwarding events to UI in background
	go func() {
		for event := range eventChan {
			p.Send(ui.EventMsg{Event: event})
		}
	}()

	// Run the UI
	if _, err := p.Run(); err != nil {
		fmt.Printf("Error running program: %v\n", err)
		os.Exit(1)
	}

	// Cleanup
	close(eventChan)
	cancel()
}
