package main

import (
	"flag"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/rbarbosa/newsdeck/internal/api"
	"github.com/rbarbosa/newsdeck/internal/config"
	"github.com/rbarbosa/newsdeck/internal/database"
	"github.com/rbarbosa/newsdeck/internal/events"
	"github.com/rbarbosa/newsdeck/internal/session"
	"github.com/rbarbosa/newsdeck/internal/state"
	"github.com/rbarbosa/newsdeck/internal/tui"
)

func main() {
	configPath := flag.String("config", config.DefaultConfigPath(), "path to config file")
	flag.Parse()

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	db, err := database.New(cfg.State.DatabasePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening state database: %v\n", err)
		os.Exit(1)
	}
	defer db.Close()

	timeout, err := cfg.Server.GetTimeout()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error in config: invalid server timeout: %v\n", err)
		os.Exit(1)
	}

	bus := events.NewBus()
	store := session.NewStore(db, bus)
	client := api.NewClient(cfg.Server.BaseURL, timeout, store.Token, store.Expire)
	store.Bind(client)
	tracker := state.NewTracker()

	app := tui.New(cfg, store, client, tracker, db, bus)
	if _, err := tea.NewProgram(app).Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error running program: %v\n", err)
		os.Exit(1)
	}
}

// loadConfig reads the config file, writing a default one on first run.
func loadConfig(path string) (*config.Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		cfg := config.Default()
		if err := config.Save(cfg, path); err != nil {
			return nil, err
		}
		return cfg, nil
	}
	return config.Load(path)
}
