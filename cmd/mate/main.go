package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	"github.com/completeditmate/mate/internal/api"
	"github.com/completeditmate/mate/internal/browse"
	"github.com/completeditmate/mate/internal/config"
	"github.com/completeditmate/mate/internal/identity"
	"github.com/completeditmate/mate/internal/library"
	"github.com/completeditmate/mate/internal/log"
	"github.com/completeditmate/mate/internal/profile"
	"github.com/completeditmate/mate/internal/store"
	"github.com/completeditmate/mate/internal/tui"
)

// Version is set at build time via -ldflags
var Version = "dev"

func main() {
	var showVersion bool
	var clearCache bool
	var setup bool
	flag.BoolVar(&showVersion, "v", false, "print version")
	flag.BoolVar(&showVersion, "version", false, "print version")
	flag.BoolVar(&clearCache, "clear-cache", false, "remove the catalogue cache and exit")
	flag.BoolVar(&setup, "setup", false, "rerun the interactive setup")
	flag.Parse()

	if showVersion {
		fmt.Printf("mate %s\n", Version)
		return
	}

	if clearCache {
		if err := config.ClearCache(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("Cache cleared.")
		return
	}

	if err := run(setup); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(forceSetup bool) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger, err := log.SetupLogger(&cfg.Logging)
	if err != nil {
		// Fall back to null logger if file logging fails
		logger = log.NullLogger()
	}
	slog.SetDefault(logger)

	logger.Info("starting mate", "version", Version)

	if forceSetup || !cfg.IsConfigured() {
		return runSetupFlow(cfg)
	}

	catStore, err := store.NewCatalogueStore(config.GetCachePath(), cfg.API.URL)
	if err != nil {
		logger.Warn("cache unavailable, running without it", "error", err)
		catStore, _ = store.NewCatalogueStore("", cfg.API.URL)
	}
	defer catStore.Close()

	boot := identity.New(cfg.Identity.DeviceID, config.SaveDeviceID, logger)
	client := api.NewClient(cfg.API.URL, cfg.API.Key, boot.UserID, logger)

	// Identity is exchanged in the background so the catalogue paints
	// immediately; the library view waits on the ready signal.
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
		defer cancel()
		if err := boot.Bootstrap(ctx, client); err != nil {
			logger.Error("identity bootstrap failed", "error", err)
		}
	}()

	policy := library.ParseFailurePolicy(cfg.Library.OnFailure)

	browseSvc := browse.NewService(client, catStore, cfg.PageSize(), logger)
	librarySvc := library.NewService(client, boot, policy, logger)
	profileSvc := profile.NewService(client, logger)

	model := tui.NewModel(browseSvc, librarySvc, profileSvc, boot)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
	)

	logger.Info("starting TUI")

	if _, err := p.Run(); err != nil {
		logger.Error("TUI error", "error", err)
		return fmt.Errorf("TUI error: %w", err)
	}

	logger.Info("shutting down")
	return nil
}

// runSetupFlow handles the initial setup when not configured
func runSetupFlow(cfg *config.Config) error {
	fmt.Println()
	fmt.Println("Welcome to Completed It Mate!")
	fmt.Println()

	reader := bufio.NewReader(os.Stdin)
	fmt.Printf("API URL [%s]: ", config.DefaultConfig().API.URL)
	input, err := reader.ReadString('\n')
	if err != nil {
		return fmt.Errorf("failed to read input: %w", err)
	}
	apiURL := strings.TrimSpace(input)
	if apiURL == "" {
		apiURL = config.DefaultConfig().API.URL
	}

	fmt.Print("API key (blank for none): ")
	keyBytes, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println()
	if err != nil {
		return fmt.Errorf("failed to read API key: %w", err)
	}

	cfg.API.URL = apiURL
	cfg.API.Key = strings.TrimSpace(string(keyBytes))

	if err := config.SaveConfig(cfg); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	fmt.Println()
	fmt.Println("✓ Configuration saved!")
	fmt.Println()
	fmt.Println("Run mate again to start the application.")
	return nil
}
