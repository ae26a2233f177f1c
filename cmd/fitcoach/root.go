// ABOUTME: Root Cobra command for fitcoach CLI.
// ABOUTME: Opens config, store, AI gateway, and controller via PersistentPre/PostRunE.
package main

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/harperreed/fitcoach/internal/app"
	"github.com/harperreed/fitcoach/internal/coach"
	"github.com/harperreed/fitcoach/internal/config"
	"github.com/harperreed/fitcoach/internal/storage"
	"github.com/spf13/cobra"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

// Command annotations controlling what PersistentPreRunE sets up.
const (
	annotationGate = "gate"

	gateNone    = "none"    // no store opened
	gateProfile = "profile" // requires a saved profile
	gatePlan    = "plan"    // requires a profile and a plan
)

var (
	cfg    *config.Config
	store  *storage.Store
	ctrl   *app.Controller
	logger *log.Logger
)

// newGateway builds the AI gateway. Replaced in tests.
var newGateway = func(c *config.Config) (coach.Gateway, error) {
	return coach.NewClient(c.CoachConfig())
}

var rootCmd = &cobra.Command{
	Use:     "fitcoach",
	Short:   "AI fitness coach for your terminal",
	Version: version,
	Long: `fitcoach builds a weekly workout plan for you, tracks which exercises you
finish each day, estimates nutrition from text or photos, and lets you chat
with an AI coach.

QUICK START:

  $ fitcoach setup --name Sam --level beginner --goal strength --days 3 --generate
  $ fitcoach today                 # Today's workout with progress
  $ fitcoach done 1                # Check off the first exercise
  $ fitcoach food log "2 eggs and toast"
  $ fitcoach chat "How should I warm up?"

TRACKING:

  $ fitcoach calendar              # Month view with completed days and PRs
  $ fitcoach stats                 # Streak, totals, last 7 days
  $ fitcoach pr add "Bench Press" 80 5

AI SETUP:

  Set OPENAI_API_KEY (or put it in a .env file). OPENAI_BASE_URL and
  FITCOACH_MODEL point fitcoach at any OpenAI-compatible endpoint.

DATA STORAGE:

  Data is stored in Charm KV by default and syncs across devices.
  Set "backend" in ~/.config/fitcoach/config.json (or FITCOACH_BACKEND)
  to "badger" or "sqlite" for local-only storage.

MCP INTEGRATION:

  Run 'fitcoach mcp' to expose your plan, progress, and food log to
  MCP-compatible AI assistants.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == "help" || cmd.Name() == "version" {
			return nil
		}
		gate := gateFor(cmd)
		if gate == gateNone {
			return nil
		}
		if err := openApp(); err != nil {
			return err
		}

		switch gate {
		case gateProfile:
			if _, err := ctrl.RequireProfile(); err != nil {
				return errNoProfile
			}
		case gatePlan:
			if _, err := ctrl.RequireProfile(); err != nil {
				return errNoProfile
			}
			if _, err := ctrl.RequirePlan(); err != nil {
				return errNoPlan
			}
		}
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		return closeApp()
	},
}

var (
	errNoProfile = errors.New("no profile yet: run 'fitcoach setup' first")
	errNoPlan    = errors.New("no workout plan yet: run 'fitcoach plan generate' first")
)

// gateFor returns the nearest gate annotation on cmd or its parents.
// Unannotated commands open the store without requirements.
func gateFor(cmd *cobra.Command) string {
	for c := cmd; c != nil; c = c.Parent() {
		if g, ok := c.Annotations[annotationGate]; ok {
			return g
		}
	}
	return ""
}

func gated(gate string) map[string]string {
	return map[string]string{annotationGate: gate}
}

// openApp loads config, opens the store, and loads the controller.
func openApp() error {
	if err := config.LoadDotEnv(); err != nil {
		return fmt.Errorf("failed to load .env: %w", err)
	}

	var err error
	cfg, err = config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	logger = cfg.NewLogger(os.Stderr)

	store, err = cfg.OpenStore(storage.WithCorruptionHandler(func(c storage.Corruption) {
		logger.Warn("corrupt record", "key", c.Key, "err", c.Err)
	}))
	if err != nil {
		return fmt.Errorf("failed to open %s storage: %w", cfg.GetBackend(), err)
	}

	opts := []app.Option{app.WithLogger(logger)}
	gw, err := newGateway(cfg)
	switch {
	case err == nil:
		opts = append(opts, app.WithGateway(gw))
	case errors.Is(err, coach.ErrNoAPIKey):
		logger.Debug("AI features disabled", "reason", err)
	default:
		return fmt.Errorf("failed to create AI client: %w", err)
	}

	ctrl = app.New(store, opts...)
	if _, err := ctrl.Load(); err != nil {
		return fmt.Errorf("failed to load data: %w", err)
	}
	return nil
}

func closeApp() error {
	ctrl = nil
	if store == nil {
		return nil
	}
	err := store.Close()
	store = nil
	return err
}

// aiError turns controller errors into CLI-friendly messages.
func aiError(st app.State, err error) error {
	switch {
	case errors.Is(err, app.ErrNoGateway):
		return errors.New("AI features need OPENAI_API_KEY to be set")
	case st.LastError != "":
		return errors.New(st.LastError)
	default:
		return err
	}
}

// confirm asks a yes/no question on stdin.
func confirm(prompt string) bool {
	fmt.Printf("%s [y/N]: ", prompt)
	reader := bufio.NewReader(os.Stdin)
	response, err := reader.ReadString('\n')
	if err != nil {
		return false
	}
	response = strings.TrimSpace(strings.ToLower(response))
	return response == "y" || response == "yes"
}

// Execute runs the root command. The store is closed even when a command
// fails, since cobra skips PersistentPostRunE on error.
func Execute() error {
	defer func() { _ = closeApp() }()
	return rootCmd.Execute()
}
