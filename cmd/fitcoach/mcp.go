// ABOUTME: CLI command for starting MCP server.
// ABOUTME: Runs stdio-based MCP server for AI assistant integration.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/harperreed/fitcoach/internal/mcp"
	"github.com/spf13/cobra"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start MCP server",
	Long: `Start the Model Context Protocol (MCP) server for AI assistant integration.

The server communicates via stdin/stdout and works on the same data as the
CLI.

CLAUDE DESKTOP CONFIGURATION:

  {
    "mcpServers": {
      "fitcoach": {
        "command": "fitcoach",
        "args": ["mcp"]
      }
    }
  }

AVAILABLE TOOLS:

  get_profile             Fitness profile
  get_today_workout       Today's exercises with completion status
  toggle_exercise         Mark an exercise done or not done
  log_food                Log a meal from a description (needs OPENAI_API_KEY)
  add_personal_record     Record a personal best
  list_personal_records   List personal records
  get_stats               Streak, totals, last seven days

AVAILABLE RESOURCES:

  fitcoach://plan              The weekly plan
  fitcoach://today             Today's workout and streak
  fitcoach://nutrition/today   Today's food log`,
	RunE: func(cmd *cobra.Command, args []string) error {
		server, err := mcp.NewServer(ctrl, version)
		if err != nil {
			return err
		}

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		// Handle shutdown signals
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		go func() {
			<-sigChan
			cancel()
		}()

		logger.Info("mcp server starting", "backend", cfg.GetBackend())
		return server.Serve(ctx)
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
