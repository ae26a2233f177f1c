// ABOUTME: CLI commands for chatting with the AI coach.
// ABOUTME: Streams replies to the terminal; runs a REPL when no message is given.
package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/harperreed/fitcoach/internal/app"
	"github.com/harperreed/fitcoach/internal/models"
	"github.com/spf13/cobra"
)

var chatHistoryLimit int

var chatCmd = &cobra.Command{
	Use:         "chat [message]",
	Aliases:     []string{"ask"},
	Short:       "Chat with your AI coach",
	Annotations: gated(gateProfile),
	Long: `Chat with your AI coach. The coach knows your profile and remembers the
conversation.

With a message, sends it and prints the streamed reply. Without one, starts an
interactive session; type 'exit' or press Ctrl-D to leave.

EXAMPLES:

  fitcoach chat "Is it OK to train sore?"
  fitcoach chat`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) > 0 {
			return sendChat(cmd.Context(), os.Stdout, strings.Join(args, " "))
		}
		return chatREPL(cmd.Context(), os.Stdin, os.Stdout)
	},
}

var chatHistoryCmd = &cobra.Command{
	Use:   "history",
	Short: "Show the conversation so far",
	RunE: func(cmd *cobra.Command, args []string) error {
		msgs := ctrl.State().ChatHistory
		if len(msgs) == 0 {
			fmt.Println("No messages yet.")
			return nil
		}
		if chatHistoryLimit > 0 && len(msgs) > chatHistoryLimit {
			msgs = msgs[len(msgs)-chatHistoryLimit:]
		}
		for _, m := range msgs {
			printMessage(os.Stdout, m)
		}
		return nil
	},
}

// sendChat streams one coach reply to w, printing only the new suffix of
// each partial. When the turn fails the apology is printed on its own line.
func sendChat(ctx context.Context, w io.Writer, text string) error {
	coachLabel := color.New(color.FgCyan, color.Bold).Sprint("Coach: ")
	fmt.Fprint(w, coachLabel)

	shown := ""
	st, err := ctrl.SendMessageToCoach(ctx, text, func(partial string) {
		fmt.Fprint(w, partial[len(shown):])
		shown = partial
	})

	switch {
	case errors.Is(err, app.ErrChatNotInitialized):
		fmt.Fprintln(w)
		return aiError(app.State{}, app.ErrNoGateway)
	case err != nil:
		fmt.Fprintln(w)
		return err
	}

	if n := len(st.ChatHistory); n > 0 {
		if reply := st.ChatHistory[n-1].Text(); reply != shown {
			if shown != "" {
				fmt.Fprintln(w)
			}
			fmt.Fprint(w, color.New(color.FgYellow).Sprint(reply))
			logger.Debug("chat turn failed", "last_error", st.LastError)
		}
	}
	fmt.Fprintln(w)
	return nil
}

func chatREPL(ctx context.Context, in io.Reader, w io.Writer) error {
	fmt.Fprintln(w, color.New(color.Faint).Sprint("Chatting with your coach. Type 'exit' to leave."))
	scanner := bufio.NewScanner(in)
	prompt := color.New(color.FgGreen, color.Bold).Sprint("You: ")

	for {
		fmt.Fprint(w, prompt)
		if !scanner.Scan() {
			fmt.Fprintln(w)
			return scanner.Err()
		}
		line := strings.TrimSpace(scanner.Text())
		switch line {
		case "":
			continue
		case "exit", "quit":
			return nil
		}
		if err := sendChat(ctx, w, line); err != nil {
			color.New(color.FgRed).Fprintln(w, err)
		}
	}
}

func printMessage(w io.Writer, m models.ChatMessage) {
	label := color.New(color.FgGreen, color.Bold).Sprint("You:   ")
	if m.Role == models.RoleModel {
		label = color.New(color.FgCyan, color.Bold).Sprint("Coach: ")
	}
	fmt.Fprintf(w, "%s%s\n", label, m.Text())
}

func init() {
	chatHistoryCmd.Flags().IntVarP(&chatHistoryLimit, "limit", "n", 20, "max number of messages (0 for all)")
	chatCmd.AddCommand(chatHistoryCmd)
	rootCmd.AddCommand(chatCmd)
}
