package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/mayeuticsapp/parley/internal/console"
)

var consoleCmd = &cobra.Command{
	Use:   "console [conversation-id]",
	Short: "Open the interactive console",
	Long: `Open the full-screen interactive console: browse conversations, watch
transcripts, send messages, and manage providers and personalities.

Pass a conversation id to jump straight into it.

Examples:
  parley console
  parley console 5`,
	Args: cobra.MaximumNArgs(1),
	RunE: runConsole,
}

func runConsole(cmd *cobra.Command, args []string) error {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return fmt.Errorf("the console needs a terminal; use the subcommands for scripting")
	}

	conversationID := 0
	if len(args) == 1 {
		id, err := parseConversationID(args[0])
		if err != nil {
			return err
		}
		conversationID = id
	}

	return console.Run(apiClient, logger, conversationID)
}
