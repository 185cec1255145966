package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"supportbot/internal/usecase"
)

var chatSession string

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Start an interactive support session",
	Long: `Read questions from standard input and answer them until "exit" or
"quit" is entered.

Examples:
  supportbot chat
  supportbot chat --session my-session --snapshot`,
	RunE: runChat,
}

func init() {
	rootCmd.AddCommand(chatCmd)
	chatCmd.Flags().StringVar(&chatSession, "session", "", "resume a session by ID")
}

func runChat(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	a, err := buildApp(ctx, GetConfig(), GetRootDir(), useSnapshot)
	if err != nil {
		return err
	}
	defer a.Close()

	sessionID := chatSession
	if sessionID == "" {
		sessionID = uuid.NewString()
	}

	return runREPL(ctx, cmd.InOrStdin(), cmd.OutOrStdout(), a.chat, sessionID)
}

type chatter interface {
	Chat(ctx context.Context, sessionID, query string) (usecase.Reply, error)
}

// runREPL answers one line at a time. Blank lines are ignored; end of input
// ends the session like "exit".
func runREPL(ctx context.Context, in io.Reader, out io.Writer, chat chatter, sessionID string) error {
	fmt.Fprintln(out, "Chatbot initialized. How can I help you today?")

	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, "You: ")
		if !scanner.Scan() {
			break
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if lower := strings.ToLower(line); lower == "exit" || lower == "quit" {
			break
		}

		reply, err := chat.Chat(ctx, sessionID, line)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "\nChatbot: %s\n", reply.Text)
		fmt.Fprintln(out, strings.Repeat("-", 50))
	}

	fmt.Fprintln(out, "Goodbye!")
	return scanner.Err()
}
