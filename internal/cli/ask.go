package cli

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var (
	askText    string
	askJSON    bool
	askSession string
)

var askCmd = &cobra.Command{
	Use:   "ask",
	Short: "Answer a single question",
	Long: `Answer one customer question and exit.

Examples:
  supportbot ask -q "return policy"
  supportbot ask -q "where is ORD12345" --json`,
	RunE: runAsk,
}

func init() {
	rootCmd.AddCommand(askCmd)
	askCmd.Flags().StringVarP(&askText, "query", "q", "", "customer question (required)")
	askCmd.Flags().BoolVar(&askJSON, "json", false, "print the answer and retrieval result as JSON")
	askCmd.Flags().StringVar(&askSession, "session", "", "session ID to record the exchange under")
	askCmd.MarkFlagRequired("query")
}

func runAsk(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	a, err := buildApp(ctx, GetConfig(), GetRootDir(), useSnapshot)
	if err != nil {
		return err
	}
	defer a.Close()

	sessionID := askSession
	if sessionID == "" {
		sessionID = uuid.NewString()
	}

	reply, err := a.chat.Chat(ctx, sessionID, askText)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if askJSON {
		data, err := json.MarshalIndent(reply, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(out, string(data))
		return nil
	}

	fmt.Fprintln(out, reply.Text)
	return nil
}
