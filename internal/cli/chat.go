package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/anandvisw/pharmscribe-go/internal/chat"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Start an interactive medication-safety conversation",
	Long: `Start an interactive conversation with the medication-safety assistant.

The full conversation is kept as context for every reply. On a terminal a
TUI is used; with piped input each line is treated as one message.

Examples:
  pharmscribe chat
  echo "Can I take ibuprofen with warfarin?" | pharmscribe chat`,
	Args: cobra.NoArgs,
	RunE: runChat,
}

func runChat(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	model, err := chat.NewGoogleAIModel(ctx, cfg)
	if err != nil {
		return fmt.Errorf("init chat model: %w", err)
	}
	session := chat.NewSession(model, logger)

	if isTTY() {
		return runChatTUI(ctx, session)
	}
	return runChatPlain(ctx, session)
}

// runChatPlain reads messages line by line from stdin, for piped use.
func runChatPlain(ctx context.Context, session *chat.Session) error {
	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}
		fmt.Println(session.Send(ctx, text))
	}
	return scanner.Err()
}
