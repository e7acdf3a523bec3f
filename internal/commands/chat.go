package commands

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/diogo/planassist/internal/chat"
	"github.com/diogo/planassist/internal/logger"
	"github.com/diogo/planassist/internal/tui"
)

func newChatCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "chat",
		Short: "Start an interactive chat session",
		Long: `Start an interactive chat session with the Insurance Plan Assistant.

Each question is sent on its own; the backend receives no earlier turns.
Type '/copy' to copy the last reply. Type 'exit', 'quit', or press Ctrl+C
to end the session.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runChat(cmd.Context())
		},
	}
}

func (a *app) runChat(ctx context.Context) error {
	client, baseURL, err := a.client()
	if err != nil {
		return err
	}

	log := logger.Named("chat")
	log.WithField("api_url", baseURL).Info("starting chat session")

	controller := chat.NewController(client, chat.WithLogger(log))
	return a.deps.TUI.RunChat(ctx, controller, tui.ChatOptions{
		APIHost:         hostOf(baseURL),
		Bubble:          a.bubbleOptions(0),
		CopyToClipboard: a.deps.CopyToClipboard,
	})
}
