package commands

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/diogo/planassist/internal/chat"
	apierrors "github.com/diogo/planassist/internal/errors"
	"github.com/diogo/planassist/internal/logger"
	"github.com/diogo/planassist/internal/models"
	"github.com/diogo/planassist/internal/tui"
)

type askFlags struct {
	file string
	raw  bool
	copy bool
}

func addAskFlags(cmd *cobra.Command, f *askFlags) {
	cmd.Flags().StringVarP(&f.file, "file", "f", "", "Read the question from a file")
	cmd.Flags().BoolVar(&f.raw, "raw", false, "Print only the reply text and sources, without styling")
	cmd.Flags().BoolVar(&f.copy, "copy", false, "Copy the reply to the clipboard")
}

func newAskCmd(a *app) *cobra.Command {
	f := &askFlags{}
	cmd := &cobra.Command{
		Use:   "ask [question]",
		Short: "Ask a single question and print the reply",
		Long: `Send one question to the assistant and print the conversation.

The question can be passed as an argument, read from a file with -f,
or piped on stdin. On failure the apology message is printed and the
command exits with a non-zero status.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			question, ok, err := a.readQuestion(args, f.file)
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("%w: pass a question, use -f, or pipe it on stdin", apierrors.ErrEmptyMessage)
			}
			return a.runAsk(cmd.Context(), question, f)
		},
	}
	addAskFlags(cmd, f)
	return cmd
}

// runAsk performs one conversation turn and prints the result
func (a *app) runAsk(ctx context.Context, question string, f *askFlags) error {
	client, _, err := a.client()
	if err != nil {
		return err
	}

	controller := chat.NewController(client, chat.WithLogger(logger.Named("chat")))
	prompt, ok := controller.Begin(question)
	if !ok {
		return apierrors.ErrEmptyMessage
	}

	var spin *spinner
	if !f.raw && a.deps.IsTerminal() {
		spin = newSpinner(a.deps.Err, "Sending")
		spin.start()
	}

	resp, reqErr := controller.Send(ctx, prompt)
	controller.Complete(resp, reqErr)

	if spin != nil {
		if reqErr != nil {
			spin.stopWithError()
		} else {
			spin.stopWithSuccess("Done")
		}
	}

	reply, _ := controller.LastAssistant()
	if f.raw {
		writeRaw(a.deps.Out, reply)
	} else {
		opts := a.bubbleOptions(a.deps.TerminalWidth())
		fmt.Fprintln(a.deps.Out, tui.RenderConversation(controller.Messages(), opts))
	}

	if reqErr != nil {
		return fmt.Errorf("chat request failed: %w", reqErr)
	}

	if f.copy || a.cfg.CopyToClipboard {
		a.copyReply(reply.Text, f.raw)
	}
	return nil
}

// writeRaw prints the reply text followed by a plain sources list
func writeRaw(w io.Writer, reply models.Message) {
	fmt.Fprintln(w, reply.Text)
	if !reply.HasSources() {
		return
	}
	var sb strings.Builder
	sb.WriteString("\nSources:\n")
	for _, src := range reply.Sources {
		sb.WriteString("- ")
		sb.WriteString(src)
		sb.WriteString("\n")
	}
	fmt.Fprint(w, sb.String())
}

// copyReply copies text to the clipboard; failures are reported, not fatal
func (a *app) copyReply(text string, quiet bool) {
	if err := a.deps.CopyToClipboard(text); err != nil {
		warnMsg := lipgloss.NewStyle().Foreground(colorWarning).Render(
			fmt.Sprintf("⚠ Failed to copy to clipboard: %v", err),
		)
		fmt.Fprintln(a.deps.Err, warnMsg)
		return
	}
	if !quiet {
		fmt.Fprintln(a.deps.Err, lipgloss.NewStyle().Foreground(colorSuccess).Render("✓ Copied to clipboard"))
	}
}
