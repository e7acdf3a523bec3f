package commands

import (
	"context"
	"io"
	"os"

	"github.com/atotto/clipboard"
	"golang.org/x/term"

	"github.com/diogo/planassist/internal/api"
	"github.com/diogo/planassist/internal/chat"
	"github.com/diogo/planassist/internal/tui"
)

// TUIInterface defines the methods required from the TUI package.
type TUIInterface interface {
	RunChat(ctx context.Context, controller *chat.Controller, opts tui.ChatOptions) error
}

// Dependencies holds the external dependencies for the commands.
// This allows for dependency injection and easier testing.
type Dependencies struct {
	// Client, when set, is used instead of building an HTTP client from API_URL.
	Client api.ChatClientInterface

	// TUI is the terminal user interface.
	TUI TUIInterface

	// Standard streams
	In  io.Reader
	Out io.Writer
	Err io.Writer

	// StdinPiped reports whether In carries piped data rather than a terminal.
	StdinPiped func() bool

	// IsTerminal reports whether Out is a terminal.
	IsTerminal func() bool

	// TerminalWidth returns the width of Out, or 0 when unknown.
	TerminalWidth func() int

	// CopyToClipboard writes text to the system clipboard.
	CopyToClipboard func(string) error
}

// DefaultTUI is the production implementation of TUIInterface.
type DefaultTUI struct{}

func (d *DefaultTUI) RunChat(ctx context.Context, controller *chat.Controller, opts tui.ChatOptions) error {
	return tui.RunChat(ctx, controller, opts)
}

// NewDependencies creates a new Dependencies struct with default implementations.
func NewDependencies() *Dependencies {
	return &Dependencies{
		TUI:             &DefaultTUI{},
		In:              os.Stdin,
		Out:             os.Stdout,
		Err:             os.Stderr,
		StdinPiped:      stdinPiped,
		IsTerminal:      isStdoutTTY,
		TerminalWidth:   getTerminalWidth,
		CopyToClipboard: clipboard.WriteAll,
	}
}

// withDefaults fills unset fields so tests only provide what they exercise.
func (d *Dependencies) withDefaults() *Dependencies {
	if d == nil {
		return NewDependencies()
	}
	out := *d
	if out.TUI == nil {
		out.TUI = &DefaultTUI{}
	}
	if out.In == nil {
		out.In = os.Stdin
	}
	if out.Out == nil {
		out.Out = os.Stdout
	}
	if out.Err == nil {
		out.Err = os.Stderr
	}
	if out.StdinPiped == nil {
		out.StdinPiped = func() bool { return false }
	}
	if out.IsTerminal == nil {
		out.IsTerminal = func() bool { return false }
	}
	if out.TerminalWidth == nil {
		out.TerminalWidth = func() int { return 0 }
	}
	if out.CopyToClipboard == nil {
		out.CopyToClipboard = clipboard.WriteAll
	}
	return &out
}

func stdinPiped() bool {
	stat, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return (stat.Mode() & os.ModeCharDevice) == 0
}

// getTerminalWidth returns the terminal width or 0
func getTerminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return 0
	}
	return width
}

// isStdoutTTY returns true if stdout is connected to a terminal
func isStdoutTTY() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}
