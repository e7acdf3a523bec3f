package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/diogo/planassist/internal/models"
	"github.com/diogo/planassist/internal/render"
)

// SourcesPolicy decides which messages show their source citations.
type SourcesPolicy int

const (
	// SourcesAssistantOnly never lists sources under user messages.
	SourcesAssistantOnly SourcesPolicy = iota
	// SourcesAll lists sources under every message that has them.
	SourcesAll
)

// String returns the policy name.
func (p SourcesPolicy) String() string {
	switch p {
	case SourcesAll:
		return "all"
	default:
		return "assistant-only"
	}
}

const (
	defaultRenderWidth = 80
	minBubbleWidth     = 12
	bubbleWidthPercent = 80

	labelUser      = "You"
	labelAssistant = "✦ Assistant"
	sourcesLabel   = "Sources:"
	sourceBullet   = "• "
)

// BubbleOptions controls how RenderMessage lays out a single message.
type BubbleOptions struct {
	// Width is the available line width; bubbles use at most 80% of it.
	Width int
	// Sources selects which messages list their sources.
	Sources SourcesPolicy
	// Markdown renders assistant text with glamour instead of verbatim.
	Markdown bool
	// MarkdownOptions is used when Markdown is set.
	MarkdownOptions render.Options
	// HideLabels drops the "You" / "Assistant" line above each bubble.
	HideLabels bool
}

// DefaultBubbleOptions returns verbatim, assistant-only sources at 80 columns.
func DefaultBubbleOptions() BubbleOptions {
	return BubbleOptions{
		Width:           defaultRenderWidth,
		Sources:         SourcesAssistantOnly,
		MarkdownOptions: render.DefaultOptions(),
	}
}

func (o BubbleOptions) showSources(msg models.Message) bool {
	if !msg.HasSources() {
		return false
	}
	return !msg.IsFromUser || o.Sources == SourcesAll
}

// maxBubbleWidth is the outer width limit of a bubble, borders included.
func (o BubbleOptions) maxBubbleWidth() int {
	width := o.Width
	if width <= 0 {
		width = defaultRenderWidth
	}
	limit := width * bubbleWidthPercent / 100
	if limit < minBubbleWidth {
		limit = minBubbleWidth
	}
	return limit
}

// RenderMessage renders one conversation entry as a styled bubble.
// User messages are right-aligned, assistant messages left-aligned.
// The text is shown as-is unless opts.Markdown is set for an assistant reply.
func RenderMessage(msg models.Message, opts BubbleOptions) string {
	style := assistantBubbleStyle
	label := assistantLabelStyle.Render(labelAssistant)
	align := lipgloss.Left
	if msg.IsFromUser {
		style = userBubbleStyle
		label = userLabelStyle.Render(labelUser)
		align = lipgloss.Right
	}

	innerMax := opts.maxBubbleWidth() - style.GetHorizontalFrameSize()
	if innerMax < 1 {
		innerMax = 1
	}

	body := msg.Text
	if opts.Markdown && !msg.IsFromUser {
		body = render.MarkdownOrPlain(body, opts.MarkdownOptions.WithWidth(innerMax))
	}

	if opts.showSources(msg) {
		body = body + "\n" + renderSources(msg.Sources)
	}

	contentWidth := lipgloss.Width(body)
	if contentWidth > innerMax {
		contentWidth = innerMax
	}
	if contentWidth < 1 {
		contentWidth = 1
	}

	bubble := style.Width(contentWidth + style.GetHorizontalPadding()).Render(body)

	block := bubble
	if !opts.HideLabels {
		block = lipgloss.JoinVertical(align, label, bubble)
	}

	width := opts.Width
	if width <= 0 {
		width = defaultRenderWidth
	}
	return lipgloss.PlaceHorizontal(width, align, block)
}

func renderSources(sources []string) string {
	lines := make([]string, 0, len(sources)+1)
	lines = append(lines, sourcesLabelStyle.Render(sourcesLabel))
	for _, src := range sources {
		lines = append(lines, sourceItemStyle.Render(sourceBullet+src))
	}
	return strings.Join(lines, "\n")
}

// RenderConversation renders every message in order, separated by a blank line.
func RenderConversation(msgs []models.Message, opts BubbleOptions) string {
	parts := make([]string, 0, len(msgs))
	for _, msg := range msgs {
		parts = append(parts, RenderMessage(msg, opts))
	}
	return strings.Join(parts, "\n\n")
}
