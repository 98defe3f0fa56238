package chat_tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattsolo1/grove-chat/pkg/booking"
	"github.com/mattsolo1/grove-chat/pkg/chat"
	"github.com/mattsolo1/grove-core/tui/theme"
)

const (
	headerHeight = 2 // title line plus blank line
	footerHeight = 4 // typing line, input, blank line, short help
)

func (m Model) transcriptHeight() int {
	reserved := headerHeight + footerHeight
	if m.Help.ShowAll {
		reserved += 6
	}
	if h := m.Height - reserved; h > 3 {
		return h
	}
	return 3
}

func (m Model) View() string {
	if m.Quitting {
		return ""
	}
	if !m.Ready {
		return "\n  Loading..."
	}

	if details, visible := m.Controller.BookingModal(); visible {
		return lipgloss.Place(m.Width, m.Height, lipgloss.Center, lipgloss.Center, renderBookingModal(details))
	}

	var b strings.Builder
	b.WriteString(theme.DefaultTheme.Header.Render(" Booking Assistant "))
	b.WriteString("\n\n")
	b.WriteString(m.Viewport.View())
	b.WriteString("\n")

	if m.Controller.Busy() {
		b.WriteString(m.Spinner.View())
		b.WriteString(theme.DefaultTheme.Muted.Render(fmt.Sprintf(" %s is typing...", m.Options.AssistantName)))
	}
	b.WriteString("\n")

	inputStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.DefaultColors.Border).
		Padding(0, 1)
	b.WriteString(inputStyle.Render(m.Input.View()))
	b.WriteString("\n")
	b.WriteString(m.Help.View())

	return b.String()
}

// renderTranscript lays out messages oldest first: assistant messages on the
// left, the user's on the right.
func renderTranscript(messages []chat.Message, width int, opts Options) string {
	if width <= 0 {
		width = 80
	}
	bubbleWidth := width * 3 / 4
	if bubbleWidth < 20 {
		bubbleWidth = width
	}

	assistantName := theme.DefaultTheme.Info.Bold(true)
	userName := theme.DefaultTheme.Highlight
	userBubble := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.DefaultColors.Border).
		Padding(0, 1).
		MaxWidth(bubbleWidth)
	assistantBubble := lipgloss.NewStyle().Width(bubbleWidth)

	blocks := make([]string, 0, len(messages))
	for _, msg := range messages {
		var block string
		if msg.Author == chat.AuthorUser {
			bubble := userBubble.Render(lipgloss.NewStyle().Width(bubbleWidth - 4).Render(msg.Text))
			block = lipgloss.JoinVertical(lipgloss.Right, userName.Render(opts.UserName), bubble)
			block = lipgloss.PlaceHorizontal(width, lipgloss.Right, block)
		} else {
			block = lipgloss.JoinVertical(lipgloss.Left, assistantName.Render(opts.AssistantName), assistantBubble.Render(msg.Text))
		}
		blocks = append(blocks, block)
	}

	return strings.Join(blocks, "\n\n")
}

// renderBookingModal draws the confirmation card.
func renderBookingModal(details booking.BookingDetails) string {
	labelStyle := theme.DefaultTheme.Muted.Width(14)
	valueStyle := theme.DefaultTheme.Bold

	var rows []string
	rows = append(rows, theme.DefaultTheme.Header.Render("Booking Confirmation"), "")
	for _, row := range details.Rows() {
		rows = append(rows, labelStyle.Render(row.Label)+valueStyle.Render(row.Value))
	}
	rows = append(rows,
		theme.DefaultTheme.Muted.Render(strings.Repeat("─", 40)),
		"",
		theme.DefaultTheme.Success.Bold(true).Render("[ Okay! ]")+theme.DefaultTheme.Muted.Render("  enter/esc"),
	)

	card := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.DefaultColors.Border).
		Padding(1, 3).
		Width(56)
	return card.Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}
