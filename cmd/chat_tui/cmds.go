package chat_tui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattsolo1/grove-chat/pkg/chat"
)

// Message types
type TurnFinishedMsg struct{ Outcome chat.Outcome }

// waitForTurn blocks on the in-flight turn off the event loop.
func waitForTurn(turn *chat.Turn) tea.Cmd {
	return func() tea.Msg {
		return TurnFinishedMsg{Outcome: turn.Wait()}
	}
}
