package chat_tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattsolo1/grove-core/logging"
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		m.Help.Width = msg.Width
		m.Input.Width = msg.Width - lipgloss.Width(m.Input.Prompt) - 4
		m.Viewport.Width = msg.Width
		m.Viewport.Height = m.transcriptHeight()
		m.Ready = true
		m.refreshTranscript()
		return m, nil

	case TurnFinishedMsg:
		logger := logging.NewLogger("grove-chat-tui")
		logger.WithFields(map[string]interface{}{
			"outcome":     msg.Outcome.Kind.String(),
			"has_booking": msg.Outcome.Booking != nil,
		}).Info("Turn finished")

		m.refreshTranscript()
		return m, nil

	case spinner.TickMsg:
		if !m.Controller.Busy() {
			return m, nil
		}
		var cmd tea.Cmd
		m.Spinner, cmd = m.Spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	var cmd tea.Cmd
	m.Input, cmd = m.Input.Update(msg)
	return m, cmd
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.KeyMap.Quit) {
		m.Quitting = true
		return m, tea.Quit
	}

	// The booking card is modal: it only accepts dismissal.
	if _, visible := m.Controller.BookingModal(); visible {
		if key.Matches(msg, m.KeyMap.Dismiss) {
			m.Controller.DismissBookingModal()
		}
		return m, nil
	}

	switch {
	case key.Matches(msg, m.KeyMap.Help):
		m.Help.ShowAll = !m.Help.ShowAll
		m.Viewport.Height = m.transcriptHeight()
		return m, nil

	case key.Matches(msg, m.KeyMap.Clear):
		m.Controller.ClearConversation()
		m.Input.Reset()
		m.refreshTranscript()
		return m, nil

	case key.Matches(msg, m.KeyMap.Send):
		return m.send()

	case key.Matches(msg, m.KeyMap.Up):
		m.Viewport.HalfViewUp()
		return m, nil

	case key.Matches(msg, m.KeyMap.Down):
		m.Viewport.HalfViewDown()
		return m, nil

	case key.Matches(msg, m.KeyMap.GoToTop):
		m.Viewport.GotoTop()
		return m, nil

	case key.Matches(msg, m.KeyMap.GoToBottom):
		m.Viewport.GotoBottom()
		return m, nil
	}

	var cmd tea.Cmd
	m.Input, cmd = m.Input.Update(msg)
	return m, cmd
}

// send submits the input unless it is blank or a turn is already in flight.
func (m Model) send() (tea.Model, tea.Cmd) {
	text := strings.TrimSpace(m.Input.Value())
	if text == "" || m.Controller.Busy() {
		return m, nil
	}

	turn := m.Controller.Submit(m.Ctx, text)
	m.Input.Reset()
	m.refreshTranscript()

	return m, tea.Batch(waitForTurn(turn), m.Spinner.Tick)
}

// refreshTranscript re-renders the conversation and keeps the newest message in view.
func (m *Model) refreshTranscript() {
	m.Viewport.SetContent(renderTranscript(m.Controller.Transcript(), m.Viewport.Width, m.Options))
	m.Viewport.GotoBottom()
}
