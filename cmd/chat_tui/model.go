package chat_tui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattsolo1/grove-chat/pkg/chat"
	"github.com/mattsolo1/grove-core/tui/components/help"
	"github.com/mattsolo1/grove-core/tui/theme"
)

const placeholder = "Ask the bot..."

// Options controls how the transcript is labelled.
type Options struct {
	UserName      string
	AssistantName string
}

// Model is the chat screen. All conversation state lives in the Controller;
// the model only keeps view state.
type Model struct {
	Controller *chat.Controller
	Ctx        context.Context
	Options    Options
	KeyMap     KeyMap
	Help       help.Model
	Input      textinput.Model
	Viewport   viewport.Model
	Spinner    spinner.Model
	Width      int
	Height     int
	Ready      bool // Set once the first WindowSizeMsg arrives
	Quitting   bool
}

// New creates a new Model for controller.
func New(ctx context.Context, controller *chat.Controller, opts Options) Model {
	if opts.UserName == "" {
		opts.UserName = "Demo"
	}
	if opts.AssistantName == "" {
		opts.AssistantName = "Assistant"
	}

	keyMap := NewKeyMap()

	input := textinput.New()
	input.Placeholder = placeholder
	input.Prompt = "› "
	input.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = theme.DefaultTheme.Muted

	return Model{
		Controller: controller,
		Ctx:        ctx,
		Options:    opts,
		KeyMap:     keyMap,
		Help:       help.New(keyMap),
		Input:      input,
		Viewport:   viewport.New(80, 20),
		Spinner:    sp,
	}
}

func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Run starts the TUI and blocks until the user quits.
func Run(ctx context.Context, controller *chat.Controller, opts Options) error {
	p := tea.NewProgram(New(ctx, controller, opts), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}
	return nil
}
