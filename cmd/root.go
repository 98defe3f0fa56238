package cmd

import (
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/fatih/color"
	"github.com/mattsolo1/grove-core/cli"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
)

// connectionFlags are the per-command overrides applied on top of ChatConfig.
type connectionFlags struct {
	endpoint string
	timeout  time.Duration
}

func (f *connectionFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.endpoint, "endpoint", "", "Chat backend URL (overrides chat.endpoint)")
	cmd.Flags().DurationVar(&f.timeout, "timeout", 0, "Per-turn HTTP timeout (overrides chat.request_timeout)")
}

// resolveConfig loads the config for the current directory and applies flags.
func (f *connectionFlags) resolveConfig(cmd *cobra.Command) (*ChatConfig, error) {
	cfg, err := loadChatConfig(".")
	if err != nil {
		return nil, err
	}
	if cmd.Flags().Changed("endpoint") {
		cfg.Endpoint = f.endpoint
	}
	if cmd.Flags().Changed("timeout") {
		cfg.RequestTimeout = f.timeout.String()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	applyColorPreference(cfg)
	return cfg, nil
}

func applyColorPreference(cfg *ChatConfig) {
	if cfg.NoColor {
		lipgloss.SetColorProfile(termenv.Ascii)
		color.NoColor = true
	}
}

// NewRootCmd builds the grove-chat command tree. Running it without a
// subcommand starts an interactive chat.
func NewRootCmd() *cobra.Command {
	rootCmd := cli.NewStandardCommand(
		"grove-chat",
		"Chat with the booking assistant from your terminal",
	)
	rootCmd.Long = `Chat with the appointment-booking assistant.

Messages are sent to the configured chat backend, which keeps the conversation
context through a session id. When the assistant confirms a booking, the
booking details are shown in a confirmation card.

Examples:
  grove-chat                                  # interactive chat
  grove-chat ask "What are your opening hours?"
  grove-chat config show`

	chatOpts := &chatOptions{}
	chatOpts.register(rootCmd)
	rootCmd.RunE = func(cmd *cobra.Command, args []string) error {
		return runChat(cmd, chatOpts)
	}

	rootCmd.AddCommand(NewChatCmd())
	rootCmd.AddCommand(NewAskCmd())
	rootCmd.AddCommand(NewConfigCmd())
	rootCmd.AddCommand(NewAboutCmd())
	rootCmd.AddCommand(NewVersionCmd())
	return rootCmd
}

func printErr(cmd *cobra.Command, format string, args ...interface{}) {
	fmt.Fprintf(cmd.ErrOrStderr(), format, args...)
}
