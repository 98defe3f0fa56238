package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/mattn/go-isatty"
	"github.com/mattsolo1/grove-chat/cmd/chat_tui"
	"github.com/mattsolo1/grove-chat/pkg/chat"
	"github.com/mattsolo1/grove-chat/pkg/transport"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// chatOptions are the flags of one chat command.
type chatOptions struct {
	connection connectionFlags
	plain      bool
}

func (o *chatOptions) register(cmd *cobra.Command) {
	o.connection.register(cmd)
	cmd.Flags().BoolVar(&o.plain, "plain", false, "Use the line-based interface even on a terminal")
}

// NewChatCmd creates the `chat` command.
func NewChatCmd() *cobra.Command {
	opts := &chatOptions{}
	chatCmd := &cobra.Command{
		Use:     "chat",
		Aliases: []string{"tui"},
		Short:   "Start an interactive chat with the booking assistant",
		Long: `Start an interactive chat with the booking assistant.

On a terminal this opens the chat TUI. When stdin or stdout is not a terminal,
or --plain is given, messages are read line by line from stdin instead.

Line mode commands:
  /clear   start a new conversation
  /quit    exit`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runChat(cmd, opts)
		},
	}
	opts.register(chatCmd)
	return chatCmd
}

func isInteractiveTerminal() bool {
	stdinTTY := isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
	stdoutTTY := isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
	return stdinTTY && stdoutTTY
}

func runChat(cmd *cobra.Command, opts *chatOptions) error {
	cfg, err := opts.connection.resolveConfig(cmd)
	if err != nil {
		return err
	}

	tuiMode := !opts.plain && isInteractiveTerminal()
	controller, logger, closer, err := newChatSession(cfg, tuiMode, "")
	if err != nil {
		return err
	}
	defer closer.Close()

	parent := cmd.Context()
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, os.Interrupt)
	defer stop()

	logger.WithFields(logrus.Fields{
		"endpoint": cfg.Endpoint,
		"tui":      tuiMode,
	}).Info("Starting chat")

	if tuiMode {
		return chat_tui.Run(ctx, controller, chat_tui.Options{
			UserName:      cfg.UserName,
			AssistantName: cfg.AssistantName,
		})
	}

	presenter := &linePresenter{
		controller:    controller,
		in:            cmd.InOrStdin(),
		out:           cmd.OutOrStdout(),
		userName:      cfg.UserName,
		assistantName: cfg.AssistantName,
		prompt:        isInteractiveTerminal(),
	}
	return presenter.Run(ctx)
}

// newChatSession wires the HTTP transport and a controller from cfg.
func newChatSession(cfg *ChatConfig, tuiMode bool, sessionID string) (*chat.Controller, *logrus.Logger, io.Closer, error) {
	timeout, err := cfg.Timeout()
	if err != nil {
		return nil, nil, nil, err
	}

	logger, closer, err := newCommandLogger(cfg, tuiMode)
	if err != nil {
		return nil, nil, nil, err
	}

	fetcher := transport.NewHTTPClient(cfg.Endpoint, timeout, logger)
	controller := chat.NewController(fetcher, &chat.ControllerConfig{
		Greeting:  cfg.Greeting,
		SessionID: sessionID,
		Logger:    logger,
	})
	return controller, logger, closer, nil
}

// turnError converts a failed outcome into a command error.
func turnError(out chat.Outcome) error {
	switch out.Kind {
	case chat.OutcomeMalformed:
		return fmt.Errorf("unexpected response from chat backend: %w", out.Err)
	case chat.OutcomeTransportFailure:
		return fmt.Errorf("could not reach chat backend: %w", out.Err)
	case chat.OutcomeDiscarded:
		return fmt.Errorf("conversation was cleared before the reply arrived")
	}
	return nil
}

