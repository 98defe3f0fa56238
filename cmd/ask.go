package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mattsolo1/grove-chat/pkg/booking"
	"github.com/mattsolo1/grove-core/cli"
	"github.com/spf13/cobra"
)

// askOptions are the flags of one ask command.
type askOptions struct {
	connection connectionFlags
	sessionID  string
}

// askResult is the --json output of `ask`.
type askResult struct {
	Reply     string                  `json:"reply"`
	SessionID string                  `json:"session_id,omitempty"`
	Outcome   string                  `json:"outcome"`
	Booking   *booking.BookingDetails `json:"booking,omitempty"`
}

// NewAskCmd creates the `ask` command.
func NewAskCmd() *cobra.Command {
	opts := &askOptions{}
	askCmd := cli.NewStandardCommand("ask", "Send one message and print the reply")
	askCmd.Use = "ask <message...>"
	askCmd.Long = `Send a single message to the booking assistant and print its reply.

Pass --session with the id printed by a previous call to continue that conversation.

Examples:
  grove-chat ask "What are your opening hours?"
  grove-chat ask --session 3f2a... "Book me in for Friday at 10"
  grove-chat ask --json "Cancel my booking"`
	askCmd.Args = cobra.MinimumNArgs(1)
	askCmd.SilenceUsage = true
	askCmd.RunE = func(cmd *cobra.Command, args []string) error {
		return runAsk(cmd, opts, strings.Join(args, " "))
	}

	opts.connection.register(askCmd)
	askCmd.Flags().StringVar(&opts.sessionID, "session", "", "Continue an existing backend session")
	return askCmd
}

func runAsk(cmd *cobra.Command, opts *askOptions, message string) error {
	message = strings.TrimSpace(message)
	if message == "" {
		return fmt.Errorf("message must not be empty")
	}

	cfg, err := opts.connection.resolveConfig(cmd)
	if err != nil {
		return err
	}

	controller, _, closer, err := newChatSession(cfg, false, opts.sessionID)
	if err != nil {
		return err
	}
	defer closer.Close()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	out := controller.SubmitUserMessage(ctx, message)
	sessionID, _ := controller.SessionID()

	cliOpts := cli.GetOptions(cmd)
	if cliOpts.JSONOutput {
		encoder := json.NewEncoder(cmd.OutOrStdout())
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(askResult{
			Reply:     out.Message.Text,
			SessionID: sessionID,
			Outcome:   out.Kind.String(),
			Booking:   out.Booking,
		}); err != nil {
			return err
		}
		return turnError(out)
	}

	fmt.Fprintln(cmd.OutOrStdout(), out.Message.Text)
	if out.Booking != nil {
		fmt.Fprint(cmd.OutOrStdout(), renderBookingCard(*out.Booking))
	}
	if sessionID != "" {
		printErr(cmd, "session: %s\n", sessionID)
	}
	return turnError(out)
}
