package cmd

import (
	"fmt"

	"github.com/mattsolo1/grove-core/tui/theme"
	"github.com/spf13/cobra"
)

const aboutText = `This client is a terminal interface to an AI agent for appointment assistance. Use it to:
  - Ask questions about company policies or services.
  - Book appointments through the chatbot.

How it works:
  1. You send a message: the text is sent to the backend along with a session id
     so the assistant keeps the context of the conversation.
  2. The backend processes the query, checking availability or booking where needed.
  3. The assistant's reply is shown in the chat. When a booking is confirmed, a
     confirmation card with the booking details pops up.`

// NewAboutCmd creates the `about` command.
func NewAboutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "about",
		Short: "Describe what grove-chat does",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), theme.DefaultTheme.Header.Render(" AI Agent for Appointment Assistance "))
			fmt.Fprintln(cmd.OutOrStdout())
			fmt.Fprintln(cmd.OutOrStdout(), aboutText)
		},
	}
}
