package cmd

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/mattsolo1/grove-chat/pkg/booking"
	"github.com/mattsolo1/grove-chat/pkg/chat"
)

// linePresenter drives a Controller from line-oriented input.
type linePresenter struct {
	controller    *chat.Controller
	in            io.Reader
	out           io.Writer
	userName      string
	assistantName string
	prompt        bool
}

var (
	assistantLabel = color.New(color.FgMagenta, color.Bold)
	userLabel      = color.New(color.FgCyan, color.Bold)
	cardTitle      = color.New(color.FgWhite, color.Bold)
	cardLabel      = color.New(color.FgHiBlack)
)

// Run reads messages until EOF, /quit, or ctx is cancelled.
func (p *linePresenter) Run(ctx context.Context) error {
	for _, msg := range p.controller.Transcript() {
		p.printMessage(msg)
	}

	readCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	lines, readErr := p.readLines(readCtx)

	for {
		if p.prompt {
			fmt.Fprint(p.out, userLabel.Sprint(p.userName+"> "))
		}

		var text string
		select {
		case <-ctx.Done():
			return nil
		case line, ok := <-lines:
			if !ok {
				return <-readErr
			}
			text = strings.TrimSpace(line)
		}

		switch text {
		case "":
			continue
		case "/quit", "/exit":
			return nil
		case "/clear":
			p.controller.ClearConversation()
			for _, msg := range p.controller.Transcript() {
				p.printMessage(msg)
			}
			continue
		}

		turn := p.controller.Submit(ctx, text)
		if !p.prompt {
			// Piped input is not echoed by a terminal
			p.printMessage(turn.UserMessage)
		}

		select {
		case <-ctx.Done():
			return nil
		case <-turn.Done():
		}

		out := turn.Wait()
		if out.Kind == chat.OutcomeDiscarded {
			continue
		}
		p.printMessage(out.Message)

		if details, ok := p.controller.BookingModal(); ok {
			fmt.Fprint(p.out, renderBookingCard(details))
			p.controller.DismissBookingModal()
		}
	}
}

// readLines scans p.in on its own goroutine so Run can stop on ctx while a
// read is blocked. The scanner error is sent once the lines channel closes.
// A read still blocked on stdin after ctx is done is left to process exit.
func (p *linePresenter) readLines(ctx context.Context) (<-chan string, <-chan error) {
	lines := make(chan string)
	errc := make(chan error, 1)

	go func() {
		defer close(lines)

		scanner := bufio.NewScanner(p.in)
		scanner.Buffer(make([]byte, 64*1024), 1024*1024)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
		errc <- scanner.Err()
	}()

	return lines, errc
}

func (p *linePresenter) printMessage(msg chat.Message) {
	label := assistantLabel.Sprint(p.assistantName + ":")
	if msg.Author == chat.AuthorUser {
		label = userLabel.Sprint(p.userName + ":")
	}
	fmt.Fprintf(p.out, "%s %s\n", label, msg.Text)
}

// renderBookingCard formats a booking confirmation for plain terminals.
func renderBookingCard(details booking.BookingDetails) string {
	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(cardTitle.Sprint("Booking Confirmation"))
	b.WriteString("\n")
	for _, row := range details.Rows() {
		fmt.Fprintf(&b, "  %s %s\n", cardLabel.Sprintf("%-13s", row.Label), row.Value)
	}
	b.WriteString("\n")
	return b.String()
}
