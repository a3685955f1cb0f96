// Package console is a local REPL transport for trying the assistant without a chat app.
package console

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"ai-notes-bot/internal/channel"

	"github.com/fatih/color"
)

const ConversationID = "console:local"

var exitCommands = map[string]struct{}{"/salir": {}, "salir": {}, "exit": {}, "quit": {}}

type Console struct {
	in         io.Reader
	out        io.Writer
	dispatcher *channel.Dispatcher

	prompt *color.Color
	bot    *color.Color
	hint   *color.Color
}

func New(in io.Reader, out io.Writer, dispatcher *channel.Dispatcher) *Console {
	return &Console{
		in:         in,
		out:        out,
		dispatcher: dispatcher,
		prompt:     color.New(color.FgGreen, color.Bold),
		bot:        color.New(color.FgCyan),
		hint:       color.New(color.FgHiBlack),
	}
}

func (c *Console) Send(ctx context.Context, conversationID, text string) error {
	_, err := c.bot.Fprintf(c.out, "🤖 %s\n\n", text)
	return err
}

// Run reads one message per line until EOF, an exit command, or ctx is done.
func (c *Console) Run(ctx context.Context) error {
	c.hint.Fprintln(c.out, "Escribe un mensaje. /ayuda para ver ejemplos, /salir para terminar.")

	lines := make(chan string)
	errs := make(chan error, 1)
	go func() {
		scanner := bufio.NewScanner(c.in)
		for scanner.Scan() {
			lines <- scanner.Text()
		}
		errs <- scanner.Err()
		close(lines)
	}()

	for {
		c.prompt.Fprint(c.out, "tú › ")

		select {
		case <-ctx.Done():
			fmt.Fprintln(c.out)
			return nil
		case line, ok := <-lines:
			if !ok {
				fmt.Fprintln(c.out)
				return <-errs
			}
			text := strings.TrimSpace(line)
			if text == "" {
				continue
			}
			if _, quit := exitCommands[strings.ToLower(text)]; quit {
				return nil
			}
			c.dispatcher.Dispatch(ctx, c, channel.InboundMessage{ConversationID: ConversationID, Text: text})
		}
	}
}
