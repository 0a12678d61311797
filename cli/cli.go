// Package cli provides terminal I/O, output formatting, and meta-command
// dispatch for the spirecore engine.
package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// CLI handles plain line-oriented interaction with the player.
type CLI struct {
	Session   *Session
	In        io.Reader
	Out       io.Writer
	EchoInput bool // echo each input line after the prompt (for script playback)
}

// New creates a CLI on stdin and stdout.
func New(s *Session) *CLI {
	return &CLI{
		Session: s,
		In:      os.Stdin,
		Out:     os.Stdout,
	}
}

// Run shows the intro and the first decision, then loops:
// prompt → input → dispatch → output. It returns when input ends or the
// player quits.
func (c *CLI) Run() {
	for _, line := range c.Session.Start() {
		c.printLine(line)
	}

	scanner := bufio.NewScanner(c.In)
	for {
		c.print("> ")
		if !scanner.Scan() {
			break
		}
		input := strings.TrimSpace(scanner.Text())
		if input == "" {
			continue
		}
		// Skip comment lines (for script files).
		if strings.HasPrefix(input, "#") {
			continue
		}
		if c.EchoInput {
			c.printLine(input)
		}

		reply := c.Session.Handle(input)
		for _, line := range reply.Lines {
			if reply.System {
				c.printSystem(line)
			} else {
				c.printLine(line)
			}
		}
		if reply.Quit {
			return
		}
	}
}

func (c *CLI) printLine(text string) {
	fmt.Fprintln(c.Out, text)
}

func (c *CLI) print(text string) {
	fmt.Fprint(c.Out, text)
}

func (c *CLI) printSystem(text string) {
	if text == "" {
		fmt.Fprintln(c.Out)
		return
	}
	fmt.Fprintf(c.Out, "[%s]\n", text)
}
