// Package cli provides terminal I/O, output formatting, and meta-command
// dispatch for the choicecore playground.
package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/nathoo/choicecore/engine/state"
	"github.com/nathoo/choicecore/session"
	"github.com/nathoo/choicecore/types"
)

// CLI handles line-based interaction with the user.
type CLI struct {
	Session   *session.Session
	Defs      *state.Defs
	In        io.Reader
	Out       io.Writer
	EchoInput bool   // echo each input line after the prompt (for script playback)
	lastCmd   string // for "again"/"g" repeat
}

// New creates a CLI wired to the given session.
func New(s *session.Session, defs *state.Defs) *CLI {
	return &CLI{
		Session: s,
		Defs:    defs,
		In:      os.Stdin,
		Out:     os.Stdout,
	}
}

// Run starts the loop. It shows the intro and the available discovers,
// then loops: prompt → input → dispatch → output.
func (c *CLI) Run() {
	if c.Defs.Game.Intro != "" {
		c.printLine(c.Defs.Game.Intro)
		c.printLine("")
	}
	c.printResult(c.Session.Step("list"))

	scanner := bufio.NewScanner(c.In)
	for {
		c.print(c.prompt())
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

		if strings.HasPrefix(input, "/") {
			out, quit := c.Session.Meta(input)
			for _, line := range out {
				c.printSystem(line)
			}
			if quit {
				return
			}
			continue
		}

		lower := strings.ToLower(input)
		if lower == "again" || lower == "g" {
			if c.lastCmd == "" {
				c.printLine("Nothing to repeat.")
				continue
			}
			input = c.lastCmd
		} else {
			c.lastCmd = input
		}

		result := c.Session.Step(input)
		c.printResult(result)

		if c.Session.Trace {
			for _, line := range session.FormatTrace(result) {
				c.printSystem(line)
			}
		}
	}
}

// prompt shows the timeline number once the session has forked.
func (c *CLI) prompt() string {
	if len(c.Session.Timelines) > 1 {
		return fmt.Sprintf("[%d]> ", c.Session.Active+1)
	}
	return "> "
}

func (c *CLI) printResult(result types.Result) {
	for _, line := range result.Output {
		c.printLine(line)
	}
}

func (c *CLI) printLine(text string) {
	fmt.Fprintln(c.Out, text)
}

func (c *CLI) print(text string) {
	fmt.Fprint(c.Out, text)
}

func (c *CLI) printSystem(text string) {
	fmt.Fprintf(c.Out, "[%s]\n", text)
}
