package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Styles used throughout the TUI.
var (
	styleStatusBar = lipgloss.NewStyle().
			Background(lipgloss.Color("236")).
			Foreground(lipgloss.Color("252")).
			Bold(true)

	styleStatusPending = lipgloss.NewStyle().
				Background(lipgloss.Color("236")).
				Foreground(lipgloss.Color("214")).
				Bold(true)

	styleInputPrompt = lipgloss.NewStyle().
				Foreground(lipgloss.Color("34"))

	stylePlain = lipgloss.NewStyle().
			Foreground(lipgloss.Color("255"))

	styleHeader = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")).
			Bold(true)

	styleOptionNumber = lipgloss.NewStyle().
				Foreground(lipgloss.Color("214")).
				Bold(true)

	styleOptionName = lipgloss.NewStyle().
			Foreground(lipgloss.Color("117"))

	styleOptionText = lipgloss.NewStyle().
			Foreground(lipgloss.Color("246"))

	styleSystem = lipgloss.NewStyle().
			Foreground(lipgloss.Color("243"))

	styleError = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	stylePlayerInput = lipgloss.NewStyle().
				Foreground(lipgloss.Color("34"))

	styleTrace = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))
)

// lineKind identifies the type of an output line for styling.
type lineKind int

const (
	kindPlain lineKind = iota
	kindHeader
	kindOption
	kindSystem
	kindError
	kindTrace
)

// classifyLine determines what kind of output line this is.
func classifyLine(line string) lineKind {
	switch {
	case strings.HasPrefix(line, "[trace]"):
		return kindTrace
	case strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]"):
		return kindSystem
	case strings.HasPrefix(line, "Choose one"),
		strings.HasPrefix(line, "Your ") && strings.HasSuffix(line, ":"),
		line == "Discovers:":
		return kindHeader
	case isOption(line):
		return kindOption
	case strings.HasPrefix(line, "choose an option"),
		strings.HasPrefix(line, "no "),
		strings.HasPrefix(line, "unknown "),
		strings.HasPrefix(line, "finish your"),
		strings.HasPrefix(line, "I don't know"),
		strings.Contains(line, "is not one of the options"):
		return kindError
	default:
		return kindPlain
	}
}

// isOption reports whether line is a numbered choice option ("  2. Name").
func isOption(line string) bool {
	rest, ok := strings.CutPrefix(line, "  ")
	if !ok {
		return false
	}
	num, _, ok := strings.Cut(rest, ". ")
	if !ok || num == "" {
		return false
	}
	for _, r := range num {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// styledOption renders "  2. Fireball (4) - Deal 6 damage." with the number,
// name and card text styled separately.
func styledOption(line string) string {
	rest := strings.TrimPrefix(line, "  ")
	num, body, _ := strings.Cut(rest, ". ")
	name, text, hasText := strings.Cut(body, " - ")
	out := "  " + styleOptionNumber.Render(num+".") + " " + styleOptionName.Render(name)
	if hasText {
		out += styleOptionText.Render(" - " + text)
	}
	return out
}

// styledPlayerInput renders the echoed player input in green with "> " prefix.
func styledPlayerInput(input string) string {
	return stylePlayerInput.Render("> " + input)
}

// styledSystemMsg renders a system message in gray with brackets.
func styledSystemMsg(text string) string {
	return styleSystem.Render("[" + text + "]")
}
