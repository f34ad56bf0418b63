// Package parser converts playground input into Command structs.
// Intentionally dumb: aliases and a few multi-word phrases, nothing more.
package parser

import (
	"strconv"
	"strings"

	"github.com/nathoo/choicecore/types"
)

var verbAliases = map[string]string{
	// Start a discover chain
	"s":       "start",
	"begin":   "start",
	"trigger": "start",
	"cast":    "start",

	// Resolve the pending choice
	"p":      "pick",
	"choose": "pick",
	"select": "pick",
	"take":   "pick",

	// Inspect
	"l":         "show",
	"look":      "show",
	"choices":   "show",
	"pending":   "show",
	"h":         "hand",
	"i":         "hand",
	"inv":       "hand",
	"b":         "board",
	"field":     "board",
	"ls":        "list",
	"discovers": "list",

	// Seat
	"seat": "player",
	"as":   "player",
}

var fillers = map[string]bool{
	"the": true, "a": true, "an": true, "card": true, "option": true, "number": true, "#": true,
}

// Parse converts a raw command string into a Command. A bare number is
// shorthand for "pick <number>".
func Parse(input string) types.Command {
	input = strings.TrimSpace(input)
	if input == "" {
		return types.Command{}
	}

	words := strings.Fields(strings.ToLower(input))

	if len(words) == 1 {
		if _, err := strconv.Atoi(words[0]); err == nil {
			return types.Command{Verb: "pick", Arg: words[0]}
		}
	}

	words = expandMultiWordVerbs(words)

	if alias, ok := verbAliases[words[0]]; ok {
		words[0] = alias
	}

	rest := stripFillers(words[1:])
	return types.Command{Verb: words[0], Arg: strings.Join(rest, " ")}
}

// expandMultiWordVerbs handles "pick up", "show hand", "switch to" etc.
func expandMultiWordVerbs(words []string) []string {
	if len(words) < 2 {
		return words
	}

	switch words[0] {
	case "show", "look":
		if words[1] == "hand" || words[1] == "board" {
			return words[1:]
		}
		if words[1] == "at" {
			return append([]string{"show"}, words[2:]...)
		}
	case "switch", "play":
		if words[1] == "as" || words[1] == "to" {
			return append([]string{"player"}, words[2:]...)
		}
	case "go":
		if words[1] == "with" {
			return append([]string{"pick"}, words[2:]...)
		}
	}

	return words
}

func stripFillers(words []string) []string {
	result := make([]string, 0, len(words))
	for _, w := range words {
		if !fillers[w] {
			result = append(result, strings.TrimPrefix(w, "#"))
		}
	}
	return result
}
