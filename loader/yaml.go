package loader

import (
	"fmt"
	"os"

	"github.com/nathoo/choicecore/types"
	"gopkg.in/yaml.v3"
)

// yamlFile is the layout of a .yaml definition file. Cards and pools may be
// split across any number of files.
type yamlFile struct {
	Cards []yamlCard          `yaml:"cards"`
	Pools map[string]yamlPool `yaml:"pools"`
}

type yamlCard struct {
	ID    string `yaml:"id"`
	Name  string `yaml:"name"`
	Class string `yaml:"class"`
	Kind  string `yaml:"kind"`
	Cost  int    `yaml:"cost"`
	Text  string `yaml:"text"`
}

// yamlPool accepts a flat list of card ids, a list of groups, or a mix of
// both; bare ids are grouped the same way Lua pools are.
type yamlPool [][]string

func (p *yamlPool) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.SequenceNode {
		return fmt.Errorf("line %d: pool must be a list", node.Line)
	}
	var run []string
	var groups [][]string
	for _, item := range node.Content {
		switch item.Kind {
		case yaml.ScalarNode:
			run = append(run, item.Value)
		case yaml.SequenceNode:
			var g []string
			if err := item.Decode(&g); err != nil {
				return err
			}
			groups = flushRun(groups, &run)
			groups = append(groups, g)
		default:
			return fmt.Errorf("line %d: expected card id or list", item.Line)
		}
	}
	*p = flushRun(groups, &run)
	return nil
}

// loadYAML decodes one definition file into p.
func loadYAML(path, name string, p *program) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	var f yamlFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return fmt.Errorf("parsing %s: %w", name, err)
	}
	for i, c := range f.Cards {
		if c.ID == "" {
			return fmt.Errorf("%s: card %d has no id", name, i+1)
		}
		card := &types.Card{ID: c.ID, Name: c.Name, Class: c.Class, Kind: c.Kind, Cost: c.Cost, Text: c.Text}
		if card.Name == "" {
			card.Name = c.ID
		}
		if card.Kind == "" {
			card.Kind = "minion"
		}
		p.addCard(card, name)
	}
	for id, groups := range f.Pools {
		p.addPool(id, groups, name)
	}
	return nil
}
