// Copyright 2026 The Portal Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"strings"
	"testing"

	"github.com/JonatanNevo/portal-framework/cmd/portal/cli"
)

// walkCommands recursively visits every command in the tree,
// calling visit for each node with the accumulated command path.
func walkCommands(command *cli.Command, path []string, visit func(*cli.Command, []string)) {
	current := make([]string, len(path)+1)
	copy(current, path)
	current[len(path)] = command.Name
	visit(command, current)
	for _, sub := range command.Subcommands {
		walkCommands(sub, current, visit)
	}
}

// TestCommandTree checks that every command can be dispatched and
// documented: leaves have a Run function, every command below the
// root has a summary, and every flag set builds without panicking.
func TestCommandTree(t *testing.T) {
	seen := make(map[string]bool)
	walkCommands(Root(), nil, func(command *cli.Command, path []string) {
		name := strings.Join(path, " ")
		if seen[name] {
			t.Errorf("%s: duplicate command path", name)
		}
		seen[name] = true

		if len(command.Subcommands) == 0 && command.Run == nil {
			t.Errorf("%s: leaf command has no Run", name)
		}
		if len(path) > 1 && command.Summary == "" {
			t.Errorf("%s: missing Summary", name)
		}
		if command.Flags != nil {
			if flagSet := command.Flags(); flagSet == nil {
				t.Errorf("%s: Flags returned nil", name)
			}
		}
	})

	for _, want := range []string{
		"portal inspect",
		"portal registry build",
		"portal registry hash",
		"portal registry lookup",
		"portal registry cache",
		"portal property encode",
		"portal property kinds",
		"portal version",
	} {
		if !seen[want] {
			t.Errorf("command tree is missing %q", want)
		}
	}
}
