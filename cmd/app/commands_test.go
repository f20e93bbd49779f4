package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetCommands(t *testing.T) {
	categories := map[string]string{}
	for _, cmd := range getCommands("test") {
		categories[cmd.Name] = cmd.Category
		assert.NotEmpty(t, cmd.Usage, cmd.Name)
		assert.NotNil(t, cmd.Action, cmd.Name)
	}

	assert.Equal(t, map[string]string{
		"server":      "service",
		"worker":      "service",
		"migrate":     "service",
		"issue-token": "auth",
	}, categories)
}
