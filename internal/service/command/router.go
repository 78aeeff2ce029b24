package command

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/sandevgo/aide/internal/core"
)

type Router struct {
	commands map[string]core.SlashCommand
}

var _ core.CmdRouter = (*Router)(nil)

func New(commands []core.SlashCommand) *Router {
	c := &Router{
		commands: make(map[string]core.SlashCommand),
	}
	c.Register(commands...)
	return c
}

func (c *Router) Register(commands ...core.SlashCommand) {
	for _, cmd := range commands {
		c.commands[cmd.Name()] = cmd
	}
}

func (c *Router) Execute(ctx context.Context, userID, input string) (string, bool) {
	input = strings.TrimSpace(input)
	if !strings.HasPrefix(input, "/") {
		return "", false
	}

	parts := strings.Fields(input)
	name := strings.TrimPrefix(parts[0], "/")
	// telegram appends the bot name in groups: /help@aide_bot
	name, _, _ = strings.Cut(name, "@")
	args := parts[1:]

	cmd, ok := c.commands[name]
	if !ok {
		return fmt.Sprintf("Unknown command: /%s. Try /help.", name), true
	}

	result, err := cmd.Execute(ctx, userID, args)
	if err != nil {
		return fmt.Sprintf("Error: %v", err), true
	}
	return result, true
}

// ListCommands returns the registered commands sorted by name.
func (c *Router) ListCommands() []core.SlashCommand {
	res := make([]core.SlashCommand, 0, len(c.commands))
	for _, cmd := range c.commands {
		res = append(res, cmd)
	}
	sort.Slice(res, func(i, j int) bool { return res[i].Name() < res[j].Name() })
	return res
}
