package command

import (
	"context"
	"fmt"

	"github.com/sandevgo/aide/internal/core"
)

type HelpCommand struct {
	router core.CmdRouter
}

func NewHelpCommand(router core.CmdRouter) *HelpCommand {
	return &HelpCommand{router: router}
}

func (c *HelpCommand) Name() string {
	return "help"
}

func (c *HelpCommand) Description() string {
	return "Show what I can do"
}

func (c *HelpCommand) Execute(ctx context.Context, userID string, args []string) (string, error) {
	var items []string
	for _, cmd := range c.router.ListCommands() {
		items = append(items, fmt.Sprintf("`/%s` %s", cmd.Name(), cmd.Description()))
	}

	return newReply("Aide").
		text("🗣 **Just ask**\nWeather, news, reminders, meetings, tasks and notes in plain words.").
		examples(
			"what's the weather in Paris",
			"show technology news",
			"remind me about the dentist tomorrow at 3 pm",
			"schedule a meeting about budget on friday",
			"show my pending tasks",
			"delete note about groceries",
		).
		section("⌨️", "Commands", items).
		String(), nil
}
