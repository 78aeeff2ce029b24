package command

import (
	"context"
	"fmt"

	"github.com/sandevgo/aide/internal/core"
)

const remindersLayout = "Mon 2 Jan 15:04"

type RemindersCommand struct {
	repo core.RemindersRepository
}

func NewRemindersCommand(repo core.RemindersRepository) *RemindersCommand {
	return &RemindersCommand{repo: repo}
}

func (c *RemindersCommand) Name() string {
	return "reminders"
}

func (c *RemindersCommand) Description() string {
	return "List pending reminders, meetings and tasks (add 'all' for done ones)"
}

func (c *RemindersCommand) Execute(ctx context.Context, userID string, args []string) (string, error) {
	pendingOnly := !(len(args) > 0 && args[0] == "all")

	items, err := c.repo.ListReminders(ctx, userID, core.ReminderFilter{PendingOnly: pendingOnly})
	if err != nil {
		return "", fmt.Errorf("failed to list reminders: %w", err)
	}

	if len(items) == 0 {
		return newReply("Reminders").text("Nothing scheduled.").String(), nil
	}

	lines := make([]string, 0, len(items))
	for _, r := range items {
		line := fmt.Sprintf("%s `%s` %s", r.DueDate.Format(remindersLayout), r.Kind, r.Title)
		if r.Completed {
			line += " ✓"
		}
		if r.Priority == core.PriorityHigh {
			line += " ❗"
		}
		lines = append(lines, line)
	}

	return newReply(fmt.Sprintf("Reminders (%d)", len(items))).list(lines).String(), nil
}
