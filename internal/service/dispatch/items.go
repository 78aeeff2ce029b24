package dispatch

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sandevgo/aide/internal/core"
	"github.com/sandevgo/aide/internal/service/notify"
	"github.com/sandevgo/aide/pkg/log"
)

const (
	meetingLead = time.Hour
	defaultLead = 24 * time.Hour
)

func (d *Dispatcher) personal(ctx context.Context, userID string, cmd core.Command) core.Result {
	if userID == "" {
		return core.Fail("I don't know who you are yet.", errors.New("empty user id"))
	}
	if d.deps.Store == nil {
		return core.Fail("Saving items is not available right now.", errors.New("no store configured"))
	}

	if cmd.Domain == core.DomainNote {
		switch cmd.Action {
		case core.ActionGet:
			return d.listNotes(ctx, userID)
		case core.ActionUpdate:
			return d.updateNote(ctx, userID, cmd)
		case core.ActionDelete:
			return d.deleteNote(ctx, userID, cmd)
		default:
			return d.createNote(ctx, userID, cmd)
		}
	}

	switch cmd.Action {
	case core.ActionGet:
		return d.listReminders(ctx, userID, cmd)
	case core.ActionUpdate:
		return d.updateReminder(ctx, userID, cmd)
	case core.ActionDelete:
		return d.deleteReminder(ctx, userID, cmd)
	default:
		return d.createReminder(ctx, userID, cmd)
	}
}

func (d *Dispatcher) dueDate(cmd core.Command) time.Time {
	if cmd.Entities.DueDate != nil {
		return *cmd.Entities.DueDate
	}
	if cmd.Domain == core.DomainMeeting {
		return d.now().Add(meetingLead)
	}
	return d.now().Add(defaultLead)
}

func titleFor(cmd core.Command) string {
	if t := strings.TrimSpace(cmd.Entities.Title); t != "" {
		return t
	}
	return strings.TrimSpace(cmd.Raw)
}

func (d *Dispatcher) createReminder(ctx context.Context, userID string, cmd core.Command) core.Result {
	rem, err := d.deps.Store.CreateReminder(ctx, core.Reminder{
		UserID:      userID,
		Kind:        cmd.Domain,
		Title:       titleFor(cmd),
		Description: cmd.Entities.Description,
		Priority:    cmd.Entities.Priority,
		DueDate:     d.dueDate(cmd),
	})
	if err != nil {
		log.FromCtx(ctx).Error().Err(err).Str("user", userID).Msg("failed to save reminder")
		return core.Fail(fmt.Sprintf("Couldn't save your %s.", cmd.Domain), err)
	}

	msg := fmt.Sprintf("Saved %s %q for %s.", rem.Kind, rem.Title, formatDue(rem.DueDate))
	res := core.Ok(msg, rem)
	d.schedule(ctx, &res, notify.ReminderNotification(rem), rem.DueDate)
	return res
}

func (d *Dispatcher) createNote(ctx context.Context, userID string, cmd core.Command) core.Result {
	note, err := d.deps.Store.CreateVoiceNote(ctx, core.VoiceNote{
		UserID:   userID,
		Title:    titleFor(cmd),
		Content:  cmd.Raw,
		Category: cmd.Entities.Category,
		Priority: cmd.Entities.Priority,
		DueDate:  d.dueDate(cmd),
	})
	if err != nil {
		log.FromCtx(ctx).Error().Err(err).Str("user", userID).Msg("failed to save note")
		return core.Fail("Couldn't save your note.", err)
	}

	msg := fmt.Sprintf("Saved note %q for %s.", note.Title, formatDue(note.DueDate))
	res := core.Ok(msg, note)
	d.schedule(ctx, &res, notify.NoteNotification(note), note.DueDate)
	return res
}

// schedule arms notifications for a saved item. Failures are reported on
// res but the item stays saved.
func (d *Dispatcher) schedule(ctx context.Context, res *core.Result, base core.Notification, due time.Time) {
	if d.deps.Scheduler == nil {
		return
	}
	// "today" without a clock time resolves to the current instant.
	if !due.After(d.now()) {
		res.Message += " It's due now, so no notification was set."
		return
	}
	if _, err := d.deps.Scheduler.ScheduleOffsets(ctx, base, due, d.opts.NotifyOffsets); err != nil {
		log.FromCtx(ctx).Warn().Err(err).Str("id", base.ID).Msg("failed to schedule notification")
		res.Message += " I couldn't schedule a notification for it: " + describeFailure(err) + "."
		res.Error = err.Error()
	}
}

func (d *Dispatcher) listReminders(ctx context.Context, userID string, cmd core.Command) core.Result {
	items, err := d.deps.Store.ListReminders(ctx, userID, core.ReminderFilter{
		Kind:        cmd.Domain,
		PendingOnly: cmd.Entities.Pending,
	})
	if err != nil {
		return core.Fail(fmt.Sprintf("Couldn't load your %ss.", cmd.Domain), err)
	}
	if items == nil {
		items = []core.Reminder{}
	}
	return core.Ok(formatReminders(cmd.Domain, cmd.Entities.Pending, items), items)
}

func (d *Dispatcher) listNotes(ctx context.Context, userID string) core.Result {
	notes, err := d.deps.Store.ListVoiceNotes(ctx, userID)
	if err != nil {
		return core.Fail("Couldn't load your notes.", err)
	}
	if notes == nil {
		notes = []core.VoiceNote{}
	}
	return core.Ok(formatNotes(notes), notes)
}

func (d *Dispatcher) findReminder(ctx context.Context, userID string, cmd core.Command) (core.Reminder, error) {
	title := strings.TrimSpace(cmd.Entities.Title)
	if title == "" {
		return core.Reminder{}, fmt.Errorf("no title given: %w", core.ErrNotFound)
	}

	items, err := d.deps.Store.ListReminders(ctx, userID, core.ReminderFilter{Kind: cmd.Domain})
	if err != nil {
		return core.Reminder{}, err
	}
	return matchTitle(items, title, func(r core.Reminder) string { return r.Title })
}

func (d *Dispatcher) findNote(ctx context.Context, userID string, cmd core.Command) (core.VoiceNote, error) {
	title := strings.TrimSpace(cmd.Entities.Title)
	if title == "" {
		return core.VoiceNote{}, fmt.Errorf("no title given: %w", core.ErrNotFound)
	}

	notes, err := d.deps.Store.ListVoiceNotes(ctx, userID)
	if err != nil {
		return core.VoiceNote{}, err
	}
	return matchTitle(notes, title, func(n core.VoiceNote) string { return n.Title })
}

// matchTitle prefers exact case-insensitive matches and falls back to substrings.
func matchTitle[T any](items []T, title string, titleOf func(T) string) (T, error) {
	var zero T
	want := strings.ToLower(title)

	var exact, partial []T
	for _, it := range items {
		got := strings.ToLower(titleOf(it))
		switch {
		case got == want:
			exact = append(exact, it)
		case strings.Contains(got, want):
			partial = append(partial, it)
		}
	}

	candidates := exact
	if len(candidates) == 0 {
		candidates = partial
	}
	switch len(candidates) {
	case 0:
		return zero, fmt.Errorf("%q: %w", title, core.ErrNotFound)
	case 1:
		return candidates[0], nil
	}
	return zero, fmt.Errorf("%q matches %d items: %w", title, len(candidates), core.ErrAmbiguousTarget)
}

func (d *Dispatcher) updateReminder(ctx context.Context, userID string, cmd core.Command) core.Result {
	rem, err := d.findReminder(ctx, userID, cmd)
	if err != nil {
		return targetFailure(cmd.Domain, err)
	}

	e := cmd.Entities
	if e.DueDate != nil {
		rem.DueDate = *e.DueDate
	}
	if e.Priority != "" && e.Priority != core.PriorityMedium {
		rem.Priority = e.Priority
	}
	if e.Description != "" {
		rem.Description = e.Description
	}
	if e.Completed {
		rem.Completed = true
	}

	updated, err := d.deps.Store.UpdateReminder(ctx, rem)
	if err != nil {
		return core.Fail(fmt.Sprintf("Couldn't update your %s.", cmd.Domain), err)
	}

	d.cancel(ctx, notify.ReminderID(updated.ID))

	res := core.Ok(fmt.Sprintf("Updated %s %q.", updated.Kind, updated.Title), updated)
	if updated.Completed {
		res.Message = fmt.Sprintf("Marked %s %q as done.", updated.Kind, updated.Title)
		return res
	}
	if !updated.DueDate.Before(d.now()) {
		d.schedule(ctx, &res, notify.ReminderNotification(updated), updated.DueDate)
	}
	return res
}

func (d *Dispatcher) updateNote(ctx context.Context, userID string, cmd core.Command) core.Result {
	note, err := d.findNote(ctx, userID, cmd)
	if err != nil {
		return targetFailure(core.DomainNote, err)
	}

	if cmd.Entities.DueDate != nil {
		note.DueDate = *cmd.Entities.DueDate
	}
	if p := cmd.Entities.Priority; p != "" && p != core.PriorityMedium {
		note.Priority = p
	}

	updated, err := d.deps.Store.UpdateVoiceNote(ctx, note)
	if err != nil {
		return core.Fail("Couldn't update your note.", err)
	}

	d.cancel(ctx, notify.NoteID(updated.ID))
	res := core.Ok(fmt.Sprintf("Updated note %q.", updated.Title), updated)
	if !updated.DueDate.Before(d.now()) {
		d.schedule(ctx, &res, notify.NoteNotification(updated), updated.DueDate)
	}
	return res
}

func (d *Dispatcher) deleteReminder(ctx context.Context, userID string, cmd core.Command) core.Result {
	rem, err := d.findReminder(ctx, userID, cmd)
	if err != nil {
		return targetFailure(cmd.Domain, err)
	}
	if err := d.deps.Store.DeleteReminder(ctx, rem.ID); err != nil {
		return core.Fail(fmt.Sprintf("Couldn't delete your %s.", cmd.Domain), err)
	}
	d.cancel(ctx, notify.ReminderID(rem.ID))
	return core.Ok(fmt.Sprintf("Deleted %s %q.", rem.Kind, rem.Title), rem)
}

func (d *Dispatcher) deleteNote(ctx context.Context, userID string, cmd core.Command) core.Result {
	note, err := d.findNote(ctx, userID, cmd)
	if err != nil {
		return targetFailure(core.DomainNote, err)
	}
	if err := d.deps.Store.DeleteVoiceNote(ctx, note.ID); err != nil {
		return core.Fail("Couldn't delete your note.", err)
	}
	d.cancel(ctx, notify.NoteID(note.ID))
	return core.Ok(fmt.Sprintf("Deleted note %q.", note.Title), note)
}

func (d *Dispatcher) cancel(ctx context.Context, id string) {
	if d.deps.Scheduler == nil {
		return
	}
	if err := d.deps.Scheduler.Cancel(ctx, id); err != nil {
		log.FromCtx(ctx).Warn().Err(err).Str("id", id).Msg("failed to cancel notifications")
	}
}

func targetFailure(domain core.Domain, err error) core.Result {
	switch {
	case errors.Is(err, core.ErrAmbiguousTarget):
		return core.Fail(fmt.Sprintf("More than one %s matches that. Use the full title.", domain), err)
	case errors.Is(err, core.ErrNotFound):
		return core.Fail(fmt.Sprintf("I couldn't find that %s. Name it like \"%s for <title>\".", domain, domain), err)
	}
	return core.Fail(fmt.Sprintf("Couldn't look up your %ss.", domain), err)
}
