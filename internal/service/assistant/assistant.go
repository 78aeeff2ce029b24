package assistant

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/sandevgo/aide/internal/core"
	"github.com/sandevgo/aide/internal/service/command"
	"github.com/sandevgo/aide/pkg/log"
)

// lowConfidence marks parses where the reply hints at how to phrase requests.
const lowConfidence = 0.5

type Parser interface {
	Parse(text string) core.Command
}

type Dispatcher interface {
	Dispatch(ctx context.Context, userID string, cmd core.Command) core.Result
}

// Assistant is the single entry point transports hand user text to.
type Assistant struct {
	parser     Parser
	dispatcher Dispatcher
	router     core.CmdRouter
	users      core.UsersRepository

	known sync.Map
}

func New(parser Parser, dispatcher Dispatcher, router core.CmdRouter, users core.UsersRepository) *Assistant {
	return &Assistant{
		parser:     parser,
		dispatcher: dispatcher,
		router:     router,
		users:      users,
	}
}

func (a *Assistant) Parse(text string) core.Command {
	return a.parser.Parse(text)
}

// EnsureUser creates the user row on first contact. A known name replaces
// an empty one.
func (a *Assistant) EnsureUser(ctx context.Context, userID, name string) error {
	if a.users == nil || userID == "" {
		return nil
	}
	if _, ok := a.known.Load(userID); ok {
		return nil
	}

	u, err := a.users.GetUser(ctx, userID)
	switch {
	case errors.Is(err, core.ErrNotFound):
		err = a.users.UpsertUser(ctx, core.User{ID: userID, Name: name})
	case err == nil && u.Name == "" && name != "":
		u.Name = name
		err = a.users.UpsertUser(ctx, u)
	}
	if err != nil {
		return fmt.Errorf("failed to ensure user %s: %w", userID, err)
	}

	a.known.Store(userID, struct{}{})
	return nil
}

// Handle answers one utterance. Slash commands go to the router, everything
// else is parsed and dispatched. The returned text is markdown.
func (a *Assistant) Handle(ctx context.Context, userID, text string) (core.Result, string) {
	logger := log.FromCtx(ctx)

	text = strings.TrimSpace(text)
	if text == "" {
		return core.Fail("Say something and I'll help.", nil), ""
	}

	if a.router != nil {
		if out, ok := a.router.Execute(ctx, userID, text); ok {
			return core.Ok(out, nil), out
		}
	}

	if err := a.EnsureUser(ctx, userID, ""); err != nil {
		logger.Warn().Err(err).Msg("continuing without user row")
	}

	cmd := a.parser.Parse(text)
	logger.Debug().
		Str("domain", string(cmd.Domain)).
		Str("action", string(cmd.Action)).
		Float64("confidence", cmd.Confidence).
		Msg("utterance parsed")

	res := a.dispatcher.Dispatch(ctx, userID, cmd)
	return res, a.Render(cmd, res)
}

// Render turns a dispatch result into reply markdown. Successful replies
// get italic footnotes for cache age and low-confidence readings.
func (a *Assistant) Render(cmd core.Command, res core.Result) string {
	if !res.Success {
		return "⚠️ " + res.Message + "\n"
	}

	var b strings.Builder
	b.WriteString(res.Message + "\n")
	note := func(s string) { b.WriteString("\n_" + s + "_\n") }

	if res.Cached {
		note("Updated " + command.FormatAge(res.CacheAge) + " ago")
	}
	if len(cmd.Alternatives) > 0 && cmd.Confidence <= lowConfidence {
		alts := make([]string, 0, len(cmd.Alternatives))
		for _, d := range cmd.Alternatives {
			alts = append(alts, string(d))
		}
		note(fmt.Sprintf("Read this as a %s. It could also be: %s.", cmd.Domain, strings.Join(alts, ", ")))
	}
	return b.String()
}
