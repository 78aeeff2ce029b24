package command

import (
	"time"

	"github.com/sandevgo/aide/internal/core"
)

// CacheControl exposes the lookup cache to slash commands.
type CacheControl interface {
	CacheAge(domain core.Domain, target string) (time.Duration, bool)
	ForceRefresh(domain core.Domain, target string) bool
}

// NewRouter builds the router with every built-in command registered.
func NewRouter(cache CacheControl, reminders core.RemindersRepository) *Router {
	r := New(nil)
	r.Register(
		NewHelpCommand(r),
		NewRefreshCommand(cache),
		NewCacheCommand(cache),
		NewRemindersCommand(reminders),
	)
	return r
}
