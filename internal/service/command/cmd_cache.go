package command

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sandevgo/aide/internal/core"
)

func parseLookupArgs(args []string) (core.Domain, string, error) {
	if len(args) == 0 {
		return "", "", fmt.Errorf("missing domain, expected weather or news")
	}
	domain := core.Domain(strings.ToLower(args[0]))
	if !domain.IsLookup() {
		return "", "", fmt.Errorf("unknown domain %q, expected weather or news", args[0])
	}
	return domain, strings.Join(args[1:], " "), nil
}

func describeTarget(domain core.Domain, target string) string {
	if target == "" {
		return string(domain) + " (default)"
	}
	return fmt.Sprintf("%s for %s", domain, target)
}

type CacheCommand struct {
	cache CacheControl
}

func NewCacheCommand(cache CacheControl) *CacheCommand {
	return &CacheCommand{cache: cache}
}

func (c *CacheCommand) Name() string {
	return "cache"
}

func (c *CacheCommand) Description() string {
	return "Show when a weather or news lookup was last fetched"
}

func (c *CacheCommand) Execute(ctx context.Context, userID string, args []string) (string, error) {
	if len(args) == 0 {
		return newReply("Cache").
			usage("/cache <weather|news> [city|category|query]").
			examples("/cache weather London", "/cache news technology").
			String(), nil
	}

	domain, target, err := parseLookupArgs(args)
	if err != nil {
		return "", err
	}

	label := describeTarget(domain, target)
	age, ok := c.cache.CacheAge(domain, target)
	if !ok {
		return newReply("Cache").label(label, "not cached").String(), nil
	}
	return newReply("Cache").label(label, "updated "+FormatAge(age)+" ago").String(), nil
}

type RefreshCommand struct {
	cache CacheControl
}

func NewRefreshCommand(cache CacheControl) *RefreshCommand {
	return &RefreshCommand{cache: cache}
}

func (c *RefreshCommand) Name() string {
	return "refresh"
}

func (c *RefreshCommand) Description() string {
	return "Drop a cached weather or news lookup"
}

func (c *RefreshCommand) Execute(ctx context.Context, userID string, args []string) (string, error) {
	if len(args) == 0 {
		return newReply("Refresh").
			usage("/refresh <weather|news> [city|category|query]").
			examples("/refresh weather Paris", "/refresh news").
			String(), nil
	}

	domain, target, err := parseLookupArgs(args)
	if err != nil {
		return "", err
	}

	label := describeTarget(domain, target)
	if !c.cache.ForceRefresh(domain, target) {
		return newReply("Refresh").label(label, "nothing cached").String(), nil
	}
	return done(fmt.Sprintf("Next %s lookup will be fetched fresh", label)), nil
}

// FormatAge renders a cache age in whole seconds, minutes or hours.
func FormatAge(d time.Duration) string {
	switch {
	case d < time.Minute:
		return fmt.Sprintf("%ds", int(d.Seconds()))
	case d < time.Hour:
		return fmt.Sprintf("%dm", int(d.Minutes()))
	}
	return fmt.Sprintf("%dh%02dm", int(d.Hours()), int(d.Minutes())%60)
}
