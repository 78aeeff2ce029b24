// Package dispatch routes parsed commands to the lookup gateways, the
// item store and the notification scheduler, and reports every outcome
// as a core.Result.
package dispatch

import (
	"context"
	"errors"
	"time"

	"github.com/sandevgo/aide/internal/core"
	"github.com/sandevgo/aide/internal/metrics"
	"github.com/sandevgo/aide/internal/service/cache"
	"github.com/sandevgo/aide/pkg/log"
)

var ErrUnknownDomain = errors.New("unrecognised request")

const helpMessage = `I didn't catch that. Try something like:
- "what's the weather in Paris"
- "show technology news"
- "remind me to call mom tomorrow at 3 pm"
- "show my pending tasks"`

// Deps are the collaborators the dispatcher calls into.
type Deps struct {
	Weather   core.WeatherGateway
	News      core.NewsGateway
	Store     core.Store
	Scheduler core.NotificationScheduler
	Metrics   *metrics.Metrics
}

type Options struct {
	DefaultCity      string
	DefaultLat       float64
	DefaultLon       float64
	HasDefaultCoords bool

	NewsCountry  string
	NewsLanguage string

	// DemoMode answers lookups with fixed sample data when a gateway fails.
	DemoMode bool

	NotifyOffsets []time.Duration

	WeatherTTL    time.Duration
	NewsTTL       time.Duration
	CacheMaxItems int

	Now func() time.Time
}

type Dispatcher struct {
	deps    Deps
	opts    Options
	now     func() time.Time
	weather *cache.Cache[core.Weather]
	news    *cache.Cache[[]core.Article]
}

func New(deps Deps, opts Options) *Dispatcher {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.DefaultCity == "" {
		opts.DefaultCity = "London"
	}
	if opts.NewsCountry == "" {
		opts.NewsCountry = "us"
	}
	if opts.NewsLanguage == "" {
		opts.NewsLanguage = "en"
	}

	cacheOpts := []cache.Option{cache.WithClock(opts.Now)}
	if opts.WeatherTTL > 0 {
		cacheOpts = append(cacheOpts, cache.WithTTL(string(core.DomainWeather), opts.WeatherTTL))
	}
	if opts.NewsTTL > 0 {
		cacheOpts = append(cacheOpts, cache.WithTTL(string(core.DomainNews), opts.NewsTTL))
	}
	if opts.CacheMaxItems > 0 {
		cacheOpts = append(cacheOpts, cache.WithMaxItems(opts.CacheMaxItems))
	}

	return &Dispatcher{
		deps:    deps,
		opts:    opts,
		now:     opts.Now,
		weather: cache.New[core.Weather](cacheOpts...),
		news:    cache.New[[]core.Article](cacheOpts...),
	}
}

// Dispatch executes cmd on behalf of userID. It never panics on collaborator
// failures; they come back as a Result with Success set to false.
func (d *Dispatcher) Dispatch(ctx context.Context, userID string, cmd core.Command) core.Result {
	logger := log.FromCtx(ctx)

	var res core.Result
	switch {
	case cmd.Domain == core.DomainWeather:
		res = d.weatherLookup(ctx, cmd)
	case cmd.Domain == core.DomainNews:
		res = d.newsLookup(ctx, cmd)
	case cmd.Domain.IsSchedulable():
		res = d.personal(ctx, userID, cmd)
	default:
		res = core.Fail(helpMessage, ErrUnknownDomain)
	}

	d.deps.Metrics.Dispatched(string(cmd.Domain), string(cmd.Action), res.Success)
	logger.Debug().
		Str("user", userID).
		Str("domain", string(cmd.Domain)).
		Str("action", string(cmd.Action)).
		Float64("confidence", cmd.Confidence).
		Bool("success", res.Success).
		Bool("cached", res.Cached).
		Msg("command dispatched")

	return res
}

// CacheAge reports how long ago the lookup for target was fetched.
// For news, target is a category, a search query, or empty for top headlines.
func (d *Dispatcher) CacheAge(domain core.Domain, target string) (time.Duration, bool) {
	switch domain {
	case core.DomainWeather:
		return d.weather.Age(string(domain), d.weatherTarget(target).id)
	case core.DomainNews:
		return d.news.Age(string(domain), d.newsTarget(targetEntities(target)).id)
	}
	return 0, false
}

// ForceRefresh drops the cached lookup for target so the next request fetches it.
func (d *Dispatcher) ForceRefresh(domain core.Domain, target string) bool {
	switch domain {
	case core.DomainWeather:
		return d.weather.Remove(string(domain), d.weatherTarget(target).id)
	case core.DomainNews:
		return d.news.Remove(string(domain), d.newsTarget(targetEntities(target)).id)
	}
	return false
}

// ClearCache empties both lookup caches.
func (d *Dispatcher) ClearCache() {
	d.weather.Clear()
	d.news.Clear()
}
