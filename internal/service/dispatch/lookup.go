package dispatch

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/sandevgo/aide/internal/core"
	"github.com/sandevgo/aide/internal/service/intent"
	"github.com/sandevgo/aide/pkg/log"
)

type weatherTarget struct {
	id    string
	label string
	fetch func(ctx context.Context, gw core.WeatherGateway) (core.Weather, error)
}

func (d *Dispatcher) weatherTarget(location string) weatherTarget {
	location = strings.TrimSpace(location)

	if strings.EqualFold(location, core.CurrentLocation) && d.opts.HasDefaultCoords {
		lat, lon := d.opts.DefaultLat, d.opts.DefaultLon
		return weatherTarget{
			id:    strconv.FormatFloat(lat, 'f', 4, 64) + "," + strconv.FormatFloat(lon, 'f', 4, 64),
			label: "your location",
			fetch: func(ctx context.Context, gw core.WeatherGateway) (core.Weather, error) {
				return gw.FetchByCoordinates(ctx, lat, lon)
			},
		}
	}

	city := location
	if city == "" || strings.EqualFold(city, core.CurrentLocation) {
		city = d.opts.DefaultCity
	}
	return weatherTarget{
		id:    city,
		label: city,
		fetch: func(ctx context.Context, gw core.WeatherGateway) (core.Weather, error) {
			return gw.FetchByCity(ctx, city)
		},
	}
}

func (d *Dispatcher) weatherLookup(ctx context.Context, cmd core.Command) core.Result {
	const domain = string(core.DomainWeather)
	target := d.weatherTarget(cmd.Entities.Location)

	switch cmd.Action {
	case core.ActionUpdate:
		d.weather.ForceRefresh(domain, target.id)
	case core.ActionDelete:
		if d.weather.Remove(domain, target.id) {
			return core.Ok(fmt.Sprintf("Forgot the cached weather for %s.", target.label), nil)
		}
		return core.Ok(fmt.Sprintf("Nothing cached for %s.", target.label), nil)
	}

	if w, ok := d.weather.Get(domain, target.id); ok {
		d.deps.Metrics.CacheLookup(domain, true)
		age, _ := d.weather.Age(domain, target.id)
		res := core.Ok(formatWeather(w), w)
		res.Cached = true
		res.CacheAge = age
		return res
	}
	d.deps.Metrics.CacheLookup(domain, false)

	var (
		w   core.Weather
		err error
	)
	if d.deps.Weather == nil {
		err = &core.GatewayError{Gateway: domain, Kind: core.GatewayConfig, Err: fmt.Errorf("no weather gateway")}
	} else {
		w, err = target.fetch(ctx, d.deps.Weather)
	}
	if err != nil {
		d.deps.Metrics.GatewayCall(domain, "error")
		log.FromCtx(ctx).Warn().Err(err).Str("target", target.id).Msg("weather lookup failed")

		if d.opts.DemoMode {
			mock := mockWeather(target.label)
			return core.Ok(formatWeather(mock)+"\n(sample data)", mock)
		}
		return core.Fail(fmt.Sprintf("Couldn't get the weather for %s: %s.", target.label, describeFailure(err)), err)
	}

	d.deps.Metrics.GatewayCall(domain, "ok")
	d.weather.Set(domain, target.id, w)
	return core.Ok(formatWeather(w), w)
}

type newsTarget struct {
	id    string
	label string
	fetch func(ctx context.Context, gw core.NewsGateway) ([]core.Article, error)
}

// targetEntities maps a free-form slash command argument to lookup entities.
func targetEntities(target string) core.Entities {
	if c, ok := intent.NewsCategory(target); ok {
		return core.Entities{Category: c}
	}
	return core.Entities{Title: strings.TrimSpace(target)}
}

func (d *Dispatcher) newsTarget(e core.Entities) newsTarget {
	country, language := d.opts.NewsCountry, d.opts.NewsLanguage

	if e.Category != "" {
		category := strings.ToLower(e.Category)
		return newsTarget{
			id:    "category:" + category,
			label: category + " headlines",
			fetch: func(ctx context.Context, gw core.NewsGateway) ([]core.Article, error) {
				return gw.FetchHeadlines(ctx, category, country)
			},
		}
	}

	query := e.Title
	if query == "" && e.Location != core.CurrentLocation {
		query = e.Location
	}
	if query != "" {
		return newsTarget{
			id:    "search:" + query,
			label: fmt.Sprintf("news about %q", query),
			fetch: func(ctx context.Context, gw core.NewsGateway) ([]core.Article, error) {
				return gw.Search(ctx, query, language)
			},
		}
	}

	return newsTarget{
		id:    "top:" + country,
		label: "top headlines",
		fetch: func(ctx context.Context, gw core.NewsGateway) ([]core.Article, error) {
			return gw.FetchHeadlines(ctx, "", country)
		},
	}
}

func (d *Dispatcher) newsLookup(ctx context.Context, cmd core.Command) core.Result {
	const domain = string(core.DomainNews)
	target := d.newsTarget(cmd.Entities)

	switch cmd.Action {
	case core.ActionUpdate:
		d.news.ForceRefresh(domain, target.id)
	case core.ActionDelete:
		if d.news.Remove(domain, target.id) {
			return core.Ok(fmt.Sprintf("Forgot the cached %s.", target.label), nil)
		}
		return core.Ok(fmt.Sprintf("Nothing cached for %s.", target.label), nil)
	}

	if articles, ok := d.news.Get(domain, target.id); ok {
		d.deps.Metrics.CacheLookup(domain, true)
		age, _ := d.news.Age(domain, target.id)
		res := core.Ok(formatArticles(target.label, articles), articles)
		res.Cached = true
		res.CacheAge = age
		return res
	}
	d.deps.Metrics.CacheLookup(domain, false)

	var (
		articles []core.Article
		err      error
	)
	if d.deps.News == nil {
		err = &core.GatewayError{Gateway: domain, Kind: core.GatewayConfig, Err: fmt.Errorf("no news gateway")}
	} else {
		articles, err = target.fetch(ctx, d.deps.News)
	}
	if err != nil {
		d.deps.Metrics.GatewayCall(domain, "error")
		log.FromCtx(ctx).Warn().Err(err).Str("target", target.id).Msg("news lookup failed")

		if d.opts.DemoMode {
			mock := mockArticles(d.now())
			return core.Ok(formatArticles(target.label, mock)+"\n(sample data)", mock)
		}
		return core.Fail(fmt.Sprintf("Couldn't get %s: %s.", target.label, describeFailure(err)), err)
	}

	d.deps.Metrics.GatewayCall(domain, "ok")
	d.news.Set(domain, target.id, articles)
	return core.Ok(formatArticles(target.label, articles), articles)
}
