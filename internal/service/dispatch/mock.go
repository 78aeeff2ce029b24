package dispatch

import (
	"time"

	"github.com/sandevgo/aide/internal/core"
)

func mockWeather(city string) core.Weather {
	return core.Weather{
		Temperature: 22,
		FeelsLike:   21,
		Description: "partly cloudy",
		Icon:        "02d",
		City:        city,
		Humidity:    60,
		Pressure:    1013,
		WindSpeed:   12,
		Visibility:  10,
	}
}

func mockArticles(now time.Time) []core.Article {
	return []core.Article{
		{
			Title:       "Local library extends weekend opening hours",
			Description: "Visitors can now borrow books until 8 pm on Saturdays.",
			URL:         "https://example.com/news/library-hours",
			PublishedAt: now.Add(-time.Hour),
			Source:      core.ArticleSource{Name: "Aide Sample News"},
		},
		{
			Title:       "City council approves new bike lanes",
			Description: "Construction starts next month on three downtown routes.",
			URL:         "https://example.com/news/bike-lanes",
			PublishedAt: now.Add(-3 * time.Hour),
			Source:      core.ArticleSource{Name: "Aide Sample News"},
		},
		{
			Title:       "Researchers publish results of a ten year climate study",
			Description: "The report tracks rainfall across forty regions.",
			URL:         "https://example.com/news/climate-study",
			PublishedAt: now.Add(-6 * time.Hour),
			Source:      core.ArticleSource{Name: "Aide Sample News"},
		},
	}
}
