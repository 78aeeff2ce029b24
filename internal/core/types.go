package core

import "time"

const (
	AideName      = "Aide"
	AideUserAgent = "Aide-Assistant/0.1"
	AideVersion   = "0.1.0"
)

type Weather struct {
	Temperature float64 `json:"temperature"`
	FeelsLike   float64 `json:"feelsLike"`
	Description string  `json:"description"`
	Icon        string  `json:"icon"`
	City        string  `json:"city"`
	Country     string  `json:"country"`
	Humidity    int     `json:"humidity"`
	Pressure    int     `json:"pressure"`
	WindSpeed   float64 `json:"windSpeed"`  // km/h
	Visibility  float64 `json:"visibility"` // km
}

type ArticleSource struct {
	Name string `json:"name"`
}

type Article struct {
	Title       string        `json:"title"`
	Description string        `json:"description"`
	URL         string        `json:"url"`
	URLToImage  string        `json:"urlToImage"`
	PublishedAt time.Time     `json:"publishedAt"`
	Source      ArticleSource `json:"source"`
	Content     string        `json:"content"`
}

type Notification struct {
	ID     string    `json:"id"`
	UserID string    `json:"userId"`
	Title  string    `json:"title"`
	Body   string    `json:"body"`
	FireAt time.Time `json:"fireAt"`
}
