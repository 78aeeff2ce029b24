package core

import (
	"context"
	"time"
)

type WeatherGateway interface {
	FetchByCity(ctx context.Context, city string) (Weather, error)
	FetchByCoordinates(ctx context.Context, lat, lon float64) (Weather, error)
}

type NewsGateway interface {
	FetchHeadlines(ctx context.Context, category, country string) ([]Article, error)
	Search(ctx context.Context, query, language string) ([]Article, error)
}

type NotificationScheduler interface {
	Schedule(ctx context.Context, n Notification) error
	ScheduleOffsets(ctx context.Context, base Notification, due time.Time, offsets []time.Duration) (int, error)
	Cancel(ctx context.Context, id string) error
}

// Notifier delivers a fired notification to the user.
type Notifier interface {
	Notify(ctx context.Context, n Notification) error
}

// SpeechSource emits final transcripts. Errors arrive on a separate channel.
type SpeechSource interface {
	Start(ctx context.Context) error
	Stop() error
	Transcripts() <-chan string
	Errors() <-chan error
}

// WakeWordDetector fires onWake whenever its keyword is detected.
type WakeWordDetector interface {
	Detect(transcript string) (remainder string, ok bool)
	OnWake(fn func())
}
