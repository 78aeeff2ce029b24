package weather

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/sandevgo/aide/internal/config"
	"github.com/sandevgo/aide/internal/core"
	"github.com/sandevgo/aide/pkg/log"
	"github.com/sandevgo/aide/pkg/retry"
)

const (
	gatewayName     = "weather"
	maxResponseSize = 1 << 20
)

type response struct {
	Name string `json:"name"`
	Main *struct {
		Temp      float64 `json:"temp"`
		FeelsLike float64 `json:"feels_like"`
		Humidity  int     `json:"humidity"`
		Pressure  int     `json:"pressure"`
	} `json:"main"`
	Weather []struct {
		Description string `json:"description"`
		Icon        string `json:"icon"`
	} `json:"weather"`
	Wind struct {
		Speed float64 `json:"speed"`
	} `json:"wind"`
	Visibility float64 `json:"visibility"`
	Sys        struct {
		Country string `json:"country"`
	} `json:"sys"`
	Message string `json:"message"`
}

// Client talks to the OpenWeatherMap current weather endpoint.
type Client struct {
	baseURL string
	apiKey  string
	client  *http.Client
	retrier *retry.Retrier
}

var _ core.WeatherGateway = (*Client)(nil)

func NewClient(cfg *config.WeatherConfig) *Client {
	return NewClientWithRetry(cfg.BaseURL, cfg.APIKey, cfg.Timeout, nil)
}

func NewClientWithRetry(baseURL, apiKey string, timeout time.Duration, retryCfg *retry.Config) *Client {
	if retryCfg == nil {
		retryCfg = &retry.Config{
			MaxRetries:    2,
			BackoffFactor: 2,
			InitialDelay:  300 * time.Millisecond,
			MaxDelay:      3 * time.Second,
			Jitter:        50 * time.Millisecond,
		}
	}
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		client:  &http.Client{Timeout: timeout},
		retrier: retry.NewRetrier(retryCfg),
	}
}

func (c *Client) FetchByCity(ctx context.Context, city string) (core.Weather, error) {
	q := url.Values{}
	q.Set("q", city)
	return c.fetch(ctx, q)
}

func (c *Client) FetchByCoordinates(ctx context.Context, lat, lon float64) (core.Weather, error) {
	q := url.Values{}
	q.Set("lat", strconv.FormatFloat(lat, 'f', -1, 64))
	q.Set("lon", strconv.FormatFloat(lon, 'f', -1, 64))
	return c.fetch(ctx, q)
}

func (c *Client) fetch(ctx context.Context, q url.Values) (core.Weather, error) {
	if c.apiKey == "" {
		return core.Weather{}, &core.GatewayError{
			Gateway: gatewayName,
			Kind:    core.GatewayConfig,
			Err:     errors.New("api key is not configured"),
		}
	}

	q.Set("appid", c.apiKey)
	q.Set("units", "metric")
	endpoint := c.baseURL + "/weather?" + q.Encode()

	var w core.Weather
	err := c.retrier.Do(ctx, func() error {
		var err error
		w, err = c.get(ctx, endpoint)
		var gwErr *core.GatewayError
		if errors.As(err, &gwErr) && !gwErr.Transient() {
			return retry.Permanent(err)
		}
		if err != nil {
			log.FromCtx(ctx).Debug().Err(err).Msg("weather request failed, retrying")
		}
		return err
	})
	if err != nil {
		return core.Weather{}, err
	}
	return w, nil
}

func (c *Client) get(ctx context.Context, endpoint string) (core.Weather, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return core.Weather{}, &core.GatewayError{Gateway: gatewayName, Kind: core.GatewayConfig, Err: err}
	}
	req.Header.Set("User-Agent", core.AideUserAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return core.Weather{}, &core.GatewayError{Gateway: gatewayName, Kind: core.GatewayNetwork, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return core.Weather{}, &core.GatewayError{Gateway: gatewayName, Kind: core.GatewayNetwork, Err: err}
	}

	var r response
	decodeErr := json.Unmarshal(body, &r)

	if resp.StatusCode >= 400 {
		msg := http.StatusText(resp.StatusCode)
		if decodeErr == nil && r.Message != "" {
			msg = r.Message
		}
		return core.Weather{}, &core.GatewayError{
			Gateway: gatewayName,
			Kind:    core.GatewayStatus,
			Status:  resp.StatusCode,
			Wait:    retry.ParseRetryAfter(resp.Header.Get("Retry-After"), time.Now()),
			Err:     errors.New(msg),
		}
	}

	if decodeErr != nil {
		return core.Weather{}, &core.GatewayError{Gateway: gatewayName, Kind: core.GatewayMalformed, Err: decodeErr}
	}
	if r.Main == nil || len(r.Weather) == 0 {
		return core.Weather{}, &core.GatewayError{
			Gateway: gatewayName,
			Kind:    core.GatewayMalformed,
			Err:     fmt.Errorf("missing main or weather section"),
		}
	}

	return core.Weather{
		Temperature: r.Main.Temp,
		FeelsLike:   r.Main.FeelsLike,
		Description: r.Weather[0].Description,
		Icon:        r.Weather[0].Icon,
		City:        r.Name,
		Country:     r.Sys.Country,
		Humidity:    r.Main.Humidity,
		Pressure:    r.Main.Pressure,
		// m/s to km/h
		WindSpeed: r.Wind.Speed * 3.6,
		// metres to kilometres
		Visibility: r.Visibility / 1000,
	}, nil
}
