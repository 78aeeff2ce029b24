package news

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/inbucket/html2text"
	"github.com/sandevgo/aide/internal/config"
	"github.com/sandevgo/aide/internal/core"
	"github.com/sandevgo/aide/pkg/log"
	"github.com/sandevgo/aide/pkg/retry"
)

const (
	gatewayName     = "news"
	maxResponseSize = 2 << 20
	pageSize        = 20

	// MaxArticles caps every result handed back to callers.
	MaxArticles = 10

	removedMarker = "[Removed]"
)

type article struct {
	Source struct {
		Name string `json:"name"`
	} `json:"source"`
	Title       string `json:"title"`
	Description string `json:"description"`
	URL         string `json:"url"`
	URLToImage  string `json:"urlToImage"`
	PublishedAt string `json:"publishedAt"`
	Content     string `json:"content"`
}

type response struct {
	Status   string    `json:"status"`
	Code     string    `json:"code"`
	Message  string    `json:"message"`
	Articles []article `json:"articles"`
}

// Client talks to NewsAPI (newsapi.org v2).
type Client struct {
	baseURL string
	apiKey  string
	client  *http.Client
	retrier *retry.Retrier
}

var _ core.NewsGateway = (*Client)(nil)

func NewClient(cfg *config.NewsConfig) *Client {
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

func (c *Client) FetchHeadlines(ctx context.Context, category, country string) ([]core.Article, error) {
	q := url.Values{}
	if country != "" {
		q.Set("country", country)
	}
	if category != "" {
		q.Set("category", category)
	}
	q.Set("pageSize", strconv.Itoa(pageSize))
	return c.fetch(ctx, "/top-headlines", q)
}

func (c *Client) Search(ctx context.Context, query, language string) ([]core.Article, error) {
	if strings.TrimSpace(query) == "" {
		return nil, &core.GatewayError{
			Gateway: gatewayName,
			Kind:    core.GatewayConfig,
			Err:     errors.New("search query is empty"),
		}
	}

	q := url.Values{}
	q.Set("q", query)
	if language != "" {
		q.Set("language", language)
	}
	q.Set("sortBy", "publishedAt")
	q.Set("pageSize", strconv.Itoa(pageSize))
	return c.fetch(ctx, "/everything", q)
}

func (c *Client) fetch(ctx context.Context, path string, q url.Values) ([]core.Article, error) {
	if c.apiKey == "" {
		return nil, &core.GatewayError{
			Gateway: gatewayName,
			Kind:    core.GatewayConfig,
			Err:     errors.New("api key is not configured"),
		}
	}

	endpoint := c.baseURL + path + "?" + q.Encode()

	var articles []core.Article
	err := c.retrier.Do(ctx, func() error {
		var err error
		articles, err = c.get(ctx, endpoint)
		var gwErr *core.GatewayError
		if errors.As(err, &gwErr) && !gwErr.Transient() {
			return retry.Permanent(err)
		}
		if err != nil {
			log.FromCtx(ctx).Debug().Err(err).Msg("news request failed, retrying")
		}
		return err
	})
	if err != nil {
		return nil, err
	}
	return articles, nil
}

func (c *Client) get(ctx context.Context, endpoint string) ([]core.Article, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, &core.GatewayError{Gateway: gatewayName, Kind: core.GatewayConfig, Err: err}
	}
	req.Header.Set("User-Agent", core.AideUserAgent)
	req.Header.Set("X-Api-Key", c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, &core.GatewayError{Gateway: gatewayName, Kind: core.GatewayNetwork, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, &core.GatewayError{Gateway: gatewayName, Kind: core.GatewayNetwork, Err: err}
	}

	var r response
	decodeErr := json.Unmarshal(body, &r)

	if resp.StatusCode >= 400 || (decodeErr == nil && r.Status == "error") {
		msg := http.StatusText(resp.StatusCode)
		if decodeErr == nil && r.Message != "" {
			msg = r.Message
		}
		status := resp.StatusCode
		if status < 400 {
			status = http.StatusBadRequest
		}
		return nil, &core.GatewayError{
			Gateway: gatewayName,
			Kind:    core.GatewayStatus,
			Status:  status,
			Wait:    retry.ParseRetryAfter(resp.Header.Get("Retry-After"), time.Now()),
			Err:     errors.New(msg),
		}
	}

	if decodeErr != nil {
		return nil, &core.GatewayError{Gateway: gatewayName, Kind: core.GatewayMalformed, Err: decodeErr}
	}
	if r.Status != "ok" {
		return nil, &core.GatewayError{
			Gateway: gatewayName,
			Kind:    core.GatewayMalformed,
			Err:     errors.New("unexpected status " + strconv.Quote(r.Status)),
		}
	}

	return convert(r.Articles), nil
}

// convert drops articles the publisher has withdrawn and strips markup.
func convert(in []article) []core.Article {
	out := make([]core.Article, 0, min(len(in), MaxArticles))
	for _, a := range in {
		if len(out) == MaxArticles {
			break
		}
		if a.Title == "" || a.Title == removedMarker || a.Description == removedMarker {
			continue
		}

		published, _ := time.Parse(time.RFC3339, a.PublishedAt)
		out = append(out, core.Article{
			Title:       a.Title,
			Description: plainText(a.Description),
			URL:         a.URL,
			URLToImage:  a.URLToImage,
			PublishedAt: published,
			Source:      core.ArticleSource{Name: a.Source.Name},
			Content:     plainText(a.Content),
		})
	}
	return out
}

func plainText(s string) string {
	if !strings.ContainsAny(s, "<&") {
		return s
	}
	text, err := html2text.FromString(s, html2text.Options{OmitLinks: true})
	if err != nil {
		return s
	}
	return strings.TrimSpace(text)
}
