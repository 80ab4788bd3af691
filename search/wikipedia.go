package search

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// WikipediaConfig holds MediaWiki API client parameters with environment
// variable mapping.
type WikipediaConfig struct {
	BaseURL   string        `env:"WIKIPEDIA_BASE_URL" envDefault:"https://en.wikipedia.org/w/api.php"`
	UserAgent string        `env:"WIKIPEDIA_USER_AGENT" envDefault:"wikimediator/1.0"`
	Timeout   time.Duration `env:"WIKIPEDIA_TIMEOUT" envDefault:"15s"`
}

// Wikipedia is a Source backed by the public MediaWiki Action API.
type Wikipedia struct {
	baseURL   string
	userAgent string
	client    *http.Client
}

// NewWikipedia creates a Wikipedia source from the provided config.
// Zero config fields fall back to the English Wikipedia defaults.
func NewWikipedia(cfg WikipediaConfig) *Wikipedia {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://en.wikipedia.org/w/api.php"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}
	return &Wikipedia{
		baseURL:   cfg.BaseURL,
		userAgent: cfg.UserAgent,
		client:    &http.Client{Timeout: cfg.Timeout},
	}
}

type searchResponse struct {
	Query struct {
		Search []struct {
			Title string `json:"title"`
		} `json:"search"`
	} `json:"query"`
}

type pageResponse struct {
	Query struct {
		Pages map[string]struct {
			Title   string  `json:"title"`
			Extract *string `json:"extract"`
			Missing *string `json:"missing"`
		} `json:"pages"`
	} `json:"query"`
}

// Search queries list=search and returns the matching page titles in rank
// order.
func (w *Wikipedia) Search(ctx context.Context, query string, limit int) ([]string, error) {
	params := url.Values{
		"action":   {"query"},
		"list":     {"search"},
		"srsearch": {query},
		"srlimit":  {strconv.Itoa(limit)},
		"format":   {"json"},
	}

	var body searchResponse
	if err := w.get(ctx, params, &body); err != nil {
		return nil, err
	}

	titles := make([]string, 0, len(body.Query.Search))
	for _, r := range body.Query.Search {
		titles = append(titles, r.Title)
	}
	return titles, nil
}

// PageText queries prop=extracts for the page's plain text content.
func (w *Wikipedia) PageText(ctx context.Context, title string) (string, error) {
	params := url.Values{
		"action":      {"query"},
		"prop":        {"extracts"},
		"explaintext": {"1"},
		"titles":      {title},
		"format":      {"json"},
	}

	var body pageResponse
	if err := w.get(ctx, params, &body); err != nil {
		return "", err
	}

	for _, p := range body.Query.Pages {
		if p.Missing != nil || p.Extract == nil {
			return "", ErrPageMissing
		}
		return *p.Extract, nil
	}
	return "", ErrPageMissing
}

func (w *Wikipedia) get(ctx context.Context, params url.Values, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, w.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return errors.Join(ErrRequestFailed, err)
	}
	if w.userAgent != "" {
		req.Header.Set("User-Agent", w.userAgent)
	}

	resp, err := w.client.Do(req)
	if err != nil {
		return errors.Join(ErrRequestFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return errors.Join(ErrRequestFailed, fmt.Errorf("unexpected status %d", resp.StatusCode))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return errors.Join(ErrRequestFailed, err)
	}
	return nil
}
