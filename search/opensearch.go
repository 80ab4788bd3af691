package search

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/opensearch-project/opensearch-go/v2"
)

// OpenSearchConfig holds OpenSearch client connection parameters with
// environment variable mapping.
type OpenSearchConfig struct {
	Addresses  []string `env:"OPENSEARCH_ADDRESSES,required"`
	Username   string   `env:"OPENSEARCH_USERNAME"`
	Password   string   `env:"OPENSEARCH_PASSWORD"`
	Index      string   `env:"OPENSEARCH_INDEX" envDefault:"articles"`
	MaxRetries int      `env:"OPENSEARCH_MAX_RETRIES" envDefault:"3"`
}

// OpenSearch is a Source backed by a self-hosted OpenSearch index of
// articles. Documents are expected to carry "title" and "text" fields,
// with the title doubling as the document ID.
type OpenSearch struct {
	client *opensearch.Client
	index  string
}

// NewOpenSearch creates an OpenSearch source and verifies cluster
// connectivity with an initial info call. It returns an error wrapped
// with ErrConnectionFailed if the client cannot be created or the
// cluster is unreachable.
func NewOpenSearch(ctx context.Context, cfg OpenSearchConfig) (*OpenSearch, error) {
	client, err := opensearch.NewClient(opensearch.Config{
		Addresses:  cfg.Addresses,
		Username:   cfg.Username,
		Password:   cfg.Password,
		MaxRetries: cfg.MaxRetries,
	})
	if err != nil {
		return nil, errors.Join(ErrConnectionFailed, err)
	}

	if _, err := client.Info(client.Info.WithContext(ctx)); err != nil {
		return nil, errors.Join(ErrConnectionFailed, err)
	}

	index := cfg.Index
	if index == "" {
		index = "articles"
	}
	return &OpenSearch{client: client, index: index}, nil
}

// Healthcheck returns a function suitable for liveness/readiness probes.
func (s *OpenSearch) Healthcheck() func(context.Context) error {
	return func(ctx context.Context) error {
		if _, err := s.client.Info(s.client.Info.WithContext(ctx)); err != nil {
			return errors.Join(ErrConnectionFailed, err)
		}
		return nil
	}
}

type osSearchResult struct {
	Hits struct {
		Hits []struct {
			Source struct {
				Title string `json:"title"`
				Text  string `json:"text"`
			} `json:"_source"`
		} `json:"hits"`
	} `json:"hits"`
}

// Search runs a match query against the title and text fields and returns
// the matching titles in score order.
func (s *OpenSearch) Search(ctx context.Context, query string, limit int) ([]string, error) {
	body, err := json.Marshal(map[string]any{
		"query": map[string]any{
			"multi_match": map[string]any{
				"query":  query,
				"fields": []string{"title^2", "text"},
			},
		},
	})
	if err != nil {
		return nil, errors.Join(ErrRequestFailed, err)
	}

	resp, err := s.client.Search(
		s.client.Search.WithContext(ctx),
		s.client.Search.WithIndex(s.index),
		s.client.Search.WithBody(strings.NewReader(string(body))),
		s.client.Search.WithSize(limit),
	)
	if err != nil {
		return nil, errors.Join(ErrRequestFailed, err)
	}
	defer resp.Body.Close()

	if resp.IsError() {
		return nil, errors.Join(ErrRequestFailed, fmt.Errorf("search returned %s", resp.Status()))
	}

	var result osSearchResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, errors.Join(ErrRequestFailed, err)
	}

	titles := make([]string, 0, len(result.Hits.Hits))
	for _, h := range result.Hits.Hits {
		titles = append(titles, h.Source.Title)
	}
	return titles, nil
}

type osGetResult struct {
	Found  bool `json:"found"`
	Source struct {
		Text string `json:"text"`
	} `json:"_source"`
}

// PageText fetches the document whose ID is the page title.
func (s *OpenSearch) PageText(ctx context.Context, title string) (string, error) {
	resp, err := s.client.Get(
		s.index,
		title,
		s.client.Get.WithContext(ctx),
	)
	if err != nil {
		return "", errors.Join(ErrRequestFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == 404 {
		return "", ErrPageMissing
	}
	if resp.IsError() {
		return "", errors.Join(ErrRequestFailed, fmt.Errorf("get returned %s", resp.Status()))
	}

	var result osGetResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", errors.Join(ErrRequestFailed, err)
	}
	if !result.Found {
		return "", ErrPageMissing
	}
	return result.Source.Text, nil
}
