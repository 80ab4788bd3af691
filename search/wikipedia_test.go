package search_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mgkim990427/wikimediator/search"
)

func TestWikipediaSearch(t *testing.T) {
	t.Parallel()

	t.Run("returns titles in rank order", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "query", r.URL.Query().Get("action"))
			assert.Equal(t, "search", r.URL.Query().Get("list"))
			assert.Equal(t, "Canada", r.URL.Query().Get("srsearch"))
			assert.Equal(t, "3", r.URL.Query().Get("srlimit"))

			w.Write([]byte(`{"query":{"search":[{"title":"Canada"},{"title":"Canada Day"},{"title":"Canada goose"}]}}`))
		}))
		defer srv.Close()

		wp := search.NewWikipedia(search.WikipediaConfig{BaseURL: srv.URL})

		titles, err := wp.Search(context.Background(), "Canada", 3)
		require.NoError(t, err)
		assert.Equal(t, []string{"Canada", "Canada Day", "Canada goose"}, titles)
	})

	t.Run("no matches", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"query":{"search":[]}}`))
		}))
		defer srv.Close()

		wp := search.NewWikipedia(search.WikipediaConfig{BaseURL: srv.URL})

		titles, err := wp.Search(context.Background(), "zzzz", 10)
		require.NoError(t, err)
		assert.Empty(t, titles)
	})

	t.Run("server error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		}))
		defer srv.Close()

		wp := search.NewWikipedia(search.WikipediaConfig{BaseURL: srv.URL})

		_, err := wp.Search(context.Background(), "Canada", 10)
		assert.ErrorIs(t, err, search.ErrRequestFailed)
	})

	t.Run("context cancellation", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			<-r.Context().Done()
		}))
		defer srv.Close()

		wp := search.NewWikipedia(search.WikipediaConfig{BaseURL: srv.URL})

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := wp.Search(ctx, "Canada", 10)
		assert.ErrorIs(t, err, search.ErrRequestFailed)
	})
}

func TestWikipediaPageText(t *testing.T) {
	t.Parallel()

	t.Run("returns extract", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "extracts", r.URL.Query().Get("prop"))
			assert.Equal(t, "Canada", r.URL.Query().Get("titles"))

			w.Write([]byte(`{"query":{"pages":{"5042916":{"title":"Canada","extract":"Canada is a country in North America."}}}}`))
		}))
		defer srv.Close()

		wp := search.NewWikipedia(search.WikipediaConfig{BaseURL: srv.URL})

		text, err := wp.PageText(context.Background(), "Canada")
		require.NoError(t, err)
		assert.Equal(t, "Canada is a country in North America.", text)
	})

	t.Run("missing page", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"query":{"pages":{"-1":{"title":"Nope","missing":""}}}}`))
		}))
		defer srv.Close()

		wp := search.NewWikipedia(search.WikipediaConfig{BaseURL: srv.URL})

		_, err := wp.PageText(context.Background(), "Nope")
		assert.ErrorIs(t, err, search.ErrPageMissing)
	})
}

func TestNewWikipediaDefaults(t *testing.T) {
	t.Parallel()

	// Zero config must not panic and must fill usable defaults.
	wp := search.NewWikipedia(search.WikipediaConfig{})
	require.NotNil(t, wp)
}
