package scraper

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"skincare-analyzer/internal/infrastructure/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(searchURL string) *config.Config {
	return &config.Config{
		Search: config.SearchConfig{
			APIKey:      "test-key",
			CX:          "test-cx",
			BaseURL:     searchURL,
			ResultCount: 3,
			Timeout:     5 * time.Second,
		},
		Fetch: config.FetchConfig{
			Timeout:   5 * time.Second,
			UserAgent: "test-agent",
		},
	}
}

func TestResolver_ResolvesIngredientsFromPage(t *testing.T) {
	mux := http.NewServeMux()
	srv := httptest.NewServer(mux)
	defer srv.Close()

	mux.HandleFunc("/search", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "test-key", r.URL.Query().Get("key"))
		fmt.Fprintf(w, `{"items": [{"title": "Product Page", "link": "%s/page"}]}`, srv.URL)
	})
	mux.HandleFunc("/page", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html><body><h3>Ingredients</h3><div>Water, Glycerin, Niacinamide, Panthenol, Sodium Hyaluronate</div></body></html>`)
	})

	cfg := testConfig(srv.URL + "/search")
	resolver := NewResolver(cfg, NewSearchClient(cfg))

	ingredients, sourceURL, err := resolver.Resolve(context.Background(), "Test Cleanser")
	require.NoError(t, err)
	assert.Equal(t, srv.URL+"/page", sourceURL)
	assert.Contains(t, ingredients, "Water")
	assert.Contains(t, ingredients, "Niacinamide")
}

func TestResolver_NoResultsIsNotAnError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"items": []}`)
	}))
	defer srv.Close()

	cfg := testConfig(srv.URL)
	resolver := NewResolver(cfg, NewSearchClient(cfg))

	ingredients, sourceURL, err := resolver.Resolve(context.Background(), "Unknown Product")
	require.NoError(t, err)
	assert.Nil(t, ingredients)
	assert.Equal(t, "", sourceURL)
}

func TestResolver_BadPageFallsThrough(t *testing.T) {
	mux := http.NewServeMux()
	srv := httptest.NewServer(mux)
	defer srv.Close()

	mux.HandleFunc("/search", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, `{"items": [{"title": "Broken", "link": "%s/broken"}, {"title": "Good", "link": "%s/good"}]}`, srv.URL, srv.URL)
	})
	mux.HandleFunc("/broken", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	mux.HandleFunc("/good", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html><body><h3>Ingredients</h3><div>Water, Glycerin, Squalane, Ceramide NP, Cholesterol, Phytosphingosine</div></body></html>`)
	})

	cfg := testConfig(srv.URL + "/search")
	resolver := NewResolver(cfg, NewSearchClient(cfg))

	ingredients, sourceURL, err := resolver.Resolve(context.Background(), "Barrier Cream")
	require.NoError(t, err)
	assert.Equal(t, srv.URL+"/good", sourceURL)
	assert.Contains(t, ingredients, "Squalane")
}

func TestSearchClient_MissingKey(t *testing.T) {
	cfg := testConfig("http://unused")
	cfg.Search.APIKey = ""
	client := NewSearchClient(cfg)

	_, err := client.Search(context.Background(), "anything")
	assert.Error(t, err)
}
