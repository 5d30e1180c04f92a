package source

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

const arxivTestFeed = `<?xml version="1.0" encoding="UTF-8"?>
<feed xmlns="http://www.w3.org/2005/Atom">
  <entry>
    <id>http://arxiv.org/abs/1234.5678</id>
    <title>Drug interaction networks
      and their applications</title>
    <summary>  We study pairwise drug
      interaction graphs.  </summary>
    <published>2024-01-15T00:00:00Z</published>
  </entry>
  <entry>
    <id>http://arxiv.org/abs/2345.6789</id>
    <title>Second paper</title>
    <summary>Another abstract.</summary>
    <published>2024-02-01T00:00:00Z</published>
  </entry>
</feed>`

func TestArxivSearch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("search_query") == "" {
			http.Error(w, "missing search_query", http.StatusBadRequest)
			return
		}
		w.Header().Set("Content-Type", "application/atom+xml")
		w.Write([]byte(arxivTestFeed))
	}))
	defer server.Close()

	client := NewArxivClient(ArxivConfig{Endpoint: server.URL})
	articles, err := client.Search(context.Background(), "drug interaction")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(articles) != 2 {
		t.Fatalf("expected 2 articles, got %d", len(articles))
	}

	first := articles[0]
	if first.Title != "Drug interaction networks and their applications" {
		t.Errorf("title whitespace not collapsed: %q", first.Title)
	}
	if first.Summary != "We study pairwise drug interaction graphs." {
		t.Errorf("summary whitespace not collapsed: %q", first.Summary)
	}
	if first.URL != "http://arxiv.org/abs/1234.5678" {
		t.Errorf("unexpected URL: %q", first.URL)
	}
	if first.Published != "2024-01-15T00:00:00Z" {
		t.Errorf("unexpected published date: %q", first.Published)
	}
}

func TestArxivSearchServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client := NewArxivClient(ArxivConfig{Endpoint: server.URL})
	if _, err := client.Search(context.Background(), "anything"); err == nil {
		t.Fatal("expected an error for a failing endpoint")
	}
}

func TestArticleDescribe(t *testing.T) {
	article := Article{Title: "A title", Summary: "an abstract"}
	want := "A title: an abstract"
	if got := article.Describe(); got != want {
		t.Errorf("Describe() = %q, want %q", got, want)
	}
}
