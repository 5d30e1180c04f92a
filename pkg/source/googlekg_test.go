package source

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"

	coreerrors "github.com/easyops/medcontext-go/pkg/core/errors"
)

func TestGoogleKGFetchMissingKey(t *testing.T) {
	src := NewGoogleKGSource(GoogleKGConfig{})
	result := src.Fetch(context.Background(), "Aspirin")

	if result.OK() {
		t.Fatal("missing credential must yield a failure result")
	}
	if !errors.Is(result.Err, coreerrors.ErrMissingCredential) {
		t.Errorf("expected ErrMissingCredential, got %v", result.Err)
	}
	if len(result.Neighbors) != 0 {
		t.Errorf("expected empty neighbors, got %v", result.Neighbors)
	}
}

func TestGoogleKGFetch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("key") != "test-key" {
			http.Error(w, "bad key", http.StatusUnauthorized)
			return
		}
		w.Write([]byte(`{"itemListElement":[
			{"result":{"name":"Aspirin"}},
			{"result":{"name":"Warfarin"}},
			{"result":{"name":"Ibuprofen"}}
		]}`))
	}))
	defer server.Close()

	src := NewGoogleKGSource(GoogleKGConfig{Endpoint: server.URL, APIKey: "test-key"})
	result := src.Fetch(context.Background(), "Aspirin")

	if !result.OK() {
		t.Fatalf("unexpected failure: %v", result.Err)
	}
	// 主体自身被剔除
	want := []string{"Warfarin", "Ibuprofen"}
	if !reflect.DeepEqual(result.Neighbors, want) {
		t.Errorf("neighbors = %v, want %v", result.Neighbors, want)
	}
}

func TestGoogleKGFetchUnauthorized(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "forbidden", http.StatusForbidden)
	}))
	defer server.Close()

	src := NewGoogleKGSource(GoogleKGConfig{Endpoint: server.URL, APIKey: "bad-key"})
	result := src.Fetch(context.Background(), "Aspirin")

	if result.OK() {
		t.Fatal("expected a failure result")
	}
	if !errors.Is(result.Err, coreerrors.ErrSourceUnavailable) {
		t.Errorf("expected ErrSourceUnavailable, got %v", result.Err)
	}
}
