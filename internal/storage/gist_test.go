package storage

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func newTestGistClient(t *testing.T, handler http.HandlerFunc) (*GistClient, *httptest.Server) {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := NewGistClient(GistConfig{GistID: "abc123", Token: "tok", Filename: "catalog.json"})
	if err != nil {
		t.Fatal(err)
	}
	client.baseURL = server.URL
	return client, server
}

func TestGistClient_Get(t *testing.T) {
	client, _ := newTestGistClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			t.Errorf("unexpected method %s", r.Method)
		}
		if got := r.Header.Get("Authorization"); got != "token tok" {
			t.Errorf("authorization header = %q", got)
		}
		json.NewEncoder(w).Encode(map[string]any{
			"files": map[string]any{
				"catalog.json": map[string]any{"content": `{"warehouses": []}`},
			},
		})
	})

	data, err := client.Get(context.Background(), "")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if string(data) != `{"warehouses": []}` {
		t.Errorf("unexpected content: %s", data)
	}
}

func TestGistClient_GetMissingFile(t *testing.T) {
	client, _ := newTestGistClient(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"files": map[string]any{}})
	})

	_, err := client.Get(context.Background(), "")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestGistClient_AuthFailureDisablesSession(t *testing.T) {
	calls := 0
	client, _ := newTestGistClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusUnauthorized)
	})

	_, err := client.Get(context.Background(), "")
	var authErr *AuthError
	if !errors.As(err, &authErr) {
		t.Fatalf("expected *AuthError, got %v", err)
	}
	if authErr.Status != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", authErr.Status)
	}

	// Subsequent calls fail fast without hitting the API again.
	_, err = client.Get(context.Background(), "")
	if !errors.As(err, &authErr) {
		t.Fatalf("expected *AuthError on disabled client, got %v", err)
	}
	if calls != 1 {
		t.Errorf("expected 1 API call, got %d", calls)
	}
}

func TestGistClient_Put(t *testing.T) {
	var patched gistDocument
	client, _ := newTestGistClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPatch {
			t.Errorf("unexpected method %s", r.Method)
		}
		if err := json.NewDecoder(r.Body).Decode(&patched); err != nil {
			t.Errorf("decode patch body: %v", err)
		}
		w.WriteHeader(http.StatusOK)
	})

	if err := client.Put(context.Background(), "", []byte(`{"customers": []}`)); err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	if patched.Files["catalog.json"].Content != `{"customers": []}` {
		t.Errorf("patched content = %q", patched.Files["catalog.json"].Content)
	}
}

func TestNewGistClient_Validation(t *testing.T) {
	if _, err := NewGistClient(GistConfig{Token: "tok"}); err == nil {
		t.Error("expected error for missing gist id")
	}
	if _, err := NewGistClient(GistConfig{GistID: "abc"}); err == nil {
		t.Error("expected error for missing token")
	}
}
