package robot

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
)

func testCreds() *Credentials {
	return &Credentials{Email: "cat@example.com", Password: "hunter2"}
}

func TestHTTPClient_ConnectStoresToken(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/auth/login":
			var body map[string]string
			if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
				t.Errorf("decode login body: %v", err)
			}
			if body["email"] != "cat@example.com" {
				t.Errorf("login email = %q", body["email"])
			}
			json.NewEncoder(w).Encode(map[string]string{"token": "tok-123"})
		case "/api/robots":
			gotAuth = r.Header.Get("Authorization")
			json.NewEncoder(w).Encode(map[string][]Robot{
				"robots": {{ID: "r1", Name: "Box", Status: StatusReady}},
			})
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL, testCreds(), slog.New(slog.NewTextHandler(io.Discard, nil)))
	ctx := context.Background()

	if err := c.Connect(ctx); err != nil {
		t.Fatalf("connect: %v", err)
	}

	robots, err := c.Robots(ctx)
	if err != nil {
		t.Fatalf("robots: %v", err)
	}
	if len(robots) != 1 || robots[0].ID != "r1" {
		t.Errorf("robots = %+v", robots)
	}
	if gotAuth != "Bearer tok-123" {
		t.Errorf("authorization header = %q, want Bearer tok-123", gotAuth)
	}
}

func TestHTTPClient_LoginFailureIsAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad credentials", http.StatusUnauthorized)
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL, testCreds(), slog.New(slog.NewTextHandler(io.Discard, nil)))

	err := c.Connect(context.Background())
	if err == nil {
		t.Fatal("expected error, got none")
	}
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("error = %T, want *APIError", err)
	}
	if apiErr.StatusCode != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", apiErr.StatusCode)
	}
	if apiErr.IsRetryable() {
		t.Error("401 reported as retryable")
	}
}

func TestHTTPClient_SendCommand(t *testing.T) {
	var gotPath, gotCommand string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/auth/login" {
			json.NewEncoder(w).Encode(map[string]string{"token": "tok"})
			return
		}
		gotPath = r.URL.Path
		var body map[string]string
		json.NewDecoder(r.Body).Decode(&body)
		gotCommand = body["command"]
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL, testCreds(), slog.New(slog.NewTextHandler(io.Discard, nil)))
	ctx := context.Background()
	if err := c.Connect(ctx); err != nil {
		t.Fatalf("connect: %v", err)
	}

	if err := c.SendCommand(ctx, "r7", CommandReset); err != nil {
		t.Fatalf("send command: %v", err)
	}
	if gotPath != "/api/robots/r7/commands" {
		t.Errorf("path = %q", gotPath)
	}
	if gotCommand != CommandReset {
		t.Errorf("command = %q, want reset", gotCommand)
	}
}

func TestLoadCredentials_Validation(t *testing.T) {
	if _, err := LoadCredentials("/nonexistent/account_info.json"); err == nil {
		t.Error("expected error for missing file")
	}
}
