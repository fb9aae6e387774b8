package httpclient

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"rozadaar/internal/application"
	"rozadaar/internal/domain"
)

func TestClient_Fetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/locations":
			w.Write([]byte(`[{"id":"lahore"}]`))
		case "/api/notes":
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte(`{"error":"database down"}`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	client := New(srv.URL + "/")
	body, err := client.FetchLocations(context.Background())
	if err != nil {
		t.Fatalf("FetchLocations() error = %v", err)
	}
	if string(body) != `[{"id":"lahore"}]` {
		t.Errorf("unexpected body %s", body)
	}

	if _, err := client.FetchNotes(context.Background()); err == nil {
		t.Error("expected error for 500 response")
	}
}

func TestClient_Push(t *testing.T) {
	var got struct {
		Secret string          `json:"secret"`
		Data   json.RawMessage `json:"data"`
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decoding body: %v", err)
		}
		if got.Secret != "letmein" {
			w.WriteHeader(http.StatusForbidden)
			w.Write([]byte(`{"error":"Unauthorized: Wrong Admin Password"}`))
			return
		}
		w.Write([]byte(`{"success":true}`))
	}))
	defer srv.Close()

	client := New(srv.URL)
	if err := client.PushNotes(context.Background(), "letmein", nil); err != nil {
		t.Fatalf("PushNotes() error = %v", err)
	}
	if string(got.Data) != "[]" {
		t.Errorf("nil notes must push as [], got %s", got.Data)
	}

	err := client.PushLocations(context.Background(), "wrong", []domain.Location{{ID: "lahore"}})
	if !errors.Is(err, application.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
	var pushErr *application.PushError
	if !errors.As(err, &pushErr) || pushErr.Reason != "Unauthorized: Wrong Admin Password" {
		t.Errorf("unexpected push error %+v", pushErr)
	}
}

func TestClient_Check(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodHead || r.URL.Query().Get("nocache") == "" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL)
		}
	}))
	client := New(srv.URL)
	if !client.Check(context.Background()) {
		t.Error("expected online")
	}

	srv.Close()
	if client.Check(context.Background()) {
		t.Error("expected offline after server close")
	}
}
