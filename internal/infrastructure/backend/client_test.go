package backend

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/image-ehr/clinic-console/internal/core/domain"
)

func testClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL, time.Second, zerolog.Nop())
}

func TestLogin_SendsFormEncodedCredentials(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/auth/login" {
			t.Fatalf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/x-www-form-urlencoded" {
			t.Fatalf("unexpected content type: %q", ct)
		}
		if auth := r.Header.Get("Authorization"); auth != "" {
			t.Fatalf("login must not carry a bearer token, got %q", auth)
		}
		if err := r.ParseForm(); err != nil {
			t.Fatalf("parse form: %v", err)
		}
		if r.PostFormValue("username") != "nadia" || r.PostFormValue("password") != "pw" {
			t.Fatalf("credentials not relayed: %v", r.PostForm)
		}
		json.NewEncoder(w).Encode(map[string]any{
			"access_token": "tok-1",
			"user": map[string]any{
				"id": 7, "username": "nadia", "role": "outdoor_staff", "clinic_id": 4, "is_active": true,
			},
		})
	})

	token, user, err := client.Login(context.Background(), "nadia", "pw")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if token != "tok-1" {
		t.Fatalf("unexpected token: %q", token)
	}
	if user == nil || user.ID != 7 || user.Role != domain.RoleOutdoorStaff {
		t.Fatalf("unexpected user: %+v", user)
	}
}

func TestLogin_RejectionCarriesBackendDetail(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		io.WriteString(w, `{"detail":"Incorrect username or password"}`)
	})

	_, _, err := client.Login(context.Background(), "nadia", "wrong")
	if !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if err.Error() != "Incorrect username or password" {
		t.Fatalf("backend detail lost: %q", err.Error())
	}
}

func TestLogin_MalformedResponse(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"access_token":""}`)
	})

	_, _, err := client.Login(context.Background(), "nadia", "pw")
	if !errors.Is(err, domain.ErrBackendUnavailable) {
		t.Fatalf("expected ErrBackendUnavailable, got %v", err)
	}
}

func TestLogin_BackendDown(t *testing.T) {
	client := NewClient("http://127.0.0.1:1", time.Second, zerolog.Nop())

	_, _, err := client.Login(context.Background(), "nadia", "pw")
	if !errors.Is(err, domain.ErrBackendUnavailable) {
		t.Fatalf("expected ErrBackendUnavailable, got %v", err)
	}
}

func TestMe_AttachesBearerToken(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/auth/me" {
			t.Fatalf("unexpected path: %s", r.URL.Path)
		}
		if auth := r.Header.Get("Authorization"); auth != "Bearer tok-1" {
			t.Fatalf("bearer token not attached: %q", auth)
		}
		json.NewEncoder(w).Encode(map[string]any{"id": 7, "username": "nadia", "role": "outdoor_staff"})
	})

	user, err := client.Me(context.Background(), "tok-1")
	if err != nil {
		t.Fatalf("me failed: %v", err)
	}
	if user.Username != "nadia" {
		t.Fatalf("unexpected user: %+v", user)
	}
}

func TestMe_RejectedOrEmptyUserMeansExpired(t *testing.T) {
	cases := []struct {
		name   string
		status int
		body   string
	}{
		{"unauthorized", http.StatusUnauthorized, `{"detail":"Could not validate credentials"}`},
		{"zero id", http.StatusOK, `{"id":0}`},
		{"malformed", http.StatusOK, `not json`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				io.WriteString(w, tc.body)
			})
			if _, err := client.Me(context.Background(), "tok"); !errors.Is(err, domain.ErrSessionExpired) {
				t.Fatalf("expected ErrSessionExpired, got %v", err)
			}
		})
	}
}

func TestFetch_RelaysQueryAndBody(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/patients" {
			t.Fatalf("unexpected path: %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("clinic_id"); got != "4" {
			t.Fatalf("query not relayed: %v", r.URL.Query())
		}
		io.WriteString(w, `[{"id":1,"name":"A"}]`)
	})

	query := url.Values{}
	query.Set("clinic_id", "4")
	body, err := client.Fetch(context.Background(), "tok", "/patients", query)
	if err != nil {
		t.Fatalf("fetch failed: %v", err)
	}
	if string(body) != `[{"id":1,"name":"A"}]` {
		t.Fatalf("body not relayed verbatim: %s", body)
	}
}

func TestFetch_UnauthorizedMapsToSessionExpired(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})

	if _, err := client.Fetch(context.Background(), "tok", "/patients", nil); !errors.Is(err, domain.ErrSessionExpired) {
		t.Fatalf("expected ErrSessionExpired, got %v", err)
	}
}

func TestFetch_RemoteErrorPassthrough(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		io.WriteString(w, `{"detail":"clinic_id must be positive"}`)
	})

	_, err := client.Fetch(context.Background(), "tok", "/patients", nil)
	var remote *domain.RemoteError
	if !errors.As(err, &remote) {
		t.Fatalf("expected RemoteError, got %v", err)
	}
	if remote.StatusCode != http.StatusUnprocessableEntity || remote.Detail != "clinic_id must be positive" {
		t.Fatalf("status or detail lost: %+v", remote)
	}
}

func TestSubmit_RelaysJSONBody(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Fatalf("unexpected method: %s", r.Method)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Fatalf("unexpected content type: %q", ct)
		}
		var payload map[string]any
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Fatalf("decode body: %v", err)
		}
		if payload["name"] != "A Patient" {
			t.Fatalf("body not relayed: %v", payload)
		}
		w.WriteHeader(http.StatusCreated)
		io.WriteString(w, `{"id":12}`)
	})

	body, err := client.Submit(context.Background(), "tok", http.MethodPost, "/patients", json.RawMessage(`{"name":"A Patient"}`))
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}
	if string(body) != `{"id":12}` {
		t.Fatalf("response not relayed: %s", body)
	}
}

func TestLogout_MapsRejectionToRemoteError(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/auth/logout" || r.Method != http.MethodPost {
			t.Fatalf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		w.WriteHeader(http.StatusInternalServerError)
	})

	err := client.Logout(context.Background(), "tok")
	var remote *domain.RemoteError
	if !errors.As(err, &remote) {
		t.Fatalf("expected RemoteError, got %v", err)
	}
}
