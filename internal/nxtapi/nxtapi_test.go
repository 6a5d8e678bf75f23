package nxtapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"zoneboard/internal/common"
)

func newTestApi(t *testing.T, handler http.HandlerFunc) *Api {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewApi(server.URL+"/", time.Second, []common.Restriction{{Requests: 100, Duration: time.Minute}})
}

func TestFetch(t *testing.T) {
	api := newTestApi(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case ROUTE_ORGANIZATIONS:
			_, _ = w.Write([]byte(`[{"name": "Ballas", "points": 10}]`))
		case ROUTE_CAPTURES:
			_, _ = w.Write([]byte(`[{"at": "2025-07-10 12:00:00", "by": "Ballas", "zone": "Grove", "success": 1}]`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})

	snapshot := api.Fetch(context.Background())
	if !snapshot.Organizations.Ok() || !snapshot.Captures.Ok() {
		t.Fatalf("expected both resources to succeed: %+v", snapshot)
	}
	if len(snapshot.Organizations.Value) != 1 || snapshot.Organizations.Value[0].Name != "Ballas" {
		t.Fatalf("unexpected organizations %+v", snapshot.Organizations.Value)
	}
	if len(snapshot.Captures.Value) != 1 || !snapshot.Captures.Value[0].Success {
		t.Fatalf("unexpected captures %+v", snapshot.Captures.Value)
	}
}

func TestFetchIsolatesFailures(t *testing.T) {
	tests := []struct {
		name         string
		orgsHandler  http.HandlerFunc
		capsHandler  http.HandlerFunc
		orgsKind     Kind
		capsKind     Kind
		orgsExpected int
		capsExpected int
	}{
		{
			name:         "organizations status error",
			orgsHandler:  func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusBadGateway) },
			capsHandler:  func(w http.ResponseWriter, r *http.Request) { _, _ = w.Write([]byte(`[{"zone": "A", "success": 1}]`)) },
			orgsKind:     KindStatus,
			capsKind:     KindNone,
			orgsExpected: 0,
			capsExpected: 1,
		},
		{
			name:         "captures malformed",
			orgsHandler:  func(w http.ResponseWriter, r *http.Request) { _, _ = w.Write([]byte(`[{"name": "X", "points": 1}]`)) },
			capsHandler:  func(w http.ResponseWriter, r *http.Request) { _, _ = w.Write([]byte(`not json`)) },
			orgsKind:     KindNone,
			capsKind:     KindDecode,
			orgsExpected: 1,
			capsExpected: 0,
		},
		{
			name:         "both down",
			orgsHandler:  func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusServiceUnavailable) },
			capsHandler:  func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusInternalServerError) },
			orgsKind:     KindStatus,
			capsKind:     KindStatus,
			orgsExpected: 0,
			capsExpected: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := newTestApi(t, func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path == ROUTE_ORGANIZATIONS {
					tt.orgsHandler(w, r)
				} else {
					tt.capsHandler(w, r)
				}
			})

			snapshot := api.Fetch(context.Background())
			if snapshot.Organizations.Kind != tt.orgsKind || snapshot.Captures.Kind != tt.capsKind {
				t.Fatalf("kinds = (%s, %s), want (%s, %s)", snapshot.Organizations.Kind, snapshot.Captures.Kind, tt.orgsKind, tt.capsKind)
			}
			if snapshot.Organizations.Value == nil || snapshot.Captures.Value == nil {
				t.Fatalf("failed resources should be empty, not nil")
			}
			if len(snapshot.Organizations.Value) != tt.orgsExpected || len(snapshot.Captures.Value) != tt.capsExpected {
				t.Fatalf("got %d organizations and %d captures", len(snapshot.Organizations.Value), len(snapshot.Captures.Value))
			}
		})
	}
}

func TestFetchUnreachable(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	api := NewApi(url, time.Second, nil)
	snapshot := api.Fetch(context.Background())
	if snapshot.Organizations.Kind != KindNetwork || snapshot.Captures.Kind != KindNetwork {
		t.Fatalf("expected network errors, got %+v", snapshot)
	}
}

func TestFetchRateLimited(t *testing.T) {
	api := newTestApi(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[]`))
	})
	api.proxy = common.NewProxy(nil, time.Second, []common.Restriction{{Requests: 1, Duration: time.Hour}})

	snapshot := api.Fetch(context.Background())
	kinds := map[Kind]int{snapshot.Organizations.Kind: 1}
	kinds[snapshot.Captures.Kind]++
	if kinds[KindNone] != 1 || kinds[KindRateLimited] != 1 {
		t.Fatalf("expected one allowed and one rate limited request, got (%s, %s)", snapshot.Organizations.Kind, snapshot.Captures.Kind)
	}
}
