package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
)

type fakePinger struct{ err error }

func (f fakePinger) Ping(ctx context.Context) error { return f.err }

type fakeFeed bool

func (f fakeFeed) HealthCheck(ctx context.Context) bool { return bool(f) }

func TestHealth(t *testing.T) {
	tests := []struct {
		name     string
		store    Pinger
		feed     FeedChecker
		code     int
		status   string
		database string
		feedText string
	}{
		{"no checks", nil, nil, http.StatusOK, "ok", "ok", ""},
		{"all up", fakePinger{}, fakeFeed(true), http.StatusOK, "ok", "ok", "ok"},
		{"feed down", fakePinger{}, fakeFeed(false), http.StatusOK, "degraded", "ok", "unreachable"},
		{"database down", fakePinger{errors.New("connection refused")}, fakeFeed(true), http.StatusServiceUnavailable, "down", "unreachable", "ok"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			NewHealthHandler(tt.store, tt.feed).Health(rr, httptest.NewRequest(http.MethodGet, "/healthz", nil))

			assert.Equal(t, tt.code, rr.Code)
			var got healthResponse
			decode(t, rr, &got)
			assert.Equal(t, tt.status, got.Status)
			assert.Equal(t, tt.database, got.Database)
			assert.Equal(t, tt.feedText, got.Feed)
		})
	}
}

func TestHealthRoute(t *testing.T) {
	ts := newTestServer(t)
	rr := ts.do(t, http.MethodGet, "/healthz", "", nil)
	assert.Equal(t, http.StatusOK, rr.Code)
}
