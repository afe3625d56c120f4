// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package gateway

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/paper-mentat/pkg/types"
)

func init() {
	// Use a tiny base delay so tests finish quickly.
	RetryBaseDelay = 1 * time.Millisecond
}

func testClient(rps float64) *Client {
	return New(types.GatewayConfig{
		RatePerSecond: rps,
		Timeout:       5 * time.Second,
		UserAgent:     "paper-mentat-test/0.1",
	}, zerolog.Nop())
}

func TestGet_Success(t *testing.T) {
	var gotUA, gotQuery string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		gotQuery = r.URL.RawQuery
		w.WriteHeader(http.StatusOK)
	}))
	defer ts.Close()

	c := testClient(100)
	resp, err := c.Get(context.Background(), ts.URL, url.Values{"q": {"gold deposits"}})
	require.NoError(t, err)
	resp.Body.Close()

	assert.Equal(t, "paper-mentat-test/0.1", gotUA)
	assert.Equal(t, "q=gold+deposits", gotQuery)
}

func TestGet_NonOKReturnsError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer ts.Close()

	c := testClient(100)
	resp, err := c.Get(context.Background(), ts.URL, nil)
	require.Error(t, err)
	assert.Nil(t, resp)
	assert.Contains(t, err.Error(), "HTTP 404")
}

func TestDo_RetriesOn429(t *testing.T) {
	var calls int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if atomic.AddInt32(&calls, 1) <= 2 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer ts.Close()

	c := testClient(1000)
	resp, err := c.Get(context.Background(), ts.URL, nil)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
}

func TestDo_ThrottleEnforcesInterval(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer ts.Close()

	// 20 req/s means at least 50ms between the first and second call.
	c := testClient(20)
	start := time.Now()
	for i := 0; i < 2; i++ {
		resp, err := c.Get(context.Background(), ts.URL, nil)
		require.NoError(t, err)
		resp.Body.Close()
	}
	assert.GreaterOrEqual(t, time.Since(start), 45*time.Millisecond)
}

func TestDo_ThrottleAppliesAfterFailure(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer ts.Close()

	// Failed calls still consume the slot: two failing calls take at
	// least one full interval.
	c := testClient(20)
	start := time.Now()
	for i := 0; i < 2; i++ {
		_, err := c.Get(context.Background(), ts.URL, nil)
		require.Error(t, err)
	}
	assert.GreaterOrEqual(t, time.Since(start), 45*time.Millisecond)
}

func TestGetJSON(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"message": {"total-results": 3}}`))
	}))
	defer ts.Close()

	var out struct {
		Message struct {
			Total int `json:"total-results"`
		} `json:"message"`
	}
	c := testClient(100)
	require.NoError(t, c.GetJSON(context.Background(), ts.URL, nil, &out))
	assert.Equal(t, 3, out.Message.Total)
}

func TestGetJSON_MalformedBody(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`<html>not json</html>`))
	}))
	defer ts.Close()

	var out map[string]any
	c := testClient(100)
	err := c.GetJSON(context.Background(), ts.URL, nil, &out)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing response")
}
