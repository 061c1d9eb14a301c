// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package teleloisirs

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, srv *httptest.Server, retries int) *Client {
	t.Helper()
	c, err := NewClient(Options{
		BaseURL:    srv.URL,
		MaxRetries: retries,
		Backoff:    time.Millisecond,
		MaxBackoff: 2 * time.Millisecond,
		HTTPClient: srv.Client(),
	})
	require.NoError(t, err)
	return c
}

func TestQuerySendsUserAgentAndParams(t *testing.T) {
	var gotUA, gotPath, gotLimit string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		gotPath = r.URL.Path
		gotLimit = r.URL.Query().Get("limit")
		_, _ = w.Write([]byte(`{"data":{"items":[{"id":1}]}}`))
	}))
	defer srv.Close()

	c := newTestClient(t, srv, -1)
	env, err := c.Query(context.Background(), "/v2/channels.json/", url.Values{"limit": {"auto"}})
	require.NoError(t, err)
	require.NotNil(t, env.Data)
	assert.Len(t, env.Data.Items, 1)
	assert.Equal(t, DefaultUserAgent, gotUA)
	assert.Equal(t, "/v2/channels.json", gotPath)
	assert.Equal(t, "auto", gotLimit)
}

func TestQueryCarriesVendorMessage(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"message":"Program not found"}`))
	}))
	defer srv.Close()

	c := newTestClient(t, srv, 3)
	_, err := c.Query(context.Background(), "v2/programs/1.json", nil)
	require.Error(t, err)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.True(t, errors.Is(err, ErrUpstream))
	assert.Equal(t, http.StatusNotFound, apiErr.Status)
	assert.Equal(t, "Program not found", apiErr.Message)
	assert.Contains(t, err.Error(), "Program not found")
	assert.Equal(t, int32(1), hits.Load(), "4xx must not be retried")
}

func TestQueryFallsBackToTransportDescription(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`<html>denied</html>`))
	}))
	defer srv.Close()

	c := newTestClient(t, srv, -1)
	_, err := c.Query(context.Background(), "v2/channels.json", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unexpected status 403 Forbidden")
}

func TestQueryRetriesServerErrors(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if hits.Add(1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte(`{"data":{"item":{"title":"ok"}}}`))
	}))
	defer srv.Close()

	c := newTestClient(t, srv, 2)
	env, err := c.Query(context.Background(), "v2/programs/7.json", nil)
	require.NoError(t, err)
	assert.JSONEq(t, `{"title":"ok"}`, string(env.Data.Item))
	assert.Equal(t, int32(3), hits.Load())
}

func TestQueryGivesUpAfterMaxRetries(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c := newTestClient(t, srv, 1)
	_, err := c.Query(context.Background(), "v2/channels.json", nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUpstream))
	assert.Equal(t, int32(2), hits.Load())
}

func TestQueryTransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	c := newTestClient(t, srv, -1)
	srv.Close()

	_, err := c.Query(context.Background(), "v2/channels.json", nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrTransport))
}

func TestQueryMessageWithoutDataIsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"message":"quota exceeded"}`))
	}))
	defer srv.Close()

	c := newTestClient(t, srv, -1)
	_, err := c.Query(context.Background(), "v2/channels.json", nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUpstream))
	assert.Contains(t, err.Error(), "quota exceeded")
}

func TestQueryInvalidJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`not json`))
	}))
	defer srv.Close()

	c := newTestClient(t, srv, -1)
	_, err := c.Query(context.Background(), "v2/channels.json", nil)
	assert.True(t, errors.Is(err, ErrDecode))
}

func TestNewClientRejectsBadScheme(t *testing.T) {
	_, err := NewClient(Options{BaseURL: "ftp://example.org"})
	assert.Error(t, err)
}

func TestProgramDecodesItem(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v2/programs/99.json", r.URL.Path)
		assert.Contains(t, r.URL.Query().Get("projection"), "formatGenre{format{title},genre{name}}")
		_, _ = w.Write([]byte(`{"data":{"item":{
			"title":"Le Journal",
			"duration":1800,
			"releasedYear":2021,
			"isInColor":true,
			"formatGenre":{"format":{"title":"magazine"},"genre":{"name":"information"}},
			"collection":{"itemIndex":2,"parentCollection":{"childCount":10}}
		}}}`))
	}))
	defer srv.Close()

	c := newTestClient(t, srv, -1)
	p, err := c.Program(context.Background(), "99")
	require.NoError(t, err)
	assert.Equal(t, "Le Journal", p.Title)
	require.NotNil(t, p.Duration)
	assert.Equal(t, 1800, *p.Duration)
	assert.Equal(t, Scalar("2021"), p.ReleasedYear)
	assert.Equal(t, "magazine", p.Genre())
	assert.Equal(t, "information", p.SubGenre())
	require.NotNil(t, p.Collection.ParentCollection.ChildCount)
	assert.Equal(t, 10, *p.Collection.ParentCollection.ChildCount)
}

func TestProgramWithoutItemIsEmpty(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"data":{}}`))
	}))
	defer srv.Close()

	c := newTestClient(t, srv, -1)
	p, err := c.Program(context.Background(), "1")
	require.NoError(t, err)
	assert.Equal(t, Program{}, p)
}

func TestEndpointLabel(t *testing.T) {
	assert.Equal(t, "v2/programs/{id}.json", endpointLabel("/v2/programs/12345.json"))
	assert.Equal(t, "v2/channels.json", endpointLabel("v2/channels.json"))
	assert.Equal(t, "/", endpointLabel(""))
}

func TestChannelsFollowsCursorUnderBasePath(t *testing.T) {
	var paths, pages []string
	var srv *httptest.Server
	srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.URL.Path)
		pages = append(pages, r.URL.Query().Get("page"))
		if r.URL.Query().Get("page") == "" {
			_, _ = w.Write([]byte(`{"data":{"items":[{"id":1,"title":"TF1"}],"next":"` +
				srv.URL + `/api/v2/channels.json?limit=auto&page=2"}}`))
			return
		}
		_, _ = w.Write([]byte(`{"data":{"items":[{"id":2,"title":"France 2"}]}}`))
	}))
	defer srv.Close()

	c, err := NewClient(Options{
		BaseURL:    srv.URL + "/api/",
		MaxRetries: -1,
		HTTPClient: srv.Client(),
	})
	require.NoError(t, err)

	chans, err := c.Channels(context.Background())
	require.NoError(t, err)
	assert.Len(t, chans, 2)
	assert.Equal(t, []string{"/api/v2/channels.json", "/api/v2/channels.json"}, paths)
	assert.Equal(t, []string{"", "2"}, pages)
}

func TestResolvePath(t *testing.T) {
	c, err := NewClient(Options{BaseURL: "https://example.test/api"})
	require.NoError(t, err)
	assert.Equal(t, "/api/v2/channels.json", c.resolvePath("v2/channels.json"))
	assert.Equal(t, "/api/v2/channels.json", c.resolvePath("/api/v2/channels.json"))
	assert.Equal(t, "/api/v2/channels.json", c.resolvePath("/v2/channels.json"))
	assert.Equal(t, "/api/apiary.json", c.resolvePath("/apiary.json"))

	root, err := NewClient(Options{BaseURL: "https://example.test"})
	require.NoError(t, err)
	assert.Equal(t, "/v2/channels.json", root.resolvePath("/v2/channels.json/"))
}

func TestQueryRejectsOversizedResponse(t *testing.T) {
	prev := maxResponseBytes
	maxResponseBytes = 16
	t.Cleanup(func() { maxResponseBytes = prev })

	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
		_, _ = w.Write([]byte(`{"data":{"items":[{"id":1},{"id":2}]}}`))
	}))
	defer srv.Close()

	c := newTestClient(t, srv, 3)
	_, err := c.Query(context.Background(), "v2/channels.json", nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrResponseTooLarge)
	assert.NotErrorIs(t, err, ErrDecode)
	assert.Equal(t, int32(1), hits.Load(), "oversized bodies must not be retried")
}

func TestQueryAcceptsBodyAtLimit(t *testing.T) {
	body := `{"data":{"items":[]}}`
	prev := maxResponseBytes
	maxResponseBytes = int64(len(body))
	t.Cleanup(func() { maxResponseBytes = prev })

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(body))
	}))
	defer srv.Close()

	c := newTestClient(t, srv, -1)
	env, err := c.Query(context.Background(), "v2/channels.json", nil)
	require.NoError(t, err)
	require.NotNil(t, env.Data)
	assert.Empty(t, env.Data.Items)
}
