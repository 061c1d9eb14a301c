// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package main

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ManuGH/tlgrab/internal/cache"
	"github.com/ManuGH/tlgrab/internal/config"
	"github.com/ManuGH/tlgrab/internal/epg"
	"github.com/ManuGH/tlgrab/internal/store"
	"github.com/ManuGH/tlgrab/internal/version"
)

func fakeAPI(t *testing.T) {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/v2/channels.json":
			_, _ = w.Write([]byte(`{"data":{"items":[{"id":42,"title":"France 2"},{"id":7,"title":"Arte"}]}}`))
		case "/v2/broadcasts.json":
			_, _ = w.Write([]byte(`{"data":{"items":[
				{"id":"b1","startedAt":"2024-03-02T20:00:00+0100","endedAt":"2024-03-02T20:30:00+0100","channel":{"id":42},"program":{"id":100}},
				{"id":"b2","startedAt":"2024-03-02T20:30:00+0100","endedAt":"2024-03-02T21:00:00+0100","channel":{"id":42},"program":{"id":101}}
			]}}`))
		case "/v2/programs/100.json":
			_, _ = w.Write([]byte(`{"data":{"item":{"id":100,"title":"Le Journal"}}}`))
		default:
			w.WriteHeader(http.StatusInternalServerError)
		}
	}))
	t.Cleanup(srv.Close)
	t.Setenv(config.EnvAPIBaseURL, srv.URL)
	t.Setenv(config.EnvAPIMaxRetries, "0")
}

type result struct {
	code   int
	stdout string
	stderr string
}

func invoke(stdin string, args ...string) result {
	var stdout, stderr bytes.Buffer
	code := run(args, strings.NewReader(stdin), &stdout, &stderr)
	return result{code: code, stdout: stdout.String(), stderr: stderr.String()}
}

func TestInformationalFlags(t *testing.T) {
	res := invoke("", "--description")
	assert.Equal(t, 0, res.code)
	assert.Equal(t, "France (Télé Loisirs)\n", res.stdout)

	res = invoke("", "--version")
	assert.Equal(t, 0, res.code)
	assert.Equal(t, "This is tv_grab_fr_teleloisirs version "+version.Version+"\n", res.stdout)

	res = invoke("", "--capabilities")
	assert.Equal(t, 0, res.code)
	assert.Equal(t, "baseline\nmanualconfig\n", res.stdout)
}

func TestUsageErrors(t *testing.T) {
	assert.Equal(t, 2, invoke("", "--quiet", "--debug").code)
	assert.Equal(t, 2, invoke("", "--no-such-flag").code)
	assert.Equal(t, 2, invoke("", "stray").code)
	assert.Equal(t, 2, invoke("", "load").code)
}

func TestGrabRequiresSelection(t *testing.T) {
	fakeAPI(t)
	dir := t.TempDir()

	res := invoke("", "--config-file", filepath.Join(dir, "missing.conf"))
	assert.Equal(t, 1, res.code)
	assert.Contains(t, res.stderr, "You need to configure the grabber by running it with --configure")

	empty := filepath.Join(dir, "empty.conf")
	require.NoError(t, os.WriteFile(empty, []byte("# nothing selected\nchannel=999.api-tel.programme-tv.net\n"), 0o600))
	res = invoke("", "--config-file", empty)
	assert.Equal(t, 1, res.code)
	assert.Contains(t, res.stderr, "Configuration file "+empty+" is empty or malformed, delete and run with --configure")
}

func TestConfigureGrabAndLoad(t *testing.T) {
	fakeAPI(t)
	dir := t.TempDir()
	selection := filepath.Join(dir, "xmltv", "tv_grab_fr_teleloisirs.conf")

	res := invoke("yes\nno\n", "--configure", "--config-file", selection)
	require.Equal(t, 0, res.code, res.stderr)
	assert.Contains(t, res.stderr, "Select the channels that you want to receive data for.")
	raw, err := os.ReadFile(selection)
	require.NoError(t, err)
	assert.Equal(t, "channel=42.api-tel.programme-tv.net # France 2\n", string(raw))

	guide := filepath.Join(dir, "guide.xml")
	res = invoke("", "--config-file", selection, "--days", "2", "--output", guide, "--quiet")
	require.Equal(t, 0, res.code, res.stderr)
	assert.Empty(t, res.stdout)

	tv, err := epg.ParseFile(guide)
	require.NoError(t, err)
	assert.Equal(t, "tv_grab_fr_teleloisirs", tv.GeneratorName)
	require.Len(t, tv.Channels, 1)
	assert.Equal(t, "42.api-tel.programme-tv.net", tv.Channels[0].ID)
	require.Len(t, tv.Programmes, 1)
	assert.Equal(t, "Le Journal", tv.Programmes[0].Titles[0].Value)

	res = invoke("", "--config-file", selection, "--output", "-", "--quiet")
	require.Equal(t, 0, res.code, res.stderr)
	assert.Contains(t, res.stdout, "<title>Le Journal</title>")

	db := filepath.Join(dir, "guide.db")
	res = invoke("", "load", "--db", db, guide)
	require.Equal(t, 0, res.code, res.stderr)

	st, err := store.Open(context.Background(), db)
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	rows, err := st.ProgrammesByChannels(context.Background(), []string{"42.api-tel.programme-tv.net"})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Le Journal", rows[0].MainTitle)
}

func TestNegativeOffsetRejected(t *testing.T) {
	fakeAPI(t)
	res := invoke("", "--offset", "-1", "--config-file", filepath.Join(t.TempDir(), "x.conf"))
	assert.Equal(t, 2, res.code)
}

func TestNewCacheSelectsBackend(t *testing.T) {
	mr := miniredis.RunT(t)
	a := &app{cfg: config.Defaults()}
	ctx := context.Background()

	c, err := newCache(ctx, a)
	require.NoError(t, err)
	assert.IsType(t, &cache.MemoryCache{}, c)
	require.NoError(t, c.Close())

	a.cfg.Cache.Type = config.CacheNone
	c, err = newCache(ctx, a)
	require.NoError(t, err)
	assert.IsType(t, cache.NoOpCache{}, c)

	a.cfg.Cache = config.CacheConfig{Type: config.CacheBadger, Path: t.TempDir()}
	c, err = newCache(ctx, a)
	require.NoError(t, err)
	assert.IsType(t, &cache.BadgerCache{}, c)
	require.NoError(t, c.Close())

	a.cfg.Cache = config.CacheConfig{Type: config.CacheRedis, RedisAddr: mr.Addr()}
	c, err = newCache(ctx, a)
	require.NoError(t, err)
	assert.IsType(t, &cache.RedisCache{}, c)
	require.NoError(t, c.Close())
}
