// SPDX-License-Identifier: MIT

package health

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockChecker struct {
	name   string
	status Status
}

func (m *mockChecker) Name() string { return m.name }
func (m *mockChecker) Check(context.Context) CheckResult {
	return CheckResult{Status: m.status}
}

func TestHealthVerboseAggregates(t *testing.T) {
	m := NewManager("v1.0.0")
	m.RegisterChecker(&mockChecker{name: "healthy", status: StatusHealthy})
	m.RegisterChecker(&mockChecker{name: "degraded", status: StatusDegraded})

	resp := m.Health(context.Background(), false)
	assert.Equal(t, StatusHealthy, resp.Status)
	assert.Nil(t, resp.Checks)
	assert.Equal(t, "v1.0.0", resp.Version)

	resp = m.Health(context.Background(), true)
	assert.Equal(t, StatusDegraded, resp.Status)
	assert.Len(t, resp.Checks, 2)
}

func TestReadyFailsOnUnhealthy(t *testing.T) {
	m := NewManager("v1")
	m.RegisterChecker(&mockChecker{name: "degraded", status: StatusDegraded})
	assert.True(t, m.Ready(context.Background()).Ready)

	m.RegisterChecker(&mockChecker{name: "down", status: StatusUnhealthy})
	resp := m.Ready(context.Background())
	assert.False(t, resp.Ready)
	assert.Equal(t, StatusUnhealthy, resp.Status)
}

func TestServeReadyStatusCodes(t *testing.T) {
	m := NewManager("v1")
	m.RegisterChecker(NewFuncChecker("store", 0, func(context.Context) error { return errors.New("closed") }))

	rec := httptest.NewRecorder()
	m.ServeReady(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	var body ReadinessResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, "closed", body.Checks["store"].Error)

	rec = httptest.NewRecorder()
	m.ServeHealth(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestXMLTVChecker(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "guide.xml")
	c := NewXMLTVChecker(path)

	assert.Equal(t, StatusUnhealthy, c.Check(context.Background()).Status)

	require.NoError(t, os.WriteFile(path, []byte("<tv"), 0o600))
	assert.Equal(t, StatusUnhealthy, c.Check(context.Background()).Status)

	require.NoError(t, os.WriteFile(path, []byte(`<?xml version="1.0" encoding="UTF-8"?>
<tv><channel id="42.api-tel.programme-tv.net"><display-name>France 2</display-name></channel></tv>`), 0o600))
	assert.Equal(t, StatusDegraded, c.Check(context.Background()).Status)

	require.NoError(t, os.WriteFile(path, []byte(`<?xml version="1.0" encoding="UTF-8"?>
<tv><channel id="42.api-tel.programme-tv.net"><display-name>France 2</display-name></channel>
<programme start="20240302200000 +0100" stop="20240302203000 +0100" channel="42.api-tel.programme-tv.net"><title>Le Journal</title></programme></tv>`), 0o600))
	res := c.Check(context.Background())
	assert.Equal(t, StatusHealthy, res.Status)
	assert.Equal(t, "1 channels, 1 programmes", res.Message)
}
