// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package log

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunIDRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		ctx  context.Context
		id   string
	}{
		{name: "nil context", ctx: nil, id: "run-1"},
		{name: "background context", ctx: context.Background(), id: "run-2"},
		{name: "empty id", ctx: context.Background(), id: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := ContextWithRunID(tt.ctx, tt.id)
			assert.Equal(t, tt.id, RunIDFromContext(ctx))
		})
	}
}

func TestNewRunContextGeneratesUUID(t *testing.T) {
	ctx, id := NewRunContext(context.Background())
	_, err := uuid.Parse(id)
	require.NoError(t, err)
	assert.Equal(t, id, RunIDFromContext(ctx))
}

func TestWithComponentFromContextAddsFields(t *testing.T) {
	var buf bytes.Buffer
	Configure(Config{Level: "debug", Output: &buf, Service: "test", Version: "v0"})
	t.Cleanup(func() { Configure(Config{}) })

	ctx := ContextWithRequestID(ContextWithRunID(context.Background(), "run-7"), "req-9")
	logger := WithComponentFromContext(ctx, "jobs")
	logger.Info().Str(FieldEvent, "grab.start").Msg("hello")

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "jobs", rec[FieldComponent])
	assert.Equal(t, "run-7", rec[FieldRunID])
	assert.Equal(t, "req-9", rec[FieldRequestID])
	assert.Equal(t, "grab.start", rec[FieldEvent])
	assert.Equal(t, "test", rec["service"])
	assert.Equal(t, "v0", rec["version"])
}

func TestConfigureLevelFiltersRecords(t *testing.T) {
	var buf bytes.Buffer
	Configure(Config{Level: "error", Output: &buf})
	t.Cleanup(func() { Configure(Config{}) })

	l := WithComponent("quiet")
	l.Warn().Msg("dropped")
	assert.Zero(t, buf.Len())

	l.Error().Msg("kept")
	assert.Contains(t, buf.String(), "kept")
}
