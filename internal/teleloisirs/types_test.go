// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package teleloisirs

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScalarAcceptsStringsAndNumbers(t *testing.T) {
	tests := []struct {
		in   string
		want Scalar
	}{
		{`42`, "42"},
		{`"42"`, "42"},
		{`"  16 "`, "16"},
		{`0`, ""},
		{`null`, ""},
		{`""`, ""},
	}
	for _, tt := range tests {
		var s Scalar
		require.NoError(t, json.Unmarshal([]byte(tt.in), &s), tt.in)
		assert.Equal(t, tt.want, s, tt.in)
	}

	var s Scalar
	assert.Error(t, json.Unmarshal([]byte(`true`), &s))
	assert.Error(t, json.Unmarshal([]byte(`{"a":1}`), &s))
}

func TestParseTimeLayouts(t *testing.T) {
	want := time.Date(2024, 3, 2, 20, 45, 0, 0, time.FixedZone("", 3600))

	got, err := ParseTime("2024-03-02T20:45:00+0100")
	require.NoError(t, err)
	assert.True(t, want.Equal(got))

	got, err = ParseTime("2024-03-02T20:45:00+01:00")
	require.NoError(t, err)
	assert.True(t, want.Equal(got))

	_, err = ParseTime("")
	assert.Error(t, err)
	_, err = ParseTime("yesterday")
	assert.Error(t, err)
}

func TestFormatTime(t *testing.T) {
	ts := time.Date(2024, 3, 2, 0, 0, 0, 0, time.FixedZone("", 3600))
	assert.Equal(t, "2024-03-02T00:00:00+0100", FormatTime(ts))
}

func TestBroadcastRefs(t *testing.T) {
	var b Broadcast
	require.NoError(t, json.Unmarshal([]byte(`{"id":7,"channel":{"id":42},"program":{"id":"p-1"},"CSAAgeRestriction":12}`), &b))
	assert.Equal(t, "42", b.ChannelID())
	assert.Equal(t, "p-1", b.ProgramID())
	assert.Equal(t, Scalar("12"), b.CSAAgeRestriction)

	assert.Empty(t, Broadcast{}.ChannelID())
	assert.Empty(t, Broadcast{}.ProgramID())
}

func TestImageSourceURL(t *testing.T) {
	w, h := 640, 360
	img := &Image{URLTemplate: "https://img.example/{transformation}/{width}x{height}/{parameters}/{title}.jpg", Width: &w, Height: &h}
	assert.Equal(t, "https://img.example/fit/640x360/_/image.jpg", img.SourceURL())

	assert.Empty(t, (&Image{URLTemplate: img.URLTemplate, Width: &w}).SourceURL())
	assert.Empty(t, (&Image{Width: &w, Height: &h}).SourceURL())
	var none *Image
	assert.Empty(t, none.SourceURL())
}
