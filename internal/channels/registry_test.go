// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package channels

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ManuGH/tlgrab/internal/teleloisirs"
)

type staticSource struct {
	records []teleloisirs.ChannelRecord
	err     error
}

func (s staticSource) Channels(context.Context) ([]teleloisirs.ChannelRecord, error) {
	return s.records, s.err
}

func decodeRecords(t *testing.T, raw string) []teleloisirs.ChannelRecord {
	t.Helper()
	var recs []teleloisirs.ChannelRecord
	require.NoError(t, json.Unmarshal([]byte(raw), &recs))
	return recs
}

func TestBuildSkipsIncompleteRecords(t *testing.T) {
	recs := decodeRecords(t, `[
		{"id":42,"title":"France 2","_links":{"url":"https://example.org/f2"},
		 "image":{"urlTemplate":"https://img/{transformation}/{width}x{height}/{parameters}/{title}.png","width":100,"height":50}},
		{"id":0,"title":"No id"},
		{"id":7,"title":"  "},
		{"title":"Missing id"},
		{"id":"160","title":"TF1"}
	]`)

	reg, err := Build(context.Background(), staticSource{records: recs})
	require.NoError(t, err)
	require.Equal(t, 2, reg.Len())

	all := reg.All()
	assert.Equal(t, "42.api-tel.programme-tv.net", all[0].ID)
	assert.Equal(t, "160.api-tel.programme-tv.net", all[1].ID)

	f2, ok := reg.Get("42.api-tel.programme-tv.net")
	require.True(t, ok)
	assert.Equal(t, "France 2", f2.Name)
	assert.Equal(t, "https://example.org/f2", f2.URL)
	require.NotNil(t, f2.Icon)
	assert.Equal(t, Icon{Src: "https://img/fit/100x50/_/image.png", Width: 100, Height: 50}, *f2.Icon)

	tf1, _ := reg.Get("160.api-tel.programme-tv.net")
	assert.Nil(t, tf1.Icon)
	assert.Empty(t, tf1.URL)
}

func TestResolveRoundTrip(t *testing.T) {
	recs := decodeRecords(t, `[{"id":1,"title":"A"},{"id":22,"title":"B"},{"id":"333","title":"C"}]`)
	reg, err := Build(context.Background(), staticSource{records: recs})
	require.NoError(t, err)

	for _, rec := range recs {
		vendor, ok := reg.Resolve(InternalID(rec.ID.String()))
		require.True(t, ok)
		assert.Equal(t, rec.ID.String(), vendor)
	}
	for _, ch := range reg.All() {
		vendor, ok := reg.Resolve(ch.ID)
		require.True(t, ok)
		assert.Equal(t, ch.ID, InternalID(vendor))
	}

	_, ok := reg.Resolve("999.api-tel.programme-tv.net")
	assert.False(t, ok)
}

func TestListAvailable(t *testing.T) {
	reg := New(
		Channel{ID: InternalID("1"), VendorID: "1", Name: "One"},
		Channel{ID: InternalID("2"), VendorID: "2", Name: "Two"},
		Channel{ID: InternalID("1"), VendorID: "1", Name: "Uno"},
	)
	assert.Equal(t, map[string]string{
		"1.api-tel.programme-tv.net": "Uno",
		"2.api-tel.programme-tv.net": "Two",
	}, reg.ListAvailable())
	assert.Equal(t, []string{"Uno", "Two"}, []string{reg.All()[0].Name, reg.All()[1].Name})
	assert.True(t, reg.Has(InternalID("2")))
}

func TestBuildPropagatesSourceError(t *testing.T) {
	boom := errors.New("boom")
	_, err := Build(context.Background(), staticSource{err: boom})
	assert.ErrorIs(t, err, boom)
}
