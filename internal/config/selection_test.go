// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ManuGH/tlgrab/internal/channels"
)

func testChannels() []channels.Channel {
	return []channels.Channel{
		{ID: "42.api-tel.programme-tv.net", VendorID: "42", Name: "France 2"},
		{ID: "7.api-tel.programme-tv.net", VendorID: "7", Name: "Arte"},
		{ID: "9.api-tel.programme-tv.net", VendorID: "9", Name: "M6"},
	}
}

func TestParseSelection(t *testing.T) {
	reg := channels.New(testChannels()...)
	input := strings.Join([]string{
		"# comment line",
		"channel=7.api-tel.programme-tv.net # Arte",
		"  channel = 42.api-tel.programme-tv.net#France 2",
		"channel=1000.api-tel.programme-tv.net # gone",
		"channel=7.api-tel.programme-tv.net",
		"garbage",
		"",
	}, "\n")

	ids, err := ParseSelection(strings.NewReader(input), reg)
	require.NoError(t, err)
	assert.Equal(t, []string{"7.api-tel.programme-tv.net", "42.api-tel.programme-tv.net"}, ids)
}

func TestReadSelectionErrors(t *testing.T) {
	reg := channels.New(testChannels()...)
	dir := t.TempDir()

	_, err := ReadSelection(filepath.Join(dir, "missing.conf"), reg)
	assert.True(t, errors.Is(err, ErrNotConfigured))

	empty := filepath.Join(dir, "empty.conf")
	require.NoError(t, os.WriteFile(empty, []byte("channel=1.api-tel.programme-tv.net\n"), 0o600))
	_, err = ReadSelection(empty, reg)
	assert.True(t, errors.Is(err, ErrEmptySelection))
	assert.Contains(t, err.Error(), empty)
}

func TestWriteSelectionRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", ".xmltv", SelectionFileName)
	chs := testChannels()
	require.NoError(t, WriteSelection(path, chs[:2]))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "channel=42.api-tel.programme-tv.net # France 2\nchannel=7.api-tel.programme-tv.net # Arte\n", string(data))

	ids, err := ReadSelection(path, channels.New(chs...))
	require.NoError(t, err)
	assert.Equal(t, []string{"42.api-tel.programme-tv.net", "7.api-tel.programme-tv.net"}, ids)
}

func TestConfigurePromptsPerChannel(t *testing.T) {
	var out strings.Builder
	selected, err := Configure(strings.NewReader("yes\nmaybe\n\nyes\n"), &out, testChannels())
	require.NoError(t, err)

	names := make([]string, 0, len(selected))
	for _, ch := range selected {
		names = append(names, ch.Name)
	}
	assert.Equal(t, []string{"France 2", "M6"}, names)
	assert.Contains(t, out.String(), "France 2 [yes,no,all,none (default=no)] ")
	assert.Contains(t, out.String(), "invalid response, please choose one of yes,no,all,none")
}

func TestConfigureAllAndNone(t *testing.T) {
	var out strings.Builder
	selected, err := Configure(strings.NewReader("no\nall\n"), &out, testChannels())
	require.NoError(t, err)
	require.Len(t, selected, 2)
	assert.Equal(t, "Arte", selected[0].Name)
	assert.Contains(t, out.String(), "Arte yes\nM6 yes\n")

	out.Reset()
	selected, err = Configure(strings.NewReader("none\n"), &out, testChannels())
	require.NoError(t, err)
	assert.Empty(t, selected)
	assert.Contains(t, out.String(), "France 2 no\nArte no\nM6 no\n")
	assert.Equal(t, 1, strings.Count(out.String(), "(default=no)"))
}

func TestConfigureEndOfInputMeansNo(t *testing.T) {
	var out strings.Builder
	selected, err := Configure(strings.NewReader("yes"), &out, testChannels())
	require.NoError(t, err)
	require.Len(t, selected, 1)
	assert.Equal(t, "France 2", selected[0].Name)
}
