// SPDX-License-Identifier: MIT

package validate

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidatorCollectsEveryFailure(t *testing.T) {
	v := New()
	v.URL("api.baseURL", "ftp://example.com", []string{"http", "https"})
	v.Min("grab.days", 0, 1)
	v.OneOf("cache.type", "disk", []string{"memory", "redis", "none"})
	v.ListenAddr("server.listen", "8080")
	v.NonNegativeDuration("server.cacheTTL", -time.Second)

	require.False(t, v.IsValid())
	err := v.Err()
	require.Error(t, err)

	var verr ValidationError
	require.True(t, errors.As(err, &verr))
	fields := make([]string, 0, len(verr.Errors()))
	for _, e := range verr.Errors() {
		fields = append(fields, e.Field)
	}
	assert.Equal(t, []string{"api.baseURL", "grab.days", "cache.type", "server.listen", "server.cacheTTL"}, fields)
	assert.Contains(t, err.Error(), "validation failed for grab.days: must be at least 1, got 0")
}

func TestValidatorAcceptsValidValues(t *testing.T) {
	v := New()
	v.URL("u", "https://api-tel.programme-tv.net", []string{"https"})
	v.Min("m", 1, 1)
	v.Range("r", 5, 1, 10)
	v.FloatRange("f", 0.5, 0, 1)
	v.OneOf("o", "redis", []string{"memory", "redis"})
	v.NotEmpty("n", "x")
	v.ListenAddr("l", ":8080")
	v.NonNegativeDuration("d", 0)

	assert.True(t, v.IsValid())
	assert.NoError(t, v.Err())
}

func TestURLRequiresHost(t *testing.T) {
	v := New()
	v.URL("u", "https://", nil)
	v.URL("empty", "", nil)
	require.Len(t, v.Errors(), 2)
	assert.Equal(t, "URL must have a host", v.Errors()[0].Message)
}
