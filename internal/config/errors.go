// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package config

import "errors"

var (
	// ErrUnknownConfigField classifies strict YAML parse failures caused by unknown keys.
	ErrUnknownConfigField = errors.New("unknown config field")

	// ErrNotConfigured means the channel-selection file does not exist.
	ErrNotConfigured = errors.New("grabber not configured")

	// ErrEmptySelection means the selection file names no available channel.
	ErrEmptySelection = errors.New("empty or malformed channel selection")
)
