// SPDX-License-Identifier: MIT

package jobs

import (
	"context"
	"time"

	"github.com/ManuGH/tlgrab/internal/channels"
	"github.com/ManuGH/tlgrab/internal/teleloisirs"
)

// BroadcastLister walks the broadcasts of a time window.
type BroadcastLister interface {
	Broadcasts(ctx context.Context, vendorIDs []string, since, until time.Time, fn func(teleloisirs.Broadcast)) (int, error)
}

// ProgramFetcher retrieves one program detail record.
type ProgramFetcher interface {
	Program(ctx context.Context, id string) (teleloisirs.Program, error)
}

// API is everything a grab needs from the upstream client.
type API interface {
	channels.Source
	BroadcastLister
	ProgramFetcher
	BaseURL() string
}

// Resolver maps internal channel ids to vendor ids.
type Resolver interface {
	Resolve(internalID string) (string, bool)
}

// Window is the half-open interval [Start, End).
type Window struct {
	Start time.Time
	End   time.Time
}

// DayWindow starts at local midnight of now plus offset days and spans days.
func DayWindow(now time.Time, days, offset int) Window {
	y, m, d := now.Date()
	start := time.Date(y, m, d, 0, 0, 0, 0, now.Location()).AddDate(0, 0, offset)
	return Window{Start: start, End: start.AddDate(0, 0, days)}
}

// Stats summarises one grab.
type Stats struct {
	Channels       int
	Pages          int
	Broadcasts     int
	Unusable       int
	EnrichFailures int
	Dropped        int
	Programmes     int
	Duration       time.Duration
}
