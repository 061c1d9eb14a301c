// SPDX-License-Identifier: MIT

package jobs

import (
	"context"
	"fmt"

	xglog "github.com/ManuGH/tlgrab/internal/log"
	"github.com/ManuGH/tlgrab/internal/teleloisirs"
)

// BroadcastSet is keyed by broadcast id. A repeated id replaces the stored
// payload but keeps its original position.
type BroadcastSet struct {
	order []string
	byID  map[string]teleloisirs.Broadcast
	// Pages is the number of upstream pages merged into the set.
	Pages int
}

// NewBroadcastSet returns an empty set.
func NewBroadcastSet() *BroadcastSet {
	return &BroadcastSet{byID: make(map[string]teleloisirs.Broadcast)}
}

// Put stores b. Broadcasts without an id are rejected.
func (s *BroadcastSet) Put(b teleloisirs.Broadcast) bool {
	id := b.ID.String()
	if id == "" {
		return false
	}
	if _, ok := s.byID[id]; !ok {
		s.order = append(s.order, id)
	}
	s.byID[id] = b
	return true
}

// Get returns the broadcast stored under id.
func (s *BroadcastSet) Get(id string) (teleloisirs.Broadcast, bool) {
	b, ok := s.byID[id]
	return b, ok
}

// Len returns the number of distinct broadcasts.
func (s *BroadcastSet) Len() int { return len(s.order) }

// Values returns the broadcasts in first-seen order.
func (s *BroadcastSet) Values() []teleloisirs.Broadcast {
	out := make([]teleloisirs.Broadcast, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.byID[id])
	}
	return out
}

// FetchWindow retrieves every broadcast of the given internal channels in w.
// Channel ids the resolver does not know are dropped.
func FetchWindow(ctx context.Context, api BroadcastLister, reg Resolver, channelIDs []string, w Window) (*BroadcastSet, error) {
	logger := xglog.WithComponentFromContext(ctx, "jobs")

	vendorIDs := make([]string, 0, len(channelIDs))
	for _, id := range channelIDs {
		vendor, ok := reg.Resolve(id)
		if !ok {
			logger.Debug().Str(xglog.FieldChannelID, id).Msg("channel not in registry, ignoring")
			continue
		}
		vendorIDs = append(vendorIDs, vendor)
	}

	set := NewBroadcastSet()
	if len(vendorIDs) == 0 {
		logger.Warn().Str(xglog.FieldEvent, "fetch.no_channels").Msg("no configured channel is available upstream")
		return set, nil
	}

	rejected := 0
	pages, err := api.Broadcasts(ctx, vendorIDs, w.Start, w.End, func(b teleloisirs.Broadcast) {
		if !set.Put(b) {
			rejected++
		}
	})
	if err != nil {
		return nil, fmt.Errorf("fetch broadcasts: %w", err)
	}
	set.Pages = pages

	logger.Debug().
		Str(xglog.FieldEvent, "fetch.complete").
		Int("channels", len(vendorIDs)).
		Int(xglog.FieldPages, pages).
		Int("broadcasts", set.Len()).
		Int("without_id", rejected).
		Msg("broadcast window fetched")
	return set, nil
}
