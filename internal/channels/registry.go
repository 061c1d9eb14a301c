// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

// Package channels holds the per-run channel catalog.
package channels

import (
	"context"
	"fmt"
	"strings"

	xglog "github.com/ManuGH/tlgrab/internal/log"
	"github.com/ManuGH/tlgrab/internal/teleloisirs"
)

// IDSuffix qualifies vendor ids into XMLTV channel ids.
const IDSuffix = "api-tel.programme-tv.net"

// InternalID derives the stable XMLTV id of a vendor channel.
func InternalID(vendorID string) string {
	return fmt.Sprintf("%s.%s", vendorID, IDSuffix)
}

// Icon is a channel logo.
type Icon struct {
	Src    string
	Width  int
	Height int
}

// Channel is one catalog entry.
type Channel struct {
	ID       string
	VendorID string
	Name     string
	Icon     *Icon
	URL      string
}

// Source lists the vendor channel catalog.
type Source interface {
	Channels(ctx context.Context) ([]teleloisirs.ChannelRecord, error)
}

// Registry maps internal ids to channels. It is immutable after Build.
type Registry struct {
	order []string
	byID  map[string]Channel
}

// Build fetches the whole catalog from src. Records without an id or a
// display name are skipped.
func Build(ctx context.Context, src Source) (*Registry, error) {
	records, err := src.Channels(ctx)
	if err != nil {
		return nil, fmt.Errorf("build channel registry: %w", err)
	}
	logger := xglog.WithComponentFromContext(ctx, "channels")

	r := &Registry{byID: make(map[string]Channel, len(records))}
	skipped := 0
	for _, rec := range records {
		name := strings.TrimSpace(rec.Title)
		if !rec.ID.Present() || name == "" {
			skipped++
			continue
		}
		ch := Channel{
			ID:       InternalID(rec.ID.String()),
			VendorID: rec.ID.String(),
			Name:     name,
		}
		if src := rec.Image.SourceURL(); src != "" {
			ch.Icon = &Icon{Src: src, Width: *rec.Image.Width, Height: *rec.Image.Height}
		}
		if rec.Links != nil {
			ch.URL = strings.TrimSpace(rec.Links.URL)
		}
		r.put(ch)
	}

	logger.Debug().
		Str(xglog.FieldEvent, "channels.built").
		Int("channels", len(r.order)).
		Int("skipped", skipped).
		Msg("channel registry built")
	return r, nil
}

// New builds a registry from already known channels. Later duplicates replace
// earlier ones in place.
func New(chs ...Channel) *Registry {
	r := &Registry{byID: make(map[string]Channel, len(chs))}
	for _, ch := range chs {
		r.put(ch)
	}
	return r
}

func (r *Registry) put(ch Channel) {
	if _, ok := r.byID[ch.ID]; !ok {
		r.order = append(r.order, ch.ID)
	}
	r.byID[ch.ID] = ch
}

// Resolve returns the vendor id of an internal channel id.
func (r *Registry) Resolve(internalID string) (string, bool) {
	ch, ok := r.byID[internalID]
	if !ok {
		return "", false
	}
	return ch.VendorID, true
}

// Get returns the channel with the given internal id.
func (r *Registry) Get(internalID string) (Channel, bool) {
	ch, ok := r.byID[internalID]
	return ch, ok
}

// Has reports whether internalID is in the catalog.
func (r *Registry) Has(internalID string) bool {
	_, ok := r.byID[internalID]
	return ok
}

// ListAvailable maps internal ids to display names.
func (r *Registry) ListAvailable() map[string]string {
	out := make(map[string]string, len(r.byID))
	for id, ch := range r.byID {
		out[id] = ch.Name
	}
	return out
}

// All returns the channels in catalog order.
func (r *Registry) All() []Channel {
	out := make([]Channel, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.byID[id])
	}
	return out
}

// Len returns the catalog size.
func (r *Registry) Len() int { return len(r.order) }
