// SPDX-License-Identifier: MIT

package epg

import (
	"strconv"

	"github.com/ManuGH/tlgrab/internal/channels"
)

// Header carries the root attributes.
type Header struct {
	SourceDataURL string
	GeneratorName string
	GeneratorURL  string
}

// ChannelLookup resolves internal channel ids.
type ChannelLookup interface {
	Get(internalID string) (channels.Channel, bool)
}

// Builder assembles a document from programmes in fetch order. Channels are
// emitted in order of first reference by an added programme.
type Builder struct {
	header     Header
	lookup     ChannelLookup
	seen       map[string]struct{}
	channels   []Channel
	programmes []Programme
}

// NewBuilder returns an empty builder.
func NewBuilder(h Header, lookup ChannelLookup) *Builder {
	return &Builder{header: h, lookup: lookup, seen: make(map[string]struct{})}
}

// Add appends p. Nil programmes are ignored.
func (b *Builder) Add(p *Programme) {
	if p == nil {
		return
	}
	if _, ok := b.seen[p.Channel]; !ok {
		b.seen[p.Channel] = struct{}{}
		if ch, ok := b.lookup.Get(p.Channel); ok {
			b.channels = append(b.channels, ChannelElement(ch))
		}
	}
	b.programmes = append(b.programmes, *p)
}

// Len returns the number of programmes added so far.
func (b *Builder) Len() int { return len(b.programmes) }

// TV returns the assembled document.
func (b *Builder) TV() *TV {
	return &TV{
		SourceInfoName: SourceName,
		SourceInfoURL:  SourceURL,
		SourceDataURL:  b.header.SourceDataURL,
		GeneratorName:  b.header.GeneratorName,
		GeneratorURL:   b.header.GeneratorURL,
		Channels:       b.channels,
		Programmes:     b.programmes,
	}
}

// ChannelElement converts a registry channel.
func ChannelElement(ch channels.Channel) Channel {
	out := Channel{ID: ch.ID}
	if name := clean(ch.Name); name != "" {
		out.DisplayName = []Text{{Value: name}}
	}
	if ch.Icon != nil && ch.Icon.Src != "" {
		out.Icons = []Icon{{
			Src:    ch.Icon.Src,
			Width:  strconv.Itoa(ch.Icon.Width),
			Height: strconv.Itoa(ch.Icon.Height),
		}}
	}
	if ch.URL != "" {
		out.URLs = []string{ch.URL}
	}
	return out
}
