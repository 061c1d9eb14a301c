// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package teleloisirs

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"time"

	xglog "github.com/ManuGH/tlgrab/internal/log"
)

const (
	channelsPath   = "v2/channels.json"
	broadcastsPath = "v2/broadcasts.json"
	programPath    = "v2/programs/%s.json"
)

// BroadcastProjection lists the broadcast fields requested from the API.
var BroadcastProjection = []string{
	"id",
	"startedAt",
	"soundFormat",
	"isMultiLanguage",
	"isVOST",
	"aspectRatio",
	"hasDeafSubtitles",
	"CSAAgeRestriction",
	"isHD",
	"isNew",
	"isRebroadcast",
	"channel{id}",
	"program{id}",
	"endedAt",
}

// ProgramProjection lists the program fields requested from the API.
var ProgramProjection = []string{
	"collectionItemPartIndex",
	"collectionItemTitle",
	"collectionItemIndex",
	"collectionItemPartCount",
	"title",
	"duration",
	"country",
	"releasedYear",
	"originalTitle",
	"isSilent",
	"isInColor",
	"rating",
	"collection{itemIndex,childCount,parentCollection{childCount}}",
	"formatGenre{format{title},genre{name}}",
	"image{height,urlTemplate,width}",
	"programProviderPeople{role,person{fullname},position}",
	"synopsis",
	"review",
	"_links{url}",
}

// Channels returns the full channel catalog. Records that fail to decode are
// skipped with a warning.
func (c *Client) Channels(ctx context.Context) ([]ChannelRecord, error) {
	items, err := c.pages.All(ctx, channelsPath, url.Values{"limit": {"auto"}})
	if err != nil {
		return nil, err
	}
	logger := xglog.WithComponentFromContext(ctx, "teleloisirs")
	out := make([]ChannelRecord, 0, len(items))
	for _, raw := range items {
		var rec ChannelRecord
		if err := json.Unmarshal(raw, &rec); err != nil {
			logger.Warn().Err(err).Str(xglog.FieldEvent, "channels.decode_failed").Msg("skipping undecodable channel record")
			continue
		}
		out = append(out, rec)
	}
	return out, nil
}

// Broadcasts walks every broadcast of the given vendor channels in
// [since, until) and calls fn once per decoded record, in page order.
func (c *Client) Broadcasts(ctx context.Context, vendorIDs []string, since, until time.Time, fn func(Broadcast)) (int, error) {
	params := url.Values{
		"channels":   {strings.Join(vendorIDs, ",")},
		"limit":      {"auto"},
		"projection": {strings.Join(BroadcastProjection, ",")},
		"since":      {FormatTime(since)},
		"until":      {FormatTime(until)},
	}
	logger := xglog.WithComponentFromContext(ctx, "teleloisirs")
	return c.pages.Walk(ctx, broadcastsPath, params, func(items []json.RawMessage) error {
		for _, raw := range items {
			var b Broadcast
			if err := json.Unmarshal(raw, &b); err != nil {
				logger.Warn().Err(err).Str(xglog.FieldEvent, "broadcasts.decode_failed").Msg("skipping undecodable broadcast record")
				continue
			}
			fn(b)
		}
		return nil
	})
}

// Program fetches the detail record of one program. An envelope without an
// item yields the empty Program.
func (c *Client) Program(ctx context.Context, id string) (Program, error) {
	path := fmt.Sprintf(programPath, url.PathEscape(id))
	env, err := c.Query(ctx, path, url.Values{"projection": {strings.Join(ProgramProjection, ",")}})
	if err != nil {
		return Program{}, err
	}
	var p Program
	if env.Data == nil || len(env.Data.Item) == 0 || string(env.Data.Item) == "null" {
		return p, nil
	}
	if err := json.Unmarshal(env.Data.Item, &p); err != nil {
		return Program{}, &APIError{Sentinel: ErrDecode, Op: "GET " + path, Err: err}
	}
	return p, nil
}
