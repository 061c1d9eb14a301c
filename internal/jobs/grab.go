// SPDX-License-Identifier: MIT

package jobs

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/ManuGH/tlgrab/internal/channels"
	"github.com/ManuGH/tlgrab/internal/epg"
	xglog "github.com/ManuGH/tlgrab/internal/log"
	"github.com/ManuGH/tlgrab/internal/metrics"
	"github.com/ManuGH/tlgrab/internal/telemetry"
	"github.com/ManuGH/tlgrab/internal/teleloisirs"
)

// Options configures a grab.
type Options struct {
	// ChannelIDs are internal channel ids.
	ChannelIDs []string
	Days       int
	Offset     int
	Workers    int

	GeneratorName string
	GeneratorURL  string

	// Tables overrides the credit and category tables when non-nil.
	Tables *epg.Tables
	// Now defaults to time.Now.
	Now func() time.Time
}

// Result is the outcome of a successful grab.
type Result struct {
	TV    *epg.TV
	Stats Stats
}

// Grab fetches, enriches and transforms the selected channels' broadcasts
// into an XMLTV document. Only channel listing and broadcast listing failures
// abort the run; per-broadcast problems are logged and skipped.
func Grab(ctx context.Context, api API, reg *channels.Registry, opts Options) (*Result, error) {
	logger := xglog.WithComponentFromContext(ctx, "jobs")
	now := time.Now
	if opts.Now != nil {
		now = opts.Now
	}
	start := now()

	tracer := telemetry.Tracer("tlgrab.jobs")
	ctx, span := tracer.Start(ctx, "grab.run")
	defer span.End()
	span.SetAttributes(telemetry.GrabAttributes(opts.Days, opts.Offset, len(opts.ChannelIDs), opts.Workers)...)

	logger.Info().
		Str(xglog.FieldEvent, "grab.start").
		Int("days", opts.Days).
		Int("offset", opts.Offset).
		Int("channels", len(opts.ChannelIDs)).
		Msg("starting grab")

	window := DayWindow(start, opts.Days, opts.Offset)
	set, err := FetchWindow(ctx, api, reg, opts.ChannelIDs, window)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "broadcasts")
		metrics.RecordGrabFailure("broadcasts")
		return nil, err
	}

	stats := Stats{Pages: set.Pages, Broadcasts: set.Len()}
	usable := make([]teleloisirs.Broadcast, 0, set.Len())
	for _, b := range set.Values() {
		if epg.Usable(b) {
			usable = append(usable, b)
			continue
		}
		stats.Unusable++
	}
	metrics.AddDropped("unusable", stats.Unusable)

	tables := epg.DefaultTables()
	if opts.Tables != nil {
		tables = *opts.Tables
	}
	mapper := epg.NewMapper(tables)
	builder := epg.NewBuilder(epg.Header{
		SourceDataURL: api.BaseURL(),
		GeneratorName: opts.GeneratorName,
		GeneratorURL:  opts.GeneratorURL,
	}, reg)

	enricher := NewEnricher(api, EnrichOptions{
		Workers: opts.Workers,
		OnFailure: func(teleloisirs.Broadcast, error) {
			stats.EnrichFailures++
			metrics.IncEnrichFailure()
		},
	})
	for b, p := range enricher.Enrich(ctx, usable) {
		entry := mapper.ToEntry(ctx, b, p)
		if entry == nil {
			stats.Dropped++
			continue
		}
		builder.Add(entry)
	}
	metrics.AddDropped("untitled", stats.Dropped)

	if err := ctx.Err(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "canceled")
		metrics.RecordGrabFailure("enrich")
		return nil, fmt.Errorf("grab canceled: %w", err)
	}

	tv := builder.TV()
	stats.Channels = len(tv.Channels)
	stats.Programmes = len(tv.Programmes)
	stats.Duration = now().Sub(start)

	span.SetAttributes(
		attribute.Int("grab.broadcasts", stats.Broadcasts),
		attribute.Int("grab.programmes", stats.Programmes),
	)
	metrics.RecordGrabSuccess(stats.Duration, stats.Broadcasts, stats.Channels, stats.Programmes)

	logger.Info().
		Str(xglog.FieldEvent, "grab.success").
		Int(xglog.FieldPages, stats.Pages).
		Int("broadcasts", stats.Broadcasts).
		Int("unusable", stats.Unusable).
		Int("enrich_failures", stats.EnrichFailures).
		Int("dropped", stats.Dropped).
		Int("channels_written", stats.Channels).
		Int("programmes_written", stats.Programmes).
		Dur("duration", stats.Duration).
		Msg("grab completed")

	return &Result{TV: tv, Stats: stats}, nil
}
