// SPDX-License-Identifier: MIT

package telemetry

import (
	"go.opentelemetry.io/otel/attribute"
)

// Common attribute keys.
const (
	HTTPMethodKey     = "http.method"
	HTTPStatusCodeKey = "http.status_code"
	HTTPRouteKey      = "http.route"
	HTTPURLKey        = "http.url"

	UpstreamPagesKey = "upstream.pages"

	GrabDaysKey       = "grab.days"
	GrabOffsetKey     = "grab.offset"
	GrabChannelsKey   = "grab.channels"
	GrabBroadcastsKey = "grab.broadcasts"
	GrabWorkersKey    = "grab.workers"
)

// HTTPAttributes creates common HTTP span attributes.
func HTTPAttributes(method, route, url string, statusCode int) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String(HTTPMethodKey, method),
		attribute.String(HTTPRouteKey, route),
		attribute.String(HTTPURLKey, url),
		attribute.Int(HTTPStatusCodeKey, statusCode),
	}
}

// GrabAttributes describes one grab run.
func GrabAttributes(days, offset, channels, workers int) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.Int(GrabDaysKey, days),
		attribute.Int(GrabOffsetKey, offset),
		attribute.Int(GrabChannelsKey, channels),
		attribute.Int(GrabWorkersKey, workers),
	}
}
