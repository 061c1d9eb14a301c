// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package teleloisirs

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
)

// Querier performs a single API request.
type Querier interface {
	Query(ctx context.Context, path string, params url.Values) (*Envelope, error)
}

// Paginator follows the "next" cursor embedded in list envelopes.
//
// The server is trusted to eventually stop returning a cursor; maxPages bounds
// the walk anyway and yields ErrTooManyPages when exceeded.
type Paginator struct {
	q        Querier
	maxPages int
}

// NewPaginator wraps q. A non-positive maxPages selects the default cap.
func NewPaginator(q Querier, maxPages int) *Paginator {
	if maxPages <= 0 {
		maxPages = defaultMaxPages
	}
	return &Paginator{q: q, maxPages: maxPages}
}

// Walk queries path and every page reachable through "next", calling fn with
// each page's items in page order. It returns the number of pages fetched.
func (p *Paginator) Walk(ctx context.Context, path string, params url.Values, fn func(items []json.RawMessage) error) (int, error) {
	pages := 0
	for {
		if pages >= p.maxPages {
			return pages, &APIError{
				Sentinel: ErrTooManyPages,
				Op:       "GET " + path,
				Err:      fmt.Errorf("more than %d pages", p.maxPages),
			}
		}
		env, err := p.q.Query(ctx, path, params)
		if err != nil {
			return pages, err
		}
		pages++

		var data Data
		if env.Data != nil {
			data = *env.Data
		}
		if err := fn(data.Items); err != nil {
			return pages, err
		}

		if data.Next == "" {
			return pages, nil
		}
		next, err := url.Parse(data.Next)
		if err != nil {
			return pages, &APIError{Sentinel: ErrDecode, Op: "GET " + path, Err: fmt.Errorf("invalid next cursor %q: %w", data.Next, err)}
		}
		// Only the cursor's path and query are used; the host is always the client's.
		path = next.Path
		params = next.Query()
	}
}

// All merges the items of every page into one slice, in page order.
func (p *Paginator) All(ctx context.Context, path string, params url.Values) ([]json.RawMessage, error) {
	var merged []json.RawMessage
	_, err := p.Walk(ctx, path, params, func(items []json.RawMessage) error {
		merged = append(merged, items...)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return merged, nil
}
