// SPDX-License-Identifier: MIT

package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/ManuGH/tlgrab/internal/epg"
	"github.com/ManuGH/tlgrab/internal/metrics"
)

const (
	cacheKeyHome       = "home"
	cacheKeyProgrammes = "programmes:"
)

// handleXMLTV republishes the guide file byte for byte.
func (s *Server) handleXMLTV(w http.ResponseWriter, r *http.Request) {
	f, err := os.Open(filepath.Clean(s.cfg.XMLTVPath)) // #nosec G304 -- operator-supplied path
	if err != nil {
		writeError(w, r, guideError(err))
		return
	}
	defer func() { _ = f.Close() }()

	info, err := f.Stat()
	if err != nil {
		writeError(w, r, err)
		return
	}
	if info.IsDir() {
		writeError(w, r, newHTTPError(http.StatusNotFound, "guide_not_found", "guide path is a directory"))
		return
	}

	w.Header().Set("Content-Type", "application/xml; charset=utf-8")
	w.Header().Set("ETag", fmt.Sprintf(`"%x-%x"`, info.ModTime().UnixNano(), info.Size()))
	http.ServeContent(w, r, filepath.Base(s.cfg.XMLTVPath), info.ModTime(), f)
}

// handleHome serves the flattened channel view of the guide.
func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	s.serveCached(w, r, cacheKeyHome, func(context.Context) ([]byte, error) {
		tv, err := epg.ParseFile(s.cfg.XMLTVPath)
		if err != nil {
			return nil, guideError(err)
		}
		return json.Marshal(epg.Summarize(tv))
	})
}

// handleProgrammes serves store rows for ?cid=a,b.
func (s *Server) handleProgrammes(w http.ResponseWriter, r *http.Request) {
	cids := parseCIDs(r.URL.Query()["cid"])
	if len(cids) == 0 {
		writeError(w, r, newHTTPError(http.StatusBadRequest, "missing_cid", "query parameter cid is required"))
		return
	}
	if s.store == nil {
		writeError(w, r, newHTTPError(http.StatusServiceUnavailable, "store_unavailable", "no store configured"))
		return
	}
	s.serveCached(w, r, cacheKeyProgrammes+strings.Join(cids, ","), func(ctx context.Context) ([]byte, error) {
		rows, err := s.store.ProgrammesByChannels(ctx, cids)
		if err != nil {
			return nil, fmt.Errorf("programmes: %w", err)
		}
		return json.Marshal(rows)
	})
}

// serveCached answers from the cache or from build, storing successful
// bodies for the configured TTL.
func (s *Server) serveCached(w http.ResponseWriter, r *http.Request, key string, build func(context.Context) ([]byte, error)) {
	ctx := r.Context()
	body, hit := s.cache.Get(ctx, key)
	metrics.CacheLookup(hit)
	if !hit {
		var err error
		if body, err = build(ctx); err != nil {
			writeError(w, r, err)
			return
		}
		s.cache.Set(ctx, key, body, s.cfg.CacheTTL)
	}

	w.Header().Set("Content-Type", "application/json")
	if hit {
		w.Header().Set("X-Cache", "HIT")
	} else {
		w.Header().Set("X-Cache", "MISS")
	}
	_, _ = w.Write(body)
}

// parseCIDs splits comma lists, trims, sorts and deduplicates so that
// equivalent queries share a cache key.
func parseCIDs(values []string) []string {
	var out []string
	for _, v := range values {
		for _, cid := range strings.Split(v, ",") {
			if cid = strings.TrimSpace(cid); cid != "" {
				out = append(out, cid)
			}
		}
	}
	slices.Sort(out)
	return slices.Compact(out)
}

func guideError(err error) error {
	if errors.Is(err, fs.ErrNotExist) {
		return newHTTPError(http.StatusNotFound, "guide_not_found", "no guide has been generated yet")
	}
	return fmt.Errorf("read guide: %w", err)
}
