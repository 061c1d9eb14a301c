// SPDX-License-Identifier: MIT

// Package store loads generated guides into a relational database and
// serves channel queries from it.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/ManuGH/tlgrab/internal/epg"
	xglog "github.com/ManuGH/tlgrab/internal/log"
	"github.com/ManuGH/tlgrab/internal/metrics"
	"github.com/ManuGH/tlgrab/internal/persistence/sqlite"
)

// TitlePlaceholder stands in for single quotes in channel names and main
// titles. Consumers of the table substitute it back.
const TitlePlaceholder = "%REPLACEFORCOLON%"

const schema = `
CREATE TABLE IF NOT EXISTS channels (
	cid      TEXT NOT NULL PRIMARY KEY,
	logo_src TEXT,
	name     TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS programmes (
	pid            INTEGER PRIMARY KEY,
	cid            TEXT REFERENCES channels(cid),
	main_title     TEXT,
	original_title TEXT,
	subtitle       TEXT,
	country        TEXT,
	category       TEXT,
	subcategory    TEXT,
	description    TEXT,
	year_date      TEXT,
	image          TEXT,
	start_time     TEXT,
	finish_time    TEXT
);
CREATE INDEX IF NOT EXISTS programmes_cid ON programmes(cid);
`

// ErrClosed is returned by operations on a closed store.
var ErrClosed = errors.New("store closed")

// Store is a SQLite-backed guide database.
type Store struct {
	db *sql.DB
}

// Open opens or creates the database at path and applies the schema.
func Open(ctx context.Context, path string) (*Store, error) {
	db, err := sqlite.Open(ctx, path, sqlite.DefaultConfig())
	if err != nil {
		return nil, err
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close releases the pool.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

// Ping checks that the database answers and passes a quick integrity check.
func (s *Store) Ping(ctx context.Context) error {
	if s == nil || s.db == nil {
		return ErrClosed
	}
	issues, err := sqlite.VerifyIntegrity(ctx, s.db, false)
	if err != nil {
		return err
	}
	if len(issues) > 0 {
		return fmt.Errorf("sqlite integrity: %s", strings.Join(issues, "; "))
	}
	return nil
}

// LoadStats counts the rows written by Load.
type LoadStats struct {
	Channels   int
	Programmes int
}

// Load replaces the database content with tv in one transaction. Programmes
// are numbered from 0 in channel order, then document order.
func (s *Store) Load(ctx context.Context, tv *epg.TV) (LoadStats, error) {
	if s == nil || s.db == nil {
		return LoadStats{}, ErrClosed
	}
	logger := xglog.WithComponentFromContext(ctx, "store")

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return LoadStats{}, fmt.Errorf("begin load: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, stmt := range []string{"DELETE FROM programmes;", "DELETE FROM channels;"} {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return LoadStats{}, fmt.Errorf("truncate: %w", err)
		}
	}

	insertChannel, err := tx.PrepareContext(ctx, `INSERT INTO channels (cid, logo_src, name) VALUES (?, ?, ?)`)
	if err != nil {
		return LoadStats{}, fmt.Errorf("prepare channel insert: %w", err)
	}
	defer func() { _ = insertChannel.Close() }()

	insertProgramme, err := tx.PrepareContext(ctx, `INSERT INTO programmes
		(pid, cid, main_title, original_title, subtitle, country, category, subcategory, description, year_date, image, start_time, finish_time)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return LoadStats{}, fmt.Errorf("prepare programme insert: %w", err)
	}
	defer func() { _ = insertProgramme.Close() }()

	var stats LoadStats
	for _, ch := range epg.Summarize(tv) {
		if _, err := insertChannel.ExecContext(ctx, ch.ID, nullable(ch.LogoSrc), escapeTitle(ch.Name)); err != nil {
			return LoadStats{}, fmt.Errorf("insert channel %s: %w", ch.ID, err)
		}
		stats.Channels++

		for _, p := range ch.Programmes {
			_, err := insertProgramme.ExecContext(ctx,
				stats.Programmes,
				p.ChannelID,
				escapeTitle(p.MainTitle),
				escapeText(p.OriginalTitle),
				escapeText(p.Subtitle),
				escapeText(p.Country),
				escapeText(p.Category),
				escapeText(p.SubCategory),
				escapeText(p.Description),
				escapeText(p.YearDate),
				escapeText(p.Image),
				escapeText(p.StartTime),
				escapeText(p.FinishTime),
			)
			if err != nil {
				return LoadStats{}, fmt.Errorf("insert programme %d: %w", stats.Programmes, err)
			}
			stats.Programmes++
		}
	}

	if err := tx.Commit(); err != nil {
		return LoadStats{}, fmt.Errorf("commit load: %w", err)
	}
	metrics.SetStoreRows(stats.Programmes)
	logger.Info().
		Str(xglog.FieldEvent, "store.load").
		Int("channels", stats.Channels).
		Int("programmes", stats.Programmes).
		Msg("guide loaded into database")
	return stats, nil
}

// escapeTitle swaps single quotes for TitlePlaceholder.
func escapeTitle(s string) string {
	return strings.ReplaceAll(s, "'", TitlePlaceholder)
}

// escapeText replaces single quotes with spaces. Empty values become NULL.
func escapeText(s string) any {
	return nullable(strings.ReplaceAll(s, "'", " "))
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
