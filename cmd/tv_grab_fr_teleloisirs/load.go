// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package main

import (
	"flag"
	"fmt"
	"io"

	"github.com/ManuGH/tlgrab/internal/epg"
	xglog "github.com/ManuGH/tlgrab/internal/log"
	"github.com/ManuGH/tlgrab/internal/store"
)

func runLoad(args []string, stderr io.Writer) int {
	fs := flag.NewFlagSet(grabberName+" load", flag.ContinueOnError)
	fs.SetOutput(stderr)
	configPath := fs.String("config", "", "optional YAML application configuration")
	dbPath := fs.String("db", "", "SQLite database (default from configuration)")
	if err := fs.Parse(args); err != nil {
		return fail(xglog.WithComponent("cli"), "cli.usage", "invalid arguments", fmt.Errorf("%w: %w", errUsage, err))
	}
	if fs.NArg() != 1 {
		return fail(xglog.WithComponent("cli"), "cli.usage", "usage: load [--db file] <guide.xml>",
			fmt.Errorf("%w: expected one guide file, got %d arguments", errUsage, fs.NArg()))
	}
	guide := fs.Arg(0)

	a, err := setup(*configPath, "", stderr)
	if err != nil {
		return fail(xglog.WithComponent("cli"), "config.load_failed", "failed to load configuration", err)
	}
	defer a.stop()

	path := *dbPath
	if path == "" {
		path = a.cfg.Store.Path
	}
	if path == "" {
		return fail(a.logger, "cli.usage", "no database configured, set store.path or pass --db",
			fmt.Errorf("%w: missing database path", errUsage))
	}

	tv, err := epg.ParseFile(guide)
	if err != nil {
		return fail(a.logger, "xmltv.read_failed", "failed to read the guide", err)
	}
	st, err := store.Open(a.ctx, path)
	if err != nil {
		return fail(a.logger, "store.open_failed", "failed to open the store", err)
	}
	stats, err := st.Load(a.ctx, tv)
	if cerr := st.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return fail(a.logger, "store.load_failed", "failed to load the guide", err)
	}

	a.logger.Info().
		Str(xglog.FieldEvent, "load.complete").
		Str(xglog.FieldPath, path).
		Int("channels", stats.Channels).
		Int("programmes", stats.Programmes).
		Msg("guide loaded")
	return 0
}
