// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package main

import (
	"flag"
	"fmt"
	"io"

	"github.com/ManuGH/tlgrab/internal/channels"
	"github.com/ManuGH/tlgrab/internal/config"
	"github.com/ManuGH/tlgrab/internal/jobs"
	xglog "github.com/ManuGH/tlgrab/internal/log"
	"github.com/ManuGH/tlgrab/internal/version"
)

type grabFlags struct {
	description  bool
	version      bool
	capabilities bool
	configure    bool
	days         int
	offset       int
	output       string
	selection    string
	config       string
	quiet        bool
	debug        bool
	set          map[string]bool
}

func parseGrabFlags(args []string, stderr io.Writer) (*grabFlags, error) {
	f := &grabFlags{set: make(map[string]bool)}
	fs := flag.NewFlagSet(grabberName, flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.BoolVar(&f.description, "description", false, "print a short description of the grabber and exit")
	fs.BoolVar(&f.version, "version", false, "print the grabber version and exit")
	fs.BoolVar(&f.capabilities, "capabilities", false, "print the supported XMLTV capabilities and exit")
	fs.BoolVar(&f.configure, "configure", false, "choose the channels to grab interactively")
	fs.IntVar(&f.days, "days", 0, "number of days to grab (default from configuration)")
	fs.IntVar(&f.offset, "offset", 0, "start the window this many days after today")
	fs.StringVar(&f.output, "output", "", "write the guide to this file instead of stdout")
	fs.StringVar(&f.selection, "config-file", config.DefaultSelectionPath(), "channel selection file")
	fs.StringVar(&f.config, "config", "", "optional YAML application configuration")
	fs.BoolVar(&f.quiet, "quiet", false, "only log errors")
	fs.BoolVar(&f.debug, "debug", false, "log debug output")
	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("%w: %w", errUsage, err)
	}
	if fs.NArg() > 0 {
		return nil, fmt.Errorf("%w: unexpected argument %q", errUsage, fs.Arg(0))
	}
	fs.Visit(func(fl *flag.Flag) { f.set[fl.Name] = true })
	if f.quiet && f.debug {
		return nil, fmt.Errorf("%w: --quiet and --debug are mutually exclusive", errUsage)
	}
	return f, nil
}

func (f *grabFlags) level() string {
	switch {
	case f.quiet:
		return "error"
	case f.debug:
		return "debug"
	}
	return ""
}

func runGrab(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	f, err := parseGrabFlags(args, stderr)
	if err != nil {
		return fail(xglog.WithComponent("cli"), "cli.usage", "invalid arguments", err)
	}

	switch {
	case f.description:
		_, _ = fmt.Fprintln(stdout, description)
		return 0
	case f.version:
		_, _ = fmt.Fprintf(stdout, "This is %s version %s\n", grabberName, version.Version)
		return 0
	case f.capabilities:
		_, _ = fmt.Fprintln(stdout, "baseline")
		_, _ = fmt.Fprintln(stdout, "manualconfig")
		return 0
	}

	a, err := setup(f.config, f.level(), stderr)
	if err != nil {
		return fail(xglog.WithComponent("cli"), "config.load_failed", "failed to load configuration", err)
	}
	defer a.stop()

	if f.set["days"] {
		a.cfg.Grab.Days = f.days
	}
	if f.set["offset"] {
		a.cfg.Grab.Offset = f.offset
	}
	if a.cfg.Grab.Days < 1 || a.cfg.Grab.Offset < 0 {
		return fail(a.logger, "cli.usage", "--days must be at least 1 and --offset not negative",
			fmt.Errorf("%w: days=%d offset=%d", errUsage, a.cfg.Grab.Days, a.cfg.Grab.Offset))
	}

	client, err := a.client()
	if err != nil {
		return fail(a.logger, "client.init_failed", "invalid API configuration", err)
	}
	reg, err := channels.Build(a.ctx, client)
	if err != nil {
		return fail(a.logger, "channels.build_failed", "failed to fetch the channel list", err)
	}

	if f.configure {
		selected, err := config.Configure(stdin, stderr, reg.All())
		if err != nil {
			return fail(a.logger, "configure.failed", "interactive configuration failed", err)
		}
		if err := config.WriteSelection(f.selection, selected); err != nil {
			return fail(a.logger, "configure.write_failed", "failed to write channel selection", err)
		}
		a.logger.Info().
			Str(xglog.FieldEvent, "configure.saved").
			Str(xglog.FieldPath, f.selection).
			Int("channels", len(selected)).
			Msg("channel selection saved")
		return 0
	}

	ids, err := config.ReadSelection(f.selection, reg)
	if err != nil {
		return fail(a.logger, "selection.read_failed", selectionMessage(f.selection, err), err)
	}

	res, err := jobs.Grab(a.ctx, client, reg, jobs.Options{
		ChannelIDs:    ids,
		Days:          a.cfg.Grab.Days,
		Offset:        a.cfg.Grab.Offset,
		Workers:       a.cfg.Grab.Workers,
		GeneratorName: grabberName,
		GeneratorURL:  projectURL,
	})
	if err != nil {
		return fail(a.logger, "grab.failed", "grab failed", err)
	}

	if f.output == "" || f.output == "-" {
		err = jobs.WriteXMLTV(stdout, res.TV)
	} else {
		err = jobs.WriteXMLTVFile(a.ctx, f.output, res.TV)
	}
	if err != nil {
		return fail(a.logger, "xmltv.write_failed", "failed to write the guide", err)
	}
	return 0
}
