// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

// Command tv_grab_fr_teleloisirs is an XMLTV grabber for the Télé Loisirs
// guide. Grabbing is the default; "serve" republishes a generated guide over
// HTTP and "load" copies one into SQLite.
package main

import (
	"io"
	"os"
)

const (
	grabberName = "tv_grab_fr_teleloisirs"
	projectURL  = "https://github.com/ManuGH/tlgrab"
	description = "France (Télé Loisirs)"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

// run dispatches to a subcommand and returns the process exit status.
func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	if len(args) > 0 {
		switch args[0] {
		case "serve":
			return runServe(args[1:], stderr)
		case "load":
			return runLoad(args[1:], stderr)
		}
	}
	return runGrab(args, stdin, stdout, stderr)
}
