// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package config

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"

	"github.com/google/renameio/v2"

	"github.com/ManuGH/tlgrab/internal/channels"
)

// SelectionFileName is the XMLTV convention for this grabber.
const SelectionFileName = "tv_grab_fr_teleloisirs.conf"

var selectionLine = regexp.MustCompile(`^\s*channel\s*=\s*(.+?)(?:\s*#.*)?$`)

// DefaultSelectionPath returns ~/.xmltv/tv_grab_fr_teleloisirs.conf.
func DefaultSelectionPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".xmltv", SelectionFileName)
	}
	return filepath.Join(home, ".xmltv", SelectionFileName)
}

// Availability reports whether an internal channel id can be grabbed.
type Availability interface {
	Has(internalID string) bool
}

// ParseSelection extracts the selected channel ids from r. Ids that avail
// does not know are dropped and duplicates collapse, keeping the order of
// first appearance.
func ParseSelection(r io.Reader, avail Availability) ([]string, error) {
	seen := make(map[string]struct{})
	var ids []string

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		m := selectionLine.FindStringSubmatch(scanner.Text())
		if m == nil {
			continue
		}
		id := m[1]
		if !avail.Has(id) {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read channel selection: %w", err)
	}
	return ids, nil
}

// ReadSelection reads the selection file at path. A missing file yields
// ErrNotConfigured and a file without any usable line ErrEmptySelection.
func ReadSelection(path string, avail Availability) ([]string, error) {
	// #nosec G304 -- the selection path is provided by the operator
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrNotConfigured
		}
		return nil, fmt.Errorf("open channel selection: %w", err)
	}
	defer func() { _ = f.Close() }()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat channel selection: %w", err)
	}
	if info.IsDir() {
		return nil, ErrNotConfigured
	}

	ids, err := ParseSelection(f, avail)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrEmptySelection, path)
	}
	return ids, nil
}

// WriteSelection writes one "channel=<id> # <name>" line per channel,
// creating the parent directories.
func WriteSelection(path string, selected []channels.Channel) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return fmt.Errorf("create selection directory: %w", err)
	}

	pending, err := renameio.NewPendingFile(path, renameio.WithPermissions(0o644))
	if err != nil {
		return fmt.Errorf("create pending selection file: %w", err)
	}
	defer func() { _ = pending.Cleanup() }()

	w := bufio.NewWriter(pending)
	for _, ch := range selected {
		if _, err := fmt.Fprintf(w, "channel=%s # %s\n", ch.ID, ch.Name); err != nil {
			return fmt.Errorf("write channel selection: %w", err)
		}
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("write channel selection: %w", err)
	}
	if err := pending.CloseAtomicallyReplace(); err != nil {
		return fmt.Errorf("atomically replace selection file: %w", err)
	}
	return nil
}
