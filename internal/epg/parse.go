// SPDX-License-Identifier: MIT

package epg

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// maxXMLSize bounds documents read back from disk.
const maxXMLSize = 50 * 1024 * 1024

// Parse decodes an XMLTV document. Entity expansion is disabled.
func Parse(r io.Reader) (*TV, error) {
	var doc TV
	dec := xml.NewDecoder(io.LimitReader(r, maxXMLSize))
	dec.Strict = true
	dec.Entity = make(map[string]string)

	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("decode xmltv: empty document")
		}
		return nil, fmt.Errorf("decode xmltv: %w", err)
	}
	return &doc, nil
}

// ParseFile decodes the XMLTV document at path.
func ParseFile(path string) (*TV, error) {
	f, err := os.Open(filepath.Clean(path)) // #nosec G304 -- operator-supplied path
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()
	return Parse(f)
}
