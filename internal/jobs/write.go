// SPDX-License-Identifier: MIT

package jobs

import (
	"context"
	"fmt"
	"io"

	"github.com/ManuGH/tlgrab/internal/epg"
	xglog "github.com/ManuGH/tlgrab/internal/log"
	"github.com/google/renameio/v2"
)

// WriteXMLTV encodes tv to w.
func WriteXMLTV(w io.Writer, tv *epg.TV) error {
	if err := epg.Encode(w, tv); err != nil {
		return fmt.Errorf("write XMLTV data: %w", err)
	}
	return nil
}

// WriteXMLTVFile replaces path atomically. Readers see either the previous
// document or the complete new one.
func WriteXMLTVFile(ctx context.Context, path string, tv *epg.TV) error {
	logger := xglog.WithComponentFromContext(ctx, "jobs")

	pendingFile, err := renameio.NewPendingFile(path)
	if err != nil {
		return fmt.Errorf("create pending XMLTV file: %w", err)
	}
	defer func() {
		if err := pendingFile.Cleanup(); err != nil {
			logger.Debug().Err(err).Msg("cleanup pending XMLTV file")
		}
	}()

	if err := WriteXMLTV(pendingFile, tv); err != nil {
		return err
	}
	if err := pendingFile.CloseAtomicallyReplace(); err != nil {
		return fmt.Errorf("atomically replace XMLTV file: %w", err)
	}

	logger.Info().
		Str(xglog.FieldEvent, "xmltv.write").
		Str(xglog.FieldPath, path).
		Int("channels", len(tv.Channels)).
		Int("programmes", len(tv.Programmes)).
		Msg("XMLTV written")
	return nil
}
