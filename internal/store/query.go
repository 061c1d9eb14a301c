// SPDX-License-Identifier: MIT

package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

// Programme is one row of the programmes table. Nullable columns come back
// as empty strings.
type Programme struct {
	PID           int64  `json:"pid"`
	ChannelID     string `json:"cid"`
	MainTitle     string `json:"main_title"`
	OriginalTitle string `json:"original_title,omitempty"`
	Subtitle      string `json:"subtitle,omitempty"`
	Country       string `json:"country,omitempty"`
	Category      string `json:"category,omitempty"`
	SubCategory   string `json:"subcategory,omitempty"`
	Description   string `json:"description,omitempty"`
	YearDate      string `json:"year_date,omitempty"`
	Image         string `json:"image,omitempty"`
	StartTime     string `json:"start_time"`
	FinishTime    string `json:"finish_time"`
}

// ProgrammesByChannels returns every programme whose channel is in cids,
// ordered by pid. An empty list matches nothing.
func (s *Store) ProgrammesByChannels(ctx context.Context, cids []string) ([]Programme, error) {
	if s == nil || s.db == nil {
		return nil, ErrClosed
	}
	if len(cids) == 0 {
		return []Programme{}, nil
	}

	args := make([]any, len(cids))
	for i, cid := range cids {
		args[i] = cid
	}
	query := `SELECT pid, cid, main_title, original_title, subtitle, country, category, subcategory,
		description, year_date, image, start_time, finish_time
		FROM programmes WHERE cid IN (?` + strings.Repeat(", ?", len(cids)-1) + `) ORDER BY pid`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query programmes: %w", err)
	}
	defer func() { _ = rows.Close() }()

	out := []Programme{}
	for rows.Next() {
		var (
			p    Programme
			cols [12]sql.NullString
		)
		if err := rows.Scan(&p.PID, &cols[0], &cols[1], &cols[2], &cols[3], &cols[4], &cols[5],
			&cols[6], &cols[7], &cols[8], &cols[9], &cols[10], &cols[11]); err != nil {
			return nil, fmt.Errorf("scan programme: %w", err)
		}
		p.ChannelID = cols[0].String
		p.MainTitle = cols[1].String
		p.OriginalTitle = cols[2].String
		p.Subtitle = cols[3].String
		p.Country = cols[4].String
		p.Category = cols[5].String
		p.SubCategory = cols[6].String
		p.Description = cols[7].String
		p.YearDate = cols[8].String
		p.Image = cols[9].String
		p.StartTime = cols[10].String
		p.FinishTime = cols[11].String
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read programmes: %w", err)
	}
	return out, nil
}

// ChannelCount returns the number of loaded channels.
func (s *Store) ChannelCount(ctx context.Context) (int, error) {
	if s == nil || s.db == nil {
		return 0, ErrClosed
	}
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM channels`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count channels: %w", err)
	}
	return n, nil
}
