// SPDX-License-Identifier: MIT

package epg

import (
	"strconv"
	"strings"
)

// EpisodeSystem is the numbering scheme identifier written to episode-num.
const EpisodeSystem = "xmltv_ns"

// EpisodeInfo holds one-based collection positions. Zero means absent.
type EpisodeInfo struct {
	Season       int
	SeasonTotal  int
	Episode      int
	EpisodeTotal int
	Part         int
	PartTotal    int
}

// XMLTVNS renders the zero-based "season.episode.part" form. It reports false
// when season, episode and part are all absent. The part component always
// appears and defaults to 0/1, so a part-only program yields "..N/1".
func (e EpisodeInfo) XMLTVNS() (string, bool) {
	if e.Season == 0 && e.Episode == 0 && e.Part == 0 {
		return "", false
	}

	var b strings.Builder
	writeComponent(&b, e.Season, e.SeasonTotal)
	b.WriteByte('.')
	writeComponent(&b, e.Episode, e.EpisodeTotal)
	b.WriteByte('.')

	part, parts := e.Part, e.PartTotal
	if part == 0 {
		part = 1
	}
	if parts == 0 {
		parts = 1
	}
	writeComponent(&b, part, parts)
	return b.String(), true
}

func writeComponent(b *strings.Builder, index, total int) {
	if index == 0 {
		return
	}
	b.WriteString(strconv.Itoa(index - 1))
	if total != 0 {
		b.WriteByte('/')
		b.WriteString(strconv.Itoa(total))
	}
}
