// SPDX-License-Identifier: MIT

package epg

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/ManuGH/tlgrab/internal/channels"
	xglog "github.com/ManuGH/tlgrab/internal/log"
	"github.com/ManuGH/tlgrab/internal/teleloisirs"
)

// Fixed labels written into every document.
const (
	Lang         = "fr"
	CategoryLang = "en"
	SourceName   = "Télé Loisirs"
	SourceURL    = "https://www.programme-tv.net/"
	countrySep   = " - "
	ratingSystem = "CSA"
	qualityHD    = "HDTV"
	lengthUnits  = "seconds"
)

// Mapper turns a broadcast and its program into a programme element.
// It holds no mutable state and may be shared.
type Mapper struct {
	credits    map[string]CreditKind
	categories map[string]string
}

// NewMapper builds a mapper over the given tables.
func NewMapper(t Tables) *Mapper {
	return &Mapper{credits: t.Credits, categories: t.Categories}
}

// Usable reports whether b has a channel and a parseable start, which every
// entry needs regardless of its program.
func Usable(b teleloisirs.Broadcast) bool {
	if b.ChannelID() == "" {
		return false
	}
	_, err := teleloisirs.ParseTime(b.StartedAt)
	return err == nil
}

// ToEntry maps one pair. It returns nil when the entry must be dropped.
func (m *Mapper) ToEntry(ctx context.Context, b teleloisirs.Broadcast, p teleloisirs.Program) *Programme {
	logger := xglog.WithComponentFromContext(ctx, "epg")
	bid := b.ID.String()

	vendorChannel := b.ChannelID()
	if vendorChannel == "" {
		logger.Debug().Str(xglog.FieldEvent, "transform.skip").Str(xglog.FieldBroadcastID, bid).Msg("broadcast has no channel ID, skipping")
		return nil
	}

	start, err := teleloisirs.ParseTime(b.StartedAt)
	if err != nil {
		logger.Debug().Str(xglog.FieldEvent, "transform.skip").Str(xglog.FieldBroadcastID, bid).Msg("broadcast has no valid start time, skipping")
		return nil
	}

	title := clean(p.Title)
	if title == "" {
		title = clean(p.CollectionItemTitle)
	}
	if title == "" {
		logger.Warn().Str(xglog.FieldEvent, "transform.skip").Str(xglog.FieldBroadcastID, bid).Msg("program has no title, skipping")
		return nil
	}

	prog := &Programme{
		Start:   FormatTime(start),
		Channel: channels.InternalID(vendorChannel),
		Titles:  []Text{{Value: title}},
	}
	if stop, err := teleloisirs.ParseTime(b.EndedAt); err == nil {
		prog.Stop = FormatTime(stop)
	}

	if original := clean(p.OriginalTitle); original != "" && original != title {
		prog.Titles[0].Lang = Lang
		prog.Titles = append(prog.Titles, Text{Value: original})
	}

	if item := clean(p.CollectionItemTitle); item != "" && item != title {
		prog.SubTitles = []Text{{Value: item}}
	}

	if desc := clean(p.Synopsis); desc != "" {
		prog.Descs = []Text{{Value: desc}}
	}

	prog.Credits = m.creditsFor(logger, p.People)

	if p.ReleasedYear.Present() {
		prog.Date = p.ReleasedYear.String()
	}

	prog.Categories = m.categoriesFor(logger, p)

	if p.Duration != nil && *p.Duration != 0 {
		prog.Length = &Length{Units: lengthUnits, Value: strconv.Itoa(*p.Duration)}
	}

	if src := p.Image.SourceURL(); src != "" {
		prog.Icons = []Icon{{Src: src, Width: strconv.Itoa(*p.Image.Width), Height: strconv.Itoa(*p.Image.Height)}}
	}

	if u := clean(p.URL()); u != "" {
		prog.URLs = []string{u}
	}

	for _, country := range strings.Split(p.Country, countrySep) {
		if c := clean(country); c != "" {
			prog.Countries = append(prog.Countries, Text{Lang: Lang, Value: c})
		}
	}

	if num, ok := episodeInfo(p).XMLTVNS(); ok {
		prog.EpisodeNums = []EpisodeNum{{System: EpisodeSystem, Value: num}}
	}

	prog.Video = video(b, p)
	prog.Audio = audio(b, p)

	switch {
	case b.IsRebroadcast:
		prog.PreviouslyShown = &Marker{}
	case b.IsNew:
		prog.Premiere = &Marker{}
	}

	if b.HasDeafSubtitles {
		prog.Subtitles = append(prog.Subtitles, Subtitles{Type: "deaf-signed"})
	}
	if b.IsVOST {
		prog.Subtitles = append(prog.Subtitles, Subtitles{Type: "onscreen"})
	}

	if b.CSAAgeRestriction.Present() {
		prog.Ratings = []Rating{{
			System: ratingSystem,
			Value:  fmt.Sprintf("Interdit aux moins de %s ans", b.CSAAgeRestriction),
		}}
	}
	if p.Rating != nil {
		if stars := int(*p.Rating * 4); stars != 0 {
			prog.StarRatings = []Rating{{System: SourceName, Value: fmt.Sprintf("%d/4", stars)}}
		}
	}

	if review := clean(p.Review); review != "" {
		prog.Reviews = []Review{{Type: "text", Source: SourceName, Lang: Lang, Value: review}}
	}

	return prog
}

// creditList keeps insertion order while letting a later credit of the same
// person replace the earlier one in place.
type creditList struct {
	index map[string]int
	items []Credit
}

func (l *creditList) put(c Credit) {
	if l.index == nil {
		l.index = make(map[string]int)
	}
	if i, ok := l.index[c.Name]; ok {
		l.items[i] = c
		return
	}
	l.index[c.Name] = len(l.items)
	l.items = append(l.items, c)
}

func (m *Mapper) creditsFor(logger zerolog.Logger, people []teleloisirs.Person) *Credits {
	byKind := make(map[CreditKind]*creditList, len(CreditOrder))
	total := 0
	for _, person := range people {
		position := clean(person.Position)
		kind, ok := m.credits[position]
		if !ok {
			if position != "" {
				logger.Debug().Str("position", position).Msg("no XMLTV credit defined for function")
			}
			continue
		}
		name := clean(person.FullName())
		if name == "" {
			continue
		}
		c := Credit{Name: name}
		if kind == Actor {
			c.Role = clean(person.Role)
		}
		list := byKind[kind]
		if list == nil {
			list = &creditList{}
			byKind[kind] = list
		}
		list.put(c)
		total++
	}
	if total == 0 {
		return nil
	}

	pick := func(k CreditKind) []Credit {
		if l := byKind[k]; l != nil {
			return l.items
		}
		return nil
	}
	return &Credits{
		Directors:    pick(Director),
		Actors:       pick(Actor),
		Writers:      pick(Writer),
		Adapters:     pick(Adapter),
		Producers:    pick(Producer),
		Composers:    pick(Composer),
		Editors:      pick(Editor),
		Presenters:   pick(Presenter),
		Commentators: pick(Commentator),
		Guests:       pick(Guest),
	}
}

func (m *Mapper) categoriesFor(logger zerolog.Logger, p teleloisirs.Program) []Text {
	var out []Text
	genre := capitalize(p.Genre())
	if genre != "" {
		out = append(out, Text{Lang: Lang, Value: genre})
	}
	if sub := capitalize(p.SubGenre()); sub != "" && sub != genre {
		out = append(out, Text{Lang: Lang, Value: sub})
	}
	if etsi, ok := m.categories[genre]; ok && etsi != "" {
		out = append(out, Text{Lang: CategoryLang, Value: etsi})
	} else if genre != "" {
		logger.Debug().Str("genre", genre).Msg("no ETSI category found for genre")
	}
	return out
}

func episodeInfo(p teleloisirs.Program) EpisodeInfo {
	var e EpisodeInfo
	if c := p.Collection; c != nil {
		e.Season = deref(c.ItemIndex)
		e.EpisodeTotal = deref(c.ChildCount)
		if c.ParentCollection != nil {
			e.SeasonTotal = deref(c.ParentCollection.ChildCount)
		}
	}
	e.Episode = deref(p.CollectionItemIndex)
	e.Part = deref(p.CollectionItemPartIndex)
	e.PartTotal = deref(p.CollectionItemPartCount)
	return e
}

func video(b teleloisirs.Broadcast, p teleloisirs.Program) *Video {
	v := &Video{Present: "yes", Aspect: clean(b.AspectRatio)}
	if p.IsInColor != nil {
		v.Colour = yesNo(*p.IsInColor)
	}
	if b.IsHD {
		v.Quality = qualityHD
	}
	return v
}

func audio(b teleloisirs.Broadcast, p teleloisirs.Program) *Audio {
	if p.IsSilent != nil && *p.IsSilent {
		return &Audio{Present: "no"}
	}
	stereo := clean(b.SoundFormat)
	if b.IsMultiLanguage {
		stereo = "bilingual"
	}
	if stereo == "" {
		return nil
	}
	return &Audio{Present: "yes", Stereo: stereo}
}

func yesNo(v bool) string {
	if v {
		return "yes"
	}
	return "no"
}

func deref(v *int) int {
	if v == nil {
		return 0
	}
	return *v
}
