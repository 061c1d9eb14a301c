// SPDX-License-Identifier: MIT

package epg

// ChannelSummary is the flattened channel view served over HTTP and loaded
// into the relational store.
type ChannelSummary struct {
	Name       string             `json:"name"`
	LogoSrc    string             `json:"logo_src,omitempty"`
	ID         string             `json:"id"`
	Programmes []ProgrammeSummary `json:"programmes"`
}

// ProgrammeSummary is the flattened programme view.
type ProgrammeSummary struct {
	ChannelID        string `json:"channel_id"`
	StartTime        string `json:"start_time"`
	FinishTime       string `json:"finish_time"`
	MainTitle        string `json:"main_title"`
	OriginalTitle    string `json:"original_title,omitempty"`
	Subtitle         string `json:"subtitle,omitempty"`
	Description      string `json:"description,omitempty"`
	Image            string `json:"image,omitempty"`
	Category         string `json:"category,omitempty"`
	SubCategory      string `json:"sub_category,omitempty"`
	OriginalCategory string `json:"original_category,omitempty"`
	YearDate         string `json:"year_date,omitempty"`
	Country          string `json:"country,omitempty"`
}

// Summarize flattens tv. Every channel gets its programmes in document order;
// programmes on channels without an element are left out.
func Summarize(tv *TV) []ChannelSummary {
	out := make([]ChannelSummary, 0, len(tv.Channels))
	index := make(map[string]int, len(tv.Channels))
	for _, ch := range tv.Channels {
		s := ChannelSummary{ID: ch.ID, Programmes: []ProgrammeSummary{}}
		if len(ch.DisplayName) > 0 {
			s.Name = ch.DisplayName[0].Value
		}
		if len(ch.Icons) > 0 {
			s.LogoSrc = ch.Icons[0].Src
		}
		index[ch.ID] = len(out)
		out = append(out, s)
	}
	for _, p := range tv.Programmes {
		i, ok := index[p.Channel]
		if !ok {
			continue
		}
		out[i].Programmes = append(out[i].Programmes, SummarizeProgramme(p))
	}
	return out
}

// SummarizeProgramme flattens a single programme.
func SummarizeProgramme(p Programme) ProgrammeSummary {
	s := ProgrammeSummary{
		ChannelID:  p.Channel,
		StartTime:  p.Start,
		FinishTime: p.Stop,
		YearDate:   p.Date,
	}
	if len(p.Titles) > 0 {
		s.MainTitle = p.Titles[0].Value
	}
	if len(p.Titles) > 1 {
		s.OriginalTitle = p.Titles[1].Value
	}
	if len(p.SubTitles) > 0 {
		s.Subtitle = p.SubTitles[0].Value
	}
	if len(p.Descs) > 0 {
		s.Description = p.Descs[0].Value
	}
	if len(p.Icons) > 0 {
		s.Image = p.Icons[0].Src
	}
	var local []string
	for _, c := range p.Categories {
		switch c.Lang {
		case Lang:
			local = append(local, c.Value)
		case CategoryLang:
			if s.OriginalCategory == "" {
				s.OriginalCategory = c.Value
			}
		}
	}
	if len(local) > 0 {
		s.Category = local[0]
	}
	if len(local) > 1 {
		s.SubCategory = local[1]
	}
	if len(p.Countries) > 0 {
		s.Country = p.Countries[0].Value
	}
	return s
}
