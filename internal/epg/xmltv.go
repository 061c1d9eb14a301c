// SPDX-License-Identifier: MIT

// Package epg maps Télé Loisirs records to XMLTV and reads XMLTV documents back.
package epg

import (
	"encoding/xml"
	"io"
	"time"
)

// XMLTV datetime layout.
const TimeLayout = "20060102150405 -0700"

// FormatTime renders t in the XMLTV datetime layout.
func FormatTime(t time.Time) string {
	return t.Format(TimeLayout)
}

// TV is the document root.
type TV struct {
	XMLName        xml.Name    `xml:"tv"`
	SourceInfoName string      `xml:"source-info-name,attr,omitempty"`
	SourceInfoURL  string      `xml:"source-info-url,attr,omitempty"`
	SourceDataURL  string      `xml:"source-data-url,attr,omitempty"`
	GeneratorName  string      `xml:"generator-info-name,attr,omitempty"`
	GeneratorURL   string      `xml:"generator-info-url,attr,omitempty"`
	Channels       []Channel   `xml:"channel"`
	Programmes     []Programme `xml:"programme"`
}

// Channel is a <channel> element.
type Channel struct {
	ID          string   `xml:"id,attr"`
	DisplayName []Text   `xml:"display-name"`
	Icons       []Icon   `xml:"icon,omitempty"`
	URLs        []string `xml:"url,omitempty"`
}

// Text is character data with an optional lang attribute.
type Text struct {
	Lang  string `xml:"lang,attr,omitempty"`
	Value string `xml:",chardata"`
}

// Icon is an <icon> element.
type Icon struct {
	Src    string `xml:"src,attr"`
	Width  string `xml:"width,attr,omitempty"`
	Height string `xml:"height,attr,omitempty"`
}

// Programme is a <programme> element. Field order follows the XMLTV DTD.
type Programme struct {
	Start           string       `xml:"start,attr"`
	Stop            string       `xml:"stop,attr,omitempty"`
	Channel         string       `xml:"channel,attr"`
	Titles          []Text       `xml:"title"`
	SubTitles       []Text       `xml:"sub-title,omitempty"`
	Descs           []Text       `xml:"desc,omitempty"`
	Credits         *Credits     `xml:"credits,omitempty"`
	Date            string       `xml:"date,omitempty"`
	Categories      []Text       `xml:"category,omitempty"`
	Length          *Length      `xml:"length,omitempty"`
	Icons           []Icon       `xml:"icon,omitempty"`
	URLs            []string     `xml:"url,omitempty"`
	Countries       []Text       `xml:"country,omitempty"`
	EpisodeNums     []EpisodeNum `xml:"episode-num,omitempty"`
	Video           *Video       `xml:"video,omitempty"`
	Audio           *Audio       `xml:"audio,omitempty"`
	PreviouslyShown *Marker      `xml:"previously-shown,omitempty"`
	Premiere        *Marker      `xml:"premiere,omitempty"`
	Subtitles       []Subtitles  `xml:"subtitles,omitempty"`
	Ratings         []Rating     `xml:"rating,omitempty"`
	StarRatings     []Rating     `xml:"star-rating,omitempty"`
	Reviews         []Review     `xml:"review,omitempty"`
}

// Marker is an empty flag element.
type Marker struct{}

// Credits groups people by kind in XMLTV order.
type Credits struct {
	Directors    []Credit `xml:"director,omitempty"`
	Actors       []Credit `xml:"actor,omitempty"`
	Writers      []Credit `xml:"writer,omitempty"`
	Adapters     []Credit `xml:"adapter,omitempty"`
	Producers    []Credit `xml:"producer,omitempty"`
	Composers    []Credit `xml:"composer,omitempty"`
	Editors      []Credit `xml:"editor,omitempty"`
	Presenters   []Credit `xml:"presenter,omitempty"`
	Commentators []Credit `xml:"commentator,omitempty"`
	Guests       []Credit `xml:"guest,omitempty"`
}

// Credit is one credited person.
type Credit struct {
	Role string `xml:"role,attr,omitempty"`
	Name string `xml:",chardata"`
}

// Length is the programme duration.
type Length struct {
	Units string `xml:"units,attr"`
	Value string `xml:",chardata"`
}

// EpisodeNum is an <episode-num> element.
type EpisodeNum struct {
	System string `xml:"system,attr,omitempty"`
	Value  string `xml:",chardata"`
}

// Video describes picture properties.
type Video struct {
	Present string `xml:"present,omitempty"`
	Colour  string `xml:"colour,omitempty"`
	Aspect  string `xml:"aspect,omitempty"`
	Quality string `xml:"quality,omitempty"`
}

// Audio describes sound properties.
type Audio struct {
	Present string `xml:"present,omitempty"`
	Stereo  string `xml:"stereo,omitempty"`
}

// Subtitles is a <subtitles> element.
type Subtitles struct {
	Type string `xml:"type,attr,omitempty"`
}

// Rating is used for both <rating> and <star-rating>.
type Rating struct {
	System string `xml:"system,attr,omitempty"`
	Value  string `xml:"value"`
}

// Review is a <review> element.
type Review struct {
	Type   string `xml:"type,attr"`
	Source string `xml:"source,attr,omitempty"`
	Lang   string `xml:"lang,attr,omitempty"`
	Value  string `xml:",chardata"`
}

// Encode writes tv as an indented UTF-8 document with an XML declaration.
func Encode(w io.Writer, tv *TV) error {
	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := enc.Encode(tv); err != nil {
		return err
	}
	if err := enc.Close(); err != nil {
		return err
	}
	_, err := io.WriteString(w, "\n")
	return err
}
