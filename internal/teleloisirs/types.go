// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package teleloisirs

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// API datetime layouts. The API emits numeric offsets without a colon; RFC 3339
// is accepted as well.
const (
	TimeLayout = "2006-01-02T15:04:05-0700"
)

// ParseTime parses a vendor timestamp.
func ParseTime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(TimeLayout, s); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, s)
}

// FormatTime renders t in the vendor datetime layout.
func FormatTime(t time.Time) string {
	return t.Format(TimeLayout)
}

// Envelope is the outer JSON object of every API response.
type Envelope struct {
	Data    *Data           `json:"data"`
	Message json.RawMessage `json:"message,omitempty"`
}

// Data carries either a list page (Items + Next) or a single Item.
type Data struct {
	Items []json.RawMessage `json:"items"`
	Item  json.RawMessage   `json:"item"`
	Next  string            `json:"next"`
}

// VendorMessage returns the envelope's message when it is a non-empty string.
func (e *Envelope) VendorMessage() string {
	if e == nil {
		return ""
	}
	return messageText(e.Message)
}

func messageText(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return ""
	}
	return strings.TrimSpace(s)
}

// Scalar is a vendor value the API emits either as a JSON string or number.
// The zero value means absent.
type Scalar string

// UnmarshalJSON accepts strings, numbers and null. Other JSON types are rejected.
func (s *Scalar) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*s = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var str string
		if err := json.Unmarshal(b, &str); err != nil {
			return err
		}
		*s = Scalar(strings.TrimSpace(str))
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("scalar: unsupported JSON value %s", b)
	}
	if f, err := n.Float64(); err == nil && f == 0 {
		// Numeric zero behaves like absent.
		*s = ""
		return nil
	}
	*s = Scalar(n.String())
	return nil
}

// String returns the raw value.
func (s Scalar) String() string { return string(s) }

// Present reports whether the value carries anything.
func (s Scalar) Present() bool { return s != "" }

// Ref is a nested {"id": ...} reference.
type Ref struct {
	ID Scalar `json:"id"`
}

// Links holds the "_links" object.
type Links struct {
	URL string `json:"url"`
}

// Image describes a templated image URL.
type Image struct {
	URLTemplate string `json:"urlTemplate"`
	Width       *int   `json:"width"`
	Height      *int   `json:"height"`
}

// ChannelRecord is one item of the channel listing.
type ChannelRecord struct {
	ID    Scalar `json:"id"`
	Title string `json:"title"`
	Image *Image `json:"image"`
	Links *Links `json:"_links"`
}

// Broadcast is one scheduled airing.
type Broadcast struct {
	ID                Scalar `json:"id"`
	StartedAt         string `json:"startedAt"`
	EndedAt           string `json:"endedAt"`
	SoundFormat       string `json:"soundFormat"`
	IsMultiLanguage   bool   `json:"isMultiLanguage"`
	IsVOST            bool   `json:"isVOST"`
	AspectRatio       string `json:"aspectRatio"`
	HasDeafSubtitles  bool   `json:"hasDeafSubtitles"`
	CSAAgeRestriction Scalar `json:"CSAAgeRestriction"`
	IsHD              bool   `json:"isHD"`
	IsNew             bool   `json:"isNew"`
	IsRebroadcast     bool   `json:"isRebroadcast"`
	Channel           *Ref   `json:"channel"`
	Program           *Ref   `json:"program"`
}

// ChannelID returns the vendor channel id, or "" when absent.
func (b Broadcast) ChannelID() string {
	if b.Channel == nil {
		return ""
	}
	return b.Channel.ID.String()
}

// ProgramID returns the vendor program id, or "" when absent.
func (b Broadcast) ProgramID() string {
	if b.Program == nil {
		return ""
	}
	return b.Program.ID.String()
}

// Collection positions a program inside a season or series.
type Collection struct {
	ItemIndex        *int              `json:"itemIndex"`
	ChildCount       *int              `json:"childCount"`
	ParentCollection *ParentCollection `json:"parentCollection"`
}

// ParentCollection is the series a season belongs to.
type ParentCollection struct {
	ChildCount *int `json:"childCount"`
}

// FormatGenre pairs the primary format with its genre.
type FormatGenre struct {
	Format *struct {
		Title string `json:"title"`
	} `json:"format"`
	Genre *struct {
		Name string `json:"name"`
	} `json:"genre"`
}

// Person is one cast or crew entry.
type Person struct {
	Role     string `json:"role"`
	Position string `json:"position"`
	Person   *struct {
		FullName string `json:"fullname"`
	} `json:"person"`
}

// FullName returns the credited name, or "" when absent.
func (p Person) FullName() string {
	if p.Person == nil {
		return ""
	}
	return p.Person.FullName
}

// Program is the content metadata referenced by broadcasts. The zero value is
// the empty program substituted when enrichment fails.
type Program struct {
	ID                      Scalar       `json:"id"`
	Title                   string       `json:"title"`
	OriginalTitle           string       `json:"originalTitle"`
	CollectionItemTitle     string       `json:"collectionItemTitle"`
	CollectionItemIndex     *int         `json:"collectionItemIndex"`
	CollectionItemPartIndex *int         `json:"collectionItemPartIndex"`
	CollectionItemPartCount *int         `json:"collectionItemPartCount"`
	Duration                *int         `json:"duration"`
	Country                 string       `json:"country"`
	ReleasedYear            Scalar       `json:"releasedYear"`
	IsSilent                *bool        `json:"isSilent"`
	IsInColor               *bool        `json:"isInColor"`
	Rating                  *float64     `json:"rating"`
	Collection              *Collection  `json:"collection"`
	FormatGenre             *FormatGenre `json:"formatGenre"`
	Image                   *Image       `json:"image"`
	People                  []Person     `json:"programProviderPeople"`
	Synopsis                string       `json:"synopsis"`
	Review                  string       `json:"review"`
	Links                   *Links       `json:"_links"`
}

// Genre returns the raw format title.
func (p Program) Genre() string {
	if p.FormatGenre == nil || p.FormatGenre.Format == nil {
		return ""
	}
	return p.FormatGenre.Format.Title
}

// SubGenre returns the raw genre name.
func (p Program) SubGenre() string {
	if p.FormatGenre == nil || p.FormatGenre.Genre == nil {
		return ""
	}
	return p.FormatGenre.Genre.Name
}

// URL returns the info link, or "".
func (p Program) URL() string {
	if p.Links == nil {
		return ""
	}
	return p.Links.URL
}

// SourceURL expands the image template into a concrete URL. It returns "" when
// the template, width or height is missing.
func (img *Image) SourceURL() string {
	if img == nil || img.URLTemplate == "" || img.Width == nil || img.Height == nil || *img.Width == 0 || *img.Height == 0 {
		return ""
	}
	r := strings.NewReplacer(
		"{transformation}", "fit",
		"{width}", strconv.Itoa(*img.Width),
		"{height}", strconv.Itoa(*img.Height),
		"{parameters}", "_",
		"{title}", "image",
	)
	return r.Replace(img.URLTemplate)
}
