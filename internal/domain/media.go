package domain

import (
	"fmt"
	"strings"
)

// MediaKind selects the genre namespace, detail endpoint and discover path
// used for a title.
type MediaKind string

const (
	MediaKindMovie MediaKind = "movie"
	MediaKindTV    MediaKind = "tv"
)

// MediaKinds lists every supported kind in a fixed order.
var MediaKinds = []MediaKind{MediaKindMovie, MediaKindTV}

func ParseMediaKind(s string) (MediaKind, error) {
	switch MediaKind(strings.ToLower(strings.TrimSpace(s))) {
	case MediaKindMovie:
		return MediaKindMovie, nil
	case MediaKindTV:
		return MediaKindTV, nil
	}
	return "", fmt.Errorf("unknown media kind %q (must be 'movie' or 'tv')", s)
}

func (k MediaKind) Valid() bool {
	return k == MediaKindMovie || k == MediaKindTV
}

func (k MediaKind) String() string {
	return string(k)
}

// TimeWindow is the period a trending feed is computed over.
type TimeWindow string

const (
	TimeWindowDay  TimeWindow = "day"
	TimeWindowWeek TimeWindow = "week"
)

func ParseTimeWindow(s string) (TimeWindow, error) {
	switch TimeWindow(strings.ToLower(strings.TrimSpace(s))) {
	case TimeWindowDay:
		return TimeWindowDay, nil
	case TimeWindowWeek:
		return TimeWindowWeek, nil
	}
	return "", fmt.Errorf("invalid time window %q (must be 'day' or 'week')", s)
}

// Genre is only meaningful together with the MediaKind whose table it came from.
type Genre struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

type MetaChipKind string

const (
	MetaChipYear   MetaChipKind = "year"
	MetaChipSeason MetaChipKind = "season"
	MetaChipGenre  MetaChipKind = "genre"
)

// MetaChip is a small labeled badge attached to a display item.
type MetaChip struct {
	Kind MetaChipKind `json:"kind" yaml:"kind"`
	Text string       `json:"text" yaml:"text"`
}

// Image is a resolved artwork reference. Data is only populated when image
// prefetching is enabled and the fetch succeeded.
type Image struct {
	URL      string `json:"url" yaml:"url"`
	MIMEType string `json:"mimeType,omitempty" yaml:"mimeType,omitempty"`
	Data     []byte `json:"-" yaml:"-"`
}

// MediaDisplayItem is the read-only projection produced by the aggregators.
type MediaDisplayItem struct {
	Title      string     `json:"title" yaml:"title"`
	Subtitle   string     `json:"subtitle" yaml:"subtitle"`
	Poster     *Image     `json:"poster,omitempty" yaml:"poster,omitempty"`
	Backdrop   *Image     `json:"backdrop,omitempty" yaml:"backdrop,omitempty"`
	Overview   string     `json:"overview,omitempty" yaml:"overview,omitempty"`
	MetaChips  []MetaChip `json:"metaChips,omitempty" yaml:"metaChips,omitempty"`
	ExternalID int        `json:"externalId,omitempty" yaml:"externalId,omitempty"`
	MediaKind  MediaKind  `json:"mediaKind,omitempty" yaml:"mediaKind,omitempty"`
	GenreIDs   []int      `json:"genreIds,omitempty" yaml:"genreIds,omitempty"`
}

// FavoriteKey derives the item's key. ok is false unless the item carries
// both a positive id and a known media kind.
func (i MediaDisplayItem) FavoriteKey() (FavoriteKey, bool) {
	if i.ExternalID <= 0 || !i.MediaKind.Valid() {
		return FavoriteKey{}, false
	}
	return FavoriteKey{Kind: i.MediaKind, ID: i.ExternalID}, true
}
