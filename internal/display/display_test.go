package display

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/varoOP/reelshelf/internal/domain"
	"github.com/varoOP/reelshelf/internal/genre"
	"github.com/varoOP/reelshelf/internal/image"
)

type stubImages struct {
	image.Service
	failing map[string]bool
}

func (s *stubImages) Load(_ context.Context, url string) *domain.Image {
	if s.failing[url] {
		return nil
	}
	return &domain.Image{URL: url, MIMEType: "image/jpeg", Data: []byte(url)}
}

func newAssembler(prefetch bool, failing ...string) *Assembler {
	images := &stubImages{
		Service: image.NewService(zerolog.Nop(), &domain.Config{}, nil),
		failing: map[string]bool{},
	}
	for _, f := range failing {
		images.failing[f] = true
	}
	return NewAssembler(zerolog.Nop(), images, prefetch)
}

var testTables = genre.NewTables(
	[]domain.Genre{{ID: 1, Name: "Action"}, {ID: 2, Name: "Drama"}, {ID: 3, Name: "Comedy"}, {ID: 4, Name: "Horror"}, {ID: 5, Name: "Music"}},
	[]domain.Genre{{ID: 1, Name: "Kids"}, {ID: 6, Name: "Reality"}},
)

func TestEntryKind(t *testing.T) {
	cases := []struct {
		entry domain.MediaEntry
		kind  domain.MediaKind
		ok    bool
	}{
		{domain.MediaEntry{Kind: domain.MediaKindTV}, domain.MediaKindTV, true},
		{domain.MediaEntry{MediaType: "movie", FirstAirDate: "2020-01-01"}, domain.MediaKindMovie, true},
		{domain.MediaEntry{MediaType: "tv"}, domain.MediaKindTV, true},
		{domain.MediaEntry{FirstAirDate: "2008-01-20"}, domain.MediaKindTV, true},
		{domain.MediaEntry{ReleaseDate: "1999-03-30"}, domain.MediaKindMovie, true},
		{domain.MediaEntry{MediaType: "person"}, "", false},
	}
	for _, tc := range cases {
		kind, ok := EntryKind(tc.entry)
		assert.Equal(t, tc.ok, ok)
		assert.Equal(t, tc.kind, kind)
	}
}

func TestFromEntriesSubtitleCap(t *testing.T) {
	a := newAssembler(false)
	entries := []domain.MediaEntry{{ID: 10, Title: "Five Genres", MediaType: "movie", GenreIDs: []int{1, 2, 3, 4, 5}}}

	three := a.FromEntries(context.Background(), entries, testTables, 3)
	require.Len(t, three, 1)
	assert.Equal(t, "Action, Drama, Comedy", three[0].Subtitle)

	two := a.FromEntries(context.Background(), entries, testTables, 2)
	assert.Equal(t, "Action, Drama", two[0].Subtitle)
}

func TestFromEntriesFields(t *testing.T) {
	a := newAssembler(false)
	entries := []domain.MediaEntry{
		{ID: 603, Title: "The Matrix", ReleaseDate: "1999-03-30", GenreIDs: []int{1, 99}, PosterPath: "/m.jpg", BackdropPath: "/b.jpg", Overview: "Neo."},
		{ID: 1399, Name: "Kids Show", FirstAirDate: "2011-04-17", GenreIDs: []int{1, 6}},
		{ID: 7, MediaType: "person", Name: "Somebody"},
		{ID: 8, MediaType: "movie"},
	}

	items := a.FromEntries(context.Background(), entries, testTables, 3)
	require.Len(t, items, 3)

	movie := items[0]
	assert.Equal(t, "The Matrix", movie.Title)
	assert.Equal(t, "Action", movie.Subtitle)
	assert.Equal(t, domain.MediaKindMovie, movie.MediaKind)
	assert.Equal(t, 603, movie.ExternalID)
	assert.Equal(t, "https://image.tmdb.org/t/p/w500/m.jpg", movie.Poster.URL)
	assert.Equal(t, "https://image.tmdb.org/t/p/w780/b.jpg", movie.Backdrop.URL)
	assert.Nil(t, movie.Poster.Data)
	assert.Equal(t, []domain.MetaChip{
		{Kind: domain.MetaChipYear, Text: "1999"},
		{Kind: domain.MetaChipGenre, Text: "Action"},
	}, movie.MetaChips)

	show := items[1]
	assert.Equal(t, "Kids Show", show.Title)
	assert.Equal(t, domain.MediaKindTV, show.MediaKind)
	assert.Equal(t, "Kids, Reality", show.Subtitle, "tv ids resolve against the tv table")
	assert.Nil(t, show.Poster)

	untitledItem := items[2]
	assert.Equal(t, "Untitled", untitledItem.Title)
	assert.Equal(t, "", untitledItem.Subtitle)
	assert.Empty(t, untitledItem.MetaChips)
}

func TestLoadImagesPrefetch(t *testing.T) {
	a := newAssembler(true, "https://image.tmdb.org/t/p/w780/bad.jpg")
	entries := []domain.MediaEntry{
		{ID: 1, Title: "A", PosterPath: "/a.jpg", BackdropPath: "/bad.jpg"},
		{ID: 2, Title: "B", PosterPath: "/b.jpg"},
	}

	items := a.FromEntries(context.Background(), entries, testTables, 3)
	require.Len(t, items, 2)
	assert.Equal(t, "A", items[0].Title)
	assert.Equal(t, []byte("https://image.tmdb.org/t/p/w500/a.jpg"), items[0].Poster.Data)
	assert.Nil(t, items[0].Backdrop)
	assert.Equal(t, []byte("https://image.tmdb.org/t/p/w500/b.jpg"), items[1].Poster.Data)
}

func TestFromDetails(t *testing.T) {
	a := newAssembler(false)

	movie := a.FromMovie(&domain.MovieDetails{
		ID: 603, Title: "The Matrix", ReleaseDate: "1999-03-30",
		Genres: []domain.Genre{{ID: 28, Name: "Action"}, {ID: 878, Name: "Science Fiction"}, {ID: 53, Name: "Thriller"}, {ID: 12, Name: "Adventure"}},
	}, 3)
	assert.Equal(t, "Action, Science Fiction, Thriller", movie.Subtitle)
	assert.Equal(t, []int{28, 878, 53, 12}, movie.GenreIDs)
	assert.Equal(t, domain.MediaKindMovie, movie.MediaKind)

	show := a.FromTV(&domain.TVDetails{ID: 1399, Name: "Game of Thrones", FirstAirDate: "2011-04-17", NumberOfSeasons: 8}, 3)
	assert.Equal(t, domain.MediaKindTV, show.MediaKind)
	assert.Equal(t, []domain.MetaChip{
		{Kind: domain.MetaChipYear, Text: "2011"},
		{Kind: domain.MetaChipSeason, Text: "8 Seasons"},
	}, show.MetaChips)

	assert.Equal(t, "Untitled", a.FromTV(&domain.TVDetails{ID: 1, NumberOfSeasons: 1}, 3).Title)
}

func TestYear(t *testing.T) {
	assert.Equal(t, "2024", Year("2024-05-01"))
	assert.Equal(t, "", Year("199"))
	assert.Equal(t, "", Year(""))
}
