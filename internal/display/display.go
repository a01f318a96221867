package display

import (
	"context"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
	"github.com/sourcegraph/conc/pool"

	"github.com/varoOP/reelshelf/internal/domain"
	"github.com/varoOP/reelshelf/internal/genre"
	"github.com/varoOP/reelshelf/internal/image"
)

const (
	untitled      = "Untitled"
	subtitleSep   = ", "
	maxImageLoads = 8
)

// Assembler turns catalog entries and detail records into display items.
type Assembler struct {
	log      zerolog.Logger
	images   image.Service
	prefetch bool
}

func NewAssembler(log zerolog.Logger, images image.Service, prefetch bool) *Assembler {
	return &Assembler{
		log:      log.With().Str("module", "display").Logger(),
		images:   images,
		prefetch: prefetch,
	}
}

// EntryKind returns the media kind of a listing entry. Untagged entries are
// tv when they carry a first-air date. People and other types report false.
func EntryKind(e domain.MediaEntry) (domain.MediaKind, bool) {
	if e.Kind.Valid() {
		return e.Kind, true
	}
	switch e.MediaType {
	case string(domain.MediaKindMovie):
		return domain.MediaKindMovie, true
	case string(domain.MediaKindTV):
		return domain.MediaKindTV, true
	case "":
		if e.FirstAirDate != "" {
			return domain.MediaKindTV, true
		}
		return domain.MediaKindMovie, true
	}
	return "", false
}

// FromEntries builds one item per movie or tv entry, preserving order, with
// subtitles capped at genreCap names.
func (a *Assembler) FromEntries(ctx context.Context, entries []domain.MediaEntry, tables *genre.Tables, genreCap int) []domain.MediaDisplayItem {
	items := make([]domain.MediaDisplayItem, 0, len(entries))
	for _, e := range entries {
		kind, ok := EntryKind(e)
		if !ok {
			a.log.Trace().Int("id", e.ID).Str("media_type", e.MediaType).Msg("skipping non-title entry")
			continue
		}

		title, date := e.Title, e.ReleaseDate
		if kind == domain.MediaKindTV {
			title, date = e.Name, e.FirstAirDate
		}
		title = firstNonEmpty(title, e.Title, e.Name, untitled)

		names := tables.Names(kind, e.GenreIDs, genreCap)
		items = append(items, domain.MediaDisplayItem{
			Title:      title,
			Subtitle:   strings.Join(names, subtitleSep),
			Poster:     a.resolve(image.KindPoster, e.PosterPath),
			Backdrop:   a.resolve(image.KindBackdrop, e.BackdropPath),
			Overview:   e.Overview,
			MetaChips:  chips(date, 0, names),
			ExternalID: e.ID,
			MediaKind:  kind,
			GenreIDs:   e.GenreIDs,
		})
	}

	a.LoadImages(ctx, items)
	return items
}

// FromMovie builds an item from movie details. Images are not loaded.
func (a *Assembler) FromMovie(d *domain.MovieDetails, genreCap int) domain.MediaDisplayItem {
	names, ids := genreNames(d.Genres, genreCap)
	return domain.MediaDisplayItem{
		Title:      firstNonEmpty(d.Title, untitled),
		Subtitle:   strings.Join(names, subtitleSep),
		Poster:     a.resolve(image.KindPoster, d.PosterPath),
		Backdrop:   a.resolve(image.KindBackdrop, d.BackdropPath),
		Overview:   d.Overview,
		MetaChips:  chips(d.ReleaseDate, 0, names),
		ExternalID: d.ID,
		MediaKind:  domain.MediaKindMovie,
		GenreIDs:   ids,
	}
}

// FromTV builds an item from tv details. Images are not loaded.
func (a *Assembler) FromTV(d *domain.TVDetails, genreCap int) domain.MediaDisplayItem {
	names, ids := genreNames(d.Genres, genreCap)
	return domain.MediaDisplayItem{
		Title:      firstNonEmpty(d.Name, untitled),
		Subtitle:   strings.Join(names, subtitleSep),
		Poster:     a.resolve(image.KindPoster, d.PosterPath),
		Backdrop:   a.resolve(image.KindBackdrop, d.BackdropPath),
		Overview:   d.Overview,
		MetaChips:  chips(d.FirstAirDate, d.NumberOfSeasons, names),
		ExternalID: d.ID,
		MediaKind:  domain.MediaKindTV,
		GenreIDs:   ids,
	}
}

// LoadImages fetches poster and backdrop bytes concurrently when prefetching
// is enabled. An image that fails to load is dropped from its item; the
// order of items is unchanged.
func (a *Assembler) LoadImages(ctx context.Context, items []domain.MediaDisplayItem) {
	if !a.prefetch || len(items) == 0 {
		return
	}

	p := pool.New().WithMaxGoroutines(maxImageLoads)
	for i := range items {
		for _, slot := range []**domain.Image{&items[i].Poster, &items[i].Backdrop} {
			if *slot == nil {
				continue
			}
			p.Go(func() {
				*slot = a.images.Load(ctx, (*slot).URL)
			})
		}
	}
	p.Wait()
}

func (a *Assembler) resolve(kind image.Kind, path string) *domain.Image {
	u, ok := a.images.Resolve(kind, path)
	if !ok {
		return nil
	}
	return &domain.Image{URL: u}
}

func genreNames(genres []domain.Genre, limit int) ([]string, []int) {
	var names []string
	ids := make([]int, 0, len(genres))
	for _, g := range genres {
		ids = append(ids, g.ID)
		if g.Name != "" && (limit <= 0 || len(names) < limit) {
			names = append(names, g.Name)
		}
	}
	return names, ids
}

func chips(date string, seasons int, genres []string) []domain.MetaChip {
	var out []domain.MetaChip
	if year := Year(date); year != "" {
		out = append(out, domain.MetaChip{Kind: domain.MetaChipYear, Text: year})
	}
	if seasons > 0 {
		text := strconv.Itoa(seasons) + " Seasons"
		if seasons == 1 {
			text = "1 Season"
		}
		out = append(out, domain.MetaChip{Kind: domain.MetaChipSeason, Text: text})
	}
	if len(genres) > 0 {
		out = append(out, domain.MetaChip{Kind: domain.MetaChipGenre, Text: genres[0]})
	}
	return out
}

// Year returns the first four characters of an ISO date, or "" when the date
// is shorter than that.
func Year(date string) string {
	date = strings.TrimSpace(date)
	if len(date) < 4 {
		return ""
	}
	return date[:4]
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
