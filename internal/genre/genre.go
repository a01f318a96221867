package genre

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/mozillazg/go-unidecode"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/sourcegraph/conc/pool"
	"golang.org/x/text/cases"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/varoOP/reelshelf/internal/domain"
	"github.com/varoOP/reelshelf/internal/tmdb"
)

type Service interface {
	// MergedGenreNames returns the movie and tv genre names merged into one
	// deduplicated, capitalized, locale-sorted list.
	MergedGenreNames(ctx context.Context, lang string) ([]string, error)
	// Tables fetches both genre lists and builds the per-kind lookups.
	Tables(ctx context.Context, lang string) (*Tables, error)
}

type service struct {
	log     zerolog.Logger
	catalog tmdb.Catalog
}

func NewService(log zerolog.Logger, catalog tmdb.Catalog) Service {
	return &service{
		log:     log.With().Str("module", "genre").Logger(),
		catalog: catalog,
	}
}

func (s *service) MergedGenreNames(ctx context.Context, lang string) ([]string, error) {
	t, err := s.Tables(ctx, lang)
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(t.genres[domain.MediaKindMovie])+len(t.genres[domain.MediaKindTV]))
	for _, kind := range domain.MediaKinds {
		for _, g := range t.genres[kind] {
			names = append(names, g.Name)
		}
	}

	merged := MergeNames(names, lang)
	s.log.Debug().Int("count", len(merged)).Str("language", lang).Msg("merged genre names")

	return merged, nil
}

func (s *service) Tables(ctx context.Context, lang string) (*Tables, error) {
	lists := make([][]domain.Genre, len(domain.MediaKinds))

	p := pool.New().WithContext(ctx).WithCancelOnError().WithFirstError()
	for i, kind := range domain.MediaKinds {
		p.Go(func(ctx context.Context) error {
			genres, err := s.catalog.Genres(ctx, kind, lang)
			if err != nil {
				return errors.Wrapf(err, "failed to fetch %s genres", kind)
			}
			lists[i] = genres
			return nil
		})
	}
	if err := p.Wait(); err != nil {
		return nil, err
	}

	return NewTables(lists[0], lists[1]), nil
}

// MergeNames deduplicates names case- and diacritic-insensitively (first
// occurrence wins), capitalizes each survivor and sorts with the collation
// rules of lang.
func MergeNames(names []string, lang string) []string {
	tag := parseTag(lang)
	seen := make(map[string]struct{}, len(names))
	out := make([]string, 0, len(names))

	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		key := FoldKey(name)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, Capitalize(name, tag))
	}

	collate.New(tag, collate.IgnoreCase).SortStrings(out)
	return out
}

// FoldKey is the comparison key for genre names: transliterated to ASCII and
// case folded, so "Drâme" and "drame" collide.
func FoldKey(name string) string {
	return cases.Fold().String(strings.TrimSpace(unidecode.Unidecode(name)))
}

// Capitalize upper-cases the first rune and lower-cases the rest.
func Capitalize(name string, tag language.Tag) string {
	r, size := utf8.DecodeRuneInString(name)
	if r == utf8.RuneError {
		return name
	}
	return cases.Upper(tag).String(string(r)) + cases.Lower(tag).String(name[size:])
}

func parseTag(lang string) language.Tag {
	tag, err := language.Parse(lang)
	if err != nil {
		return language.English
	}
	return tag
}
