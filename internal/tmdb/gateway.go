package tmdb

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
	"github.com/sourcegraph/conc/pool"

	"github.com/varoOP/reelshelf/internal/domain"
)

// Catalog is the typed façade over the TMDB endpoints used by the
// aggregators. Errors from the Client are returned unchanged.
type Catalog interface {
	Genres(ctx context.Context, kind domain.MediaKind, language string) ([]domain.Genre, error)
	MovieDetails(ctx context.Context, id int, language string) (*domain.MovieDetails, error)
	TVDetails(ctx context.Context, id int, language string) (*domain.TVDetails, error)
	Credits(ctx context.Context, kind domain.MediaKind, id int, language string) (*domain.Credits, error)
	Reviews(ctx context.Context, kind domain.MediaKind, id, page int) (*domain.Paged[domain.Review], error)
	Season(ctx context.Context, tvID, season int, language string) (*domain.SeasonDetails, error)
	Trending(ctx context.Context, window domain.TimeWindow, page int, language string) (*domain.Paged[domain.MediaEntry], error)
	Discover(ctx context.Context, q DiscoverQuery) (*domain.Paged[domain.MediaEntry], error)
	SearchMulti(ctx context.Context, query string, page int, language string) (*domain.Paged[domain.MediaEntry], error)
}

// DiscoverQuery filters the combined movie+tv discover feed. A kind whose
// genre list is empty is queried without a genre filter.
type DiscoverQuery struct {
	MovieGenreIDs []int
	TVGenreIDs    []int
	Page          int
	Language      string
}

type gateway struct {
	log    zerolog.Logger
	client *Client
}

func NewCatalog(log zerolog.Logger, client *Client) Catalog {
	return &gateway{
		log:    log.With().Str("module", "catalog").Logger(),
		client: client,
	}
}

func (g *gateway) Genres(ctx context.Context, kind domain.MediaKind, language string) ([]domain.Genre, error) {
	res, err := Get[domain.GenreList](ctx, g.client, fmt.Sprintf("/genre/%s/list", kind), languageQuery(language))
	if err != nil {
		return nil, err
	}
	return res.Genres, nil
}

func (g *gateway) MovieDetails(ctx context.Context, id int, language string) (*domain.MovieDetails, error) {
	return Get[domain.MovieDetails](ctx, g.client, fmt.Sprintf("/movie/%d", id), languageQuery(language))
}

func (g *gateway) TVDetails(ctx context.Context, id int, language string) (*domain.TVDetails, error) {
	return Get[domain.TVDetails](ctx, g.client, fmt.Sprintf("/tv/%d", id), languageQuery(language))
}

func (g *gateway) Credits(ctx context.Context, kind domain.MediaKind, id int, language string) (*domain.Credits, error) {
	return Get[domain.Credits](ctx, g.client, fmt.Sprintf("/%s/%d/credits", kind, id), languageQuery(language))
}

func (g *gateway) Reviews(ctx context.Context, kind domain.MediaKind, id, page int) (*domain.Paged[domain.Review], error) {
	return Get[domain.Paged[domain.Review]](ctx, g.client, fmt.Sprintf("/%s/%d/reviews", kind, id), pageQuery(page))
}

func (g *gateway) Season(ctx context.Context, tvID, season int, language string) (*domain.SeasonDetails, error) {
	return Get[domain.SeasonDetails](ctx, g.client, fmt.Sprintf("/tv/%d/season/%d", tvID, season), languageQuery(language))
}

func (g *gateway) Trending(ctx context.Context, window domain.TimeWindow, page int, language string) (*domain.Paged[domain.MediaEntry], error) {
	q := pageQuery(page)
	if language != "" {
		q.Set("language", language)
	}
	return Get[domain.Paged[domain.MediaEntry]](ctx, g.client, fmt.Sprintf("/trending/all/%s", window), q)
}

func (g *gateway) SearchMulti(ctx context.Context, query string, page int, language string) (*domain.Paged[domain.MediaEntry], error) {
	q := pageQuery(page)
	q.Set("query", query)
	q.Set("include_adult", "false")
	if language != "" {
		q.Set("language", language)
	}
	return Get[domain.Paged[domain.MediaEntry]](ctx, g.client, "/search/multi", q)
}

// Discover queries /discover/movie and /discover/tv concurrently and merges
// them: movie results first, then tv results, each in API order.
func (g *gateway) Discover(ctx context.Context, dq DiscoverQuery) (*domain.Paged[domain.MediaEntry], error) {
	byKind := map[domain.MediaKind][]int{
		domain.MediaKindMovie: dq.MovieGenreIDs,
		domain.MediaKindTV:    dq.TVGenreIDs,
	}

	pages := make([]*domain.Paged[domain.MediaEntry], len(domain.MediaKinds))
	p := pool.New().WithContext(ctx).WithCancelOnError().WithFirstError()
	for i, kind := range domain.MediaKinds {
		ids := byKind[kind]
		p.Go(func(ctx context.Context) error {
			q := pageQuery(dq.Page)
			if len(ids) > 0 {
				q.Set("with_genres", joinIDs(ids))
			}
			q.Set("sort_by", "popularity.desc")
			q.Set("include_adult", "false")
			if dq.Language != "" {
				q.Set("language", dq.Language)
			}

			res, err := Get[domain.Paged[domain.MediaEntry]](ctx, g.client, fmt.Sprintf("/discover/%s", kind), q)
			if err != nil {
				return err
			}
			for j := range res.Results {
				res.Results[j].MediaType = string(kind)
				res.Results[j].Kind = kind
			}
			pages[i] = res
			return nil
		})
	}
	if err := p.Wait(); err != nil {
		return nil, err
	}

	merged := &domain.Paged[domain.MediaEntry]{Page: max(dq.Page, 1)}
	for _, res := range pages {
		merged.Results = append(merged.Results, res.Results...)
		merged.TotalResults += res.TotalResults
		merged.TotalPages = max(merged.TotalPages, res.TotalPages)
	}

	g.log.Debug().
		Ints("movie_genres", dq.MovieGenreIDs).
		Ints("tv_genres", dq.TVGenreIDs).
		Int("page", merged.Page).
		Int("results", len(merged.Results)).
		Msg("discover")

	return merged, nil
}

func languageQuery(language string) url.Values {
	q := url.Values{}
	if language != "" {
		q.Set("language", language)
	}
	return q
}

func pageQuery(page int) url.Values {
	q := url.Values{}
	q.Set("page", strconv.Itoa(max(page, 1)))
	return q
}

// joinIDs OR-joins genre ids the way TMDB's with_genres expects.
func joinIDs(ids []int) string {
	s := make([]string, len(ids))
	for i, id := range ids {
		s[i] = strconv.Itoa(id)
	}
	return strings.Join(s, "|")
}
