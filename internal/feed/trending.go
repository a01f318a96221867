package feed

import (
	"context"

	"github.com/pkg/errors"
	"github.com/sourcegraph/conc/pool"

	"github.com/varoOP/reelshelf/internal/domain"
	"github.com/varoOP/reelshelf/internal/genre"
)

// LoadTrending fetches the trending feed and the genre tables concurrently
// and assembles items with at most two genres in the subtitle.
func (s *service) LoadTrending(ctx context.Context, window domain.TimeWindow, page int) ([]domain.MediaDisplayItem, error) {
	var (
		tables *genre.Tables
		res    *domain.Paged[domain.MediaEntry]
	)

	p := pool.New().WithContext(ctx).WithCancelOnError().WithFirstError()
	p.Go(func(ctx context.Context) error {
		var err error
		tables, err = s.genres.Tables(ctx, s.language)
		return errors.Wrap(err, "failed to load genre tables")
	})
	p.Go(func(ctx context.Context) error {
		var err error
		res, err = s.catalog.Trending(ctx, window, page, s.language)
		return errors.Wrap(err, "failed to load trending")
	})
	if err := p.Wait(); err != nil {
		return nil, err
	}

	items := s.assembler.FromEntries(ctx, res.Results, tables, trendingGenreCap)

	s.log.Debug().
		Str("window", string(window)).
		Int("page", page).
		Int("items", len(items)).
		Msg("loaded trending feed")

	return items, nil
}

// Search runs a multi-search and assembles the movie and tv results.
func (s *service) Search(ctx context.Context, query string, page int) ([]domain.MediaDisplayItem, error) {
	var (
		tables *genre.Tables
		res    *domain.Paged[domain.MediaEntry]
	)

	p := pool.New().WithContext(ctx).WithCancelOnError().WithFirstError()
	p.Go(func(ctx context.Context) error {
		var err error
		tables, err = s.genres.Tables(ctx, s.language)
		return errors.Wrap(err, "failed to load genre tables")
	})
	p.Go(func(ctx context.Context) error {
		var err error
		res, err = s.catalog.SearchMulti(ctx, query, page, s.language)
		return errors.Wrap(err, "failed to search")
	})
	if err := p.Wait(); err != nil {
		return nil, err
	}

	return s.assembler.FromEntries(ctx, res.Results, tables, searchGenreCap), nil
}
