package favorites

import (
	"context"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/sourcegraph/conc/pool"

	"github.com/varoOP/reelshelf/internal/display"
	"github.com/varoOP/reelshelf/internal/domain"
	"github.com/varoOP/reelshelf/internal/tmdb"
)

const (
	genreCap         = 3
	maxDetailFetches = 6
)

type Service interface {
	Toggle(ctx context.Context, userID string, item domain.MediaDisplayItem, isFavorite bool) error
	IsFavorite(ctx context.Context, userID string, item domain.MediaDisplayItem) (bool, error)
	Load(ctx context.Context, userID string) ([]domain.MediaDisplayItem, error)
}

type service struct {
	log       zerolog.Logger
	language  string
	repo      domain.ProfileRepo
	catalog   tmdb.Catalog
	assembler *display.Assembler
}

func NewService(log zerolog.Logger, cfg *domain.Config, repo domain.ProfileRepo, catalog tmdb.Catalog, assembler *display.Assembler) Service {
	s := &service{
		log:       log.With().Str("module", "favorites").Logger(),
		language:  cfg.Language,
		repo:      repo,
		catalog:   catalog,
		assembler: assembler,
	}
	if s.language == "" {
		s.language = domain.DefaultLanguage
	}
	return s
}

// Toggle adds or removes the item from the user's favorites. Items without
// an identity are ignored.
func (s *service) Toggle(ctx context.Context, userID string, item domain.MediaDisplayItem, isFavorite bool) error {
	key, ok := item.FavoriteKey()
	if !ok {
		s.log.Debug().Str("title", item.Title).Msg("item has no identity, not toggling favorite")
		return nil
	}

	if isFavorite {
		if err := s.repo.AddFavorite(ctx, userID, key.String()); err != nil {
			return errors.Wrapf(err, "could not add favorite %s", key)
		}
	} else {
		if err := s.repo.RemoveFavorite(ctx, userID, key.String()); err != nil {
			return errors.Wrapf(err, "could not remove favorite %s", key)
		}
	}

	s.log.Debug().Str("user", userID).Stringer("key", key).Bool("favorite", isFavorite).Msg("favorite toggled")
	return nil
}

func (s *service) IsFavorite(ctx context.Context, userID string, item domain.MediaDisplayItem) (bool, error) {
	key, ok := item.FavoriteKey()
	if !ok {
		return false, nil
	}

	has, err := s.repo.HasFavorite(ctx, userID, key.String())
	if err != nil {
		return false, errors.Wrapf(err, "could not check favorite %s", key)
	}
	return has, nil
}

// Load resolves the user's favorites into display items in the order they
// were added. Any failed detail fetch fails the whole load.
func (s *service) Load(ctx context.Context, userID string) ([]domain.MediaDisplayItem, error) {
	stored, err := s.repo.Favorites(ctx, userID)
	if err != nil {
		return nil, errors.Wrap(err, "could not read favorites")
	}

	keys := DecodeKeys(s.log, stored)
	if len(keys) == 0 {
		return []domain.MediaDisplayItem{}, nil
	}

	items := make([]domain.MediaDisplayItem, len(keys))
	p := pool.New().WithContext(ctx).WithCancelOnError().WithFirstError().WithMaxGoroutines(maxDetailFetches)
	for i, key := range keys {
		p.Go(func(ctx context.Context) error {
			item, err := s.fetch(ctx, key)
			if err != nil {
				return errors.Wrapf(err, "could not load favorite %s", key)
			}
			items[i] = item
			return nil
		})
	}
	if err := p.Wait(); err != nil {
		return nil, err
	}

	s.assembler.LoadImages(ctx, items)
	return items, nil
}

func (s *service) fetch(ctx context.Context, key domain.FavoriteKey) (domain.MediaDisplayItem, error) {
	switch key.Kind {
	case domain.MediaKindTV:
		d, err := s.catalog.TVDetails(ctx, key.ID, s.language)
		if err != nil {
			return domain.MediaDisplayItem{}, err
		}
		return s.assembler.FromTV(d, genreCap), nil
	default:
		d, err := s.catalog.MovieDetails(ctx, key.ID, s.language)
		if err != nil {
			return domain.MediaDisplayItem{}, err
		}
		return s.assembler.FromMovie(d, genreCap), nil
	}
}

// DecodeKeys parses stored keys, dropping malformed ones.
func DecodeKeys(log zerolog.Logger, stored []string) []domain.FavoriteKey {
	keys := make([]domain.FavoriteKey, 0, len(stored))
	for _, raw := range stored {
		key, ok := domain.ParseFavoriteKey(raw)
		if !ok {
			log.Warn().Str("key", raw).Msg("dropping malformed favorite key")
			continue
		}
		keys = append(keys, key)
	}
	return keys
}
