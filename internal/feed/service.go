package feed

import (
	"context"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/varoOP/reelshelf/internal/display"
	"github.com/varoOP/reelshelf/internal/domain"
	"github.com/varoOP/reelshelf/internal/genre"
	"github.com/varoOP/reelshelf/internal/tmdb"
)

const (
	// FallbackSampleSize is how many random genres stand in for an empty
	// preference list.
	FallbackSampleSize = 5

	recommendedGenreCap = 3
	trendingGenreCap    = 2
	searchGenreCap      = 3
)

type Service interface {
	LoadRecommended(ctx context.Context, preferredGenres []string, page int) ([]domain.MediaDisplayItem, error)
	LoadRecommendedForUser(ctx context.Context, userID string, page int) ([]domain.MediaDisplayItem, error)
	LoadTrending(ctx context.Context, window domain.TimeWindow, page int) ([]domain.MediaDisplayItem, error)
	Search(ctx context.Context, query string, page int) ([]domain.MediaDisplayItem, error)
}

type Option func(*service)

// WithRand sets the random source used for fallback genre sampling.
func WithRand(r *rand.Rand) Option {
	return func(s *service) {
		s.rnd = r
	}
}

type service struct {
	log       zerolog.Logger
	language  string
	catalog   tmdb.Catalog
	genres    genre.Service
	assembler *display.Assembler
	profiles  domain.ProfileRepo

	mu  sync.Mutex
	rnd *rand.Rand
}

func NewService(log zerolog.Logger, cfg *domain.Config, catalog tmdb.Catalog, genres genre.Service, assembler *display.Assembler, profiles domain.ProfileRepo, opts ...Option) Service {
	s := &service{
		log:       log.With().Str("module", "feed").Logger(),
		language:  cfg.Language,
		catalog:   catalog,
		genres:    genres,
		assembler: assembler,
		profiles:  profiles,
	}
	if s.language == "" {
		s.language = domain.DefaultLanguage
	}

	seed := uint64(cfg.DiscoverSeed)
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	s.rnd = rand.New(rand.NewPCG(seed, seed>>1|1))

	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *service) LoadRecommended(ctx context.Context, preferredGenres []string, page int) ([]domain.MediaDisplayItem, error) {
	tables, err := s.genres.Tables(ctx, s.language)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load genre tables")
	}

	chosen := preferredGenres
	if len(chosen) == 0 {
		s.mu.Lock()
		chosen = SampleGenres(tables.AllNames(), FallbackSampleSize, s.rnd)
		s.mu.Unlock()
		s.log.Debug().Strs("genres", chosen).Msg("no preferred genres, using random sample")
	}

	movieIDs, tvIDs := tables.Resolve(chosen)
	res, err := s.catalog.Discover(ctx, tmdb.DiscoverQuery{
		MovieGenreIDs: movieIDs,
		TVGenreIDs:    tvIDs,
		Page:          page,
		Language:      s.language,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to discover titles")
	}

	items := s.assembler.FromEntries(ctx, res.Results, tables, recommendedGenreCap)

	s.log.Debug().
		Strs("genres", chosen).
		Int("page", page).
		Int("items", len(items)).
		Msg("loaded recommended feed")

	return items, nil
}

// LoadRecommendedForUser uses the favorite genres stored on the user's
// profile. A missing profile behaves like an empty preference list.
func (s *service) LoadRecommendedForUser(ctx context.Context, userID string, page int) ([]domain.MediaDisplayItem, error) {
	if s.profiles == nil {
		return s.LoadRecommended(ctx, nil, page)
	}

	var preferred []string
	profile, err := s.profiles.Get(ctx, userID)
	switch {
	case err == nil:
		preferred = profile.FavoriteGenres
	case errors.Is(err, domain.ErrNotFound):
		s.log.Debug().Str("user_id", userID).Msg("no profile, falling back to random genres")
	default:
		return nil, errors.Wrap(err, "failed to load profile")
	}

	return s.LoadRecommended(ctx, preferred, page)
}

// SampleGenres shuffles a copy of names with r and returns the first n.
func SampleGenres(names []string, n int, r *rand.Rand) []string {
	shuffled := make([]string, len(names))
	copy(shuffled, names)
	r.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})
	if n < len(shuffled) {
		shuffled = shuffled[:n]
	}
	return shuffled
}
