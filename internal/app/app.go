package app

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/varoOP/reelshelf/internal/config"
	"github.com/varoOP/reelshelf/internal/database"
	"github.com/varoOP/reelshelf/internal/display"
	"github.com/varoOP/reelshelf/internal/domain"
	"github.com/varoOP/reelshelf/internal/favorites"
	"github.com/varoOP/reelshelf/internal/feed"
	"github.com/varoOP/reelshelf/internal/genre"
	"github.com/varoOP/reelshelf/internal/image"
	"github.com/varoOP/reelshelf/internal/logger"
	"github.com/varoOP/reelshelf/internal/tmdb"
)

const detailsGenreCap = 3

// App represents the main application with all dependencies initialized
type App struct {
	log              zerolog.Logger
	config           *domain.Config
	db               *database.DB
	profileRepo      domain.ProfileRepo
	catalog          tmdb.Catalog
	imageService     image.Service
	genreService     genre.Service
	feedService      feed.Service
	favoritesService favorites.Service
	assembler        *display.Assembler
}

// NewApp loads the configuration and wires every service.
func NewApp() (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	log := logger.New(logger.Options{Level: cfg.LogLevel, File: cfg.LogFile})

	return New(log, cfg)
}

// New wires the application from an already loaded configuration.
func New(log zerolog.Logger, cfg *domain.Config) (*App, error) {
	db, err := database.NewDB(cfg.DBDir, log)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	profileRepo := database.NewProfileRepo(log, db)
	catalog := tmdb.NewCatalog(log, tmdb.NewClient(log, cfg))
	imageService := image.NewService(log, cfg, nil)
	assembler := display.NewAssembler(log, imageService, cfg.ImagesPrefetch)
	genreService := genre.NewService(log, catalog)

	return &App{
		log:              log,
		config:           cfg,
		db:               db,
		profileRepo:      profileRepo,
		catalog:          catalog,
		imageService:     imageService,
		genreService:     genreService,
		feedService:      feed.NewService(log, cfg, catalog, genreService, assembler, profileRepo),
		favoritesService: favorites.NewService(log, cfg, profileRepo, catalog, assembler),
		assembler:        assembler,
	}, nil
}

func (a *App) Close() error {
	return a.db.Close()
}

func (a *App) Feed() feed.Service {
	return a.feedService
}

func (a *App) Favorites() favorites.Service {
	return a.favoritesService
}

// Genres returns the merged, deduplicated genre names for the configured
// language.
func (a *App) Genres(ctx context.Context) ([]string, error) {
	return a.genreService.MergedGenreNames(ctx, a.config.Language)
}

// Details fetches a single title and assembles it as a display item.
func (a *App) Details(ctx context.Context, kind domain.MediaKind, id int) (domain.MediaDisplayItem, error) {
	var item domain.MediaDisplayItem
	switch kind {
	case domain.MediaKindMovie:
		d, err := a.catalog.MovieDetails(ctx, id, a.config.Language)
		if err != nil {
			return item, errors.Wrapf(err, "could not fetch movie %d", id)
		}
		item = a.assembler.FromMovie(d, detailsGenreCap)
	case domain.MediaKindTV:
		d, err := a.catalog.TVDetails(ctx, id, a.config.Language)
		if err != nil {
			return item, errors.Wrapf(err, "could not fetch tv %d", id)
		}
		item = a.assembler.FromTV(d, detailsGenreCap)
	default:
		return item, errors.Errorf("unknown media kind %q", kind)
	}

	items := []domain.MediaDisplayItem{item}
	a.assembler.LoadImages(ctx, items)
	return items[0], nil
}

// Credits fetches cast and crew with profile paths resolved to CDN URLs.
func (a *App) Credits(ctx context.Context, kind domain.MediaKind, id int) (*domain.Credits, error) {
	credits, err := a.catalog.Credits(ctx, kind, id, a.config.Language)
	if err != nil {
		return nil, errors.Wrapf(err, "could not fetch credits for %s %d", kind, id)
	}

	for i := range credits.Cast {
		credits.Cast[i].ProfilePath, _ = a.imageService.Resolve(image.KindProfile, credits.Cast[i].ProfilePath)
	}
	for i := range credits.Crew {
		credits.Crew[i].ProfilePath, _ = a.imageService.Resolve(image.KindProfile, credits.Crew[i].ProfilePath)
	}
	return credits, nil
}

// Reviews fetches one page of reviews with author avatars resolved.
func (a *App) Reviews(ctx context.Context, kind domain.MediaKind, id, page int) (*domain.Paged[domain.Review], error) {
	reviews, err := a.catalog.Reviews(ctx, kind, id, page)
	if err != nil {
		return nil, errors.Wrapf(err, "could not fetch reviews for %s %d", kind, id)
	}

	for i := range reviews.Results {
		author := &reviews.Results[i].AuthorDetails
		author.AvatarPath, _ = a.imageService.ResolveAvatar(author.AvatarPath)
	}
	return reviews, nil
}

func (a *App) Season(ctx context.Context, tvID, season int) (*domain.SeasonDetails, error) {
	details, err := a.catalog.Season(ctx, tvID, season, a.config.Language)
	if err != nil {
		return nil, errors.Wrapf(err, "could not fetch season %d of tv %d", season, tvID)
	}

	details.PosterPath, _ = a.imageService.Resolve(image.KindPoster, details.PosterPath)
	return details, nil
}

func (a *App) Profile(ctx context.Context, userID string) (*domain.Profile, error) {
	return a.profileRepo.Get(ctx, userID)
}

// SaveProfile writes p, assigning a fresh id when it has none.
func (a *App) SaveProfile(ctx context.Context, p *domain.Profile) (*domain.Profile, error) {
	if p.UserID == "" {
		p.UserID = uuid.NewString()
	}

	if err := a.profileRepo.Upsert(ctx, p); err != nil {
		return nil, errors.Wrapf(err, "could not save profile %s", p.UserID)
	}

	a.log.Info().Str("user", p.UserID).Msg("profile saved")
	return a.profileRepo.Get(ctx, p.UserID)
}
