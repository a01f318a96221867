package feed

import (
	"context"
	"math/rand/v2"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/varoOP/reelshelf/internal/display"
	"github.com/varoOP/reelshelf/internal/domain"
	"github.com/varoOP/reelshelf/internal/genre"
	"github.com/varoOP/reelshelf/internal/image"
	"github.com/varoOP/reelshelf/internal/tmdb"
)

const (
	movieGenres = `{"genres":[{"id":28,"name":"Action"},{"id":18,"name":"Drama"}]}`
	tvGenres    = `{"genres":[{"id":18,"name":"Drama"},{"id":35,"name":"Comedy"}]}`
)

type stubAPI struct {
	mu       sync.Mutex
	queries  map[string][]string
	handlers map[string]string
	status   map[string]int
}

func (s *stubAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	if s.queries == nil {
		s.queries = map[string][]string{}
	}
	s.queries[r.URL.Path] = append(s.queries[r.URL.Path], r.URL.RawQuery)
	s.mu.Unlock()

	if code, ok := s.status[r.URL.Path]; ok {
		w.WriteHeader(code)
		w.Write([]byte(`{"status_message":"boom"}`))
		return
	}
	body, ok := s.handlers[r.URL.Path]
	if !ok {
		http.NotFound(w, r)
		return
	}
	w.Write([]byte(body))
}

func (s *stubAPI) calls(path string) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.queries[path]...)
}

func queryValue(t *testing.T, rawQuery, key string) string {
	t.Helper()
	values, err := url.ParseQuery(rawQuery)
	require.NoError(t, err)
	return values.Get(key)
}

func newTestService(t *testing.T, api *stubAPI, profiles domain.ProfileRepo, opts ...Option) Service {
	t.Helper()
	srv := httptest.NewServer(api)
	t.Cleanup(srv.Close)

	log := zerolog.Nop()
	cfg := &domain.Config{TMDBToken: "token", TMDBBaseURL: srv.URL, Language: "en-US"}
	catalog := tmdb.NewCatalog(log, tmdb.NewClient(log, cfg))
	assembler := display.NewAssembler(log, image.NewService(log, cfg, nil), false)

	return NewService(log, cfg, catalog, genre.NewService(log, catalog), assembler, profiles, opts...)
}

func TestLoadRecommendedEndToEnd(t *testing.T) {
	api := &stubAPI{handlers: map[string]string{
		"/genre/movie/list": movieGenres,
		"/genre/tv/list":    tvGenres,
		"/discover/movie":   `{"page":1,"results":[{"id":603,"title":"The Matrix","release_date":"1999-03-30","genre_ids":[28,18],"poster_path":"/m.jpg"}]}`,
		"/discover/tv":      `{"page":1,"results":[{"id":1399,"name":"Thrones","first_air_date":"2011-04-17","genre_ids":[18,35]}]}`,
	}}
	svc := newTestService(t, api, nil, WithRand(rand.New(rand.NewPCG(1, 2))))

	items, err := svc.LoadRecommended(context.Background(), nil, 1)
	require.NoError(t, err)
	require.Len(t, items, 2)

	assert.Equal(t, "The Matrix", items[0].Title)
	assert.Equal(t, domain.MediaKindMovie, items[0].MediaKind)
	assert.Equal(t, "Action, Drama", items[0].Subtitle)
	assert.Equal(t, "https://image.tmdb.org/t/p/w500/m.jpg", items[0].Poster.URL)

	assert.Equal(t, "Thrones", items[1].Title)
	assert.Equal(t, domain.MediaKindTV, items[1].MediaKind)
	assert.Equal(t, "Drama, Comedy", items[1].Subtitle)
	assert.Equal(t, []domain.MetaChip{
		{Kind: domain.MetaChipYear, Text: "2011"},
		{Kind: domain.MetaChipGenre, Text: "Drama"},
	}, items[1].MetaChips)
}

func TestLoadRecommendedResolvesPreferredGenres(t *testing.T) {
	api := &stubAPI{handlers: map[string]string{
		"/genre/movie/list": movieGenres,
		"/genre/tv/list":    tvGenres,
		"/discover/movie":   `{"page":3,"results":[]}`,
		"/discover/tv":      `{"page":3,"results":[]}`,
	}}
	svc := newTestService(t, api, nil)

	items, err := svc.LoadRecommended(context.Background(), []string{"action", "COMEDY", "Western"}, 3)
	require.NoError(t, err)
	assert.Empty(t, items)

	movie := api.calls("/discover/movie")
	require.Len(t, movie, 1)
	assert.Equal(t, "28", queryValue(t, movie[0], "with_genres"))
	assert.Equal(t, "3", queryValue(t, movie[0], "page"))

	tv := api.calls("/discover/tv")
	require.Len(t, tv, 1)
	assert.Equal(t, "35", queryValue(t, tv[0], "with_genres"))
}

func TestLoadRecommendedQueriesBothKindsWhenGenresMissing(t *testing.T) {
	api := &stubAPI{handlers: map[string]string{
		"/genre/movie/list": movieGenres,
		"/genre/tv/list":    tvGenres,
		"/discover/movie":   `{"page":1,"results":[{"id":603,"title":"The Matrix"}]}`,
		"/discover/tv":      `{"page":1,"results":[{"id":1399,"name":"Thrones"}]}`,
	}}
	svc := newTestService(t, api, nil)

	items, err := svc.LoadRecommended(context.Background(), []string{"Action"}, 1)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "28", queryValue(t, api.calls("/discover/movie")[0], "with_genres"))
	tv := api.calls("/discover/tv")
	require.Len(t, tv, 1)
	assert.Equal(t, "", queryValue(t, tv[0], "with_genres"))

	items, err = svc.LoadRecommended(context.Background(), []string{"Western"}, 1)
	require.NoError(t, err)
	assert.Len(t, items, 2)
	assert.Len(t, api.calls("/discover/movie"), 2)
	assert.Len(t, api.calls("/discover/tv"), 2)
}

func TestLoadRecommendedFallbackIsReproducibleWithSeed(t *testing.T) {
	handlers := map[string]string{
		"/genre/movie/list": `{"genres":[{"id":1,"name":"A"},{"id":2,"name":"B"},{"id":3,"name":"C"},{"id":4,"name":"D"}]}`,
		"/genre/tv/list":    `{"genres":[{"id":5,"name":"E"},{"id":6,"name":"F"},{"id":7,"name":"G"},{"id":8,"name":"H"}]}`,
		"/discover/movie":   `{"page":1,"results":[]}`,
		"/discover/tv":      `{"page":1,"results":[]}`,
	}

	run := func() (string, string) {
		api := &stubAPI{handlers: handlers}
		svc := newTestService(t, api, nil, WithRand(rand.New(rand.NewPCG(42, 7))))
		_, err := svc.LoadRecommended(context.Background(), nil, 1)
		require.NoError(t, err)
		return strings.Join(api.calls("/discover/movie"), ";"), strings.Join(api.calls("/discover/tv"), ";")
	}

	movieA, tvA := run()
	movieB, tvB := run()
	assert.Equal(t, movieA, movieB)
	assert.Equal(t, tvA, tvB)
}

func TestSampleGenres(t *testing.T) {
	names := []string{"A", "B", "C", "D", "E", "F", "G"}

	first := SampleGenres(names, 5, rand.New(rand.NewPCG(9, 9)))
	second := SampleGenres(names, 5, rand.New(rand.NewPCG(9, 9)))
	assert.Equal(t, first, second)
	assert.Len(t, first, 5)
	assert.Subset(t, names, first)
	assert.Equal(t, []string{"A", "B", "C", "D", "E", "F", "G"}, names, "input must not be reordered")

	assert.Len(t, SampleGenres([]string{"A", "B"}, 5, rand.New(rand.NewPCG(1, 1))), 2)
	assert.Empty(t, SampleGenres(nil, 5, rand.New(rand.NewPCG(1, 1))))
}

func TestLoadRecommendedPropagatesFailure(t *testing.T) {
	api := &stubAPI{
		handlers: map[string]string{
			"/genre/movie/list": movieGenres,
			"/genre/tv/list":    tvGenres,
			"/discover/movie":   `{"page":1,"results":[{"id":1,"title":"A"}]}`,
		},
		status: map[string]int{"/discover/tv": http.StatusServiceUnavailable},
	}
	svc := newTestService(t, api, nil)

	items, err := svc.LoadRecommended(context.Background(), []string{"Drama"}, 1)
	require.Error(t, err)
	assert.Nil(t, items)

	var httpErr *tmdb.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusServiceUnavailable, httpErr.StatusCode)
}

type stubProfiles struct {
	domain.ProfileRepo
	profile *domain.Profile
}

func (s *stubProfiles) Get(_ context.Context, userID string) (*domain.Profile, error) {
	if s.profile == nil || s.profile.UserID != userID {
		return nil, domain.ErrNotFound
	}
	return s.profile, nil
}

func TestLoadRecommendedForUser(t *testing.T) {
	api := &stubAPI{handlers: map[string]string{
		"/genre/movie/list": movieGenres,
		"/genre/tv/list":    tvGenres,
		"/discover/movie":   `{"page":1,"results":[{"id":1,"title":"A","genre_ids":[18]}]}`,
		"/discover/tv":      `{"page":1,"results":[{"id":2,"name":"B","genre_ids":[18]}]}`,
	}}
	profiles := &stubProfiles{profile: &domain.Profile{UserID: "u1", FavoriteGenres: []string{"Drama"}}}
	svc := newTestService(t, api, profiles)

	items, err := svc.LoadRecommendedForUser(context.Background(), "u1", 1)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "18", queryValue(t, api.calls("/discover/movie")[0], "with_genres"))
	assert.Equal(t, "18", queryValue(t, api.calls("/discover/tv")[0], "with_genres"))

	_, err = svc.LoadRecommendedForUser(context.Background(), "stranger", 1)
	require.NoError(t, err)
}

func TestLoadTrending(t *testing.T) {
	api := &stubAPI{handlers: map[string]string{
		"/genre/movie/list": `{"genres":[{"id":1,"name":"Action"},{"id":2,"name":"Drama"},{"id":3,"name":"Comedy"},{"id":4,"name":"Horror"},{"id":5,"name":"Music"}]}`,
		"/genre/tv/list":    tvGenres,
		"/trending/all/day": `{"page":2,"results":[
			{"id":10,"media_type":"movie","title":"Five","release_date":"2024-01-01","genre_ids":[1,2,3,4,5]},
			{"id":11,"media_type":"person","name":"Someone"},
			{"id":12,"media_type":"tv","name":"Show","first_air_date":"2023-09-09","genre_ids":[35]}
		]}`,
	}}
	svc := newTestService(t, api, nil)

	items, err := svc.LoadTrending(context.Background(), domain.TimeWindowDay, 2)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "Action, Drama", items[0].Subtitle)
	assert.Equal(t, "Five", items[0].Title)
	assert.Equal(t, "Show", items[1].Title)
	assert.Equal(t, "Comedy", items[1].Subtitle)
	assert.Equal(t, "2", queryValue(t, api.calls("/trending/all/day")[0], "page"))
}

func TestLoadTrendingFailsWhenGenresFail(t *testing.T) {
	api := &stubAPI{
		handlers: map[string]string{
			"/genre/movie/list":  movieGenres,
			"/trending/all/week": `{"page":1,"results":[]}`,
		},
		status: map[string]int{"/genre/tv/list": http.StatusUnauthorized},
	}
	svc := newTestService(t, api, nil)

	_, err := svc.LoadTrending(context.Background(), domain.TimeWindowWeek, 1)
	var httpErr *tmdb.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusUnauthorized, httpErr.StatusCode)
}

func TestSearch(t *testing.T) {
	api := &stubAPI{handlers: map[string]string{
		"/genre/movie/list": movieGenres,
		"/genre/tv/list":    tvGenres,
		"/search/multi": `{"page":1,"results":[
			{"id":603,"media_type":"movie","title":"The Matrix","genre_ids":[28]},
			{"id":6384,"media_type":"person","name":"Keanu Reeves"}
		]}`,
	}}
	svc := newTestService(t, api, nil)

	items, err := svc.Search(context.Background(), "matrix", 1)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "The Matrix", items[0].Title)
	assert.Equal(t, "matrix", queryValue(t, api.calls("/search/multi")[0], "query"))
}
