package image

import (
	"context"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/rs/zerolog"

	"github.com/varoOP/reelshelf/internal/domain"
)

// Kind selects the CDN size bucket.
type Kind string

const (
	KindPoster   Kind = "poster"
	KindBackdrop Kind = "backdrop"
	KindProfile  Kind = "profile"
	KindAvatar   Kind = "avatar"
)

var sizeBuckets = map[Kind]string{
	KindPoster:   "w500",
	KindBackdrop: "w780",
	KindProfile:  "w185",
	KindAvatar:   "w185",
}

const maxImageBytes = 20 << 20

type Service interface {
	Resolve(kind Kind, path string) (string, bool)
	ResolveAvatar(path string) (string, bool)
	Load(ctx context.Context, url string) *domain.Image
}

type service struct {
	log        zerolog.Logger
	baseURL    string
	httpClient *http.Client
}

func NewService(log zerolog.Logger, cfg *domain.Config, httpClient *http.Client) Service {
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = domain.DefaultTimeout
		}
		httpClient = &http.Client{Timeout: timeout}
	}

	baseURL := strings.TrimRight(cfg.ImageBaseURL, "/")
	if baseURL == "" {
		baseURL = domain.DefaultImageBaseURL
	}

	return &service{
		log:        log.With().Str("module", "image").Logger(),
		baseURL:    baseURL,
		httpClient: httpClient,
	}
}

// Resolve joins the CDN base, the size bucket for kind and path. Leading
// slashes are stripped; blank paths resolve to nothing.
func (s *service) Resolve(kind Kind, path string) (string, bool) {
	path = strings.TrimLeft(strings.TrimSpace(path), "/")
	if path == "" {
		return "", false
	}

	bucket, ok := sizeBuckets[kind]
	if !ok {
		bucket = "original"
	}

	return s.baseURL + "/" + bucket + "/" + path, true
}

// ResolveAvatar accepts TMDB review avatars, which are either CDN-relative
// or an absolute URL prefixed with a single slash.
func (s *service) ResolveAvatar(path string) (string, bool) {
	trimmed := strings.TrimLeft(strings.TrimSpace(path), "/")
	if isAbsolute(trimmed) {
		return trimmed, true
	}
	return s.Resolve(KindAvatar, path)
}

// Load fetches url and returns nil on any failure, including a response
// that is not an image.
func (s *service) Load(ctx context.Context, url string) *domain.Image {
	if url == "" {
		return nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		s.log.Debug().Err(err).Str("url", url).Msg("invalid image url")
		return nil
	}

	start := time.Now()
	resp, err := s.httpClient.Do(req)
	if err != nil {
		s.log.Debug().Err(err).Str("url", url).Msg("image fetch failed")
		return nil
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		s.log.Debug().Int("status", resp.StatusCode).Str("url", url).Msg("image fetch failed")
		return nil
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxImageBytes))
	if err != nil {
		s.log.Debug().Err(err).Str("url", url).Msg("image read failed")
		return nil
	}

	mime := resp.Header.Get("Content-Type")
	if mime == "" {
		mime = mimetype.Detect(data).String()
	}
	if !strings.HasPrefix(strings.ToLower(strings.TrimSpace(mime)), "image/") {
		s.log.Debug().Str("mime", mime).Str("url", url).Msg("not an image")
		return nil
	}

	s.log.Trace().Str("url", url).Int("bytes", len(data)).Dur("duration", time.Since(start)).Msg("image loaded")

	return &domain.Image{URL: url, MIMEType: mime, Data: data}
}

func isAbsolute(s string) bool {
	lower := strings.ToLower(s)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}
