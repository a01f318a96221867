package domain

import (
	"context"

	"github.com/pkg/errors"
)

var ErrNotFound = errors.New("not found")

// Profile is the user document kept by the profile store.
type Profile struct {
	UserID         string   `json:"userId" yaml:"userId"`
	Name           string   `json:"name,omitempty" yaml:"name,omitempty"`
	Email          string   `json:"email,omitempty" yaml:"email,omitempty"`
	AvatarURL      string   `json:"avatarUrl,omitempty" yaml:"avatarUrl,omitempty"`
	Birthday       string   `json:"birthday,omitempty" yaml:"birthday,omitempty"`
	FavoriteGenres []string `json:"favoriteGenres,omitempty" yaml:"favoriteGenres,omitempty"`
	Favorites      []string `json:"favorites,omitempty" yaml:"favorites,omitempty"`
}

// ProfileRepo persists profiles and their favorites set. AddFavorite and
// RemoveFavorite are atomic set-union and set-remove operations.
type ProfileRepo interface {
	Get(ctx context.Context, userID string) (*Profile, error)
	Upsert(ctx context.Context, profile *Profile) error
	AddFavorite(ctx context.Context, userID, key string) error
	RemoveFavorite(ctx context.Context, userID, key string) error
	HasFavorite(ctx context.Context, userID, key string) (bool, error)
	Favorites(ctx context.Context, userID string) ([]string, error)
}
