package domain

import (
	"strconv"
	"strings"
)

// FavoriteKey identifies a favorited title. It is stored as "{kind}:{id}",
// e.g. "movie:603".
type FavoriteKey struct {
	Kind MediaKind
	ID   int
}

func (k FavoriteKey) String() string {
	return string(k.Kind) + ":" + strconv.Itoa(k.ID)
}

// ParseFavoriteKey decodes a stored key. Malformed input returns ok == false.
func ParseFavoriteKey(s string) (FavoriteKey, bool) {
	parts := strings.Split(s, ":")
	if len(parts) != 2 {
		return FavoriteKey{}, false
	}

	kind := MediaKind(parts[0])
	if !kind.Valid() {
		return FavoriteKey{}, false
	}

	if strings.TrimLeft(parts[1], "0123456789") != "" {
		return FavoriteKey{}, false
	}

	id, err := strconv.Atoi(parts[1])
	if err != nil {
		return FavoriteKey{}, false
	}

	return FavoriteKey{Kind: kind, ID: id}, true
}
