package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/varoOP/reelshelf/internal/domain"
)

// addedAtLayout is fixed width so added_at sorts lexically.
const addedAtLayout = "2006-01-02T15:04:05.000000000Z"

// ProfileRepo implements domain.ProfileRepo on top of SQLite.
type ProfileRepo struct {
	log zerolog.Logger
	db  *DB
}

func NewProfileRepo(log zerolog.Logger, db *DB) domain.ProfileRepo {
	return &ProfileRepo{
		log: log.With().Str("repo", "profile").Logger(),
		db:  db,
	}
}

func (r *ProfileRepo) Get(ctx context.Context, userID string) (*domain.Profile, error) {
	queryBuilder := r.db.squirrel.
		Select("user_id", "name", "email", "avatar_url", "birthday", "favorite_genres").
		From("profiles").
		Where(sq.Eq{"user_id": userID})

	query, args, err := queryBuilder.ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "error building query")
	}

	r.log.Trace().Str("query", query).Interface("args", args).Msg("Get")

	p := &domain.Profile{}
	var genres string
	err = r.db.handler.QueryRowContext(ctx, query, args...).
		Scan(&p.UserID, &p.Name, &p.Email, &p.AvatarURL, &p.Birthday, &genres)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, errors.Wrap(err, "error scanning row")
	}

	if err := json.Unmarshal([]byte(genres), &p.FavoriteGenres); err != nil {
		return nil, errors.Wrap(err, "error decoding favorite genres")
	}

	p.Favorites, err = r.Favorites(ctx, userID)
	if err != nil {
		return nil, err
	}

	return p, nil
}

// Upsert writes the scalar profile fields. The favorites set is left alone.
func (r *ProfileRepo) Upsert(ctx context.Context, p *domain.Profile) error {
	genres := p.FavoriteGenres
	if genres == nil {
		genres = []string{}
	}
	encoded, err := json.Marshal(genres)
	if err != nil {
		return errors.Wrap(err, "error encoding favorite genres")
	}

	now := time.Now().Format(time.RFC3339)
	queryBuilder := r.db.squirrel.
		Insert("profiles").
		Columns("user_id", "name", "email", "avatar_url", "birthday", "favorite_genres", "updated_at").
		Values(p.UserID, p.Name, p.Email, p.AvatarURL, p.Birthday, string(encoded), now).
		Suffix(`ON CONFLICT(user_id) DO UPDATE SET
			name = excluded.name,
			email = excluded.email,
			avatar_url = excluded.avatar_url,
			birthday = excluded.birthday,
			favorite_genres = excluded.favorite_genres,
			updated_at = excluded.updated_at`)

	query, args, err := queryBuilder.ToSql()
	if err != nil {
		return errors.Wrap(err, "error building query")
	}

	r.log.Trace().Str("query", query).Interface("args", args).Msg("Upsert")

	if _, err := r.db.handler.ExecContext(ctx, query, args...); err != nil {
		return errors.Wrap(err, "error executing query")
	}

	return nil
}

// AddFavorite adds key to the user's set. Adding an existing key is a no-op.
func (r *ProfileRepo) AddFavorite(ctx context.Context, userID, key string) error {
	queryBuilder := r.db.squirrel.
		Insert("favorites").
		Options("OR IGNORE").
		Columns("user_id", "fav_key", "added_at").
		Values(userID, key, time.Now().UTC().Format(addedAtLayout))

	query, args, err := queryBuilder.ToSql()
	if err != nil {
		return errors.Wrap(err, "error building query")
	}

	r.log.Trace().Str("query", query).Interface("args", args).Msg("AddFavorite")

	if _, err := r.db.handler.ExecContext(ctx, query, args...); err != nil {
		return errors.Wrap(err, "error executing query")
	}

	return nil
}

// RemoveFavorite removes key from the user's set. Removing an absent key is
// a no-op.
func (r *ProfileRepo) RemoveFavorite(ctx context.Context, userID, key string) error {
	queryBuilder := r.db.squirrel.
		Delete("favorites").
		Where(sq.Eq{"user_id": userID, "fav_key": key})

	query, args, err := queryBuilder.ToSql()
	if err != nil {
		return errors.Wrap(err, "error building delete query")
	}

	r.log.Trace().Str("query", query).Interface("args", args).Msg("RemoveFavorite")

	if _, err := r.db.handler.ExecContext(ctx, query, args...); err != nil {
		return errors.Wrap(err, "error executing delete query")
	}

	return nil
}

func (r *ProfileRepo) HasFavorite(ctx context.Context, userID, key string) (bool, error) {
	queryBuilder := r.db.squirrel.
		Select("1").
		From("favorites").
		Where(sq.Eq{"user_id": userID, "fav_key": key}).
		Limit(1)

	query, args, err := queryBuilder.ToSql()
	if err != nil {
		return false, errors.Wrap(err, "error building query")
	}

	r.log.Trace().Str("query", query).Interface("args", args).Msg("HasFavorite")

	var one int
	err = r.db.handler.QueryRowContext(ctx, query, args...).Scan(&one)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, errors.Wrap(err, "error executing query")
	}

	return true, nil
}

// Favorites returns the user's keys in the order they were added.
func (r *ProfileRepo) Favorites(ctx context.Context, userID string) ([]string, error) {
	queryBuilder := r.db.squirrel.
		Select("fav_key").
		From("favorites").
		Where(sq.Eq{"user_id": userID}).
		OrderBy("added_at", "rowid")

	query, args, err := queryBuilder.ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "error building query")
	}

	r.log.Trace().Str("query", query).Interface("args", args).Msg("Favorites")

	rows, err := r.db.handler.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "error executing query")
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, errors.Wrap(err, "error scanning row")
		}
		keys = append(keys, key)
	}

	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "error iterating rows")
	}

	return keys, nil
}
