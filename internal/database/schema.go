package database

const profilesAndFavorites = `
CREATE TABLE profiles (
	user_id TEXT PRIMARY KEY,
	name TEXT NOT NULL DEFAULT '',
	email TEXT NOT NULL DEFAULT '',
	avatar_url TEXT NOT NULL DEFAULT '',
	birthday TEXT NOT NULL DEFAULT '',
	favorite_genres TEXT NOT NULL DEFAULT '[]',
	created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
	updated_at TIMESTAMP NOT NULL
);

CREATE TABLE favorites (
	user_id TEXT NOT NULL,
	fav_key TEXT NOT NULL,
	added_at TIMESTAMP NOT NULL,
	PRIMARY KEY (user_id, fav_key)
);

CREATE INDEX idx_favorites_user_added ON favorites(user_id, added_at);
`

// migrations holds one entry per schema version. Append, never edit.
var migrations = []string{
	profilesAndFavorites,
}
