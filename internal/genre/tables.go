package genre

import (
	"github.com/varoOP/reelshelf/internal/domain"
)

// Tables holds the id→name lookups for both genre namespaces. Ids are never
// looked up across kinds.
type Tables struct {
	genres map[domain.MediaKind][]domain.Genre
	byID   map[domain.MediaKind]map[int]string
	byName map[domain.MediaKind]map[string]int
}

func NewTables(movie, tv []domain.Genre) *Tables {
	t := &Tables{
		genres: map[domain.MediaKind][]domain.Genre{
			domain.MediaKindMovie: movie,
			domain.MediaKindTV:    tv,
		},
		byID:   make(map[domain.MediaKind]map[int]string, 2),
		byName: make(map[domain.MediaKind]map[string]int, 2),
	}

	for kind, list := range t.genres {
		ids := make(map[int]string, len(list))
		names := make(map[string]int, len(list))
		for _, g := range list {
			ids[g.ID] = g.Name
			key := FoldKey(g.Name)
			if _, ok := names[key]; !ok {
				names[key] = g.ID
			}
		}
		t.byID[kind] = ids
		t.byName[kind] = names
	}

	return t
}

func (t *Tables) Genres(kind domain.MediaKind) []domain.Genre {
	return t.genres[kind]
}

func (t *Tables) Name(kind domain.MediaKind, id int) (string, bool) {
	name, ok := t.byID[kind][id]
	return name, ok
}

// Names looks ids up in kind's table and returns at most limit resolved
// names, in the order of ids. Unknown ids are skipped. limit <= 0 means no
// limit.
func (t *Tables) Names(kind domain.MediaKind, ids []int, limit int) []string {
	var names []string
	for _, id := range ids {
		if limit > 0 && len(names) >= limit {
			break
		}
		if name, ok := t.byID[kind][id]; ok {
			names = append(names, name)
		}
	}
	return names
}

// Resolve maps genre names to ids for each kind. Matching ignores case and
// diacritics; a name missing from a kind's table is dropped for that kind.
func (t *Tables) Resolve(names []string) (movieIDs, tvIDs []int) {
	return t.resolve(domain.MediaKindMovie, names), t.resolve(domain.MediaKindTV, names)
}

func (t *Tables) resolve(kind domain.MediaKind, names []string) []int {
	var ids []int
	seen := make(map[int]struct{})
	for _, name := range names {
		id, ok := t.byName[kind][FoldKey(name)]
		if !ok {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	return ids
}

// AllNames returns the union of movie and tv genre names with duplicates
// removed, movie names first.
func (t *Tables) AllNames() []string {
	var names []string
	seen := make(map[string]struct{})
	for _, kind := range domain.MediaKinds {
		for _, g := range t.genres[kind] {
			key := FoldKey(g.Name)
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
			names = append(names, g.Name)
		}
	}
	return names
}
