package entities

// Genre represents a music genre an event can be tagged with
type Genre string

const (
	GenreRock       Genre = "rock"
	GenrePop        Genre = "pop"
	GenreJazz       Genre = "jazz"
	GenreElectronic Genre = "electronic"
	GenreFolk       Genre = "folk"
	GenreHipHop     Genre = "hiphop"
	GenreClassical  Genre = "classical"
	GenreReggae     Genre = "reggae"
	GenreMetal      Genre = "metal"
	GenreIndie      Genre = "indie"
	GenreCumbia     Genre = "cumbia"
	GenreTango      Genre = "tango"
)

// AllGenres lists every known genre, used for input validation and seeding
var AllGenres = []Genre{
	GenreRock, GenrePop, GenreJazz, GenreElectronic, GenreFolk, GenreHipHop,
	GenreClassical, GenreReggae, GenreMetal, GenreIndie, GenreCumbia, GenreTango,
}

// IsValid reports whether g is a known genre
func (g Genre) IsValid() bool {
	for _, known := range AllGenres {
		if g == known {
			return true
		}
	}
	return false
}

// GenresToStrings converts a genre slice to plain strings for storage drivers
func GenresToStrings(genres []Genre) []string {
	out := make([]string, len(genres))
	for i, g := range genres {
		out[i] = string(g)
	}
	return out
}

// GenresFromStrings converts stored strings back into genres
func GenresFromStrings(values []string) []Genre {
	out := make([]Genre, len(values))
	for i, v := range values {
		out[i] = Genre(v)
	}
	return out
}

// GenresIntersect reports whether two genre sets share at least one genre
func GenresIntersect(a, b []Genre) bool {
	for _, ga := range a {
		for _, gb := range b {
			if ga == gb {
				return true
			}
		}
	}
	return false
}
