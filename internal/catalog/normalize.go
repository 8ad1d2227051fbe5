package catalog

import (
	"strconv"
	"strings"

	"github.com/iliyamo/cinebook/internal/model"
)

// UntitledMovie is used when a document carries no title.
const UntitledMovie = "Untitled"

// NormalizeMovie maps a raw movie document onto model.Movie.  Documents
// were written by more than one seeding tool, so several attributes
// appear under two names; the first non-empty one wins:
//
//	description | overview
//	poster      | poster_path
//	backdrop    | backdrop_path | poster | poster_path
//	rating      | vote_average
//	releaseDate | release_date
//	duration    | runtime
//	language    | original_language
//
// backdrop prefers a real backdrop image and falls back to the poster
// only when the document has none.
//
// Missing values become zero values.  A document id stored inside the
// document is ignored in favour of id.
func NormalizeMovie(id string, raw map[string]any) model.Movie {
	m := model.Movie{
		ID:          id,
		Title:       firstString(raw, "title"),
		Description: firstString(raw, "description", "overview"),
		Poster:      firstString(raw, "poster", "poster_path"),
		Backdrop:    firstString(raw, "backdrop", "backdrop_path", "poster", "poster_path"),
		Rating:      firstNumber(raw, "rating", "vote_average"),
		ReleaseDate: firstString(raw, "releaseDate", "release_date"),
		Genres:      stringList(raw["genres"]),
		Duration:    int(firstNumber(raw, "duration", "runtime")),
		Language:    firstString(raw, "language", "original_language"),
	}
	if strings.TrimSpace(m.Title) == "" {
		m.Title = UntitledMovie
	}
	return m
}

func firstString(raw map[string]any, keys ...string) string {
	for _, k := range keys {
		if s, ok := raw[k].(string); ok && strings.TrimSpace(s) != "" {
			return strings.TrimSpace(s)
		}
	}
	return ""
}

func firstNumber(raw map[string]any, keys ...string) float64 {
	for _, k := range keys {
		var f float64
		switch v := raw[k].(type) {
		case float64:
			f = v
		case float32:
			f = float64(v)
		case int:
			f = float64(v)
		case int64:
			f = float64(v)
		case string:
			f, _ = strconv.ParseFloat(strings.TrimSpace(v), 64)
		}
		if f != 0 {
			return f
		}
	}
	return 0
}

func stringList(v any) []string {
	out := []string{}
	switch t := v.(type) {
	case []string:
		for _, s := range t {
			if s = strings.TrimSpace(s); s != "" {
				out = append(out, s)
			}
		}
	case []any:
		for _, e := range t {
			if s, ok := e.(string); ok && strings.TrimSpace(s) != "" {
				out = append(out, strings.TrimSpace(s))
			}
		}
	}
	return out
}
