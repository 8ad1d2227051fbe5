package model

// Movie is the canonical catalog entry.  Documents in the store may use
// several field names for the same attribute; they are mapped onto this
// shape once, when read (see catalog.NormalizeMovie).
type Movie struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Poster      string   `json:"poster"`
	Backdrop    string   `json:"backdrop"`
	Rating      float64  `json:"rating"`
	ReleaseDate string   `json:"release_date"`
	Genres      []string `json:"genres"`
	Duration    int      `json:"duration"`
	Language    string   `json:"language,omitempty"`
}
