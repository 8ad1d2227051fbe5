package catalog

import (
	"encoding/json"
	"testing"
)

func TestNormalizeMovie_Fallbacks(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want func(t *testing.T, m movieView)
	}{
		{
			name: "canonical names",
			doc:  `{"title":"Inception","description":"dreams","poster":"p.jpg","rating":8.8,"releaseDate":"2010-07-16","genres":["Action","Sci-Fi"],"duration":148}`,
			want: func(t *testing.T, m movieView) {
				m.expect(t, "Inception", "dreams", "p.jpg", "p.jpg", 8.8, "2010-07-16", 148, 2)
			},
		},
		{
			name: "legacy names",
			doc:  `{"title":"Dune","overview":"sand","poster_path":"d.jpg","backdrop_path":"b.jpg","vote_average":8.1,"release_date":"2021-10-22","runtime":155}`,
			want: func(t *testing.T, m movieView) {
				m.expect(t, "Dune", "sand", "d.jpg", "b.jpg", 8.1, "2021-10-22", 155, 0)
			},
		},
		{
			name: "backdrop before poster",
			doc:  `{"title":"Arrival","poster":"p.jpg","poster_path":"pp.jpg","backdrop_path":"b.jpg"}`,
			want: func(t *testing.T, m movieView) {
				m.expect(t, "Arrival", "", "p.jpg", "b.jpg", 0, "", 0, 0)
			},
		},
		{
			name: "empty primary falls through",
			doc:  `{"title":"  ","description":"","overview":"kept","rating":0,"vote_average":7}`,
			want: func(t *testing.T, m movieView) {
				m.expect(t, UntitledMovie, "kept", "", "", 7, "", 0, 0)
			},
		},
		{
			name: "wrong types ignored",
			doc:  `{"title":42,"genres":"Drama","rating":"6.5"}`,
			want: func(t *testing.T, m movieView) {
				m.expect(t, UntitledMovie, "", "", "", 6.5, "", 0, 0)
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var raw map[string]any
			if err := json.Unmarshal([]byte(tt.doc), &raw); err != nil {
				t.Fatal(err)
			}
			m := NormalizeMovie("doc-1", raw)
			if m.ID != "doc-1" {
				t.Errorf("ID = %q", m.ID)
			}
			if m.Genres == nil {
				t.Error("Genres must never be nil")
			}
			tt.want(t, movieView{m.Title, m.Description, m.Poster, m.Backdrop, m.Rating, m.ReleaseDate, m.Duration, len(m.Genres)})
		})
	}
}

type movieView struct {
	title, description, poster, backdrop string
	rating                               float64
	release                              string
	duration, genres                     int
}

func (m movieView) expect(t *testing.T, title, description, poster, backdrop string, rating float64, release string, duration, genres int) {
	t.Helper()
	want := movieView{title, description, poster, backdrop, rating, release, duration, genres}
	if m != want {
		t.Errorf("got %+v\nwant %+v", m, want)
	}
}
