package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"

	"github.com/iliyamo/cinebook/internal/catalog"
	"github.com/iliyamo/cinebook/internal/model"
)

// movieNamespace derives stable ids for seeded movies that carry none, so
// reseeding the same file updates rows instead of duplicating them.
var movieNamespace = uuid.MustParse("8d1c5b2e-4f7a-5c3e-9b6d-2a0e1f3c4d5b")

// MovieRepo stores movie documents as JSON.  Documents keep whatever
// field names they were written with; they are normalized on the way out.
type MovieRepo struct{ db *sql.DB }

func NewMovieRepo(db *sql.DB) *MovieRepo { return &MovieRepo{db: db} }

// ListAll returns every movie in insertion order.
func (r *MovieRepo) ListAll(ctx context.Context) ([]model.Movie, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT id, doc FROM movies ORDER BY created_at, id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.Movie{}
	for rows.Next() {
		var (
			id  string
			doc []byte
		)
		if err := rows.Scan(&id, &doc); err != nil {
			return nil, err
		}
		m, err := decodeMovie(id, doc)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// GetByID returns the movie, or nil and no error when it does not exist.
func (r *MovieRepo) GetByID(ctx context.Context, id string) (*model.Movie, error) {
	var doc []byte
	err := r.db.QueryRowContext(ctx, "SELECT doc FROM movies WHERE id=? LIMIT 1", id).Scan(&doc)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	m, err := decodeMovie(id, doc)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// Upsert stores doc under id, replacing any previous document.
func (r *MovieRepo) Upsert(ctx context.Context, id string, doc map[string]any) error {
	bs, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx,
		"INSERT INTO movies (id, doc) VALUES (?, ?) ON DUPLICATE KEY UPDATE doc = VALUES(doc)",
		id, bs)
	return err
}

// Seed reads a JSON array of movie documents and upserts each one.  A
// document's "id" is used when present; otherwise the id is derived from
// its title.  It returns the number of documents stored.
func (r *MovieRepo) Seed(ctx context.Context, src io.Reader) (int, error) {
	var docs []map[string]any
	if err := json.NewDecoder(src).Decode(&docs); err != nil {
		return 0, fmt.Errorf("decode seed: %w", err)
	}
	n := 0
	for i, doc := range docs {
		id := SeedID(doc)
		if id == "" {
			return n, fmt.Errorf("seed entry %d has neither id nor title", i)
		}
		delete(doc, "id")
		if err := r.Upsert(ctx, id, doc); err != nil {
			return n, fmt.Errorf("seed %q: %w", id, err)
		}
		n++
	}
	return n, nil
}

// SeedID picks the id a seed document is stored under.
func SeedID(doc map[string]any) string {
	if id, ok := doc["id"].(string); ok && strings.TrimSpace(id) != "" {
		return strings.TrimSpace(id)
	}
	title, _ := doc["title"].(string)
	title = strings.ToLower(strings.TrimSpace(title))
	if title == "" {
		return ""
	}
	return uuid.NewSHA1(movieNamespace, []byte(title)).String()
}

func decodeMovie(id string, doc []byte) (model.Movie, error) {
	raw := map[string]any{}
	if len(doc) > 0 {
		if err := json.Unmarshal(doc, &raw); err != nil {
			return model.Movie{}, fmt.Errorf("movie %s: %w", id, err)
		}
	}
	return catalog.NormalizeMovie(id, raw), nil
}
