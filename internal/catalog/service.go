// Package catalog answers movie queries for the app.  Every query
// degrades to an empty result when the underlying store fails: the
// failure is logged and the caller sees no movies rather than an error.
package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"slices"
	"sort"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/iliyamo/cinebook/internal/model"
)

// DefaultLimit applies when a list query asks for zero or fewer movies.
const DefaultLimit = 20

const listCacheKey = "catalog:movies"

// Store is the movie source.  GetByID returns nil and no error when the
// movie does not exist.
type Store interface {
	ListAll(ctx context.Context) ([]model.Movie, error)
	GetByID(ctx context.Context, id string) (*model.Movie, error)
}

// Service implements the catalog queries on top of a Store, keeping the
// full normalized list in Redis when a client is configured.
type Service struct {
	store Store
	rdb   *redis.Client
	ttl   time.Duration
	log   *zap.Logger
}

// NewService wires a catalog.  rdb may be nil to disable caching; log may
// be nil.
func NewService(store Store, rdb *redis.Client, ttl time.Duration, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	if ttl <= 0 {
		ttl = time.Minute
	}
	return &Service{store: store, rdb: rdb, ttl: ttl, log: log.Named("catalog")}
}

// ListAll returns every movie in store order.
func (s *Service) ListAll(ctx context.Context) []model.Movie {
	if movies, ok := s.cached(ctx); ok {
		return movies
	}
	movies, err := s.store.ListAll(ctx)
	if err != nil {
		s.log.Warn("list movies failed", zap.Error(err))
		return []model.Movie{}
	}
	if movies == nil {
		movies = []model.Movie{}
	}
	s.remember(ctx, movies)
	return movies
}

// ListPopular returns up to limit movies, best rated first.
func (s *Service) ListPopular(ctx context.Context, limit int) []model.Movie {
	movies := slices.Clone(s.ListAll(ctx))
	sort.SliceStable(movies, func(i, j int) bool { return movies[i].Rating > movies[j].Rating })
	return head(movies, limit)
}

// ListNowShowing returns up to limit movies, most recent release first.
// Movies with an unparseable release date sort last.
func (s *Service) ListNowShowing(ctx context.Context, limit int) []model.Movie {
	movies := slices.Clone(s.ListAll(ctx))
	sort.SliceStable(movies, func(i, j int) bool {
		return releaseTime(movies[i]).After(releaseTime(movies[j]))
	})
	return head(movies, limit)
}

// GetByID returns the movie or nil when it is missing or cannot be read.
func (s *Service) GetByID(ctx context.Context, id string) *model.Movie {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil
	}
	m, err := s.store.GetByID(ctx, id)
	if err != nil {
		s.log.Warn("get movie failed", zap.String("movie_id", id), zap.Error(err))
		return nil
	}
	return m
}

// Search returns movies whose title contains text, ignoring case.
func (s *Service) Search(ctx context.Context, text string) []model.Movie {
	needle := strings.ToLower(strings.TrimSpace(text))
	out := []model.Movie{}
	for _, m := range s.ListAll(ctx) {
		if strings.Contains(strings.ToLower(m.Title), needle) {
			out = append(out, m)
		}
	}
	return out
}

// Invalidate drops the cached list, e.g. after seeding.
func (s *Service) Invalidate(ctx context.Context) {
	if s.rdb == nil {
		return
	}
	if err := s.rdb.Del(ctx, listCacheKey).Err(); err != nil {
		s.log.Warn("cache invalidate failed", zap.Error(err))
	}
}

func (s *Service) cached(ctx context.Context) ([]model.Movie, bool) {
	if s.rdb == nil {
		return nil, false
	}
	bs, err := s.rdb.Get(ctx, listCacheKey).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			s.log.Debug("cache read failed", zap.Error(err))
		}
		return nil, false
	}
	var movies []model.Movie
	if err := json.Unmarshal(bs, &movies); err != nil {
		s.log.Debug("cache entry unreadable", zap.Error(err))
		return nil, false
	}
	return movies, true
}

func (s *Service) remember(ctx context.Context, movies []model.Movie) {
	if s.rdb == nil {
		return
	}
	bs, err := json.Marshal(movies)
	if err != nil {
		return
	}
	if err := s.rdb.Set(ctx, listCacheKey, bs, s.ttl).Err(); err != nil {
		s.log.Debug("cache write failed", zap.Error(err))
	}
}

func head(movies []model.Movie, limit int) []model.Movie {
	if limit <= 0 {
		limit = DefaultLimit
	}
	if len(movies) > limit {
		movies = movies[:limit]
	}
	return movies
}

func releaseTime(m model.Movie) time.Time {
	for _, layout := range []string{"2006-01-02", time.RFC3339} {
		if t, err := time.Parse(layout, m.ReleaseDate); err == nil {
			return t
		}
	}
	return time.Time{}
}
