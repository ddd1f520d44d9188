package service

import (
	"context"
	"time"

	"github.com/bytedance/sonic"
	"github.com/hossamkoky599/crowdfund/internal/config"
	"github.com/hossamkoky599/crowdfund/internal/modules/repo"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const homeFeedCacheKey = "feed:home"

// HomeFeed is the three named lists of the landing page, each item annotated
// with its computed average rating.
type HomeFeed struct {
	Latest   []repo.ProjectWithRating `json:"latest"`
	Featured []repo.ProjectWithRating `json:"featured"`
	TopRated []repo.ProjectWithRating `json:"top_rated"`
}

type FeedService interface {
	Home(ctx context.Context) (*HomeFeed, error)
	Search(ctx context.Context, query string) ([]repo.ProjectWithRating, error)
}

type feedService struct {
	r   repo.FeedRepo
	rdb *redis.Client
	cfg *config.Config
	log *zap.Logger
}

func NewFeedService(r repo.FeedRepo, rdb *redis.Client, cfg *config.Config, log *zap.Logger) FeedService {
	return &feedService{r: r, rdb: rdb, cfg: cfg, log: log}
}

// Home serves from the redis cache when possible. The lists are derived data
// over a short TTL, so staleness of a few seconds is acceptable; cancellation
// deletes rows outright, and an expired entry simply gets recomputed.
func (s *feedService) Home(ctx context.Context) (*HomeFeed, error) {
	if s.rdb != nil {
		if raw, err := s.rdb.Get(ctx, homeFeedCacheKey).Bytes(); err == nil {
			var cached HomeFeed
			if err := sonic.Unmarshal(raw, &cached); err == nil {
				return &cached, nil
			}
		}
	}

	limit := s.cfg.Policy.FeedLimit
	latest, err := s.r.Latest(ctx, limit)
	if err != nil {
		return nil, err
	}
	featured, err := s.r.Featured(ctx, limit)
	if err != nil {
		return nil, err
	}
	topRated, err := s.r.TopRated(ctx, limit)
	if err != nil {
		return nil, err
	}

	feed := &HomeFeed{Latest: latest, Featured: featured, TopRated: topRated}

	if s.rdb != nil {
		ttl := time.Duration(s.cfg.Policy.FeedCacheTTLSec) * time.Second
		if raw, err := sonic.Marshal(feed); err == nil {
			if err := s.rdb.Set(ctx, homeFeedCacheKey, raw, ttl).Err(); err != nil {
				s.log.Sugar().Warnw("failed to cache home feed", "err", err)
			}
		}
	}

	return feed, nil
}

func (s *feedService) Search(ctx context.Context, query string) ([]repo.ProjectWithRating, error) {
	if query == "" {
		return []repo.ProjectWithRating{}, nil
	}
	return s.r.Search(ctx, query)
}
