package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	ViewCntTTL       = 24 * time.Hour
	ViewCntKeyPrefix = "view:cnt:project" // 项目浏览量热计数
)

// ViewCacheRepository 浏览量热计数，尽力而为；权威值在数据库列里
type ViewCacheRepository struct {
	viewCntTTL time.Duration
}

func NewViewCacheRepository() *ViewCacheRepository {
	return &ViewCacheRepository{viewCntTTL: ViewCntTTL}
}

func (r *ViewCacheRepository) viewCntKey(projectID uint64) string {
	return fmt.Sprintf("%s:%d", ViewCntKeyPrefix, projectID)
}

// IncrView 浏览自增，redis 不可用时直接跳过
func (r *ViewCacheRepository) IncrView(ctx context.Context, projectID uint64) error {
	if Client == nil {
		return nil
	}
	k := r.viewCntKey(projectID)
	if err := Client.Incr(ctx, k).Err(); err != nil {
		return err
	}
	_ = Client.Expire(ctx, k, r.viewCntTTL).Err()
	return nil
}

// GetViewCount 读热计数，miss 时返回 ok=false 由调用方回源
func (r *ViewCacheRepository) GetViewCount(ctx context.Context, projectID uint64) (int64, bool, error) {
	if Client == nil {
		return 0, false, nil
	}
	val, err := Client.Get(ctx, r.viewCntKey(projectID)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, false, nil
	}
	return val, true, err
}
