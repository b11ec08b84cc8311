package services

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"tattoola/config"
	"tattoola/models"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
)

const (
	MAX_FEED_SIZE   = 1000         // Максимальное количество постов в кеше ленты
	FEED_KEY_PREFIX = "user_feed:" // Префикс для ключей ленты в Redis
)

func feedKey(userID uuid.UUID) string {
	return FEED_KEY_PREFIX + userID.String()
}

func feedCacheTTL() time.Duration {
	if config.AppConfig == nil || config.AppConfig.Feed.CacheTTL <= 0 {
		return 24 * time.Hour
	}
	return config.AppConfig.Feed.CacheTTL
}

// Лента хранится в sorted set: member - id поста, score - created_at в миллисекундах.
// При равных score Redis упорядочивает по member, что совпадает с порядком id в БД

// getFeedFromCache читает n ссылок после курсора. ok=false - кеша нет или его не хватает
func (ps *PostService) getFeedFromCache(ctx context.Context, viewerID uuid.UUID, after *FeedCursor, n int) ([]feedRef, bool) {
	if RedisClient == nil {
		return nil, false
	}
	key := feedKey(viewerID)

	card, err := RedisClient.ZCard(ctx, key).Result()
	if err != nil || card == 0 {
		return nil, false
	}

	maxScore := "+inf"
	var ties int64
	if after != nil {
		maxScore = strconv.FormatInt(after.CreatedAt.UnixMilli(), 10)
		ties, err = RedisClient.ZCount(ctx, key, maxScore, maxScore).Result()
		if err != nil {
			return nil, false
		}
	}

	zs, err := RedisClient.ZRevRangeByScoreWithScores(ctx, key, &redis.ZRangeBy{
		Max:   maxScore,
		Min:   "-inf",
		Count: int64(n) + ties,
	}).Result()
	if err != nil {
		log.Printf("ERROR: feed cache read failed for user=%s: %v", viewerID, err)
		return nil, false
	}

	refs := make([]feedRef, 0, n)
	for _, z := range zs {
		member, _ := z.Member.(string)
		id, err := uuid.Parse(member)
		if err != nil {
			continue
		}
		createdAt := time.UnixMilli(int64(z.Score)).UTC()
		if after != nil && createdAt.Equal(after.CreatedAt) && member >= after.ID.String() {
			continue
		}
		refs = append(refs, feedRef{ID: id, CreatedAt: createdAt})
		if len(refs) == n {
			break
		}
	}

	// кеш обрезан по MAX_FEED_SIZE, дальше читаем из БД
	if len(refs) < n && card >= MAX_FEED_SIZE {
		return nil, false
	}
	return refs, true
}

// cacheFeed кеширует ленту в Redis
func (ps *PostService) cacheFeed(ctx context.Context, userID uuid.UUID, refs []feedRef) error {
	if len(refs) == 0 || RedisClient == nil {
		return nil
	}
	key := feedKey(userID)

	pipe := RedisClient.TxPipeline()
	pipe.Del(ctx, key)
	for _, r := range refs {
		pipe.ZAdd(ctx, key, &redis.Z{
			Score:  float64(r.CreatedAt.UnixMilli()),
			Member: r.ID.String(),
		})
	}
	pipe.ZRemRangeByRank(ctx, key, 0, -MAX_FEED_SIZE-1)
	pipe.Expire(ctx, key, feedCacheTTL())

	_, err := pipe.Exec(ctx)
	return err
}

// addPostToUserFeed добавляет пост в закешированную ленту пользователя.
// Если кеша нет, он будет построен из БД при следующем чтении
func (ps *PostService) addPostToUserFeed(ctx context.Context, userID uuid.UUID, post models.FeedPost) {
	if RedisClient == nil {
		return
	}
	key := feedKey(userID)

	exists, err := RedisClient.Exists(ctx, key).Result()
	if err != nil || exists == 0 {
		return
	}

	pipe := RedisClient.Pipeline()
	pipe.ZAdd(ctx, key, &redis.Z{
		Score:  float64(post.CreatedAt.UnixMilli()),
		Member: post.ID.String(),
	})
	pipe.ZRemRangeByRank(ctx, key, 0, -MAX_FEED_SIZE-1)
	pipe.Expire(ctx, key, feedCacheTTL())
	if _, err := pipe.Exec(ctx); err != nil {
		log.Printf("ERROR: failed to add post=%s to feed of user=%s: %v", post.ID, userID, err)
	}
}

// removePostFromUserFeed удаляет пост из ленты конкретного пользователя
func (ps *PostService) removePostFromUserFeed(ctx context.Context, userID, postID uuid.UUID) {
	if RedisClient == nil {
		return
	}
	if err := RedisClient.ZRem(ctx, feedKey(userID), postID.String()).Err(); err != nil {
		log.Printf("ERROR: failed to remove post=%s from feed of user=%s: %v", postID, userID, err)
	}
}

// InvalidateUserFeed инвалидирует кеш ленты пользователя
func (ps *PostService) InvalidateUserFeed(ctx context.Context, userID uuid.UUID) error {
	if RedisClient == nil {
		return ErrRedisNotAvailable
	}
	return RedisClient.Del(ctx, feedKey(userID)).Err()
}

// RebuildUserFeedFromDB перестраивает кеш ленты пользователя из БД
func (ps *PostService) RebuildUserFeedFromDB(ctx context.Context, userID uuid.UUID) error {
	if RedisClient == nil {
		return ErrRedisNotAvailable
	}

	refs, err := ps.buildFeedFromDB(ctx, userID, nil, MAX_FEED_SIZE)
	if err != nil {
		return err
	}
	if len(refs) == 0 {
		return RedisClient.Del(ctx, feedKey(userID)).Err()
	}
	if err := ps.cacheFeed(ctx, userID, refs); err != nil {
		return fmt.Errorf("failed to cache feed: %w", err)
	}
	return nil
}
