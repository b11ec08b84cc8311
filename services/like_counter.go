package services

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
)

const (
	LIKE_COUNTER_PREFIX = "post_likes:"
	LIKE_COUNTER_TTL    = 86400 // секунды, счетчик пересобирается из БД при промахе
)

// LikeCounter - счетчики лайков постов в Redis для быстрого чтения ленты.
// Источник истины - колонка posts.likes_count
type LikeCounter struct {
	redisClient *redis.Client
}

var LikeCounterInstance *LikeCounter

func NewLikeCounter(redisClient *redis.Client) *LikeCounter {
	return &LikeCounter{redisClient: redisClient}
}

// Lua скрипт для атомарного изменения. Отсутствующий счетчик не создается:
// его значение неизвестно, вызывающий сам засеет его из БД
var incrementLikesScript = redis.NewScript(`
	local key = KEYS[1]
	local delta = tonumber(ARGV[1])
	local ttl = tonumber(ARGV[2])

	local current = redis.call('GET', key)
	if not current then
		return -1
	end

	local new_count = math.max(0, tonumber(current) + delta)
	redis.call('SET', key, new_count, 'EX', ttl)
	return new_count
`)

func (s *LikeCounter) key(postID uuid.UUID) string {
	return LIKE_COUNTER_PREFIX + postID.String()
}

// Increment изменяет счетчик на delta, не опускаясь ниже нуля.
// Возвращает ok=false, если счетчика нет в кеше
func (s *LikeCounter) Increment(ctx context.Context, postID uuid.UUID, delta int64) (int64, bool, error) {
	res, err := incrementLikesScript.Run(ctx, s.redisClient, []string{s.key(postID)}, delta, LIKE_COUNTER_TTL).Int64()
	if err != nil {
		return 0, false, fmt.Errorf("failed to increment like counter: %w", err)
	}
	if res < 0 {
		return 0, false, nil
	}
	return res, true, nil
}

// Set устанавливает точное значение (сверка с БД)
func (s *LikeCounter) Set(ctx context.Context, postID uuid.UUID, value int64) error {
	return s.redisClient.Set(ctx, s.key(postID), max(0, value), time.Duration(LIKE_COUNTER_TTL)*time.Second).Err()
}

func (s *LikeCounter) Remove(ctx context.Context, postID uuid.UUID) error {
	return s.redisClient.Del(ctx, s.key(postID)).Err()
}

// GetMany читает счетчики одним pipeline. Отсутствующие в кеше не попадают в результат
func (s *LikeCounter) GetMany(ctx context.Context, postIDs []uuid.UUID) (map[uuid.UUID]int64, error) {
	pipe := s.redisClient.Pipeline()
	cmds := make(map[uuid.UUID]*redis.StringCmd, len(postIDs))
	for _, id := range postIDs {
		cmds[id] = pipe.Get(ctx, s.key(id))
	}
	_, err := pipe.Exec(ctx)
	if err != nil && err != redis.Nil {
		return nil, err
	}

	counts := make(map[uuid.UUID]int64, len(postIDs))
	for id, cmd := range cmds {
		val, err := cmd.Result()
		if err != nil {
			continue
		}
		n, err := strconv.ParseInt(val, 10, 64)
		if err != nil {
			log.Printf("ERROR: bad like counter for post=%s: %q", id, val)
			continue
		}
		counts[id] = n
	}
	return counts, nil
}
