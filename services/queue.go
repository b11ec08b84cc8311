package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"github.com/sourcegraph/conc/pool"
)

const FEED_UPDATE_QUEUE = "feed_update_queue"

const (
	ActionCreate = "create"
	ActionDelete = "delete"
)

// FeedUpdateTask - задача рассылки поста по лентам подписчиков
type FeedUpdateTask struct {
	AuthorID uuid.UUID `json:"author_id"`
	PostID   uuid.UUID `json:"post_id"`
	Action   string    `json:"action"` // "create", "delete"
}

type QueueService struct {
	postService *PostService
	workerCount int
	workers     *pool.Pool
}

// QueueServiceInstance глобальный экземпляр сервиса очередей
var QueueServiceInstance *QueueService

func NewQueueService(workerCount int) *QueueService {
	if workerCount <= 0 {
		workerCount = 5
	}
	return &QueueService{
		postService: NewPostService(),
		workerCount: workerCount,
	}
}

// StartWorkers запускает воркеры для обработки очереди
func (qs *QueueService) StartWorkers(ctx context.Context) {
	qs.workers = pool.New().WithMaxGoroutines(qs.workerCount)
	for i := 0; i < qs.workerCount; i++ {
		qs.workers.Go(func() { qs.worker(ctx, i) })
	}
}

// Wait ждет остановки воркеров после отмены контекста
func (qs *QueueService) Wait() {
	if qs.workers != nil {
		qs.workers.Wait()
	}
}

func (qs *QueueService) worker(ctx context.Context, workerID int) {
	log.Printf("Feed update worker %d started", workerID)

	for {
		select {
		case <-ctx.Done():
			log.Printf("Feed update worker %d stopping", workerID)
			return
		default:
			result, err := RedisClient.BLPop(ctx, 5*time.Second, FEED_UPDATE_QUEUE).Result()
			if err != nil {
				if err == redis.Nil || ctx.Err() != nil {
					continue
				}
				log.Printf("ERROR: Worker %d error getting task: %v", workerID, err)
				time.Sleep(time.Second)
				continue
			}

			if len(result) < 2 {
				continue
			}

			var task FeedUpdateTask
			if err := json.Unmarshal([]byte(result[1]), &task); err != nil {
				log.Printf("ERROR: Worker %d error unmarshaling task: %v", workerID, err)
				continue
			}

			qs.processTask(ctx, &task)
		}
	}
}

func (qs *QueueService) processTask(ctx context.Context, task *FeedUpdateTask) {
	log.Printf("DEBUG: processing feed task post=%s author=%s action=%s", task.PostID, task.AuthorID, task.Action)

	switch task.Action {
	case ActionCreate:
		post, err := qs.postService.GetPost(ctx, task.AuthorID, task.PostID)
		if err != nil {
			log.Printf("ERROR: post %s for fan-out not loaded: %v", task.PostID, err)
			return
		}
		// получатели видят пост без своего лайка
		post.IsLiked = false
		qs.postService.fanOutPost(ctx, *post)
	case ActionDelete:
		qs.postService.removePostFromFeeds(ctx, task.AuthorID, task.PostID)
	default:
		log.Printf("ERROR: unknown feed task action: %s", task.Action)
	}
}

// EnqueueFeedUpdate добавляет задачу обновления лент в очередь
func (qs *QueueService) EnqueueFeedUpdate(ctx context.Context, task FeedUpdateTask) error {
	if RedisClient == nil {
		return ErrRedisNotAvailable
	}

	taskData, err := json.Marshal(task)
	if err != nil {
		return fmt.Errorf("failed to marshal task: %w", err)
	}

	if err := RedisClient.RPush(ctx, FEED_UPDATE_QUEUE, taskData).Err(); err != nil {
		return fmt.Errorf("failed to enqueue task: %w", err)
	}

	log.Printf("DEBUG: Enqueued feed task post=%s action=%s", task.PostID, task.Action)
	return nil
}

// GetStats возвращает статистику очереди
func (qs *QueueService) GetStats(ctx context.Context) (map[string]interface{}, error) {
	if RedisClient == nil {
		return nil, ErrRedisNotAvailable
	}
	queueLength, err := RedisClient.LLen(ctx, FEED_UPDATE_QUEUE).Result()
	if err != nil {
		return nil, err
	}
	return map[string]interface{}{
		"queue_length": queueLength,
		"worker_count": qs.workerCount,
		"queue_name":   FEED_UPDATE_QUEUE,
	}, nil
}
