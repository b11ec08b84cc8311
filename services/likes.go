package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"tattoola/db"
	"tattoola/models"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type LikeService struct{}

func NewLikeService() *LikeService {
	return &LikeService{}
}

// TogglePostLike переключает лайк пользователя и возвращает итоговое состояние.
// Выполняется как сага: запись в БД, счетчик в Redis, уведомление автору
func (ls *LikeService) TogglePostLike(ctx context.Context, postID, userID uuid.UUID) (models.LikeResult, error) {
	sagaID := fmt.Sprintf("toggle_like_%s_%s_%d", postID, userID, time.Now().UnixNano())
	saga := NewSaga("toggle_like", sagaID)

	var result models.LikeResult
	var authorID uuid.UUID
	var counterDelta int64

	// Шаг 1: переключаем лайк в БД
	saga.AddStep(
		"toggle_like_in_db",
		func(ctx context.Context) error {
			res, author, err := toggleLike(ctx, postID, userID)
			if err != nil {
				return err
			}
			result, authorID = res, author
			if res.IsLiked {
				counterDelta = 1
			} else {
				counterDelta = -1
			}
			return nil
		},
		func(ctx context.Context) error {
			return db.GetWriteDB(ctx).Transaction(func(tx *gorm.DB) error {
				_, err := setLike(tx, postID, userID, !result.IsLiked)
				return err
			})
		},
	)

	// Шаг 2: обновляем счетчик в Redis
	counterTouched := false
	saga.AddStep(
		"update_like_counter",
		func(ctx context.Context) error {
			if LikeCounterInstance == nil {
				return nil
			}
			_, ok, err := LikeCounterInstance.Increment(ctx, postID, counterDelta)
			if err != nil {
				return err
			}
			if !ok {
				if err := LikeCounterInstance.Set(ctx, postID, result.LikesCount); err != nil {
					return err
				}
			}
			counterTouched = true
			return nil
		},
		func(ctx context.Context) error {
			if !counterTouched {
				return nil
			}
			_, _, err := LikeCounterInstance.Increment(ctx, postID, -counterDelta)
			return err
		},
	)

	// Шаг 3: уведомляем автора. Компенсация не требуется
	saga.AddStep(
		"notify_author",
		func(ctx context.Context) error {
			if result.IsLiked && authorID != userID {
				if err := SendWsNotify(authorID, "like", "Someone liked your post"); err != nil {
					log.Printf("ERROR: failed to notify author=%s: %v", authorID, err)
				}
			}
			return nil
		},
		nil,
	)

	if err := saga.Execute(ctx); err != nil {
		likeTogglesTotal.WithLabelValues("error").Inc()
		if errors.Is(err, ErrPostNotFound) {
			return models.LikeResult{}, ErrPostNotFound
		}
		return models.LikeResult{}, err
	}

	if result.IsLiked {
		likeTogglesTotal.WithLabelValues("liked").Inc()
	} else {
		likeTogglesTotal.WithLabelValues("unliked").Inc()
	}
	return result, nil
}

// toggleLike в одной транзакции меняет лайк на противоположный и читает итоговый счетчик
func toggleLike(ctx context.Context, postID, userID uuid.UUID) (models.LikeResult, uuid.UUID, error) {
	var result models.LikeResult
	var authorID uuid.UUID

	err := db.GetWriteDB(ctx).Transaction(func(tx *gorm.DB) error {
		var post models.Post
		err := tx.Select("id", "author_id").First(&post, "id = ?", postID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrPostNotFound
		}
		if err != nil {
			return err
		}
		authorID = post.AuthorID

		var existing int64
		err = tx.Model(&models.PostLike{}).
			Where("post_id = ? AND user_id = ?", postID, userID).
			Count(&existing).Error
		if err != nil {
			return err
		}
		liked := existing == 0
		if _, err := setLike(tx, postID, userID, liked); err != nil {
			return err
		}

		var updated models.Post
		if err := tx.Select("id", "likes_count").First(&updated, "id = ?", postID).Error; err != nil {
			return err
		}
		result = models.LikeResult{IsLiked: liked, LikesCount: max(0, updated.LikesCount)}
		return nil
	})
	if err != nil {
		return models.LikeResult{}, uuid.Nil, err
	}
	return result, authorID, nil
}

// setLike приводит лайк к состоянию liked. Счетчик меняется только если состояние изменилось
// и никогда не уходит ниже нуля
func setLike(tx *gorm.DB, postID, userID uuid.UUID, liked bool) (bool, error) {
	if liked {
		like := models.PostLike{PostID: postID, UserID: userID, CreatedAt: time.Now().UTC()}
		res := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&like)
		if res.Error != nil {
			return false, fmt.Errorf("failed to save like: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return false, nil
		}
		err := tx.Model(&models.Post{}).Where("id = ?", postID).
			UpdateColumn("likes_count", gorm.Expr("likes_count + 1")).Error
		return true, err
	}

	res := tx.Where("post_id = ? AND user_id = ?", postID, userID).Delete(&models.PostLike{})
	if res.Error != nil {
		return false, fmt.Errorf("failed to delete like: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return false, nil
	}
	err := tx.Model(&models.Post{}).Where("id = ?", postID).
		UpdateColumn("likes_count", gorm.Expr("CASE WHEN likes_count > 0 THEN likes_count - 1 ELSE 0 END")).Error
	return true, err
}

// ReconcileLikeCounter сверяет счетчик в Redis с БД
func (ls *LikeService) ReconcileLikeCounter(ctx context.Context, postID uuid.UUID) (int64, error) {
	var post models.Post
	err := db.GetReadOnlyDB(ctx).Select("id", "likes_count").First(&post, "id = ?", postID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, ErrPostNotFound
	}
	if err != nil {
		return 0, err
	}

	var actual int64
	err = db.GetReadOnlyDB(ctx).Model(&models.PostLike{}).Where("post_id = ?", postID).Count(&actual).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count likes: %w", err)
	}

	if post.LikesCount != actual {
		log.Printf("DEBUG: like count mismatch for post=%s: stored=%d, actual=%d. Reconciling...",
			postID, post.LikesCount, actual)
		err = db.GetWriteDB(ctx).Model(&models.Post{}).Where("id = ?", postID).
			UpdateColumn("likes_count", actual).Error
		if err != nil {
			return 0, fmt.Errorf("failed to fix likes_count: %w", err)
		}
	}

	if LikeCounterInstance != nil {
		if err := LikeCounterInstance.Set(ctx, postID, actual); err != nil {
			return 0, fmt.Errorf("failed to reconcile counter: %w", err)
		}
	}
	return actual, nil
}

// cachedLikeCounts возвращает счетчики из Redis и засевает отсутствующие значениями из БД
func cachedLikeCounts(ctx context.Context, posts []models.Post) map[uuid.UUID]int64 {
	if LikeCounterInstance == nil || len(posts) == 0 {
		return nil
	}
	ids := make([]uuid.UUID, len(posts))
	for i, p := range posts {
		ids[i] = p.ID
	}
	counts, err := LikeCounterInstance.GetMany(ctx, ids)
	if err != nil {
		log.Printf("ERROR: failed to read like counters: %v", err)
		return nil
	}
	for _, p := range posts {
		if _, ok := counts[p.ID]; ok {
			continue
		}
		if err := LikeCounterInstance.Set(ctx, p.ID, p.LikesCount); err != nil {
			log.Printf("ERROR: failed to seed like counter for post=%s: %v", p.ID, err)
		}
	}
	return counts
}
