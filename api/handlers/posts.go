package handlers

import (
	"net/http"
	"strconv"
	"tattoola/models"
	"tattoola/services"

	"github.com/gin-gonic/gin"
)

type CreatePostRequest struct {
	Caption string         `json:"caption"`
	Media   []models.Media `json:"media" binding:"max=10,dive"`
}

// CreatePost создает новый пост
func CreatePost(c *gin.Context) {
	var req CreatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	post, err := postService.CreatePost(c.Request.Context(), userID, services.CreatePostInput{
		Caption: req.Caption,
		Media:   req.Media,
	})
	if err != nil {
		respondError(c, err, "Failed to create post")
		return
	}

	c.JSON(http.StatusCreated, post)
}

// GetFeed получает страницу ленты: ?limit=&cursor=
func GetFeed(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	limit := 0
	if limitStr := c.Query("limit"); limitStr != "" {
		parsed, err := strconv.Atoi(limitStr)
		if err != nil || parsed <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid limit"})
			return
		}
		limit = parsed
	}

	var cursor *string
	if cursorStr, exists := c.GetQuery("cursor"); exists && cursorStr != "" {
		cursor = &cursorStr
	}

	feed, err := postService.GetFeed(c.Request.Context(), userID, cursor, limit)
	if err != nil {
		respondError(c, err, "Failed to get feed")
		return
	}

	c.JSON(http.StatusOK, feed)
}

func GetPost(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	postID, ok := uuidParam(c, "post_id", "Invalid post ID")
	if !ok {
		return
	}

	post, err := postService.GetPost(c.Request.Context(), userID, postID)
	if err != nil {
		respondError(c, err, "Failed to get post")
		return
	}
	c.JSON(http.StatusOK, post)
}

// DeletePost удаляет пост
func DeletePost(c *gin.Context) {
	postID, ok := uuidParam(c, "post_id", "Invalid post ID")
	if !ok {
		return
	}
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	if err := postService.DeletePost(c.Request.Context(), userID, postID); err != nil {
		respondError(c, err, "Failed to delete post")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Post deleted successfully"})
}

// TogglePostLike переключает лайк и возвращает итоговое состояние
func TogglePostLike(c *gin.Context) {
	postID, ok := uuidParam(c, "post_id", "Invalid post ID")
	if !ok {
		return
	}
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	result, err := likeService.TogglePostLike(c.Request.Context(), postID, userID)
	if err != nil {
		respondError(c, err, "Failed to toggle like")
		return
	}
	c.JSON(http.StatusOK, result)
}

// InvalidateUserFeed инвалидирует кеш ленты пользователя (админский эндпоинт)
func InvalidateUserFeed(c *gin.Context) {
	userID, ok := uuidParam(c, "user_id", "Invalid user ID")
	if !ok {
		return
	}

	if err := postService.InvalidateUserFeed(c.Request.Context(), userID); err != nil {
		respondError(c, err, "Failed to invalidate cache")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Cache invalidated successfully"})
}

// RebuildUserFeed перестраивает кеш ленты пользователя из БД (админский эндпоинт)
func RebuildUserFeed(c *gin.Context) {
	userID, ok := uuidParam(c, "user_id", "Invalid user ID")
	if !ok {
		return
	}

	if err := postService.RebuildUserFeedFromDB(c.Request.Context(), userID); err != nil {
		respondError(c, err, "Failed to rebuild feed")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Feed rebuilt successfully"})
}

// ReconcilePostLikes сверяет счетчик лайков с БД (админский эндпоинт)
func ReconcilePostLikes(c *gin.Context) {
	postID, ok := uuidParam(c, "post_id", "Invalid post ID")
	if !ok {
		return
	}

	count, err := likeService.ReconcileLikeCounter(c.Request.Context(), postID)
	if err != nil {
		respondError(c, err, "Failed to reconcile likes")
		return
	}
	c.JSON(http.StatusOK, gin.H{"likes_count": count})
}

// GetQueueStats возвращает статистику очереди (админский эндпоинт)
func GetQueueStats(c *gin.Context) {
	if services.QueueServiceInstance == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Queue service not available"})
		return
	}

	stats, err := services.QueueServiceInstance.GetStats(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get queue stats"})
		return
	}

	c.JSON(http.StatusOK, stats)
}
