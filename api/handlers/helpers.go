package handlers

import (
	"errors"
	"log"
	"net/http"
	"tattoola/api/middleware"
	"tattoola/services"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

var (
	userService    = services.NewUserService()
	postService    = services.NewPostService()
	likeService    = services.NewLikeService()
	followService  = services.NewFollowService()
	profileService = services.NewProfileService()
	requestService = services.NewRequestService()
)

// currentUserID достает пользователя, установленного AuthMiddleware
func currentUserID(c *gin.Context) (uuid.UUID, bool) {
	v, exists := c.Get(middleware.UserIDKey)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return uuid.Nil, false
	}
	userID, ok := v.(uuid.UUID)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return uuid.Nil, false
	}
	return userID, true
}

func uuidParam(c *gin.Context, name, message string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": message})
		return uuid.Nil, false
	}
	return id, true
}

// respondError переводит ошибки сервисов в HTTP статусы
func respondError(c *gin.Context, err error, fallback string) {
	var verr *services.ValidationError
	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Validation failed", "fields": verr.Errors})
	case errors.Is(err, services.ErrPostNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Post not found"})
	case errors.Is(err, services.ErrUserNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
	case errors.Is(err, services.ErrInvalidCursor):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid cursor"})
	case errors.Is(err, services.ErrCannotFollowSelf):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Cannot follow yourself"})
	case errors.Is(err, services.ErrEmptyPost):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Post must have a caption or media"})
	case errors.Is(err, services.ErrNotAnArtist):
		c.JSON(http.StatusBadRequest, gin.H{"error": "User is not an artist"})
	case errors.Is(err, services.ErrAlreadyFollowing):
		c.JSON(http.StatusConflict, gin.H{"error": "Already following"})
	case errors.Is(err, services.ErrNotFollowing):
		c.JSON(http.StatusNotFound, gin.H{"error": "Not following"})
	case errors.Is(err, services.ErrUserExists):
		c.JSON(http.StatusConflict, gin.H{"error": "User already exists"})
	case errors.Is(err, services.ErrRedisNotAvailable):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Redis not available"})
	default:
		log.Printf("ERROR: %s: %v", fallback, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": fallback})
	}
}
