package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func Follow(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	targetID, ok := uuidParam(c, "user_id", "Invalid user ID")
	if !ok {
		return
	}

	if err := followService.Follow(c.Request.Context(), userID, targetID); err != nil {
		respondError(c, err, "Failed to follow")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Followed"})
}

func Unfollow(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	targetID, ok := uuidParam(c, "user_id", "Invalid user ID")
	if !ok {
		return
	}

	if err := followService.Unfollow(c.Request.Context(), userID, targetID); err != nil {
		respondError(c, err, "Failed to unfollow")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Unfollowed"})
}

func GetFollowing(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	authors, err := followService.Following(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err, "Failed to get following")
		return
	}
	c.JSON(http.StatusOK, gin.H{"following": authors})
}
