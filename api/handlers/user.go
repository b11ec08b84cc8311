package handlers

import (
	"net/http"
	"tattoola/api/middleware"

	"github.com/gin-gonic/gin"
)

func UserGet(c *gin.Context) {
	userID, ok := uuidParam(c, "id", "Invalid user ID")
	if !ok {
		return
	}

	user, err := userService.GetUser(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err, "Internal server error")
		return
	}
	// закрытый профиль посторонним отдается только карточкой автора
	if viewerID, _ := c.Get(middleware.UserIDKey); !user.IsPublic && viewerID != user.ID {
		c.JSON(http.StatusOK, user.Author())
		return
	}
	c.JSON(http.StatusOK, user)
}
