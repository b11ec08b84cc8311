package handlers

import (
	"net/http"
	"tattoola/models"

	"github.com/gin-gonic/gin"
)

// CreateRequest - приватный запрос клиента мастеру
func CreateRequest(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	var answers models.PrivateRequestAnswers
	if err := c.ShouldBindJSON(&answers); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	req, err := requestService.CreateRequest(c.Request.Context(), userID, answers)
	if err != nil {
		respondError(c, err, "Failed to create request")
		return
	}
	c.JSON(http.StatusCreated, req)
}

func GetIncomingRequests(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	reqs, err := requestService.Incoming(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err, "Failed to get requests")
		return
	}
	c.JSON(http.StatusOK, gin.H{"requests": reqs})
}
