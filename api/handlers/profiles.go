package handlers

import (
	"net/http"
	"tattoola/models"

	"github.com/gin-gonic/gin"
)

// CompleteUserProfile принимает итог мастера регистрации клиента
func CompleteUserProfile(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	var steps models.UserRegistrationSteps
	if err := c.ShouldBindJSON(&steps); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	user, err := profileService.CompleteUserProfile(c.Request.Context(), userID, steps)
	if err != nil {
		respondError(c, err, "Failed to save profile")
		return
	}
	c.JSON(http.StatusOK, user)
}

func CompleteArtistProfile(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	var steps models.ArtistRegistrationSteps
	if err := c.ShouldBindJSON(&steps); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	profile, err := profileService.CompleteArtistProfile(c.Request.Context(), userID, steps)
	if err != nil {
		respondError(c, err, "Failed to save artist profile")
		return
	}
	c.JSON(http.StatusOK, profile)
}

func CreateStudio(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	var steps models.StudioSetupSteps
	if err := c.ShouldBindJSON(&steps); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	studio, err := profileService.CreateStudio(c.Request.Context(), userID, steps)
	if err != nil {
		respondError(c, err, "Failed to create studio")
		return
	}
	c.JSON(http.StatusCreated, studio)
}
