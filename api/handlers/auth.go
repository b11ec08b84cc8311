package handlers

import (
	"errors"
	"net/http"
	"tattoola/models"
	"tattoola/services"

	"github.com/gin-gonic/gin"
)

type RegisterRequest struct {
	Email    string      `json:"email" binding:"required,email"`
	Username string      `json:"username"`
	Password string      `json:"password" binding:"required,min=8"`
	Role     models.Role `json:"role"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type LoginResponse struct {
	Token string      `json:"token"`
	User  models.User `json:"user"`
}

func Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}
	// роль мастера выставляется только после заполнения профиля
	if req.Role == models.RoleArtist {
		req.Role = models.RoleUser
	}

	user, err := userService.Register(c.Request.Context(), services.RegisterInput{
		Email:    req.Email,
		Username: req.Username,
		Password: req.Password,
		Role:     req.Role,
	})
	if err != nil {
		respondError(c, err, "Failed to register")
		return
	}
	c.JSON(http.StatusCreated, user)
}

func Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	token, user, err := userService.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, services.ErrUserNotFound) || errors.Is(err, services.ErrInvalidPassword) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
			return
		}
		respondError(c, err, "Internal server error")
		return
	}
	c.JSON(http.StatusOK, LoginResponse{Token: token, User: *user})
}

func Logout(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	if err := userService.Logout(c.Request.Context(), userID); err != nil {
		respondError(c, err, "Internal server error")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Logout successful"})
}
