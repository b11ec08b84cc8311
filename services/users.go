package services

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"
	"log"
	"strings"
	"tattoola/db"
	"tattoola/models"

	"github.com/google/uuid"
	"golang.org/x/crypto/argon2"
	"gorm.io/gorm"
)

type RegisterInput struct {
	Email    string
	Username string
	Password string
	Role     models.Role
}

type UserService struct{}

func NewUserService() *UserService {
	return &UserService{}
}

func hashPassword(password string) (string, error) {
	salt := make([]byte, 16)
	if _, err := rand.Read(salt); err != nil {
		return "", err
	}
	hash := argon2.IDKey([]byte(password), salt, 1, 64*1024, 4, 32)
	return hex.EncodeToString(salt) + "$" + hex.EncodeToString(hash), nil
}

func checkPassword(stored, password string) error {
	parts := strings.Split(stored, "$")
	if len(parts) != 2 {
		return errors.New("invalid password format")
	}
	salt, err := hex.DecodeString(parts[0])
	if err != nil {
		return err
	}
	want, err := hex.DecodeString(parts[1])
	if err != nil {
		return err
	}
	hash := argon2.IDKey([]byte(password), salt, 1, 64*1024, 4, 32)
	if subtle.ConstantTimeCompare(hash, want) != 1 {
		return ErrInvalidPassword
	}
	return nil
}

func (s *UserService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	if in.Email == "" || in.Password == "" {
		return nil, errors.New("email and password are required")
	}
	if in.Role == "" {
		in.Role = models.RoleUser
	}
	if in.Username == "" {
		in.Username, _, _ = strings.Cut(in.Email, "@")
	}

	var exists int64
	err := db.GetReadOnlyDB(ctx).Model(&models.User{}).
		Where("email = ? OR username = ?", in.Email, in.Username).
		Count(&exists).Error
	if err != nil {
		return nil, fmt.Errorf("error checking user: %w", err)
	}
	if exists > 0 {
		return nil, ErrUserExists
	}

	hash, err := hashPassword(in.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Email:    in.Email,
		Username: in.Username,
		Password: hash,
		Role:     in.Role,
		IsPublic: true,
	}
	if err := db.GetWriteDB(ctx).Create(user).Error; err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	log.Printf("DEBUG: registered user id=%s role=%s", user.ID, user.Role)
	return user, nil
}

// Login проверяет пароль и выдает новый токен, старые токены пользователя удаляются
func (s *UserService) Login(ctx context.Context, email, password string) (string, *models.User, error) {
	var user models.User
	err := db.GetReadOnlyDB(ctx).Where("email = ?", strings.ToLower(strings.TrimSpace(email))).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", nil, ErrUserNotFound
	}
	if err != nil {
		return "", nil, err
	}
	if err := checkPassword(user.Password, password); err != nil {
		return "", nil, err
	}

	if err := s.Logout(ctx, user.ID); err != nil {
		return "", nil, err
	}

	tokenBytes := make([]byte, 32)
	if _, err := rand.Read(tokenBytes); err != nil {
		return "", nil, err
	}
	token := hex.EncodeToString(tokenBytes)

	err = db.GetWriteDB(ctx).Create(&models.UserTokens{UserID: user.ID, Token: token}).Error
	if err != nil {
		return "", nil, fmt.Errorf("failed to save token: %w", err)
	}
	return token, &user, nil
}

func (s *UserService) Logout(ctx context.Context, userID uuid.UUID) error {
	return db.GetWriteDB(ctx).Where("user_id = ?", userID).Delete(&models.UserTokens{}).Error
}

// CheckToken возвращает пользователя, которому выдан токен
func (s *UserService) CheckToken(ctx context.Context, token string) (uuid.UUID, error) {
	if token == "" {
		return uuid.Nil, ErrInvalidToken
	}
	var t models.UserTokens
	err := db.GetReadOnlyDB(ctx).Where("token = ?", token).First(&t).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return uuid.Nil, ErrInvalidToken
	}
	if err != nil {
		return uuid.Nil, err
	}
	return t.UserID, nil
}

func (s *UserService) GetUser(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	var user models.User
	err := db.GetReadOnlyDB(ctx).First(&user, "id = ?", userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}
