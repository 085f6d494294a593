package service

import (
	"errors"
	"fmt"
	"time"

	"clinic-billing-backend/internal/models"
	"clinic-billing-backend/internal/repository"
	"clinic-billing-backend/pkg/utils"
)

type AuthService struct {
	userRepo  *repository.UserRepository
	auditRepo AuditLogger
}

func NewAuthService(userRepo *repository.UserRepository, auditRepo AuditLogger) *AuthService {
	return &AuthService{
		userRepo:  userRepo,
		auditRepo: auditRepo,
	}
}

// LoginResponse represents the response structure for login
type LoginResponse struct {
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token"`
	User         UserResponse `json:"user"`
}

type UserResponse struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

// Register creates a new staff account
func (s *AuthService) Register(username, password, role string) (*UserResponse, error) {
	if role == "" {
		role = "staff"
	}

	hash, err := utils.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Username:     username,
		PasswordHash: hash,
		Role:         role,
	}
	if err := s.userRepo.CreateUser(user); err != nil {
		return nil, errors.New("username already taken")
	}

	userIDPtr := &user.ID
	_ = s.auditRepo.CreateAuditLog(userIDPtr, "user_register", fmt.Sprintf("User %s registered", username))

	return &UserResponse{ID: user.ID, Username: user.Username, Role: user.Role}, nil
}

// Login authenticates a user and returns tokens
func (s *AuthService) Login(username, password string) (*LoginResponse, error) {
	user, err := s.userRepo.FindUserByUsername(username)
	if err != nil {
		return nil, errors.New("invalid credentials")
	}

	if !utils.ComparePassword(user.PasswordHash, password) {
		return nil, errors.New("invalid credentials")
	}

	accessToken, err := utils.GenerateAccessToken(user.ID, user.Role)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	refreshToken, err := utils.GenerateRefreshToken()
	if err != nil {
		return nil, fmt.Errorf("failed to generate refresh token: %w", err)
	}

	// Only the hash of the refresh token is stored
	tokenHash := utils.HashRefreshToken(refreshToken)
	refreshTokenModel := &models.RefreshToken{
		UserID:    user.ID,
		TokenHash: tokenHash,
		ExpiresAt: time.Now().Add(utils.GetRefreshTokenExpiry()),
	}
	if err := s.userRepo.CreateRefreshToken(refreshTokenModel); err != nil {
		return nil, fmt.Errorf("failed to store refresh token: %w", err)
	}

	userIDPtr := &user.ID
	_ = s.auditRepo.CreateAuditLog(userIDPtr, "user_login", fmt.Sprintf("User %s logged in", username))

	return &LoginResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		User: UserResponse{
			ID:       user.ID,
			Username: user.Username,
			Role:     user.Role,
		},
	}, nil
}

// Refresh exchanges a valid refresh token for a new access token
func (s *AuthService) Refresh(refreshToken string) (string, error) {
	tokenHash := utils.HashRefreshToken(refreshToken)

	stored, err := s.userRepo.FindRefreshTokenByHash(tokenHash)
	if err != nil {
		return "", errors.New("invalid refresh token")
	}
	if time.Now().After(stored.ExpiresAt) {
		_ = s.userRepo.RevokeRefreshTokenByHash(tokenHash)
		return "", errors.New("refresh token expired")
	}

	accessToken, err := utils.GenerateAccessToken(stored.User.ID, stored.User.Role)
	if err != nil {
		return "", fmt.Errorf("failed to generate access token: %w", err)
	}
	return accessToken, nil
}

// Logout revokes the refresh token so it cannot be used again
func (s *AuthService) Logout(refreshToken string) error {
	tokenHash := utils.HashRefreshToken(refreshToken)
	if err := s.userRepo.RevokeRefreshTokenByHash(tokenHash); err != nil {
		return fmt.Errorf("failed to revoke refresh token: %w", err)
	}
	return nil
}
