package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"auth-api/internal/service"
)

// AuthHandler mantiene dependencias para los endpoints de autenticación.
type AuthHandler struct {
	logger   *zap.Logger
	authServ *service.AuthService
	userServ *service.UserService
}

// NewAuthHandler crea una instancia de AuthHandler con dependencias necesarias.
func NewAuthHandler(logger *zap.Logger, authServ *service.AuthService, userServ *service.UserService) *AuthHandler {
	return &AuthHandler{
		logger:   logger,
		authServ: authServ,
		userServ: userServ,
	}
}

// Login maneja POST /login.
func (h *AuthHandler) Login(c *gin.Context) {
	var req struct {
		Email      string `json:"email" binding:"required,email"`
		Password   string `json:"password"`
		OAuthToken string `json:"oauth_token"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid login request", zap.Error(err))
		c.JSON(http.StatusUnprocessableEntity, gin.H{"message": "email is required"})
		return
	}

	user, token, err := h.authServ.Login(c.Request.Context(), service.LoginInput{
		Email:      req.Email,
		Password:   req.Password,
		OAuthToken: req.OAuthToken,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUserNotFound):
			c.JSON(http.StatusNotFound, gin.H{"message": "User does not exist"})
		case errors.Is(err, service.ErrInvalidCredentials):
			c.JSON(http.StatusUnauthorized, gin.H{"message": "Invalid credentials"})
		default:
			h.logger.Error("login failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": user, "token": token})
}

// Register maneja POST /register.
func (h *AuthHandler) Register(c *gin.Context) {
	var req struct {
		FirstName  string `json:"first_name" binding:"required"`
		LastName   string `json:"last_name" binding:"required"`
		Email      string `json:"email" binding:"required,email"`
		Password   string `json:"password"`
		Phone      string `json:"phone"`
		AcctType   string `json:"acct_type"`
		ImageURL   string `json:"image_url"`
		OAuthToken string `json:"oauth_token"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid register request", zap.Error(err))
		c.JSON(http.StatusUnprocessableEntity, gin.H{"message": "first_name, last_name and a valid email are required"})
		return
	}

	user, err := h.userServ.Register(c.Request.Context(), service.RegisterInput{
		FirstName:  req.FirstName,
		LastName:   req.LastName,
		Email:      req.Email,
		Password:   req.Password,
		Phone:      req.Phone,
		AcctType:   req.AcctType,
		ImageURL:   req.ImageURL,
		OAuthToken: req.OAuthToken,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrCredentialMissing):
			c.JSON(http.StatusInternalServerError, gin.H{"message": "you must sign up using a password or some other social network"})
		case errors.Is(err, service.ErrUserExists):
			c.JSON(http.StatusConflict, gin.H{"message": "User already exists"})
		default:
			h.logger.Error("register failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"message": "could not register user"})
		}
		return
	}

	c.JSON(http.StatusCreated, user)
}

// CreateTestUser maneja POST /test (alta legacy sobre users_v2).
func (h *AuthHandler) CreateTestUser(c *gin.Context) {
	var req struct {
		Name         string `json:"name"`
		Email        string `json:"email"`
		ImageURL     string `json:"image_url"`
		Nickname     string `json:"nickname"`
		AcctType     string `json:"acct_type"`
		Phone        string `json:"phone"`
		Sub          string `json:"sub"`
		StripeCustID string `json:"stripe_cust_id"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid test signup request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"message": "All fields are required"})
		return
	}
	if req.Name == "" || req.Email == "" || req.ImageURL == "" || req.Nickname == "" || req.Sub == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "All fields are required"})
		return
	}

	user, err := h.userServ.CreateV2User(c.Request.Context(), service.CreateV2UserInput{
		Name:         req.Name,
		Email:        req.Email,
		ImageURL:     req.ImageURL,
		Nickname:     req.Nickname,
		AcctType:     req.AcctType,
		Phone:        req.Phone,
		Sub:          req.Sub,
		StripeCustID: req.StripeCustID,
	})
	if err != nil {
		if errors.Is(err, service.ErrUserExists) {
			c.JSON(http.StatusConflict, gin.H{"message": "user already exists"})
			return
		}
		h.logger.Error("test signup failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"message": "could not create user"})
		return
	}

	c.JSON(http.StatusOK, user)
}

// ListTestUsers maneja GET /test; requiere bearer token.
func (h *AuthHandler) ListTestUsers(c *gin.Context) {
	if claims, ok := GetAuthClaims(c); ok {
		h.logger.Info("test listing requested", zap.String("uid", claims.UserID))
	}

	users, err := h.userServ.ListV2Users(c.Request.Context())
	if err != nil {
		h.logger.Error("list users failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"message": "could not list users"})
		return
	}

	c.JSON(http.StatusOK, users)
}

// DeleteTestUser maneja DELETE /test/:id y responde con el registro eliminado.
func (h *AuthHandler) DeleteTestUser(c *gin.Context) {
	id := c.Param("id")

	removed, err := h.userServ.RemoveV2User(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "cannot find that user"})
			return
		}
		h.logger.Error("delete user failed", zap.Error(err), zap.String("id", id))
		c.JSON(http.StatusInternalServerError, gin.H{"message": "could not delete user"})
		return
	}

	c.JSON(http.StatusOK, removed)
}
