package handler

import (
	"github.com/gin-gonic/gin"

	"textbook-assistant-api/internal/application/auth"
	"textbook-assistant-api/internal/domain/entity"
	"textbook-assistant-api/internal/interfaces/http/dto"
	"textbook-assistant-api/internal/interfaces/http/middleware"
)

// AuthHandler serves registration, login and profile endpoints.
type AuthHandler struct {
	auth *auth.Service
}

func NewAuthHandler(authSvc *auth.Service) *AuthHandler {
	return &AuthHandler{auth: authSvc}
}

// Register handles POST /auth/register.
func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, err)
		return
	}

	user, tokens, err := h.auth.Register(c.Request.Context(), req.Email, req.Password, req.Name)
	if err != nil {
		dto.Error(c, err)
		return
	}
	dto.Created(c, &dto.AuthResponse{User: user, Tokens: tokens})
}

// Login handles POST /auth/login.
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, err)
		return
	}

	user, tokens, err := h.auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		dto.Error(c, err)
		return
	}
	dto.Success(c, &dto.AuthResponse{User: user, Tokens: tokens})
}

// Refresh handles POST /auth/refresh.
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req dto.RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, err)
		return
	}

	tokens, err := h.auth.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		dto.Error(c, err)
		return
	}
	dto.Success(c, gin.H{"tokens": tokens})
}

// GetProfile handles GET /profile.
func (h *AuthHandler) GetProfile(c *gin.Context) {
	user, err := h.auth.GetProfile(c.Request.Context(), middleware.CurrentUserID(c))
	if err != nil {
		dto.Error(c, err)
		return
	}
	dto.Success(c, user)
}

// UpdateProfile handles PUT /profile.
func (h *AuthHandler) UpdateProfile(c *gin.Context) {
	var req dto.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, err)
		return
	}

	update := &auth.ProfileUpdate{
		Name:              req.Name,
		PreferredLanguage: req.PreferredLanguage,
		CareerGoals:       req.CareerGoals,
	}
	if req.ExperienceLevel != nil {
		level := entity.ExperienceLevel(*req.ExperienceLevel)
		update.ExperienceLevel = &level
	}
	if req.LearningPace != nil {
		pace := entity.LearningPace(*req.LearningPace)
		update.LearningPace = &pace
	}

	user, err := h.auth.UpdateProfile(c.Request.Context(), middleware.CurrentUserID(c), update)
	if err != nil {
		dto.Error(c, err)
		return
	}
	dto.Success(c, user)
}
