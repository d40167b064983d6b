package handler

import (
	"context"
	"errors"
	"net/http"

	"volunteer-connect/internal/logger"
	"volunteer-connect/internal/model"
	"volunteer-connect/internal/service"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct{ auth *service.AuthService }

func NewAuthHandler(auth *service.AuthService) *AuthHandler { return &AuthHandler{auth: auth} }

// POST /api/auth/login  body: {"email":"...","password":"..."}
func (h *AuthHandler) Login(c *gin.Context) {
	var req model.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	a, token, err := h.auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			logger.Warn("login.failed", "email", req.Email)
			c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
			return
		}
		logger.Error("login.error", "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "login failed"})
		return
	}

	logger.Info("login.ok", "uid", a.ID, "user_type", a.UserType)
	c.JSON(http.StatusOK, model.LoginResponse{
		Token:    token,
		UserType: a.UserType,
		User:     model.User{ID: a.ID, Name: a.DisplayName(), Email: a.Email, UserType: a.UserType},
	})
}

// POST /api/auth/register/volunteer
func (h *AuthHandler) RegisterVolunteer(c *gin.Context) {
	var req model.VolunteerRegistration
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": bindingMessage(err)})
		return
	}
	h.finishRegister(c, func(ctx context.Context) (*model.Account, error) {
		return h.auth.RegisterVolunteer(ctx, req)
	})
}

// POST /api/auth/register/organization
func (h *AuthHandler) RegisterOrganization(c *gin.Context) {
	var req model.OrganizationRegistration
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": bindingMessage(err)})
		return
	}
	h.finishRegister(c, func(ctx context.Context) (*model.Account, error) {
		return h.auth.RegisterOrganization(ctx, req)
	})
}

func (h *AuthHandler) finishRegister(c *gin.Context, register func(context.Context) (*model.Account, error)) {
	a, err := register(c.Request.Context())
	switch {
	case errors.Is(err, service.ErrEmailTaken):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	case errors.Is(err, service.ErrTermsNotAccepted):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	case err != nil:
		logger.Error("register.error", "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "registration failed"})
		return
	}
	logger.Info("register.ok", "uid", a.ID, "user_type", a.UserType)
	c.JSON(http.StatusCreated, model.RegisterResponse{ID: a.ID, UserType: a.UserType})
}
