package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"goforum/internal/app"
	"goforum/internal/transport/http/middleware"
	"goforum/internal/transport/http/response"
)

type AuthHandler struct {
	authService *app.AuthService
}

func NewAuthHandler(authService *app.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

type RegisterRequest struct {
	Username string `json:"username" binding:"required,min=3,max=64"`
	Email    string `json:"email" binding:"required,email,max=128"`
	Password string `json:"password" binding:"required,min=6,max=128"`
	IsAdmin  bool   `json:"isAdmin"`
}

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type UpdateMeRequest struct {
	Email    string `json:"email" binding:"omitempty,email,max=128"`
	Password string `json:"password" binding:"omitempty,min=6,max=128"`
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err)
		return
	}

	_, err := h.authService.Register(app.RegisterInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
		IsAdmin:  req.IsAdmin,
	})
	if err != nil {
		switch {
		case errors.Is(err, app.ErrInvalidInput):
			response.Message(c, http.StatusBadRequest, "Invalid request payload")
		case errors.Is(err, app.ErrUserExists):
			response.Message(c, http.StatusBadRequest, "Username or email already exists")
		default:
			response.Internal(c, "register user", err)
		}
		return
	}

	response.Message(c, http.StatusCreated, "User registered successfully")
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err)
		return
	}

	result, err := h.authService.Login(app.LoginInput{
		Username: req.Username,
		Password: req.Password,
	})
	if err != nil {
		// Unknown username and wrong password are indistinguishable.
		if errors.Is(err, app.ErrInvalidCredentials) {
			response.Message(c, http.StatusBadRequest, "Invalid username or password")
			return
		}
		response.Internal(c, "login user", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Logged in successfully",
		"token":   result.Token,
		"isAdmin": result.User.IsAdmin,
	})
}

func (h *AuthHandler) Me(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		response.Message(c, http.StatusUnauthorized, "Authorization token is required")
		return
	}
	c.JSON(http.StatusOK, user)
}

func (h *AuthHandler) UpdateMe(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		response.Message(c, http.StatusUnauthorized, "Authorization token is required")
		return
	}

	var req UpdateMeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err)
		return
	}

	updated, err := h.authService.UpdateMe(user.ID, app.UpdateMeInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		switch {
		case errors.Is(err, app.ErrInvalidInput):
			response.Message(c, http.StatusBadRequest, "Nothing to update")
		case errors.Is(err, app.ErrUserExists):
			response.Message(c, http.StatusBadRequest, "Username or email already exists")
		case errors.Is(err, app.ErrUserNotFound):
			response.Message(c, http.StatusNotFound, "User not found")
		default:
			response.Internal(c, "update user", err)
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "User updated successfully",
		"user":    updated,
	})
}

func (h *AuthHandler) DeleteMe(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		response.Message(c, http.StatusUnauthorized, "Authorization token is required")
		return
	}

	if err := h.authService.DeleteMe(user.ID); err != nil {
		if errors.Is(err, app.ErrUserNotFound) {
			response.Message(c, http.StatusNotFound, "User not found")
			return
		}
		response.Internal(c, "delete user", err)
		return
	}

	response.Message(c, http.StatusOK, "User deleted successfully")
}
