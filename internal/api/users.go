package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/2n4a/loreshifter/internal/constants"
	"github.com/2n4a/loreshifter/internal/storage"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// UserHandler serves account profiles.
type UserHandler struct {
	repo storage.Repository
}

func NewUserHandler(repo storage.Repository) *UserHandler {
	return &UserHandler{repo: repo}
}

type UpdateUserRequest struct {
	Name string `json:"name"`
}

// GetUser resolves a profile by numeric id, or "me" for the session user.
func (h *UserHandler) GetUser(c *gin.Context) {
	ref := c.Param("userID")
	if ref == "me" {
		email := currentUserEmail(c)
		if email == "" {
			c.JSON(http.StatusUnauthorized, gin.H{constants.JSONKeyError: constants.ErrAuthRequired})
			return
		}
		u, err := h.repo.GetUserByEmail(email)
		if err != nil {
			respondUserError(c, err)
			return
		}
		c.JSON(http.StatusOK, u)
		return
	}

	id, ok := parseUintParam(c, "userID")
	if !ok {
		return
	}
	u, err := h.repo.GetUserByID(id)
	if err != nil {
		respondUserError(c, err)
		return
	}
	// Other users' profiles are public but their email is not.
	if u.Email != currentUserEmail(c) {
		u.Email = ""
	}
	c.JSON(http.StatusOK, u)
}

// UpdateUser changes the session user's display name. Accounts can only
// edit themselves.
func (h *UserHandler) UpdateUser(c *gin.Context) {
	var req UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Name) == "" {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidRequest})
		return
	}

	email := currentUserEmail(c)
	if email == "" {
		c.JSON(http.StatusUnauthorized, gin.H{constants.JSONKeyError: constants.ErrAuthRequired})
		return
	}
	u, err := h.repo.GetUserByEmail(email)
	if err != nil {
		respondUserError(c, err)
		return
	}

	u.Name = strings.TrimSpace(req.Name)
	if err := h.repo.UpdateUser(u); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{constants.JSONKeyError: constants.ErrFailedUpdateUser})
		return
	}
	c.JSON(http.StatusOK, u)
}

func respondUserError(c *gin.Context, err error) {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusNotFound, gin.H{constants.JSONKeyError: constants.ErrUserNotFound})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{constants.JSONKeyError: constants.ErrFailedFetchUser})
}
