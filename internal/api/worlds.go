package api

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/2n4a/loreshifter/internal/constants"
	"github.com/2n4a/loreshifter/internal/logging"
	"github.com/2n4a/loreshifter/internal/storage"
	"github.com/2n4a/loreshifter/internal/world"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// WorldHandler groups the world-store CRUD endpoints.
type WorldHandler struct {
	repo storage.Repository
}

func NewWorldHandler(repo storage.Repository) *WorldHandler {
	return &WorldHandler{repo: repo}
}

type WorldRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Public      bool   `json:"public"`
	Data        string `json:"data"`
}

// ListWorlds supports limit/offset/sort/order/search/public query params.
// Anonymous public listings take the deduplicated fast path.
func (h *WorldHandler) ListWorlds(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "25"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	params := storage.WorldListParams{
		Limit:  limit,
		Offset: offset,
		Sort:   c.DefaultQuery("sort", "last_updated_at"),
		Order:  c.DefaultQuery("order", "desc"),
		Search: c.Query("search"),
	}
	if v := c.Query("public"); v != "" {
		pub := v == "1" || strings.EqualFold(v, "true")
		params.Public = &pub
	}

	if isAnonymousPublicListing(c, params) {
		worlds, err := h.repo.ListPublicWorlds(params.Limit)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{constants.JSONKeyError: constants.ErrFailedFetchWorlds})
			return
		}
		c.JSON(http.StatusOK, worlds)
		return
	}

	worlds, err := h.repo.ListWorlds(params)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{constants.JSONKeyError: constants.ErrFailedFetchWorlds})
		return
	}
	c.JSON(http.StatusOK, worlds)
}

// isAnonymousPublicListing reports whether the request is the unauthenticated
// default public browse, the only listing hot enough to need collapsing.
func isAnonymousPublicListing(c *gin.Context, params storage.WorldListParams) bool {
	if _, authed := c.Get("userEmail"); authed {
		return false
	}
	return params.Public != nil && *params.Public &&
		params.Offset == 0 && params.Search == "" &&
		params.Sort == "last_updated_at" && strings.EqualFold(params.Order, "desc")
}

func (h *WorldHandler) GetWorld(c *gin.Context) {
	id, ok := parseUintParam(c, "worldID")
	if !ok {
		return
	}
	w, err := h.repo.GetWorldByID(id)
	if err != nil {
		respondWorldError(c, err)
		return
	}
	c.JSON(http.StatusOK, w)
}

func (h *WorldHandler) CreateWorld(c *gin.Context) {
	var req WorldRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidRequest})
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrWorldNameRequired})
		return
	}

	owner, ok := h.currentUser(c)
	if !ok {
		return
	}

	w := world.World{
		Name:        strings.TrimSpace(req.Name),
		Description: req.Description,
		Public:      req.Public,
		OwnerID:     owner.ID,
		Data:        req.Data,
	}
	if err := h.repo.CreateWorld(&w); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{constants.JSONKeyError: constants.ErrFailedCreateWorld})
		return
	}
	logging.Info("world created", logging.Fields{constants.LogFieldWorldID: w.ID})
	c.JSON(http.StatusCreated, w)
}

func (h *WorldHandler) UpdateWorld(c *gin.Context) {
	id, ok := parseUintParam(c, "worldID")
	if !ok {
		return
	}
	var req WorldRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidRequest})
		return
	}

	w, err := h.repo.GetWorldByID(id)
	if err != nil {
		respondWorldError(c, err)
		return
	}
	if !h.requireOwnership(c, w) {
		return
	}

	if strings.TrimSpace(req.Name) != "" {
		w.Name = strings.TrimSpace(req.Name)
	}
	w.Description = req.Description
	w.Public = req.Public
	if req.Data != "" {
		w.Data = req.Data
	}
	if err := h.repo.UpdateWorld(w); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{constants.JSONKeyError: constants.ErrFailedUpdateWorld})
		return
	}
	c.JSON(http.StatusOK, w)
}

func (h *WorldHandler) DeleteWorld(c *gin.Context) {
	id, ok := parseUintParam(c, "worldID")
	if !ok {
		return
	}
	w, err := h.repo.GetWorldByID(id)
	if err != nil {
		respondWorldError(c, err)
		return
	}
	if !h.requireOwnership(c, w) {
		return
	}
	if err := h.repo.DeleteWorld(id); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{constants.JSONKeyError: constants.ErrFailedDeleteWorld})
		return
	}
	c.Status(http.StatusNoContent)
}

// CopyWorld duplicates a world into the authenticated user's library. The
// copy always starts private.
func (h *WorldHandler) CopyWorld(c *gin.Context) {
	id, ok := parseUintParam(c, "worldID")
	if !ok {
		return
	}
	owner, ok := h.currentUser(c)
	if !ok {
		return
	}

	copied, err := h.repo.CopyWorld(id, owner.ID)
	if err != nil {
		respondWorldError(c, err)
		return
	}
	c.JSON(http.StatusCreated, copied)
}

func (h *WorldHandler) currentUser(c *gin.Context) (*world.User, bool) {
	email := currentUserEmail(c)
	if email == "" {
		c.JSON(http.StatusUnauthorized, gin.H{constants.JSONKeyError: constants.ErrAuthRequired})
		return nil, false
	}
	u, err := h.repo.GetUserByEmail(email)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{constants.JSONKeyError: constants.ErrUserNotFound})
		return nil, false
	}
	return u, true
}

func (h *WorldHandler) requireOwnership(c *gin.Context, w *world.World) bool {
	owner, ok := h.currentUser(c)
	if !ok {
		return false
	}
	if w.OwnerID != owner.ID {
		c.JSON(http.StatusForbidden, gin.H{constants.JSONKeyError: constants.ErrWorldNotFound})
		return false
	}
	return true
}

func respondWorldError(c *gin.Context, err error) {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusNotFound, gin.H{constants.JSONKeyError: constants.ErrWorldNotFound})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{constants.JSONKeyError: constants.ErrFailedFetchWorlds})
}

func parseUintParam(c *gin.Context, name string) (uint, bool) {
	v, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidRequest})
		return 0, false
	}
	return uint(v), true
}

func currentUserEmail(c *gin.Context) string {
	if v, ok := c.Get("userEmail"); ok {
		if s, _ := v.(string); s != "" {
			return s
		}
	}
	return ""
}
