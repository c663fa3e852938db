package api

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/2n4a/loreshifter/internal/constants"
	"github.com/2n4a/loreshifter/internal/joincode"
	"github.com/2n4a/loreshifter/internal/storage"
	"github.com/2n4a/loreshifter/internal/world"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// GameRecordHandler serves the durable game directory. These records let
// players browse and rediscover games; the live turn state stays with the
// session registry.
type GameRecordHandler struct {
	repo storage.Repository
}

func NewGameRecordHandler(repo storage.Repository) *GameRecordHandler {
	return &GameRecordHandler{repo: repo}
}

type CreateGameRecordRequest struct {
	Code       string `json:"code"`
	Name       string `json:"name"`
	Public     bool   `json:"public"`
	WorldID    uint   `json:"world_id"`
	MaxPlayers int    `json:"max_players"`
}

func (h *GameRecordHandler) ListGames(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "25"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	games, err := h.repo.ListGameRecords(limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{constants.JSONKeyError: constants.ErrFailedFetchGames})
		return
	}
	c.JSON(http.StatusOK, games)
}

// GetGame resolves a record by numeric id or join code through the same
// path parameter.
func (h *GameRecordHandler) GetGame(c *gin.Context) {
	ref := c.Param("gameRef")
	if id, err := strconv.ParseUint(ref, 10, 32); err == nil {
		g, err := h.repo.GetGameRecordByID(uint(id))
		if err != nil {
			respondGameRecordError(c, err)
			return
		}
		c.JSON(http.StatusOK, g)
		return
	}

	code := joincode.Normalize(ref)
	if !joincode.IsValid(code) {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidRequest})
		return
	}
	g, err := h.repo.FindGameRecordByCode(code)
	if err != nil {
		respondGameRecordError(c, err)
		return
	}
	c.JSON(http.StatusOK, g)
}

func (h *GameRecordHandler) CreateGame(c *gin.Context) {
	var req CreateGameRecordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidRequest})
		return
	}
	code := joincode.Normalize(req.Code)
	if strings.TrimSpace(req.Name) == "" || !joincode.IsValid(code) {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidRequest})
		return
	}

	email := currentUserEmail(c)
	if email == "" {
		c.JSON(http.StatusUnauthorized, gin.H{constants.JSONKeyError: constants.ErrAuthRequired})
		return
	}
	host, err := h.repo.GetUserByEmail(email)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{constants.JSONKeyError: constants.ErrUserNotFound})
		return
	}

	g := world.GameRecord{
		Code:       code,
		Name:       strings.TrimSpace(req.Name),
		Public:     req.Public,
		WorldID:    req.WorldID,
		HostID:     host.ID,
		MaxPlayers: req.MaxPlayers,
		Status:     world.StatusWaiting,
	}
	if err := h.repo.CreateGameRecord(&g); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{constants.JSONKeyError: constants.ErrFailedCreateGameRec})
		return
	}
	c.JSON(http.StatusCreated, g)
}

func respondGameRecordError(c *gin.Context, err error) {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusNotFound, gin.H{constants.JSONKeyError: constants.ErrGameRecordNotFound})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{constants.JSONKeyError: constants.ErrFailedFetchGames})
}
