package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/2n4a/loreshifter/internal/constants"
	"github.com/2n4a/loreshifter/internal/mode"
	"github.com/2n4a/loreshifter/internal/registry"
	"github.com/2n4a/loreshifter/internal/session"
	"github.com/gin-gonic/gin"
)

// PlayHandler groups the live-session endpoints over the registry.
type PlayHandler struct {
	reg *registry.Registry
}

func NewPlayHandler(reg *registry.Registry) *PlayHandler {
	return &PlayHandler{reg: reg}
}

type CreateSessionRequest struct {
	Mode             string `json:"mode"`
	PlayerName       string `json:"player_name"`
	ExpectedPlayers  int    `json:"expected_players"`
	BossWinsScenario bool   `json:"boss_wins_scenario"`
}

type JoinSessionRequest struct {
	PlayerName string `json:"player_name"`
}

type PlayerSetupRequest struct {
	Character session.CharacterSheet `json:"character"`
	Inventory []string               `json:"inventory"`
}

type PlayerReadyRequest struct {
	Ready *bool `json:"ready"`
}

type SubmitContentRequest struct {
	PlayerID string `json:"player_id"`
	Content  string `json:"content"`
}

// writeSessionJSON serializes the full session under its own lock, then
// writes the buffer outside any further registry involvement. Network I/O
// never runs inside the critical section.
func writeSessionJSON(c *gin.Context, status int, s *session.Session) {
	s.Lock()
	b, err := json.Marshal(s)
	s.Unlock()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{constants.JSONKeyError: constants.ErrInvalidRequest, constants.JSONKeyDetails: err.Error()})
		return
	}
	c.Data(status, "application/json; charset=utf-8", b)
}

// respondPlayError maps registry sentinel errors onto HTTP statuses.
func respondPlayError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, registry.ErrSessionNotFound):
		c.JSON(http.StatusNotFound, gin.H{constants.JSONKeyError: constants.ErrSessionNotFound})
	case errors.Is(err, registry.ErrPlayerNotFound):
		c.JSON(http.StatusNotFound, gin.H{constants.JSONKeyError: constants.ErrPlayerNotFound})
	case errors.Is(err, registry.ErrUnknownMode):
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrUnknownMode})
	case errors.Is(err, registry.ErrInvalidPhase),
		errors.Is(err, registry.ErrSessionFull),
		errors.Is(err, registry.ErrPlayerEliminated):
		c.JSON(http.StatusConflict, gin.H{constants.JSONKeyError: err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{constants.JSONKeyError: constants.ErrFailedCreateGame, constants.JSONKeyDetails: err.Error()})
	}
}

func (h *PlayHandler) CreateSession(c *gin.Context) {
	var req CreateSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidRequest})
		return
	}
	if strings.TrimSpace(req.Mode) == "" {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrModeRequired})
		return
	}

	s, err := h.reg.Create(req.Mode, mode.CreateOptions{
		HostPlayerName:   strings.TrimSpace(req.PlayerName),
		ExpectedPlayers:  req.ExpectedPlayers,
		BossWinsScenario: req.BossWinsScenario,
	})
	if err != nil {
		respondPlayError(c, err)
		return
	}
	writeSessionJSON(c, http.StatusCreated, s)
}

// GetSession resolves a session by id or join code, both through the same
// path parameter.
func (h *PlayHandler) GetSession(c *gin.Context) {
	s, err := h.reg.Get(c.Param("sessionRef"))
	if err != nil {
		respondPlayError(c, err)
		return
	}
	writeSessionJSON(c, http.StatusOK, s)
}

func (h *PlayHandler) Join(c *gin.Context) {
	var req JoinSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.PlayerName) == "" {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrPlayerNameNeeded})
		return
	}

	p, err := h.reg.Join(c.Param("sessionRef"), strings.TrimSpace(req.PlayerName))
	if err != nil {
		respondPlayError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *PlayHandler) UpdateSetup(c *gin.Context) {
	var req PlayerSetupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidRequest})
		return
	}

	setup := session.PlayerSetup{Character: req.Character, Inventory: req.Inventory}
	if err := h.reg.UpdateSetup(c.Param("sessionRef"), c.Param("playerID"), setup); err != nil {
		respondPlayError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *PlayHandler) SetReady(c *gin.Context) {
	// Missing or empty body means "ready", matching the common client flow
	// where un-readying is the explicit case.
	ready := true
	var req PlayerReadyRequest
	if err := c.ShouldBindJSON(&req); err == nil && req.Ready != nil {
		ready = *req.Ready
	}

	if err := h.reg.SetReady(c.Param("sessionRef"), c.Param("playerID"), ready); err != nil {
		respondPlayError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *PlayHandler) SubmitAction(c *gin.Context) {
	req, ok := bindContentRequest(c)
	if !ok {
		return
	}

	resolved, err := h.reg.SubmitAction(c.Param("sessionRef"), req.PlayerID, req.Content)
	if err != nil {
		respondPlayError(c, err)
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"turn_resolved": resolved})
}

func (h *PlayHandler) SubmitQuestion(c *gin.Context) {
	req, ok := bindContentRequest(c)
	if !ok {
		return
	}
	if err := h.reg.SubmitQuestion(c.Param("sessionRef"), req.PlayerID, req.Content); err != nil {
		respondPlayError(c, err)
		return
	}
	c.Status(http.StatusAccepted)
}

func (h *PlayHandler) SubmitChat(c *gin.Context) {
	req, ok := bindContentRequest(c)
	if !ok {
		return
	}
	if err := h.reg.SubmitChat(c.Param("sessionRef"), req.PlayerID, req.Content); err != nil {
		respondPlayError(c, err)
		return
	}
	c.Status(http.StatusAccepted)
}

func bindContentRequest(c *gin.Context) (SubmitContentRequest, bool) {
	var req SubmitContentRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.PlayerID == "" {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidRequest})
		return req, false
	}
	if strings.TrimSpace(req.Content) == "" {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrContentRequired})
		return req, false
	}
	return req, true
}
