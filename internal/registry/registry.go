package registry

import (
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/2n4a/loreshifter/internal/constants"
	"github.com/2n4a/loreshifter/internal/joincode"
	"github.com/2n4a/loreshifter/internal/logging"
	"github.com/2n4a/loreshifter/internal/mode"
	"github.com/2n4a/loreshifter/internal/session"
)

// Registry owns every live session. It routes all mutating operations to
// the right session under that session's own lock, so operations on
// different sessions never contend with each other.
type Registry struct {
	mu       sync.RWMutex
	sessions map[string]*session.Session
	byCode   map[string]string

	modes *mode.Catalog

	rngMu sync.Mutex
	rng   *rand.Rand
}

// New builds a registry over the given mode catalog. A nil rng gets a
// time-seeded source; tests pass a seeded one for reproducible join codes.
func New(modes *mode.Catalog, rng *rand.Rand) *Registry {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Registry{
		sessions: make(map[string]*session.Session),
		byCode:   make(map[string]string),
		modes:    modes,
		rng:      rng,
	}
}

// Create asks the mode to build a session, then registers it under a fresh
// id and a collision-free join code. The session only becomes visible to
// lookups once both are bound.
func (r *Registry) Create(modeID string, opts mode.CreateOptions) (*session.Session, error) {
	gm, ok := r.modes.Get(modeID)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownMode, modeID)
	}

	s, err := gm.CreateSession(opts)
	if err != nil {
		return nil, err
	}
	if _, ok := r.modes.Get(s.ModeID); !ok || s.ModeID != gm.ID() {
		return nil, fmt.Errorf("%w: mode %q returned %q", ErrModeContract, gm.ID(), s.ModeID)
	}

	s.ID = uuid.NewString()

	r.mu.Lock()
	for {
		code := r.generateCode()
		if _, taken := r.byCode[code]; taken {
			continue
		}
		s.Code = code
		break
	}
	r.sessions[s.ID] = s
	r.byCode[s.Code] = s.ID
	r.mu.Unlock()

	logging.Info("session created", logging.Fields{
		constants.LogFieldSessionID: s.ID,
		constants.LogFieldJoinCode:  s.Code,
		constants.LogFieldModeID:    s.ModeID,
	})
	return s, nil
}

func (r *Registry) generateCode() string {
	r.rngMu.Lock()
	defer r.rngMu.Unlock()
	return joincode.Generate(r.rng)
}

// Get resolves a session by id or, failing that, by join code
// (case-insensitive).
func (r *Registry) Get(ref string) (*session.Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if s, ok := r.sessions[ref]; ok {
		return s, nil
	}
	if id, ok := r.byCode[joincode.Normalize(ref)]; ok {
		return r.sessions[id], nil
	}
	return nil, fmt.Errorf("%w: %q", ErrSessionNotFound, ref)
}

// Join appends a new player while the session is still in setup and below
// its expected player count.
func (r *Registry) Join(ref, playerName string) (*session.Player, error) {
	s, err := r.Get(ref)
	if err != nil {
		return nil, err
	}

	s.Lock()
	defer s.Unlock()

	if s.Phase != session.PhaseAwaitingPlayerSetup {
		return nil, fmt.Errorf("%w: cannot join after the game has started", ErrInvalidPhase)
	}
	if s.ExpectedPlayers > 0 && len(s.Players) >= s.ExpectedPlayers {
		return nil, ErrSessionFull
	}

	p := s.AddPlayer(playerName)
	logging.Info("player joined", logging.Fields{
		constants.LogFieldSessionID: s.ID,
		constants.LogFieldPlayerID:  p.ID,
	})
	return p, nil
}

// UpdateSetup stores a player's character sheet and inventory, normalizing
// attributes against the session's creation rules and filtering the
// inventory against its item catalog.
func (r *Registry) UpdateSetup(ref, playerID string, requested session.PlayerSetup) error {
	s, err := r.Get(ref)
	if err != nil {
		return err
	}

	s.Lock()
	defer s.Unlock()

	p := s.FindPlayer(playerID)
	if p == nil {
		return ErrPlayerNotFound
	}

	p.Setup.Character.Name = requested.Character.Name
	p.Setup.Character.Concept = requested.Character.Concept
	p.Setup.Character.Backstory = requested.Character.Backstory
	p.Setup.Character.SpecialAbilityName = requested.Character.SpecialAbilityName
	p.Setup.Character.SpecialAbilityDescription = requested.Character.SpecialAbilityDescription
	p.Setup.Character.Attributes = normalizeAttributes(s.CharacterCreation, requested.Character.Attributes)
	p.Setup.Inventory = filterInventory(s.ItemCatalog, requested.Inventory)
	return nil
}

// SetReady flips the player's readiness flag and starts the first turn once
// every player is ready and the expected roster size (if any) is met. The
// trigger fires at most once per session; re-invoking after the game has
// started only flips the flag.
func (r *Registry) SetReady(ref, playerID string, ready bool) error {
	s, err := r.Get(ref)
	if err != nil {
		return err
	}

	s.Lock()
	defer s.Unlock()

	p := s.FindPlayer(playerID)
	if p == nil {
		return ErrPlayerNotFound
	}
	p.IsReady = ready

	return r.tryStartFirstTurn(s)
}

// SubmitAction upserts the player's action into the current turn and, when
// every living player has acted, synchronously resolves the turn. The whole
// sequence runs under the session lock so a turn resolves exactly once even
// under concurrent last-action submissions.
func (r *Registry) SubmitAction(ref, playerID, content string) (bool, error) {
	s, err := r.Get(ref)
	if err != nil {
		return false, err
	}

	s.Lock()
	defer s.Unlock()

	if s.Phase != session.PhaseAwaitingActions {
		return false, fmt.Errorf("%w: the session is not ready for player actions", ErrInvalidPhase)
	}
	p := s.FindPlayer(playerID)
	if p == nil {
		return false, ErrPlayerNotFound
	}
	if !p.IsAlive {
		return false, ErrPlayerEliminated
	}

	turn := s.CurrentTurn()
	if turn == nil {
		return false, ErrNoActiveTurn
	}

	turn.UpsertAction(session.PlayerAction{
		PlayerID:    p.ID,
		PlayerName:  p.Name,
		Content:     content,
		SubmittedAt: time.Now().UTC(),
	})

	if !allRequiredActionsSubmitted(s, turn) {
		return false, nil
	}
	if err := r.resolveTurn(s, turn); err != nil {
		return false, err
	}
	return true, nil
}

// SubmitQuestion appends a free-form question. Questions are never answered
// by the core; the answer slot stays nil.
func (r *Registry) SubmitQuestion(ref, playerID, content string) error {
	s, err := r.Get(ref)
	if err != nil {
		return err
	}

	s.Lock()
	defer s.Unlock()

	p := s.FindPlayer(playerID)
	if p == nil {
		return ErrPlayerNotFound
	}
	s.AddQuestion(session.Question{
		PlayerID:   p.ID,
		PlayerName: p.Name,
		Content:    content,
		CreatedAt:  time.Now().UTC(),
	})
	return nil
}

// SubmitChat appends an out-of-turn chat message.
func (r *Registry) SubmitChat(ref, playerID, content string) error {
	s, err := r.Get(ref)
	if err != nil {
		return err
	}

	s.Lock()
	defer s.Unlock()

	p := s.FindPlayer(playerID)
	if p == nil {
		return ErrPlayerNotFound
	}
	s.AddChat(session.ChatMessage{
		PlayerID:   p.ID,
		PlayerName: p.Name,
		Content:    content,
		CreatedAt:  time.Now().UTC(),
	})
	return nil
}

// tryStartFirstTurn creates turn 1 when the readiness conditions are met.
// Caller must hold the session lock.
func (r *Registry) tryStartFirstTurn(s *session.Session) error {
	if s.Phase != session.PhaseAwaitingPlayerSetup {
		return nil
	}
	if len(s.Players) == 0 {
		return nil
	}
	if s.ExpectedPlayers > 0 && len(s.Players) < s.ExpectedPlayers {
		return nil
	}
	for _, p := range s.Players {
		if !p.IsReady {
			return nil
		}
	}

	gm, ok := r.modes.Get(s.ModeID)
	if !ok {
		return fmt.Errorf("%w: session references %q", ErrUnknownMode, s.ModeID)
	}
	turn, err := gm.CreateInitialTurn(s)
	if err != nil {
		return err
	}
	s.AddTurn(turn)
	s.Phase = session.PhaseAwaitingActions

	logging.Info("first turn started", logging.Fields{
		constants.LogFieldSessionID: s.ID,
		constants.LogFieldTurn:      turn.TurnNumber,
	})
	return nil
}

// resolveTurn runs the mode's resolution and advances the phase. Caller must
// hold the session lock; the resolving phase never yields to another
// operation on the same session.
func (r *Registry) resolveTurn(s *session.Session, turn *session.Turn) error {
	gm, ok := r.modes.Get(s.ModeID)
	if !ok {
		return fmt.Errorf("%w: session references %q", ErrUnknownMode, s.ModeID)
	}

	s.Phase = session.PhaseResolvingTurn
	result, err := gm.ResolveTurn(s, turn)
	if err != nil {
		s.Phase = session.PhaseAwaitingActions
		return err
	}

	resolution := result.Resolution
	turn.Resolution = &resolution

	if result.Outcome != session.OutcomeOngoing {
		s.Phase = session.PhaseCompleted
		s.Outcome = result.Outcome
		logging.Info("session completed", logging.Fields{
			constants.LogFieldSessionID: s.ID,
			constants.LogFieldTurn:      turn.TurnNumber,
			constants.LogFieldOutcome:   string(result.Outcome),
		})
		return nil
	}

	if result.NextPrompt != nil {
		next := &session.Turn{
			TurnNumber: turn.TurnNumber + 1,
			Prompt:     *result.NextPrompt,
			CreatedAt:  time.Now().UTC(),
		}
		next.SetSuggestions(result.NextSuggestions)
		s.AddTurn(next)
	}
	s.Phase = session.PhaseAwaitingActions
	return nil
}

// allRequiredActionsSubmitted reports whether every living player has an
// action recorded for the turn.
func allRequiredActionsSubmitted(s *session.Session, turn *session.Turn) bool {
	for _, p := range s.Players {
		if p.IsAlive && !turn.HasActionFrom(p.ID) {
			return false
		}
	}
	return true
}
