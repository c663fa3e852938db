package session

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Phase is the lifecycle stage of a session. Transitions are monotonic
// except for the awaiting-actions/resolving-turn cycle; nothing leaves
// PhaseCompleted.
type Phase string

const (
	PhaseAwaitingPlayerSetup Phase = "awaiting_player_setup"
	PhaseAwaitingActions     Phase = "awaiting_actions"
	PhaseResolvingTurn       Phase = "resolving_turn"
	PhaseCompleted           Phase = "completed"
)

// Outcome is the terminal result of a session. Empty means the session has
// not finished yet.
type Outcome string

const (
	OutcomeOngoing         Outcome = "ongoing"
	OutcomeBossDefeated    Outcome = "boss_defeated"
	OutcomePlayersDefeated Outcome = "players_defeated"
)

// ModeState is the opaque, mode-owned state variant attached to a session.
// Each game mode contributes exactly one implementation keyed by its mode id;
// the registry stores and replaces it wholesale but never inspects it.
type ModeState interface {
	StateModeID() string
}

// GameEvent is a narration beat: a turn prompt or a turn resolution.
type GameEvent struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

// PlayerAction is a player's free-text move for one turn. Immutable once
// recorded; resubmitting replaces the whole record.
type PlayerAction struct {
	PlayerID    string    `json:"player_id"`
	PlayerName  string    `json:"player_name"`
	Content     string    `json:"content"`
	SubmittedAt time.Time `json:"submitted_at"`
}

// ActionSuggestion is an engine-supplied hint shown alongside a prompt.
type ActionSuggestion struct {
	Source  string `json:"source"`
	Content string `json:"content"`
}

// ChatMessage is an out-of-turn message between players.
type ChatMessage struct {
	PlayerID   string    `json:"player_id"`
	PlayerName string    `json:"player_name"`
	Content    string    `json:"content"`
	CreatedAt  time.Time `json:"created_at"`
}

// Question is a free-form player question. Answer stays nil until some
// out-of-core collaborator fills it in.
type Question struct {
	PlayerID   string    `json:"player_id"`
	PlayerName string    `json:"player_name"`
	Content    string    `json:"content"`
	Answer     *string   `json:"answer"`
	CreatedAt  time.Time `json:"created_at"`
}

// CharacterSheet is the free-text part of a player's setup plus the
// attribute point assignment keyed by attribute id.
type CharacterSheet struct {
	Name                      string         `json:"name"`
	Concept                   string         `json:"concept"`
	Backstory                 string         `json:"backstory"`
	SpecialAbilityName        string         `json:"special_ability_name"`
	SpecialAbilityDescription string         `json:"special_ability_description"`
	Attributes                map[string]int `json:"attributes"`
}

// PlayerSetup is a player's character sheet and chosen inventory (item ids
// drawn from the session's item catalog).
type PlayerSetup struct {
	Character CharacterSheet `json:"character"`
	Inventory []string       `json:"inventory"`
}

// Player is one participant in a session.
type Player struct {
	ID      string      `json:"id"`
	Name    string      `json:"name"`
	Setup   PlayerSetup `json:"setup"`
	IsReady bool        `json:"is_ready"`
	IsAlive bool        `json:"is_alive"`
}

// Turn is one prompt/response round. A turn is resolved once Resolution is
// set; after that only the resolution field itself may still be touched.
type Turn struct {
	TurnNumber  int                `json:"turn_number"`
	Prompt      GameEvent          `json:"prompt"`
	Resolution  *GameEvent         `json:"resolution"`
	Actions     []PlayerAction     `json:"actions"`
	Suggestions []ActionSuggestion `json:"suggestions"`
	CreatedAt   time.Time          `json:"created_at"`
}

// IsResolved reports whether the turn has a resolution narration.
func (t *Turn) IsResolved() bool { return t.Resolution != nil }

// UpsertAction records the action, replacing any previous entry from the
// same player so a turn never holds two actions for one player.
func (t *Turn) UpsertAction(a PlayerAction) {
	for i := range t.Actions {
		if t.Actions[i].PlayerID == a.PlayerID {
			t.Actions[i] = a
			return
		}
	}
	t.Actions = append(t.Actions, a)
}

// HasActionFrom reports whether the given player has an action this turn.
func (t *Turn) HasActionFrom(playerID string) bool {
	for i := range t.Actions {
		if t.Actions[i].PlayerID == playerID {
			return true
		}
	}
	return false
}

// SetSuggestions replaces the turn's suggestion list.
func (t *Turn) SetSuggestions(suggestions []ActionSuggestion) {
	t.Suggestions = append(t.Suggestions[:0], suggestions...)
}

// Session is one live game: lifecycle state, roster, turn log and the
// mode-owned simulation state. A session lives in the registry only; it is
// never persisted and disappears with the process.
type Session struct {
	mu sync.Mutex

	ID              string  `json:"id"`
	Code            string  `json:"code"`
	ModeID          string  `json:"mode_id"`
	Title           string  `json:"title"`
	Phase           Phase   `json:"phase"`
	Outcome         Outcome `json:"outcome,omitempty"`
	ExpectedPlayers int     `json:"expected_players,omitempty"`

	Prologue          string                 `json:"prologue"`
	WorldLore         WorldDescription       `json:"world_lore"`
	CharacterCreation CharacterCreationRules `json:"character_creation"`
	BossProfile       BossProfile            `json:"boss_profile"`
	BossOverview      string                 `json:"boss_overview"`
	ItemCatalog       []ItemDefinition       `json:"item_catalog"`

	ModeState ModeState `json:"mode_state"`

	Players   []*Player     `json:"players"`
	Turns     []*Turn       `json:"turns"`
	Chat      []ChatMessage `json:"chat"`
	Questions []Question    `json:"questions"`

	CreatedAt time.Time `json:"created_at"`
}

// Lock acquires the session's mutex. Every read-modify-write sequence on a
// session, including the cascading resolve triggered by the last action
// submission, must run under this lock.
func (s *Session) Lock() { s.mu.Lock() }

// Unlock releases the session's mutex.
func (s *Session) Unlock() { s.mu.Unlock() }

// AddPlayer appends a new player with a fresh id. Caller must hold the lock.
func (s *Session) AddPlayer(name string) *Player {
	p := &Player{
		ID:      uuid.NewString(),
		Name:    name,
		IsAlive: true,
		Setup: PlayerSetup{
			Character: CharacterSheet{Attributes: map[string]int{}},
			Inventory: []string{},
		},
	}
	s.Players = append(s.Players, p)
	return p
}

// FindPlayer returns the player with the given id, or nil.
func (s *Session) FindPlayer(playerID string) *Player {
	for _, p := range s.Players {
		if p.ID == playerID {
			return p
		}
	}
	return nil
}

// AddTurn appends a turn to the session's log.
func (s *Session) AddTurn(t *Turn) { s.Turns = append(s.Turns, t) }

// CurrentTurn returns the last unresolved turn, or nil if every turn has
// been resolved (or none exist).
func (s *Session) CurrentTurn() *Turn {
	for i := len(s.Turns) - 1; i >= 0; i-- {
		if !s.Turns[i].IsResolved() {
			return s.Turns[i]
		}
	}
	return nil
}

// LastTurn returns the most recent turn, resolved or not.
func (s *Session) LastTurn() *Turn {
	if len(s.Turns) == 0 {
		return nil
	}
	return s.Turns[len(s.Turns)-1]
}

// AddChat appends an out-of-turn chat message.
func (s *Session) AddChat(m ChatMessage) { s.Chat = append(s.Chat, m) }

// AddQuestion appends a player question.
func (s *Session) AddQuestion(q Question) { s.Questions = append(s.Questions, q) }

// AlivePlayers returns the players still participating in action rounds.
func (s *Session) AlivePlayers() []*Player {
	alive := make([]*Player, 0, len(s.Players))
	for _, p := range s.Players {
		if p.IsAlive {
			alive = append(alive, p)
		}
	}
	return alive
}
