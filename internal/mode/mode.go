package mode

import (
	"sort"
	"strings"

	"github.com/2n4a/loreshifter/internal/session"
)

// CreateOptions carries the caller's choices for a new session.
type CreateOptions struct {
	// HostPlayerName, when set, pre-joins a host player into the session.
	HostPlayerName string
	// ExpectedPlayers caps the roster and gates the readiness trigger.
	// Zero means no target.
	ExpectedPlayers int
	// BossWinsScenario selects the boss-victory narrative script instead of
	// the default players-victory one.
	BossWinsScenario bool
}

// TurnResolution is what a mode returns from resolving a turn.
type TurnResolution struct {
	Resolution      session.GameEvent
	NextPrompt      *session.GameEvent
	NextSuggestions []session.ActionSuggestion
	Outcome         session.Outcome
}

// GameMode is the capability interface every rule engine implements. The
// registry is mode-agnostic: it only routes sessions and turns through this
// contract.
type GameMode interface {
	ID() string
	Name() string

	// CreateSession builds a new session seeded with the mode's reference
	// data and initial mode state. The returned session's ModeID must equal
	// the mode's own id; the registry verifies this and assigns the session
	// id and join code afterwards.
	CreateSession(opts CreateOptions) (*session.Session, error)

	// CreateInitialTurn is invoked exactly once per session, when the
	// readiness conditions are first met.
	CreateInitialTurn(s *session.Session) (*session.Turn, error)

	// ResolveTurn narrates and scores a completed turn. The mode may mutate
	// player alive-flags and must replace the session's mode state wholesale.
	ResolveTurn(s *session.Session, t *session.Turn) (TurnResolution, error)
}

// Catalog is the fixed id-to-mode mapping built once at startup. Lookups are
// case-insensitive.
type Catalog struct {
	modes map[string]GameMode
}

// NewCatalog builds a catalog from the given modes. Later entries win on
// duplicate ids.
func NewCatalog(modes ...GameMode) *Catalog {
	c := &Catalog{modes: make(map[string]GameMode, len(modes))}
	for _, m := range modes {
		c.modes[strings.ToLower(m.ID())] = m
	}
	return c
}

// Get returns the mode registered under id (case-insensitive).
func (c *Catalog) Get(id string) (GameMode, bool) {
	m, ok := c.modes[strings.ToLower(strings.TrimSpace(id))]
	return m, ok
}

// IDs lists the registered mode ids in stable order.
func (c *Catalog) IDs() []string {
	ids := make([]string, 0, len(c.modes))
	for id := range c.modes {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
