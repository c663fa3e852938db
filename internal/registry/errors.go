package registry

import "errors"

var (
	// ErrUnknownMode means the requested mode id is not in the catalog.
	ErrUnknownMode = errors.New("unknown game mode")
	// ErrModeContract means a mode returned a session whose mode id does not
	// match its own. This is a configuration defect in the mode, not a
	// client error.
	ErrModeContract = errors.New("game mode returned a session with a mismatched mode id")
	// ErrSessionNotFound means no live session matches the given id or code.
	ErrSessionNotFound = errors.New("session not found")
	// ErrPlayerNotFound means the player id is not on the session's roster.
	ErrPlayerNotFound = errors.New("player not found in session")
	// ErrInvalidPhase means the operation is not allowed in the session's
	// current phase.
	ErrInvalidPhase = errors.New("the session does not accept this operation in its current phase")
	// ErrSessionFull means the roster already holds the expected player count.
	ErrSessionFull = errors.New("the session is full")
	// ErrPlayerEliminated means an eliminated player tried to act.
	ErrPlayerEliminated = errors.New("eliminated players cannot submit actions")
	// ErrNoActiveTurn is an internal invariant violation: the session is
	// awaiting actions but holds no unresolved turn.
	ErrNoActiveTurn = errors.New("no active turn is available")
)
