package bossfight

// Scenario selects which pre-scripted narrative arc overlays the numeric
// simulation. It is fixed at session creation.
type Scenario string

const (
	// ScenarioPlayersTriumph guarantees a mid-fight casualty before victory:
	// one player is marked and eventually sacrificed, and until that sub-plot
	// resolves the boss cannot die to damage alone.
	ScenarioPlayersTriumph Scenario = "players_triumph"
	// ScenarioBossTriumph scripts a losing fight: the boss takes no damage,
	// its rage accelerates and one player falls every turn.
	ScenarioBossTriumph Scenario = "boss_triumph"
)

// State is the boss-fight mode's session state. It is replaced wholesale on
// every resolution; only this package interprets it.
type State struct {
	BossHealth int      `json:"boss_health"`
	Rage       int      `json:"rage"`
	Turn       int      `json:"turn"`
	Scenario   Scenario `json:"scenario"`

	// Forced-sacrifice bookkeeping, used only by ScenarioPlayersTriumph.
	MarkedPlayerID    string `json:"marked_player_id,omitempty"`
	AssaultsEndured   int    `json:"assaults_endured,omitempty"`
	RequiredAssaults  int    `json:"required_assaults,omitempty"`
	SacrificeResolved bool   `json:"sacrifice_resolved,omitempty"`
}

// StateModeID tags the variant with its owning mode.
func (State) StateModeID() string { return ModeID }
