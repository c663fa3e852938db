package bossfight

import (
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/2n4a/loreshifter/internal/mode"
	"github.com/2n4a/loreshifter/internal/session"
)

const ModeID = "boss-battle"

// ErrWrongState marks a session whose mode state does not belong to this
// mode. It indicates a wiring defect, not a recoverable player error.
var ErrWrongState = errors.New("session state is not configured for the boss fight mode")

// Mode is the boss-fight rule engine. One instance serves all sessions of
// this mode; its random source is shared, so draws are mutex-guarded.
type Mode struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// New builds the mode. A nil rng gets a time-seeded source; tests pass a
// seeded one to make victim selection and thresholds reproducible.
func New(rng *rand.Rand) *Mode {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Mode{rng: rng}
}

func (m *Mode) ID() string   { return ModeID }
func (m *Mode) Name() string { return "Obsidian Titan Siege" }

func (m *Mode) intn(n int) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.rng.Intn(n)
}

// CreateSession seeds a session from the static reference data. The session
// id and join code are left empty for the registry to assign.
func (m *Mode) CreateSession(opts mode.CreateOptions) (*session.Session, error) {
	profile := cloneBossProfile()
	scenario := ScenarioPlayersTriumph
	if opts.BossWinsScenario {
		scenario = ScenarioBossTriumph
	}

	s := &session.Session{
		ModeID:            ModeID,
		Title:             "Siege of the Obsidian Titan",
		Phase:             session.PhaseAwaitingPlayerSetup,
		ExpectedPlayers:   opts.ExpectedPlayers,
		Prologue:          "For weeks the continent has shuddered in the wake of an obsidian colossus forged from dead stars. The heroes finally corner the titan at the heart of a shattered citadel, knowing this battle will decide the fate of the realm.",
		WorldLore:         worldLore,
		CharacterCreation: cloneCharacterRules(),
		BossProfile:       profile,
		BossOverview:      "Obsidian Titan, a colossal construct harnessing stellar embers. Strengths: devastating area attacks and resilient armour. Weaknesses: destabilizes when interrupted mid-channel; vulnerable joints at the shoulders and chest.",
		ItemCatalog:       cloneItemCatalog(),
		ModeState: State{
			BossHealth: profile.MaxHealth,
			Rage:       profile.StartingRage,
			Scenario:   scenario,
		},
		CreatedAt: time.Now().UTC(),
	}

	if opts.HostPlayerName != "" {
		host := s.AddPlayer(opts.HostPlayerName)
		host.Setup.Inventory = append(host.Setup.Inventory, defaultHostInventory...)
	}

	return s, nil
}

// CreateInitialTurn advances the internal turn counter to 1 and emits the
// opening prompt.
func (m *Mode) CreateInitialTurn(s *session.Session) (*session.Turn, error) {
	st, ok := s.ModeState.(State)
	if !ok {
		return nil, ErrWrongState
	}
	st.Turn = 1
	s.ModeState = st

	t := &session.Turn{
		TurnNumber: st.Turn,
		Prompt: session.GameEvent{
			Title:       "The Titan draws in cosmic fire",
			Description: "The obsidian titan raises both arms, drawing in swirling cosmic embers. The air vibrates with impending devastation. Each hero has only moments to respond before the inferno erupts.",
			CreatedAt:   time.Now().UTC(),
		},
		CreatedAt: time.Now().UTC(),
	}
	t.SetSuggestions(m.buildSuggestions(s))
	return t, nil
}

// ResolveTurn scores the submitted actions, applies the scenario overlay and
// produces the resolution narration plus the next prompt when the fight
// continues.
func (m *Mode) ResolveTurn(s *session.Session, t *session.Turn) (mode.TurnResolution, error) {
	st, ok := s.ModeState.(State)
	if !ok {
		return mode.TurnResolution{}, ErrWrongState
	}

	impact := estimateImpact(t.Actions)
	next := st
	next.Turn = st.Turn + 1
	next.BossHealth = st.BossHealth - impact
	if next.BossHealth < 0 {
		next.BossHealth = 0
	}
	next.Rage = st.Rage + 10 + 3*len(t.Actions)
	if next.Rage > 100 {
		next.Rage = 100
	}

	scenarioLines, forcedDefeat := m.applyScenario(s, st, &next)

	outcome := session.OutcomeOngoing
	switch {
	case next.BossHealth <= 0:
		outcome = session.OutcomeBossDefeated
	case forcedDefeat || len(s.AlivePlayers()) == 0:
		outcome = session.OutcomePlayersDefeated
	}

	resolution := session.GameEvent{
		Title:       "Clash Resolution",
		Description: buildResolution(s, t.Actions, next, scenarioLines, outcome),
		CreatedAt:   time.Now().UTC(),
	}

	var nextPrompt *session.GameEvent
	if outcome == session.OutcomeOngoing {
		nextPrompt = &session.GameEvent{
			Title:       fmt.Sprintf("Boss counter-surge (Turn %d)", next.Turn),
			Description: buildNextPrompt(s, next),
			CreatedAt:   time.Now().UTC(),
		}
	}

	s.ModeState = next

	return mode.TurnResolution{
		Resolution:      resolution,
		NextPrompt:      nextPrompt,
		NextSuggestions: m.buildSuggestions(s),
		Outcome:         outcome,
	}, nil
}

// estimateImpact rewards participation and, mildly, descriptive detail. The
// per-action text bonus is capped so very long submissions cannot scale
// without bound.
func estimateImpact(actions []session.PlayerAction) int {
	if len(actions) == 0 {
		return 0
	}
	impact := 12 * len(actions)
	for _, a := range actions {
		bonus := len(a.Content) / 12
		if bonus > 18 {
			bonus = 18
		}
		impact += bonus
	}
	return impact
}

func (m *Mode) randomAlivePlayer(s *session.Session) *session.Player {
	alive := s.AlivePlayers()
	if len(alive) == 0 {
		return nil
	}
	return alive[m.intn(len(alive))]
}

// applyScenario layers the pre-scripted narrative arc on top of the numeric
// step, possibly adjusting health, rage and player alive-flags. It returns
// narration lines and whether the players' defeat is forced this turn.
func (m *Mode) applyScenario(s *session.Session, pre State, next *State) ([]string, bool) {
	var lines []string

	switch pre.Scenario {
	case ScenarioBossTriumph:
		// The boss cannot be hurt in this script and its fury compounds.
		next.BossHealth = pre.BossHealth
		if next.Rage < pre.Rage+15 {
			next.Rage = pre.Rage + 15
			if next.Rage > 100 {
				next.Rage = 100
			}
		}
		if victim := m.randomAlivePlayer(s); victim != nil {
			victim.IsAlive = false
			lines = append(lines, fmt.Sprintf("The titan singles out %s and buries them under a collapsing wall of obsidian.", victim.Name))
		}
		if len(s.AlivePlayers()) == 0 {
			return lines, true
		}

	case ScenarioPlayersTriumph:
		if !next.SacrificeResolved {
			if next.MarkedPlayerID == "" {
				if victim := m.randomAlivePlayer(s); victim != nil {
					next.MarkedPlayerID = victim.ID
					next.RequiredAssaults = 2 + m.intn(2)
					next.AssaultsEndured = 0
					lines = append(lines, fmt.Sprintf("A hunting shadow detaches from the titan's frame and begins to circle %s.", victim.Name))
				}
			} else {
				next.AssaultsEndured++
				if next.AssaultsEndured >= next.RequiredAssaults {
					if marked := s.FindPlayer(next.MarkedPlayerID); marked != nil {
						marked.IsAlive = false
						lines = append(lines, fmt.Sprintf("The shadow finally closes: %s is dragged into the titan's molten core. Their sacrifice cracks its armour wide open.", marked.Name))
					}
					next.SacrificeResolved = true
				} else {
					lines = append(lines, "The hunting shadow tightens its circles, patient and inevitable.")
				}
			}
		}
		// Until the sacrifice plays out the fight must not end on damage
		// alone, so the titan clings to its last sliver of vitality.
		if !next.SacrificeResolved && next.BossHealth < 1 {
			next.BossHealth = 1
		}
	}

	return lines, false
}
