package registry

import (
	"math/rand"
	"strings"
	"testing"

	"github.com/2n4a/loreshifter/internal/bossfight"
	"github.com/2n4a/loreshifter/internal/joincode"
	"github.com/2n4a/loreshifter/internal/mode"
	"github.com/2n4a/loreshifter/internal/session"
)

// TestBossFightFlow drives a full solo session through the real boss-fight
// mode: create, setup, ready, and a couple of action rounds.
func TestBossFightFlow(t *testing.T) {
	bm := bossfight.New(rand.New(rand.NewSource(21)))
	r := New(mode.NewCatalog(bm), rand.New(rand.NewSource(22)))

	s, err := r.Create(bossfight.ModeID, mode.CreateOptions{HostPlayerName: "Solo", ExpectedPlayers: 1})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if !joincode.IsValid(s.Code) {
		t.Fatalf("session code %q is not a valid join code", s.Code)
	}
	host := s.Players[0]

	err = r.UpdateSetup(s.ID, host.ID, session.PlayerSetup{
		Character: session.CharacterSheet{
			Name:       "Solo the Bold",
			Attributes: map[string]int{"vitality": 4, "might": 4, "arcana": 2, "aid": 2},
		},
		Inventory: []string{"weapon.sword", "armor.shield"},
	})
	if err != nil {
		t.Fatalf("UpdateSetup: %v", err)
	}
	if got := len(host.Setup.Inventory); got != 2 {
		t.Fatalf("catalog items should survive filtering, got %d", got)
	}

	if err := r.SetReady(s.ID, host.ID, true); err != nil {
		t.Fatalf("SetReady: %v", err)
	}
	if s.Phase != session.PhaseAwaitingActions {
		t.Fatalf("solo session should start once the host is ready, phase %q", s.Phase)
	}

	resolved, err := r.SubmitAction(s.ID, host.ID, "I drive my sword into the glowing joint at its shoulder.")
	if err != nil {
		t.Fatalf("SubmitAction: %v", err)
	}
	if !resolved {
		t.Fatalf("a solo submission must resolve the turn")
	}
	if len(s.Turns) != 2 {
		t.Fatalf("expected the second turn to be queued, got %d turns", len(s.Turns))
	}

	second := s.Turns[1]
	if second.TurnNumber != 2 {
		t.Fatalf("expected turn number 2, got %d", second.TurnNumber)
	}
	if !strings.Contains(second.Prompt.Description, "vitality remaining") {
		t.Fatalf("second prompt should reference the boss's remaining vitality, got %q", second.Prompt.Description)
	}
	if len(second.Suggestions) == 0 {
		t.Fatalf("second turn should carry fresh suggestions")
	}

	st, ok := s.ModeState.(bossfight.State)
	if !ok {
		t.Fatalf("mode state should be the boss fight state, got %T", s.ModeState)
	}
	if st.BossHealth >= s.BossProfile.MaxHealth {
		t.Fatalf("the boss should have taken damage, health %d", st.BossHealth)
	}

	// A second round keeps the cycle going.
	if _, err := r.SubmitAction(s.ID, host.ID, "I press the attack."); err != nil {
		t.Fatalf("SubmitAction round 2: %v", err)
	}
	if s.Phase != session.PhaseAwaitingActions && s.Phase != session.PhaseCompleted {
		t.Fatalf("unexpected phase after round 2: %q", s.Phase)
	}
}
