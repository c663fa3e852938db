package registry

import (
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/2n4a/loreshifter/internal/mode"
	"github.com/2n4a/loreshifter/internal/session"
)

// fakeMode is a minimal rule engine: every resolution succeeds and the fight
// ends after terminalAfter resolutions (0 means never).
type fakeMode struct {
	id            string
	reportedID    string
	terminalAfter int
	resolveCount  int32
}

func newFakeMode() *fakeMode {
	return &fakeMode{id: "fake", reportedID: "fake"}
}

func (m *fakeMode) ID() string   { return m.id }
func (m *fakeMode) Name() string { return "Fake Mode" }

func (m *fakeMode) CreateSession(opts mode.CreateOptions) (*session.Session, error) {
	s := &session.Session{
		ModeID:          m.reportedID,
		Title:           "Fake Session",
		Phase:           session.PhaseAwaitingPlayerSetup,
		ExpectedPlayers: opts.ExpectedPlayers,
		CharacterCreation: session.CharacterCreationRules{
			Attributes: []session.AttributeDefinition{
				{ID: "brawn", MinValue: 1, MaxValue: 5},
				{ID: "wits", MinValue: 1, MaxValue: 5},
				{ID: "luck", MinValue: 0, MaxValue: 3},
			},
			TotalAssignablePoints: 8,
		},
		ItemCatalog: []session.ItemDefinition{
			{ID: "weapon.sword", Name: "Sword", Category: session.ItemCategoryAttack},
			{ID: "armor.shield", Name: "Shield", Category: session.ItemCategoryDefense},
		},
		CreatedAt: time.Now().UTC(),
	}
	if opts.HostPlayerName != "" {
		s.AddPlayer(opts.HostPlayerName)
	}
	return s, nil
}

func (m *fakeMode) CreateInitialTurn(s *session.Session) (*session.Turn, error) {
	return &session.Turn{
		TurnNumber: 1,
		Prompt:     session.GameEvent{Title: "Opening", Description: "It begins."},
		CreatedAt:  time.Now().UTC(),
	}, nil
}

func (m *fakeMode) ResolveTurn(s *session.Session, t *session.Turn) (mode.TurnResolution, error) {
	n := atomic.AddInt32(&m.resolveCount, 1)
	res := mode.TurnResolution{
		Resolution: session.GameEvent{Title: "Resolved", Description: fmt.Sprintf("Round %d done.", t.TurnNumber)},
		Outcome:    session.OutcomeOngoing,
	}
	if m.terminalAfter > 0 && int(n) >= m.terminalAfter {
		res.Outcome = session.OutcomeBossDefeated
		return res, nil
	}
	res.NextPrompt = &session.GameEvent{Title: "Next", Description: "Again."}
	res.NextSuggestions = []session.ActionSuggestion{{Source: "guide", Content: "Keep going."}}
	return res, nil
}

func newTestRegistry(fm *fakeMode) *Registry {
	return New(mode.NewCatalog(fm), rand.New(rand.NewSource(11)))
}

// startSession creates a session with n players, all ready.
func startSession(t *testing.T, r *Registry, n int) (*session.Session, []*session.Player) {
	t.Helper()
	s, err := r.Create("fake", mode.CreateOptions{HostPlayerName: "p0", ExpectedPlayers: n})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	for i := 1; i < n; i++ {
		if _, err := r.Join(s.ID, fmt.Sprintf("p%d", i)); err != nil {
			t.Fatalf("Join p%d: %v", i, err)
		}
	}
	for _, p := range s.Players {
		if err := r.SetReady(s.ID, p.ID, true); err != nil {
			t.Fatalf("SetReady: %v", err)
		}
	}
	if s.Phase != session.PhaseAwaitingActions {
		t.Fatalf("session should be awaiting actions, got %q", s.Phase)
	}
	return s, s.Players
}

func TestCreate_AssignsIDAndCode(t *testing.T) {
	r := newTestRegistry(newFakeMode())
	s, err := r.Create("FAKE", mode.CreateOptions{HostPlayerName: "host"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if s.ID == "" || s.Code == "" {
		t.Fatalf("registry must assign id and code, got %q/%q", s.ID, s.Code)
	}

	byID, err := r.Get(s.ID)
	if err != nil || byID != s {
		t.Fatalf("lookup by id failed: %v", err)
	}
	byCode, err := r.Get("  " + lowered(s.Code) + " ")
	if err != nil || byCode != s {
		t.Fatalf("case-insensitive lookup by code failed: %v", err)
	}
}

func lowered(s string) string {
	out := []rune(s)
	for i, r := range out {
		if r >= 'A' && r <= 'Z' {
			out[i] = r + 32
		}
	}
	return string(out)
}

func TestCreate_UnknownMode(t *testing.T) {
	r := newTestRegistry(newFakeMode())
	if _, err := r.Create("nope", mode.CreateOptions{}); !errors.Is(err, ErrUnknownMode) {
		t.Fatalf("expected ErrUnknownMode, got %v", err)
	}
}

func TestCreate_ModeContractViolation(t *testing.T) {
	fm := newFakeMode()
	fm.reportedID = "something-else"
	r := newTestRegistry(fm)
	if _, err := r.Create("fake", mode.CreateOptions{}); !errors.Is(err, ErrModeContract) {
		t.Fatalf("expected ErrModeContract, got %v", err)
	}
}

func TestGet_NotFound(t *testing.T) {
	r := newTestRegistry(newFakeMode())
	if _, err := r.Get("missing"); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound, got %v", err)
	}
}

func TestJoin_FullSession(t *testing.T) {
	r := newTestRegistry(newFakeMode())
	s, err := r.Create("fake", mode.CreateOptions{HostPlayerName: "host", ExpectedPlayers: 2})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := r.Join(s.ID, "second"); err != nil {
		t.Fatalf("Join: %v", err)
	}
	if _, err := r.Join(s.ID, "third"); !errors.Is(err, ErrSessionFull) {
		t.Fatalf("expected ErrSessionFull, got %v", err)
	}
}

func TestJoin_AfterStart(t *testing.T) {
	r := newTestRegistry(newFakeMode())
	s, _ := startSession(t, r, 2)
	if _, err := r.Join(s.ID, "late"); !errors.Is(err, ErrInvalidPhase) {
		t.Fatalf("expected ErrInvalidPhase, got %v", err)
	}
}

func TestSetReady_StartsWhenAllReadyAndRosterMet(t *testing.T) {
	r := newTestRegistry(newFakeMode())
	s, err := r.Create("fake", mode.CreateOptions{HostPlayerName: "host", ExpectedPlayers: 2})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	host := s.Players[0]

	// Ready host alone: roster target not met, no start.
	if err := r.SetReady(s.ID, host.ID, true); err != nil {
		t.Fatalf("SetReady: %v", err)
	}
	if s.Phase != session.PhaseAwaitingPlayerSetup {
		t.Fatalf("session must not start below the roster target")
	}

	second, err := r.Join(s.ID, "second")
	if err != nil {
		t.Fatalf("Join: %v", err)
	}

	// Host un-readies; readying the second player must not start the game.
	if err := r.SetReady(s.ID, host.ID, false); err != nil {
		t.Fatalf("SetReady: %v", err)
	}
	if err := r.SetReady(s.ID, second.ID, true); err != nil {
		t.Fatalf("SetReady: %v", err)
	}
	if s.Phase != session.PhaseAwaitingPlayerSetup {
		t.Fatalf("session must not start while a player is not ready")
	}

	if err := r.SetReady(s.ID, host.ID, true); err != nil {
		t.Fatalf("SetReady: %v", err)
	}
	if s.Phase != session.PhaseAwaitingActions {
		t.Fatalf("session should have started, phase %q", s.Phase)
	}
	if len(s.Turns) != 1 || s.Turns[0].TurnNumber != 1 {
		t.Fatalf("expected exactly one opening turn, got %d", len(s.Turns))
	}

	// Flipping readiness after the start must not create another turn.
	if err := r.SetReady(s.ID, host.ID, true); err != nil {
		t.Fatalf("SetReady: %v", err)
	}
	if len(s.Turns) != 1 {
		t.Fatalf("first-turn trigger fired twice")
	}
}

func TestSubmitAction_ResolvesOnlyWhenComplete(t *testing.T) {
	fm := newFakeMode()
	r := newTestRegistry(fm)
	s, players := startSession(t, r, 3)

	for i := 0; i < 2; i++ {
		resolved, err := r.SubmitAction(s.ID, players[i].ID, "act")
		if err != nil {
			t.Fatalf("SubmitAction: %v", err)
		}
		if resolved {
			t.Fatalf("turn resolved before all players acted")
		}
	}
	if fm.resolveCount != 0 {
		t.Fatalf("mode resolved early")
	}

	resolved, err := r.SubmitAction(s.ID, players[2].ID, "act")
	if err != nil {
		t.Fatalf("SubmitAction: %v", err)
	}
	if !resolved {
		t.Fatalf("last submission should resolve the turn")
	}
	if fm.resolveCount != 1 {
		t.Fatalf("expected exactly one resolution, got %d", fm.resolveCount)
	}
	if s.Turns[0].Resolution == nil {
		t.Fatalf("resolved turn must carry a resolution")
	}
	if len(s.Turns) != 2 {
		t.Fatalf("next turn should be appended, have %d turns", len(s.Turns))
	}
	if s.Phase != session.PhaseAwaitingActions {
		t.Fatalf("session should await the next round, phase %q", s.Phase)
	}
}

func TestSubmitAction_ConcurrentLastSubmissions(t *testing.T) {
	fm := newFakeMode()
	r := newTestRegistry(fm)
	s, players := startSession(t, r, 4)

	var wg sync.WaitGroup
	var resolvedCount int32
	for _, p := range players {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			resolved, err := r.SubmitAction(s.ID, id, "go")
			if err != nil {
				t.Errorf("SubmitAction: %v", err)
				return
			}
			if resolved {
				atomic.AddInt32(&resolvedCount, 1)
			}
		}(p.ID)
	}
	wg.Wait()

	if resolvedCount != 1 {
		t.Fatalf("exactly one submission must report the resolution, got %d", resolvedCount)
	}
	if fm.resolveCount != 1 {
		t.Fatalf("the turn must resolve exactly once, got %d", fm.resolveCount)
	}
}

func TestSubmitAction_ResubmitReplaces(t *testing.T) {
	r := newTestRegistry(newFakeMode())
	s, players := startSession(t, r, 2)

	if _, err := r.SubmitAction(s.ID, players[0].ID, "first draft"); err != nil {
		t.Fatalf("SubmitAction: %v", err)
	}
	if _, err := r.SubmitAction(s.ID, players[0].ID, "final answer"); err != nil {
		t.Fatalf("SubmitAction: %v", err)
	}

	turn := s.CurrentTurn()
	if len(turn.Actions) != 1 {
		t.Fatalf("resubmission must replace, got %d actions", len(turn.Actions))
	}
	if turn.Actions[0].Content != "final answer" {
		t.Fatalf("expected the replacement content, got %q", turn.Actions[0].Content)
	}
}

func TestSubmitAction_InvalidPhase(t *testing.T) {
	r := newTestRegistry(newFakeMode())
	s, err := r.Create("fake", mode.CreateOptions{HostPlayerName: "host"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := r.SubmitAction(s.ID, s.Players[0].ID, "early"); !errors.Is(err, ErrInvalidPhase) {
		t.Fatalf("expected ErrInvalidPhase, got %v", err)
	}
}

func TestSubmitAction_EliminatedPlayer(t *testing.T) {
	r := newTestRegistry(newFakeMode())
	s, players := startSession(t, r, 2)

	s.Lock()
	players[1].IsAlive = false
	s.Unlock()

	if _, err := r.SubmitAction(s.ID, players[1].ID, "ghost"); !errors.Is(err, ErrPlayerEliminated) {
		t.Fatalf("expected ErrPlayerEliminated, got %v", err)
	}

	// The living player alone now completes the turn.
	resolved, err := r.SubmitAction(s.ID, players[0].ID, "alone")
	if err != nil {
		t.Fatalf("SubmitAction: %v", err)
	}
	if !resolved {
		t.Fatalf("dead players must not block resolution")
	}
}

func TestTerminalResolutionCompletesSession(t *testing.T) {
	fm := newFakeMode()
	fm.terminalAfter = 1
	r := newTestRegistry(fm)
	s, players := startSession(t, r, 1)

	resolved, err := r.SubmitAction(s.ID, players[0].ID, "finish it")
	if err != nil {
		t.Fatalf("SubmitAction: %v", err)
	}
	if !resolved {
		t.Fatalf("expected resolution")
	}
	if s.Phase != session.PhaseCompleted {
		t.Fatalf("terminal outcome must complete the session, phase %q", s.Phase)
	}
	if s.Outcome != session.OutcomeBossDefeated {
		t.Fatalf("expected recorded outcome, got %q", s.Outcome)
	}
	if len(s.Turns) != 1 {
		t.Fatalf("no next turn after a terminal resolution, got %d", len(s.Turns))
	}

	if _, err := r.SubmitAction(s.ID, players[0].ID, "again"); !errors.Is(err, ErrInvalidPhase) {
		t.Fatalf("completed sessions must reject actions, got %v", err)
	}
}

func TestUpdateSetup_NormalizesAttributes(t *testing.T) {
	r := newTestRegistry(newFakeMode())
	s, err := r.Create("fake", mode.CreateOptions{HostPlayerName: "host"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	p := s.Players[0]

	err = r.UpdateSetup(s.ID, p.ID, session.PlayerSetup{
		Character: session.CharacterSheet{
			Name: "Hero",
			Attributes: map[string]int{
				"brawn":   10, // above max, clamps to 5
				"luck":    -3, // below min, clamps to 0
				"unknown": 9,  // not defined, dropped
			},
		},
	})
	if err != nil {
		t.Fatalf("UpdateSetup: %v", err)
	}

	attrs := p.Setup.Character.Attributes
	if _, ok := attrs["unknown"]; ok {
		t.Fatalf("unknown attribute ids must be dropped")
	}
	if attrs["brawn"] > 5 || attrs["luck"] < 0 {
		t.Fatalf("clamping failed: %v", attrs)
	}
	if attrs["wits"] != 1 {
		t.Fatalf("absent attribute must default to its minimum, got %d", attrs["wits"])
	}
	total := attrs["brawn"] + attrs["wits"] + attrs["luck"]
	if total > 8 {
		t.Fatalf("budget exceeded: total %d", total)
	}
}

func TestUpdateSetup_KeepsAssignmentWithinBudget(t *testing.T) {
	r := newTestRegistry(newFakeMode())
	s, err := r.Create("fake", mode.CreateOptions{HostPlayerName: "host"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	p := s.Players[0]

	want := map[string]int{"brawn": 4, "wits": 2, "luck": 2}
	err = r.UpdateSetup(s.ID, p.ID, session.PlayerSetup{
		Character: session.CharacterSheet{Attributes: map[string]int{"brawn": 4, "wits": 2, "luck": 2}},
	})
	if err != nil {
		t.Fatalf("UpdateSetup: %v", err)
	}
	for id, v := range want {
		if p.Setup.Character.Attributes[id] != v {
			t.Fatalf("within-budget assignment must be unchanged, got %v", p.Setup.Character.Attributes)
		}
	}
}

func TestUpdateSetup_FiltersInventory(t *testing.T) {
	r := newTestRegistry(newFakeMode())
	s, err := r.Create("fake", mode.CreateOptions{HostPlayerName: "host"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	p := s.Players[0]

	err = r.UpdateSetup(s.ID, p.ID, session.PlayerSetup{
		Inventory: []string{"weapon.sword", "bogus-id", " WEAPON.SWORD ", "armor.shield"},
	})
	if err != nil {
		t.Fatalf("UpdateSetup: %v", err)
	}

	inv := p.Setup.Inventory
	if len(inv) != 2 || inv[0] != "weapon.sword" || inv[1] != "armor.shield" {
		t.Fatalf("expected [weapon.sword armor.shield], got %v", inv)
	}
}

func TestSubmitQuestionAndChat(t *testing.T) {
	r := newTestRegistry(newFakeMode())
	s, players := startSession(t, r, 1)

	if err := r.SubmitQuestion(s.ID, players[0].ID, "What lurks below?"); err != nil {
		t.Fatalf("SubmitQuestion: %v", err)
	}
	if err := r.SubmitChat(s.ID, players[0].ID, "hello all"); err != nil {
		t.Fatalf("SubmitChat: %v", err)
	}
	if err := r.SubmitChat(s.ID, "no-such-player", "hi"); !errors.Is(err, ErrPlayerNotFound) {
		t.Fatalf("expected ErrPlayerNotFound, got %v", err)
	}

	if len(s.Questions) != 1 || s.Questions[0].Content != "What lurks below?" {
		t.Fatalf("question not recorded: %+v", s.Questions)
	}
	if s.Questions[0].Answer != nil {
		t.Fatalf("questions must start unanswered")
	}
	if len(s.Chat) != 1 || s.Chat[0].Content != "hello all" {
		t.Fatalf("chat not recorded: %+v", s.Chat)
	}
}

func TestNormalizeAttributes_GreedyReduction(t *testing.T) {
	rules := session.CharacterCreationRules{
		Attributes: []session.AttributeDefinition{
			{ID: "a", MinValue: 1, MaxValue: 5},
			{ID: "b", MinValue: 1, MaxValue: 5},
			{ID: "c", MinValue: 0, MaxValue: 3},
		},
		TotalAssignablePoints: 8,
	}
	got := normalizeAttributes(rules, map[string]int{"a": 5, "b": 5, "c": 3})
	total := got["a"] + got["b"] + got["c"]
	if total != 8 {
		t.Fatalf("expected total 8 after reduction, got %d (%v)", total, got)
	}
	// The reduction shaves from the top, so no attribute drops below another
	// by more than the minimum difference allows.
	if got["a"] < 1 || got["b"] < 1 || got["c"] < 0 {
		t.Fatalf("reduction went below a minimum: %v", got)
	}
}

func TestNormalizeAttributes_BudgetBelowMinimums(t *testing.T) {
	rules := session.CharacterCreationRules{
		Attributes: []session.AttributeDefinition{
			{ID: "a", MinValue: 3, MaxValue: 7},
			{ID: "b", MinValue: 3, MaxValue: 7},
		},
		TotalAssignablePoints: 4,
	}
	got := normalizeAttributes(rules, map[string]int{"a": 7, "b": 7})
	if got["a"] != 3 || got["b"] != 3 {
		t.Fatalf("attributes must settle at their minimums, got %v", got)
	}
}
