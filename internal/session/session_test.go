package session

import "testing"

func TestUpsertAction_ReplacesByPlayer(t *testing.T) {
	turn := &Turn{TurnNumber: 1}
	turn.UpsertAction(PlayerAction{PlayerID: "p1", Content: "first"})
	turn.UpsertAction(PlayerAction{PlayerID: "p2", Content: "other"})
	turn.UpsertAction(PlayerAction{PlayerID: "p1", Content: "second"})

	if len(turn.Actions) != 2 {
		t.Fatalf("expected 2 actions, got %d", len(turn.Actions))
	}
	if turn.Actions[0].Content != "second" {
		t.Fatalf("expected replacement in place, got %q", turn.Actions[0].Content)
	}
	if !turn.HasActionFrom("p1") || !turn.HasActionFrom("p2") || turn.HasActionFrom("p3") {
		t.Fatalf("HasActionFrom gave wrong answers")
	}
}

func TestCurrentTurn_SkipsResolved(t *testing.T) {
	s := &Session{}
	if s.CurrentTurn() != nil {
		t.Fatalf("empty session has no current turn")
	}

	first := &Turn{TurnNumber: 1}
	s.AddTurn(first)
	if s.CurrentTurn() != first {
		t.Fatalf("unresolved turn should be current")
	}

	first.Resolution = &GameEvent{Title: "done"}
	if s.CurrentTurn() != nil {
		t.Fatalf("resolved turns are never current")
	}

	second := &Turn{TurnNumber: 2}
	s.AddTurn(second)
	if s.CurrentTurn() != second {
		t.Fatalf("the new turn should be current")
	}
	if s.LastTurn() != second {
		t.Fatalf("LastTurn should return the most recent turn")
	}
}

func TestAddPlayerAndAlivePlayers(t *testing.T) {
	s := &Session{}
	a := s.AddPlayer("a")
	b := s.AddPlayer("b")
	if a.ID == b.ID {
		t.Fatalf("player ids must be unique")
	}
	if !a.IsAlive || a.IsReady {
		t.Fatalf("new players start alive and not ready")
	}
	if a.Setup.Character.Attributes == nil {
		t.Fatalf("setup must be initialized")
	}

	b.IsAlive = false
	alive := s.AlivePlayers()
	if len(alive) != 1 || alive[0] != a {
		t.Fatalf("AlivePlayers should return only living players")
	}
}

func TestCurrentRagePhase(t *testing.T) {
	profile := BossProfile{RagePhases: []RagePhase{
		{RageThreshold: 0},
		{RageThreshold: 50},
	}}
	if got := profile.CurrentRagePhase(49); got.RageThreshold != 0 {
		t.Fatalf("expected base phase, got %d", got.RageThreshold)
	}
	if got := profile.CurrentRagePhase(50); got.RageThreshold != 50 {
		t.Fatalf("expected elevated phase, got %d", got.RageThreshold)
	}

	empty := BossProfile{}
	if empty.CurrentRagePhase(10) != nil {
		t.Fatalf("no phases means no current phase")
	}
}
