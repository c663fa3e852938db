package bossfight

import (
	"fmt"
	"strings"

	"github.com/2n4a/loreshifter/internal/session"
)

// buildResolution assembles the turn's resolution narration: the submitted
// actions, the status line, scenario lines and (while the fight continues)
// the current rage-phase flavour.
func buildResolution(s *session.Session, actions []session.PlayerAction, st State, scenarioLines []string, outcome session.Outcome) string {
	var b strings.Builder

	if len(actions) == 0 {
		b.WriteString("The party hesitates, granting the titan an opportunity to reinforce its molten armour. The danger escalates.")
	} else {
		b.WriteString("The battlefield erupts as the heroes act in unison:\n")
		for _, a := range actions {
			fmt.Fprintf(&b, "- %s: %s\n", a.PlayerName, a.Content)
		}
		b.WriteString("\n")
		if st.BossHealth <= 0 {
			b.WriteString("A resonant crack splits the titan's core as it collapses, scattering obsidian shards across the ruined arena. Victory!")
		} else {
			fmt.Fprintf(&b, "The titan staggers, molten cracks spiderwebbing its frame. Remaining vitality: %d. Its fury now seethes at %d%%.", st.BossHealth, st.Rage)
		}
	}

	for _, line := range scenarioLines {
		b.WriteString("\n")
		b.WriteString(line)
	}

	if outcome == session.OutcomeOngoing {
		if phase := s.BossProfile.CurrentRagePhase(st.Rage); phase != nil {
			fmt.Fprintf(&b, "\n%s %s", phase.Description, phase.AttackProfile)
		}
	}

	if outcome == session.OutcomePlayersDefeated {
		b.WriteString("\nSilence falls over the crater. No hero remains standing, and the titan turns toward the dome cities.")
	}

	return b.String()
}

// buildNextPrompt produces the next turn's prompt, referencing remaining
// health and the current rage phase's attack style.
func buildNextPrompt(s *session.Session, st State) string {
	behaviour := "The titan braces, shards swirling defensively as it seeks an opening."
	if phase := s.BossProfile.CurrentRagePhase(st.Rage); phase != nil {
		behaviour = phase.AttackProfile
	}

	var b strings.Builder
	fmt.Fprintf(&b, "The obsidian titan reels with %d vitality remaining. %s", st.BossHealth, behaviour)

	switch st.Scenario {
	case ScenarioPlayersTriumph:
		if !st.SacrificeResolved && st.MarkedPlayerID != "" {
			if marked := s.FindPlayer(st.MarkedPlayerID); marked != nil && marked.IsAlive {
				fmt.Fprintf(&b, " A hunting shadow still coils around %s.", marked.Name)
			}
		}
	case ScenarioBossTriumph:
		b.WriteString(" Nothing the heroes do seems to leave a lasting mark.")
	}

	b.WriteString(" Plan your next decisive actions.")
	return b.String()
}

// buildSuggestions returns the guide hints attached to every prompt. The
// defensive hint names a defensive item from the session's catalog when one
// exists.
func (m *Mode) buildSuggestions(s *session.Session) []session.ActionSuggestion {
	suggestions := []session.ActionSuggestion{
		{
			Source:  "guide",
			Content: "Coordinate a combined assault to interrupt the titan's channeling before the blast completes.",
		},
	}

	defensive := "Use defensive or disruption abilities to shield the team from the impending firestorm."
	for _, item := range s.ItemCatalog {
		if item.Category == session.ItemCategoryDefense {
			defensive = fmt.Sprintf("Raise the %s or other defensive abilities to shield the team from the impending firestorm.", item.Name)
			break
		}
	}
	suggestions = append(suggestions, session.ActionSuggestion{Source: "guide", Content: defensive})

	return suggestions
}
