package registry

import (
	"sort"
	"strings"

	"github.com/2n4a/loreshifter/internal/session"
)

// normalizeAttributes coerces a requested attribute assignment into a legal
// one: every defined attribute gets a value clamped to its [min, max] range
// (absent attributes default to the minimum), unknown attribute ids are
// dropped, and when a point budget applies any surplus is shaved off the
// attributes sitting furthest above their minimum.
func normalizeAttributes(rules session.CharacterCreationRules, requested map[string]int) map[string]int {
	out := make(map[string]int, len(rules.Attributes))
	for _, def := range rules.Attributes {
		v, ok := requested[def.ID]
		if !ok {
			v = def.MinValue
		}
		if v < def.MinValue {
			v = def.MinValue
		}
		if v > def.MaxValue {
			v = def.MaxValue
		}
		out[def.ID] = v
	}

	if rules.TotalAssignablePoints <= 0 {
		return out
	}

	total := 0
	for _, v := range out {
		total += v
	}
	surplus := total - rules.TotalAssignablePoints
	if surplus <= 0 {
		return out
	}

	// Reduce the attributes with the most room above their minimum first,
	// keeping definition order on ties so the result is deterministic.
	defs := make([]session.AttributeDefinition, len(rules.Attributes))
	copy(defs, rules.Attributes)
	for surplus > 0 {
		sort.SliceStable(defs, func(i, j int) bool {
			return out[defs[i].ID]-defs[i].MinValue > out[defs[j].ID]-defs[j].MinValue
		})
		top := defs[0]
		if out[top.ID] <= top.MinValue {
			// Every attribute is already at its floor; the budget is simply
			// smaller than the sum of minimums.
			break
		}
		out[top.ID]--
		surplus--
	}
	return out
}

// filterInventory keeps only item ids present in the catalog, rewriting each
// to the catalog's canonical casing and dropping duplicates. Order of first
// occurrence is preserved; unknown ids vanish silently.
func filterInventory(catalog []session.ItemDefinition, requested []string) []string {
	canonical := make(map[string]string, len(catalog))
	for _, item := range catalog {
		canonical[strings.ToLower(item.ID)] = item.ID
	}

	out := make([]string, 0, len(requested))
	seen := make(map[string]bool, len(requested))
	for _, id := range requested {
		canon, ok := canonical[strings.ToLower(strings.TrimSpace(id))]
		if !ok || seen[canon] {
			continue
		}
		seen[canon] = true
		out = append(out, canon)
	}
	return out
}
