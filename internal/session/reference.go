package session

// Reference data attached to a session at creation time: world lore,
// character-creation rules, the item catalog and the boss profile. Modes
// clone their static reference sets into these fields; they are immutable
// for the session's lifetime.

type WorldDescription struct {
	Overview    string `json:"overview"`
	Geography   string `json:"geography"`
	MagicSystem string `json:"magic_system"`
	Culture     string `json:"culture"`
}

type AttributeDefinition struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	MinValue    int    `json:"min_value"`
	MaxValue    int    `json:"max_value"`
}

type CharacterCreationRules struct {
	Attributes            []AttributeDefinition `json:"attributes"`
	TotalAssignablePoints int                   `json:"total_assignable_points"`
	Guidance              string                `json:"guidance"`
}

type ItemCategory string

const (
	ItemCategoryAttack  ItemCategory = "attack"
	ItemCategoryDefense ItemCategory = "defense"
	ItemCategoryHealing ItemCategory = "healing"
)

type ItemRequirement struct {
	AttributeID    string `json:"attribute_id"`
	RequiredPoints int    `json:"required_points"`
}

type ItemEffect struct {
	StatID             string  `json:"stat_id"`
	Description        string  `json:"description"`
	BaseValue          int     `json:"base_value"`
	ScalingAttributeID string  `json:"scaling_attribute_id,omitempty"`
	ScalingPerPoint    float64 `json:"scaling_per_point,omitempty"`
	Unit               string  `json:"unit"`
}

type ItemDefinition struct {
	ID            string            `json:"id"`
	Name          string            `json:"name"`
	Category      ItemCategory      `json:"category"`
	Description   string            `json:"description"`
	Requirements  []ItemRequirement `json:"requirements"`
	Effects       []ItemEffect      `json:"effects"`
	ConsumedOnUse bool              `json:"consumed_on_use"`
}

// RagePhase is one narrative tier of the boss's behaviour, selected by the
// current rage value. Phases are matched highest threshold first.
type RagePhase struct {
	RageThreshold int    `json:"rage_threshold"`
	Description   string `json:"description"`
	AttackProfile string `json:"attack_profile"`
}

type BossProfile struct {
	Name               string      `json:"name"`
	Title              string      `json:"title"`
	Backstory          string      `json:"backstory"`
	CombatStyle        string      `json:"combat_style"`
	MaxHealth          int         `json:"max_health"`
	StartingRage       int         `json:"starting_rage"`
	SignatureEquipment []string    `json:"signature_equipment"`
	RagePhases         []RagePhase `json:"rage_phases"`
}

// CurrentRagePhase returns the highest-threshold phase satisfied by rage,
// or nil when no phases are defined.
func (b *BossProfile) CurrentRagePhase(rage int) *RagePhase {
	var best *RagePhase
	for i := range b.RagePhases {
		p := &b.RagePhases[i]
		if rage < p.RageThreshold {
			continue
		}
		if best == nil || p.RageThreshold > best.RageThreshold {
			best = p
		}
	}
	return best
}
